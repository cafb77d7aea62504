package webrequest

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-appkit/internal/registry"
	"github.com/goliatone/go-appkit/pkg/interfaces"
)

// RequestTypeName is the descriptor type key for the request component.
const RequestTypeName = "appkit.request"

// Request carries per-request inputs: an identifier, caller metadata, and
// request parameters. Hosts populate it from their transport of choice before
// invoking Run.
type Request struct {
	id             uuid.UUID
	params         map[string]string
	userAgent      string
	acceptLanguage string
}

var _ registry.Configurable = (*Request)(nil)

// NewRequest constructs an empty request with a fresh identifier.
func NewRequest() *Request {
	return &Request{
		id:     uuid.New(),
		params: map[string]string{},
	}
}

// RequestFactory builds the request component from its descriptor.
func RequestFactory(_ context.Context, _ interfaces.AppContext, _ registry.Config) (interfaces.Component, error) {
	return NewRequest(), nil
}

// ApplyProperties implements registry.Configurable.
func (r *Request) ApplyProperties(props map[string]any) error {
	if v, ok := props["user_agent"].(string); ok {
		r.userAgent = v
	}
	if v, ok := props["accept_language"].(string); ok {
		r.acceptLanguage = v
	}
	return nil
}

// ID returns the request identifier.
func (r *Request) ID() uuid.UUID { return r.id }

// UserAgent returns the caller user agent, when supplied.
func (r *Request) UserAgent() string { return r.userAgent }

// SetUserAgent records the caller user agent.
func (r *Request) SetUserAgent(ua string) { r.userAgent = ua }

// SetAcceptLanguage records the raw Accept-Language header value.
func (r *Request) SetAcceptLanguage(header string) { r.acceptLanguage = header }

// Param returns a request parameter by name.
func (r *Request) Param(name string) (string, bool) {
	v, ok := r.params[name]
	return v, ok
}

// SetParam records a request parameter.
func (r *Request) SetParam(name, value string) {
	r.params[name] = value
}

// PreferredLanguage selects the best match between the Accept-Language
// header and the available languages, in header quality order. An empty
// result means no overlap.
func (r *Request) PreferredLanguage(available []string) string {
	if r.acceptLanguage == "" || len(available) == 0 {
		return ""
	}

	for _, candidate := range parseAcceptLanguage(r.acceptLanguage) {
		for _, lang := range available {
			if languagesMatch(candidate, lang) {
				return lang
			}
		}
	}
	return ""
}

type weightedLanguage struct {
	tag    string
	weight float64
}

func parseAcceptLanguage(header string) []string {
	parts := strings.Split(header, ",")
	weighted := make([]weightedLanguage, 0, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		weight := 1.0
		if idx := strings.Index(tag, ";"); idx >= 0 {
			attrs := strings.TrimSpace(tag[idx+1:])
			tag = strings.TrimSpace(tag[:idx])
			if strings.HasPrefix(attrs, "q=") {
				if parsed, err := strconv.ParseFloat(strings.TrimPrefix(attrs, "q="), 64); err == nil {
					weight = parsed
				}
			}
		}
		weighted = append(weighted, weightedLanguage{tag: tag, weight: weight})
	}

	// Stable insertion sort by descending weight preserves header order for
	// equal qualities.
	for i := 1; i < len(weighted); i++ {
		for j := i; j > 0 && weighted[j].weight > weighted[j-1].weight; j-- {
			weighted[j], weighted[j-1] = weighted[j-1], weighted[j]
		}
	}

	tags := make([]string, 0, len(weighted))
	for _, w := range weighted {
		tags = append(tags, w.tag)
	}
	return tags
}

func languagesMatch(requested, available string) bool {
	normalize := func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "-", "_"))
	}
	req, avail := normalize(requested), normalize(available)
	if req == avail || req == "*" {
		return true
	}
	// A bare primary tag matches any regional variant.
	if base, _, found := strings.Cut(avail, "_"); found && req == base {
		return true
	}
	return false
}
