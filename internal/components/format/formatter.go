package format

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-appkit/internal/registry"
	"github.com/goliatone/go-appkit/pkg/interfaces"
)

// TypeName is the descriptor type key for the formatter component.
const TypeName = "appkit.format"

// Formatter renders values for presentation: numbers, booleans, dates, raw
// HTML escaping, and Markdown via goldmark. The goldmark engine is stateless
// so a single Formatter is safe to share across requests.
type Formatter struct {
	trueLabel  string
	falseLabel string
	dateLayout string
	engine     goldmark.Markdown
}

var (
	_ interfaces.Formatter  = (*Formatter)(nil)
	_ registry.Configurable = (*Formatter)(nil)
)

// New constructs a formatter with GFM extensions enabled.
func New() *Formatter {
	return &Formatter{
		trueLabel:  "Yes",
		falseLabel: "No",
		dateLayout: time.RFC3339,
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
		),
	}
}

// Factory builds the formatter from its descriptor.
func Factory(_ context.Context, _ interfaces.AppContext, _ registry.Config) (interfaces.Component, error) {
	return New(), nil
}

// ApplyProperties implements registry.Configurable.
func (f *Formatter) ApplyProperties(props map[string]any) error {
	if v, ok := props["true_label"].(string); ok && v != "" {
		f.trueLabel = v
	}
	if v, ok := props["false_label"].(string); ok && v != "" {
		f.falseLabel = v
	}
	if v, ok := props["date_layout"].(string); ok && v != "" {
		f.dateLayout = v
	}
	return nil
}

// Number renders value with the requested decimal places and thousands
// separators.
func (f *Formatter) Number(value float64, decimals int) string {
	formatted := strconv.FormatFloat(value, 'f', decimals, 64)

	sign := ""
	if strings.HasPrefix(formatted, "-") {
		sign = "-"
		formatted = formatted[1:]
	}

	whole, frac, _ := strings.Cut(formatted, ".")
	var grouped strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	result := sign + grouped.String()
	if frac != "" {
		result += "." + frac
	}
	return result
}

// Boolean renders value using the configured labels.
func (f *Formatter) Boolean(value bool) string {
	if value {
		return f.trueLabel
	}
	return f.falseLabel
}

// Date renders a time.Time or RFC3339 string using layout, defaulting to the
// configured layout when empty.
func (f *Formatter) Date(value any, layout string) (string, error) {
	if layout == "" {
		layout = f.dateLayout
	}
	switch v := value.(type) {
	case time.Time:
		return v.Format(layout), nil
	case *time.Time:
		if v == nil {
			return "", nil
		}
		return v.Format(layout), nil
	case string:
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return "", fmt.Errorf("format: parse date %q: %w", v, err)
		}
		return parsed.Format(layout), nil
	default:
		return "", fmt.Errorf("format: unsupported date value %T", value)
	}
}

// Markdown renders source to HTML.
func (f *Formatter) Markdown(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.engine.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("format: markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

// HTML escapes source for safe embedding.
func (f *Formatter) HTML(source string) string {
	return html.EscapeString(source)
}
