package locale

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goliatone/go-appkit/internal/logging"
	"github.com/goliatone/go-appkit/pkg/interfaces"
)

// DefaultSourceLanguage is the language the application source is written in
// when configuration says nothing else.
const DefaultSourceLanguage = "en_us"

// Resolver derives the effective language from an optional override against
// the fixed source language, and resolves localized file paths against the
// backing file store.
type Resolver struct {
	mu       sync.RWMutex
	source   string
	override string
	timeZone *time.Location

	exists func(path string) bool
	logger interfaces.Logger
}

// Option mutates the resolver during construction.
type Option func(*Resolver)

// WithExistsFunc overrides the file existence probe, primarily for tests.
func WithExistsFunc(exists func(string) bool) Option {
	return func(r *Resolver) {
		if exists != nil {
			r.exists = exists
		}
	}
}

// WithLogger overrides the locale logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New constructs a resolver for the given source language, defaulting to
// DefaultSourceLanguage when empty.
func New(sourceLanguage string, opts ...Option) *Resolver {
	if sourceLanguage == "" {
		sourceLanguage = DefaultSourceLanguage
	}
	r := &Resolver{
		source: sourceLanguage,
		exists: fileExists,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// SourceLanguage returns the language fixed at configuration time.
func (r *Resolver) SourceLanguage() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.source
}

// Language returns the effective language: the override when set, otherwise
// the source language.
func (r *Resolver) Language() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.override != "" {
		return r.override
	}
	return r.source
}

// SetLanguage installs a language override. The empty string clears the
// override, reverting to the source language.
func (r *Resolver) SetLanguage(language string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.override = language
}

// TimeZone returns the effective time zone, defaulting to the process zone.
func (r *Resolver) TimeZone() *time.Location {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.timeZone != nil {
		return r.timeZone
	}
	return time.Local
}

// SetTimeZone sets the effective time zone. Nil restores the process zone.
func (r *Resolver) SetTimeZone(zone *time.Location) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timeZone = zone
}

// FindOption adjusts a single localized file lookup.
type FindOption func(*findConfig)

type findConfig struct {
	sourceLanguage string
	language       string
}

// WithSourceLanguage overrides the source language for one lookup.
func WithSourceLanguage(language string) FindOption {
	return func(cfg *findConfig) {
		cfg.sourceLanguage = language
	}
}

// WithLanguage overrides the target language for one lookup.
func WithLanguage(language string) FindOption {
	return func(cfg *findConfig) {
		cfg.language = language
	}
}

// FindLocalizedFile returns the localized variant of path when one exists.
// The candidate inserts the target language as a directory segment between
// the directory and file-name components of the input. Equal source and
// target languages return the input unchanged without probing the file
// store. The function is pure given its inputs plus file-store existence.
func (r *Resolver) FindLocalizedFile(path string, opts ...FindOption) string {
	cfg := findConfig{
		sourceLanguage: r.SourceLanguage(),
		language:       r.Language(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if path == "" || cfg.language == "" || cfg.language == cfg.sourceLanguage {
		return path
	}

	candidate := filepath.Join(filepath.Dir(path), cfg.language, filepath.Base(path))
	if r.exists(candidate) {
		return candidate
	}
	return path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
