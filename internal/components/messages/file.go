package messages

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goliatone/go-appkit/internal/locale"
	"github.com/goliatone/go-appkit/internal/logging"
	"github.com/goliatone/go-appkit/internal/registry"
	"github.com/goliatone/go-appkit/pkg/interfaces"
)

// FileSource translates message keys from per-language catalog files. The
// source-language catalog for a category lives at <base>/<category>.md;
// localized variants live at <base>/<language>/<category>.md and are found
// through the locale resolver.
type FileSource struct {
	base     string
	fsys     fs.FS
	resolver *locale.Resolver

	mu       sync.Mutex
	catalogs map[string]*Catalog

	logger interfaces.Logger
}

var _ interfaces.MessageSource = (*FileSource)(nil)

// FileOption mutates the file source during construction.
type FileOption func(*FileSource)

// WithFS reads catalogs from fsys instead of the host filesystem; base is
// then interpreted relative to fsys root. Used for the embedded core
// catalogs and in tests.
func WithFS(fsys fs.FS) FileOption {
	return func(s *FileSource) {
		s.fsys = fsys
	}
}

// WithLogger overrides the message source logger.
func WithLogger(logger interfaces.Logger) FileOption {
	return func(s *FileSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewFileSource constructs a file-backed source rooted at base, resolving
// localized catalogs through resolver.
func NewFileSource(base string, resolver *locale.Resolver, opts ...FileOption) *FileSource {
	s := &FileSource{
		base:     base,
		resolver: resolver,
		catalogs: map[string]*Catalog{},
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// FileFactory builds the application message source from its descriptor.
// Properties: base_path (string).
func FileFactory(_ context.Context, app interfaces.AppContext, cfg registry.Config) (interfaces.Component, error) {
	base, _ := cfg.Properties["base_path"].(string)
	if base == "" {
		if app == nil {
			return nil, errors.New("messages: base path is required")
		}
		base = filepath.Join(app.BasePath(), "messages")
	}

	var logger interfaces.Logger
	resolver := locale.New("")
	if app != nil {
		logger = app.Logger("app.messages")
		resolver = locale.New(app.Language())
	}
	return NewFileSource(base, resolver, WithLogger(logger)), nil
}

// Translate returns the message for key in category and language, falling
// back to the source-language catalog and finally to the key itself. A
// missing translation is not an error.
func (s *FileSource) Translate(_ context.Context, category, key, language string) (string, error) {
	if category == "" || key == "" {
		return key, nil
	}
	if language == "" {
		language = s.resolver.Language()
	}

	path := s.resolver.FindLocalizedFile(
		filepath.Join(s.base, category+".md"),
		locale.WithLanguage(language),
	)

	catalog, err := s.catalog(path)
	if err != nil {
		return key, err
	}
	if value, ok := catalog.Entries[key]; ok {
		return value, nil
	}

	// Localized catalog missed; consult the source-language catalog before
	// giving up.
	fallback := filepath.Join(s.base, category+".md")
	if fallback != path {
		catalog, err = s.catalog(fallback)
		if err != nil {
			return key, err
		}
		if value, ok := catalog.Entries[key]; ok {
			return value, nil
		}
	}

	s.logger.Debug("missing translation", "category", category, "key", key, "language", language)
	return key, nil
}

func (s *FileSource) catalog(path string) (*Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if catalog, ok := s.catalogs[path]; ok {
		return catalog, nil
	}

	data, err := s.read(path)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
		empty := &Catalog{Entries: map[string]string{}}
		s.catalogs[path] = empty
		return empty, nil
	}
	if err != nil {
		return nil, fmt.Errorf("messages: read catalog %q: %w", path, err)
	}

	catalog, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("messages: catalog %q: %w", path, err)
	}
	s.catalogs[path] = catalog
	return catalog, nil
}

func (s *FileSource) read(path string) ([]byte, error) {
	if s.fsys != nil {
		return fs.ReadFile(s.fsys, filepath.ToSlash(path))
	}
	return os.ReadFile(path)
}
