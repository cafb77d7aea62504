package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-appkit/internal/logging"
	"github.com/goliatone/go-appkit/internal/registry"
	"github.com/goliatone/go-appkit/pkg/interfaces"
)

// TypeName is the descriptor type key for the state persister component.
const TypeName = "appkit.statePersister"

// Store persists cross-request application state as a JSON file under the
// runtime path. The file name derives from the slugged application name so
// multiple applications can share one runtime directory.
type Store struct {
	mu       sync.Mutex
	path     string
	fileName string
	state    map[string]any
	dirty    bool
	loaded   bool
	logger   interfaces.Logger
}

var (
	_ interfaces.StatePersister = (*Store)(nil)
	_ interfaces.Initializable  = (*Store)(nil)
	_ registry.Configurable     = (*Store)(nil)
)

// New constructs a store writing to dir/fileName.
func New(dir, fileName string, logger interfaces.Logger) *Store {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Store{
		path:     dir,
		fileName: fileName,
		state:    map[string]any{},
		logger:   logger,
	}
}

// Factory builds the store from its descriptor; the file location is derived
// during Init, once the runtime path is known.
func Factory(_ context.Context, app interfaces.AppContext, _ registry.Config) (interfaces.Component, error) {
	var logger interfaces.Logger
	if app != nil {
		logger = app.Logger("app.state")
	}
	return New("", "", logger), nil
}

// ApplyProperties implements registry.Configurable.
func (s *Store) ApplyProperties(props map[string]any) error {
	if v, ok := props["file_name"].(string); ok && v != "" {
		s.fileName = v
	}
	return nil
}

// Init implements interfaces.Initializable: it resolves the state file
// location from the application runtime path and name.
func (s *Store) Init(_ context.Context, app interfaces.AppContext) error {
	if app == nil {
		return errors.New("statestore: application context is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		s.path = app.RuntimePath()
	}
	if s.fileName == "" {
		name, err := slug.Normalize(app.Name())
		if err != nil || name == "" {
			name = "app"
		}
		s.fileName = name + ".state.json"
	}
	return nil
}

func (s *Store) filePath() string {
	return filepath.Join(s.path, s.fileName)
}

// Load reads persisted state from disk. A missing file yields empty state.
func (s *Store) Load(_ context.Context) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, err
	}

	copied := make(map[string]any, len(s.state))
	for k, v := range s.state {
		copied[k] = v
	}
	return copied, nil
}

func (s *Store) loadLocked() error {
	if s.loaded {
		return nil
	}
	data, err := os.ReadFile(s.filePath())
	if errors.Is(err, os.ErrNotExist) {
		s.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("statestore: read %q: %w", s.filePath(), err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.state); err != nil {
			return fmt.Errorf("statestore: decode %q: %w", s.filePath(), err)
		}
	}
	s.loaded = true
	return nil
}

// Save replaces persisted state with the provided map and flushes to disk.
func (s *Store) Save(_ context.Context, state map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = make(map[string]any, len(state))
	for k, v := range state {
		s.state[k] = v
	}
	s.loaded = true
	return s.flushLocked()
}

// Get reads one state value, loading lazily on first access.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(); err != nil {
		s.logger.Warn("state load failed", "error", err)
		return nil, false
	}
	v, ok := s.state[key]
	return v, ok
}

// Set writes one state value; Flush persists pending writes.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(); err != nil {
		s.logger.Warn("state load failed", "error", err)
	}
	s.state[key] = value
	s.dirty = true
}

// Flush persists pending writes to disk.
func (s *Store) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("statestore: encode state: %w", err)
	}
	if err := os.WriteFile(s.filePath(), data, 0o644); err != nil {
		return fmt.Errorf("statestore: write %q: %w", s.filePath(), err)
	}
	s.dirty = false
	return nil
}

// Close flushes pending state during shutdown.
func (s *Store) Close() error {
	return s.Flush(context.Background())
}
