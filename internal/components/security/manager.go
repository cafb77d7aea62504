package security

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-appkit/internal/logging"
	"github.com/goliatone/go-appkit/internal/registry"
	"github.com/goliatone/go-appkit/pkg/interfaces"
)

// TypeName is the descriptor type key for the security manager component.
const TypeName = "appkit.securityManager"

const keyFileName = "validation.key"

// Manager signs and validates opaque payloads with HMAC-SHA256. The
// validation key is configured explicitly or generated once and persisted
// under the runtime path so signatures survive restarts.
type Manager struct {
	mu     sync.Mutex
	key    []byte
	dir    string
	logger interfaces.Logger
}

var (
	_ interfaces.SecurityManager = (*Manager)(nil)
	_ interfaces.Initializable   = (*Manager)(nil)
	_ registry.Configurable      = (*Manager)(nil)
)

// New constructs a manager persisting generated keys under dir.
func New(dir string, logger interfaces.Logger) *Manager {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Manager{dir: dir, logger: logger}
}

// Factory builds the manager from its descriptor; the key directory comes
// from the runtime path during Init.
func Factory(_ context.Context, app interfaces.AppContext, _ registry.Config) (interfaces.Component, error) {
	var logger interfaces.Logger
	if app != nil {
		logger = app.Logger("app.security")
	}
	return New("", logger), nil
}

// ApplyProperties implements registry.Configurable.
func (m *Manager) ApplyProperties(props map[string]any) error {
	if v, ok := props["validation_key"].(string); ok && v != "" {
		m.key = []byte(v)
	}
	return nil
}

// Init resolves the key directory and materializes the validation key.
func (m *Manager) Init(_ context.Context, app interfaces.AppContext) error {
	if app == nil {
		return errors.New("security: application context is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dir == "" {
		m.dir = app.RuntimePath()
	}
	return m.ensureKeyLocked()
}

// SetValidationKey installs an explicit key, bypassing persistence.
func (m *Manager) SetValidationKey(key []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.key = append([]byte(nil), key...)
}

// RotateKeys replaces the persisted validation key with a fresh one.
// Signatures produced under the previous key stop validating.
func (m *Manager) RotateKeys() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.key = nil
	if m.dir != "" {
		if err := os.Remove(m.keyPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("security: remove key file: %w", err)
		}
	}
	if err := m.ensureKeyLocked(); err != nil {
		return err
	}
	m.logger.Info("validation key rotated")
	return nil
}

// Sign computes the HMAC-SHA256 signature of data.
func (m *Manager) Sign(data []byte) ([]byte, error) {
	key, err := m.validationKey()
	if err != nil {
		return nil, err
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil), nil
}

// Validate reports whether signature matches data under the current key.
func (m *Manager) Validate(data, signature []byte) (bool, error) {
	expected, err := m.Sign(data)
	if err != nil {
		return false, err
	}
	return hmac.Equal(expected, signature), nil
}

func (m *Manager) validationKey() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureKeyLocked(); err != nil {
		return nil, err
	}
	return m.key, nil
}

func (m *Manager) keyPath() string {
	return filepath.Join(m.dir, keyFileName)
}

func (m *Manager) ensureKeyLocked() error {
	if len(m.key) > 0 {
		return nil
	}
	if m.dir == "" {
		return errors.New("security: no validation key configured and no runtime path to persist one")
	}

	data, err := os.ReadFile(m.keyPath())
	if err == nil && len(data) > 0 {
		m.key = data
		return nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("security: read key file: %w", err)
	}

	generated := []byte(hex.EncodeToString([]byte(uuid.New().String() + uuid.New().String())))
	if err := os.WriteFile(m.keyPath(), generated, 0o600); err != nil {
		return fmt.Errorf("security: persist key file: %w", err)
	}
	m.key = generated
	m.logger.Debug("validation key generated", "path", m.keyPath())
	return nil
}
