package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// LoadFixture reads a raw fixture file.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// LoadGolden unmarshals a JSON golden file into v.
func LoadGolden(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// WriteMessageFile drops a message catalog file under dir, creating parent
// directories as needed. Useful for building per-language message trees in
// temp dirs.
func WriteMessageFile(dir, name, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
