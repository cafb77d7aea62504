package messages

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// Descriptor type keys for the two message source components.
const (
	FileTypeName = "appkit.messages.file"
	DBTypeName   = "appkit.messages.db"
)

// Metadata is the frontmatter envelope carried by message files.
type Metadata struct {
	Language    string    `yaml:"language"`
	Description string    `yaml:"description"`
	Updated     time.Time `yaml:"updated"`
}

// Catalog is one parsed message file: metadata plus key/value entries.
type Catalog struct {
	Meta    Metadata
	Entries map[string]string
}

// ParseCatalog decodes a message file: a YAML frontmatter envelope followed
// by one "key: value" entry per line. Blank lines and lines starting with
// '#' are ignored.
func ParseCatalog(source []byte) (*Catalog, error) {
	var meta Metadata

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("messages: parse frontmatter: %w", err)
	}

	entries := map[string]string{}
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("messages: malformed entry %q", line)
		}
		entries[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return &Catalog{Meta: meta, Entries: entries}, nil
}
