package messages

import (
	"embed"
	"io/fs"
	"path/filepath"

	"github.com/goliatone/go-appkit/internal/locale"
)

//go:embed defaults
var coreCatalogFS embed.FS

// CoreTypeName is the descriptor type key for the framework message source.
const CoreTypeName = "appkit.messages.core"

// NewCoreSource returns the message source backed by the embedded framework
// catalogs. sourceLanguage seeds the resolver used for localized lookups.
func NewCoreSource(sourceLanguage string, opts ...FileOption) *FileSource {
	sub, err := fs.Sub(coreCatalogFS, "defaults")
	if err != nil {
		// The embedded tree is fixed at build time; a missing subdirectory
		// is a packaging bug, not a runtime condition.
		panic(err)
	}

	resolver := locale.New(sourceLanguage, locale.WithExistsFunc(func(path string) bool {
		info, statErr := fs.Stat(sub, filepath.ToSlash(path))
		return statErr == nil && !info.IsDir()
	}))

	opts = append([]FileOption{WithFS(sub)}, opts...)
	return NewFileSource(".", resolver, opts...)
}
