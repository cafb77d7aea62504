package messages_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-appkit/internal/components/messages"
	"github.com/goliatone/go-appkit/internal/locale"
	"github.com/goliatone/go-appkit/pkg/testsupport"
)

const appCatalog = `---
language: en_us
description: Application messages.
---
greeting: Hello
farewell: Goodbye
# source-only entry
untranslated: Source only
`

const appCatalogES = `---
language: es_es
description: Mensajes de la aplicacion.
---
greeting: Hola
farewell: Adios
`

func newFileSource(t *testing.T) *messages.FileSource {
	t.Helper()
	base := t.TempDir()
	if _, err := testsupport.WriteMessageFile(base, "app.md", appCatalog); err != nil {
		t.Fatalf("write source catalog: %v", err)
	}
	if _, err := testsupport.WriteMessageFile(filepath.Join(base, "es_es"), "app.md", appCatalogES); err != nil {
		t.Fatalf("write localized catalog: %v", err)
	}
	return messages.NewFileSource(base, locale.New("en_us"))
}

func TestTranslateSourceLanguage(t *testing.T) {
	source := newFileSource(t)

	got, err := source.Translate(context.Background(), "app", "greeting", "en_us")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != "Hello" {
		t.Fatalf("expected source translation, got %q", got)
	}
}

func TestTranslateLocalizedCatalog(t *testing.T) {
	source := newFileSource(t)

	got, err := source.Translate(context.Background(), "app", "greeting", "es_es")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != "Hola" {
		t.Fatalf("expected localized translation, got %q", got)
	}
}

func TestTranslateFallsBackToSourceCatalog(t *testing.T) {
	source := newFileSource(t)

	got, err := source.Translate(context.Background(), "app", "untranslated", "es_es")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != "Source only" {
		t.Fatalf("expected source-catalog fallback, got %q", got)
	}
}

func TestTranslateMissingKeyReturnsKey(t *testing.T) {
	source := newFileSource(t)

	got, err := source.Translate(context.Background(), "app", "missing.key", "es_es")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != "missing.key" {
		t.Fatalf("expected key fallback, got %q", got)
	}
}

func TestTranslateMissingCatalogReturnsKey(t *testing.T) {
	source := messages.NewFileSource(t.TempDir(), locale.New("en_us"))

	got, err := source.Translate(context.Background(), "nope", "some.key", "en_us")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != "some.key" {
		t.Fatalf("expected key fallback for missing catalog, got %q", got)
	}
}

func TestParseCatalogMetadataAndComments(t *testing.T) {
	catalog, err := messages.ParseCatalog([]byte(appCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog returned error: %v", err)
	}
	if catalog.Meta.Language != "en_us" {
		t.Fatalf("expected frontmatter language, got %q", catalog.Meta.Language)
	}
	if len(catalog.Entries) != 3 {
		t.Fatalf("expected comment lines skipped, got %d entries", len(catalog.Entries))
	}
}

func TestParseCatalogRejectsMalformedEntry(t *testing.T) {
	if _, err := messages.ParseCatalog([]byte("just a line without separator")); err == nil {
		t.Fatal("expected error for malformed entry")
	}
}

func TestCoreSourceServesEmbeddedCatalogs(t *testing.T) {
	source := messages.NewCoreSource("en_us")
	ctx := context.Background()

	got, err := source.Translate(ctx, "app", "error.not_found", "en_us")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != "The requested resource was not found." {
		t.Fatalf("unexpected core message: %q", got)
	}

	got, err = source.Translate(ctx, "app", "error.not_found", "es_es")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != "No se ha encontrado el recurso solicitado." {
		t.Fatalf("unexpected localized core message: %q", got)
	}
}
