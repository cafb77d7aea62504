package messages_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-appkit/internal/components/messages"
	"github.com/goliatone/go-appkit/pkg/testsupport"
)

func newDBSource(t *testing.T) *messages.DBSource {
	t.Helper()
	db, err := testsupport.NewBunMemoryDB()
	if err != nil {
		t.Fatalf("open memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	source, err := messages.NewDBSource(db, "en_us")
	if err != nil {
		t.Fatalf("NewDBSource returned error: %v", err)
	}
	if err := source.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema returned error: %v", err)
	}
	return source
}

func TestDBTranslateSeededMessage(t *testing.T) {
	source := newDBSource(t)
	ctx := context.Background()

	if err := source.Seed(ctx, "checkout", "cart.empty", "en_us", "Your cart is empty."); err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}
	if err := source.Seed(ctx, "checkout", "cart.empty", "es_es", "Su carrito esta vacio."); err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}

	got, err := source.Translate(ctx, "checkout", "cart.empty", "es_es")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != "Su carrito esta vacio." {
		t.Fatalf("expected localized row, got %q", got)
	}
}

func TestDBTranslateFallsBackToSourceLanguage(t *testing.T) {
	source := newDBSource(t)
	ctx := context.Background()

	if err := source.Seed(ctx, "billing", "invoice.sent", "en_us", "Invoice sent."); err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}

	got, err := source.Translate(ctx, "billing", "invoice.sent", "fr_fr")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != "Invoice sent." {
		t.Fatalf("expected source-language fallback, got %q", got)
	}
}

func TestDBTranslateMissingRowReturnsKey(t *testing.T) {
	source := newDBSource(t)

	got, err := source.Translate(context.Background(), "billing", "invoice.unknown", "en_us")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != "invoice.unknown" {
		t.Fatalf("expected key fallback, got %q", got)
	}
}

func TestDBTranslateLanguageIsCaseInsensitive(t *testing.T) {
	source := newDBSource(t)
	ctx := context.Background()

	if err := source.Seed(ctx, "profile", "name.label", "EN_US", "Name"); err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}

	got, err := source.Translate(ctx, "profile", "name.label", "En_Us")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != "Name" {
		t.Fatalf("expected case-insensitive language match, got %q", got)
	}
}
