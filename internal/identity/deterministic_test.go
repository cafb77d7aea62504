package identity_test

import (
	"testing"

	"github.com/goliatone/go-appkit/internal/identity"
)

func TestApplicationIDIsStable(t *testing.T) {
	first := identity.ApplicationID("/srv/app", "billing")
	second := identity.ApplicationID("/srv/app", "billing")

	if first == "" {
		t.Fatal("expected non-empty identifier")
	}
	if first != second {
		t.Fatalf("expected stable identifier, got %q and %q", first, second)
	}
}

func TestApplicationIDIsHexEncoded(t *testing.T) {
	id := identity.ApplicationID("/srv/app", "billing")

	if len(id) != 32 {
		t.Fatalf("expected 32 hex characters, got %d (%q)", len(id), id)
	}
	for _, r := range id {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			t.Fatalf("expected lowercase hex, found %q in %q", r, id)
		}
	}
}

func TestApplicationIDVariesByInput(t *testing.T) {
	base := identity.ApplicationID("/srv/app", "billing")

	if other := identity.ApplicationID("/srv/other", "billing"); other == base {
		t.Fatal("expected base path changes to produce a different identifier")
	}
	if other := identity.ApplicationID("/srv/app", "invoicing"); other == base {
		t.Fatal("expected name changes to produce a different identifier")
	}
}

func TestApplicationIDTrimsWhitespace(t *testing.T) {
	plain := identity.ApplicationID("/srv/app", "billing")
	padded := identity.ApplicationID("  /srv/app  ", "  billing  ")

	if plain != padded {
		t.Fatalf("expected trimmed inputs to match, got %q and %q", plain, padded)
	}
}
