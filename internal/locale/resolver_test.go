package locale_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-appkit/internal/locale"
)

func TestLanguageDefaultsToSource(t *testing.T) {
	r := locale.New("")
	if got := r.SourceLanguage(); got != locale.DefaultSourceLanguage {
		t.Fatalf("expected default source language, got %q", got)
	}
	if got := r.Language(); got != locale.DefaultSourceLanguage {
		t.Fatalf("expected effective language to match source, got %q", got)
	}
}

func TestSetLanguageOverridesAndClears(t *testing.T) {
	r := locale.New("en_us")

	r.SetLanguage("fr_fr")
	if got := r.Language(); got != "fr_fr" {
		t.Fatalf("expected override language, got %q", got)
	}
	if got := r.SourceLanguage(); got != "en_us" {
		t.Fatalf("expected source language unchanged, got %q", got)
	}

	r.SetLanguage("")
	if got := r.Language(); got != "en_us" {
		t.Fatalf("expected cleared override to revert to source, got %q", got)
	}
}

func TestTimeZoneDefaultsToProcessZone(t *testing.T) {
	r := locale.New("en_us")
	if got := r.TimeZone(); got != time.Local {
		t.Fatalf("expected process zone, got %v", got)
	}

	utc := time.UTC
	r.SetTimeZone(utc)
	if got := r.TimeZone(); got != utc {
		t.Fatalf("expected UTC, got %v", got)
	}

	r.SetTimeZone(nil)
	if got := r.TimeZone(); got != time.Local {
		t.Fatalf("expected nil to restore process zone, got %v", got)
	}
}

func TestFindLocalizedFileReturnsCandidateWhenPresent(t *testing.T) {
	input := filepath.Join("views", "site", "index.html")
	want := filepath.Join("views", "site", "fr_fr", "index.html")

	r := locale.New("en_us", locale.WithExistsFunc(func(path string) bool {
		return path == want
	}))
	r.SetLanguage("fr_fr")

	if got := r.FindLocalizedFile(input); got != want {
		t.Fatalf("expected localized path %q, got %q", want, got)
	}
}

func TestFindLocalizedFileFallsBackWhenMissing(t *testing.T) {
	input := filepath.Join("views", "site", "index.html")

	r := locale.New("en_us", locale.WithExistsFunc(func(string) bool { return false }))
	r.SetLanguage("fr_fr")

	if got := r.FindLocalizedFile(input); got != input {
		t.Fatalf("expected fallback to input path, got %q", got)
	}
}

func TestFindLocalizedFileSkipsProbeForSourceLanguage(t *testing.T) {
	probed := false
	r := locale.New("en_us", locale.WithExistsFunc(func(string) bool {
		probed = true
		return true
	}))

	input := filepath.Join("views", "index.html")
	if got := r.FindLocalizedFile(input); got != input {
		t.Fatalf("expected input unchanged for source language, got %q", got)
	}
	if probed {
		t.Fatal("expected no file-store probe when languages are equal")
	}
}

func TestFindLocalizedFilePerLookupOverrides(t *testing.T) {
	want := filepath.Join("views", "es_es", "index.html")
	r := locale.New("en_us", locale.WithExistsFunc(func(path string) bool {
		return path == want
	}))

	got := r.FindLocalizedFile(
		filepath.Join("views", "index.html"),
		locale.WithLanguage("es_es"),
	)
	if got != want {
		t.Fatalf("expected per-lookup language override to apply, got %q", got)
	}

	// Overriding the source to match the target short-circuits the lookup.
	input := filepath.Join("views", "index.html")
	got = r.FindLocalizedFile(input,
		locale.WithLanguage("es_es"),
		locale.WithSourceLanguage("es_es"),
	)
	if got != input {
		t.Fatalf("expected equal languages to return input, got %q", got)
	}
}

func TestFindLocalizedFileEmptyPath(t *testing.T) {
	r := locale.New("en_us")
	r.SetLanguage("fr_fr")
	if got := r.FindLocalizedFile(""); got != "" {
		t.Fatalf("expected empty path unchanged, got %q", got)
	}
}
