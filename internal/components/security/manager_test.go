package security_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-appkit/internal/components/security"
)

func TestSignValidateRoundTrip(t *testing.T) {
	manager := security.New(t.TempDir(), nil)

	payload := []byte("session payload")
	signature, err := manager.Sign(payload)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	valid, err := manager.Validate(payload, signature)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if !valid {
		t.Fatal("expected signature to validate")
	}

	valid, err = manager.Validate([]byte("tampered payload"), signature)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if valid {
		t.Fatal("expected tampered payload to fail validation")
	}
}

func TestGeneratedKeyPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("stable payload")

	first := security.New(dir, nil)
	signature, err := first.Sign(payload)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "validation.key")); err != nil {
		t.Fatalf("expected persisted key file: %v", err)
	}

	second := security.New(dir, nil)
	valid, err := second.Validate(payload, signature)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if !valid {
		t.Fatal("expected signature to validate with reloaded key")
	}
}

func TestExplicitKeySkipsPersistence(t *testing.T) {
	dir := t.TempDir()
	manager := security.New(dir, nil)
	manager.SetValidationKey([]byte("shared secret"))

	if _, err := manager.Sign([]byte("payload")); err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "validation.key")); !os.IsNotExist(err) {
		t.Fatal("expected no key file when key is configured explicitly")
	}
}

func TestRotateKeysInvalidatesOldSignatures(t *testing.T) {
	manager := security.New(t.TempDir(), nil)
	payload := []byte("payload")

	signature, err := manager.Sign(payload)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}
	if err := manager.RotateKeys(); err != nil {
		t.Fatalf("RotateKeys returned error: %v", err)
	}

	valid, err := manager.Validate(payload, signature)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if valid {
		t.Fatal("expected old signature to fail after rotation")
	}
}

func TestSignWithoutKeyOrDirectoryFails(t *testing.T) {
	manager := security.New("", nil)
	if _, err := manager.Sign([]byte("payload")); err == nil {
		t.Fatal("expected error without key or runtime directory")
	}
}
