package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-appkit/internal/components/cache"
)

func TestSetGetDelete(t *testing.T) {
	c, err := cache.New(time.Minute)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := context.Background()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Fatal("expected miss for unknown key")
	}

	if err := c.Set(ctx, "greeting", "hello"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	value, ok := c.Get(ctx, "greeting")
	if !ok || value != "hello" {
		t.Fatalf("expected cached value, got %v (present %v)", value, ok)
	}

	if err := c.Delete(ctx, "greeting"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok := c.Get(ctx, "greeting"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestEntriesExpire(t *testing.T) {
	c, err := cache.New(10 * time.Millisecond)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "short", 1); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	time.Sleep(25 * time.Millisecond)
	if _, ok := c.Get(ctx, "short"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestRepositoryCacheSurfaces(t *testing.T) {
	c, err := cache.New(time.Minute)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if c.Service() == nil {
		t.Fatal("expected cache service for repository decoration")
	}
	if c.Serializer() == nil {
		t.Fatal("expected key serializer for repository decoration")
	}
}
