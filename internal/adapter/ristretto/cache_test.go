package ristretto_test

import (
	"context"
	"testing"
	"time"

	"github.com/Strob0t/DocuCrew/internal/adapter/ristretto"
	"github.com/Strob0t/DocuCrew/internal/port/cache"
)

var _ cache.Cache = (*ristretto.Cache)(nil)

func newCache(t *testing.T) *ristretto.Cache {
	t.Helper()
	c, err := ristretto.NewMB(8)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestCacheSetAndGet(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "snapshot:acme/widgets", []byte(`{"name":"widgets"}`), time.Minute); err != nil {
		t.Fatal(err)
	}
	val, found, err := c.Get(ctx, "snapshot:acme/widgets")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected found after Set")
	}
	if string(val) != `{"name":"widgets"}` {
		t.Fatalf("unexpected value %s", val)
	}
}

func TestCacheMiss(t *testing.T) {
	c := newCache(t)
	_, found, err := c.Get(context.Background(), "nonexistent")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("expected miss for nonexistent key")
	}
}

func TestCacheDelete(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "del-key", []byte("v"), time.Minute)
	if err := c.Delete(ctx, "del-key"); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := c.Get(ctx, "del-key"); found {
		t.Fatal("expected miss after Delete")
	}
	if err := c.Delete(ctx, "never-existed"); err != nil {
		t.Fatal("Delete of nonexistent key should not error")
	}
}

func TestCacheOverwrite(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "ow-key", []byte("v1"), time.Minute)
	_ = c.Set(ctx, "ow-key", []byte("v2"), time.Minute)
	val, found, _ := c.Get(ctx, "ow-key")
	if !found || string(val) != "v2" {
		t.Fatalf("expected v2 after overwrite, got %q (found=%v)", val, found)
	}
}

func TestCacheTinyBudget(t *testing.T) {
	// A budget below one snapshot still yields a working cache.
	c, err := ristretto.New(512)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	t.Cleanup(c.Close)

	ctx := context.Background()
	if err := c.Set(ctx, "snapshot:acme/tiny", []byte("{}"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := c.Get(ctx, "snapshot:acme/tiny"); !found {
		t.Fatal("expected small snapshot to be admitted")
	}
}
