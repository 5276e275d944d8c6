package cache_test

import (
	"testing"

	"github.com/Strob0t/DocuCrew/internal/port/cache"
)

func TestKey(t *testing.T) {
	if got := cache.Key("snapshot", "acme/widgets", "anon"); got != "snapshot:acme/widgets:anon" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestFingerprint(t *testing.T) {
	if got := cache.Fingerprint(""); got != "anon" {
		t.Fatalf("expected anon for empty secret, got %q", got)
	}
	a, b := cache.Fingerprint("token-a"), cache.Fingerprint("token-b")
	if a == b {
		t.Fatal("different secrets must not share a fingerprint")
	}
	if a != cache.Fingerprint("token-a") {
		t.Fatal("fingerprint must be stable")
	}
	if len(a) != 16 {
		t.Fatalf("expected 16 hex chars, got %d", len(a))
	}
}
