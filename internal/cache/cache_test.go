package cache

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := New[string, int](time.Minute)
	c.Set("a", 1)

	got, ok := c.Get("a")
	if !ok {
		t.Fatal("expected hit")
	}
	if got != 1 {
		t.Errorf("expected 1, got %d", got)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New[string, string](10 * time.Millisecond)
	c.Set("k", "v")

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	c := New[string, string](0)
	c.Set("k", "v")

	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("k"); !ok {
		t.Error("expected entry with zero TTL to persist")
	}
}

func TestCache_Delete(t *testing.T) {
	c := New[string, int](time.Minute)
	c.Set("a", 1)
	c.Delete("a")

	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after delete")
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}
