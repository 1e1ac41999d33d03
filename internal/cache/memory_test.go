package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestCache() *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := newTestCache()
	defer c.Close()

	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get = %q, want %q", got, "v")
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := newTestCache()
	defer c.Close()

	_, err := c.Get(context.Background(), "missing")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := newTestCache()
	defer c.Close()

	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("err = %v, want ErrCacheMiss after expiry", err)
	}
}

func TestMemoryCacheDeleteAndClear(t *testing.T) {
	c := newTestCache()
	defer c.Close()

	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "a"); !errors.Is(err, ErrCacheMiss) {
		t.Error("deleted key should miss")
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := c.Get(ctx, "b"); !errors.Is(err, ErrCacheMiss) {
		t.Error("cleared key should miss")
	}
}

func TestMemoryCacheClosed(t *testing.T) {
	c := newTestCache()
	_ = c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after Close = %v, want ErrCacheClosed", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after Close = %v, want ErrCacheClosed", err)
	}
}

func TestMemoryCacheMaxSize(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute, MaxSize: 2})
	defer c.Close()

	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	_ = c.Set(ctx, "c", []byte("3"), 0)

	// The cache is full of live entries, so the third write is dropped.
	if _, err := c.Get(ctx, "c"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get(c) = %v, want ErrCacheMiss when full", err)
	}
	if _, err := c.Get(ctx, "a"); err != nil {
		t.Errorf("Get(a) = %v, existing entries must survive", err)
	}
}
