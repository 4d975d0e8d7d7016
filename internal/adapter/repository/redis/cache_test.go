package redis

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestCacheRoundTripUsesPrefix(t *testing.T) {
	client, mr := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "rentcfg:potato", []byte(`{"basis":"PKT1"}`), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := cache.Get(ctx, "rentcfg:potato")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(val) != `{"basis":"PKT1"}` {
		t.Fatalf("unexpected value: %s", val)
	}

	for _, key := range mr.Keys() {
		if !strings.HasPrefix(key, "coldledger:cache:") {
			t.Fatalf("expected namespaced key, got %s", key)
		}
	}
}

func TestCacheSetNXOnlyClaimsOnce(t *testing.T) {
	client, _ := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	set, err := cache.SetNX(ctx, "lock:batch:2025-11", []byte("first"), time.Minute)
	if err != nil || !set {
		t.Fatalf("expected first SetNX to claim, got set=%v err=%v", set, err)
	}

	set, err = cache.SetNX(ctx, "lock:batch:2025-11", []byte("second"), time.Minute)
	if err != nil {
		t.Fatalf("SetNX failed: %v", err)
	}
	if set {
		t.Fatal("expected second SetNX to be rejected")
	}
}

func TestCacheEntryExpires(t *testing.T) {
	client, mr := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "gst:potato", []byte("12"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := cache.Get(ctx, "gst:potato"); err == nil {
		t.Fatal("expected miss after TTL expiry")
	}
}

func TestCacheDeleteRemovesEntry(t *testing.T) {
	client, _ := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "rentcfg:onion", []byte("{}"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := cache.Delete(ctx, "rentcfg:onion"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := cache.Get(ctx, "rentcfg:onion"); err == nil {
		t.Fatal("expected miss for deleted key")
	}
}
