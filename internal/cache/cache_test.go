// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"brandstudio/internal/models"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, generalKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(context.Background(), host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestConnectValkeyUnreachable(t *testing.T) {
	if _, err := ConnectValkey(context.Background(), "127.0.0.1", "1", ""); err == nil {
		t.Fatal("expected error for unreachable Valkey")
	}
}

func TestGeneralKey(t *testing.T) {
	got := GeneralKey("northwind", "META", models.ContentTypeAdCopy)
	if got != "patterns:general:northwind:META:ad-copy" {
		t.Errorf("GeneralKey: got %q", got)
	}
}

func TestBrandMatchEscapesBrandID(t *testing.T) {
	tests := []struct {
		brandID string
		want    string
	}{
		{"northwind", "patterns:general:northwind:*"},
		{"acme*", "patterns:general:acme%2A:*"},
		{"a?[b]", "patterns:general:a%3F%5Bb%5D:*"},
		{`x\y`, "patterns:general:x%5Cy:*"},
		{"a:b", "patterns:general:a%3Ab:*"},
	}
	for _, tt := range tests {
		if got := brandMatch(tt.brandID); got != tt.want {
			t.Errorf("brandMatch(%q) = %q, want %q", tt.brandID, got, tt.want)
		}
	}
}

func TestPatternCacheSetGet(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPatternCache(client, time.Minute)
	ctx := context.Background()

	if _, ok := pc.Get(ctx, "brand-a", "META", models.ContentTypeAdCopy); ok {
		t.Fatal("expected miss on empty cache")
	}

	pk := &models.PatternKnowledge{
		ID:       "general",
		BrandID:  "brand-a",
		Platform: "META",
		Patterns: models.Patterns{HeadlineStyles: []string{"Questions"}},
	}
	pc.Set(ctx, "brand-a", "META", models.ContentTypeAdCopy, pk)

	got, ok := pc.Get(ctx, "brand-a", "META", models.ContentTypeAdCopy)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if len(got.Patterns.HeadlineStyles) != 1 || got.Patterns.HeadlineStyles[0] != "Questions" {
		t.Errorf("round trip: got %+v", got.Patterns)
	}

	ttl := client.TTL(ctx, GeneralKey("brand-a", "META", models.ContentTypeAdCopy)).Val()
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("TTL: got %v", ttl)
	}
}

func TestPatternCacheInvalidateBrand(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPatternCache(client, time.Minute)
	ctx := context.Background()

	pk := &models.PatternKnowledge{ID: "general"}
	pc.Set(ctx, "brand-a", "META", models.ContentTypeAdCopy, pk)
	pc.Set(ctx, "brand-a", "GOOGLE", models.ContentTypeBlog, pk)
	pc.Set(ctx, "brand-b", "META", models.ContentTypeAdCopy, pk)

	pc.InvalidateBrand(ctx, "brand-a")

	if _, ok := pc.Get(ctx, "brand-a", "META", models.ContentTypeAdCopy); ok {
		t.Error("brand-a META merge should be gone")
	}
	if _, ok := pc.Get(ctx, "brand-a", "GOOGLE", models.ContentTypeBlog); ok {
		t.Error("brand-a GOOGLE merge should be gone")
	}
	if _, ok := pc.Get(ctx, "brand-b", "META", models.ContentTypeAdCopy); !ok {
		t.Error("brand-b must not be affected")
	}
}

func TestPatternCacheInvalidateBrandWithGlobCharacters(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPatternCache(client, time.Minute)
	ctx := context.Background()

	pk := &models.PatternKnowledge{ID: "general"}
	pc.Set(ctx, "brand*", "META", models.ContentTypeAdCopy, pk)
	pc.Set(ctx, "brand-c", "META", models.ContentTypeAdCopy, pk)
	pc.Set(ctx, "brand*:x", "META", models.ContentTypeAdCopy, pk)

	pc.InvalidateBrand(ctx, "brand*")

	if _, ok := pc.Get(ctx, "brand*", "META", models.ContentTypeAdCopy); ok {
		t.Error("brand* merge should be gone")
	}
	if _, ok := pc.Get(ctx, "brand-c", "META", models.ContentTypeAdCopy); !ok {
		t.Error("brand-c must not be affected")
	}
	if _, ok := pc.Get(ctx, "brand*:x", "META", models.ContentTypeAdCopy); !ok {
		t.Error("brand*:x must not be affected")
	}
}

func TestNewPatternCacheDefaultTTL(t *testing.T) {
	pc := NewPatternCache(nil, 0)
	if pc.ttl != DefaultPatternTTL {
		t.Errorf("ttl: got %v, want %v", pc.ttl, DefaultPatternTTL)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, ok := m.Get(ctx, "b1", "META", models.ContentTypeAdCopy); ok {
		t.Fatal("expected miss on empty cache")
	}

	pk := &models.PatternKnowledge{ID: "general-meta-ad-copy", AutoExtractedInsights: "merged"}
	m.Set(ctx, "b1", "META", models.ContentTypeAdCopy, pk)
	m.Set(ctx, "b2", "META", models.ContentTypeAdCopy, pk)

	got, ok := m.Get(ctx, "b1", "META", models.ContentTypeAdCopy)
	if !ok || got.AutoExtractedInsights != "merged" {
		t.Fatalf("Get = %+v, %v", got, ok)
	}

	m.InvalidateBrand(ctx, "b1")
	if _, ok := m.Get(ctx, "b1", "META", models.ContentTypeAdCopy); ok {
		t.Error("b1 entry should be invalidated")
	}
	if _, ok := m.Get(ctx, "b2", "META", models.ContentTypeAdCopy); !ok {
		t.Error("b2 entry should survive b1 invalidation")
	}
}
