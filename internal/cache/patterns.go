// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"brandstudio/internal/models"
)

const (
	// generalKeyPrefix is the Valkey key prefix for cached general merges.
	generalKeyPrefix = "patterns:general:"

	// DefaultPatternTTL bounds how long a merge may outlive a missed
	// invalidation.
	DefaultPatternTTL = 30 * time.Minute
)

// PatternCache stores the cross-market general pattern merge per
// (brand, platform, content type). Any pattern write for a brand
// invalidates all of that brand's merges. Cache errors are logged and
// treated as misses.
type PatternCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPatternCache creates a pattern cache backed by the given Valkey client.
func NewPatternCache(client *redis.Client, ttl time.Duration) *PatternCache {
	if ttl == 0 {
		ttl = DefaultPatternTTL
	}
	return &PatternCache{client: client, ttl: ttl}
}

// GeneralKey returns the cache key for a general merge.
func GeneralKey(brandID, platform string, ct models.ContentType) string {
	return fmt.Sprintf("%s%s:%s:%s", generalKeyPrefix, brandSegment(brandID), platform, ct)
}

// brandSegment query-escapes a brand ID so the segment holds neither a
// colon nor a SCAN glob metacharacter (*, ?, [, ], \).
func brandSegment(brandID string) string {
	return url.QueryEscape(brandID)
}

// brandMatch is the SCAN pattern covering every merge of one brand.
func brandMatch(brandID string) string {
	return generalKeyPrefix + brandSegment(brandID) + ":*"
}

// Get returns a cached merge. The second result is false on a miss.
func (pc *PatternCache) Get(ctx context.Context, brandID, platform string, ct models.ContentType) (*models.PatternKnowledge, bool) {
	key := GeneralKey(brandID, platform, ct)
	val, err := pc.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("pattern cache get error", "key", key, "error", err)
		return nil, false
	}

	var pk models.PatternKnowledge
	if err := json.Unmarshal(val, &pk); err != nil {
		slog.Warn("pattern cache decode error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("pattern cache hit", "key", key)
	return &pk, true
}

// Set stores a merge with the configured TTL.
func (pc *PatternCache) Set(ctx context.Context, brandID, platform string, ct models.ContentType, pk *models.PatternKnowledge) {
	key := GeneralKey(brandID, platform, ct)
	payload, err := json.Marshal(pk)
	if err != nil {
		slog.Warn("pattern cache encode error", "key", key, "error", err)
		return
	}
	if err := pc.client.Set(ctx, key, payload, pc.ttl).Err(); err != nil {
		slog.Warn("pattern cache set error", "key", key, "error", err)
	}
}

// InvalidateBrand removes every cached merge for a brand by scanning for
// its key prefix.
func (pc *PatternCache) InvalidateBrand(ctx context.Context, brandID string) {
	var (
		cursor  uint64
		deleted int
	)
	match := brandMatch(brandID)
	for {
		keys, next, err := pc.client.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			slog.Warn("pattern cache scan error", "brand", brandID, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("pattern cache delete error", "brand", brandID, "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("pattern cache invalidated", "brand", brandID, "deleted", deleted)
	}
}
