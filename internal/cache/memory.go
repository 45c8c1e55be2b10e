package cache

import (
	"context"
	"log/slog"
	"sync"

	"brandstudio/internal/models"
)

// memoryKey identifies one cached general merge.
type memoryKey struct {
	brandID  string
	platform string
	ct       models.ContentType
}

// Memory is an in-process pattern cache used when Valkey is not configured.
// It has the same method set as PatternCache but entries never expire; they
// live until the brand is invalidated.
type Memory struct {
	mu      sync.RWMutex
	entries map[memoryKey]models.PatternKnowledge
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[memoryKey]models.PatternKnowledge)}
}

// Get returns a cached merge. The second result is false on a miss.
func (m *Memory) Get(_ context.Context, brandID, platform string, ct models.ContentType) (*models.PatternKnowledge, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pk, ok := m.entries[memoryKey{brandID, platform, ct}]
	if !ok {
		return nil, false
	}
	return &pk, true
}

// Set stores a copy of the merge.
func (m *Memory) Set(_ context.Context, brandID, platform string, ct models.ContentType, pk *models.PatternKnowledge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[memoryKey{brandID, platform, ct}] = *pk
	slog.Debug("pattern merge cached", "brand", brandID, "platform", platform, "content_type", ct, "size", len(m.entries))
}

// InvalidateBrand removes every cached merge for a brand.
func (m *Memory) InvalidateBrand(_ context.Context, brandID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if k.brandID == brandID {
			delete(m.entries, k)
		}
	}
	slog.Debug("pattern merges invalidated", "brand", brandID)
}
