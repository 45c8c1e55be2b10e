// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package patterns extracts recurring stylistic and structural traits from
// groups of campaign examples sharing (market, platform, contentType), stores
// them as pattern knowledge, and serves them back to prompt assembly.
package patterns

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"brandstudio/internal/ai"
	"brandstudio/internal/metrics"
	"brandstudio/internal/models"
	"brandstudio/internal/slug"
	"brandstudio/internal/store"
)

// refreshConcurrency bounds parallel extractions during a refresh.
const refreshConcurrency = 4

// Generator produces a model reply for a request. *ai.Registry satisfies it.
type Generator interface {
	Generate(ctx context.Context, req ai.Request) (string, error)
}

// Store persists pattern knowledge.
type Store interface {
	Get(ctx context.Context, brandID, id string) (*models.PatternKnowledge, error)
	Upsert(ctx context.Context, pk *models.PatternKnowledge) error
	Delete(ctx context.Context, brandID, id string) error
	ListByPlatform(ctx context.Context, brandID, platform string, ct models.ContentType) ([]models.PatternKnowledge, error)
	ListByBrand(ctx context.Context, brandID string) ([]models.PatternKnowledge, error)
}

// Cache holds general merges. Both cache.PatternCache and cache.Memory
// satisfy it.
type Cache interface {
	Get(ctx context.Context, brandID, platform string, ct models.ContentType) (*models.PatternKnowledge, bool)
	Set(ctx context.Context, brandID, platform string, ct models.ContentType, pk *models.PatternKnowledge)
	InvalidateBrand(ctx context.Context, brandID string)
}

// Engine runs extractions and reads and writes pattern knowledge.
type Engine struct {
	gen     Generator
	store   Store
	cache   Cache
	metrics metrics.Recorder
	now     func() time.Time
}

// NewEngine creates an Engine. A nil cache disables caching of general
// merges; a nil recorder discards metrics.
func NewEngine(gen Generator, st Store, cache Cache, rec metrics.Recorder) *Engine {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Engine{gen: gen, store: st, cache: cache, metrics: rec, now: time.Now}
}

// ID returns the deterministic knowledge ID for a group. Market and
// platform are escaped by slug.Key so the first two hyphens always delimit
// them; the content type is a fixed lowercase enum and is appended as is.
// Distinct groups therefore never share an ID.
func ID(market, platform string, ct models.ContentType) string {
	return slug.Key(market, platform) + "-" + string(ct)
}

// UpdatePatternKnowledge re-extracts a whole group and replaces its stored
// entry. Examples outside the group are ignored. Stored marketer insights
// survive unless marketerInsights is non-nil.
func (e *Engine) UpdatePatternKnowledge(ctx context.Context, brandID, market, platform string, ct models.ContentType, examples []models.CampaignExample, marketerInsights *string) (*models.PatternKnowledge, Result, error) {
	key := models.PatternGroupKey{
		Market:      models.NormalizeTag(market),
		Platform:    models.NormalizeTag(platform),
		ContentType: ct,
	}
	if key.Market == "" || key.Platform == "" || !ct.Valid() {
		return nil, Result{}, fmt.Errorf("pattern group needs market, platform and a valid content type")
	}

	group := make([]models.CampaignExample, 0, len(examples))
	for _, ex := range examples {
		if ex.Tagged() && ex.Key() == key {
			group = append(group, ex)
		}
	}
	if dropped := len(examples) - len(group); dropped > 0 {
		slog.Debug("examples outside pattern group ignored", "brand", brandID, "group", key, "dropped", dropped)
	}

	id := ID(key.Market, key.Platform, ct)
	existing, err := e.store.Get(ctx, brandID, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, Result{}, fmt.Errorf("load pattern knowledge %s: %w", id, err)
	}

	res := e.Extract(ctx, brandID, group, key.Market, key.Platform, ct)

	now := e.now().UTC()
	pk := &models.PatternKnowledge{
		ID:                    id,
		BrandID:               brandID,
		Market:                key.Market,
		Platform:              key.Platform,
		ContentType:           ct,
		Patterns:              res.Patterns,
		AutoExtractedInsights: res.Insights,
		PerformanceSummary: models.PerformanceSummary{
			TotalExamples: len(group),
			LastAnalyzed:  now,
		},
		UpdatedAt: now,
	}
	switch {
	case marketerInsights != nil:
		pk.MarketerInsights = strings.TrimSpace(*marketerInsights)
	case existing != nil:
		pk.MarketerInsights = existing.MarketerInsights
	}

	if err := e.store.Upsert(ctx, pk); err != nil {
		return nil, res, fmt.Errorf("save pattern knowledge %s: %w", id, err)
	}
	e.invalidate(ctx, brandID)

	slog.Info("pattern knowledge updated",
		"brand", brandID, "id", id, "examples", len(group), "extraction_failed", res.Err != nil)
	return pk, res, nil
}

// RemovePatternKnowledge drops the stored entry of a group that no longer
// has examples, so lookups fall back to the general merge.
func (e *Engine) RemovePatternKnowledge(ctx context.Context, brandID string, key models.PatternGroupKey) error {
	id := ID(key.Market, key.Platform, key.ContentType)
	if err := e.store.Delete(ctx, brandID, id); err != nil {
		return fmt.Errorf("remove pattern knowledge %s: %w", id, err)
	}
	e.invalidate(ctx, brandID)
	slog.Info("pattern knowledge removed", "brand", brandID, "id", id)
	return nil
}

// GroupResult reports the outcome of refreshing one group.
type GroupResult struct {
	Group            models.PatternGroupKey `json:"group"`
	ID               string                 `json:"id"`
	TotalExamples    int                    `json:"totalExamples"`
	ExtractionFailed bool                   `json:"extractionFailed"`
	Removed          bool                   `json:"removed,omitempty"`
	Error            string                 `json:"error,omitempty"`
}

// RefreshSummary collects the per-group outcomes of a refresh.
type RefreshSummary struct {
	Groups  []GroupResult `json:"groups"`
	Updated int           `json:"updated"`
	Removed int           `json:"removed"`
	Failed  int           `json:"failed"`
}

// RefreshFromInstructions re-extracts every tagged example group in the
// document.
func (e *Engine) RefreshFromInstructions(ctx context.Context, brandID string, doc *models.BrandInstructions) *RefreshSummary {
	_, keys := models.GroupExamples(doc.AllExamples())
	return e.RefreshGroups(ctx, brandID, doc, keys)
}

// RefreshGroups re-extracts the listed groups concurrently. A group without
// examples in doc has its entry removed instead. A failing group is logged
// and reported; it never stops the others.
func (e *Engine) RefreshGroups(ctx context.Context, brandID string, doc *models.BrandInstructions, keys []models.PatternGroupKey) *RefreshSummary {
	summary := &RefreshSummary{Groups: make([]GroupResult, len(keys))}
	if len(keys) == 0 {
		return summary
	}
	groups, _ := models.GroupExamples(doc.AllExamples())

	var g errgroup.Group
	g.SetLimit(refreshConcurrency)
	for i, key := range keys {
		g.Go(func() error {
			examples := groups[key]
			out := GroupResult{
				Group:         key,
				ID:            ID(key.Market, key.Platform, key.ContentType),
				TotalExamples: len(examples),
			}
			defer func() { summary.Groups[i] = out }()
			if len(examples) == 0 {
				out.Removed = true
				if err := e.RemovePatternKnowledge(ctx, brandID, key); err != nil {
					slog.Error("pattern group removal failed", "brand", brandID, "group", key, "error", err)
					out.Error = err.Error()
				}
				return nil
			}
			_, res, err := e.UpdatePatternKnowledge(ctx, brandID, key.Market, key.Platform, key.ContentType, examples, nil)
			if err != nil {
				slog.Error("pattern group refresh failed", "brand", brandID, "group", key, "error", err)
				out.Error = err.Error()
			}
			out.ExtractionFailed = res.Err != nil
			return nil
		})
	}
	_ = g.Wait()

	for _, gr := range summary.Groups {
		switch {
		case gr.Error != "" || gr.ExtractionFailed:
			summary.Failed++
		case gr.Removed:
			summary.Removed++
		default:
			summary.Updated++
		}
	}
	return summary
}

// Source says where the pattern knowledge used for a generation came from.
type Source string

const (
	SourceMarket  Source = "market"
	SourceGeneral Source = "general"
	SourceNone    Source = "none"
)

// Lookup returns the exact entry for a group, else the cross-market merge
// for the platform and content type, else nothing.
func (e *Engine) Lookup(ctx context.Context, brandID, market, platform string, ct models.ContentType) (*models.PatternKnowledge, Source, error) {
	market, platform = models.NormalizeTag(market), models.NormalizeTag(platform)
	if market == "" || platform == "" {
		return nil, SourceNone, nil
	}

	pk, err := e.store.Get(ctx, brandID, ID(market, platform, ct))
	switch {
	case err == nil:
		return pk, SourceMarket, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, SourceNone, fmt.Errorf("lookup patterns: %w", err)
	}

	general, err := e.GetGeneralPatterns(ctx, brandID, platform, ct)
	if err != nil {
		return nil, SourceNone, err
	}
	if general == nil {
		return nil, SourceNone, nil
	}
	return general, SourceGeneral, nil
}

// List returns every stored entry for a brand.
func (e *Engine) List(ctx context.Context, brandID string) ([]models.PatternKnowledge, error) {
	list, err := e.store.ListByBrand(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	return list, nil
}

// SetMarketerInsights replaces the marketer insights of an existing entry
// without re-running extraction.
func (e *Engine) SetMarketerInsights(ctx context.Context, brandID, market, platform string, ct models.ContentType, insights string) (*models.PatternKnowledge, error) {
	id := ID(models.NormalizeTag(market), models.NormalizeTag(platform), ct)
	pk, err := e.store.Get(ctx, brandID, id)
	if err != nil {
		return nil, fmt.Errorf("load pattern knowledge %s: %w", id, err)
	}

	pk.MarketerInsights = strings.TrimSpace(insights)
	pk.UpdatedAt = e.now().UTC()
	if err := e.store.Upsert(ctx, pk); err != nil {
		return nil, fmt.Errorf("save pattern knowledge %s: %w", id, err)
	}
	e.invalidate(ctx, brandID)
	return pk, nil
}

func (e *Engine) invalidate(ctx context.Context, brandID string) {
	if e.cache != nil {
		e.cache.InvalidateBrand(ctx, brandID)
	}
}
