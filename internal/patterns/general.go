package patterns

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"brandstudio/internal/models"
)

// GeneralMarket is the market label of a cross-market merge.
const GeneralMarket = "GENERAL"

// GetGeneralPatterns merges every market's entry for a platform and content
// type. Each category is the union of the markets' items, visiting markets
// in ascending order and keeping first-seen order, so unchanged data always
// merges to the same lists. Returns nil when no market has an entry.
func (e *Engine) GetGeneralPatterns(ctx context.Context, brandID, platform string, ct models.ContentType) (*models.PatternKnowledge, error) {
	platform = models.NormalizeTag(platform)

	if e.cache != nil {
		if pk, ok := e.cache.Get(ctx, brandID, platform, ct); ok {
			return pk, nil
		}
	}

	entries, err := e.store.ListByPlatform(ctx, brandID, platform, ct)
	if err != nil {
		return nil, fmt.Errorf("list patterns for %s/%s: %w", platform, ct, err)
	}
	merged := Merge(brandID, platform, ct, entries)
	if merged == nil {
		return nil, nil
	}

	if e.cache != nil {
		e.cache.Set(ctx, brandID, platform, ct, merged)
	}
	return merged, nil
}

// Merge unions the entries' categories. It sorts a copy of entries by
// market, so the result does not depend on the input order.
func Merge(brandID, platform string, ct models.ContentType, entries []models.PatternKnowledge) *models.PatternKnowledge {
	if len(entries) == 0 {
		return nil
	}
	sorted := append([]models.PatternKnowledge(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Market < sorted[j].Market })

	out := &models.PatternKnowledge{
		ID:          ID(GeneralMarket, platform, ct),
		BrandID:     brandID,
		Market:      GeneralMarket,
		Platform:    platform,
		ContentType: ct,
	}
	dst := out.Patterns.Categories()
	seen := make([]map[string]bool, len(dst))
	for i := range seen {
		seen[i] = make(map[string]bool)
	}

	var insights, marketer []string
	for _, entry := range sorted {
		for i, c := range entry.Patterns.Categories() {
			for _, item := range *c.Items {
				key := strings.ToLower(strings.TrimSpace(item))
				if key == "" || seen[i][key] {
					continue
				}
				seen[i][key] = true
				*dst[i].Items = append(*dst[i].Items, strings.TrimSpace(item))
			}
		}

		if s := strings.TrimSpace(entry.AutoExtractedInsights); s != "" && !strings.HasPrefix(s, FailurePrefix) {
			insights = append(insights, "["+entry.Market+"] "+s)
		}
		if s := strings.TrimSpace(entry.MarketerInsights); s != "" {
			marketer = append(marketer, "["+entry.Market+"] "+s)
		}

		out.PerformanceSummary.TotalExamples += entry.PerformanceSummary.TotalExamples
		if entry.PerformanceSummary.LastAnalyzed.After(out.PerformanceSummary.LastAnalyzed) {
			out.PerformanceSummary.LastAnalyzed = entry.PerformanceSummary.LastAnalyzed
		}
		if entry.UpdatedAt.After(out.UpdatedAt) {
			out.UpdatedAt = entry.UpdatedAt
		}
	}

	out.AutoExtractedInsights = strings.Join(insights, "\n")
	out.MarketerInsights = strings.Join(marketer, "\n")
	out.Patterns.Normalize()
	return out
}
