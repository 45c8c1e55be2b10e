package models

import (
	"sort"
	"strings"
)

// CampaignExample is a hand-curated sample of prior content. It is used as a
// few-shot example during prompt assembly and as training signal for pattern
// extraction.
type CampaignExample struct {
	ID           string       `json:"id"`
	FunnelStage  FunnelStage  `json:"funnelStage"`
	ContentType  ContentType  `json:"contentType"`
	EmailSubtype EmailSubtype `json:"emailSubtype,omitempty"`
	Market       string       `json:"market,omitempty"`
	Platform     string       `json:"platform,omitempty"`
	Headline     string       `json:"headline"`
	BodyCopy     string       `json:"bodyCopy"`
	CTA          string       `json:"cta"`
	Notes        string       `json:"notes"`
	WhatWorks    string       `json:"whatWorks,omitempty"`
}

// Tagged reports whether the example carries both market and platform and
// can therefore contribute to pattern extraction.
func (e CampaignExample) Tagged() bool {
	return strings.TrimSpace(e.Market) != "" && strings.TrimSpace(e.Platform) != ""
}

// PatternGroupKey identifies the (market, platform, contentType) grouping
// that pattern knowledge is extracted for.
type PatternGroupKey struct {
	Market      string      `json:"market"`
	Platform    string      `json:"platform"`
	ContentType ContentType `json:"contentType"`
}

// Key returns the grouping key for a tagged example. Market and platform are
// upper-cased so that "emea" and "EMEA" land in the same group.
func (e CampaignExample) Key() PatternGroupKey {
	return PatternGroupKey{
		Market:      NormalizeTag(e.Market),
		Platform:    NormalizeTag(e.Platform),
		ContentType: e.ContentType,
	}
}

// NormalizeTag canonicalises a market or platform tag.
func NormalizeTag(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// GroupExamples buckets tagged examples by their (market, platform,
// contentType) key. Untagged examples are skipped. The returned keys are
// sorted by market, then platform, then content type.
func GroupExamples(examples []CampaignExample) (map[PatternGroupKey][]CampaignExample, []PatternGroupKey) {
	groups := make(map[PatternGroupKey][]CampaignExample)
	var keys []PatternGroupKey
	for _, ex := range examples {
		if !ex.Tagged() {
			continue
		}
		k := ex.Key()
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], ex)
	}
	SortGroupKeys(keys)
	return groups, keys
}

// SortGroupKeys orders keys by market, then platform, then content type.
func SortGroupKeys(keys []PatternGroupKey) {
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Market != b.Market {
			return a.Market < b.Market
		}
		if a.Platform != b.Platform {
			return a.Platform < b.Platform
		}
		return a.ContentType < b.ContentType
	})
}
