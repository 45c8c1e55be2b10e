package models

import "time"

// PatternKnowledge is the AI-summarised set of recurring traits extracted from
// one group of campaign examples sharing (market, platform, contentType).
type PatternKnowledge struct {
	ID                    string             `json:"id"`
	BrandID               string             `json:"brandId"`
	Market                string             `json:"market"`
	Platform              string             `json:"platform"`
	ContentType           ContentType        `json:"contentType"`
	Patterns              Patterns           `json:"patterns"`
	AutoExtractedInsights string             `json:"autoExtractedInsights"`
	MarketerInsights      string             `json:"marketerInsights,omitempty"`
	PerformanceSummary    PerformanceSummary `json:"performanceSummary"`
	UpdatedAt             time.Time          `json:"updatedAt"`
}

// Patterns holds the six categorised lists of short pattern descriptions.
type Patterns struct {
	HeadlineStyles        []string `json:"headlineStyles"`
	StructurePatterns     []string `json:"structurePatterns"`
	ToneCharacteristics   []string `json:"toneCharacteristics"`
	CTAStrategies         []string `json:"ctaStrategies"`
	ConversionTechniques  []string `json:"conversionTechniques"`
	SocialProofApproaches []string `json:"socialProofApproaches"`
}

// PerformanceSummary records how much evidence a knowledge entry is based on.
type PerformanceSummary struct {
	TotalExamples int       `json:"totalExamples"`
	LastAnalyzed  time.Time `json:"lastAnalyzed"`
}

// PatternCategory pairs a category label with a pointer to its list, so
// callers can iterate the categories in a fixed order.
type PatternCategory struct {
	Label string
	Items *[]string
}

// Categories returns the six categories in canonical order.
func (p *Patterns) Categories() []PatternCategory {
	return []PatternCategory{
		{"Headline styles", &p.HeadlineStyles},
		{"Structure patterns", &p.StructurePatterns},
		{"Tone characteristics", &p.ToneCharacteristics},
		{"CTA strategies", &p.CTAStrategies},
		{"Conversion techniques", &p.ConversionTechniques},
		{"Social proof approaches", &p.SocialProofApproaches},
	}
}

// Empty reports whether every category is empty.
func (p *Patterns) Empty() bool {
	for _, c := range p.Categories() {
		if len(*c.Items) > 0 {
			return false
		}
	}
	return true
}

// Normalize replaces nil lists with empty ones so the JSON shape is stable.
func (p *Patterns) Normalize() {
	for _, c := range p.Categories() {
		if *c.Items == nil {
			*c.Items = []string{}
		}
	}
}
