package models

import (
	"time"

	"github.com/google/uuid"
)

// AdCopyVariation is one candidate ad among several generated for the same
// request, each with a distinct persona and angle.
type AdCopyVariation struct {
	Persona      string               `json:"persona"`
	Angle        string               `json:"angle"`
	Headline     string               `json:"headline"`
	PrimaryText  string               `json:"primaryText"`
	CTA          string               `json:"cta"`
	Keywords     []string             `json:"keywords"`
	ShortVersion string               `json:"shortVersion,omitempty"`
	LongVersion  string               `json:"longVersion,omitempty"`
	Validation   *VariationValidation `json:"validation,omitempty"`
}

// VariationValidation is the best-effort conformance verdict for a variation.
// It is informational: invalid variations are still returned.
type VariationValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// GeneratedContent is the ephemeral result of a generation call. It is only
// persisted when a human approves it.
type GeneratedContent struct {
	ContentType              ContentType       `json:"contentType"`
	EmailSubtype             EmailSubtype      `json:"emailSubtype,omitempty"`
	Format                   string            `json:"format,omitempty"`
	Variations               []AdCopyVariation `json:"variations,omitempty"`
	Title                    string            `json:"title,omitempty"`
	Subtitle                 string            `json:"subtitle,omitempty"`
	MetaDescription          string            `json:"metaDescription,omitempty"`
	SubjectLine              string            `json:"subjectLine,omitempty"`
	PreviewText              string            `json:"previewText,omitempty"`
	Content                  string            `json:"content,omitempty"`
	HTML                     string            `json:"html,omitempty"`
	WordCount                int               `json:"wordCount"`
	CharacterCount           int               `json:"characterCount"`
	FunnelStage              FunnelStage       `json:"funnelStage,omitempty"`
	Market                   string            `json:"market,omitempty"`
	Platform                 string            `json:"platform,omitempty"`
	ModelTier                string            `json:"modelTier"`
	UsedFallbackInstructions bool              `json:"usedFallbackInstructions"`
	PatternSource            string            `json:"patternSource"`
	GeneratedAt              time.Time         `json:"generatedAt"`
}

// ApprovedContent is a snapshot of a variation or content object that a
// human marked as good. Approved items are append-only.
type ApprovedContent struct {
	ID          uuid.UUID         `json:"id"`
	BrandID     string            `json:"brandId"`
	BrandName   string            `json:"brandName"`
	ContentType ContentType       `json:"contentType"`
	UserPrompt  string            `json:"userPrompt"`
	Variation   *AdCopyVariation  `json:"variation,omitempty"`
	Content     *GeneratedContent `json:"content,omitempty"`
	ImageURL    string            `json:"imageUrl,omitempty"`
	Market      string            `json:"market,omitempty"`
	Platform    string            `json:"platform,omitempty"`
	ApprovedAt  time.Time         `json:"approvedAt"`
}

// Headline returns the most descriptive headline available for the item.
func (a *ApprovedContent) Headline() string {
	if a.Variation != nil {
		return a.Variation.Headline
	}
	if a.Content != nil {
		switch {
		case a.Content.Title != "":
			return a.Content.Title
		case a.Content.SubjectLine != "":
			return a.Content.SubjectLine
		}
	}
	return ""
}

// Body returns the main copy of the approved item.
func (a *ApprovedContent) Body() string {
	if a.Variation != nil {
		return a.Variation.PrimaryText
	}
	if a.Content != nil {
		return a.Content.Content
	}
	return ""
}

// CTA returns the call to action, if the item carries one.
func (a *ApprovedContent) CTA() string {
	if a.Variation != nil {
		return a.Variation.CTA
	}
	return ""
}
