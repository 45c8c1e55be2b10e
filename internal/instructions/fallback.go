package instructions

import (
	"strings"

	"brandstudio/internal/models"
)

// FallbackMarker opens the system prompt of every built-in fallback block.
const FallbackMarker = "[GENERIC FALLBACK INSTRUCTIONS]"

// IsConfigured reports whether a block has a real system prompt. A nil block,
// a blank prompt, or a placeholder prompt all count as unconfigured.
func IsConfigured(block *models.TypeSpecificInstructions) bool {
	return block != nil && !IsPlaceholder(block.SystemPrompt)
}

// Fallback returns the generic instruction block used when a brand has not
// configured a content type. The block carries no examples.
func Fallback(ct models.ContentType) models.TypeSpecificInstructions {
	label := ct.Label()
	sp := FallbackMarker + "\nYou are an experienced marketing copywriter. Write " + label +
		" that is clear, specific and true to the brand described below. Prefer concrete benefits over generic claims."

	var req string
	switch ct {
	case models.ContentTypeAdCopy:
		req = "Produce short, scannable ad copy: a headline under 40 characters, primary text of 20 to 60 words, and a CTA of at most 5 words."
	case models.ContentTypeBlog:
		req = "Write a structured article in Markdown with an H1 title, descriptive H2 sections and a closing call to action."
	case models.ContentTypeLandingPage:
		req = "Write landing page copy in Markdown: hero headline, subheadline, benefit sections, social proof placeholder and a single primary CTA."
	case models.ContentTypeEmail:
		req = "Write one email with a subject line under 60 characters, preview text, a short body and one clear CTA."
	default:
		req = "Keep the copy concise and aligned with the brand tone."
	}

	return models.TypeSpecificInstructions{
		SystemPrompt: sp,
		Requirements: req,
		Dos: []string{
			"Speak directly to the reader",
			"Use the brand's key messages",
		},
		Donts: []string{
			"Invent statistics, awards or testimonials",
			"Use clickbait or exaggerated urgency",
		},
		Examples: []models.CampaignExample{},
	}
}

// IsFallback reports whether a system prompt came from Fallback.
func IsFallback(systemPrompt string) bool {
	return strings.HasPrefix(systemPrompt, FallbackMarker)
}
