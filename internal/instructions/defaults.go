// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package instructions

import (
	"strings"

	"brandstudio/internal/models"
)

const placeholderPrefix = "[PLACEHOLDER:"

// Placeholder formats a marker for a field the brand team still has to fill in.
func Placeholder(what string) string {
	return placeholderPrefix + " " + what + "]"
}

// IsPlaceholder reports whether s is blank or an unfilled placeholder marker.
func IsPlaceholder(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.HasPrefix(s, placeholderPrefix)
}

// Default returns the complete template for a brand that has never been
// configured. Every string holds a placeholder and every list except the
// example lists has at least one entry.
func Default(brandID string) *models.BrandInstructions {
	return &models.BrandInstructions{
		BrandID:           brandID,
		BrandIntroduction: Placeholder("Who the brand is, what it offers and to whom"),
		Personas: []models.Persona{{
			Name:        Placeholder("Persona name"),
			Description: Placeholder("Who this person is and what they want"),
			PainPoints:  []string{Placeholder("A problem this persona faces")},
			Solution:    Placeholder("How the brand solves it"),
		}},
		CoreValues:   []string{Placeholder("Core value")},
		ToneOfVoice:  Placeholder("How the brand sounds"),
		KeyMessaging: []string{Placeholder("Key message")},
		CTAGuidance: models.CTAGuidance{
			TOFU: Placeholder("Awareness-stage call to action"),
			MOFU: Placeholder("Consideration-stage call to action"),
			BOFU: Placeholder("Decision-stage call to action"),
		},
		AdCopy:      defaultBlock("ad copy"),
		Blog:        defaultBlock("blog posts"),
		LandingPage: defaultBlock("landing pages"),
		Email:       defaultBlock("emails"),
		EmailSubtypes: models.EmailInstructions{
			NurturingDrip:   defaultBlock("nurturing drip emails"),
			EventInvitation: defaultBlock("event invitation emails"),
			Newsletter:      defaultBlock("newsletters"),
		},
		ReferenceMaterials: models.ReferenceMaterials{
			InterviewTranscripts: []string{Placeholder("Customer interview transcript")},
			Testimonials:         []string{Placeholder("Customer testimonial")},
		},
	}
}

func defaultBlock(what string) models.TypeSpecificInstructions {
	return models.TypeSpecificInstructions{
		SystemPrompt: Placeholder("System prompt for " + what),
		Requirements: Placeholder("Format and length requirements for " + what),
		Dos:          []string{Placeholder("Something " + what + " should always do")},
		Donts:        []string{Placeholder("Something " + what + " must never do")},
		Examples:     []models.CampaignExample{},
	}
}

// ApplyDefaults merges a stored, possibly partial document over the default
// template. Blank strings and empty lists take the template value; stored
// values win everywhere else. The result never has nil lists or nil nested
// blocks, so consumers can read any field without checks.
func ApplyDefaults(stored *models.BrandInstructions, brandID string) *models.BrandInstructions {
	out := Default(brandID)
	if stored == nil {
		return out
	}

	mergeString(&out.BrandIntroduction, stored.BrandIntroduction)
	mergeString(&out.ToneOfVoice, stored.ToneOfVoice)
	mergeList(&out.CoreValues, stored.CoreValues)
	mergeList(&out.KeyMessaging, stored.KeyMessaging)

	if len(stored.Personas) > 0 {
		tmpl := out.Personas[0]
		out.Personas = make([]models.Persona, len(stored.Personas))
		for i, p := range stored.Personas {
			merged := tmpl
			merged.PainPoints = append([]string(nil), tmpl.PainPoints...)
			mergeString(&merged.Name, p.Name)
			mergeString(&merged.Description, p.Description)
			mergeString(&merged.Solution, p.Solution)
			mergeList(&merged.PainPoints, p.PainPoints)
			out.Personas[i] = merged
		}
	}

	mergeString(&out.CTAGuidance.TOFU, stored.CTAGuidance.TOFU)
	mergeString(&out.CTAGuidance.MOFU, stored.CTAGuidance.MOFU)
	mergeString(&out.CTAGuidance.BOFU, stored.CTAGuidance.BOFU)

	mergeBlock(&out.AdCopy, stored.AdCopy)
	mergeBlock(&out.Blog, stored.Blog)
	mergeBlock(&out.LandingPage, stored.LandingPage)
	mergeBlock(&out.Email, stored.Email)
	mergeBlock(&out.EmailSubtypes.NurturingDrip, stored.EmailSubtypes.NurturingDrip)
	mergeBlock(&out.EmailSubtypes.EventInvitation, stored.EmailSubtypes.EventInvitation)
	mergeBlock(&out.EmailSubtypes.Newsletter, stored.EmailSubtypes.Newsletter)

	mergeList(&out.ReferenceMaterials.InterviewTranscripts, stored.ReferenceMaterials.InterviewTranscripts)
	mergeList(&out.ReferenceMaterials.Testimonials, stored.ReferenceMaterials.Testimonials)

	out.Version = stored.Version
	out.LastUpdatedBy = stored.LastUpdatedBy
	out.LastUpdated = stored.LastUpdated
	return out
}

func mergeBlock(dst *models.TypeSpecificInstructions, src models.TypeSpecificInstructions) {
	mergeString(&dst.SystemPrompt, src.SystemPrompt)
	mergeString(&dst.Requirements, src.Requirements)
	mergeList(&dst.Dos, src.Dos)
	mergeList(&dst.Donts, src.Donts)
	if len(src.Examples) > 0 {
		dst.Examples = append([]models.CampaignExample(nil), src.Examples...)
	}
}

func mergeString(dst *string, src string) {
	if strings.TrimSpace(src) != "" {
		*dst = src
	}
}

func mergeList(dst *[]string, src []string) {
	var kept []string
	for _, s := range src {
		if strings.TrimSpace(s) != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) > 0 {
		*dst = kept
	}
}
