// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// BrandInstructions is the per-brand rule set that steers generation.
// One document exists per brand; it is replaced wholesale on save.
type BrandInstructions struct {
	BrandID            string                   `json:"brandId"`
	BrandIntroduction  string                   `json:"brandIntroduction"`
	Personas           []Persona                `json:"personas"`
	CoreValues         []string                 `json:"coreValues"`
	ToneOfVoice        string                   `json:"toneOfVoice"`
	KeyMessaging       []string                 `json:"keyMessaging"`
	CTAGuidance        CTAGuidance              `json:"ctaGuidance"`
	AdCopy             TypeSpecificInstructions `json:"adCopyInstructions"`
	Blog               TypeSpecificInstructions `json:"blogInstructions"`
	LandingPage        TypeSpecificInstructions `json:"landingPageInstructions"`
	Email              TypeSpecificInstructions `json:"emailInstructions"`
	EmailSubtypes      EmailInstructions        `json:"emailSubtypeInstructions"`
	ReferenceMaterials ReferenceMaterials       `json:"referenceMaterials"`
	Version            int                      `json:"version"`
	LastUpdatedBy      string                   `json:"lastUpdatedBy"`
	LastUpdated        time.Time                `json:"lastUpdated"`
}

// Persona describes one target customer archetype.
type Persona struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PainPoints  []string `json:"painPoints"`
	Solution    string   `json:"solution"`
}

// CTAGuidance holds call-to-action advice per funnel stage.
type CTAGuidance struct {
	TOFU string `json:"tofu"`
	MOFU string `json:"mofu"`
	BOFU string `json:"bofu"`
}

// ForStage returns the guidance for a funnel stage, or "" when the stage is unset.
func (g CTAGuidance) ForStage(stage FunnelStage) string {
	switch stage {
	case StageTOFU:
		return g.TOFU
	case StageMOFU:
		return g.MOFU
	case StageBOFU:
		return g.BOFU
	}
	return ""
}

// TypeSpecificInstructions configures generation for one content type.
type TypeSpecificInstructions struct {
	SystemPrompt string            `json:"systemPrompt"`
	Requirements string            `json:"requirements"`
	Dos          []string          `json:"dos"`
	Donts        []string          `json:"donts"`
	Examples     []CampaignExample `json:"examples"`
}

// EmailInstructions holds the sub-instructions for each email subtype.
type EmailInstructions struct {
	NurturingDrip   TypeSpecificInstructions `json:"nurturingDrip"`
	EventInvitation TypeSpecificInstructions `json:"eventInvitation"`
	Newsletter      TypeSpecificInstructions `json:"newsletter"`
}

// ReferenceMaterials carries raw source material the model may quote.
type ReferenceMaterials struct {
	InterviewTranscripts []string `json:"interviewTranscripts"`
	Testimonials         []string `json:"testimonials"`
}

// Block returns a pointer to the instruction block for a content type and
// optional email subtype. Returns nil for unknown content types.
func (bi *BrandInstructions) Block(ct ContentType, subtype EmailSubtype) *TypeSpecificInstructions {
	switch ct {
	case ContentTypeAdCopy:
		return &bi.AdCopy
	case ContentTypeBlog:
		return &bi.Blog
	case ContentTypeLandingPage:
		return &bi.LandingPage
	case ContentTypeEmail:
		switch subtype {
		case EmailNurturingDrip:
			return &bi.EmailSubtypes.NurturingDrip
		case EmailEventInvitation:
			return &bi.EmailSubtypes.EventInvitation
		case EmailNewsletter:
			return &bi.EmailSubtypes.Newsletter
		}
		return &bi.Email
	}
	return nil
}

// AllExamples returns every campaign example across all blocks. Examples
// that do not carry a content type inherit the type of their block.
func (bi *BrandInstructions) AllExamples() []CampaignExample {
	type source struct {
		ct      ContentType
		subtype EmailSubtype
		block   *TypeSpecificInstructions
	}
	sources := []source{
		{ContentTypeAdCopy, "", &bi.AdCopy},
		{ContentTypeBlog, "", &bi.Blog},
		{ContentTypeLandingPage, "", &bi.LandingPage},
		{ContentTypeEmail, "", &bi.Email},
		{ContentTypeEmail, EmailNurturingDrip, &bi.EmailSubtypes.NurturingDrip},
		{ContentTypeEmail, EmailEventInvitation, &bi.EmailSubtypes.EventInvitation},
		{ContentTypeEmail, EmailNewsletter, &bi.EmailSubtypes.Newsletter},
	}

	var out []CampaignExample
	for _, s := range sources {
		for _, ex := range s.block.Examples {
			if ex.ContentType == "" {
				ex.ContentType = s.ct
			}
			if ex.EmailSubtype == "" {
				ex.EmailSubtype = s.subtype
			}
			out = append(out, ex)
		}
	}
	return out
}

// InstructionRevision is a snapshot of a brand's instructions taken on every
// save or reset. Revisions form the manual edit history.
type InstructionRevision struct {
	ID        uuid.UUID         `json:"id"`
	BrandID   string            `json:"brandId"`
	Version   int               `json:"version"`
	Document  BrandInstructions `json:"document"`
	EditedBy  string            `json:"editedBy"`
	Note      string            `json:"note"`
	CreatedAt time.Time         `json:"createdAt"`
}
