// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package generation assembles brand-aware prompts and turns model replies
// into typed content: text content for every content type, format-checked
// ad copy, brand-styled images and narrated speech with captions.
package generation

import (
	"context"
	"errors"
	"time"

	"brandstudio/internal/ai"
	"brandstudio/internal/metrics"
	"brandstudio/internal/models"
	"brandstudio/internal/patterns"
)

var (
	// ErrInvalidJSON is returned when the model reply is not valid JSON.
	ErrInvalidJSON = errors.New("Invalid JSON response")
	// ErrNoVariations is returned when an ad-copy reply has no variations.
	ErrNoVariations = errors.New("No variations returned")
	// ErrNoContent is returned when a text reply has an empty content field.
	ErrNoContent = errors.New("No content returned")
	// ErrInvalidRequest wraps problems with the caller's input.
	ErrInvalidRequest = errors.New("invalid generation request")
)

// TextGenerator produces a chat completion. *ai.Registry satisfies it.
type TextGenerator interface {
	Generate(ctx context.Context, req ai.Request) (string, error)
}

// ImageGenerator produces base64 images. *ai.Registry satisfies it.
type ImageGenerator interface {
	GenerateImages(ctx context.Context, prompt string, n int) ([]string, error)
}

// SpeechSynthesizer produces audio. *ai.Registry satisfies it.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, req ai.SpeechRequest) ([]byte, error)
}

// PatternSource looks up pattern knowledge for a group. *patterns.Engine
// satisfies it.
type PatternSource interface {
	Lookup(ctx context.Context, brandID, market, platform string, ct models.ContentType) (*models.PatternKnowledge, patterns.Source, error)
}

// InspirationSource renders recently approved content as a few-shot block.
// It returns "" when the brand has nothing approved yet.
type InspirationSource interface {
	ApprovedInspiration(ctx context.Context, brandID string, limit int) (string, error)
}

// Deps are the collaborators of a Service. Only Text is required.
type Deps struct {
	Text        TextGenerator
	Images      ImageGenerator
	Speech      SpeechSynthesizer
	Patterns    PatternSource
	Inspiration InspirationSource
	Metrics     metrics.Recorder
}

// Service is the generation orchestrator.
type Service struct {
	text        TextGenerator
	images      ImageGenerator
	speech      SpeechSynthesizer
	patterns    PatternSource
	inspiration InspirationSource
	metrics     metrics.Recorder
	now         func() time.Time
}

// NewService creates a Service from its dependencies.
func NewService(d Deps) *Service {
	rec := d.Metrics
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Service{
		text:        d.Text,
		images:      d.Images,
		speech:      d.Speech,
		patterns:    d.Patterns,
		inspiration: d.Inspiration,
		metrics:     rec,
		now:         time.Now,
	}
}

// TierFor returns the model tier used for a content type: the fast model for
// short-form ad copy and email, the quality model for long-form content.
func TierFor(ct models.ContentType) ai.ModelTier {
	switch ct {
	case models.ContentTypeBlog, models.ContentTypeLandingPage:
		return ai.TierQuality
	}
	return ai.TierFast
}

// complete runs one JSON-mode chat call and records its timing.
func (s *Service) complete(ctx context.Context, kind string, ap *AssembledPrompt, temperature float64) (string, error) {
	start := time.Now()
	raw, err := s.text.Generate(ctx, ai.Request{
		Tier: ap.Tier,
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: ap.System},
			{Role: ai.RoleUser, Content: ap.User},
		},
		Temperature: temperature,
		JSON:        true,
	})
	s.metrics.ObserveGeneration(kind, string(ap.Tier), time.Since(start), err)
	return raw, err
}
