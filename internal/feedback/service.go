// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package feedback persists approved generations and turns them back into
// prompt material: recent approvals become inspiration for new prompts, and
// tagged approvals can be promoted into the brand's campaign examples.
//
// Only positive feedback is stored. A rejection travels once, as
// regeneration feedback on the next request, and is then forgotten.
package feedback

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"brandstudio/internal/instructions"
	"brandstudio/internal/models"
	"brandstudio/internal/patterns"
	"brandstudio/internal/storage"
)

const (
	defaultListLimit = 10
	maxListLimit     = 50
)

var (
	// ErrInvalidInput is returned for approvals missing required data.
	ErrInvalidInput = errors.New("invalid approved content")
	// ErrUntagged is returned when promoting an item without market and
	// platform tags.
	ErrUntagged = errors.New("approved content has no market and platform tags")
	// ErrAlreadyPromoted is returned when the item is already an example.
	ErrAlreadyPromoted = errors.New("approved content is already a campaign example")
)

// Store appends and reads approved content.
type Store interface {
	Create(ctx context.Context, a *models.ApprovedContent) (*models.ApprovedContent, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ApprovedContent, error)
	ListByBrand(ctx context.Context, brandID string, limit int) ([]models.ApprovedContent, error)
}

// Examples reads instructions and appends campaign examples.
// *instructions.Repository satisfies it.
type Examples interface {
	Get(ctx context.Context, brandID string) (*models.BrandInstructions, error)
	AddExample(ctx context.Context, brandID string, ex models.CampaignExample, editor string) (*instructions.SaveResult, error)
}

// PatternRefresher re-extracts pattern groups. *patterns.Engine satisfies it.
type PatternRefresher interface {
	RefreshGroups(ctx context.Context, brandID string, doc *models.BrandInstructions, keys []models.PatternGroupKey) *patterns.RefreshSummary
}

// ImageStore uploads approved images. *storage.Client satisfies it.
type ImageStore interface {
	Upload(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64, progress storage.ProgressFunc) error
	FileURL(key string) string
	PublicBucket() string
}

// Deps are the collaborators of a Service. Store is required.
type Deps struct {
	Store    Store
	Examples Examples
	Patterns PatternRefresher
	Images   ImageStore
}

// Service is the approval loop.
type Service struct {
	store    Store
	examples Examples
	patterns PatternRefresher
	images   ImageStore
}

// NewService creates a Service.
func NewService(d Deps) *Service {
	return &Service{store: d.Store, examples: d.Examples, patterns: d.Patterns, images: d.Images}
}

// ApprovalInput is an approved variation or content object.
type ApprovalInput struct {
	BrandID     string                   `json:"brandId"`
	BrandName   string                   `json:"brandName"`
	ContentType models.ContentType       `json:"contentType"`
	UserPrompt  string                   `json:"userPrompt"`
	Variation   *models.AdCopyVariation  `json:"variation,omitempty"`
	Content     *models.GeneratedContent `json:"content,omitempty"`
	ImageURL    string                   `json:"imageUrl,omitempty"`
	Market      string                   `json:"market,omitempty"`
	Platform    string                   `json:"platform,omitempty"`
}

// SaveApprovedContent stores one approved ad variation.
func (s *Service) SaveApprovedContent(ctx context.Context, brandID, brandName string, variation models.AdCopyVariation, userPrompt string, ct models.ContentType, imageURL string) (*models.ApprovedContent, error) {
	return s.SaveApprovedGeneratedContent(ctx, ApprovalInput{
		BrandID:     brandID,
		BrandName:   brandName,
		ContentType: ct,
		UserPrompt:  userPrompt,
		Variation:   &variation,
		ImageURL:    imageURL,
	})
}

// SaveApprovedGeneratedContent stores an approved variation or content
// object. A data-URL image is uploaded to the public bucket first and
// replaced by its URL.
func (s *Service) SaveApprovedGeneratedContent(ctx context.Context, in ApprovalInput) (*models.ApprovedContent, error) {
	switch {
	case strings.TrimSpace(in.BrandID) == "":
		return nil, fmt.Errorf("%w: brand is required", ErrInvalidInput)
	case !in.ContentType.Valid():
		return nil, fmt.Errorf("%w: unknown content type %q", ErrInvalidInput, in.ContentType)
	case in.Variation == nil && in.Content == nil:
		return nil, fmt.Errorf("%w: a variation or content is required", ErrInvalidInput)
	}

	market, platform := in.Market, in.Platform
	if in.Content != nil {
		if market == "" {
			market = in.Content.Market
		}
		if platform == "" {
			platform = in.Content.Platform
		}
	}

	imageURL, err := s.storeImage(ctx, in.BrandID, in.ImageURL)
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, &models.ApprovedContent{
		BrandID:     in.BrandID,
		BrandName:   in.BrandName,
		ContentType: in.ContentType,
		UserPrompt:  strings.TrimSpace(in.UserPrompt),
		Variation:   in.Variation,
		Content:     in.Content,
		ImageURL:    imageURL,
		Market:      strings.TrimSpace(market),
		Platform:    strings.TrimSpace(platform),
	})
	if err != nil {
		return nil, fmt.Errorf("save approved content: %w", err)
	}
	slog.Info("content approved", "brand", in.BrandID, "id", created.ID, "content_type", in.ContentType)
	return created, nil
}

// storeImage uploads a base64 data URL and returns the public URL. Other
// values pass through unchanged.
func (s *Service) storeImage(ctx context.Context, brandID, imageURL string) (string, error) {
	if !strings.HasPrefix(imageURL, "data:image/") {
		return imageURL, nil
	}
	if s.images == nil {
		slog.Warn("approved image dropped: object storage is not configured", "brand", brandID)
		return "", nil
	}

	meta, payload, ok := strings.Cut(strings.TrimPrefix(imageURL, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", fmt.Errorf("%w: image must be a base64 data URL", ErrInvalidInput)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: image is not valid base64", ErrInvalidInput)
	}

	contentType := strings.TrimSuffix(meta, ";base64")
	ext := ".png"
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/webp":
		ext = ".webp"
	}
	now := time.Now().UTC()
	key := fmt.Sprintf("approved/%s/%d/%02d/%s%s", brandID, now.Year(), now.Month(), uuid.NewString(), ext)
	if err := s.images.Upload(ctx, s.images.PublicBucket(), key, contentType, bytes.NewReader(data), int64(len(data)), nil); err != nil {
		return "", fmt.Errorf("upload approved image: %w", err)
	}
	return s.images.FileURL(key), nil
}

// GetApprovedContentForBrand returns the most recent approvals, newest first.
func (s *Service) GetApprovedContentForBrand(ctx context.Context, brandID string, limit int) ([]models.ApprovedContent, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)
	items, err := s.store.ListByBrand(ctx, brandID, limit)
	if err != nil {
		return nil, fmt.Errorf("list approved content: %w", err)
	}
	return items, nil
}

// ApprovedInspiration returns recent approvals formatted for a prompt, or ""
// when the brand has none.
func (s *Service) ApprovedInspiration(ctx context.Context, brandID string, limit int) (string, error) {
	items, err := s.GetApprovedContentForBrand(ctx, brandID, limit)
	if err != nil || len(items) == 0 {
		return "", err
	}
	return FormatApprovedContentAsInspiration(items), nil
}

// PromoteResult is the outcome of PromoteToExample.
type PromoteResult struct {
	Example      models.CampaignExample    `json:"example"`
	Instructions *models.BrandInstructions `json:"instructions"`
	Patterns     *patterns.RefreshSummary  `json:"patterns,omitempty"`
}

// PromoteToExample turns a tagged approval into a campaign example of its
// brand and refreshes the pattern group it lands in.
func (s *Service) PromoteToExample(ctx context.Context, approvedID uuid.UUID, editor string, stage models.FunnelStage, whatWorks string) (*PromoteResult, error) {
	if s.examples == nil {
		return nil, errors.New("promote: instruction repository not configured")
	}
	a, err := s.store.FindByID(ctx, approvedID)
	if err != nil {
		return nil, fmt.Errorf("promote: %w", err)
	}
	if strings.TrimSpace(a.Market) == "" || strings.TrimSpace(a.Platform) == "" {
		return nil, ErrUntagged
	}

	doc, err := s.examples.Get(ctx, a.BrandID)
	if err != nil {
		return nil, fmt.Errorf("promote: %w", err)
	}
	id := a.ID.String()
	for _, ex := range doc.AllExamples() {
		if ex.ID == id {
			return nil, ErrAlreadyPromoted
		}
	}

	ex := ToExample(a, stage, whatWorks)
	res, err := s.examples.AddExample(ctx, a.BrandID, ex, editor)
	if err != nil {
		return nil, fmt.Errorf("promote: %w", err)
	}

	out := &PromoteResult{Example: ex, Instructions: res.Instructions}
	if s.patterns != nil && len(res.TouchedGroups) > 0 {
		out.Patterns = s.patterns.RefreshGroups(ctx, a.BrandID, res.Instructions, res.TouchedGroups)
	}
	slog.Info("approved content promoted to example", "brand", a.BrandID, "id", id, "editor", editor)
	return out, nil
}

// ToExample converts an approval into a campaign example.
func ToExample(a *models.ApprovedContent, stage models.FunnelStage, whatWorks string) models.CampaignExample {
	ex := models.CampaignExample{
		ID:          a.ID.String(),
		FunnelStage: stage,
		ContentType: a.ContentType,
		Market:      strings.TrimSpace(a.Market),
		Platform:    strings.TrimSpace(a.Platform),
		Headline:    a.Headline(),
		BodyCopy:    a.Body(),
		CTA:         a.CTA(),
		Notes:       "Approved on " + a.ApprovedAt.Format(time.DateOnly),
		WhatWorks:   strings.TrimSpace(whatWorks),
	}
	if a.Content != nil {
		ex.EmailSubtype = a.Content.EmailSubtype
		if ex.FunnelStage == "" {
			ex.FunnelStage = a.Content.FunnelStage
		}
	}
	if a.UserPrompt != "" {
		ex.Notes += ". Prompt: " + a.UserPrompt
	}
	return ex
}
