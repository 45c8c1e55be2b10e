// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers of the brandstudio API.
// Handlers are grouped by concern (brands, instructions, patterns,
// generation, approvals, assets) and receive their dependencies through the
// API struct.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"brandstudio/internal/ai"
	"brandstudio/internal/assets"
	"brandstudio/internal/feedback"
	"brandstudio/internal/generation"
	"brandstudio/internal/instructions"
	"brandstudio/internal/models"
	"brandstudio/internal/patterns"
	"brandstudio/internal/storage"
	"brandstudio/internal/store"
)

// maxJSONBody caps JSON request bodies. Instruction documents with many
// examples are the largest payloads.
const maxJSONBody = 4 << 20

// BrandCatalogue looks up immutable brand data. *brand.Catalogue satisfies it.
type BrandCatalogue interface {
	Get(id string) (models.Brand, bool)
	List() []models.Brand
}

// InstructionRepository is satisfied by *instructions.Repository.
type InstructionRepository interface {
	Get(ctx context.Context, brandID string) (*models.BrandInstructions, error)
	Save(ctx context.Context, brandID string, doc *models.BrandInstructions, editor, note string) (*instructions.SaveResult, error)
	ResetToDefault(ctx context.Context, brandID, editor string) (*instructions.SaveResult, error)
	Revisions(ctx context.Context, brandID string, limit int) ([]models.InstructionRevision, error)
	AddExample(ctx context.Context, brandID string, ex models.CampaignExample, editor string) (*instructions.SaveResult, error)
}

// PatternService is satisfied by *patterns.Engine.
type PatternService interface {
	Lookup(ctx context.Context, brandID, market, platform string, ct models.ContentType) (*models.PatternKnowledge, patterns.Source, error)
	List(ctx context.Context, brandID string) ([]models.PatternKnowledge, error)
	GetGeneralPatterns(ctx context.Context, brandID, platform string, ct models.ContentType) (*models.PatternKnowledge, error)
	SetMarketerInsights(ctx context.Context, brandID, market, platform string, ct models.ContentType, insights string) (*models.PatternKnowledge, error)
	RefreshFromInstructions(ctx context.Context, brandID string, doc *models.BrandInstructions) *patterns.RefreshSummary
	RefreshGroups(ctx context.Context, brandID string, doc *models.BrandInstructions, keys []models.PatternGroupKey) *patterns.RefreshSummary
}

// Generator is satisfied by *generation.Service.
type Generator interface {
	GenerateTextContent(ctx context.Context, req generation.TextRequest) (*models.GeneratedContent, error)
	GenerateAdCopy(ctx context.Context, req generation.AdCopyRequest) (*models.GeneratedContent, error)
	AssemblePrompt(ctx context.Context, req generation.TextRequest) (*generation.AssembledPrompt, error)
	GenerateImages(ctx context.Context, brand *models.Brand, prompt string, count int) ([]string, error)
	GenerateSpeech(ctx context.Context, req generation.SpeechRequest) (*generation.SpeechResult, error)
}

// ApprovalService is satisfied by *feedback.Service.
type ApprovalService interface {
	SaveApprovedGeneratedContent(ctx context.Context, in feedback.ApprovalInput) (*models.ApprovedContent, error)
	GetApprovedContentForBrand(ctx context.Context, brandID string, limit int) ([]models.ApprovedContent, error)
	PromoteToExample(ctx context.Context, approvedID uuid.UUID, editor string, stage models.FunnelStage, whatWorks string) (*feedback.PromoteResult, error)
}

// AssetGateway is satisfied by *assets.Gateway.
type AssetGateway interface {
	StorageConfigured() bool
	UploadBatch(ctx context.Context, inputs []assets.UploadInput, progress assets.BatchProgressFunc) []assets.UploadResult
	List(ctx context.Context, brandID string, category models.AssetCategory) ([]models.BrandAsset, error)
	Get(ctx context.Context, id uuid.UUID) (*models.BrandAsset, error)
	UpdateMetadata(ctx context.Context, id uuid.UUID, meta models.AssetMetadata) (*models.BrandAsset, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.BrandAsset, error)
	Stats(ctx context.Context, brandID string) (*models.AssetStats, error)
}

// Moderator checks prompts before they reach a generation endpoint.
// *ai.Registry satisfies it.
type Moderator interface {
	CheckPrompt(ctx context.Context, prompt string) (*ai.ModerationResult, error)
}

// ProviderSwitcher exposes the AI provider selection. *ai.Registry
// satisfies it.
type ProviderSwitcher interface {
	ActiveName() string
	Available() []string
	SetActive(name string) error
	SupportsImageGeneration() bool
	SupportsSpeech() bool
}

// Deps are the collaborators of the API. Moderator and Providers may be
// nil.
type Deps struct {
	Brands       BrandCatalogue
	Instructions InstructionRepository
	Patterns     PatternService
	Generator    Generator
	Approvals    ApprovalService
	Assets       AssetGateway
	Moderator    Moderator
	Providers    ProviderSwitcher
}

// API groups all HTTP handlers and their dependencies.
type API struct {
	brands       BrandCatalogue
	instructions InstructionRepository
	patterns     PatternService
	generator    Generator
	approvals    ApprovalService
	assets       AssetGateway
	moderator    Moderator
	providers    ProviderSwitcher
}

// NewAPI creates the handler group.
func NewAPI(d Deps) *API {
	return &API{
		brands:       d.Brands,
		instructions: d.Instructions,
		patterns:     d.Patterns,
		generator:    d.Generator,
		approvals:    d.Approvals,
		assets:       d.Assets,
		moderator:    d.Moderator,
		providers:    d.Providers,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// upstreamErrors are reported to clients by their sentinel text only.
var upstreamErrors = []error{
	generation.ErrInvalidJSON,
	generation.ErrNoVariations,
	generation.ErrNoContent,
}

// fail maps err to a status code and writes it. Unexpected errors are
// logged and hidden behind a generic message.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr   *instructions.ValidationError
		apiErr *ai.APIError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": verr.Error(), "fields": verr.Fields})
		return
	case errors.Is(err, generation.ErrInvalidRequest),
		errors.Is(err, feedback.ErrInvalidInput),
		errors.Is(err, feedback.ErrUntagged),
		errors.Is(err, assets.ErrInvalidUpload):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, assets.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
		return
	case errors.Is(err, feedback.ErrAlreadyPromoted):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, ai.ErrUnsupported), errors.Is(err, assets.ErrStorageUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case errors.Is(err, context.DeadlineExceeded):
		slog.Warn("request timed out", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusGatewayTimeout, "the AI provider did not answer in time")
		return
	}

	for _, sentinel := range upstreamErrors {
		if errors.Is(err, sentinel) {
			slog.Warn("unusable model reply", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusBadGateway, sentinel.Error())
			return
		}
	}
	if errors.As(err, &apiErr) {
		slog.Error("ai provider request failed", "path", r.URL.Path, "provider", apiErr.Provider, "status", apiErr.StatusCode)
		writeError(w, http.StatusBadGateway, "AI provider request failed")
		return
	}

	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// decodeJSON reads a JSON body into dst and answers 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "request body is empty")
		default:
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		}
		return false
	}
	return true
}

// brand resolves {brandID} against the catalogue and answers 404 for
// unknown brands.
func (a *API) brand(w http.ResponseWriter, r *http.Request) (*models.Brand, bool) {
	id := chi.URLParam(r, "brandID")
	b, ok := a.brands.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown brand %q", id))
		return nil, false
	}
	return &b, true
}

// uuidParam parses a UUID route parameter and answers 400 when malformed.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// intQuery returns a positive integer query parameter, or 0.
func intQuery(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// checkPromptSafety runs the user prompt through the moderation API.
// It returns true if the prompt is safe or no moderator is available.
// A flagged prompt is answered with 422.
func (a *API) checkPromptSafety(w http.ResponseWriter, r *http.Request, prompt string) bool {
	if a.moderator == nil || strings.TrimSpace(prompt) == "" {
		return true
	}
	result, err := a.moderator.CheckPrompt(r.Context(), prompt)
	if err != nil {
		slog.Warn("moderation check failed, allowing prompt", "error", err)
		return true
	}
	if result.Safe {
		return true
	}

	categories := strings.Join(result.Categories, ", ")
	slog.Warn("prompt flagged by moderation", "categories", categories, "path", r.URL.Path)
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"error":      fmt.Sprintf("Your prompt was flagged for: %s. Please reformulate your request and try again.", categories),
		"categories": result.Categories,
	})
	return false
}

// storageProgress logs upload progress at debug level each time a file
// crosses a quarter of its size.
func storageProgress(fileName string) storage.ProgressFunc {
	last := int64(-1)
	return func(sent, total int64) {
		if total <= 0 {
			return
		}
		q := sent * 4 / total
		if q == last {
			return
		}
		last = q
		slog.Debug("asset upload progress", "file", fileName, "sent", sent, "total", total)
	}
}
