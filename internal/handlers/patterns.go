package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"brandstudio/internal/middleware"
	"brandstudio/internal/models"
	"brandstudio/internal/patterns"
)

type patternLookupResponse struct {
	Source   patterns.Source          `json:"source"`
	Patterns *models.PatternKnowledge `json:"patterns"`
}

// GetPatterns returns the pattern knowledge for one group when market,
// platform and content_type are given, falling back to the cross-market
// merge. Without a full group it lists every stored entry of the brand.
func (a *API) GetPatterns(w http.ResponseWriter, r *http.Request) {
	b, ok := a.brand(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	market, platform := q.Get("market"), q.Get("platform")
	ct := models.ContentType(q.Get("content_type"))

	if market == "" && platform == "" && ct == "" {
		list, err := a.patterns.List(r.Context(), b.ID)
		if err != nil {
			fail(w, r, err)
			return
		}
		if list == nil {
			list = []models.PatternKnowledge{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"patterns": list})
		return
	}

	if !ct.Valid() || strings.TrimSpace(market) == "" || strings.TrimSpace(platform) == "" {
		writeError(w, http.StatusBadRequest, "market, platform and a valid content_type are required together")
		return
	}
	pk, src, err := a.patterns.Lookup(r.Context(), b.ID, market, platform, ct)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, patternLookupResponse{Source: src, Patterns: pk})
}

// GetGeneralPatterns returns the cross-market merge for a platform and
// content type. Patterns is null when no market has knowledge yet.
func (a *API) GetGeneralPatterns(w http.ResponseWriter, r *http.Request) {
	b, ok := a.brand(w, r)
	if !ok {
		return
	}
	platform := r.URL.Query().Get("platform")
	ct := models.ContentType(r.URL.Query().Get("content_type"))
	if strings.TrimSpace(platform) == "" || !ct.Valid() {
		writeError(w, http.StatusBadRequest, "platform and a valid content_type are required")
		return
	}

	pk, err := a.patterns.GetGeneralPatterns(r.Context(), b.ID, models.NormalizeTag(platform), ct)
	if err != nil {
		fail(w, r, err)
		return
	}
	src := patterns.SourceGeneral
	if pk == nil {
		src = patterns.SourceNone
	}
	writeJSON(w, http.StatusOK, patternLookupResponse{Source: src, Patterns: pk})
}

type insightsRequest struct {
	Market      string             `json:"market"`
	Platform    string             `json:"platform"`
	ContentType models.ContentType `json:"contentType"`
	Insights    string             `json:"insights"`
}

// UpdateInsights replaces the marketer insights of an existing entry.
func (a *API) UpdateInsights(w http.ResponseWriter, r *http.Request) {
	b, ok := a.brand(w, r)
	if !ok {
		return
	}
	var req insightsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.ContentType.Valid() || strings.TrimSpace(req.Market) == "" || strings.TrimSpace(req.Platform) == "" {
		writeError(w, http.StatusBadRequest, "market, platform and a valid contentType are required")
		return
	}

	pk, err := a.patterns.SetMarketerInsights(r.Context(), b.ID, req.Market, req.Platform, req.ContentType, req.Insights)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pk)
}

// RefreshPatterns re-extracts every tagged example group of the brand.
func (a *API) RefreshPatterns(w http.ResponseWriter, r *http.Request) {
	b, ok := a.brand(w, r)
	if !ok {
		return
	}
	doc, err := a.instructions.Get(r.Context(), b.ID)
	if err != nil {
		fail(w, r, err)
		return
	}
	summary := a.patterns.RefreshFromInstructions(r.Context(), b.ID, doc)
	slog.Info("patterns refreshed", "brand", b.ID, "editor", middleware.EditorFromCtx(r.Context()),
		"updated", summary.Updated, "failed", summary.Failed)
	writeJSON(w, http.StatusOK, summary)
}
