package handlers

import (
	"log/slog"
	"net/http"

	"brandstudio/internal/middleware"
	"brandstudio/internal/models"
	"brandstudio/internal/patterns"
)

// GetInstructions returns the brand's instructions merged over the default
// template, so unconfigured brands still get a complete document.
func (a *API) GetInstructions(w http.ResponseWriter, r *http.Request) {
	b, ok := a.brand(w, r)
	if !ok {
		return
	}
	doc, err := a.instructions.Get(r.Context(), b.ID)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type saveInstructionsRequest struct {
	Instructions *models.BrandInstructions `json:"instructions"`
	Note         string                    `json:"note"`
}

type saveInstructionsResponse struct {
	Instructions *models.BrandInstructions `json:"instructions"`
	Patterns     *patterns.RefreshSummary  `json:"patterns"`
}

// SaveInstructions validates and stores a full document, then re-extracts
// the pattern groups whose examples changed.
func (a *API) SaveInstructions(w http.ResponseWriter, r *http.Request) {
	b, ok := a.brand(w, r)
	if !ok {
		return
	}
	var req saveInstructionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Instructions == nil {
		writeError(w, http.StatusBadRequest, "instructions are required")
		return
	}

	res, err := a.instructions.Save(r.Context(), b.ID, req.Instructions, middleware.EditorFromCtx(r.Context()), req.Note)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saveInstructionsResponse{
		Instructions: res.Instructions,
		Patterns:     a.patterns.RefreshGroups(r.Context(), b.ID, res.Instructions, res.TouchedGroups),
	})
}

// ResetInstructions overwrites the brand's document with the template and
// drops the pattern knowledge of the groups the reset emptied.
func (a *API) ResetInstructions(w http.ResponseWriter, r *http.Request) {
	b, ok := a.brand(w, r)
	if !ok {
		return
	}
	editor := middleware.EditorFromCtx(r.Context())
	res, err := a.instructions.ResetToDefault(r.Context(), b.ID, editor)
	if err != nil {
		fail(w, r, err)
		return
	}
	slog.Info("instructions reset", "brand", b.ID, "editor", editor, "groups", len(res.TouchedGroups))
	writeJSON(w, http.StatusOK, saveInstructionsResponse{
		Instructions: res.Instructions,
		Patterns:     a.patterns.RefreshGroups(r.Context(), b.ID, res.Instructions, res.TouchedGroups),
	})
}

// ListRevisions returns the edit history, newest first.
func (a *API) ListRevisions(w http.ResponseWriter, r *http.Request) {
	b, ok := a.brand(w, r)
	if !ok {
		return
	}
	revs, err := a.instructions.Revisions(r.Context(), b.ID, intQuery(r, "limit"))
	if err != nil {
		fail(w, r, err)
		return
	}
	if revs == nil {
		revs = []models.InstructionRevision{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"revisions": revs})
}

// AddExample appends one campaign example and refreshes its pattern group.
func (a *API) AddExample(w http.ResponseWriter, r *http.Request) {
	b, ok := a.brand(w, r)
	if !ok {
		return
	}
	var ex models.CampaignExample
	if !decodeJSON(w, r, &ex) {
		return
	}

	res, err := a.instructions.AddExample(r.Context(), b.ID, ex, middleware.EditorFromCtx(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saveInstructionsResponse{
		Instructions: res.Instructions,
		Patterns:     a.patterns.RefreshGroups(r.Context(), b.ID, res.Instructions, res.TouchedGroups),
	})
}
