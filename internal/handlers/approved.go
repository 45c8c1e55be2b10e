package handlers

import (
	"net/http"

	"brandstudio/internal/feedback"
	"brandstudio/internal/middleware"
	"brandstudio/internal/models"
)

// ListApproved returns the brand's most recent approvals, newest first.
func (a *API) ListApproved(w http.ResponseWriter, r *http.Request) {
	b, ok := a.brand(w, r)
	if !ok {
		return
	}
	items, err := a.approvals.GetApprovedContentForBrand(r.Context(), b.ID, intQuery(r, "limit"))
	if err != nil {
		fail(w, r, err)
		return
	}
	if items == nil {
		items = []models.ApprovedContent{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"approved": items})
}

// Approve stores a variation or content object a human marked as good.
// Brand ID and name always come from the route, never from the body.
func (a *API) Approve(w http.ResponseWriter, r *http.Request) {
	b, ok := a.brand(w, r)
	if !ok {
		return
	}
	var in feedback.ApprovalInput
	if !decodeJSON(w, r, &in) {
		return
	}
	in.BrandID, in.BrandName = b.ID, b.Name

	saved, err := a.approvals.SaveApprovedGeneratedContent(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

type promoteRequest struct {
	FunnelStage models.FunnelStage `json:"funnelStage"`
	WhatWorks   string             `json:"whatWorks"`
}

// Promote turns an approved item into a campaign example of its brand.
func (a *API) Promote(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var body promoteRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &body) {
		return
	}

	res, err := a.approvals.PromoteToExample(r.Context(), id, middleware.EditorFromCtx(r.Context()), body.FunnelStage, body.WhatWorks)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
