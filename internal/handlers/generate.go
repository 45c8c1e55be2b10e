// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"brandstudio/internal/generation"
	"brandstudio/internal/models"
)

// --- Generation endpoints ---
//
// Every generation request is moderated first, then assembled from the
// brand, its stored instructions, pattern knowledge and approved
// inspiration. Results are ephemeral until approved.

type generateRequest struct {
	ContentType          models.ContentType  `json:"contentType"`
	EmailSubtype         models.EmailSubtype `json:"emailSubtype"`
	Prompt               string              `json:"prompt"`
	Options              generation.Options  `json:"options"`
	RegenerationFeedback string              `json:"regenerationFeedback"`
}

// textRequest loads the brand's instructions and builds the service input.
func (a *API) textRequest(w http.ResponseWriter, r *http.Request) (*generation.TextRequest, bool) {
	b, ok := a.brand(w, r)
	if !ok {
		return nil, false
	}
	var body generateRequest
	if !decodeJSON(w, r, &body) {
		return nil, false
	}
	if !a.checkPromptSafety(w, r, joinPrompt(body.Prompt, body.RegenerationFeedback)) {
		return nil, false
	}
	doc, err := a.instructions.Get(r.Context(), b.ID)
	if err != nil {
		fail(w, r, err)
		return nil, false
	}
	return &generation.TextRequest{
		ContentType:          body.ContentType,
		EmailSubtype:         body.EmailSubtype,
		UserRequest:          body.Prompt,
		Brand:                b,
		Instructions:         doc,
		Options:              body.Options,
		RegenerationFeedback: body.RegenerationFeedback,
	}, true
}

// Generate produces one piece of content of the requested type.
func (a *API) Generate(w http.ResponseWriter, r *http.Request) {
	req, ok := a.textRequest(w, r)
	if !ok {
		return
	}
	out, err := a.generator.GenerateTextContent(r.Context(), *req)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// PreviewPrompt returns the assembled system and user prompts without
// calling the model.
func (a *API) PreviewPrompt(w http.ResponseWriter, r *http.Request) {
	req, ok := a.textRequest(w, r)
	if !ok {
		return
	}
	ap, err := a.generator.AssemblePrompt(r.Context(), *req)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ap)
}

type adCopyRequest struct {
	Prompt               string             `json:"prompt"`
	Options              generation.Options `json:"options"`
	RegenerationFeedback string             `json:"regenerationFeedback"`
}

// GenerateAdCopy produces validated ad variations for the format detected
// in the prompt.
func (a *API) GenerateAdCopy(w http.ResponseWriter, r *http.Request) {
	b, ok := a.brand(w, r)
	if !ok {
		return
	}
	var body adCopyRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	if !a.checkPromptSafety(w, r, joinPrompt(body.Prompt, body.RegenerationFeedback)) {
		return
	}
	doc, err := a.instructions.Get(r.Context(), b.ID)
	if err != nil {
		fail(w, r, err)
		return
	}

	out, err := a.generator.GenerateAdCopy(r.Context(), generation.AdCopyRequest{
		Brand:                b,
		Instructions:         doc,
		Prompt:               body.Prompt,
		Options:              body.Options,
		RegenerationFeedback: body.RegenerationFeedback,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type imagesRequest struct {
	Prompt string `json:"prompt"`
	Count  int    `json:"count"`
}

// GenerateImages returns brand-styled images as base64 payloads.
func (a *API) GenerateImages(w http.ResponseWriter, r *http.Request) {
	b, ok := a.brand(w, r)
	if !ok {
		return
	}
	var body imagesRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if !a.checkPromptSafety(w, r, body.Prompt) {
		return
	}
	images, err := a.generator.GenerateImages(r.Context(), b, body.Prompt, body.Count)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"images": images})
}

type speechResponse struct {
	Audio       []byte `json:"audio"`
	ContentType string `json:"contentType"`
	Captions    string `json:"captions"`
}

// GenerateSpeech narrates a script. The audio is returned base64-encoded
// next to SRT captions derived from the script.
func (a *API) GenerateSpeech(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.brand(w, r); !ok {
		return
	}
	var body generation.SpeechRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if !a.checkPromptSafety(w, r, body.Text) {
		return
	}
	res, err := a.generator.GenerateSpeech(r.Context(), body)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, speechResponse{Audio: res.Audio, ContentType: res.ContentType, Captions: res.Captions})
}

func joinPrompt(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
