// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"
)

// ModerationResult contains the outcome of a prompt safety check.
type ModerationResult struct {
	Safe       bool     // true if the prompt passes moderation
	Categories []string // flagged category names, sorted (empty when safe)
}

// Moderator checks user prompts for policy violations before they are sent
// to a generation endpoint.
type Moderator interface {
	CheckSafety(ctx context.Context, text string) (*ModerationResult, error)
}

// CheckPrompt runs a user prompt through the moderation API. A registry
// without a moderator treats every prompt as safe; providers still apply
// their own filters.
func (r *Registry) CheckPrompt(ctx context.Context, prompt string) (*ModerationResult, error) {
	if r.moderator == nil {
		return &ModerationResult{Safe: true}, nil
	}
	return r.moderator.CheckSafety(ctx, prompt)
}

// httpModerator calls an OpenAI-style POST {base}/moderations endpoint.
// OpenAI and Mistral share the request shape; only OpenAI reports a
// top-level "flagged" verdict.
type httpModerator struct {
	provider string
	model    string
	apiKey   string
	url      string
	client   *http.Client
}

func newOpenAIModerator(apiKey, baseURL string) *httpModerator {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &httpModerator{
		provider: "openai moderation",
		model:    "omni-moderation-latest",
		apiKey:   apiKey,
		url:      baseURL + "/moderations",
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

func newMistralModerator(apiKey, baseURL string) *httpModerator {
	if baseURL == "" {
		baseURL = "https://api.mistral.ai/v1"
	}
	return &httpModerator{
		provider: "mistral moderation",
		model:    "mistral-moderation-latest",
		apiKey:   apiKey,
		url:      baseURL + "/moderations",
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (m *httpModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	body := moderationRequest{Model: m.model, Input: text}
	headers := map[string]string{"Authorization": "Bearer " + m.apiKey}

	raw, err := postJSON(ctx, m.client, m.provider, m.url, headers, body)
	if err != nil {
		return nil, err
	}

	var result moderationResponse
	if err := decodeJSON(m.provider, raw, &result); err != nil {
		return nil, err
	}
	if len(result.Results) == 0 {
		return &ModerationResult{Safe: true}, nil
	}

	first := result.Results[0]
	var flagged []string
	for cat, hit := range first.Categories {
		if hit {
			flagged = append(flagged, displayCategory(cat))
		}
	}
	sort.Strings(flagged)

	safe := len(flagged) == 0
	if first.Flagged != nil {
		safe = !*first.Flagged
	}
	return &ModerationResult{Safe: safe, Categories: flagged}, nil
}

// displayCategory turns "hate/threatening" into "hate (threatening)" and
// underscores into spaces.
func displayCategory(cat string) string {
	display := strings.ReplaceAll(cat, "_", " ")
	if i := strings.Index(display, "/"); i >= 0 {
		display = display[:i] + " (" + display[i+1:] + ")"
	}
	return display
}

// fallbackModerator tries each moderator in order, moving on when one
// rejects the credentials (e.g. project-scoped OpenAI keys without
// moderation access).
type fallbackModerator struct {
	chain []Moderator
}

func (f *fallbackModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	var lastErr error
	for _, m := range f.chain {
		res, err := m.CheckSafety(ctx, text)
		if err == nil {
			return res, nil
		}
		var apiErr *APIError
		if !errors.As(err, &apiErr) || (apiErr.StatusCode != http.StatusUnauthorized && apiErr.StatusCode != http.StatusForbidden) {
			return nil, err
		}
		slog.Warn("moderator rejected credentials, trying next", "provider", apiErr.Provider, "status", apiErr.StatusCode)
		lastErr = err
	}
	return nil, lastErr
}

type moderationRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type moderationResponse struct {
	Results []struct {
		Flagged    *bool           `json:"flagged"`
		Categories map[string]bool `json:"categories"`
	} `json:"results"`
}
