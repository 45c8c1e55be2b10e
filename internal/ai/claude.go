// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// claudeJSONSuffix is appended to the system prompt in JSON mode because the
// Messages API has no response-format switch.
const claudeJSONSuffix = "\n\nRespond with a single valid JSON object and nothing else. No code fences, no commentary."

// claudeProvider implements the Provider interface using the Anthropic
// Messages API (POST /v1/messages).
type claudeProvider struct {
	config ProviderConfig
	client *http.Client
}

// newClaude creates a new Anthropic Claude provider.
func newClaude(cfg ProviderConfig) *claudeProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	return &claudeProvider{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *claudeProvider) Name() string { return "claude" }

// Generate sends the conversation to the Messages API. System messages are
// lifted into the top-level system field.
func (p *claudeProvider) Generate(ctx context.Context, req Request) (string, error) {
	system, turns := splitSystem(req.Messages)
	if req.JSON {
		system += claudeJSONSuffix
	}

	body := claudeRequest{
		Model:     p.config.modelFor(req),
		MaxTokens: 4096,
		System:    system,
		Messages:  turns,
	}
	if req.Temperature > 0 {
		t := req.Temperature
		body.Temperature = &t
	}

	headers := map[string]string{
		"x-api-key":         p.config.APIKey,
		"anthropic-version": "2023-06-01",
	}
	raw, err := postJSON(ctx, p.client, "claude", p.config.BaseURL+"/v1/messages", headers, body)
	if err != nil {
		return "", err
	}

	var result claudeResponse
	if err := decodeJSON("claude", raw, &result); err != nil {
		return "", err
	}

	for _, block := range result.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("claude: no text content in response")
}

// --- Anthropic Messages API types ---

type claudeRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type claudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeResponse struct {
	Content []claudeContentBlock `json:"content"`
}
