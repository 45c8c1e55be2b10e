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

// geminiProvider implements the Provider interface using the Google
// Gemini REST API (POST /v1beta/models/{model}:generateContent).
type geminiProvider struct {
	config ProviderConfig
	client *http.Client
}

// newGemini creates a new Google Gemini provider.
func newGemini(cfg ProviderConfig) *geminiProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	return &geminiProvider{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *geminiProvider) Name() string { return "gemini" }

// Generate sends a generateContent request. Assistant turns map to the
// "model" role; system messages become the system instruction.
func (p *geminiProvider) Generate(ctx context.Context, req Request) (string, error) {
	system, turns := splitSystem(req.Messages)

	body := geminiRequest{}
	if system != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: system}}}
	}
	for _, m := range turns {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		body.Contents = append(body.Contents, geminiContent{Role: role, Parts: []geminiPart{{Text: m.Content}}})
	}
	if req.JSON || req.Temperature > 0 {
		body.GenerationConfig = &geminiGenerationConfig{}
		if req.JSON {
			body.GenerationConfig.ResponseMimeType = "application/json"
		}
		if req.Temperature > 0 {
			t := req.Temperature
			body.GenerationConfig.Temperature = &t
		}
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.config.BaseURL, p.config.modelFor(req))
	raw, err := postJSON(ctx, p.client, "gemini", url, p.authHeaders(), body)
	if err != nil {
		return "", err
	}

	var result geminiResponse
	if err := decodeJSON("gemini", raw, &result); err != nil {
		return "", err
	}
	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("gemini: no candidates returned")
	}
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			return part.Text, nil
		}
	}
	return "", fmt.Errorf("gemini: no text in response")
}

// GenerateImages creates n images with the native image modality. Gemini
// returns one image per call, so the calls are issued sequentially.
func (p *geminiProvider) GenerateImages(ctx context.Context, prompt string, n int) ([]string, error) {
	model := p.config.ImageModel
	if model == "" {
		return nil, fmt.Errorf("gemini: image generation requires GEMINI_MODEL_IMAGE to be set")
	}

	body := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: "Generate an image of: " + prompt}}},
		},
		GenerationConfig: &geminiGenerationConfig{ResponseModalities: []string{"IMAGE", "TEXT"}},
	}
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.config.BaseURL, model)
	imgClient := &http.Client{Timeout: 120 * time.Second}

	images := make([]string, 0, n)
	for i := 0; i < n; i++ {
		raw, err := postJSON(ctx, imgClient, "gemini image", url, p.authHeaders(), body)
		if err != nil {
			return nil, err
		}
		var result geminiResponse
		if err := decodeJSON("gemini image", raw, &result); err != nil {
			return nil, err
		}
		if data := firstInlineImage(result); data != "" {
			images = append(images, data)
		}
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("gemini image: no image data in response")
	}
	return images, nil
}

func (p *geminiProvider) authHeaders() map[string]string {
	return map[string]string{"x-goog-api-key": p.config.APIKey}
}

// firstInlineImage returns the base64 payload of the first inline image part.
func firstInlineImage(resp geminiResponse) string {
	for _, c := range resp.Candidates {
		for _, part := range c.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return part.InlineData.Data
			}
		}
	}
	return ""
}

// --- Gemini API types ---

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType   string   `json:"responseMimeType,omitempty"`
	ResponseModalities []string `json:"responseModalities,omitempty"`
	Temperature        *float64 `json:"temperature,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"system_instruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}
