package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// openAIProvider implements Provider, ImageGenerator and SpeechSynthesizer
// using the OpenAI REST API.
type openAIProvider struct {
	name   string
	config ProviderConfig
	client *http.Client
}

// newOpenAI creates a new OpenAI provider.
func newOpenAI(cfg ProviderConfig) *openAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	return &openAIProvider{
		name:   "openai",
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *openAIProvider) Name() string { return p.name }

// Generate sends a chat completion request (POST /chat/completions) and
// returns the assistant's response text. Shared with Mistral, whose API is
// OpenAI-compatible.
func (p *openAIProvider) Generate(ctx context.Context, req Request) (string, error) {
	body := openAIRequest{
		Model:    p.config.modelFor(req),
		Messages: req.Messages,
	}
	if req.Temperature > 0 {
		t := req.Temperature
		body.Temperature = &t
	}
	if req.JSON {
		body.ResponseFormat = &openAIResponseFormat{Type: "json_object"}
	}

	raw, err := postJSON(ctx, p.client, p.name, p.config.BaseURL+"/chat/completions", p.authHeaders(), body)
	if err != nil {
		return "", err
	}

	var result openAIResponse
	if err := decodeJSON(p.name, raw, &result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices returned", p.name)
	}
	return result.Choices[0].Message.Content, nil
}

// GenerateImages calls POST /images/generations and returns base64 payloads.
func (p *openAIProvider) GenerateImages(ctx context.Context, prompt string, n int) ([]string, error) {
	model := p.config.ImageModel
	if model == "" {
		model = "gpt-image-1"
	}
	body := openAIImageRequest{
		Model:  model,
		Prompt: prompt,
		N:      n,
		Size:   "1024x1024",
	}
	// gpt-image models always return base64; DALL-E needs to be asked.
	if strings.HasPrefix(model, "dall-e") {
		body.ResponseFormat = "b64_json"
	}

	imgClient := &http.Client{Timeout: 120 * time.Second}
	raw, err := postJSON(ctx, imgClient, p.name+" image", p.config.BaseURL+"/images/generations", p.authHeaders(), body)
	if err != nil {
		return nil, err
	}

	var result openAIImageResponse
	if err := decodeJSON(p.name+" image", raw, &result); err != nil {
		return nil, err
	}

	images := make([]string, 0, len(result.Data))
	for _, d := range result.Data {
		if d.B64JSON != "" {
			images = append(images, d.B64JSON)
		}
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%s image: no image data in response", p.name)
	}
	return images, nil
}

// Synthesize calls POST /audio/speech and returns the audio bytes.
func (p *openAIProvider) Synthesize(ctx context.Context, req SpeechRequest) ([]byte, error) {
	model := p.config.SpeechModel
	if model == "" {
		model = "tts-1"
	}
	body := openAISpeechRequest{
		Model:          model,
		Input:          req.Input,
		Voice:          req.Voice,
		Speed:          req.Speed,
		ResponseFormat: req.Format,
	}

	speechClient := &http.Client{Timeout: 120 * time.Second}
	return postJSON(ctx, speechClient, p.name+" speech", p.config.BaseURL+"/audio/speech", p.authHeaders(), body)
}

func (p *openAIProvider) authHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer " + p.config.APIKey}
}

// --- OpenAI-compatible request/response types ---
// Used by both OpenAI and Mistral providers.

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIRequest struct {
	Model          string                `json:"model"`
	Messages       []Message             `json:"messages"`
	Temperature    *float64              `json:"temperature,omitempty"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIResponse struct {
	Choices []openAIChoice `json:"choices"`
}

type openAIChoice struct {
	Message Message `json:"message"`
}

type openAIImageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format,omitempty"`
}

type openAIImageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

type openAISpeechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	Speed          float64 `json:"speed,omitempty"`
	ResponseFormat string  `json:"response_format,omitempty"`
}
