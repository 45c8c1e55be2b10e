package patterns

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"brandstudio/internal/ai"
	"brandstudio/internal/jsonutil"
	"brandstudio/internal/models"
	"brandstudio/internal/prompt"
)

// FailurePrefix opens the insights text of a failed extraction.
const FailurePrefix = "Pattern extraction failed:"

const extractionSystemPrompt = `You are a senior performance-marketing analyst. You study groups of
campaign examples and describe the recurring traits that make them work.
Be specific and concise: each pattern is one short sentence. Only describe
what is visible in the examples; never invent results or statistics.
Respond with a single JSON object and nothing else.`

const extractionSchema = `{
  "headlineStyles": ["..."],
  "structurePatterns": ["..."],
  "toneCharacteristics": ["..."],
  "ctaStrategies": ["..."],
  "conversionTechniques": ["..."],
  "socialProofApproaches": ["..."],
  "insights": "One paragraph summarising what this group of examples teaches."
}`

// Result is the outcome of one extraction. Err is set when the model call or
// the reply parsing failed; Patterns and Insights are usable either way.
type Result struct {
	Patterns models.Patterns
	Insights string
	Err      error
}

type extractionReply struct {
	models.Patterns
	Insights string `json:"insights"`
}

// Extract asks the model to summarise the recurring patterns of a group of
// examples. It never returns an error: failures yield empty categories and
// an insights string starting with FailurePrefix.
func (e *Engine) Extract(ctx context.Context, brandID string, examples []models.CampaignExample, market, platform string, ct models.ContentType) Result {
	if len(examples) == 0 {
		res := Result{Insights: "No examples to analyse yet."}
		res.Patterns.Normalize()
		return res
	}

	req := ai.Request{
		Tier: ai.TierQuality,
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: extractionSystemPrompt},
			{Role: ai.RoleUser, Content: ExtractionPrompt(examples, market, platform, ct)},
		},
		Temperature: 0.3,
		JSON:        true,
	}

	raw, err := e.gen.Generate(ctx, req)
	if err != nil {
		return e.failed(brandID, market, platform, ct, fmt.Errorf("model call: %w", err))
	}
	reply, err := jsonutil.Parse[extractionReply](raw)
	if err != nil {
		return e.failed(brandID, market, platform, ct, err)
	}

	res := Result{Patterns: reply.Patterns, Insights: strings.TrimSpace(reply.Insights)}
	for _, c := range res.Patterns.Categories() {
		*c.Items = clean(*c.Items)
	}
	res.Patterns.Normalize()
	return res
}

func (e *Engine) failed(brandID, market, platform string, ct models.ContentType, err error) Result {
	slog.Warn("pattern extraction failed",
		"brand", brandID, "market", market, "platform", platform, "content_type", ct, "error", err)
	e.metrics.PatternExtractionFailed(brandID, string(ct))

	res := Result{Insights: FailurePrefix + " " + err.Error(), Err: err}
	res.Patterns.Normalize()
	return res
}

// ExtractionPrompt builds the user prompt embedding every example.
func ExtractionPrompt(examples []models.CampaignExample, market, platform string, ct models.ContentType) string {
	var b prompt.Builder
	b.Add("task", "", fmt.Sprintf(
		"Analyse these %d %s examples for the %s market on %s and extract the patterns they share.",
		len(examples), ct.Label(), market, platform))

	b.AddFunc("examples", "Examples", func(sb *strings.Builder) {
		for i, ex := range examples {
			fmt.Fprintf(sb, "### Example %d\n", i+1)
			prompt.Field(sb, "Funnel stage", strings.ToUpper(string(ex.FunnelStage)))
			prompt.Field(sb, "Headline", ex.Headline)
			prompt.Field(sb, "Body", ex.BodyCopy)
			prompt.Field(sb, "CTA", ex.CTA)
			prompt.Field(sb, "Notes", ex.Notes)
			prompt.Field(sb, "What works", ex.WhatWorks)
			sb.WriteByte('\n')
		}
	})

	b.Add("format", "Output format", "Return JSON with exactly these keys. Each list holds 2 to 6 short items.\n"+extractionSchema)
	return b.String()
}

// clean trims items and drops blanks and case-insensitive duplicates.
func clean(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
