package generation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"brandstudio/internal/ai"
	"brandstudio/internal/instructions"
	"brandstudio/internal/models"
	"brandstudio/internal/patterns"
	"brandstudio/internal/prompt"
)

const (
	defaultInspirationLimit = 3
	maxPromptExamples       = 8
)

// metaInstruction closes every system prompt.
const metaInstruction = `Study the worked examples and proven patterns above and write in the same
voice, structure and level of detail. Do not fall back to generic marketing
copy. Never invent statistics, prices, dates, awards, rankings or
testimonials. Where a fact is needed that is not given above, write a
[PLACEHOLDER: description of the missing fact] token instead.`

// Options tunes a text generation request.
type Options struct {
	Market           string             `json:"market,omitempty"`
	Platform         string             `json:"platform,omitempty"`
	FunnelStage      models.FunnelStage `json:"funnelStage,omitempty"`
	Length           string             `json:"length,omitempty"`
	Temperature      float64            `json:"temperature,omitempty"`
	InspirationLimit int                `json:"inspirationLimit,omitempty"`
	Variations       int                `json:"variations,omitempty"`
}

// TextRequest is the input to GenerateTextContent and AssemblePrompt.
type TextRequest struct {
	ContentType          models.ContentType
	EmailSubtype         models.EmailSubtype
	UserRequest          string
	Brand                *models.Brand
	Instructions         *models.BrandInstructions
	Options              Options
	RegenerationFeedback string
}

// AssembledPrompt is the pair of prompts sent to the model plus what went
// into them.
type AssembledPrompt struct {
	System         string                   `json:"system"`
	User           string                   `json:"user"`
	SystemSections []string                 `json:"systemSections"`
	UserSections   []string                 `json:"userSections"`
	Tier           ai.ModelTier             `json:"tier"`
	UsedFallback   bool                     `json:"usedFallback"`
	PatternSource  patterns.Source          `json:"patternSource"`
	Patterns       *models.PatternKnowledge `json:"patterns,omitempty"`
}

func (r *TextRequest) validate() error {
	switch {
	case r.Brand == nil || r.Brand.ID == "":
		return fmt.Errorf("%w: brand is required", ErrInvalidRequest)
	case !r.ContentType.Valid():
		return fmt.Errorf("%w: unknown content type %q", ErrInvalidRequest, r.ContentType)
	case !r.EmailSubtype.Valid():
		return fmt.Errorf("%w: unknown email subtype %q", ErrInvalidRequest, r.EmailSubtype)
	case r.EmailSubtype != "" && r.ContentType != models.ContentTypeEmail:
		return fmt.Errorf("%w: email subtype given for %s", ErrInvalidRequest, r.ContentType)
	case strings.TrimSpace(r.UserRequest) == "":
		return fmt.Errorf("%w: request text is empty", ErrInvalidRequest)
	}
	if r.Instructions == nil {
		r.Instructions = instructions.Default(r.Brand.ID)
	}
	return nil
}

// AssemblePrompt builds the system and user prompts for a request without
// calling the model.
func (s *Service) AssemblePrompt(ctx context.Context, req TextRequest) (*AssembledPrompt, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	return s.assemble(ctx, &req, nil), nil
}

// assemble builds the prompts. A non-nil spec switches the user prompt to
// the ad-format rules of GenerateAdCopy.
func (s *Service) assemble(ctx context.Context, req *TextRequest, spec *FormatSpec) *AssembledPrompt {
	ap := &AssembledPrompt{Tier: TierFor(req.ContentType), PatternSource: patterns.SourceNone}

	block, usedFallback := s.selectBlock(req)
	ap.UsedFallback = usedFallback

	if req.Options.Market != "" && req.Options.Platform != "" && s.patterns != nil {
		pk, src, err := s.patterns.Lookup(ctx, req.Brand.ID, req.Options.Market, req.Options.Platform, req.ContentType)
		if err != nil {
			slog.Warn("pattern lookup failed, generating without patterns",
				"brand", req.Brand.ID, "market", req.Options.Market, "platform", req.Options.Platform, "error", err)
		} else if pk != nil {
			ap.Patterns, ap.PatternSource = pk, src
		}
	}

	var inspiration string
	if s.inspiration != nil && req.Options.InspirationLimit >= 0 {
		limit := req.Options.InspirationLimit
		if limit == 0 {
			limit = defaultInspirationLimit
		}
		insp, err := s.inspiration.ApprovedInspiration(ctx, req.Brand.ID, limit)
		if err != nil {
			slog.Warn("approved inspiration unavailable", "brand", req.Brand.ID, "error", err)
		}
		inspiration = insp
	}

	sys := s.systemPrompt(req, block, ap.Patterns, ap.PatternSource, inspiration)
	user := userPrompt(req, spec)

	ap.System, ap.SystemSections = sys.String(), sys.Names()
	ap.User, ap.UserSections = user.String(), user.Names()
	return ap
}

// selectBlock picks the instruction block for the request. Email requests
// prefer a configured subtype block over the generic email block. An
// unconfigured block is replaced by the built-in fallback, keeping any
// real examples and rules the brand already entered.
func (s *Service) selectBlock(req *TextRequest) (models.TypeSpecificInstructions, bool) {
	doc := req.Instructions
	block := doc.Block(req.ContentType, req.EmailSubtype)
	if req.EmailSubtype != "" && !instructions.IsConfigured(block) && instructions.IsConfigured(&doc.Email) {
		block = &doc.Email
	}
	if instructions.IsConfigured(block) {
		return *block, false
	}

	slog.Warn("brand instructions not configured, using generic fallback",
		"brand", req.Brand.ID, "content_type", req.ContentType, "email_subtype", req.EmailSubtype)
	s.metrics.FallbackInstructionsUsed(req.Brand.ID, string(req.ContentType))

	fb := instructions.Fallback(req.ContentType)
	if !instructions.IsPlaceholder(block.Requirements) {
		fb.Requirements = block.Requirements
	}
	if dos := filled(block.Dos); len(dos) > 0 {
		fb.Dos = dos
	}
	if donts := filled(block.Donts); len(donts) > 0 {
		fb.Donts = donts
	}
	fb.Examples = block.Examples
	return fb, true
}

func (s *Service) systemPrompt(req *TextRequest, block models.TypeSpecificInstructions, pk *models.PatternKnowledge, src patterns.Source, inspiration string) *prompt.Builder {
	doc := req.Instructions
	brand := req.Brand
	var b prompt.Builder

	b.Add("system", "", block.SystemPrompt)

	b.AddFunc("brand", "Brand: "+brand.Name, func(sb *strings.Builder) {
		prompt.Field(sb, "Introduction", text(doc.BrandIntroduction))
		prompt.Field(sb, "Core values", strings.Join(filled(doc.CoreValues), ", "))
		prompt.Field(sb, "Tone of voice", firstReal(doc.ToneOfVoice, brand.Guidelines.Tone))
		prompt.Field(sb, "Target audience", brand.Guidelines.TargetAudience)
		if msgs := filled(append(append([]string(nil), doc.KeyMessaging...), brand.Guidelines.KeyMessages...)); len(msgs) > 0 {
			sb.WriteString("Key messaging:\n")
			sb.WriteString(prompt.Bullets(dedupe(msgs)))
		}
	})

	b.AddFunc("personas", "Personas", func(sb *strings.Builder) {
		for _, p := range doc.Personas {
			if instructions.IsPlaceholder(p.Name) {
				continue
			}
			fmt.Fprintf(sb, "### %s\n", p.Name)
			prompt.Field(sb, "Who", text(p.Description))
			prompt.Field(sb, "Pain points", strings.Join(filled(p.PainPoints), "; "))
			prompt.Field(sb, "How we help", text(p.Solution))
		}
	})

	b.AddFunc("cta-guidance", "Call-to-action guidance", func(sb *strings.Builder) {
		stage := req.Options.FunnelStage
		if stage != "" {
			prompt.Field(sb, strings.ToUpper(string(stage)), text(doc.CTAGuidance.ForStage(stage)))
			return
		}
		prompt.Field(sb, "TOFU", text(doc.CTAGuidance.TOFU))
		prompt.Field(sb, "MOFU", text(doc.CTAGuidance.MOFU))
		prompt.Field(sb, "BOFU", text(doc.CTAGuidance.BOFU))
	})

	b.Add("requirements", "Requirements", text(block.Requirements))
	b.AddList("dos", "Always", append(filled(block.Dos), filled(brand.Guidelines.Dos)...))
	b.AddList("donts", "Never", append(filled(block.Donts), filled(brand.Guidelines.Donts)...))

	if pk != nil {
		title := fmt.Sprintf("Proven patterns for %s on %s", pk.Market, pk.Platform)
		if src == patterns.SourceGeneral {
			title = fmt.Sprintf("Proven patterns across markets on %s", pk.Platform)
		}
		b.AddFunc("patterns", title, func(sb *strings.Builder) { writePatterns(sb, pk) })
	}

	examples := selectExamples(req, block.Examples)
	b.AddFunc("examples", "Worked examples", func(sb *strings.Builder) {
		for i, ex := range examples {
			fmt.Fprintf(sb, "### Example %d", i+1)
			if ex.FunnelStage != "" {
				fmt.Fprintf(sb, " (%s)", strings.ToUpper(string(ex.FunnelStage)))
			}
			sb.WriteByte('\n')
			prompt.Field(sb, "Headline", ex.Headline)
			prompt.Field(sb, "Body", ex.BodyCopy)
			prompt.Field(sb, "CTA", ex.CTA)
			prompt.Field(sb, "Why it works", firstReal(ex.WhatWorks, ex.Notes))
		}
	})

	b.Add("inspiration", "Recently approved content", inspiration)

	b.AddFunc("transcripts", "Customer voice", func(sb *strings.Builder) {
		transcripts := filled(doc.ReferenceMaterials.InterviewTranscripts)
		testimonials := filled(doc.ReferenceMaterials.Testimonials)
		if len(transcripts) == 0 && len(testimonials) == 0 {
			return
		}
		sb.WriteString("Use only these real words from customers. Quote them verbatim and do not fabricate testimonials.\n")
		for i, t := range transcripts {
			fmt.Fprintf(sb, "\nInterview %d:\n%s\n", i+1, t)
		}
		for _, t := range testimonials {
			fmt.Fprintf(sb, "\nTestimonial: %q\n", t)
		}
	})

	b.Add("meta", "How to write", metaInstruction)
	return &b
}

func writePatterns(sb *strings.Builder, pk *models.PatternKnowledge) {
	for _, c := range pk.Patterns.Categories() {
		if len(*c.Items) == 0 {
			continue
		}
		sb.WriteString(c.Label + ":\n")
		sb.WriteString(prompt.Bullets(*c.Items))
	}
	if s := strings.TrimSpace(pk.AutoExtractedInsights); s != "" && !strings.HasPrefix(s, patterns.FailurePrefix) {
		sb.WriteString("Insights:\n" + s + "\n")
	}
	prompt.Field(sb, "Marketer notes", pk.MarketerInsights)
}

// selectExamples filters and orders the block's examples. Landing pages use
// only examples for the requested market when any exist. Examples for the
// requested funnel stage come first.
func selectExamples(req *TextRequest, all []models.CampaignExample) []models.CampaignExample {
	examples := all
	if req.ContentType == models.ContentTypeLandingPage && req.Options.Market != "" {
		market := models.NormalizeTag(req.Options.Market)
		var matched []models.CampaignExample
		for _, ex := range all {
			if models.NormalizeTag(ex.Market) == market {
				matched = append(matched, ex)
			}
		}
		if len(matched) > 0 {
			examples = matched
		}
	}

	examples = append([]models.CampaignExample(nil), examples...)
	if stage := req.Options.FunnelStage; stage != "" {
		sort.SliceStable(examples, func(i, j int) bool {
			return examples[i].FunnelStage == stage && examples[j].FunnelStage != stage
		})
	}
	if len(examples) > maxPromptExamples {
		examples = examples[:maxPromptExamples]
	}
	return examples
}

func userPrompt(req *TextRequest, spec *FormatSpec) *prompt.Builder {
	var b prompt.Builder

	if fb := strings.TrimSpace(req.RegenerationFeedback); fb != "" {
		b.Add("regeneration-feedback", "Fix the previous output (high priority)",
			fb+"\nApply this feedback before anything else below.")
	}

	b.AddFunc("request", "Request", func(sb *strings.Builder) {
		sb.WriteString(strings.TrimSpace(req.UserRequest) + "\n")
		prompt.Field(sb, "Content type", contentLabel(req.ContentType, req.EmailSubtype))
		prompt.Field(sb, "Market", req.Options.Market)
		prompt.Field(sb, "Platform", req.Options.Platform)
	})

	b.Add("stage", "Campaign stage", req.Options.FunnelStage.Description())

	if spec != nil {
		b.Add("format", "Format: "+spec.Name, spec.Rules())
		b.Add("output", "Output", adCopySchema(variationCount(req.Options.Variations)))
		return &b
	}

	b.Add("length", "Length", lengthTarget(req.ContentType, req.Options.Length))
	b.Add("output", "Output", outputSchema(req.ContentType, variationCount(req.Options.Variations)))
	return &b
}

func contentLabel(ct models.ContentType, subtype models.EmailSubtype) string {
	if subtype != "" {
		return ct.Label() + " (" + strings.ReplaceAll(string(subtype), "-", " ") + ")"
	}
	return ct.Label()
}

func lengthTarget(ct models.ContentType, requested string) string {
	if r := strings.TrimSpace(requested); r != "" {
		return "Target length: " + r
	}
	switch ct {
	case models.ContentTypeAdCopy:
		return "Headline under 40 characters, primary text 20 to 60 words, CTA of at most 5 words."
	case models.ContentTypeBlog:
		return "800 to 1200 words."
	case models.ContentTypeLandingPage:
		return "400 to 700 words across all sections."
	case models.ContentTypeEmail:
		return "Subject under 60 characters, body 120 to 250 words."
	}
	return ""
}

func variationCount(n int) int {
	switch {
	case n <= 0:
		return 3
	case n > 5:
		return 5
	}
	return n
}

func adCopySchema(n int) string {
	return fmt.Sprintf(`Return a JSON object with exactly %d variations, each for a different persona or angle:
{"variations": [{"persona": "...", "angle": "...", "headline": "...", "primaryText": "...", "cta": "...", "keywords": ["..."], "shortVersion": "...", "longVersion": "..."}]}`, n)
}

func outputSchema(ct models.ContentType, n int) string {
	switch ct {
	case models.ContentTypeAdCopy:
		return adCopySchema(n)
	case models.ContentTypeBlog:
		return `Return a single JSON object. "content" is the full article in Markdown:
{"title": "...", "metaDescription": "...", "content": "..."}`
	case models.ContentTypeLandingPage:
		return `Return a single JSON object. "content" is the full page copy in Markdown:
{"title": "...", "subtitle": "...", "metaDescription": "...", "content": "..."}`
	case models.ContentTypeEmail:
		return `Return a single JSON object. "content" is the plain-text email body:
{"subjectLine": "...", "previewText": "...", "content": "..."}`
	}
	return ""
}

// text returns s, or "" for placeholders.
func text(s string) string {
	if instructions.IsPlaceholder(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

func firstReal(values ...string) string {
	for _, v := range values {
		if t := text(v); t != "" {
			return t
		}
	}
	return ""
}

// filled drops blank and placeholder items.
func filled(items []string) []string {
	var out []string
	for _, item := range items {
		if t := text(item); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0:0]
	for _, item := range items {
		k := strings.ToLower(item)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, item)
	}
	return out
}
