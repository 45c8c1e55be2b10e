package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"brandstudio/internal/models"
)

// FormatSpec holds the length and style rules of one ad format.
type FormatSpec struct {
	Name          string `json:"name"`
	HeadlineMax   int    `json:"headlineMaxChars"`
	BodyMinWords  int    `json:"bodyMinWords"`
	BodyMaxWords  int    `json:"bodyMaxWords"`
	CTAMaxWords   int    `json:"ctaMaxWords"`
	Tone          string `json:"tone"`
	ForbidExclaim bool   `json:"forbidExclamation"`
	ForbidHashtag bool   `json:"forbidHashtags"`
}

// Rules renders the format limits as prompt text.
func (f FormatSpec) Rules() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "- Headline: at most %d characters\n", f.HeadlineMax)
	fmt.Fprintf(&sb, "- Primary text: %d to %d words\n", f.BodyMinWords, f.BodyMaxWords)
	fmt.Fprintf(&sb, "- CTA: at most %d words\n", f.CTAMaxWords)
	fmt.Fprintf(&sb, "- Tone: %s\n", f.Tone)
	if f.ForbidExclaim {
		sb.WriteString("- Do not use exclamation marks\n")
	}
	if f.ForbidHashtag {
		sb.WriteString("- Do not use hashtags\n")
	}
	return sb.String()
}

// Ad formats, checked in this order against the prompt.
var (
	FormatFacebook = FormatSpec{
		Name: "facebook", HeadlineMax: 40, BodyMinWords: 15, BodyMaxWords: 80, CTAMaxWords: 5,
		Tone: "conversational and benefit-led", ForbidExclaim: true, ForbidHashtag: true,
	}
	FormatInstagram = FormatSpec{
		Name: "instagram", HeadlineMax: 30, BodyMinWords: 10, BodyMaxWords: 50, CTAMaxWords: 4,
		Tone: "visual, warm and concise", ForbidExclaim: true, ForbidHashtag: true,
	}
	FormatBanner = FormatSpec{
		Name: "banner", HeadlineMax: 30, BodyMinWords: 3, BodyMaxWords: 15, CTAMaxWords: 3,
		Tone: "punchy and scannable", ForbidExclaim: true, ForbidHashtag: true,
	}
	FormatProspectus = FormatSpec{
		Name: "prospectus", HeadlineMax: 60, BodyMinWords: 60, BodyMaxWords: 150, CTAMaxWords: 6,
		Tone: "informative and reassuring", ForbidExclaim: true, ForbidHashtag: true,
	}
	FormatSocial = FormatSpec{
		Name: "social", HeadlineMax: 50, BodyMinWords: 15, BodyMaxWords: 80, CTAMaxWords: 5,
		Tone: "friendly and direct", ForbidExclaim: true, ForbidHashtag: true,
	}
)

var formatKeywords = []struct {
	spec     FormatSpec
	keywords []string
}{
	{FormatFacebook, []string{"facebook", "fb ad", "meta ad"}},
	{FormatInstagram, []string{"instagram", "insta ", "reel"}},
	{FormatBanner, []string{"banner", "display ad", "leaderboard"}},
	{FormatProspectus, []string{"prospectus", "brochure"}},
}

// DetectFormat picks the ad format mentioned in the prompt. Prompts that
// name no format get the generic social spec.
func DetectFormat(userPrompt string) FormatSpec {
	p := strings.ToLower(userPrompt) + " "
	for _, fk := range formatKeywords {
		for _, kw := range fk.keywords {
			if strings.Contains(p, kw) {
				return fk.spec
			}
		}
	}
	return FormatSocial
}

// ValidateVariation checks a variation against a format. It never rejects;
// the verdict is informational.
func ValidateVariation(v models.AdCopyVariation, f FormatSpec) models.VariationValidation {
	errs := []string{}

	if n := utf8.RuneCountInString(strings.TrimSpace(v.Headline)); n > f.HeadlineMax {
		errs = append(errs, fmt.Sprintf("Headline too long (%d characters, max %d)", n, f.HeadlineMax))
	}
	switch n := len(strings.Fields(v.PrimaryText)); {
	case n < f.BodyMinWords:
		errs = append(errs, fmt.Sprintf("Body too short (%d words, min %d)", n, f.BodyMinWords))
	case n > f.BodyMaxWords:
		errs = append(errs, fmt.Sprintf("Body too long (%d words, max %d)", n, f.BodyMaxWords))
	}
	if n := len(strings.Fields(v.CTA)); n > f.CTAMaxWords {
		errs = append(errs, fmt.Sprintf("CTA too long (%d words, max %d)", n, f.CTAMaxWords))
	}

	all := v.Headline + " " + v.PrimaryText + " " + v.CTA
	if f.ForbidExclaim && strings.Contains(all, "!") {
		errs = append(errs, "Contains forbidden exclamation marks")
	}
	if f.ForbidHashtag && strings.Contains(all, "#") {
		errs = append(errs, "Contains forbidden hashtags")
	}
	return models.VariationValidation{Valid: len(errs) == 0, Errors: errs}
}

// AdCopyRequest is the input to GenerateAdCopy.
type AdCopyRequest struct {
	Brand                *models.Brand
	Instructions         *models.BrandInstructions
	Prompt               string
	Options              Options
	RegenerationFeedback string
}

// GenerateAdCopy generates ad variations for the format detected in the
// prompt. Every variation is returned with its validation verdict attached;
// violations are logged and counted, never dropped.
func (s *Service) GenerateAdCopy(ctx context.Context, ar AdCopyRequest) (*models.GeneratedContent, error) {
	req := TextRequest{
		ContentType:          models.ContentTypeAdCopy,
		UserRequest:          ar.Prompt,
		Brand:                ar.Brand,
		Instructions:         ar.Instructions,
		Options:              ar.Options,
		RegenerationFeedback: ar.RegenerationFeedback,
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	spec := DetectFormat(ar.Prompt)
	ap := s.assemble(ctx, &req, &spec)

	raw, err := s.complete(ctx, "ad-copy", ap, temperature(req.Options.Temperature))
	if err != nil {
		return nil, fmt.Errorf("generate ad copy: %w", err)
	}
	reply, err := parseReply(raw)
	if err != nil {
		return nil, err
	}
	if len(reply.Variations) == 0 {
		return nil, ErrNoVariations
	}

	out := s.newContent(&req, ap)
	out.Format = spec.Name
	out.Variations = reply.Variations
	for i := range out.Variations {
		verdict := ValidateVariation(out.Variations[i], spec)
		out.Variations[i].Validation = &verdict
		if !verdict.Valid {
			slog.Warn("ad variation breaks format rules",
				"brand", req.Brand.ID, "format", spec.Name, "variation", i+1, "errors", verdict.Errors)
			s.metrics.VariationValidationFailed(spec.Name)
		}
	}
	countVariations(out)
	return out, nil
}
