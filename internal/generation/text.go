package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"brandstudio/internal/jsonutil"
	"brandstudio/internal/markdown"
	"brandstudio/internal/models"
)

const defaultTemperature = 0.7

// textReply is the union of the reply shapes for every content type.
type textReply struct {
	Variations      []models.AdCopyVariation `json:"variations"`
	Title           string                   `json:"title"`
	Subtitle        string                   `json:"subtitle"`
	MetaDescription string                   `json:"metaDescription"`
	SubjectLine     string                   `json:"subjectLine"`
	PreviewText     string                   `json:"previewText"`
	Content         string                   `json:"content"`
}

// GenerateTextContent assembles the prompts for a request, calls the model
// in JSON mode and converts the reply into GeneratedContent. A reply that
// is not JSON fails with ErrInvalidJSON; ad copy without variations fails
// with ErrNoVariations; other types without content fail with ErrNoContent.
func (s *Service) GenerateTextContent(ctx context.Context, req TextRequest) (*models.GeneratedContent, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	ap := s.assemble(ctx, &req, nil)

	raw, err := s.complete(ctx, "text", ap, temperature(req.Options.Temperature))
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", req.ContentType, err)
	}

	reply, err := parseReply(raw)
	if err != nil {
		return nil, err
	}

	out := s.newContent(&req, ap)
	if req.ContentType == models.ContentTypeAdCopy {
		if len(reply.Variations) == 0 {
			return nil, ErrNoVariations
		}
		out.Variations = reply.Variations
		countVariations(out)
		return out, nil
	}

	content := strings.TrimSpace(reply.Content)
	if content == "" {
		return nil, ErrNoContent
	}
	out.Title = strings.TrimSpace(reply.Title)
	out.Subtitle = strings.TrimSpace(reply.Subtitle)
	out.MetaDescription = strings.TrimSpace(reply.MetaDescription)
	out.SubjectLine = strings.TrimSpace(reply.SubjectLine)
	out.PreviewText = strings.TrimSpace(reply.PreviewText)
	out.Content = content
	out.WordCount = len(strings.Fields(content))
	out.CharacterCount = utf8.RuneCountInString(content)
	if req.ContentType == models.ContentTypeBlog || req.ContentType == models.ContentTypeLandingPage {
		out.HTML = markdown.Preview(content)
	}

	slog.Info("content generated",
		"brand", req.Brand.ID, "content_type", req.ContentType, "words", out.WordCount,
		"fallback", out.UsedFallbackInstructions, "patterns", out.PatternSource)
	return out, nil
}

func parseReply(raw string) (*textReply, error) {
	reply, err := jsonutil.Strict[textReply](raw)
	if err != nil {
		slog.Warn("model reply is not valid JSON", "error", err, "length", len(raw))
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return &reply, nil
}

func (s *Service) newContent(req *TextRequest, ap *AssembledPrompt) *models.GeneratedContent {
	return &models.GeneratedContent{
		ContentType:              req.ContentType,
		EmailSubtype:             req.EmailSubtype,
		FunnelStage:              req.Options.FunnelStage,
		Market:                   req.Options.Market,
		Platform:                 req.Options.Platform,
		ModelTier:                string(ap.Tier),
		UsedFallbackInstructions: ap.UsedFallback,
		PatternSource:            string(ap.PatternSource),
		GeneratedAt:              s.now().UTC(),
	}
}

// countVariations sums the primary text of every variation.
func countVariations(out *models.GeneratedContent) {
	for _, v := range out.Variations {
		out.WordCount += len(strings.Fields(v.PrimaryText))
		out.CharacterCount += utf8.RuneCountInString(v.PrimaryText)
	}
}

func temperature(t float64) float64 {
	if t <= 0 || t > 2 {
		return defaultTemperature
	}
	return t
}
