package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"brandstudio/internal/ai"
	"brandstudio/internal/captions"
	"brandstudio/internal/models"
)

const (
	maxImages     = 4
	defaultVoice  = "alloy"
	defaultFormat = "mp3"
)

// ImagePrompt decorates a user prompt with the brand's visual identity.
func ImagePrompt(brand *models.Brand, userPrompt string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(userPrompt))
	if brand != nil {
		g := brand.Guidelines
		if g.ImageryStyle != "" {
			sb.WriteString("\n\nImagery style: " + g.ImageryStyle)
		}
		if len(g.ColorPalette) > 0 {
			sb.WriteString("\nColour palette: " + strings.Join(g.ColorPalette, ", "))
		}
		if g.TargetAudience != "" {
			sb.WriteString("\nAudience: " + g.TargetAudience)
		}
	}
	sb.WriteString("\nDo not render any text, logos or watermarks in the image.")
	return sb.String()
}

// GenerateImages creates brand-styled images and returns them as base64
// payloads. count is clamped to 1..4.
func (s *Service) GenerateImages(ctx context.Context, brand *models.Brand, userPrompt string, count int) ([]string, error) {
	if strings.TrimSpace(userPrompt) == "" {
		return nil, fmt.Errorf("%w: image prompt is empty", ErrInvalidRequest)
	}
	if s.images == nil {
		return nil, fmt.Errorf("generate images: %w", ai.ErrUnsupported)
	}
	count = max(1, min(count, maxImages))

	start := time.Now()
	images, err := s.images.GenerateImages(ctx, ImagePrompt(brand, userPrompt), count)
	s.metrics.ObserveGeneration("image", "", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("generate images: %w", err)
	}
	return images, nil
}

// SpeechRequest is the input to GenerateSpeech.
type SpeechRequest struct {
	Text   string  `json:"text"`
	Voice  string  `json:"voice"`
	Speed  float64 `json:"speed"`
	Format string  `json:"format"`
}

// SpeechResult is synthesized audio plus derived captions.
type SpeechResult struct {
	Audio       []byte `json:"-"`
	ContentType string `json:"contentType"`
	Captions    string `json:"captions"`
}

var audioTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"opus": "audio/opus",
	"aac":  "audio/aac",
	"flac": "audio/flac",
	"wav":  "audio/wav",
	"pcm":  "audio/pcm",
}

// GenerateSpeech narrates text and derives SRT captions from the script.
func (s *Service) GenerateSpeech(ctx context.Context, sr SpeechRequest) (*SpeechResult, error) {
	if strings.TrimSpace(sr.Text) == "" {
		return nil, fmt.Errorf("%w: speech text is empty", ErrInvalidRequest)
	}
	if s.speech == nil {
		return nil, fmt.Errorf("generate speech: %w", ai.ErrUnsupported)
	}
	if sr.Voice == "" {
		sr.Voice = defaultVoice
	}
	if sr.Speed < 0.25 || sr.Speed > 4 {
		sr.Speed = 1
	}
	sr.Format = strings.ToLower(sr.Format)
	contentType, ok := audioTypes[sr.Format]
	if !ok {
		sr.Format, contentType = defaultFormat, audioTypes[defaultFormat]
	}

	start := time.Now()
	audio, err := s.speech.Synthesize(ctx, ai.SpeechRequest{
		Input:  sr.Text,
		Voice:  sr.Voice,
		Speed:  sr.Speed,
		Format: sr.Format,
	})
	s.metrics.ObserveGeneration("speech", "", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("generate speech: %w", err)
	}

	return &SpeechResult{
		Audio:       audio,
		ContentType: contentType,
		Captions:    captions.BuildSRT(sr.Text, sr.Speed),
	}, nil
}
