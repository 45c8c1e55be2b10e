package ai

import (
	"context"
	"fmt"
)

// SpeechRequest is a text-to-speech request.
type SpeechRequest struct {
	Input  string
	Voice  string
	Speed  float64
	Format string // "mp3", "wav", "opus", ...
}

// SpeechSynthesizer is an optional interface for providers with a
// text-to-speech endpoint. Only OpenAI implements it today.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, req SpeechRequest) ([]byte, error)
}

var speechPreference = []string{"openai"}

// SupportsSpeech reports whether any configured provider can synthesize speech.
func (r *Registry) SupportsSpeech() bool {
	_, ok := r.capable(speechPreference, func(p Provider) bool {
		_, ok := p.(SpeechSynthesizer)
		return ok
	})
	return ok
}

// Synthesize converts text to audio with the first speech-capable provider.
func (r *Registry) Synthesize(ctx context.Context, req SpeechRequest) ([]byte, error) {
	p, ok := r.capable(speechPreference, func(p Provider) bool {
		_, ok := p.(SpeechSynthesizer)
		return ok
	})
	if !ok {
		return nil, fmt.Errorf("ai: speech synthesis: %w", ErrUnsupported)
	}
	return p.(SpeechSynthesizer).Synthesize(ctx, req)
}
