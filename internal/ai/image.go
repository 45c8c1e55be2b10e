// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnsupported is returned when no configured provider offers the
// requested capability.
var ErrUnsupported = errors.New("capability not supported by any configured provider")

// ImageGenerator is an optional interface that AI providers can implement
// to support image generation. Claude and Mistral are text-only.
type ImageGenerator interface {
	// GenerateImages creates n images from a text prompt and returns them
	// as base64-encoded payloads.
	GenerateImages(ctx context.Context, prompt string, n int) ([]string, error)
}

// imagePreference is the order in which image-capable providers are tried
// when the active provider cannot generate images.
var imagePreference = []string{"openai", "gemini"}

// GenerateImages uses the active provider if it can generate images, and
// otherwise the first image-capable provider that is configured.
func (r *Registry) GenerateImages(ctx context.Context, prompt string, n int) ([]string, error) {
	p, ok := r.capable(imagePreference, func(p Provider) bool {
		_, ok := p.(ImageGenerator)
		return ok
	})
	if !ok {
		return nil, fmt.Errorf("ai: image generation: %w", ErrUnsupported)
	}
	return p.(ImageGenerator).GenerateImages(ctx, prompt, n)
}

// SupportsImageGeneration reports whether any configured provider can
// generate images.
func (r *Registry) SupportsImageGeneration() bool {
	_, ok := r.capable(imagePreference, func(p Provider) bool {
		_, ok := p.(ImageGenerator)
		return ok
	})
	return ok
}
