// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the domain types shared by the repositories,
// the generation pipeline, and the HTTP handlers.
package models

import "strings"

// ContentType identifies the kind of marketing asset being generated.
type ContentType string

const (
	ContentTypeAdCopy      ContentType = "ad-copy"
	ContentTypeBlog        ContentType = "blog"
	ContentTypeLandingPage ContentType = "landing-page"
	ContentTypeEmail       ContentType = "email"
)

// ContentTypes lists every supported content type in display order.
var ContentTypes = []ContentType{
	ContentTypeAdCopy, ContentTypeBlog, ContentTypeLandingPage, ContentTypeEmail,
}

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	for _, ct := range ContentTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// Label returns a human-readable name used inside prompts.
func (t ContentType) Label() string {
	switch t {
	case ContentTypeAdCopy:
		return "ad copy"
	case ContentTypeBlog:
		return "blog post"
	case ContentTypeLandingPage:
		return "landing page"
	case ContentTypeEmail:
		return "email"
	}
	return string(t)
}

// EmailSubtype distinguishes the three email flows a brand can configure.
type EmailSubtype string

const (
	EmailNurturingDrip   EmailSubtype = "nurturing-drip"
	EmailEventInvitation EmailSubtype = "event-invitation"
	EmailNewsletter      EmailSubtype = "newsletter"
)

// Valid reports whether s is a known email subtype. The empty subtype is valid
// and means "generic email".
func (s EmailSubtype) Valid() bool {
	switch s {
	case "", EmailNurturingDrip, EmailEventInvitation, EmailNewsletter:
		return true
	}
	return false
}

// FunnelStage is the marketing funnel position a piece of content targets.
type FunnelStage string

const (
	StageTOFU FunnelStage = "tofu"
	StageMOFU FunnelStage = "mofu"
	StageBOFU FunnelStage = "bofu"
)

// ParseFunnelStage normalises user input ("TOFU", " bofu ") to a FunnelStage.
// Unknown values return the empty stage.
func ParseFunnelStage(s string) FunnelStage {
	switch st := FunnelStage(strings.ToLower(strings.TrimSpace(s))); st {
	case StageTOFU, StageMOFU, StageBOFU:
		return st
	}
	return ""
}

// Description explains the stage's intent for prompt guidance.
func (s FunnelStage) Description() string {
	switch s {
	case StageTOFU:
		return "Top of funnel (awareness): introduce the brand, spark curiosity, no hard sell."
	case StageMOFU:
		return "Middle of funnel (consideration): build trust with proof points and differentiators."
	case StageBOFU:
		return "Bottom of funnel (decision): remove objections and drive a clear, direct action."
	}
	return "No specific funnel stage: balance awareness and action."
}
