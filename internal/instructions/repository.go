// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package instructions is the per-brand instruction and example repository.
// Stored documents may be partial; every read goes through ApplyDefaults so
// callers always receive a complete document.
package instructions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"brandstudio/internal/models"
	"brandstudio/internal/store"
)

// DocumentStore persists one instruction document per brand.
type DocumentStore interface {
	Get(ctx context.Context, brandID string) (*models.BrandInstructions, error)
	Upsert(ctx context.Context, doc *models.BrandInstructions) error
}

// RevisionStore records the edit history.
type RevisionStore interface {
	Create(ctx context.Context, rev *models.InstructionRevision) (*models.InstructionRevision, error)
	ListByBrand(ctx context.Context, brandID string, limit int) ([]models.InstructionRevision, error)
}

// SaveResult is returned by the write operations. TouchedGroups lists the
// (market, platform, contentType) groups whose examples changed, so their
// pattern knowledge can be re-extracted.
type SaveResult struct {
	Instructions  *models.BrandInstructions `json:"instructions"`
	TouchedGroups []models.PatternGroupKey  `json:"touchedGroups"`
}

// Repository reads and writes brand instructions.
type Repository struct {
	docs      DocumentStore
	revisions RevisionStore
	now       func() time.Time
}

// NewRepository creates a Repository over the given stores.
func NewRepository(docs DocumentStore, revisions RevisionStore) *Repository {
	return &Repository{docs: docs, revisions: revisions, now: time.Now}
}

// Get returns the brand's instructions merged over the default template.
// A brand with nothing stored gets the template itself.
func (r *Repository) Get(ctx context.Context, brandID string) (*models.BrandInstructions, error) {
	stored, err := r.stored(ctx, brandID)
	if err != nil {
		return nil, err
	}
	return ApplyDefaults(stored, brandID), nil
}

// Save validates and persists a full document, bumping the version.
func (r *Repository) Save(ctx context.Context, brandID string, doc *models.BrandInstructions, editor, note string) (*SaveResult, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}
	prev, err := r.stored(ctx, brandID)
	if err != nil {
		return nil, err
	}
	return r.persist(ctx, brandID, prev, doc, editor, note)
}

// ResetToDefault overwrites the brand's document with the template. The
// version still advances so the reset shows up in the history. Groups whose
// examples the reset removed are reported as touched.
func (r *Repository) ResetToDefault(ctx context.Context, brandID, editor string) (*SaveResult, error) {
	prev, err := r.stored(ctx, brandID)
	if err != nil {
		return nil, err
	}
	return r.persist(ctx, brandID, prev, Default(brandID), editor, "reset to defaults")
}

// Revisions returns up to limit snapshots, newest first.
func (r *Repository) Revisions(ctx context.Context, brandID string, limit int) ([]models.InstructionRevision, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	revs, err := r.revisions.ListByBrand(ctx, brandID, limit)
	if err != nil {
		return nil, fmt.Errorf("list revisions %s: %w", brandID, err)
	}
	return revs, nil
}

// AddExample appends a campaign example to the block matching its content
// type and email subtype, then saves. The rest of the document is left as
// stored, so this works for brands that are not fully configured yet.
func (r *Repository) AddExample(ctx context.Context, brandID string, ex models.CampaignExample, editor string) (*SaveResult, error) {
	if !ex.ContentType.Valid() {
		return nil, &ValidationError{Fields: []string{"contentType"}}
	}
	if !ex.EmailSubtype.Valid() || (ex.EmailSubtype != "" && ex.ContentType != models.ContentTypeEmail) {
		return nil, &ValidationError{Fields: []string{"emailSubtype"}}
	}
	if blank(ex.Headline) && blank(ex.BodyCopy) {
		return nil, &ValidationError{Fields: []string{"headline", "bodyCopy"}}
	}
	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}
	ex.Market = strings.TrimSpace(ex.Market)
	ex.Platform = strings.TrimSpace(ex.Platform)

	prev, err := r.stored(ctx, brandID)
	if err != nil {
		return nil, err
	}

	var next *models.BrandInstructions
	if prev == nil {
		next = Default(brandID)
	} else {
		cp := *prev
		next = &cp
	}
	block := next.Block(ex.ContentType, ex.EmailSubtype)
	block.Examples = append(append([]models.CampaignExample(nil), block.Examples...), ex)

	return r.persist(ctx, brandID, prev, next, editor, "added example "+ex.ID)
}

// stored returns the raw stored document, or nil when none exists.
func (r *Repository) stored(ctx context.Context, brandID string) (*models.BrandInstructions, error) {
	doc, err := r.docs.Get(ctx, brandID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load instructions %s: %w", brandID, err)
	}
	return doc, nil
}

func (r *Repository) persist(ctx context.Context, brandID string, prev, next *models.BrandInstructions, editor, note string) (*SaveResult, error) {
	version := 1
	if prev != nil {
		version = prev.Version + 1
	}
	if editor == "" {
		editor = "anonymous"
	}

	doc := *next
	doc.BrandID = brandID
	doc.Version = version
	doc.LastUpdatedBy = editor
	doc.LastUpdated = r.now().UTC()

	if err := r.docs.Upsert(ctx, &doc); err != nil {
		return nil, fmt.Errorf("save instructions %s: %w", brandID, err)
	}

	// History is best effort once the document itself is saved.
	if _, err := r.revisions.Create(ctx, &models.InstructionRevision{
		BrandID:  brandID,
		Version:  version,
		Document: doc,
		EditedBy: editor,
		Note:     note,
	}); err != nil {
		slog.Warn("instruction revision not recorded", "brand", brandID, "version", version, "error", err)
	}

	slog.Info("instructions saved", "brand", brandID, "version", version, "editor", editor)
	return &SaveResult{
		Instructions:  ApplyDefaults(&doc, brandID),
		TouchedGroups: TouchedGroups(prev, &doc),
	}, nil
}

// TouchedGroups returns the pattern groups whose example set differs
// between prev and next, sorted. A group that lost all its examples is
// included so its stored pattern knowledge can be dropped.
func TouchedGroups(prev, next *models.BrandInstructions) []models.PatternGroupKey {
	var before, after map[models.PatternGroupKey][]models.CampaignExample
	var keys []models.PatternGroupKey
	if prev != nil {
		before, keys = models.GroupExamples(prev.AllExamples())
	}
	if next != nil {
		var nextKeys []models.PatternGroupKey
		after, nextKeys = models.GroupExamples(next.AllExamples())
		for _, k := range nextKeys {
			if _, ok := before[k]; !ok {
				keys = append(keys, k)
			}
		}
	}

	var touched []models.PatternGroupKey
	for _, k := range keys {
		if !reflect.DeepEqual(before[k], after[k]) {
			touched = append(touched, k)
		}
	}
	models.SortGroupKeys(touched)
	return touched
}
