package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"brandstudio/internal/models"
)

func TestPatternStoreUpsertAndList(t *testing.T) {
	db := testDB(t)
	brandID := testBrand(t, db)
	s := NewPatternStore(db)
	ctx := context.Background()

	for _, market := range []string{"UK", "EMEA"} {
		pk := &models.PatternKnowledge{
			ID:          market + "-meta-ad-copy",
			BrandID:     brandID,
			Market:      market,
			Platform:    "META",
			ContentType: models.ContentTypeAdCopy,
			Patterns:    models.Patterns{HeadlineStyles: []string{market + " question"}},
			UpdatedAt:   time.Now().UTC(),
		}
		if err := s.Upsert(ctx, pk); err != nil {
			t.Fatalf("Upsert %s: %v", market, err)
		}
	}

	list, err := s.ListByPlatform(ctx, brandID, "META", models.ContentTypeAdCopy)
	if err != nil {
		t.Fatalf("ListByPlatform: %v", err)
	}
	if len(list) != 2 || list[0].Market != "EMEA" || list[1].Market != "UK" {
		t.Fatalf("expected markets ordered EMEA, UK; got %+v", list)
	}
	if list[0].Patterns.CTAStrategies == nil {
		t.Error("decoded patterns should be normalized to empty lists")
	}

	got, err := s.Get(ctx, brandID, "UK-meta-ad-copy")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Patterns.HeadlineStyles[0] != "UK question" {
		t.Errorf("headline styles: got %v", got.Patterns.HeadlineStyles)
	}

	if _, err := s.Get(ctx, brandID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := s.Delete(ctx, brandID, "UK-meta-ad-copy"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, brandID, "UK-meta-ad-copy"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted entry still readable: %v", err)
	}
	if err := s.Delete(ctx, brandID, "UK-meta-ad-copy"); err != nil {
		t.Errorf("deleting a missing entry: %v", err)
	}
	if list, _ := s.ListByPlatform(ctx, brandID, "META", models.ContentTypeAdCopy); len(list) != 1 {
		t.Errorf("entries after delete = %d, want 1", len(list))
	}
}
