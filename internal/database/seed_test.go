package database

import (
	"context"
	"testing"

	"brandstudio/internal/models"
)

func TestSeedIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := Connect(ctx, testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	brandID := "seed-test-brand"
	t.Cleanup(func() {
		db.Exec("DELETE FROM brand_instructions WHERE brand_id = $1", brandID)
	})

	docs := []models.BrandInstructions{{BrandID: brandID, ToneOfVoice: "first", Version: 1, LastUpdatedBy: "seed"}}
	if err := Seed(ctx, db, docs); err != nil {
		t.Fatalf("first Seed: %v", err)
	}

	// A second seed with different content must not overwrite the first.
	docs[0].ToneOfVoice = "second"
	if err := Seed(ctx, db, docs); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var tone string
	if err := db.QueryRow(
		"SELECT document->>'toneOfVoice' FROM brand_instructions WHERE brand_id = $1", brandID,
	).Scan(&tone); err != nil {
		t.Fatalf("read seeded document: %v", err)
	}
	if tone != "first" {
		t.Errorf("toneOfVoice: got %q, want first", tone)
	}
}
