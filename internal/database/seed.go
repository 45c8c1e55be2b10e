package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"brandstudio/internal/models"
)

// Seed stores a starting instruction document for every brand that has none
// yet, so a fresh development database shows editable instructions for the
// whole catalogue. Brands that already have a document are left alone.
func Seed(ctx context.Context, db *sql.DB, docs []models.BrandInstructions) error {
	seeded := 0
	for _, doc := range docs {
		payload, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("seed marshal %s: %w", doc.BrandID, err)
		}

		res, err := db.ExecContext(ctx, `
			INSERT INTO brand_instructions (brand_id, document, version, last_updated_by, updated_at)
			VALUES ($1, $2, $3, $4, now())
			ON CONFLICT (brand_id) DO NOTHING
		`, doc.BrandID, payload, doc.Version, doc.LastUpdatedBy)
		if err != nil {
			return fmt.Errorf("seed insert %s: %w", doc.BrandID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			seeded++
		}
	}

	if seeded == 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}
	slog.Info("database seeded with default brand instructions", "brands", seeded)
	return nil
}
