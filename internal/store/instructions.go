package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"brandstudio/internal/models"
)

// InstructionStore persists one BrandInstructions document per brand.
type InstructionStore struct {
	db *sql.DB
}

// NewInstructionStore creates a new InstructionStore backed by the given database.
func NewInstructionStore(db *sql.DB) *InstructionStore {
	return &InstructionStore{db: db}
}

// Get returns the stored document for a brand, or ErrNotFound. The document
// is returned exactly as stored; callers apply defaults.
func (s *InstructionStore) Get(ctx context.Context, brandID string) (*models.BrandInstructions, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM brand_instructions WHERE brand_id = $1`, brandID,
	).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("get instructions %s: %w", brandID, notFound(err))
	}

	var doc models.BrandInstructions
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode instructions %s: %w", brandID, err)
	}
	doc.BrandID = brandID
	return &doc, nil
}

// Upsert replaces the brand's document.
func (s *InstructionStore) Upsert(ctx context.Context, doc *models.BrandInstructions) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode instructions %s: %w", doc.BrandID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO brand_instructions (brand_id, document, version, last_updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (brand_id) DO UPDATE SET
			document = EXCLUDED.document,
			version = EXCLUDED.version,
			last_updated_by = EXCLUDED.last_updated_by,
			updated_at = EXCLUDED.updated_at
	`, doc.BrandID, payload, doc.Version, doc.LastUpdatedBy, doc.LastUpdated)
	if err != nil {
		return fmt.Errorf("upsert instructions %s: %w", doc.BrandID, err)
	}
	return nil
}
