package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"brandstudio/internal/models"
)

// PatternStore persists PatternKnowledge documents keyed by (brand, id).
type PatternStore struct {
	db *sql.DB
}

// NewPatternStore creates a new PatternStore backed by the given database.
func NewPatternStore(db *sql.DB) *PatternStore {
	return &PatternStore{db: db}
}

func decodePattern(raw []byte) (*models.PatternKnowledge, error) {
	var pk models.PatternKnowledge
	if err := json.Unmarshal(raw, &pk); err != nil {
		return nil, fmt.Errorf("decode pattern knowledge: %w", err)
	}
	pk.Patterns.Normalize()
	return &pk, nil
}

// Get returns one entry, or ErrNotFound.
func (s *PatternStore) Get(ctx context.Context, brandID, id string) (*models.PatternKnowledge, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM pattern_knowledge WHERE brand_id = $1 AND id = $2`, brandID, id,
	).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("get pattern knowledge %s/%s: %w", brandID, id, notFound(err))
	}
	return decodePattern(raw)
}

// Upsert writes the whole entry.
func (s *PatternStore) Upsert(ctx context.Context, pk *models.PatternKnowledge) error {
	payload, err := json.Marshal(pk)
	if err != nil {
		return fmt.Errorf("encode pattern knowledge: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pattern_knowledge (brand_id, id, market, platform, content_type, document, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (brand_id, id) DO UPDATE SET
			market = EXCLUDED.market,
			platform = EXCLUDED.platform,
			content_type = EXCLUDED.content_type,
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at
	`, pk.BrandID, pk.ID, pk.Market, pk.Platform, string(pk.ContentType), payload, pk.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert pattern knowledge %s/%s: %w", pk.BrandID, pk.ID, err)
	}
	return nil
}

// Delete removes one entry. Deleting a missing entry is not an error.
func (s *PatternStore) Delete(ctx context.Context, brandID, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM pattern_knowledge WHERE brand_id = $1 AND id = $2`, brandID, id)
	if err != nil {
		return fmt.Errorf("delete pattern knowledge %s/%s: %w", brandID, id, err)
	}
	return nil
}

// ListByPlatform returns every market's entry for a platform and content
// type, ordered by market ascending.
func (s *PatternStore) ListByPlatform(ctx context.Context, brandID, platform string, ct models.ContentType) ([]models.PatternKnowledge, error) {
	return s.list(ctx, `
		SELECT document FROM pattern_knowledge
		WHERE brand_id = $1 AND platform = $2 AND content_type = $3
		ORDER BY market ASC
	`, brandID, platform, string(ct))
}

// ListByBrand returns all entries for a brand ordered by id.
func (s *PatternStore) ListByBrand(ctx context.Context, brandID string) ([]models.PatternKnowledge, error) {
	return s.list(ctx, `
		SELECT document FROM pattern_knowledge
		WHERE brand_id = $1
		ORDER BY id ASC
	`, brandID)
}

func (s *PatternStore) list(ctx context.Context, query string, args ...any) ([]models.PatternKnowledge, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pattern knowledge: %w", err)
	}
	defer rows.Close()

	var out []models.PatternKnowledge
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan pattern knowledge: %w", err)
		}
		pk, err := decodePattern(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, *pk)
	}
	return out, rows.Err()
}
