package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"brandstudio/internal/models"
)

// ApprovedStore appends and reads approved content. Rows are never updated.
type ApprovedStore struct {
	db *sql.DB
}

// NewApprovedStore creates a new ApprovedStore backed by the given database.
func NewApprovedStore(db *sql.DB) *ApprovedStore {
	return &ApprovedStore{db: db}
}

func scanApproved(row scanner) (*models.ApprovedContent, error) {
	var (
		id         uuid.UUID
		raw        []byte
		approvedAt time.Time
	)
	if err := row.Scan(&id, &raw, &approvedAt); err != nil {
		return nil, err
	}
	var a models.ApprovedContent
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode approved content: %w", err)
	}
	a.ID = id
	a.ApprovedAt = approvedAt
	return &a, nil
}

// Create appends an item. The ID and approval time are assigned by the
// database and written back into a.
func (s *ApprovedStore) Create(ctx context.Context, a *models.ApprovedContent) (*models.ApprovedContent, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode approved content: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO approved_content (brand_id, content_type, market, platform, document)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, document, approved_at
	`, a.BrandID, string(a.ContentType), a.Market, a.Platform, payload)
	created, err := scanApproved(row)
	if err != nil {
		return nil, fmt.Errorf("create approved content: %w", err)
	}
	return created, nil
}

// FindByID returns one item, or ErrNotFound.
func (s *ApprovedStore) FindByID(ctx context.Context, id uuid.UUID) (*models.ApprovedContent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, document, approved_at FROM approved_content WHERE id = $1`, id)
	a, err := scanApproved(row)
	if err != nil {
		return nil, fmt.Errorf("find approved content %s: %w", id, notFound(err))
	}
	return a, nil
}

// ListByBrand returns the most recent limit items for a brand, newest first.
func (s *ApprovedStore) ListByBrand(ctx context.Context, brandID string, limit int) ([]models.ApprovedContent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document, approved_at
		FROM approved_content
		WHERE brand_id = $1
		ORDER BY approved_at DESC
		LIMIT $2
	`, brandID, limit)
	if err != nil {
		return nil, fmt.Errorf("list approved content: %w", err)
	}
	defer rows.Close()

	var items []models.ApprovedContent
	for rows.Next() {
		a, err := scanApproved(rows)
		if err != nil {
			return nil, fmt.Errorf("scan approved content: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}
