// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"brandstudio/internal/models"
)

// revisionColumns lists all columns for instruction_revisions SELECTs.
const revisionColumns = `id, brand_id, version, document, edited_by, note, created_at`

// RevisionStore provides access to the instruction edit history.
type RevisionStore struct {
	db *sql.DB
}

// NewRevisionStore creates a new RevisionStore backed by the given database.
func NewRevisionStore(db *sql.DB) *RevisionStore {
	return &RevisionStore{db: db}
}

// scanRevision scans a single instruction_revisions row.
func scanRevision(row scanner) (*models.InstructionRevision, error) {
	var (
		r   models.InstructionRevision
		raw []byte
	)
	if err := row.Scan(&r.ID, &r.BrandID, &r.Version, &raw, &r.EditedBy, &r.Note, &r.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &r.Document); err != nil {
		return nil, fmt.Errorf("decode revision document: %w", err)
	}
	return &r, nil
}

// Create inserts a snapshot and returns it with the generated ID.
func (s *RevisionStore) Create(ctx context.Context, rev *models.InstructionRevision) (*models.InstructionRevision, error) {
	payload, err := json.Marshal(rev.Document)
	if err != nil {
		return nil, fmt.Errorf("encode revision: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO instruction_revisions (brand_id, version, document, edited_by, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+revisionColumns,
		rev.BrandID, rev.Version, payload, rev.EditedBy, rev.Note,
	)
	created, err := scanRevision(row)
	if err != nil {
		return nil, fmt.Errorf("create revision: %w", err)
	}
	return created, nil
}

// ListByBrand returns up to limit revisions for a brand, newest first.
func (s *RevisionStore) ListByBrand(ctx context.Context, brandID string, limit int) ([]models.InstructionRevision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+revisionColumns+`
		FROM instruction_revisions
		WHERE brand_id = $1
		ORDER BY created_at DESC, version DESC
		LIMIT $2
	`, brandID, limit)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var revisions []models.InstructionRevision
	for rows.Next() {
		r, err := scanRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revisions = append(revisions, *r)
	}
	return revisions, rows.Err()
}
