// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"brandstudio/internal/models"
)

// AssetStore handles brand asset metadata in PostgreSQL.
type AssetStore struct {
	db *sql.DB
}

// NewAssetStore creates a new AssetStore with the given database connection.
func NewAssetStore(db *sql.DB) *AssetStore {
	return &AssetStore{db: db}
}

// assetColumns lists the columns selected in asset queries.
const assetColumns = `id, brand_id, category, file_name, file_type, size_bytes,
	bucket, s3_key, thumb_s3_key, url, uploaded_by, uploaded_at, metadata`

// scanAsset scans an asset row from the result set.
func scanAsset(row scanner) (*models.BrandAsset, error) {
	var (
		a    models.BrandAsset
		meta []byte
	)
	err := row.Scan(
		&a.ID, &a.BrandID, &a.Category, &a.FileName, &a.FileType, &a.SizeBytes,
		&a.Bucket, &a.S3Key, &a.ThumbS3Key, &a.URL, &a.UploadedBy, &a.UploadedAt, &meta,
	)
	if err != nil {
		return nil, err
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &a.Metadata); err != nil {
			return nil, fmt.Errorf("decode asset metadata: %w", err)
		}
	}
	return &a, nil
}

// Create inserts a new asset record and returns it with the generated ID.
func (s *AssetStore) Create(ctx context.Context, a *models.BrandAsset) (*models.BrandAsset, error) {
	meta, err := json.Marshal(a.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encode asset metadata: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO brand_assets (brand_id, category, file_name, file_type, size_bytes,
			bucket, s3_key, thumb_s3_key, url, uploaded_by, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+assetColumns,
		a.BrandID, a.Category, a.FileName, a.FileType, a.SizeBytes,
		a.Bucket, a.S3Key, a.ThumbS3Key, a.URL, a.UploadedBy, meta,
	)
	created, err := scanAsset(row)
	if err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}
	return created, nil
}

// FindByID retrieves a single asset by its UUID, or ErrNotFound.
func (s *AssetStore) FindByID(ctx context.Context, id uuid.UUID) (*models.BrandAsset, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM brand_assets WHERE id = $1`, id)
	a, err := scanAsset(row)
	if err != nil {
		return nil, fmt.Errorf("find asset %s: %w", id, notFound(err))
	}
	return a, nil
}

// ListByBrand returns a brand's assets newest first. An empty category
// returns every category.
func (s *AssetStore) ListByBrand(ctx context.Context, brandID string, category models.AssetCategory) ([]models.BrandAsset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+assetColumns+`
		FROM brand_assets
		WHERE brand_id = $1 AND ($2 = '' OR category = $2)
		ORDER BY uploaded_at DESC
	`, brandID, string(category))
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var items []models.BrandAsset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// UpdateMetadata replaces the editable metadata of an asset and returns the
// updated record.
func (s *AssetStore) UpdateMetadata(ctx context.Context, id uuid.UUID, meta models.AssetMetadata) (*models.BrandAsset, error) {
	payload, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encode asset metadata: %w", err)
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE brand_assets SET metadata = $1 WHERE id = $2
		RETURNING `+assetColumns, payload, id)
	a, err := scanAsset(row)
	if err != nil {
		return nil, fmt.Errorf("update asset metadata %s: %w", id, notFound(err))
	}
	return a, nil
}

// Delete removes an asset record and returns it so the caller can clean
// up the corresponding S3 objects.
func (s *AssetStore) Delete(ctx context.Context, id uuid.UUID) (*models.BrandAsset, error) {
	row := s.db.QueryRowContext(ctx, `
		DELETE FROM brand_assets WHERE id = $1
		RETURNING `+assetColumns, id)
	a, err := scanAsset(row)
	if err != nil {
		return nil, fmt.Errorf("delete asset %s: %w", id, notFound(err))
	}
	return a, nil
}

// Stats counts a brand's assets per category.
func (s *AssetStore) Stats(ctx context.Context, brandID string) (*models.AssetStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(*), COALESCE(SUM(size_bytes), 0)
		FROM brand_assets
		WHERE brand_id = $1
		GROUP BY category
	`, brandID)
	if err != nil {
		return nil, fmt.Errorf("asset stats: %w", err)
	}
	defer rows.Close()

	stats := &models.AssetStats{ByCategory: make(map[models.AssetCategory]int, len(models.AssetCategories))}
	for _, c := range models.AssetCategories {
		stats.ByCategory[c] = 0
	}
	for rows.Next() {
		var (
			cat   models.AssetCategory
			count int
			bytes int64
		)
		if err := rows.Scan(&cat, &count, &bytes); err != nil {
			return nil, fmt.Errorf("scan asset stats: %w", err)
		}
		stats.ByCategory[cat] = count
		stats.Total += count
		stats.TotalBytes += bytes
	}
	return stats, rows.Err()
}
