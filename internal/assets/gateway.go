// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package assets manages brand reference files: logos, guidelines,
// competitor ads and reference copy. File bytes live in S3, metadata in
// PostgreSQL. Logos and reference copy go to the public bucket; guidelines,
// competitor ads and everything else stay private and are served through
// presigned URLs.
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"brandstudio/internal/models"
	"brandstudio/internal/slug"
	"brandstudio/internal/storage"
)

const (
	// MaxUploadSize is the maximum allowed file size (50 MB).
	MaxUploadSize = 50 << 20

	// presignExpiry is how long a presigned URL for private files is valid.
	presignExpiry = time.Hour

	batchConcurrency = 4
)

var (
	// ErrInvalidUpload is returned for uploads that fail validation.
	ErrInvalidUpload = errors.New("invalid upload")
	// ErrTooLarge is returned for files above MaxUploadSize.
	ErrTooLarge = errors.New("file too large, maximum size is 50 MB")
	// ErrStorageUnavailable is returned when no object storage is configured.
	ErrStorageUnavailable = errors.New("object storage is not configured")
)

// Store persists asset metadata. *store.AssetStore satisfies it.
type Store interface {
	Create(ctx context.Context, a *models.BrandAsset) (*models.BrandAsset, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.BrandAsset, error)
	ListByBrand(ctx context.Context, brandID string, category models.AssetCategory) ([]models.BrandAsset, error)
	UpdateMetadata(ctx context.Context, id uuid.UUID, meta models.AssetMetadata) (*models.BrandAsset, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.BrandAsset, error)
	Stats(ctx context.Context, brandID string) (*models.AssetStats, error)
}

// ObjectStore holds file bytes. *storage.Client satisfies it.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64, progress storage.ProgressFunc) error
	Delete(ctx context.Context, bucket, key string) error
	FileURL(key string) string
	PresignedURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
	PublicBucket() string
	PrivateBucket() string
}

// Gateway uploads, lists and removes brand assets.
type Gateway struct {
	store   Store
	objects ObjectStore
	now     func() time.Time
}

// NewGateway creates a Gateway. objects may be nil, in which case reads of
// existing metadata still work and uploads fail with ErrStorageUnavailable.
func NewGateway(st Store, objects ObjectStore) *Gateway {
	return &Gateway{store: st, objects: objects, now: time.Now}
}

// StorageConfigured reports whether uploads are possible.
func (g *Gateway) StorageConfigured() bool {
	return g.objects != nil
}

// UploadInput describes one file to upload.
type UploadInput struct {
	BrandID    string
	Category   models.AssetCategory
	FileName   string
	Body       io.Reader
	UploadedBy string
	Metadata   models.AssetMetadata
}

// public reports whether a category is stored in the public bucket.
func public(c models.AssetCategory) bool {
	return c == models.AssetLogos || c == models.AssetReferenceCopy
}

// Upload validates, stores and records one file. progress, when non-nil,
// receives byte counts for the original file as it is sent.
func (g *Gateway) Upload(ctx context.Context, in UploadInput, progress storage.ProgressFunc) (*models.BrandAsset, error) {
	if g.objects == nil {
		return nil, ErrStorageUnavailable
	}
	switch {
	case strings.TrimSpace(in.BrandID) == "":
		return nil, fmt.Errorf("%w: brand is required", ErrInvalidUpload)
	case !in.Category.Valid():
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidUpload, in.Category)
	case strings.TrimSpace(in.FileName) == "":
		return nil, fmt.Errorf("%w: file name is required", ErrInvalidUpload)
	case in.Body == nil:
		return nil, fmt.Errorf("%w: no file provided", ErrInvalidUpload)
	}

	data, err := io.ReadAll(io.LimitReader(in.Body, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidUpload)
	}

	contentType := DetectType(in.FileName, data)
	if !allowedTypes[contentType] {
		return nil, fmt.Errorf("%w: file type %q is not allowed", ErrInvalidUpload, contentType)
	}

	bucket := g.objects.PrivateBucket()
	if public(in.Category) {
		bucket = g.objects.PublicBucket()
	}

	now := g.now().UTC()
	ext := path.Ext(slug.FileName(in.FileName))
	if ext == "" {
		ext = extensionFromType(contentType)
	}
	fileID := uuid.NewString()
	prefix := fmt.Sprintf("brands/%s/%s/%d/%02d/%s", in.BrandID, in.Category, now.Year(), now.Month(), fileID)
	key := prefix + ext

	if err := g.objects.Upload(ctx, bucket, key, contentType, bytes.NewReader(data), int64(len(data)), progress); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", key)
		return nil, fmt.Errorf("upload %s: %w", in.FileName, err)
	}

	var thumbKey *string
	if thumbableTypes[contentType] {
		thumb, err := generateThumbnail(data, thumbMaxWidth)
		if err != nil {
			slog.Warn("thumbnail generation failed", "error", err, "key", key)
		} else if thumb != nil {
			tk := prefix + "_thumb.jpg"
			if err := g.objects.Upload(ctx, bucket, tk, "image/jpeg", bytes.NewReader(thumb), int64(len(thumb)), nil); err != nil {
				slog.Warn("thumbnail upload failed", "error", err, "key", tk)
			} else {
				thumbKey = &tk
			}
		}
	}

	var url string
	if bucket == g.objects.PublicBucket() {
		url = g.objects.FileURL(key)
	}

	created, err := g.store.Create(ctx, &models.BrandAsset{
		BrandID:    in.BrandID,
		Category:   in.Category,
		FileName:   filepath.Base(in.FileName),
		FileType:   contentType,
		SizeBytes:  int64(len(data)),
		Bucket:     bucket,
		S3Key:      key,
		ThumbS3Key: thumbKey,
		URL:        url,
		UploadedBy: in.UploadedBy,
		Metadata:   cleanMetadata(in.Metadata),
	})
	if err != nil {
		slog.Error("asset db insert failed", "error", err, "key", key)
		g.removeObjects(ctx, bucket, key, thumbKey)
		return nil, fmt.Errorf("save asset metadata: %w", err)
	}

	slog.Info("asset uploaded", "brand", in.BrandID, "id", created.ID, "category", in.Category, "size", created.HumanSize())
	return g.resolve(ctx, created), nil
}

// UploadResult is the settled outcome of one file in a batch.
type UploadResult struct {
	Index    int                `json:"index"`
	FileName string             `json:"fileName"`
	Asset    *models.BrandAsset `json:"asset,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// BatchProgressFunc receives progress for the file at index.
type BatchProgressFunc func(index int, sent, total int64)

// UploadBatch uploads files concurrently. Every file gets a result in input
// order; one failure never cancels the others.
func (g *Gateway) UploadBatch(ctx context.Context, inputs []UploadInput, progress BatchProgressFunc) []UploadResult {
	results := make([]UploadResult, len(inputs))

	var eg errgroup.Group
	eg.SetLimit(batchConcurrency)
	for i, in := range inputs {
		results[i] = UploadResult{Index: i, FileName: in.FileName}
		var pf storage.ProgressFunc
		if progress != nil {
			pf = func(sent, total int64) { progress(i, sent, total) }
		}
		eg.Go(func() error {
			asset, err := g.Upload(ctx, in, pf)
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			results[i].Asset = asset
			return nil
		})
	}
	_ = eg.Wait()

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		slog.Warn("batch upload finished with failures", "files", len(inputs), "failed", failed)
	}
	return results
}

// List returns a brand's assets, newest first, optionally filtered by
// category.
func (g *Gateway) List(ctx context.Context, brandID string, category models.AssetCategory) ([]models.BrandAsset, error) {
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidUpload, category)
	}
	items, err := g.store.ListByBrand(ctx, brandID, category)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i] = *g.resolve(ctx, &items[i])
	}
	return items, nil
}

// Get returns one asset with usable URLs.
func (g *Gateway) Get(ctx context.Context, id uuid.UUID) (*models.BrandAsset, error) {
	a, err := g.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return g.resolve(ctx, a), nil
}

// UpdateMetadata replaces the editable metadata of an asset.
func (g *Gateway) UpdateMetadata(ctx context.Context, id uuid.UUID, meta models.AssetMetadata) (*models.BrandAsset, error) {
	a, err := g.store.UpdateMetadata(ctx, id, cleanMetadata(meta))
	if err != nil {
		return nil, err
	}
	return g.resolve(ctx, a), nil
}

// Delete removes the record first, then its objects. Object removal is
// best effort.
func (g *Gateway) Delete(ctx context.Context, id uuid.UUID) (*models.BrandAsset, error) {
	deleted, err := g.store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.objects == nil {
		slog.Warn("asset objects left in storage: object storage is not configured", "key", deleted.S3Key)
	} else {
		g.removeObjects(ctx, deleted.Bucket, deleted.S3Key, deleted.ThumbS3Key)
	}
	slog.Info("asset deleted", "brand", deleted.BrandID, "id", deleted.ID)
	return deleted, nil
}

// Stats summarises a brand's asset library.
func (g *Gateway) Stats(ctx context.Context, brandID string) (*models.AssetStats, error) {
	return g.store.Stats(ctx, brandID)
}

func (g *Gateway) removeObjects(ctx context.Context, bucket, key string, thumbKey *string) {
	if err := g.objects.Delete(ctx, bucket, key); err != nil {
		slog.Warn("s3 original delete failed", "error", err, "key", key)
	}
	if thumbKey != nil {
		if err := g.objects.Delete(ctx, bucket, *thumbKey); err != nil {
			slog.Warn("s3 thumbnail delete failed", "error", err, "key", *thumbKey)
		}
	}
}

// resolve fills URL and ThumbURL. Private objects get presigned URLs.
func (g *Gateway) resolve(ctx context.Context, a *models.BrandAsset) *models.BrandAsset {
	if g.objects == nil {
		return a
	}
	url := func(key string) string {
		if a.Bucket == g.objects.PublicBucket() {
			return g.objects.FileURL(key)
		}
		u, err := g.objects.PresignedURL(ctx, a.Bucket, key, presignExpiry)
		if err != nil {
			slog.Warn("presign failed", "error", err, "key", key)
			return ""
		}
		return u
	}
	a.URL = url(a.S3Key)
	if a.ThumbS3Key != nil {
		a.ThumbURL = url(*a.ThumbS3Key)
	}
	return a
}

// cleanMetadata trims fields and drops blank or repeated tags.
func cleanMetadata(m models.AssetMetadata) models.AssetMetadata {
	out := models.AssetMetadata{
		Description:  strings.TrimSpace(m.Description),
		CampaignName: strings.TrimSpace(m.CampaignName),
		SourceURL:    strings.TrimSpace(m.SourceURL),
		UsageRights:  strings.TrimSpace(m.UsageRights),
	}
	seen := make(map[string]bool, len(m.Tags))
	for _, t := range m.Tags {
		t = strings.TrimSpace(t)
		k := strings.ToLower(t)
		if t == "" || seen[k] {
			continue
		}
		seen[k] = true
		out.Tags = append(out.Tags, t)
	}
	return out
}
