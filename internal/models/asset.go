// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AssetCategory groups uploaded brand reference files.
type AssetCategory string

const (
	AssetLogos         AssetCategory = "logos"
	AssetGuidelines    AssetCategory = "guidelines"
	AssetCompetitorAds AssetCategory = "competitor-ads"
	AssetReferenceCopy AssetCategory = "reference-copy"
	AssetOther         AssetCategory = "other"
)

// AssetCategories lists every category in display order.
var AssetCategories = []AssetCategory{
	AssetLogos, AssetGuidelines, AssetCompetitorAds, AssetReferenceCopy, AssetOther,
}

// Valid reports whether c is a known category.
func (c AssetCategory) Valid() bool {
	for _, known := range AssetCategories {
		if c == known {
			return true
		}
	}
	return false
}

// BrandAsset is a reference file uploaded for a brand. Metadata lives in
// PostgreSQL; the file itself lives in the bucket.
type BrandAsset struct {
	ID         uuid.UUID     `json:"id"`
	BrandID    string        `json:"brandId"`
	Category   AssetCategory `json:"category"`
	FileName   string        `json:"fileName"`
	FileType   string        `json:"fileType"`
	SizeBytes  int64         `json:"sizeBytes"`
	Bucket     string        `json:"bucket"`
	S3Key      string        `json:"s3Key"`
	ThumbS3Key *string       `json:"thumbS3Key,omitempty"`
	URL        string        `json:"url"`
	ThumbURL   string        `json:"thumbUrl,omitempty"`
	UploadedBy string        `json:"uploadedBy"`
	UploadedAt time.Time     `json:"uploadedAt"`
	Metadata   AssetMetadata `json:"metadata"`
}

// AssetMetadata is the free-form, editable part of an asset record.
type AssetMetadata struct {
	Description  string   `json:"description,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	CampaignName string   `json:"campaignName,omitempty"`
	SourceURL    string   `json:"sourceUrl,omitempty"`
	UsageRights  string   `json:"usageRights,omitempty"`
}

// IsImage returns true if the asset is an image type.
func (a *BrandAsset) IsImage() bool {
	return strings.HasPrefix(a.FileType, "image/")
}

// HumanSize returns a human-readable file size string.
func (a *BrandAsset) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case a.SizeBytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(a.SizeBytes)/float64(mb))
	case a.SizeBytes >= kb:
		return fmt.Sprintf("%.0f KB", float64(a.SizeBytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", a.SizeBytes)
	}
}

// AssetStats summarises a brand's asset library.
type AssetStats struct {
	Total      int                   `json:"total"`
	TotalBytes int64                 `json:"totalBytes"`
	ByCategory map[AssetCategory]int `json:"byCategory"`
}
