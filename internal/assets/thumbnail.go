package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// thumbMaxWidth is the maximum thumbnail width in pixels.
	thumbMaxWidth = 400

	// thumbQuality is the JPEG quality for generated thumbnails.
	thumbQuality = 80

	// maxImagePixels caps decoded images at 100 million pixels.
	maxImagePixels = 100_000_000
)

// allowedTypes are the MIME types accepted for brand assets.
var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"application/pdf": true,
	"text/plain":      true,
	"text/csv":        true,
	"text/markdown":   true,
}

// thumbableTypes are raster types that get a thumbnail. GIF is excluded to
// preserve animation; SVG is vector.
var thumbableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// DetectType sniffs the content type of data, correcting the cases where
// sniffing alone is ambiguous (SVG, CSV, Markdown) with the file extension.
// Parameters such as charset are dropped.
func DetectType(fileName string, data []byte) string {
	sniffed := http.DetectContentType(data[:min(len(data), 512)])
	if mt, _, err := mime.ParseMediaType(sniffed); err == nil {
		sniffed = mt
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	textual := strings.HasPrefix(sniffed, "text/") || strings.Contains(sniffed, "xml")
	switch {
	case ext == ".svg" && textual:
		return "image/svg+xml"
	case ext == ".csv" && textual:
		return "text/csv"
	case (ext == ".md" || ext == ".markdown") && textual:
		return "text/markdown"
	}
	return sniffed
}

// extensionFromType returns a file extension for known MIME types.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	case "application/pdf":
		return ".pdf"
	case "text/csv":
		return ".csv"
	case "text/markdown":
		return ".md"
	case "text/plain":
		return ".txt"
	default:
		return ""
	}
}

// generateThumbnail creates a JPEG thumbnail constrained to maxWidth while
// preserving aspect ratio. It returns nil when the image is already narrow
// enough.
func generateThumbnail(data []byte, maxWidth int) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxImagePixels)
	}
	if cfg.Width <= maxWidth {
		return nil, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	height := max(1, bounds.Dy()*maxWidth/bounds.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
