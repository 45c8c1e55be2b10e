package handlers

import (
	"net/http"
	"strings"

	"brandstudio/internal/assets"
	"brandstudio/internal/middleware"
	"brandstudio/internal/models"
)

const (
	// maxBatchFiles caps the number of files in one upload request.
	maxBatchFiles = 10
	// multipartMemory is kept in memory while parsing; larger parts spill
	// to temporary files.
	multipartMemory = 32 << 20
)

// ListAssets returns the brand's assets, optionally filtered by ?category.
func (a *API) ListAssets(w http.ResponseWriter, r *http.Request) {
	b, ok := a.brand(w, r)
	if !ok {
		return
	}
	list, err := a.assets.List(r.Context(), b.ID, models.AssetCategory(r.URL.Query().Get("category")))
	if err != nil {
		fail(w, r, err)
		return
	}
	if list == nil {
		list = []models.BrandAsset{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"assets": list})
}

// AssetStats returns per-category counts and the total size.
func (a *API) AssetStats(w http.ResponseWriter, r *http.Request) {
	b, ok := a.brand(w, r)
	if !ok {
		return
	}
	stats, err := a.assets.Stats(r.Context(), b.ID)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// UploadAssets accepts up to maxBatchFiles "file" parts sharing one
// category and metadata. Each file settles on its own; the response lists
// every result in request order.
func (a *API) UploadAssets(w http.ResponseWriter, r *http.Request) {
	b, ok := a.brand(w, r)
	if !ok {
		return
	}
	if !a.assets.StorageConfigured() {
		writeError(w, http.StatusServiceUnavailable, assets.ErrStorageUnavailable.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBatchFiles*assets.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large or malformed")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["file"]
	switch {
	case len(headers) == 0:
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	case len(headers) > maxBatchFiles:
		writeError(w, http.StatusBadRequest, "too many files, maximum is 10 per request")
		return
	}

	meta := models.AssetMetadata{
		Description:  r.FormValue("description"),
		Tags:         splitTags(r.FormValue("tags")),
		CampaignName: r.FormValue("campaignName"),
		SourceURL:    r.FormValue("sourceUrl"),
		UsageRights:  r.FormValue("usageRights"),
	}
	category := models.AssetCategory(r.FormValue("category"))
	editor := middleware.EditorFromCtx(r.Context())

	inputs := make([]assets.UploadInput, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read "+h.Filename)
			return
		}
		defer f.Close()
		inputs = append(inputs, assets.UploadInput{
			BrandID:    b.ID,
			Category:   category,
			FileName:   h.Filename,
			Body:       f,
			UploadedBy: editor,
			Metadata:   meta,
		})
	}

	progress := make([]func(sent, total int64), len(inputs))
	for i, h := range headers {
		progress[i] = storageProgress(h.Filename)
	}
	results := a.assets.UploadBatch(r.Context(), inputs, func(index int, sent, total int64) {
		progress[index](sent, total)
	})

	status := http.StatusBadRequest
	for _, res := range results {
		if res.Error == "" {
			status = http.StatusCreated
			break
		}
	}
	writeJSON(w, status, map[string]any{"results": results})
}

// UpdateAsset replaces the editable metadata of an asset.
func (a *API) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var meta models.AssetMetadata
	if !decodeJSON(w, r, &meta) {
		return
	}
	asset, err := a.assets.UpdateMetadata(r.Context(), id, meta)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

// DeleteAsset removes an asset record and its stored objects.
func (a *API) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if _, err := a.assets.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAsset returns one asset with fresh URLs.
func (a *API) GetAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	asset, err := a.assets.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
