package handlers

import (
	"net/http"

	"brandstudio/internal/models"
)

// ListBrands returns the brand catalogue.
func (a *API) ListBrands(w http.ResponseWriter, r *http.Request) {
	list := a.brands.List()
	if list == nil {
		list = []models.Brand{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"brands": list})
}

// GetBrand returns one brand.
func (a *API) GetBrand(w http.ResponseWriter, r *http.Request) {
	b, ok := a.brand(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, b)
}

type providerInfo struct {
	Active          string   `json:"active"`
	Available       []string `json:"available"`
	ImageGeneration bool     `json:"imageGeneration"`
	Speech          bool     `json:"speech"`
}

func (a *API) providerInfo() providerInfo {
	return providerInfo{
		Active:          a.providers.ActiveName(),
		Available:       a.providers.Available(),
		ImageGeneration: a.providers.SupportsImageGeneration(),
		Speech:          a.providers.SupportsSpeech(),
	}
}

// GetProviders reports the active AI provider and the optional
// capabilities of the configured ones.
func (a *API) GetProviders(w http.ResponseWriter, r *http.Request) {
	if a.providers == nil {
		writeError(w, http.StatusServiceUnavailable, "no AI providers configured")
		return
	}
	writeJSON(w, http.StatusOK, a.providerInfo())
}

// SetProvider switches the active AI provider at runtime.
func (a *API) SetProvider(w http.ResponseWriter, r *http.Request) {
	if a.providers == nil {
		writeError(w, http.StatusServiceUnavailable, "no AI providers configured")
		return
	}
	var body struct {
		Provider string `json:"provider"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := a.providers.SetActive(body.Provider); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a.providerInfo())
}
