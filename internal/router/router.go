// Package router sets up all HTTP routes and middleware chains of the
// brandstudio API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"brandstudio/internal/handlers"
	"brandstudio/internal/middleware"
)

// Options carries the optional pieces of the router.
type Options struct {
	// Observer records per-route request latency. Nil disables it.
	Observer middleware.RequestObserver
	// MetricsHandler serves GET /metrics when set.
	MetricsHandler http.Handler
	// AILimiter throttles the endpoints that call an AI provider. Nil
	// disables throttling.
	AILimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.API, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	if opts.Observer != nil {
		r.Use(middleware.Metrics(opts.Observer))
	}
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.Editor)

	r.Get("/health", healthHandler)
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	// limitAI wraps every endpoint that spends provider quota.
	limitAI := func(next http.Handler) http.Handler {
		if opts.AILimiter == nil {
			return next
		}
		return opts.AILimiter.Middleware(next)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/ai/providers", func(r chi.Router) {
			r.Get("/", api.GetProviders)
			r.Put("/", api.SetProvider)
		})

		r.Get("/brands", api.ListBrands)
		r.Route("/brands/{brandID}", func(r chi.Router) {
			r.Get("/", api.GetBrand)

			// Instructions and campaign examples
			r.Route("/instructions", func(r chi.Router) {
				r.Get("/", api.GetInstructions)
				r.Put("/", api.SaveInstructions)
				r.Post("/reset", api.ResetInstructions)
				r.Get("/revisions", api.ListRevisions)
				r.With(limitAI).Post("/examples", api.AddExample)
			})

			// Pattern knowledge
			r.Route("/patterns", func(r chi.Router) {
				r.Get("/", api.GetPatterns)
				r.Get("/general", api.GetGeneralPatterns)
				r.Put("/insights", api.UpdateInsights)
				r.With(limitAI).Post("/refresh", api.RefreshPatterns)
			})

			// Generation
			r.Post("/prompt", api.PreviewPrompt)
			r.Group(func(r chi.Router) {
				r.Use(limitAI)
				r.Post("/generate", api.Generate)
				r.Post("/ad-copy", api.GenerateAdCopy)
				r.Post("/images", api.GenerateImages)
				r.Post("/speech", api.GenerateSpeech)
			})

			// Approvals
			r.Get("/approved", api.ListApproved)
			r.Post("/approved", api.Approve)

			// Assets
			r.Get("/assets", api.ListAssets)
			r.Post("/assets", api.UploadAssets)
			r.Get("/assets/stats", api.AssetStats)
		})

		r.With(limitAI).Post("/approved/{id}/promote", api.Promote)

		r.Route("/assets/{id}", func(r chi.Router) {
			r.Get("/", api.GetAsset)
			r.Patch("/", api.UpdateAsset)
			r.Delete("/", api.DeleteAsset)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
