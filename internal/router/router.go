package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"netops-cockpit/internal/config"
	"netops-cockpit/internal/handler"
	"netops-cockpit/internal/middleware"
)

func New(
	cfg *config.Config,
	healthHandler *handler.HealthHandler,
	inventoryHandler *handler.InventoryHandler,
	locationHandler *handler.LocationHandler,
	metadataHandler *handler.MetadataHandler,
	editSetHandler *handler.EditSetHandler,
	exportHandler *handler.ExportHandler,
	syncHandler *handler.SyncHandler,
	auditHandler *handler.AuditHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.ExportRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", healthHandler.Check)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.TimeoutMiddleware(cfg.RequestTimeout))

		api.Get("/devices", inventoryHandler.List)
		api.Get("/devices/{device_id}", inventoryHandler.Get)
		api.Get("/locations", locationHandler.List)
		api.Get("/namespaces", metadataHandler.Namespaces)
		api.Get("/stats", metadataHandler.Stats)

		api.Get("/cache/stats", metadataHandler.CacheStats)
		api.Delete("/cache", metadataHandler.InvalidateCache)

		api.Post("/editsets", editSetHandler.Create)
		api.Get("/editsets/{id}", editSetHandler.Get)
		api.Put("/editsets/{id}/devices/{device_id}", editSetHandler.UpsertDevice)
		api.Delete("/editsets/{id}/devices/{device_id}", editSetHandler.RemoveDevice)
		api.Delete("/editsets/{id}", editSetHandler.Clear)
		api.Post("/editsets/{id}/export", exportHandler.Export)

		api.Post("/sync", syncHandler.Start)
		api.Get("/sync/runs", syncHandler.RecentRuns)
		api.Get("/sync/runs/{run_id}", syncHandler.GetRun)

		api.Get("/audit", auditHandler.List)
	})

	return r
}
