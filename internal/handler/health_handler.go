package handler

import (
	"context"
	"net/http"
	"time"

	"netops-cockpit/internal/service"
)

type DatabaseChecker interface {
	Health(ctx context.Context) error
}

type UpstreamChecker interface {
	TestConnection(ctx context.Context) (string, time.Duration, error)
}

type HealthHandler struct {
	db        DatabaseChecker
	upstream  UpstreamChecker
	inventory *service.InventoryService
}

func NewHealthHandler(db DatabaseChecker, upstream UpstreamChecker, inventory *service.InventoryService) *HealthHandler {
	return &HealthHandler{db: db, upstream: upstream, inventory: inventory}
}

type healthReport struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Nautobot    string `json:"nautobot"`
	APIVersion  string `json:"nautobot_api_version,omitempty"`
	LatencyMS   int64  `json:"nautobot_latency_ms,omitempty"`
	SnapshotAge string `json:"snapshot_age,omitempty"`
}

// Check reports liveness plus the state of both backing systems. A degraded
// dependency does not fail the probe; orchestrators only need the process up.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	report := healthReport{Status: "ok", Database: "ok", Nautobot: "ok"}

	if err := h.db.Health(ctx); err != nil {
		report.Database = "unreachable"
		report.Status = "degraded"
	}

	version, latency, err := h.upstream.TestConnection(ctx)
	if err != nil {
		report.Nautobot = "unreachable"
		report.Status = "degraded"
	} else {
		report.APIVersion = version
		report.LatencyMS = latency.Milliseconds()
	}

	if age, ok, err := h.inventory.SnapshotAge(ctx); err == nil && ok {
		report.SnapshotAge = age.Round(time.Second).String()
	}

	writeSuccess(w, http.StatusOK, report, nil)
}
