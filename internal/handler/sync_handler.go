package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"netops-cockpit/internal/service"
	"netops-cockpit/pkg/apierror"
)

type SyncHandler struct {
	service *service.SyncService
}

func NewSyncHandler(service *service.SyncService) *SyncHandler {
	return &SyncHandler{service: service}
}

func (h *SyncHandler) Start(w http.ResponseWriter, r *http.Request) {
	run, err := h.service.Start(r.Context(), actorFromRequest(r).Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusAccepted, run, nil)
}

func (h *SyncHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "run_id")
	if runID == "" {
		writeError(w, apierror.BadRequest("run_id is required", "run_id"))
		return
	}

	run, err := h.service.GetRun(r.Context(), runID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, run, nil)
}

func (h *SyncHandler) RecentRuns(w http.ResponseWriter, r *http.Request) {
	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 20)

	runs, err := h.service.RecentRuns(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, runs, nil)
}
