package handler

import (
	"net/http"

	"netops-cockpit/internal/service"
)

type MetadataHandler struct {
	service *service.MetadataService
}

func NewMetadataHandler(service *service.MetadataService) *MetadataHandler {
	return &MetadataHandler{service: service}
}

func (h *MetadataHandler) Namespaces(w http.ResponseWriter, r *http.Request) {
	namespaces, err := h.service.Namespaces(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, namespaces, nil)
}

func (h *MetadataHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, stats, nil)
}

func (h *MetadataHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.service.CacheStats(), nil)
}

func (h *MetadataHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	h.service.InvalidateCache()
	writeSuccess(w, http.StatusOK, map[string]string{"status": "cache cleared"}, nil)
}
