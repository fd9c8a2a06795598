package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"netops-cockpit/internal/service"
	"netops-cockpit/pkg/apierror"
)

type InventoryHandler struct {
	service *service.InventoryService
}

func NewInventoryHandler(service *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	records, meta, err := h.service.ListDevices(r.Context(), service.DeviceListQuery{
		Name:         strings.TrimSpace(query.Get("name")),
		Location:     strings.TrimSpace(query.Get("location")),
		Status:       strings.TrimSpace(query.Get("status")),
		Query:        strings.TrimSpace(query.Get("q")),
		Roles:        trimmedValues(query["role"]),
		ExcludeRoles: trimmedValues(query["exclude_role"]),
		Source:       strings.TrimSpace(query.Get("source")),
		Page:         parseIntOrDefault(query.Get("page"), 1),
		Limit:        parseIntOrDefault(query.Get("limit"), 50),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, records, &meta)
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "device_id")
	if deviceID == "" {
		writeError(w, apierror.BadRequest("device_id is required", "device_id"))
		return
	}

	record, err := h.service.GetDevice(r.Context(), deviceID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, record, nil)
}

func trimmedValues(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
