package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"netops-cockpit/internal/service"
	"netops-cockpit/pkg/apierror"
)

type EditSetHandler struct {
	service *service.EditSetService
}

func NewEditSetHandler(service *service.EditSetService) *EditSetHandler {
	return &EditSetHandler{service: service}
}

func (h *EditSetHandler) Create(w http.ResponseWriter, r *http.Request) {
	set, err := h.service.Create(r.Context(), actorFromRequest(r).Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, set, nil)
}

func (h *EditSetHandler) Get(w http.ResponseWriter, r *http.Request) {
	setID := chi.URLParam(r, "id")
	if setID == "" {
		writeError(w, apierror.BadRequest("id is required", "id"))
		return
	}

	set, err := h.service.Get(r.Context(), setID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, set, nil)
}

func (h *EditSetHandler) UpsertDevice(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	setID := chi.URLParam(r, "id")
	deviceID := chi.URLParam(r, "device_id")
	if setID == "" || deviceID == "" {
		writeError(w, apierror.BadRequest("id and device_id are required", ""))
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if err := h.service.UpsertDevice(r.Context(), setID, deviceID, fields); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"device_id": deviceID}, nil)
}

func (h *EditSetHandler) RemoveDevice(w http.ResponseWriter, r *http.Request) {
	setID := chi.URLParam(r, "id")
	deviceID := chi.URLParam(r, "device_id")
	if setID == "" || deviceID == "" {
		writeError(w, apierror.BadRequest("id and device_id are required", ""))
		return
	}

	if err := h.service.RemoveDevice(r.Context(), setID, deviceID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"device_id": deviceID}, nil)
}

func (h *EditSetHandler) Clear(w http.ResponseWriter, r *http.Request) {
	setID := chi.URLParam(r, "id")
	if setID == "" {
		writeError(w, apierror.BadRequest("id is required", "id"))
		return
	}

	if err := h.service.Clear(r.Context(), setID, actorFromRequest(r)); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"id": setID, "status": "cleared"}, nil)
}
