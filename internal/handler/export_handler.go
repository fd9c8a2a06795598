package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"netops-cockpit/internal/csvexport"
	"netops-cockpit/internal/service"
	"netops-cockpit/pkg/apierror"
)

type ExportHandler struct {
	service *service.ExportService
}

func NewExportHandler(service *service.ExportService) *ExportHandler {
	return &ExportHandler{service: service}
}

type exportRequest struct {
	Interface *csvexport.InterfaceConfig `json:"interface,omitempty"`
	Namespace string                     `json:"namespace,omitempty"`
}

// Export streams the rendered CSV as a download. The body is optional;
// without it the export carries only the edited columns.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	setID := chi.URLParam(r, "id")
	if setID == "" {
		writeError(w, apierror.BadRequest("id is required", "id"))
		return
	}

	var payload exportRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	opts := csvexport.Options{
		Interface: payload.Interface,
		Namespace: payload.Namespace,
	}

	result, err := h.service.Export(r.Context(), setID, opts, actorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(result.CSV))
}
