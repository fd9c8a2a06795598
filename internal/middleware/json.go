package middleware

import (
	"encoding/json"
	"net/http"

	"netops-cockpit/internal/model"
)

// writeEnvelope emits the standard response envelope from middleware,
// which cannot use the handler package's helpers without an import cycle.
func writeEnvelope(w http.ResponseWriter, status int, resp model.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
