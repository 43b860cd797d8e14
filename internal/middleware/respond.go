package middleware

import (
	"encoding/json"
	"net/http"

	"storefront-api/internal/model"
)

// writeEnvelope emits the standard response envelope for failures raised
// inside the middleware chain, before any handler runs.
func writeEnvelope(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.Envelope{
		StatusCode: status,
		Message:    message,
	})
}
