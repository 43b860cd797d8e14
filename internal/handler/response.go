package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"storefront-api/internal/model"
	"storefront-api/pkg/apierror"
)

func writeData(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.Envelope{
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

// writeError is the single outermost failure boundary: structured errors keep
// their status and message, everything else becomes a generic 500 so internal
// state never leaks.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong"

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.StatusCode
		message = apiErr.Message
	} else {
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.Envelope{
		StatusCode: status,
		Message:    message,
	})
}
