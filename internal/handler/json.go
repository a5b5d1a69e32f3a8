package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/account-api/internal/domain"
)

// Requests are JSON except the multipart upload endpoints; bodies beyond
// this are rejected.
const maxJSONBody = 16 << 10 // 16KB

// apiResponse is the uniform success envelope.
type apiResponse struct {
	Status  int    `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// apiError is the uniform failure envelope.
type apiError struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

// writeData sends a success envelope with the given status code.
func writeData(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, apiResponse{Status: status, Data: data, Message: message})
}

// writeError sends a failure envelope with the given status code.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiError{Status: status, Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// readJSON decodes the request body into the given destination.
func readJSON(r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxJSONBody)).Decode(dst)
}

// writeServiceError maps a service error onto the taxonomy's status code.
// 4xx failures surface their message; everything else is logged and hidden
// behind a generic 500.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		// Expired vs malformed vs mismatched stays in the server log only.
		slog.Info(op+" unauthorized", "cause", err)
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateUser):
		writeError(w, http.StatusConflict, "A user with that username or email already exists.")
	case errors.Is(err, domain.ErrUploadFailed):
		slog.Error(op+" upload failed", "error", err)
		writeError(w, http.StatusBadGateway, "Media upload failed. Please try again.")
	case errors.Is(err, domain.ErrDeliveryFailed):
		slog.Error(op+" mail delivery failed", "error", err)
		writeError(w, http.StatusBadGateway, "Could not send mail. Please try again.")
	default:
		slog.Error(op, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
	}
}
