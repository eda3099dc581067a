package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"payviu/internal/core"
	"payviu/internal/store"
)

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode response",
			"error", err,
			"path", r.URL.Path)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, r, status, map[string]string{"error": message})
}

// respondServiceError maps lifecycle engine errors to HTTP statuses:
// validation failures to 422, missing records to 404, everything else
// (storage failures included) surfaces as 500.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, r, http.StatusNotFound, "payment not found")
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidStatus),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidPriority),
		errors.Is(err, core.ErrInvalidPeriod),
		errors.Is(err, core.ErrInvalidDueDate),
		errors.Is(err, core.ErrEmptyTitle):
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path)
		respondError(w, r, http.StatusInternalServerError, "internal error")
	}
}
