package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aradsms/contactbook/internal/platform/apperror"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Default().Error("Failed to write JSON response", "error", err)
		}
	}
}

// Helper to respond with an error
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

// respondWithValidationError answers 422 with the offending field, or 400 when the handler
// treats validation failures as bad requests.
func respondWithValidationError(w http.ResponseWriter, code int, err error) bool {
	var ve *apperror.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	respondWithJSON(w, code, errorResponse{Error: ve.Message, Field: ve.Field})
	return true
}

// respondWithStorageError hides storage detail from clients.
func respondWithStorageError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if errors.Is(err, apperror.ErrStorage) {
		logger.ErrorContext(r.Context(), "Storage failure", "error", err)
		respondWithError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	logger.ErrorContext(r.Context(), "Unexpected error", "error", err)
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
