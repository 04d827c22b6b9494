package handler

import (
	"encoding/json"
	"net/http"

	"promo-service/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// writeInvalid writes a business-rule rejection. Well-formed requests
// that fail validation still return 200 with valid=false; only
// malformed input gets a 4xx status.
func writeInvalid(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.ValidationResult{Valid: false, Message: message})
}
