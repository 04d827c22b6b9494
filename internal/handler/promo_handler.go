package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"promo-service/internal/model"
	"promo-service/internal/service"

	"github.com/rs/zerolog"
)

// PromoHandler handles the public promo validation endpoints.
type PromoHandler struct {
	service service.PromoService
	logger  zerolog.Logger
}

// NewPromoHandler creates a new promo handler.
func NewPromoHandler(service service.PromoService, logger zerolog.Logger) *PromoHandler {
	return &PromoHandler{
		service: service,
		logger:  logger.With().Str("handler", "promo").Logger(),
	}
}

// ValidateRequest is the payload for validate and redeem requests.
// Amount is optional and defaults to zero.
type ValidateRequest struct {
	Code   string  `json:"code"`
	Amount float64 `json:"amount"`
}

// Validate handles POST /api/promos/validate requests. It never
// consumes a usage, so clients can preview a discount before applying.
func (h *PromoHandler) Validate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.Validate(r.Context(), req.Code, req.Amount)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to validate promo code", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Redeem handles POST /api/promos/redeem requests. A successful
// response means the usage counter was incremented.
func (h *PromoHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.Redeem(r.Context(), req.Code, req.Amount)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to redeem promo code", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// decodeRequest parses the shared request body. A missing or empty
// code field is rejected up front with a 400 before any catalog access.
func (h *PromoHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (*ValidateRequest, bool) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return nil, false
	}

	if strings.TrimSpace(req.Code) == "" {
		h.logger.Debug().Msg("request missing promo code")
		writeInvalid(w, http.StatusBadRequest, model.ErrMissingCode.Message)
		return nil, false
	}

	return &req, true
}
