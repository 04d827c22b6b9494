package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"promo-service/internal/model"
	"promo-service/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// AdminHandler handles the catalog management endpoints.
type AdminHandler struct {
	service service.PromoService
	logger  zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(service service.PromoService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger.With().Str("handler", "admin").Logger(),
	}
}

// CreatePromoRequest is the payload for creating a promo code.
type CreatePromoRequest struct {
	Code              string     `json:"code"`
	Description       string     `json:"description"`
	Discount          float64    `json:"discount"`
	DiscountType      string     `json:"discountType"`
	IsActive          *bool      `json:"isActive,omitempty"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty"`
	UsageLimit        *int       `json:"usageLimit,omitempty"`
	MinPurchaseAmount *float64   `json:"minPurchaseAmount,omitempty"`
	MaxDiscount       *float64   `json:"maxDiscount,omitempty"`
}

// ListResponse wraps the promo listing.
type ListResponse struct {
	Promos []model.PromoCode `json:"promos"`
	Count  int               `json:"count"`
}

// List handles GET /admin/promos requests.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	promos, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list promo codes", h.logger)
		return
	}

	if promos == nil {
		promos = []model.PromoCode{}
	}

	writeJSON(w, http.StatusOK, ListResponse{Promos: promos, Count: len(promos)})
}

// Create handles POST /admin/promos requests.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePromoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if req.Code == "" || req.Discount == 0 || req.DiscountType == "" {
		writeError(w, http.StatusBadRequest, "code, discount and discountType are required", h.logger)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	promo := &model.PromoCode{
		Code:              req.Code,
		Description:       req.Description,
		Discount:          req.Discount,
		DiscountType:      model.DiscountType(req.DiscountType),
		IsActive:          isActive,
		ExpiresAt:         req.ExpiresAt,
		UsageLimit:        req.UsageLimit,
		MinPurchaseAmount: req.MinPurchaseAmount,
		MaxDiscount:       req.MaxDiscount,
	}

	created, err := h.service.Add(r.Context(), promo)
	if err != nil {
		if errors.Is(err, model.ErrPromoExists) {
			writeError(w, http.StatusConflict, model.ErrPromoExists.Message, h.logger)
			return
		}

		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			writeError(w, http.StatusBadRequest, domainErr.Message, h.logger)
			return
		}

		writeError(w, http.StatusInternalServerError, "failed to create promo code", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Delete handles DELETE /admin/promos/{code} requests. Deleting a
// non-existent code still returns 204.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "promo code is required", h.logger)
		return
	}

	if err := h.service.Remove(r.Context(), code); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete promo code", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Toggle handles PATCH /admin/promos/{code}/toggle requests.
func (h *AdminHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "promo code is required", h.logger)
		return
	}

	updated, err := h.service.ToggleActive(r.Context(), code)
	if err != nil {
		if errors.Is(err, model.ErrPromoNotFound) {
			writeError(w, http.StatusNotFound, model.ErrPromoNotFound.Message, h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to toggle promo code", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Stats handles GET /admin/promos/stats requests.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute catalog stats", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
