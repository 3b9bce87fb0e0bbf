package handler

import (
	"net/http"

	"github.com/osse101/LunaBet_Go/internal/domain"
	"github.com/osse101/LunaBet_Go/internal/points"
)

// PointsHandler serves balance reads and admin adjustments
type PointsHandler struct {
	service points.Service
}

// NewPointsHandler creates a new points handler
func NewPointsHandler(service points.Service) *PointsHandler {
	return &PointsHandler{service: service}
}

// BalanceResponse is returned by every balance endpoint
type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

// SetBalanceRequest overwrites a balance. Amount may be zero or negative.
type SetBalanceRequest struct {
	UserID string `json:"user_id" validate:"userid"`
	Amount *int64 `json:"amount" validate:"required"`
}

// GivePointsRequest adds points to a balance
type GivePointsRequest struct {
	UserID string `json:"user_id" validate:"userid"`
	Amount int64  `json:"amount" validate:"required,min=1"`
}

// HistoryResponse lists balance journal entries, newest first
type HistoryResponse struct {
	UserID  string                `json:"user_id"`
	Entries []domain.BalanceEntry `json:"entries"`
}

// HandleGetBalance returns a user's balance, provisioning it on first access
// @Summary Get balance
// @Tags points
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} BalanceResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/points [get]
func (h *PointsHandler) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	balance, err := h.service.GetBalance(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, OpGetBalance, err)
		return
	}

	respondJSON(w, http.StatusOK, BalanceResponse{UserID: userID, Balance: balance})
}

// HandleSetBalance overwrites a user's balance
// @Summary Set balance
// @Tags points
// @Accept json
// @Produce json
// @Param request body SetBalanceRequest true "New balance"
// @Success 200 {object} BalanceResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/points [put]
func (h *PointsHandler) HandleSetBalance(w http.ResponseWriter, r *http.Request) {
	var req SetBalanceRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpSetBalance); err != nil {
		return
	}

	if err := h.service.SetBalance(r.Context(), req.UserID, *req.Amount); err != nil {
		respondServiceError(w, r, OpSetBalance, err)
		return
	}

	respondJSON(w, http.StatusOK, BalanceResponse{UserID: req.UserID, Balance: *req.Amount})
}

// HandleGivePoints adds points to a user's balance
// @Summary Give points
// @Tags points
// @Accept json
// @Produce json
// @Param request body GivePointsRequest true "Points to add"
// @Success 200 {object} BalanceResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/points/give [post]
func (h *PointsHandler) HandleGivePoints(w http.ResponseWriter, r *http.Request) {
	var req GivePointsRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpGivePoints); err != nil {
		return
	}

	balance, err := h.service.Give(r.Context(), req.UserID, req.Amount)
	if err != nil {
		respondServiceError(w, r, OpGivePoints, err)
		return
	}

	respondJSON(w, http.StatusOK, BalanceResponse{UserID: req.UserID, Balance: balance})
}

// HandleGetHistory lists a user's balance journal
// @Summary Balance history
// @Tags points
// @Produce json
// @Param user_id query string true "User ID"
// @Param limit query int false "Maximum entries"
// @Success 200 {object} HistoryResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/points/history [get]
func (h *PointsHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}
	limit, ok := GetLimitParam(r, w)
	if !ok {
		return
	}

	entries, err := h.service.History(r.Context(), userID, limit)
	if err != nil {
		respondServiceError(w, r, OpGetHistory, err)
		return
	}
	if entries == nil {
		entries = []domain.BalanceEntry{}
	}

	respondJSON(w, http.StatusOK, HistoryResponse{UserID: userID, Entries: entries})
}
