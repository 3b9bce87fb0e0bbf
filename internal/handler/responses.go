package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/LunaBet_Go/internal/domain"
	"github.com/osse101/LunaBet_Go/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// bufferPool is a pool of bytes.Buffer to reduce allocations during JSON encoding
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	// Encode before writing the header so an encoding failure can still become a 500
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs a failed service call and writes the mapped response.
// Business outcomes log at debug, faults at error.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)

	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(opName+" failed", "error", err)
	} else {
		log.Debug(opName+" rejected", "error", err, "status", status)
	}

	respondError(w, status, msg)
}

// User-facing error messages for service errors
const (
	// Generic messages
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"
	ErrMsgAuthFailedError    = "Authentication failed. Please check your API key."
	ErrMsgTooManyRequests    = "Too many requests. Please try again later."
	ErrMsgUnavailableError   = "Server is temporarily unavailable. Please try again later."

	// Balance messages
	ErrMsgNotEnoughPointsError = "You don't have enough points"
	ErrMsgInvalidAmountError   = "Amount must be at least 1"

	// Bet messages
	ErrMsgBetNotFoundError         = "Bet not found"
	ErrMsgBetAlreadyResolvedError  = "This bet has already been resolved"
	ErrMsgBettingClosedError       = "Betting is closed for this bet"
	ErrMsgInvalidOptionError       = "Invalid option. Choose 1 or 2"
	ErrMsgCrossOptionError         = "You already bet on the other option"
	ErrMsgBetStillOpenError        = "This bet has not been resolved"
	ErrMsgSettlementAppliedError   = "Payouts for this bet were already applied"
	ErrMsgPayoutNotAppliedError    = "Bet resolved, but payouts could not be applied. An operator has been alerted."
	ErrMsgInvalidInputErrorDefault = "Invalid request. Please check your inputs."
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	// Checked first: a payout failure also wraps the storage error that caused it
	case errors.Is(err, domain.ErrPayoutNotApplied):
		return http.StatusInternalServerError, ErrMsgPayoutNotAppliedError
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, ErrMsgNotEnoughPointsError
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, ErrMsgInvalidAmountError
	case errors.Is(err, domain.ErrInvalidOption):
		return http.StatusBadRequest, ErrMsgInvalidOptionError
	case errors.Is(err, domain.ErrInvalidInput):
		// Input errors are built from fixed messages and safe to echo
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrEventNotFound):
		return http.StatusNotFound, ErrMsgBetNotFoundError
	case errors.Is(err, domain.ErrAlreadyResolved):
		return http.StatusConflict, ErrMsgBetAlreadyResolvedError
	case errors.Is(err, domain.ErrBettingClosed):
		return http.StatusConflict, ErrMsgBettingClosedError
	case errors.Is(err, domain.ErrCrossOptionWager):
		return http.StatusConflict, ErrMsgCrossOptionError
	case errors.Is(err, domain.ErrSettlementApplied):
		return http.StatusConflict, ErrMsgSettlementAppliedError
	case errors.Is(err, domain.ErrInvalidEvent):
		return http.StatusConflict, ErrMsgBetStillOpenError
	case errors.Is(err, domain.ErrStorageFailure):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
