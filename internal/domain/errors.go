package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Balance errors
	ErrMsgInsufficientFunds = "insufficient funds"

	// Bet event errors
	ErrMsgEventNotFound     = "bet not found"
	ErrMsgAlreadyResolved   = "bet already resolved"
	ErrMsgBettingClosed     = "betting is closed for this bet"
	ErrMsgInvalidEvent      = "invalid bet"
	ErrMsgInvalidOption     = "invalid option"
	ErrMsgInvalidAmount     = "amount must be at least 1"
	ErrMsgCrossOptionWager  = "already wagered on the other option"
	ErrMsgPayoutNotApplied  = "bet resolved but payouts were not applied"
	ErrMsgSettlementApplied = "settlement already applied"

	// Database/System errors
	ErrMsgStorageFailure = "storage failure"
	ErrMsgTxClosed       = "tx is closed"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Balance errors
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)

	// Bet event errors
	ErrEventNotFound    = errors.New(ErrMsgEventNotFound)
	ErrAlreadyResolved  = errors.New(ErrMsgAlreadyResolved)
	ErrBettingClosed    = errors.New(ErrMsgBettingClosed)
	ErrInvalidEvent     = errors.New(ErrMsgInvalidEvent)
	ErrInvalidOption    = errors.New(ErrMsgInvalidOption)
	ErrInvalidAmount    = errors.New(ErrMsgInvalidAmount)
	ErrCrossOptionWager = errors.New(ErrMsgCrossOptionWager)

	// Settlement errors
	// ErrPayoutNotApplied means the bet is marked resolved but no credit landed.
	// An operator has to replay the payouts (see settlement.Reconcile).
	ErrPayoutNotApplied  = errors.New(ErrMsgPayoutNotApplied)
	ErrSettlementApplied = errors.New(ErrMsgSettlementApplied)

	// Storage errors
	ErrStorageFailure = errors.New(ErrMsgStorageFailure)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
