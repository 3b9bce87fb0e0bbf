package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details for security reasons.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidLimit      = "Invalid limit parameter"
	ErrMsgMissingBetID      = "Missing bet id"
)

// Operation names used in logs
const (
	OpGetBalance    = "Get balance"
	OpSetBalance    = "Set balance"
	OpGivePoints    = "Give points"
	OpGetHistory    = "Get balance history"
	OpCreateBet     = "Create bet"
	OpGetBet        = "Get bet"
	OpUpdateBet     = "Update bet"
	OpListWagers    = "List wagers"
	OpPlaceWager    = "Place wager"
	OpResolveBet    = "Resolve bet"
	OpReconcileBet  = "Reconcile bet"
	OpListUnsettled = "List unsettled bets"
)
