package domain

// Event type constants used across the application for event bus subscriptions
// and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "bet.resolved")
const (
	// EventTypeBetCreated is published when a new bet opens
	EventTypeBetCreated = "bet.created"

	// EventTypeWagerPlaced is published after a wager committed
	EventTypeWagerPlaced = "wager.placed"

	// EventTypeBetResolved is published after a bet was resolved and paid out
	EventTypeBetResolved = "bet.resolved"

	// EventTypePayoutFailed is published when a bet is resolved but its payout batch failed
	EventTypePayoutFailed = "settlement.payout_failed"

	// EventTypeSettlementReconciled is published when a pending payout batch was replayed
	EventTypeSettlementReconciled = "settlement.reconciled"

	// EventTypeBalanceAdjusted is published after an admin set or give
	EventTypeBalanceAdjusted = "balance.adjusted"
)
