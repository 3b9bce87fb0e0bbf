package settlement

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgResolvingBet         = "Resolving bet"
	LogMsgBetResolved          = "Bet resolved and paid out"
	LogMsgPayoutNotApplied     = "Bet resolved but payouts were not applied, reconciliation required"
	LogMsgJournalAppendFailed  = "Failed to journal unapplied settlement"
	LogMsgPublishFailed        = "Failed to publish settlement event"
	LogMsgSettlementReconciled = "Settlement reconciled"
	LogMsgReconcileFailed      = "Failed to reconcile settlement"
	LogMsgReconcileSweep       = "Reconciliation sweep finished"
	LogMsgAlreadySettled       = "Bet was settled by another reconcile"
)

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrMsgBetStillActive        = "bet %s is still active"
	ErrMsgFailedToListWagers    = "failed to list wagers"
	ErrMsgFailedToListPending   = "failed to list unsettled bets"
	ErrMsgFailedToGetSettlement = "failed to get settlement"
)
