package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Balance Operations
const (
	ErrMsgFailedToProvisionUser   = "failed to provision user"
	ErrMsgFailedToGetBalance      = "failed to get balance"
	ErrMsgFailedToSetBalance      = "failed to set balance"
	ErrMsgFailedToAddBalance      = "failed to add balance"
	ErrMsgFailedToDebitBalance    = "failed to debit balance"
	ErrMsgFailedToWriteHistory    = "failed to write balance history"
	ErrMsgFailedToListHistory     = "failed to list balance history"
	ErrMsgFailedToCreditPayout    = "failed to credit payout"
	ErrMsgPayoutRecipientNotFound = "payout recipient has no balance row"
)

// Error Messages - Bet Operations
const (
	ErrMsgFailedToEncodeBet     = "failed to encode bet"
	ErrMsgFailedToDecodeBet     = "failed to decode bet"
	ErrMsgFailedToSaveBet       = "failed to save bet"
	ErrMsgFailedToGetBet        = "failed to get bet"
	ErrMsgFailedToLockBet       = "failed to lock bet"
	ErrMsgFailedToResolveBet    = "failed to resolve bet"
	ErrMsgFailedToListWagers    = "failed to list wagers"
	ErrMsgFailedToCheckWagers   = "failed to check existing wagers"
	ErrMsgFailedToUpsertWager   = "failed to upsert wager"
	ErrMsgFailedToListUnsettled = "failed to list unsettled bets"
	ErrMsgFailedToEncodePayouts = "failed to encode payouts"
	ErrMsgFailedToDecodePayouts = "failed to decode payouts"
	ErrMsgFailedToInsertSettle  = "failed to insert settlement"
	ErrMsgFailedToGetSettlement = "failed to get settlement"
)

// Log Messages
const (
	LogMsgFailedToRollback = "Failed to rollback transaction"
)
