package sqlite

import "time"

// DriverName is the database/sql driver registered by modernc.org/sqlite
const DriverName = "sqlite"

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// BusyTimeout is how long a statement waits on a locked database file
const BusyTimeout = 5 * time.Second

// Error Messages
const (
	ErrMsgFailedToOpen             = "failed to open sqlite database"
	ErrMsgFailedToMigrate          = "failed to migrate sqlite database"
	ErrMsgFailedToBeginTransaction = "failed to begin transaction"
	ErrMsgFailedToCommit           = "failed to commit transaction"
	ErrMsgFailedToProvisionUser    = "failed to provision user"
	ErrMsgFailedToGetBalance       = "failed to get balance"
	ErrMsgFailedToSetBalance       = "failed to set balance"
	ErrMsgFailedToAddBalance       = "failed to add balance"
	ErrMsgFailedToDebitBalance     = "failed to debit balance"
	ErrMsgFailedToWriteHistory     = "failed to write balance history"
	ErrMsgFailedToListHistory      = "failed to list balance history"
	ErrMsgFailedToSaveBet          = "failed to save bet"
	ErrMsgFailedToGetBet           = "failed to get bet"
	ErrMsgFailedToDecodeBet        = "failed to decode bet"
	ErrMsgFailedToResolveBet       = "failed to resolve bet"
	ErrMsgFailedToListWagers       = "failed to list wagers"
	ErrMsgFailedToCheckWagers      = "failed to check existing wagers"
	ErrMsgFailedToUpsertWager      = "failed to upsert wager"
	ErrMsgFailedToInsertSettlement = "failed to insert settlement"
	ErrMsgFailedToGetSettlement    = "failed to get settlement"
	ErrMsgFailedToListUnsettled    = "failed to list unsettled bets"
	ErrMsgFailedToCreditPayout     = "failed to credit payout"
)

// Log Messages
const (
	LogMsgOpened           = "Opened sqlite ledger"
	LogMsgFailedToRollback = "Failed to rollback transaction"
)
