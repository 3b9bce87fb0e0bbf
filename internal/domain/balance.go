package domain

import "time"

// BalanceChangeKind classifies a balance history entry
type BalanceChangeKind string

const (
	BalanceChangeInitial BalanceChangeKind = "initial"
	BalanceChangeWager   BalanceChangeKind = "wager"
	BalanceChangePayout  BalanceChangeKind = "payout"
	BalanceChangeSet     BalanceChangeKind = "set"
	BalanceChangeGive    BalanceChangeKind = "give"
)

// BalanceEntry is one row of the balance journal. Every mutation of a user balance
// writes one in the same transaction.
type BalanceEntry struct {
	ID            int64             `json:"id"`
	UserID        string            `json:"user_id"`
	BalanceBefore int64             `json:"balance_before"`
	BalanceAfter  int64             `json:"balance_after"`
	Change        int64             `json:"change"`
	Kind          BalanceChangeKind `json:"kind"`
	EventID       string            `json:"event_id,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}
