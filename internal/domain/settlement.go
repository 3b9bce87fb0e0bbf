package domain

import "time"

// Payout is a credit owed to a winner
type Payout struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
}

// Settlement is the computed outcome of resolving a bet
type Settlement struct {
	EventID       string     `json:"event_id"`
	WinningOption int        `json:"winning_option"`
	TotalPool     int64      `json:"total_pool"`
	WinningPool   int64      `json:"winning_pool"`
	Payouts       []Payout   `json:"payouts"`
	AppliedAt     *time.Time `json:"applied_at,omitempty"`
}

// Disbursed is the sum of all payouts. It never exceeds TotalPool.
func (s *Settlement) Disbursed() int64 {
	var total int64
	for _, p := range s.Payouts {
		total += p.Amount
	}
	return total
}

// Forfeited is the part of the pool that nobody receives: rounding remainders, or the
// whole pool when nobody backed the winning option.
func (s *Settlement) Forfeited() int64 {
	return s.TotalPool - s.Disbursed()
}
