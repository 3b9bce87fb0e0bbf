package domain

import "time"

// OptionCount is the number of outcomes every bet carries.
const OptionCount = 2

// Option is one outcome of a bet. Pool, Bettors and MaxStake are derived from the
// wager rows on every read and are never stored.
type Option struct {
	Label    string `json:"label"`
	Pool     int64  `json:"pool"`
	Bettors  int    `json:"bettors"`
	MaxStake int64  `json:"max_stake"`
}

// BetEvent is a two-outcome proposition open for wagering until resolved
type BetEvent struct {
	ID            string     `json:"id"`
	CreatorID     string     `json:"creator_id,omitempty"`
	ChannelID     string     `json:"channel_id,omitempty"`
	Topic         string     `json:"topic"`
	Options       []Option   `json:"options"`
	EndsAt        *time.Time `json:"ends_at,omitempty"`
	Active        bool       `json:"active"`
	WinningOption *int       `json:"winning_option,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewBetEvent builds an active bet with zeroed option pools.
func NewBetEvent(id, topic string, labels []string, endsAt *time.Time) *BetEvent {
	options := make([]Option, len(labels))
	for i, label := range labels {
		options[i] = Option{Label: label}
	}
	return &BetEvent{
		ID:      id,
		Topic:   topic,
		Options: options,
		EndsAt:  endsAt,
		Active:  true,
	}
}

// Labels returns the option labels in order
func (e *BetEvent) Labels() []string {
	labels := make([]string, len(e.Options))
	for i, opt := range e.Options {
		labels[i] = opt.Label
	}
	return labels
}

// ValidOption reports whether idx addresses one of the bet's options
func (e *BetEvent) ValidOption(idx int) bool {
	return idx >= 0 && idx < len(e.Options)
}

// TotalPool is the sum of all option pools
func (e *BetEvent) TotalPool() int64 {
	var total int64
	for _, opt := range e.Options {
		total += opt.Pool
	}
	return total
}

// AcceptingWagers returns nil when a wager may be placed at now.
// The deadline is advisory: nothing closes the bet automatically, callers check it here.
func (e *BetEvent) AcceptingWagers(now time.Time) error {
	if !e.Active {
		return ErrAlreadyResolved
	}
	if e.EndsAt != nil && !now.Before(*e.EndsAt) {
		return ErrBettingClosed
	}
	return nil
}

// Validate checks the structural invariants of a bet record
func (e *BetEvent) Validate() error {
	if e.ID == "" || e.Topic == "" {
		return ErrInvalidEvent
	}
	if len(e.Options) != OptionCount {
		return ErrInvalidEvent
	}
	for _, opt := range e.Options {
		if opt.Label == "" {
			return ErrInvalidEvent
		}
	}
	if e.Active != (e.WinningOption == nil) {
		return ErrInvalidEvent
	}
	if e.WinningOption != nil && !e.ValidOption(*e.WinningOption) {
		return ErrInvalidOption
	}
	return nil
}

// ApplyWagers zeroes the derived option fields and folds the wager set into them.
// Rows pointing at an unknown option index are ignored.
func (e *BetEvent) ApplyWagers(wagers []Wager) {
	for i := range e.Options {
		e.Options[i].Pool = 0
		e.Options[i].Bettors = 0
		e.Options[i].MaxStake = 0
	}
	for _, w := range wagers {
		if !e.ValidOption(w.OptionIndex) {
			continue
		}
		opt := &e.Options[w.OptionIndex]
		opt.Pool += w.Amount
		opt.Bettors++
		if w.Amount > opt.MaxStake {
			opt.MaxStake = w.Amount
		}
	}
}

// Wager is a user's accumulated stake on one option of one bet
type Wager struct {
	EventID     string `json:"event_id"`
	UserID      string `json:"user_id"`
	OptionIndex int    `json:"option_index"`
	Amount      int64  `json:"amount"`
}

// WagerRequest is the input of a single atomic wager application
type WagerRequest struct {
	UserID           string
	EventID          string
	OptionIndex      int
	Amount           int64
	AllowCrossOption bool
}

// WagerReceipt describes the state after a wager was applied
type WagerReceipt struct {
	EventID     string `json:"event_id"`
	UserID      string `json:"user_id"`
	OptionIndex int    `json:"option_index"`
	Amount      int64  `json:"amount"`
	Stake       int64  `json:"stake"`
	Balance     int64  `json:"balance"`
}
