package repository

import (
	"context"

	"github.com/osse101/LunaBet_Go/internal/domain"
)

// Points defines the interface for balance persistence
type Points interface {
	// GetBalance returns the user's balance, provisioning the default on first access
	GetBalance(ctx context.Context, userID string) (int64, error)
	SetBalance(ctx context.Context, userID string, amount int64) error
	// AddBalance atomically adds delta and returns the new balance
	AddBalance(ctx context.Context, userID string, delta int64) (int64, error)
	ListBalanceHistory(ctx context.Context, userID string, limit int) ([]domain.BalanceEntry, error)
}

// Wagers defines the interface for bet and wager persistence
type Wagers interface {
	GetBalance(ctx context.Context, userID string) (int64, error)
	// SaveEvent upserts the bet metadata. Creator and channel are fixed at creation,
	// and a resolved bet stays resolved.
	SaveEvent(ctx context.Context, event *domain.BetEvent) error
	// GetEvent returns domain.ErrEventNotFound when no bet has the id
	GetEvent(ctx context.Context, eventID string) (*domain.BetEvent, error)
	ListWagers(ctx context.Context, eventID string) ([]domain.Wager, error)
	// ApplyWager debits the balance and upserts the wager row in one transaction.
	// Returns domain.ErrInsufficientFunds without mutating anything when the balance is short.
	ApplyWager(ctx context.Context, req domain.WagerRequest) (*domain.WagerReceipt, error)
}

// Settlement defines the interface for bet resolution persistence
type Settlement interface {
	GetEvent(ctx context.Context, eventID string) (*domain.BetEvent, error)
	ListWagers(ctx context.Context, eventID string) ([]domain.Wager, error)
	// ResolveEvent flips the bet from active to resolved and returns the wager set it
	// froze. Exactly one concurrent caller succeeds; the others get domain.ErrAlreadyResolved.
	ResolveEvent(ctx context.Context, eventID string, winningOption int) ([]domain.Wager, error)
	// ApplyPayouts records the settlement and credits every payout in one transaction.
	// Returns domain.ErrSettlementApplied if the bet was already paid out.
	ApplyPayouts(ctx context.Context, settlement *domain.Settlement) error
	GetSettlement(ctx context.Context, eventID string) (*domain.Settlement, error)
	// ListUnsettledEvents returns resolved bets that have no applied settlement
	ListUnsettledEvents(ctx context.Context) ([]domain.BetEvent, error)
}

// Ledger is the complete store contract implemented by each storage backend
type Ledger interface {
	Points
	Wagers
	Settlement
	Ping(ctx context.Context) error
	Close()
}
