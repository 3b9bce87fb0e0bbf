package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/LunaBet_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version  string         `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type           `json:"type"`
	Payload  interface{}    `json:"payload"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Ledger event types
const (
	BetCreated           Type = domain.EventTypeBetCreated
	WagerPlaced          Type = domain.EventTypeWagerPlaced
	BetResolved          Type = domain.EventTypeBetResolved
	PayoutFailed         Type = domain.EventTypePayoutFailed
	SettlementReconciled Type = domain.EventTypeSettlementReconciled
	BalanceAdjusted      Type = domain.EventTypeBalanceAdjusted
)

// Typed event payloads for type safety

// BetCreatedPayloadV1 is the typed payload for bet creation events
type BetCreatedPayloadV1 struct {
	EventID   string    `json:"event_id"`
	Topic     string    `json:"topic"`
	Options   []string  `json:"options"`
	CreatorID string    `json:"creator_id,omitempty"`
	EndsAt    *int64    `json:"ends_at,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// WagerPlacedPayloadV1 is the typed payload for committed wagers
type WagerPlacedPayloadV1 struct {
	EventID     string `json:"event_id"`
	UserID      string `json:"user_id"`
	OptionIndex int    `json:"option_index"`
	Amount      int64  `json:"amount"`
	Stake       int64  `json:"stake"`
	Balance     int64  `json:"balance"`
}

// SettlementPayloadV1 is shared by resolution, payout failure and reconciliation events
type SettlementPayloadV1 struct {
	Settlement domain.Settlement `json:"settlement"`
	Disbursed  int64             `json:"disbursed"`
	Forfeited  int64             `json:"forfeited"`
	Error      string            `json:"error,omitempty"`
}

// BalanceAdjustedPayloadV1 is the typed payload for admin balance changes
type BalanceAdjustedPayloadV1 struct {
	UserID  string                   `json:"user_id"`
	Kind    domain.BalanceChangeKind `json:"kind"`
	Change  int64                    `json:"change"`
	Balance int64                    `json:"balance"`
}

// Type-safe event constructors

// NewBetCreatedEvent creates a bet.created event
func NewBetCreatedEvent(bet *domain.BetEvent) Event {
	payload := BetCreatedPayloadV1{
		EventID:   bet.ID,
		Topic:     bet.Topic,
		Options:   bet.Labels(),
		CreatorID: bet.CreatorID,
		Timestamp: time.Now(),
	}
	if bet.EndsAt != nil {
		ms := bet.EndsAt.UnixMilli()
		payload.EndsAt = &ms
	}
	return Event{Version: EventSchemaVersion, Type: BetCreated, Payload: payload}
}

// NewWagerPlacedEvent creates a wager.placed event from a receipt
func NewWagerPlacedEvent(receipt *domain.WagerReceipt) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    WagerPlaced,
		Payload: WagerPlacedPayloadV1{
			EventID:     receipt.EventID,
			UserID:      receipt.UserID,
			OptionIndex: receipt.OptionIndex,
			Amount:      receipt.Amount,
			Stake:       receipt.Stake,
			Balance:     receipt.Balance,
		},
	}
}

// NewSettlementEvent creates one of the settlement event types. cause is recorded
// for payout failures and may be nil otherwise.
func NewSettlementEvent(eventType Type, settlement *domain.Settlement, cause error) Event {
	payload := SettlementPayloadV1{
		Settlement: *settlement,
		Disbursed:  settlement.Disbursed(),
		Forfeited:  settlement.Forfeited(),
	}
	if cause != nil {
		payload.Error = cause.Error()
	}
	return Event{
		Version:  EventSchemaVersion,
		Type:     eventType,
		Payload:  payload,
		Metadata: map[string]any{MetadataKeyEventID: settlement.EventID},
	}
}

// NewBalanceAdjustedEvent creates a balance.adjusted event
func NewBalanceAdjustedEvent(userID string, kind domain.BalanceChangeKind, change, balance int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    BalanceAdjusted,
		Payload: BalanceAdjustedPayloadV1{
			UserID:  userID,
			Kind:    kind,
			Change:  change,
			Balance: balance,
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber of the event type synchronously.
// All handlers run even when one fails; their errors are joined.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(ErrMsgHandlerErrorFormat, len(errs), event.Type, errors.Join(errs...))
	}
	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
