package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/LunaBet_Go/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	var received []Event

	bus.Subscribe(WagerPlaced, func(ctx context.Context, e Event) error {
		received = append(received, e)
		return nil
	})

	evt := NewWagerPlacedEvent(&domain.WagerReceipt{EventID: "bet-1", UserID: "alice", Amount: 10, Stake: 10, Balance: 990})
	require.NoError(t, bus.Publish(context.Background(), evt))
	require.NoError(t, bus.Publish(context.Background(), NewBalanceAdjustedEvent("bob", domain.BalanceChangeSet, 5, 5)))

	require.Len(t, received, 1, "only the subscribed type is delivered")
	payload, err := DecodePayload[WagerPlacedPayloadV1](received[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, "alice", payload.UserID)
	assert.Equal(t, int64(990), payload.Balance)
}

func TestMemoryBus_AllHandlersRunAndErrorsJoin(t *testing.T) {
	bus := NewMemoryBus()
	boom := errors.New("boom")
	calls := 0

	bus.Subscribe(BetResolved, func(ctx context.Context, e Event) error {
		calls++
		return boom
	})
	bus.Subscribe(BetResolved, func(ctx context.Context, e Event) error {
		calls++
		return nil
	})

	err := bus.Publish(context.Background(), NewSettlementEvent(BetResolved, &domain.Settlement{EventID: "bet-1"}, nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestNewSettlementEvent(t *testing.T) {
	s := &domain.Settlement{
		EventID:     "bet-9",
		TotalPool:   801,
		WinningPool: 400,
		Payouts:     []domain.Payout{{UserID: "a", Amount: 600}, {UserID: "b", Amount: 200}},
	}

	evt := NewSettlementEvent(PayoutFailed, s, errors.New("db down"))

	assert.Equal(t, PayoutFailed, evt.Type)
	assert.Equal(t, "bet-9", evt.Metadata[MetadataKeyEventID])
	payload, err := DecodePayload[SettlementPayloadV1](evt.Payload)
	require.NoError(t, err)
	assert.Equal(t, int64(800), payload.Disbursed)
	assert.Equal(t, int64(1), payload.Forfeited)
	assert.Equal(t, "db down", payload.Error)
}

func TestDecodePayload_FromMap(t *testing.T) {
	raw := map[string]any{"user_id": "carol", "kind": "give", "change": 25.0, "balance": 125.0}

	payload, err := DecodePayload[BalanceAdjustedPayloadV1](raw)
	require.NoError(t, err)
	assert.Equal(t, "carol", payload.UserID)
	assert.Equal(t, domain.BalanceChangeGive, payload.Kind)
	assert.Equal(t, int64(125), payload.Balance)
}

func TestCalculateRetryDelay(t *testing.T) {
	base := RetryInitialDelay
	assert.Equal(t, base, CalculateRetryDelay(base, 1))
	assert.Equal(t, 4*base, CalculateRetryDelay(base, 3))
	assert.Equal(t, base, CalculateRetryDelay(base, 0))
}
