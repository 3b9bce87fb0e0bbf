package settlement

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/LunaBet_Go/internal/domain"
	"github.com/osse101/LunaBet_Go/internal/event"
)

// MockRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetEvent(ctx context.Context, eventID string) (*domain.BetEvent, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BetEvent), args.Error(1)
}

func (m *MockRepository) ListWagers(ctx context.Context, eventID string) ([]domain.Wager, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Wager), args.Error(1)
}

func (m *MockRepository) ResolveEvent(ctx context.Context, eventID string, winningOption int) ([]domain.Wager, error) {
	args := m.Called(ctx, eventID, winningOption)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Wager), args.Error(1)
}

func (m *MockRepository) ApplyPayouts(ctx context.Context, settlement *domain.Settlement) error {
	args := m.Called(ctx, settlement)
	return args.Error(0)
}

func (m *MockRepository) GetSettlement(ctx context.Context, eventID string) (*domain.Settlement, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}

func (m *MockRepository) ListUnsettledEvents(ctx context.Context) ([]domain.BetEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BetEvent), args.Error(1)
}

// MockBus
type MockBus struct {
	mock.Mock
}

func (m *MockBus) Publish(ctx context.Context, evt event.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *MockBus) Subscribe(eventType event.Type, handler event.Handler) {
	m.Called(eventType, handler)
}

// MockJournal
type MockJournal struct {
	mock.Mock
}

func (m *MockJournal) Append(evt event.Event, attempts int, cause error) error {
	args := m.Called(evt, attempts, cause)
	return args.Error(0)
}

func ofType(t event.Type) interface{} {
	return mock.MatchedBy(func(evt event.Event) bool { return evt.Type == t })
}
