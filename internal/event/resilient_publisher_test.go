package event

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/LunaBet_Go/internal/domain"
	"github.com/osse101/LunaBet_Go/internal/testing/leaktest"
)

// mockBus is a test double for event.Bus
type mockBus struct {
	mu         sync.Mutex
	calls      []Event
	shouldFail func(attempt int) bool
}

func (m *mockBus) Publish(ctx context.Context, event Event) error {
	m.mu.Lock()
	m.calls = append(m.calls, event)
	callCount := len(m.calls)
	m.mu.Unlock()

	if m.shouldFail != nil && m.shouldFail(callCount) {
		return errors.New("mock publish error")
	}
	return nil
}

func (m *mockBus) Subscribe(eventType Type, handler Handler) {}

func (m *mockBus) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func testEvent() Event {
	return NewBalanceAdjustedEvent("alice", domain.BalanceChangeGive, 10, 1010)
}

func fastConfig(retries int) ResilientConfig {
	return ResilientConfig{MaxRetries: retries, RetryDelay: time.Millisecond, QueueSize: 4}
}

func TestResilientPublisher_SuccessfulPublish(t *testing.T) {
	bus := &mockBus{}
	p := NewResilientPublisher(bus, nil, fastConfig(3))
	defer p.Shutdown(context.Background())

	require.NoError(t, p.Publish(context.Background(), testEvent()))
	assert.Equal(t, 1, bus.CallCount())
}

func TestResilientPublisher_RetrySuccess(t *testing.T) {
	bus := &mockBus{shouldFail: func(attempt int) bool { return attempt <= 2 }}
	p := NewResilientPublisher(bus, nil, fastConfig(5))
	defer p.Shutdown(context.Background())

	require.NoError(t, p.Publish(context.Background(), testEvent()), "failures never reach the caller")

	assert.Eventually(t, func() bool { return bus.CallCount() == 3 }, time.Second, 5*time.Millisecond)
}

func TestResilientPublisher_RetryExhaustionJournals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	journal, err := OpenJournal(path)
	require.NoError(t, err)
	defer journal.Close()

	bus := &mockBus{shouldFail: func(int) bool { return true }}
	p := NewResilientPublisher(bus, journal, fastConfig(2))
	defer p.Shutdown(context.Background())

	require.NoError(t, p.Publish(context.Background(), testEvent()))

	assert.Eventually(t, func() bool {
		entries, err := ReadJournal(path)
		return err == nil && len(entries) == 1
	}, time.Second, 5*time.Millisecond)

	entries, err := ReadJournal(path)
	require.NoError(t, err)
	assert.Equal(t, 3, entries[0].Attempts)
	assert.Equal(t, "mock publish error", entries[0].Error)
	assert.Equal(t, 3, bus.CallCount(), "initial attempt plus two retries")
}

func TestResilientPublisher_ShutdownJournalsPending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	journal, err := OpenJournal(path)
	require.NoError(t, err)
	defer journal.Close()

	bus := &mockBus{shouldFail: func(int) bool { return true }}
	p := NewResilientPublisher(bus, journal, ResilientConfig{MaxRetries: 5, RetryDelay: time.Hour, QueueSize: 4})

	checker := leaktest.NewGoroutineChecker(t)
	require.NoError(t, p.Publish(context.Background(), testEvent()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Shutdown(ctx))
	checker.Check(0)

	entries, err := ReadJournal(path)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, p.Publish(context.Background(), testEvent()), "publishing after shutdown journals directly")
	entries, err = ReadJournal(path)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
