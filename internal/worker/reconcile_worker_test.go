package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/LunaBet_Go/internal/domain"
)

type fakeReconciler struct {
	mu         sync.Mutex
	pending    []domain.BetEvent
	listErr    error
	reconciled []string
	results    map[string]error
}

func (f *fakeReconciler) ListUnsettled(ctx context.Context) ([]domain.BetEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.BetEvent(nil), f.pending...), nil
}

func (f *fakeReconciler) Reconcile(ctx context.Context, eventID string) (*domain.Settlement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reconciled = append(f.reconciled, eventID)
	if err := f.results[eventID]; err != nil {
		return nil, err
	}
	// Settled bets drop out of the next listing
	for i, bet := range f.pending {
		if bet.ID == eventID {
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			break
		}
	}
	return &domain.Settlement{EventID: eventID}, nil
}

func (f *fakeReconciler) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.reconciled...)
}

func TestReconcileWorker_SweepsOnStart(t *testing.T) {
	rec := &fakeReconciler{pending: []domain.BetEvent{{ID: "a"}, {ID: "b"}}}
	w := NewReconcileWorker(rec, time.Hour, 2)
	w.Start()
	w.Start()

	assert.Eventually(t, func() bool { return len(rec.calls()) == 2 }, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []string{"a", "b"}, rec.calls())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Shutdown(ctx))
	require.NoError(t, w.Shutdown(ctx))
}

func TestReconcileWorker_RetriesOnTick(t *testing.T) {
	rec := &fakeReconciler{
		pending: []domain.BetEvent{{ID: "flaky"}},
		results: map[string]error{"flaky": errors.New("storage failure")},
	}
	w := NewReconcileWorker(rec, 10*time.Millisecond, 1)
	w.Start()

	assert.Eventually(t, func() bool { return len(rec.calls()) >= 3 }, time.Second, 5*time.Millisecond)

	require.NoError(t, w.Shutdown(context.Background()))
}

func TestReconcileWorker_Sweep(t *testing.T) {
	t.Run("list failure queues nothing", func(t *testing.T) {
		w := NewReconcileWorker(&fakeReconciler{listErr: errors.New("down")}, 0, 0)
		assert.Equal(t, 0, w.Sweep(context.Background()))
		require.NoError(t, w.Shutdown(context.Background()))
	})

	t.Run("nothing pending", func(t *testing.T) {
		w := NewReconcileWorker(&fakeReconciler{}, 0, 0)
		assert.Equal(t, 0, w.Sweep(context.Background()))
		require.NoError(t, w.Shutdown(context.Background()))
	})

	t.Run("queue overflow defers", func(t *testing.T) {
		pending := make([]domain.BetEvent, ReconcileQueueSize+5)
		for i := range pending {
			pending[i].ID = string(rune('a' + i%26))
		}
		w := NewReconcileWorker(&fakeReconciler{pending: pending}, 0, 0)
		assert.Equal(t, ReconcileQueueSize, w.Sweep(context.Background()))
		require.NoError(t, w.Shutdown(context.Background()))
	})
}

func TestReconcileJob_IgnoresAlreadySettled(t *testing.T) {
	rec := &fakeReconciler{results: map[string]error{"done": domain.ErrSettlementApplied}}
	job := &reconcileJob{reconciler: rec, eventID: "done"}

	assert.NoError(t, job.Process(context.Background()))
}

func TestNewReconcileWorker_Defaults(t *testing.T) {
	w := NewReconcileWorker(&fakeReconciler{}, 0, 0)
	assert.Equal(t, DefaultReconcileInterval, w.interval)
	assert.Equal(t, DefaultReconcileWorkers, w.pool.workers)
}

// blockingReconciler holds every call until its context is cancelled
type blockingReconciler struct {
	listing   bool
	entered   chan struct{}
	cancelled chan error
}

func newBlockingReconciler(listing bool) *blockingReconciler {
	return &blockingReconciler{
		listing:   listing,
		entered:   make(chan struct{}, 1),
		cancelled: make(chan error, 1),
	}
}

func (b *blockingReconciler) wait(ctx context.Context) error {
	b.entered <- struct{}{}
	<-ctx.Done()
	b.cancelled <- ctx.Err()
	return ctx.Err()
}

func (b *blockingReconciler) ListUnsettled(ctx context.Context) ([]domain.BetEvent, error) {
	if b.listing {
		return nil, b.wait(ctx)
	}
	return []domain.BetEvent{{ID: "slow"}}, nil
}

func (b *blockingReconciler) Reconcile(ctx context.Context, eventID string) (*domain.Settlement, error) {
	return nil, b.wait(ctx)
}

func TestReconcileWorker_ShutdownCancelsInFlightWork(t *testing.T) {
	tests := []struct {
		name    string
		listing bool
	}{
		{"sweep listing", true},
		{"pooled reconcile", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newBlockingReconciler(tt.listing)
			w := NewReconcileWorker(rec, time.Hour, 1)
			w.Start()

			select {
			case <-rec.entered:
			case <-time.After(time.Second):
				t.Fatal("reconciler was never called")
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			require.NoError(t, w.Shutdown(ctx))

			select {
			case err := <-rec.cancelled:
				assert.ErrorIs(t, err, context.Canceled)
			case <-time.After(time.Second):
				t.Fatal("in-flight call was not cancelled")
			}
		})
	}
}
