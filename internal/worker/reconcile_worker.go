package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/osse101/LunaBet_Go/internal/domain"
	"github.com/osse101/LunaBet_Go/internal/logger"
)

// Reconciler is the part of the settlement service the worker drives
type Reconciler interface {
	ListUnsettled(ctx context.Context) ([]domain.BetEvent, error)
	Reconcile(ctx context.Context, eventID string) (*domain.Settlement, error)
}

// ReconcileWorker periodically replays the payouts of resolved bets that have no
// settlement. Each unsettled bet becomes one job on the pool.
type ReconcileWorker struct {
	reconciler Reconciler
	interval   time.Duration
	pool       *Pool
	ctx        context.Context
	cancel     context.CancelFunc
	shutdown   chan struct{}
	done       chan struct{}
	startOnce  sync.Once
	stopOnce   sync.Once
}

// NewReconcileWorker creates a reconcile worker. A non-positive interval uses
// DefaultReconcileInterval.
func NewReconcileWorker(reconciler Reconciler, interval time.Duration, workers int) *ReconcileWorker {
	if interval <= 0 {
		interval = DefaultReconcileInterval
	}
	if workers <= 0 {
		workers = DefaultReconcileWorkers
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ReconcileWorker{
		reconciler: reconciler,
		interval:   interval,
		pool:       NewPool(workers, ReconcileQueueSize),
		ctx:        ctx,
		cancel:     cancel,
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start sweeps once immediately and then on every tick
func (w *ReconcileWorker) Start() {
	w.startOnce.Do(func() {
		w.pool.Start()
		go w.run()
		logger.FromContext(context.Background()).Info(LogMsgReconcileWorkerStarted, "interval", w.interval)
	})
}

func (w *ReconcileWorker) run() {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Sweep(w.ctx)
	for {
		select {
		case <-ticker.C:
			w.Sweep(w.ctx)
		case <-w.shutdown:
			return
		}
	}
}

// Sweep queues every unsettled bet and returns how many were queued
func (w *ReconcileWorker) Sweep(ctx context.Context) int {
	log := logger.FromContext(ctx)

	pending, err := w.reconciler.ListUnsettled(ctx)
	if err != nil {
		log.Error(LogMsgReconcileSweepFailed, "error", err)
		return 0
	}
	if len(pending) == 0 {
		return 0
	}

	log.Warn(LogMsgReconcileSweepStarting, "count", len(pending))

	queued := 0
	for _, bet := range pending {
		if ctx.Err() != nil {
			break
		}
		if !w.pool.Enqueue(&reconcileJob{reconciler: w.reconciler, eventID: bet.ID}) {
			log.Warn(LogMsgReconcileQueueFull, "event_id", bet.ID)
			continue
		}
		queued++
	}
	return queued
}

// Shutdown stops the ticker, cancels the running sweep and the pooled jobs, and waits
// for them. A reconciliation cut short rolls back and is picked up by the next sweep.
func (w *ReconcileWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgReconcileWorkerStopping)

	w.stopOnce.Do(func() {
		close(w.shutdown)
		w.cancel()
	})

	done := make(chan struct{})
	go func() {
		w.startOnce.Do(func() { close(w.done) })
		w.pool.Stop()
		<-w.done
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgReconcileWorkerStopped)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgReconcileWorkerTimeout)
		return ctx.Err()
	}
}

type reconcileJob struct {
	reconciler Reconciler
	eventID    string
}

func (j *reconcileJob) Process(ctx context.Context) error {
	_, err := j.reconciler.Reconcile(ctx, j.eventID)
	if errors.Is(err, domain.ErrSettlementApplied) {
		return nil
	}
	return err
}
