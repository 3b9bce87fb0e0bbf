// Package settlement resolves bets and distributes their pools to the winners.
package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/LunaBet_Go/internal/concurrency"
	"github.com/osse101/LunaBet_Go/internal/domain"
	"github.com/osse101/LunaBet_Go/internal/event"
	"github.com/osse101/LunaBet_Go/internal/logger"
	"github.com/osse101/LunaBet_Go/internal/metrics"
	"github.com/osse101/LunaBet_Go/internal/repository"
)

// Service defines the interface for settlement operations
type Service interface {
	// Resolve closes the bet on winningOption and pays the winners. If the bet was
	// resolved but its payouts could not be applied, the error is a *PayoutError.
	Resolve(ctx context.Context, eventID string, winningOption int) (*domain.Settlement, error)
	// Reconcile applies the payouts of a resolved bet that has no settlement yet
	Reconcile(ctx context.Context, eventID string) (*domain.Settlement, error)
	// ReconcileAll reconciles every unsettled bet and returns the settlements it applied
	ReconcileAll(ctx context.Context) ([]domain.Settlement, error)
	ListUnsettled(ctx context.Context) ([]domain.BetEvent, error)
}

// Journal records settlements an operator may need to replay
type Journal interface {
	Append(evt event.Event, attempts int, cause error) error
}

// PayoutError is returned when a bet was durably resolved but its payout batch failed.
// It matches domain.ErrPayoutNotApplied and carries the computed settlement.
type PayoutError struct {
	Settlement *domain.Settlement
	Err        error
}

func (e *PayoutError) Error() string {
	return fmt.Sprintf("%s: bet %s: %v", domain.ErrMsgPayoutNotApplied, e.Settlement.EventID, e.Err)
}

func (e *PayoutError) Unwrap() []error {
	return []error{domain.ErrPayoutNotApplied, e.Err}
}

type service struct {
	repo    repository.Settlement
	bus     event.Bus
	journal Journal
	locks   *concurrency.LockManager
}

// NewService creates a new settlement service. journal may be nil.
func NewService(repo repository.Settlement, bus event.Bus, journal Journal) Service {
	return &service{
		repo:    repo,
		bus:     bus,
		journal: journal,
		locks:   concurrency.NewLockManager(),
	}
}

func (s *service) Resolve(ctx context.Context, eventID string, winningOption int) (*domain.Settlement, error) {
	log := logger.FromContext(ctx)

	if winningOption < 0 || winningOption >= domain.OptionCount {
		return nil, domain.ErrInvalidOption
	}

	// Same-process resolves queue here; the store's row lock decides across processes.
	unlock := s.locks.Lock(eventID)
	defer unlock()

	bet, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !bet.Active {
		return nil, domain.ErrAlreadyResolved
	}

	log.Info(LogMsgResolvingBet, "event_id", eventID, "winning_option", winningOption)

	wagers, err := s.repo.ResolveEvent(ctx, eventID, winningOption)
	if err != nil {
		return nil, err
	}

	settlement := CalculatePayouts(eventID, winningOption, wagers)

	if err := s.repo.ApplyPayouts(ctx, settlement); err != nil {
		// a reconcile elsewhere already paid this bet out
		if errors.Is(err, domain.ErrSettlementApplied) {
			log.Warn(LogMsgAlreadySettled, "event_id", eventID)
			return nil, err
		}
		return nil, s.payoutFailed(ctx, settlement, err)
	}

	log.Info(LogMsgBetResolved,
		"event_id", eventID,
		"total_pool", settlement.TotalPool,
		"winning_pool", settlement.WinningPool,
		"winners", len(settlement.Payouts),
		"forfeited", settlement.Forfeited())

	s.publish(ctx, event.NewSettlementEvent(event.BetResolved, settlement, nil))
	return settlement, nil
}

// payoutFailed leaves every trace an operator needs to replay the batch
func (s *service) payoutFailed(ctx context.Context, settlement *domain.Settlement, cause error) error {
	log := logger.FromContext(ctx)

	log.Error(LogMsgPayoutNotApplied,
		"event_id", settlement.EventID,
		"winning_option", settlement.WinningOption,
		"total_pool", settlement.TotalPool,
		"payouts", settlement.Payouts,
		"error", cause)

	metrics.PayoutFailures.Inc()

	evt := event.NewSettlementEvent(event.PayoutFailed, settlement, cause)
	if s.journal != nil {
		if err := s.journal.Append(evt, 0, cause); err != nil {
			log.Error(LogMsgJournalAppendFailed, "event_id", settlement.EventID, "error", err)
		}
	}
	s.publish(ctx, evt)

	return &PayoutError{Settlement: settlement, Err: cause}
}

func (s *service) Reconcile(ctx context.Context, eventID string) (*domain.Settlement, error) {
	log := logger.FromContext(ctx)

	unlock := s.locks.Lock(eventID)
	defer unlock()

	bet, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if bet.Active || bet.WinningOption == nil {
		return nil, fmt.Errorf("%w: "+ErrMsgBetStillActive, domain.ErrInvalidEvent, eventID)
	}

	existing, err := s.repo.GetSettlement(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetSettlement, err)
	}
	if existing != nil {
		return nil, domain.ErrSettlementApplied
	}

	wagers, err := s.repo.ListWagers(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListWagers, err)
	}

	settlement := CalculatePayouts(eventID, *bet.WinningOption, wagers)
	if err := s.repo.ApplyPayouts(ctx, settlement); err != nil {
		if errors.Is(err, domain.ErrSettlementApplied) {
			return nil, err
		}
		log.Error(LogMsgReconcileFailed, "event_id", eventID, "error", err)
		return nil, &PayoutError{Settlement: settlement, Err: err}
	}

	log.Info(LogMsgSettlementReconciled,
		"event_id", eventID,
		"total_pool", settlement.TotalPool,
		"winners", len(settlement.Payouts))

	s.publish(ctx, event.NewSettlementEvent(event.SettlementReconciled, settlement, nil))
	return settlement, nil
}

func (s *service) ReconcileAll(ctx context.Context) ([]domain.Settlement, error) {
	pending, err := s.repo.ListUnsettledEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListPending, err)
	}

	var applied []domain.Settlement
	var errs []error
	for _, bet := range pending {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		settlement, err := s.Reconcile(ctx, bet.ID)
		switch {
		case err == nil:
			applied = append(applied, *settlement)
		case errors.Is(err, domain.ErrSettlementApplied):
			// settled concurrently
		default:
			errs = append(errs, err)
		}
	}

	metrics.UnsettledBets.Set(float64(len(pending) - len(applied)))
	logger.FromContext(ctx).Info(LogMsgReconcileSweep,
		"pending", len(pending),
		"applied", len(applied),
		"failed", len(errs))

	return applied, errors.Join(errs...)
}

func (s *service) ListUnsettled(ctx context.Context) ([]domain.BetEvent, error) {
	pending, err := s.repo.ListUnsettledEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListPending, err)
	}
	metrics.UnsettledBets.Set(float64(len(pending)))
	return pending, nil
}

// publish never fails the operation: the ledger already committed
func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}
