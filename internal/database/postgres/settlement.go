package postgres

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/osse101/LunaBet_Go/internal/database/generated"
	"github.com/osse101/LunaBet_Go/internal/domain"
	"github.com/osse101/LunaBet_Go/internal/repository"
)

// ResolveEvent marks the bet resolved and returns the wager set frozen by the transition.
// The exclusive row lock waits for in-flight wagers, so no wager can land after the snapshot.
func (r *LedgerRepository) ResolveEvent(ctx context.Context, eventID string, winningOption int) ([]domain.Wager, error) {
	h, err := beginTx(ctx, r.db, r.q)
	if err != nil {
		return nil, err
	}
	defer h.Rollback(ctx)
	q := h.Queries()

	active, err := q.LockBetForUpdate(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, repository.StorageError(ErrMsgFailedToLockBet, err)
	}
	if !active {
		return nil, domain.ErrAlreadyResolved
	}

	rows, err := q.ResolveBet(ctx, generated.ResolveBetParams{
		ID:            eventID,
		WinningOption: pgtype.Int4{Int32: int32(winningOption), Valid: true},
	})
	if err != nil {
		return nil, repository.StorageError(ErrMsgFailedToResolveBet, err)
	}
	if rows == 0 {
		return nil, domain.ErrAlreadyResolved
	}

	wagers, err := listWagers(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	if err := h.Commit(ctx); err != nil {
		return nil, err
	}
	return wagers, nil
}

// ApplyPayouts records the settlement and credits every payout in one transaction.
// The settlement primary key makes a second application fail with domain.ErrSettlementApplied.
func (r *LedgerRepository) ApplyPayouts(ctx context.Context, settlement *domain.Settlement) error {
	payouts, err := repository.EncodePayouts(settlement.Payouts)
	if err != nil {
		return repository.StorageError(ErrMsgFailedToEncodePayouts, err)
	}

	h, err := beginTx(ctx, r.db, r.q)
	if err != nil {
		return err
	}
	defer h.Rollback(ctx)
	q := h.Queries()

	active, err := q.LockBetForShare(ctx, settlement.EventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEventNotFound
		}
		return repository.StorageError(ErrMsgFailedToLockBet, err)
	}
	if active {
		return fmt.Errorf("%w: bet %s is not resolved", domain.ErrInvalidEvent, settlement.EventID)
	}

	inserted, err := q.InsertSettlement(ctx, generated.InsertSettlementParams{
		BetID:         settlement.EventID,
		WinningOption: int32(settlement.WinningOption),
		TotalPool:     settlement.TotalPool,
		WinningPool:   settlement.WinningPool,
		Payouts:       payouts,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSettlementApplied
		}
		return repository.StorageError(ErrMsgFailedToInsertSettle, err)
	}
	if inserted == 0 {
		return domain.ErrSettlementApplied
	}

	for _, p := range creditOrder(settlement.Payouts) {
		after, err := q.AddUserPoints(ctx, generated.AddUserPointsParams{Delta: p.Amount, UserID: p.UserID})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				err = fmt.Errorf("%s: %s", ErrMsgPayoutRecipientNotFound, p.UserID)
			}
			return repository.StorageError(ErrMsgFailedToCreditPayout, err)
		}
		if err := writeHistory(ctx, q, domain.BalanceEntry{
			UserID:        p.UserID,
			BalanceBefore: after - p.Amount,
			BalanceAfter:  after,
			Change:        p.Amount,
			Kind:          domain.BalanceChangePayout,
			EventID:       settlement.EventID,
		}); err != nil {
			return err
		}
	}

	return h.Commit(ctx)
}

// creditOrder sorts payouts by user so concurrent batches lock user rows in the same order
func creditOrder(payouts []domain.Payout) []domain.Payout {
	sorted := slices.Clone(payouts)
	slices.SortFunc(sorted, func(a, b domain.Payout) int {
		return cmp.Compare(a.UserID, b.UserID)
	})
	return sorted
}

// GetSettlement returns the applied settlement of a bet, or nil if none was applied
func (r *LedgerRepository) GetSettlement(ctx context.Context, eventID string) (*domain.Settlement, error) {
	row, err := r.q.GetSettlement(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, repository.StorageError(ErrMsgFailedToGetSettlement, err)
	}

	payouts, err := repository.DecodePayouts(row.Payouts)
	if err != nil {
		return nil, repository.StorageError(ErrMsgFailedToDecodePayouts, err)
	}
	return &domain.Settlement{
		EventID:       row.BetID,
		WinningOption: int(row.WinningOption),
		TotalPool:     row.TotalPool,
		WinningPool:   row.WinningPool,
		Payouts:       payouts,
		AppliedAt:     ptrTime(row.AppliedAt),
	}, nil
}

// ListUnsettledEvents returns resolved bets whose payouts were never applied, oldest first
func (r *LedgerRepository) ListUnsettledEvents(ctx context.Context) ([]domain.BetEvent, error) {
	rows, err := r.q.ListUnsettledBets(ctx)
	if err != nil {
		return nil, repository.StorageError(ErrMsgFailedToListUnsettled, err)
	}

	events := make([]domain.BetEvent, 0, len(rows))
	for _, row := range rows {
		event, err := loadEvent(ctx, r.q, row)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, nil
}
