package sqlite

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/osse101/LunaBet_Go/internal/domain"
	"github.com/osse101/LunaBet_Go/internal/repository"
)

const betColumns = `id, creator_id, channel_id, topic, options, ends_at, is_active, winning_option, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBet(row rowScanner) (*domain.BetEvent, error) {
	var (
		event     domain.BetEvent
		options   string
		endsAt    sql.NullInt64
		winning   sql.NullInt64
		createdAt int64
	)
	if err := row.Scan(&event.ID, &event.CreatorID, &event.ChannelID, &event.Topic, &options,
		&endsAt, &event.Active, &winning, &createdAt); err != nil {
		return nil, err
	}

	decoded, err := repository.DecodeOptions([]byte(options))
	if err != nil {
		return nil, repository.StorageError(ErrMsgFailedToDecodeBet, fmt.Errorf("bet %s: %w", event.ID, err))
	}
	event.Options = decoded
	if endsAt.Valid {
		t := time.UnixMilli(endsAt.Int64).UTC()
		event.EndsAt = &t
	}
	if winning.Valid {
		w := int(winning.Int64)
		event.WinningOption = &w
	}
	event.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &event, nil
}

func listWagers(ctx context.Context, tx *sql.Tx, eventID string) ([]domain.Wager, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT user_id, option_index, amount FROM wagers WHERE bet_id = ? ORDER BY wager_id`, eventID)
	if err != nil {
		return nil, repository.StorageError(ErrMsgFailedToListWagers, err)
	}
	defer rows.Close()

	wagers := []domain.Wager{}
	for rows.Next() {
		w := domain.Wager{EventID: eventID}
		if err := rows.Scan(&w.UserID, &w.OptionIndex, &w.Amount); err != nil {
			return nil, repository.StorageError(ErrMsgFailedToListWagers, err)
		}
		wagers = append(wagers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.StorageError(ErrMsgFailedToListWagers, err)
	}
	return wagers, nil
}

// betState reads the active flag of a bet inside tx
func betState(ctx context.Context, tx *sql.Tx, eventID string) (bool, error) {
	var active bool
	err := tx.QueryRowContext(ctx, `SELECT is_active FROM bets WHERE id = ?`, eventID).Scan(&active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, domain.ErrEventNotFound
		}
		return false, repository.StorageError(ErrMsgFailedToGetBet, err)
	}
	return active, nil
}

// SaveEvent upserts bet metadata. A resolved bet stays resolved with its original winner.
func (s *Store) SaveEvent(ctx context.Context, event *domain.BetEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}
	options, err := repository.EncodeOptions(event.Options)
	if err != nil {
		return repository.StorageError(ErrMsgFailedToSaveBet, err)
	}

	var endsAt, winning sql.NullInt64
	if event.EndsAt != nil {
		endsAt = sql.NullInt64{Int64: event.EndsAt.UnixMilli(), Valid: true}
	}
	if event.WinningOption != nil {
		winning = sql.NullInt64{Int64: int64(*event.WinningOption), Valid: true}
	}
	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO bets (`+betColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE
		 SET topic = excluded.topic,
		     options = excluded.options,
		     ends_at = excluded.ends_at,
		     is_active = bets.is_active AND excluded.is_active,
		     winning_option = COALESCE(bets.winning_option, excluded.winning_option)`,
		event.ID, event.CreatorID, event.ChannelID, event.Topic, string(options),
		endsAt, event.Active, winning, createdAt.UnixMilli())
	if err != nil {
		return repository.StorageError(ErrMsgFailedToSaveBet, err)
	}
	return nil
}

// GetEvent loads a bet and folds its wagers into the option pools
func (s *Store) GetEvent(ctx context.Context, eventID string) (*domain.BetEvent, error) {
	var event *domain.BetEvent
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		event, err = scanBet(tx.QueryRowContext(ctx, `SELECT `+betColumns+` FROM bets WHERE id = ?`, eventID))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrEventNotFound
			}
			if errors.Is(err, domain.ErrStorageFailure) {
				return err
			}
			return repository.StorageError(ErrMsgFailedToGetBet, err)
		}
		wagers, err := listWagers(ctx, tx, eventID)
		if err != nil {
			return err
		}
		event.ApplyWagers(wagers)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// ListWagers returns every wager row of a bet in placement order
func (s *Store) ListWagers(ctx context.Context, eventID string) ([]domain.Wager, error) {
	var wagers []domain.Wager
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		wagers, err = listWagers(ctx, tx, eventID)
		return err
	})
	return wagers, err
}

// ApplyWager debits the stake and accumulates it onto the wager row in one transaction
func (s *Store) ApplyWager(ctx context.Context, req domain.WagerRequest) (*domain.WagerReceipt, error) {
	var receipt *domain.WagerReceipt
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		active, err := betState(ctx, tx, req.EventID)
		if err != nil {
			return err
		}
		if !active {
			return domain.ErrAlreadyResolved
		}

		if err := s.provision(ctx, tx, req.UserID); err != nil {
			return err
		}

		var balance int64
		err = tx.QueryRowContext(ctx,
			`UPDATE users SET points = points - ?, updated_at = ?
			 WHERE user_id = ? AND points >= ? RETURNING points`,
			req.Amount, s.millis(), req.UserID, req.Amount).Scan(&balance)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrInsufficientFunds
			}
			return repository.StorageError(ErrMsgFailedToDebitBalance, err)
		}

		if !req.AllowCrossOption {
			var other bool
			err := tx.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM wagers WHERE bet_id = ? AND user_id = ? AND option_index <> ?)`,
				req.EventID, req.UserID, req.OptionIndex).Scan(&other)
			if err != nil {
				return repository.StorageError(ErrMsgFailedToCheckWagers, err)
			}
			if other {
				return domain.ErrCrossOptionWager
			}
		}

		now := s.millis()
		var stake int64
		err = tx.QueryRowContext(ctx,
			`INSERT INTO wagers (bet_id, user_id, option_index, amount, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (bet_id, user_id, option_index) DO UPDATE
			 SET amount = wagers.amount + excluded.amount, updated_at = excluded.updated_at
			 RETURNING amount`,
			req.EventID, req.UserID, req.OptionIndex, req.Amount, now, now).Scan(&stake)
		if err != nil {
			return repository.StorageError(ErrMsgFailedToUpsertWager, err)
		}

		if err := s.writeHistory(ctx, tx, domain.BalanceEntry{
			UserID:        req.UserID,
			BalanceBefore: balance + req.Amount,
			BalanceAfter:  balance,
			Change:        -req.Amount,
			Kind:          domain.BalanceChangeWager,
			EventID:       req.EventID,
		}); err != nil {
			return err
		}

		receipt = &domain.WagerReceipt{
			EventID:     req.EventID,
			UserID:      req.UserID,
			OptionIndex: req.OptionIndex,
			Amount:      req.Amount,
			Stake:       stake,
			Balance:     balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// ResolveEvent marks the bet resolved and returns the wager set frozen by the transition
func (s *Store) ResolveEvent(ctx context.Context, eventID string, winningOption int) ([]domain.Wager, error) {
	var wagers []domain.Wager
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE bets SET is_active = 0, winning_option = ? WHERE id = ? AND is_active = 1`,
			winningOption, eventID)
		if err != nil {
			return repository.StorageError(ErrMsgFailedToResolveBet, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return repository.StorageError(ErrMsgFailedToResolveBet, err)
		}
		if n == 0 {
			if _, err := betState(ctx, tx, eventID); err != nil {
				return err
			}
			return domain.ErrAlreadyResolved
		}

		wagers, err = listWagers(ctx, tx, eventID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wagers, nil
}

// ApplyPayouts records the settlement and credits every payout in one transaction
func (s *Store) ApplyPayouts(ctx context.Context, settlement *domain.Settlement) error {
	payouts, err := repository.EncodePayouts(settlement.Payouts)
	if err != nil {
		return repository.StorageError(ErrMsgFailedToInsertSettlement, err)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		active, err := betState(ctx, tx, settlement.EventID)
		if err != nil {
			return err
		}
		if active {
			return fmt.Errorf("%w: bet %s is not resolved", domain.ErrInvalidEvent, settlement.EventID)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO settlements (bet_id, winning_option, total_pool, winning_pool, payouts, applied_at)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (bet_id) DO NOTHING`,
			settlement.EventID, settlement.WinningOption, settlement.TotalPool, settlement.WinningPool,
			string(payouts), s.millis())
		if err != nil {
			return repository.StorageError(ErrMsgFailedToInsertSettlement, err)
		}
		inserted, err := res.RowsAffected()
		if err != nil {
			return repository.StorageError(ErrMsgFailedToInsertSettlement, err)
		}
		if inserted == 0 {
			return domain.ErrSettlementApplied
		}

		credits := slices.Clone(settlement.Payouts)
		slices.SortFunc(credits, func(a, b domain.Payout) int { return cmp.Compare(a.UserID, b.UserID) })
		for _, p := range credits {
			after, err := s.addPoints(ctx, tx, p.UserID, p.Amount)
			if err != nil {
				return repository.StorageError(ErrMsgFailedToCreditPayout, fmt.Errorf("user %s: %w", p.UserID, err))
			}
			if err := s.writeHistory(ctx, tx, domain.BalanceEntry{
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
		return nil
	})
}

// GetSettlement returns the applied settlement of a bet, or nil if none was applied
func (s *Store) GetSettlement(ctx context.Context, eventID string) (*domain.Settlement, error) {
	var (
		settlement domain.Settlement
		payouts    string
		appliedAt  int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT bet_id, winning_option, total_pool, winning_pool, payouts, applied_at
		 FROM settlements WHERE bet_id = ?`, eventID).
		Scan(&settlement.EventID, &settlement.WinningOption, &settlement.TotalPool,
			&settlement.WinningPool, &payouts, &appliedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, repository.StorageError(ErrMsgFailedToGetSettlement, err)
	}

	settlement.Payouts, err = repository.DecodePayouts([]byte(payouts))
	if err != nil {
		return nil, repository.StorageError(ErrMsgFailedToGetSettlement, err)
	}
	applied := time.UnixMilli(appliedAt).UTC()
	settlement.AppliedAt = &applied
	return &settlement, nil
}

// ListUnsettledEvents returns resolved bets whose payouts were never applied, oldest first
func (s *Store) ListUnsettledEvents(ctx context.Context) ([]domain.BetEvent, error) {
	events := []domain.BetEvent{}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT b.id, b.creator_id, b.channel_id, b.topic, b.options, b.ends_at, b.is_active, b.winning_option, b.created_at
			 FROM bets b LEFT JOIN settlements s ON s.bet_id = b.id
			 WHERE b.is_active = 0 AND s.bet_id IS NULL
			 ORDER BY b.created_at, b.id`)
		if err != nil {
			return repository.StorageError(ErrMsgFailedToListUnsettled, err)
		}
		for rows.Next() {
			event, err := scanBet(rows)
			if err != nil {
				rows.Close()
				if errors.Is(err, domain.ErrStorageFailure) {
					return err
				}
				return repository.StorageError(ErrMsgFailedToListUnsettled, err)
			}
			events = append(events, *event)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return repository.StorageError(ErrMsgFailedToListUnsettled, err)
		}
		rows.Close()

		for i := range events {
			wagers, err := listWagers(ctx, tx, events[i].ID)
			if err != nil {
				return err
			}
			events[i].ApplyWagers(wagers)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}
