package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/LunaBet_Go/internal/database/generated"
	"github.com/osse101/LunaBet_Go/internal/domain"
	"github.com/osse101/LunaBet_Go/internal/repository"
)

// LedgerRepository implements repository.Ledger for PostgreSQL
type LedgerRepository struct {
	db             *pgxpool.Pool
	q              *generated.Queries
	startingPoints int64
}

var _ repository.Ledger = (*LedgerRepository)(nil)

// NewLedgerRepository creates a new LedgerRepository. Users are provisioned with
// startingPoints on first access.
func NewLedgerRepository(db *pgxpool.Pool, startingPoints int64) *LedgerRepository {
	return &LedgerRepository{
		db:             db,
		q:              generated.New(db),
		startingPoints: startingPoints,
	}
}

// Ping checks the database connection
func (r *LedgerRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Close releases the pool
func (r *LedgerRepository) Close() {
	r.db.Close()
}

// provision creates the user's balance row at the starting balance and journals it.
// Concurrent callers converge on one row.
func (r *LedgerRepository) provision(ctx context.Context, q *generated.Queries, userID string) error {
	created, err := q.ProvisionUser(ctx, generated.ProvisionUserParams{
		UserID: userID,
		Points: r.startingPoints,
	})
	if err != nil {
		return repository.StorageError(ErrMsgFailedToProvisionUser, err)
	}
	if created == 0 {
		return nil
	}
	return writeHistory(ctx, q, domain.BalanceEntry{
		UserID:        userID,
		BalanceBefore: 0,
		BalanceAfter:  r.startingPoints,
		Change:        r.startingPoints,
		Kind:          domain.BalanceChangeInitial,
	})
}

func writeHistory(ctx context.Context, q *generated.Queries, e domain.BalanceEntry) error {
	err := q.InsertBalanceHistory(ctx, generated.InsertBalanceHistoryParams{
		UserID:        e.UserID,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		ChangeAmount:  e.Change,
		Kind:          string(e.Kind),
		BetID:         toText(e.EventID),
	})
	if err != nil {
		return repository.StorageError(ErrMsgFailedToWriteHistory, err)
	}
	return nil
}

// GetBalance returns the user's balance, provisioning the default on first access
func (r *LedgerRepository) GetBalance(ctx context.Context, userID string) (int64, error) {
	points, err := r.q.GetUserPoints(ctx, userID)
	if err == nil {
		return points, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, repository.StorageError(ErrMsgFailedToGetBalance, err)
	}

	h, err := beginTx(ctx, r.db, r.q)
	if err != nil {
		return 0, err
	}
	defer h.Rollback(ctx)

	if err := r.provision(ctx, h.Queries(), userID); err != nil {
		return 0, err
	}
	points, err = h.Queries().GetUserPoints(ctx, userID)
	if err != nil {
		return 0, repository.StorageError(ErrMsgFailedToGetBalance, err)
	}
	if err := h.Commit(ctx); err != nil {
		return 0, err
	}
	return points, nil
}

// SetBalance overwrites the user's balance
func (r *LedgerRepository) SetBalance(ctx context.Context, userID string, amount int64) error {
	h, err := beginTx(ctx, r.db, r.q)
	if err != nil {
		return err
	}
	defer h.Rollback(ctx)
	q := h.Queries()

	if err := r.provision(ctx, q, userID); err != nil {
		return err
	}
	before, err := q.GetUserPointsForUpdate(ctx, userID)
	if err != nil {
		return repository.StorageError(ErrMsgFailedToGetBalance, err)
	}
	if err := q.SetUserPoints(ctx, generated.SetUserPointsParams{UserID: userID, Points: amount}); err != nil {
		return repository.StorageError(ErrMsgFailedToSetBalance, err)
	}
	if err := writeHistory(ctx, q, domain.BalanceEntry{
		UserID:        userID,
		BalanceBefore: before,
		BalanceAfter:  amount,
		Change:        amount - before,
		Kind:          domain.BalanceChangeSet,
	}); err != nil {
		return err
	}
	return h.Commit(ctx)
}

// AddBalance atomically adds delta to the user's balance and returns the result
func (r *LedgerRepository) AddBalance(ctx context.Context, userID string, delta int64) (int64, error) {
	h, err := beginTx(ctx, r.db, r.q)
	if err != nil {
		return 0, err
	}
	defer h.Rollback(ctx)
	q := h.Queries()

	if err := r.provision(ctx, q, userID); err != nil {
		return 0, err
	}
	after, err := q.AddUserPoints(ctx, generated.AddUserPointsParams{Delta: delta, UserID: userID})
	if err != nil {
		return 0, repository.StorageError(ErrMsgFailedToAddBalance, err)
	}
	if err := writeHistory(ctx, q, domain.BalanceEntry{
		UserID:        userID,
		BalanceBefore: after - delta,
		BalanceAfter:  after,
		Change:        delta,
		Kind:          domain.BalanceChangeGive,
	}); err != nil {
		return 0, err
	}
	if err := h.Commit(ctx); err != nil {
		return 0, err
	}
	return after, nil
}

// ListBalanceHistory returns the newest journal entries first
func (r *LedgerRepository) ListBalanceHistory(ctx context.Context, userID string, limit int) ([]domain.BalanceEntry, error) {
	if limit <= 0 || limit > math.MaxInt32 {
		limit = math.MaxInt32
	}
	rows, err := r.q.ListBalanceHistory(ctx, generated.ListBalanceHistoryParams{
		UserID: userID,
		Limit:  int32(limit),
	})
	if err != nil {
		return nil, repository.StorageError(ErrMsgFailedToListHistory, err)
	}

	entries := make([]domain.BalanceEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.BalanceEntry{
			ID:            row.ID,
			UserID:        row.UserID,
			BalanceBefore: row.BalanceBefore,
			BalanceAfter:  row.BalanceAfter,
			Change:        row.ChangeAmount,
			Kind:          domain.BalanceChangeKind(row.Kind),
			EventID:       row.BetID.String,
			CreatedAt:     row.CreatedAt.Time,
		})
	}
	return entries, nil
}

// SaveEvent upserts bet metadata. Wager rows are never touched and a resolved bet
// stays resolved with its original winning option.
func (r *LedgerRepository) SaveEvent(ctx context.Context, event *domain.BetEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}
	options, err := repository.EncodeOptions(event.Options)
	if err != nil {
		return repository.StorageError(ErrMsgFailedToEncodeBet, err)
	}

	err = r.q.UpsertBet(ctx, generated.UpsertBetParams{
		ID:            event.ID,
		CreatorID:     event.CreatorID,
		ChannelID:     event.ChannelID,
		Topic:         event.Topic,
		Options:       options,
		EndsAt:        toTimestamptz(event.EndsAt),
		IsActive:      event.Active,
		WinningOption: toInt4(event.WinningOption),
	})
	if err != nil {
		return repository.StorageError(ErrMsgFailedToSaveBet, err)
	}
	return nil
}

// GetEvent loads a bet and folds its wagers into the option pools.
// Both reads share one snapshot.
func (r *LedgerRepository) GetEvent(ctx context.Context, eventID string) (*domain.BetEvent, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, repository.StorageError(ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)
	q := r.q.WithTx(tx)

	row, err := q.GetBet(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, repository.StorageError(ErrMsgFailedToGetBet, err)
	}
	return loadEvent(ctx, q, row)
}

// ListWagers returns every wager row of a bet in placement order
func (r *LedgerRepository) ListWagers(ctx context.Context, eventID string) ([]domain.Wager, error) {
	return listWagers(ctx, r.q, eventID)
}

// ApplyWager debits the stake and accumulates it onto the wager row in one transaction.
// The bet row is share-locked so a concurrent resolve waits for the wager to commit.
func (r *LedgerRepository) ApplyWager(ctx context.Context, req domain.WagerRequest) (*domain.WagerReceipt, error) {
	h, err := beginTx(ctx, r.db, r.q)
	if err != nil {
		return nil, err
	}
	defer h.Rollback(ctx)
	q := h.Queries()

	active, err := q.LockBetForShare(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, repository.StorageError(ErrMsgFailedToLockBet, err)
	}
	if !active {
		return nil, domain.ErrAlreadyResolved
	}

	if err := r.provision(ctx, q, req.UserID); err != nil {
		return nil, err
	}

	balance, err := q.DebitUserPoints(ctx, generated.DebitUserPointsParams{
		Amount: req.Amount,
		UserID: req.UserID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInsufficientFunds
		}
		return nil, repository.StorageError(ErrMsgFailedToDebitBalance, err)
	}

	// After the debit the user row is locked, so wagers by the same user are serialized here.
	if !req.AllowCrossOption {
		other, err := q.HasOtherOptionWager(ctx, generated.HasOtherOptionWagerParams{
			BetID:       req.EventID,
			UserID:      req.UserID,
			OptionIndex: int32(req.OptionIndex),
		})
		if err != nil {
			return nil, repository.StorageError(ErrMsgFailedToCheckWagers, err)
		}
		if other {
			return nil, domain.ErrCrossOptionWager
		}
	}

	stake, err := q.UpsertWager(ctx, generated.UpsertWagerParams{
		BetID:       req.EventID,
		UserID:      req.UserID,
		OptionIndex: int32(req.OptionIndex),
		Amount:      req.Amount,
	})
	if err != nil {
		return nil, repository.StorageError(ErrMsgFailedToUpsertWager, err)
	}

	if err := writeHistory(ctx, q, domain.BalanceEntry{
		UserID:        req.UserID,
		BalanceBefore: balance + req.Amount,
		BalanceAfter:  balance,
		Change:        -req.Amount,
		Kind:          domain.BalanceChangeWager,
		EventID:       req.EventID,
	}); err != nil {
		return nil, err
	}

	if err := h.Commit(ctx); err != nil {
		return nil, err
	}

	return &domain.WagerReceipt{
		EventID:     req.EventID,
		UserID:      req.UserID,
		OptionIndex: req.OptionIndex,
		Amount:      req.Amount,
		Stake:       stake,
		Balance:     balance,
	}, nil
}

func listWagers(ctx context.Context, q *generated.Queries, eventID string) ([]domain.Wager, error) {
	rows, err := q.ListWagersForBet(ctx, eventID)
	if err != nil {
		return nil, repository.StorageError(ErrMsgFailedToListWagers, err)
	}
	wagers := make([]domain.Wager, 0, len(rows))
	for _, row := range rows {
		wagers = append(wagers, domain.Wager{
			EventID:     eventID,
			UserID:      row.UserID,
			OptionIndex: int(row.OptionIndex),
			Amount:      row.Amount,
		})
	}
	return wagers, nil
}

// loadEvent maps a bet row and folds its wagers into the options
func loadEvent(ctx context.Context, q *generated.Queries, row generated.Bet) (*domain.BetEvent, error) {
	options, err := repository.DecodeOptions(row.Options)
	if err != nil {
		return nil, repository.StorageError(ErrMsgFailedToDecodeBet, fmt.Errorf("bet %s: %w", row.ID, err))
	}

	event := &domain.BetEvent{
		ID:            row.ID,
		CreatorID:     row.CreatorID,
		ChannelID:     row.ChannelID,
		Topic:         row.Topic,
		Options:       options,
		EndsAt:        ptrTime(row.EndsAt),
		Active:        row.IsActive,
		WinningOption: ptrInt(row.WinningOption),
		CreatedAt:     row.CreatedAt.Time,
	}

	wagers, err := listWagers(ctx, q, row.ID)
	if err != nil {
		return nil, err
	}
	event.ApplyWagers(wagers)
	return event, nil
}
