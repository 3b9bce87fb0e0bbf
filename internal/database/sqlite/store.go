// Package sqlite implements the ledger store on an embedded SQLite database.
// All statements run through one connection, so transactions never interleave.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/osse101/LunaBet_Go/internal/database"
	"github.com/osse101/LunaBet_Go/internal/domain"
	"github.com/osse101/LunaBet_Go/internal/logger"
	"github.com/osse101/LunaBet_Go/internal/repository"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Store implements repository.Ledger for SQLite
type Store struct {
	db             *sql.DB
	startingPoints int64
	now            func() time.Time
}

var _ repository.Ledger = (*Store)(nil)

// Open opens (or creates) the database at path and applies migrations.
// Use MemoryPath for a throwaway database.
func Open(ctx context.Context, path string, startingPoints int64) (*Store, error) {
	db, err := sql.Open(DriverName, dsn(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToOpen, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToOpen, err)
	}

	migrations, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToMigrate, err)
	}
	if err := database.Migrate(ctx, db, goose.DialectSQLite3, migrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToMigrate, err)
	}

	slog.Default().Info(LogMsgOpened, "path", path)
	return &Store{db: db, startingPoints: startingPoints, now: time.Now}, nil
}

func dsn(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_txlock=immediate",
		path, BusyTimeout.Milliseconds())
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *Store) Close() {
	if err := s.db.Close(); err != nil {
		slog.Default().Warn("Failed to close sqlite database", "error", err)
	}
}

// withTx runs fn inside a transaction and commits when fn returns nil
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return repository.StorageError(ErrMsgFailedToBeginTransaction, err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			logger.FromContext(ctx).Error(LogMsgFailedToRollback, "error", err)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return repository.StorageError(ErrMsgFailedToCommit, err)
	}
	return nil
}

func (s *Store) millis() int64 {
	return s.now().UnixMilli()
}

func (s *Store) provision(ctx context.Context, tx *sql.Tx, userID string) error {
	now := s.millis()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (user_id, points, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, s.startingPoints, now, now)
	if err != nil {
		return repository.StorageError(ErrMsgFailedToProvisionUser, err)
	}
	created, err := res.RowsAffected()
	if err != nil {
		return repository.StorageError(ErrMsgFailedToProvisionUser, err)
	}
	if created == 0 {
		return nil
	}
	return s.writeHistory(ctx, tx, domain.BalanceEntry{
		UserID:       userID,
		BalanceAfter: s.startingPoints,
		Change:       s.startingPoints,
		Kind:         domain.BalanceChangeInitial,
	})
}

func (s *Store) writeHistory(ctx context.Context, tx *sql.Tx, e domain.BalanceEntry) error {
	var betID sql.NullString
	if e.EventID != "" {
		betID = sql.NullString{String: e.EventID, Valid: true}
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO balance_history (user_id, balance_before, balance_after, change_amount, kind, bet_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.BalanceBefore, e.BalanceAfter, e.Change, string(e.Kind), betID, s.millis())
	if err != nil {
		return repository.StorageError(ErrMsgFailedToWriteHistory, err)
	}
	return nil
}

func (s *Store) addPoints(ctx context.Context, tx *sql.Tx, userID string, delta int64) (int64, error) {
	var after int64
	err := tx.QueryRowContext(ctx,
		`UPDATE users SET points = points + ?, updated_at = ? WHERE user_id = ? RETURNING points`,
		delta, s.millis(), userID).Scan(&after)
	return after, err
}

// GetBalance returns the user's balance, provisioning the default on first access
func (s *Store) GetBalance(ctx context.Context, userID string) (int64, error) {
	var points int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.provision(ctx, tx, userID); err != nil {
			return err
		}
		if err := tx.QueryRowContext(ctx, `SELECT points FROM users WHERE user_id = ?`, userID).Scan(&points); err != nil {
			return repository.StorageError(ErrMsgFailedToGetBalance, err)
		}
		return nil
	})
	return points, err
}

// SetBalance overwrites the user's balance
func (s *Store) SetBalance(ctx context.Context, userID string, amount int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.provision(ctx, tx, userID); err != nil {
			return err
		}
		var before int64
		if err := tx.QueryRowContext(ctx, `SELECT points FROM users WHERE user_id = ?`, userID).Scan(&before); err != nil {
			return repository.StorageError(ErrMsgFailedToGetBalance, err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET points = ?, updated_at = ? WHERE user_id = ?`,
			amount, s.millis(), userID); err != nil {
			return repository.StorageError(ErrMsgFailedToSetBalance, err)
		}
		return s.writeHistory(ctx, tx, domain.BalanceEntry{
			UserID:        userID,
			BalanceBefore: before,
			BalanceAfter:  amount,
			Change:        amount - before,
			Kind:          domain.BalanceChangeSet,
		})
	})
}

// AddBalance atomically adds delta to the user's balance and returns the result
func (s *Store) AddBalance(ctx context.Context, userID string, delta int64) (int64, error) {
	var after int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.provision(ctx, tx, userID); err != nil {
			return err
		}
		var err error
		after, err = s.addPoints(ctx, tx, userID, delta)
		if err != nil {
			return repository.StorageError(ErrMsgFailedToAddBalance, err)
		}
		return s.writeHistory(ctx, tx, domain.BalanceEntry{
			UserID:        userID,
			BalanceBefore: after - delta,
			BalanceAfter:  after,
			Change:        delta,
			Kind:          domain.BalanceChangeGive,
		})
	})
	return after, err
}

// ListBalanceHistory returns the newest journal entries first
func (s *Store) ListBalanceHistory(ctx context.Context, userID string, limit int) ([]domain.BalanceEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, balance_before, balance_after, change_amount, kind, bet_id, created_at
		 FROM balance_history WHERE user_id = ? ORDER BY id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, repository.StorageError(ErrMsgFailedToListHistory, err)
	}
	defer rows.Close()

	entries := []domain.BalanceEntry{}
	for rows.Next() {
		var (
			e         domain.BalanceEntry
			kind      string
			betID     sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.BalanceBefore, &e.BalanceAfter, &e.Change, &kind, &betID, &createdAt); err != nil {
			return nil, repository.StorageError(ErrMsgFailedToListHistory, err)
		}
		e.Kind = domain.BalanceChangeKind(kind)
		e.EventID = betID.String
		e.CreatedAt = time.UnixMilli(createdAt).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.StorageError(ErrMsgFailedToListHistory, err)
	}
	return entries, nil
}
