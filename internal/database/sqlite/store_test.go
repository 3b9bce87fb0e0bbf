package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/LunaBet_Go/internal/domain"
	"github.com/osse101/LunaBet_Go/internal/repository"
	"github.com/osse101/LunaBet_Go/internal/testing/ledgertest"
)

func newMemoryStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), MemoryPath, ledgertest.StartingPoints)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestStore_LedgerContract(t *testing.T) {
	ledgertest.Run(t, func(t *testing.T) repository.Ledger {
		return newMemoryStore(t)
	})
}

func TestStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	store, err := Open(ctx, path, 1000)
	require.NoError(t, err)
	event := ledgertest.SeedEvent(t, store)
	_, err = store.ApplyWager(ctx, domain.WagerRequest{
		UserID: "alice", EventID: event.ID, OptionIndex: 1, Amount: 250, AllowCrossOption: true,
	})
	require.NoError(t, err)
	store.Close()

	reopened, err := Open(ctx, path, 1000)
	require.NoError(t, err, "migrations run again without error")
	defer reopened.Close()

	b, err := reopened.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(750), b)

	got, err := reopened.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(250), got.Options[1].Pool)
}

func TestStore_StartingPointsAndTimestamps(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, MemoryPath, 42)
	require.NoError(t, err)
	defer store.Close()

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	b, err := store.GetBalance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(42), b)

	event := domain.NewBetEvent("bet-1", "Topic", []string{"A", "B"}, nil)
	require.NoError(t, store.SaveEvent(ctx, event))
	got, err := store.GetEvent(ctx, "bet-1")
	require.NoError(t, err)
	assert.Equal(t, fixed, got.CreatedAt)

	history, err := store.ListBalanceHistory(ctx, "bob", 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, fixed, history[0].CreatedAt)
}

func TestStore_Ping(t *testing.T) {
	store := newMemoryStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}
