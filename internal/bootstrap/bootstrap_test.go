package bootstrap

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/LunaBet_Go/internal/config"
	"github.com/osse101/LunaBet_Go/internal/domain"
	"github.com/osse101/LunaBet_Go/internal/event"
)

func TestOpenLedger_SQLite(t *testing.T) {
	cfg := &config.Config{
		StorageDriver:         domain.StorageDriverSQLite,
		SQLitePath:            filepath.Join(t.TempDir(), "nested", "ledger.db"),
		DefaultStartingPoints: 300,
	}

	ledger, err := OpenLedger(context.Background(), cfg)
	require.NoError(t, err)
	defer ledger.Close()

	require.NoError(t, ledger.Ping(context.Background()))
	balance, err := ledger.GetBalance(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(300), balance)
}

func TestOpenLedger_UnknownDriver(t *testing.T) {
	_, err := OpenLedger(context.Background(), &config.Config{StorageDriver: "mysql"})
	assert.ErrorContains(t, err, `unknown storage driver "mysql"`)
}

func TestInitializeEventSystem_JournalsUndeliverableEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal", "pending.jsonl")

	events, err := InitializeEventSystem(&config.Config{ReconcileJournalPath: path})
	require.NoError(t, err)

	require.NoError(t, events.Journal.Append(event.Event{Type: event.PayoutFailed, Version: "1.0"}, 0, assert.AnError))

	GracefulShutdown(context.Background(), ShutdownComponents{Events: events})

	entries, err := event.ReadJournal(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, event.PayoutFailed, entries[0].Event.Type)
}

func TestRegisterEventHandlers_WithoutDiscord(t *testing.T) {
	bus := event.NewMemoryBus()
	require.NoError(t, RegisterEventHandlers(bus, &config.Config{}))

	// Handlers log instead of failing when Discord is not configured
	assert.NoError(t, bus.Publish(context.Background(), event.NewBalanceAdjustedEvent("alice", domain.BalanceChangeGive, 5, 1005)))
}

func TestSetupLogger_CreatesLogDir(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := filepath.Join(t.TempDir(), "logs")
	closer, err := SetupLogger(&config.Config{LogDir: dir, LogLevel: "debug", LogFormat: "json", ServiceName: "lunabet"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	assert.DirExists(t, dir)
}
