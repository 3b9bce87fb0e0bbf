package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/LunaBet_Go/internal/event"
	"github.com/osse101/LunaBet_Go/internal/repository"
	"github.com/osse101/LunaBet_Go/internal/server"
	"github.com/osse101/LunaBet_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server          *server.Server
	ReconcileWorker *worker.ReconcileWorker
	Events          *EventSystem
	Ledger          repository.Ledger
}

// GracefulShutdown stops components in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Reconcile worker (finish in-flight payout replays)
// 3. Event publisher (flush pending events, then close the journal)
// 4. Ledger store
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.ReconcileWorker != nil {
		if err := components.ReconcileWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgReconcileWorkerFailed, "error", err)
		}
	}

	if components.Events != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := components.Events.Publisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
		closeJournal(components.Events.Journal)
	}

	if components.Ledger != nil {
		components.Ledger.Close()
	}

	slog.Info(LogMsgServerStopped)
}

func closeJournal(journal *event.Journal) {
	if journal == nil {
		return
	}
	if err := journal.Close(); err != nil {
		slog.Error(LogMsgJournalCloseFailed, "error", err)
	}
}
