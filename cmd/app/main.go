package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/LunaBet_Go/internal/bootstrap"
	"github.com/osse101/LunaBet_Go/internal/config"
	"github.com/osse101/LunaBet_Go/internal/points"
	"github.com/osse101/LunaBet_Go/internal/server"
	"github.com/osse101/LunaBet_Go/internal/settlement"
	"github.com/osse101/LunaBet_Go/internal/wager"
	"github.com/osse101/LunaBet_Go/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		slog.Error("Failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	if err := run(cfg); err != nil {
		slog.Error("LunaBet exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledger, err := bootstrap.OpenLedger(ctx, cfg)
	if err != nil {
		return err
	}

	events, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		ledger.Close()
		return err
	}
	if err := bootstrap.RegisterEventHandlers(events.Bus, cfg); err != nil {
		bootstrap.GracefulShutdown(context.Background(), bootstrap.ShutdownComponents{Events: events, Ledger: ledger})
		return err
	}

	pointsService := points.NewService(ledger, events.Publisher)
	wagerService := wager.NewService(ledger, events.Publisher, cfg.AllowCrossOptionWagers)
	settlementService := settlement.NewService(ledger, events.Publisher, events.Journal)

	reconcileWorker := worker.NewReconcileWorker(settlementService, cfg.ReconcileInterval, worker.DefaultReconcileWorkers)
	reconcileWorker.Start()

	srv := server.NewServer(
		server.Options{
			Port:           cfg.Port,
			APIKey:         cfg.APIKey,
			TrustedProxies: cfg.TrustedProxies,
			ServiceName:    cfg.ServiceName,
			Version:        cfg.Version,
			StorageDriver:  cfg.StorageDriver,
		},
		server.Services{
			Store:       ledger,
			Points:      pointsService,
			Wagers:      wagerService,
			Settlements: settlementService,
		},
	)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err = <-serverErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:          srv,
		ReconcileWorker: reconcileWorker,
		Events:          events,
		Ledger:          ledger,
	})

	return err
}
