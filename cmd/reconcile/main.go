// Command reconcile inspects and replays settlements whose payouts were not applied.
//
//	reconcile              list unsettled bets
//	reconcile -event ID    replay the payouts of one bet
//	reconcile -all         replay every unsettled bet
//	reconcile -journal     print the pending-event journal
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/osse101/LunaBet_Go/internal/bootstrap"
	"github.com/osse101/LunaBet_Go/internal/config"
	"github.com/osse101/LunaBet_Go/internal/domain"
	"github.com/osse101/LunaBet_Go/internal/event"
	"github.com/osse101/LunaBet_Go/internal/settlement"
)

const commandTimeout = 2 * time.Minute

func main() {
	eventID := flag.String("event", "", "replay the payouts of this bet")
	all := flag.Bool("all", false, "replay every unsettled bet")
	showJournal := flag.Bool("journal", false, "print the pending-event journal and exit")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.LoadForOperator()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if *showJournal {
		if err := printJournal(cfg.ReconcileJournalPath); err != nil {
			slog.Error("Failed to read journal", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := run(ctx, cfg, *eventID, *all); err != nil {
		slog.Error("Reconcile failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, eventID string, all bool) error {
	ledger, err := bootstrap.OpenLedger(ctx, cfg)
	if err != nil {
		return err
	}

	events, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		ledger.Close()
		return err
	}
	defer bootstrap.GracefulShutdown(context.Background(), bootstrap.ShutdownComponents{Events: events, Ledger: ledger})

	if err := bootstrap.RegisterEventHandlers(events.Bus, cfg); err != nil {
		return err
	}

	svc := settlement.NewService(ledger, events.Publisher, events.Journal)

	switch {
	case eventID != "":
		s, err := svc.Reconcile(ctx, eventID)
		if errors.Is(err, domain.ErrSettlementApplied) {
			fmt.Printf("Bet %s is already settled\n", eventID)
			return nil
		}
		if err != nil {
			return err
		}
		printSettlements([]domain.Settlement{*s})
		return nil

	case all:
		applied, err := svc.ReconcileAll(ctx)
		printSettlements(applied)
		return err

	default:
		pending, err := svc.ListUnsettled(ctx)
		if err != nil {
			return err
		}
		printUnsettled(pending)
		return nil
	}
}

func printUnsettled(bets []domain.BetEvent) {
	if len(bets) == 0 {
		fmt.Println("No unsettled bets")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BET\tWINNER\tPOOL\tTOPIC")
	for _, b := range bets {
		winner := "-"
		if b.WinningOption != nil && *b.WinningOption < len(b.Options) {
			winner = fmt.Sprintf("%d (%s)", *b.WinningOption+1, b.Options[*b.WinningOption].Label)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", b.ID, winner, b.TotalPool(), b.Topic)
	}
	_ = w.Flush()
}

func printSettlements(settlements []domain.Settlement) {
	if len(settlements) == 0 {
		fmt.Println("Nothing to reconcile")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BET\tUSER\tPAYOUT")
	for _, s := range settlements {
		for _, p := range s.Payouts {
			fmt.Fprintf(w, "%s\t%s\t%d\n", s.EventID, p.UserID, p.Amount)
		}
		fmt.Fprintf(w, "%s\t(forfeited)\t%d\n", s.EventID, s.Forfeited())
	}
	_ = w.Flush()
}

func printJournal(path string) error {
	entries, err := event.ReadJournal(path)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("Journal is empty")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTYPE\tATTEMPTS\tERROR")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.Timestamp.Format(time.RFC3339), e.Event.Type, e.Attempts, e.Error)
	}
	return w.Flush()
}
