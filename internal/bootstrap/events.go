package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/LunaBet_Go/internal/config"
	"github.com/osse101/LunaBet_Go/internal/event"
)

// EventSystem is the in-process bus, the retrying publisher services publish through,
// and the journal both of them fall back to.
type EventSystem struct {
	Bus       *event.MemoryBus
	Publisher *event.ResilientPublisher
	Journal   *event.Journal
}

// InitializeEventSystem opens the reconcile journal and wraps a memory bus in a
// ResilientPublisher that appends exhausted events to it.
func InitializeEventSystem(cfg *config.Config) (*EventSystem, error) {
	journal, err := event.OpenJournal(cfg.ReconcileJournalPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenJournal, err)
	}

	bus := event.NewMemoryBus()
	resilientConfig := event.DefaultResilientConfig()
	publisher := event.NewResilientPublisher(bus, journal, resilientConfig)

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", resilientConfig.MaxRetries,
		"retry_delay", resilientConfig.RetryDelay,
		"journal_path", cfg.ReconcileJournalPath)

	return &EventSystem{Bus: bus, Publisher: publisher, Journal: journal}, nil
}
