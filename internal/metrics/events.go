package metrics

import (
	"context"
	"strconv"

	"github.com/osse101/LunaBet_Go/internal/event"
	"github.com/osse101/LunaBet_Go/internal/logger"
)

// EventMetricsCollector subscribes to ledger events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to every ledger event type
func (e *EventMetricsCollector) Register(bus event.Bus) {
	eventTypes := []event.Type{
		event.BetCreated,
		event.WagerPlaced,
		event.BetResolved,
		event.PayoutFailed,
		event.SettlementReconciled,
		event.BalanceAdjusted,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
}

// HandleEvent updates metrics for one event. Undecodable payloads are counted as
// handler errors but never fail the publish.
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	if err := record(evt); err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
		return nil
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

func record(evt event.Event) error {
	switch evt.Type {
	case event.BetCreated:
		BetsCreated.Inc()

	case event.WagerPlaced:
		p, err := event.DecodePayload[event.WagerPlacedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		WagersPlaced.WithLabelValues(strconv.Itoa(p.OptionIndex)).Inc()
		PointsWagered.Add(float64(p.Amount))

	case event.BetResolved, event.SettlementReconciled:
		p, err := event.DecodePayload[event.SettlementPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		if evt.Type == event.SettlementReconciled {
			SettlementsReconciled.Inc()
		} else {
			BetsResolved.Inc()
		}
		PointsPaidOut.Add(float64(p.Disbursed))
		PointsForfeited.Add(float64(p.Forfeited))

	case event.BalanceAdjusted:
		p, err := event.DecodePayload[event.BalanceAdjustedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		BalanceAdjustments.WithLabelValues(string(p.Kind)).Inc()
	}
	return nil
}
