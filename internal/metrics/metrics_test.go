package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/LunaBet_Go/internal/domain"
	"github.com/osse101/LunaBet_Go/internal/event"
)

func TestEventMetricsCollector_LedgerEvents(t *testing.T) {
	bus := event.NewMemoryBus()
	NewEventMetricsCollector().Register(bus)
	ctx := context.Background()

	wagered := testutil.ToFloat64(PointsWagered)
	option := testutil.ToFloat64(WagersPlaced.WithLabelValues("1"))
	resolved := testutil.ToFloat64(BetsResolved)
	paid := testutil.ToFloat64(PointsPaidOut)
	forfeited := testutil.ToFloat64(PointsForfeited)
	reconciled := testutil.ToFloat64(SettlementsReconciled)

	require.NoError(t, bus.Publish(ctx, event.NewWagerPlacedEvent(&domain.WagerReceipt{OptionIndex: 1, Amount: 75})))

	s := &domain.Settlement{EventID: "bet", TotalPool: 101, WinningPool: 50,
		Payouts: []domain.Payout{{UserID: "a", Amount: 100}}}
	require.NoError(t, bus.Publish(ctx, event.NewSettlementEvent(event.BetResolved, s, nil)))
	require.NoError(t, bus.Publish(ctx, event.NewSettlementEvent(event.SettlementReconciled, s, nil)))

	assert.InDelta(t, wagered+75, testutil.ToFloat64(PointsWagered), 0)
	assert.InDelta(t, option+1, testutil.ToFloat64(WagersPlaced.WithLabelValues("1")), 0)
	assert.InDelta(t, resolved+1, testutil.ToFloat64(BetsResolved), 0)
	assert.InDelta(t, reconciled+1, testutil.ToFloat64(SettlementsReconciled), 0)
	assert.InDelta(t, paid+200, testutil.ToFloat64(PointsPaidOut), 0)
	assert.InDelta(t, forfeited+2, testutil.ToFloat64(PointsForfeited), 0)
}

func TestEventMetricsCollector_BadPayloadCountsError(t *testing.T) {
	before := testutil.ToFloat64(EventHandlerErrors.WithLabelValues(string(event.WagerPlaced)))

	err := NewEventMetricsCollector().HandleEvent(context.Background(), event.Event{
		Type:    event.WagerPlaced,
		Payload: "not a payload",
	})

	require.NoError(t, err)
	assert.InDelta(t, before+1, testutil.ToFloat64(EventHandlerErrors.WithLabelValues(string(event.WagerPlaced))), 0)
}

func TestMiddleware_LabelsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/v1/bets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/bets/{id}", "418"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bets/abc", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.InDelta(t, before+1,
		testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/bets/{id}", "418")), 0)
}
