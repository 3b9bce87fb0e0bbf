package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/osse101/LunaBet_Go/internal/database/sqlite"
	"github.com/osse101/LunaBet_Go/internal/domain"
	"github.com/osse101/LunaBet_Go/internal/event"
	"github.com/osse101/LunaBet_Go/internal/points"
	"github.com/osse101/LunaBet_Go/internal/settlement"
	"github.com/osse101/LunaBet_Go/internal/wager"
)

type testAPI struct {
	router http.Handler
	store  *sqlite.Store
}

// newTestAPI wires the real services over an in-memory store
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store, err := sqlite.Open(context.Background(), sqlite.MemoryPath, domain.DefaultStartingPoints)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	bus := event.NewMemoryBus()
	return &testAPI{
		router: newTestRouter(
			NewPointsHandler(points.NewService(store, bus)),
			NewBetHandler(wager.NewService(store, bus, true), settlement.NewService(store, bus, nil)),
		),
		store: store,
	}
}

func newTestRouter(ph *PointsHandler, bh *BetHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/v1/points", ph.HandleGetBalance)
	r.Put("/api/v1/points", ph.HandleSetBalance)
	r.Post("/api/v1/points/give", ph.HandleGivePoints)
	r.Get("/api/v1/points/history", ph.HandleGetHistory)
	r.Post("/api/v1/bets", bh.HandleCreateBet)
	r.Get("/api/v1/bets/{id}", bh.HandleGetBet)
	r.Put("/api/v1/bets/{id}", bh.HandleUpdateBet)
	r.Get("/api/v1/bets/{id}/wagers", bh.HandleListWagers)
	r.Post("/api/v1/bets/{id}/wagers", bh.HandlePlaceWager)
	r.Post("/api/v1/bets/{id}/resolve", bh.HandleResolveBet)
	r.Post("/api/v1/bets/{id}/reconcile", bh.HandleReconcileBet)
	r.Get("/api/v1/settlements/unsettled", bh.HandleListUnsettled)
	return r
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return serve(t, a.router, method, path, body)
}

func serve(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
