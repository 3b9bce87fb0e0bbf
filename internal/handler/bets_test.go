package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/LunaBet_Go/internal/domain"
	"github.com/osse101/LunaBet_Go/internal/settlement"
	"github.com/osse101/LunaBet_Go/internal/wager"
)

func createBet(t *testing.T, api *testAPI, id string) BetView {
	t.Helper()
	w := api.do(t, http.MethodPost, "/api/v1/bets", CreateBetRequest{
		ID:      id,
		Topic:   "Who takes the final?",
		Options: []string{"Home", "Away"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[BetView](t, w)
}

func placeWager(t *testing.T, api *testAPI, betID, user string, option int, amount int64) *httptest.ResponseRecorder {
	t.Helper()
	return api.do(t, http.MethodPost, "/api/v1/bets/"+betID+"/wagers", PlaceWagerRequest{
		UserID: user, Option: option, Amount: amount,
	})
}

func TestBetLifecycle_WorkedExample(t *testing.T) {
	api := newTestAPI(t)
	bet := createBet(t, api, "final")

	assert.Equal(t, "final", bet.ID)
	assert.True(t, bet.Active)
	require.Len(t, bet.Options, 2)
	assert.Equal(t, 1, bet.Options[0].Number)
	assert.Equal(t, "Away", bet.Options[1].Label)

	for _, wg := range []struct {
		user   string
		option int
		amount int64
	}{
		{"A", 1, 300},
		{"B", 1, 100},
		{"B", 2, 200},
		{"C", 2, 200},
	} {
		w := placeWager(t, api, "final", wg.user, wg.option, wg.amount)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := api.do(t, http.MethodGet, "/api/v1/bets/final", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[BetView](t, w)
	assert.Equal(t, int64(800), view.TotalPool)
	assert.Equal(t, int64(400), view.Options[0].Pool)
	assert.Equal(t, 2, view.Options[1].Bettors)

	w = api.do(t, http.MethodGet, "/api/v1/bets/final/wagers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[WagersResponse](t, w).Wagers, 4)

	w = api.do(t, http.MethodPost, "/api/v1/bets/final/resolve", ResolveBetRequest{WinningOption: 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	s := decode[SettlementView](t, w)
	assert.Equal(t, 1, s.WinningOption)
	assert.Equal(t, int64(800), s.TotalPool)
	assert.Equal(t, []domain.Payout{{UserID: "A", Amount: 600}, {UserID: "B", Amount: 200}}, s.Payouts)
	assert.Equal(t, int64(0), s.Retained)

	w = api.do(t, http.MethodGet, "/api/v1/points?user_id=A", nil)
	assert.Equal(t, int64(1300), decode[BalanceResponse](t, w).Balance)

	w = api.do(t, http.MethodPost, "/api/v1/bets/final/resolve", ResolveBetRequest{WinningOption: 2})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgBetAlreadyResolvedError)

	w = placeWager(t, api, "final", "D", 1, 10)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/bets/final/reconcile", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgSettlementAppliedError)
}

func TestHandlePlaceWager_Errors(t *testing.T) {
	api := newTestAPI(t)
	createBet(t, api, "b1")

	tests := []struct {
		name           string
		path           string
		body           interface{}
		expectedStatus int
		expectedBody   string
	}{
		{"insufficient funds", "/api/v1/bets/b1/wagers", PlaceWagerRequest{UserID: "u", Option: 1, Amount: 5000}, http.StatusBadRequest, ErrMsgNotEnoughPointsError},
		{"option out of range", "/api/v1/bets/b1/wagers", PlaceWagerRequest{UserID: "u", Option: 3, Amount: 5}, http.StatusBadRequest, `"option":"Must be at most 2"`},
		{"zero amount", "/api/v1/bets/b1/wagers", PlaceWagerRequest{UserID: "u", Option: 1, Amount: 0}, http.StatusBadRequest, `"amount"`},
		{"unknown bet", "/api/v1/bets/nope/wagers", PlaceWagerRequest{UserID: "u", Option: 1, Amount: 5}, http.StatusNotFound, ErrMsgBetNotFoundError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestHandleCreateBet_Validation(t *testing.T) {
	api := newTestAPI(t)
	createBet(t, api, "taken")

	tests := []struct {
		name         string
		body         interface{}
		expectedBody string
	}{
		{"one option", CreateBetRequest{Topic: "t", Options: []string{"a"}}, `"options":"Must contain exactly 2 entries"`},
		{"blank topic", CreateBetRequest{Topic: "  ", Options: []string{"a", "b"}}, `"topic":"This field is required"`},
		{"negative duration", CreateBetRequest{Topic: "t", Options: []string{"a", "b"}, DurationMinutes: -1}, `"duration_minutes"`},
		{"duplicate id", CreateBetRequest{ID: "taken", Topic: "t", Options: []string{"a", "b"}}, "already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(t, http.MethodPost, "/api/v1/bets", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestHandleCreateBet_WithDeadline(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/bets", CreateBetRequest{
		Topic: "Quick one", Options: []string{"Yes", "No"}, DurationMinutes: 5, CreatorID: "mod",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	bet := decode[BetView](t, w)
	assert.NotEmpty(t, bet.ID)
	require.NotNil(t, bet.EndsAt)
	assert.Equal(t, "mod", bet.CreatorID)
}

func TestHandleUpdateBet(t *testing.T) {
	api := newTestAPI(t)
	createBet(t, api, "final")
	endsAt := time.Date(2030, 1, 2, 15, 0, 0, 0, time.UTC)

	w := api.do(t, http.MethodPut, "/api/v1/bets/final", UpdateBetRequest{
		Topic:   " Who takes the cup? ",
		Options: []string{"Hosts", "Away"},
		EndsAt:  &endsAt,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	bet := decode[BetView](t, w)
	assert.Equal(t, "Who takes the cup?", bet.Topic)
	assert.Equal(t, "Hosts", bet.Options[0].Label)
	require.NotNil(t, bet.EndsAt)
	assert.True(t, endsAt.Equal(*bet.EndsAt))

	w = api.do(t, http.MethodGet, "/api/v1/bets/final", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Who takes the cup?", decode[BetView](t, w).Topic)

	w = api.do(t, http.MethodPut, "/api/v1/bets/final", UpdateBetRequest{Topic: "Renamed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	bet = decode[BetView](t, w)
	assert.Equal(t, "Renamed", bet.Topic)
	assert.Equal(t, "Hosts", bet.Options[0].Label, "omitted fields keep their value")
}

func TestHandleUpdateBet_Errors(t *testing.T) {
	api := newTestAPI(t)
	createBet(t, api, "final")

	w := api.do(t, http.MethodPut, "/api/v1/bets/missing", UpdateBetRequest{Topic: "t"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPut, "/api/v1/bets/final", UpdateBetRequest{Options: []string{"only"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPut, "/api/v1/bets/final", UpdateBetRequest{Topic: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUpdateBet_ResolvedStaysResolved(t *testing.T) {
	api := newTestAPI(t)
	createBet(t, api, "final")
	w := api.do(t, http.MethodPost, "/api/v1/bets/final/resolve", ResolveBetRequest{WinningOption: 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodPut, "/api/v1/bets/final", UpdateBetRequest{Topic: "Archived final"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	bet := decode[BetView](t, w)
	assert.Equal(t, "Archived final", bet.Topic)
	assert.False(t, bet.Active)
	require.NotNil(t, bet.WinningOption)
	assert.Equal(t, 2, *bet.WinningOption)
}

// stubSettlements lets a test choose what the settlement service returns
type stubSettlements struct {
	settlement.Service
	resolveErr error
	unsettled  []domain.BetEvent
}

func (s *stubSettlements) Resolve(ctx context.Context, eventID string, winningOption int) (*domain.Settlement, error) {
	return nil, s.resolveErr
}

func (s *stubSettlements) ListUnsettled(ctx context.Context) ([]domain.BetEvent, error) {
	return s.unsettled, nil
}

func TestHandleResolveBet_PayoutNotApplied(t *testing.T) {
	cause := errors.Join(domain.ErrStorageFailure, errors.New("connection reset"))
	stub := &stubSettlements{resolveErr: &settlement.PayoutError{
		Settlement: &domain.Settlement{EventID: "b1"},
		Err:        cause,
	}}
	router := newTestRouter(NewPointsHandler(nil), NewBetHandler(wager.NewService(nil, nil, true), stub))

	w := serve(t, router, http.MethodPost, "/api/v1/bets/b1/resolve", ResolveBetRequest{WinningOption: 2})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgPayoutNotAppliedError)
}

func TestHandleListUnsettled(t *testing.T) {
	winner := 0
	bet := domain.NewBetEvent("stuck", "t", []string{"a", "b"}, nil)
	bet.Active = false
	bet.WinningOption = &winner
	stub := &stubSettlements{unsettled: []domain.BetEvent{*bet}}
	router := newTestRouter(NewPointsHandler(nil), NewBetHandler(nil, stub))

	w := serve(t, router, http.MethodGet, "/api/v1/settlements/unsettled", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[UnsettledResponse](t, w)
	require.Len(t, resp.Bets, 1)
	assert.Equal(t, "stuck", resp.Bets[0].ID)
	require.NotNil(t, resp.Bets[0].WinningOption)
	assert.Equal(t, 1, *resp.Bets[0].WinningOption)
}
