package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/LunaBet_Go/internal/domain"
)

func TestHandleGetBalance(t *testing.T) {
	api := newTestAPI(t)

	t.Run("provisions new user", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/v1/points?user_id=alice", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, BalanceResponse{UserID: "alice", Balance: domain.DefaultStartingPoints}, decode[BalanceResponse](t, w))
	})

	t.Run("missing user", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/v1/points", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Missing user_id query parameter")
	})
}

func TestHandleSetBalance(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedBody   string
	}{
		{"negative allowed", map[string]interface{}{"user_id": "bob", "amount": -5}, http.StatusOK, `"balance":-5`},
		{"zero allowed", map[string]interface{}{"user_id": "bob", "amount": 0}, http.StatusOK, `"balance":0`},
		{"missing amount", map[string]interface{}{"user_id": "bob"}, http.StatusBadRequest, `"amount":"This field is required"`},
		{"bad user id", map[string]interface{}{"user_id": "b o b", "amount": 1}, http.StatusBadRequest, `"user_id":"Invalid user id"`},
		{"invalid json", "not json", http.StatusBadRequest, ErrMsgInvalidRequest},
		{"unknown field", map[string]interface{}{"user_id": "bob", "amount": 1, "admin": true}, http.StatusBadRequest, ErrMsgInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(t, http.MethodPut, "/api/v1/points", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestHandleGivePointsAndHistory(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/points/give", GivePointsRequest{UserID: "carol", Amount: 25})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1025), decode[BalanceResponse](t, w).Balance)

	w = api.do(t, http.MethodPost, "/api/v1/points/give", GivePointsRequest{UserID: "carol", Amount: 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/points/history?user_id=carol&limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[HistoryResponse](t, w)
	require.Len(t, history.Entries, 1)
	assert.Equal(t, domain.BalanceChangeGive, history.Entries[0].Kind)
	assert.Equal(t, int64(25), history.Entries[0].Change)

	w = api.do(t, http.MethodGet, "/api/v1/points/history?user_id=carol&limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgInvalidLimit)
}
