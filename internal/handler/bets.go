package handler

import (
	"net/http"
	"time"

	"github.com/osse101/LunaBet_Go/internal/domain"
	"github.com/osse101/LunaBet_Go/internal/settlement"
	"github.com/osse101/LunaBet_Go/internal/wager"
)

// Options are numbered from 1 on the wire and from 0 inside the ledger.

// BetHandler serves the bet lifecycle: open, wager, resolve, reconcile
type BetHandler struct {
	wagers      wager.Service
	settlements settlement.Service
}

// NewBetHandler creates a new bet handler
func NewBetHandler(wagers wager.Service, settlements settlement.Service) *BetHandler {
	return &BetHandler{wagers: wagers, settlements: settlements}
}

// CreateBetRequest opens a bet. ID is generated when omitted.
type CreateBetRequest struct {
	ID              string   `json:"id,omitempty" validate:"omitempty,max=64,excludesall= "`
	Topic           string   `json:"topic" validate:"notblank,max=200"`
	Options         []string `json:"options" validate:"len=2,dive,notblank,max=100"`
	DurationMinutes int      `json:"duration_minutes,omitempty" validate:"min=0,max=10080"`
	CreatorID       string   `json:"creator_id,omitempty" validate:"omitempty,userid"`
	ChannelID       string   `json:"channel_id,omitempty" validate:"max=64"`
}

// UpdateBetRequest edits the metadata of a bet. Omitted fields keep their value.
type UpdateBetRequest struct {
	Topic   string     `json:"topic,omitempty" validate:"omitempty,notblank,max=200"`
	Options []string   `json:"options,omitempty" validate:"omitempty,len=2,dive,notblank,max=100"`
	EndsAt  *time.Time `json:"ends_at,omitempty"`
}

// PlaceWagerRequest stakes points on option 1 or 2
type PlaceWagerRequest struct {
	UserID string `json:"user_id" validate:"userid"`
	Option int    `json:"option" validate:"required,min=1,max=2"`
	Amount int64  `json:"amount" validate:"required,min=1"`
}

// ResolveBetRequest names the winning option, 1 or 2
type ResolveBetRequest struct {
	WinningOption int `json:"winning_option" validate:"required,min=1,max=2"`
}

// OptionView is one option with its live pool
type OptionView struct {
	Number   int    `json:"number"`
	Label    string `json:"label"`
	Pool     int64  `json:"pool"`
	Bettors  int    `json:"bettors"`
	MaxStake int64  `json:"max_stake"`
}

// BetView is the wire form of a bet
type BetView struct {
	ID            string       `json:"id"`
	Topic         string       `json:"topic"`
	Options       []OptionView `json:"options"`
	TotalPool     int64        `json:"total_pool"`
	Active        bool         `json:"active"`
	WinningOption *int         `json:"winning_option,omitempty"`
	EndsAt        *time.Time   `json:"ends_at,omitempty"`
	CreatorID     string       `json:"creator_id,omitempty"`
	ChannelID     string       `json:"channel_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// WagerView is one accumulated stake
type WagerView struct {
	UserID string `json:"user_id"`
	Option int    `json:"option"`
	Amount int64  `json:"amount"`
}

// WagersResponse lists the stakes of a bet
type WagersResponse struct {
	BetID  string      `json:"bet_id"`
	Wagers []WagerView `json:"wagers"`
}

// ReceiptView confirms a wager
type ReceiptView struct {
	BetID   string `json:"bet_id"`
	UserID  string `json:"user_id"`
	Option  int    `json:"option"`
	Amount  int64  `json:"amount"`
	Stake   int64  `json:"stake"`
	Balance int64  `json:"balance"`
}

// SettlementView is the outcome of a resolved bet
type SettlementView struct {
	BetID         string          `json:"bet_id"`
	WinningOption int             `json:"winning_option"`
	TotalPool     int64           `json:"total_pool"`
	WinningPool   int64           `json:"winning_pool"`
	Payouts       []domain.Payout `json:"payouts"`
	Disbursed     int64           `json:"disbursed"`
	Retained      int64           `json:"retained"`
}

// UnsettledResponse lists resolved bets still waiting for their payouts
type UnsettledResponse struct {
	Bets []BetView `json:"bets"`
}

func newBetView(bet *domain.BetEvent) BetView {
	view := BetView{
		ID:        bet.ID,
		Topic:     bet.Topic,
		Options:   make([]OptionView, len(bet.Options)),
		TotalPool: bet.TotalPool(),
		Active:    bet.Active,
		EndsAt:    bet.EndsAt,
		CreatorID: bet.CreatorID,
		ChannelID: bet.ChannelID,
		CreatedAt: bet.CreatedAt,
	}
	for i, opt := range bet.Options {
		view.Options[i] = OptionView{
			Number:   i + 1,
			Label:    opt.Label,
			Pool:     opt.Pool,
			Bettors:  opt.Bettors,
			MaxStake: opt.MaxStake,
		}
	}
	if bet.WinningOption != nil {
		winner := *bet.WinningOption + 1
		view.WinningOption = &winner
	}
	return view
}

func newSettlementView(s *domain.Settlement) SettlementView {
	payouts := s.Payouts
	if payouts == nil {
		payouts = []domain.Payout{}
	}
	return SettlementView{
		BetID:         s.EventID,
		WinningOption: s.WinningOption + 1,
		TotalPool:     s.TotalPool,
		WinningPool:   s.WinningPool,
		Payouts:       payouts,
		Disbursed:     s.Disbursed(),
		Retained:      s.Forfeited(),
	}
}

// HandleCreateBet opens a new bet
// @Summary Open a bet
// @Tags bets
// @Accept json
// @Produce json
// @Param request body CreateBetRequest true "Bet"
// @Success 201 {object} BetView
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/bets [post]
func (h *BetHandler) HandleCreateBet(w http.ResponseWriter, r *http.Request) {
	var req CreateBetRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpCreateBet); err != nil {
		return
	}

	bet, err := h.wagers.CreateEvent(r.Context(), wager.CreateEventRequest{
		ID:        req.ID,
		Topic:     req.Topic,
		Options:   req.Options,
		Duration:  time.Duration(req.DurationMinutes) * time.Minute,
		CreatorID: req.CreatorID,
		ChannelID: req.ChannelID,
	})
	if err != nil {
		respondServiceError(w, r, OpCreateBet, err)
		return
	}

	respondJSON(w, http.StatusCreated, newBetView(bet))
}

// HandleGetBet returns a bet with its option pools
// @Summary Get a bet
// @Tags bets
// @Produce json
// @Param id path string true "Bet ID"
// @Success 200 {object} BetView
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/bets/{id} [get]
func (h *BetHandler) HandleGetBet(w http.ResponseWriter, r *http.Request) {
	id, ok := GetBetID(r, w)
	if !ok {
		return
	}

	bet, err := h.wagers.GetEvent(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, OpGetBet, err)
		return
	}

	respondJSON(w, http.StatusOK, newBetView(bet))
}

// HandleUpdateBet edits the topic, labels or deadline of a bet
// @Summary Update a bet
// @Tags bets
// @Accept json
// @Produce json
// @Param id path string true "Bet ID"
// @Param request body UpdateBetRequest true "Changes"
// @Success 200 {object} BetView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/bets/{id} [put]
func (h *BetHandler) HandleUpdateBet(w http.ResponseWriter, r *http.Request) {
	id, ok := GetBetID(r, w)
	if !ok {
		return
	}

	var req UpdateBetRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpUpdateBet); err != nil {
		return
	}

	bet, err := h.wagers.GetEvent(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, OpUpdateBet, err)
		return
	}

	if req.Topic != "" {
		bet.Topic = req.Topic
	}
	for i, label := range req.Options {
		bet.Options[i].Label = label
	}
	if req.EndsAt != nil {
		endsAt := req.EndsAt.UTC()
		bet.EndsAt = &endsAt
	}

	if err := h.wagers.SaveEvent(r.Context(), bet); err != nil {
		respondServiceError(w, r, OpUpdateBet, err)
		return
	}

	// the stored state wins over the request for the active flag and winner
	bet, err = h.wagers.GetEvent(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, OpUpdateBet, err)
		return
	}

	respondJSON(w, http.StatusOK, newBetView(bet))
}

// HandleListWagers lists the stakes placed on a bet
// @Summary List wagers
// @Tags bets
// @Produce json
// @Param id path string true "Bet ID"
// @Success 200 {object} WagersResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/bets/{id}/wagers [get]
func (h *BetHandler) HandleListWagers(w http.ResponseWriter, r *http.Request) {
	id, ok := GetBetID(r, w)
	if !ok {
		return
	}

	wagers, err := h.wagers.ListWagers(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, OpListWagers, err)
		return
	}

	resp := WagersResponse{BetID: id, Wagers: make([]WagerView, len(wagers))}
	for i, wg := range wagers {
		resp.Wagers[i] = WagerView{UserID: wg.UserID, Option: wg.OptionIndex + 1, Amount: wg.Amount}
	}
	respondJSON(w, http.StatusOK, resp)
}

// HandlePlaceWager stakes points on a bet
// @Summary Place a wager
// @Tags bets
// @Accept json
// @Produce json
// @Param id path string true "Bet ID"
// @Param request body PlaceWagerRequest true "Wager"
// @Success 201 {object} ReceiptView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/bets/{id}/wagers [post]
func (h *BetHandler) HandlePlaceWager(w http.ResponseWriter, r *http.Request) {
	id, ok := GetBetID(r, w)
	if !ok {
		return
	}

	var req PlaceWagerRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpPlaceWager); err != nil {
		return
	}

	receipt, err := h.wagers.PlaceWager(r.Context(), req.UserID, id, req.Option-1, req.Amount)
	if err != nil {
		respondServiceError(w, r, OpPlaceWager, err)
		return
	}

	respondJSON(w, http.StatusCreated, ReceiptView{
		BetID:   receipt.EventID,
		UserID:  receipt.UserID,
		Option:  receipt.OptionIndex + 1,
		Amount:  receipt.Amount,
		Stake:   receipt.Stake,
		Balance: receipt.Balance,
	})
}

// HandleResolveBet closes a bet and pays the winners
// @Summary Resolve a bet
// @Tags bets
// @Accept json
// @Produce json
// @Param id path string true "Bet ID"
// @Param request body ResolveBetRequest true "Winner"
// @Success 200 {object} SettlementView
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/bets/{id}/resolve [post]
func (h *BetHandler) HandleResolveBet(w http.ResponseWriter, r *http.Request) {
	id, ok := GetBetID(r, w)
	if !ok {
		return
	}

	var req ResolveBetRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpResolveBet); err != nil {
		return
	}

	s, err := h.settlements.Resolve(r.Context(), id, req.WinningOption-1)
	if err != nil {
		respondServiceError(w, r, OpResolveBet, err)
		return
	}

	respondJSON(w, http.StatusOK, newSettlementView(s))
}

// HandleReconcileBet applies the payouts of a resolved bet that has none
// @Summary Replay payouts
// @Tags settlements
// @Produce json
// @Param id path string true "Bet ID"
// @Success 200 {object} SettlementView
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/bets/{id}/reconcile [post]
func (h *BetHandler) HandleReconcileBet(w http.ResponseWriter, r *http.Request) {
	id, ok := GetBetID(r, w)
	if !ok {
		return
	}

	s, err := h.settlements.Reconcile(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, OpReconcileBet, err)
		return
	}

	respondJSON(w, http.StatusOK, newSettlementView(s))
}

// HandleListUnsettled lists resolved bets without applied payouts
// @Summary Unsettled bets
// @Tags settlements
// @Produce json
// @Success 200 {object} UnsettledResponse
// @Router /api/v1/settlements/unsettled [get]
func (h *BetHandler) HandleListUnsettled(w http.ResponseWriter, r *http.Request) {
	bets, err := h.settlements.ListUnsettled(r.Context())
	if err != nil {
		respondServiceError(w, r, OpListUnsettled, err)
		return
	}

	resp := UnsettledResponse{Bets: make([]BetView, len(bets))}
	for i := range bets {
		resp.Bets[i] = newBetView(&bets[i])
	}
	respondJSON(w, http.StatusOK, resp)
}
