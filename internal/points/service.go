// Package points exposes balance reads and the admin balance operations.
package points

import (
	"context"
	"fmt"
	"strings"

	"github.com/osse101/LunaBet_Go/internal/domain"
	"github.com/osse101/LunaBet_Go/internal/event"
	"github.com/osse101/LunaBet_Go/internal/logger"
	"github.com/osse101/LunaBet_Go/internal/repository"
)

// Service defines the interface for balance operations
type Service interface {
	GetBalance(ctx context.Context, userID string) (int64, error)
	// SetBalance overwrites the balance. Any value is accepted, including negatives.
	SetBalance(ctx context.Context, userID string, amount int64) error
	// Give adds amount to the balance and returns the new balance
	Give(ctx context.Context, userID string, amount int64) (int64, error)
	History(ctx context.Context, userID string, limit int) ([]domain.BalanceEntry, error)
}

type service struct {
	repo repository.Points
	bus  event.Bus
}

// NewService creates a new points service. bus may be nil.
func NewService(repo repository.Points, bus event.Bus) Service {
	return &service{repo: repo, bus: bus}
}

func validateUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	return nil
}

func (s *service) GetBalance(ctx context.Context, userID string) (int64, error) {
	if err := validateUser(userID); err != nil {
		return 0, err
	}
	return s.repo.GetBalance(ctx, userID)
}

func (s *service) SetBalance(ctx context.Context, userID string, amount int64) error {
	if err := validateUser(userID); err != nil {
		return err
	}

	// The previous balance only feeds the audit event
	before, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.SetBalance(ctx, userID, amount); err != nil {
		return err
	}

	logger.FromContext(ctx).Info(LogMsgBalanceSet, "user_id", userID, "before", before, "balance", amount)
	s.publish(ctx, event.NewBalanceAdjustedEvent(userID, domain.BalanceChangeSet, amount-before, amount))
	return nil
}

func (s *service) Give(ctx context.Context, userID string, amount int64) (int64, error) {
	if err := validateUser(userID); err != nil {
		return 0, err
	}
	if amount < 1 {
		return 0, domain.ErrInvalidAmount
	}

	balance, err := s.repo.AddBalance(ctx, userID, amount)
	if err != nil {
		return 0, err
	}

	logger.FromContext(ctx).Info(LogMsgBalanceGiven, "user_id", userID, "amount", amount, "balance", balance)
	s.publish(ctx, event.NewBalanceAdjustedEvent(userID, domain.BalanceChangeGive, amount, balance))
	return balance, nil
}

func (s *service) History(ctx context.Context, userID string, limit int) ([]domain.BalanceEntry, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	return s.repo.ListBalanceHistory(ctx, userID, limit)
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}
