// Package wager opens bets and takes stakes on them.
package wager

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/osse101/LunaBet_Go/internal/domain"
	"github.com/osse101/LunaBet_Go/internal/event"
	"github.com/osse101/LunaBet_Go/internal/logger"
	"github.com/osse101/LunaBet_Go/internal/repository"
)

// CreateEventRequest describes a new bet. ID is generated when empty and a zero
// Duration leaves the bet without a deadline.
type CreateEventRequest struct {
	ID        string
	Topic     string
	Options   []string
	Duration  time.Duration
	CreatorID string
	ChannelID string
}

// Service defines the interface for bet and wager operations
type Service interface {
	CreateEvent(ctx context.Context, req CreateEventRequest) (*domain.BetEvent, error)
	GetEvent(ctx context.Context, eventID string) (*domain.BetEvent, error)
	SaveEvent(ctx context.Context, bet *domain.BetEvent) error
	ListWagers(ctx context.Context, eventID string) ([]domain.Wager, error)
	// PlaceWager stakes amount points of userID on optionIndex (0-based). Repeat stakes
	// on the same option accumulate.
	PlaceWager(ctx context.Context, userID, eventID string, optionIndex int, amount int64) (*domain.WagerReceipt, error)
}

type service struct {
	repo             repository.Wagers
	bus              event.Bus
	allowCrossOption bool
	now              func() time.Time
}

// NewService creates a new wager service. bus may be nil.
func NewService(repo repository.Wagers, bus event.Bus, allowCrossOption bool) Service {
	return &service{
		repo:             repo,
		bus:              bus,
		allowCrossOption: allowCrossOption,
		now:              time.Now,
	}
}

func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
}

// normalizeMetadata trims and NFC-normalizes a topic and its labels and checks their lengths
func normalizeMetadata(topic string, options []string) (string, []string, error) {
	topic = normalize(topic)
	switch {
	case topic == "":
		return "", nil, invalid(ErrMsgTopicRequired)
	case utf8.RuneCountInString(topic) > MaxTopicLength:
		return "", nil, invalid(ErrMsgTopicTooLong)
	}

	if len(options) != domain.OptionCount {
		return "", nil, invalid(ErrMsgOptionCount)
	}
	labels := make([]string, len(options))
	for i, opt := range options {
		labels[i] = normalize(opt)
		if labels[i] == "" {
			return "", nil, invalid(ErrMsgLabelRequired)
		}
		if utf8.RuneCountInString(labels[i]) > MaxLabelLength {
			return "", nil, invalid(ErrMsgLabelTooLong)
		}
	}
	return topic, labels, nil
}

func (s *service) CreateEvent(ctx context.Context, req CreateEventRequest) (*domain.BetEvent, error) {
	topic, labels, err := normalizeMetadata(req.Topic, req.Options)
	if err != nil {
		return nil, err
	}

	if req.Duration < 0 {
		return nil, invalid(ErrMsgNegativeDuration)
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	} else {
		_, err := s.repo.GetEvent(ctx, id)
		switch {
		case err == nil:
			return nil, fmt.Errorf("%w: "+ErrMsgBetAlreadyExists, domain.ErrInvalidInput, id)
		case !errors.Is(err, domain.ErrEventNotFound):
			return nil, err
		}
	}

	now := s.now().UTC()
	var endsAt *time.Time
	if req.Duration > 0 {
		deadline := now.Add(req.Duration)
		endsAt = &deadline
	}

	bet := domain.NewBetEvent(id, topic, labels, endsAt)
	bet.CreatorID = req.CreatorID
	bet.ChannelID = req.ChannelID
	bet.CreatedAt = now

	if err := s.repo.SaveEvent(ctx, bet); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgBetCreated, "event_id", bet.ID, "topic", bet.Topic, "creator_id", bet.CreatorID)
	s.publish(ctx, event.NewBetCreatedEvent(bet))
	return bet, nil
}

func (s *service) GetEvent(ctx context.Context, eventID string) (*domain.BetEvent, error) {
	return s.repo.GetEvent(ctx, eventID)
}

func (s *service) SaveEvent(ctx context.Context, bet *domain.BetEvent) error {
	if bet == nil {
		return domain.ErrInvalidEvent
	}
	topic, labels, err := normalizeMetadata(bet.Topic, bet.Labels())
	if err != nil {
		return err
	}
	bet.Topic = topic
	for i := range bet.Options {
		bet.Options[i].Label = labels[i]
	}
	return s.repo.SaveEvent(ctx, bet)
}

func (s *service) ListWagers(ctx context.Context, eventID string) ([]domain.Wager, error) {
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListWagers(ctx, eventID)
}

func (s *service) PlaceWager(ctx context.Context, userID, eventID string, optionIndex int, amount int64) (*domain.WagerReceipt, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(userID) == "" {
		return nil, invalid(ErrMsgUserIDRequired)
	}
	if amount < 1 {
		return nil, domain.ErrInvalidAmount
	}
	if optionIndex < 0 || optionIndex >= domain.OptionCount {
		return nil, domain.ErrInvalidOption
	}

	bet, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := bet.AcceptingWagers(s.now()); err != nil {
		return nil, err
	}

	receipt, err := s.repo.ApplyWager(ctx, domain.WagerRequest{
		UserID:           userID,
		EventID:          eventID,
		OptionIndex:      optionIndex,
		Amount:           amount,
		AllowCrossOption: s.allowCrossOption,
	})
	if err != nil {
		log.Debug(LogMsgWagerRejected, "event_id", eventID, "user_id", userID, "amount", amount, "error", err)
		return nil, err
	}

	log.Info(LogMsgWagerPlaced,
		"event_id", eventID,
		"user_id", userID,
		"option", optionIndex,
		"amount", amount,
		"stake", receipt.Stake,
		"balance", receipt.Balance)

	s.publish(ctx, event.NewWagerPlacedEvent(receipt))
	return receipt, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}
