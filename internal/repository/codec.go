package repository

import (
	"encoding/json"
	"fmt"

	"github.com/osse101/LunaBet_Go/internal/domain"
)

// Options are persisted as a JSON array of labels. Pools are derived from wager rows.

// EncodeOptions serializes the option labels of a bet
func EncodeOptions(options []domain.Option) ([]byte, error) {
	labels := make([]string, len(options))
	for i, opt := range options {
		labels[i] = opt.Label
	}
	data, err := json.Marshal(labels)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal options: %w", err)
	}
	return data, nil
}

// DecodeOptions rebuilds options with zeroed pools from their stored labels
func DecodeOptions(data []byte) ([]domain.Option, error) {
	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}
	options := make([]domain.Option, len(labels))
	for i, label := range labels {
		options[i] = domain.Option{Label: label}
	}
	return options, nil
}

// EncodePayouts serializes a payout list; nil encodes as an empty array
func EncodePayouts(payouts []domain.Payout) ([]byte, error) {
	if payouts == nil {
		payouts = []domain.Payout{}
	}
	data, err := json.Marshal(payouts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payouts: %w", err)
	}
	return data, nil
}

// DecodePayouts is the inverse of EncodePayouts
func DecodePayouts(data []byte) ([]domain.Payout, error) {
	payouts := []domain.Payout{}
	if err := json.Unmarshal(data, &payouts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payouts: %w", err)
	}
	return payouts, nil
}
