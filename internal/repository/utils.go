package repository

import (
	"errors"
	"fmt"

	"github.com/osse101/LunaBet_Go/internal/domain"
)

// StorageError wraps an infrastructure fault so callers can match domain.ErrStorageFailure
// while the original cause stays inspectable.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStorageFailure, op, err)
}

// IsDomainError reports whether err is one of the business outcomes a store may return
// as-is rather than as a storage failure.
func IsDomainError(err error) bool {
	return errors.Is(err, domain.ErrInsufficientFunds) ||
		errors.Is(err, domain.ErrEventNotFound) ||
		errors.Is(err, domain.ErrAlreadyResolved) ||
		errors.Is(err, domain.ErrCrossOptionWager) ||
		errors.Is(err, domain.ErrSettlementApplied) ||
		errors.Is(err, domain.ErrInvalidEvent)
}
