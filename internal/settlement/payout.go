package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/osse101/LunaBet_Go/internal/domain"
)

// CalculatePayouts splits the pool of a resolved bet between the backers of winningOption.
//
// Each winning wager receives floor(amount * totalPool / winningPool). The product is
// computed in exact decimal arithmetic so large pools cannot overflow, and the sum of
// all payouts never exceeds the pool. Remainders are forfeited. When nobody backed the
// winning option the payout list is empty and the whole pool is retained.
func CalculatePayouts(eventID string, winningOption int, wagers []domain.Wager) *domain.Settlement {
	settlement := &domain.Settlement{
		EventID:       eventID,
		WinningOption: winningOption,
		Payouts:       []domain.Payout{},
	}

	for _, w := range wagers {
		settlement.TotalPool += w.Amount
		if w.OptionIndex == winningOption {
			settlement.WinningPool += w.Amount
		}
	}

	if settlement.WinningPool == 0 {
		return settlement
	}

	total := decimal.NewFromInt(settlement.TotalPool)
	winning := decimal.NewFromInt(settlement.WinningPool)

	for _, w := range wagers {
		if w.OptionIndex != winningOption || w.Amount <= 0 {
			continue
		}
		share, _ := decimal.NewFromInt(w.Amount).Mul(total).QuoRem(winning, 0)
		settlement.Payouts = append(settlement.Payouts, domain.Payout{
			UserID: w.UserID,
			Amount: share.IntPart(),
		})
	}

	return settlement
}
