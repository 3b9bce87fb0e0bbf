package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/LunaBet_Go/internal/domain"
)

func TestCalculatePayouts_WorkedExample(t *testing.T) {
	wagers := []domain.Wager{
		{UserID: "A", OptionIndex: 0, Amount: 300},
		{UserID: "B", OptionIndex: 0, Amount: 100},
		{UserID: "B", OptionIndex: 1, Amount: 200},
		{UserID: "C", OptionIndex: 1, Amount: 200},
	}

	s := CalculatePayouts("bet", 0, wagers)

	assert.Equal(t, int64(800), s.TotalPool)
	assert.Equal(t, int64(400), s.WinningPool)
	assert.Equal(t, []domain.Payout{
		{UserID: "A", Amount: 600},
		{UserID: "B", Amount: 200},
	}, s.Payouts)
	assert.Equal(t, int64(0), s.Forfeited())
}

func TestCalculatePayouts_NobodyBackedWinner(t *testing.T) {
	wagers := []domain.Wager{
		{UserID: "A", OptionIndex: 1, Amount: 50},
		{UserID: "B", OptionIndex: 1, Amount: 70},
	}

	s := CalculatePayouts("bet", 0, wagers)

	assert.Equal(t, int64(120), s.TotalPool)
	assert.Zero(t, s.WinningPool)
	assert.NotNil(t, s.Payouts)
	assert.Empty(t, s.Payouts)
	assert.Equal(t, int64(120), s.Forfeited())
}

func TestCalculatePayouts_NoWagers(t *testing.T) {
	s := CalculatePayouts("bet", 1, nil)

	assert.Zero(t, s.TotalPool)
	assert.Empty(t, s.Payouts)
	assert.Equal(t, 1, s.WinningOption)
}

func TestCalculatePayouts_RoundsDown(t *testing.T) {
	wagers := []domain.Wager{
		{UserID: "A", OptionIndex: 0, Amount: 1},
		{UserID: "B", OptionIndex: 0, Amount: 1},
		{UserID: "C", OptionIndex: 0, Amount: 1},
		{UserID: "D", OptionIndex: 1, Amount: 1},
	}

	s := CalculatePayouts("bet", 0, wagers)

	require.Len(t, s.Payouts, 3)
	for _, p := range s.Payouts {
		assert.Equal(t, int64(1), p.Amount, p.UserID)
	}
	assert.Equal(t, int64(1), s.Forfeited())
}

func TestCalculatePayouts_LargePoolsDoNotOverflow(t *testing.T) {
	const stake = int64(1) << 61
	wagers := []domain.Wager{
		{UserID: "A", OptionIndex: 1, Amount: stake},
		{UserID: "B", OptionIndex: 1, Amount: stake},
		{UserID: "C", OptionIndex: 0, Amount: stake},
	}

	s := CalculatePayouts("bet", 1, wagers)

	require.Len(t, s.Payouts, 2)
	assert.Equal(t, stake+stake/2, s.Payouts[0].Amount)
	assert.Equal(t, stake+stake/2, s.Payouts[1].Amount)
	assert.Equal(t, int64(0), s.Forfeited())
}

func TestCalculatePayouts_Conservation(t *testing.T) {
	tests := []struct {
		name   string
		wagers []domain.Wager
	}{
		{"uneven", []domain.Wager{
			{UserID: "a", OptionIndex: 0, Amount: 7},
			{UserID: "b", OptionIndex: 0, Amount: 13},
			{UserID: "c", OptionIndex: 1, Amount: 29},
		}},
		{"single winner", []domain.Wager{
			{UserID: "a", OptionIndex: 0, Amount: 1},
			{UserID: "b", OptionIndex: 1, Amount: 999},
		}},
		{"primes", []domain.Wager{
			{UserID: "a", OptionIndex: 0, Amount: 3},
			{UserID: "b", OptionIndex: 0, Amount: 5},
			{UserID: "c", OptionIndex: 0, Amount: 11},
			{UserID: "d", OptionIndex: 1, Amount: 17},
			{UserID: "e", OptionIndex: 1, Amount: 23},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for option := 0; option < domain.OptionCount; option++ {
				s := CalculatePayouts("bet", option, tt.wagers)
				assert.LessOrEqual(t, s.Disbursed(), s.TotalPool)
				assert.GreaterOrEqual(t, s.Forfeited(), int64(0))
				// Every winner gets at least their stake back
				for _, w := range tt.wagers {
					if w.OptionIndex != option {
						continue
					}
					for _, p := range s.Payouts {
						if p.UserID == w.UserID {
							assert.GreaterOrEqual(t, p.Amount, w.Amount)
						}
					}
				}
			}
		})
	}
}
