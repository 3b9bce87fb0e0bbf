// Package ledgertest is the behavior suite every repository.Ledger backend must pass.
// Ids are randomized per test so backends may share one database across runs.
package ledgertest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/LunaBet_Go/internal/domain"
	"github.com/osse101/LunaBet_Go/internal/repository"
)

// StartingPoints is the provisioning balance factories must configure
const StartingPoints int64 = 1000

// Factory returns a ledger provisioning users with StartingPoints
type Factory func(t *testing.T) repository.Ledger

// Run executes the contract suite against the ledger built by newLedger
func Run(t *testing.T, newLedger Factory) {
	t.Run("GetBalanceProvisionsOnce", func(t *testing.T) { testGetBalanceProvisionsOnce(t, newLedger(t)) })
	t.Run("ConcurrentFirstReads", func(t *testing.T) { testConcurrentFirstReads(t, newLedger(t)) })
	t.Run("SetAndAddBalance", func(t *testing.T) { testSetAndAddBalance(t, newLedger(t)) })
	t.Run("SaveAndGetEvent", func(t *testing.T) { testSaveAndGetEvent(t, newLedger(t)) })
	t.Run("SaveEventNeverReactivates", func(t *testing.T) { testSaveEventNeverReactivates(t, newLedger(t)) })
	t.Run("ApplyWagerAccumulates", func(t *testing.T) { testApplyWagerAccumulates(t, newLedger(t)) })
	t.Run("ApplyWagerRejections", func(t *testing.T) { testApplyWagerRejections(t, newLedger(t)) })
	t.Run("CrossOptionPolicy", func(t *testing.T) { testCrossOptionPolicy(t, newLedger(t)) })
	t.Run("ConcurrentSameTriple", func(t *testing.T) { testConcurrentSameTriple(t, newLedger(t)) })
	t.Run("ConcurrentOverspend", func(t *testing.T) { testConcurrentOverspend(t, newLedger(t)) })
	t.Run("ConcurrentResolve", func(t *testing.T) { testConcurrentResolve(t, newLedger(t)) })
	t.Run("ApplyPayoutsExactlyOnce", func(t *testing.T) { testApplyPayoutsExactlyOnce(t, newLedger(t)) })
	t.Run("ApplyPayoutsRequiresResolution", func(t *testing.T) { testApplyPayoutsRequiresResolution(t, newLedger(t)) })
	t.Run("BalanceHistory", func(t *testing.T) { testBalanceHistory(t, newLedger(t)) })
}

// NewID returns a random id with a readable prefix
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// SeedEvent saves an active two-option bet and returns it
func SeedEvent(t *testing.T, ledger repository.Ledger) *domain.BetEvent {
	t.Helper()
	event := domain.NewBetEvent(NewID("bet"), "Will it rain?", []string{"Yes", "No"}, nil)
	require.NoError(t, ledger.SaveEvent(context.Background(), event))
	return event
}

func wager(user, eventID string, option int, amount int64) domain.WagerRequest {
	return domain.WagerRequest{
		UserID:           user,
		EventID:          eventID,
		OptionIndex:      option,
		Amount:           amount,
		AllowCrossOption: true,
	}
}

func balance(t *testing.T, ledger repository.Ledger, user string) int64 {
	t.Helper()
	b, err := ledger.GetBalance(context.Background(), user)
	require.NoError(t, err)
	return b
}

func testGetBalanceProvisionsOnce(t *testing.T, ledger repository.Ledger) {
	ctx := context.Background()
	user := NewID("user")

	assert.Equal(t, StartingPoints, balance(t, ledger, user))
	assert.Equal(t, StartingPoints, balance(t, ledger, user))

	history, err := ledger.ListBalanceHistory(ctx, user, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.BalanceChangeInitial, history[0].Kind)
	assert.Equal(t, StartingPoints, history[0].BalanceAfter)
}

func testConcurrentFirstReads(t *testing.T, ledger repository.Ledger) {
	ctx := context.Background()
	user := NewID("user")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := ledger.GetBalance(ctx, user)
			assert.NoError(t, err)
			assert.Equal(t, StartingPoints, b)
		}()
	}
	wg.Wait()

	history, err := ledger.ListBalanceHistory(ctx, user, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1, "exactly one row is provisioned")
}

func testSetAndAddBalance(t *testing.T, ledger repository.Ledger) {
	ctx := context.Background()
	user := NewID("user")

	require.NoError(t, ledger.SetBalance(ctx, user, 250))
	assert.Equal(t, int64(250), balance(t, ledger, user))

	after, err := ledger.AddBalance(ctx, user, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(300), after)

	require.NoError(t, ledger.SetBalance(ctx, user, -5), "set may take a balance negative")
	assert.Equal(t, int64(-5), balance(t, ledger, user))
}

func testSaveAndGetEvent(t *testing.T, ledger repository.Ledger) {
	ctx := context.Background()

	_, err := ledger.GetEvent(ctx, NewID("missing"))
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	endsAt := time.Now().Add(time.Hour).UTC().Truncate(time.Millisecond)
	event := domain.NewBetEvent(NewID("bet"), "Who wins?", []string{"Red", "Blue"}, &endsAt)
	event.CreatorID = "creator"
	event.ChannelID = "channel"
	require.NoError(t, ledger.SaveEvent(ctx, event))

	got, err := ledger.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Who wins?", got.Topic)
	assert.Equal(t, []string{"Red", "Blue"}, got.Labels())
	assert.Equal(t, "creator", got.CreatorID)
	assert.Equal(t, "channel", got.ChannelID)
	assert.True(t, got.Active)
	assert.Nil(t, got.WinningOption)
	require.NotNil(t, got.EndsAt)
	assert.True(t, endsAt.Equal(*got.EndsAt))
	assert.Zero(t, got.TotalPool())

	event.Topic = "Who wins tonight?"
	event.Options[0].Label = "Crimson"
	event.CreatorID = "someone else"
	event.ChannelID = "elsewhere"
	require.NoError(t, ledger.SaveEvent(ctx, event))

	got, err = ledger.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Who wins tonight?", got.Topic)
	assert.Equal(t, []string{"Crimson", "Blue"}, got.Labels())
	assert.Equal(t, "creator", got.CreatorID, "creator is fixed at creation")
	assert.Equal(t, "channel", got.ChannelID, "channel is fixed at creation")

	invalid := domain.NewBetEvent(NewID("bet"), "One option", []string{"Only"}, nil)
	assert.ErrorIs(t, ledger.SaveEvent(ctx, invalid), domain.ErrInvalidEvent)
}

func testSaveEventNeverReactivates(t *testing.T, ledger repository.Ledger) {
	ctx := context.Background()
	event := SeedEvent(t, ledger)

	_, err := ledger.ResolveEvent(ctx, event.ID, 1)
	require.NoError(t, err)

	// a stale copy still says active
	require.NoError(t, ledger.SaveEvent(ctx, event))
	got, err := ledger.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	require.NotNil(t, got.WinningOption)
	assert.Equal(t, 1, *got.WinningOption)

	other := 0
	event.Active = false
	event.WinningOption = &other
	require.NoError(t, ledger.SaveEvent(ctx, event))
	got, err = ledger.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, *got.WinningOption, "winning option never changes")
}

func testApplyWagerAccumulates(t *testing.T, ledger repository.Ledger) {
	ctx := context.Background()
	event := SeedEvent(t, ledger)
	alice, bob := NewID("alice"), NewID("bob")

	receipt, err := ledger.ApplyWager(ctx, wager(alice, event.ID, 0, 100))
	require.NoError(t, err)
	assert.Equal(t, int64(100), receipt.Stake)
	assert.Equal(t, StartingPoints-100, receipt.Balance)

	receipt, err = ledger.ApplyWager(ctx, wager(alice, event.ID, 0, 50))
	require.NoError(t, err)
	assert.Equal(t, int64(150), receipt.Stake)
	assert.Equal(t, StartingPoints-150, receipt.Balance)

	_, err = ledger.ApplyWager(ctx, wager(bob, event.ID, 1, 70))
	require.NoError(t, err)

	wagers, err := ledger.ListWagers(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, wagers, 2, "repeat wagers accumulate onto one row")

	got, err := ledger.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), got.Options[0].Pool)
	assert.Equal(t, 1, got.Options[0].Bettors)
	assert.Equal(t, int64(150), got.Options[0].MaxStake)
	assert.Equal(t, int64(70), got.Options[1].Pool)
	assert.Equal(t, int64(220), got.TotalPool())
}

func testApplyWagerRejections(t *testing.T, ledger repository.Ledger) {
	ctx := context.Background()
	event := SeedEvent(t, ledger)
	user := NewID("user")

	_, err := ledger.ApplyWager(ctx, wager(user, event.ID, 0, StartingPoints+1))
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, StartingPoints, balance(t, ledger, user), "rejected wager leaves the balance alone")
	wagers, err := ledger.ListWagers(ctx, event.ID)
	require.NoError(t, err)
	assert.Empty(t, wagers)

	_, err = ledger.ApplyWager(ctx, wager(user, NewID("missing"), 0, 10))
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	_, err = ledger.ResolveEvent(ctx, event.ID, 0)
	require.NoError(t, err)
	_, err = ledger.ApplyWager(ctx, wager(user, event.ID, 0, 10))
	assert.ErrorIs(t, err, domain.ErrAlreadyResolved)
	assert.Equal(t, StartingPoints, balance(t, ledger, user))
}

func testCrossOptionPolicy(t *testing.T, ledger repository.Ledger) {
	ctx := context.Background()
	event := SeedEvent(t, ledger)
	user := NewID("user")

	_, err := ledger.ApplyWager(ctx, wager(user, event.ID, 0, 100))
	require.NoError(t, err)

	strict := wager(user, event.ID, 1, 100)
	strict.AllowCrossOption = false
	_, err = ledger.ApplyWager(ctx, strict)
	assert.ErrorIs(t, err, domain.ErrCrossOptionWager)
	assert.Equal(t, StartingPoints-100, balance(t, ledger, user), "rejected wager is rolled back")

	same := wager(user, event.ID, 0, 10)
	same.AllowCrossOption = false
	_, err = ledger.ApplyWager(ctx, same)
	assert.NoError(t, err, "adding to the same option is always allowed")

	_, err = ledger.ApplyWager(ctx, wager(user, event.ID, 1, 100))
	assert.NoError(t, err, "cross-option wagers are accepted when allowed")
}

func testConcurrentSameTriple(t *testing.T, ledger repository.Ledger) {
	ctx := context.Background()
	event := SeedEvent(t, ledger)
	user := NewID("user")
	const workers, amount = 10, int64(10)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.ApplyWager(ctx, wager(user, event.ID, 0, amount))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	wagers, err := ledger.ListWagers(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, wagers, 1)
	assert.Equal(t, workers*amount, wagers[0].Amount)
	assert.Equal(t, StartingPoints-workers*amount, balance(t, ledger, user))
}

func testConcurrentOverspend(t *testing.T, ledger repository.Ledger) {
	ctx := context.Background()
	event := SeedEvent(t, ledger)
	user := NewID("user")
	const workers, amount = 20, int64(100)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(option int) {
			defer wg.Done()
			_, err := ledger.ApplyWager(ctx, wager(user, event.ID, option, amount))
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
				return
			}
			mu.Lock()
			succeeded++
			mu.Unlock()
		}(i % 2)
	}
	wg.Wait()

	assert.Equal(t, int(StartingPoints/amount), succeeded)
	assert.Equal(t, int64(0), balance(t, ledger, user), "no double spend")

	got, err := ledger.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, StartingPoints, got.TotalPool())
}

func testConcurrentResolve(t *testing.T, ledger repository.Ledger) {
	ctx := context.Background()
	event := SeedEvent(t, ledger)
	_, err := ledger.ApplyWager(ctx, wager(NewID("user"), event.ID, 0, 10))
	require.NoError(t, err)

	const workers = 8
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		wins   int
		frozen []domain.Wager
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(option int) {
			defer wg.Done()
			wagers, err := ledger.ResolveEvent(ctx, event.ID, option)
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrAlreadyResolved)
				return
			}
			mu.Lock()
			wins++
			frozen = wagers
			mu.Unlock()
		}(i % 2)
	}
	wg.Wait()

	assert.Equal(t, 1, wins, "exactly one resolver wins")
	assert.Len(t, frozen, 1)

	_, err = ledger.ResolveEvent(ctx, NewID("missing"), 0)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func testApplyPayoutsExactlyOnce(t *testing.T, ledger repository.Ledger) {
	ctx := context.Background()
	event := SeedEvent(t, ledger)
	winner, loser := NewID("winner"), NewID("loser")

	_, err := ledger.ApplyWager(ctx, wager(winner, event.ID, 0, 100))
	require.NoError(t, err)
	_, err = ledger.ApplyWager(ctx, wager(loser, event.ID, 1, 300))
	require.NoError(t, err)
	_, err = ledger.ResolveEvent(ctx, event.ID, 0)
	require.NoError(t, err)

	unsettled, err := ledger.ListUnsettledEvents(ctx)
	require.NoError(t, err)
	assert.True(t, containsEvent(unsettled, event.ID))

	settlement := &domain.Settlement{
		EventID:       event.ID,
		WinningOption: 0,
		TotalPool:     400,
		WinningPool:   100,
		Payouts:       []domain.Payout{{UserID: winner, Amount: 400}},
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := ledger.ApplyPayouts(ctx, settlement)
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrSettlementApplied)
				return
			}
			mu.Lock()
			applied++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, applied, "payouts apply exactly once")
	assert.Equal(t, StartingPoints-100+400, balance(t, ledger, winner))
	assert.Equal(t, StartingPoints-300, balance(t, ledger, loser))

	stored, err := ledger.GetSettlement(ctx, event.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, settlement.Payouts, stored.Payouts)
	assert.Equal(t, int64(400), stored.TotalPool)
	assert.NotNil(t, stored.AppliedAt)

	unsettled, err = ledger.ListUnsettledEvents(ctx)
	require.NoError(t, err)
	assert.False(t, containsEvent(unsettled, event.ID))

	none, err := ledger.GetSettlement(ctx, NewID("missing"))
	require.NoError(t, err)
	assert.Nil(t, none)
}

func testApplyPayoutsRequiresResolution(t *testing.T, ledger repository.Ledger) {
	ctx := context.Background()
	event := SeedEvent(t, ledger)

	err := ledger.ApplyPayouts(ctx, &domain.Settlement{EventID: event.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidEvent)

	err = ledger.ApplyPayouts(ctx, &domain.Settlement{EventID: NewID("missing")})
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	// an empty batch still settles the bet
	_, err = ledger.ResolveEvent(ctx, event.ID, 1)
	require.NoError(t, err)
	require.NoError(t, ledger.ApplyPayouts(ctx, &domain.Settlement{EventID: event.ID, WinningOption: 1}))
	stored, err := ledger.GetSettlement(ctx, event.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Empty(t, stored.Payouts)
}

func testBalanceHistory(t *testing.T, ledger repository.Ledger) {
	ctx := context.Background()
	event := SeedEvent(t, ledger)
	user := NewID("user")

	_, err := ledger.ApplyWager(ctx, wager(user, event.ID, 0, 40))
	require.NoError(t, err)
	require.NoError(t, ledger.SetBalance(ctx, user, 500))
	_, err = ledger.AddBalance(ctx, user, 25)
	require.NoError(t, err)

	history, err := ledger.ListBalanceHistory(ctx, user, 0)
	require.NoError(t, err)
	require.Len(t, history, 4)

	kinds := make([]domain.BalanceChangeKind, len(history))
	for i, e := range history {
		kinds[i] = e.Kind
		assert.Equal(t, e.BalanceAfter-e.BalanceBefore, e.Change)
	}
	assert.Equal(t, []domain.BalanceChangeKind{
		domain.BalanceChangeGive,
		domain.BalanceChangeSet,
		domain.BalanceChangeWager,
		domain.BalanceChangeInitial,
	}, kinds, "newest first")
	assert.Equal(t, event.ID, history[2].EventID)

	limited, err := ledger.ListBalanceHistory(ctx, user, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func containsEvent(events []domain.BetEvent, id string) bool {
	for _, e := range events {
		if e.ID == id {
			return true
		}
	}
	return false
}

