package ledger

import (
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func target(id uuid.UUID, outstanding float64, postedAt time.Time) AllocationTarget {
	return AllocationTarget{
		EntryID:     id,
		Outstanding: decimal.NewFromFloat(outstanding),
		PostedAt:    postedAt,
	}
}

func TestFIFOAllocationStrategy_OldestFirst(t *testing.T) {
	s := NewFIFOAllocationStrategy()
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	plan, err := s.Plan(valueobject.NewMoneyCNYFromFloat(150.00), []AllocationTarget{
		target(c, 100.00, base.AddDate(0, 0, 2)),
		target(a, 100.00, base),
		target(b, 100.00, base.AddDate(0, 0, 1)),
	})

	require.NoError(t, err)
	require.Len(t, plan.Allocations, 2)
	assert.Equal(t, a, plan.Allocations[0].EntryID)
	assert.True(t, plan.Allocations[0].Amount.Equal(decimal.NewFromFloat(100.00)))
	assert.Equal(t, b, plan.Allocations[1].EntryID)
	assert.True(t, plan.Allocations[1].Amount.Equal(decimal.NewFromFloat(50.00)))
	assert.True(t, plan.TotalPlanned.Equal(decimal.NewFromFloat(150.00)))
	assert.True(t, plan.FullySpent)
	assert.Equal(t, []uuid.UUID{a}, plan.EntriesSettled)
}

func TestFIFOAllocationStrategy_TieBreaksOnID(t *testing.T) {
	s := NewFIFOAllocationStrategy()
	when := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	a := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	// Same posting time in both input orders; plan must come out identical
	first, err := s.Plan(valueobject.NewMoneyCNYFromFloat(10.00), []AllocationTarget{
		target(b, 100.00, when),
		target(a, 100.00, when),
	})
	require.NoError(t, err)

	second, err := s.Plan(valueobject.NewMoneyCNYFromFloat(10.00), []AllocationTarget{
		target(a, 100.00, when),
		target(b, 100.00, when),
	})
	require.NoError(t, err)

	require.Len(t, first.Allocations, 1)
	assert.Equal(t, a, first.Allocations[0].EntryID)
	assert.Equal(t, first.Allocations, second.Allocations)
}

func TestFIFOAllocationStrategy_SkipsSettledTargets(t *testing.T) {
	s := NewFIFOAllocationStrategy()
	now := time.Now()
	open := uuid.New()

	plan, err := s.Plan(valueobject.NewMoneyCNYFromFloat(50.00), []AllocationTarget{
		target(uuid.New(), 0, now.Add(-time.Hour)),
		target(open, 80.00, now),
	})

	require.NoError(t, err)
	require.Len(t, plan.Allocations, 1)
	assert.Equal(t, open, plan.Allocations[0].EntryID)
}

func TestFIFOAllocationStrategy_NoTargets(t *testing.T) {
	s := NewFIFOAllocationStrategy()

	plan, err := s.Plan(valueobject.NewMoneyCNYFromFloat(50.00), nil)

	require.NoError(t, err)
	assert.Empty(t, plan.Allocations)
	assert.True(t, plan.RemainingAfter.Equal(decimal.NewFromFloat(50.00)))
	assert.False(t, plan.FullySpent)
}

func TestFIFOAllocationStrategy_InvalidCapacity(t *testing.T) {
	s := NewFIFOAllocationStrategy()

	_, err := s.Plan(valueobject.ZeroCNY(), nil)

	assertDomainErrorCode(t, err, ErrCodeInvalidAmount)
}

func TestManualAllocationStrategy_FollowsRequestOrder(t *testing.T) {
	now := time.Now()
	a := uuid.New()
	b := uuid.New()
	s := NewManualAllocationStrategy([]ManualAllocationRequest{
		{EntryID: b, Amount: decimal.NewFromFloat(30.00)},
		{EntryID: a}, // zero amount means as much as possible
	})

	plan, err := s.Plan(valueobject.NewMoneyCNYFromFloat(100.00), []AllocationTarget{
		target(a, 100.00, now),
		target(b, 50.00, now),
	})

	require.NoError(t, err)
	require.Len(t, plan.Allocations, 2)
	assert.Equal(t, b, plan.Allocations[0].EntryID)
	assert.True(t, plan.Allocations[0].Amount.Equal(decimal.NewFromFloat(30.00)))
	assert.Equal(t, a, plan.Allocations[1].EntryID)
	assert.True(t, plan.Allocations[1].Amount.Equal(decimal.NewFromFloat(70.00)))
	assert.True(t, plan.FullySpent)
}

func TestManualAllocationStrategy_CapsAtOutstanding(t *testing.T) {
	now := time.Now()
	a := uuid.New()
	s := NewManualAllocationStrategy([]ManualAllocationRequest{
		{EntryID: a, Amount: decimal.NewFromFloat(500.00)},
	})

	plan, err := s.Plan(valueobject.NewMoneyCNYFromFloat(1000.00), []AllocationTarget{
		target(a, 120.00, now),
	})

	require.NoError(t, err)
	require.Len(t, plan.Allocations, 1)
	assert.True(t, plan.Allocations[0].Amount.Equal(decimal.NewFromFloat(120.00)))
	assert.Equal(t, []uuid.UUID{a}, plan.EntriesSettled)
}

func TestManualAllocationStrategy_SkipsUnknownTargets(t *testing.T) {
	s := NewManualAllocationStrategy([]ManualAllocationRequest{
		{EntryID: uuid.New(), Amount: decimal.NewFromFloat(10.00)},
	})

	plan, err := s.Plan(valueobject.NewMoneyCNYFromFloat(100.00), []AllocationTarget{
		target(uuid.New(), 50.00, time.Now()),
	})

	require.NoError(t, err)
	assert.Empty(t, plan.Allocations)
}

func TestAllocationStrategyFactory_GetStrategy(t *testing.T) {
	f := NewAllocationStrategyFactory()

	fifo, err := f.GetStrategy(AllocationStrategyTypeFIFO, nil)
	require.NoError(t, err)
	assert.Equal(t, AllocationStrategyTypeFIFO, fifo.StrategyType())

	manual, err := f.GetStrategy(AllocationStrategyTypeManual, []ManualAllocationRequest{{EntryID: uuid.New()}})
	require.NoError(t, err)
	assert.Equal(t, AllocationStrategyTypeManual, manual.StrategyType())

	_, err = f.GetStrategy(AllocationStrategyTypeManual, nil)
	assert.Error(t, err)

	_, err = f.GetStrategy(AllocationStrategyType("RANDOM"), nil)
	assert.Error(t, err)
}
