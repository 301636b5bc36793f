package ledger

import (
	"bytes"
	"sort"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/strategy"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationStrategyType defines how instrument capacity is spread over entries
type AllocationStrategyType string

const (
	AllocationStrategyTypeFIFO   AllocationStrategyType = "FIFO"   // Oldest entries first by posting time
	AllocationStrategyTypeManual AllocationStrategyType = "MANUAL" // Explicit entry list in caller order
)

// IsValid checks if the strategy type is valid
func (t AllocationStrategyType) IsValid() bool {
	switch t {
	case AllocationStrategyTypeFIFO, AllocationStrategyTypeManual:
		return true
	}
	return false
}

// String returns the string representation
func (t AllocationStrategyType) String() string {
	return string(t)
}

// AllocationTarget represents an outstanding entry a plan can allocate against
type AllocationTarget struct {
	EntryID     uuid.UUID       // ID of the ledger entry
	Outstanding decimal.Decimal // Unsettled balance of the entry
	PostedAt    time.Time       // Posting time for ordering
}

// PlannedAllocation is a single step of an allocation plan
type PlannedAllocation struct {
	EntryID uuid.UUID
	Amount  decimal.Decimal
}

// AllocationPlan is the complete output of a planning strategy. Plans are pure
// calculations; nothing is mutated until the plan is executed.
type AllocationPlan struct {
	Allocations    []PlannedAllocation // Steps in execution order
	TotalPlanned   decimal.Decimal     // Sum of planned amounts
	RemainingAfter decimal.Decimal     // Instrument capacity left after the plan
	FullySpent     bool                // True if the plan consumes all capacity
	EntriesSettled []uuid.UUID         // Entries the plan settles in full
}

// AllocationStrategy plans how to spread instrument capacity over entries
type AllocationStrategy interface {
	strategy.Strategy
	// StrategyType returns the allocation strategy type
	StrategyType() AllocationStrategyType
	// Plan calculates allocations for the given capacity across targets
	Plan(capacity valueobject.Money, targets []AllocationTarget) (*AllocationPlan, error)
}

// FIFOAllocationStrategy allocates to the oldest outstanding entries first.
// Ties on posting time break on entry ID, so the plan for a given ledger state
// is always the same.
type FIFOAllocationStrategy struct {
	strategy.BaseStrategy
}

// NewFIFOAllocationStrategy creates a new FIFO allocation strategy
func NewFIFOAllocationStrategy() *FIFOAllocationStrategy {
	return &FIFOAllocationStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"fifo_allocation",
			strategy.StrategyTypeAllocation,
			"FIFO allocation strategy - settles oldest outstanding entries first by posting time",
		),
	}
}

// StrategyType returns the allocation strategy type
func (s *FIFOAllocationStrategy) StrategyType() AllocationStrategyType {
	return AllocationStrategyTypeFIFO
}

// Plan allocates the capacity to targets oldest-first
func (s *FIFOAllocationStrategy) Plan(capacity valueobject.Money, targets []AllocationTarget) (*AllocationPlan, error) {
	if capacity.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(ErrCodeInvalidAmount, "Allocation capacity must be positive")
	}
	if len(targets) == 0 {
		return emptyPlan(capacity.Amount()), nil
	}

	sorted := make([]AllocationTarget, len(targets))
	copy(sorted, targets)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].PostedAt.Equal(sorted[j].PostedAt) {
			return sorted[i].PostedAt.Before(sorted[j].PostedAt)
		}
		return bytes.Compare(sorted[i].EntryID[:], sorted[j].EntryID[:]) < 0
	})

	allocations := make([]PlannedAllocation, 0)
	settled := make([]uuid.UUID, 0)
	remaining := capacity.Amount()
	totalPlanned := decimal.Zero

	for _, target := range sorted {
		if remaining.IsZero() {
			break
		}
		if target.Outstanding.LessThanOrEqual(decimal.Zero) {
			continue
		}

		amount := decimal.Min(remaining, target.Outstanding)

		allocations = append(allocations, PlannedAllocation{
			EntryID: target.EntryID,
			Amount:  amount,
		})

		totalPlanned = totalPlanned.Add(amount)
		remaining = remaining.Sub(amount)

		if amount.GreaterThanOrEqual(target.Outstanding) {
			settled = append(settled, target.EntryID)
		}
	}

	return &AllocationPlan{
		Allocations:    allocations,
		TotalPlanned:   totalPlanned,
		RemainingAfter: remaining,
		FullySpent:     remaining.IsZero(),
		EntriesSettled: settled,
	}, nil
}

// ManualAllocationRequest represents a caller-specified allocation step
type ManualAllocationRequest struct {
	EntryID uuid.UUID       // Entry to allocate against
	Amount  decimal.Decimal // Amount to allocate (zero means as much as possible)
}

// ManualAllocationStrategy allocates to caller-specified entries in order
type ManualAllocationStrategy struct {
	strategy.BaseStrategy
	requests []ManualAllocationRequest
}

// NewManualAllocationStrategy creates a new manual allocation strategy
func NewManualAllocationStrategy(requests []ManualAllocationRequest) *ManualAllocationStrategy {
	return &ManualAllocationStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"manual_allocation",
			strategy.StrategyTypeAllocation,
			"Manual allocation strategy - settles caller-specified entries in order",
		),
		requests: requests,
	}
}

// StrategyType returns the allocation strategy type
func (s *ManualAllocationStrategy) StrategyType() AllocationStrategyType {
	return AllocationStrategyTypeManual
}

// Requests returns the configured allocation requests
func (s *ManualAllocationStrategy) Requests() []ManualAllocationRequest {
	return s.requests
}

// Plan allocates the capacity following the configured requests
func (s *ManualAllocationStrategy) Plan(capacity valueobject.Money, targets []AllocationTarget) (*AllocationPlan, error) {
	if capacity.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(ErrCodeInvalidAmount, "Allocation capacity must be positive")
	}
	if len(targets) == 0 {
		return emptyPlan(capacity.Amount()), nil
	}

	targetMap := make(map[uuid.UUID]*AllocationTarget, len(targets))
	for i := range targets {
		targetMap[targets[i].EntryID] = &targets[i]
	}

	allocations := make([]PlannedAllocation, 0)
	settled := make([]uuid.UUID, 0)
	remaining := capacity.Amount()
	totalPlanned := decimal.Zero

	for _, req := range s.requests {
		if remaining.IsZero() {
			break
		}

		target, exists := targetMap[req.EntryID]
		if !exists {
			continue
		}
		if target.Outstanding.LessThanOrEqual(decimal.Zero) {
			continue
		}

		var amount decimal.Decimal
		if req.Amount.IsZero() {
			amount = decimal.Min(remaining, target.Outstanding)
		} else {
			amount = decimal.Min(req.Amount, remaining)
			amount = decimal.Min(amount, target.Outstanding)
		}
		if amount.LessThanOrEqual(decimal.Zero) {
			continue
		}

		allocations = append(allocations, PlannedAllocation{
			EntryID: target.EntryID,
			Amount:  amount,
		})

		totalPlanned = totalPlanned.Add(amount)
		remaining = remaining.Sub(amount)

		if amount.GreaterThanOrEqual(target.Outstanding) {
			settled = append(settled, target.EntryID)
		}

		target.Outstanding = target.Outstanding.Sub(amount)
	}

	return &AllocationPlan{
		Allocations:    allocations,
		TotalPlanned:   totalPlanned,
		RemainingAfter: remaining,
		FullySpent:     remaining.IsZero(),
		EntriesSettled: settled,
	}, nil
}

func emptyPlan(capacity decimal.Decimal) *AllocationPlan {
	return &AllocationPlan{
		Allocations:    make([]PlannedAllocation, 0),
		TotalPlanned:   decimal.Zero,
		RemainingAfter: capacity,
		FullySpent:     false,
		EntriesSettled: make([]uuid.UUID, 0),
	}
}

// AllocationStrategyFactory creates allocation strategies
type AllocationStrategyFactory struct{}

// NewAllocationStrategyFactory creates a new factory
func NewAllocationStrategyFactory() *AllocationStrategyFactory {
	return &AllocationStrategyFactory{}
}

// GetStrategy returns a strategy by type
func (f *AllocationStrategyFactory) GetStrategy(strategyType AllocationStrategyType, requests []ManualAllocationRequest) (AllocationStrategy, error) {
	switch strategyType {
	case AllocationStrategyTypeFIFO:
		return NewFIFOAllocationStrategy(), nil
	case AllocationStrategyTypeManual:
		if len(requests) == 0 {
			return nil, shared.NewDomainError("INVALID_ALLOCATIONS", "Manual strategy requires allocation requests")
		}
		return NewManualAllocationStrategy(requests), nil
	default:
		return nil, shared.NewDomainError("INVALID_STRATEGY", "Unknown allocation strategy type")
	}
}
