package ledger

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationService is a domain service that applies instrument capacity to
// ledger entries. It owns the precondition chain, checked in a fixed order
// before either aggregate is touched:
// 1. Amount must be positive
// 2. Amount must not exceed the instrument's remaining capacity
// 3. Amount must not exceed the entry's outstanding balance
// 4. Instrument and entry must belong to the same counterparty and side
// Only when all checks pass are both aggregates mutated, so a failed check
// leaves nothing to roll back.
type AllocationService struct {
	strategyFactory     *AllocationStrategyFactory
	defaultStrategyType AllocationStrategyType
	clock               func() time.Time
}

// AllocationServiceOption is a functional option for configuring AllocationService
type AllocationServiceOption func(*AllocationService)

// WithDefaultStrategy sets the default allocation strategy type
func WithDefaultStrategy(strategyType AllocationStrategyType) AllocationServiceOption {
	return func(s *AllocationService) {
		if strategyType.IsValid() {
			s.defaultStrategyType = strategyType
		}
	}
}

// WithClock sets the time source used for allocation timestamps
func WithClock(clock func() time.Time) AllocationServiceOption {
	return func(s *AllocationService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewAllocationService creates a new allocation service with optional configuration
func NewAllocationService(opts ...AllocationServiceOption) *AllocationService {
	s := &AllocationService{
		strategyFactory:     NewAllocationStrategyFactory(),
		defaultStrategyType: AllocationStrategyTypeFIFO,
		clock:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultStrategy returns the default strategy type
func (s *AllocationService) DefaultStrategy() AllocationStrategyType {
	return s.defaultStrategyType
}

// AllocationRecord is the unified result of a single allocation
type AllocationRecord struct {
	Allocation        *Allocation     // The allocation created on the instrument
	InstrumentRef     InstrumentRef   // Which instrument was consumed
	RemainingCapacity decimal.Decimal // Instrument capacity after the allocation
	EntryOutstanding  decimal.Decimal // Entry balance after the allocation
	EntrySettled      bool            // True if the entry reached zero
}

// Allocate applies the given amount of instrument capacity to the entry.
// Both aggregates are mutated in memory; persisting them atomically is the
// caller's job.
func (s *AllocationService) Allocate(
	instrument SettlementInstrument,
	entry *LedgerEntry,
	amount valueobject.Money,
	remark string,
) (*AllocationRecord, error) {
	if instrument == nil {
		return nil, shared.NewDomainError("INVALID_INSTRUMENT", "Settlement instrument cannot be nil")
	}
	if entry == nil {
		return nil, shared.NewDomainError("INVALID_ENTRY", "Ledger entry cannot be nil")
	}

	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(ErrCodeInvalidAmount, "Allocation amount must be positive")
	}
	if amount.Amount().GreaterThan(instrument.RemainingCapacity()) {
		return nil, shared.NewDomainError(ErrCodeExceedsRemaining,
			fmt.Sprintf("Allocation amount %s exceeds remaining capacity %s", amount.Amount().String(), instrument.RemainingCapacity().String()))
	}
	if amount.Amount().GreaterThan(entry.Outstanding) {
		return nil, shared.NewDomainError(ErrCodeExceedsOutstanding,
			fmt.Sprintf("Allocation amount %s exceeds outstanding balance %s", amount.Amount().String(), entry.Outstanding.String()))
	}
	if instrument.InstrumentCounterpartyID() != entry.CounterpartyID ||
		instrument.InstrumentCounterpartyType().EntryKind() != entry.Kind {
		return nil, shared.NewDomainError(ErrCodeCounterpartyMismatch,
			fmt.Sprintf("Instrument counterparty %s does not match entry %s", instrument.InstrumentCounterpartyID(), entry.ID))
	}

	allocation, err := instrument.RecordAllocation(entry.ID, entry.Kind, amount, s.clock(), remark)
	if err != nil {
		return nil, err
	}
	if err := entry.ReduceOutstanding(amount); err != nil {
		return nil, err
	}

	return &AllocationRecord{
		Allocation:        allocation,
		InstrumentRef:     instrument.Ref(),
		RemainingCapacity: instrument.RemainingCapacity(),
		EntryOutstanding:  entry.Outstanding,
		EntrySettled:      entry.IsSettled(),
	}, nil
}

// PlanAuto builds a FIFO plan for the instrument's remaining capacity over the
// given entries. The plan is a pure calculation; entries not matching the
// instrument's counterparty or with nothing outstanding are skipped.
func (s *AllocationService) PlanAuto(instrument SettlementInstrument, entries []LedgerEntry) (*AllocationPlan, error) {
	return s.Plan(instrument, entries, s.defaultStrategyType, nil)
}

// Plan builds an allocation plan for the instrument using the given strategy
func (s *AllocationService) Plan(
	instrument SettlementInstrument,
	entries []LedgerEntry,
	strategyType AllocationStrategyType,
	manualRequests []ManualAllocationRequest,
) (*AllocationPlan, error) {
	if instrument == nil {
		return nil, shared.NewDomainError("INVALID_INSTRUMENT", "Settlement instrument cannot be nil")
	}
	if !strategyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_STRATEGY", "Invalid allocation strategy type")
	}

	capacity := instrument.RemainingCapacity()
	if capacity.LessThanOrEqual(decimal.Zero) {
		return &AllocationPlan{
			Allocations:    make([]PlannedAllocation, 0),
			TotalPlanned:   decimal.Zero,
			RemainingAfter: capacity,
			FullySpent:     capacity.IsZero(),
			EntriesSettled: make([]uuid.UUID, 0),
		}, nil
	}

	strategy, err := s.strategyFactory.GetStrategy(strategyType, manualRequests)
	if err != nil {
		return nil, err
	}

	wantKind := instrument.InstrumentCounterpartyType().EntryKind()
	targets := make([]AllocationTarget, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		if e.CounterpartyID != instrument.InstrumentCounterpartyID() || e.Kind != wantKind {
			continue
		}
		if e.Outstanding.LessThanOrEqual(decimal.Zero) {
			continue
		}
		targets = append(targets, AllocationTarget{
			EntryID:     e.ID,
			Outstanding: e.Outstanding,
			PostedAt:    e.PostedAt,
		})
	}

	return strategy.Plan(valueobject.NewMoneyCNY(capacity), targets)
}
