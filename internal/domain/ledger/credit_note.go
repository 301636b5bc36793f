package ledger

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditNote represents issued credit aggregate root. Unlike Payment, the
// remaining amount is stored and decremented with every allocation, so the
// stored column and the allocation sum are reconciled by the version check.
type CreditNote struct {
	shared.BaseAggregateRoot
	ReferenceNumber  string           `json:"reference_number"`
	CounterpartyType CounterpartyType `json:"counterparty_type"`
	CounterpartyID   uuid.UUID        `json:"counterparty_id"`
	Amount           decimal.Decimal  `json:"amount"`           // Total credit issued
	RemainingAmount  decimal.Decimal  `json:"remaining_amount"` // Unapplied credit, starts at Amount
	IssuedAt         time.Time        `json:"issued_at"`
	SourceType       string           `json:"source_type,omitempty"` // Originating document type (e.g. sales return)
	SourceID         *uuid.UUID       `json:"source_id,omitempty"`
	Reason           string           `json:"reason"`
	Allocations      []Allocation     `json:"allocations"`
	Remark           string           `json:"remark"`
}

// NewCreditNote issues a new credit note with its full amount unapplied
func NewCreditNote(
	referenceNumber string,
	counterpartyType CounterpartyType,
	counterpartyID uuid.UUID,
	amount valueobject.Money,
	issuedAt time.Time,
	reason string,
) (*CreditNote, error) {
	if referenceNumber == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE_NUMBER", "Reference number cannot be empty")
	}
	if len(referenceNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_REFERENCE_NUMBER", "Reference number cannot exceed 50 characters")
	}
	if !counterpartyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_COUNTERPARTY_TYPE", "Counterparty type is not valid")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COUNTERPARTY", "Counterparty ID cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(ErrCodeInvalidAmount, "Credit note amount must be positive")
	}
	if issuedAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_ISSUED_AT", "Issued time cannot be empty")
	}

	cn := &CreditNote{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReferenceNumber:   referenceNumber,
		CounterpartyType:  counterpartyType,
		CounterpartyID:    counterpartyID,
		Amount:            amount.Amount(),
		RemainingAmount:   amount.Amount(),
		IssuedAt:          issuedAt,
		Reason:            reason,
		Allocations:       make([]Allocation, 0),
	}

	cn.AddDomainEvent(NewCreditNoteIssuedEvent(cn))

	return cn, nil
}

// Ref returns the tagged instrument reference
func (cn *CreditNote) Ref() InstrumentRef {
	return InstrumentRef{Type: InstrumentTypeCreditNote, ID: cn.ID}
}

// InstrumentCounterpartyType returns the party type this credit settles for
func (cn *CreditNote) InstrumentCounterpartyType() CounterpartyType {
	return cn.CounterpartyType
}

// InstrumentCounterpartyID returns the party this credit settles for
func (cn *CreditNote) InstrumentCounterpartyID() uuid.UUID {
	return cn.CounterpartyID
}

// RemainingCapacity returns the stored unapplied credit
func (cn *CreditNote) RemainingCapacity() decimal.Decimal {
	return cn.RemainingAmount
}

// AllocatedAmount returns the portion of the credit already applied
func (cn *CreditNote) AllocatedAmount() decimal.Decimal {
	return cn.Amount.Sub(cn.RemainingAmount)
}

// RecordAllocation applies part of the credit against a ledger entry and
// decrements the stored remaining amount
func (cn *CreditNote) RecordAllocation(entryID uuid.UUID, entryKind EntryKind, amount valueobject.Money, allocatedAt time.Time, remark string) (*Allocation, error) {
	if entryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTRY", "Entry ID cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(ErrCodeInvalidAmount, "Allocation amount must be positive")
	}
	if amount.Amount().GreaterThan(cn.RemainingAmount) {
		return nil, shared.NewDomainError(ErrCodeExceedsRemaining,
			fmt.Sprintf("Allocation amount %s exceeds remaining credit %s", amount.Amount().String(), cn.RemainingAmount.String()))
	}

	allocation := NewAllocation(cn.ID, entryID, entryKind, amount, allocatedAt, remark)
	cn.Allocations = append(cn.Allocations, *allocation)
	cn.RemainingAmount = cn.RemainingAmount.Sub(amount.Amount())

	cn.UpdatedAt = time.Now()
	cn.IncrementVersion()

	cn.AddDomainEvent(NewCreditNoteAllocatedEvent(cn, allocation))

	return allocation, nil
}

// SetSource links the credit note to its originating document
func (cn *CreditNote) SetSource(sourceType string, sourceID uuid.UUID) error {
	if sourceType == "" {
		return shared.NewDomainError("INVALID_SOURCE", "Source type cannot be empty")
	}
	if sourceID == uuid.Nil {
		return shared.NewDomainError("INVALID_SOURCE", "Source ID cannot be empty")
	}

	cn.SourceType = sourceType
	cn.SourceID = &sourceID
	cn.UpdatedAt = time.Now()
	cn.IncrementVersion()

	return nil
}

// IsFullyApplied returns true once no credit remains
func (cn *CreditNote) IsFullyApplied() bool {
	return cn.RemainingAmount.IsZero()
}

// AllocationCount returns the number of allocations
func (cn *CreditNote) AllocationCount() int {
	return len(cn.Allocations)
}

// GetAmountMoney returns the total credit as Money
func (cn *CreditNote) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyCNY(cn.Amount)
}

// GetRemainingAmountMoney returns the unapplied credit as Money
func (cn *CreditNote) GetRemainingAmountMoney() valueobject.Money {
	return valueobject.NewMoneyCNY(cn.RemainingAmount)
}

// SetRemark sets the remark
func (cn *CreditNote) SetRemark(remark string) {
	cn.Remark = remark
	cn.UpdatedAt = time.Now()
	cn.IncrementVersion()
}
