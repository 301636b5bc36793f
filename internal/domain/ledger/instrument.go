package ledger

import (
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstrumentType represents the type of settlement instrument
type InstrumentType string

const (
	InstrumentTypePayment    InstrumentType = "PAYMENT"
	InstrumentTypeCreditNote InstrumentType = "CREDIT_NOTE"
	InstrumentTypeDebitNote  InstrumentType = "DEBIT_NOTE"
)

// IsValid checks if the instrument type is valid
func (t InstrumentType) IsValid() bool {
	switch t {
	case InstrumentTypePayment, InstrumentTypeCreditNote, InstrumentTypeDebitNote:
		return true
	}
	return false
}

// String returns the string representation of InstrumentType
func (t InstrumentType) String() string {
	return string(t)
}

// CanAllocate returns true if the instrument type carries settlement capacity.
// Debit notes create ledger entries instead of settling them.
func (t InstrumentType) CanAllocate() bool {
	return t == InstrumentTypePayment || t == InstrumentTypeCreditNote
}

// InstrumentRef is a tagged reference to a settlement instrument
type InstrumentRef struct {
	Type InstrumentType `json:"type"`
	ID   uuid.UUID      `json:"id"`
}

// NewInstrumentRef creates a new instrument reference
func NewInstrumentRef(instrumentType InstrumentType, id uuid.UUID) (InstrumentRef, error) {
	if !instrumentType.IsValid() {
		return InstrumentRef{}, shared.NewDomainError("INVALID_INSTRUMENT_TYPE", "Instrument type is not valid")
	}
	if id == uuid.Nil {
		return InstrumentRef{}, shared.NewDomainError("INVALID_INSTRUMENT", "Instrument ID cannot be empty")
	}
	return InstrumentRef{Type: instrumentType, ID: id}, nil
}

// Allocation records a slice of instrument capacity applied against a ledger
// entry. The same shape serves payments and credit notes; InstrumentID points
// at the owning aggregate.
type Allocation struct {
	ID           uuid.UUID       `json:"id"`
	InstrumentID uuid.UUID       `json:"instrument_id"`
	EntryID      uuid.UUID       `json:"entry_id"`
	EntryKind    EntryKind       `json:"entry_kind"` // Which side of the ledger the allocation hit
	Amount       decimal.Decimal `json:"amount"`
	AllocatedAt  time.Time       `json:"allocated_at"`
	Remark       string          `json:"remark,omitempty"`
}

// NewAllocation creates a new allocation record
func NewAllocation(instrumentID, entryID uuid.UUID, entryKind EntryKind, amount valueobject.Money, allocatedAt time.Time, remark string) *Allocation {
	return &Allocation{
		ID:           uuid.New(),
		InstrumentID: instrumentID,
		EntryID:      entryID,
		EntryKind:    entryKind,
		Amount:       amount.Amount(),
		AllocatedAt:  allocatedAt,
		Remark:       remark,
	}
}

// GetAmountMoney returns the amount as Money value object
func (a *Allocation) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyCNY(a.Amount)
}

// SettlementInstrument is the capacity-carrying side of an allocation.
// Implemented by Payment and CreditNote.
type SettlementInstrument interface {
	// Ref returns the tagged reference identifying this instrument
	Ref() InstrumentRef
	// InstrumentCounterpartyType returns the party type this instrument settles for
	InstrumentCounterpartyType() CounterpartyType
	// InstrumentCounterpartyID returns the party this instrument settles for
	InstrumentCounterpartyID() uuid.UUID
	// RemainingCapacity returns the amount still available for allocation
	RemainingCapacity() decimal.Decimal
	// RecordAllocation consumes capacity against the given entry
	RecordAllocation(entryID uuid.UUID, entryKind EntryKind, amount valueobject.Money, allocatedAt time.Time, remark string) (*Allocation, error)
}
