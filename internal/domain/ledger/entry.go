package ledger

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryKind distinguishes the two sides of the settlement ledger
type EntryKind string

const (
	EntryKindReceivable EntryKind = "RECEIVABLE" // Money owed to us by a customer
	EntryKindPayable    EntryKind = "PAYABLE"    // Money we owe to a supplier
)

// IsValid checks if the kind is a valid EntryKind
func (k EntryKind) IsValid() bool {
	return k == EntryKindReceivable || k == EntryKindPayable
}

// String returns the string representation of EntryKind
func (k EntryKind) String() string {
	return string(k)
}

// CounterpartyType represents the kind of party an entry or instrument belongs to
type CounterpartyType string

const (
	CounterpartyTypeCustomer CounterpartyType = "CUSTOMER"
	CounterpartyTypeSupplier CounterpartyType = "SUPPLIER"
)

// IsValid checks if the counterparty type is valid
func (t CounterpartyType) IsValid() bool {
	return t == CounterpartyTypeCustomer || t == CounterpartyTypeSupplier
}

// String returns the string representation of CounterpartyType
func (t CounterpartyType) String() string {
	return string(t)
}

// EntryKind returns the ledger side this counterparty type settles against:
// customers owe us (receivable), we owe suppliers (payable).
func (t CounterpartyType) EntryKind() EntryKind {
	if t == CounterpartyTypeSupplier {
		return EntryKindPayable
	}
	return EntryKindReceivable
}

// LedgerEntry represents an open item on the settlement ledger aggregate root.
// The original amount is immutable after posting; only the outstanding balance
// moves, and only downward through allocations.
type LedgerEntry struct {
	shared.BaseAggregateRoot
	Kind           EntryKind       `json:"kind"`
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	ReferenceType  string          `json:"reference_type"` // Source document type (e.g. invoice, purchase order)
	ReferenceID    uuid.UUID       `json:"reference_id"`   // ID of the source document
	Amount         decimal.Decimal `json:"amount"`         // Original amount, never mutated after posting
	Outstanding    decimal.Decimal `json:"outstanding"`    // Unsettled remainder, 0 <= Outstanding <= Amount
	PostedAt       time.Time       `json:"posted_at"`      // Ordering key for oldest-first settlement
	Remark         string          `json:"remark"`
}

// NewLedgerEntry posts a new entry with the outstanding balance equal to the
// full amount
func NewLedgerEntry(
	kind EntryKind,
	counterpartyID uuid.UUID,
	referenceType string,
	referenceID uuid.UUID,
	amount valueobject.Money,
	postedAt time.Time,
) (*LedgerEntry, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY_KIND", "Entry kind is not valid")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COUNTERPARTY", "Counterparty ID cannot be empty")
	}
	if referenceType == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference type cannot be empty")
	}
	if referenceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference ID cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(ErrCodeInvalidAmount, "Entry amount must be positive")
	}
	if postedAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_POSTED_AT", "Posted time cannot be empty")
	}

	entry := &LedgerEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		CounterpartyID:    counterpartyID,
		ReferenceType:     referenceType,
		ReferenceID:       referenceID,
		Amount:            amount.Amount(),
		Outstanding:       amount.Amount(),
		PostedAt:          postedAt,
	}

	entry.AddDomainEvent(NewLedgerEntryPostedEvent(entry))

	return entry, nil
}

// ReduceOutstanding lowers the outstanding balance by the allocated amount.
// The original Amount is never touched.
func (e *LedgerEntry) ReduceOutstanding(amount valueobject.Money) error {
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(ErrCodeInvalidAmount, "Allocation amount must be positive")
	}
	if amount.Amount().GreaterThan(e.Outstanding) {
		return shared.NewDomainError(ErrCodeInsufficientOutstanding,
			fmt.Sprintf("Allocation amount %s exceeds outstanding balance %s", amount.Amount().String(), e.Outstanding.String()))
	}

	e.Outstanding = e.Outstanding.Sub(amount.Amount())
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	if e.Outstanding.IsZero() {
		e.AddDomainEvent(NewLedgerEntrySettledEvent(e))
	}

	return nil
}

// IsSettled returns true when the outstanding balance has reached zero
func (e *LedgerEntry) IsSettled() bool {
	return e.Outstanding.IsZero()
}

// SettledAmount returns the portion of the entry already settled
func (e *LedgerEntry) SettledAmount() decimal.Decimal {
	return e.Amount.Sub(e.Outstanding)
}

// GetAmountMoney returns the original amount as Money
func (e *LedgerEntry) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyCNY(e.Amount)
}

// GetOutstandingMoney returns the outstanding balance as Money
func (e *LedgerEntry) GetOutstandingMoney() valueobject.Money {
	return valueobject.NewMoneyCNY(e.Outstanding)
}

// SetRemark sets the remark
func (e *LedgerEntry) SetRemark(remark string) {
	e.Remark = remark
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}
