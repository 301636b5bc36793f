package ledger

import (
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebitNote represents an additional charge raised against a counterparty.
// It carries no settlement capacity: issuing one posts a matching ledger entry,
// and the charge is then settled like any other entry. After issuance the note
// itself is inert.
type DebitNote struct {
	shared.BaseAggregateRoot
	ReferenceNumber  string           `json:"reference_number"`
	CounterpartyType CounterpartyType `json:"counterparty_type"`
	CounterpartyID   uuid.UUID        `json:"counterparty_id"`
	Amount           decimal.Decimal  `json:"amount"`
	IssuedAt         time.Time        `json:"issued_at"`
	EntryID          uuid.UUID        `json:"entry_id"` // The ledger entry posted at issuance
	SourceType       string           `json:"source_type,omitempty"`
	SourceID         *uuid.UUID       `json:"source_id,omitempty"`
	Reason           string           `json:"reason"`
	Remark           string           `json:"remark"`
}

// NewDebitNote issues a debit note and posts its backing ledger entry. Both are
// returned so the caller can persist them in one transaction.
func NewDebitNote(
	referenceNumber string,
	counterpartyType CounterpartyType,
	counterpartyID uuid.UUID,
	amount valueobject.Money,
	issuedAt time.Time,
	reason string,
) (*DebitNote, *LedgerEntry, error) {
	if referenceNumber == "" {
		return nil, nil, shared.NewDomainError("INVALID_REFERENCE_NUMBER", "Reference number cannot be empty")
	}
	if len(referenceNumber) > 50 {
		return nil, nil, shared.NewDomainError("INVALID_REFERENCE_NUMBER", "Reference number cannot exceed 50 characters")
	}
	if !counterpartyType.IsValid() {
		return nil, nil, shared.NewDomainError("INVALID_COUNTERPARTY_TYPE", "Counterparty type is not valid")
	}
	if counterpartyID == uuid.Nil {
		return nil, nil, shared.NewDomainError("INVALID_COUNTERPARTY", "Counterparty ID cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, nil, shared.NewDomainError(ErrCodeInvalidAmount, "Debit note amount must be positive")
	}
	if issuedAt.IsZero() {
		return nil, nil, shared.NewDomainError("INVALID_ISSUED_AT", "Issued time cannot be empty")
	}

	dn := &DebitNote{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReferenceNumber:   referenceNumber,
		CounterpartyType:  counterpartyType,
		CounterpartyID:    counterpartyID,
		Amount:            amount.Amount(),
		IssuedAt:          issuedAt,
		Reason:            reason,
	}

	// The posted entry takes the kind matching the counterparty: a customer
	// debit note raises a receivable, a supplier one raises a payable.
	entry, err := NewLedgerEntry(
		counterpartyType.EntryKind(),
		counterpartyID,
		string(InstrumentTypeDebitNote),
		dn.ID,
		amount,
		issuedAt,
	)
	if err != nil {
		return nil, nil, err
	}

	dn.EntryID = entry.ID
	dn.AddDomainEvent(NewDebitNoteIssuedEvent(dn))

	return dn, entry, nil
}

// Ref returns the tagged instrument reference
func (dn *DebitNote) Ref() InstrumentRef {
	return InstrumentRef{Type: InstrumentTypeDebitNote, ID: dn.ID}
}

// SetSource links the debit note to its originating document
func (dn *DebitNote) SetSource(sourceType string, sourceID uuid.UUID) error {
	if sourceType == "" {
		return shared.NewDomainError("INVALID_SOURCE", "Source type cannot be empty")
	}
	if sourceID == uuid.Nil {
		return shared.NewDomainError("INVALID_SOURCE", "Source ID cannot be empty")
	}

	dn.SourceType = sourceType
	dn.SourceID = &sourceID
	dn.UpdatedAt = time.Now()
	dn.IncrementVersion()

	return nil
}

// GetAmountMoney returns the debit amount as Money
func (dn *DebitNote) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyCNY(dn.Amount)
}

// SetRemark sets the remark
func (dn *DebitNote) SetRemark(remark string) {
	dn.Remark = remark
	dn.UpdatedAt = time.Now()
	dn.IncrementVersion()
}
