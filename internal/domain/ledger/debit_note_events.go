package ledger

import (
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebitNoteIssuedEvent is raised when a debit note is issued
type DebitNoteIssuedEvent struct {
	shared.BaseDomainEvent
	DebitNoteID      uuid.UUID        `json:"debit_note_id"`
	ReferenceNumber  string           `json:"reference_number"`
	CounterpartyType CounterpartyType `json:"counterparty_type"`
	CounterpartyID   uuid.UUID        `json:"counterparty_id"`
	Amount           decimal.Decimal  `json:"amount"`
	EntryID          uuid.UUID        `json:"entry_id"`
	IssuedAt         time.Time        `json:"issued_at"`
	Reason           string           `json:"reason"`
}

// EventType returns the event type name
func (e *DebitNoteIssuedEvent) EventType() string {
	return "DebitNoteIssued"
}

// NewDebitNoteIssuedEvent creates a new DebitNoteIssuedEvent
func NewDebitNoteIssuedEvent(dn *DebitNote) *DebitNoteIssuedEvent {
	return &DebitNoteIssuedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("DebitNoteIssued", "DebitNote", dn.ID),
		DebitNoteID:      dn.ID,
		ReferenceNumber:  dn.ReferenceNumber,
		CounterpartyType: dn.CounterpartyType,
		CounterpartyID:   dn.CounterpartyID,
		Amount:           dn.Amount,
		EntryID:          dn.EntryID,
		IssuedAt:         dn.IssuedAt,
		Reason:           dn.Reason,
	}
}
