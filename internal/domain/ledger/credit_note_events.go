package ledger

import (
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditNoteIssuedEvent is raised when a new credit note is issued
type CreditNoteIssuedEvent struct {
	shared.BaseDomainEvent
	CreditNoteID     uuid.UUID        `json:"credit_note_id"`
	ReferenceNumber  string           `json:"reference_number"`
	CounterpartyType CounterpartyType `json:"counterparty_type"`
	CounterpartyID   uuid.UUID        `json:"counterparty_id"`
	Amount           decimal.Decimal  `json:"amount"`
	IssuedAt         time.Time        `json:"issued_at"`
	Reason           string           `json:"reason"`
}

// EventType returns the event type name
func (e *CreditNoteIssuedEvent) EventType() string {
	return "CreditNoteIssued"
}

// NewCreditNoteIssuedEvent creates a new CreditNoteIssuedEvent
func NewCreditNoteIssuedEvent(cn *CreditNote) *CreditNoteIssuedEvent {
	return &CreditNoteIssuedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("CreditNoteIssued", "CreditNote", cn.ID),
		CreditNoteID:     cn.ID,
		ReferenceNumber:  cn.ReferenceNumber,
		CounterpartyType: cn.CounterpartyType,
		CounterpartyID:   cn.CounterpartyID,
		Amount:           cn.Amount,
		IssuedAt:         cn.IssuedAt,
		Reason:           cn.Reason,
	}
}

// CreditNoteAllocatedEvent is raised when credit is applied to an entry
type CreditNoteAllocatedEvent struct {
	shared.BaseDomainEvent
	CreditNoteID    uuid.UUID       `json:"credit_note_id"`
	ReferenceNumber string          `json:"reference_number"`
	AllocationID    uuid.UUID       `json:"allocation_id"`
	EntryID         uuid.UUID       `json:"entry_id"`
	EntryKind       EntryKind       `json:"entry_kind"`
	Amount          decimal.Decimal `json:"amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

// EventType returns the event type name
func (e *CreditNoteAllocatedEvent) EventType() string {
	return "CreditNoteAllocated"
}

// NewCreditNoteAllocatedEvent creates a new CreditNoteAllocatedEvent
func NewCreditNoteAllocatedEvent(cn *CreditNote, allocation *Allocation) *CreditNoteAllocatedEvent {
	return &CreditNoteAllocatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CreditNoteAllocated", "CreditNote", cn.ID),
		CreditNoteID:    cn.ID,
		ReferenceNumber: cn.ReferenceNumber,
		AllocationID:    allocation.ID,
		EntryID:         allocation.EntryID,
		EntryKind:       allocation.EntryKind,
		Amount:          allocation.Amount,
		RemainingAmount: cn.RemainingAmount,
	}
}
