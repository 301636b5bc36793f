package ledger

import (
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentCreatedEvent is raised when a new payment is recorded
type PaymentCreatedEvent struct {
	shared.BaseDomainEvent
	PaymentID        uuid.UUID        `json:"payment_id"`
	ReferenceNumber  string           `json:"reference_number"`
	Direction        PaymentDirection `json:"direction"`
	CounterpartyType CounterpartyType `json:"counterparty_type"`
	CounterpartyID   uuid.UUID        `json:"counterparty_id"`
	Amount           decimal.Decimal  `json:"amount"`
	PaymentMethod    PaymentMethod    `json:"payment_method"`
	PaidAt           time.Time        `json:"paid_at"`
}

// EventType returns the event type name
func (e *PaymentCreatedEvent) EventType() string {
	return "PaymentCreated"
}

// NewPaymentCreatedEvent creates a new PaymentCreatedEvent
func NewPaymentCreatedEvent(p *Payment) *PaymentCreatedEvent {
	return &PaymentCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("PaymentCreated", "Payment", p.ID),
		PaymentID:        p.ID,
		ReferenceNumber:  p.ReferenceNumber,
		Direction:        p.Direction,
		CounterpartyType: p.CounterpartyType,
		CounterpartyID:   p.CounterpartyID,
		Amount:           p.Amount,
		PaymentMethod:    p.PaymentMethod,
		PaidAt:           p.PaidAt,
	}
}

// PaymentAllocatedEvent is raised when payment capacity is applied to an entry
type PaymentAllocatedEvent struct {
	shared.BaseDomainEvent
	PaymentID       uuid.UUID       `json:"payment_id"`
	ReferenceNumber string          `json:"reference_number"`
	AllocationID    uuid.UUID       `json:"allocation_id"`
	EntryID         uuid.UUID       `json:"entry_id"`
	EntryKind       EntryKind       `json:"entry_kind"`
	Amount          decimal.Decimal `json:"amount"`
	Remaining       decimal.Decimal `json:"remaining"`
}

// EventType returns the event type name
func (e *PaymentAllocatedEvent) EventType() string {
	return "PaymentAllocated"
}

// NewPaymentAllocatedEvent creates a new PaymentAllocatedEvent
func NewPaymentAllocatedEvent(p *Payment, allocation *Allocation) *PaymentAllocatedEvent {
	return &PaymentAllocatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentAllocated", "Payment", p.ID),
		PaymentID:       p.ID,
		ReferenceNumber: p.ReferenceNumber,
		AllocationID:    allocation.ID,
		EntryID:         allocation.EntryID,
		EntryKind:       allocation.EntryKind,
		Amount:          allocation.Amount,
		Remaining:       p.RemainingCapacity(),
	}
}
