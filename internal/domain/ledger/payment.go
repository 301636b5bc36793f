package ledger

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentDirection represents the direction money moved
type PaymentDirection string

const (
	PaymentDirectionInbound  PaymentDirection = "INBOUND"  // Money received from a customer
	PaymentDirectionOutbound PaymentDirection = "OUTBOUND" // Money paid to a supplier
)

// IsValid checks if the direction is a valid PaymentDirection
func (d PaymentDirection) IsValid() bool {
	return d == PaymentDirectionInbound || d == PaymentDirectionOutbound
}

// String returns the string representation of PaymentDirection
func (d PaymentDirection) String() string {
	return string(d)
}

// PaymentMethod represents the method of payment
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodWechat       PaymentMethod = "WECHAT"
	PaymentMethodAlipay       PaymentMethod = "ALIPAY"
	PaymentMethodCheck        PaymentMethod = "CHECK"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodWechat,
		PaymentMethodAlipay, PaymentMethodCheck, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Payment represents a received or issued payment aggregate root.
// Its settlement capacity is derived: Amount minus the sum of allocations.
type Payment struct {
	shared.BaseAggregateRoot
	ReferenceNumber  string           `json:"reference_number"`
	Direction        PaymentDirection `json:"direction"`
	CounterpartyType CounterpartyType `json:"counterparty_type"`
	CounterpartyID   uuid.UUID        `json:"counterparty_id"`
	Amount           decimal.Decimal  `json:"amount"`
	PaymentMethod    PaymentMethod    `json:"payment_method"`
	PaymentReference string           `json:"payment_reference"` // Bank transaction, check number
	PaidAt           time.Time        `json:"paid_at"`
	Allocations      []Allocation     `json:"allocations"`
	Remark           string           `json:"remark"`
}

// NewPayment creates a new payment with no allocations
func NewPayment(
	referenceNumber string,
	direction PaymentDirection,
	counterpartyType CounterpartyType,
	counterpartyID uuid.UUID,
	amount valueobject.Money,
	paymentMethod PaymentMethod,
	paidAt time.Time,
) (*Payment, error) {
	if referenceNumber == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE_NUMBER", "Reference number cannot be empty")
	}
	if len(referenceNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_REFERENCE_NUMBER", "Reference number cannot exceed 50 characters")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Payment direction is not valid")
	}
	if !counterpartyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_COUNTERPARTY_TYPE", "Counterparty type is not valid")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COUNTERPARTY", "Counterparty ID cannot be empty")
	}
	if direction == PaymentDirectionInbound && counterpartyType != CounterpartyTypeCustomer {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Inbound payments must come from a customer")
	}
	if direction == PaymentDirectionOutbound && counterpartyType != CounterpartyTypeSupplier {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Outbound payments must go to a supplier")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(ErrCodeInvalidAmount, "Payment amount must be positive")
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	if paidAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_PAID_AT", "Paid time cannot be empty")
	}

	p := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReferenceNumber:   referenceNumber,
		Direction:         direction,
		CounterpartyType:  counterpartyType,
		CounterpartyID:    counterpartyID,
		Amount:            amount.Amount(),
		PaymentMethod:     paymentMethod,
		PaidAt:            paidAt,
		Allocations:       make([]Allocation, 0),
	}

	p.AddDomainEvent(NewPaymentCreatedEvent(p))

	return p, nil
}

// Ref returns the tagged instrument reference
func (p *Payment) Ref() InstrumentRef {
	return InstrumentRef{Type: InstrumentTypePayment, ID: p.ID}
}

// InstrumentCounterpartyType returns the party type this payment settles for
func (p *Payment) InstrumentCounterpartyType() CounterpartyType {
	return p.CounterpartyType
}

// InstrumentCounterpartyID returns the party this payment settles for
func (p *Payment) InstrumentCounterpartyID() uuid.UUID {
	return p.CounterpartyID
}

// AllocatedAmount returns the sum of all allocations
func (p *Payment) AllocatedAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range p.Allocations {
		total = total.Add(p.Allocations[i].Amount)
	}
	return total
}

// RemainingCapacity returns the amount still available for allocation.
// Always derived from the allocation records, never stored.
func (p *Payment) RemainingCapacity() decimal.Decimal {
	return p.Amount.Sub(p.AllocatedAmount())
}

// RecordAllocation consumes payment capacity against a ledger entry
func (p *Payment) RecordAllocation(entryID uuid.UUID, entryKind EntryKind, amount valueobject.Money, allocatedAt time.Time, remark string) (*Allocation, error) {
	if entryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTRY", "Entry ID cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(ErrCodeInvalidAmount, "Allocation amount must be positive")
	}
	if amount.Amount().GreaterThan(p.RemainingCapacity()) {
		return nil, shared.NewDomainError(ErrCodeExceedsRemaining,
			fmt.Sprintf("Allocation amount %s exceeds remaining payment capacity %s", amount.Amount().String(), p.RemainingCapacity().String()))
	}

	allocation := NewAllocation(p.ID, entryID, entryKind, amount, allocatedAt, remark)
	p.Allocations = append(p.Allocations, *allocation)

	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentAllocatedEvent(p, allocation))

	return allocation, nil
}

// IsFullyAllocated returns true if all payment capacity has been consumed
func (p *Payment) IsFullyAllocated() bool {
	return p.RemainingCapacity().IsZero()
}

// AllocationCount returns the number of allocations
func (p *Payment) AllocationCount() int {
	return len(p.Allocations)
}

// GetAmountMoney returns the payment amount as Money
func (p *Payment) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyCNY(p.Amount)
}

// GetRemainingCapacityMoney returns the remaining capacity as Money
func (p *Payment) GetRemainingCapacityMoney() valueobject.Money {
	return valueobject.NewMoneyCNY(p.RemainingCapacity())
}

// SetPaymentReference sets the external payment reference
func (p *Payment) SetPaymentReference(reference string) error {
	if len(reference) > 100 {
		return shared.NewDomainError("INVALID_REFERENCE", "Payment reference cannot exceed 100 characters")
	}

	p.PaymentReference = reference
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetRemark sets the remark
func (p *Payment) SetRemark(remark string) {
	p.Remark = remark
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
