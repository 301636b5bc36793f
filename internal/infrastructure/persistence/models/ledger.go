package models

import (
	"time"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntryModel is the persistence model for the LedgerEntry aggregate root.
type LedgerEntryModel struct {
	AggregateModel
	Kind           ledger.EntryKind `gorm:"type:varchar(20);not null;index"`
	CounterpartyID uuid.UUID        `gorm:"type:uuid;not null;index:idx_entries_counterparty"`
	ReferenceType  string           `gorm:"type:varchar(30);not null;index"`
	ReferenceID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Outstanding    decimal.Decimal  `gorm:"type:decimal(18,4);not null;index"`
	PostedAt       time.Time        `gorm:"not null;index"`
	Remark         string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to a domain LedgerEntry.
func (m *LedgerEntryModel) ToDomain() *ledger.LedgerEntry {
	return &ledger.LedgerEntry{
		BaseAggregateRoot: m.toAggregateRoot(),
		Kind:              m.Kind,
		CounterpartyID:    m.CounterpartyID,
		ReferenceType:     m.ReferenceType,
		ReferenceID:       m.ReferenceID,
		Amount:            m.Amount,
		Outstanding:       m.Outstanding,
		PostedAt:          m.PostedAt,
		Remark:            m.Remark,
	}
}

// FromDomain populates the persistence model from a domain LedgerEntry.
func (m *LedgerEntryModel) FromDomain(e *ledger.LedgerEntry) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.Kind = e.Kind
	m.CounterpartyID = e.CounterpartyID
	m.ReferenceType = e.ReferenceType
	m.ReferenceID = e.ReferenceID
	m.Amount = e.Amount
	m.Outstanding = e.Outstanding
	m.PostedAt = e.PostedAt
	m.Remark = e.Remark
}

// LedgerEntryModelFromDomain creates a new persistence model from a domain LedgerEntry.
func LedgerEntryModelFromDomain(e *ledger.LedgerEntry) *LedgerEntryModel {
	m := &LedgerEntryModel{}
	m.FromDomain(e)
	return m
}

// PaymentAllocationModel is the persistence model for allocations made by a payment.
type PaymentAllocationModel struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key"`
	PaymentID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	EntryID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	EntryKind   ledger.EntryKind `gorm:"type:varchar(20);not null"`
	Amount      decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	AllocatedAt time.Time        `gorm:"not null"`
	Remark      string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentAllocationModel) TableName() string {
	return "payment_allocations"
}

// ToDomain converts the persistence model to a domain Allocation.
func (m *PaymentAllocationModel) ToDomain() ledger.Allocation {
	return ledger.Allocation{
		ID:           m.ID,
		InstrumentID: m.PaymentID,
		EntryID:      m.EntryID,
		EntryKind:    m.EntryKind,
		Amount:       m.Amount,
		AllocatedAt:  m.AllocatedAt,
		Remark:       m.Remark,
	}
}

// FromDomain populates the persistence model from a domain Allocation.
func (m *PaymentAllocationModel) FromDomain(a ledger.Allocation) {
	m.ID = a.ID
	m.PaymentID = a.InstrumentID
	m.EntryID = a.EntryID
	m.EntryKind = a.EntryKind
	m.Amount = a.Amount
	m.AllocatedAt = a.AllocatedAt
	m.Remark = a.Remark
}

// PaymentModel is the persistence model for the Payment aggregate root.
type PaymentModel struct {
	AggregateModel
	ReferenceNumber  string                   `gorm:"type:varchar(50);not null;uniqueIndex"`
	Direction        ledger.PaymentDirection  `gorm:"type:varchar(10);not null;index"`
	CounterpartyType ledger.CounterpartyType  `gorm:"type:varchar(20);not null"`
	CounterpartyID   uuid.UUID                `gorm:"type:uuid;not null;index"`
	Amount           decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	PaymentMethod    ledger.PaymentMethod     `gorm:"type:varchar(20);not null"`
	PaymentReference string                   `gorm:"type:varchar(100)"`
	PaidAt           time.Time                `gorm:"not null;index"`
	Allocations      []PaymentAllocationModel `gorm:"foreignKey:PaymentID;references:ID"`
	Remark           string                   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() *ledger.Payment {
	allocations := make([]ledger.Allocation, len(m.Allocations))
	for i := range m.Allocations {
		allocations[i] = m.Allocations[i].ToDomain()
	}
	return &ledger.Payment{
		BaseAggregateRoot: m.toAggregateRoot(),
		ReferenceNumber:   m.ReferenceNumber,
		Direction:         m.Direction,
		CounterpartyType:  m.CounterpartyType,
		CounterpartyID:    m.CounterpartyID,
		Amount:            m.Amount,
		PaymentMethod:     m.PaymentMethod,
		PaymentReference:  m.PaymentReference,
		PaidAt:            m.PaidAt,
		Allocations:       allocations,
		Remark:            m.Remark,
	}
}

// FromDomain populates the persistence model from a domain Payment.
func (m *PaymentModel) FromDomain(p *ledger.Payment) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.ReferenceNumber = p.ReferenceNumber
	m.Direction = p.Direction
	m.CounterpartyType = p.CounterpartyType
	m.CounterpartyID = p.CounterpartyID
	m.Amount = p.Amount
	m.PaymentMethod = p.PaymentMethod
	m.PaymentReference = p.PaymentReference
	m.PaidAt = p.PaidAt
	m.Remark = p.Remark
	m.Allocations = make([]PaymentAllocationModel, len(p.Allocations))
	for i, a := range p.Allocations {
		m.Allocations[i].FromDomain(a)
	}
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *ledger.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// CreditNoteAllocationModel is the persistence model for allocations made by a credit note.
type CreditNoteAllocationModel struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key"`
	CreditNoteID uuid.UUID        `gorm:"type:uuid;not null;index"`
	EntryID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	EntryKind    ledger.EntryKind `gorm:"type:varchar(20);not null"`
	Amount       decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	AllocatedAt  time.Time        `gorm:"not null"`
	Remark       string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CreditNoteAllocationModel) TableName() string {
	return "credit_note_allocations"
}

// ToDomain converts the persistence model to a domain Allocation.
func (m *CreditNoteAllocationModel) ToDomain() ledger.Allocation {
	return ledger.Allocation{
		ID:           m.ID,
		InstrumentID: m.CreditNoteID,
		EntryID:      m.EntryID,
		EntryKind:    m.EntryKind,
		Amount:       m.Amount,
		AllocatedAt:  m.AllocatedAt,
		Remark:       m.Remark,
	}
}

// FromDomain populates the persistence model from a domain Allocation.
func (m *CreditNoteAllocationModel) FromDomain(a ledger.Allocation) {
	m.ID = a.ID
	m.CreditNoteID = a.InstrumentID
	m.EntryID = a.EntryID
	m.EntryKind = a.EntryKind
	m.Amount = a.Amount
	m.AllocatedAt = a.AllocatedAt
	m.Remark = a.Remark
}

// CreditNoteModel is the persistence model for the CreditNote aggregate root.
type CreditNoteModel struct {
	AggregateModel
	ReferenceNumber  string                      `gorm:"type:varchar(50);not null;uniqueIndex"`
	CounterpartyType ledger.CounterpartyType     `gorm:"type:varchar(20);not null"`
	CounterpartyID   uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Amount           decimal.Decimal             `gorm:"type:decimal(18,4);not null"`
	RemainingAmount  decimal.Decimal             `gorm:"type:decimal(18,4);not null;index"`
	IssuedAt         time.Time                   `gorm:"not null;index"`
	SourceType       string                      `gorm:"type:varchar(30)"`
	SourceID         *uuid.UUID                  `gorm:"type:uuid;index"`
	Reason           string                      `gorm:"type:varchar(500)"`
	Allocations      []CreditNoteAllocationModel `gorm:"foreignKey:CreditNoteID;references:ID"`
	Remark           string                      `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CreditNoteModel) TableName() string {
	return "credit_notes"
}

// ToDomain converts the persistence model to a domain CreditNote.
func (m *CreditNoteModel) ToDomain() *ledger.CreditNote {
	allocations := make([]ledger.Allocation, len(m.Allocations))
	for i := range m.Allocations {
		allocations[i] = m.Allocations[i].ToDomain()
	}
	return &ledger.CreditNote{
		BaseAggregateRoot: m.toAggregateRoot(),
		ReferenceNumber:   m.ReferenceNumber,
		CounterpartyType:  m.CounterpartyType,
		CounterpartyID:    m.CounterpartyID,
		Amount:            m.Amount,
		RemainingAmount:   m.RemainingAmount,
		IssuedAt:          m.IssuedAt,
		SourceType:        m.SourceType,
		SourceID:          m.SourceID,
		Reason:            m.Reason,
		Allocations:       allocations,
		Remark:            m.Remark,
	}
}

// FromDomain populates the persistence model from a domain CreditNote.
func (m *CreditNoteModel) FromDomain(cn *ledger.CreditNote) {
	m.FromDomainAggregateRoot(cn.BaseAggregateRoot)
	m.ReferenceNumber = cn.ReferenceNumber
	m.CounterpartyType = cn.CounterpartyType
	m.CounterpartyID = cn.CounterpartyID
	m.Amount = cn.Amount
	m.RemainingAmount = cn.RemainingAmount
	m.IssuedAt = cn.IssuedAt
	m.SourceType = cn.SourceType
	m.SourceID = cn.SourceID
	m.Reason = cn.Reason
	m.Remark = cn.Remark
	m.Allocations = make([]CreditNoteAllocationModel, len(cn.Allocations))
	for i, a := range cn.Allocations {
		m.Allocations[i].FromDomain(a)
	}
}

// CreditNoteModelFromDomain creates a new persistence model from a domain CreditNote.
func CreditNoteModelFromDomain(cn *ledger.CreditNote) *CreditNoteModel {
	m := &CreditNoteModel{}
	m.FromDomain(cn)
	return m
}

// DebitNoteModel is the persistence model for the DebitNote aggregate root.
type DebitNoteModel struct {
	AggregateModel
	ReferenceNumber  string                  `gorm:"type:varchar(50);not null;uniqueIndex"`
	CounterpartyType ledger.CounterpartyType `gorm:"type:varchar(20);not null"`
	CounterpartyID   uuid.UUID               `gorm:"type:uuid;not null;index"`
	Amount           decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	IssuedAt         time.Time               `gorm:"not null;index"`
	EntryID          uuid.UUID               `gorm:"type:uuid;not null;index"`
	SourceType       string                  `gorm:"type:varchar(30)"`
	SourceID         *uuid.UUID              `gorm:"type:uuid;index"`
	Reason           string                  `gorm:"type:varchar(500)"`
	Remark           string                  `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DebitNoteModel) TableName() string {
	return "debit_notes"
}

// ToDomain converts the persistence model to a domain DebitNote.
func (m *DebitNoteModel) ToDomain() *ledger.DebitNote {
	return &ledger.DebitNote{
		BaseAggregateRoot: m.toAggregateRoot(),
		ReferenceNumber:   m.ReferenceNumber,
		CounterpartyType:  m.CounterpartyType,
		CounterpartyID:    m.CounterpartyID,
		Amount:            m.Amount,
		IssuedAt:          m.IssuedAt,
		EntryID:           m.EntryID,
		SourceType:        m.SourceType,
		SourceID:          m.SourceID,
		Reason:            m.Reason,
		Remark:            m.Remark,
	}
}

// FromDomain populates the persistence model from a domain DebitNote.
func (m *DebitNoteModel) FromDomain(dn *ledger.DebitNote) {
	m.FromDomainAggregateRoot(dn.BaseAggregateRoot)
	m.ReferenceNumber = dn.ReferenceNumber
	m.CounterpartyType = dn.CounterpartyType
	m.CounterpartyID = dn.CounterpartyID
	m.Amount = dn.Amount
	m.IssuedAt = dn.IssuedAt
	m.EntryID = dn.EntryID
	m.SourceType = dn.SourceType
	m.SourceID = dn.SourceID
	m.Reason = dn.Reason
	m.Remark = dn.Remark
}

// DebitNoteModelFromDomain creates a new persistence model from a domain DebitNote.
func DebitNoteModelFromDomain(dn *ledger.DebitNote) *DebitNoteModel {
	m := &DebitNoteModel{}
	m.FromDomain(dn)
	return m
}
