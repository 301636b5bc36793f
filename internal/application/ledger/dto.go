package ledger

import (
	"time"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===================== Requests =====================

// CreateEntryRequest is the input for posting a ledger entry
type CreateEntryRequest struct {
	Kind           string          `json:"kind" binding:"required"`
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	ReferenceType  string          `json:"reference_type" binding:"required"`
	ReferenceID    uuid.UUID       `json:"reference_id"`
	Amount         decimal.Decimal `json:"amount"`
	PostedAt       *time.Time      `json:"posted_at,omitempty"` // Defaults to the service clock
	Remark         string          `json:"remark,omitempty"`
}

// CreatePaymentRequest is the input for recording a payment
type CreatePaymentRequest struct {
	ReferenceNumber  string          `json:"reference_number" binding:"required,max=50"`
	Direction        string          `json:"direction" binding:"required"`
	CounterpartyType string          `json:"counterparty_type" binding:"required"`
	CounterpartyID   uuid.UUID       `json:"counterparty_id"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentMethod    string          `json:"payment_method" binding:"required"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	Remark           string          `json:"remark,omitempty"`
}

// CreateCreditNoteRequest is the input for issuing a credit note
type CreateCreditNoteRequest struct {
	ReferenceNumber  string          `json:"reference_number" binding:"required,max=50"`
	CounterpartyType string          `json:"counterparty_type" binding:"required"`
	CounterpartyID   uuid.UUID       `json:"counterparty_id"`
	Amount           decimal.Decimal `json:"amount"`
	IssuedAt         *time.Time      `json:"issued_at,omitempty"`
	SourceType       string          `json:"source_type,omitempty"`
	SourceID         *uuid.UUID      `json:"source_id,omitempty"`
	Reason           string          `json:"reason,omitempty"`
	Remark           string          `json:"remark,omitempty"`
}

// CreateDebitNoteRequest is the input for issuing a debit note
type CreateDebitNoteRequest struct {
	ReferenceNumber  string          `json:"reference_number" binding:"required,max=50"`
	CounterpartyType string          `json:"counterparty_type" binding:"required"`
	CounterpartyID   uuid.UUID       `json:"counterparty_id"`
	Amount           decimal.Decimal `json:"amount"`
	IssuedAt         *time.Time      `json:"issued_at,omitempty"`
	SourceType       string          `json:"source_type,omitempty"`
	SourceID         *uuid.UUID      `json:"source_id,omitempty"`
	Reason           string          `json:"reason,omitempty"`
	Remark           string          `json:"remark,omitempty"`
}

// AllocateRequest is the input for a single manual allocation
type AllocateRequest struct {
	InstrumentType string          `json:"instrument_type" binding:"required"`
	InstrumentID   uuid.UUID       `json:"instrument_id"`
	EntryID        uuid.UUID       `json:"entry_id"`
	Amount         decimal.Decimal `json:"amount"`
	Remark         string          `json:"remark,omitempty"`
}

// AutoAllocateRequest is the input for oldest-first auto allocation
type AutoAllocateRequest struct {
	InstrumentType string    `json:"instrument_type" binding:"required"`
	InstrumentID   uuid.UUID `json:"instrument_id"`
}

// EntryListFilter defines filtering options for entry list queries
type EntryListFilter struct {
	Kind           string     `form:"kind"`
	CounterpartyID *uuid.UUID `form:"counterparty_id"`
	ReferenceType  string     `form:"reference_type"`
	ReferenceID    *uuid.UUID `form:"reference_id"`
	OnlyOpen       bool       `form:"only_open"`
	Page           int        `form:"page"`
	PageSize       int        `form:"page_size"`
}

// PaymentListFilter defines filtering options for payment list queries
type PaymentListFilter struct {
	Direction        string     `form:"direction"`
	CounterpartyType string     `form:"counterparty_type"`
	CounterpartyID   *uuid.UUID `form:"counterparty_id"`
	OnlyUnallocated  bool       `form:"only_unallocated"`
	Page             int        `form:"page"`
	PageSize         int        `form:"page_size"`
}

// CreditNoteListFilter defines filtering options for credit note list queries
type CreditNoteListFilter struct {
	CounterpartyType string     `form:"counterparty_type"`
	CounterpartyID   *uuid.UUID `form:"counterparty_id"`
	OnlyUnapplied    bool       `form:"only_unapplied"`
	Page             int        `form:"page"`
	PageSize         int        `form:"page_size"`
}

// DebitNoteListFilter defines filtering options for debit note list queries
type DebitNoteListFilter struct {
	CounterpartyType string     `form:"counterparty_type"`
	CounterpartyID   *uuid.UUID `form:"counterparty_id"`
	Page             int        `form:"page"`
	PageSize         int        `form:"page_size"`
}

// ===================== Responses =====================

// EntryResponse represents a ledger entry in API responses
type EntryResponse struct {
	ID             uuid.UUID       `json:"id"`
	Kind           string          `json:"kind"`
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	ReferenceType  string          `json:"reference_type"`
	ReferenceID    uuid.UUID       `json:"reference_id"`
	Amount         decimal.Decimal `json:"amount"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	Settled        bool            `json:"settled"`
	PostedAt       time.Time       `json:"posted_at"`
	Remark         string          `json:"remark,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// AllocationResponse represents an allocation in API responses
type AllocationResponse struct {
	ID           uuid.UUID       `json:"id"`
	InstrumentID uuid.UUID       `json:"instrument_id"`
	EntryID      uuid.UUID       `json:"entry_id"`
	EntryKind    string          `json:"entry_kind"`
	Amount       decimal.Decimal `json:"amount"`
	AllocatedAt  time.Time       `json:"allocated_at"`
	Remark       string          `json:"remark,omitempty"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID                uuid.UUID            `json:"id"`
	ReferenceNumber   string               `json:"reference_number"`
	Direction         string               `json:"direction"`
	CounterpartyType  string               `json:"counterparty_type"`
	CounterpartyID    uuid.UUID            `json:"counterparty_id"`
	Amount            decimal.Decimal      `json:"amount"`
	AllocatedAmount   decimal.Decimal      `json:"allocated_amount"`
	RemainingCapacity decimal.Decimal      `json:"remaining_capacity"`
	PaymentMethod     string               `json:"payment_method"`
	PaymentReference  string               `json:"payment_reference,omitempty"`
	PaidAt            time.Time            `json:"paid_at"`
	Allocations       []AllocationResponse `json:"allocations,omitempty"`
	Remark            string               `json:"remark,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
	Version           int                  `json:"version"`
}

// CreditNoteResponse represents a credit note in API responses
type CreditNoteResponse struct {
	ID               uuid.UUID            `json:"id"`
	ReferenceNumber  string               `json:"reference_number"`
	CounterpartyType string               `json:"counterparty_type"`
	CounterpartyID   uuid.UUID            `json:"counterparty_id"`
	Amount           decimal.Decimal      `json:"amount"`
	RemainingAmount  decimal.Decimal      `json:"remaining_amount"`
	IssuedAt         time.Time            `json:"issued_at"`
	SourceType       string               `json:"source_type,omitempty"`
	SourceID         *uuid.UUID           `json:"source_id,omitempty"`
	Reason           string               `json:"reason,omitempty"`
	Allocations      []AllocationResponse `json:"allocations,omitempty"`
	Remark           string               `json:"remark,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	Version          int                  `json:"version"`
}

// DebitNoteResponse represents a debit note in API responses
type DebitNoteResponse struct {
	ID               uuid.UUID       `json:"id"`
	ReferenceNumber  string          `json:"reference_number"`
	CounterpartyType string          `json:"counterparty_type"`
	CounterpartyID   uuid.UUID       `json:"counterparty_id"`
	Amount           decimal.Decimal `json:"amount"`
	IssuedAt         time.Time       `json:"issued_at"`
	EntryID          uuid.UUID       `json:"entry_id"`
	SourceType       string          `json:"source_type,omitempty"`
	SourceID         *uuid.UUID      `json:"source_id,omitempty"`
	Reason           string          `json:"reason,omitempty"`
	Remark           string          `json:"remark,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// DebitNoteIssueResponse couples the issued note with the entry it posted
type DebitNoteIssueResponse struct {
	DebitNote DebitNoteResponse `json:"debit_note"`
	Entry     EntryResponse     `json:"entry"`
}

// AllocateResponse is the result of a single allocation
type AllocateResponse struct {
	Allocation        AllocationResponse `json:"allocation"`
	InstrumentType    string             `json:"instrument_type"`
	InstrumentID      uuid.UUID          `json:"instrument_id"`
	RemainingCapacity decimal.Decimal    `json:"remaining_capacity"`
	EntryOutstanding  decimal.Decimal    `json:"entry_outstanding"`
	EntrySettled      bool               `json:"entry_settled"`
}

// AutoAllocateResponse is the result of an auto allocation run. Allocations
// made before a mid-run failure are committed and reported here regardless.
type AutoAllocateResponse struct {
	InstrumentType    string               `json:"instrument_type"`
	InstrumentID      uuid.UUID            `json:"instrument_id"`
	Allocations       []AllocationResponse `json:"allocations"`
	TotalAllocated    decimal.Decimal      `json:"total_allocated"`
	RemainingCapacity decimal.Decimal      `json:"remaining_capacity"`
	FullySpent        bool                 `json:"fully_spent"`
}

// OutstandingResponse reports the open balance of one entry
type OutstandingResponse struct {
	EntryID     uuid.UUID       `json:"entry_id"`
	Amount      decimal.Decimal `json:"amount"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Settled     bool            `json:"settled"`
}

// RemainingCapacityResponse reports the unconsumed capacity of one instrument
type RemainingCapacityResponse struct {
	InstrumentType    string          `json:"instrument_type"`
	InstrumentID      uuid.UUID       `json:"instrument_id"`
	Amount            decimal.Decimal `json:"amount"`
	RemainingCapacity decimal.Decimal `json:"remaining_capacity"`
}

// CounterpartyBalanceResponse reports the aggregate open position of a counterparty
type CounterpartyBalanceResponse struct {
	CounterpartyID   uuid.UUID       `json:"counterparty_id"`
	Kind             string          `json:"kind"`
	OpenEntries      int             `json:"open_entries"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

// ===================== Converters =====================

func toEntryResponse(e *ledger.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:             e.ID,
		Kind:           e.Kind.String(),
		CounterpartyID: e.CounterpartyID,
		ReferenceType:  e.ReferenceType,
		ReferenceID:    e.ReferenceID,
		Amount:         e.Amount,
		Outstanding:    e.Outstanding,
		Settled:        e.IsSettled(),
		PostedAt:       e.PostedAt,
		Remark:         e.Remark,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
		Version:        e.GetVersion(),
	}
}

func toAllocationResponse(a *ledger.Allocation) AllocationResponse {
	return AllocationResponse{
		ID:           a.ID,
		InstrumentID: a.InstrumentID,
		EntryID:      a.EntryID,
		EntryKind:    a.EntryKind.String(),
		Amount:       a.Amount,
		AllocatedAt:  a.AllocatedAt,
		Remark:       a.Remark,
	}
}

func toAllocationResponses(allocations []ledger.Allocation) []AllocationResponse {
	out := make([]AllocationResponse, len(allocations))
	for i := range allocations {
		out[i] = toAllocationResponse(&allocations[i])
	}
	return out
}

func toPaymentResponse(p *ledger.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:                p.ID,
		ReferenceNumber:   p.ReferenceNumber,
		Direction:         p.Direction.String(),
		CounterpartyType:  p.CounterpartyType.String(),
		CounterpartyID:    p.CounterpartyID,
		Amount:            p.Amount,
		AllocatedAmount:   p.AllocatedAmount(),
		RemainingCapacity: p.RemainingCapacity(),
		PaymentMethod:     p.PaymentMethod.String(),
		PaymentReference:  p.PaymentReference,
		PaidAt:            p.PaidAt,
		Allocations:       toAllocationResponses(p.Allocations),
		Remark:            p.Remark,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		Version:           p.GetVersion(),
	}
}

func toCreditNoteResponse(cn *ledger.CreditNote) *CreditNoteResponse {
	return &CreditNoteResponse{
		ID:               cn.ID,
		ReferenceNumber:  cn.ReferenceNumber,
		CounterpartyType: cn.CounterpartyType.String(),
		CounterpartyID:   cn.CounterpartyID,
		Amount:           cn.Amount,
		RemainingAmount:  cn.RemainingAmount,
		IssuedAt:         cn.IssuedAt,
		SourceType:       cn.SourceType,
		SourceID:         cn.SourceID,
		Reason:           cn.Reason,
		Allocations:      toAllocationResponses(cn.Allocations),
		Remark:           cn.Remark,
		CreatedAt:        cn.CreatedAt,
		UpdatedAt:        cn.UpdatedAt,
		Version:          cn.GetVersion(),
	}
}

func toDebitNoteResponse(dn *ledger.DebitNote) *DebitNoteResponse {
	return &DebitNoteResponse{
		ID:               dn.ID,
		ReferenceNumber:  dn.ReferenceNumber,
		CounterpartyType: dn.CounterpartyType.String(),
		CounterpartyID:   dn.CounterpartyID,
		Amount:           dn.Amount,
		IssuedAt:         dn.IssuedAt,
		EntryID:          dn.EntryID,
		SourceType:       dn.SourceType,
		SourceID:         dn.SourceID,
		Reason:           dn.Reason,
		Remark:           dn.Remark,
		CreatedAt:        dn.CreatedAt,
		UpdatedAt:        dn.UpdatedAt,
	}
}
