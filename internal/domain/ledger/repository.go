package ledger

import (
	"context"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntryFilter defines filtering options for entry queries
type LedgerEntryFilter struct {
	shared.Filter
	Kind           *EntryKind       // Filter by ledger side
	CounterpartyID *uuid.UUID       // Filter by counterparty
	ReferenceType  *string          // Filter by source document type
	ReferenceID    *uuid.UUID       // Filter by source document
	OnlyOpen       bool             // Only entries with outstanding > 0
	PostedFrom     *time.Time       // Filter by posting date range start
	PostedTo       *time.Time       // Filter by posting date range end
	MinOutstanding *decimal.Decimal // Filter by minimum outstanding balance
}

// LedgerEntryRepository defines the interface for ledger entry persistence
type LedgerEntryRepository interface {
	// FindByID finds a ledger entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerEntry, error)

	// FindByReference finds entries created from a source document
	FindByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) ([]LedgerEntry, error)

	// FindAll finds entries with filtering
	FindAll(ctx context.Context, filter LedgerEntryFilter) ([]LedgerEntry, error)

	// FindOutstanding finds open entries of one kind for a counterparty,
	// ordered by posting time then ID (oldest-first settlement order)
	FindOutstanding(ctx context.Context, kind EntryKind, counterpartyID uuid.UUID) ([]LedgerEntry, error)

	// Save creates or updates a ledger entry
	Save(ctx context.Context, entry *LedgerEntry) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, entry *LedgerEntry) error

	// Count counts entries matching the filter
	Count(ctx context.Context, filter LedgerEntryFilter) (int64, error)

	// SumOutstanding calculates the total outstanding of one kind for a counterparty
	SumOutstanding(ctx context.Context, kind EntryKind, counterpartyID uuid.UUID) (decimal.Decimal, error)
}

// PaymentFilter defines filtering options for payment queries
type PaymentFilter struct {
	shared.Filter
	Direction        *PaymentDirection // Filter by direction
	CounterpartyType *CounterpartyType // Filter by counterparty type
	CounterpartyID   *uuid.UUID        // Filter by counterparty
	OnlyUnallocated  bool              // Only payments with remaining capacity
	PaidFrom         *time.Time        // Filter by payment date range start
	PaidTo           *time.Time        // Filter by payment date range end
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByID finds a payment by ID, allocations included
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByReferenceNumber finds a payment by its reference number
	FindByReferenceNumber(ctx context.Context, referenceNumber string) (*Payment, error)

	// FindAll finds payments with filtering
	FindAll(ctx context.Context, filter PaymentFilter) ([]Payment, error)

	// Save creates or updates a payment and its allocations
	Save(ctx context.Context, payment *Payment) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, payment *Payment) error

	// Count counts payments matching the filter
	Count(ctx context.Context, filter PaymentFilter) (int64, error)

	// ExistsByReferenceNumber checks if a reference number is already taken
	ExistsByReferenceNumber(ctx context.Context, referenceNumber string) (bool, error)
}

// CreditNoteFilter defines filtering options for credit note queries
type CreditNoteFilter struct {
	shared.Filter
	CounterpartyType *CounterpartyType // Filter by counterparty type
	CounterpartyID   *uuid.UUID        // Filter by counterparty
	OnlyUnapplied    bool              // Only credit notes with remaining amount > 0
	IssuedFrom       *time.Time        // Filter by issue date range start
	IssuedTo         *time.Time        // Filter by issue date range end
}

// CreditNoteRepository defines the interface for credit note persistence
type CreditNoteRepository interface {
	// FindByID finds a credit note by ID, allocations included
	FindByID(ctx context.Context, id uuid.UUID) (*CreditNote, error)

	// FindByReferenceNumber finds a credit note by its reference number
	FindByReferenceNumber(ctx context.Context, referenceNumber string) (*CreditNote, error)

	// FindAll finds credit notes with filtering
	FindAll(ctx context.Context, filter CreditNoteFilter) ([]CreditNote, error)

	// Save creates or updates a credit note and its allocations
	Save(ctx context.Context, note *CreditNote) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, note *CreditNote) error

	// Count counts credit notes matching the filter
	Count(ctx context.Context, filter CreditNoteFilter) (int64, error)

	// ExistsByReferenceNumber checks if a reference number is already taken
	ExistsByReferenceNumber(ctx context.Context, referenceNumber string) (bool, error)
}

// DebitNoteFilter defines filtering options for debit note queries
type DebitNoteFilter struct {
	shared.Filter
	CounterpartyType *CounterpartyType // Filter by counterparty type
	CounterpartyID   *uuid.UUID        // Filter by counterparty
	IssuedFrom       *time.Time        // Filter by issue date range start
	IssuedTo         *time.Time        // Filter by issue date range end
}

// DebitNoteRepository defines the interface for debit note persistence
type DebitNoteRepository interface {
	// FindByID finds a debit note by ID
	FindByID(ctx context.Context, id uuid.UUID) (*DebitNote, error)

	// FindByReferenceNumber finds a debit note by its reference number
	FindByReferenceNumber(ctx context.Context, referenceNumber string) (*DebitNote, error)

	// FindAll finds debit notes with filtering
	FindAll(ctx context.Context, filter DebitNoteFilter) ([]DebitNote, error)

	// Save creates or updates a debit note
	Save(ctx context.Context, note *DebitNote) error

	// Count counts debit notes matching the filter
	Count(ctx context.Context, filter DebitNoteFilter) (int64, error)

	// ExistsByReferenceNumber checks if a reference number is already taken
	ExistsByReferenceNumber(ctx context.Context, referenceNumber string) (bool, error)
}
