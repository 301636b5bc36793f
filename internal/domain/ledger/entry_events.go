package ledger

import (
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntryPostedEvent is raised when a new entry is posted to the ledger
type LedgerEntryPostedEvent struct {
	shared.BaseDomainEvent
	EntryID        uuid.UUID       `json:"entry_id"`
	Kind           EntryKind       `json:"kind"`
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	ReferenceType  string          `json:"reference_type"`
	ReferenceID    uuid.UUID       `json:"reference_id"`
	Amount         decimal.Decimal `json:"amount"`
	PostedAt       time.Time       `json:"posted_at"`
}

// EventType returns the event type name
func (e *LedgerEntryPostedEvent) EventType() string {
	return "LedgerEntryPosted"
}

// NewLedgerEntryPostedEvent creates a new LedgerEntryPostedEvent
func NewLedgerEntryPostedEvent(entry *LedgerEntry) *LedgerEntryPostedEvent {
	return &LedgerEntryPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LedgerEntryPosted", "LedgerEntry", entry.ID),
		EntryID:         entry.ID,
		Kind:            entry.Kind,
		CounterpartyID:  entry.CounterpartyID,
		ReferenceType:   entry.ReferenceType,
		ReferenceID:     entry.ReferenceID,
		Amount:          entry.Amount,
		PostedAt:        entry.PostedAt,
	}
}

// LedgerEntrySettledEvent is raised when an entry's outstanding balance reaches zero
type LedgerEntrySettledEvent struct {
	shared.BaseDomainEvent
	EntryID        uuid.UUID       `json:"entry_id"`
	Kind           EntryKind       `json:"kind"`
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	Amount         decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *LedgerEntrySettledEvent) EventType() string {
	return "LedgerEntrySettled"
}

// NewLedgerEntrySettledEvent creates a new LedgerEntrySettledEvent
func NewLedgerEntrySettledEvent(entry *LedgerEntry) *LedgerEntrySettledEvent {
	return &LedgerEntrySettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LedgerEntrySettled", "LedgerEntry", entry.ID),
		EntryID:         entry.ID,
		Kind:            entry.Kind,
		CounterpartyID:  entry.CounterpartyID,
		Amount:          entry.Amount,
	}
}
