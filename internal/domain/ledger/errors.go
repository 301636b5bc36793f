package ledger

import "github.com/erp/ledger/internal/domain/shared"

// Error codes raised by the settlement ledger core. Handlers and callers match
// on these codes, never on message text.
const (
	ErrCodeInvalidAmount           = "INVALID_AMOUNT"
	ErrCodeEntryNotFound           = "ENTRY_NOT_FOUND"
	ErrCodeInstrumentNotFound      = "INSTRUMENT_NOT_FOUND"
	ErrCodeInsufficientOutstanding = "INSUFFICIENT_OUTSTANDING"
	ErrCodeExceedsRemaining        = "ALLOCATION_EXCEEDS_REMAINING"
	ErrCodeExceedsOutstanding      = "ALLOCATION_EXCEEDS_OUTSTANDING"
	ErrCodeCounterpartyMismatch    = "COUNTERPARTY_MISMATCH"
	ErrCodeConcurrentModification  = "CONCURRENT_MODIFICATION"
)

// Common ledger errors with fixed messages; parameterized variants are built
// inline with shared.NewDomainError where the message carries amounts.
var (
	ErrEntryNotFound          = shared.NewDomainError(ErrCodeEntryNotFound, "Ledger entry not found")
	ErrInstrumentNotFound     = shared.NewDomainError(ErrCodeInstrumentNotFound, "Settlement instrument not found")
	ErrConcurrentModification = shared.NewDomainError(ErrCodeConcurrentModification, "Aggregate was modified concurrently")
)

// IsDomainErrorCode reports whether err is a DomainError carrying the given code.
func IsDomainErrorCode(err error, code string) bool {
	de, ok := err.(*shared.DomainError)
	return ok && de.Code == code
}
