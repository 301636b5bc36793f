package dto

import "net/http"

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeDuplicateRequest is used when an idempotency key is replayed
	ErrCodeDuplicateRequest = "DUPLICATE_REQUEST"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Domain codes
// surface on the wire unchanged, so the ledger codes appear here directly.
var ErrorCodeHTTPStatus = map[string]int{
	// General
	ErrCodeInternal: http.StatusInternalServerError,

	// Malformed input -> 400 Bad Request
	ErrCodeBadRequest:           http.StatusBadRequest,
	ErrCodeValidation:           http.StatusBadRequest,
	"INVALID_AMOUNT":            http.StatusBadRequest,
	"INVALID_ENTRY_KIND":        http.StatusBadRequest,
	"INVALID_COUNTERPARTY":      http.StatusBadRequest,
	"INVALID_COUNTERPARTY_TYPE": http.StatusBadRequest,
	"INVALID_INSTRUMENT_TYPE":   http.StatusBadRequest,
	"INVALID_REFERENCE":         http.StatusBadRequest,
	"INVALID_REFERENCE_NUMBER":  http.StatusBadRequest,
	"INVALID_DIRECTION":         http.StatusBadRequest,
	"INVALID_PAYMENT_METHOD":    http.StatusBadRequest,
	"INVALID_POSTED_AT":         http.StatusBadRequest,
	"INVALID_PAID_AT":           http.StatusBadRequest,
	"INVALID_ISSUED_AT":         http.StatusBadRequest,
	"INVALID_ALLOCATIONS":       http.StatusBadRequest,
	"INVALID_ENTRY":             http.StatusBadRequest,
	"INVALID_INSTRUMENT":        http.StatusBadRequest,
	"INVALID_SOURCE":            http.StatusBadRequest,
	"INVALID_STRATEGY":          http.StatusBadRequest,

	// Missing resources -> 404 Not Found
	ErrCodeNotFound:        http.StatusNotFound,
	"ENTRY_NOT_FOUND":      http.StatusNotFound,
	"INSTRUMENT_NOT_FOUND": http.StatusNotFound,

	// Conflicts -> 409 Conflict
	"ALREADY_EXISTS":          http.StatusConflict,
	"CONCURRENT_MODIFICATION": http.StatusConflict,
	ErrCodeDuplicateRequest:   http.StatusConflict,

	// Business rule violations -> 422 Unprocessable Entity
	"ALLOCATION_EXCEEDS_REMAINING":   http.StatusUnprocessableEntity,
	"ALLOCATION_EXCEEDS_OUTSTANDING": http.StatusUnprocessableEntity,
	"COUNTERPARTY_MISMATCH":          http.StatusUnprocessableEntity,
	"INSUFFICIENT_OUTSTANDING":       http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
