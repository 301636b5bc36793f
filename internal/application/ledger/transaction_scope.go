package ledger

import (
	"context"

	"github.com/erp/ledger/internal/domain/ledger"
)

// TransactionScope provides transactional access to ledger repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically. Every allocation runs inside one scope so the instrument
// update, the entry decrement and the allocation row land together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all ledger repositories within
// a transaction. All repositories returned share the same underlying
// database transaction.
//
// Allocation rows are child records of their instrument aggregate and are
// persisted through the instrument repositories; they have no repository of
// their own.
type TransactionalRepositories interface {
	// EntryRepo returns the ledger entry repository scoped to the current transaction
	EntryRepo() ledger.LedgerEntryRepository
	// PaymentRepo returns the payment repository scoped to the current transaction
	PaymentRepo() ledger.PaymentRepository
	// CreditNoteRepo returns the credit note repository scoped to the current transaction
	CreditNoteRepo() ledger.CreditNoteRepository
	// DebitNoteRepo returns the debit note repository scoped to the current transaction
	DebitNoteRepo() ledger.DebitNoteRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransactionScope struct {
	entryRepo      ledger.LedgerEntryRepository
	paymentRepo    ledger.PaymentRepository
	creditNoteRepo ledger.CreditNoteRepository
	debitNoteRepo  ledger.DebitNoteRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	entryRepo ledger.LedgerEntryRepository,
	paymentRepo ledger.PaymentRepository,
	creditNoteRepo ledger.CreditNoteRepository,
	debitNoteRepo ledger.DebitNoteRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		entryRepo:      entryRepo,
		paymentRepo:    paymentRepo,
		creditNoteRepo: creditNoteRepo,
		debitNoteRepo:  debitNoteRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// EntryRepo returns the ledger entry repository.
func (s *NoOpTransactionScope) EntryRepo() ledger.LedgerEntryRepository {
	return s.entryRepo
}

// PaymentRepo returns the payment repository.
func (s *NoOpTransactionScope) PaymentRepo() ledger.PaymentRepository {
	return s.paymentRepo
}

// CreditNoteRepo returns the credit note repository.
func (s *NoOpTransactionScope) CreditNoteRepo() ledger.CreditNoteRepository {
	return s.creditNoteRepo
}

// DebitNoteRepo returns the debit note repository.
func (s *NoOpTransactionScope) DebitNoteRepo() ledger.DebitNoteRepository {
	return s.debitNoteRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
