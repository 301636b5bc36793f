package persistence

import (
	"context"

	appledger "github.com/erp/ledger/internal/application/ledger"
	"github.com/erp/ledger/internal/domain/ledger"
	"gorm.io/gorm"
)

// GormTransactionScope implements the application TransactionScope using
// GORM transactions. Every repository handed to the callback is bound to the
// same *gorm.DB transaction, so an allocation's instrument update, entry
// decrement and allocation row commit or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides repositories sharing one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) EntryRepo() ledger.LedgerEntryRepository {
	return NewGormLedgerEntryRepository(r.tx)
}

func (r *gormTransactionalRepositories) PaymentRepo() ledger.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormTransactionalRepositories) CreditNoteRepo() ledger.CreditNoteRepository {
	return NewGormCreditNoteRepository(r.tx)
}

func (r *gormTransactionalRepositories) DebitNoteRepo() ledger.DebitNoteRepository {
	return NewGormDebitNoteRepository(r.tx)
}

// Interface compliance checks
var (
	_ appledger.TransactionScope          = (*GormTransactionScope)(nil)
	_ appledger.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
