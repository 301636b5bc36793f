package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockPaymentRepository creates a GormPaymentRepository with a mocked SQL connection
func newMockPaymentRepository(t *testing.T) (*GormPaymentRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormPaymentRepository(gormDB), mock, mockDB
}

func paymentColumns() []string {
	return []string{
		"id", "created_at", "updated_at", "version",
		"reference_number", "direction", "counterparty_type", "counterparty_id",
		"amount", "payment_method", "payment_reference", "paid_at", "remark",
	}
}

func TestGormPaymentRepository_FindByID(t *testing.T) {
	t.Run("loads payment with its allocations", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		paymentID := uuid.New()
		counterpartyID := uuid.New()
		entryID := uuid.New()
		paidAt := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)

		paymentRows := sqlmock.NewRows(paymentColumns()).AddRow(
			paymentID, paidAt, paidAt, 2,
			"PAY-2025-001", ledger.PaymentDirectionInbound, ledger.CounterpartyTypeCustomer, counterpartyID,
			decimal.NewFromInt(1000), ledger.PaymentMethodBankTransfer, "", paidAt, "",
		)
		allocationRows := sqlmock.NewRows([]string{
			"id", "payment_id", "entry_id", "entry_kind", "amount", "allocated_at", "remark",
		}).AddRow(
			uuid.New(), paymentID, entryID, ledger.EntryKindReceivable,
			decimal.NewFromInt(300), paidAt, "",
		)

		mock.ExpectQuery(`SELECT \* FROM "payments" WHERE id = \$1`).
			WithArgs(paymentID, 1).
			WillReturnRows(paymentRows)
		mock.ExpectQuery(`SELECT \* FROM "payment_allocations" WHERE "payment_allocations"\."payment_id" = \$1`).
			WithArgs(paymentID).
			WillReturnRows(allocationRows)

		payment, err := repo.FindByID(context.Background(), paymentID)

		assert.NoError(t, err)
		require.NotNil(t, payment)
		assert.Equal(t, "PAY-2025-001", payment.ReferenceNumber)
		require.Len(t, payment.Allocations, 1)
		assert.Equal(t, entryID, payment.Allocations[0].EntryID)
		assert.True(t, payment.RemainingCapacity().Equal(decimal.NewFromInt(700)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil for non-existent payment", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		paymentID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "payments" WHERE id = \$1`).
			WithArgs(paymentID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		payment, err := repo.FindByID(context.Background(), paymentID)

		assert.NoError(t, err)
		assert.Nil(t, payment)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPaymentRepository_SaveWithLock(t *testing.T) {
	newPayment := func(version int) *ledger.Payment {
		now := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
		return &ledger.Payment{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
				Version:    version,
			},
			ReferenceNumber:  "PAY-2025-002",
			Direction:        ledger.PaymentDirectionInbound,
			CounterpartyType: ledger.CounterpartyTypeCustomer,
			CounterpartyID:   uuid.New(),
			Amount:           decimal.NewFromInt(1000),
			PaymentMethod:    ledger.PaymentMethodBankTransfer,
			PaidAt:           now,
		}
	}

	t.Run("updates payment row and inserts new allocation rows", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		payment := newPayment(2)
		payment.Allocations = []ledger.Allocation{{
			ID:           uuid.New(),
			InstrumentID: payment.ID,
			EntryID:      uuid.New(),
			EntryKind:    ledger.EntryKindReceivable,
			Amount:       decimal.NewFromInt(300),
			AllocatedAt:  payment.PaidAt,
		}}

		mock.ExpectExec(`UPDATE "payments" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "payment_allocations" .* ON CONFLICT DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), payment)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns concurrent modification without touching allocations", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		payment := newPayment(3)
		payment.Allocations = []ledger.Allocation{{
			ID:           uuid.New(),
			InstrumentID: payment.ID,
			EntryID:      uuid.New(),
			EntryKind:    ledger.EntryKindReceivable,
			Amount:       decimal.NewFromInt(300),
			AllocatedAt:  payment.PaidAt,
		}}

		mock.ExpectExec(`UPDATE "payments" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), payment)

		assert.ErrorIs(t, err, ledger.ErrConcurrentModification)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPaymentRepository_ExistsByReferenceNumber(t *testing.T) {
	t.Run("reports taken reference number", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "payments" WHERE reference_number = \$1`).
			WithArgs("PAY-2025-001").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByReferenceNumber(context.Background(), "PAY-2025-001")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports free reference number", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "payments" WHERE reference_number = \$1`).
			WithArgs("PAY-2025-999").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsByReferenceNumber(context.Background(), "PAY-2025-999")

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
