package ledger

import (
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createEntryFor(t *testing.T, kind EntryKind, counterpartyID uuid.UUID, amount float64, postedAt time.Time) *LedgerEntry {
	entry, err := NewLedgerEntry(kind, counterpartyID, "INVOICE", uuid.New(), valueobject.NewMoneyCNYFromFloat(amount), postedAt)
	require.NoError(t, err)
	return entry
}

func createPaymentFor(t *testing.T, counterpartyID uuid.UUID, amount float64) *Payment {
	p, err := NewPayment("PAY-T-001", PaymentDirectionInbound, CounterpartyTypeCustomer, counterpartyID,
		valueobject.NewMoneyCNYFromFloat(amount), PaymentMethodBankTransfer, time.Now())
	require.NoError(t, err)
	return p
}

func TestAllocationService_Allocate_Success(t *testing.T) {
	svc := NewAllocationService()
	counterpartyID := uuid.New()
	payment := createPaymentFor(t, counterpartyID, 1000.00)
	entry := createEntryFor(t, EntryKindReceivable, counterpartyID, 600.00, time.Now())

	record, err := svc.Allocate(payment, entry, valueobject.NewMoneyCNYFromFloat(400.00), "")

	require.NoError(t, err)
	assert.Equal(t, entry.ID, record.Allocation.EntryID)
	assert.True(t, record.RemainingCapacity.Equal(decimal.NewFromFloat(600.00)))
	assert.True(t, record.EntryOutstanding.Equal(decimal.NewFromFloat(200.00)))
	assert.False(t, record.EntrySettled)
	assert.True(t, payment.RemainingCapacity().Equal(decimal.NewFromFloat(600.00)))
	assert.True(t, entry.Outstanding.Equal(decimal.NewFromFloat(200.00)))
}

func TestAllocationService_Allocate_SettlesEntry(t *testing.T) {
	svc := NewAllocationService()
	counterpartyID := uuid.New()
	payment := createPaymentFor(t, counterpartyID, 1000.00)
	entry := createEntryFor(t, EntryKindReceivable, counterpartyID, 300.00, time.Now())

	record, err := svc.Allocate(payment, entry, valueobject.NewMoneyCNYFromFloat(300.00), "")

	require.NoError(t, err)
	assert.True(t, record.EntrySettled)
	assert.True(t, entry.IsSettled())
}

func TestAllocationService_Allocate_CreditNoteInstrument(t *testing.T) {
	svc := NewAllocationService()
	counterpartyID := uuid.New()
	cn, err := NewCreditNote("CN-T-001", CounterpartyTypeCustomer, counterpartyID,
		valueobject.NewMoneyCNYFromFloat(500.00), time.Now(), "return")
	require.NoError(t, err)
	entry := createEntryFor(t, EntryKindReceivable, counterpartyID, 200.00, time.Now())

	record, err := svc.Allocate(cn, entry, valueobject.NewMoneyCNYFromFloat(200.00), "")

	require.NoError(t, err)
	assert.True(t, cn.RemainingAmount.Equal(decimal.NewFromFloat(300.00)))
	assert.True(t, record.EntrySettled)
}

func TestAllocationService_Allocate_PreconditionOrder(t *testing.T) {
	svc := NewAllocationService()
	counterpartyID := uuid.New()

	t.Run("invalid amount reported first", func(t *testing.T) {
		// Zero amount also exceeds nothing and the counterparty mismatches,
		// but the amount check wins
		payment := createPaymentFor(t, counterpartyID, 100.00)
		other := createEntryFor(t, EntryKindReceivable, uuid.New(), 50.00, time.Now())

		_, err := svc.Allocate(payment, other, valueobject.ZeroCNY(), "")
		assertDomainErrorCode(t, err, ErrCodeInvalidAmount)
	})

	t.Run("exceeds remaining before exceeds outstanding", func(t *testing.T) {
		// Amount exceeds both the payment capacity and the entry balance
		payment := createPaymentFor(t, counterpartyID, 100.00)
		entry := createEntryFor(t, EntryKindReceivable, counterpartyID, 50.00, time.Now())

		_, err := svc.Allocate(payment, entry, valueobject.NewMoneyCNYFromFloat(200.00), "")
		assertDomainErrorCode(t, err, ErrCodeExceedsRemaining)
	})

	t.Run("exceeds outstanding before counterparty mismatch", func(t *testing.T) {
		// Amount fits the payment but exceeds the entry, and the entry belongs
		// to a different counterparty
		payment := createPaymentFor(t, counterpartyID, 500.00)
		other := createEntryFor(t, EntryKindReceivable, uuid.New(), 50.00, time.Now())

		_, err := svc.Allocate(payment, other, valueobject.NewMoneyCNYFromFloat(100.00), "")
		assertDomainErrorCode(t, err, ErrCodeExceedsOutstanding)
	})

	t.Run("counterparty mismatch last", func(t *testing.T) {
		payment := createPaymentFor(t, counterpartyID, 500.00)
		other := createEntryFor(t, EntryKindReceivable, uuid.New(), 300.00, time.Now())

		_, err := svc.Allocate(payment, other, valueobject.NewMoneyCNYFromFloat(100.00), "")
		assertDomainErrorCode(t, err, ErrCodeCounterpartyMismatch)
	})
}

func TestAllocationService_Allocate_KindMismatch(t *testing.T) {
	svc := NewAllocationService()
	counterpartyID := uuid.New()
	payment := createPaymentFor(t, counterpartyID, 500.00)
	// Same counterparty ID but wrong side of the ledger
	payable := createEntryFor(t, EntryKindPayable, counterpartyID, 300.00, time.Now())

	_, err := svc.Allocate(payment, payable, valueobject.NewMoneyCNYFromFloat(100.00), "")

	assertDomainErrorCode(t, err, ErrCodeCounterpartyMismatch)
}

func TestAllocationService_Allocate_FailureLeavesAggregatesUntouched(t *testing.T) {
	svc := NewAllocationService()
	counterpartyID := uuid.New()
	payment := createPaymentFor(t, counterpartyID, 500.00)
	other := createEntryFor(t, EntryKindReceivable, uuid.New(), 300.00, time.Now())

	_, err := svc.Allocate(payment, other, valueobject.NewMoneyCNYFromFloat(100.00), "")

	require.Error(t, err)
	assert.Equal(t, 0, payment.AllocationCount())
	assert.True(t, payment.RemainingCapacity().Equal(decimal.NewFromFloat(500.00)))
	assert.True(t, other.Outstanding.Equal(decimal.NewFromFloat(300.00)))
}

func TestAllocationService_PlanAuto_FIFO(t *testing.T) {
	svc := NewAllocationService()
	counterpartyID := uuid.New()
	payment := createPaymentFor(t, counterpartyID, 250.00)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	oldest := createEntryFor(t, EntryKindReceivable, counterpartyID, 100.00, base)
	middle := createEntryFor(t, EntryKindReceivable, counterpartyID, 100.00, base.Add(time.Hour))
	newest := createEntryFor(t, EntryKindReceivable, counterpartyID, 100.00, base.Add(2*time.Hour))

	// Shuffled input order must not matter
	plan, err := svc.PlanAuto(payment, []LedgerEntry{*newest, *oldest, *middle})

	require.NoError(t, err)
	require.Len(t, plan.Allocations, 3)
	assert.Equal(t, oldest.ID, plan.Allocations[0].EntryID)
	assert.Equal(t, middle.ID, plan.Allocations[1].EntryID)
	assert.Equal(t, newest.ID, plan.Allocations[2].EntryID)
	assert.True(t, plan.Allocations[2].Amount.Equal(decimal.NewFromFloat(50.00)), "last entry gets the partial remainder")
	assert.True(t, plan.FullySpent)
	assert.ElementsMatch(t, []uuid.UUID{oldest.ID, middle.ID}, plan.EntriesSettled)
}

func TestAllocationService_PlanAuto_SkipsForeignEntries(t *testing.T) {
	svc := NewAllocationService()
	counterpartyID := uuid.New()
	payment := createPaymentFor(t, counterpartyID, 500.00)

	mine := createEntryFor(t, EntryKindReceivable, counterpartyID, 100.00, time.Now())
	foreign := createEntryFor(t, EntryKindReceivable, uuid.New(), 100.00, time.Now())
	wrongSide := createEntryFor(t, EntryKindPayable, counterpartyID, 100.00, time.Now())

	plan, err := svc.PlanAuto(payment, []LedgerEntry{*mine, *foreign, *wrongSide})

	require.NoError(t, err)
	require.Len(t, plan.Allocations, 1)
	assert.Equal(t, mine.ID, plan.Allocations[0].EntryID)
	assert.True(t, plan.RemainingAfter.Equal(decimal.NewFromFloat(400.00)))
	assert.False(t, plan.FullySpent)
}

func TestAllocationService_PlanAuto_NoCapacity(t *testing.T) {
	svc := NewAllocationService()
	counterpartyID := uuid.New()
	payment := createPaymentFor(t, counterpartyID, 100.00)
	entry := createEntryFor(t, EntryKindReceivable, counterpartyID, 100.00, time.Now())

	_, err := svc.Allocate(payment, entry, valueobject.NewMoneyCNYFromFloat(100.00), "")
	require.NoError(t, err)

	plan, err := svc.PlanAuto(payment, []LedgerEntry{*entry})

	require.NoError(t, err)
	assert.Empty(t, plan.Allocations)
	assert.True(t, plan.FullySpent)
}

func TestAllocationService_WithClock(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewAllocationService(WithClock(func() time.Time { return fixed }))
	counterpartyID := uuid.New()
	payment := createPaymentFor(t, counterpartyID, 100.00)
	entry := createEntryFor(t, EntryKindReceivable, counterpartyID, 100.00, time.Now())

	record, err := svc.Allocate(payment, entry, valueobject.NewMoneyCNYFromFloat(50.00), "")

	require.NoError(t, err)
	assert.Equal(t, fixed, record.Allocation.AllocatedAt)
}
