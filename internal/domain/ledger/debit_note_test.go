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

func TestNewDebitNote_PostsMatchingEntry(t *testing.T) {
	counterpartyID := uuid.New()
	issuedAt := time.Now()

	dn, entry, err := NewDebitNote(
		"DN-2026-001",
		CounterpartyTypeCustomer,
		counterpartyID,
		valueobject.NewMoneyCNYFromFloat(75.00),
		issuedAt,
		"late delivery fee",
	)

	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, dn.EntryID, entry.ID)
	assert.Equal(t, EntryKindReceivable, entry.Kind, "customer debit raises a receivable")
	assert.Equal(t, counterpartyID, entry.CounterpartyID)
	assert.Equal(t, string(InstrumentTypeDebitNote), entry.ReferenceType)
	assert.Equal(t, dn.ID, entry.ReferenceID)
	assert.True(t, entry.Amount.Equal(decimal.NewFromFloat(75.00)))
	assert.True(t, entry.Outstanding.Equal(entry.Amount))
	assert.Equal(t, issuedAt, entry.PostedAt)
}

func TestNewDebitNote_SupplierRaisesPayable(t *testing.T) {
	_, entry, err := NewDebitNote(
		"DN-2026-002",
		CounterpartyTypeSupplier,
		uuid.New(),
		valueobject.NewMoneyCNYFromFloat(30.00),
		time.Now(),
		"freight charge",
	)

	require.NoError(t, err)
	assert.Equal(t, EntryKindPayable, entry.Kind)
}

func TestNewDebitNote_Validation(t *testing.T) {
	amount := valueobject.NewMoneyCNYFromFloat(100.00)
	issuedAt := time.Now()

	_, _, err := NewDebitNote("", CounterpartyTypeCustomer, uuid.New(), amount, issuedAt, "r")
	assert.Error(t, err)

	_, _, err = NewDebitNote("DN-1", CounterpartyType("ALIEN"), uuid.New(), amount, issuedAt, "r")
	assert.Error(t, err)

	_, _, err = NewDebitNote("DN-1", CounterpartyTypeCustomer, uuid.Nil, amount, issuedAt, "r")
	assert.Error(t, err)

	_, _, err = NewDebitNote("DN-1", CounterpartyTypeCustomer, uuid.New(), valueobject.ZeroCNY(), issuedAt, "r")
	assertDomainErrorCode(t, err, ErrCodeInvalidAmount)

	_, _, err = NewDebitNote("DN-1", CounterpartyTypeCustomer, uuid.New(), amount, time.Time{}, "r")
	assert.Error(t, err)
}

func TestDebitNote_Ref(t *testing.T) {
	dn, _, err := NewDebitNote(
		"DN-2026-003",
		CounterpartyTypeCustomer,
		uuid.New(),
		valueobject.NewMoneyCNYFromFloat(10.00),
		time.Now(),
		"",
	)
	require.NoError(t, err)

	ref := dn.Ref()
	assert.Equal(t, InstrumentTypeDebitNote, ref.Type)
	assert.Equal(t, dn.ID, ref.ID)
	assert.False(t, ref.Type.CanAllocate(), "debit notes carry no settlement capacity")
}
