package ledger

import (
	"context"
	"time"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// defaultAllocateRetries bounds the optimistic retry loop on version conflicts.
// Kept small: under real contention the caller should see the conflict rather
// than have the service spin.
const defaultAllocateRetries = 3

// LedgerService provides application-level settlement ledger operations
type LedgerService struct {
	entryRepo       ledger.LedgerEntryRepository
	paymentRepo     ledger.PaymentRepository
	creditNoteRepo  ledger.CreditNoteRepository
	debitNoteRepo   ledger.DebitNoteRepository
	txScope         TransactionScope
	allocationSvc   *ledger.AllocationService
	clock           func() time.Time
	allocateRetries int
}

// LedgerServiceOption is a functional option for configuring LedgerService
type LedgerServiceOption func(*LedgerService)

// WithClock sets the time source used for default timestamps
func WithClock(clock func() time.Time) LedgerServiceOption {
	return func(s *LedgerService) {
		if clock != nil {
			s.clock = clock
			s.allocationSvc = ledger.NewAllocationService(ledger.WithClock(clock))
		}
	}
}

// WithAllocationService allows injecting a custom AllocationService
func WithAllocationService(svc *ledger.AllocationService) LedgerServiceOption {
	return func(s *LedgerService) {
		if svc != nil {
			s.allocationSvc = svc
		}
	}
}

// WithAllocateRetries sets the number of attempts on version conflicts
func WithAllocateRetries(n int) LedgerServiceOption {
	return func(s *LedgerService) {
		if n > 0 {
			s.allocateRetries = n
		}
	}
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	entryRepo ledger.LedgerEntryRepository,
	paymentRepo ledger.PaymentRepository,
	creditNoteRepo ledger.CreditNoteRepository,
	debitNoteRepo ledger.DebitNoteRepository,
	txScope TransactionScope,
	opts ...LedgerServiceOption,
) *LedgerService {
	s := &LedgerService{
		entryRepo:       entryRepo,
		paymentRepo:     paymentRepo,
		creditNoteRepo:  creditNoteRepo,
		debitNoteRepo:   debitNoteRepo,
		txScope:         txScope,
		allocationSvc:   ledger.NewAllocationService(),
		clock:           time.Now,
		allocateRetries: defaultAllocateRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ===================== Entry Operations =====================

// CreateEntry posts a new ledger entry
func (s *LedgerService) CreateEntry(ctx context.Context, req CreateEntryRequest) (*EntryResponse, error) {
	postedAt := s.clock()
	if req.PostedAt != nil {
		postedAt = *req.PostedAt
	}

	entry, err := ledger.NewLedgerEntry(
		ledger.EntryKind(req.Kind),
		req.CounterpartyID,
		req.ReferenceType,
		req.ReferenceID,
		valueobject.NewMoneyCNY(req.Amount),
		postedAt,
	)
	if err != nil {
		return nil, err
	}
	entry.Remark = req.Remark

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	entry.ClearDomainEvents()

	return toEntryResponse(entry), nil
}

// GetEntry gets a ledger entry by ID
func (s *LedgerService) GetEntry(ctx context.Context, id uuid.UUID) (*EntryResponse, error) {
	entry, err := s.findEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEntryResponse(entry), nil
}

// GetOutstanding reports the open balance of one entry
func (s *LedgerService) GetOutstanding(ctx context.Context, id uuid.UUID) (*OutstandingResponse, error) {
	entry, err := s.findEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	return &OutstandingResponse{
		EntryID:     entry.ID,
		Amount:      entry.Amount,
		Outstanding: entry.Outstanding,
		Settled:     entry.IsSettled(),
	}, nil
}

// ListEntries lists entries with filtering
func (s *LedgerService) ListEntries(ctx context.Context, filter EntryListFilter) ([]EntryResponse, int64, error) {
	domainFilter := ledger.LedgerEntryFilter{
		CounterpartyID: filter.CounterpartyID,
		ReferenceID:    filter.ReferenceID,
		OnlyOpen:       filter.OnlyOpen,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	if filter.Kind != "" {
		kind := ledger.EntryKind(filter.Kind)
		domainFilter.Kind = &kind
	}
	if filter.ReferenceType != "" {
		rt := filter.ReferenceType
		domainFilter.ReferenceType = &rt
	}

	entries, err := s.entryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.entryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = *toEntryResponse(&entries[i])
	}
	return responses, total, nil
}

// ListOutstandingEntries lists the open entries of one kind for a counterparty
// in settlement order (oldest posting first)
func (s *LedgerService) ListOutstandingEntries(ctx context.Context, kind string, counterpartyID uuid.UUID) ([]EntryResponse, error) {
	entryKind := ledger.EntryKind(kind)
	if !entryKind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY_KIND", "Entry kind is not valid")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COUNTERPARTY", "Counterparty ID cannot be empty")
	}

	entries, err := s.entryRepo.FindOutstanding(ctx, entryKind, counterpartyID)
	if err != nil {
		return nil, err
	}

	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = *toEntryResponse(&entries[i])
	}
	return responses, nil
}

// GetCounterpartyBalance reports the aggregate open position of a counterparty
func (s *LedgerService) GetCounterpartyBalance(ctx context.Context, kind string, counterpartyID uuid.UUID) (*CounterpartyBalanceResponse, error) {
	entryKind := ledger.EntryKind(kind)
	if !entryKind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY_KIND", "Entry kind is not valid")
	}

	entries, err := s.entryRepo.FindOutstanding(ctx, entryKind, counterpartyID)
	if err != nil {
		return nil, err
	}
	total, err := s.entryRepo.SumOutstanding(ctx, entryKind, counterpartyID)
	if err != nil {
		return nil, err
	}

	return &CounterpartyBalanceResponse{
		CounterpartyID:   counterpartyID,
		Kind:             entryKind.String(),
		OpenEntries:      len(entries),
		TotalOutstanding: total,
	}, nil
}

// ===================== Payment Operations =====================

// CreatePayment records a new payment
func (s *LedgerService) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*PaymentResponse, error) {
	exists, err := s.paymentRepo.ExistsByReferenceNumber(ctx, req.ReferenceNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Payment reference number already exists")
	}

	paidAt := s.clock()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	payment, err := ledger.NewPayment(
		req.ReferenceNumber,
		ledger.PaymentDirection(req.Direction),
		ledger.CounterpartyType(req.CounterpartyType),
		req.CounterpartyID,
		valueobject.NewMoneyCNY(req.Amount),
		ledger.PaymentMethod(req.PaymentMethod),
		paidAt,
	)
	if err != nil {
		return nil, err
	}
	payment.PaymentReference = req.PaymentReference
	payment.Remark = req.Remark

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}
	payment.ClearDomainEvents()

	return toPaymentResponse(payment), nil
}

// GetPayment gets a payment by ID
func (s *LedgerService) GetPayment(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ledger.ErrInstrumentNotFound
	}
	return toPaymentResponse(payment), nil
}

// ListPayments lists payments with filtering
func (s *LedgerService) ListPayments(ctx context.Context, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	domainFilter := ledger.PaymentFilter{
		CounterpartyID:  filter.CounterpartyID,
		OnlyUnallocated: filter.OnlyUnallocated,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	if filter.Direction != "" {
		direction := ledger.PaymentDirection(filter.Direction)
		domainFilter.Direction = &direction
	}
	if filter.CounterpartyType != "" {
		ct := ledger.CounterpartyType(filter.CounterpartyType)
		domainFilter.CounterpartyType = &ct
	}

	payments, err := s.paymentRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.paymentRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = *toPaymentResponse(&payments[i])
	}
	return responses, total, nil
}

// ===================== Credit Note Operations =====================

// CreateCreditNote issues a new credit note
func (s *LedgerService) CreateCreditNote(ctx context.Context, req CreateCreditNoteRequest) (*CreditNoteResponse, error) {
	exists, err := s.creditNoteRepo.ExistsByReferenceNumber(ctx, req.ReferenceNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Credit note reference number already exists")
	}

	issuedAt := s.clock()
	if req.IssuedAt != nil {
		issuedAt = *req.IssuedAt
	}

	note, err := ledger.NewCreditNote(
		req.ReferenceNumber,
		ledger.CounterpartyType(req.CounterpartyType),
		req.CounterpartyID,
		valueobject.NewMoneyCNY(req.Amount),
		issuedAt,
		req.Reason,
	)
	if err != nil {
		return nil, err
	}
	if req.SourceType != "" && req.SourceID != nil {
		note.SourceType = req.SourceType
		note.SourceID = req.SourceID
	}
	note.Remark = req.Remark

	if err := s.creditNoteRepo.Save(ctx, note); err != nil {
		return nil, err
	}
	note.ClearDomainEvents()

	return toCreditNoteResponse(note), nil
}

// GetCreditNote gets a credit note by ID
func (s *LedgerService) GetCreditNote(ctx context.Context, id uuid.UUID) (*CreditNoteResponse, error) {
	note, err := s.creditNoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ledger.ErrInstrumentNotFound
	}
	return toCreditNoteResponse(note), nil
}

// ListCreditNotes lists credit notes with filtering
func (s *LedgerService) ListCreditNotes(ctx context.Context, filter CreditNoteListFilter) ([]CreditNoteResponse, int64, error) {
	domainFilter := ledger.CreditNoteFilter{
		CounterpartyID: filter.CounterpartyID,
		OnlyUnapplied:  filter.OnlyUnapplied,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	if filter.CounterpartyType != "" {
		ct := ledger.CounterpartyType(filter.CounterpartyType)
		domainFilter.CounterpartyType = &ct
	}

	notes, err := s.creditNoteRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.creditNoteRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CreditNoteResponse, len(notes))
	for i := range notes {
		responses[i] = *toCreditNoteResponse(&notes[i])
	}
	return responses, total, nil
}

// ===================== Debit Note Operations =====================

// CreateDebitNote issues a debit note and posts its backing ledger entry.
// Both inserts run in one transaction: either the note and the entry exist
// together or neither does.
func (s *LedgerService) CreateDebitNote(ctx context.Context, req CreateDebitNoteRequest) (*DebitNoteIssueResponse, error) {
	issuedAt := s.clock()
	if req.IssuedAt != nil {
		issuedAt = *req.IssuedAt
	}

	var out *DebitNoteIssueResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		exists, err := repos.DebitNoteRepo().ExistsByReferenceNumber(ctx, req.ReferenceNumber)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "Debit note reference number already exists")
		}

		note, entry, err := ledger.NewDebitNote(
			req.ReferenceNumber,
			ledger.CounterpartyType(req.CounterpartyType),
			req.CounterpartyID,
			valueobject.NewMoneyCNY(req.Amount),
			issuedAt,
			req.Reason,
		)
		if err != nil {
			return err
		}
		if req.SourceType != "" && req.SourceID != nil {
			note.SourceType = req.SourceType
			note.SourceID = req.SourceID
		}
		note.Remark = req.Remark

		// The note row references the entry row, so the entry must land first
		if err := repos.EntryRepo().Save(ctx, entry); err != nil {
			return err
		}
		if err := repos.DebitNoteRepo().Save(ctx, note); err != nil {
			return err
		}
		note.ClearDomainEvents()
		entry.ClearDomainEvents()

		out = &DebitNoteIssueResponse{
			DebitNote: *toDebitNoteResponse(note),
			Entry:     *toEntryResponse(entry),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetDebitNote gets a debit note by ID
func (s *LedgerService) GetDebitNote(ctx context.Context, id uuid.UUID) (*DebitNoteResponse, error) {
	note, err := s.debitNoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ledger.ErrInstrumentNotFound
	}
	return toDebitNoteResponse(note), nil
}

// ListDebitNotes lists debit notes with filtering
func (s *LedgerService) ListDebitNotes(ctx context.Context, filter DebitNoteListFilter) ([]DebitNoteResponse, int64, error) {
	domainFilter := ledger.DebitNoteFilter{
		CounterpartyID: filter.CounterpartyID,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	if filter.CounterpartyType != "" {
		ct := ledger.CounterpartyType(filter.CounterpartyType)
		domainFilter.CounterpartyType = &ct
	}

	notes, err := s.debitNoteRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.debitNoteRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DebitNoteResponse, len(notes))
	for i := range notes {
		responses[i] = *toDebitNoteResponse(&notes[i])
	}
	return responses, total, nil
}

// ===================== Allocation Operations =====================

// Allocate applies instrument capacity to one entry inside a single
// transaction. Version conflicts are retried a bounded number of times with
// fresh reads; when attempts run out the conflict surfaces to the caller.
func (s *LedgerService) Allocate(ctx context.Context, req AllocateRequest) (*AllocateResponse, error) {
	ref, err := ledger.NewInstrumentRef(ledger.InstrumentType(req.InstrumentType), req.InstrumentID)
	if err != nil {
		return nil, err
	}
	if !ref.Type.CanAllocate() {
		return nil, shared.NewDomainError("INVALID_INSTRUMENT_TYPE", "Instrument type cannot allocate")
	}
	// First check of the precondition chain, before any aggregate is loaded
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(ledger.ErrCodeInvalidAmount, "Allocation amount must be positive")
	}

	var lastErr error
	for attempt := 0; attempt < s.allocateRetries; attempt++ {
		resp, err := s.allocateOnce(ctx, ref, req.EntryID, req.Amount, req.Remark)
		if err == nil {
			return resp, nil
		}
		if !ledger.IsDomainErrorCode(err, ledger.ErrCodeConcurrentModification) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// allocateOnce runs one allocation attempt in its own transaction
func (s *LedgerService) allocateOnce(
	ctx context.Context,
	ref ledger.InstrumentRef,
	entryID uuid.UUID,
	amount decimal.Decimal,
	remark string,
) (*AllocateResponse, error) {
	var out *AllocateResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		instrument, saveInstrument, err := loadInstrument(ctx, repos, ref)
		if err != nil {
			return err
		}

		entry, err := repos.EntryRepo().FindByID(ctx, entryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return ledger.ErrEntryNotFound
		}

		record, err := s.allocationSvc.Allocate(instrument, entry, valueobject.NewMoneyCNY(amount), remark)
		if err != nil {
			return err
		}

		if err := saveInstrument(ctx); err != nil {
			return err
		}
		if err := repos.EntryRepo().SaveWithLock(ctx, entry); err != nil {
			return err
		}
		entry.ClearDomainEvents()

		out = &AllocateResponse{
			Allocation:        toAllocationResponse(record.Allocation),
			InstrumentType:    ref.Type.String(),
			InstrumentID:      ref.ID,
			RemainingCapacity: record.RemainingCapacity,
			EntryOutstanding:  record.EntryOutstanding,
			EntrySettled:      record.EntrySettled,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AutoAllocate spends the instrument's remaining capacity over the
// counterparty's open entries oldest-first. Each planned step commits in its
// own transaction, so progress made before a failure stays committed; the
// partial result is returned alongside the error. A step that fails because a
// rival run consumed the entry's balance or the instrument's capacity in the
// meantime does not abort the run: the loop moves on and a fresh planning
// pass over live state picks up whatever is still open. Only an exhausted
// version-conflict retry stops the run. Running it again when nothing is
// outstanding is a no-op. Leftover capacity is not an error.
func (s *LedgerService) AutoAllocate(ctx context.Context, req AutoAllocateRequest) (*AutoAllocateResponse, error) {
	ref, err := ledger.NewInstrumentRef(ledger.InstrumentType(req.InstrumentType), req.InstrumentID)
	if err != nil {
		return nil, err
	}
	if !ref.Type.CanAllocate() {
		return nil, shared.NewDomainError("INVALID_INSTRUMENT_TYPE", "Instrument type cannot allocate")
	}

	instrument, err := s.getInstrument(ctx, ref)
	if err != nil {
		return nil, err
	}

	resp := &AutoAllocateResponse{
		InstrumentType:    ref.Type.String(),
		InstrumentID:      ref.ID,
		Allocations:       make([]AllocationResponse, 0),
		TotalAllocated:    decimal.Zero,
		RemainingCapacity: instrument.RemainingCapacity(),
		FullySpent:        instrument.RemainingCapacity().IsZero(),
	}

	for resp.RemainingCapacity.GreaterThan(decimal.Zero) {
		kind := instrument.InstrumentCounterpartyType().EntryKind()
		entries, err := s.entryRepo.FindOutstanding(ctx, kind, instrument.InstrumentCounterpartyID())
		if err != nil {
			return resp, err
		}

		plan, err := s.allocationSvc.PlanAuto(instrument, entries)
		if err != nil {
			return resp, err
		}
		if len(plan.Allocations) == 0 {
			break
		}

		progressed := false
		for _, step := range plan.Allocations {
			stepResp, err := s.Allocate(ctx, AllocateRequest{
				InstrumentType: req.InstrumentType,
				InstrumentID:   req.InstrumentID,
				EntryID:        step.EntryID,
				Amount:         step.Amount,
				Remark:         "Auto-allocated (FIFO)",
			})
			if err != nil {
				// A rival shrank this entry's balance or the instrument's
				// capacity after planning. Skip the step; the next planning
				// pass retakes whatever is still open.
				if ledger.IsDomainErrorCode(err, ledger.ErrCodeExceedsOutstanding) ||
					ledger.IsDomainErrorCode(err, ledger.ErrCodeExceedsRemaining) {
					continue
				}
				return resp, err
			}
			progressed = true
			resp.Allocations = append(resp.Allocations, stepResp.Allocation)
			resp.TotalAllocated = resp.TotalAllocated.Add(stepResp.Allocation.Amount)
			resp.RemainingCapacity = stepResp.RemainingCapacity
			resp.FullySpent = stepResp.RemainingCapacity.IsZero()
		}
		if !progressed {
			break
		}

		instrument, err = s.getInstrument(ctx, ref)
		if err != nil {
			return resp, err
		}
		resp.RemainingCapacity = instrument.RemainingCapacity()
		resp.FullySpent = resp.RemainingCapacity.IsZero()
	}

	return resp, nil
}

// GetRemainingCapacity reports the unconsumed capacity of one instrument
func (s *LedgerService) GetRemainingCapacity(ctx context.Context, instrumentType string, id uuid.UUID) (*RemainingCapacityResponse, error) {
	ref, err := ledger.NewInstrumentRef(ledger.InstrumentType(instrumentType), id)
	if err != nil {
		return nil, err
	}
	if !ref.Type.CanAllocate() {
		return nil, shared.NewDomainError("INVALID_INSTRUMENT_TYPE", "Instrument type carries no settlement capacity")
	}

	instrument, err := s.getInstrument(ctx, ref)
	if err != nil {
		return nil, err
	}

	var amount decimal.Decimal
	switch inst := instrument.(type) {
	case *ledger.Payment:
		amount = inst.Amount
	case *ledger.CreditNote:
		amount = inst.Amount
	}

	return &RemainingCapacityResponse{
		InstrumentType:    ref.Type.String(),
		InstrumentID:      ref.ID,
		Amount:            amount,
		RemainingCapacity: instrument.RemainingCapacity(),
	}, nil
}

// ===================== Helpers =====================

func (s *LedgerService) findEntry(ctx context.Context, id uuid.UUID) (*ledger.LedgerEntry, error) {
	entry, err := s.entryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ledger.ErrEntryNotFound
	}
	return entry, nil
}

// getInstrument loads a capacity-carrying instrument outside any transaction
func (s *LedgerService) getInstrument(ctx context.Context, ref ledger.InstrumentRef) (ledger.SettlementInstrument, error) {
	switch ref.Type {
	case ledger.InstrumentTypePayment:
		payment, err := s.paymentRepo.FindByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		if payment == nil {
			return nil, ledger.ErrInstrumentNotFound
		}
		return payment, nil
	case ledger.InstrumentTypeCreditNote:
		note, err := s.creditNoteRepo.FindByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		if note == nil {
			return nil, ledger.ErrInstrumentNotFound
		}
		return note, nil
	default:
		return nil, ledger.ErrInstrumentNotFound
	}
}

// loadInstrument loads a capacity-carrying instrument inside a transaction and
// returns the save closure that persists it with a version check
func loadInstrument(
	ctx context.Context,
	repos TransactionalRepositories,
	ref ledger.InstrumentRef,
) (ledger.SettlementInstrument, func(context.Context) error, error) {
	switch ref.Type {
	case ledger.InstrumentTypePayment:
		payment, err := repos.PaymentRepo().FindByID(ctx, ref.ID)
		if err != nil {
			return nil, nil, err
		}
		if payment == nil {
			return nil, nil, ledger.ErrInstrumentNotFound
		}
		save := func(ctx context.Context) error {
			if err := repos.PaymentRepo().SaveWithLock(ctx, payment); err != nil {
				return err
			}
			payment.ClearDomainEvents()
			return nil
		}
		return payment, save, nil
	case ledger.InstrumentTypeCreditNote:
		note, err := repos.CreditNoteRepo().FindByID(ctx, ref.ID)
		if err != nil {
			return nil, nil, err
		}
		if note == nil {
			return nil, nil, ledger.ErrInstrumentNotFound
		}
		save := func(ctx context.Context) error {
			if err := repos.CreditNoteRepo().SaveWithLock(ctx, note); err != nil {
				return err
			}
			note.ClearDomainEvents()
			return nil
		}
		return note, save, nil
	default:
		return nil, nil, ledger.ErrInstrumentNotFound
	}
}
