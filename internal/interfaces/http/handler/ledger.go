package handler

import (
	ledgerapp "github.com/erp/ledger/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LedgerHandler handles ledger API endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *ledgerapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *ledgerapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// parseIDParam parses the :id path parameter as a UUID
func (h *LedgerHandler) parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

// ===================== Entries =====================

// CreateEntry handles POST /api/v1/ledger/entries
func (h *LedgerHandler) CreateEntry(c *gin.Context) {
	var req ledgerapp.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.ledgerService.CreateEntry(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetEntry handles GET /api/v1/ledger/entries/:id
func (h *LedgerHandler) GetEntry(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	resp, err := h.ledgerService.GetEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetOutstanding handles GET /api/v1/ledger/entries/:id/outstanding
func (h *LedgerHandler) GetOutstanding(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	resp, err := h.ledgerService.GetOutstanding(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListEntries handles GET /api/v1/ledger/entries
func (h *LedgerHandler) ListEntries(c *gin.Context) {
	var filter ledgerapp.EntryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	entries, total, err := h.ledgerService.ListEntries(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}

// ListOutstandingEntries handles GET /api/v1/ledger/entries/outstanding.
// Entries come back in settlement order, oldest posting first.
func (h *LedgerHandler) ListOutstandingEntries(c *gin.Context) {
	kind := c.Query("kind")
	counterpartyID, err := uuid.Parse(c.Query("counterparty_id"))
	if err != nil {
		h.BadRequest(c, "Invalid or missing counterparty_id")
		return
	}

	entries, err := h.ledgerService.ListOutstandingEntries(c.Request.Context(), kind, counterpartyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entries)
}

// GetCounterpartyBalance handles GET /api/v1/ledger/counterparties/:id/balance
func (h *LedgerHandler) GetCounterpartyBalance(c *gin.Context) {
	counterpartyID, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	kind := c.Query("kind")

	resp, err := h.ledgerService.GetCounterpartyBalance(c.Request.Context(), kind, counterpartyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ===================== Payments =====================

// CreatePayment handles POST /api/v1/ledger/payments
func (h *LedgerHandler) CreatePayment(c *gin.Context) {
	var req ledgerapp.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.ledgerService.CreatePayment(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetPayment handles GET /api/v1/ledger/payments/:id
func (h *LedgerHandler) GetPayment(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	resp, err := h.ledgerService.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListPayments handles GET /api/v1/ledger/payments
func (h *LedgerHandler) ListPayments(c *gin.Context) {
	var filter ledgerapp.PaymentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	payments, total, err := h.ledgerService.ListPayments(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, payments, total, filter.Page, filter.PageSize)
}

// ===================== Credit notes =====================

// CreateCreditNote handles POST /api/v1/ledger/credit-notes
func (h *LedgerHandler) CreateCreditNote(c *gin.Context) {
	var req ledgerapp.CreateCreditNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.ledgerService.CreateCreditNote(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetCreditNote handles GET /api/v1/ledger/credit-notes/:id
func (h *LedgerHandler) GetCreditNote(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	resp, err := h.ledgerService.GetCreditNote(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListCreditNotes handles GET /api/v1/ledger/credit-notes
func (h *LedgerHandler) ListCreditNotes(c *gin.Context) {
	var filter ledgerapp.CreditNoteListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	notes, total, err := h.ledgerService.ListCreditNotes(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, notes, total, filter.Page, filter.PageSize)
}

// ===================== Debit notes =====================

// CreateDebitNote handles POST /api/v1/ledger/debit-notes.
// Issuing a debit note also posts the matching ledger entry, the response
// carries both.
func (h *LedgerHandler) CreateDebitNote(c *gin.Context) {
	var req ledgerapp.CreateDebitNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.ledgerService.CreateDebitNote(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetDebitNote handles GET /api/v1/ledger/debit-notes/:id
func (h *LedgerHandler) GetDebitNote(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	resp, err := h.ledgerService.GetDebitNote(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListDebitNotes handles GET /api/v1/ledger/debit-notes
func (h *LedgerHandler) ListDebitNotes(c *gin.Context) {
	var filter ledgerapp.DebitNoteListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	notes, total, err := h.ledgerService.ListDebitNotes(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, notes, total, filter.Page, filter.PageSize)
}

// ===================== Allocations =====================

// Allocate handles POST /api/v1/ledger/allocations
func (h *LedgerHandler) Allocate(c *gin.Context) {
	var req ledgerapp.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.ledgerService.Allocate(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// AutoAllocate handles POST /api/v1/ledger/allocations/auto
func (h *LedgerHandler) AutoAllocate(c *gin.Context) {
	var req ledgerapp.AutoAllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.ledgerService.AutoAllocate(c.Request.Context(), req)
	if err != nil {
		// Allocations committed before the failure stay committed; the
		// partial result rides in the error body so the caller can see
		// exactly what landed
		if resp != nil {
			h.HandleDomainErrorWithData(c, err, resp)
			return
		}
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetRemainingCapacity handles GET /api/v1/ledger/instruments/:type/:id/capacity
func (h *LedgerHandler) GetRemainingCapacity(c *gin.Context) {
	instrumentType := c.Param("type")
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	resp, err := h.ledgerService.GetRemainingCapacity(c.Request.Context(), instrumentType, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
