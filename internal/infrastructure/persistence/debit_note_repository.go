package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDebitNoteRepository implements DebitNoteRepository using GORM
type GormDebitNoteRepository struct {
	db *gorm.DB
}

// NewGormDebitNoteRepository creates a new GormDebitNoteRepository
func NewGormDebitNoteRepository(db *gorm.DB) *GormDebitNoteRepository {
	return &GormDebitNoteRepository{db: db}
}

// FindByID finds a debit note by its ID
func (r *GormDebitNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.DebitNote, error) {
	var model models.DebitNoteModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReferenceNumber finds a debit note by its reference number
func (r *GormDebitNoteRepository) FindByReferenceNumber(ctx context.Context, referenceNumber string) (*ledger.DebitNote, error) {
	var model models.DebitNoteModel
	if err := r.db.WithContext(ctx).
		Where("reference_number = ?", referenceNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds debit notes with filtering
func (r *GormDebitNoteRepository) FindAll(ctx context.Context, filter ledger.DebitNoteFilter) ([]ledger.DebitNote, error) {
	var noteModels []models.DebitNoteModel
	query := r.db.WithContext(ctx).Model(&models.DebitNoteModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&noteModels).Error; err != nil {
		return nil, err
	}
	notes := make([]ledger.DebitNote, len(noteModels))
	for i, model := range noteModels {
		notes[i] = *model.ToDomain()
	}
	return notes, nil
}

// Save creates or updates a debit note
func (r *GormDebitNoteRepository) Save(ctx context.Context, note *ledger.DebitNote) error {
	model := models.DebitNoteModelFromDomain(note)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts debit notes matching the filter
func (r *GormDebitNoteRepository) Count(ctx context.Context, filter ledger.DebitNoteFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.DebitNoteModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByReferenceNumber checks if a reference number is already taken
func (r *GormDebitNoteRepository) ExistsByReferenceNumber(ctx context.Context, referenceNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.DebitNoteModel{}).
		Where("reference_number = ?", referenceNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormDebitNoteRepository) applyFilter(query *gorm.DB, filter ledger.DebitNoteFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("issued_at DESC")
	}

	return query
}

func (r *GormDebitNoteRepository) applyFilterWithoutPagination(query *gorm.DB, filter ledger.DebitNoteFilter) *gorm.DB {
	if filter.CounterpartyType != nil {
		query = query.Where("counterparty_type = ?", *filter.CounterpartyType)
	}
	if filter.CounterpartyID != nil {
		query = query.Where("counterparty_id = ?", *filter.CounterpartyID)
	}
	if filter.IssuedFrom != nil {
		query = query.Where("issued_at >= ?", *filter.IssuedFrom)
	}
	if filter.IssuedTo != nil {
		query = query.Where("issued_at <= ?", *filter.IssuedTo)
	}
	return query
}

// Ensure GormDebitNoteRepository implements DebitNoteRepository
var _ ledger.DebitNoteRepository = (*GormDebitNoteRepository)(nil)
