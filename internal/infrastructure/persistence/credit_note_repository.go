package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCreditNoteRepository implements CreditNoteRepository using GORM
type GormCreditNoteRepository struct {
	db *gorm.DB
}

// NewGormCreditNoteRepository creates a new GormCreditNoteRepository
func NewGormCreditNoteRepository(db *gorm.DB) *GormCreditNoteRepository {
	return &GormCreditNoteRepository{db: db}
}

// FindByID finds a credit note by its ID, allocations included
func (r *GormCreditNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.CreditNote, error) {
	var model models.CreditNoteModel
	if err := r.db.WithContext(ctx).
		Preload("Allocations").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReferenceNumber finds a credit note by its reference number
func (r *GormCreditNoteRepository) FindByReferenceNumber(ctx context.Context, referenceNumber string) (*ledger.CreditNote, error) {
	var model models.CreditNoteModel
	if err := r.db.WithContext(ctx).
		Preload("Allocations").
		Where("reference_number = ?", referenceNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds credit notes with filtering
func (r *GormCreditNoteRepository) FindAll(ctx context.Context, filter ledger.CreditNoteFilter) ([]ledger.CreditNote, error) {
	var noteModels []models.CreditNoteModel
	query := r.db.WithContext(ctx).Model(&models.CreditNoteModel{}).Preload("Allocations")
	query = r.applyFilter(query, filter)

	if err := query.Find(&noteModels).Error; err != nil {
		return nil, err
	}
	notes := make([]ledger.CreditNote, len(noteModels))
	for i, model := range noteModels {
		notes[i] = *model.ToDomain()
	}
	return notes, nil
}

// Save creates or updates a credit note and its allocations
func (r *GormCreditNoteRepository) Save(ctx context.Context, note *ledger.CreditNote) error {
	model := models.CreditNoteModelFromDomain(note)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking. The note row carries the stored
// remaining amount, so a stale write would corrupt the balance without the
// version check.
func (r *GormCreditNoteRepository) SaveWithLock(ctx context.Context, note *ledger.CreditNote) error {
	model := models.CreditNoteModelFromDomain(note)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", note.ID, note.Version-1).
		Omit(clause.Associations).
		Select("version", "updated_at", "remaining_amount", "remark").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledger.ErrConcurrentModification
	}

	if len(model.Allocations) > 0 {
		if err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.Allocations).Error; err != nil {
			return err
		}
	}
	return nil
}

// Count counts credit notes matching the filter
func (r *GormCreditNoteRepository) Count(ctx context.Context, filter ledger.CreditNoteFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.CreditNoteModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByReferenceNumber checks if a reference number is already taken
func (r *GormCreditNoteRepository) ExistsByReferenceNumber(ctx context.Context, referenceNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CreditNoteModel{}).
		Where("reference_number = ?", referenceNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormCreditNoteRepository) applyFilter(query *gorm.DB, filter ledger.CreditNoteFilter) *gorm.DB {
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

func (r *GormCreditNoteRepository) applyFilterWithoutPagination(query *gorm.DB, filter ledger.CreditNoteFilter) *gorm.DB {
	if filter.CounterpartyType != nil {
		query = query.Where("counterparty_type = ?", *filter.CounterpartyType)
	}
	if filter.CounterpartyID != nil {
		query = query.Where("counterparty_id = ?", *filter.CounterpartyID)
	}
	if filter.OnlyUnapplied {
		query = query.Where("remaining_amount > 0")
	}
	if filter.IssuedFrom != nil {
		query = query.Where("issued_at >= ?", *filter.IssuedFrom)
	}
	if filter.IssuedTo != nil {
		query = query.Where("issued_at <= ?", *filter.IssuedTo)
	}
	return query
}

// Ensure GormCreditNoteRepository implements CreditNoteRepository
var _ ledger.CreditNoteRepository = (*GormCreditNoteRepository)(nil)
