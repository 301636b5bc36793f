package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerEntryRepository implements LedgerEntryRepository using GORM
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// FindByID finds a ledger entry by its ID
func (r *GormLedgerEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.LedgerEntry, error) {
	var model models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReference finds entries created from a source document
func (r *GormLedgerEntryRepository) FindByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) ([]ledger.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
		Order("posted_at ASC, id ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// FindAll finds entries with filtering
func (r *GormLedgerEntryRepository) FindAll(ctx context.Context, filter ledger.LedgerEntryFilter) ([]ledger.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	query := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// FindOutstanding finds open entries of one kind for a counterparty in
// settlement order. The secondary sort on id keeps ties on posted_at stable.
func (r *GormLedgerEntryRepository) FindOutstanding(ctx context.Context, kind ledger.EntryKind, counterpartyID uuid.UUID) ([]ledger.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("kind = ? AND counterparty_id = ? AND outstanding > 0", kind, counterpartyID).
		Order("posted_at ASC, id ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// Save creates or updates a ledger entry
func (r *GormLedgerEntryRepository) Save(ctx context.Context, entry *ledger.LedgerEntry) error {
	model := models.LedgerEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking. The explicit column list forces
// zero values through, a fully settled entry must write outstanding = 0.
func (r *GormLedgerEntryRepository) SaveWithLock(ctx context.Context, entry *ledger.LedgerEntry) error {
	model := models.LedgerEntryModelFromDomain(entry)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", entry.ID, entry.Version-1).
		Select("version", "updated_at", "outstanding", "remark").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledger.ErrConcurrentModification
	}
	return nil
}

// Count counts entries matching the filter
func (r *GormLedgerEntryRepository) Count(ctx context.Context, filter ledger.LedgerEntryFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumOutstanding calculates the total outstanding of one kind for a counterparty
func (r *GormLedgerEntryRepository) SumOutstanding(ctx context.Context, kind ledger.EntryKind, counterpartyID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Select("COALESCE(SUM(outstanding), 0) as total").
		Where("kind = ? AND counterparty_id = ?", kind, counterpartyID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

func (r *GormLedgerEntryRepository) applyFilter(query *gorm.DB, filter ledger.LedgerEntryFilter) *gorm.DB {
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
		query = query.Order("posted_at DESC")
	}

	return query
}

func (r *GormLedgerEntryRepository) applyFilterWithoutPagination(query *gorm.DB, filter ledger.LedgerEntryFilter) *gorm.DB {
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.CounterpartyID != nil {
		query = query.Where("counterparty_id = ?", *filter.CounterpartyID)
	}
	if filter.ReferenceType != nil {
		query = query.Where("reference_type = ?", *filter.ReferenceType)
	}
	if filter.ReferenceID != nil {
		query = query.Where("reference_id = ?", *filter.ReferenceID)
	}
	if filter.OnlyOpen {
		query = query.Where("outstanding > 0")
	}
	if filter.PostedFrom != nil {
		query = query.Where("posted_at >= ?", *filter.PostedFrom)
	}
	if filter.PostedTo != nil {
		query = query.Where("posted_at <= ?", *filter.PostedTo)
	}
	if filter.MinOutstanding != nil {
		query = query.Where("outstanding >= ?", *filter.MinOutstanding)
	}
	return query
}

func toDomainEntries(entryModels []models.LedgerEntryModel) []ledger.LedgerEntry {
	entries := make([]ledger.LedgerEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries
}

// Ensure GormLedgerEntryRepository implements LedgerEntryRepository
var _ ledger.LedgerEntryRepository = (*GormLedgerEntryRepository)(nil)
