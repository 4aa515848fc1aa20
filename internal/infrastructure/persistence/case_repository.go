package persistence

import (
	"context"
	"errors"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/suprimento"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProtocolSequence backs the yearly protocol counter. One row per year,
// incremented atomically on each case creation.
type ProtocolSequence struct {
	Year  int   `gorm:"primaryKey"`
	Value int64 `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProtocolSequence) TableName() string {
	return "protocol_sequences"
}

// GormCaseRepository implements CaseRepository using GORM
type GormCaseRepository struct {
	db *gorm.DB
}

// NewGormCaseRepository creates a new GormCaseRepository
func NewGormCaseRepository(db *gorm.DB) *GormCaseRepository {
	return &GormCaseRepository{db: db}
}

// FindByID finds a case by its ID
func (r *GormCaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*suprimento.Case, error) {
	var c suprimento.Case
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// FindByProtocol finds a case by its protocol number
func (r *GormCaseRepository) FindByProtocol(ctx context.Context, protocolNumber string) (*suprimento.Case, error) {
	var c suprimento.Case
	if err := r.db.WithContext(ctx).
		Where("protocol_number = ?", protocolNumber).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// FindAll finds all cases matching the filter, returning the total count
// alongside the requested page
func (r *GormCaseRepository) FindAll(ctx context.Context, filter suprimento.CaseFilter) ([]suprimento.Case, int64, error) {
	query := r.db.WithContext(ctx).Model(&suprimento.Case{})
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.applyPagination(query, filter)

	var cases []suprimento.Case
	if err := query.Find(&cases).Error; err != nil {
		return nil, 0, err
	}
	return cases, total, nil
}

// Save creates or updates a case
func (r *GormCaseRepository) Save(ctx context.Context, c *suprimento.Case) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// NextProtocolSequence returns the next protocol sequence number for a year.
// The upsert increments the per-year counter atomically, so concurrent case
// creations never observe the same value.
func (r *GormCaseRepository) NextProtocolSequence(ctx context.Context, year int) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO protocol_sequences (year, value) VALUES (?, 1)
		ON CONFLICT (year) DO UPDATE SET value = protocol_sequences.value + 1
		RETURNING value`, year).
		Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// applyFilter applies the filter conditions without pagination
func (r *GormCaseRepository) applyFilter(query *gorm.DB, filter suprimento.CaseFilter) *gorm.DB {
	if filter.RequesterID != nil {
		query = query.Where("requester_id = ?", *filter.RequesterID)
	}
	if filter.ManagerID != nil {
		query = query.Where("manager_id = ?", *filter.ManagerID)
	}
	if filter.Custody != nil {
		query = query.Where("custody = ?", *filter.Custody)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.BudgetCode != nil {
		query = query.Where("budget_code = ?", *filter.BudgetCode)
	}
	if filter.SupplyCategory != nil {
		query = query.Where("supply_category = ?", *filter.SupplyCategory)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("protocol_number ILIKE ? OR requester_name ILIKE ?", searchPattern, searchPattern)
	}
	return query
}

// applyPagination applies pagination and ordering to the query
func (r *GormCaseRepository) applyPagination(query *gorm.DB, filter suprimento.CaseFilter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, CaseSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// Ensure GormCaseRepository implements CaseRepository
var _ suprimento.CaseRepository = (*GormCaseRepository)(nil)
