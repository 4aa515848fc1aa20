package persistence

import (
	"context"
	"errors"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/suprimento"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSigningTaskRepository implements SigningTaskRepository using GORM
type GormSigningTaskRepository struct {
	db *gorm.DB
}

// NewGormSigningTaskRepository creates a new GormSigningTaskRepository
func NewGormSigningTaskRepository(db *gorm.DB) *GormSigningTaskRepository {
	return &GormSigningTaskRepository{db: db}
}

// FindByID finds a signing task by its ID
func (r *GormSigningTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*suprimento.SigningTask, error) {
	var task suprimento.SigningTask
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

// FindByIDs finds the signing tasks matching the given IDs.
// Missing IDs are silently omitted from the result.
func (r *GormSigningTaskRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]suprimento.SigningTask, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tasks []suprimento.SigningTask
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByCase finds all signing tasks belonging to a case
func (r *GormSigningTaskRepository) FindByCase(ctx context.Context, caseID uuid.UUID) ([]suprimento.SigningTask, error) {
	var tasks []suprimento.SigningTask
	if err := r.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindAll finds all signing tasks matching the filter, returning the total
// count alongside the requested page
func (r *GormSigningTaskRepository) FindAll(ctx context.Context, filter suprimento.SigningTaskFilter) ([]suprimento.SigningTask, int64, error) {
	query := r.db.WithContext(ctx).Model(&suprimento.SigningTask{})
	if filter.CaseID != nil {
		query = query.Where("case_id = ?", *filter.CaseID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Kind != nil {
		query = query.Where("document_kind = ?", *filter.Kind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	if filter.OrderBy == "" {
		query = query.Order("created_at ASC")
	} else {
		orderBy := ValidateSortField(filter.OrderBy, SigningTaskSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	}

	var tasks []suprimento.SigningTask
	if err := query.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Save creates or updates a signing task
func (r *GormSigningTaskRepository) Save(ctx context.Context, task *suprimento.SigningTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// SaveAll persists a batch of signing tasks in one transaction
func (r *GormSigningTaskRepository) SaveAll(ctx context.Context, tasks []*suprimento.SigningTask) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, task := range tasks {
			if err := tx.Save(task).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensure GormSigningTaskRepository implements SigningTaskRepository
var _ suprimento.SigningTaskRepository = (*GormSigningTaskRepository)(nil)
