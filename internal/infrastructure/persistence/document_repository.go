package persistence

import (
	"context"
	"errors"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/suprimento"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormExecutionDocumentRepository implements ExecutionDocumentRepository using GORM
type GormExecutionDocumentRepository struct {
	db *gorm.DB
}

// NewGormExecutionDocumentRepository creates a new GormExecutionDocumentRepository
func NewGormExecutionDocumentRepository(db *gorm.DB) *GormExecutionDocumentRepository {
	return &GormExecutionDocumentRepository{db: db}
}

// FindByID finds an execution document by its ID
func (r *GormExecutionDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*suprimento.ExecutionDocument, error) {
	var doc suprimento.ExecutionDocument
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// FindByCase finds all execution documents belonging to a case
func (r *GormExecutionDocumentRepository) FindByCase(ctx context.Context, caseID uuid.UUID) ([]suprimento.ExecutionDocument, error) {
	var docs []suprimento.ExecutionDocument
	if err := r.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("created_at ASC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// FindByCaseAndKind finds one document of a given kind within a case.
// At most one exists per case and kind; the table enforces it.
func (r *GormExecutionDocumentRepository) FindByCaseAndKind(ctx context.Context, caseID uuid.UUID, kind suprimento.DocumentKind) (*suprimento.ExecutionDocument, error) {
	var doc suprimento.ExecutionDocument
	if err := r.db.WithContext(ctx).
		Where("case_id = ? AND kind = ?", caseID, kind).
		First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// Save creates or updates an execution document
func (r *GormExecutionDocumentRepository) Save(ctx context.Context, doc *suprimento.ExecutionDocument) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

// Ensure GormExecutionDocumentRepository implements ExecutionDocumentRepository
var _ suprimento.ExecutionDocumentRepository = (*GormExecutionDocumentRepository)(nil)
