package persistence

import (
	"context"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/suprimento"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTramitationRepository implements TramitationRepository using GORM.
// The trail is append-only: entries are never updated or deleted.
type GormTramitationRepository struct {
	db *gorm.DB
}

// NewGormTramitationRepository creates a new GormTramitationRepository
func NewGormTramitationRepository(db *gorm.DB) *GormTramitationRepository {
	return &GormTramitationRepository{db: db}
}

// Append records one custody transfer in the trail
func (r *GormTramitationRepository) Append(ctx context.Context, entry *suprimento.TramitationEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByCase returns the full trail for a case in chronological order
func (r *GormTramitationRepository) FindByCase(ctx context.Context, caseID uuid.UUID) ([]suprimento.TramitationEntry, error) {
	var entries []suprimento.TramitationEntry
	if err := r.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Ensure GormTramitationRepository implements TramitationRepository
var _ suprimento.TramitationRepository = (*GormTramitationRepository)(nil)
