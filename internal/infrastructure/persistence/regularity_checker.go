package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/suprimento"
)

// GormRegularityChecker answers the compliance-hold check from the case store
// itself: a requester holding supply funds that were released but never
// accounted for and archived is irregular and cannot receive a new
// regularity certificate.
type GormRegularityChecker struct {
	db *gorm.DB
}

// NewGormRegularityChecker creates a new GormRegularityChecker
func NewGormRegularityChecker(db *gorm.DB) *GormRegularityChecker {
	return &GormRegularityChecker{db: db}
}

// Check reports whether the requester has open compliance holds
func (c *GormRegularityChecker) Check(ctx context.Context, requesterID uuid.UUID) (suprimento.RegularityResult, error) {
	var pending []suprimento.Case
	err := c.db.WithContext(ctx).
		Select("protocol_number").
		Where("requester_id = ? AND status = ?", requesterID, suprimento.CaseStatusFundsReleased).
		Find(&pending).Error
	if err != nil {
		return suprimento.RegularityResult{}, err
	}

	if len(pending) == 0 {
		return suprimento.RegularityResult{Passed: true}, nil
	}

	reasons := make([]string, 0, len(pending))
	for _, p := range pending {
		reasons = append(reasons,
			fmt.Sprintf("prestação de contas pendente no processo %s", p.ProtocolNumber))
	}
	return suprimento.RegularityResult{Passed: false, Reasons: reasons}, nil
}

var _ suprimento.RegularityChecker = (*GormRegularityChecker)(nil)
