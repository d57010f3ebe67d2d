package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
)

// CorrectionRepository append-only feedback history.
type CorrectionRepository interface {
	Create(ctx context.Context, c *model.Correction) error
	ListByDelivery(ctx context.Context, deliveryID string) ([]model.Correction, error)
	CountByAdmin(ctx context.Context, adminID string) (int64, error)
}

type correctionRepo struct {
	db *gorm.DB
}

// NewCorrectionRepo creates a CorrectionRepository.
func NewCorrectionRepo(db *gorm.DB) CorrectionRepository {
	return &correctionRepo{db: db}
}

func (r *correctionRepo) Create(ctx context.Context, c *model.Correction) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// ListByDelivery newest first.
func (r *correctionRepo) ListByDelivery(ctx context.Context, deliveryID string) ([]model.Correction, error) {
	var out []model.Correction
	err := r.db.WithContext(ctx).
		Preload("Admin").
		Preload("File").
		Where("delivery_id = ?", deliveryID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *correctionRepo) CountByAdmin(ctx context.Context, adminID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Correction{}).Where("admin_id = ?", adminID).Count(&n).Error
	return n, err
}
