package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
)

// FileRepository delivery files.
type FileRepository interface {
	Create(ctx context.Context, file *model.DeliveryFile) error
	GetByID(ctx context.Context, id string) (*model.DeliveryFile, error)
	Delete(ctx context.Context, id string) error
	CountByDeliveryKind(ctx context.Context, deliveryID, kind string) (int64, error)
}

type fileRepo struct {
	db *gorm.DB
}

// NewFileRepo creates a FileRepository.
func NewFileRepo(db *gorm.DB) FileRepository {
	return &fileRepo{db: db}
}

func (r *fileRepo) Create(ctx context.Context, file *model.DeliveryFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *fileRepo) GetByID(ctx context.Context, id string) (*model.DeliveryFile, error) {
	var f model.DeliveryFile
	err := r.db.WithContext(ctx).Where("file_id = ?", id).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *fileRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("file_id = ?", id).Delete(&model.DeliveryFile{}).Error
}

func (r *fileRepo) CountByDeliveryKind(ctx context.Context, deliveryID, kind string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.DeliveryFile{}).
		Where("delivery_id = ? AND kind = ?", deliveryID, kind).
		Count(&n).Error
	return n, err
}
