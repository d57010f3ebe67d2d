package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
)

// StatusCount number of deliveries of a school in one status.
type StatusCount struct {
	SchoolID string
	Status   string
	Total    int
}

// DeliveryPair natural key of a delivery.
type DeliveryPair struct {
	SchoolID string
	PeriodID string
}

// DeliveryRepository deliveries.
type DeliveryRepository interface {
	// CreateBatch inserts deliveries, skipping (school, period) pairs that
	// already exist.
	CreateBatch(ctx context.Context, deliveries []model.Delivery) (int64, error)
	GetByID(ctx context.Context, id string) (*model.Delivery, error)
	GetBySchoolPeriod(ctx context.Context, schoolID, periodID string) (*model.Delivery, error)
	ListByPeriod(ctx context.Context, periodID string) ([]model.Delivery, error)
	ListByPeriods(ctx context.Context, periodIDs []string) ([]model.Delivery, error)
	ListBySchoolAndPeriods(ctx context.Context, schoolID string, periodIDs []string) ([]model.Delivery, error)
	ListPairs(ctx context.Context, periodIDs []string) ([]DeliveryPair, error)
	// UpdateState writes the workflow columns. Concurrent writers are not
	// detected: the last write wins.
	UpdateState(ctx context.Context, d *model.Delivery) error
	// CountsBySchool groups the deliveries of one cycle by school and status.
	CountsBySchool(ctx context.Context, cycleID string) ([]StatusCount, error)
	ListBlobIDsBySchool(ctx context.Context, schoolID string) ([]string, error)
}

type deliveryRepo struct {
	db *gorm.DB
}

// NewDeliveryRepo creates a DeliveryRepository.
func NewDeliveryRepo(db *gorm.DB) DeliveryRepository {
	return &deliveryRepo{db: db}
}

func (r *deliveryRepo) CreateBatch(ctx context.Context, deliveries []model.Delivery) (int64, error) {
	if len(deliveries) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&deliveries, 500)
	return res.RowsAffected, res.Error
}

func (r *deliveryRepo) GetByID(ctx context.Context, id string) (*model.Delivery, error) {
	var d model.Delivery
	err := r.db.WithContext(ctx).
		Preload("School").
		Preload("Period.Program").
		Preload("Period.Cycle").
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("delivery_id = ?", id).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *deliveryRepo) GetBySchoolPeriod(ctx context.Context, schoolID, periodID string) (*model.Delivery, error) {
	var d model.Delivery
	err := r.db.WithContext(ctx).
		Where("school_id = ? AND period_id = ?", schoolID, periodID).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *deliveryRepo) ListByPeriod(ctx context.Context, periodID string) ([]model.Delivery, error) {
	var out []model.Delivery
	err := r.db.WithContext(ctx).
		Preload("School").
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Joins("JOIN schools ON schools.school_id = deliveries.school_id").
		Where("deliveries.period_id = ?", periodID).
		Order("schools.cct ASC").
		Find(&out).Error
	return out, err
}

func (r *deliveryRepo) ListByPeriods(ctx context.Context, periodIDs []string) ([]model.Delivery, error) {
	var out []model.Delivery
	if len(periodIDs) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).
		Preload("School").
		Preload("Files").
		Where("period_id IN ?", periodIDs).
		Find(&out).Error
	return out, err
}

func (r *deliveryRepo) ListBySchoolAndPeriods(ctx context.Context, schoolID string, periodIDs []string) ([]model.Delivery, error) {
	var out []model.Delivery
	if len(periodIDs) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("school_id = ? AND period_id IN ?", schoolID, periodIDs).
		Find(&out).Error
	return out, err
}

func (r *deliveryRepo) ListPairs(ctx context.Context, periodIDs []string) ([]DeliveryPair, error) {
	var out []DeliveryPair
	if len(periodIDs) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).
		Model(&model.Delivery{}).
		Select("school_id, period_id").
		Where("period_id IN ?", periodIDs).
		Scan(&out).Error
	return out, err
}

func (r *deliveryRepo) UpdateState(ctx context.Context, d *model.Delivery) error {
	result := r.db.WithContext(ctx).
		Model(&model.Delivery{}).
		Where("delivery_id = ?", d.DeliveryID).
		Updates(map[string]interface{}{
			"status":       d.Status,
			"uploaded_at":  d.UploadedAt,
			"reviewed_at":  d.ReviewedAt,
			"observations": d.Observations,
			"updated_at":   gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *deliveryRepo) CountsBySchool(ctx context.Context, cycleID string) ([]StatusCount, error) {
	var out []StatusCount
	err := r.db.WithContext(ctx).
		Model(&model.Delivery{}).
		Select("deliveries.school_id, deliveries.status, COUNT(*) AS total").
		Joins("JOIN periods ON periods.period_id = deliveries.period_id").
		Where("periods.cycle_id = ?", cycleID).
		Group("deliveries.school_id, deliveries.status").
		Scan(&out).Error
	return out, err
}

// ListBlobIDsBySchool every stored blob referenced by the school's files.
func (r *deliveryRepo) ListBlobIDsBySchool(ctx context.Context, schoolID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.DeliveryFile{}).
		Joins("JOIN deliveries ON deliveries.delivery_id = delivery_files.delivery_id").
		Where("deliveries.school_id = ?", schoolID).
		Pluck("delivery_files.blob_id", &ids).Error
	return ids, err
}
