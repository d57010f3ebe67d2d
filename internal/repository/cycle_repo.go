package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
)

// CycleRepository school cycles.
type CycleRepository interface {
	Create(ctx context.Context, cycle *model.SchoolCycle) error
	GetByID(ctx context.Context, id string) (*model.SchoolCycle, error)
	List(ctx context.Context) ([]model.SchoolCycle, error)
	// ListActive returns every row flagged active so callers can detect
	// an inconsistent table.
	ListActive(ctx context.Context) ([]model.SchoolCycle, error)
	Update(ctx context.Context, cycle *model.SchoolCycle) error
	ClearActive(ctx context.Context) error
}

type cycleRepo struct {
	db *gorm.DB
}

// NewCycleRepo creates a CycleRepository.
func NewCycleRepo(db *gorm.DB) CycleRepository {
	return &cycleRepo{db: db}
}

func (r *cycleRepo) Create(ctx context.Context, cycle *model.SchoolCycle) error {
	return r.db.WithContext(ctx).Create(cycle).Error
}

func (r *cycleRepo) GetByID(ctx context.Context, id string) (*model.SchoolCycle, error) {
	var cycle model.SchoolCycle
	err := r.db.WithContext(ctx).Where("cycle_id = ?", id).First(&cycle).Error
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}

func (r *cycleRepo) List(ctx context.Context) ([]model.SchoolCycle, error) {
	var cycles []model.SchoolCycle
	err := r.db.WithContext(ctx).Order("start_date DESC").Find(&cycles).Error
	return cycles, err
}

func (r *cycleRepo) ListActive(ctx context.Context) ([]model.SchoolCycle, error) {
	var cycles []model.SchoolCycle
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Limit(2).Find(&cycles).Error
	return cycles, err
}

func (r *cycleRepo) Update(ctx context.Context, cycle *model.SchoolCycle) error {
	return r.db.WithContext(ctx).Save(cycle).Error
}

// ClearActive sets is_active = false on every cycle.
func (r *cycleRepo) ClearActive(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&model.SchoolCycle{}).
		Where("is_active = ?", true).
		Update("is_active", false).Error
}
