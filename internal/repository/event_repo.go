package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
)

// EventRepository discipline catalog, registrations and the open switch.
type EventRepository interface {
	ListCategories(ctx context.Context) ([]model.EventCategory, error)
	ListDisciplines(ctx context.Context) ([]model.EventDiscipline, error)

	GetRegistration(ctx context.Context, schoolID string) (*model.EventRegistration, error)
	// UpsertRegistration replaces the document of the school.
	UpsertRegistration(ctx context.Context, reg *model.EventRegistration) error
	ListRegistrations(ctx context.Context) ([]model.EventRegistration, error)
	DeleteRegistration(ctx context.Context, schoolID string) error

	// GetConfig returns the singleton row, a closed default when missing.
	GetConfig(ctx context.Context) (*model.EventConfig, error)
	SaveConfig(ctx context.Context, cfg *model.EventConfig) error
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo creates an EventRepository.
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) ListCategories(ctx context.Context) ([]model.EventCategory, error) {
	var out []model.EventCategory
	err := r.db.WithContext(ctx).
		Preload("Disciplines", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Order("sort_order ASC").
		Find(&out).Error
	return out, err
}

func (r *eventRepo) ListDisciplines(ctx context.Context) ([]model.EventDiscipline, error) {
	var out []model.EventDiscipline
	err := r.db.WithContext(ctx).Order("category_id ASC, sort_order ASC").Find(&out).Error
	return out, err
}

func (r *eventRepo) GetRegistration(ctx context.Context, schoolID string) (*model.EventRegistration, error) {
	var reg model.EventRegistration
	err := r.db.WithContext(ctx).Where("school_id = ?", schoolID).First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *eventRepo) UpsertRegistration(ctx context.Context, reg *model.EventRegistration) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "school_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"data": reg.Data, "updated_at": gorm.Expr("NOW()")}),
		}).
		Create(reg).Error
}

func (r *eventRepo) ListRegistrations(ctx context.Context) ([]model.EventRegistration, error) {
	var out []model.EventRegistration
	err := r.db.WithContext(ctx).
		Preload("School").
		Order("updated_at DESC").
		Find(&out).Error
	return out, err
}

func (r *eventRepo) DeleteRegistration(ctx context.Context, schoolID string) error {
	return r.db.WithContext(ctx).Where("school_id = ?", schoolID).Delete(&model.EventRegistration{}).Error
}

func (r *eventRepo) GetConfig(ctx context.Context) (*model.EventConfig, error) {
	var cfg model.EventConfig
	err := r.db.WithContext(ctx).Where("singleton = ?", true).Limit(1).Find(&cfg).Error
	if err != nil {
		return nil, err
	}
	cfg.Singleton = true
	return &cfg, nil
}

func (r *eventRepo) SaveConfig(ctx context.Context, cfg *model.EventConfig) error {
	cfg.Singleton = true
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "singleton"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"is_open": cfg.IsOpen, "updated_at": gorm.Expr("NOW()")}),
		}).
		Create(cfg).Error
}
