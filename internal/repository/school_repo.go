package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
)

// SchoolRepository schools and their per-program overrides.
type SchoolRepository interface {
	Create(ctx context.Context, school *model.School) error
	GetByID(ctx context.Context, id string) (*model.School, error)
	GetByCCT(ctx context.Context, cct string) (*model.School, error)
	GetByEmail(ctx context.Context, email string) (*model.School, error)
	List(ctx context.Context) ([]model.School, error)
	ListIDs(ctx context.Context) ([]string, error)
	Update(ctx context.Context, school *model.School) error
	TouchLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error

	ListOverrides(ctx context.Context, schoolID string) ([]model.SchoolProgramOverride, error)
	ListOverridesByProgram(ctx context.Context, programID string) ([]model.SchoolProgramOverride, error)
	ReplaceOverrides(ctx context.Context, schoolID string, overrides []model.SchoolProgramOverride) error
}

type schoolRepo struct {
	db *gorm.DB
}

// NewSchoolRepo creates a SchoolRepository.
func NewSchoolRepo(db *gorm.DB) SchoolRepository {
	return &schoolRepo{db: db}
}

func (r *schoolRepo) Create(ctx context.Context, school *model.School) error {
	return r.db.WithContext(ctx).Create(school).Error
}

func (r *schoolRepo) GetByID(ctx context.Context, id string) (*model.School, error) {
	var school model.School
	err := r.db.WithContext(ctx).Where("school_id = ?", id).First(&school).Error
	if err != nil {
		return nil, err
	}
	return &school, nil
}

func (r *schoolRepo) GetByCCT(ctx context.Context, cct string) (*model.School, error) {
	var school model.School
	err := r.db.WithContext(ctx).Where("cct = ?", cct).First(&school).Error
	if err != nil {
		return nil, err
	}
	return &school, nil
}

func (r *schoolRepo) GetByEmail(ctx context.Context, email string) (*model.School, error) {
	var school model.School
	err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&school).Error
	if err != nil {
		return nil, err
	}
	return &school, nil
}

func (r *schoolRepo) List(ctx context.Context) ([]model.School, error) {
	var schools []model.School
	err := r.db.WithContext(ctx).Order("cct ASC").Find(&schools).Error
	return schools, err
}

func (r *schoolRepo) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.School{}).Order("cct ASC").Pluck("school_id", &ids).Error
	return ids, err
}

func (r *schoolRepo) Update(ctx context.Context, school *model.School) error {
	return r.db.WithContext(ctx).Save(school).Error
}

// TouchLogin stamps last_login_at without touching updated_at.
func (r *schoolRepo) TouchLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.School{}).
		Where("school_id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// Delete removes the school; deliveries, files and corrections cascade.
func (r *schoolRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("school_id = ?", id).Delete(&model.School{}).Error
}

func (r *schoolRepo) ListOverrides(ctx context.Context, schoolID string) ([]model.SchoolProgramOverride, error) {
	var out []model.SchoolProgramOverride
	err := r.db.WithContext(ctx).Where("school_id = ?", schoolID).Find(&out).Error
	return out, err
}

func (r *schoolRepo) ListOverridesByProgram(ctx context.Context, programID string) ([]model.SchoolProgramOverride, error) {
	var out []model.SchoolProgramOverride
	err := r.db.WithContext(ctx).Where("program_id = ?", programID).Find(&out).Error
	return out, err
}

// ReplaceOverrides must run inside a transaction to be atomic.
func (r *schoolRepo) ReplaceOverrides(ctx context.Context, schoolID string, overrides []model.SchoolProgramOverride) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("school_id = ?", schoolID).Delete(&model.SchoolProgramOverride{}).Error; err != nil {
		return err
	}
	if len(overrides) == 0 {
		return nil
	}
	return db.Create(&overrides).Error
}
