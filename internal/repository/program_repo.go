package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
)

// ProgramRepository programs.
type ProgramRepository interface {
	Create(ctx context.Context, program *model.Program) error
	GetByID(ctx context.Context, id string) (*model.Program, error)
	GetByName(ctx context.Context, name string) (*model.Program, error)
	List(ctx context.Context) ([]model.Program, error)
	Update(ctx context.Context, program *model.Program) error
	Delete(ctx context.Context, id string) error
}

type programRepo struct {
	db *gorm.DB
}

// NewProgramRepo creates a ProgramRepository.
func NewProgramRepo(db *gorm.DB) ProgramRepository {
	return &programRepo{db: db}
}

func (r *programRepo) Create(ctx context.Context, program *model.Program) error {
	return r.db.WithContext(ctx).Create(program).Error
}

func (r *programRepo) GetByID(ctx context.Context, id string) (*model.Program, error) {
	var program model.Program
	err := r.db.WithContext(ctx).Where("program_id = ?", id).First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *programRepo) GetByName(ctx context.Context, name string) (*model.Program, error) {
	var program model.Program
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *programRepo) List(ctx context.Context) ([]model.Program, error) {
	var programs []model.Program
	err := r.db.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&programs).Error
	return programs, err
}

func (r *programRepo) Update(ctx context.Context, program *model.Program) error {
	return r.db.WithContext(ctx).Save(program).Error
}

// Delete fails with a foreign key violation while periods reference the
// program; services check first.
func (r *programRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("program_id = ?", id).Delete(&model.Program{}).Error
}
