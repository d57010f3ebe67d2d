package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
)

// PeriodRepository reporting windows.
type PeriodRepository interface {
	// CreateBatch inserts periods and skips those already present under the
	// natural key (cycle, program, month, year, semester).
	CreateBatch(ctx context.Context, periods []model.Period) error
	GetByID(ctx context.Context, id string) (*model.Period, error)
	ListByProgramCycle(ctx context.Context, programID, cycleID string) ([]model.Period, error)
	ListByCycle(ctx context.Context, cycleID string, activeOnly bool) ([]model.Period, error)
	// ListReminderCandidates active periods with a deadline whose program
	// has auto reminders enabled.
	ListReminderCandidates(ctx context.Context, cycleID string) ([]model.Period, error)
	CountByProgram(ctx context.Context, programID string) (int64, error)
	Update(ctx context.Context, period *model.Period) error
}

type periodRepo struct {
	db *gorm.DB
}

// NewPeriodRepo creates a PeriodRepository.
func NewPeriodRepo(db *gorm.DB) PeriodRepository {
	return &periodRepo{db: db}
}

func (r *periodRepo) CreateBatch(ctx context.Context, periods []model.Period) error {
	if len(periods) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&periods).Error
}

func (r *periodRepo) GetByID(ctx context.Context, id string) (*model.Period, error) {
	var p model.Period
	err := r.db.WithContext(ctx).
		Preload("Program").
		Preload("Cycle").
		Where("period_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *periodRepo) ListByProgramCycle(ctx context.Context, programID, cycleID string) ([]model.Period, error) {
	var periods []model.Period
	err := r.db.WithContext(ctx).
		Where("program_id = ? AND cycle_id = ?", programID, cycleID).
		Order("year ASC NULLS FIRST, month ASC NULLS FIRST, semester ASC NULLS FIRST").
		Find(&periods).Error
	return periods, err
}

func (r *periodRepo) ListByCycle(ctx context.Context, cycleID string, activeOnly bool) ([]model.Period, error) {
	var periods []model.Period
	q := r.db.WithContext(ctx).Preload("Program").Where("cycle_id = ?", cycleID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("year ASC NULLS FIRST, month ASC NULLS FIRST, semester ASC NULLS FIRST").
		Find(&periods).Error
	return periods, err
}

func (r *periodRepo) ListReminderCandidates(ctx context.Context, cycleID string) ([]model.Period, error) {
	var periods []model.Period
	err := r.db.WithContext(ctx).
		Preload("Program").
		Preload("Cycle").
		Joins("JOIN programs ON programs.program_id = periods.program_id").
		Where("periods.cycle_id = ? AND periods.is_active = ? AND periods.deadline IS NOT NULL", cycleID, true).
		Where("programs.auto_reminder = ?", true).
		Order("periods.deadline ASC").
		Find(&periods).Error
	return periods, err
}

func (r *periodRepo) CountByProgram(ctx context.Context, programID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Period{}).Where("program_id = ?", programID).Count(&n).Error
	return n, err
}

func (r *periodRepo) Update(ctx context.Context, period *model.Period) error {
	return r.db.WithContext(ctx).
		Model(&model.Period{}).
		Where("period_id = ?", period.PeriodID).
		Updates(map[string]interface{}{
			"is_active": period.IsActive,
			"deadline":  period.Deadline,
		}).Error
}
