package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every repository of the portal.
type Repository struct {
	db *gorm.DB

	Admin      AdminRepository
	School     SchoolRepository
	Cycle      CycleRepository
	Program    ProgramRepository
	Period     PeriodRepository
	Delivery   DeliveryRepository
	File       FileRepository
	Correction CorrectionRepository
	Event      EventRepository
	Circular05 Circular05Repository
	Resource   ResourceRepository
}

// NewRepository builds the aggregate on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		Admin:      NewAdminRepo(db),
		School:     NewSchoolRepo(db),
		Cycle:      NewCycleRepo(db),
		Program:    NewProgramRepo(db),
		Period:     NewPeriodRepo(db),
		Delivery:   NewDeliveryRepo(db),
		File:       NewFileRepo(db),
		Correction: NewCorrectionRepo(db),
		Event:      NewEventRepo(db),
		Circular05: NewCircular05Repo(db),
		Resource:   NewResourceRepo(db),
	}
}

// BeginTx opens a transaction. It returns a nil tx when the aggregate was
// assembled by hand without a database (service tests); callers must then
// skip Commit/Rollback.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx returns an aggregate bound to tx, or r itself when tx is nil.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
