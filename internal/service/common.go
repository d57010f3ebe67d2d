package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/period"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/repository"
	pkgerrors "github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/errors"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339
)

// Principal is the authenticated caller as read from the access token.
type Principal struct {
	UserID string
	Role   string
	CCT    string // directors only
}

// IsDirector reports whether the caller signs in as a school.
func (p Principal) IsDirector() bool {
	return p.Role == model.RoleDirector
}

// ────────────────────── active cycle ──────────────────────

// activeCycle resolves the single active cycle and fails fast when the
// table holds none or several.
func activeCycle(ctx context.Context, repo *repository.Repository) (*model.SchoolCycle, error) {
	cycles, err := repo.Cycle.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	switch len(cycles) {
	case 0:
		return nil, pkgerrors.ErrNoActiveCycle
	case 1:
		return &cycles[0], nil
	default:
		return nil, pkgerrors.ErrMultipleActiveCycles
	}
}

// ────────────────────── transactions ──────────────────────

// inTx runs fn against a transactional repository and commits when fn
// returns nil. Hand-built repositories without a database run fn directly.
func inTx(ctx context.Context, repo *repository.Repository, logger *zap.Logger, fn func(txRepo *repository.Repository) error) (err error) {
	tx, err := repo.BeginTx(ctx)
	if err != nil {
		logger.Error("begin transaction failed", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	if err := fn(repo.WithTx(tx)); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			logger.Error("commit transaction failed", zap.Error(err))
			return err
		}
	}
	return nil
}

// ────────────────────── generation ──────────────────────

func periodKey(p *model.Period) period.Key {
	var k period.Key
	if p.Month != nil {
		k.Month = *p.Month
	}
	if p.Year != nil {
		k.Year = *p.Year
	}
	if p.Semester != nil {
		k.Semester = *p.Semester
	}
	return k
}

func cycleWindow(c *model.SchoolCycle) period.Window {
	return period.Window{Start: c.StartDate, End: c.EndDate}
}

// backfillPeriods inserts the periods of specs missing for (cycle, program)
// and returns every period of the pair plus the number created.
func backfillPeriods(ctx context.Context, repo *repository.Repository, cycleID, programID string, specs []period.Spec) ([]model.Period, int, error) {
	existing, err := repo.Period.ListByProgramCycle(ctx, programID, cycleID)
	if err != nil {
		return nil, 0, err
	}
	keys := make([]period.Key, 0, len(existing))
	for i := range existing {
		keys = append(keys, periodKey(&existing[i]))
	}

	missing := period.Missing(keys, specs)
	if len(missing) > 0 {
		rows := make([]model.Period, 0, len(missing))
		for _, sp := range missing {
			rows = append(rows, model.Period{
				CycleID:   cycleID,
				ProgramID: programID,
				Month:     sp.Month,
				Year:      sp.Year,
				Semester:  sp.Semester,
				IsActive:  sp.Active,
				Deadline:  sp.Deadline,
			})
		}
		if err := repo.Period.CreateBatch(ctx, rows); err != nil {
			return nil, 0, err
		}
		if existing, err = repo.Period.ListByProgramCycle(ctx, programID, cycleID); err != nil {
			return nil, 0, err
		}
	}
	return existing, len(missing), nil
}

// backfillDeliveries creates a NO_ENTREGADO delivery for every (school,
// period) pair that does not have one yet.
func backfillDeliveries(ctx context.Context, repo *repository.Repository, periodIDs, schoolIDs []string) (int, error) {
	if len(periodIDs) == 0 || len(schoolIDs) == 0 {
		return 0, nil
	}
	pairs, err := repo.Delivery.ListPairs(ctx, periodIDs)
	if err != nil {
		return 0, err
	}
	have := make([]period.Obligation, 0, len(pairs))
	for _, p := range pairs {
		have = append(have, period.Obligation{SchoolID: p.SchoolID, PeriodID: p.PeriodID})
	}

	todo := period.Without(period.Obligations(periodIDs, schoolIDs), have)
	if len(todo) == 0 {
		return 0, nil
	}
	rows := make([]model.Delivery, 0, len(todo))
	for _, o := range todo {
		rows = append(rows, model.Delivery{SchoolID: o.SchoolID, PeriodID: o.PeriodID, Status: string(initialStatus)})
	}
	n, err := repo.Delivery.CreateBatch(ctx, rows)
	return int(n), err
}

func periodIDs(periods []model.Period) []string {
	ids := make([]string, 0, len(periods))
	for i := range periods {
		ids = append(ids, periods[i].PeriodID)
	}
	return ids
}

// ────────────────────── formatting ──────────────────────

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func parseTimestamp(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, *raw); err == nil {
		return &t, nil
	}
	// a bare date means the end of that day
	d, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, fmt.Errorf("fecha inválida %q", *raw)
	}
	d = d.Add(24*time.Hour - time.Second)
	return &d, nil
}

func collaborator(err error) error {
	return fmt.Errorf("%w: %v", pkgerrors.ErrCollaborator, err)
}
