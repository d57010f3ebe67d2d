package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/delivery"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/repository"
)

// StatusService read-only compliance summary of the active cycle.
type StatusService interface {
	Summary(ctx context.Context) (*dto.StatusSummary, error)
}

type statusService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStatusService creates a StatusService.
func NewStatusService(repo *repository.Repository, logger *zap.Logger) StatusService {
	return &statusService{repo: repo, logger: logger}
}

func (s *statusService) Summary(ctx context.Context) (*dto.StatusSummary, error) {
	cycle, err := activeCycle(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	periods, err := s.repo.Period.ListByCycle(ctx, cycle.CycleID, true)
	if err != nil {
		s.logger.Error("list active periods failed", zap.Error(err))
		return nil, err
	}
	deliveries, err := s.repo.Delivery.ListByPeriods(ctx, periodIDs(periods))
	if err != nil {
		s.logger.Error("list deliveries failed", zap.Error(err))
		return nil, err
	}

	byPeriod := make(map[string][]model.Delivery, len(periods))
	for _, d := range deliveries {
		byPeriod[d.PeriodID] = append(byPeriod[d.PeriodID], d)
	}

	groups := map[string]*dto.ProgramStatus{}
	var programs []*model.Program
	for i := range periods {
		per := &periods[i]
		if per.Program == nil {
			continue
		}
		ps, ok := groups[per.ProgramID]
		if !ok {
			ps = &dto.ProgramStatus{
				ProgramID:      per.ProgramID,
				Program:        per.Program.Name,
				Kind:           per.Program.Kind,
				PendingSchools: []dto.PendingSchool{},
			}
			groups[per.ProgramID] = ps
			programs = append(programs, per.Program)
		}
		ps.ActivePeriods++
		for j := range byPeriod[per.PeriodID] {
			tally(ps, &byPeriod[per.PeriodID][j])
		}
	}

	sort.SliceStable(programs, func(i, j int) bool {
		if programs[i].SortOrder != programs[j].SortOrder {
			return programs[i].SortOrder < programs[j].SortOrder
		}
		return programs[i].Name < programs[j].Name
	})

	out := &dto.StatusSummary{
		Cycle:       cycle.Name,
		GeneratedAt: time.Now().Format(timeLayout),
		Programs:    make([]dto.ProgramStatus, 0, len(programs)),
	}
	for _, p := range programs {
		ps := groups[p.ProgramID]
		sort.SliceStable(ps.PendingSchools, func(i, j int) bool {
			return ps.PendingSchools[i].CCT < ps.PendingSchools[j].CCT
		})
		out.Programs = append(out.Programs, *ps)
	}
	return out, nil
}

func tally(ps *dto.ProgramStatus, d *model.Delivery) {
	ps.Total++
	status := delivery.Status(d.Status)
	switch status {
	case delivery.Aprobado:
		ps.Approved++
	case delivery.Pendiente:
		ps.Pending++
	case delivery.EnRevision:
		ps.InReview++
	case delivery.RequiereCorreccion:
		ps.NeedsCorrection++
	case delivery.NoAprobado:
		ps.NotApproved++
	default:
		ps.NotDelivered++
	}
	if status.Complete() || d.School == nil {
		return
	}
	ps.PendingSchools = append(ps.PendingSchools, dto.PendingSchool{
		CCT:    d.School.CCT,
		Name:   d.School.Name,
		Email:  d.School.Email,
		Status: d.Status,
		Files:  snapshot(d).EntregaFiles,
	})
}
