package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/period"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/repository"
	pkgerrors "github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/errors"
)

// ── program errors ──

var (
	ErrProgramNotFound   = errors.New("programa no encontrado")
	ErrProgramNameTaken  = errors.New("ya existe un programa con ese nombre")
	ErrProgramInUse      = errors.New("el programa tiene periodos registrados y no puede eliminarse")
	ErrGenerationOptions = errors.New("opciones de generación inválidas")
)

// extraordinary tasks sort after the regular catalog
const extraordinarySortOrder = 99

// ProgramService programs and the generation of their periods and
// deliveries in the active cycle.
type ProgramService interface {
	List(ctx context.Context) ([]dto.ProgramResponse, error)
	Get(ctx context.Context, id string) (*dto.ProgramResponse, error)
	// Create stores the program and, when a cycle is active, generates its
	// periods and one delivery per school and period.
	Create(ctx context.Context, req *dto.CreateProgramRequest) (*dto.ProgramResponse, error)
	// Regenerate backfills missing periods and deliveries; running it twice
	// creates nothing the second time.
	Regenerate(ctx context.Context, id string, opts *dto.GenerationOptions) (*dto.GenerationResult, error)
	Update(ctx context.Context, id string, req *dto.UpdateProgramRequest) (*dto.ProgramResponse, error)
	SetAutoReminder(ctx context.Context, id string, enabled bool) (*dto.ProgramResponse, error)
	Delete(ctx context.Context, id string) error
	// CreateExtraordinary one-off ANUAL task with a single active period.
	CreateExtraordinary(ctx context.Context, req *dto.ExtraordinaryRequest) (*dto.ProgramResponse, error)
}

type programService struct {
	repo               *repository.Repository
	monthlyDeadlineDay int
	logger             *zap.Logger
}

// NewProgramService creates a ProgramService. monthlyDeadlineDay is used for
// MENSUAL programs whose request does not set one.
func NewProgramService(repo *repository.Repository, monthlyDeadlineDay int, logger *zap.Logger) ProgramService {
	return &programService{repo: repo, monthlyDeadlineDay: monthlyDeadlineDay, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *programService) List(ctx context.Context) ([]dto.ProgramResponse, error) {
	programs, err := s.repo.Program.List(ctx)
	if err != nil {
		s.logger.Error("list programs failed", zap.Error(err))
		return nil, err
	}

	byProgram := map[string][]dto.PeriodResponse{}
	cycle, err := activeCycle(ctx, s.repo)
	switch {
	case err == nil:
		periods, err := s.repo.Period.ListByCycle(ctx, cycle.CycleID, false)
		if err != nil {
			s.logger.Error("list periods failed", zap.Error(err))
			return nil, err
		}
		for i := range periods {
			p := &periods[i]
			byProgram[p.ProgramID] = append(byProgram[p.ProgramID], toPeriodResponse(p, cycle.Name))
		}
	case errors.Is(err, pkgerrors.ErrNoActiveCycle):
	default:
		return nil, err
	}

	out := make([]dto.ProgramResponse, 0, len(programs))
	for i := range programs {
		resp := toProgramResponse(&programs[i])
		resp.Periods = byProgram[programs[i].ProgramID]
		out = append(out, resp)
	}
	return out, nil
}

// ────────────────────── Get ──────────────────────

func (s *programService) Get(ctx context.Context, id string) (*dto.ProgramResponse, error) {
	program, err := s.getProgram(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toProgramResponse(program)

	cycle, err := activeCycle(ctx, s.repo)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNoActiveCycle) {
			return &resp, nil
		}
		return nil, err
	}
	periods, err := s.repo.Period.ListByProgramCycle(ctx, id, cycle.CycleID)
	if err != nil {
		s.logger.Error("list periods failed", zap.String("program", id), zap.Error(err))
		return nil, err
	}
	for i := range periods {
		resp.Periods = append(resp.Periods, toPeriodResponse(&periods[i], cycle.Name))
	}
	return &resp, nil
}

// ────────────────────── Create ──────────────────────

func (s *programService) Create(ctx context.Context, req *dto.CreateProgramRequest) (*dto.ProgramResponse, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	kind := period.Kind(req.Kind)
	opts, err := s.generationOptions(req.Generation)
	if err != nil {
		return nil, err
	}

	cycle, err := activeCycle(ctx, s.repo)
	if err != nil && !errors.Is(err, pkgerrors.ErrNoActiveCycle) {
		return nil, err
	}

	var specs []period.Spec
	if cycle != nil {
		if specs, err = period.Generate(cycleWindow(cycle), kind, opts); err != nil {
			return nil, err
		}
	}

	numFiles := req.NumFiles
	if numFiles <= 0 {
		numFiles = 1
	}
	autoReminder := true
	if req.AutoReminder != nil {
		autoReminder = *req.AutoReminder
	}
	program := &model.Program{
		Name:         name,
		Description:  req.Description,
		Kind:         string(kind),
		NumFiles:     numFiles,
		SlotLabels:   model.StringArray(req.SlotLabels),
		SortOrder:    req.SortOrder,
		AutoReminder: autoReminder,
	}

	var result *dto.GenerationResult
	err = inTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.Program.Create(ctx, program); err != nil {
			return err
		}
		if cycle == nil {
			return nil
		}
		result, err = s.generate(ctx, txRepo, cycle, program, specs)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProgramNameTaken
		}
		s.logger.Error("create program failed", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("program created", zap.String("name", name), zap.String("kind", program.Kind))
	resp := toProgramResponse(program)
	resp.Generated = result
	return &resp, nil
}

// ────────────────────── Regenerate ──────────────────────

func (s *programService) Regenerate(ctx context.Context, id string, reqOpts *dto.GenerationOptions) (*dto.GenerationResult, error) {
	program, err := s.getProgram(ctx, id)
	if err != nil {
		return nil, err
	}
	cycle, err := activeCycle(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	var specs []period.Spec
	if program.IsExtraordinary {
		specs = []period.Spec{period.Extraordinary(nil)}
	} else {
		opts, err := s.generationOptions(reqOpts)
		if err != nil {
			return nil, err
		}
		if specs, err = period.Generate(cycleWindow(cycle), period.Kind(program.Kind), opts); err != nil {
			return nil, err
		}
	}

	var result *dto.GenerationResult
	err = inTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		result, err = s.generate(ctx, txRepo, cycle, program, specs)
		return err
	})
	if err != nil {
		s.logger.Error("regenerate program failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("program regenerated",
		zap.String("id", id),
		zap.Int("periods", result.Periods),
		zap.Int("deliveries", result.Deliveries),
	)
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *programService) Update(ctx context.Context, id string, req *dto.UpdateProgramRequest) (*dto.ProgramResponse, error) {
	program, err := s.getProgram(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if !strings.EqualFold(name, program.Name) {
			if err := s.ensureNameFree(ctx, name, program.ProgramID); err != nil {
				return nil, err
			}
		}
		program.Name = name
	}
	if req.Description != nil {
		program.Description = req.Description
	}
	if req.NumFiles != nil {
		program.NumFiles = *req.NumFiles
	}
	if req.SlotLabels != nil {
		program.SlotLabels = model.StringArray(req.SlotLabels)
	}
	if req.SortOrder != nil {
		program.SortOrder = *req.SortOrder
	}

	if err := s.repo.Program.Update(ctx, program); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProgramNameTaken
		}
		s.logger.Error("update program failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toProgramResponse(program)
	return &resp, nil
}

// ────────────────────── SetAutoReminder ──────────────────────

func (s *programService) SetAutoReminder(ctx context.Context, id string, enabled bool) (*dto.ProgramResponse, error) {
	program, err := s.getProgram(ctx, id)
	if err != nil {
		return nil, err
	}
	program.AutoReminder = enabled
	if err := s.repo.Program.Update(ctx, program); err != nil {
		s.logger.Error("toggle auto reminder failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toProgramResponse(program)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *programService) Delete(ctx context.Context, id string) error {
	if _, err := s.getProgram(ctx, id); err != nil {
		return err
	}

	n, err := s.repo.Period.CountByProgram(ctx, id)
	if err != nil {
		s.logger.Error("count periods failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if n > 0 {
		return ErrProgramInUse
	}

	if err := s.repo.Program.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrProgramInUse
		}
		s.logger.Error("delete program failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── CreateExtraordinary ──────────────────────

func (s *programService) CreateExtraordinary(ctx context.Context, req *dto.ExtraordinaryRequest) (*dto.ProgramResponse, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}
	deadline, err := parseTimestamp(req.Deadline)
	if err != nil {
		return nil, ErrGenerationOptions
	}
	cycle, err := activeCycle(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	numFiles := req.NumFiles
	if numFiles <= 0 {
		numFiles = 1
	}
	program := &model.Program{
		Name:            name,
		Description:     req.Description,
		Kind:            string(period.Annual),
		NumFiles:        numFiles,
		SortOrder:       extraordinarySortOrder,
		AutoReminder:    true,
		IsExtraordinary: true,
	}

	var result *dto.GenerationResult
	err = inTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.Program.Create(ctx, program); err != nil {
			return err
		}
		result, err = s.generate(ctx, txRepo, cycle, program, []period.Spec{period.Extraordinary(deadline)})
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProgramNameTaken
		}
		s.logger.Error("create extraordinary task failed", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("extraordinary task created", zap.String("name", name), zap.Int("deliveries", result.Deliveries))
	resp := toProgramResponse(program)
	resp.Generated = result
	return &resp, nil
}

// ── helpers ──

// generate writes the missing periods of specs and a delivery per school
// for every period of the program in the cycle.
func (s *programService) generate(ctx context.Context, txRepo *repository.Repository, cycle *model.SchoolCycle, program *model.Program, specs []period.Spec) (*dto.GenerationResult, error) {
	periods, created, err := backfillPeriods(ctx, txRepo, cycle.CycleID, program.ProgramID, specs)
	if err != nil {
		return nil, err
	}
	schoolIDs, err := txRepo.School.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	deliveries, err := backfillDeliveries(ctx, txRepo, periodIDs(periods), schoolIDs)
	if err != nil {
		return nil, err
	}
	return &dto.GenerationResult{Periods: created, Deliveries: deliveries}, nil
}

func (s *programService) generationOptions(req *dto.GenerationOptions) (period.Options, error) {
	opts := period.Options{MonthlyDeadlineDay: s.monthlyDeadlineDay}
	if req == nil {
		return opts, nil
	}
	if req.Active != nil {
		opts.Active = *req.Active
	}
	if req.MonthlyDeadlineDay != nil {
		opts.MonthlyDeadlineDay = *req.MonthlyDeadlineDay
	}
	var err error
	if opts.AnnualDeadline, err = parseTimestamp(req.AnnualDeadline); err != nil {
		return opts, ErrGenerationOptions
	}
	for i, raw := range req.SemesterDeadlines {
		if i >= len(opts.SemesterDeadlines) {
			return opts, ErrGenerationOptions
		}
		if opts.SemesterDeadlines[i], err = parseTimestamp(raw); err != nil {
			return opts, ErrGenerationOptions
		}
	}
	return opts, nil
}

func (s *programService) getProgram(ctx context.Context, id string) (*model.Program, error) {
	program, err := s.repo.Program.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		s.logger.Error("get program failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return program, nil
}

func (s *programService) ensureNameFree(ctx context.Context, name, selfID string) error {
	other, err := s.repo.Program.GetByName(ctx, name)
	if err == nil && other.ProgramID != selfID {
		return ErrProgramNameTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup program by name failed", zap.Error(err))
		return err
	}
	return nil
}

func toProgramResponse(p *model.Program) dto.ProgramResponse {
	labels := []string(p.SlotLabels)
	if labels == nil {
		labels = []string{}
	}
	return dto.ProgramResponse{
		ID:              p.ProgramID,
		Name:            p.Name,
		Description:     p.Description,
		Kind:            p.Kind,
		NumFiles:        p.NumFiles,
		SlotLabels:      labels,
		SortOrder:       p.SortOrder,
		AutoReminder:    p.AutoReminder,
		IsExtraordinary: p.IsExtraordinary,
	}
}

func toPeriodResponse(p *model.Period, cycleName string) dto.PeriodResponse {
	return dto.PeriodResponse{
		ID:        p.PeriodID,
		ProgramID: p.ProgramID,
		CycleID:   p.CycleID,
		Label:     period.Label(p.Month, p.Year, p.Semester, cycleName),
		Month:     p.Month,
		Year:      p.Year,
		Semester:  p.Semester,
		IsActive:  p.IsActive,
		Deadline:  formatTime(p.Deadline),
	}
}
