package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/repository"
)

// ── cycle errors ──

var (
	ErrCycleNotFound    = errors.New("ciclo escolar no encontrado")
	ErrCycleDateInvalid = errors.New("la fecha de fin debe ser posterior a la de inicio")
	ErrCycleNameTaken   = errors.New("ya existe un ciclo con ese nombre")
)

// CycleService school cycles and the global announcement.
type CycleService interface {
	List(ctx context.Context) ([]dto.CycleResponse, error)
	GetActive(ctx context.Context) (*dto.CycleResponse, error)
	Create(ctx context.Context, req *dto.CreateCycleRequest) (*dto.CycleResponse, error)
	// Activate makes id the only active cycle.
	Activate(ctx context.Context, id string) (*dto.CycleResponse, error)
	SetAnnouncement(ctx context.Context, req *dto.AnnouncementRequest) (*dto.CycleResponse, error)
}

type cycleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCycleService creates a CycleService.
func NewCycleService(repo *repository.Repository, logger *zap.Logger) CycleService {
	return &cycleService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *cycleService) List(ctx context.Context) ([]dto.CycleResponse, error) {
	cycles, err := s.repo.Cycle.List(ctx)
	if err != nil {
		s.logger.Error("list cycles failed", zap.Error(err))
		return nil, err
	}
	out := make([]dto.CycleResponse, 0, len(cycles))
	for i := range cycles {
		out = append(out, toCycleResponse(&cycles[i]))
	}
	return out, nil
}

// ────────────────────── GetActive ──────────────────────

func (s *cycleService) GetActive(ctx context.Context) (*dto.CycleResponse, error) {
	cycle, err := activeCycle(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	resp := toCycleResponse(cycle)
	return &resp, nil
}

// ────────────────────── Create ──────────────────────

func (s *cycleService) Create(ctx context.Context, req *dto.CreateCycleRequest) (*dto.CycleResponse, error) {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, ErrCycleDateInvalid
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, ErrCycleDateInvalid
	}
	if !end.After(start) {
		return nil, ErrCycleDateInvalid
	}

	cycle := &model.SchoolCycle{
		Name:      strings.TrimSpace(req.Name),
		StartDate: start,
		EndDate:   end,
	}
	if err := s.repo.Cycle.Create(ctx, cycle); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCycleNameTaken
		}
		s.logger.Error("create cycle failed", zap.Error(err))
		return nil, err
	}

	resp := toCycleResponse(cycle)
	return &resp, nil
}

// ────────────────────── Activate ──────────────────────

func (s *cycleService) Activate(ctx context.Context, id string) (*dto.CycleResponse, error) {
	cycle, err := s.repo.Cycle.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCycleNotFound
		}
		s.logger.Error("get cycle failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	err = inTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.Cycle.ClearActive(ctx); err != nil {
			return err
		}
		cycle.IsActive = true
		return txRepo.Cycle.Update(ctx, cycle)
	})
	if err != nil {
		s.logger.Error("activate cycle failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("cycle activated", zap.String("id", id), zap.String("name", cycle.Name))
	resp := toCycleResponse(cycle)
	return &resp, nil
}

// ────────────────────── SetAnnouncement ──────────────────────

func (s *cycleService) SetAnnouncement(ctx context.Context, req *dto.AnnouncementRequest) (*dto.CycleResponse, error) {
	cycle, err := activeCycle(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.Announcement)
	if text == "" {
		cycle.Announcement = nil
	} else {
		cycle.Announcement = &text
	}
	if err := s.repo.Cycle.Update(ctx, cycle); err != nil {
		s.logger.Error("update announcement failed", zap.Error(err))
		return nil, err
	}

	resp := toCycleResponse(cycle)
	return &resp, nil
}

func toCycleResponse(c *model.SchoolCycle) dto.CycleResponse {
	return dto.CycleResponse{
		ID:           c.CycleID,
		Name:         c.Name,
		StartDate:    c.StartDate.Format(dateLayout),
		EndDate:      c.EndDate.Format(dateLayout),
		IsActive:     c.IsActive,
		Announcement: c.Announcement,
	}
}
