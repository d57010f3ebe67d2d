package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/repository"
)

var (
	ErrPeriodNotFound  = errors.New("periodo no encontrado")
	ErrDeadlineInvalid = errors.New("fecha límite inválida")
)

// PeriodService administrator switches on single periods. Toggling never
// touches existing deliveries.
type PeriodService interface {
	Get(ctx context.Context, id string) (*dto.PeriodResponse, error)
	SetActive(ctx context.Context, id string, active bool) (*dto.PeriodResponse, error)
	// SetDeadline sets the deadline, or clears it when raw is nil or empty.
	SetDeadline(ctx context.Context, id string, raw *string) (*dto.PeriodResponse, error)
}

type periodService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPeriodService creates a PeriodService.
func NewPeriodService(repo *repository.Repository, logger *zap.Logger) PeriodService {
	return &periodService{repo: repo, logger: logger}
}

func (s *periodService) Get(ctx context.Context, id string) (*dto.PeriodResponse, error) {
	p, err := s.getPeriod(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toPeriodResponse(p, cycleNameOf(p))
	return &resp, nil
}

func (s *periodService) SetActive(ctx context.Context, id string, active bool) (*dto.PeriodResponse, error) {
	p, err := s.getPeriod(ctx, id)
	if err != nil {
		return nil, err
	}
	p.IsActive = active
	if err := s.repo.Period.Update(ctx, p); err != nil {
		s.logger.Error("toggle period failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toPeriodResponse(p, cycleNameOf(p))
	return &resp, nil
}

func (s *periodService) SetDeadline(ctx context.Context, id string, raw *string) (*dto.PeriodResponse, error) {
	deadline, err := parseTimestamp(raw)
	if err != nil {
		return nil, ErrDeadlineInvalid
	}
	p, err := s.getPeriod(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Deadline = deadline
	if err := s.repo.Period.Update(ctx, p); err != nil {
		s.logger.Error("set period deadline failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toPeriodResponse(p, cycleNameOf(p))
	return &resp, nil
}

func (s *periodService) getPeriod(ctx context.Context, id string) (*model.Period, error) {
	p, err := s.repo.Period.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		s.logger.Error("get period failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func cycleNameOf(p *model.Period) string {
	if p.Cycle != nil {
		return p.Cycle.Name
	}
	return ""
}
