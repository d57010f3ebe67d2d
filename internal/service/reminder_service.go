package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/delivery"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/reminder"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/repository"
	pkgerrors "github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/errors"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/mailer"
)

var ErrNotRemindable = errors.New("la entrega no admite recordatorios en su estado actual")

// ReminderService sends deadline reminders to directors.
type ReminderService interface {
	// RunDaily evaluates every eligible period against today. Safe to call
	// once per day; a skipped day is not caught up.
	RunDaily(ctx context.Context, today time.Time) (*dto.ReminderResult, error)
	// SendProgram reminds every pending school of a program's active periods.
	SendProgram(ctx context.Context, programID, message string) (*dto.ReminderResult, error)
	SendOne(ctx context.Context, deliveryID, message string) error
}

type reminderService struct {
	repo   *repository.Repository
	notify *notifier
	policy reminder.Policy
	logger *zap.Logger
}

// NewReminderService creates a ReminderService.
func NewReminderService(repo *repository.Repository, m mailer.Mailer, policy reminder.Policy, logger *zap.Logger) ReminderService {
	if policy.Location == nil {
		policy.Location = time.UTC
	}
	return &reminderService{
		repo:   repo,
		notify: newNotifier(m, policy.Location, logger),
		policy: policy,
		logger: logger,
	}
}

// ────────────────────── RunDaily ──────────────────────

func (s *reminderService) RunDaily(ctx context.Context, today time.Time) (*dto.ReminderResult, error) {
	result := &dto.ReminderResult{}

	cycle, err := activeCycle(ctx, s.repo)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNoActiveCycle) {
			s.logger.Warn("reminder run skipped: no active cycle")
			return result, nil
		}
		return nil, err
	}

	periods, err := s.repo.Period.ListReminderCandidates(ctx, cycle.CycleID)
	if err != nil {
		s.logger.Error("list reminder candidates failed", zap.Error(err))
		return nil, err
	}

	for i := range periods {
		per := &periods[i]
		result.Evaluated++

		class := s.policy.Classify(*per.Deadline, today)
		if class == reminder.None {
			continue
		}
		kind := mailer.KindReminderUpcoming
		if class == reminder.Overdue {
			kind = mailer.KindReminderOverdue
		}

		deliveries, err := s.repo.Delivery.ListByPeriod(ctx, per.PeriodID)
		if err != nil {
			s.logger.Error("list period deliveries failed", zap.String("period", per.PeriodID), zap.Error(err))
			return nil, err
		}
		per.Cycle = cycle
		s.dispatch(ctx, per, deliveries, kind, mailer.Data{}, result)
	}

	s.logger.Info("daily reminders done",
		zap.String("cycle", cycle.Name),
		zap.Int("evaluated", result.Evaluated),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// ────────────────────── SendProgram ──────────────────────

func (s *reminderService) SendProgram(ctx context.Context, programID, message string) (*dto.ReminderResult, error) {
	if _, err := s.repo.Program.GetByID(ctx, programID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	cycle, err := activeCycle(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	periods, err := s.repo.Period.ListByProgramCycle(ctx, programID, cycle.CycleID)
	if err != nil {
		s.logger.Error("list program periods failed", zap.String("program", programID), zap.Error(err))
		return nil, err
	}

	extra := mailer.Data{CustomMessage: strings.TrimSpace(message)}
	result := &dto.ReminderResult{}
	for i := range periods {
		per := &periods[i]
		if !per.IsActive {
			continue
		}
		result.Evaluated++
		full, err := s.repo.Period.GetByID(ctx, per.PeriodID)
		if err != nil {
			return nil, err
		}
		deliveries, err := s.repo.Delivery.ListByPeriod(ctx, per.PeriodID)
		if err != nil {
			s.logger.Error("list period deliveries failed", zap.String("period", per.PeriodID), zap.Error(err))
			return nil, err
		}
		s.dispatch(ctx, full, deliveries, mailer.KindReminderManual, extra, result)
	}

	s.logger.Info("manual program reminders done",
		zap.String("program", programID),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// ────────────────────── SendOne ──────────────────────

func (s *reminderService) SendOne(ctx context.Context, deliveryID, message string) error {
	d, err := s.repo.Delivery.GetByID(ctx, deliveryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDeliveryNotFound
		}
		return err
	}
	if !reminder.Eligible(delivery.Status(d.Status)) {
		return ErrNotRemindable
	}
	extra := mailer.Data{CustomMessage: strings.TrimSpace(message)}
	if err := s.notify.send(ctx, mailer.KindReminderManual, d, extra); err != nil {
		return collaborator(err)
	}
	return nil
}

// dispatch mails every remindable delivery of one period; failures are
// counted, never fatal.
func (s *reminderService) dispatch(ctx context.Context, per *model.Period, deliveries []model.Delivery, kind mailer.Kind, extra mailer.Data, result *dto.ReminderResult) {
	for i := range deliveries {
		d := &deliveries[i]
		if !reminder.Eligible(delivery.Status(d.Status)) {
			continue
		}
		d.Period = per
		if err := s.notify.send(ctx, kind, d, extra); err != nil {
			result.Failed++
			continue
		}
		result.Sent++
	}
}
