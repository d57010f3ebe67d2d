package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/config"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/reminder"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/repository"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/jwt"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/mailer"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/redis"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/storage"
)

// Service aggregates every service of the portal.
type Service struct {
	Auth       AuthService
	Cycle      CycleService
	School     SchoolService
	Program    ProgramService
	Period     PeriodService
	Delivery   DeliveryService
	Reminder   ReminderService
	Status     StatusService
	Event      EventService
	Admin      AdminService
	Export     ExportService
	Calendar   CalendarService
	Circular05 Circular05Service
	Resource   ResourceService
}

// NewService wires the services. rdb may be nil (no token blacklist).
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	store storage.Store,
	m mailer.Mailer,
	logger *zap.Logger,
) *Service {
	policy := ReminderPolicy(cfg.Reminder, logger)
	maxUpload := cfg.Storage.MaxUploadBytes

	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Cycle:      NewCycleService(repo, logger),
		School:     NewSchoolService(repo, store, cfg.Auth.BcryptCost, logger),
		Program:    NewProgramService(repo, cfg.Generator.MonthlyDeadlineDay, logger),
		Period:     NewPeriodService(repo, logger),
		Delivery:   NewDeliveryService(repo, store, m, policy.Location, maxUpload, logger),
		Reminder:   NewReminderService(repo, m, policy, logger),
		Status:     NewStatusService(repo, logger),
		Event:      NewEventService(repo, logger),
		Admin:      NewAdminService(repo, cfg.Auth.BcryptCost, logger),
		Export:     NewExportService(repo, policy.Location, logger),
		Calendar:   NewCalendarService(repo, policy.Location, cfg.Mail.PortalURL, logger),
		Circular05: NewCircular05Service(repo, logger),
		Resource:   NewResourceService(repo, store, maxUpload, logger),
	}
}

// ReminderPolicy builds the reminder policy from configuration. An unknown
// timezone falls back to UTC.
func ReminderPolicy(c config.ReminderConfig, logger *zap.Logger) reminder.Policy {
	policy := reminder.Default
	if c.UpcomingDays != 0 {
		policy.UpcomingDays = c.UpcomingDays
	}
	if c.OverdueDays != 0 {
		policy.OverdueDays = c.OverdueDays
	}
	if c.Timezone != "" {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			logger.Warn("unknown reminder timezone, using UTC", zap.String("timezone", c.Timezone), zap.Error(err))
		} else {
			policy.Location = loc
		}
	}
	return policy
}
