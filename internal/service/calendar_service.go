package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/delivery"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/period"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/repository"
	pkgerrors "github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/errors"
)

const calendarProductID = "-//Supervision Escolar//Portal ATP//ES"

// CalendarService exports delivery deadlines as iCalendar.
type CalendarService interface {
	// SchoolCalendar one all-day VEVENT per active period with a deadline.
	SchoolCalendar(ctx context.Context, p Principal) ([]byte, error)
}

type calendarService struct {
	repo      *repository.Repository
	loc       *time.Location
	portalURL string
	logger    *zap.Logger
}

// NewCalendarService creates a CalendarService.
func NewCalendarService(repo *repository.Repository, loc *time.Location, portalURL string, logger *zap.Logger) CalendarService {
	if loc == nil {
		loc = time.UTC
	}
	return &calendarService{repo: repo, loc: loc, portalURL: portalURL, logger: logger}
}

func (s *calendarService) SchoolCalendar(ctx context.Context, p Principal) ([]byte, error) {
	school, err := s.repo.School.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolNotFound
		}
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName(fmt.Sprintf("Entregas %s", school.CCT))
	cal.SetXWRTimezone(s.loc.String())

	cycle, err := activeCycle(ctx, s.repo)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNoActiveCycle) {
			return []byte(cal.Serialize()), nil
		}
		return nil, err
	}
	periods, err := s.repo.Period.ListByCycle(ctx, cycle.CycleID, true)
	if err != nil {
		s.logger.Error("list active periods failed", zap.Error(err))
		return nil, err
	}
	deliveries, err := s.repo.Delivery.ListBySchoolAndPeriods(ctx, school.SchoolID, periodIDs(periods))
	if err != nil {
		return nil, err
	}
	statusOf := make(map[string]delivery.Status, len(deliveries))
	for _, d := range deliveries {
		statusOf[d.PeriodID] = delivery.Status(d.Status)
	}

	now := time.Now().UTC()
	for i := range periods {
		per := &periods[i]
		if per.Deadline == nil || per.Program == nil {
			continue
		}
		status, ok := statusOf[per.PeriodID]
		if !ok {
			continue
		}

		label := period.Label(per.Month, per.Year, per.Semester, cycle.Name)
		day := per.Deadline.In(s.loc)
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

		ev := cal.AddEvent(fmt.Sprintf("%s-%s@atp", per.PeriodID, school.SchoolID))
		ev.SetDtStampTime(now)
		ev.SetAllDayStartAt(start)
		ev.SetAllDayEndAt(start.AddDate(0, 0, 1))
		ev.SetSummary(fmt.Sprintf("Entrega: %s (%s)", per.Program.Name, label))
		ev.SetDescription(strings.Join([]string{
			"Programa: " + per.Program.Name,
			"Periodo: " + label,
			"Fecha límite: " + period.LongDate(*per.Deadline, s.loc),
			"Estado: " + status.Label(),
		}, "\n"))
		if s.portalURL != "" {
			ev.SetURL(s.portalURL)
		}
		if status.Remindable() {
			alarm := ev.AddAlarm()
			alarm.SetAction(ics.ActionDisplay)
			alarm.SetTrigger("-P1D")
		}
	}

	return []byte(cal.Serialize()), nil
}
