package service

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/event"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/repository"
)

var (
	ErrRegistrationClosed   = errors.New("el registro de eventos está cerrado")
	ErrRegistrationNotFound = errors.New("la escuela no tiene registro de eventos")
)

// EventService cultural and sports event registration.
type EventService interface {
	Catalog(ctx context.Context) ([]dto.CategoryResponse, error)
	// Registration what a director sees, including the open flag.
	Registration(ctx context.Context, p Principal) (*dto.RegistrationResponse, error)
	Save(ctx context.Context, p Principal, sub event.Submission) (*dto.RegistrationResponse, error)
	Summary(ctx context.Context) (*dto.EventSummary, error)
	SetOpen(ctx context.Context, open bool) error
	DeleteRegistration(ctx context.Context, schoolID string) error
}

type eventService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEventService creates an EventService.
func NewEventService(repo *repository.Repository, logger *zap.Logger) EventService {
	return &eventService{repo: repo, logger: logger}
}

func (s *eventService) Catalog(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.Event.ListCategories(ctx)
	if err != nil {
		s.logger.Error("list event categories failed", zap.Error(err))
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		cr := dto.CategoryResponse{ID: c.CategoryID, Name: c.Name, Color: c.Color, Disciplines: []dto.DisciplineResponse{}}
		for _, d := range c.Disciplines {
			cr.Disciplines = append(cr.Disciplines, dto.DisciplineResponse{
				ID:             d.DisciplineID,
				Name:           d.Name,
				Kind:           d.Kind,
				Min:            d.MinParticipants,
				Max:            d.MaxParticipants,
				ExclusionGroup: d.ExclusionGroup,
			})
		}
		out = append(out, cr)
	}
	return out, nil
}

func (s *eventService) Registration(ctx context.Context, p Principal) (*dto.RegistrationResponse, error) {
	cfg, err := s.repo.Event.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.RegistrationResponse{IsOpen: cfg.IsOpen, Catalog: catalog, Data: event.Submission{}}

	reg, err := s.repo.Event.GetRegistration(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resp, nil
		}
		s.logger.Error("get registration failed", zap.String("school", p.UserID), zap.Error(err))
		return nil, err
	}
	sub, err := decodeSubmission(reg.Data)
	if err != nil {
		s.logger.Error("decode registration failed", zap.String("school", p.UserID), zap.Error(err))
		return nil, err
	}
	resp.Data = sub
	resp.UpdatedAt = formatTime(&reg.UpdatedAt)
	return resp, nil
}

func (s *eventService) Save(ctx context.Context, p Principal, sub event.Submission) (*dto.RegistrationResponse, error) {
	cfg, err := s.repo.Event.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.IsOpen {
		return nil, ErrRegistrationClosed
	}

	catalog, err := s.disciplines(ctx)
	if err != nil {
		return nil, err
	}
	if err := event.Validate(catalog, sub); err != nil {
		return nil, err
	}

	// entries not participating are not worth storing
	clean := event.Submission{}
	for id, e := range sub {
		if e.Participates {
			clean[id] = e
		}
	}
	raw, err := json.Marshal(clean)
	if err != nil {
		return nil, err
	}
	reg := &model.EventRegistration{SchoolID: p.UserID, Data: datatypes.JSON(raw)}
	if err := s.repo.Event.UpsertRegistration(ctx, reg); err != nil {
		s.logger.Error("save registration failed", zap.String("school", p.UserID), zap.Error(err))
		return nil, err
	}

	active, participants := event.Summary(clean)
	s.logger.Info("event registration saved",
		zap.String("cct", p.CCT),
		zap.Int("disciplines", active),
		zap.Int("participants", participants),
	)
	return s.Registration(ctx, p)
}

func (s *eventService) Summary(ctx context.Context) (*dto.EventSummary, error) {
	cfg, err := s.repo.Event.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := s.disciplines(ctx)
	if err != nil {
		return nil, err
	}
	schools, err := s.repo.School.List(ctx)
	if err != nil {
		s.logger.Error("list schools failed", zap.Error(err))
		return nil, err
	}
	regs, err := s.repo.Event.ListRegistrations(ctx)
	if err != nil {
		s.logger.Error("list registrations failed", zap.Error(err))
		return nil, err
	}
	bySchool := make(map[string]*model.EventRegistration, len(regs))
	for i := range regs {
		bySchool[regs[i].SchoolID] = &regs[i]
	}

	out := &dto.EventSummary{
		IsOpen:         cfg.IsOpen,
		MaxDisciplines: event.MaxPossible(catalog),
		Schools:        make([]dto.EventSchoolSummary, 0, len(schools)),
	}
	for _, sc := range schools {
		row := dto.EventSchoolSummary{SchoolID: sc.SchoolID, CCT: sc.CCT, Name: sc.Name}
		if reg, ok := bySchool[sc.SchoolID]; ok {
			sub, err := decodeSubmission(reg.Data)
			if err != nil {
				s.logger.Warn("skipping unreadable registration", zap.String("cct", sc.CCT), zap.Error(err))
			} else {
				row.Registered = true
				row.ActiveDisciplines, row.Participants = event.Summary(sub)
				row.UpdatedAt = formatTime(&reg.UpdatedAt)
			}
		}
		out.Schools = append(out.Schools, row)
	}
	return out, nil
}

func (s *eventService) SetOpen(ctx context.Context, open bool) error {
	cfg, err := s.repo.Event.GetConfig(ctx)
	if err != nil {
		return err
	}
	cfg.IsOpen = open
	if err := s.repo.Event.SaveConfig(ctx, cfg); err != nil {
		s.logger.Error("save event config failed", zap.Error(err))
		return err
	}
	s.logger.Info("event registration toggled", zap.Bool("open", open))
	return nil
}

func (s *eventService) DeleteRegistration(ctx context.Context, schoolID string) error {
	if _, err := s.repo.Event.GetRegistration(ctx, schoolID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRegistrationNotFound
		}
		return err
	}
	if err := s.repo.Event.DeleteRegistration(ctx, schoolID); err != nil {
		s.logger.Error("delete registration failed", zap.String("school", schoolID), zap.Error(err))
		return err
	}
	return nil
}

// disciplines loads the catalog in the shape the validator takes.
func (s *eventService) disciplines(ctx context.Context) ([]event.Discipline, error) {
	rows, err := s.repo.Event.ListDisciplines(ctx)
	if err != nil {
		s.logger.Error("list disciplines failed", zap.Error(err))
		return nil, err
	}
	return toDisciplines(rows), nil
}

func toDisciplines(rows []model.EventDiscipline) []event.Discipline {
	out := make([]event.Discipline, 0, len(rows))
	for _, r := range rows {
		d := event.Discipline{
			ID:   r.DisciplineID,
			Name: r.Name,
			Kind: event.Kind(r.Kind),
			Min:  r.MinParticipants,
			Max:  r.MaxParticipants,
		}
		if r.ExclusionGroup != nil {
			d.ExclusionGroup = *r.ExclusionGroup
		}
		out = append(out, d)
	}
	return out
}

func decodeSubmission(raw datatypes.JSON) (event.Submission, error) {
	sub := event.Submission{}
	if len(raw) == 0 {
		return sub, nil
	}
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, err
	}
	return sub, nil
}
