package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/repository"
	pkgerrors "github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/errors"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/docgen"
)

var (
	ErrCircular05Inactive = errors.New("el módulo de Circular 05 no está activo")
	ErrCircular05Render   = errors.New("no se pudo generar el documento")
)

// MissingFieldsError lists required Circular 05 fields left blank.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "faltan campos obligatorios: " + strings.Join(e.Fields, ", ")
}

// Circular05Document rendered .docx ready to be served.
type Circular05Document struct {
	FileName string
	Content  []byte
}

// Circular05Service event participation requests (Circular 05).
type Circular05Service interface {
	GetConfig(ctx context.Context) (*dto.Circular05ConfigResponse, error)
	UpdateConfig(ctx context.Context, req *dto.Circular05ConfigRequest) (*dto.Circular05ConfigResponse, error)
	// Generate renders the document for the director's school and logs the download.
	Generate(ctx context.Context, p Principal, data *docgen.Circular05) (*Circular05Document, error)
	ListDownloads(ctx context.Context) ([]dto.Circular05SchoolDownloads, error)
}

type circular05Service struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCircular05Service creates a Circular05Service.
func NewCircular05Service(repo *repository.Repository, logger *zap.Logger) Circular05Service {
	return &circular05Service{repo: repo, logger: logger}
}

func (s *circular05Service) GetConfig(ctx context.Context) (*dto.Circular05ConfigResponse, error) {
	cfg, err := s.repo.Circular05.GetConfig(ctx)
	if err != nil {
		s.logger.Error("get circular05 config failed", zap.Error(err))
		return nil, err
	}
	resp := toCircular05Config(cfg)
	return &resp, nil
}

func (s *circular05Service) UpdateConfig(ctx context.Context, req *dto.Circular05ConfigRequest) (*dto.Circular05ConfigResponse, error) {
	cfg, err := s.repo.Circular05.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		cfg.IsActive = *req.IsActive
	}
	if req.Recipient != nil {
		cfg.Recipient = strings.TrimSpace(*req.Recipient)
	}
	if req.RecipientTitle != nil {
		cfg.RecipientTitle = strings.TrimSpace(*req.RecipientTitle)
	}
	if req.RecipientZone != nil {
		cfg.RecipientZone = strings.TrimSpace(*req.RecipientZone)
	}
	if err := s.repo.Circular05.SaveConfig(ctx, cfg); err != nil {
		s.logger.Error("save circular05 config failed", zap.Error(err))
		return nil, err
	}
	resp := toCircular05Config(cfg)
	return &resp, nil
}

func (s *circular05Service) Generate(ctx context.Context, p Principal, data *docgen.Circular05) (*Circular05Document, error) {
	cfg, err := s.repo.Circular05.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.IsActive {
		return nil, ErrCircular05Inactive
	}
	school, err := s.repo.School.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolNotFound
		}
		return nil, err
	}

	// the school identity always comes from the account
	data.CCT = school.CCT
	fill(&data.SchoolName, school.Name)
	fill(&data.Locality, school.Locality)
	fill(&data.Municipality, school.Municipality)
	if school.DirectorName != nil {
		fill(&data.DirectorName, *school.DirectorName)
	}
	fill(&data.Recipient, cfg.Recipient)
	fill(&data.RecipientTitle, cfg.RecipientTitle)
	fill(&data.RecipientZone, cfg.RecipientZone)

	if cycle, err := activeCycle(ctx, s.repo); err == nil {
		data.CycleName = cycle.Name
	} else if !errors.Is(err, pkgerrors.ErrNoActiveCycle) {
		return nil, err
	}

	if missing := data.Missing(); len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	content, err := docgen.RenderCircular05(data)
	if err != nil {
		s.logger.Error("render circular05 failed", zap.String("cct", school.CCT), zap.Error(err))
		return nil, ErrCircular05Render
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	download := &model.Circular05Download{SchoolID: school.SchoolID, EventName: data.EventName, Data: datatypes.JSON(raw)}
	if err := s.repo.Circular05.CreateDownload(ctx, download); err != nil {
		// the document is still served; the log entry is what is lost
		s.logger.Warn("record circular05 download failed", zap.String("cct", school.CCT), zap.Error(err))
	}

	s.logger.Info("circular05 generated", zap.String("cct", school.CCT), zap.String("event", data.EventName))
	return &Circular05Document{FileName: data.FileName(), Content: content}, nil
}

func (s *circular05Service) ListDownloads(ctx context.Context) ([]dto.Circular05SchoolDownloads, error) {
	rows, err := s.repo.Circular05.ListDownloads(ctx, "")
	if err != nil {
		s.logger.Error("list circular05 downloads failed", zap.Error(err))
		return nil, err
	}

	var order []string
	groups := map[string]*dto.Circular05SchoolDownloads{}
	for i := range rows {
		r := &rows[i]
		g, ok := groups[r.SchoolID]
		if !ok {
			g = &dto.Circular05SchoolDownloads{SchoolID: r.SchoolID}
			if r.School != nil {
				g.CCT = r.School.CCT
				g.Name = r.School.Name
			}
			groups[r.SchoolID] = g
			order = append(order, r.SchoolID)
		}
		g.Downloads = append(g.Downloads, dto.Circular05DownloadResponse{
			ID:        r.DownloadID,
			EventName: r.EventName,
			Data:      json.RawMessage(r.Data),
			CreatedAt: r.CreatedAt.Format(timeLayout),
		})
	}

	out := make([]dto.Circular05SchoolDownloads, 0, len(order))
	for _, id := range order {
		out = append(out, *groups[id])
	}
	return out, nil
}

func fill(dst *string, fallback string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = fallback
	}
}

func toCircular05Config(c *model.Circular05Config) dto.Circular05ConfigResponse {
	return dto.Circular05ConfigResponse{
		IsActive:       c.IsActive,
		Recipient:      c.Recipient,
		RecipientTitle: c.RecipientTitle,
		RecipientZone:  c.RecipientZone,
	}
}
