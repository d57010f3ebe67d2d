package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/repository"
	pkgerrors "github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/errors"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/storage"
)

// ── school errors ──

var (
	ErrSchoolNotFound   = errors.New("escuela no encontrada")
	ErrSchoolCCTTaken   = errors.New("ya existe una escuela con ese CCT")
	ErrSchoolEmailTaken = errors.New("el correo ya está registrado")
	ErrOverrideProgram  = errors.New("programa inexistente en la configuración de archivos")
)

// SchoolService school roster.
type SchoolService interface {
	List(ctx context.Context) ([]dto.SchoolResponse, error)
	Get(ctx context.Context, id string) (*dto.SchoolResponse, error)
	// Create registers a school and gives it one delivery per period of the
	// active cycle.
	Create(ctx context.Context, req *dto.CreateSchoolRequest) (*dto.SchoolResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSchoolRequest) (*dto.SchoolResponse, error)
	// Delete removes the school with its whole history; stored files are
	// cleaned up best effort.
	Delete(ctx context.Context, id string) error
	ListOverrides(ctx context.Context, id string) ([]dto.ProgramOverride, error)
	SetOverrides(ctx context.Context, id string, req *dto.SetOverridesRequest) ([]dto.ProgramOverride, error)
}

type schoolService struct {
	repo       *repository.Repository
	store      storage.Store
	bcryptCost int
	logger     *zap.Logger
}

// NewSchoolService creates a SchoolService.
func NewSchoolService(repo *repository.Repository, store storage.Store, bcryptCost int, logger *zap.Logger) SchoolService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &schoolService{repo: repo, store: store, bcryptCost: bcryptCost, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *schoolService) List(ctx context.Context) ([]dto.SchoolResponse, error) {
	schools, err := s.repo.School.List(ctx)
	if err != nil {
		s.logger.Error("list schools failed", zap.Error(err))
		return nil, err
	}

	counts := map[string]map[string]int{}
	cycle, err := activeCycle(ctx, s.repo)
	switch {
	case err == nil:
		rows, err := s.repo.Delivery.CountsBySchool(ctx, cycle.CycleID)
		if err != nil {
			s.logger.Error("count deliveries failed", zap.Error(err))
			return nil, err
		}
		for _, r := range rows {
			if counts[r.SchoolID] == nil {
				counts[r.SchoolID] = map[string]int{}
			}
			counts[r.SchoolID][r.Status] = r.Total
		}
	case errors.Is(err, pkgerrors.ErrNoActiveCycle):
		// counts stay empty
	default:
		return nil, err
	}

	out := make([]dto.SchoolResponse, 0, len(schools))
	for i := range schools {
		resp := toSchoolResponse(&schools[i])
		resp.Counts = counts[schools[i].SchoolID]
		out = append(out, resp)
	}
	return out, nil
}

// ────────────────────── Get ──────────────────────

func (s *schoolService) Get(ctx context.Context, id string) (*dto.SchoolResponse, error) {
	school, err := s.getSchool(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toSchoolResponse(school)
	return &resp, nil
}

// ────────────────────── Create ──────────────────────

func (s *schoolService) Create(ctx context.Context, req *dto.CreateSchoolRequest) (*dto.SchoolResponse, error) {
	cct := strings.ToUpper(strings.TrimSpace(req.CCT))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.repo.School.GetByCCT(ctx, cct); err == nil {
		return nil, ErrSchoolCCTTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup school by cct failed", zap.Error(err))
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	// roster sync needs an unambiguous cycle; none at all is fine
	cycle, err := activeCycle(ctx, s.repo)
	if err != nil && !errors.Is(err, pkgerrors.ErrNoActiveCycle) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	school := &model.School{
		CCT:            cct,
		Name:           strings.TrimSpace(req.Name),
		Locality:       strings.TrimSpace(req.Locality),
		Municipality:   strings.TrimSpace(req.Municipality),
		Email:          email,
		DirectorName:   req.DirectorName,
		PasswordHash:   string(hash),
		StudentsMale:   req.StudentsMale,
		StudentsFemale: req.StudentsFemale,
	}

	created := 0
	err = inTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.School.Create(ctx, school); err != nil {
			return err
		}
		if cycle == nil {
			return nil
		}
		periods, err := txRepo.Period.ListByCycle(ctx, cycle.CycleID, false)
		if err != nil {
			return err
		}
		created, err = backfillDeliveries(ctx, txRepo, periodIDs(periods), []string{school.SchoolID})
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSchoolCCTTaken
		}
		s.logger.Error("create school failed", zap.String("cct", cct), zap.Error(err))
		return nil, err
	}

	s.logger.Info("school created", zap.String("cct", cct), zap.Int("deliveries", created))
	resp := toSchoolResponse(school)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *schoolService) Update(ctx context.Context, id string, req *dto.UpdateSchoolRequest) (*dto.SchoolResponse, error) {
	school, err := s.getSchool(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		school.Name = strings.TrimSpace(*req.Name)
	}
	if req.Locality != nil {
		school.Locality = strings.TrimSpace(*req.Locality)
	}
	if req.Municipality != nil {
		school.Municipality = strings.TrimSpace(*req.Municipality)
	}
	if req.DirectorName != nil {
		school.DirectorName = req.DirectorName
	}
	if req.StudentsMale != nil {
		school.StudentsMale = *req.StudentsMale
	}
	if req.StudentsFemale != nil {
		school.StudentsFemale = *req.StudentsFemale
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != school.Email {
			if err := s.ensureEmailFree(ctx, email, school.SchoolID); err != nil {
				return nil, err
			}
			school.Email = email
		}
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			s.logger.Error("hash password failed", zap.Error(err))
			return nil, err
		}
		school.PasswordHash = string(hash)
	}

	if err := s.repo.School.Update(ctx, school); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSchoolEmailTaken
		}
		s.logger.Error("update school failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toSchoolResponse(school)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *schoolService) Delete(ctx context.Context, id string) error {
	school, err := s.getSchool(ctx, id)
	if err != nil {
		return err
	}

	blobs, err := s.repo.Delivery.ListBlobIDsBySchool(ctx, id)
	if err != nil {
		s.logger.Error("list school files failed", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.School.Delete(ctx, id); err != nil {
		s.logger.Error("delete school failed", zap.String("id", id), zap.Error(err))
		return err
	}

	for _, blob := range blobs {
		if err := s.store.Delete(ctx, blob); err != nil {
			s.logger.Warn("blob cleanup failed", zap.String("cct", school.CCT), zap.String("blob", blob), zap.Error(err))
		}
	}

	s.logger.Info("school deleted", zap.String("cct", school.CCT), zap.Int("files", len(blobs)))
	return nil
}

// ────────────────────── Overrides ──────────────────────

func (s *schoolService) ListOverrides(ctx context.Context, id string) ([]dto.ProgramOverride, error) {
	if _, err := s.getSchool(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.repo.School.ListOverrides(ctx, id)
	if err != nil {
		s.logger.Error("list overrides failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	out := make([]dto.ProgramOverride, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ProgramOverride{ProgramID: r.ProgramID, NumFiles: r.NumFiles})
	}
	return out, nil
}

func (s *schoolService) SetOverrides(ctx context.Context, id string, req *dto.SetOverridesRequest) ([]dto.ProgramOverride, error) {
	if _, err := s.getSchool(ctx, id); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(req.Overrides))
	rows := make([]model.SchoolProgramOverride, 0, len(req.Overrides))
	for _, o := range req.Overrides {
		if seen[o.ProgramID] {
			continue
		}
		seen[o.ProgramID] = true
		if _, err := s.repo.Program.GetByID(ctx, o.ProgramID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrOverrideProgram
			}
			s.logger.Error("get program failed", zap.String("id", o.ProgramID), zap.Error(err))
			return nil, err
		}
		rows = append(rows, model.SchoolProgramOverride{SchoolID: id, ProgramID: o.ProgramID, NumFiles: o.NumFiles})
	}

	err := inTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		return txRepo.School.ReplaceOverrides(ctx, id, rows)
	})
	if err != nil {
		s.logger.Error("replace overrides failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.ListOverrides(ctx, id)
}

// ── helpers ──

func (s *schoolService) getSchool(ctx context.Context, id string) (*model.School, error) {
	school, err := s.repo.School.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolNotFound
		}
		s.logger.Error("get school failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return school, nil
}

// ensureEmailFree rejects addresses used by another school or by an admin,
// since sign-in resolves accounts by email.
func (s *schoolService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	other, err := s.repo.School.GetByEmail(ctx, email)
	if err == nil && other.SchoolID != selfID {
		return ErrSchoolEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup school by email failed", zap.Error(err))
		return err
	}
	if _, err := s.repo.Admin.GetByEmail(ctx, email); err == nil {
		return ErrSchoolEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup admin by email failed", zap.Error(err))
		return err
	}
	return nil
}

func toSchoolResponse(sc *model.School) dto.SchoolResponse {
	return dto.SchoolResponse{
		ID:             sc.SchoolID,
		CCT:            sc.CCT,
		Name:           sc.Name,
		Locality:       sc.Locality,
		Municipality:   sc.Municipality,
		Email:          sc.Email,
		DirectorName:   sc.DirectorName,
		StudentsMale:   sc.StudentsMale,
		StudentsFemale: sc.StudentsFemale,
		LastLoginAt:    formatTime(sc.LastLoginAt),
		CreatedAt:      sc.CreatedAt.Format(timeLayout),
	}
}
