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
)

var (
	ErrAdminNotFound       = errors.New("administrador no encontrado")
	ErrAdminEmailTaken     = errors.New("el correo ya está registrado")
	ErrSelfDelete          = errors.New("no puede eliminar su propia cuenta")
	ErrAdminHasCorrections = errors.New("el administrador tiene correcciones registradas y no puede eliminarse")
)

// AdminService manages ATP accounts.
type AdminService interface {
	List(ctx context.Context) ([]dto.AdminResponse, error)
	Create(ctx context.Context, req *dto.CreateAdminRequest) (*dto.AdminResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateAdminRequest) (*dto.AdminResponse, error)
	Delete(ctx context.Context, p Principal, id string) error
}

type adminService struct {
	repo       *repository.Repository
	bcryptCost int
	logger     *zap.Logger
}

// NewAdminService creates an AdminService.
func NewAdminService(repo *repository.Repository, bcryptCost int, logger *zap.Logger) AdminService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &adminService{repo: repo, bcryptCost: bcryptCost, logger: logger}
}

func (s *adminService) List(ctx context.Context) ([]dto.AdminResponse, error) {
	admins, err := s.repo.Admin.List(ctx)
	if err != nil {
		s.logger.Error("list admins failed", zap.Error(err))
		return nil, err
	}
	out := make([]dto.AdminResponse, 0, len(admins))
	for i := range admins {
		out = append(out, toAdminResponse(&admins[i]))
	}
	return out, nil
}

func (s *adminService) Create(ctx context.Context, req *dto.CreateAdminRequest) (*dto.AdminResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = model.RoleATPReader
	}

	admin := &model.Admin{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.repo.Admin.Create(ctx, admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAdminEmailTaken
		}
		s.logger.Error("create admin failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("admin created", zap.String("email", email), zap.String("role", role))
	resp := toAdminResponse(admin)
	return &resp, nil
}

func (s *adminService) Update(ctx context.Context, id string, req *dto.UpdateAdminRequest) (*dto.AdminResponse, error) {
	admin, err := s.getAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		admin.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		admin.Role = *req.Role
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			s.logger.Error("hash password failed", zap.Error(err))
			return nil, err
		}
		admin.PasswordHash = string(hash)
	}
	if err := s.repo.Admin.Update(ctx, admin); err != nil {
		s.logger.Error("update admin failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toAdminResponse(admin)
	return &resp, nil
}

func (s *adminService) Delete(ctx context.Context, p Principal, id string) error {
	if p.UserID == id {
		return ErrSelfDelete
	}
	if _, err := s.getAdmin(ctx, id); err != nil {
		return err
	}
	n, err := s.repo.Correction.CountByAdmin(ctx, id)
	if err != nil {
		s.logger.Error("count admin corrections failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if n > 0 {
		return ErrAdminHasCorrections
	}
	if err := s.repo.Admin.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrAdminHasCorrections
		}
		s.logger.Error("delete admin failed", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("admin deleted", zap.String("id", id), zap.String("by", p.UserID))
	return nil
}

func (s *adminService) getAdmin(ctx context.Context, id string) (*model.Admin, error) {
	admin, err := s.repo.Admin.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		s.logger.Error("get admin failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return admin, nil
}

func (s *adminService) ensureEmailFree(ctx context.Context, email string) error {
	if _, err := s.repo.Admin.GetByEmail(ctx, email); err == nil {
		return ErrAdminEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if _, err := s.repo.School.GetByEmail(ctx, email); err == nil {
		return ErrAdminEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func toAdminResponse(a *model.Admin) dto.AdminResponse {
	return dto.AdminResponse{
		ID:        a.AdminID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      a.Role,
		CreatedAt: a.CreatedAt.Format(timeLayout),
	}
}
