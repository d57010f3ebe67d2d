package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/config"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/repository"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/jwt"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/redis"
)

var (
	ErrInvalidCredentials = errors.New("correo o contraseña incorrectos")
	ErrInvalidRefresh     = errors.New("sesión expirada, inicie sesión de nuevo")
	ErrAccountNotFound    = errors.New("la cuenta ya no existe")
)

// AuthService sign-in for admins and directors.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout revokes the access token jti and, when given, the refresh token.
	Logout(ctx context.Context, accessJTI string, accessExp time.Time, refreshToken string) error
	Me(ctx context.Context, p Principal) (*dto.AccountResponse, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client // nil disables revocation
	logger *zap.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		logger: logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// admins take precedence over schools sharing the address
	admin, err := s.repo.Admin.GetByEmail(ctx, req.Email)
	if err == nil {
		if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
			return nil, ErrInvalidCredentials
		}
		return s.issue(adminAccount(admin), req.RememberMe)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup admin failed", zap.Error(err))
		return nil, err
	}

	school, err := s.repo.School.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("lookup school failed", zap.Error(err))
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(school.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.repo.School.TouchLogin(ctx, school.SchoolID, time.Now()); err != nil {
		s.logger.Warn("stamp last login failed", zap.String("cct", school.CCT), zap.Error(err))
	}

	return s.issue(schoolAccount(school), req.RememberMe)
}

// ────────────────────── Refresh ──────────────────────

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidRefresh
	}
	if s.rdb != nil {
		revoked, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("blacklist lookup failed", zap.Error(err))
		} else if revoked {
			return nil, ErrInvalidRefresh
		}
	}

	// the account may have been deleted or changed role since sign-in
	var account dto.AccountResponse
	if claims.Role == model.RoleDirector {
		school, err := s.repo.School.GetByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAccountNotFound
			}
			s.logger.Error("lookup school failed", zap.String("id", claims.UserID), zap.Error(err))
			return nil, err
		}
		account = schoolAccount(school)
	} else {
		admin, err := s.repo.Admin.GetByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAccountNotFound
			}
			s.logger.Error("lookup admin failed", zap.String("id", claims.UserID), zap.Error(err))
			return nil, err
		}
		account = adminAccount(admin)
	}

	access, err := s.jwtMgr.GenerateAccessToken(account.ID, account.Role, account.CCT)
	if err != nil {
		s.logger.Error("sign access token failed", zap.Error(err))
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken: access,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:        account,
	}, nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, accessJTI string, accessExp time.Time, refreshToken string) error {
	if s.rdb == nil {
		return nil
	}
	if accessJTI != "" {
		if err := s.rdb.BlacklistToken(ctx, accessJTI, time.Until(accessExp)); err != nil {
			s.logger.Error("revoke access token failed", zap.Error(err))
			return err
		}
	}
	if refreshToken == "" {
		return nil
	}
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.rdb.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		s.logger.Warn("revoke refresh token failed", zap.Error(err))
	}
	return nil
}

// ────────────────────── Me ──────────────────────

func (s *authService) Me(ctx context.Context, p Principal) (*dto.AccountResponse, error) {
	if p.IsDirector() {
		school, err := s.repo.School.GetByID(ctx, p.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAccountNotFound
			}
			s.logger.Error("lookup school failed", zap.String("id", p.UserID), zap.Error(err))
			return nil, err
		}
		account := schoolAccount(school)
		return &account, nil
	}

	admin, err := s.repo.Admin.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		s.logger.Error("lookup admin failed", zap.String("id", p.UserID), zap.Error(err))
		return nil, err
	}
	account := adminAccount(admin)
	return &account, nil
}

// ── helpers ──

func (s *authService) issue(account dto.AccountResponse, rememberMe bool) (*dto.TokenResponse, error) {
	access, err := s.jwtMgr.GenerateAccessToken(account.ID, account.Role, account.CCT)
	if err != nil {
		s.logger.Error("sign access token failed", zap.Error(err))
		return nil, err
	}
	refresh, err := s.jwtMgr.GenerateRefreshToken(account.ID, account.Role, account.CCT, rememberMe)
	if err != nil {
		s.logger.Error("sign refresh token failed", zap.Error(err))
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         account,
	}, nil
}

func adminAccount(a *model.Admin) dto.AccountResponse {
	return dto.AccountResponse{ID: a.AdminID, Name: a.Name, Email: a.Email, Role: a.Role}
}

func schoolAccount(sc *model.School) dto.AccountResponse {
	return dto.AccountResponse{ID: sc.SchoolID, Name: sc.Name, Email: sc.Email, Role: model.RoleDirector, CCT: sc.CCT}
}
