package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/config"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/service"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/response"
)

const refreshCookie = "refresh_token"

// AuthHandler sign-in endpoints for admins and directors.
type AuthHandler struct {
	authSvc service.AuthService
	cfg     *config.AuthConfig
}

// NewAuthHandler creates an AuthHandler. cfg may be nil in tests; the
// refresh cookie then uses the default settings.
func NewAuthHandler(authSvc service.AuthService, cfg *config.AuthConfig) *AuthHandler {
	if cfg == nil {
		cfg = &config.AuthConfig{RefreshTokenTTLDefault: 24 * time.Hour, RefreshTokenTTLRemember: 30 * 24 * time.Hour}
	}
	return &AuthHandler{authSvc: authSvc, cfg: cfg}
}

// Login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	ttl := h.cfg.RefreshTokenTTLDefault
	if req.RememberMe {
		ttl = h.cfg.RefreshTokenTTLRemember
	}
	h.setRefreshCookie(c, result.RefreshToken, int(ttl.Seconds()))
	response.OK(c, result)
}

// RefreshToken accepts the token from the cookie or the JSON body.
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(refreshCookie)
	if token == "" {
		var req dto.RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		response.BadRequest(c, 10001, "Falta el token de actualización")
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), token)
	if err != nil {
		h.clearRefreshCookie(c)
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout revokes the current access token and the refresh cookie.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, ok := MustGetUserID(c); !ok {
		return
	}
	jti, exp := tokenIdentity(c)
	refresh, _ := c.Cookie(refreshCookie)

	if err := h.authSvc.Logout(c.Request.Context(), jti, exp, refresh); err != nil {
		response.InternalError(c)
		return
	}

	h.clearRefreshCookie(c)
	response.OK(c, nil)
}

// Me
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	result, err := h.authSvc.Me(c.Request.Context(), p)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(sameSite(h.cfg.Cookie.SameSite))
	c.SetCookie(refreshCookie, token, maxAge, "/api/v1/auth", h.cfg.Cookie.Domain, h.cfg.Cookie.Secure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	h.setRefreshCookie(c, "", -1)
}

func sameSite(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, 11001, "Correo o contraseña incorrectos")
	case errors.Is(err, service.ErrInvalidRefresh):
		response.Unauthorized(c, 11002, "Sesión expirada, inicie sesión de nuevo")
	case errors.Is(err, service.ErrAccountNotFound):
		response.Unauthorized(c, 11003, "La cuenta ya no existe")
	default:
		response.InternalError(c)
	}
}
