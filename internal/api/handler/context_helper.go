package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/service"
	pkgerrors "github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/errors"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/response"
)

// MustGetUserID reads user_id set by the JWT middleware. On false the
// 401 has already been written and the caller should return.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "No autenticado")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "No autenticado")
		return "", false
	}
	return s, true
}

// MustGetRole reads the role claim.
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "No autenticado")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "No autenticado")
		return "", false
	}
	return s, true
}

// MustGetPrincipal builds the caller from the token claims. The CCT is only
// present for directors.
func MustGetPrincipal(c *gin.Context) (service.Principal, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return service.Principal{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return service.Principal{}, false
	}
	cct, _ := c.Get("cct")
	s, _ := cct.(string)
	return service.Principal{UserID: userID, Role: role, CCT: s}, true
}

// tokenIdentity jti and expiry of the access token in use.
func tokenIdentity(c *gin.Context) (string, time.Time) {
	jti := c.GetString("token_jti")
	exp, _ := c.Get("token_exp")
	t, _ := exp.(time.Time)
	return jti, t
}

// handleCommonError maps errors shared by every module. It reports whether
// a response was written.
func handleCommonError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, pkgerrors.ErrCollaborator):
		response.BadGateway(c, "Servicio externo no disponible, intente más tarde")
	case errors.Is(err, pkgerrors.ErrNoActiveCycle):
		response.Conflict(c, 13004, "No hay un ciclo escolar activo")
	case errors.Is(err, pkgerrors.ErrMultipleActiveCycles):
		response.Conflict(c, 13005, "Hay más de un ciclo escolar activo")
	default:
		return false
	}
	return true
}
