package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/service"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/response"
)

// AdminHandler ATP staff accounts, super admin only.
type AdminHandler struct {
	adminSvc service.AdminService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// List
// GET /api/v1/admins
func (h *AdminHandler) List(c *gin.Context) {
	result, err := h.adminSvc.List(c.Request.Context())
	if err != nil {
		h.handleAdminError(c, err)
		return
	}
	response.OK(c, gin.H{"list": result})
}

// Create
// POST /api/v1/admins
func (h *AdminHandler) Create(c *gin.Context) {
	var req dto.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	result, err := h.adminSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleAdminError(c, err)
		return
	}
	response.Created(c, result)
}

// Update
// PUT /api/v1/admins/:id
func (h *AdminHandler) Update(c *gin.Context) {
	var req dto.UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	result, err := h.adminSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleAdminError(c, err)
		return
	}
	response.OK(c, result)
}

// Delete
// DELETE /api/v1/admins/:id
func (h *AdminHandler) Delete(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	if err := h.adminSvc.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		h.handleAdminError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *AdminHandler) handleAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAdminNotFound):
		response.NotFound(c, 17001, "Administrador no encontrado")
	case errors.Is(err, service.ErrAdminEmailTaken):
		response.Conflict(c, 17002, "El correo ya está registrado")
	case errors.Is(err, service.ErrSelfDelete):
		response.BadRequest(c, 17003, "No puede eliminar su propia cuenta")
	case errors.Is(err, service.ErrAdminHasCorrections):
		response.Conflict(c, 17004, "El administrador tiene correcciones registradas y no puede eliminarse")
	default:
		response.InternalError(c)
	}
}
