package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/service"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/response"
)

// SchoolHandler school accounts.
type SchoolHandler struct {
	schoolSvc service.SchoolService
}

// NewSchoolHandler creates a SchoolHandler.
func NewSchoolHandler(schoolSvc service.SchoolService) *SchoolHandler {
	return &SchoolHandler{schoolSvc: schoolSvc}
}

// List schools with their delivery counts in the active cycle.
// GET /api/v1/schools
func (h *SchoolHandler) List(c *gin.Context) {
	result, err := h.schoolSvc.List(c.Request.Context())
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}
	response.OK(c, gin.H{"list": result})
}

// Get
// GET /api/v1/schools/:id
func (h *SchoolHandler) Get(c *gin.Context) {
	result, err := h.schoolSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}
	response.OK(c, result)
}

// Create
// POST /api/v1/schools
func (h *SchoolHandler) Create(c *gin.Context) {
	var req dto.CreateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos: "+err.Error())
		return
	}

	result, err := h.schoolSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}
	response.Created(c, result)
}

// Update
// PUT /api/v1/schools/:id
func (h *SchoolHandler) Update(c *gin.Context) {
	var req dto.UpdateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	result, err := h.schoolSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}
	response.OK(c, result)
}

// Delete removes the school with its deliveries and files.
// DELETE /api/v1/schools/:id
func (h *SchoolHandler) Delete(c *gin.Context) {
	if err := h.schoolSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleSchoolError(c, err)
		return
	}
	response.OK(c, nil)
}

// ListOverrides
// GET /api/v1/schools/:id/overrides
func (h *SchoolHandler) ListOverrides(c *gin.Context) {
	result, err := h.schoolSvc.ListOverrides(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}
	response.OK(c, gin.H{"list": result})
}

// SetOverrides
// PUT /api/v1/schools/:id/overrides
func (h *SchoolHandler) SetOverrides(c *gin.Context) {
	var req dto.SetOverridesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	result, err := h.schoolSvc.SetOverrides(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}
	response.OK(c, gin.H{"list": result})
}

func (h *SchoolHandler) handleSchoolError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrSchoolNotFound):
		response.NotFound(c, 12001, "Escuela no encontrada")
	case errors.Is(err, service.ErrSchoolCCTTaken):
		response.Conflict(c, 12002, "Ya existe una escuela con ese CCT")
	case errors.Is(err, service.ErrSchoolEmailTaken):
		response.Conflict(c, 12003, "El correo ya está registrado")
	case errors.Is(err, service.ErrOverrideProgram):
		response.BadRequest(c, 12004, "Programa inexistente en la configuración de archivos")
	default:
		response.InternalError(c)
	}
}
