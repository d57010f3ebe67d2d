package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/service"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/response"
)

// CycleHandler school cycles.
type CycleHandler struct {
	cycleSvc service.CycleService
}

// NewCycleHandler creates a CycleHandler.
func NewCycleHandler(cycleSvc service.CycleService) *CycleHandler {
	return &CycleHandler{cycleSvc: cycleSvc}
}

// List
// GET /api/v1/cycles
func (h *CycleHandler) List(c *gin.Context) {
	result, err := h.cycleSvc.List(c.Request.Context())
	if err != nil {
		h.handleCycleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": result})
}

// GetActive
// GET /api/v1/cycles/active
func (h *CycleHandler) GetActive(c *gin.Context) {
	result, err := h.cycleSvc.GetActive(c.Request.Context())
	if err != nil {
		h.handleCycleError(c, err)
		return
	}
	response.OK(c, result)
}

// Create
// POST /api/v1/cycles
func (h *CycleHandler) Create(c *gin.Context) {
	var req dto.CreateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	result, err := h.cycleSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleCycleError(c, err)
		return
	}
	response.Created(c, result)
}

// Activate
// PUT /api/v1/cycles/:id/activate
func (h *CycleHandler) Activate(c *gin.Context) {
	result, err := h.cycleSvc.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCycleError(c, err)
		return
	}
	response.OK(c, result)
}

// SetAnnouncement sets the notice shown on every director dashboard.
// PUT /api/v1/cycles/active/announcement
func (h *CycleHandler) SetAnnouncement(c *gin.Context) {
	var req dto.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	result, err := h.cycleSvc.SetAnnouncement(c.Request.Context(), &req)
	if err != nil {
		h.handleCycleError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *CycleHandler) handleCycleError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrCycleNotFound):
		response.NotFound(c, 13001, "Ciclo escolar no encontrado")
	case errors.Is(err, service.ErrCycleDateInvalid):
		response.BadRequest(c, 13002, "La fecha de fin debe ser posterior a la de inicio")
	case errors.Is(err, service.ErrCycleNameTaken):
		response.Conflict(c, 13003, "Ya existe un ciclo con ese nombre")
	default:
		response.InternalError(c)
	}
}
