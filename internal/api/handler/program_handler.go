package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/period"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/service"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/response"
)

// ProgramHandler programs and their periods.
type ProgramHandler struct {
	programSvc service.ProgramService
	periodSvc  service.PeriodService
}

// NewProgramHandler creates a ProgramHandler.
func NewProgramHandler(programSvc service.ProgramService, periodSvc service.PeriodService) *ProgramHandler {
	return &ProgramHandler{programSvc: programSvc, periodSvc: periodSvc}
}

// ────────────────────── programs ──────────────────────

// List
// GET /api/v1/programs
func (h *ProgramHandler) List(c *gin.Context) {
	result, err := h.programSvc.List(c.Request.Context())
	if err != nil {
		h.handleProgramError(c, err)
		return
	}
	response.OK(c, gin.H{"list": result})
}

// Get returns the program with its periods in the active cycle.
// GET /api/v1/programs/:id
func (h *ProgramHandler) Get(c *gin.Context) {
	result, err := h.programSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleProgramError(c, err)
		return
	}
	response.OK(c, result)
}

// Create
// POST /api/v1/programs
func (h *ProgramHandler) Create(c *gin.Context) {
	var req dto.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	result, err := h.programSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleProgramError(c, err)
		return
	}
	response.Created(c, result)
}

// Regenerate backfills missing periods and deliveries. The body is optional.
// POST /api/v1/programs/:id/generate
func (h *ProgramHandler) Regenerate(c *gin.Context) {
	var opts *dto.GenerationOptions
	if c.Request.ContentLength > 0 {
		opts = &dto.GenerationOptions{}
		if err := c.ShouldBindJSON(opts); err != nil {
			response.BadRequest(c, 10001, "Parámetros inválidos")
			return
		}
	}

	result, err := h.programSvc.Regenerate(c.Request.Context(), c.Param("id"), opts)
	if err != nil {
		h.handleProgramError(c, err)
		return
	}
	response.OK(c, result)
}

// Update
// PUT /api/v1/programs/:id
func (h *ProgramHandler) Update(c *gin.Context) {
	var req dto.UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	result, err := h.programSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleProgramError(c, err)
		return
	}
	response.OK(c, result)
}

// SetAutoReminder
// PUT /api/v1/programs/:id/auto-reminder
func (h *ProgramHandler) SetAutoReminder(c *gin.Context) {
	var req dto.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	result, err := h.programSvc.SetAutoReminder(c.Request.Context(), c.Param("id"), *req.Enabled)
	if err != nil {
		h.handleProgramError(c, err)
		return
	}
	response.OK(c, result)
}

// Delete
// DELETE /api/v1/programs/:id
func (h *ProgramHandler) Delete(c *gin.Context) {
	if err := h.programSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleProgramError(c, err)
		return
	}
	response.OK(c, nil)
}

// CreateExtraordinary one-off task for every school.
// POST /api/v1/programs/extraordinary
func (h *ProgramHandler) CreateExtraordinary(c *gin.Context) {
	var req dto.ExtraordinaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	result, err := h.programSvc.CreateExtraordinary(c.Request.Context(), &req)
	if err != nil {
		h.handleProgramError(c, err)
		return
	}
	response.Created(c, result)
}

// ────────────────────── periods ──────────────────────

// GetPeriod
// GET /api/v1/periods/:id
func (h *ProgramHandler) GetPeriod(c *gin.Context) {
	result, err := h.periodSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleProgramError(c, err)
		return
	}
	response.OK(c, result)
}

// SetPeriodActive opens or closes a period for directors.
// PUT /api/v1/periods/:id/active
func (h *ProgramHandler) SetPeriodActive(c *gin.Context) {
	var req dto.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	result, err := h.periodSvc.SetActive(c.Request.Context(), c.Param("id"), *req.Enabled)
	if err != nil {
		h.handleProgramError(c, err)
		return
	}
	response.OK(c, result)
}

// SetPeriodDeadline a null or empty deadline clears it.
// PUT /api/v1/periods/:id/deadline
func (h *ProgramHandler) SetPeriodDeadline(c *gin.Context) {
	var req dto.DeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	result, err := h.periodSvc.SetDeadline(c.Request.Context(), c.Param("id"), req.Deadline)
	if err != nil {
		h.handleProgramError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *ProgramHandler) handleProgramError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		response.NotFound(c, 14001, "Programa no encontrado")
	case errors.Is(err, service.ErrProgramNameTaken):
		response.Conflict(c, 14002, "Ya existe un programa con ese nombre")
	case errors.Is(err, service.ErrProgramInUse):
		response.Conflict(c, 14003, "El programa tiene periodos registrados y no puede eliminarse")
	case errors.Is(err, service.ErrGenerationOptions),
		errors.Is(err, period.ErrInvalidWindow),
		errors.Is(err, period.ErrUnknownKind),
		errors.Is(err, period.ErrDeadlineDay):
		response.BadRequest(c, 14004, err.Error())
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 14005, "Periodo no encontrado")
	case errors.Is(err, service.ErrDeadlineInvalid):
		response.BadRequest(c, 14006, "Fecha límite inválida")
	default:
		response.InternalError(c)
	}
}
