package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/service"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/response"
)

// ReminderHandler daily reminder run, manual reminders and the status
// summary polled by automation.
type ReminderHandler struct {
	reminderSvc service.ReminderService
	statusSvc   service.StatusService
	loc         *time.Location
	now         func() time.Time
}

// NewReminderHandler creates a ReminderHandler. loc is the timezone the
// ?date= override of the cron endpoint is read in.
func NewReminderHandler(reminderSvc service.ReminderService, statusSvc service.StatusService, loc *time.Location) *ReminderHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReminderHandler{reminderSvc: reminderSvc, statusSvc: statusSvc, loc: loc, now: time.Now}
}

// RunDaily evaluates every active period against today, or against ?date=
// (YYYY-MM-DD) when given.
// POST /api/v1/cron/reminders
func (h *ReminderHandler) RunDaily(c *gin.Context) {
	today := h.now()
	if raw := c.Query("date"); raw != "" {
		d, err := time.ParseInLocation("2006-01-02", raw, h.loc)
		if err != nil {
			response.BadRequest(c, 10001, "Fecha inválida, use AAAA-MM-DD")
			return
		}
		today = d.Add(12 * time.Hour)
	}

	result, err := h.reminderSvc.RunDaily(c.Request.Context(), today)
	if err != nil {
		h.handleReminderError(c, err)
		return
	}
	response.OK(c, result)
}

// Status
// GET /api/v1/status
func (h *ReminderHandler) Status(c *gin.Context) {
	result, err := h.statusSvc.Summary(c.Request.Context())
	if err != nil {
		h.handleReminderError(c, err)
		return
	}
	response.OK(c, result)
}

// SendProgram reminds every pending school of the program.
// POST /api/v1/programs/:id/reminders
func (h *ReminderHandler) SendProgram(c *gin.Context) {
	var req dto.ManualReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	result, err := h.reminderSvc.SendProgram(c.Request.Context(), c.Param("id"), req.Message)
	if err != nil {
		h.handleReminderError(c, err)
		return
	}
	response.OK(c, result)
}

// SendOne
// POST /api/v1/deliveries/:id/reminder
func (h *ReminderHandler) SendOne(c *gin.Context) {
	var req dto.ManualReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	if err := h.reminderSvc.SendOne(c.Request.Context(), c.Param("id"), req.Message); err != nil {
		h.handleReminderError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *ReminderHandler) handleReminderError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		response.NotFound(c, 14001, "Programa no encontrado")
	case errors.Is(err, service.ErrDeliveryNotFound):
		response.NotFound(c, 15001, "Entrega no encontrada")
	case errors.Is(err, service.ErrNotRemindable):
		response.Conflict(c, 15016, "La entrega no admite recordatorios en su estado actual")
	default:
		response.InternalError(c)
	}
}
