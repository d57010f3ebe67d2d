package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/event"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/service"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/response"
)

// EventHandler cultural and sports event registration.
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// Catalog
// GET /api/v1/events/catalog
func (h *EventHandler) Catalog(c *gin.Context) {
	result, err := h.eventSvc.Catalog(c.Request.Context())
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, gin.H{"list": result})
}

// Registration the director's own registration.
// GET /api/v1/events/registration
func (h *EventHandler) Registration(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	result, err := h.eventSvc.Registration(c.Request.Context(), p)
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, result)
}

// Save replaces the director's registration.
// PUT /api/v1/events/registration
func (h *EventHandler) Save(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.SaveRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	result, err := h.eventSvc.Save(c.Request.Context(), p, req.Data)
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, result)
}

// Summary per-school participation overview.
// GET /api/v1/events/summary
func (h *EventHandler) Summary(c *gin.Context) {
	result, err := h.eventSvc.Summary(c.Request.Context())
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, result)
}

// SetOpen
// PUT /api/v1/events/config
func (h *EventHandler) SetOpen(c *gin.Context) {
	var req dto.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	if err := h.eventSvc.SetOpen(c.Request.Context(), *req.Enabled); err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, gin.H{"is_open": *req.Enabled})
}

// DeleteRegistration
// DELETE /api/v1/events/registrations/:schoolId
func (h *EventHandler) DeleteRegistration(c *gin.Context) {
	if err := h.eventSvc.DeleteRegistration(c.Request.Context(), c.Param("schoolId")); err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *EventHandler) handleEventError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	var verr *event.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithData(c, http.StatusBadRequest, 16002, "El registro tiene errores", gin.H{"errores": verr.Problems})
	case errors.Is(err, service.ErrRegistrationClosed):
		response.Forbidden(c, 16001, "El registro de eventos está cerrado")
	case errors.Is(err, service.ErrRegistrationNotFound):
		response.NotFound(c, 16003, "La escuela no tiene registro de eventos")
	case errors.Is(err, service.ErrSchoolNotFound):
		response.NotFound(c, 12001, "Escuela no encontrada")
	default:
		response.InternalError(c)
	}
}
