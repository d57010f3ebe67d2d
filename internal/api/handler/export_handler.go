package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/service"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler spreadsheet exports and the director calendar feed.
type ExportHandler struct {
	exportSvc   service.ExportService
	calendarSvc service.CalendarService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exportSvc service.ExportService, calendarSvc service.CalendarService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, calendarSvc: calendarSvc}
}

// ExportDeliveries one sheet per period of the program.
// GET /api/v1/export/deliveries?program_id=xxx
func (h *ExportHandler) ExportDeliveries(c *gin.Context) {
	programID := c.Query("program_id")
	if programID == "" {
		response.BadRequest(c, 10001, "program_id es obligatorio")
		return
	}

	buf, filename, err := h.exportSvc.ExportDeliveries(c.Request.Context(), programID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	sendXLSX(c, buf, filename)
}

// ExportEvents event registrations, one row per school.
// GET /api/v1/export/events
func (h *ExportHandler) ExportEvents(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportEvents(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	sendXLSX(c, buf, filename)
}

// Calendar iCalendar feed of the director's active deadlines.
// GET /api/v1/me/calendar.ics
func (h *ExportHandler) Calendar(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	body, err := h.calendarSvc.SchoolCalendar(c.Request.Context(), p)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=entregas.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", body)
}

func sendXLSX(c *gin.Context, buf *bytes.Buffer, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Header("Content-Type", xlsxContentType)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		response.NotFound(c, 14001, "Programa no encontrado")
	case errors.Is(err, service.ErrSchoolNotFound):
		response.NotFound(c, 12001, "Escuela no encontrada")
	case errors.Is(err, service.ErrExportNoPeriods):
		response.NotFound(c, 19101, "El programa no tiene periodos en el ciclo activo")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 19102, "No se pudo generar el archivo de Excel")
	default:
		response.InternalError(c)
	}
}
