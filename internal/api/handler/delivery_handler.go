package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/delivery"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/service"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/response"
)

// DeliveryHandler deliveries, their files and the correction log.
type DeliveryHandler struct {
	deliverySvc service.DeliveryService
}

// NewDeliveryHandler creates a DeliveryHandler.
func NewDeliveryHandler(deliverySvc service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliverySvc: deliverySvc}
}

// Dashboard director home: active-period deliveries grouped by program.
// GET /api/v1/me/dashboard
func (h *DeliveryHandler) Dashboard(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	result, err := h.deliverySvc.Dashboard(c.Request.Context(), p)
	if err != nil {
		h.handleDeliveryError(c, err)
		return
	}
	response.OK(c, result)
}

// ListByPeriod review table of one period.
// GET /api/v1/periods/:id/deliveries
func (h *DeliveryHandler) ListByPeriod(c *gin.Context) {
	result, err := h.deliverySvc.ListByPeriod(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleDeliveryError(c, err)
		return
	}
	response.OK(c, gin.H{"list": result})
}

// Get
// GET /api/v1/deliveries/:id
func (h *DeliveryHandler) Get(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	result, err := h.deliverySvc.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.handleDeliveryError(c, err)
		return
	}
	response.OK(c, result)
}

// Upload multipart field "file", optional "label" for labelled programs.
// POST /api/v1/deliveries/:id/files
func (h *DeliveryHandler) Upload(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "Seleccione un archivo")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, 10001, "No se pudo leer el archivo")
		return
	}
	defer f.Close()

	result, err := h.deliverySvc.Upload(c.Request.Context(), p, c.Param("id"), strings.TrimSpace(c.PostForm("label")), fileUpload(fh, f))
	if err != nil {
		h.handleDeliveryError(c, err)
		return
	}
	response.Created(c, result)
}

// RegisterFile records a file uploaded directly to the blob store.
// POST /api/v1/deliveries/:id/files/register
func (h *DeliveryHandler) RegisterFile(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.RegisterFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	result, err := h.deliverySvc.RegisterFile(c.Request.Context(), p, c.Param("id"), &req)
	if err != nil {
		h.handleDeliveryError(c, err)
		return
	}
	response.Created(c, result)
}

// DeleteFile
// DELETE /api/v1/deliveries/:id/files/:fileId
func (h *DeliveryHandler) DeleteFile(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	result, err := h.deliverySvc.DeleteFile(c.Request.Context(), p, c.Param("id"), c.Param("fileId"))
	if err != nil {
		h.handleDeliveryError(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateStatus review decision.
// PUT /api/v1/deliveries/:id/status
func (h *DeliveryHandler) UpdateStatus(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	result, err := h.deliverySvc.UpdateStatus(c.Request.Context(), p, c.Param("id"), &req)
	if err != nil {
		h.handleDeliveryError(c, err)
		return
	}
	response.OK(c, result)
}

// AddCorrection multipart form with "text", "file" or both.
// POST /api/v1/deliveries/:id/corrections
func (h *DeliveryHandler) AddCorrection(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var text *string
	if t := strings.TrimSpace(c.PostForm("text")); t != "" {
		text = &t
	}

	var upload *service.FileUpload
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			response.BadRequest(c, 10001, "No se pudo leer el archivo")
			return
		}
		defer f.Close()
		u := fileUpload(fh, f)
		upload = &u
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	result, err := h.deliverySvc.AddCorrection(c.Request.Context(), p, c.Param("id"), text, upload)
	if err != nil {
		h.handleDeliveryError(c, err)
		return
	}
	response.Created(c, result)
}

// ListCorrections newest first.
// GET /api/v1/deliveries/:id/corrections
func (h *DeliveryHandler) ListCorrections(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	result, err := h.deliverySvc.ListCorrections(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.handleDeliveryError(c, err)
		return
	}
	response.OK(c, gin.H{"list": result})
}

func fileUpload(fh *multipart.FileHeader, f multipart.File) service.FileUpload {
	return service.FileUpload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}
}

func (h *DeliveryHandler) handleDeliveryError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrDeliveryNotFound):
		response.NotFound(c, 15001, "Entrega no encontrada")
	case errors.Is(err, service.ErrFileNotFound):
		response.NotFound(c, 15002, "Archivo no encontrado")
	case errors.Is(err, service.ErrFileForbidden):
		response.Forbidden(c, 15003, "Solo puede eliminar los archivos que usted subió")
	case errors.Is(err, service.ErrCorrectionFileKept):
		response.Conflict(c, 15004, "Los archivos de corrección forman parte del historial y no se eliminan")
	case errors.Is(err, service.ErrPeriodClosed):
		response.Forbidden(c, 15005, "El periodo no está activo")
	case errors.Is(err, service.ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, 15006, "El archivo excede el tamaño máximo permitido")
	case errors.Is(err, service.ErrFileType):
		response.BadRequest(c, 15007, "Tipo de archivo no permitido")
	case errors.Is(err, service.ErrFileEmpty):
		response.BadRequest(c, 15008, "El archivo está vacío")
	case errors.Is(err, delivery.ErrLocked):
		response.Forbidden(c, 15009, "Esta entrega ya fue aprobada y no admite cambios")
	case errors.Is(err, delivery.ErrApprovedFinal):
		response.Conflict(c, 15015, "Una entrega aprobada no admite correcciones")
	case errors.Is(err, delivery.ErrNoSubmission):
		response.Conflict(c, 15010, "El estado requiere al menos un archivo entregado")
	case errors.Is(err, delivery.ErrNotOwner):
		response.Forbidden(c, 15011, "La entrega no pertenece a su escuela")
	case errors.Is(err, delivery.ErrUnknownSlot):
		response.BadRequest(c, 15012, "Etiqueta de archivo no válida para este programa")
	case errors.Is(err, delivery.ErrEmptyFeedback):
		response.BadRequest(c, 15013, "La corrección requiere texto o archivo")
	case errors.Is(err, delivery.ErrUnknownStatus):
		response.BadRequest(c, 15014, "Estado desconocido")
	case errors.Is(err, service.ErrNotRemindable):
		response.Conflict(c, 15016, "La entrega no admite recordatorios en su estado actual")
	default:
		response.InternalError(c)
	}
}
