package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/service"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/response"
)

// ResourceHandler institutional documents.
type ResourceHandler struct {
	resourceSvc service.ResourceService
}

// NewResourceHandler creates a ResourceHandler.
func NewResourceHandler(resourceSvc service.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceSvc: resourceSvc}
}

// List
// GET /api/v1/resources
func (h *ResourceHandler) List(c *gin.Context) {
	result, err := h.resourceSvc.List(c.Request.Context())
	if err != nil {
		h.handleResourceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": result})
}

// Upload multipart fields "file", "title" and optional "description".
// POST /api/v1/resources
func (h *ResourceHandler) Upload(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" || len(title) > 200 {
		response.BadRequest(c, 10001, "El título es obligatorio")
		return
	}
	var description *string
	if d := strings.TrimSpace(c.PostForm("description")); d != "" {
		description = &d
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

	result, err := h.resourceSvc.Upload(c.Request.Context(), p, title, description, fileUpload(fh, f))
	if err != nil {
		h.handleResourceError(c, err)
		return
	}
	response.Created(c, result)
}

// Delete
// DELETE /api/v1/resources/:id
func (h *ResourceHandler) Delete(c *gin.Context) {
	if err := h.resourceSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleResourceError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *ResourceHandler) handleResourceError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrResourceNotFound):
		response.NotFound(c, 19001, "Recurso no encontrado")
	case errors.Is(err, service.ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, 15006, "El archivo excede el tamaño máximo permitido")
	case errors.Is(err, service.ErrFileType):
		response.BadRequest(c, 15007, "Tipo de archivo no permitido")
	case errors.Is(err, service.ErrFileEmpty):
		response.BadRequest(c, 15008, "El archivo está vacío")
	default:
		response.InternalError(c)
	}
}
