package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/service"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/docgen"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/response"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Circular05Handler event participation requests.
type Circular05Handler struct {
	circSvc service.Circular05Service
}

// NewCircular05Handler creates a Circular05Handler.
func NewCircular05Handler(circSvc service.Circular05Service) *Circular05Handler {
	return &Circular05Handler{circSvc: circSvc}
}

// GetConfig
// GET /api/v1/circular05/config
func (h *Circular05Handler) GetConfig(c *gin.Context) {
	result, err := h.circSvc.GetConfig(c.Request.Context())
	if err != nil {
		h.handleCircular05Error(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateConfig
// PUT /api/v1/circular05/config
func (h *Circular05Handler) UpdateConfig(c *gin.Context) {
	var req dto.Circular05ConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	result, err := h.circSvc.UpdateConfig(c.Request.Context(), &req)
	if err != nil {
		h.handleCircular05Error(c, err)
		return
	}
	response.OK(c, result)
}

// Generate renders the .docx for the director's school.
// POST /api/v1/circular05/generate
func (h *Circular05Handler) Generate(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req docgen.Circular05
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Parámetros inválidos")
		return
	}

	doc, err := h.circSvc.Generate(c.Request.Context(), p, &req)
	if err != nil {
		h.handleCircular05Error(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(doc.FileName))
	c.Data(http.StatusOK, docxContentType, doc.Content)
}

// ListDownloads generated documents grouped by school.
// GET /api/v1/circular05/downloads
func (h *Circular05Handler) ListDownloads(c *gin.Context) {
	result, err := h.circSvc.ListDownloads(c.Request.Context())
	if err != nil {
		h.handleCircular05Error(c, err)
		return
	}
	response.OK(c, gin.H{"list": result})
}

func (h *Circular05Handler) handleCircular05Error(c *gin.Context, err error) {
	var missing *service.MissingFieldsError
	switch {
	case errors.As(err, &missing):
		response.ErrorWithData(c, http.StatusBadRequest, 18002, "Faltan campos obligatorios", gin.H{"faltantes": missing.Fields})
	case errors.Is(err, service.ErrCircular05Inactive):
		response.Forbidden(c, 18001, "El módulo de Circular 05 no está activo")
	case errors.Is(err, service.ErrCircular05Render):
		response.Error(c, http.StatusInternalServerError, 18003, "No se pudo generar el documento")
	case errors.Is(err, service.ErrSchoolNotFound):
		response.NotFound(c, 12001, "Escuela no encontrada")
	default:
		response.InternalError(c)
	}
}
