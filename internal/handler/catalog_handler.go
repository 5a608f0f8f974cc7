package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/internal/service"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
	"github.com/noah-isme/course-portal/pkg/response"
)

type catalogService interface {
	Catalog() models.CatalogView
	SetFilter(ctx context.Context, filter models.CatalogFilter) (models.CatalogView, error)
	Refresh(ctx context.Context) (models.CatalogView, error)
	ExportCatalog(format string) (*service.ExportFile, error)
}

// CatalogHandler serves the course grid.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler builds a new handler.
func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// FilterRequest replaces both catalog filter inputs.
type FilterRequest struct {
	Keyword   string           `json:"keyword"`
	StudentID studentSelection `json:"student_id"`
}

// Get godoc
// @Summary Displayed courses
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /portal/catalog [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	response.OK(c, h.service.Catalog())
}

// SetFilter godoc
// @Summary Replace the keyword and student filter
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body handler.FilterRequest true "Filter inputs; student_id is an id or \"all\""
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /portal/catalog/filter [put]
func (h *CatalogHandler) SetFilter(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filter payload"))
		return
	}
	view, err := h.service.SetFilter(c.Request.Context(), models.CatalogFilter{Keyword: req.Keyword, StudentID: req.StudentID.ID})
	if err != nil {
		response.Error(c, err, view)
		return
	}
	response.OK(c, view)
}

// Refresh godoc
// @Summary Reload courses and students
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /portal/catalog/refresh [post]
func (h *CatalogHandler) Refresh(c *gin.Context) {
	view, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		response.Error(c, err, view)
		return
	}
	response.OK(c, view)
}

// Export godoc
// @Summary Download the displayed courses
// @Tags Catalog
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /portal/catalog/export [get]
func (h *CatalogHandler) Export(c *gin.Context) {
	file, err := h.service.ExportCatalog(c.DefaultQuery("format", service.ExportCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
