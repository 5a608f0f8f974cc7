package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/pkg/response"
)

type detailService interface {
	OpenDetail(ctx context.Context, courseID int) (models.DetailState, error)
	Detail() (models.DetailState, error)
	Enroll(ctx context.Context) (models.DetailState, error)
	Unenroll(ctx context.Context) (models.DetailState, error)
	CloseDetail() (models.PortalState, error)
}

// DetailHandler serves the course-detail overlay.
type DetailHandler struct {
	service detailService
}

// NewDetailHandler builds a new handler.
func NewDetailHandler(service detailService) *DetailHandler {
	return &DetailHandler{service: service}
}

// Open godoc
// @Summary Open the detail overlay for a course
// @Tags Detail
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /portal/courses/{id}/detail [post]
func (h *DetailHandler) Open(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	state, err := h.service.OpenDetail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, state)
		return
	}
	response.OK(c, state)
}

// Get godoc
// @Summary Current detail view
// @Tags Detail
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /portal/detail [get]
func (h *DetailHandler) Get(c *gin.Context) {
	state, err := h.service.Detail()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, state)
}

// Enroll godoc
// @Summary Enroll in the open course
// @Tags Detail
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /portal/detail/enroll [post]
func (h *DetailHandler) Enroll(c *gin.Context) {
	state, err := h.service.Enroll(c.Request.Context())
	if err != nil {
		response.Error(c, err, state)
		return
	}
	response.OK(c, state)
}

// Unenroll godoc
// @Summary Drop the open course
// @Tags Detail
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /portal/detail/unenroll [post]
func (h *DetailHandler) Unenroll(c *gin.Context) {
	state, err := h.service.Unenroll(c.Request.Context())
	if err != nil {
		response.Error(c, err, state)
		return
	}
	response.OK(c, state)
}

// Close godoc
// @Summary Close the detail overlay
// @Tags Detail
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /portal/detail [delete]
func (h *DetailHandler) Close(c *gin.Context) {
	state, err := h.service.CloseDetail()
	if err != nil {
		response.Error(c, err, state)
		return
	}
	response.OK(c, state)
}
