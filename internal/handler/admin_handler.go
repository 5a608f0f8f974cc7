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

type adminService interface {
	AdminCourses() []models.Course
	CreateCourse(ctx context.Context, req service.CreateCourseRequest) (*models.Course, error)
	RemoveAllStudents(ctx context.Context, courseID int, req service.BulkUnenrollRequest) error
}

// AdminHandler serves the admin toolbox.
type AdminHandler struct {
	service adminService
}

// NewAdminHandler builds a new handler.
func NewAdminHandler(service adminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// Courses godoc
// @Summary Full course list for the admin toolbox
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /portal/admin/courses [get]
func (h *AdminHandler) Courses(c *gin.Context) {
	courses := h.service.AdminCourses()
	response.JSON(c, http.StatusOK, courses, map[string]interface{}{"total": len(courses)})
}

// CreateCourse godoc
// @Summary Add a course
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /portal/admin/courses [post]
func (h *AdminHandler) CreateCourse(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}
	course, err := h.service.CreateCourse(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// RemoveAllStudents godoc
// @Summary Remove every student from a course
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param payload body service.BulkUnenrollRequest true "Confirmation"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /portal/admin/courses/{id}/students [delete]
func (h *AdminHandler) RemoveAllStudents(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.BulkUnenrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "confirmation required to remove all students"))
		return
	}
	if err := h.service.RemoveAllStudents(c.Request.Context(), id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
