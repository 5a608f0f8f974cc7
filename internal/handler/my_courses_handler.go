package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/pkg/response"
)

type myCoursesService interface {
	MyCourses(ctx context.Context) (models.MyCoursesView, error)
	UnenrollMyCourse(ctx context.Context, courseID int) (models.MyCoursesView, error)
}

// MyCoursesHandler serves the signed-in student's enrollment list.
type MyCoursesHandler struct {
	service myCoursesService
}

// NewMyCoursesHandler builds a new handler.
func NewMyCoursesHandler(service myCoursesService) *MyCoursesHandler {
	return &MyCoursesHandler{service: service}
}

// List godoc
// @Summary Courses of the signed-in student
// @Tags MyCourses
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /portal/my-courses [get]
func (h *MyCoursesHandler) List(c *gin.Context) {
	view, err := h.service.MyCourses(c.Request.Context())
	if err != nil {
		response.Error(c, err, view)
		return
	}
	response.OK(c, view)
}

// Unenroll godoc
// @Summary Drop one of my courses
// @Tags MyCourses
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /portal/my-courses/{courseId} [delete]
func (h *MyCoursesHandler) Unenroll(c *gin.Context) {
	id, err := intParam(c, "courseId")
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.UnenrollMyCourse(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, view)
		return
	}
	response.OK(c, view)
}
