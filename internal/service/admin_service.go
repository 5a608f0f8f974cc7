package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

type adminDirectory interface {
	CreateCourse(ctx context.Context, in models.CourseInput) (*models.Course, error)
	RemoveAllStudents(ctx context.Context, courseID int) error
}

// CreateCourseRequest is the admin add-course form.
type CreateCourseRequest struct {
	Code        string `json:"course_code" validate:"required"`
	Name        string `json:"course_name" validate:"required"`
	Description string `json:"course_description"`
	Credits     *int   `json:"credits" validate:"omitempty,min=1,max=8"`
	Instructor  string `json:"instructor"`
	Semester    string `json:"semester"`
	TimeSlot    string `json:"time_slot"`
	Location    string `json:"course_location"`
}

// BulkUnenrollRequest must carry an explicit confirmation.
type BulkUnenrollRequest struct {
	Confirm bool `json:"confirm" validate:"required"`
}

// AdminService runs the admin toolbox actions.
type AdminService struct {
	dir       adminDirectory
	notifier  RefreshNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAdminService constructs AdminService.
func NewAdminService(dir adminDirectory, notifier RefreshNotifier, validate *validator.Validate, logger *zap.Logger) *AdminService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{dir: dir, notifier: notifier, validator: validate, logger: logger}
}

// CreateCourse validates and submits a new course.
func (s *AdminService) CreateCourse(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "course code and name are required, credits must be between 1 and 8")
	}
	in := models.CourseInput{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Credits:     models.DefaultCredits,
		Instructor:  req.Instructor,
		Semester:    req.Semester,
		TimeSlot:    req.TimeSlot,
		Location:    req.Location,
	}
	if req.Credits != nil {
		in.Credits = *req.Credits
	}

	course, err := s.dir.CreateCourse(ctx, in)
	if err != nil {
		return nil, appErrors.Transport(err, "failed to add course")
	}
	s.logger.Info("course added", zap.Int("course_id", course.ID), zap.String("course_code", course.Code))
	s.notify(ctx)
	return course, nil
}

// RemoveAllStudents drops every enrollment of a course once confirmed.
func (s *AdminService) RemoveAllStudents(ctx context.Context, courseID int, req BulkUnenrollRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "confirmation required to remove all students")
	}
	if err := s.dir.RemoveAllStudents(ctx, courseID); err != nil {
		return appErrors.Transport(err, "failed to remove students")
	}
	s.logger.Info("course enrollments cleared", zap.Int("course_id", courseID))
	s.notify(ctx)
	return nil
}

func (s *AdminService) notify(ctx context.Context) {
	if s.notifier != nil {
		s.notifier.NotifyChanged(ctx)
	}
}
