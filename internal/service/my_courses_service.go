package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

type myCoursesDirectory interface {
	StudentCourses(ctx context.Context, studentID int) ([]models.StudentCourse, error)
	Unenroll(ctx context.Context, studentID, courseID int) error
}

// MyCoursesService backs the "my courses" overlay: the signed-in student's
// enrollments with a per-row unenroll.
type MyCoursesService struct {
	dir      myCoursesDirectory
	notifier RefreshNotifier
	metrics  *MetricsService
	logger   *zap.Logger

	mu        sync.Mutex
	studentID int
	courses   []models.StudentCourse
}

// NewMyCoursesService constructs MyCoursesService.
func NewMyCoursesService(dir myCoursesDirectory, notifier RefreshNotifier, metrics *MetricsService, logger *zap.Logger) *MyCoursesService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MyCoursesService{dir: dir, notifier: notifier, metrics: metrics, logger: logger}
}

// Load fetches the enrollment listing of user. A nil user yields the
// signed-out view without a directory call.
func (s *MyCoursesService) Load(ctx context.Context, user *models.Student) (models.MyCoursesView, error) {
	if user == nil {
		return models.MyCoursesView{Courses: []models.StudentCourse{}}, nil
	}
	rows, err := s.dir.StudentCourses(ctx, user.ID)
	if err != nil {
		return s.view(user), appErrors.Transport(err, "failed to load your courses")
	}

	s.mu.Lock()
	s.studentID = user.ID
	s.courses = rows
	s.mu.Unlock()
	return s.view(user), nil
}

// Unenroll drops one listed course. On success the row is removed locally
// and dependent views are refreshed.
func (s *MyCoursesService) Unenroll(ctx context.Context, user *models.Student, courseID int) (models.MyCoursesView, error) {
	if user == nil {
		return models.MyCoursesView{Courses: []models.StudentCourse{}}, appErrors.ErrUnauthorized
	}
	if err := s.dir.Unenroll(ctx, user.ID, courseID); err != nil {
		s.metrics.RecordMutation(ActionUnenroll, OutcomeFailure)
		return s.view(user), appErrors.Transport(err, "unenroll failed, please try again later")
	}
	s.metrics.RecordMutation(ActionUnenroll, OutcomeSuccess)

	s.mu.Lock()
	if s.studentID == user.ID {
		kept := make([]models.StudentCourse, 0, len(s.courses))
		for _, row := range s.courses {
			if row.CourseID != courseID {
				kept = append(kept, row)
			}
		}
		s.courses = kept
	}
	s.mu.Unlock()

	s.logger.Info("enrollment changed", zap.String("action", ActionUnenroll), zap.Int("student_id", user.ID), zap.Int("course_id", courseID))
	if s.notifier != nil {
		s.notifier.NotifyChanged(ctx)
	}
	return s.view(user), nil
}

// Reset forgets the cached listing, e.g. on logout.
func (s *MyCoursesService) Reset() {
	s.mu.Lock()
	s.studentID = 0
	s.courses = nil
	s.mu.Unlock()
}

func (s *MyCoursesService) view(user *models.Student) models.MyCoursesView {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := models.MyCoursesView{SignedIn: user != nil, Courses: []models.StudentCourse{}}
	if user != nil && s.studentID == user.ID {
		out.Courses = append(out.Courses, s.courses...)
	}
	return out
}
