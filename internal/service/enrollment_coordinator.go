package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

type enrollmentDirectory interface {
	GetCourse(ctx context.Context, id int) (*models.Course, error)
	StudentCourses(ctx context.Context, studentID int) ([]models.StudentCourse, error)
	Enroll(ctx context.Context, studentID, courseID int) error
	Unenroll(ctx context.Context, studentID, courseID int) error
}

// RefreshNotifier is told whenever a successful mutation may have changed
// state that other views derive from the directory.
type RefreshNotifier interface {
	NotifyChanged(ctx context.Context)
}

// Mutation actions.
const (
	ActionEnroll   = "enroll"
	ActionUnenroll = "unenroll"
)

// EnrollmentCoordinator opens course-detail views and owns their enrollment
// state.
type EnrollmentCoordinator struct {
	dir      enrollmentDirectory
	notifier RefreshNotifier
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewEnrollmentCoordinator constructs EnrollmentCoordinator.
func NewEnrollmentCoordinator(dir enrollmentDirectory, notifier RefreshNotifier, metrics *MetricsService, logger *zap.Logger) *EnrollmentCoordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentCoordinator{dir: dir, notifier: notifier, metrics: metrics, logger: logger}
}

// Open creates a detail view for the course as seen by user, which may be
// nil. The view starts in the loading state; call Load to populate it.
func (c *EnrollmentCoordinator) Open(user *models.Student, courseID int) *DetailView {
	v := &DetailView{
		coord:    c,
		id:       uuid.NewString(),
		courseID: courseID,
		loading:  true,
	}
	if user != nil {
		u := *user
		v.user = &u
		v.checking = true
	}
	return v
}

func (c *EnrollmentCoordinator) notify(ctx context.Context) {
	if c.notifier != nil {
		c.notifier.NotifyChanged(ctx)
	}
}

// DetailView is the state of one open course-detail modal. Directory calls run
// without the lock held; their results are dropped once the view is closed.
type DetailView struct {
	coord    *EnrollmentCoordinator
	id       string
	courseID int

	mu         sync.Mutex
	user       *models.Student
	course     *models.Course
	isEnrolled bool
	loading    bool
	checking   bool
	mutating   bool
	closed     bool
}

// ID identifies the view instance.
func (v *DetailView) ID() string {
	return v.id
}

// CourseID returns the course the view was opened for.
func (v *DetailView) CourseID() int {
	return v.courseID
}

// Load fetches the course fields and, for a signed-in user, the enrollment
// status. The two fetches race independently and each settles its own part
// of the state. Only a failed course fetch is reported; a failed enrollment
// check reads as not enrolled.
func (v *DetailView) Load(ctx context.Context) (models.DetailState, error) {
	v.mu.Lock()
	user := v.user
	v.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error {
		course, err := v.coord.dir.GetCourse(ctx, v.courseID)
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.closed {
			return nil
		}
		v.loading = false
		if err != nil {
			return appErrors.Transport(err, "failed to load course detail")
		}
		v.course = course
		return nil
	})

	if user != nil {
		g.Go(func() error {
			rows, err := v.coord.dir.StudentCourses(ctx, user.ID)
			v.mu.Lock()
			defer v.mu.Unlock()
			if v.closed {
				return nil
			}
			v.checking = false
			if err != nil {
				v.coord.logger.Warn("enrollment check failed", zap.Int("student_id", user.ID), zap.Int("course_id", v.courseID), zap.Error(err))
				v.isEnrolled = false
				return nil
			}
			v.isEnrolled = containsCourse(rows, v.courseID)
			return nil
		})
	}

	err := g.Wait()
	return v.State(), err
}

// Enroll adds the enrollment when the view allows it. Disallowed requests
// (signed out, not loaded, already enrolled, mutation in flight) return the
// unchanged state without calling the directory.
func (v *DetailView) Enroll(ctx context.Context) (models.DetailState, error) {
	return v.mutate(ctx, ActionEnroll)
}

// Unenroll removes the enrollment when the view allows it.
func (v *DetailView) Unenroll(ctx context.Context) (models.DetailState, error) {
	return v.mutate(ctx, ActionUnenroll)
}

func (v *DetailView) mutate(ctx context.Context, action string) (models.DetailState, error) {
	v.mu.Lock()
	allowed := v.canEnrollLocked()
	if action == ActionUnenroll {
		allowed = v.canUnenrollLocked()
	}
	if !allowed {
		state := v.stateLocked()
		v.mu.Unlock()
		v.coord.metrics.RecordMutation(action, OutcomeSkipped)
		return state, nil
	}
	v.mutating = true
	studentID, courseID := v.user.ID, v.course.ID
	v.mu.Unlock()

	var err error
	if action == ActionEnroll {
		err = v.coord.dir.Enroll(ctx, studentID, courseID)
	} else {
		err = v.coord.dir.Unenroll(ctx, studentID, courseID)
	}

	v.mu.Lock()
	v.mutating = false
	if err != nil {
		state := v.stateLocked()
		v.mu.Unlock()
		v.coord.metrics.RecordMutation(action, OutcomeFailure)
		if action == ActionEnroll {
			return state, appErrors.Transport(err, "enroll failed, possibly already enrolled")
		}
		return state, appErrors.Transport(err, "unenroll failed, please try again later")
	}
	if !v.closed {
		v.isEnrolled = action == ActionEnroll
	}
	state := v.stateLocked()
	v.mu.Unlock()

	v.coord.metrics.RecordMutation(action, OutcomeSuccess)
	v.coord.logger.Info("enrollment changed", zap.String("action", action), zap.Int("student_id", studentID), zap.Int("course_id", courseID))
	v.coord.notify(ctx)
	return state, nil
}

// Close tears the view down. Late results from in-flight calls are ignored.
func (v *DetailView) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
}

// State snapshots the view.
func (v *DetailView) State() models.DetailState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateLocked()
}

func (v *DetailView) canEnrollLocked() bool {
	return !v.closed && v.user != nil && v.course != nil && !v.checking && !v.mutating && !v.isEnrolled
}

func (v *DetailView) canUnenrollLocked() bool {
	return !v.closed && v.user != nil && v.course != nil && !v.checking && !v.mutating && v.isEnrolled
}

func (v *DetailView) stateLocked() models.DetailState {
	state := models.DetailState{
		ViewID:             v.id,
		CourseID:           v.courseID,
		Loading:            v.loading,
		IsEnrolled:         v.isEnrolled,
		CheckingEnrollment: v.checking,
		Mutating:           v.mutating,
		CanEnroll:          v.canEnrollLocked(),
		CanUnenroll:        v.canUnenrollLocked(),
		Closed:             v.closed,
	}
	if v.course != nil {
		course := *v.course
		state.Course = &course
	}
	return state
}

func containsCourse(rows []models.StudentCourse, courseID int) bool {
	for _, row := range rows {
		if row.CourseID == courseID {
			return true
		}
	}
	return false
}
