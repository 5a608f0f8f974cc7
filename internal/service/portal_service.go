package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

// PortalService is the shell state machine of the portal: the signed-in
// user, the single active overlay and the open course-detail view. It routes
// user intents to the component services.
type PortalService struct {
	sessions    *SessionService
	identity    *IdentityService
	coordinator *EnrollmentCoordinator
	catalog     *CatalogService
	myCourses   *MyCoursesService
	admin       *AdminService
	exporter    *ExportService
	logger      *zap.Logger

	mu     sync.Mutex
	user   *models.Student
	modal  models.Modal
	detail *DetailView
	ready  bool
	booted chan struct{}
	// signed is set by Login and Logout; a restore settling later does not
	// override their outcome.
	signed bool
}

// PortalDeps bundles the component services.
type PortalDeps struct {
	Sessions    *SessionService
	Identity    *IdentityService
	Coordinator *EnrollmentCoordinator
	Catalog     *CatalogService
	MyCourses   *MyCoursesService
	Admin       *AdminService
	Exporter    *ExportService
}

// NewPortalService constructs PortalService.
func NewPortalService(deps PortalDeps, logger *zap.Logger) *PortalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortalService{
		sessions:    deps.Sessions,
		identity:    deps.Identity,
		coordinator: deps.Coordinator,
		catalog:     deps.Catalog,
		myCourses:   deps.MyCourses,
		admin:       deps.Admin,
		exporter:    deps.Exporter,
		logger:      logger,
		booted:      make(chan struct{}),
	}
}

// Boot restores the persisted session and loads the catalog. The two run
// independently; the portal counts as ready once the restore has settled.
func (p *PortalService) Boot(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		if err := p.catalog.Refresh(ctx); err != nil {
			p.logger.Warn("initial catalog load failed", zap.Error(err))
		}
		return nil
	})

	user := p.sessions.Restore(ctx)
	p.mu.Lock()
	if p.signed {
		user = nil
	} else {
		p.user = user
	}
	if !p.ready {
		p.ready = true
		close(p.booted)
	}
	p.mu.Unlock()
	if user != nil {
		p.logger.Info("session restored", zap.Int("student_id", user.ID))
	}

	_ = g.Wait()
}

// Ready reports whether the session restore has settled.
func (p *PortalService) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

// Booted is closed once Boot has settled the session.
func (p *PortalService) Booted() <-chan struct{} {
	return p.booted
}

// State snapshots the shell.
func (p *PortalService) State() models.PortalState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked()
}

// User returns the signed-in student, if any.
func (p *PortalService) User() *models.Student {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyStudent(p.user)
}

// OpenModal switches the active overlay. The detail overlay is opened through
// OpenDetail only.
func (p *PortalService) OpenModal(modal models.Modal) (models.PortalState, error) {
	if modal == models.ModalDetail {
		return p.State(), appErrors.Clone(appErrors.ErrValidation, "use the course detail intent to open a course")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.teardownDetailLocked()
	p.modal = modal
	return p.stateLocked(), nil
}

// CloseModal returns to the bare catalog.
func (p *PortalService) CloseModal() models.PortalState {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.teardownDetailLocked()
	p.modal = models.ModalNone
	return p.stateLocked()
}

// Login resolves the credentials, persists the identity and closes the login
// overlay. A conflict or failure leaves the shell untouched.
func (p *PortalService) Login(ctx context.Context, creds models.Credentials) (models.PortalState, error) {
	student, decision, err := p.identity.Resolve(ctx, creds)
	if err != nil {
		return p.State(), err
	}
	if err := p.sessions.Save(ctx, *student); err != nil {
		p.logger.Warn("session not persisted", zap.Int("student_id", student.ID), zap.Error(err))
	}

	p.mu.Lock()
	p.teardownDetailLocked()
	p.user = student
	p.signed = true
	p.modal = models.ModalNone
	state := p.stateLocked()
	p.mu.Unlock()

	p.myCourses.Reset()
	p.logger.Info("signed in", zap.Int("student_id", student.ID), zap.String("decision", string(decision)))
	return state, nil
}

// Logout drops the identity in memory and in the session store.
func (p *PortalService) Logout(ctx context.Context) (models.PortalState, error) {
	p.mu.Lock()
	p.teardownDetailLocked()
	p.user = nil
	p.signed = true
	p.modal = models.ModalNone
	state := p.stateLocked()
	p.mu.Unlock()

	p.myCourses.Reset()
	if err := p.sessions.Clear(ctx); err != nil {
		return state, err
	}
	return state, nil
}

// Catalog returns the course grid.
func (p *PortalService) Catalog() models.CatalogView {
	return p.catalog.View()
}

// SetFilter replaces the catalog filter inputs.
func (p *PortalService) SetFilter(ctx context.Context, filter models.CatalogFilter) (models.CatalogView, error) {
	return p.catalog.SetFilter(ctx, filter)
}

// Refresh reloads the catalog.
func (p *PortalService) Refresh(ctx context.Context) (models.CatalogView, error) {
	err := p.catalog.Refresh(ctx)
	return p.catalog.View(), err
}

// ExportCatalog renders the displayed courses.
func (p *PortalService) ExportCatalog(format string) (*ExportFile, error) {
	view := p.catalog.View()
	return p.exporter.Courses(view.Courses, format, "Course catalog")
}

// OpenDetail replaces any open detail view with a fresh one for courseID and
// loads it. The load runs without the shell lock so other intents proceed.
func (p *PortalService) OpenDetail(ctx context.Context, courseID int) (models.DetailState, error) {
	p.mu.Lock()
	p.teardownDetailLocked()
	view := p.coordinator.Open(p.user, courseID)
	p.detail = view
	p.modal = models.ModalDetail
	p.mu.Unlock()

	return view.Load(ctx)
}

// Detail returns the open detail view state.
func (p *PortalService) Detail() (models.DetailState, error) {
	view, err := p.activeDetail()
	if err != nil {
		return models.DetailState{}, err
	}
	return view.State(), nil
}

// Enroll enrolls the user in the course of the open detail view.
func (p *PortalService) Enroll(ctx context.Context) (models.DetailState, error) {
	view, err := p.activeDetail()
	if err != nil {
		return models.DetailState{}, err
	}
	return view.Enroll(ctx)
}

// Unenroll removes the user from the course of the open detail view.
func (p *PortalService) Unenroll(ctx context.Context) (models.DetailState, error) {
	view, err := p.activeDetail()
	if err != nil {
		return models.DetailState{}, err
	}
	return view.Unenroll(ctx)
}

// CloseDetail tears the detail view down.
func (p *PortalService) CloseDetail() (models.PortalState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.detail == nil {
		return p.stateLocked(), appErrors.ErrNoActiveView
	}
	p.teardownDetailLocked()
	p.modal = models.ModalNone
	return p.stateLocked(), nil
}

// MyCourses lists the signed-in student's enrollments.
func (p *PortalService) MyCourses(ctx context.Context) (models.MyCoursesView, error) {
	return p.myCourses.Load(ctx, p.User())
}

// UnenrollMyCourse drops one course from the signed-in student's list.
func (p *PortalService) UnenrollMyCourse(ctx context.Context, courseID int) (models.MyCoursesView, error) {
	return p.myCourses.Unenroll(ctx, p.User(), courseID)
}

// AdminCourses lists the full catalog for the admin toolbox.
func (p *PortalService) AdminCourses() []models.Course {
	return p.catalog.Courses()
}

// CreateCourse adds a course through the admin toolbox.
func (p *PortalService) CreateCourse(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	return p.admin.CreateCourse(ctx, req)
}

// RemoveAllStudents clears every enrollment of a course.
func (p *PortalService) RemoveAllStudents(ctx context.Context, courseID int, req BulkUnenrollRequest) error {
	return p.admin.RemoveAllStudents(ctx, courseID, req)
}

func (p *PortalService) activeDetail() (*DetailView, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.detail == nil {
		return nil, appErrors.ErrNoActiveView
	}
	return p.detail, nil
}

func (p *PortalService) teardownDetailLocked() {
	if p.detail == nil {
		return
	}
	p.detail.Close()
	p.detail = nil
	if p.modal == models.ModalDetail {
		p.modal = models.ModalNone
	}
}

func (p *PortalService) stateLocked() models.PortalState {
	return models.PortalState{
		Loading:     !p.ready,
		User:        copyStudent(p.user),
		ActiveModal: p.modal,
		Filter:      p.catalog.Filter(),
	}
}

func copyStudent(s *models.Student) *models.Student {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}
