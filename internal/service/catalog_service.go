package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

type catalogDirectory interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	ListStudents(ctx context.Context) ([]models.Student, error)
	SearchCourses(ctx context.Context, keyword string) ([]models.Course, error)
	StudentCourses(ctx context.Context, studentID int) ([]models.StudentCourse, error)
}

// CatalogInputs gathers everything the displayed course list depends on.
// SearchResults and StudentCourses hold the directory answers for the
// current filter.
type CatalogInputs struct {
	AllCourses     []models.Course
	Filter         models.CatalogFilter
	SearchResults  []models.Course
	StudentCourses []models.StudentCourse
}

// DeriveDisplayed picks the displayed courses: keyword search results first,
// then the selected student's courses, then the whole catalog.
func DeriveDisplayed(in CatalogInputs) []models.Course {
	switch in.Filter.Kind() {
	case models.FilterKeyword:
		return append([]models.Course{}, in.SearchResults...)
	case models.FilterStudent:
		return models.ProjectAll(in.StudentCourses)
	default:
		return append([]models.Course{}, in.AllCourses...)
	}
}

// CatalogService holds the course grid state.
type CatalogService struct {
	dir     catalogDirectory
	metrics *MetricsService
	logger  *zap.Logger

	mu         sync.Mutex
	allCourses []models.Course
	students   []models.Student
	filter     models.CatalogFilter
	displayed  []models.Course
	loading    bool
	// generation increments on every input change; an evaluation started
	// under an older generation does not overwrite the displayed list.
	generation uint64
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(dir catalogDirectory, metrics *MetricsService, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		dir:        dir,
		metrics:    metrics,
		logger:     logger,
		allCourses: []models.Course{},
		students:   []models.Student{},
		displayed:  []models.Course{},
		loading:    true,
	}
}

// Refresh reloads courses and students and replaces both wholesale. On
// failure the previous lists stay in place.
func (s *CatalogService) Refresh(ctx context.Context) error {
	var (
		courses  []models.Course
		students []models.Student
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		courses, err = s.dir.ListCourses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		students, err = s.dir.ListStudents(gctx)
		return err
	})
	err := g.Wait()
	s.metrics.RecordCatalogRefresh(err)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.mu.Unlock()
		return appErrors.Transport(err, "failed to load courses")
	}
	s.allCourses = courses
	s.students = students
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	_, err = s.evaluate(ctx, gen)
	return err
}

// NotifyChanged implements RefreshNotifier.
func (s *CatalogService) NotifyChanged(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("catalog refresh after change failed", zap.Error(err))
	}
}

// SetFilter replaces both filter inputs and re-derives the displayed list.
// A failed directory lookup keeps the previously displayed courses.
func (s *CatalogService) SetFilter(ctx context.Context, filter models.CatalogFilter) (models.CatalogView, error) {
	s.mu.Lock()
	s.filter = filter
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	return s.evaluate(ctx, gen)
}

// View snapshots the catalog.
func (s *CatalogService) View() models.CatalogView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Courses returns the unfiltered catalog.
func (s *CatalogService) Courses() []models.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Course{}, s.allCourses...)
}

// Filter returns the current filter inputs.
func (s *CatalogService) Filter() models.CatalogFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *CatalogService) evaluate(ctx context.Context, gen uint64) (models.CatalogView, error) {
	s.mu.Lock()
	in := CatalogInputs{AllCourses: s.allCourses, Filter: s.filter}
	s.mu.Unlock()

	var err error
	switch in.Filter.Kind() {
	case models.FilterKeyword:
		in.SearchResults, err = s.dir.SearchCourses(ctx, in.Filter.Keyword)
		if err != nil {
			err = appErrors.Transport(err, "search failed")
		}
	case models.FilterStudent:
		in.StudentCourses, err = s.dir.StudentCourses(ctx, *in.Filter.StudentID)
		if err != nil {
			err = appErrors.Transport(err, "failed to load the student's courses")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Warn("catalog filter lookup failed", zap.String("kind", string(in.Filter.Kind())), zap.Error(err))
		return s.viewLocked(), err
	}
	if gen == s.generation {
		s.displayed = DeriveDisplayed(in)
	}
	return s.viewLocked(), nil
}

func (s *CatalogService) viewLocked() models.CatalogView {
	return models.CatalogView{
		Filter:     s.filter,
		ActiveKind: s.filter.Kind(),
		Courses:    append([]models.Course{}, s.displayed...),
		Students:   append([]models.Student{}, s.students...),
		Loading:    s.loading,
	}
}
