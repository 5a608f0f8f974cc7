package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

var errDirectoryDown = errors.New("directory unreachable")

// fakeDirectory is an in-memory course directory. Hooks run before the
// matching call returns and may block to simulate slow responses.
type fakeDirectory struct {
	mu sync.Mutex

	courses     []models.Course
	students    []models.Student
	enrollments map[int][]int
	searchHits  map[string][]models.Course
	nextID      int

	errs  map[string]error
	calls map[string]int

	beforeGetCourse      func()
	beforeStudentCourses func()
	beforeEnroll         func()
	beforeSearch         func(keyword string)
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		courses: []models.Course{
			{ID: 1, Code: "COMP1117", Name: "Computer programming", Credits: 6},
			{ID: 5, Code: "COMP3322", Name: "Modern web technologies", Credits: 6, Instructor: "Dr. Lee"},
			{ID: 7, Code: "STAT1603", Name: "Introductory statistics", Credits: 6},
		},
		students: []models.Student{
			{ID: 1, Name: "Ann", Email: "a@x.com"},
			{ID: 2, Name: "Carl", Email: "c@x.com"},
		},
		enrollments: map[int][]int{1: {5}},
		searchHits:  map[string][]models.Course{},
		nextID:      100,
		errs:        map[string]error{},
		calls:       map[string]int{},
	}
}

func (f *fakeDirectory) fail(op string, err error) {
	f.mu.Lock()
	f.errs[op] = err
	f.mu.Unlock()
}

func (f *fakeDirectory) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeDirectory) enter(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.errs[op]
}

func (f *fakeDirectory) ListCourses(ctx context.Context) ([]models.Course, error) {
	if err := f.enter("list_courses"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Course{}, f.courses...), nil
}

func (f *fakeDirectory) ListStudents(ctx context.Context) ([]models.Student, error) {
	if err := f.enter("list_students"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Student{}, f.students...), nil
}

func (f *fakeDirectory) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	err := f.enter("get_course")
	if f.beforeGetCourse != nil {
		f.beforeGetCourse()
	}
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.courses {
		if c.ID == id {
			course := c
			return &course, nil
		}
	}
	return nil, errors.New("course not found")
}

func (f *fakeDirectory) StudentCourses(ctx context.Context, studentID int) ([]models.StudentCourse, error) {
	err := f.enter("student_courses")
	if f.beforeStudentCourses != nil {
		f.beforeStudentCourses()
	}
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.StudentCourse{}
	for _, id := range f.enrollments[studentID] {
		for _, c := range f.courses {
			if c.ID == id {
				out = append(out, models.StudentCourse{CourseID: c.ID, CourseCode: c.Code, CourseName: c.Name})
			}
		}
	}
	return out, nil
}

func (f *fakeDirectory) SearchCourses(ctx context.Context, keyword string) ([]models.Course, error) {
	err := f.enter("search_courses")
	if f.beforeSearch != nil {
		f.beforeSearch(keyword)
	}
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Course{}, f.searchHits[keyword]...), nil
}

func (f *fakeDirectory) CreateStudent(ctx context.Context, name, email string) (*models.Student, error) {
	if err := f.enter("create_student"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	s := models.Student{ID: f.nextID, Name: name, Email: email}
	f.students = append(f.students, s)
	return &s, nil
}

func (f *fakeDirectory) CreateCourse(ctx context.Context, in models.CourseInput) (*models.Course, error) {
	if err := f.enter("create_course"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c := models.Course{ID: f.nextID, Code: in.Code, Name: in.Name, Description: in.Description, Credits: in.Credits, Instructor: in.Instructor}
	f.courses = append(f.courses, c)
	return &c, nil
}

func (f *fakeDirectory) Enroll(ctx context.Context, studentID, courseID int) error {
	err := f.enter("enroll")
	if f.beforeEnroll != nil {
		f.beforeEnroll()
	}
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enrollments[studentID] = append(f.enrollments[studentID], courseID)
	return nil
}

func (f *fakeDirectory) Unenroll(ctx context.Context, studentID, courseID int) error {
	if err := f.enter("unenroll"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := []int{}
	for _, id := range f.enrollments[studentID] {
		if id != courseID {
			kept = append(kept, id)
		}
	}
	f.enrollments[studentID] = kept
	return nil
}

func (f *fakeDirectory) RemoveAllStudents(ctx context.Context, courseID int) error {
	if err := f.enter("remove_all_students"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for sid, ids := range f.enrollments {
		kept := []int{}
		for _, id := range ids {
			if id != courseID {
				kept = append(kept, id)
			}
		}
		f.enrollments[sid] = kept
	}
	return nil
}

type countingNotifier struct {
	mu    sync.Mutex
	count int
}

func (n *countingNotifier) NotifyChanged(ctx context.Context) {
	n.mu.Lock()
	n.count++
	n.mu.Unlock()
}

func (n *countingNotifier) calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}

type memorySessionRepo struct {
	mu      sync.Mutex
	records map[string]models.Student
	getErr  error
	deleted int
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{records: map[string]models.Student{}}
}

func (r *memorySessionRepo) Get(ctx context.Context, key string) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	s, ok := r.records[key]
	if !ok {
		return nil, appErrors.ErrSessionMiss
	}
	return &s, nil
}

func (r *memorySessionRepo) Put(ctx context.Context, key string, student models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[key] = student
	return nil
}

func (r *memorySessionRepo) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted++
	delete(r.records, key)
	return nil
}

func (r *memorySessionRepo) has(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[key]
	return ok
}

// gatedLister holds ListStudents until release is closed.
type gatedLister struct {
	inner   studentLister
	entered chan struct{}
	release chan struct{}
}

func newGatedLister(inner studentLister) *gatedLister {
	return &gatedLister{inner: inner, entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedLister) ListStudents(ctx context.Context) ([]models.Student, error) {
	close(g.entered)
	<-g.release
	return g.inner.ListStudents(ctx)
}

func intPtr(v int) *int {
	return &v
}

// counterValue reads one counter sample from the metrics registry.
func counterValue(t *testing.T, m *MetricsService, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	next:
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if want, ok := labels[pair.GetName()]; ok && want != pair.GetValue() {
					continue next
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}
