// Package directory is the HTTP client for the remote course directory, the
// system of record for courses, students and enrollments.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/pkg/config"
	"github.com/noah-isme/course-portal/pkg/middleware/requestid"
)

// Operation labels used for logging and metrics.
const (
	OpListCourses       = "list_courses"
	OpListStudents      = "list_students"
	OpGetCourse         = "get_course"
	OpStudentCourses    = "student_courses"
	OpSearchCourses     = "search_courses"
	OpCreateStudent     = "create_student"
	OpCreateCourse      = "create_course"
	OpEnroll            = "enroll"
	OpUnenroll          = "unenroll"
	OpRemoveAllStudents = "remove_all_students"
)

// Observer receives one callback per directory call.
type Observer interface {
	ObserveDirectoryCall(operation string, err error, duration time.Duration)
}

// StatusError reports a non-2xx directory response.
type StatusError struct {
	Operation string
	Status    int
	Message   string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("directory %s: status %d: %s", e.Operation, e.Status, e.Message)
	}
	return fmt.Sprintf("directory %s: status %d", e.Operation, e.Status)
}

// Client talks JSON over HTTP to the directory. It never retries.
type Client struct {
	baseURL  string
	http     *http.Client
	observer Observer
	logger   *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying transport.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithObserver attaches a call observer.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithLogger sets the client logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New constructs a directory client. A zero timeout leaves requests unbounded.
func New(cfg config.DirectoryConfig, opts ...Option) *Client {
	c := &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type coursesEnvelope struct {
	Courses []models.Course `json:"courses"`
}

type courseEnvelope struct {
	Course models.Course `json:"course"`
}

type studentsEnvelope struct {
	Students []models.Student `json:"students"`
}

type studentEnvelope struct {
	Student models.Student `json:"student"`
}

type studentCoursesEnvelope struct {
	Courses []models.StudentCourse `json:"courses"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

// ListCourses returns the full catalog.
func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	var out coursesEnvelope
	if err := c.do(ctx, OpListCourses, http.MethodGet, "/courses", nil, &out); err != nil {
		return nil, err
	}
	return nonNilCourses(out.Courses), nil
}

// ListStudents returns every student record.
func (c *Client) ListStudents(ctx context.Context) ([]models.Student, error) {
	var out studentsEnvelope
	if err := c.do(ctx, OpListStudents, http.MethodGet, "/students", nil, &out); err != nil {
		return nil, err
	}
	if out.Students == nil {
		out.Students = []models.Student{}
	}
	return out.Students, nil
}

// GetCourse returns one course with all detail fields.
func (c *Client) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	var out courseEnvelope
	if err := c.do(ctx, OpGetCourse, http.MethodGet, "/course/"+strconv.Itoa(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Course, nil
}

// StudentCourses returns the enrollment listing of a student.
func (c *Client) StudentCourses(ctx context.Context, studentID int) ([]models.StudentCourse, error) {
	var out studentCoursesEnvelope
	if err := c.do(ctx, OpStudentCourses, http.MethodGet, "/student/"+strconv.Itoa(studentID), nil, &out); err != nil {
		return nil, err
	}
	if out.Courses == nil {
		out.Courses = []models.StudentCourse{}
	}
	return out.Courses, nil
}

// SearchCourses runs the directory keyword search.
func (c *Client) SearchCourses(ctx context.Context, keyword string) ([]models.Course, error) {
	var out coursesEnvelope
	path := "/course/search?keyword=" + url.QueryEscape(keyword)
	if err := c.do(ctx, OpSearchCourses, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return nonNilCourses(out.Courses), nil
}

// CreateStudent registers a new student.
func (c *Client) CreateStudent(ctx context.Context, name, email string) (*models.Student, error) {
	var out studentEnvelope
	body := models.Credentials{Name: name, Email: email}
	if err := c.do(ctx, OpCreateStudent, http.MethodPost, "/students", body, &out); err != nil {
		return nil, err
	}
	return &out.Student, nil
}

// CreateCourse adds a course to the catalog.
func (c *Client) CreateCourse(ctx context.Context, in models.CourseInput) (*models.Course, error) {
	var out courseEnvelope
	if err := c.do(ctx, OpCreateCourse, http.MethodPost, "/courses", in, &out); err != nil {
		return nil, err
	}
	return &out.Course, nil
}

// Enroll adds the enrollment relation.
func (c *Client) Enroll(ctx context.Context, studentID, courseID int) error {
	return c.do(ctx, OpEnroll, http.MethodPost, enrollmentPath(studentID, courseID), nil, nil)
}

// Unenroll removes the enrollment relation.
func (c *Client) Unenroll(ctx context.Context, studentID, courseID int) error {
	return c.do(ctx, OpUnenroll, http.MethodDelete, enrollmentPath(studentID, courseID), nil, nil)
}

// RemoveAllStudents drops every enrollment of a course.
func (c *Client) RemoveAllStudents(ctx context.Context, courseID int) error {
	return c.do(ctx, OpRemoveAllStudents, http.MethodDelete, fmt.Sprintf("/courses/%d/students", courseID), nil, nil)
}

func enrollmentPath(studentID, courseID int) string {
	return fmt.Sprintf("/students/%d/courses/%d", studentID, courseID)
}

func nonNilCourses(in []models.Course) []models.Course {
	if in == nil {
		return []models.Course{}
	}
	return in
}

func (c *Client) do(ctx context.Context, op, method, path string, body, dest interface{}) (err error) {
	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveDirectoryCall(op, err, time.Since(start))
		}
		if err != nil {
			c.logger.Warn("directory call failed", zap.String("operation", op), zap.String("method", method), zap.String("path", path), zap.Error(err))
		}
	}()

	var reader io.Reader
	if body != nil {
		payload, mErr := json.Marshal(body)
		if mErr != nil {
			return fmt.Errorf("directory %s: encode body: %w", op, mErr)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("directory %s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("directory %s: %w", op, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("directory %s: read body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr errorEnvelope
		_ = json.Unmarshal(raw, &apiErr)
		return &StatusError{Operation: op, Status: resp.StatusCode, Message: apiErr.Error}
	}

	if dest == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("directory %s: decode body: %w", op, err)
	}
	return nil
}
