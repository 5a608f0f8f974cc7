package directory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/pkg/config"
	"github.com/noah-isme/course-portal/pkg/middleware/requestid"
)

type recordedCall struct {
	op  string
	err error
}

type fakeObserver struct {
	calls []recordedCall
}

func (f *fakeObserver) ObserveDirectoryCall(op string, err error, _ time.Duration) {
	f.calls = append(f.calls, recordedCall{op: op, err: err})
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *fakeObserver) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	obs := &fakeObserver{}
	return New(config.DirectoryConfig{BaseURL: srv.URL}, WithObserver(obs)), obs
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListCourses(t *testing.T) {
	client, obs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/courses", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"courses": []map[string]interface{}{{"id": 1, "course_code": "COMP1117", "course_name": "Computer programming", "credits": 6}},
		})
	})

	courses, err := client.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, models.Course{ID: 1, Code: "COMP1117", Name: "Computer programming", Credits: 6}, courses[0])
	require.Len(t, obs.calls, 1)
	assert.Equal(t, OpListCourses, obs.calls[0].op)
	assert.NoError(t, obs.calls[0].err)
}

func TestListStudentsEmptyBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{})
	})

	students, err := client.ListStudents(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}

func TestStudentCourses(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/student/1", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"student":     map[string]interface{}{"id": 1},
			"courses":     []map[string]interface{}{{"course_id": 5, "course_code": "COMP3322", "course_name": "Web"}},
			"total_count": 1,
		})
	})

	rows, err := client.StudentCourses(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []models.StudentCourse{{CourseID: 5, CourseCode: "COMP3322", CourseName: "Web"}}, rows)
}

func TestSearchEscapesKeyword(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/course/search", r.URL.Path)
		assert.Equal(t, "data & ai", r.URL.Query().Get("keyword"))
		writeJSON(w, http.StatusOK, map[string]interface{}{"courses": []interface{}{}})
	})

	courses, err := client.SearchCourses(context.Background(), "data & ai")
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestCreateStudentSendsBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"name": "Bob", "email": "b@x.com"}, body)
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"student": map[string]interface{}{"id": 9, "name": "Bob", "email": "b@x.com"},
			"message": "created",
		})
	})

	student, err := client.CreateStudent(context.Background(), "Bob", "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, &models.Student{ID: 9, Name: "Bob", Email: "b@x.com"}, student)
}

func TestEnrollPathAndRequestID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/students/1/courses/5", r.URL.Path)
		assert.Equal(t, "req-1", r.Header.Get(requestid.Header))
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})

	ctx := requestid.WithContext(context.Background(), "req-1")
	require.NoError(t, client.Enroll(ctx, 1, 5))
}

func TestUnenrollAndBulkRemovePaths(t *testing.T) {
	var paths []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.Unenroll(context.Background(), 1, 5))
	require.NoError(t, client.RemoveAllStudents(context.Background(), 5))
	assert.Equal(t, []string{"/students/1/courses/5", "/courses/5/students"}, paths)
}

func TestNon2xxIsStatusError(t *testing.T) {
	client, obs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "student is already enrolled in this course"})
	})

	err := client.Enroll(context.Background(), 1, 5)
	require.Error(t, err)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.Status)
	assert.Equal(t, OpEnroll, statusErr.Operation)
	assert.Contains(t, statusErr.Error(), "already enrolled")
	require.Len(t, obs.calls, 1)
	assert.Error(t, obs.calls[0].err)
}

func TestMalformedBodyFails(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{not json"))
	})

	_, err := client.GetCourse(context.Background(), 3)
	assert.Error(t, err)
}

func TestUnreachableDirectory(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := New(config.DirectoryConfig{BaseURL: srv.URL})

	_, err := client.ListCourses(context.Background())
	assert.Error(t, err)
}

func TestWithHTTPClientBoundsRequests(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		writeJSON(w, http.StatusOK, map[string]interface{}{"courses": []interface{}{}})
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client := New(config.DirectoryConfig{BaseURL: srv.URL}, WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))

	_, err := client.ListCourses(context.Background())
	assert.Error(t, err)
}
