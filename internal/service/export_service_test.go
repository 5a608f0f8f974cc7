package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

func newTestExportService() *ExportService {
	svc := NewExportService(nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }
	return svc
}

func TestExportCoursesCSV(t *testing.T) {
	svc := newTestExportService()
	courses := []models.Course{
		{ID: 5, Code: "COMP3322", Name: "Modern web technologies", Credits: 6, Instructor: "Dr. Lee"},
		models.StudentCourse{CourseID: 7, CourseCode: "STAT1603", CourseName: "Introductory statistics"}.Project(),
	}

	file, err := svc.Courses(courses, "CSV", "Course catalog")
	require.NoError(t, err)
	assert.Equal(t, "courses-20240301-093000.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	lines := strings.Split(strings.TrimSpace(string(file.Body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Code,Course,Credits,Instructor,Semester,Time,Location", lines[0])
	assert.Equal(t, "COMP3322,Modern web technologies,6,Dr. Lee,,,", lines[1])
	assert.Equal(t, "STAT1603,Introductory statistics,,,,,", lines[2])
}

func TestExportCoursesPDF(t *testing.T) {
	svc := newTestExportService()
	file, err := svc.Courses([]models.Course{{ID: 1, Code: "COMP1117", Name: "Computer programming"}}, ExportPDF, "Course catalog")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Body), "%PDF"))
}

func TestExportUnknownFormat(t *testing.T) {
	_, err := newTestExportService().Courses(nil, "xlsx", "Course catalog")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
