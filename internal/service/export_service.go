package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
	"github.com/noah-isme/course-portal/pkg/export"
)

// Export formats.
const (
	ExportCSV = "csv"
	ExportPDF = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

var catalogColumns = []export.Column{
	{Key: "code", Label: "Code", Weight: 1.2},
	{Key: "name", Label: "Course", Weight: 3},
	{Key: "credits", Label: "Credits", Weight: 0.7},
	{Key: "instructor", Label: "Instructor", Weight: 1.6},
	{Key: "semester", Label: "Semester", Weight: 1},
	{Key: "time_slot", Label: "Time", Weight: 1.6},
	{Key: "location", Label: "Location", Weight: 1.4},
}

// ExportService renders course lists into downloadable files.
type ExportService struct {
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs ExportService.
func NewExportService(csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Courses renders courses in the requested format.
func (s *ExportService) Courses(courses []models.Course, format, title string) (*ExportFile, error) {
	dataset := export.Dataset{Title: title, Columns: catalogColumns, Rows: make([]map[string]string, 0, len(courses))}
	for _, course := range courses {
		dataset.Rows = append(dataset.Rows, course.ExportRow())
	}

	stamp := s.now().UTC().Format("20060102-150405")
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "", ExportCSV:
		body, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{Filename: fmt.Sprintf("courses-%s.csv", stamp), ContentType: "text/csv", Body: body}, nil
	case ExportPDF:
		body, err := s.pdf.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{Filename: fmt.Sprintf("courses-%s.pdf", stamp), ContentType: "application/pdf", Body: body}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
