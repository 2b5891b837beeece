package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/courselog/courselog-api/internal/models"
	appErrors "github.com/courselog/courselog-api/pkg/errors"
	"github.com/courselog/courselog-api/pkg/export"
)

type exportLessonReader interface {
	ListByDepartment(ctx context.Context, dept models.Department) ([]models.LessonRecordDetail, error)
}

// ExportFile is a rendered export ready to stream to the client.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportService renders department lesson records as downloadable files.
type ExportService struct {
	lessons exportLessonReader
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(lessons exportLessonReader, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		lessons: lessons,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// DepartmentRecords renders every lesson record in the department as a
// CSV or PDF file.
func (s *ExportService) DepartmentRecords(ctx context.Context, dept models.Department, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	records, err := s.lessons.ListByDepartment(ctx, dept)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list department records")
	}

	dataset := buildLessonDataset(records)
	fileName := fmt.Sprintf("%s-lesson-records.%s", dept, format)

	var content []byte
	var contentType string
	switch format {
	case "pdf":
		content, err = s.pdf.Render(dataset, fmt.Sprintf("%s department lesson records", dept))
		contentType = "application/pdf"
	default:
		content, err = s.csv.Render(dataset)
		contentType = "text/csv"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.logger.Info("department export rendered",
		zap.String("department", string(dept)),
		zap.String("format", format),
		zap.Int("records", len(records)))
	return &ExportFile{FileName: fileName, ContentType: contentType, Content: content}, nil
}

func buildLessonDataset(records []models.LessonRecordDetail) export.Dataset {
	headers := []string{"Date", "Course Code", "Course Title", "Mode", "Lecturer", "Start", "End", "Attendance", "Lessons"}
	rows := make([]map[string]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, map[string]string{
			"Date":         record.Date.Format(dateLayout),
			"Course Code":  record.Course.Code,
			"Course Title": record.Course.Title,
			"Mode":         string(record.Mode),
			"Lecturer":     record.Lecturer.Name,
			"Start":        record.StartTime,
			"End":          record.EndTime,
			"Attendance":   strconv.Itoa(record.StudentAttendance),
			"Lessons":      strings.Join(record.Lessons, "; "),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
