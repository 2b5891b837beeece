package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/courselog/courselog-api/internal/models"
	appErrors "github.com/courselog/courselog-api/pkg/errors"
)

func exportFixture() *mockLessonRepo {
	return &mockLessonRepo{byDepartment: []models.LessonRecordDetail{
		{
			LessonRecord: models.LessonRecord{
				ID:                "r1",
				Date:              time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
				StartTime:         "09:00",
				EndTime:           "11:00",
				StudentAttendance: 32,
				Mode:              models.ModeFulltime,
				Lessons:           pq.StringArray{"Normalization", "ER diagrams"},
			},
			Course:   models.Course{Code: "ITC101", Title: "Intro to Computing"},
			Lecturer: models.UserSummary{Name: "Ama Mensah"},
		},
	}}
}

func TestExportDepartmentRecordsCSV(t *testing.T) {
	svc := NewExportService(exportFixture(), zap.NewNop())

	file, err := svc.DepartmentRecords(context.Background(), models.DepartmentIT, "csv")
	require.NoError(t, err)
	assert.Equal(t, "it-lesson-records.csv", file.FileName)
	assert.Equal(t, "text/csv", file.ContentType)

	body := string(file.Content)
	assert.True(t, strings.HasPrefix(body, "Date,Course Code,Course Title,Mode,Lecturer,Start,End,Attendance,Lessons"))
	assert.Contains(t, body, "2025-03-10,ITC101,Intro to Computing,fulltime,Ama Mensah,09:00,11:00,32,Normalization; ER diagrams")
}

func TestExportDepartmentRecordsPDF(t *testing.T) {
	svc := NewExportService(exportFixture(), zap.NewNop())

	file, err := svc.DepartmentRecords(context.Background(), models.DepartmentIT, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Content), "%PDF"))
}

func TestExportDepartmentRecordsDefaultsToCSV(t *testing.T) {
	svc := NewExportService(exportFixture(), zap.NewNop())

	file, err := svc.DepartmentRecords(context.Background(), models.DepartmentIT, "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
}

func TestExportDepartmentRecordsBadFormat(t *testing.T) {
	svc := NewExportService(exportFixture(), zap.NewNop())

	_, err := svc.DepartmentRecords(context.Background(), models.DepartmentIT, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
