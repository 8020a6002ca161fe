package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yukikurage/office-task-api/internal/models"
)

func TestFiscalYearStart(t *testing.T) {
	assert.Equal(t, 2025, FiscalYearStart(time.Date(2026, 6, 30, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2026, FiscalYearStart(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-2027", FiscalYearLabel(2026))
}

func TestParseFiscalYear(t *testing.T) {
	start, err := ParseFiscalYear("2025-2026")
	require.NoError(t, err)
	assert.Equal(t, 2025, start)

	for _, label := range []string{"2025", "2025-2027", "abcd-2026", "2025-"} {
		_, err := ParseFiscalYear(label)
		assert.ErrorIs(t, err, ErrInvalidFiscalYear, label)
	}
}

func newReportFixture(t *testing.T) *ReportService {
	t.Helper()
	repos := newRepos(t)
	require.NoError(t, repos.Users.Create(&models.User{ID: "1", Username: "Principal Officer 1"}))

	tasks := []models.Task{
		{ID: 100001, Name: "zoning review", AssignedOfficers: models.OfficerList{"1"}, Status: models.TaskStatusAssigned, AssignedAt: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 100002, Name: "Annual budget", AssignedOfficers: models.OfficerList{"1"}, Status: models.TaskStatusCompleted, Progress: 100, AssignedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 100003, Name: "Audit", AssignedOfficers: models.OfficerList{"x"}, Status: models.TaskStatusPending, AssignedAt: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
	}
	for i := range tasks {
		require.NoError(t, repos.Tasks.Create(&tasks[i]))
	}

	service := NewReportService(NewTaskService(repos.Tasks, repos.Users, newCalendar(t), nil))
	service.now = fixedClock
	return service
}

func TestReportService_FiscalYears(t *testing.T) {
	service := newReportFixture(t)

	years, err := service.FiscalYears()
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-2025", "2025-2026", "2026-2027"}, years)
}

func TestReportService_TaskReport(t *testing.T) {
	service := newReportFixture(t)

	report, err := service.TaskReport(TaskReportInput{FiscalYear: "2025-2026", SortByName: true})
	require.NoError(t, err)
	require.Len(t, report, 2)
	assert.Equal(t, "Annual budget", report[0].Name)
	assert.Equal(t, "zoning review", report[1].Name)
	assert.Equal(t, []string{"Principal Officer 1"}, report[0].Officers)

	all, err := service.TaskReport(TaskReportInput{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = service.TaskReport(TaskReportInput{FiscalYear: "last year"})
	assert.ErrorIs(t, err, ErrInvalidFiscalYear)
}

func TestReportService_ExportTasks(t *testing.T) {
	service := newReportFixture(t)

	buf, err := service.ExportTasks(TaskReportInput{FiscalYear: "2025-2026", SortByName: true})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{reportSheet}, f.GetSheetList())

	rows, err := f.GetRows(reportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "TASK NAME", rows[0][2])
	assert.Equal(t, []string{"1", "100002", "Annual budget", "Principal Officer 1", "Completed", "100", "", "2026-03-01"}, rows[1])
	assert.Equal(t, "zoning review", rows[2][2])
}
