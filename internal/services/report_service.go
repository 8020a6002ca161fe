package services

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/yukikurage/office-task-api/internal/constants"
)

var ErrInvalidFiscalYear = errors.New(`fiscal year must look like "2024-2025"`)

const reportSheet = "Tasks"

// ReportService builds fiscal-year task reports.
type ReportService struct {
	tasks *TaskService
	now   func() time.Time
}

func NewReportService(tasks *TaskService) *ReportService {
	return &ReportService{tasks: tasks, now: time.Now}
}

// TaskReportInput selects the tasks of a report. An empty FiscalYear keeps every task.
type TaskReportInput struct {
	FiscalYear string
	SortByName bool
}

// FiscalYearStart returns the calendar year in which t's fiscal year begins.
func FiscalYearStart(t time.Time) int {
	if int(t.Month()) >= constants.FiscalYearStartMonth {
		return t.Year()
	}
	return t.Year() - 1
}

// FiscalYearLabel formats the fiscal year starting in start, e.g. "2024-2025".
func FiscalYearLabel(start int) string {
	return fmt.Sprintf("%d-%d", start, start+1)
}

// ParseFiscalYear returns the start year of a "YYYY-YYYY" label.
func ParseFiscalYear(label string) (int, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(label), "-")
	if !ok {
		return 0, ErrInvalidFiscalYear
	}
	start, err := strconv.Atoi(from)
	if err != nil {
		return 0, ErrInvalidFiscalYear
	}
	end, err := strconv.Atoi(to)
	if err != nil || end != start+1 {
		return 0, ErrInvalidFiscalYear
	}
	return start, nil
}

// FiscalYears lists every fiscal year from the first reporting year up to the
// latest one that has a task or is current.
func (s *ReportService) FiscalYears() ([]string, error) {
	tasks, err := s.tasks.List()
	if err != nil {
		return nil, err
	}

	last := FiscalYearStart(s.now())
	for _, task := range tasks {
		if fy := FiscalYearStart(task.AssignedAt); fy > last {
			last = fy
		}
	}

	labels := []string{}
	for year := constants.FirstFiscalYear; year <= last; year++ {
		labels = append(labels, FiscalYearLabel(year))
	}
	return labels, nil
}

// TaskReport returns the tasks assigned in the selected fiscal year.
func (s *ReportService) TaskReport(input TaskReportInput) ([]ResolvedTask, error) {
	filter := func(ResolvedTask) bool { return true }
	if input.FiscalYear != "" {
		start, err := ParseFiscalYear(input.FiscalYear)
		if err != nil {
			return nil, err
		}
		filter = func(task ResolvedTask) bool {
			return FiscalYearStart(task.AssignedAt) == start
		}
	}

	tasks, err := s.tasks.List()
	if err != nil {
		return nil, err
	}

	report := make([]ResolvedTask, 0, len(tasks))
	for _, task := range tasks {
		if filter(task) {
			report = append(report, task)
		}
	}

	if input.SortByName {
		sort.SliceStable(report, func(i, j int) bool {
			return strings.ToLower(report[i].Name) < strings.ToLower(report[j].Name)
		})
	}
	return report, nil
}

// ExportTasks renders a task report as an xlsx workbook.
func (s *ReportService) ExportTasks(input TaskReportInput) (*bytes.Buffer, error) {
	tasks, err := s.TaskReport(input)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(reportSheet)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("error removing default sheet: %w", err)
	}

	headers := []string{
		"NO", "TASK ID", "TASK NAME", "ASSIGNED OFFICER", "STATUS",
		"PROGRESS", "DEADLINE", "DATE ASSIGNED",
	}
	if err := f.SetSheetRow(reportSheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("error writing headers: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6FA"},
			Pattern: 1,
		},
	})
	if err == nil {
		f.SetRowStyle(reportSheet, 1, 1, headerStyle)
	}

	for i, task := range tasks {
		row := []interface{}{
			i + 1,
			task.ID,
			task.Name,
			strings.Join(task.Officers, ", "),
			string(task.Status),
			task.Progress,
			task.Deadline,
			task.AssignedAt.Format("2006-01-02"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}

	f.SetColWidth(reportSheet, "A", "A", 6)
	f.SetColWidth(reportSheet, "B", "B", 12)
	f.SetColWidth(reportSheet, "C", "D", 40)
	f.SetColWidth(reportSheet, "E", "H", 15)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing Excel file to buffer: %w", err)
	}
	return &buf, nil
}
