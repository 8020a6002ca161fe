package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/office-task-api/internal/errors"
	"github.com/yukikurage/office-task-api/internal/services"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reportService *services.ReportService
	logger        *zap.Logger
}

func NewReportHandler(reportService *services.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reportService: reportService, logger: logger}
}

// ListFiscalYears returns the selectable fiscal year labels
func (h *ReportHandler) ListFiscalYears(c *gin.Context) {
	years, err := h.reportService.FiscalYears()
	if err != nil {
		h.respondReportError(c, err)
		return
	}
	c.JSON(http.StatusOK, years)
}

// TaskReport returns the tasks of one fiscal year
// Query: fiscalYear=2025-2026, sort=name
func (h *ReportHandler) TaskReport(c *gin.Context) {
	tasks, err := h.reportService.TaskReport(reportInput(c))
	if err != nil {
		h.respondReportError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskDTOs(tasks))
}

// ExportTaskReport downloads the task report as an xlsx workbook
func (h *ReportHandler) ExportTaskReport(c *gin.Context) {
	buf, err := h.reportService.ExportTasks(reportInput(c))
	if err != nil {
		h.respondReportError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="tasks-report.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func reportInput(c *gin.Context) services.TaskReportInput {
	return services.TaskReportInput{
		FiscalYear: c.Query("fiscalYear"),
		SortByName: c.Query("sort") == "name",
	}
}

func (h *ReportHandler) respondReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidFiscalYear):
		apierrors.BadRequest(c, err.Error())
	default:
		h.logger.Error("report request failed", zap.Error(err))
		apierrors.InternalError(c, "Internal server error")
	}
}
