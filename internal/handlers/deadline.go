package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/office-task-api/internal/constants"
	"github.com/yukikurage/office-task-api/internal/deadline"
	apierrors "github.com/yukikurage/office-task-api/internal/errors"
)

// DeadlineHandler exposes the business-day calendar.
type DeadlineHandler struct {
	calendar *deadline.Calendar
	now      func() time.Time
}

func NewDeadlineHandler(calendar *deadline.Calendar) *DeadlineHandler {
	return &DeadlineHandler{calendar: calendar, now: time.Now}
}

// ComputeDeadline returns the date that lies the requested number of business days ahead
func (h *DeadlineHandler) ComputeDeadline(c *gin.Context) {
	days, err := strconv.Atoi(c.Query("days"))
	if err != nil || days < 0 || days > constants.MaxLeadDays {
		apierrors.BadRequest(c, fmt.Sprintf("days must be an integer between 0 and %d", constants.MaxLeadDays))
		return
	}

	from := h.now()
	if raw := c.Query("from"); raw != "" {
		if from, err = deadline.Parse(raw); err != nil {
			apierrors.BadRequest(c, err.Error())
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"deadline": deadline.Format(h.calendar.AddBusinessDays(from, days)),
	})
}

// ValidateDeadline rejects dates on weekends and holidays
func (h *DeadlineHandler) ValidateDeadline(c *gin.Context) {
	type ValidateRequest struct {
		Date string `json:"date" binding:"required"`
	}

	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "date is required")
		return
	}

	if err := h.calendar.ValidateString(req.Date); err != nil {
		var holiday *deadline.HolidayError
		if errors.As(err, &holiday) {
			apierrors.BadRequestWithDetails(c, err.Error(), gin.H{"holiday": holiday.Name})
			return
		}
		apierrors.BadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// ListHolidays returns the holiday table
func (h *DeadlineHandler) ListHolidays(c *gin.Context) {
	c.JSON(http.StatusOK, h.calendar.Holidays())
}
