package delivery

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"planora-backend/internal/calendar/usecase"
)

// CalendarHandler handles calendar HTTP requests
type CalendarHandler struct {
	calendarUsecase usecase.CalendarUsecase
}

// NewCalendarHandler creates a new CalendarHandler
func NewCalendarHandler(calendarUsecase usecase.CalendarUsecase) *CalendarHandler {
	return &CalendarHandler{
		calendarUsecase: calendarUsecase,
	}
}

// GetEvents returns the user's calendar events within a date range
// GET /api/calendar/events?from=2025-06-01&to=2025-06-30
func (h *CalendarHandler) GetEvents(c *gin.Context) {
	userID := c.GetString("userID")

	from, ok := parseBound(c.Query("from"), false)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected RFC3339 or YYYY-MM-DD"})
		return
	}
	to, ok := parseBound(c.Query("to"), true)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected RFC3339 or YYYY-MM-DD"})
		return
	}

	events, err := h.calendarUsecase.Events(userID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}

// parseBound reads a range bound as RFC3339 or a plain date. Plain dates
// expand to the start of the day, or its end for the upper bound, keeping
// both bounds inclusive. An empty value is the open bound.
func parseBound(value string, endOfDay bool) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, true
}
