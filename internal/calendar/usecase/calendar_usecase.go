package usecase

import (
	"sort"
	"time"

	taskdomain "planora-backend/internal/task/domain"
	taskrepo "planora-backend/internal/task/repository"
)

// Event colors keyed by priority, with a muted tone once completed.
const (
	colorHigh      = "#ef4444"
	colorMedium    = "#f59e0b"
	colorLow       = "#10b981"
	colorCompleted = "#9ca3af"
)

// calendarUsecase implements CalendarUsecase interface
type calendarUsecase struct {
	tasks TaskSource
}

// NewCalendarUsecase creates a new instance of calendarUsecase
func NewCalendarUsecase(tasks TaskSource) CalendarUsecase {
	return &calendarUsecase{tasks: tasks}
}

func (u *calendarUsecase) Events(userID string, from, to time.Time) ([]Event, error) {
	tasks, _, err := u.tasks.FindByUserID(userID, taskrepo.ListOptions{})
	if err != nil {
		return nil, err
	}
	return Project(tasks, from, to), nil
}

// Project derives calendar events from the dated tasks in the collection.
// Tasks without a due date never appear. A zero from/to bound leaves that
// side of the range open; both bounds are inclusive.
func Project(tasks []*taskdomain.Task, from, to time.Time) []Event {
	events := make([]Event, 0, len(tasks))
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		due := *t.DueDate
		if !from.IsZero() && due.Before(from) {
			continue
		}
		if !to.IsZero() && due.After(to) {
			continue
		}
		events = append(events, Event{
			ID:       "task-" + t.ID,
			TaskID:   t.ID,
			Title:    t.Title,
			Start:    due,
			End:      due.Add(time.Hour),
			AllDay:   isMidnight(due),
			Color:    eventColor(t),
			Priority: string(t.Priority),
			Status:   string(t.Status),
		})
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].Title < events[j].Title
	})

	return events
}

func eventColor(t *taskdomain.Task) string {
	if t.Status == taskdomain.TaskStatusCompleted {
		return colorCompleted
	}
	switch t.Priority {
	case taskdomain.PriorityHigh:
		return colorHigh
	case taskdomain.PriorityLow:
		return colorLow
	default:
		return colorMedium
	}
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
