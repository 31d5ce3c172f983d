package usecase

import (
	"time"

	taskdomain "planora-backend/internal/task/domain"
	taskrepo "planora-backend/internal/task/repository"
)

// Event is a calendar entry projected from a task's due date. Events are
// never persisted: they are re-derived from the task collection on every
// request and on every task feed change.
type Event struct {
	ID       string    `json:"id"`
	TaskID   string    `json:"task_id"`
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	AllDay   bool      `json:"all_day"`
	Color    string    `json:"color"`
	Priority string    `json:"priority"`
	Status   string    `json:"status"`
}

// CalendarUsecase projects tasks onto the calendar grid
type CalendarUsecase interface {
	// Events returns the user's calendar events with a due date inside
	// [from, to]. A zero bound leaves that side open.
	Events(userID string, from, to time.Time) ([]Event, error)
}

// TaskSource is the slice of the task repository the calendar reads.
type TaskSource interface {
	FindByUserID(userID string, opts taskrepo.ListOptions) ([]*taskdomain.Task, int64, error)
}
