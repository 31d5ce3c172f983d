package domain

import (
	"errors"
	"time"
)

// ErrInvalidPeriod rejects non-positive period lengths.
var ErrInvalidPeriod = errors.New("period length must be a positive number of days")

// Delta map keys, one per tracked metric.
const (
	MetricTotalTasks     = "total_tasks"
	MetricCompletedTasks = "completed_tasks"
	MetricCompletionRate = "completion_rate"
	MetricOverdueTasks   = "overdue_tasks"
)

// PeriodRange pins down two contiguous, non-overlapping windows of equal
// length: the current period ending today and the one immediately before it.
type PeriodRange struct {
	CurrentStart  time.Time `json:"current_start"`
	CurrentEnd    time.Time `json:"current_end"`
	PreviousStart time.Time `json:"previous_start"`
	PreviousEnd   time.Time `json:"previous_end"`
}

// PeriodStats is the aggregate over one period window.
type PeriodStats struct {
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	CompletionRate int `json:"completion_rate"` // Percent, 0-100
	OverdueTasks   int `json:"overdue_tasks"`
}

// Metrics is the full period-comparison result: current and previous window
// aggregates plus the signed percentage delta per metric. Err carries a
// retrieval failure on the live path; the numbers are zeroed when it is set.
type Metrics struct {
	PeriodDays  int            `json:"period_days"`
	Current     PeriodStats    `json:"current"`
	Previous    PeriodStats    `json:"previous"`
	Deltas      map[string]int `json:"deltas"`
	GeneratedAt time.Time      `json:"generated_at"`
	Err         string         `json:"error,omitempty"`
}
