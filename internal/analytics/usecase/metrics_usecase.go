package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"planora-backend/internal/analytics/domain"
	taskdomain "planora-backend/internal/task/domain"
	taskrepo "planora-backend/internal/task/repository"
	"planora-backend/pkg/feed"
	"planora-backend/pkg/logger"
)

// metricsUsecase implements MetricsUsecase on top of the task repository and
// the task change feed.
type metricsUsecase struct {
	tasks   TaskSource
	changes *feed.Feed[[]*taskdomain.Task]
}

// NewMetricsUsecase creates a new instance of metricsUsecase.
func NewMetricsUsecase(tasks TaskSource, changes *feed.Feed[[]*taskdomain.Task]) MetricsUsecase {
	return &metricsUsecase{
		tasks:   tasks,
		changes: changes,
	}
}

// PeriodRange derives the current and previous comparison windows from a
// reference instant. The current window runs from the start of the day
// (days-1) days ago through the end of today; the previous window is the
// equal-length block of days immediately before it.
func PeriodRange(now time.Time, days int) (domain.PeriodRange, error) {
	if days <= 0 {
		return domain.PeriodRange{}, domain.ErrInvalidPeriod
	}
	return domain.PeriodRange{
		CurrentStart:  startOfDay(now.AddDate(0, 0, -(days - 1))),
		CurrentEnd:    endOfDay(now),
		PreviousStart: startOfDay(now.AddDate(0, 0, -(2*days - 1))),
		PreviousEnd:   startOfDay(now.AddDate(0, 0, -days)),
	}, nil
}

// Aggregate computes the per-window statistics over a task collection.
// The in-window subset is bounded only from below: every task created at or
// after the window start counts towards the total. Overdue is different on
// purpose: a task is overdue as of the window end no matter when it was
// created, so it is counted across the full collection.
func Aggregate(tasks []*taskdomain.Task, start, end time.Time) domain.PeriodStats {
	var stats domain.PeriodStats
	for _, t := range tasks {
		if t.OverdueAt(end) {
			stats.OverdueTasks++
		}
		if t.CreatedAt.Before(start) {
			continue
		}
		stats.TotalTasks++
		if t.Status == taskdomain.TaskStatusCompleted {
			stats.CompletedTasks++
		}
	}
	if stats.TotalTasks > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100))
	}
	return stats
}

// Delta returns the signed percentage change from previous to current. A
// zero previous value maps to 100 when anything appeared and 0 when both
// sides are zero, so division by zero never surfaces.
func Delta(current, previous int) int {
	switch {
	case previous > 0:
		return int(math.Round(float64(current-previous) / float64(previous) * 100))
	case current > 0:
		return 100
	default:
		return 0
	}
}

func (u *metricsUsecase) Fetch(userID string, periodDays int) (*domain.Metrics, error) {
	if periodDays <= 0 {
		return nil, domain.ErrInvalidPeriod
	}

	tasks, _, err := u.tasks.FindByUserID(userID, taskrepo.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	return compute(tasks, periodDays, time.Now()), nil
}

func (u *metricsUsecase) Watch(ctx context.Context, userID string, periodDays int) (*feed.Subscription[*domain.Metrics], error) {
	if periodDays <= 0 {
		return nil, domain.ErrInvalidPeriod
	}

	out, push := feed.Pipe[*domain.Metrics]()
	src := u.changes.Subscribe(userID)

	go func() {
		defer src.Cancel()

		// Initial emission from the current snapshot. A retrieval failure
		// becomes a zeroed result carrying the error, never a dead stream.
		if tasks, _, err := u.tasks.FindByUserID(userID, taskrepo.ListOptions{}); err != nil {
			logger.Warnf("[Analytics] initial snapshot failed for user %s: %v", userID, err)
			push(erroredMetrics(periodDays, err))
		} else {
			push(compute(tasks, periodDays, time.Now()))
		}

		for {
			select {
			case snapshot := <-src.C():
				push(compute(snapshot, periodDays, time.Now()))
			case <-out.Done():
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// compute aggregates both windows and derives the deltas. periodDays must
// already be validated.
func compute(tasks []*taskdomain.Task, periodDays int, now time.Time) *domain.Metrics {
	pr, _ := PeriodRange(now, periodDays)
	current := Aggregate(tasks, pr.CurrentStart, pr.CurrentEnd)
	previous := Aggregate(tasks, pr.PreviousStart, pr.PreviousEnd)

	return &domain.Metrics{
		PeriodDays: periodDays,
		Current:    current,
		Previous:   previous,
		Deltas: map[string]int{
			domain.MetricTotalTasks:     Delta(current.TotalTasks, previous.TotalTasks),
			domain.MetricCompletedTasks: Delta(current.CompletedTasks, previous.CompletedTasks),
			domain.MetricCompletionRate: Delta(current.CompletionRate, previous.CompletionRate),
			domain.MetricOverdueTasks:   Delta(current.OverdueTasks, previous.OverdueTasks),
		},
		GeneratedAt: now,
	}
}

func erroredMetrics(periodDays int, err error) *domain.Metrics {
	return &domain.Metrics{
		PeriodDays: periodDays,
		Deltas: map[string]int{
			domain.MetricTotalTasks:     0,
			domain.MetricCompletedTasks: 0,
			domain.MetricCompletionRate: 0,
			domain.MetricOverdueTasks:   0,
		},
		GeneratedAt: time.Now(),
		Err:         err.Error(),
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
