package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planora-backend/internal/analytics/domain"
	taskdomain "planora-backend/internal/task/domain"
	taskrepo "planora-backend/internal/task/repository"
	"planora-backend/pkg/feed"
)

func ptr(t time.Time) *time.Time { return &t }

func TestPeriodRangeWindowsAreContiguous(t *testing.T) {
	now := time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)

	for _, days := range []int{1, 7, 30, 90} {
		pr, err := PeriodRange(now, days)
		require.NoError(t, err)

		// The previous window ends on the day right before the current one
		// starts.
		assert.Equal(t, pr.PreviousEnd.AddDate(0, 0, 1), pr.CurrentStart, "days=%d", days)

		// Both windows cover exactly `days` calendar days.
		assert.Equal(t, days-1, int(pr.CurrentEnd.Sub(pr.CurrentStart).Hours()/24), "days=%d", days)
		assert.Equal(t, days-1, int(pr.PreviousEnd.Sub(pr.PreviousStart).Hours()/24), "days=%d", days)

		// Day boundaries.
		assert.Equal(t, 0, pr.CurrentStart.Hour())
		assert.Equal(t, 23, pr.CurrentEnd.Hour())
		assert.True(t, pr.PreviousStart.Before(pr.PreviousEnd) || days == 1)
	}
}

func TestPeriodRangeRejectsNonPositiveLength(t *testing.T) {
	now := time.Now()

	for _, days := range []int{0, -1, -30} {
		_, err := PeriodRange(now, days)
		assert.ErrorIs(t, err, domain.ErrInvalidPeriod, "days=%d", days)
	}
}

func TestAggregateScenario(t *testing.T) {
	// Two tasks, seven-day period anchored at January 10: the current window
	// is January 4 through 10. Only the task created January 5 falls in the
	// window; the January 1 task is still counted as overdue because overdue
	// looks at the whole collection as of the window end.
	jan := func(d int) time.Time { return time.Date(2025, 1, d, 10, 0, 0, 0, time.UTC) }

	tasks := []*taskdomain.Task{
		{ID: "t1", CreatedAt: jan(1), DueDate: ptr(jan(10)), Status: taskdomain.TaskStatusPending},
		{ID: "t2", CreatedAt: jan(5), DueDate: ptr(jan(20)), Status: taskdomain.TaskStatusCompleted},
	}

	pr, err := PeriodRange(jan(10), 7)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC), pr.CurrentStart)

	stats := Aggregate(tasks, pr.CurrentStart, pr.CurrentEnd)
	assert.Equal(t, 1, stats.TotalTasks)
	assert.Equal(t, 1, stats.CompletedTasks)
	assert.Equal(t, 100, stats.CompletionRate)
	assert.Equal(t, 1, stats.OverdueTasks)
}

func TestAggregateCompletionRateBounds(t *testing.T) {
	jan := func(d int) time.Time { return time.Date(2025, 1, d, 10, 0, 0, 0, time.UTC) }
	start, end := jan(1), jan(31)

	// Empty collection: everything zero.
	stats := Aggregate(nil, start, end)
	assert.Zero(t, stats.TotalTasks)
	assert.Zero(t, stats.CompletionRate)

	// No completions: rate stays zero with a non-zero total.
	stats = Aggregate([]*taskdomain.Task{
		{CreatedAt: jan(2), Status: taskdomain.TaskStatusPending},
		{CreatedAt: jan(3), Status: taskdomain.TaskStatusInProgress},
	}, start, end)
	assert.Equal(t, 2, stats.TotalTasks)
	assert.Equal(t, 0, stats.CompletionRate)

	// One of three rounds to 33; everything stays within [0,100].
	stats = Aggregate([]*taskdomain.Task{
		{CreatedAt: jan(2), Status: taskdomain.TaskStatusCompleted},
		{CreatedAt: jan(3), Status: taskdomain.TaskStatusPending},
		{CreatedAt: jan(4), Status: taskdomain.TaskStatusPending},
	}, start, end)
	assert.Equal(t, 33, stats.CompletionRate)
	assert.GreaterOrEqual(t, stats.CompletionRate, 0)
	assert.LessOrEqual(t, stats.CompletionRate, 100)
}

func TestAggregateTotalIsBoundedOnlyFromBelow(t *testing.T) {
	// The in-window filter checks the creation lower bound only, so a task
	// created after the window end still counts towards the window total.
	// The previous-period numbers therefore include later records as well.
	jan := func(d int) time.Time { return time.Date(2025, 1, d, 10, 0, 0, 0, time.UTC) }

	tasks := []*taskdomain.Task{
		{CreatedAt: jan(2), Status: taskdomain.TaskStatusPending},
		{CreatedAt: jan(25), Status: taskdomain.TaskStatusPending}, // after window end
	}

	stats := Aggregate(tasks, jan(1), jan(10))
	assert.Equal(t, 2, stats.TotalTasks)
}

func TestAggregateOverdueIgnoresCreationWindow(t *testing.T) {
	jan := func(d int) time.Time { return time.Date(2025, 1, d, 10, 0, 0, 0, time.UTC) }

	tasks := []*taskdomain.Task{
		// Created long before the window start, due before the window end.
		{CreatedAt: jan(1), DueDate: ptr(jan(12)), Status: taskdomain.TaskStatusPending},
		// Completed tasks are never overdue.
		{CreatedAt: jan(1), DueDate: ptr(jan(12)), Status: taskdomain.TaskStatusCompleted},
		// Due after the window end.
		{CreatedAt: jan(1), DueDate: ptr(jan(25)), Status: taskdomain.TaskStatusPending},
	}

	stats := Aggregate(tasks, jan(10), jan(15))
	assert.Equal(t, 0, stats.TotalTasks, "all created before the window start")
	assert.Equal(t, 1, stats.OverdueTasks)
}

func TestDelta(t *testing.T) {
	tests := []struct {
		current  int
		previous int
		want     int
	}{
		{0, 0, 0},
		{5, 0, 100},
		{10, 20, -50},
		{30, 20, 50},
		{7, 3, 133},
		{0, 4, -100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Delta(tt.current, tt.previous), "delta(%d,%d)", tt.current, tt.previous)
	}
}

// failingTaskSource simulates a storage retrieval failure.
type failingTaskSource struct{ err error }

func (f failingTaskSource) FindByUserID(string, taskrepo.ListOptions) ([]*taskdomain.Task, int64, error) {
	return nil, 0, f.err
}

func seedTask(t *testing.T, repo taskrepo.TaskRepository, userID string, status taskdomain.TaskStatus) {
	t.Helper()
	require.NoError(t, repo.Create(&taskdomain.Task{
		UserID: userID,
		Title:  "seeded",
		Status: status,
	}))
}

func TestFetchComputesDeltas(t *testing.T) {
	repo := taskrepo.NewMemoryTaskRepository()
	uc := NewMetricsUsecase(repo, feed.New[[]*taskdomain.Task]())

	seedTask(t, repo, "u1", taskdomain.TaskStatusCompleted)
	seedTask(t, repo, "u1", taskdomain.TaskStatusPending)

	m, err := uc.Fetch("u1", 7)
	require.NoError(t, err)

	assert.Equal(t, 7, m.PeriodDays)
	assert.Equal(t, 2, m.Current.TotalTasks)
	assert.Equal(t, 1, m.Current.CompletedTasks)
	assert.Equal(t, 50, m.Current.CompletionRate)
	assert.Empty(t, m.Err)
	require.Len(t, m.Deltas, 4)
	// Fresh tasks also land in the lower-bounded previous window, so the
	// deltas here are flat rather than +100.
	assert.Equal(t, 0, m.Deltas[domain.MetricTotalTasks])
}

func TestFetchRejectsInvalidPeriod(t *testing.T) {
	uc := NewMetricsUsecase(taskrepo.NewMemoryTaskRepository(), feed.New[[]*taskdomain.Task]())

	_, err := uc.Fetch("u1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestFetchPropagatesRetrievalFailure(t *testing.T) {
	boom := errors.New("storage offline")
	uc := NewMetricsUsecase(failingTaskSource{err: boom}, feed.New[[]*taskdomain.Task]())

	_, err := uc.Fetch("u1", 7)
	assert.ErrorIs(t, err, boom)
}

func receiveMetrics(t *testing.T, sub *feed.Subscription[*domain.Metrics]) *domain.Metrics {
	t.Helper()
	select {
	case m := <-sub.C():
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("expected a metrics emission")
		return nil
	}
}

func TestWatchEmitsInitialSnapshotAndRecomputesOnChange(t *testing.T) {
	repo := taskrepo.NewMemoryTaskRepository()
	changes := feed.New[[]*taskdomain.Task]()
	uc := NewMetricsUsecase(repo, changes)

	seedTask(t, repo, "u1", taskdomain.TaskStatusPending)

	sub, err := uc.Watch(context.Background(), "u1", 7)
	require.NoError(t, err)
	defer sub.Cancel()

	initial := receiveMetrics(t, sub)
	assert.Equal(t, 1, initial.Current.TotalTasks)
	assert.Empty(t, initial.Err)

	// A published change triggers a full recomputation from the snapshot.
	now := time.Now()
	changes.Publish("u1", []*taskdomain.Task{
		{CreatedAt: now, Status: taskdomain.TaskStatusCompleted},
		{CreatedAt: now, Status: taskdomain.TaskStatusCompleted},
	})

	next := receiveMetrics(t, sub)
	assert.Equal(t, 2, next.Current.TotalTasks)
	assert.Equal(t, 100, next.Current.CompletionRate)
}

func TestWatchSwallowsInitialRetrievalFailure(t *testing.T) {
	changes := feed.New[[]*taskdomain.Task]()
	uc := NewMetricsUsecase(failingTaskSource{err: errors.New("storage offline")}, changes)

	sub, err := uc.Watch(context.Background(), "u1", 30)
	require.NoError(t, err)
	defer sub.Cancel()

	m := receiveMetrics(t, sub)
	assert.Equal(t, "storage offline", m.Err)
	assert.Zero(t, m.Current.TotalTasks)
	assert.Zero(t, m.Previous.TotalTasks)
	require.Len(t, m.Deltas, 4, "an errored result is still fully formed")
	for key, delta := range m.Deltas {
		assert.Zero(t, delta, "delta %q", key)
	}
}

func TestWatchCancelIsIdempotentAndStopsEmissions(t *testing.T) {
	repo := taskrepo.NewMemoryTaskRepository()
	changes := feed.New[[]*taskdomain.Task]()
	uc := NewMetricsUsecase(repo, changes)

	sub, err := uc.Watch(context.Background(), "u1", 7)
	require.NoError(t, err)

	receiveMetrics(t, sub)

	sub.Cancel()
	sub.Cancel()

	changes.Publish("u1", []*taskdomain.Task{{CreatedAt: time.Now()}})
	select {
	case m := <-sub.C():
		if m != nil {
			t.Fatalf("received metrics after cancel: %+v", m)
		}
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatchRejectsInvalidPeriod(t *testing.T) {
	uc := NewMetricsUsecase(taskrepo.NewMemoryTaskRepository(), feed.New[[]*taskdomain.Task]())

	_, err := uc.Watch(context.Background(), "u1", -5)
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}
