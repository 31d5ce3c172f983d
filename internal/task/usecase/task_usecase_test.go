package usecase

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planora-backend/internal/query"
	"planora-backend/internal/task/domain"
	"planora-backend/internal/task/repository"
	"planora-backend/pkg/feed"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	severity []string
}

func (r *recordingNotifier) Notify(userID, message, severity string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	r.severity = append(r.severity, severity)
}

func (r *recordingNotifier) last() (string, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return "", ""
	}
	return r.messages[len(r.messages)-1], r.severity[len(r.severity)-1]
}

func newTestUsecase() (TaskUsecase, *feed.Feed[[]*domain.Task]) {
	changes := feed.New[[]*domain.Task]()
	return NewTaskUsecase(repository.NewMemoryTaskRepository(), changes), changes
}

func rfc(t time.Time) *string {
	s := t.Format(time.RFC3339)
	return &s
}

func TestCreateTaskDefaults(t *testing.T) {
	uc, _ := newTestUsecase()

	task, err := uc.CreateTask("u1", TaskCreateRequest{Title: "Write report"})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "u1", task.UserID)
	assert.Equal(t, domain.TaskStatusPending, task.Status)
	assert.Equal(t, domain.PriorityMedium, task.Priority)
	assert.False(t, task.CreatedAt.IsZero())
	assert.Nil(t, task.DueDate)
	assert.Nil(t, task.ReminderAt)
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	uc, _ := newTestUsecase()

	for _, title := range []string{"", "   "} {
		_, err := uc.CreateTask("u1", TaskCreateRequest{Title: title})
		assert.ErrorIs(t, err, domain.ErrTitleRequired, "title=%q", title)
	}
}

func TestCreateTaskRejectsMalformedInput(t *testing.T) {
	uc, _ := newTestUsecase()

	bad := "tomorrow at noon"
	_, err := uc.CreateTask("u1", TaskCreateRequest{Title: "t", DueDate: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidTimestamp)

	_, err = uc.CreateTask("u1", TaskCreateRequest{Title: "t", Priority: "urgent"})
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
}

func TestCreateTaskDefaultsReminderBeforeDueDate(t *testing.T) {
	uc, _ := newTestUsecase()

	due := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	task, err := uc.CreateTask("u1", TaskCreateRequest{Title: "t", DueDate: rfc(due)})
	require.NoError(t, err)
	require.NotNil(t, task.ReminderAt)
	assert.Equal(t, due.Add(-time.Hour).Unix(), task.ReminderAt.Unix())

	// Due within the hour: no useful reminder slot is left.
	soon := time.Now().Add(10 * time.Minute)
	task, err = uc.CreateTask("u1", TaskCreateRequest{Title: "t2", DueDate: rfc(soon)})
	require.NoError(t, err)
	assert.Nil(t, task.ReminderAt)

	// Explicit reminder wins over the derived one.
	explicit := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	task, err = uc.CreateTask("u1", TaskCreateRequest{Title: "t3", DueDate: rfc(due), ReminderAt: rfc(explicit)})
	require.NoError(t, err)
	require.NotNil(t, task.ReminderAt)
	assert.Equal(t, explicit.Unix(), task.ReminderAt.Unix())
}

func TestGetTaskByIDChecksOwnership(t *testing.T) {
	uc, _ := newTestUsecase()

	task, err := uc.CreateTask("u1", TaskCreateRequest{Title: "mine"})
	require.NoError(t, err)

	_, err = uc.GetTaskByID("u1", "no-such-id")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = uc.GetTaskByID("intruder", task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskAccessDenied)

	got, err := uc.GetTaskByID("u1", task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
}

func TestListTasksRunsPipelineAndPages(t *testing.T) {
	uc, _ := newTestUsecase()

	seed := []TaskCreateRequest{
		{Title: "Fix login bug", Category: "work", Priority: "high"},
		{Title: "Buy groceries", Category: "personal", Priority: "low"},
		{Title: "Plan sprint", Category: "work", Priority: "medium"},
		{Title: "Call plumber", Category: "personal", Priority: "high"},
	}
	for _, req := range seed {
		_, err := uc.CreateTask("u1", req)
		require.NoError(t, err)
	}

	// Category filter.
	tasks, total, err := uc.ListTasks("u1", query.TaskFilter{Category: "work"}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, tasks, 2)

	// The "all" sentinel does not filter.
	_, total, err = uc.ListTasks("u1", query.TaskFilter{Status: query.All, Priority: query.All}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	// Paging applies after filtering; total stays the filtered count.
	tasks, total, err = uc.ListTasks("u1", query.TaskFilter{}, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, tasks, 2)

	tasks, _, err = uc.ListTasks("u1", query.TaskFilter{}, 2, 3)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	tasks, _, err = uc.ListTasks("u1", query.TaskFilter{}, 2, 99)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	// Pipeline search + sort combine with filters.
	tasks, _, err = uc.ListTasks("u1", query.TaskFilter{
		Priority: "high",
		SortBy:   query.TaskSortTitle,
		Order:    query.Ascending,
	}, 0, 0)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Call plumber", tasks[0].Title)
	assert.Equal(t, "Fix login bug", tasks[1].Title)
}

func TestUpdateTaskAppliesOnlyProvidedFields(t *testing.T) {
	uc, _ := newTestUsecase()

	due := time.Now().Add(72 * time.Hour).Truncate(time.Second)
	task, err := uc.CreateTask("u1", TaskCreateRequest{
		Title:       "Original",
		Description: "keep me",
		Category:    "work",
		Tags:        []string{"a"},
		DueDate:     rfc(due),
	})
	require.NoError(t, err)

	newTitle := "Renamed"
	newTags := []string{"b", "c"}
	updated, err := uc.UpdateTask("u1", task.ID, TaskUpdateRequest{
		Title: &newTitle,
		Tags:  &newTags,
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
	assert.Equal(t, "work", updated.Category)
	assert.Equal(t, domain.StringArray{"b", "c"}, updated.Tags)
	require.NotNil(t, updated.DueDate)

	// Empty string clears the due date.
	empty := ""
	updated, err = uc.UpdateTask("u1", task.ID, TaskUpdateRequest{DueDate: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)

	blank := "  "
	_, err = uc.UpdateTask("u1", task.ID, TaskUpdateRequest{Title: &blank})
	assert.ErrorIs(t, err, domain.ErrTitleRequired)
}

func TestUpdateTaskResetsReminderSent(t *testing.T) {
	uc, _ := newTestUsecase()

	task, err := uc.CreateTask("u1", TaskCreateRequest{Title: "t"})
	require.NoError(t, err)

	later := time.Now().Add(6 * time.Hour)
	updated, err := uc.UpdateTask("u1", task.ID, TaskUpdateRequest{ReminderAt: rfc(later)})
	require.NoError(t, err)
	assert.False(t, updated.ReminderSent)
	require.NotNil(t, updated.ReminderAt)
}

func TestUpdateStatusMaintainsCompletionInvariant(t *testing.T) {
	uc, _ := newTestUsecase()

	task, err := uc.CreateTask("u1", TaskCreateRequest{Title: "t"})
	require.NoError(t, err)

	done, err := uc.UpdateStatus("u1", task.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)

	// Reopening clears the completion stamp.
	reopened, err := uc.UpdateStatus("u1", task.ID, "pending")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, reopened.Status)
	assert.Nil(t, reopened.CompletedAt)

	_, err = uc.UpdateStatus("u1", task.ID, "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestRescheduleMovesAndClearsDueDate(t *testing.T) {
	uc, _ := newTestUsecase()

	task, err := uc.CreateTask("u1", TaskCreateRequest{Title: "t"})
	require.NoError(t, err)

	target := time.Now().Add(96 * time.Hour).Truncate(time.Second)
	moved, err := uc.Reschedule("u1", task.ID, rfc(target))
	require.NoError(t, err)
	require.NotNil(t, moved.DueDate)
	assert.Equal(t, target.Unix(), moved.DueDate.Unix())
	assert.False(t, moved.ReminderSent)
	require.NotNil(t, moved.ReminderAt, "derived reminder follows the new date")

	cleared, err := uc.Reschedule("u1", task.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.DueDate)
}

func TestDeleteTaskRemovesRecord(t *testing.T) {
	uc, _ := newTestUsecase()

	task, err := uc.CreateTask("u1", TaskCreateRequest{Title: "t"})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteTask("u1", task.ID))

	_, err = uc.GetTaskByID("u1", task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.ErrorIs(t, uc.DeleteTask("u1", task.ID), domain.ErrTaskNotFound)
}

func TestSearchTasksRanksByRelevance(t *testing.T) {
	uc, _ := newTestUsecase()

	for _, req := range []TaskCreateRequest{
		{Title: "Weekly grocery run", Tags: []string{"errands"}},
		{Title: "Grocery budget review", Description: "compare grocery receipts"},
		{Title: "Team standup"},
	} {
		_, err := uc.CreateTask("u1", req)
		require.NoError(t, err)
	}

	results, err := uc.SearchTasks("u1", "grocery", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Score >= results[1].Score)

	// Typos within the tolerance still match.
	results, err = uc.SearchTasks("u1", "grocerys", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, results)

	// Empty query is not an error.
	results, err = uc.SearchTasks("u1", "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = uc.SearchTasks("u1", "grocery", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestMutationsPublishSnapshots(t *testing.T) {
	uc, changes := newTestUsecase()

	sub := changes.Subscribe("u1")
	defer sub.Cancel()

	task, err := uc.CreateTask("u1", TaskCreateRequest{Title: "t"})
	require.NoError(t, err)

	select {
	case snapshot := <-sub.C():
		require.Len(t, snapshot, 1)
		assert.Equal(t, task.ID, snapshot[0].ID)
	case <-time.After(time.Second):
		t.Fatal("expected a snapshot after create")
	}

	_, err = uc.UpdateStatus("u1", task.ID, "completed")
	require.NoError(t, err)

	select {
	case snapshot := <-sub.C():
		require.Len(t, snapshot, 1)
		assert.Equal(t, domain.TaskStatusCompleted, snapshot[0].Status)
	case <-time.After(time.Second):
		t.Fatal("expected a snapshot after status change")
	}
}

func TestMutationsRecordNotifications(t *testing.T) {
	uc, _ := newTestUsecase()

	rec := &recordingNotifier{}
	uc.SetNotifier(rec)

	task, err := uc.CreateTask("u1", TaskCreateRequest{Title: "Ship release"})
	require.NoError(t, err)

	msg, severity := rec.last()
	assert.Contains(t, msg, "Ship release")
	assert.Equal(t, "success", severity)

	_, err = uc.UpdateStatus("u1", task.ID, "completed")
	require.NoError(t, err)

	msg, severity = rec.last()
	assert.Contains(t, msg, "completed")
	assert.Equal(t, "success", severity)
}
