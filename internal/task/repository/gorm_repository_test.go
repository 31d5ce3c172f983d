package repository

import (
	"testing"
	"time"

	"planora-backend/internal/task/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newGormRepo(t *testing.T) TaskRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Task{}))
	return NewGormTaskRepository(db)
}

// forEachRepo runs the same scenario against the GORM and in-memory
// implementations: both must expose identical ordering and filtering.
func forEachRepo(t *testing.T, scenario func(t *testing.T, repo TaskRepository)) {
	t.Run("gorm", func(t *testing.T) { scenario(t, newGormRepo(t)) })
	t.Run("memory", func(t *testing.T) { scenario(t, NewMemoryTaskRepository()) })
}

func persisted(t *testing.T, repo TaskRepository, task domain.Task) *domain.Task {
	t.Helper()
	require.NoError(t, repo.Create(&task))
	return &task
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo TaskRepository) {
		task := persisted(t, repo, domain.Task{
			UserID:   "u1",
			Title:    "Buy groceries",
			Status:   domain.TaskStatusPending,
			Priority: domain.PriorityMedium,
			Tags:     domain.StringArray{"errand", "food"},
		})

		assert.NotEmpty(t, task.ID)
		assert.False(t, task.CreatedAt.IsZero())
		assert.False(t, task.UpdatedAt.IsZero())

		got, err := repo.FindByID(task.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, domain.StringArray{"errand", "food"}, got.Tags, "tags survive storage")
	})
}

func TestFindByIDMissingReturnsNil(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo TaskRepository) {
		got, err := repo.FindByID("nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestFindByUserIDOrdersByDueDateWithUndatedLast(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo TaskRepository) {
		later := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		sooner := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

		persisted(t, repo, domain.Task{UserID: "u1", Title: "later", Status: domain.TaskStatusPending, Priority: domain.PriorityMedium, DueDate: &later})
		persisted(t, repo, domain.Task{UserID: "u1", Title: "undated", Status: domain.TaskStatusPending, Priority: domain.PriorityMedium})
		persisted(t, repo, domain.Task{UserID: "u1", Title: "sooner", Status: domain.TaskStatusPending, Priority: domain.PriorityMedium, DueDate: &sooner})
		persisted(t, repo, domain.Task{UserID: "someone-else", Title: "not mine", Status: domain.TaskStatusPending, Priority: domain.PriorityMedium})

		tasks, total, err := repo.FindByUserID("u1", ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, tasks, 3)
		assert.Equal(t, "sooner", tasks[0].Title)
		assert.Equal(t, "later", tasks[1].Title)
		assert.Equal(t, "undated", tasks[2].Title, "tasks without a due date sort last")
	})
}

func TestFindByUserIDStatusFilterAndPaging(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo TaskRepository) {
		for i, status := range []domain.TaskStatus{
			domain.TaskStatusPending,
			domain.TaskStatusCompleted,
			domain.TaskStatusPending,
			domain.TaskStatusPending,
		} {
			persisted(t, repo, domain.Task{
				UserID:   "u1",
				Title:    string(rune('a' + i)),
				Status:   status,
				Priority: domain.PriorityMedium,
			})
		}

		pending := domain.TaskStatusPending
		tasks, total, err := repo.FindByUserID("u1", ListOptions{Status: &pending, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total, "total counts matches before paging")
		assert.Len(t, tasks, 2)

		tasks, total, err = repo.FindByUserID("u1", ListOptions{Status: &pending, Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, tasks, 1)
	})
}

func TestUpdatePersistsChanges(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo TaskRepository) {
		task := persisted(t, repo, domain.Task{
			UserID:   "u1",
			Title:    "Draft report",
			Status:   domain.TaskStatusPending,
			Priority: domain.PriorityLow,
		})
		before := task.UpdatedAt

		task.Title = "Draft quarterly report"
		task.Priority = domain.PriorityHigh
		time.Sleep(5 * time.Millisecond)
		require.NoError(t, repo.Update(task))

		got, err := repo.FindByID(task.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Draft quarterly report", got.Title)
		assert.Equal(t, domain.PriorityHigh, got.Priority)
		assert.True(t, got.UpdatedAt.After(before))
	})
}

func TestDeleteRemovesRow(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo TaskRepository) {
		task := persisted(t, repo, domain.Task{
			UserID:   "u1",
			Title:    "Temporary",
			Status:   domain.TaskStatusPending,
			Priority: domain.PriorityMedium,
		})

		require.NoError(t, repo.Delete(task.ID))

		got, err := repo.FindByID(task.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestFindPendingReminders(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo TaskRepository) {
		now := time.Now()
		past := now.Add(-10 * time.Minute)
		future := now.Add(10 * time.Minute)

		due := persisted(t, repo, domain.Task{
			UserID: "u1", Title: "due", Status: domain.TaskStatusPending,
			Priority: domain.PriorityMedium, ReminderAt: &past,
		})
		persisted(t, repo, domain.Task{
			UserID: "u1", Title: "already sent", Status: domain.TaskStatusPending,
			Priority: domain.PriorityMedium, ReminderAt: &past, ReminderSent: true,
		})
		persisted(t, repo, domain.Task{
			UserID: "u1", Title: "completed", Status: domain.TaskStatusCompleted,
			Priority: domain.PriorityMedium, ReminderAt: &past,
		})
		persisted(t, repo, domain.Task{
			UserID: "u1", Title: "not yet", Status: domain.TaskStatusPending,
			Priority: domain.PriorityMedium, ReminderAt: &future,
		})
		persisted(t, repo, domain.Task{
			UserID: "u1", Title: "no reminder", Status: domain.TaskStatusPending,
			Priority: domain.PriorityMedium,
		})

		pending, err := repo.FindPendingReminders(now)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "due", pending[0].Title)

		require.NoError(t, repo.MarkReminderSent(due.ID))

		pending, err = repo.FindPendingReminders(now)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})
}
