package usecase

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"planora-backend/internal/query"
	"planora-backend/internal/task/domain"
	"planora-backend/internal/task/repository"
	"planora-backend/pkg/feed"
	"planora-backend/pkg/logger"
	"planora-backend/pkg/textmatch"
)

// taskUsecase implements TaskUsecase interface
type taskUsecase struct {
	taskRepo repository.TaskRepository
	changes  *feed.Feed[[]*domain.Task]
	notifier Notifier
	relay    ChangePublisher
}

// NewTaskUsecase creates a new instance of taskUsecase
func NewTaskUsecase(taskRepo repository.TaskRepository, changes *feed.Feed[[]*domain.Task]) TaskUsecase {
	return &taskUsecase{
		taskRepo: taskRepo,
		changes:  changes,
	}
}

func (u *taskUsecase) SetNotifier(n Notifier) {
	u.notifier = n
}

func (u *taskUsecase) SetRelay(r ChangePublisher) {
	u.relay = r
}

func (u *taskUsecase) CreateTask(userID string, req TaskCreateRequest) (*domain.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}

	priority, err := parsePriority(req.Priority)
	if err != nil {
		return nil, err
	}

	dueDate, err := parseTimestamp("due_date", req.DueDate)
	if err != nil {
		return nil, err
	}
	reminderAt, err := parseTimestamp("reminder_at", req.ReminderAt)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	task := &domain.Task{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		DueDate:     dueDate,
		Priority:    priority,
		Status:      domain.TaskStatusPending,
		ReminderAt:  reminderAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if task.ReminderAt == nil {
		task.ReminderAt = defaultReminder(task.DueDate, now)
	}

	if err := u.taskRepo.Create(task); err != nil {
		return nil, err
	}

	u.publishSnapshot(userID)
	u.notify(userID, fmt.Sprintf("Task %q created", task.Title), "success")

	return task, nil
}

func (u *taskUsecase) GetTaskByID(userID, taskID string) (*domain.Task, error) {
	task, err := u.taskRepo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	if task.UserID != userID {
		return nil, domain.ErrTaskAccessDenied
	}
	return task, nil
}

func (u *taskUsecase) ListTasks(userID string, filter query.TaskFilter, limit, offset int) ([]*domain.Task, int64, error) {
	tasks, _, err := u.taskRepo.FindByUserID(userID, repository.ListOptions{})
	if err != nil {
		return nil, 0, err
	}

	filtered := query.Tasks(tasks, filter)
	total := int64(len(filtered))

	if offset > 0 {
		if offset >= len(filtered) {
			return []*domain.Task{}, total, nil
		}
		filtered = filtered[offset:]
	}
	if limit > 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}

	return filtered, total, nil
}

func (u *taskUsecase) UpdateTask(userID, taskID string, updates TaskUpdateRequest) (*domain.Task, error) {
	task, err := u.GetTaskByID(userID, taskID)
	if err != nil {
		return nil, err
	}

	if updates.Title != nil {
		title := strings.TrimSpace(*updates.Title)
		if title == "" {
			return nil, domain.ErrTitleRequired
		}
		task.Title = title
	}
	if updates.Description != nil {
		task.Description = *updates.Description
	}
	if updates.Category != nil {
		task.Category = *updates.Category
	}
	if updates.Tags != nil {
		task.Tags = *updates.Tags
	}
	if updates.Priority != nil {
		priority, err := parsePriority(*updates.Priority)
		if err != nil {
			return nil, err
		}
		task.Priority = priority
	}

	now := time.Now()
	if updates.Status != nil {
		status := domain.TaskStatus(*updates.Status)
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		task.SetStatus(status, now)
	}

	if updates.DueDate != nil {
		if *updates.DueDate == "" {
			task.DueDate = nil
		} else {
			due, err := parseTimestamp("due_date", updates.DueDate)
			if err != nil {
				return nil, err
			}
			task.DueDate = due
		}
	}
	if updates.ReminderAt != nil {
		if *updates.ReminderAt == "" {
			task.ReminderAt = nil
			task.ReminderSent = false
		} else {
			reminder, err := parseTimestamp("reminder_at", updates.ReminderAt)
			if err != nil {
				return nil, err
			}
			task.ReminderAt = reminder
			task.ReminderSent = false // Reset so the new time fires
		}
	}

	task.UpdatedAt = now
	if err := u.taskRepo.Update(task); err != nil {
		return nil, err
	}

	u.publishSnapshot(userID)
	u.notify(userID, fmt.Sprintf("Task %q updated", task.Title), "info")

	return task, nil
}

func (u *taskUsecase) UpdateStatus(userID, taskID, status string) (*domain.Task, error) {
	task, err := u.GetTaskByID(userID, taskID)
	if err != nil {
		return nil, err
	}

	next := domain.TaskStatus(status)
	if !next.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	now := time.Now()
	task.SetStatus(next, now)
	task.UpdatedAt = now

	if err := u.taskRepo.Update(task); err != nil {
		return nil, err
	}

	u.publishSnapshot(userID)
	if next == domain.TaskStatusCompleted {
		u.notify(userID, fmt.Sprintf("Task %q completed", task.Title), "success")
	} else {
		u.notify(userID, fmt.Sprintf("Task %q moved to %s", task.Title, next), "info")
	}

	return task, nil
}

func (u *taskUsecase) Reschedule(userID, taskID string, dueDate *string) (*domain.Task, error) {
	task, err := u.GetTaskByID(userID, taskID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if dueDate == nil || *dueDate == "" {
		task.DueDate = nil
	} else {
		due, err := parseTimestamp("due_date", dueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = due
	}

	// A moved task gets a fresh chance at its reminder.
	task.ReminderSent = false
	if task.ReminderAt == nil {
		task.ReminderAt = defaultReminder(task.DueDate, now)
	}

	task.UpdatedAt = now
	if err := u.taskRepo.Update(task); err != nil {
		return nil, err
	}

	u.publishSnapshot(userID)
	u.notify(userID, fmt.Sprintf("Task %q rescheduled", task.Title), "info")

	return task, nil
}

func (u *taskUsecase) DeleteTask(userID, taskID string) error {
	task, err := u.GetTaskByID(userID, taskID)
	if err != nil {
		return err
	}
	if err := u.taskRepo.Delete(task.ID); err != nil {
		return err
	}

	u.publishSnapshot(userID)
	u.notify(userID, fmt.Sprintf("Task %q deleted", task.Title), "info")

	return nil
}

func (u *taskUsecase) SearchTasks(userID, text string, limit int) ([]SearchResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []SearchResult{}, nil
	}

	tasks, _, err := u.taskRepo.FindByUserID(userID, repository.ListOptions{})
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(tasks))
	for _, task := range tasks {
		if !textmatch.MatchesTask(text, task.Title, task.Description, task.Tags) {
			continue
		}
		results = append(results, SearchResult{
			Task:  task,
			Score: textmatch.Score(text, task.Title, task.Description, task.Tags),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Task.CreatedAt.After(results[j].Task.CreatedAt)
	})

	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}

	return results, nil
}

// publishSnapshot pushes the user's full ordered task list to live
// subscribers and signals peer instances.
func (u *taskUsecase) publishSnapshot(userID string) {
	tasks, _, err := u.taskRepo.FindByUserID(userID, repository.ListOptions{})
	if err != nil {
		logger.Errorf("[TaskUsecase] Failed to load snapshot for user %s: %v", userID, err)
		return
	}
	u.changes.Publish(userID, tasks)
	if u.relay != nil {
		u.relay.PublishChange(userID, "tasks")
	}
}

func (u *taskUsecase) notify(userID, message, severity string) {
	if u.notifier == nil {
		return
	}
	u.notifier.Notify(userID, message, severity)
}

func parsePriority(p string) (domain.Priority, error) {
	if p == "" {
		return domain.PriorityMedium, nil
	}
	priority := domain.Priority(p)
	if !priority.Valid() {
		return "", domain.ErrInvalidPriority
	}
	return priority, nil
}

func parseTimestamp(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, domain.ErrInvalidTimestamp)
	}
	return &t, nil
}

// defaultReminder proposes a reminder one hour before the due date, skipped
// when that moment has already passed.
func defaultReminder(due *time.Time, now time.Time) *time.Time {
	if due == nil {
		return nil
	}
	reminder := due.Add(-time.Hour)
	if reminder.After(now) {
		return &reminder
	}
	return nil
}
