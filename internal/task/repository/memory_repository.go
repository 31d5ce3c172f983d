package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"planora-backend/internal/task/domain"
)

// memoryTaskRepository is an in-memory TaskRepository used when no database
// is configured and as the storage double in tests. It mirrors the GORM
// implementation's ordering and paging behavior.
type memoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]*domain.Task
}

// NewMemoryTaskRepository creates an empty in-memory TaskRepository.
func NewMemoryTaskRepository() TaskRepository {
	return &memoryTaskRepository{tasks: make(map[string]*domain.Task)}
}

func (r *memoryTaskRepository) Create(task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	clone := *task
	r.tasks[task.ID] = &clone
	return nil
}

func (r *memoryTaskRepository) FindByID(id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	clone := *task
	return &clone, nil
}

func (r *memoryTaskRepository) FindByUserID(userID string, opts ListOptions) ([]*domain.Task, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tasks []*domain.Task
	for _, t := range r.tasks {
		if t.UserID != userID {
			continue
		}
		if opts.Status != nil && t.Status != *opts.Status {
			continue
		}
		clone := *t
		tasks = append(tasks, &clone)
	}

	switch opts.OrderBy {
	case OrderByCreatedAt:
		sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })
	default:
		sort.Slice(tasks, func(i, j int) bool {
			a, b := tasks[i], tasks[j]
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return a.CreatedAt.After(b.CreatedAt)
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			case !a.DueDate.Equal(*b.DueDate):
				return a.DueDate.Before(*b.DueDate)
			default:
				return a.CreatedAt.After(b.CreatedAt)
			}
		})
	}

	total := int64(len(tasks))
	if opts.Limit > 0 {
		if opts.Offset >= len(tasks) {
			return []*domain.Task{}, total, nil
		}
		end := opts.Offset + opts.Limit
		if end > len(tasks) {
			end = len(tasks)
		}
		tasks = tasks[opts.Offset:end]
	}

	return tasks, total, nil
}

func (r *memoryTaskRepository) Update(task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[task.ID]; !ok {
		return nil
	}
	task.UpdatedAt = time.Now()
	clone := *task
	r.tasks[task.ID] = &clone
	return nil
}

func (r *memoryTaskRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tasks, id)
	return nil
}

func (r *memoryTaskRepository) FindPendingReminders(now time.Time) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var due []*domain.Task
	for _, t := range r.tasks {
		if t.ReminderSent || t.Status == domain.TaskStatusCompleted {
			continue
		}
		if t.ReminderAt == nil || t.ReminderAt.After(now) {
			continue
		}
		clone := *t
		due = append(due, &clone)
	}
	return due, nil
}

func (r *memoryTaskRepository) MarkReminderSent(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.tasks[id]; ok {
		t.ReminderSent = true
		t.UpdatedAt = time.Now()
	}
	return nil
}
