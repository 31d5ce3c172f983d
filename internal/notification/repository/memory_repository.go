package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"planora-backend/internal/notification/domain"
)

// memoryNotificationRepository is an in-memory NotificationRepository used
// when no database is configured and as the storage double in tests.
type memoryNotificationRepository struct {
	mu            sync.RWMutex
	notifications map[string]*domain.Notification
}

// NewMemoryNotificationRepository creates an empty in-memory NotificationRepository.
func NewMemoryNotificationRepository() NotificationRepository {
	return &memoryNotificationRepository{notifications: make(map[string]*domain.Notification)}
}

func (r *memoryNotificationRepository) Create(n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	clone := *n
	r.notifications[n.ID] = &clone
	return nil
}

func (r *memoryNotificationRepository) FindByID(id string) (*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notifications[id]
	if !ok {
		return nil, nil
	}
	clone := *n
	return &clone, nil
}

func (r *memoryNotificationRepository) FindByUserID(userID string, limit int) ([]*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var notifications []*domain.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		clone := *n
		notifications = append(notifications, &clone)
	}

	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})

	if limit > 0 && limit < len(notifications) {
		notifications = notifications[:limit]
	}

	return notifications, nil
}

func (r *memoryNotificationRepository) CountUnread(userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *memoryNotificationRepository) MarkRead(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n, ok := r.notifications[id]; ok {
		n.Read = true
	}
	return nil
}

func (r *memoryNotificationRepository) MarkAllRead(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (r *memoryNotificationRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.notifications, id)
	return nil
}
