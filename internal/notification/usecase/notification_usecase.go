package usecase

import (
	"time"

	"github.com/google/uuid"

	"planora-backend/internal/notification/domain"
	"planora-backend/internal/notification/repository"
	"planora-backend/pkg/logger"
	"planora-backend/pkg/sse"
)

// notificationUsecase implements NotificationUsecase interface
type notificationUsecase struct {
	repo       repository.NotificationRepository
	sseManager *sse.Manager
}

// NewNotificationUsecase creates a new instance of notificationUsecase. The
// SSE manager may be nil; entries are then only persisted.
func NewNotificationUsecase(repo repository.NotificationRepository, sseManager *sse.Manager) NotificationUsecase {
	return &notificationUsecase{
		repo:       repo,
		sseManager: sseManager,
	}
}

func (u *notificationUsecase) Notify(userID, message, severity string) {
	n := &domain.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Message:   message,
		Severity:  domain.NormalizeSeverity(severity),
		CreatedAt: time.Now(),
	}

	if err := u.repo.Create(n); err != nil {
		logger.Errorf("[Notification] Failed to persist notification for user %s: %v", userID, err)
		return
	}

	if u.sseManager != nil {
		u.sseManager.SendToUser(userID, "notification", map[string]interface{}{
			"id":         n.ID,
			"message":    n.Message,
			"severity":   n.Severity,
			"read":       n.Read,
			"created_at": n.CreatedAt,
		})
	}
}

func (u *notificationUsecase) List(userID string, limit int) ([]*domain.Notification, int64, error) {
	notifications, err := u.repo.FindByUserID(userID, limit)
	if err != nil {
		return nil, 0, err
	}
	unread, err := u.repo.CountUnread(userID)
	if err != nil {
		return nil, 0, err
	}
	return notifications, unread, nil
}

func (u *notificationUsecase) MarkRead(userID, notificationID string) error {
	if err := u.checkOwner(userID, notificationID); err != nil {
		return err
	}
	return u.repo.MarkRead(notificationID)
}

func (u *notificationUsecase) MarkAllRead(userID string) error {
	return u.repo.MarkAllRead(userID)
}

func (u *notificationUsecase) Delete(userID, notificationID string) error {
	if err := u.checkOwner(userID, notificationID); err != nil {
		return err
	}
	return u.repo.Delete(notificationID)
}

func (u *notificationUsecase) checkOwner(userID, notificationID string) error {
	n, err := u.repo.FindByID(notificationID)
	if err != nil {
		return err
	}
	if n == nil {
		return domain.ErrNotificationNotFound
	}
	if n.UserID != userID {
		return domain.ErrNotificationAccessDenied
	}
	return nil
}
