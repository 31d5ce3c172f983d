package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planora-backend/internal/notification/domain"
	"planora-backend/internal/notification/repository"
)

func newTestUsecase() NotificationUsecase {
	return NewNotificationUsecase(repository.NewMemoryNotificationRepository(), nil)
}

func TestNotifyPersistsEntries(t *testing.T) {
	uc := newTestUsecase()

	uc.Notify("u1", "Task \"x\" created", "success")
	uc.Notify("u1", "Task \"x\" completed", "success")
	uc.Notify("u2", "not mine", "info")

	notifications, unread, err := uc.List("u1", 0)
	require.NoError(t, err)
	assert.Len(t, notifications, 2)
	assert.Equal(t, int64(2), unread)

	// Newest first.
	assert.Equal(t, "Task \"x\" completed", notifications[0].Message)
}

func TestNotifyNormalizesSeverity(t *testing.T) {
	uc := newTestUsecase()

	uc.Notify("u1", "odd one", "catastrophic")

	notifications, _, err := uc.List("u1", 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, domain.SeverityInfo, notifications[0].Severity)
}

func TestListLimit(t *testing.T) {
	uc := newTestUsecase()

	for i := 0; i < 5; i++ {
		uc.Notify("u1", "entry", "info")
	}

	notifications, unread, err := uc.List("u1", 3)
	require.NoError(t, err)
	assert.Len(t, notifications, 3)
	assert.Equal(t, int64(5), unread, "unread count ignores the page limit")
}

func TestMarkReadChecksOwnership(t *testing.T) {
	uc := newTestUsecase()

	uc.Notify("u1", "mine", "info")
	notifications, _, err := uc.List("u1", 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	id := notifications[0].ID

	assert.ErrorIs(t, uc.MarkRead("intruder", id), domain.ErrNotificationAccessDenied)
	assert.ErrorIs(t, uc.MarkRead("u1", "missing"), domain.ErrNotificationNotFound)

	require.NoError(t, uc.MarkRead("u1", id))
	_, unread, err := uc.List("u1", 0)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestMarkAllRead(t *testing.T) {
	uc := newTestUsecase()

	uc.Notify("u1", "a", "info")
	uc.Notify("u1", "b", "info")
	uc.Notify("u2", "untouched", "info")

	require.NoError(t, uc.MarkAllRead("u1"))

	_, unread, err := uc.List("u1", 0)
	require.NoError(t, err)
	assert.Zero(t, unread)

	_, unread, err = uc.List("u2", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestDeleteNotification(t *testing.T) {
	uc := newTestUsecase()

	uc.Notify("u1", "ephemeral", "info")
	notifications, _, err := uc.List("u1", 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	require.NoError(t, uc.Delete("u1", notifications[0].ID))

	notifications, _, err = uc.List("u1", 0)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}
