package scheduler

import (
	"context"
	"fmt"
	"time"

	"planora-backend/internal/task/repository"
	"planora-backend/pkg/fcm"
	"planora-backend/pkg/logger"

	authrepo "planora-backend/internal/auth/repository"
)

// Notifier records an in-app notification for a user.
type Notifier interface {
	Notify(userID, message, severity string)
}

// TaskReminderScheduler sends push reminders for tasks whose reminder
// time has passed.
type TaskReminderScheduler struct {
	taskRepo  repository.TaskRepository
	fcmRepo   authrepo.FCMTokenRepository
	fcmClient *fcm.Client
	notifier  Notifier
	interval  time.Duration
	stopChan  chan struct{}
}

// NewTaskReminderScheduler creates a new scheduler
func NewTaskReminderScheduler(
	taskRepo repository.TaskRepository,
	fcmRepo authrepo.FCMTokenRepository,
	fcmClient *fcm.Client,
) *TaskReminderScheduler {
	return &TaskReminderScheduler{
		taskRepo:  taskRepo,
		fcmRepo:   fcmRepo,
		fcmClient: fcmClient,
		interval:  1 * time.Minute, // Check every minute
		stopChan:  make(chan struct{}),
	}
}

// SetNotifier wires an in-app notification recorder. Optional.
func (s *TaskReminderScheduler) SetNotifier(n Notifier) {
	s.notifier = n
}

// Start begins the scheduler loop
func (s *TaskReminderScheduler) Start() {
	if s.fcmClient == nil {
		logger.Infof("[TaskScheduler] FCM client not available, scheduler disabled")
		return
	}

	logger.Infof("[TaskScheduler] Starting task reminder scheduler (interval: %s)", s.interval)

	go func() {
		// Run immediately on start
		s.checkAndSendReminders()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.checkAndSendReminders()
			case <-s.stopChan:
				logger.Infof("[TaskScheduler] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *TaskReminderScheduler) Stop() {
	close(s.stopChan)
}

// checkAndSendReminders finds tasks with due reminders and sends FCM notifications
func (s *TaskReminderScheduler) checkAndSendReminders() {
	now := time.Now()

	tasks, err := s.taskRepo.FindPendingReminders(now)
	if err != nil {
		logger.Errorf("[TaskScheduler] Error finding pending reminders: %v", err)
		return
	}

	if len(tasks) == 0 {
		return
	}

	logger.Infof("[TaskScheduler] Found %d tasks with pending reminders", len(tasks))

	for _, task := range tasks {
		s.remind(task.ID, task.UserID, task.Title, task.Description, string(task.Priority), task.DueDate)
	}
}

func (s *TaskReminderScheduler) remind(taskID, userID, title, description, priority string, dueDate *time.Time) {
	if s.notifier != nil {
		s.notifier.Notify(userID, fmt.Sprintf("Reminder: %q is coming up", title), "warning")
	}

	tokens, err := s.fcmRepo.GetTokensByUserID(userID)
	if err != nil {
		logger.Errorf("[TaskScheduler] Error getting FCM tokens for user %s: %v", userID, err)
		return
	}

	if len(tokens) == 0 {
		// Nothing to push to; the in-app record above is all this user gets.
		s.markSent(taskID)
		return
	}

	body := description
	if body == "" {
		body = "You have a task waiting"
	}
	if dueDate != nil {
		body = fmt.Sprintf("%s\nDue %s", body, dueDate.Format("Jan 2, 2006 15:04"))
	}

	var tokenStrings []string
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	notification := fcm.NotificationData{
		Title: "Reminder: " + title,
		Body:  body,
		Tag:   "task-reminder-" + taskID,
		Data: map[string]string{
			"type":     "task_reminder",
			"task_id":  taskID,
			"priority": priority,
		},
		Actions: []fcm.Action{
			{ID: "open", Title: "Open"},
			{ID: "dismiss", Title: "Dismiss"},
		},
		ClickAction: "/tasks",
	}

	failedTokens, err := s.fcmClient.SendToDevices(context.Background(), tokenStrings, notification)
	if err != nil {
		logger.Errorf("[TaskScheduler] Error sending reminder for task %s: %v", taskID, err)
	} else {
		logger.Infof("[TaskScheduler] Sent reminder for task %q to %d devices", title, len(tokenStrings)-len(failedTokens))
	}

	// Tokens FCM rejected belong to uninstalled or expired registrations.
	for _, token := range failedTokens {
		if err := s.fcmRepo.DeleteToken(token); err != nil {
			logger.Errorf("[TaskScheduler] Error pruning FCM token: %v", err)
		}
	}

	// Mark sent regardless of push success to avoid spamming retries.
	s.markSent(taskID)
}

func (s *TaskReminderScheduler) markSent(taskID string) {
	if err := s.taskRepo.MarkReminderSent(taskID); err != nil {
		logger.Errorf("[TaskScheduler] Error marking reminder as sent for task %s: %v", taskID, err)
	}
}
