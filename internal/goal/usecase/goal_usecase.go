package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"planora-backend/internal/goal/domain"
	"planora-backend/internal/goal/repository"
	"planora-backend/internal/query"
	taskdomain "planora-backend/internal/task/domain"
	"planora-backend/pkg/feed"
	"planora-backend/pkg/logger"
)

// goalUsecase implements GoalUsecase interface
type goalUsecase struct {
	goalRepo repository.GoalRepository
	changes  *feed.Feed[[]*domain.Goal]
	notifier Notifier
	relay    ChangePublisher
}

// NewGoalUsecase creates a new instance of goalUsecase
func NewGoalUsecase(goalRepo repository.GoalRepository, changes *feed.Feed[[]*domain.Goal]) GoalUsecase {
	return &goalUsecase{
		goalRepo: goalRepo,
		changes:  changes,
	}
}

func (u *goalUsecase) SetNotifier(n Notifier) {
	u.notifier = n
}

func (u *goalUsecase) SetRelay(r ChangePublisher) {
	u.relay = r
}

func (u *goalUsecase) CreateGoal(userID string, req GoalCreateRequest) (*domain.Goal, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}

	category, err := parseCategory(req.Category)
	if err != nil {
		return nil, err
	}
	priority, err := parsePriority(req.Priority)
	if err != nil {
		return nil, err
	}
	targetDate, err := parseTimestamp("target_date", req.TargetDate)
	if err != nil {
		return nil, err
	}
	milestones, err := milestonesFromInput(req.Milestones)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	goal := &domain.Goal{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: req.Description,
		Category:    category,
		Status:      domain.GoalStatusActive,
		Priority:    priority,
		TargetDate:  targetDate,
		Milestones:  milestones,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	goal.RecalcProgress()

	if err := u.goalRepo.Create(goal); err != nil {
		return nil, err
	}

	u.publishSnapshot(userID)
	u.notify(userID, fmt.Sprintf("Goal %q created", goal.Title), "success")

	return goal, nil
}

func (u *goalUsecase) GetGoalByID(userID, goalID string) (*domain.Goal, error) {
	goal, err := u.goalRepo.FindByID(goalID)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, domain.ErrGoalNotFound
	}
	if goal.UserID != userID {
		return nil, domain.ErrGoalAccessDenied
	}
	return goal, nil
}

func (u *goalUsecase) ListGoals(userID string, filter query.GoalFilter, limit, offset int) ([]*domain.Goal, int64, error) {
	goals, _, err := u.goalRepo.FindByUserID(userID, repository.ListOptions{})
	if err != nil {
		return nil, 0, err
	}

	filtered := query.Goals(goals, filter)
	total := int64(len(filtered))

	if offset > 0 {
		if offset >= len(filtered) {
			return []*domain.Goal{}, total, nil
		}
		filtered = filtered[offset:]
	}
	if limit > 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}

	return filtered, total, nil
}

func (u *goalUsecase) UpdateGoal(userID, goalID string, updates GoalUpdateRequest) (*domain.Goal, error) {
	goal, err := u.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	if updates.Title != nil {
		title := strings.TrimSpace(*updates.Title)
		if title == "" {
			return nil, domain.ErrTitleRequired
		}
		goal.Title = title
	}
	if updates.Description != nil {
		goal.Description = *updates.Description
	}
	if updates.Category != nil {
		category, err := parseCategory(*updates.Category)
		if err != nil {
			return nil, err
		}
		goal.Category = category
	}
	if updates.Status != nil {
		status := domain.GoalStatus(*updates.Status)
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		goal.Status = status
	}
	if updates.Priority != nil {
		priority, err := parsePriority(*updates.Priority)
		if err != nil {
			return nil, err
		}
		goal.Priority = priority
	}
	if updates.TargetDate != nil {
		if *updates.TargetDate == "" {
			goal.TargetDate = nil
		} else {
			target, err := parseTimestamp("target_date", updates.TargetDate)
			if err != nil {
				return nil, err
			}
			goal.TargetDate = target
		}
	}
	if updates.Progress != nil {
		if *updates.Progress < 0 || *updates.Progress > 100 {
			return nil, domain.ErrInvalidProgress
		}
		goal.Progress = *updates.Progress
	}
	if updates.Milestones != nil {
		milestones, err := milestonesFromInput(*updates.Milestones)
		if err != nil {
			return nil, err
		}
		goal.Milestones = milestones
	}
	// A milestone-backed goal always reports derived progress, overriding
	// any manual value that arrived in the same request.
	goal.RecalcProgress()

	goal.UpdatedAt = time.Now()
	if err := u.goalRepo.Update(goal); err != nil {
		return nil, err
	}

	u.publishSnapshot(userID)
	u.notify(userID, fmt.Sprintf("Goal %q updated", goal.Title), "info")

	return goal, nil
}

func (u *goalUsecase) ToggleMilestone(userID, goalID, milestoneID string) (*domain.Goal, error) {
	goal, err := u.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	if err := goal.ToggleMilestone(milestoneID); err != nil {
		return nil, err
	}

	goal.UpdatedAt = time.Now()
	if err := u.goalRepo.Update(goal); err != nil {
		return nil, err
	}

	u.publishSnapshot(userID)
	if goal.Progress == 100 {
		u.notify(userID, fmt.Sprintf("All milestones of %q completed", goal.Title), "success")
	}

	return goal, nil
}

func (u *goalUsecase) DeleteGoal(userID, goalID string) error {
	goal, err := u.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}
	if err := u.goalRepo.Delete(goal.ID); err != nil {
		return err
	}

	u.publishSnapshot(userID)
	u.notify(userID, fmt.Sprintf("Goal %q deleted", goal.Title), "info")

	return nil
}

// publishSnapshot pushes the user's full ordered goal list to live
// subscribers and signals peer instances.
func (u *goalUsecase) publishSnapshot(userID string) {
	goals, _, err := u.goalRepo.FindByUserID(userID, repository.ListOptions{})
	if err != nil {
		logger.Errorf("[GoalUsecase] Failed to load snapshot for user %s: %v", userID, err)
		return
	}
	u.changes.Publish(userID, goals)
	if u.relay != nil {
		u.relay.PublishChange(userID, "goals")
	}
}

func (u *goalUsecase) notify(userID, message, severity string) {
	if u.notifier == nil {
		return
	}
	u.notifier.Notify(userID, message, severity)
}

func milestonesFromInput(inputs []MilestoneInput) (domain.MilestoneList, error) {
	milestones := make(domain.MilestoneList, 0, len(inputs))
	for _, in := range inputs {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			return nil, domain.ErrTitleRequired
		}
		dueDate, err := parseTimestamp("due_date", in.DueDate)
		if err != nil {
			return nil, err
		}
		m := domain.Milestone{
			ID:        in.ID,
			Title:     title,
			Completed: in.Completed,
			DueDate:   dueDate,
		}
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		milestones = append(milestones, m)
	}
	return milestones, nil
}

func parseCategory(c string) (domain.Category, error) {
	if c == "" {
		return domain.CategoryPersonal, nil
	}
	category := domain.Category(c)
	if !category.Valid() {
		return "", domain.ErrInvalidCategory
	}
	return category, nil
}

func parsePriority(p string) (taskdomain.Priority, error) {
	if p == "" {
		return taskdomain.PriorityMedium, nil
	}
	priority := taskdomain.Priority(p)
	if !priority.Valid() {
		return "", taskdomain.ErrInvalidPriority
	}
	return priority, nil
}

func parseTimestamp(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, taskdomain.ErrInvalidTimestamp)
	}
	return &t, nil
}
