package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"planora-backend/internal/goal/domain"
)

// memoryGoalRepository is an in-memory GoalRepository used when no database
// is configured and as the storage double in tests. It mirrors the GORM
// implementation's ordering and paging behavior.
type memoryGoalRepository struct {
	mu    sync.RWMutex
	goals map[string]*domain.Goal
}

// NewMemoryGoalRepository creates an empty in-memory GoalRepository.
func NewMemoryGoalRepository() GoalRepository {
	return &memoryGoalRepository{goals: make(map[string]*domain.Goal)}
}

func cloneGoal(g *domain.Goal) *domain.Goal {
	clone := *g
	if g.Milestones != nil {
		clone.Milestones = make(domain.MilestoneList, len(g.Milestones))
		copy(clone.Milestones, g.Milestones)
	}
	return &clone
}

func (r *memoryGoalRepository) Create(goal *domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	now := time.Now()
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = now
	}
	goal.UpdatedAt = now

	r.goals[goal.ID] = cloneGoal(goal)
	return nil
}

func (r *memoryGoalRepository) FindByID(id string) (*domain.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goal, ok := r.goals[id]
	if !ok {
		return nil, nil
	}
	return cloneGoal(goal), nil
}

func (r *memoryGoalRepository) FindByUserID(userID string, opts ListOptions) ([]*domain.Goal, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var goals []*domain.Goal
	for _, g := range r.goals {
		if g.UserID != userID {
			continue
		}
		if opts.Status != nil && g.Status != *opts.Status {
			continue
		}
		goals = append(goals, cloneGoal(g))
	}

	sort.Slice(goals, func(i, j int) bool {
		a, b := goals[i], goals[j]
		switch {
		case a.TargetDate == nil && b.TargetDate == nil:
			return a.CreatedAt.After(b.CreatedAt)
		case a.TargetDate == nil:
			return false
		case b.TargetDate == nil:
			return true
		case !a.TargetDate.Equal(*b.TargetDate):
			return a.TargetDate.Before(*b.TargetDate)
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})

	total := int64(len(goals))
	if opts.Limit > 0 {
		if opts.Offset >= len(goals) {
			return []*domain.Goal{}, total, nil
		}
		end := opts.Offset + opts.Limit
		if end > len(goals) {
			end = len(goals)
		}
		goals = goals[opts.Offset:end]
	}

	return goals, total, nil
}

func (r *memoryGoalRepository) Update(goal *domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.goals[goal.ID]; !ok {
		return nil
	}
	goal.UpdatedAt = time.Now()
	r.goals[goal.ID] = cloneGoal(goal)
	return nil
}

func (r *memoryGoalRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.goals, id)
	return nil
}
