package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"math"
	"time"

	taskdomain "planora-backend/internal/task/domain"
)

var (
	// ErrGoalNotFound is returned when a goal does not exist.
	ErrGoalNotFound = errors.New("goal not found")
	// ErrGoalAccessDenied is returned when a goal belongs to another user.
	ErrGoalAccessDenied = errors.New("goal access denied")
	// ErrMilestoneNotFound is returned when a milestone ID is not part of
	// the goal.
	ErrMilestoneNotFound = errors.New("milestone not found")
	// ErrTitleRequired rejects goals or milestones with a blank title.
	ErrTitleRequired = errors.New("title is required")
	// ErrInvalidStatus rejects unknown status values.
	ErrInvalidStatus = errors.New("status must be active, completed or paused")
	// ErrInvalidCategory rejects unknown category values.
	ErrInvalidCategory = errors.New("category must be personal, work, health, learning or financial")
	// ErrInvalidProgress rejects progress outside the 0-100 range.
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")
)

// GoalStatus represents the current state of a goal
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusPaused    GoalStatus = "paused"
)

func (s GoalStatus) Valid() bool {
	switch s {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusPaused:
		return true
	}
	return false
}

// Category buckets goals into the fixed set of life areas
type Category string

const (
	CategoryPersonal  Category = "personal"
	CategoryWork      Category = "work"
	CategoryHealth    Category = "health"
	CategoryLearning  Category = "learning"
	CategoryFinancial Category = "financial"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryHealth, CategoryLearning, CategoryFinancial:
		return true
	}
	return false
}

// Milestone is a single checkable step towards a goal
type Milestone struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	DueDate   *time.Time `json:"due_date,omitempty"`
}

// MilestoneList is a custom type to handle a JSON milestone array in GORM
type MilestoneList []Milestone

// Value implements driver.Valuer
func (m MilestoneList) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "[]", nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *MilestoneList) Scan(value interface{}) error {
	if value == nil {
		*m = MilestoneList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	if len(bytes) == 0 {
		*m = MilestoneList{}
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// Goal represents a longer-term objective tracked through milestones.
// Priority shares the task scale so both collections sort on one ordinal.
type Goal struct {
	ID          string              `json:"id" gorm:"primaryKey"`
	UserID      string              `json:"user_id" gorm:"index;not null"`
	Title       string              `json:"title" gorm:"not null"`
	Description string              `json:"description,omitempty"`
	Category    Category            `json:"category" gorm:"index;default:personal"`
	Status      GoalStatus          `json:"status" gorm:"default:active"`
	Priority    taskdomain.Priority `json:"priority" gorm:"default:medium"`
	TargetDate  *time.Time          `json:"target_date,omitempty"`
	Progress    int                 `json:"progress" gorm:"default:0"` // Percent, 0-100
	Milestones  MilestoneList       `json:"milestones" gorm:"type:text"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// RecalcProgress derives Progress from milestone completion. Goals without
// milestones keep whatever progress was set manually.
func (g *Goal) RecalcProgress() {
	if len(g.Milestones) == 0 {
		return
	}
	done := 0
	for _, m := range g.Milestones {
		if m.Completed {
			done++
		}
	}
	g.Progress = int(math.Round(float64(done) / float64(len(g.Milestones)) * 100))
}

// ToggleMilestone flips the named milestone's completion and rederives
// progress.
func (g *Goal) ToggleMilestone(milestoneID string) error {
	for i := range g.Milestones {
		if g.Milestones[i].ID == milestoneID {
			g.Milestones[i].Completed = !g.Milestones[i].Completed
			g.RecalcProgress()
			return nil
		}
	}
	return ErrMilestoneNotFound
}
