package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"planora-backend/internal/goal/domain"
)

// gormGoalRepository implements GoalRepository using GORM
type gormGoalRepository struct {
	db *gorm.DB
}

// NewGormGoalRepository creates a new GORM-based GoalRepository
func NewGormGoalRepository(db *gorm.DB) GoalRepository {
	return &gormGoalRepository{db: db}
}

func (r *gormGoalRepository) Create(goal *domain.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	now := time.Now()
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = now
	}
	goal.UpdatedAt = now
	return r.db.Create(goal).Error
}

func (r *gormGoalRepository) FindByID(id string) (*domain.Goal, error) {
	var goal domain.Goal
	err := r.db.Where("id = ?", id).First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &goal, nil
}

func (r *gormGoalRepository) FindByUserID(userID string, opts ListOptions) ([]*domain.Goal, int64, error) {
	var goals []*domain.Goal
	var total int64

	query := r.db.Model(&domain.Goal{}).Where("user_id = ?", userID)
	if opts.Status != nil {
		query = query.Where("status = ?", *opts.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Target date ascending with NULLs last, then newest first.
	query = query.Order("CASE WHEN target_date IS NULL THEN 1 ELSE 0 END, target_date ASC, created_at DESC")

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit).Offset(opts.Offset)
	}

	err := query.Find(&goals).Error
	return goals, total, err
}

func (r *gormGoalRepository) Update(goal *domain.Goal) error {
	goal.UpdatedAt = time.Now()
	return r.db.Save(goal).Error
}

func (r *gormGoalRepository) Delete(id string) error {
	return r.db.Delete(&domain.Goal{}, "id = ?", id).Error
}
