package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"planora-backend/internal/goal/domain"
	"planora-backend/internal/goal/usecase"
	"planora-backend/internal/query"
	taskdomain "planora-backend/internal/task/domain"
)

// GoalHandler handles goal-related HTTP requests
type GoalHandler struct {
	goalUsecase usecase.GoalUsecase
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalUsecase usecase.GoalUsecase) *GoalHandler {
	return &GoalHandler{
		goalUsecase: goalUsecase,
	}
}

// respondError maps domain sentinels onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrGoalNotFound), errors.Is(err, domain.ErrMilestoneNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrGoalAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	case errors.Is(err, domain.ErrTitleRequired),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidProgress),
		errors.Is(err, taskdomain.ErrInvalidPriority),
		errors.Is(err, taskdomain.ErrInvalidTimestamp):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// GetGoals lists the user's goals through the filter/sort/search pipeline
// GET /api/goals?status=active&priority=high&category=work&search=x&sort_by=target_date&order=asc&limit=50&offset=0
func (h *GoalHandler) GetGoals(c *gin.Context) {
	userID := c.GetString("userID")

	filter := query.GoalFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		SortBy:   query.GoalSortKey(c.DefaultQuery("sort_by", string(query.GoalSortTargetDate))),
		Order:    query.Direction(c.DefaultQuery("order", string(query.Ascending))),
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	goals, total, err := h.goalUsecase.ListGoals(userID, filter, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"goals": goals,
		"total": total,
	})
}

// GetGoalByID returns a specific goal
// GET /api/goals/:id
func (h *GoalHandler) GetGoalByID(c *gin.Context) {
	userID := c.GetString("userID")
	goalID := c.Param("id")

	goal, err := h.goalUsecase.GetGoalByID(userID, goalID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, goal)
}

// CreateGoal creates a new goal
// POST /api/goals
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID := c.GetString("userID")

	var req usecase.GoalCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := h.goalUsecase.CreateGoal(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, goal)
}

// UpdateGoal updates an existing goal
// PUT /api/goals/:id
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID := c.GetString("userID")
	goalID := c.Param("id")

	var updates usecase.GoalUpdateRequest
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := h.goalUsecase.UpdateGoal(userID, goalID, updates)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, goal)
}

// ToggleMilestone flips one milestone's completion
// PATCH /api/goals/:id/milestones/:milestoneId/toggle
func (h *GoalHandler) ToggleMilestone(c *gin.Context) {
	userID := c.GetString("userID")
	goalID := c.Param("id")
	milestoneID := c.Param("milestoneId")

	goal, err := h.goalUsecase.ToggleMilestone(userID, goalID, milestoneID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, goal)
}

// DeleteGoal deletes a goal after an explicit confirmation
// DELETE /api/goals/:id?confirm=true
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID := c.GetString("userID")
	goalID := c.Param("id")

	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Deleting a goal requires confirm=true"})
		return
	}

	if err := h.goalUsecase.DeleteGoal(userID, goalID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted successfully"})
}
