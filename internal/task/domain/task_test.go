package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetStatusKeepsCompletedAtInSync(t *testing.T) {
	now := time.Now()
	task := &Task{Status: TaskStatusPending}

	task.SetStatus(TaskStatusCompleted, now)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, task.CompletedAt.Equal(now))

	task.SetStatus(TaskStatusPending, now.Add(time.Minute))
	assert.Nil(t, task.CompletedAt, "leaving completed must clear the timestamp")
}

func TestOverdueAt(t *testing.T) {
	ref := time.Date(2025, 1, 5, 23, 59, 59, 0, time.UTC)
	yesterday := ref.AddDate(0, 0, -1)
	tomorrow := ref.AddDate(0, 0, 1)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"past due and pending", Task{DueDate: &yesterday, Status: TaskStatusPending}, true},
		{"past due but completed", Task{DueDate: &yesterday, Status: TaskStatusCompleted}, false},
		{"due in the future", Task{DueDate: &tomorrow, Status: TaskStatusPending}, false},
		{"no due date", Task{Status: TaskStatusPending}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.OverdueAt(ref))
		})
	}
}

func TestPriorityWeightOrdersHighFirst(t *testing.T) {
	assert.Greater(t, PriorityHigh.Weight(), PriorityMedium.Weight())
	assert.Greater(t, PriorityMedium.Weight(), PriorityLow.Weight())
	assert.Greater(t, PriorityLow.Weight(), Priority("").Weight())
}
