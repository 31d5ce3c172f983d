package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalcProgress(t *testing.T) {
	tests := []struct {
		name       string
		milestones MilestoneList
		manual     int
		want       int
	}{
		{"no milestones keeps manual progress", nil, 40, 40},
		{"none completed", MilestoneList{{ID: "a"}, {ID: "b"}}, 0, 0},
		{"one of three rounds to 33", MilestoneList{{ID: "a", Completed: true}, {ID: "b"}, {ID: "c"}}, 0, 33},
		{"two of three rounds to 67", MilestoneList{{ID: "a", Completed: true}, {ID: "b", Completed: true}, {ID: "c"}}, 0, 67},
		{"all completed", MilestoneList{{ID: "a", Completed: true}}, 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Goal{Progress: tt.manual, Milestones: tt.milestones}
			g.RecalcProgress()
			assert.Equal(t, tt.want, g.Progress)
		})
	}
}

func TestToggleMilestone(t *testing.T) {
	g := &Goal{
		Milestones: MilestoneList{
			{ID: "m1", Title: "draft"},
			{ID: "m2", Title: "review"},
		},
	}

	require.NoError(t, g.ToggleMilestone("m1"))
	assert.True(t, g.Milestones[0].Completed)
	assert.Equal(t, 50, g.Progress)

	require.NoError(t, g.ToggleMilestone("m1"))
	assert.False(t, g.Milestones[0].Completed, "toggling twice must restore the original state")
	assert.Equal(t, 0, g.Progress)
}

func TestToggleMilestoneUnknownID(t *testing.T) {
	g := &Goal{Milestones: MilestoneList{{ID: "m1"}}}
	assert.ErrorIs(t, g.ToggleMilestone("nope"), ErrMilestoneNotFound)
}
