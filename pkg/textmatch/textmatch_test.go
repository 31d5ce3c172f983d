package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		s1   string
		s2   string
		want int
	}{
		{"identical", "grocery", "grocery", 0},
		{"classic", "kitten", "sitting", 3},
		{"empty left", "", "abc", 3},
		{"empty right", "abc", "", 3},
		{"case insensitive", "Report", "report", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.s1, tt.s2))
		})
	}
}

func TestMatchToleratesTypos(t *testing.T) {
	assert.True(t, Match("groceris", "Buy groceries for the week", 2))
	assert.True(t, Match("repot", "Quarterly report", 2))
	assert.False(t, Match("meeting", "Buy groceries", 2))
}

func TestThresholdScalesWithQueryLength(t *testing.T) {
	assert.Equal(t, 1, Threshold("go"))
	assert.Equal(t, 2, Threshold("review"))
	assert.Equal(t, 3, Threshold("quarterly"))
}

func TestMatchesTaskSearchesAllFields(t *testing.T) {
	tags := []string{"finance", "urgent"}

	assert.True(t, MatchesTask("report", "Quarterly report", "", nil))
	assert.True(t, MatchesTask("finance", "Untitled", "", tags))
	assert.True(t, MatchesTask("budget", "Planning", "draft the budget numbers", nil))
	assert.False(t, MatchesTask("vacation", "Quarterly report", "draft the budget numbers", tags))
}

func TestScoreRanksTitleAboveDescription(t *testing.T) {
	titleHit := Score("report", "Quarterly report", "misc notes", nil)
	descHit := Score("report", "Planning", "finish the report tonight", nil)

	assert.Greater(t, titleHit, descHit)
	assert.Greater(t, descHit, 0.0)
	assert.Zero(t, Score("vacation", "Quarterly report", "misc notes", nil))
}

func TestScoreRewardsExactTag(t *testing.T) {
	exact := Score("urgent", "Task", "", []string{"urgent"})
	partial := Score("urg", "Task", "", []string{"urgent"})

	assert.Greater(t, exact, partial)
}
