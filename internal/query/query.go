// Package query implements the in-memory filter, search, and sort pipeline
// applied to a user's task or goal collection before it is returned or
// rendered. The pipeline is a pure function: it never mutates its input and
// identical inputs always produce an identical ordering.
package query

import (
	"sort"
	"strings"
	"time"

	goaldomain "planora-backend/internal/goal/domain"
	taskdomain "planora-backend/internal/task/domain"
)

// All is the sentinel filter value that disables an equality filter.
const All = "all"

// Direction selects ascending or descending order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// TaskSortKey selects the comparator used to order tasks.
type TaskSortKey string

const (
	TaskSortDueDate   TaskSortKey = "due_date"
	TaskSortPriority  TaskSortKey = "priority"
	TaskSortCreatedAt TaskSortKey = "created_at"
	TaskSortTitle     TaskSortKey = "title"
)

// GoalSortKey selects the comparator used to order goals.
type GoalSortKey string

const (
	GoalSortTargetDate GoalSortKey = "target_date"
	GoalSortPriority   GoalSortKey = "priority"
	GoalSortCreatedAt  GoalSortKey = "created_at"
	GoalSortTitle      GoalSortKey = "title"
	GoalSortProgress   GoalSortKey = "progress"
)

// distantFuture stands in for a missing due or target date so undated records
// sort after every dated one when ordering by date ascending.
var distantFuture = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

// TaskFilter holds every knob of the task pipeline. Empty strings and All
// leave the corresponding dimension unfiltered; a zero SortBy falls back to
// the due-date ordering.
type TaskFilter struct {
	Status   string
	Priority string
	Category string
	Search   string
	SortBy   TaskSortKey
	Order    Direction
}

// Tasks runs the filter -> search -> sort pipeline over tasks. Equality
// filters and the free-text search combine with logical AND. The returned
// slice is freshly allocated; ties in the sort key carry no order guarantee.
func Tasks(tasks []*taskdomain.Task, f TaskFilter) []*taskdomain.Task {
	needle := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]*taskdomain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !matchesFilter(f.Status, string(t.Status)) {
			continue
		}
		if !matchesFilter(f.Priority, string(t.Priority)) {
			continue
		}
		if !matchesFilter(f.Category, t.Category) {
			continue
		}
		if !taskMatchesSearch(t, needle) {
			continue
		}
		out = append(out, t)
	}

	sortTasks(out, f.SortBy, f.Order)
	return out
}

// GoalFilter mirrors TaskFilter for goal collections.
type GoalFilter struct {
	Status   string
	Priority string
	Category string
	Search   string
	SortBy   GoalSortKey
	Order    Direction
}

// Goals runs the filter -> search -> sort pipeline over goals.
func Goals(goals []*goaldomain.Goal, f GoalFilter) []*goaldomain.Goal {
	needle := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]*goaldomain.Goal, 0, len(goals))
	for _, g := range goals {
		if !matchesFilter(f.Status, string(g.Status)) {
			continue
		}
		if !matchesFilter(f.Priority, string(g.Priority)) {
			continue
		}
		if !matchesFilter(f.Category, string(g.Category)) {
			continue
		}
		if !goalMatchesSearch(g, needle) {
			continue
		}
		out = append(out, g)
	}

	sortGoals(out, f.SortBy, f.Order)
	return out
}

// matchesFilter reports whether value passes an equality filter. An empty
// filter or the All sentinel matches everything.
func matchesFilter(filter, value string) bool {
	return filter == "" || filter == All || filter == value
}

// taskMatchesSearch reports whether the task matches a lowercased search
// needle against title, description, and tags. An empty needle matches.
func taskMatchesSearch(t *taskdomain.Task, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Title), needle) {
		return true
	}
	if t.Description != "" && strings.Contains(strings.ToLower(t.Description), needle) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func goalMatchesSearch(g *goaldomain.Goal, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(g.Title), needle) {
		return true
	}
	if g.Description != "" && strings.Contains(strings.ToLower(g.Description), needle) {
		return true
	}
	return false
}

func taskDue(t *taskdomain.Task) time.Time {
	if t.DueDate != nil {
		return *t.DueDate
	}
	return distantFuture
}

func goalTarget(g *goaldomain.Goal) time.Time {
	if g.TargetDate != nil {
		return *g.TargetDate
	}
	return distantFuture
}

func sortTasks(tasks []*taskdomain.Task, key TaskSortKey, dir Direction) {
	var less func(a, b *taskdomain.Task) bool
	switch key {
	case TaskSortPriority:
		less = func(a, b *taskdomain.Task) bool { return a.Priority.Weight() < b.Priority.Weight() }
	case TaskSortCreatedAt:
		less = func(a, b *taskdomain.Task) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case TaskSortTitle:
		less = func(a, b *taskdomain.Task) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	default: // TaskSortDueDate
		less = func(a, b *taskdomain.Task) bool { return taskDue(a).Before(taskDue(b)) }
	}

	sort.Slice(tasks, func(i, j int) bool {
		if dir == Descending {
			return less(tasks[j], tasks[i])
		}
		return less(tasks[i], tasks[j])
	})
}

func sortGoals(goals []*goaldomain.Goal, key GoalSortKey, dir Direction) {
	var less func(a, b *goaldomain.Goal) bool
	switch key {
	case GoalSortPriority:
		less = func(a, b *goaldomain.Goal) bool { return a.Priority.Weight() < b.Priority.Weight() }
	case GoalSortCreatedAt:
		less = func(a, b *goaldomain.Goal) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case GoalSortTitle:
		less = func(a, b *goaldomain.Goal) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case GoalSortProgress:
		less = func(a, b *goaldomain.Goal) bool { return a.Progress < b.Progress }
	default: // GoalSortTargetDate
		less = func(a, b *goaldomain.Goal) bool { return goalTarget(a).Before(goalTarget(b)) }
	}

	sort.Slice(goals, func(i, j int) bool {
		if dir == Descending {
			return less(goals[j], goals[i])
		}
		return less(goals[i], goals[j])
	})
}
