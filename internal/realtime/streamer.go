// Package realtime bridges the in-process change feeds onto SSE connections.
// Each connection gets primed with full snapshots, then receives every
// published change for its user until the client goes away.
package realtime

import (
	"context"
	"net/http"
	"sync"
	"time"

	analyticsdomain "planora-backend/internal/analytics/domain"
	analyticsusecase "planora-backend/internal/analytics/usecase"
	calendarusecase "planora-backend/internal/calendar/usecase"
	goaldomain "planora-backend/internal/goal/domain"
	goalrepo "planora-backend/internal/goal/repository"
	notifdomain "planora-backend/internal/notification/domain"
	"planora-backend/internal/settings"
	taskdomain "planora-backend/internal/task/domain"
	taskrepo "planora-backend/internal/task/repository"
	taskusecase "planora-backend/internal/task/usecase"
	"planora-backend/pkg/feed"
	"planora-backend/pkg/logger"
	"planora-backend/pkg/sse"

	"github.com/gin-gonic/gin"
)

const (
	// searchDebounce is the quiet window between a live-search trigger and
	// the ranked lookup, so a burst of keystrokes costs one query.
	searchDebounce = 300 * time.Millisecond

	liveSearchLimit   = 20
	notificationLimit = 50
)

// TaskSource is the slice of the task repository the streamer reads.
type TaskSource interface {
	FindByUserID(userID string, opts taskrepo.ListOptions) ([]*taskdomain.Task, int64, error)
}

// GoalSource is the slice of the goal repository the streamer reads.
type GoalSource interface {
	FindByUserID(userID string, opts goalrepo.ListOptions) ([]*goaldomain.Goal, int64, error)
}

// NotificationSource reads a user's notification backlog for priming.
type NotificationSource interface {
	FindByUserID(userID string, limit int) ([]*notifdomain.Notification, error)
	CountUnread(userID string) (int64, error)
}

// Searcher runs the ranked task search behind live queries.
type Searcher interface {
	SearchTasks(userID, query string, limit int) ([]taskusecase.SearchResult, error)
}

// EventSink receives the events the streamer emits. *sse.Manager satisfies it.
type EventSink interface {
	SendToUser(userID, event string, data map[string]interface{})
}

type searchState struct {
	query     string
	debouncer *feed.Debouncer
}

// Streamer serves GET /api/events and owns the per-user live-search state.
type Streamer struct {
	tasks    TaskSource
	goals    GoalSource
	notes    NotificationSource
	searcher Searcher
	metrics  analyticsusecase.MetricsUsecase
	prefs    settings.PreferenceRepository

	taskFeed *feed.Feed[[]*taskdomain.Task]
	goalFeed *feed.Feed[[]*goaldomain.Goal]

	manager *sse.Manager
	sink    EventSink

	mu       sync.Mutex
	searches map[string]*searchState
}

// NewStreamer creates a Streamer pushing through manager.
func NewStreamer(
	tasks TaskSource,
	goals GoalSource,
	notes NotificationSource,
	searcher Searcher,
	metrics analyticsusecase.MetricsUsecase,
	taskFeed *feed.Feed[[]*taskdomain.Task],
	goalFeed *feed.Feed[[]*goaldomain.Goal],
	manager *sse.Manager,
) *Streamer {
	return &Streamer{
		tasks:    tasks,
		goals:    goals,
		notes:    notes,
		searcher: searcher,
		metrics:  metrics,
		taskFeed: taskFeed,
		goalFeed: goalFeed,
		manager:  manager,
		sink:     manager,
		searches: make(map[string]*searchState),
	}
}

// SetPreferences wires the preference store so the metrics stream uses the
// user's configured period. Optional; without it the default period applies.
func (s *Streamer) SetPreferences(prefs settings.PreferenceRepository) {
	s.prefs = prefs
}

// Serve handles GET /api/events. Blocks until the client disconnects.
func (s *Streamer) Serve(c *gin.Context) {
	userID := c.GetString("userID")
	ctx := c.Request.Context()
	s.manager.ServeHTTP(c, userID, func() {
		go s.stream(ctx, userID)
	})
}

// UpdateSearch handles PUT /api/search/live. Results arrive as "search"
// events on the user's stream once the debounce window closes.
func (s *Streamer) UpdateSearch(c *gin.Context) {
	var req struct {
		Query string `json:"q"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.SetQuery(c.GetString("userID"), req.Query)
	c.JSON(http.StatusAccepted, gin.H{"message": "Search accepted"})
}

// stream forwards feed snapshots for userID until ctx is cancelled.
func (s *Streamer) stream(ctx context.Context, userID string) {
	taskSub := s.taskFeed.Subscribe(userID)
	defer taskSub.Cancel()
	goalSub := s.goalFeed.Subscribe(userID)
	defer goalSub.Cancel()

	var metricsC <-chan *analyticsdomain.Metrics
	metricsSub, err := s.metrics.Watch(ctx, userID, s.periodDays(ctx, userID))
	if err != nil {
		logger.Errorf("[Realtime] Metrics watch unavailable for user %s: %v", userID, err)
	} else {
		defer metricsSub.Cancel()
		metricsC = metricsSub.C()
	}

	s.primeTasks(userID)
	s.primeGoals(userID)
	s.primeNotifications(userID)
	// The metrics watcher emits its own initial result.

	for {
		select {
		case snapshot := <-taskSub.C():
			s.pushTasks(userID, snapshot)
			s.pushCalendar(userID, snapshot)
			s.retriggerSearch(userID)
		case snapshot := <-goalSub.C():
			s.pushGoals(userID, snapshot)
		case m := <-metricsC:
			s.pushMetrics(userID, m)
		case <-ctx.Done():
			return
		}
	}
}

// SetQuery installs or replaces userID's live search. An empty query clears
// it and pushes an empty result set.
func (s *Streamer) SetQuery(userID, query string) {
	if query == "" {
		s.clearQuery(userID)
		return
	}

	s.mu.Lock()
	st, ok := s.searches[userID]
	if !ok {
		st = &searchState{debouncer: feed.NewDebouncer(searchDebounce)}
		s.searches[userID] = st
	}
	st.query = query
	deb := st.debouncer
	s.mu.Unlock()

	deb.Trigger(func() { s.pushSearch(userID) })
}

func (s *Streamer) clearQuery(userID string) {
	s.mu.Lock()
	if st, ok := s.searches[userID]; ok {
		st.debouncer.Stop()
		delete(s.searches, userID)
	}
	s.mu.Unlock()

	s.sink.SendToUser(userID, "search", map[string]interface{}{
		"query":   "",
		"results": []taskusecase.SearchResult{},
		"count":   0,
	})
}

func (s *Streamer) activeSearch(userID string) (string, *feed.Debouncer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.searches[userID]
	if !ok {
		return "", nil, false
	}
	return st.query, st.debouncer, true
}

// retriggerSearch refreshes the live results after the task collection
// changed. Reuses the debouncer so mutation bursts coalesce.
func (s *Streamer) retriggerSearch(userID string) {
	_, deb, ok := s.activeSearch(userID)
	if !ok {
		return
	}
	deb.Trigger(func() { s.pushSearch(userID) })
}

func (s *Streamer) pushSearch(userID string) {
	query, _, ok := s.activeSearch(userID)
	if !ok {
		return
	}

	results, err := s.searcher.SearchTasks(userID, query, liveSearchLimit)
	if err != nil {
		logger.Errorf("[Realtime] Live search failed for user %s: %v", userID, err)
		results = nil
	}
	if results == nil {
		results = []taskusecase.SearchResult{}
	}

	s.sink.SendToUser(userID, "search", map[string]interface{}{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}

func (s *Streamer) primeTasks(userID string) {
	tasks, _, err := s.tasks.FindByUserID(userID, taskrepo.ListOptions{})
	if err != nil {
		// The stream opens with empty data rather than an error.
		logger.Errorf("[Realtime] Failed to load tasks for user %s: %v", userID, err)
		tasks = nil
	}
	s.pushTasks(userID, tasks)
	s.pushCalendar(userID, tasks)
}

func (s *Streamer) primeGoals(userID string) {
	goals, _, err := s.goals.FindByUserID(userID, goalrepo.ListOptions{})
	if err != nil {
		logger.Errorf("[Realtime] Failed to load goals for user %s: %v", userID, err)
		goals = nil
	}
	s.pushGoals(userID, goals)
}

func (s *Streamer) primeNotifications(userID string) {
	notes, err := s.notes.FindByUserID(userID, notificationLimit)
	if err != nil {
		logger.Errorf("[Realtime] Failed to load notifications for user %s: %v", userID, err)
		notes = nil
	}
	unread, err := s.notes.CountUnread(userID)
	if err != nil {
		unread = 0
	}
	if notes == nil {
		notes = []*notifdomain.Notification{}
	}

	s.sink.SendToUser(userID, "notifications", map[string]interface{}{
		"notifications": notes,
		"unread":        unread,
	})
}

func (s *Streamer) pushTasks(userID string, tasks []*taskdomain.Task) {
	if tasks == nil {
		tasks = []*taskdomain.Task{}
	}
	s.sink.SendToUser(userID, "tasks", map[string]interface{}{
		"tasks": tasks,
		"total": len(tasks),
	})
}

func (s *Streamer) pushCalendar(userID string, tasks []*taskdomain.Task) {
	events := calendarusecase.Project(tasks, time.Time{}, time.Time{})
	if events == nil {
		events = []calendarusecase.Event{}
	}
	s.sink.SendToUser(userID, "calendar", map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}

func (s *Streamer) pushGoals(userID string, goals []*goaldomain.Goal) {
	if goals == nil {
		goals = []*goaldomain.Goal{}
	}
	s.sink.SendToUser(userID, "goals", map[string]interface{}{
		"goals": goals,
		"total": len(goals),
	})
}

func (s *Streamer) pushMetrics(userID string, m *analyticsdomain.Metrics) {
	s.sink.SendToUser(userID, "metrics", map[string]interface{}{
		"metrics": m,
	})
}

// periodDays resolves the metrics window from the user's preferences.
func (s *Streamer) periodDays(ctx context.Context, userID string) int {
	if s.prefs == nil {
		return settings.DefaultPreferences().DefaultPeriodDays
	}
	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		logger.Warnf("[Realtime] Failed to load preferences for user %s: %v", userID, err)
		return settings.DefaultPreferences().DefaultPeriodDays
	}
	return prefs.DefaultPeriodDays
}
