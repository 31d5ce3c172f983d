package realtime

import (
	"context"
	"testing"
	"time"

	analyticsusecase "planora-backend/internal/analytics/usecase"
	goaldomain "planora-backend/internal/goal/domain"
	goalrepo "planora-backend/internal/goal/repository"
	notifdomain "planora-backend/internal/notification/domain"
	notifrepo "planora-backend/internal/notification/repository"
	taskdomain "planora-backend/internal/task/domain"
	taskrepo "planora-backend/internal/task/repository"
	taskusecase "planora-backend/internal/task/usecase"
	"planora-backend/pkg/feed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sinkEvent struct {
	userID string
	name   string
	data   map[string]interface{}
}

// recordingSink captures everything the streamer would push over SSE.
type recordingSink struct {
	ch chan sinkEvent
}

func newRecordingSink() *recordingSink {
	return &recordingSink{ch: make(chan sinkEvent, 64)}
}

func (r *recordingSink) SendToUser(userID, event string, data map[string]interface{}) {
	r.ch <- sinkEvent{userID: userID, name: event, data: data}
}

// next receives events until one named name arrives. Fails the test after
// two seconds.
func (r *recordingSink) next(t *testing.T, name string) sinkEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-r.ch:
			if ev.name == name {
				return ev
			}
		case <-deadline:
			t.Fatalf("no %q event arrived within 2s", name)
			return sinkEvent{}
		}
	}
}

// collect receives exactly n events, keyed by name. Arrival order between
// the stream goroutine and the metrics watcher is not deterministic.
func (r *recordingSink) collect(t *testing.T, n int) map[string]sinkEvent {
	t.Helper()
	out := make(map[string]sinkEvent, n)
	deadline := time.After(2 * time.Second)
	for i := 0; i < n; i++ {
		select {
		case ev := <-r.ch:
			out[ev.name] = ev
		case <-deadline:
			t.Fatalf("received %d of %d expected events", i, n)
		}
	}
	return out
}

// drainPrimes consumes the snapshots a fresh connection is primed with:
// tasks, calendar, goals, notifications, and the initial metrics result.
func (r *recordingSink) drainPrimes(t *testing.T) {
	t.Helper()
	r.collect(t, 5)
}

type fixture struct {
	streamer *Streamer
	sink     *recordingSink
	tasks    taskrepo.TaskRepository
	goals    goalrepo.GoalRepository
	notes    notifrepo.NotificationRepository
	taskFeed *feed.Feed[[]*taskdomain.Task]
	goalFeed *feed.Feed[[]*goaldomain.Goal]
	taskUc   taskusecase.TaskUsecase
}

func newFixture() *fixture {
	tasks := taskrepo.NewMemoryTaskRepository()
	goals := goalrepo.NewMemoryGoalRepository()
	notes := notifrepo.NewMemoryNotificationRepository()
	taskFeed := feed.New[[]*taskdomain.Task]()
	goalFeed := feed.New[[]*goaldomain.Goal]()
	taskUc := taskusecase.NewTaskUsecase(tasks, taskFeed)
	metrics := analyticsusecase.NewMetricsUsecase(tasks, taskFeed)

	sink := newRecordingSink()
	streamer := NewStreamer(tasks, goals, notes, taskUc, metrics, taskFeed, goalFeed, nil)
	streamer.sink = sink

	return &fixture{
		streamer: streamer,
		sink:     sink,
		tasks:    tasks,
		goals:    goals,
		notes:    notes,
		taskFeed: taskFeed,
		goalFeed: goalFeed,
		taskUc:   taskUc,
	}
}

func (f *fixture) start(t *testing.T, userID string) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go f.streamer.stream(ctx, userID)
	return cancel
}

func seedTask(t *testing.T, repo taskrepo.TaskRepository, userID, title string, due *time.Time) {
	t.Helper()
	require.NoError(t, repo.Create(&taskdomain.Task{
		ID:       title,
		UserID:   userID,
		Title:    title,
		Status:   taskdomain.TaskStatusPending,
		Priority: taskdomain.PriorityMedium,
		DueDate:  due,
	}))
}

func TestStreamPrimesSnapshotsOnConnect(t *testing.T) {
	f := newFixture()
	due := time.Now().Add(24 * time.Hour)
	seedTask(t, f.tasks, "u1", "Water plants", &due)
	seedTask(t, f.tasks, "u1", "Undated chore", nil)
	require.NoError(t, f.goals.Create(&goaldomain.Goal{
		ID:     "g1",
		UserID: "u1",
		Title:  "Read 12 books",
		Status: goaldomain.GoalStatusActive,
	}))
	require.NoError(t, f.notes.Create(&notifdomain.Notification{
		UserID:   "u1",
		Message:  "Welcome",
		Severity: notifdomain.SeverityInfo,
	}))

	cancel := f.start(t, "u1")
	defer cancel()

	events := f.sink.collect(t, 5)
	require.Contains(t, events, "tasks")
	require.Contains(t, events, "calendar")
	require.Contains(t, events, "goals")
	require.Contains(t, events, "notifications")
	require.Contains(t, events, "metrics")

	assert.Equal(t, "u1", events["tasks"].userID)
	assert.Equal(t, 2, events["tasks"].data["total"])
	assert.Equal(t, 1, events["calendar"].data["count"], "only the dated task projects onto the calendar")
	assert.Equal(t, 1, events["goals"].data["total"])
	assert.Equal(t, int64(1), events["notifications"].data["unread"])
}

func TestStreamForwardsTaskChanges(t *testing.T) {
	f := newFixture()
	cancel := f.start(t, "u1")
	defer cancel()

	f.sink.drainPrimes(t)

	_, err := f.taskUc.CreateTask("u1", taskusecase.TaskCreateRequest{Title: "New arrival"})
	require.NoError(t, err)

	// One mutation refreshes the task list, the calendar projection, and
	// the metrics result.
	events := f.sink.collect(t, 3)
	require.Contains(t, events, "tasks")
	require.Contains(t, events, "calendar")
	require.Contains(t, events, "metrics")
	assert.Equal(t, 1, events["tasks"].data["total"])
}

func TestStreamIgnoresOtherUsers(t *testing.T) {
	f := newFixture()
	cancel := f.start(t, "u1")
	defer cancel()

	f.sink.drainPrimes(t)

	_, err := f.taskUc.CreateTask("u2", taskusecase.TaskCreateRequest{Title: "Someone else's"})
	require.NoError(t, err)

	select {
	case ev := <-f.sink.ch:
		t.Fatalf("unexpected %q event for user %s", ev.name, ev.userID)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestStreamPrimesEmptyWhenSourcesFail(t *testing.T) {
	f := newFixture()
	f.streamer.tasks = failingTaskSource{}
	f.streamer.goals = failingGoalSource{}
	f.streamer.notes = failingNotificationSource{}

	cancel := f.start(t, "u1")
	defer cancel()

	tasksEv := f.sink.next(t, "tasks")
	assert.Equal(t, 0, tasksEv.data["total"])
	assert.NotNil(t, tasksEv.data["tasks"])

	goalsEv := f.sink.next(t, "goals")
	assert.Equal(t, 0, goalsEv.data["total"])

	notesEv := f.sink.next(t, "notifications")
	assert.Equal(t, int64(0), notesEv.data["unread"])
}

func TestSetQueryDebouncesKeystrokes(t *testing.T) {
	f := newFixture()
	seedTask(t, f.tasks, "u1", "Buy groceries", nil)
	seedTask(t, f.tasks, "u1", "Fix login bug", nil)

	// A typing burst: only the final query should run.
	f.streamer.SetQuery("u1", "gro")
	f.streamer.SetQuery("u1", "groc")
	f.streamer.SetQuery("u1", "groceries")

	ev := f.sink.next(t, "search")
	assert.Equal(t, "groceries", ev.data["query"])
	assert.Equal(t, 1, ev.data["count"])

	select {
	case extra := <-f.sink.ch:
		t.Fatalf("unexpected extra event %q after debounce", extra.name)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestSetQueryEmptyClearsResults(t *testing.T) {
	f := newFixture()
	seedTask(t, f.tasks, "u1", "Buy groceries", nil)

	f.streamer.SetQuery("u1", "groceries")
	f.sink.next(t, "search")

	f.streamer.SetQuery("u1", "")
	ev := f.sink.next(t, "search")
	assert.Equal(t, "", ev.data["query"])
	assert.Equal(t, 0, ev.data["count"])
}

func TestTaskChangeRefreshesActiveSearch(t *testing.T) {
	f := newFixture()
	cancel := f.start(t, "u1")
	defer cancel()

	f.sink.next(t, "tasks")

	f.streamer.SetQuery("u1", "grocer")
	first := f.sink.next(t, "search")
	assert.Equal(t, 0, first.data["count"])

	_, err := f.taskUc.CreateTask("u1", taskusecase.TaskCreateRequest{Title: "Buy groceries"})
	require.NoError(t, err)

	refreshed := f.sink.next(t, "search")
	assert.Equal(t, 1, refreshed.data["count"])
}

type failingTaskSource struct{}

func (failingTaskSource) FindByUserID(string, taskrepo.ListOptions) ([]*taskdomain.Task, int64, error) {
	return nil, 0, assert.AnError
}

type failingGoalSource struct{}

func (failingGoalSource) FindByUserID(string, goalrepo.ListOptions) ([]*goaldomain.Goal, int64, error) {
	return nil, 0, assert.AnError
}

type failingNotificationSource struct{}

func (failingNotificationSource) FindByUserID(string, int) ([]*notifdomain.Notification, error) {
	return nil, assert.AnError
}

func (failingNotificationSource) CountUnread(string) (int64, error) {
	return 0, assert.AnError
}
