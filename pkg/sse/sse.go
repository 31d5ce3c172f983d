package sse

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"planora-backend/pkg/logger"
)

// Event is a single server-sent event addressed to one user.
type Event struct {
	UserID string
	Name   string
	Data   map[string]interface{}
}

type client struct {
	userID string
	ch     chan Event
}

// Manager fans events out to the active SSE connections of each user.
// All connection bookkeeping happens on the Run goroutine.
type Manager struct {
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	events     chan Event
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		events:     make(chan Event, 256),
	}
}

// Run processes registrations and event fan-out. Call it in its own goroutine.
func (m *Manager) Run() {
	for {
		select {
		case c := <-m.register:
			m.clients[c] = struct{}{}
		case c := <-m.unregister:
			if _, ok := m.clients[c]; ok {
				delete(m.clients, c)
				close(c.ch)
			}
		case ev := <-m.events:
			for c := range m.clients {
				if c.userID != ev.UserID {
					continue
				}
				select {
				case c.ch <- ev:
				default:
					// Slow consumer, drop rather than block the hub.
				}
			}
		}
	}
}

// SendToUser queues an event for every open connection of userID.
func (m *Manager) SendToUser(userID, event string, data map[string]interface{}) {
	select {
	case m.events <- Event{UserID: userID, Name: event, Data: data}:
	default:
		logger.Warnf("[SSE] event queue full, dropping %q for user %s", event, userID)
	}
}

// ServeHTTP turns the request into an SSE stream for userID and blocks until
// the client disconnects. onReady, when non-nil, runs after the connection is
// registered, so events it triggers reach this stream.
func (m *Manager) ServeHTTP(c *gin.Context, userID string, onReady func()) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	cl := &client{userID: userID, ch: make(chan Event, 16)}
	m.register <- cl
	defer func() { m.unregister <- cl }()

	c.SSEvent("connected", gin.H{"userId": userID})
	c.Writer.Flush()

	if onReady != nil {
		onReady()
	}

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-cl.ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, ev.Data)
			return true
		case <-keepalive.C:
			c.SSEvent("ping", nil)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
