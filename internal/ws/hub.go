package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Dashboard events pushed to connected clients.
const (
	EventStatsUpdated       = "stats_updated"
	EventTransactionChanged = "transaction_changed"
	EventAgentChanged       = "agent_changed"
	EventSettingsChanged    = "settings_changed"
	EventDashboardRefresh   = "dashboard_refresh"
	EventUserStatus         = "user_status_update"
)

// Publisher sends an event to the dashboards of one agency, or to every
// dashboard when agencyID is nil.
type Publisher interface {
	Publish(event string, agencyID *uuid.UUID, payload interface{})
}

// Discard is a Publisher for processes without connected dashboards.
type Discard struct{}

func (Discard) Publish(string, *uuid.UUID, interface{}) {}

type Event struct {
	Type     string      `json:"type"`
	AgencyID *uuid.UUID  `json:"agency_id,omitempty"`
	Payload  interface{} `json:"payload,omitempty"`
	SentAt   time.Time   `json:"sent_at"`
}

// Client is one websocket connection. A nil AgencyID receives every event.
type Client struct {
	Conn     *websocket.Conn
	AgencyID *uuid.UUID
}

type message struct {
	agencyID *uuid.UUID
	data     []byte
}

type Hub struct {
	Clients    map[*websocket.Conn]*Client
	register   chan *Client
	unregister chan *websocket.Conn
	broadcast  chan message
	done       chan struct{}
	stopOnce   sync.Once
	mutex      sync.Mutex
	log        *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]*Client),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan message, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Join hands c to the running hub. It reports false once the hub has
// stopped; the caller then owns the connection.
func (h *Hub) Join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Leave removes conn from the hub. After the hub stopped it is a no-op,
// Run has already closed every connection.
func (h *Hub) Leave(conn *websocket.Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Publish queues an event without blocking; events are dropped when the
// queue is full.
func (h *Hub) Publish(event string, agencyID *uuid.UUID, payload interface{}) {
	data, err := json.Marshal(Event{Type: event, AgencyID: agencyID, Payload: payload, SentAt: time.Now()})
	if err != nil {
		h.log.WithError(err).WithField("event", event).Error("ws: encode event")
		return
	}
	select {
	case h.broadcast <- message{agencyID: agencyID, data: data}:
	default:
		h.log.WithField("event", event).Warn("ws: broadcast queue full, event dropped")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.stopOnce.Do(func() { close(h.done) })
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return

		case c := <-h.register:
			h.mutex.Lock()
			h.Clients[c.Conn] = c
			h.mutex.Unlock()
			h.log.Debug("ws: client connected")

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case msg := <-h.broadcast:
			h.mutex.Lock()
			for conn, c := range h.Clients {
				if !receives(c, msg.agencyID) {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, msg.data); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

func receives(c *Client, agencyID *uuid.UUID) bool {
	if c.AgencyID == nil || agencyID == nil {
		return true
	}
	return *c.AgencyID == *agencyID
}
