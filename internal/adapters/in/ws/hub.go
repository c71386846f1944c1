// Package ws delivers notification bus events to websocket subscribers.
//
// The hub keeps a topic -> connections index and serializes all map access
// through a single run loop fed by register, unregister and broadcast
// channels. Delivery is at-most-once: a connection that fails a write is
// dropped on the spot.
package ws

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"oshxona/internal/core/ports"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Conn is the subset of *websocket.Conn the hub needs. Tests substitute
// their own implementation.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type subscription struct {
	conn   Conn
	topics []string
}

// Hub fans notification events out to websocket clients subscribed to the
// event's topic. It implements ports.NotificationBus.
type Hub struct {
	clients    map[string]map[Conn]bool
	register   chan subscription
	unregister chan subscription
	broadcast  chan ports.Event
	done       chan struct{}
	wg         sync.WaitGroup
	logger     *slog.Logger
}

// NewHub creates a stopped Hub. Call Start before publishing.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[Conn]bool),
		register:   make(chan subscription),
		unregister: make(chan subscription),
		broadcast:  make(chan ports.Event, 64),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Start launches the run loop.
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop terminates the run loop and closes every registered connection.
func (h *Hub) Stop() {
	close(h.done)
	h.wg.Wait()
}

// Publish implements ports.NotificationBus. Events published after Stop or
// while the broadcast buffer is full are dropped.
func (h *Hub) Publish(event ports.Event) {
	select {
	case h.broadcast <- event:
	case <-h.done:
	default:
		h.logger.Warn("notification dropped, broadcast buffer full",
			"topic", event.Topic, "kind", event.Kind)
	}
}

// Subscribe attaches a connection to the given topics.
func (h *Hub) Subscribe(c Conn, topics []string) {
	select {
	case h.register <- subscription{conn: c, topics: topics}:
	case <-h.done:
	}
}

// Unsubscribe detaches a connection from the given topics and closes it.
func (h *Hub) Unsubscribe(c Conn, topics []string) {
	select {
	case h.unregister <- subscription{conn: c, topics: topics}:
	case <-h.done:
	}
}

func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case sub := <-h.register:
			for _, topic := range sub.topics {
				if h.clients[topic] == nil {
					h.clients[topic] = make(map[Conn]bool)
				}
				h.clients[topic][sub.conn] = true
			}

		case sub := <-h.unregister:
			h.drop(sub.conn, sub.topics)
			_ = sub.conn.Close()

		case event := <-h.broadcast:
			for c := range h.clients[event.Topic] {
				if err := c.WriteJSON(event); err != nil {
					h.logger.Warn("websocket write failed, dropping client",
						"topic", event.Topic, "error", err)
					h.dropEverywhere(c)
					_ = c.Close()
				}
			}

		case <-h.done:
			for topic, conns := range h.clients {
				for c := range conns {
					_ = c.Close()
				}
				delete(h.clients, topic)
			}
			return
		}
	}
}

func (h *Hub) drop(c Conn, topics []string) {
	for _, topic := range topics {
		if _, ok := h.clients[topic][c]; ok {
			delete(h.clients[topic], c)
			if len(h.clients[topic]) == 0 {
				delete(h.clients, topic)
			}
		}
	}
}

func (h *Hub) dropEverywhere(c Conn) {
	for topic, conns := range h.clients {
		if conns[c] {
			delete(conns, c)
			if len(conns) == 0 {
				delete(h.clients, topic)
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades the request and subscribes the connection to the
// topics named in the "topics" query parameter (comma separated).
//
// GET /ws?topics=branch:<id>,order:<code>
func (h *Hub) HandleWebSocket(c echo.Context) error {
	raw := c.QueryParam("topics")
	if raw == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "topics query parameter is required")
	}

	var topics []string
	for _, topic := range strings.Split(raw, ",") {
		if topic = strings.TrimSpace(topic); topic != "" {
			topics = append(topics, topic)
		}
	}
	if len(topics) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "topics query parameter is required")
	}

	wsConn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return nil
	}

	h.Subscribe(wsConn, topics)
	go h.listen(wsConn, topics)

	return nil
}

// listen drains inbound frames so pings and close frames are processed. The
// hub never reads application data from clients.
func (h *Hub) listen(c *websocket.Conn, topics []string) {
	defer h.Unsubscribe(c, topics)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
