// Package stream pushes committed ledger events to WebSocket subscribers.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fastprodman/dicevault/internal/eventbus"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	clientBuffer   = 64
	broadcastQueue = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(*http.Request) bool {
		return true
	},
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected clients and broadcasts every message to all of them.
// Slow clients whose buffer is full are dropped.
type Hub struct {
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, broadcastQueue),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}

			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case data := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- data:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Handle is an event bus handler.
func (h *Hub) Handle(_ context.Context, m eventbus.Message) {
	data, err := json.Marshal(m)
	if err != nil {
		log.WithError(err).Error("marshal event for websocket")
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		log.WithField("eventId", m.ID).Warn("websocket broadcast queue full, dropping event")
	}
}

// ServeWS upgrades the request and streams events until the peer leaves.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go h.writePump(c)
	h.readPump(c)
}

// readPump only tracks liveness; clients never send commands.
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).Debug("websocket read error")
			}

			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			err := c.conn.WriteMessage(websocket.TextMessage, data)
			if err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			err := c.conn.WriteMessage(websocket.PingMessage, nil)
			if err != nil {
				return
			}
		}
	}
}
