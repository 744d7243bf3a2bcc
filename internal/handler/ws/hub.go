// Package ws pushes each new market snapshot to connected dashboard
// clients over a websocket, so the frontend does not have to poll.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/sudz7/n50-swing-algo/internal/domain/models"
	"github.com/sudz7/n50-swing-algo/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// A client that cannot drain this many snapshots is dropped.
	sendBuffer = 8
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans each published snapshot out to all connected clients. It also
// implements the snapshot sink interface, so it plugs straight into the
// refresh coordinator.
type Hub struct {
	log        *logger.Logger
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub creates a hub. Call Run in a goroutine before accepting clients.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:        log,
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 1),
		done:       make(chan struct{}),
	}
}

// Run owns the client set. All membership changes go through channels so
// no lock is needed.
func (h *Hub) Run() {
	clients := make(map[*client]struct{})
	for {
		select {
		case <-h.done:
			for c := range clients {
				close(c.send)
			}
			return
		case c := <-h.register:
			clients[c] = struct{}{}
			h.log.Debug("ws client connected", logger.Int("clients", len(clients)))
		case c := <-h.unregister:
			if _, ok := clients[c]; ok {
				delete(clients, c)
				close(c.send)
			}
		case msg := <-h.broadcast:
			for c := range clients {
				select {
				case c.send <- msg:
				default:
					// Slow client; drop it rather than stall the rest.
					delete(clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Stop disconnects all clients and stops the run loop.
func (h *Hub) Stop() {
	close(h.done)
}

// PublishSnapshot broadcasts the snapshot to all connected clients.
// Delivery is best-effort; a full broadcast queue drops the frame.
func (h *Hub) PublishSnapshot(_ context.Context, snap *models.MarketSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- raw:
	default:
	}
	return nil
}

// RegisterRoutes registers the websocket endpoint.
func (h *Hub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.Serve)
}

// Serve upgrades the connection and starts the client pumps.
func (h *Hub) Serve(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.register <- cl

	go cl.writePump()
	go cl.readPump(h)
	return nil
}

// readPump discards client messages and watches for disconnect.
func (cl *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- cl
		cl.conn.Close()
	}()
	cl.conn.SetReadLimit(512)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (cl *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
