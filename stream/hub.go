// Package stream broadcasts cloth geometry to websocket clients and feeds
// their commands back into the simulation loop.
//
// A Hub is both a drape.Publisher (every frame is encoded once and queued to
// every client) and a drape.Driver (commands received since the last frame
// are applied at the start of the next one, on the loop's goroutine).
//
//	hub := stream.NewHub()
//	http.Handle("/ws", hub)
//	loop := &drape.Loop{Cloth: c, Drivers: []drape.Driver{hub}, Publisher: hub}
package stream

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/phanxgames/drape"
)

const (
	sendQueue    = 4
	commandQueue = 64
	readLimit    = 1 << 16
	pongWait     = 60 * time.Second
	pingPeriod   = 25 * time.Second
	writeWait    = 10 * time.Second
)

var ErrHubClosed = errors.New("stream: hub closed")

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
	done chan struct{}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// Hub fans frames out to connected websocket clients. Slow clients drop
// frames rather than stall the simulation loop.
type Hub struct {
	// Logf reports connection errors. Defaults to log.Printf.
	Logf func(format string, args ...any)

	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[*client]struct{}
	closed   bool
	commands chan Envelope
	dropped  int
}

// NewHub returns a hub that accepts connections from any origin.
func NewHub() *Hub {
	return &Hub{
		Logf: log.Printf,
		upgrader: websocket.Upgrader{
			// For dev, allow all origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:  make(map[*client]struct{}),
		commands: make(chan Envelope, commandQueue),
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped returns how many frames were skipped for slow clients.
func (h *Hub) Dropped() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// ServeHTTP upgrades the request to a websocket and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logf("stream: upgrade: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendQueue), done: make(chan struct{})}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

func (h *Hub) readLoop(c *client) {
	defer h.unregister(c)

	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Logf("stream: read: %v", err)
			}
			return
		}
		env, err := DecodeCommand(msg)
		if err != nil {
			h.Logf("stream: %v", err)
			continue
		}
		select {
		case h.commands <- env:
		default:
			h.Logf("stream: command queue full, dropping %s", env.T)
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.unregister(c)
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				h.Logf("stream: write: %v", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// Publish encodes f once and queues it for every client.
func (h *Hub) Publish(f drape.Frame) error {
	msg := EncodeFrame(nil, f)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.dropped++
		}
	}
	return nil
}

// Drive applies every command received since the previous frame. A command
// that fails (bad index, bad value) is logged and skipped; one client must
// not stop the loop.
func (h *Hub) Drive(c *drape.Cloth, _, _ float64) error {
	for {
		select {
		case env := <-h.commands:
			if err := applyCommand(c, env); err != nil {
				h.Logf("stream: %v", err)
			}
		default:
			return nil
		}
	}
}

// Close disconnects every client. Later Publish calls return ErrHubClosed.
func (h *Hub) Close() error {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
	return nil
}
