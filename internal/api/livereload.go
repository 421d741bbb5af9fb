package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dgallion1/rfcsite/internal/metrics"
	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
)

// LiveReload fans rebuild notifications out to connected browsers.
type LiveReload struct {
	mu       sync.RWMutex
	clients  map[*reloadClient]struct{}
	upgrader websocket.Upgrader
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewLiveReload creates an empty hub. m may be nil.
func NewLiveReload(log *slog.Logger, m *metrics.Metrics) *LiveReload {
	return &LiveReload{
		clients: make(map[*reloadClient]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		metrics: m,
		log:     log,
	}
}

// ServeHTTP upgrades the request and keeps the socket open until the
// browser goes away.
func (lr *LiveReload) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := lr.upgrader.Upgrade(w, r, nil)
	if err != nil {
		lr.log.Warn("livereload upgrade failed", "error", err)
		return
	}
	c := &reloadClient{conn: conn, send: make(chan []byte, 8)}
	lr.register(c)
	go c.writeLoop()
	c.readLoop(func() { lr.unregister(c) })
}

// Broadcast sends msg to every client. Slow clients are dropped.
func (lr *LiveReload) Broadcast(msg []byte) {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	for c := range lr.clients {
		select {
		case c.send <- msg:
		default:
			lr.log.Info("dropping slow livereload client")
			go lr.unregister(c)
		}
	}
}

// Clients returns the number of connected browsers.
func (lr *LiveReload) Clients() int {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	return len(lr.clients)
}

// Close disconnects every client.
func (lr *LiveReload) Close() {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	for c := range lr.clients {
		c.close()
		delete(lr.clients, c)
	}
	lr.observe()
}

func (lr *LiveReload) register(c *reloadClient) {
	lr.mu.Lock()
	lr.clients[c] = struct{}{}
	lr.observe()
	lr.mu.Unlock()
}

func (lr *LiveReload) unregister(c *reloadClient) {
	lr.mu.Lock()
	if _, ok := lr.clients[c]; ok {
		delete(lr.clients, c)
		c.close()
	}
	lr.observe()
	lr.mu.Unlock()
}

// observe must be called with mu held.
func (lr *LiveReload) observe() {
	if lr.metrics != nil {
		lr.metrics.LiveClients.Set(float64(len(lr.clients)))
	}
}

type reloadClient struct {
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func (c *reloadClient) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

func (c *reloadClient) readLoop(onClose func()) {
	defer onClose()
	c.conn.SetReadLimit(1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *reloadClient) writeLoop() {
	ticker := time.NewTicker((pongWait * 9) / 10)
	defer ticker.Stop()
	defer c.conn.Close()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
