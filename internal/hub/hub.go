// Package hub pushes import progress to every browser connected over
// WebSocket.
package hub

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/OCAP2/csvmap/internal/importer"
	"github.com/OCAP2/csvmap/pkg/streaming"
)

const (
	sendChSize = 64
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Hub tracks connected browsers and broadcasts envelopes to them.
type Hub struct {
	upgrader ws.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool

	logger *slog.Logger
}

// New creates an empty hub.
func New(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*client]struct{}),
		logger:  logger,
	}
}

// ServeHTTP upgrades the request and registers the browser until it
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	c := newClient(h, conn)
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("WebSocket client connected", "remote", r.RemoteAddr, "clients", n)

	go c.writeLoop()
	c.readLoop()
}

// Clients returns the number of connected browsers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues data for every client. Slow clients drop messages
// rather than block the sender.
func (h *Hub) Broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.send(data)
	}
}

// Publish marshals payload into an envelope and broadcasts it.
func (h *Hub) Publish(msgType string, payload any) error {
	data, err := streaming.Marshal(msgType, payload)
	if err != nil {
		return err
	}
	h.Broadcast(data)
	return nil
}

// BeginLoading tells browsers an import has started.
func (h *Hub) BeginLoading(ctx context.Context, b importer.Begin) {
	err := h.Publish(streaming.TypeLoading, streaming.LoadingPayload{ID: b.ID, Source: b.Source})
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to publish loading", "error", err)
	}
}

// EndLoading sends the new view, or the error status of a failed import.
func (h *Hub) EndLoading(ctx context.Context, o *importer.Outcome) {
	var err error
	if o.OK() {
		err = h.Publish(streaming.TypeLoaded, streaming.LoadedPayload{ID: o.ID, View: o.View})
	} else {
		err = h.Publish(streaming.TypeFailed, streaming.FailedPayload{
			ID:     o.ID,
			Source: o.Source,
			Kind:   string(o.Kind),
			Status: o.View.Status,
		})
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to publish import result", "error", err)
	}
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() error {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
	return nil
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("WebSocket client disconnected", "clients", n)
}
