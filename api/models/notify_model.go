package models

import (
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/moyoez/progress-uploader/notify"
	"github.com/moyoez/progress-uploader/tool"
	"github.com/moyoez/progress-uploader/types"
)

const hubWriteTimeout = 5 * time.Second

var (
	notifyHubMu sync.RWMutex
	notifyHub   *Hub
)

// Hub holds WebSocket connections and broadcasts task notifications to all
// clients. It implements types.ProgressPresenter; events wait in a
// notify.Mailbox and are written by one goroutine, so a slow dashboard never
// stalls a transfer.
type Hub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]struct{}

	// gorilla connections support one concurrent writer
	writeMu sync.Mutex
	mailbox *notify.Mailbox
}

// NewHub creates a new notify hub and starts its writer.
func NewHub() *Hub {
	h := &Hub{
		conns: make(map[*websocket.Conn]struct{}),
	}
	h.mailbox = notify.NewMailbox(func(event types.TaskEvent) {
		h.Broadcast(types.NotificationFromEvent(event))
	})
	return h
}

// Register adds a WebSocket connection to the hub.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

// Unregister removes a WebSocket connection from the hub.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Present queues a task event for broadcast without blocking.
func (h *Hub) Present(event types.TaskEvent) {
	h.mailbox.Push(event)
}

// Broadcast sends the notification as JSON to all registered connections.
func (h *Hub) Broadcast(notification *types.Notification) {
	if notification == nil {
		return
	}
	payload, err := sonic.Marshal(notification)
	if err != nil {
		tool.DefaultLogger.Errorf("[NotifyWS] Failed to encode notification: %v", err)
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	for _, conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(hubWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			tool.DefaultLogger.Debugf("[NotifyWS] Dropping client: %v", err)
			h.Unregister(conn)
			_ = conn.Close()
		}
	}
}

// SetNotifyHub sets the hub used for the websocket progress feed.
func SetNotifyHub(h *Hub) {
	notifyHubMu.Lock()
	defer notifyHubMu.Unlock()
	notifyHub = h
}

// GetNotifyHub returns the notify WebSocket hub, or nil if not set.
func GetNotifyHub() *Hub {
	notifyHubMu.RLock()
	defer notifyHubMu.RUnlock()
	return notifyHub
}
