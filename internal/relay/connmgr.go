package relay

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Conn represents a single WebSocket connection.
type Conn struct {
	ID          string
	Name        string // display name from the handshake
	WS          *websocket.Conn
	writeMu     sync.Mutex
	ConnectedAt time.Time
}

// Send writes a frame to the WebSocket connection (thread-safe).
// Fan-out and delayed bot replies may write concurrently.
func (c *Conn) Send(frame Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.WS.WriteJSON(frame)
}

// ConnManager tracks all active WebSocket connections. It is mutated only
// by the connect/disconnect paths and read-only during fan-out.
type ConnManager struct {
	mu    sync.RWMutex
	conns map[string]*Conn // connID → conn
	seq   atomic.Int64     // broadcasts run concurrently (read loop + delayed bot replies)
}

func NewConnManager() *ConnManager {
	return &ConnManager{conns: make(map[string]*Conn)}
}

// Add registers a new connection. New clients receive no history replay.
func (m *ConnManager) Add(conn *Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[conn.ID] = conn
	connectedClients.Set(float64(len(m.conns)))
}

// Remove unregisters a connection. No other side effects.
func (m *ConnManager) Remove(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conns, connID)
	connectedClients.Set(float64(len(m.conns)))
}

// Get returns a connection by ID.
func (m *ConnManager) Get(connID string) *Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conns[connID]
}

// Count returns the number of connected clients.
func (m *ConnManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}

// Broadcast sends an event to every connected client exactly once,
// including the one the payload originated from.
func (m *ConnManager) Broadcast(event string, payload any) {
	frame := EventFrame(event, int(m.seq.Add(1)), payload)

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, conn := range m.conns {
		if err := conn.Send(frame); err != nil {
			slog.Warn("broadcast failed", "conn", conn.ID, "error", err)
		}
	}
	broadcastsTotal.Inc()
}
