package api

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// liveConn serializes writes to one live preview client.
type liveConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// WSConnectionManager tracks live preview clients and fans messages out to
// them.
type WSConnectionManager struct {
	mu          sync.RWMutex
	connections map[*websocket.Conn]*liveConn
	logger      *log.Logger
}

// NewWSConnectionManager creates a new WebSocket connection manager.
func NewWSConnectionManager() *WSConnectionManager {
	return &WSConnectionManager{
		connections: make(map[*websocket.Conn]*liveConn),
		logger:      log.WithPrefix("live"),
	}
}

// Add registers a connection.
func (m *WSConnectionManager) Add(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connections[conn] = &liveConn{conn: conn}
	m.logger.Debug("client connected", "remote", conn.RemoteAddr(), "clients", len(m.connections))
}

// Remove forgets a connection.
func (m *WSConnectionManager) Remove(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.connections[conn]; !ok {
		return
	}
	delete(m.connections, conn)
	m.logger.Debug("client disconnected", "remote", conn.RemoteAddr(), "clients", len(m.connections))
}

// Len returns the number of connected clients.
func (m *WSConnectionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

// Broadcast sends message to every client. Clients that fail the write are
// dropped.
func (m *WSConnectionManager) Broadcast(message any) {
	m.mu.RLock()
	conns := make([]*liveConn, 0, len(m.connections))
	for _, lc := range m.connections {
		conns = append(conns, lc)
	}
	m.mu.RUnlock()

	for _, lc := range conns {
		lc.mu.Lock()
		err := lc.conn.WriteJSON(message)
		lc.mu.Unlock()

		if err != nil {
			m.Remove(lc.conn)
		}
	}
}

// WriteJSON writes message to a single client, serialized with broadcasts.
func (m *WSConnectionManager) WriteJSON(conn *websocket.Conn, message any) error {
	m.mu.RLock()
	lc, exists := m.connections[conn]
	m.mu.RUnlock()

	if !exists {
		return conn.WriteJSON(message)
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.conn.WriteJSON(message)
}
