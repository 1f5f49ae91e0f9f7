// internal/handlers/notifier.go
package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/parlorgames/cluedo/internal/game"
)

// writeTimeout bounds a single WebSocket write so one stalled client cannot
// hold up delivery to the rest of the session.
const writeTimeout = 3 * time.Second

// Notifier keeps the WebSocket connections for each session and delivers
// engine events to them. Events from one action are written in order;
// private events go only to their target participant. A participant with no
// open connection simply misses the event and recovers via the snapshot on
// reconnect.
type Notifier struct {
	mu       sync.Mutex
	sessions map[string]map[uuid.UUID]*websocket.Conn
	logger   *logrus.Logger
}

func NewNotifier(logger *logrus.Logger) *Notifier {
	return &Notifier{
		sessions: make(map[string]map[uuid.UUID]*websocket.Conn),
		logger:   logger,
	}
}

// Register tracks a participant's connection, replacing any previous one.
func (n *Notifier) Register(sessionID string, pid uuid.UUID, c *websocket.Conn) {
	n.mu.Lock()
	defer n.mu.Unlock()
	conns, ok := n.sessions[sessionID]
	if !ok {
		conns = make(map[uuid.UUID]*websocket.Conn)
		n.sessions[sessionID] = conns
	}
	if old := conns[pid]; old != nil && old != c {
		old.Close(websocket.StatusPolicyViolation, "replaced by a newer connection")
	}
	conns[pid] = c
}

// Unregister removes a connection if it is still the registered one.
func (n *Notifier) Unregister(sessionID string, pid uuid.UUID, c *websocket.Conn) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if conns, ok := n.sessions[sessionID]; ok {
		if conns[pid] == c {
			delete(conns, pid)
		}
		if len(conns) == 0 {
			delete(n.sessions, sessionID)
		}
	}
}

// Deliver writes a batch of events produced by one action. Ordering within
// the batch is preserved per connection; delivery failures are logged and
// do not affect the applied action.
func (n *Notifier) Deliver(sessionID string, events []game.Event) {
	if len(events) == 0 {
		return
	}

	n.mu.Lock()
	conns := make(map[uuid.UUID]*websocket.Conn, len(n.sessions[sessionID]))
	for pid, c := range n.sessions[sessionID] {
		conns[pid] = c
	}
	n.mu.Unlock()
	if len(conns) == 0 {
		return
	}

	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			n.logger.Errorf("marshal event %s for session %s: %v", ev.Type, sessionID, err)
			continue
		}
		if ev.Target != nil {
			if c := conns[*ev.Target]; c != nil {
				n.write(c, data, sessionID, *ev.Target)
			}
			continue
		}
		for pid, c := range conns {
			n.write(c, data, sessionID, pid)
		}
	}
}

func (n *Notifier) write(c *websocket.Conn, data []byte, sessionID string, pid uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := c.Write(ctx, websocket.MessageText, data); err != nil {
		n.logger.Warnf("write to participant %s in session %s: %v", pid, sessionID, err)
	}
}
