// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/parlorgames/cluedo/internal/auth"
	"github.com/parlorgames/cluedo/internal/game"
	"github.com/parlorgames/cluedo/internal/middleware"
	"github.com/parlorgames/cluedo/internal/models"
)

// WSMessage is the envelope for incoming WebSocket messages. Actions carry
// the same payload as the REST action route; automated participants use the
// identical shape.
type WSMessage struct {
	Type   string         `json:"type"`
	Action *models.Action `json:"action,omitempty"`
	Text   string         `json:"text,omitempty"`
}

// GameWSHandler upgrades the HTTP connection to WebSocket for one session.
// It authenticates the seat token, registers the connection for event
// delivery, replays the caller's private snapshot, and then reads actions
// until the connection drops.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Path: /games/ws/{session_id}
		sessionID := strings.ToUpper(strings.Trim(strings.TrimPrefix(r.URL.Path, "/games/ws/"), "/"))
		if sessionID == "" {
			http.Error(w, "missing session id in path (/games/ws/{id})", http.StatusBadRequest)
			return
		}

		token := seatTokenFromRequest(r)
		if token == "" {
			http.Error(w, "missing seat token", http.StatusUnauthorized)
			return
		}
		pidStr, sid, err := auth.AuthenticateSeatToken(token)
		if err != nil || sid != sessionID {
			http.Error(w, "invalid seat token", http.StatusForbidden)
			return
		}
		pid, err := uuid.Parse(pidStr)
		if err != nil {
			http.Error(w, "invalid seat token", http.StatusForbidden)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"game"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for session %s: %v", sessionID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal server error during handler exit")

		if c.Subprotocol() != "game" {
			logger.Warnf("Client for session %s connected with invalid subprotocol: %s", sessionID, c.Subprotocol())
			c.Close(websocket.StatusCode(BadSubprotocolError), "client must use the 'game' subprotocol")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		// Replay the caller's current view before any live events.
		state, priv, err := gs.Engine.PlayerSnapshot(r.Context(), sessionID, pid)
		if err != nil {
			logger.Warnf("snapshot for participant %s in session %s: %v", pid, sessionID, err)
			c.Close(websocket.StatusCode(InvalidSessionIDError), "not a participant in this session")
			return
		}
		sendWsMessage(c, map[string]any{
			"type":  "snapshot",
			"state": state,
			"you":   priv,
		}, logger)

		gs.Notifier.Register(sessionID, pid, c)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readErr := readMessages(ctx, c, gs, sessionID, pid, logger)

		gs.Notifier.Unregister(sessionID, pid, c)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, readErr)
	}
}

// readMessages reads and routes client messages until the connection closes
// or the context is cancelled. Engine rejections are reported back on the
// socket and never terminate the loop.
func readMessages(ctx context.Context, c *websocket.Conn, gs *GameServer, sessionID string, pid uuid.UUID, logger *logrus.Logger) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return nil
			}
			if strings.Contains(err.Error(), "context canceled") {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			logger.Warnf("non-text message from participant %s in session %s, ignoring", pid, sessionID)
			continue
		}

		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sendWsError(c, "invalid_action", "invalid JSON format", logger)
			continue
		}

		switch msg.Type {
		case "action":
			if msg.Action == nil {
				sendWsError(c, "invalid_action", "action payload is required", logger)
				continue
			}
			res, err := gs.dispatch(ctx, sessionID, pid, *msg.Action)
			if err != nil {
				var de *game.DomainError
				if errors.As(err, &de) {
					sendWsError(c, string(de.Code), de.Message, logger)
				} else {
					logger.Errorf("action from participant %s in session %s: %v", pid, sessionID, err)
					sendWsError(c, "internal", "internal error", logger)
				}
				continue
			}
			if priv := res.Private[pid]; priv != nil {
				sendWsMessage(c, map[string]any{"type": "you", "you": priv}, logger)
			}

		case "chat":
			if msg.Text == "" {
				sendWsError(c, "invalid_action", "text is required", logger)
				continue
			}
			cm := models.ChatMessage{Participant: &pid, Text: msg.Text}
			if err := gs.Engine.AppendChat(ctx, sessionID, cm); err != nil {
				logger.Warnf("chat from participant %s in session %s: %v", pid, sessionID, err)
				continue
			}
			gs.Notifier.Deliver(sessionID, []game.Event{{
				Type: "chat",
				Payload: map[string]any{
					"participant": pid.String(),
					"text":        msg.Text,
				},
			}})

		case "ping":
			sendWsMessage(c, map[string]string{"type": "pong"}, logger)

		default:
			sendWsError(c, "invalid_action", fmt.Sprintf("unknown message type: %s", msg.Type), logger)
		}

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
}

// sendWsMessage marshals a message and sends it with a write timeout.
func sendWsMessage(c *websocket.Conn, message interface{}, logger *logrus.Logger) {
	msgBytes, err := json.Marshal(message)
	if err != nil {
		logger.Errorf("marshal WebSocket message: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := c.Write(ctx, websocket.MessageText, msgBytes); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			logger.Warnf("write WebSocket message: %v", err)
		}
	}
}

// sendWsError sends a structured error message to the client.
func sendWsError(c *websocket.Conn, code, message string, logger *logrus.Logger) {
	sendWsMessage(c, map[string]any{
		"type":    "error",
		"error":   code,
		"message": message,
	}, logger)
}
