// internal/handlers/api_server.go
package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/parlorgames/cluedo/internal/cache"
	"github.com/parlorgames/cluedo/internal/game"
	"github.com/parlorgames/cluedo/internal/models"
)

// GameServer ties the engine to its transports: REST for session management
// and actions, WebSocket for event delivery. One instance serves every
// session.
type GameServer struct {
	Engine   *game.Engine
	Notifier *Notifier
	Logger   *logrus.Logger

	// PublishQueue, when true, mirrors every applied action onto the Redis
	// historian queue.
	PublishQueue bool
}

// NewGameServer wires a GameServer around an engine.
func NewGameServer(engine *game.Engine, logger *logrus.Logger) *GameServer {
	gs := &GameServer{
		Engine:   engine,
		Notifier: NewNotifier(logger),
		Logger:   logger,
	}
	engine.Publish = gs.publishAction
	return gs
}

// publishAction forwards one applied log entry to the historian queue.
// Queue failures are logged and swallowed: the action has already been
// applied and archived locally.
func (gs *GameServer) publishAction(sessionID string, entry models.LogEntry) {
	if !gs.PublishQueue {
		return
	}
	rec := cache.ActionRecord{
		SessionID:     sessionID,
		ActorID:       entry.Actor,
		ActionType:    entry.Type,
		ActionPayload: entry.Payload,
		Timestamp:     entry.Timestamp.UnixMilli(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := cache.PublishAction(ctx, rec); err != nil {
		gs.Logger.Warnf("publish action for session %s: %v", sessionID, err)
	}
}

// dispatch runs one action through the engine and pushes the resulting
// events to connected clients.
func (gs *GameServer) dispatch(ctx context.Context, sessionID string, pid uuid.UUID, a models.Action) (*game.Result, error) {
	res, err := gs.Engine.ProcessAction(ctx, sessionID, pid, a)
	if err != nil {
		return nil, err
	}
	gs.Notifier.Deliver(sessionID, res.Events)
	return res, nil
}
