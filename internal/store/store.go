// internal/store/store.go
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/parlorgames/cluedo/internal/models"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// ErrVersionConflict is returned by SaveSession when the persisted session
// version no longer matches the version the caller loaded. The engine
// retries the whole action against freshly loaded state.
var ErrVersionConflict = errors.New("session version conflict")

// SessionStore persists one session's state, hands, solution and append-only
// records under a shared expiry policy. The engine treats every call as an
// atomic read or write against the session keyed by id.
type SessionStore interface {
	// CreateSession persists a brand new session record.
	CreateSession(ctx context.Context, s *models.Session) error

	// LoadSession returns the current session state or ErrNotFound.
	LoadSession(ctx context.Context, id string) (*models.Session, error)

	// SaveSession writes s if the stored version still equals s.Version,
	// then bumps s.Version. Returns ErrVersionConflict otherwise.
	SaveSession(ctx context.Context, s *models.Session) error

	SaveSolution(ctx context.Context, id string, sol models.Solution) error
	LoadSolution(ctx context.Context, id string) (models.Solution, error)

	SaveHands(ctx context.Context, id string, hands map[uuid.UUID][]models.Card) error
	LoadHand(ctx context.Context, id string, pid uuid.UUID) ([]models.Card, error)
	LoadHands(ctx context.Context, id string, pids []uuid.UUID) (map[uuid.UUID][]models.Card, error)

	AppendLog(ctx context.Context, id string, e models.LogEntry) error
	Log(ctx context.Context, id string) ([]models.LogEntry, error)

	AppendChat(ctx context.Context, id string, m models.ChatMessage) error
	Chat(ctx context.Context, id string) ([]models.ChatMessage, error)
}
