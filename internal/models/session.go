// internal/models/session.go
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/parlorgames/cluedo/internal/board"
)

// Status is the session-level lifecycle state.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Phase is the within-turn state while a session is playing. Legal actions
// are a pure function of (phase, acting participant).
type Phase string

const (
	PhaseAwaitingMove      Phase = "awaiting_move"
	PhaseAfterMove         Phase = "after_move"
	PhaseSuggestionPending Phase = "suggestion_pending"
)

// Position locates a participant: inside a room, or on a hallway square.
// Exactly one of the two is set once the session is playing.
type Position struct {
	Room Card         `json:"room,omitempty"`
	Cell *board.Coord `json:"cell,omitempty"`
}

// InRoom reports whether the position is a room interior.
func (p Position) InRoom() bool { return p.Room != "" }

// SuggestionRecord is the append-only record of one suggestion. ShownCard
// is private knowledge (suggester and shower only) and is stripped from
// public projections; ShownBy and Unanswered are public.
type SuggestionRecord struct {
	Suspect     Card       `json:"suspect"`
	Weapon      Card       `json:"weapon"`
	Room        Card       `json:"room"`
	SuggestedBy uuid.UUID  `json:"suggestedBy"`
	ShownBy     *uuid.UUID `json:"shownBy,omitempty"`
	ShownCard   Card       `json:"shownCard,omitempty"`
	Unanswered  bool       `json:"unanswered,omitempty"`
}

// PendingShow is the stored suggestion_pending state: the resolver has
// picked the responder and computed their matching subset; the session
// waits for their show_card action. Matching is visible to the responder
// only.
type PendingShow struct {
	Responder uuid.UUID `json:"responder"`
	Suggester uuid.UUID `json:"suggester"`
	Suspect   Card      `json:"suspect"`
	Weapon    Card      `json:"weapon"`
	Room      Card      `json:"room"`
	Matching  []Card    `json:"matching"`
}

// Session is one game instance. It is mutated exclusively inside the
// engine's per-session critical section and persisted as a whole; Version
// guards against concurrent writers.
type Session struct {
	ID           string                 `json:"id"`
	Status       Status                 `json:"status"`
	Participants []*Participant         `json:"participants"`
	TurnIndex    int                    `json:"turnIndex"`
	TurnNumber   int                    `json:"turnNumber"`
	Phase        Phase                  `json:"phase,omitempty"`
	// No omitempty: an empty map must round-trip through the store as {}
	// so Start can write into it after a load.
	Positions    map[uuid.UUID]Position `json:"positions"`
	LastRoll     []int                  `json:"lastRoll,omitempty"`
	Suggestions  []SuggestionRecord     `json:"suggestionsThisTurn,omitempty"`
	Pending      *PendingShow           `json:"pendingShow,omitempty"`
	Winner       *uuid.UUID             `json:"winner,omitempty"`
	Revealed     *Solution              `json:"revealedSolution,omitempty"`

	// PasscodeHash, when set, gates joining. Never exposed in projections.
	PasscodeHash string `json:"passcodeHash,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	Version   int64     `json:"version"`
}

// ParticipantByID returns the seat for id, or nil.
func (s *Session) ParticipantByID(id uuid.UUID) *Participant {
	for _, p := range s.Participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ParticipantByCharacter returns the seat playing the given suspect, or nil.
func (s *Session) ParticipantByCharacter(c Card) *Participant {
	for _, p := range s.Participants {
		if p.Character == c {
			return p
		}
	}
	return nil
}

// Current returns the participant whose turn it is.
func (s *Session) Current() *Participant {
	if len(s.Participants) == 0 {
		return nil
	}
	return s.Participants[s.TurnIndex]
}

// ActiveCount counts seats still eligible to act.
func (s *Session) ActiveCount() int {
	n := 0
	for _, p := range s.Participants {
		if p.Active {
			n++
		}
	}
	return n
}

// NextActiveIndex finds the next active seat after `from`, wrapping.
// Returns -1 when no other seat is active.
func (s *Session) NextActiveIndex(from int) int {
	n := len(s.Participants)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if s.Participants[idx].Active {
			return idx
		}
	}
	return -1
}

// LogEntry is one append-only history record per applied action.
type LogEntry struct {
	Type      string         `json:"type"`
	Actor     uuid.UUID      `json:"actor,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// ChatMessage is a stored chat line; a nil Participant marks system text.
type ChatMessage struct {
	Participant *uuid.UUID `json:"participant,omitempty"`
	Text        string     `json:"text"`
	Timestamp   time.Time  `json:"timestamp"`
}
