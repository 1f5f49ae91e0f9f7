// internal/game/events.go
package game

import (
	"github.com/google/uuid"

	"github.com/parlorgames/cluedo/internal/board"
	"github.com/parlorgames/cluedo/internal/models"
)

// EventType is an enum-like type for outbound notifications.
type EventType string

const (
	EventParticipantJoined EventType = "participant_joined"
	EventGameStarted       EventType = "game_started"
	EventParticipantMoved  EventType = "participant_moved"
	EventSuggestionMade    EventType = "suggestion_made"
	EventShowCardRequest   EventType = "show_card_request" // private: responder only
	EventCardShown         EventType = "card_shown"        // private: suggester only
	EventCardShownPublic   EventType = "card_shown_public" // notice, no card identity
	EventAccusationMade    EventType = "accusation_made"
	EventTurnChanged       EventType = "turn_changed"
	EventGameOver          EventType = "game_over"
)

// Event is one outbound notification. Target nil means broadcast to every
// observer; otherwise the event is delivered only to that participant.
// Events within one action result are ordered and must be delivered in
// order.
type Event struct {
	Type   EventType  `json:"type"`
	Target *uuid.UUID `json:"-"`

	Participant *uuid.UUID       `json:"participant,omitempty"`
	Suspect     models.Card      `json:"suspect,omitempty"`
	Weapon      models.Card      `json:"weapon,omitempty"`
	Room        models.Card      `json:"room,omitempty"`
	Card        models.Card      `json:"card,omitempty"`
	Cards       []models.Card    `json:"cards,omitempty"`
	Dice        []int            `json:"dice,omitempty"`
	Cell        *board.Coord     `json:"cell,omitempty"`
	Solution    *models.Solution `json:"solution,omitempty"`

	Payload map[string]any `json:"payload,omitempty"`
}

func broadcast(t EventType) Event { return Event{Type: t} }

func private(t EventType, to uuid.UUID) Event {
	target := to
	return Event{Type: t, Target: &target}
}
