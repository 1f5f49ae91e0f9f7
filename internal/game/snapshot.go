// internal/game/snapshot.go
package game

import (
	"github.com/google/uuid"

	"github.com/parlorgames/cluedo/internal/models"
)

// PublicState is the serializable projection of a session visible to every
// observer: no hands, no solution (until finished), no passcode hash, and
// suggestion records stripped of shown-card identities.
type PublicState struct {
	ID           string                        `json:"id"`
	Status       models.Status                 `json:"status"`
	Participants []*models.Participant         `json:"participants"`
	WhoseTurn    *uuid.UUID                    `json:"whoseTurn,omitempty"`
	TurnNumber   int                           `json:"turnNumber"`
	Phase        models.Phase                  `json:"phase,omitempty"`
	Positions    map[uuid.UUID]models.Position `json:"positions,omitempty"`
	LastRoll     []int                         `json:"lastRoll,omitempty"`
	Suggestions  []models.SuggestionRecord     `json:"suggestionsThisTurn,omitempty"`
	PendingShow  *PublicPending                `json:"pendingShow,omitempty"`
	Winner       *uuid.UUID                    `json:"winner,omitempty"`
	Solution     *models.Solution              `json:"solution,omitempty"` // only once finished
}

// PublicPending announces who must show a card; the matching subset stays
// private to the responder.
type PublicPending struct {
	Responder uuid.UUID   `json:"responder"`
	Suggester uuid.UUID   `json:"suggester"`
	Suspect   models.Card `json:"suspect"`
	Weapon    models.Card `json:"weapon"`
	Room      models.Card `json:"room"`
}

// PrivateState is one participant's view on top of the public snapshot.
type PrivateState struct {
	ParticipantID    uuid.UUID     `json:"participantId"`
	YourCards        []models.Card `json:"yourCards,omitempty"`
	AvailableActions []string      `json:"availableActions"`
	MatchingCards    []models.Card `json:"matchingCards,omitempty"` // responder during suggestion_pending
	ShownCard        models.Card   `json:"shownCard,omitempty"`     // suggester after a card was shown
	ShownBy          *uuid.UUID    `json:"shownBy,omitempty"`
}

// Result is what one engine call hands to the transport layer: the updated
// public snapshot, per-participant private deltas, and the ordered events
// to deliver.
type Result struct {
	State   *PublicState
	Private map[uuid.UUID]*PrivateState
	Events  []Event
}

// Project builds the public snapshot for a session.
func Project(s *models.Session) *PublicState {
	out := &PublicState{
		ID:         s.ID,
		Status:     s.Status,
		TurnNumber: s.TurnNumber,
		Phase:      s.Phase,
		LastRoll:   append([]int(nil), s.LastRoll...),
		Winner:     s.Winner,
	}
	for _, p := range s.Participants {
		cp := *p
		out.Participants = append(out.Participants, &cp)
	}
	if s.Status == models.StatusPlaying {
		if cur := s.Current(); cur != nil {
			id := cur.ID
			out.WhoseTurn = &id
		}
	}
	if len(s.Positions) > 0 {
		out.Positions = make(map[uuid.UUID]models.Position, len(s.Positions))
		for pid, pos := range s.Positions {
			out.Positions[pid] = pos
		}
	}
	for _, rec := range s.Suggestions {
		rec.ShownCard = "" // private knowledge
		out.Suggestions = append(out.Suggestions, rec)
	}
	if s.Pending != nil {
		out.PendingShow = &PublicPending{
			Responder: s.Pending.Responder,
			Suggester: s.Pending.Suggester,
			Suspect:   s.Pending.Suspect,
			Weapon:    s.Pending.Weapon,
			Room:      s.Pending.Room,
		}
	}
	if s.Status == models.StatusFinished {
		out.Solution = s.Revealed
	}
	return out
}

// projectPrivate builds the baseline private view for one participant.
func projectPrivate(s *models.Session, pid uuid.UUID, hand []models.Card) *PrivateState {
	ps := &PrivateState{
		ParticipantID:    pid,
		YourCards:        hand,
		AvailableActions: AvailableActions(s, pid),
	}
	if s.Pending != nil && s.Pending.Responder == pid {
		ps.MatchingCards = append([]models.Card(nil), s.Pending.Matching...)
	}
	return ps
}
