// internal/game/legal.go
package game

import (
	"github.com/google/uuid"

	"github.com/parlorgames/cluedo/internal/models"
)

// AvailableActions computes the legal-action set for one participant as a
// pure function of session state. "chat" is always available to a seated
// participant; everything else follows the phase table:
//
//	awaiting_move       -> move (current participant only)
//	after_move          -> suggest (if in a room), accuse, end_turn
//	suggestion_pending  -> show_card (queried responder only)
func AvailableActions(s *models.Session, pid uuid.UUID) []string {
	p := s.ParticipantByID(pid)
	if p == nil {
		return nil
	}

	actions := []string{"chat"}
	if s.Status != models.StatusPlaying {
		return actions
	}

	// Eliminated seats keep disproving suggestions, so the pending check
	// runs before the active check.
	if s.Phase == models.PhaseSuggestionPending {
		if s.Pending != nil && s.Pending.Responder == pid {
			actions = append(actions, models.ActionShowCard)
		}
		return actions
	}
	if !p.Active {
		return actions
	}

	if s.Current() == nil || s.Current().ID != pid {
		return actions
	}

	switch s.Phase {
	case models.PhaseAwaitingMove:
		actions = append(actions, models.ActionMove)
	case models.PhaseAfterMove:
		if s.Positions[pid].InRoom() {
			actions = append(actions, models.ActionSuggest)
		}
		actions = append(actions, models.ActionAccuse, models.ActionEndTurn)
	}
	return actions
}
