// internal/game/resolver.go
package game

import (
	"github.com/google/uuid"

	"github.com/parlorgames/cluedo/internal/models"
)

// SuggestionOutcome is the resolver's verdict: the first participant in
// rotation order obligated to disprove the suggestion, together with the
// matching cards they may choose from, or nothing if the suggestion went
// unanswered.
type SuggestionOutcome struct {
	Responder *uuid.UUID
	Matching  []models.Card
}

// ResolveSuggestion queries seats in order starting immediately after the
// suggester and wrapping, excluding the suggester. Eliminated participants
// are still queried: their hands still matter for disproof. The first seat
// holding any of {suspect, weapon, room} is selected; rotation stops there.
// Pure over its inputs, so the outcome is deterministic for a fixed deal.
func ResolveSuggestion(participants []*models.Participant, suggester uuid.UUID, hands map[uuid.UUID][]models.Card, suspect, weapon, room models.Card) SuggestionOutcome {
	start := -1
	for i, p := range participants {
		if p.ID == suggester {
			start = i
			break
		}
	}
	if start < 0 {
		return SuggestionOutcome{}
	}

	n := len(participants)
	for i := 1; i < n; i++ {
		p := participants[(start+i)%n]
		matching := matchingCards(hands[p.ID], suspect, weapon, room)
		if len(matching) > 0 {
			id := p.ID
			return SuggestionOutcome{Responder: &id, Matching: matching}
		}
	}
	return SuggestionOutcome{}
}

// matchingCards filters a hand down to the suggested triple, preserving
// hand order.
func matchingCards(hand []models.Card, suspect, weapon, room models.Card) []models.Card {
	var out []models.Card
	for _, c := range hand {
		if c == suspect || c == weapon || c == room {
			out = append(out, c)
		}
	}
	return out
}
