// internal/game/deal.go
package game

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/parlorgames/cluedo/internal/models"
)

// Deal builds the 21-card deck, draws the hidden solution and deals the
// remaining 18 cards one at a time in seat order, so hand sizes differ by
// at most one. Deterministic for a seeded *rand.Rand. Runs exactly once per
// session, at the waiting -> playing transition.
func Deal(r *rand.Rand, participants []*models.Participant) (models.Solution, map[uuid.UUID][]models.Card, error) {
	active := 0
	for _, p := range participants {
		if p.Active {
			active++
		}
	}
	if active < 2 {
		return models.Solution{}, nil, ErrInsufficientParticipants
	}

	deck := models.AllCards()
	r.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	// One card per category, first of each in shuffled order.
	var sol models.Solution
	rest := deck[:0]
	for _, c := range deck {
		switch {
		case sol.Suspect == "" && c.IsSuspect():
			sol.Suspect = c
		case sol.Weapon == "" && c.IsWeapon():
			sol.Weapon = c
		case sol.Room == "" && c.IsRoom():
			sol.Room = c
		default:
			rest = append(rest, c)
		}
	}

	hands := make(map[uuid.UUID][]models.Card, len(participants))
	for _, p := range participants {
		hands[p.ID] = []models.Card{}
	}
	seat := 0
	for _, c := range rest {
		p := participants[seat%len(participants)]
		hands[p.ID] = append(hands[p.ID], c)
		seat++
	}

	return sol, hands, nil
}
