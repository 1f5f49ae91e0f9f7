// internal/models/card.go
package models

// Card is one of the 21 values in the deck. Suspects, weapons and rooms
// share one flat namespace: a room name is both a movement destination and
// a card value.
type Card string

var Suspects = []Card{
	"Miss Scarlett",
	"Colonel Mustard",
	"Mrs. White",
	"Reverend Green",
	"Mrs. Peacock",
	"Professor Plum",
}

var Weapons = []Card{
	"Candlestick",
	"Knife",
	"Lead Pipe",
	"Revolver",
	"Rope",
	"Wrench",
}

var Rooms = []Card{
	"Kitchen",
	"Ballroom",
	"Conservatory",
	"Billiard Room",
	"Library",
	"Study",
	"Hall",
	"Lounge",
	"Dining Room",
}

// AllCards returns the full 21-card deck in category order.
func AllCards() []Card {
	out := make([]Card, 0, len(Suspects)+len(Weapons)+len(Rooms))
	out = append(out, Suspects...)
	out = append(out, Weapons...)
	out = append(out, Rooms...)
	return out
}

func contains(set []Card, c Card) bool {
	for _, v := range set {
		if v == c {
			return true
		}
	}
	return false
}

func (c Card) IsSuspect() bool { return contains(Suspects, c) }
func (c Card) IsWeapon() bool  { return contains(Weapons, c) }
func (c Card) IsRoom() bool    { return contains(Rooms, c) }

// Solution is the hidden murder triple, drawn once per session and revealed
// only when the session finishes.
type Solution struct {
	Suspect Card `json:"suspect"`
	Weapon  Card `json:"weapon"`
	Room    Card `json:"room"`
}

// Matches reports whether an accusation triple is exactly right.
func (s Solution) Matches(suspect, weapon, room Card) bool {
	return s.Suspect == suspect && s.Weapon == weapon && s.Room == room
}
