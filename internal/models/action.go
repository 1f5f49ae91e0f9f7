// internal/models/action.go
package models

// Action type tags accepted by the engine's processing entry point.
const (
	ActionMove     = "move"
	ActionSuggest  = "suggest"
	ActionAccuse   = "accuse"
	ActionShowCard = "show_card"
	ActionEndTurn  = "end_turn"
)

// Action is one submitted participant action. Which fields are read depends
// on Type:
//
//	move:      Room (enter a reachable room or take a secret passage) or
//	           Toward (walk the rolled steps along the shortest path to a
//	           room's nearest door); exactly one must be set
//	suggest:   Suspect, Weapon (the room is the suggester's current room)
//	accuse:    Suspect, Weapon, Room
//	show_card: Card
//	end_turn:  no fields
type Action struct {
	Type    string `json:"type"`
	Room    Card   `json:"room,omitempty"`
	Toward  Card   `json:"toward,omitempty"`
	Suspect Card   `json:"suspect,omitempty"`
	Weapon  Card   `json:"weapon,omitempty"`
	Card    Card   `json:"card,omitempty"`
}
