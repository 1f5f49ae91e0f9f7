// internal/models/participant.go
package models

import "github.com/google/uuid"

// Participant kinds. The engine treats both identically; "automated" only
// marks seats driven by an external process instead of a human client.
const (
	KindHuman     = "human"
	KindAutomated = "automated"
)

// Participant is one seat at the table. Seat order is turn order. A
// participant is never removed mid-game; a wrong accusation clears Active
// and their seat is skipped in rotation from then on.
type Participant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Character Card      `json:"character,omitempty"` // assigned at deal time
	Active    bool      `json:"active"`
}
