// internal/game/engine_test.go
package game

import (
	"context"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parlorgames/cluedo/internal/board"
	"github.com/parlorgames/cluedo/internal/models"
	"github.com/parlorgames/cluedo/internal/store"
)

func newTestEngine(seed int64) (*Engine, *store.MemoryStore) {
	st := store.NewMemoryStore()
	return New(st, WithRand(rand.New(rand.NewSource(seed)))), st
}

// startGame seats n participants and starts the session.
func startGame(t *testing.T, e *Engine, n int) (string, []*models.Participant) {
	t.Helper()
	ctx := context.Background()

	s, err := e.CreateSession(ctx, "")
	require.NoError(t, err)

	names := []string{"alice", "bob", "carol", "dave", "erin", "frank"}
	ps := make([]*models.Participant, 0, n)
	for i := 0; i < n; i++ {
		p, _, err := e.Join(ctx, s.ID, names[i], models.KindHuman)
		require.NoError(t, err)
		ps = append(ps, p)
	}
	_, err = e.Start(ctx, s.ID)
	require.NoError(t, err)
	return s.ID, ps
}

// place drops a participant into a room and forces the turn phase, acting
// as an out-of-band writer the engine must pick up on the next load.
func place(t *testing.T, st store.SessionStore, sessionID string, pid uuid.UUID, room models.Card, phase models.Phase) {
	t.Helper()
	ctx := context.Background()
	s, err := st.LoadSession(ctx, sessionID)
	require.NoError(t, err)
	s.Positions[pid] = models.Position{Room: room}
	s.Phase = phase
	require.NoError(t, st.SaveSession(ctx, s))
}

func setHands(t *testing.T, st store.SessionStore, sessionID string, hands map[uuid.UUID][]models.Card) {
	t.Helper()
	require.NoError(t, st.SaveHands(context.Background(), sessionID, hands))
}

func loadSession(t *testing.T, st store.SessionStore, id string) *models.Session {
	t.Helper()
	s, err := st.LoadSession(context.Background(), id)
	require.NoError(t, err)
	return s
}

func findEvent(events []Event, typ EventType) (Event, bool) {
	for _, ev := range events {
		if ev.Type == typ {
			return ev, true
		}
	}
	return Event{}, false
}

func TestJoinLifecycle(t *testing.T) {
	e, _ := newTestEngine(1)
	ctx := context.Background()

	s, err := e.CreateSession(ctx, "")
	require.NoError(t, err)
	require.Len(t, s.ID, 6)

	for i := 0; i < MaxParticipants; i++ {
		_, res, err := e.Join(ctx, s.ID, "p", models.KindHuman)
		require.NoError(t, err)
		ev, ok := findEvent(res.Events, EventParticipantJoined)
		require.True(t, ok)
		assert.Nil(t, ev.Target)
	}
	_, _, err = e.Join(ctx, s.ID, "late", models.KindHuman)
	assert.ErrorIs(t, err, ErrSessionFull)

	_, err = e.Start(ctx, s.ID)
	require.NoError(t, err)
	_, _, err = e.Join(ctx, s.ID, "later", models.KindHuman)
	assert.ErrorIs(t, err, ErrAlreadyStarted)

	_, err = e.Start(ctx, s.ID)
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestJoinUnknownSession(t *testing.T) {
	e, _ := newTestEngine(1)
	_, _, err := e.Join(context.Background(), "NOSUCH", "x", models.KindHuman)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStartDealsAndSeats(t *testing.T) {
	e, st := newTestEngine(2)
	ctx := context.Background()
	id, ps := startGame(t, e, 3)

	s := loadSession(t, st, id)
	assert.Equal(t, models.StatusPlaying, s.Status)
	assert.Equal(t, 1, s.TurnNumber)
	assert.Equal(t, models.PhaseAwaitingMove, s.Phase)

	total := 0
	for i, p := range ps {
		sp := s.ParticipantByID(p.ID)
		require.NotNil(t, sp)
		assert.Equal(t, models.Suspects[i], sp.Character)

		pos := s.Positions[p.ID]
		assert.False(t, pos.InRoom())
		require.NotNil(t, pos.Cell)

		hand, err := st.LoadHand(ctx, id, p.ID)
		require.NoError(t, err)
		total += len(hand)
	}
	assert.Equal(t, 18, total)

	sol, err := st.LoadSolution(ctx, id)
	require.NoError(t, err)
	assert.True(t, sol.Suspect.IsSuspect())
}

func TestStartRequiresTwo(t *testing.T) {
	e, _ := newTestEngine(3)
	ctx := context.Background()
	s, err := e.CreateSession(ctx, "")
	require.NoError(t, err)
	_, _, err = e.Join(ctx, s.ID, "solo", models.KindHuman)
	require.NoError(t, err)

	_, err = e.Start(ctx, s.ID)
	assert.ErrorIs(t, err, ErrInsufficientParticipants)
}

func TestOnlyCurrentParticipantMayAct(t *testing.T) {
	e, _ := newTestEngine(4)
	id, ps := startGame(t, e, 3)

	_, err := e.ProcessAction(context.Background(), id, ps[1].ID, models.Action{
		Type: models.ActionMove, Toward: "Kitchen",
	})
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestMoveTowardThenEndTurn(t *testing.T) {
	e, st := newTestEngine(5)
	ctx := context.Background()
	id, ps := startGame(t, e, 3)

	res, err := e.ProcessAction(ctx, id, ps[0].ID, models.Action{
		Type: models.ActionMove, Toward: "Kitchen",
	})
	require.NoError(t, err)

	ev, ok := findEvent(res.Events, EventParticipantMoved)
	require.True(t, ok)
	require.Len(t, ev.Dice, 2)
	for _, d := range ev.Dice {
		assert.GreaterOrEqual(t, d, 1)
		assert.LessOrEqual(t, d, 6)
	}

	s := loadSession(t, st, id)
	assert.Equal(t, models.PhaseAfterMove, s.Phase)
	assert.Len(t, s.LastRoll, 2)

	// Movement is once per turn.
	_, err = e.ProcessAction(ctx, id, ps[0].ID, models.Action{
		Type: models.ActionMove, Toward: "Kitchen",
	})
	assert.ErrorIs(t, err, ErrWrongPhase)

	res, err = e.ProcessAction(ctx, id, ps[0].ID, models.Action{Type: models.ActionEndTurn})
	require.NoError(t, err)
	ev, ok = findEvent(res.Events, EventTurnChanged)
	require.True(t, ok)
	require.NotNil(t, ev.Participant)
	assert.Equal(t, ps[1].ID, *ev.Participant)

	s = loadSession(t, st, id)
	assert.Equal(t, 2, s.TurnNumber)
	assert.Equal(t, models.PhaseAwaitingMove, s.Phase)
	assert.Nil(t, s.LastRoll)
}

// A roll too small to reach the named room must leave the mover on a
// square they can continue from, never stranded. Walks a participant to a
// distant room over several turns, whatever the dice come up.
func TestMoveTowardAcrossTurns(t *testing.T) {
	e, st := newTestEngine(11)
	ctx := context.Background()
	id, ps := startGame(t, e, 2)
	b := board.Standard()

	const target = "Conservatory"
	arrived := false
	for turn := 0; turn < 15 && !arrived; turn++ {
		_, err := e.ProcessAction(ctx, id, ps[0].ID, models.Action{
			Type: models.ActionMove, Toward: target,
		})
		require.NoError(t, err)

		s := loadSession(t, st, id)
		pos := s.Positions[ps[0].ID]
		if pos.InRoom() {
			assert.Equal(t, models.Card(target), pos.Room)
			arrived = true
		} else {
			require.NotNil(t, pos.Cell)
			sq, ok := b.Square(*pos.Cell)
			require.True(t, ok, "turn %d left the mover off the grid at %+v", turn, *pos.Cell)
			require.NotEqual(t, board.RoomNode, sq.Kind)
		}

		_, err = e.ProcessAction(ctx, id, ps[0].ID, models.Action{Type: models.ActionEndTurn})
		require.NoError(t, err)

		// The other seat takes a throwaway turn.
		_, err = e.ProcessAction(ctx, id, ps[1].ID, models.Action{
			Type: models.ActionMove, Toward: "Kitchen",
		})
		require.NoError(t, err)
		_, err = e.ProcessAction(ctx, id, ps[1].ID, models.Action{Type: models.ActionEndTurn})
		require.NoError(t, err)
	}
	assert.True(t, arrived, "never reached the %s", target)
}

func TestMoveValidation(t *testing.T) {
	e, _ := newTestEngine(6)
	ctx := context.Background()
	id, ps := startGame(t, e, 2)

	_, err := e.ProcessAction(ctx, id, ps[0].ID, models.Action{Type: models.ActionMove})
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = e.ProcessAction(ctx, id, ps[0].ID, models.Action{
		Type: models.ActionMove, Room: "Kitchen", Toward: "Hall",
	})
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = e.ProcessAction(ctx, id, ps[0].ID, models.Action{
		Type: models.ActionMove, Room: "Knife",
	})
	assert.ErrorIs(t, err, ErrIllegalMove)
}

func TestSecretPassageIgnoresDice(t *testing.T) {
	e, st := newTestEngine(7)
	ctx := context.Background()
	id, ps := startGame(t, e, 2)

	place(t, st, id, ps[0].ID, "Study", models.PhaseAwaitingMove)

	res, err := e.ProcessAction(ctx, id, ps[0].ID, models.Action{
		Type: models.ActionMove, Room: "Kitchen",
	})
	require.NoError(t, err)

	ev, ok := findEvent(res.Events, EventParticipantMoved)
	require.True(t, ok)
	assert.Equal(t, models.Card("Kitchen"), ev.Room)
	require.NotNil(t, ev.Payload)
	assert.Equal(t, true, ev.Payload["viaPassage"])

	s := loadSession(t, st, id)
	assert.Equal(t, models.Card("Kitchen"), s.Positions[ps[0].ID].Room)
}

func TestSuggestionFlow(t *testing.T) {
	e, st := newTestEngine(8)
	ctx := context.Background()
	id, ps := startGame(t, e, 3)
	a, b, c := ps[0], ps[1], ps[2]

	place(t, st, id, a.ID, "Lounge", models.PhaseAfterMove)
	setHands(t, st, id, map[uuid.UUID][]models.Card{
		a.ID: {"Rope", "Hall"},
		b.ID: {"Ballroom", "Colonel Mustard"},
		c.ID: {"Knife", "Study"},
	})

	res, err := e.ProcessAction(ctx, id, a.ID, models.Action{
		Type: models.ActionSuggest, Suspect: "Miss Scarlett", Weapon: "Knife",
	})
	require.NoError(t, err)

	// B holds nothing relevant and is skipped; C owes a card.
	req, ok := findEvent(res.Events, EventShowCardRequest)
	require.True(t, ok)
	require.NotNil(t, req.Target)
	assert.Equal(t, c.ID, *req.Target)
	assert.Equal(t, []models.Card{"Knife"}, req.Cards)

	made, ok := findEvent(res.Events, EventSuggestionMade)
	require.True(t, ok)
	assert.Nil(t, made.Target)
	assert.Equal(t, models.Card("Lounge"), made.Room)

	s := loadSession(t, st, id)
	assert.Equal(t, models.PhaseSuggestionPending, s.Phase)
	require.NotNil(t, s.Pending)
	assert.Equal(t, c.ID, s.Pending.Responder)

	// The suggester cannot end the turn while disproof is outstanding.
	_, err = e.ProcessAction(ctx, id, a.ID, models.Action{Type: models.ActionEndTurn})
	assert.ErrorIs(t, err, ErrWrongPhase)

	// Only the queried responder may answer.
	_, err = e.ProcessAction(ctx, id, b.ID, models.Action{
		Type: models.ActionShowCard, Card: "Ballroom",
	})
	assert.ErrorIs(t, err, ErrNotYourTurn)

	// And only with a card from the matching set.
	_, err = e.ProcessAction(ctx, id, c.ID, models.Action{
		Type: models.ActionShowCard, Card: "Study",
	})
	assert.ErrorIs(t, err, ErrNotYourCard)

	res, err = e.ProcessAction(ctx, id, c.ID, models.Action{
		Type: models.ActionShowCard, Card: "Knife",
	})
	require.NoError(t, err)

	shown, ok := findEvent(res.Events, EventCardShown)
	require.True(t, ok)
	require.NotNil(t, shown.Target)
	assert.Equal(t, a.ID, *shown.Target)
	assert.Equal(t, models.Card("Knife"), shown.Card)

	pub, ok := findEvent(res.Events, EventCardShownPublic)
	require.True(t, ok)
	assert.Nil(t, pub.Target)
	assert.Empty(t, pub.Card)

	s = loadSession(t, st, id)
	assert.Equal(t, models.PhaseAfterMove, s.Phase)
	assert.Nil(t, s.Pending)
	require.Len(t, s.Suggestions, 1)
	rec := s.Suggestions[0]
	require.NotNil(t, rec.ShownBy)
	assert.Equal(t, c.ID, *rec.ShownBy)
	assert.Equal(t, models.Card("Knife"), rec.ShownCard)

	// The disproved suggester keeps the turn.
	_, err = e.ProcessAction(ctx, id, a.ID, models.Action{Type: models.ActionEndTurn})
	require.NoError(t, err)
}

func TestSuggestionMovesNamedSuspect(t *testing.T) {
	e, st := newTestEngine(9)
	ctx := context.Background()
	id, ps := startGame(t, e, 3)
	a := ps[0]

	s := loadSession(t, st, id)
	// Seat order fixes characters, so seat 1 is Colonel Mustard.
	mustard := s.ParticipantByCharacter("Colonel Mustard")
	require.NotNil(t, mustard)
	assert.Equal(t, ps[1].ID, mustard.ID)

	place(t, st, id, a.ID, "Library", models.PhaseAfterMove)
	setHands(t, st, id, map[uuid.UUID][]models.Card{
		a.ID: {}, ps[1].ID: {}, ps[2].ID: {},
	})

	_, err := e.ProcessAction(ctx, id, a.ID, models.Action{
		Type: models.ActionSuggest, Suspect: "Colonel Mustard", Weapon: "Rope",
	})
	require.NoError(t, err)

	s = loadSession(t, st, id)
	assert.Equal(t, models.Card("Library"), s.Positions[ps[1].ID].Room)
}

func TestSuggestionUnanswered(t *testing.T) {
	e, st := newTestEngine(10)
	ctx := context.Background()
	id, ps := startGame(t, e, 3)
	a := ps[0]

	place(t, st, id, a.ID, "Hall", models.PhaseAfterMove)
	setHands(t, st, id, map[uuid.UUID][]models.Card{
		a.ID: {"Knife"}, ps[1].ID: {"Study"}, ps[2].ID: {"Rope"},
	})

	res, err := e.ProcessAction(ctx, id, a.ID, models.Action{
		Type: models.ActionSuggest, Suspect: "Mrs. Peacock", Weapon: "Candlestick",
	})
	require.NoError(t, err)

	made, ok := findEvent(res.Events, EventSuggestionMade)
	require.True(t, ok)
	assert.Equal(t, true, made.Payload["unanswered"])
	_, pending := findEvent(res.Events, EventShowCardRequest)
	assert.False(t, pending)

	s := loadSession(t, st, id)
	assert.Equal(t, models.PhaseAfterMove, s.Phase)
	assert.Nil(t, s.Pending)
	require.Len(t, s.Suggestions, 1)
	assert.True(t, s.Suggestions[0].Unanswered)
}

func TestSuggestRequiresRoom(t *testing.T) {
	e, st := newTestEngine(11)
	ctx := context.Background()
	id, ps := startGame(t, e, 2)

	// In a corridor after moving: no suggestion possible.
	s := loadSession(t, st, id)
	s.Phase = models.PhaseAfterMove
	require.NoError(t, st.SaveSession(ctx, s))

	_, err := e.ProcessAction(ctx, id, ps[0].ID, models.Action{
		Type: models.ActionSuggest, Suspect: "Miss Scarlett", Weapon: "Knife",
	})
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestCorrectAccusationWins(t *testing.T) {
	e, st := newTestEngine(12)
	ctx := context.Background()
	id, ps := startGame(t, e, 3)
	a := ps[0]

	sol, err := st.LoadSolution(ctx, id)
	require.NoError(t, err)

	place(t, st, id, a.ID, "Hall", models.PhaseAfterMove)
	res, err := e.ProcessAction(ctx, id, a.ID, models.Action{
		Type: models.ActionAccuse, Suspect: sol.Suspect, Weapon: sol.Weapon, Room: sol.Room,
	})
	require.NoError(t, err)

	over, ok := findEvent(res.Events, EventGameOver)
	require.True(t, ok)
	require.NotNil(t, over.Participant)
	assert.Equal(t, a.ID, *over.Participant)
	require.NotNil(t, over.Solution)
	assert.Equal(t, sol, *over.Solution)

	s := loadSession(t, st, id)
	assert.Equal(t, models.StatusFinished, s.Status)
	require.NotNil(t, s.Winner)
	assert.Equal(t, a.ID, *s.Winner)
	require.NotNil(t, s.Revealed)

	_, err = e.ProcessAction(ctx, id, a.ID, models.Action{Type: models.ActionEndTurn})
	assert.ErrorIs(t, err, ErrGameAlreadyFinished)
}

func wrongTriple(sol models.Solution) (models.Card, models.Card, models.Card) {
	suspect := models.Suspects[0]
	if suspect == sol.Suspect {
		suspect = models.Suspects[1]
	}
	return suspect, sol.Weapon, sol.Room
}

func TestWrongAccusationEliminates(t *testing.T) {
	e, st := newTestEngine(13)
	ctx := context.Background()
	id, ps := startGame(t, e, 3)
	a, b, c := ps[0], ps[1], ps[2]

	sol, err := st.LoadSolution(ctx, id)
	require.NoError(t, err)
	suspect, weapon, room := wrongTriple(sol)

	place(t, st, id, a.ID, "Hall", models.PhaseAfterMove)
	res, err := e.ProcessAction(ctx, id, a.ID, models.Action{
		Type: models.ActionAccuse, Suspect: suspect, Weapon: weapon, Room: room,
	})
	require.NoError(t, err)

	acc, ok := findEvent(res.Events, EventAccusationMade)
	require.True(t, ok)
	assert.Equal(t, false, acc.Payload["correct"])
	chg, ok := findEvent(res.Events, EventTurnChanged)
	require.True(t, ok)
	assert.Equal(t, b.ID, *chg.Participant)

	s := loadSession(t, st, id)
	assert.Equal(t, models.StatusPlaying, s.Status)
	assert.False(t, s.ParticipantByID(a.ID).Active)
	assert.Equal(t, 2, s.ActiveCount())

	// Eliminated seats never act again.
	s.Phase = models.PhaseAfterMove
	s.TurnIndex = 0
	require.NoError(t, st.SaveSession(ctx, s))
	_, err = e.ProcessAction(ctx, id, a.ID, models.Action{Type: models.ActionEndTurn})
	assert.ErrorIs(t, err, ErrNotYourTurn)

	// Rotation skips the eliminated seat: c's end_turn wraps to b.
	place(t, st, id, c.ID, "Hall", models.PhaseAfterMove)
	s = loadSession(t, st, id)
	s.TurnIndex = 2
	require.NoError(t, st.SaveSession(ctx, s))
	res, err = e.ProcessAction(ctx, id, c.ID, models.Action{Type: models.ActionEndTurn})
	require.NoError(t, err)
	chg, ok = findEvent(res.Events, EventTurnChanged)
	require.True(t, ok)
	assert.Equal(t, b.ID, *chg.Participant)
}

func TestLastStandingWinsWithoutAccusing(t *testing.T) {
	e, st := newTestEngine(14)
	ctx := context.Background()
	id, ps := startGame(t, e, 2)
	a, b := ps[0], ps[1]

	sol, err := st.LoadSolution(ctx, id)
	require.NoError(t, err)
	suspect, weapon, room := wrongTriple(sol)

	place(t, st, id, a.ID, "Hall", models.PhaseAfterMove)
	res, err := e.ProcessAction(ctx, id, a.ID, models.Action{
		Type: models.ActionAccuse, Suspect: suspect, Weapon: weapon, Room: room,
	})
	require.NoError(t, err)

	over, ok := findEvent(res.Events, EventGameOver)
	require.True(t, ok)
	require.NotNil(t, over.Participant)
	assert.Equal(t, b.ID, *over.Participant)

	s := loadSession(t, st, id)
	assert.Equal(t, models.StatusFinished, s.Status)
	require.NotNil(t, s.Winner)
	assert.Equal(t, b.ID, *s.Winner)
	require.NotNil(t, s.Revealed)
	assert.Equal(t, sol, *s.Revealed)
}

func TestAccuseOnlyAfterMove(t *testing.T) {
	e, _ := newTestEngine(15)
	id, ps := startGame(t, e, 2)

	_, err := e.ProcessAction(context.Background(), id, ps[0].ID, models.Action{
		Type: models.ActionAccuse, Suspect: "Miss Scarlett", Weapon: "Knife", Room: "Hall",
	})
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestOnFinishCallback(t *testing.T) {
	e, st := newTestEngine(16)
	ctx := context.Background()
	id, ps := startGame(t, e, 2)

	var gotID string
	var gotSol models.Solution
	e.OnFinish = func(s *models.Session, sol models.Solution) {
		gotID = s.ID
		gotSol = sol
	}

	sol, err := st.LoadSolution(ctx, id)
	require.NoError(t, err)
	place(t, st, id, ps[0].ID, "Hall", models.PhaseAfterMove)
	_, err = e.ProcessAction(ctx, id, ps[0].ID, models.Action{
		Type: models.ActionAccuse, Suspect: sol.Suspect, Weapon: sol.Weapon, Room: sol.Room,
	})
	require.NoError(t, err)

	assert.Equal(t, id, gotID)
	assert.Equal(t, sol, gotSol)
}

func TestActionsRejectedBeforeStart(t *testing.T) {
	e, _ := newTestEngine(17)
	ctx := context.Background()
	s, err := e.CreateSession(ctx, "")
	require.NoError(t, err)
	p, _, err := e.Join(ctx, s.ID, "early", models.KindHuman)
	require.NoError(t, err)

	_, err = e.ProcessAction(ctx, s.ID, p.ID, models.Action{Type: models.ActionEndTurn})
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestUnknownParticipantRejected(t *testing.T) {
	e, _ := newTestEngine(18)
	id, _ := startGame(t, e, 2)

	_, err := e.ProcessAction(context.Background(), id, uuid.New(), models.Action{
		Type: models.ActionEndTurn,
	})
	assert.ErrorIs(t, err, ErrNoSuchParticipant)
}

func TestPlayerSnapshotIncludesHandAndActions(t *testing.T) {
	e, st := newTestEngine(19)
	ctx := context.Background()
	id, ps := startGame(t, e, 2)

	pub, priv, err := e.PlayerSnapshot(ctx, id, ps[0].ID)
	require.NoError(t, err)
	require.NotNil(t, pub)
	require.NotNil(t, priv)

	hand, err := st.LoadHand(ctx, id, ps[0].ID)
	require.NoError(t, err)
	assert.Equal(t, hand, priv.YourCards)
	assert.Contains(t, priv.AvailableActions, "move")

	assert.Nil(t, pub.Solution)
}

func TestLogRecordsActions(t *testing.T) {
	e, _ := newTestEngine(20)
	ctx := context.Background()
	id, ps := startGame(t, e, 2)

	_, err := e.ProcessAction(ctx, id, ps[0].ID, models.Action{
		Type: models.ActionMove, Toward: "Kitchen",
	})
	require.NoError(t, err)
	_, err = e.ProcessAction(ctx, id, ps[0].ID, models.Action{Type: models.ActionEndTurn})
	require.NoError(t, err)

	entries, err := e.Log(ctx, id)
	require.NoError(t, err)

	types := make([]string, 0, len(entries))
	for _, en := range entries {
		types = append(types, en.Type)
	}
	assert.Equal(t, []string{"participant_joined", "participant_joined", "game_started", "move", "end_turn"}, types)
}

func TestChatRoundTrip(t *testing.T) {
	e, _ := newTestEngine(21)
	ctx := context.Background()
	id, ps := startGame(t, e, 2)

	pid := ps[0].ID
	require.NoError(t, e.AppendChat(ctx, id, models.ChatMessage{Participant: &pid, Text: "hello"}))

	msgs, err := e.Chat(ctx, id)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Text)

	err = e.AppendChat(ctx, "NOSUCH", models.ChatMessage{Text: "void"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
