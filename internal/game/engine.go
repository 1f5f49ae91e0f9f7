// internal/game/engine.go
package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/parlorgames/cluedo/internal/board"
	"github.com/parlorgames/cluedo/internal/models"
	"github.com/parlorgames/cluedo/internal/store"
)

// MaxParticipants is the number of playable characters.
const MaxParticipants = 6

// saveRetries bounds transparent re-runs of an action after a concurrent
// write to the same session.
const saveRetries = 3

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// OnFinishFunc is invoked once when a session reaches finished, after the
// final state has been persisted. Used to archive results durably.
type OnFinishFunc func(s *models.Session, sol models.Solution)

// PublishFunc receives every applied log entry, e.g. to feed the historian
// queue. Failures there must never affect the action.
type PublishFunc func(sessionID string, e models.LogEntry)

// Engine owns all session mutations. Each session is logically
// single-threaded: load -> validate -> mutate -> persist runs inside a
// per-session critical section, and a version check on save catches writers
// from other processes. Different sessions proceed in parallel. The board
// is immutable and shared by every session.
type Engine struct {
	store store.SessionStore
	board *board.Board

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	rngMu sync.Mutex
	rng   *rand.Rand

	now func() time.Time

	// OnFinish and Publish are optional wiring points; nil disables them.
	OnFinish OnFinishFunc
	Publish  PublishFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand injects a random source, e.g. a seeded one for reproducible
// deals and dice in tests.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithClock injects the timestamp source for log records.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New builds an engine over a session store.
func New(st store.SessionStore, opts ...Option) *Engine {
	e := &Engine{
		store: st,
		board: board.Standard(),
		locks: make(map[string]*sync.Mutex),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// lockSession returns the mutex serializing all actions for one session id.
func (e *Engine) lockSession(id string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	mu, ok := e.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		e.locks[id] = mu
	}
	return mu
}

func (e *Engine) rollDice() (int, int) {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Intn(6) + 1, e.rng.Intn(6) + 1
}

func (e *Engine) newSessionID() string {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	b := make([]byte, 6)
	for i := range b {
		b[i] = idAlphabet[e.rng.Intn(len(idAlphabet))]
	}
	return string(b)
}

// CreateSession registers a new empty session in the waiting state.
// passcodeHash, when non-empty, gates joins; hashing is the caller's
// concern.
func (e *Engine) CreateSession(ctx context.Context, passcodeHash string) (*models.Session, error) {
	for attempt := 0; attempt < saveRetries; attempt++ {
		s := &models.Session{
			ID:           e.newSessionID(),
			Status:       models.StatusWaiting,
			Positions:    make(map[uuid.UUID]models.Position),
			PasscodeHash: passcodeHash,
			CreatedAt:    e.now(),
		}
		if err := e.store.CreateSession(ctx, s); err != nil {
			continue // id collision or transient failure; mint a fresh id
		}
		return s, nil
	}
	return nil, fmt.Errorf("could not allocate a session id after %d attempts", saveRetries)
}

// Join seats a new participant. Only legal while the session is waiting.
func (e *Engine) Join(ctx context.Context, sessionID, name, kind string) (*models.Participant, *Result, error) {
	mu := e.lockSession(sessionID)
	mu.Lock()
	defer mu.Unlock()

	s, err := e.loadSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	switch s.Status {
	case models.StatusWaiting:
	case models.StatusFinished:
		return nil, nil, ErrGameAlreadyFinished
	default:
		return nil, nil, ErrAlreadyStarted
	}
	if len(s.Participants) >= MaxParticipants {
		return nil, nil, ErrSessionFull
	}
	if kind != models.KindAutomated {
		kind = models.KindHuman
	}

	p := &models.Participant{
		ID:     uuid.New(),
		Name:   name,
		Kind:   kind,
		Active: true,
	}
	s.Participants = append(s.Participants, p)

	ev := broadcast(EventParticipantJoined)
	id := p.ID
	ev.Participant = &id
	ev.Payload = map[string]any{"name": p.Name, "kind": p.Kind}

	res, err := e.persist(ctx, s, models.LogEntry{
		Type:  "participant_joined",
		Actor: p.ID,
	}, []Event{ev}, p.ID)
	if err != nil {
		return nil, nil, err
	}
	return p, res, nil
}

// Start deals and transitions waiting -> playing. Characters and start
// squares are assigned in seat order at this point, never earlier.
func (e *Engine) Start(ctx context.Context, sessionID string) (*Result, error) {
	mu := e.lockSession(sessionID)
	mu.Lock()
	defer mu.Unlock()

	s, err := e.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	switch s.Status {
	case models.StatusWaiting:
	case models.StatusFinished:
		return nil, ErrGameAlreadyFinished
	default:
		return nil, ErrAlreadyStarted
	}
	if len(s.Participants) < 2 {
		return nil, ErrInsufficientParticipants
	}

	if s.Positions == nil {
		s.Positions = make(map[uuid.UUID]models.Position, len(s.Participants))
	}
	for i, p := range s.Participants {
		p.Character = models.Suspects[i]
		start, ok := e.board.StartFor(string(p.Character))
		if !ok {
			return nil, fmt.Errorf("no start square for character %q", p.Character)
		}
		c := start
		s.Positions[p.ID] = models.Position{Cell: &c}
	}

	e.rngMu.Lock()
	sol, hands, err := Deal(e.rng, s.Participants)
	e.rngMu.Unlock()
	if err != nil {
		return nil, err
	}

	if err := e.store.SaveSolution(ctx, s.ID, sol); err != nil {
		return nil, fmt.Errorf("persist solution: %w", err)
	}
	if err := e.store.SaveHands(ctx, s.ID, hands); err != nil {
		return nil, fmt.Errorf("persist hands: %w", err)
	}

	s.Status = models.StatusPlaying
	s.TurnIndex = 0
	s.TurnNumber = 1
	s.Phase = models.PhaseAwaitingMove

	events := []Event{broadcast(EventGameStarted)}
	for _, p := range s.Participants {
		ev := private(EventGameStarted, p.ID)
		ev.Cards = hands[p.ID]
		events = append(events, ev)
	}

	pids := make([]uuid.UUID, 0, len(s.Participants))
	for _, p := range s.Participants {
		pids = append(pids, p.ID)
	}
	res, err := e.persist(ctx, s, models.LogEntry{Type: "game_started"}, events, pids...)
	if err != nil {
		return nil, err
	}
	for _, p := range s.Participants {
		if ps := res.Private[p.ID]; ps != nil {
			ps.YourCards = hands[p.ID]
		}
	}
	return res, nil
}

// ProcessAction is the single mutation entry point for in-game actions,
// regardless of whether a human or an automated client produced them.
// Rejections leave the session unchanged; concurrent-write conflicts are
// retried transparently against freshly loaded state.
func (e *Engine) ProcessAction(ctx context.Context, sessionID string, pid uuid.UUID, a models.Action) (*Result, error) {
	mu := e.lockSession(sessionID)
	mu.Lock()
	defer mu.Unlock()

	var lastErr error
	for attempt := 0; attempt < saveRetries; attempt++ {
		res, err := e.processOnce(ctx, sessionID, pid, a)
		if errors.Is(err, store.ErrVersionConflict) {
			lastErr = err
			continue
		}
		return res, err
	}
	return nil, fmt.Errorf("action %s on session %s: retries exhausted: %w", a.Type, sessionID, lastErr)
}

func (e *Engine) processOnce(ctx context.Context, sessionID string, pid uuid.UUID, a models.Action) (*Result, error) {
	s, err := e.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	p := s.ParticipantByID(pid)
	if p == nil {
		return nil, ErrNoSuchParticipant
	}
	switch s.Status {
	case models.StatusFinished:
		return nil, ErrGameAlreadyFinished
	case models.StatusWaiting:
		return nil, domainErrf(CodeWrongPhase, "game has not started")
	}

	switch a.Type {
	case models.ActionShowCard:
		return e.handleShowCard(ctx, s, p, a)
	case models.ActionMove, models.ActionSuggest, models.ActionAccuse, models.ActionEndTurn:
		if !p.Active {
			return nil, domainErrf(CodeNotYourTurn, "participant has been eliminated")
		}
		if s.Phase == models.PhaseSuggestionPending {
			return nil, domainErrf(CodeWrongPhase, "waiting for a card to be shown")
		}
		if cur := s.Current(); cur == nil || cur.ID != pid {
			return nil, ErrNotYourTurn
		}
		switch a.Type {
		case models.ActionMove:
			return e.handleMove(ctx, s, p, a)
		case models.ActionSuggest:
			return e.handleSuggest(ctx, s, p, a)
		case models.ActionAccuse:
			return e.handleAccuse(ctx, s, p, a)
		default:
			return e.handleEndTurn(ctx, s, p)
		}
	default:
		return nil, domainErrf(CodeInvalidAction, "unknown action type %q", a.Type)
	}
}

// originSquare resolves a participant's stored position to a graph node.
func (e *Engine) originSquare(pos models.Position) (*board.Square, error) {
	if pos.InRoom() {
		sq, ok := e.board.Room(string(pos.Room))
		if !ok {
			return nil, fmt.Errorf("position references unknown room %q", pos.Room)
		}
		return sq, nil
	}
	if pos.Cell == nil {
		return nil, fmt.Errorf("position has neither room nor cell")
	}
	sq, ok := e.board.Square(*pos.Cell)
	if !ok {
		return nil, fmt.Errorf("position cell %v is not traversable", *pos.Cell)
	}
	return sq, nil
}

func (e *Engine) handleMove(ctx context.Context, s *models.Session, p *models.Participant, a models.Action) (*Result, error) {
	if s.Phase != models.PhaseAwaitingMove {
		return nil, domainErrf(CodeWrongPhase, "movement already resolved this turn")
	}
	if (a.Room == "") == (a.Toward == "") {
		return nil, domainErrf(CodeInvalidAction, "move requires exactly one of room or toward")
	}

	pos := s.Positions[p.ID]
	origin, err := e.originSquare(pos)
	if err != nil {
		return nil, err
	}

	d1, d2 := e.rollDice()
	total := d1 + d2

	ev := broadcast(EventParticipantMoved)
	id := p.ID
	ev.Participant = &id
	ev.Dice = []int{d1, d2}

	logPayload := map[string]any{"dice": []int{d1, d2}}

	switch {
	case a.Room != "":
		if !a.Room.IsRoom() {
			return nil, domainErrf(CodeIllegalMove, "%q is not a room", a.Room)
		}
		viaPassage := false
		if pos.InRoom() {
			if paired, ok := e.board.PassageFrom(string(pos.Room)); ok && paired == string(a.Room) {
				// Secret passages cost no movement; taking one is always a
				// deliberate choice, never automatic.
				viaPassage = true
			}
		}
		if !viaPassage {
			found := false
			for _, rp := range e.board.ReachableRooms(origin, total) {
				if rp.Room == string(a.Room) {
					found = true
					break
				}
			}
			if !found {
				return nil, domainErrf(CodeIllegalMove, "%s is not reachable with a roll of %d", a.Room, total)
			}
		}
		s.Positions[p.ID] = models.Position{Room: a.Room}
		ev.Room = a.Room
		logPayload["room"] = a.Room
		if viaPassage {
			ev.Payload = map[string]any{"viaPassage": true}
			logPayload["viaPassage"] = true
		}

	default: // a.Toward != ""
		if !a.Toward.IsRoom() {
			return nil, domainErrf(CodeIllegalMove, "%q is not a room", a.Toward)
		}
		dest, reached := e.board.PathToward(origin, string(a.Toward), total)
		switch {
		case reached:
			s.Positions[p.ID] = models.Position{Room: a.Toward}
			ev.Room = a.Toward
			logPayload["room"] = a.Toward
		case dest.Kind == board.RoomNode:
			// No door of the starting room was in range. The mover stays
			// put; room nodes have no grid coordinates to store.
			room := models.Card(dest.Room)
			s.Positions[p.ID] = models.Position{Room: room}
			ev.Room = room
			logPayload["room"] = room
		default:
			cell := board.Coord{Row: dest.Row, Col: dest.Col}
			s.Positions[p.ID] = models.Position{Cell: &cell}
			ev.Cell = &cell
			logPayload["cell"] = cell
		}
		logPayload["toward"] = a.Toward
	}

	s.LastRoll = []int{d1, d2}
	s.Phase = models.PhaseAfterMove

	return e.persist(ctx, s, models.LogEntry{Type: "move", Actor: p.ID, Payload: logPayload}, []Event{ev}, p.ID)
}

func (e *Engine) handleSuggest(ctx context.Context, s *models.Session, p *models.Participant, a models.Action) (*Result, error) {
	if s.Phase != models.PhaseAfterMove {
		return nil, domainErrf(CodeWrongPhase, "suggestions follow movement")
	}
	pos := s.Positions[p.ID]
	if !pos.InRoom() {
		return nil, domainErrf(CodeWrongPhase, "suggestions require being in a room")
	}
	if !a.Suspect.IsSuspect() {
		return nil, domainErrf(CodeInvalidAction, "%q is not a suspect", a.Suspect)
	}
	if !a.Weapon.IsWeapon() {
		return nil, domainErrf(CodeInvalidAction, "%q is not a weapon", a.Weapon)
	}
	room := pos.Room

	pids := make([]uuid.UUID, 0, len(s.Participants))
	for _, sp := range s.Participants {
		pids = append(pids, sp.ID)
	}
	hands, err := e.store.LoadHands(ctx, s.ID, pids)
	if err != nil {
		return nil, fmt.Errorf("load hands: %w", err)
	}

	outcome := ResolveSuggestion(s.Participants, p.ID, hands, a.Suspect, a.Weapon, room)

	rec := models.SuggestionRecord{
		Suspect:     a.Suspect,
		Weapon:      a.Weapon,
		Room:        room,
		SuggestedBy: p.ID,
		Unanswered:  outcome.Responder == nil,
	}
	s.Suggestions = append(s.Suggestions, rec)

	// The named suspect's token is pulled into the room.
	var movedSuspect *uuid.UUID
	if other := s.ParticipantByCharacter(a.Suspect); other != nil && other.ID != p.ID {
		s.Positions[other.ID] = models.Position{Room: room}
		id := other.ID
		movedSuspect = &id
	}

	ev := broadcast(EventSuggestionMade)
	id := p.ID
	ev.Participant = &id
	ev.Suspect = a.Suspect
	ev.Weapon = a.Weapon
	ev.Room = room
	ev.Payload = map[string]any{}
	if movedSuspect != nil {
		ev.Payload["movedSuspect"] = movedSuspect.String()
	}

	events := []Event{}
	logPayload := map[string]any{"suspect": a.Suspect, "weapon": a.Weapon, "room": room}

	deltas := []uuid.UUID{p.ID}
	if outcome.Responder == nil {
		ev.Payload["unanswered"] = true
		logPayload["unanswered"] = true
		events = append(events, ev)
	} else {
		s.Pending = &models.PendingShow{
			Responder: *outcome.Responder,
			Suggester: p.ID,
			Suspect:   a.Suspect,
			Weapon:    a.Weapon,
			Room:      room,
			Matching:  outcome.Matching,
		}
		s.Phase = models.PhaseSuggestionPending
		ev.Payload["pendingShowBy"] = outcome.Responder.String()
		logPayload["pendingShowBy"] = outcome.Responder.String()
		events = append(events, ev)

		req := private(EventShowCardRequest, *outcome.Responder)
		req.Participant = &id // the suggester awaiting disproof
		req.Suspect = a.Suspect
		req.Weapon = a.Weapon
		req.Room = room
		req.Cards = outcome.Matching
		events = append(events, req)
		deltas = append(deltas, *outcome.Responder)
	}

	return e.persist(ctx, s, models.LogEntry{Type: "suggestion", Actor: p.ID, Payload: logPayload}, events, deltas...)
}

func (e *Engine) handleShowCard(ctx context.Context, s *models.Session, p *models.Participant, a models.Action) (*Result, error) {
	if s.Phase != models.PhaseSuggestionPending || s.Pending == nil {
		return nil, domainErrf(CodeWrongPhase, "no suggestion awaiting disproof")
	}
	if s.Pending.Responder != p.ID {
		return nil, domainErrf(CodeNotYourTurn, "another participant was asked to show a card")
	}
	valid := false
	for _, c := range s.Pending.Matching {
		if c == a.Card {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrNotYourCard
	}

	suggester := s.Pending.Suggester
	// Record the disproof on the suggestion that produced it.
	for i := len(s.Suggestions) - 1; i >= 0; i-- {
		rec := &s.Suggestions[i]
		if rec.SuggestedBy == suggester && rec.ShownBy == nil && !rec.Unanswered {
			id := p.ID
			rec.ShownBy = &id
			rec.ShownCard = a.Card
			break
		}
	}
	s.Pending = nil
	s.Phase = models.PhaseAfterMove

	shower := p.ID
	priv := private(EventCardShown, suggester)
	priv.Participant = &shower
	priv.Card = a.Card

	pub := broadcast(EventCardShownPublic)
	pub.Participant = &shower
	pub.Payload = map[string]any{"shownTo": suggester.String()}

	res, err := e.persist(ctx, s, models.LogEntry{
		Type:    "card_shown",
		Actor:   p.ID,
		Payload: map[string]any{"shownTo": suggester.String()},
	}, []Event{priv, pub}, p.ID, suggester)
	if err != nil {
		return nil, err
	}
	if ps := res.Private[suggester]; ps != nil {
		ps.ShownCard = a.Card
		id := shower
		ps.ShownBy = &id
	}
	return res, nil
}

func (e *Engine) handleAccuse(ctx context.Context, s *models.Session, p *models.Participant, a models.Action) (*Result, error) {
	if s.Phase != models.PhaseAfterMove {
		return nil, domainErrf(CodeWrongPhase, "accusations follow movement")
	}
	if !a.Suspect.IsSuspect() || !a.Weapon.IsWeapon() || !a.Room.IsRoom() {
		return nil, domainErrf(CodeInvalidAction, "accusation must name a suspect, a weapon and a room")
	}

	sol, err := e.store.LoadSolution(ctx, s.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load solution: %w", err)
	}
	correct := sol.Matches(a.Suspect, a.Weapon, a.Room)

	id := p.ID
	ev := broadcast(EventAccusationMade)
	ev.Participant = &id
	ev.Suspect = a.Suspect
	ev.Weapon = a.Weapon
	ev.Room = a.Room
	ev.Payload = map[string]any{"correct": correct}
	events := []Event{ev}

	deltas := []uuid.UUID{p.ID}
	finished := false
	if correct {
		finished = true
		e.finish(s, &id, sol)
		events = append(events, gameOverEvent(s))
	} else {
		p.Active = false
		switch s.ActiveCount() {
		case 1:
			// Last participant standing wins without accusing.
			var lastID *uuid.UUID
			for _, sp := range s.Participants {
				if sp.Active {
					v := sp.ID
					lastID = &v
					break
				}
			}
			finished = true
			e.finish(s, lastID, sol)
			events = append(events, gameOverEvent(s))
		case 0:
			// Everyone eliminated: finished with no winner, solution revealed.
			finished = true
			e.finish(s, nil, sol)
			events = append(events, gameOverEvent(s))
		default:
			e.advanceTurn(s)
			events = append(events, turnChangedEvent(s))
			deltas = append(deltas, s.Current().ID)
		}
	}

	res, err := e.persist(ctx, s, models.LogEntry{
		Type:  "accusation",
		Actor: p.ID,
		Payload: map[string]any{
			"suspect": a.Suspect, "weapon": a.Weapon, "room": a.Room, "correct": correct,
		},
	}, events, deltas...)
	if err != nil {
		return nil, err
	}
	if finished && e.OnFinish != nil {
		e.OnFinish(s, sol)
	}
	return res, nil
}

func (e *Engine) handleEndTurn(ctx context.Context, s *models.Session, p *models.Participant) (*Result, error) {
	if s.Phase != models.PhaseAfterMove {
		return nil, domainErrf(CodeWrongPhase, "end_turn follows movement")
	}
	e.advanceTurn(s)
	next := s.Current()
	return e.persist(ctx, s, models.LogEntry{
		Type:    "end_turn",
		Actor:   p.ID,
		Payload: map[string]any{"next": next.ID.String()},
	}, []Event{turnChangedEvent(s)}, p.ID, next.ID)
}

// advanceTurn hands the turn to the next active seat and resets per-turn
// state. Callers guarantee at least one seat is still active.
func (e *Engine) advanceTurn(s *models.Session) {
	idx := s.NextActiveIndex(s.TurnIndex)
	if idx < 0 {
		log.Printf("session %s: advanceTurn with no active participants", s.ID)
		return
	}
	s.TurnIndex = idx
	s.TurnNumber++
	s.Phase = models.PhaseAwaitingMove
	s.LastRoll = nil
	s.Suggestions = nil
	s.Pending = nil
}

func (e *Engine) finish(s *models.Session, winner *uuid.UUID, sol models.Solution) {
	s.Status = models.StatusFinished
	s.Phase = ""
	s.Pending = nil
	s.Winner = winner
	revealed := sol
	s.Revealed = &revealed
}

func turnChangedEvent(s *models.Session) Event {
	ev := broadcast(EventTurnChanged)
	if cur := s.Current(); cur != nil {
		id := cur.ID
		ev.Participant = &id
	}
	ev.Payload = map[string]any{"turnNumber": s.TurnNumber}
	return ev
}

func gameOverEvent(s *models.Session) Event {
	ev := broadcast(EventGameOver)
	ev.Participant = s.Winner
	ev.Solution = s.Revealed
	return ev
}

// persist writes the mutated session, appends the log record and assembles
// the action result. Save conflicts bubble up for the retry loop; log and
// publish failures after a successful save are logged, not surfaced, since
// the action has already been applied.
func (e *Engine) persist(ctx context.Context, s *models.Session, entry models.LogEntry, events []Event, deltaFor ...uuid.UUID) (*Result, error) {
	if err := e.store.SaveSession(ctx, s); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	entry.Timestamp = e.now()
	if err := e.store.AppendLog(ctx, s.ID, entry); err != nil {
		log.Printf("session %s: append log: %v", s.ID, err)
	}
	if e.Publish != nil {
		e.Publish(s.ID, entry)
	}

	res := &Result{
		State:   Project(s),
		Private: make(map[uuid.UUID]*PrivateState),
		Events:  events,
	}
	for _, pid := range deltaFor {
		if _, ok := res.Private[pid]; ok {
			continue
		}
		res.Private[pid] = projectPrivate(s, pid, nil)
	}
	return res, nil
}

func (e *Engine) loadSession(ctx context.Context, id string) (*models.Session, error) {
	s, err := e.store.LoadSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	return s, nil
}

// PublicSnapshot returns the observer view, e.g. for reconnecting clients.
func (e *Engine) PublicSnapshot(ctx context.Context, sessionID string) (*PublicState, error) {
	s, err := e.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return Project(s), nil
}

// PlayerSnapshot returns the public view plus one participant's private
// state including their dealt hand.
func (e *Engine) PlayerSnapshot(ctx context.Context, sessionID string, pid uuid.UUID) (*PublicState, *PrivateState, error) {
	s, err := e.loadSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if s.ParticipantByID(pid) == nil {
		return nil, nil, ErrNoSuchParticipant
	}
	hand, err := e.store.LoadHand(ctx, sessionID, pid)
	if err != nil {
		return nil, nil, fmt.Errorf("load hand: %w", err)
	}
	return Project(s), projectPrivate(s, pid, hand), nil
}

// Log returns the session's append-only history.
func (e *Engine) Log(ctx context.Context, sessionID string) ([]models.LogEntry, error) {
	if _, err := e.loadSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return e.store.Log(ctx, sessionID)
}

// Chat returns stored chat messages.
func (e *Engine) Chat(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	if _, err := e.loadSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return e.store.Chat(ctx, sessionID)
}

// AppendChat stores one chat line after checking the session exists.
func (e *Engine) AppendChat(ctx context.Context, sessionID string, m models.ChatMessage) error {
	if _, err := e.loadSession(ctx, sessionID); err != nil {
		return err
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = e.now()
	}
	return e.store.AppendChat(ctx, sessionID, m)
}

// Passcode returns the stored passcode hash for a session ("" when open).
func (e *Engine) Passcode(ctx context.Context, sessionID string) (string, error) {
	s, err := e.loadSession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return s.PasscodeHash, nil
}
