// internal/store/memory.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/parlorgames/cluedo/internal/models"
)

// MemoryStore is an in-process SessionStore with the same versioning
// semantics as the Redis store. It backs tests and single-node development
// runs; values round-trip through JSON so stored state is detached from the
// caller's pointers exactly as it would be over the wire.
type MemoryStore struct {
	mu        sync.Mutex
	sessions  map[string][]byte
	versions  map[string]int64
	solutions map[string]models.Solution
	hands     map[string][]models.Card
	logs      map[string][]models.LogEntry
	chats     map[string][]models.ChatMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:  make(map[string][]byte),
		versions:  make(map[string]int64),
		solutions: make(map[string]models.Solution),
		hands:     make(map[string][]models.Card),
		logs:      make(map[string][]models.LogEntry),
		chats:     make(map[string][]models.ChatMessage),
	}
}

func handKey(id string, pid uuid.UUID) string { return id + "/" + pid.String() }

func (m *MemoryStore) CreateSession(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; ok {
		return fmt.Errorf("session id %s already exists", s.ID)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.sessions[s.ID] = data
	m.versions[s.ID] = s.Version
	return nil
}

func (m *MemoryStore) LoadSession(_ context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MemoryStore) SaveSession(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.versions[s.ID]
	if !ok {
		return ErrNotFound
	}
	if cur != s.Version {
		return ErrVersionConflict
	}
	next := *s
	next.Version = s.Version + 1
	data, err := json.Marshal(&next)
	if err != nil {
		return err
	}
	m.sessions[s.ID] = data
	m.versions[s.ID] = next.Version
	s.Version = next.Version
	return nil
}

func (m *MemoryStore) SaveSolution(_ context.Context, id string, sol models.Solution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.solutions[id] = sol
	return nil
}

func (m *MemoryStore) LoadSolution(_ context.Context, id string) (models.Solution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sol, ok := m.solutions[id]
	if !ok {
		return models.Solution{}, ErrNotFound
	}
	return sol, nil
}

func (m *MemoryStore) SaveHands(_ context.Context, id string, hands map[uuid.UUID][]models.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for pid, hand := range hands {
		cp := make([]models.Card, len(hand))
		copy(cp, hand)
		m.hands[handKey(id, pid)] = cp
	}
	return nil
}

func (m *MemoryStore) LoadHand(_ context.Context, id string, pid uuid.UUID) ([]models.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hand := m.hands[handKey(id, pid)]
	cp := make([]models.Card, len(hand))
	copy(cp, hand)
	return cp, nil
}

func (m *MemoryStore) LoadHands(ctx context.Context, id string, pids []uuid.UUID) (map[uuid.UUID][]models.Card, error) {
	out := make(map[uuid.UUID][]models.Card, len(pids))
	for _, pid := range pids {
		hand, err := m.LoadHand(ctx, id, pid)
		if err != nil {
			return nil, err
		}
		out[pid] = hand
	}
	return out, nil
}

func (m *MemoryStore) AppendLog(_ context.Context, id string, e models.LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs[id] = append(m.logs[id], e)
	return nil
}

func (m *MemoryStore) Log(_ context.Context, id string) ([]models.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.LogEntry, len(m.logs[id]))
	copy(out, m.logs[id])
	return out, nil
}

func (m *MemoryStore) AppendChat(_ context.Context, id string, msg models.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chats[id] = append(m.chats[id], msg)
	return nil
}

func (m *MemoryStore) Chat(_ context.Context, id string) ([]models.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ChatMessage, len(m.chats[id]))
	copy(out, m.chats[id])
	return out, nil
}
