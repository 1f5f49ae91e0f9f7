// internal/store/redis.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/parlorgames/cluedo/internal/models"
)

// DefaultExpiry bounds a session's lifetime. Every write refreshes it, so
// an idle session and all of its records expire together.
const DefaultExpiry = 24 * time.Hour

// RedisStore keeps each session in a handful of co-expiring keys:
//
//	game:{id}             full session state (JSON, versioned)
//	game:{id}:solution    hidden solution
//	game:{id}:cards:{pid} one hand per participant
//	game:{id}:log         append-only action log (list)
//	game:{id}:chat        append-only chat (list)
type RedisStore struct {
	rdb    *redis.Client
	expiry time.Duration
}

// NewRedisStore wraps an existing client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, expiry: DefaultExpiry}
}

func (r *RedisStore) stateKey(id string) string    { return "game:" + id }
func (r *RedisStore) solutionKey(id string) string { return "game:" + id + ":solution" }
func (r *RedisStore) handKey(id string, pid uuid.UUID) string {
	return "game:" + id + ":cards:" + pid.String()
}
func (r *RedisStore) logKey(id string) string  { return "game:" + id + ":log" }
func (r *RedisStore) chatKey(id string) string { return "game:" + id + ":chat" }

// CreateSession writes an initial session record. Fails if the id is taken.
func (r *RedisStore) CreateSession(ctx context.Context, s *models.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", s.ID, err)
	}
	ok, err := r.rdb.SetNX(ctx, r.stateKey(s.ID), data, r.expiry).Result()
	if err != nil {
		return fmt.Errorf("create session %s: %w", s.ID, err)
	}
	if !ok {
		return fmt.Errorf("session id %s already exists", s.ID)
	}
	return nil
}

func (r *RedisStore) LoadSession(ctx context.Context, id string) (*models.Session, error) {
	raw, err := r.rdb.Get(ctx, r.stateKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	var s models.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

// SaveSession performs an optimistic WATCH/MULTI write: the stored version
// must still equal s.Version or ErrVersionConflict is returned.
func (r *RedisStore) SaveSession(ctx context.Context, s *models.Session) error {
	key := r.stateKey(s.ID)
	next := *s
	next.Version = s.Version + 1
	data, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", s.ID, err)
	}

	err = r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var cur models.Session
		if err := json.Unmarshal(raw, &cur); err != nil {
			return err
		}
		if cur.Version != s.Version {
			return ErrVersionConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.expiry)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		// Racing writer slipped in between GET and EXEC.
		return ErrVersionConflict
	}
	if err != nil {
		return err
	}
	s.Version = next.Version
	return nil
}

func (r *RedisStore) SaveSolution(ctx context.Context, id string, sol models.Solution) error {
	data, err := json.Marshal(sol)
	if err != nil {
		return fmt.Errorf("marshal solution %s: %w", id, err)
	}
	return r.rdb.Set(ctx, r.solutionKey(id), data, r.expiry).Err()
}

func (r *RedisStore) LoadSolution(ctx context.Context, id string) (models.Solution, error) {
	var sol models.Solution
	raw, err := r.rdb.Get(ctx, r.solutionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return sol, ErrNotFound
	}
	if err != nil {
		return sol, fmt.Errorf("load solution %s: %w", id, err)
	}
	err = json.Unmarshal(raw, &sol)
	return sol, err
}

func (r *RedisStore) SaveHands(ctx context.Context, id string, hands map[uuid.UUID][]models.Card) error {
	pipe := r.rdb.Pipeline()
	for pid, hand := range hands {
		data, err := json.Marshal(hand)
		if err != nil {
			return fmt.Errorf("marshal hand %s/%s: %w", id, pid, err)
		}
		pipe.Set(ctx, r.handKey(id, pid), data, r.expiry)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisStore) LoadHand(ctx context.Context, id string, pid uuid.UUID) ([]models.Card, error) {
	raw, err := r.rdb.Get(ctx, r.handKey(id, pid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // joined but not dealt, or expired with the session
	}
	if err != nil {
		return nil, fmt.Errorf("load hand %s/%s: %w", id, pid, err)
	}
	var hand []models.Card
	err = json.Unmarshal(raw, &hand)
	return hand, err
}

func (r *RedisStore) LoadHands(ctx context.Context, id string, pids []uuid.UUID) (map[uuid.UUID][]models.Card, error) {
	out := make(map[uuid.UUID][]models.Card, len(pids))
	for _, pid := range pids {
		hand, err := r.LoadHand(ctx, id, pid)
		if err != nil {
			return nil, err
		}
		out[pid] = hand
	}
	return out, nil
}

func (r *RedisStore) AppendLog(ctx context.Context, id string, e models.LogEntry) error {
	return r.appendList(ctx, r.logKey(id), e)
}

func (r *RedisStore) Log(ctx context.Context, id string) ([]models.LogEntry, error) {
	raws, err := r.rdb.LRange(ctx, r.logKey(id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load log %s: %w", id, err)
	}
	out := make([]models.LogEntry, 0, len(raws))
	for _, raw := range raws {
		var e models.LogEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("decode log entry %s: %w", id, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *RedisStore) AppendChat(ctx context.Context, id string, m models.ChatMessage) error {
	return r.appendList(ctx, r.chatKey(id), m)
}

func (r *RedisStore) Chat(ctx context.Context, id string) ([]models.ChatMessage, error) {
	raws, err := r.rdb.LRange(ctx, r.chatKey(id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load chat %s: %w", id, err)
	}
	out := make([]models.ChatMessage, 0, len(raws))
	for _, raw := range raws {
		var m models.ChatMessage
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("decode chat message %s: %w", id, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *RedisStore) appendList(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s entry: %w", key, err)
	}
	pipe := r.rdb.Pipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, r.expiry)
	_, err = pipe.Exec(ctx)
	return err
}
