// internal/database/game.go
package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/parlorgames/cluedo/internal/models"
)

// ArchiveFinishedGame persists the final outcome of a session: the games row
// with its revealed solution, plus one game_results row per seat. Hot state
// lives in Redis with a TTL; this archive is what survives it.
func ArchiveFinishedGame(ctx context.Context, s *models.Session, sol models.Solution) error {
	solJSON, err := json.Marshal(sol)
	if err != nil {
		return fmt.Errorf("marshal solution: %w", err)
	}

	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsertGame := `
			INSERT INTO games (id, status, solution, turn_count, end_time)
			VALUES ($1, 'completed', $2, $3, NOW())
			ON CONFLICT (id)
			DO UPDATE SET status = 'completed', solution = $2, turn_count = $3, end_time = NOW()
		`
		if _, e := tx.Exec(ctx, upsertGame, s.ID, solJSON, s.TurnNumber); e != nil {
			return e
		}

		for _, p := range s.Participants {
			didWin := s.Winner != nil && *s.Winner == p.ID
			q := `
				INSERT INTO game_results (game_id, participant_id, name, character, did_win, eliminated)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (game_id, participant_id)
				DO UPDATE SET did_win = $5, eliminated = $6
			`
			if _, e := tx.Exec(ctx, q, s.ID, p.ID, p.Name, string(p.Character), didWin, !p.Active); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx archive game %s: %w", s.ID, err)
	}
	return nil
}

// MarkGameAbandoned flags a stale in-progress game. Called by the historian
// when a session stops producing actions before anyone wins.
func MarkGameAbandoned(ctx context.Context, sessionID string) error {
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			UPDATE games
			SET status = 'abandoned', end_time = NOW()
			WHERE id = $1 AND status = 'in_progress'
		`
		_, e := tx.Exec(ctx, q, sessionID)
		return e
	})
}
