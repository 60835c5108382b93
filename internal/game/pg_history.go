package game

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Mayur-kumbar/Checkmate.io/internal/db"
	"github.com/lib/pq"
)

// PGHistory archives concluded games in Postgres. The unique game_id
// constraint makes Append idempotent: replaying an interrupted
// conclusion never yields a second row.
type PGHistory struct {
	db *db.DB
}

func NewPGHistory(database *db.DB) *PGHistory {
	return &PGHistory{db: database}
}

func (h *PGHistory) Append(ctx context.Context, a Archive) error {
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO games (game_id, white, black, moves, result, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (game_id) DO NOTHING`,
		a.GameID, a.White, a.Black, pq.Array(a.Moves), string(a.Result), string(a.Reason),
	)
	if err != nil {
		return fmt.Errorf("game: failed to archive %s: %w", a.GameID, err)
	}
	return nil
}

// FindByPlayer lists the player's concluded games, most recent first.
func (h *PGHistory) FindByPlayer(ctx context.Context, playerID string) ([]Archive, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT game_id, white, black, moves, result, reason
		FROM games WHERE white = $1 OR black = $1
		ORDER BY created_at DESC`,
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("game: failed to list archives for %s: %w", playerID, err)
	}
	defer rows.Close()

	var archives []Archive
	for rows.Next() {
		var a Archive
		var moves pq.StringArray
		var result string
		var reason sql.NullString
		if err := rows.Scan(&a.GameID, &a.White, &a.Black, &moves, &result, &reason); err != nil {
			return nil, fmt.Errorf("game: failed to scan archive row: %w", err)
		}
		a.Moves = moves
		a.Result = Result(result)
		a.Reason = Reason(reason.String)
		archives = append(archives, a)
	}
	return archives, rows.Err()
}

// Find returns the archived record, or nil when the game was never
// archived.
func (h *PGHistory) Find(ctx context.Context, gameID string) (*Archive, error) {
	row := h.db.QueryRowContext(ctx, `
		SELECT game_id, white, black, moves, result, reason
		FROM games WHERE game_id = $1`,
		gameID,
	)

	var a Archive
	var moves pq.StringArray
	var result string
	var reason sql.NullString
	err := row.Scan(&a.GameID, &a.White, &a.Black, &moves, &result, &reason)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("game: failed to load archive %s: %w", gameID, err)
	}

	a.Moves = moves
	a.Result = Result(result)
	a.Reason = Reason(reason.String)
	return &a, nil
}
