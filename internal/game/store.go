package game

import "context"

// Store holds ephemeral game records and the player reverse index
// (player ID -> game ID, at most one entry per player). Implementations
// must make each call atomic; multi-step read-modify-write sequences
// are serialized by the Coordinator's per-game locks.
type Store interface {
	Create(ctx context.Context, g *Game) error
	// Get returns nil, nil when no record exists.
	Get(ctx context.Context, gameID string) (*Game, error)
	Update(ctx context.Context, g *Game) error
	Delete(ctx context.Context, gameID string) error

	BindPlayer(ctx context.Context, playerID, gameID string) error
	UnbindPlayer(ctx context.Context, playerID string) error
	// PlayerGame returns "" when the player has no bound game.
	PlayerGame(ctx context.Context, playerID string) (string, error)

	// LiveIDs lists games that have been created and not yet deleted.
	// Used by the timeout sweep; may include concluded records whose
	// cleanup was interrupted.
	LiveIDs(ctx context.Context) ([]string, error)
}

// Queue is the shared matchmaking queue. Pop must be atomic so a queued
// player can only ever be claimed by one pairing attempt.
type Queue interface {
	// Enqueue appends the player, de-duplicating existing entries.
	Enqueue(ctx context.Context, playerID string) error
	// Pop removes and returns the queue head, "" when empty.
	Pop(ctx context.Context) (string, error)
	// Remove deletes all occurrences of the player.
	Remove(ctx context.Context, playerID string) error
}

// Presence answers whether a matchmaking candidate is reachable.
type Presence interface {
	IsPresent(playerID string) bool
}
