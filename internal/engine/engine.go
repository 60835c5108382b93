// Package engine wraps move legality and board-state computation behind
// a small interface. The coordinator treats positions as opaque FEN
// strings and never interprets them itself.
package engine

import "errors"

var ErrIllegalMove = errors.New("engine: illegal move")

// Termination describes the state of a position.
type Termination string

const (
	TerminationNone      Termination = "none"
	TerminationCheckmate Termination = "checkmate"
	TerminationStalemate Termination = "stalemate"
	TerminationDraw      Termination = "draw"
)

// MoveResult is the outcome of applying one legal move.
type MoveResult struct {
	FEN string // resulting position
	SAN string // accepted move in algebraic notation
}

type Engine interface {
	// InitialFEN returns the starting position encoding.
	InitialFEN() string

	// ApplyMove validates move (UCI or SAN) against the position and
	// returns the resulting position. Returns ErrIllegalMove when the
	// move is not legal in the given position.
	ApplyMove(fen, move string) (*MoveResult, error)

	// IsTerminal reports whether the position ends the game.
	IsTerminal(fen string) (Termination, error)
}
