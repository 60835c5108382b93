// Package game owns match records, matchmaking and the session
// coordinator. All mutations of live games flow through the
// Coordinator; the store and queue are passive storage.
package game

import "time"

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Result is the archival score string.
type Result string

const (
	ResultWhiteWins Result = "1-0"
	ResultBlackWins Result = "0-1"
	ResultDraw      Result = "1/2-1/2"
)

// Reason records how a game ended.
type Reason string

const (
	ReasonCheckmate   Reason = "checkmate"
	ReasonStalemate   Reason = "stalemate"
	ReasonDraw        Reason = "draw"
	ReasonAgreement   Reason = "agreement"
	ReasonResignation Reason = "resignation"
	ReasonTimeout     Reason = "timeout"
)

// Game is the ephemeral record for one paired match. Clocks are
// millisecond budgets debited when the side on move acts; LastMoveAt
// anchors elapsed-time computation for the side currently on move.
type Game struct {
	ID         string    `json:"gameId"`
	White      string    `json:"white"`
	Black      string    `json:"black"`
	FEN        string    `json:"fen"`
	Moves      []string  `json:"moves"`
	Turn       Color     `json:"turn"`
	Status     Status    `json:"status"`
	DrawOffer  Color     `json:"drawOffered,omitempty"`
	WhiteTime  int64     `json:"whiteTime"` // milliseconds remaining
	BlackTime  int64     `json:"blackTime"` // milliseconds remaining
	LastMoveAt time.Time `json:"lastMoveAt"`

	// Winner and Reason are set at conclusion so an interrupted
	// cleanup can be replayed from the record alone.
	Winner Color  `json:"winner,omitempty"`
	Reason Reason `json:"reason,omitempty"`
}

func (g *Game) IsActive() bool {
	return g.Status == StatusActive
}

// ColorOf returns the side the player occupies.
func (g *Game) ColorOf(playerID string) (Color, bool) {
	switch playerID {
	case g.White:
		return White, true
	case g.Black:
		return Black, true
	}
	return "", false
}

// PlayerOn returns the player occupying the given side.
func (g *Game) PlayerOn(c Color) string {
	if c == White {
		return g.White
	}
	return g.Black
}

// RemainingTime returns the given side's clock in milliseconds.
func (g *Game) RemainingTime(c Color) int64 {
	if c == White {
		return g.WhiteTime
	}
	return g.BlackTime
}

// SetRemainingTime overwrites the given side's clock.
func (g *Game) SetRemainingTime(c Color, ms int64) {
	if c == White {
		g.WhiteTime = ms
	} else {
		g.BlackTime = ms
	}
}

// TurnMatchesParity reports whether Turn agrees with the move-log
// length: white to move after an even number of moves, black after an
// odd number. The two must never diverge while a game is active.
func (g *Game) TurnMatchesParity() bool {
	if len(g.Moves)%2 == 0 {
		return g.Turn == White
	}
	return g.Turn == Black
}
