package game

import "context"

// Archive is the immutable record written once per concluded game.
type Archive struct {
	GameID string
	White  string
	Black  string
	Moves  []string
	Result Result
	Reason Reason
}

// History is the durable sink for concluded games. Append must be
// duplicate-safe on GameID so a retried conclusion never produces two
// archival rows.
type History interface {
	Append(ctx context.Context, a Archive) error
}

// ResultFor derives the score string from the winning side, or a draw
// when no side won.
func ResultFor(winner Color) Result {
	switch winner {
	case White:
		return ResultWhiteWins
	case Black:
		return ResultBlackWins
	}
	return ResultDraw
}
