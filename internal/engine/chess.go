package engine

import (
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// ChessEngine implements Engine on top of corentings/chess.
type ChessEngine struct{}

func NewChessEngine() *ChessEngine {
	return &ChessEngine{}
}

func (e *ChessEngine) InitialFEN() string {
	return nchess.NewGame().FEN()
}

func (e *ChessEngine) ApplyMove(fen, move string) (*MoveResult, error) {
	game, err := gameFromFEN(fen)
	if err != nil {
		return nil, err
	}

	pos := game.Position()
	move = strings.TrimSpace(move)
	if move == "" {
		return nil, ErrIllegalMove
	}

	// UCI first, SAN as fallback. Decode only succeeds for moves that
	// are legal in the position.
	if mv, derr := (nchess.UCINotation{}).Decode(pos, strings.ToLower(move)); derr == nil {
		if err := game.Move(mv, nil); err != nil {
			return nil, ErrIllegalMove
		}
		return &MoveResult{
			FEN: game.FEN(),
			SAN: nchess.AlgebraicNotation{}.Encode(pos, mv),
		}, nil
	}

	if err := game.PushNotationMove(move, nchess.AlgebraicNotation{}, nil); err != nil {
		return nil, ErrIllegalMove
	}

	moves := game.Moves()
	last := moves[len(moves)-1]

	return &MoveResult{
		FEN: game.FEN(),
		SAN: nchess.AlgebraicNotation{}.Encode(pos, last),
	}, nil
}

func (e *ChessEngine) IsTerminal(fen string) (Termination, error) {
	game, err := gameFromFEN(fen)
	if err != nil {
		return TerminationNone, err
	}

	if game.Outcome() == nchess.NoOutcome {
		return TerminationNone, nil
	}

	switch game.Method() {
	case nchess.Checkmate:
		return TerminationCheckmate, nil
	case nchess.Stalemate:
		return TerminationStalemate, nil
	default:
		return TerminationDraw, nil
	}
}

func gameFromFEN(fen string) (*nchess.Game, error) {
	if strings.TrimSpace(fen) == "" {
		return nchess.NewGame(), nil
	}

	option, err := nchess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("engine: bad position encoding: %w", err)
	}

	return nchess.NewGame(option), nil
}
