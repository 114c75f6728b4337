// Package eval contains static position evaluation.
package eval

import (
	"github.com/herohde/morlock/pkg/board"
)

// Evaluator returns a side-to-move-relative centipawn score for a terminal
// search node. The searcher calls it at depth 0 without generating moves, so
// a checkmated or stalemated leaf gets a plain evaluation; the searcher scores
// checkmate/stalemate itself only at nodes with depth remaining.
type Evaluator interface {
	Evaluate(pos *board.Position) Score
}

// Material is the simplest evaluator required by this engine: the nominal
// material balance for the side to move.
type Material struct{}

func (Material) Evaluate(pos *board.Position) Score {
	return materialBalance(pos, pos.Turn()) - materialBalance(pos, pos.Turn().Opponent())
}

func materialBalance(pos *board.Position, c board.Color) Score {
	var sum Score
	for p := board.Pawn; p <= board.King; p++ {
		sum += Score(pos.PieceOccupancy(c, p).PopCount()) * NominalValue(p)
	}
	return sum
}

// NominalValue is the absolute centipawn value of a piece, shared by Material
// and by the PST evaluator's material term. The king is valueless: it is
// never traded, so it contributes nothing to a material balance.
func NominalValue(p board.Piece) Score {
	switch p {
	case board.Pawn:
		return 100
	case board.Knight, board.Bishop:
		return 300
	case board.Rook:
		return 500
	case board.Queen:
		return 900
	default: // King
		return 0
	}
}

// NominalValueGain is the nominal material gain of playing m: the value of
// the captured piece plus, for a promotion, the promoted piece's gain over a
// pawn. The value of the moving piece is not taken into account.
func NominalValueGain(m board.Move) Score {
	switch m.Type {
	case board.CapturePromotion:
		return NominalValue(m.Capture) + NominalValue(m.Promotion) - NominalValue(board.Pawn)
	case board.Promotion:
		return NominalValue(m.Promotion) - NominalValue(board.Pawn)
	case board.Capture, board.EnPassant:
		return NominalValue(m.Capture)
	default:
		return 0
	}
}
