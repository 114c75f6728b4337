package eval

import "github.com/herohde/morlock/pkg/board"

// openingMajorMinorMaterial is the combined major/minor material (in
// centipawns) present for both sides at the start of the game: 4 knights, 4
// bishops, 4 rooks, 2 queens.
var openingMajorMinorMaterial = 4*NominalValue(board.Knight) + 4*NominalValue(board.Bishop) +
	4*NominalValue(board.Rook) + 2*NominalValue(board.Queen)

// MaterialPST is the stronger evaluator: nominal material plus a
// piece-square bonus blended between a midgame and an endgame table by an
// endgame factor derived from the material remaining on the board. The
// values are the well-known static "simplified evaluation" tables.
type MaterialPST struct{}

func (MaterialPST) Evaluate(pos *board.Position) Score {
	turn := pos.Turn()
	factor := endgameFactor(pos)

	white := pstBalance(pos, board.White, factor)
	black := pstBalance(pos, board.Black, factor)

	if turn == board.White {
		return white - black
	}
	return black - white
}

func pstBalance(pos *board.Position, c board.Color, endgame float64) Score {
	var sum Score
	for p := board.Pawn; p <= board.King; p++ {
		bb := pos.PieceOccupancy(c, p)
		for bb != 0 {
			sq := bb.FirstPopSquare()
			bb &^= sq.Bit()

			sum += NominalValue(p) + pstValue(p, c, sq, endgame)
		}
	}
	return sum
}

// endgameFactor is a value in [0,1], 0 at the start of the game and
// approaching 1 as non-king, non-pawn material is traded off. Keyed off
// minor/major material only, which isolates "how much of the midgame army
// remains" from pawn count.
func endgameFactor(pos *board.Position) float64 {
	var remaining Score
	for _, c := range [...]board.Color{board.White, board.Black} {
		for _, p := range [...]board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen} {
			remaining += Score(pos.PieceOccupancy(c, p).PopCount()) * NominalValue(p)
		}
	}

	factor := 1 - float64(remaining)/float64(openingMajorMinorMaterial)
	switch {
	case factor < 0:
		return 0
	case factor > 1:
		return 1
	default:
		return factor
	}
}

func pstValue(p board.Piece, c board.Color, sq board.Square, endgame float64) Score {
	idx := pstIndex(c, sq)
	mid, end := pst[p][idx], pstEnd[p][idx]
	return Score((1-endgame)*float64(mid) + endgame*float64(end))
}

// pstIndex mirrors a white-side table vertically for black, so both colors
// share one set of tables oriented from the white point of view.
func pstIndex(c board.Color, sq board.Square) int {
	if c == board.White {
		return int(sq)
	}
	mirroredRank := board.Rank8 - sq.Rank()
	return int(board.NewSquare(sq.File(), mirroredRank))
}

// Piece-square tables, white's perspective, a1=index 0 .. h8=index 63,
// following the classic "simplified evaluation function" values (in
// centipawns). Pawns get a midgame bonus for central/advanced squares and an
// endgame bonus purely for rank advancement.
var pst = [board.King + 1][64]int16{
	board.Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, -20, -20, 10, 10, 5,
		5, -5, -10, 0, 0, -10, -5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, 5, 10, 25, 25, 10, 5, 5,
		10, 10, 20, 30, 30, 20, 10, 10,
		50, 50, 50, 50, 50, 50, 50, 50,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	board.Knight: {
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	},
	board.Bishop: {
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	board.Rook: {
		0, 0, 0, 5, 5, 0, 0, 0,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		5, 10, 10, 10, 10, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	board.Queen: {
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-10, 5, 5, 5, 5, 5, 0, -10,
		0, 0, 5, 5, 5, 5, 0, -5,
		-5, 0, 5, 5, 5, 5, 0, -5,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	board.King: {
		20, 30, 10, 0, 0, 10, 30, 20,
		20, 20, 0, 0, 0, 0, 20, 20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
	},
}

// pstEnd is the endgame table: pawns are rewarded heavily for advancing, and
// the king is rewarded for centralizing instead of hiding behind a wall of
// pawns that may no longer exist.
var pstEnd = [board.King + 1][64]int16{
	board.Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		10, 10, 10, 10, 10, 10, 10, 10,
		20, 20, 20, 20, 20, 20, 20, 20,
		30, 30, 30, 30, 30, 30, 30, 30,
		45, 45, 45, 45, 45, 45, 45, 45,
		65, 65, 65, 65, 65, 65, 65, 65,
		90, 90, 90, 90, 90, 90, 90, 90,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	board.Knight: pst[board.Knight],
	board.Bishop: pst[board.Bishop],
	board.Rook:   pst[board.Rook],
	board.Queen:  pst[board.Queen],
	board.King: {
		-50, -30, -30, -30, -30, -30, -30, -50,
		-30, -30, 0, 0, 0, 0, -30, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -20, -10, 0, 0, -10, -20, -30,
		-50, -40, -30, -20, -20, -30, -40, -50,
	},
}
