package board_test

import (
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// perft counts the leaves of the legal move tree at the given depth,
// exercising move generation and make/unmake together: a discrepancy from a
// known-correct count localizes to either.
func perft(pos *board.Position, depth int) int {
	if depth == 0 {
		return 1
	}

	var buf board.MoveBuffer
	pos.GenerateLegalMoves(&buf)

	nodes := 0
	for i := 0; i < buf.Len(); i++ {
		m := buf.Get(i)
		undo := pos.MakeMove(m)
		nodes += perft(pos, depth-1)
		pos.UnmakeMove(m, undo)
	}
	return nodes
}

// TestPerftStartPosition checks the standard starting position's well known
// perft sequence through depth 6.
func TestPerftStartPosition(t *testing.T) {
	pos := startPosition(t)

	tests := []struct {
		depth    int
		expected int
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
		{5, 4865609},
		{6, 119060324},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, perft(pos, tt.depth), "perft(%d)", tt.depth)
	}
}

// TestPerftKiwipete checks the "kiwipete" position, a standard move-generator
// torture test exercising castling, en passant and promotions together.
func TestPerftKiwipete(t *testing.T) {
	const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

	zt := board.NewZobristTable(1)
	pos, _, _, _, err := fen.Decode(zt, kiwipete)
	require.NoError(t, err)

	tests := []struct {
		depth    int
		expected int
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
		{4, 4085603},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, perft(pos, tt.depth), "perft(%d)", tt.depth)
	}
}

// TestPerftDividedByRootMove sums perft(3) from the standard starting
// position across each of the 20 root moves individually, the technique used
// to localize a move-generation bug to a specific first move.
func TestPerftDividedByRootMove(t *testing.T) {
	pos := startPosition(t)

	var buf board.MoveBuffer
	pos.GenerateLegalMoves(&buf)
	require.Equal(t, 20, buf.Len())

	total := 0
	for i := 0; i < buf.Len(); i++ {
		m := buf.Get(i)
		undo := pos.MakeMove(m)
		total += perft(pos, 2)
		pos.UnmakeMove(m, undo)
	}
	assert.Equal(t, 8902, total)
}
