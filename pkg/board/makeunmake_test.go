package board_test

import (
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTripPositions cover quiet moves, captures, castling in both
// directions, en passant and promotion.
var roundTripPositions = []string{
	fen.Initial,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R b KQkq - 0 1",
	"rnbqkbnr/ppp1pppp/8/8/2pP4/8/PP2PPPP/RNBQKBNR b KQkq d3 0 3",
	"8/2P5/8/8/7k/8/5p2/K7 w - - 0 1",
}

// TestMakeUnmakeRoundTrip checks that unmaking a just-made legal move
// restores the position bit-for-bit, including the incremental hash.
func TestMakeUnmakeRoundTrip(t *testing.T) {
	zt := board.NewZobristTable(1)

	for _, position := range roundTripPositions {
		pos, _, _, _, err := fen.Decode(zt, position)
		require.NoError(t, err)

		before := *pos

		var buf board.MoveBuffer
		pos.GenerateLegalMoves(&buf)
		require.NotZero(t, buf.Len())

		for i := 0; i < buf.Len(); i++ {
			m := buf.Get(i)

			undo := pos.MakeMove(m)
			pos.UnmakeMove(m, undo)

			assert.Equal(t, before, *pos, "make/unmake of %v must restore %v", m, position)
		}
	}
}

// TestIncrementalHashMatchesFromScratch checks that the hash maintained
// incrementally by MakeMove equals a from-scratch recomputation of the
// resulting position.
func TestIncrementalHashMatchesFromScratch(t *testing.T) {
	zt := board.NewZobristTable(1)

	for _, position := range roundTripPositions {
		pos, _, _, _, err := fen.Decode(zt, position)
		require.NoError(t, err)

		var buf board.MoveBuffer
		pos.GenerateLegalMoves(&buf)

		for i := 0; i < buf.Len(); i++ {
			m := buf.Get(i)

			undo := pos.MakeMove(m)
			assert.Equal(t, zt.Hash(pos), pos.Hash(), "incremental hash after %v from %v", m, position)
			pos.UnmakeMove(m, undo)
		}
	}
}

// TestEqualPositionsHashEqually checks that two positions reached by
// transposing move orders hash identically.
func TestEqualPositionsHashEqually(t *testing.T) {
	zt := board.NewZobristTable(1)

	a, _, _, _, err := fen.Decode(zt, fen.Initial)
	require.NoError(t, err)
	b, _, _, _, err := fen.Decode(zt, fen.Initial)
	require.NoError(t, err)

	push := func(t *testing.T, pos *board.Position, move string) {
		t.Helper()

		m, err := board.ParseMove(move)
		require.NoError(t, err)

		var buf board.MoveBuffer
		full, ok := pos.FindLegalMove(&buf, m)
		require.True(t, ok, "move %v must be legal", move)
		pos.MakeMove(full)
	}

	// Nf3/Nc3 and Nc3/Nf3 transpose.
	push(t, a, "g1f3")
	push(t, a, "b8c6")
	push(t, a, "b1c3")

	push(t, b, "b1c3")
	push(t, b, "b8c6")
	push(t, b, "g1f3")

	assert.Equal(t, a.Hash(), b.Hash())
}
