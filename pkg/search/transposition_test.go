package search_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/herohde/morlock/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestTranspositionTable(t *testing.T) {
	ctx := context.Background()

	// (1) Sizing uses the largest power of two of 32-byte entries that fits.

	tt := search.NewTranspositionTable(ctx, 0x1000)
	assert.Equal(t, uint64(0x1000), tt.Size())
	tt2 := search.NewTranspositionTable(ctx, 0x1f00)
	assert.Equal(t, uint64(0x1000), tt2.Size())

	// (2) Read/write round-trip, hash-guarded.

	a := board.ZobristHash(rand.Uint64())

	_, _, _, _, ok := tt.Read(a)
	assert.False(t, ok)

	m := board.Move{From: board.NewSquare(board.ZeroFile, board.Rank4), To: board.NewSquare(board.ZeroFile, board.Rank8), Promotion: board.Queen}
	s := eval.Score(200)
	tt.Write(a, search.ExactBound, 2, s, m)

	bound, depth, score, move, ok := tt.Read(a)
	assert.True(t, ok)
	assert.Equal(t, search.ExactBound, bound)
	assert.Equal(t, 2, depth)
	assert.Equal(t, s, score)
	assert.Equal(t, m, move)

	// A different hash mapping to the same bucket must never return this entry.

	_, _, _, _, ok = tt.Read(a ^ (1 << 63))
	assert.False(t, ok)
}

func TestNoTranspositionTable(t *testing.T) {
	var tt search.NoTranspositionTable

	_, _, _, _, ok := tt.Read(42)
	assert.False(t, ok)
	assert.False(t, tt.Write(42, search.ExactBound, 1, eval.Zero, board.Move{}))
	assert.Equal(t, uint64(0), tt.Size())
}
