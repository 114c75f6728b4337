package search_test

import (
	"context"
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/herohde/morlock/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoard(t *testing.T, position string) *board.Board {
	t.Helper()

	zt := board.NewZobristTable(1)
	pos, _, _, _, err := fen.Decode(zt, position)
	require.NoError(t, err)
	return board.NewBoard(pos)
}

// run drives s.Search to completion (no stop signal, no TT) and returns the
// last PV emitted, the final-answer contract of Search.
func run(t *testing.T, s *search.Searcher, b *board.Board, depth int) search.PV {
	t.Helper()

	stop := make(chan struct{})
	out := make(chan search.PV, 64)

	err := s.Search(context.Background(), b, search.NoTranspositionTable{}, stop, search.SearchConfig{DepthLimit: depth}, out)
	require.NoError(t, err)
	close(out)

	var last search.PV
	for pv := range out {
		last = pv
	}
	return last
}

// TestMateInOne finds the single mating move.
func TestMateInOne(t *testing.T) {
	b := newBoard(t, "8/8/8/8/7k/8/5R2/K5R1 w - - 0 1")
	s := search.NewSearcher(eval.Material{})

	pv := run(t, s, b, 2)
	require.NotEmpty(t, pv.Moves)
	assert.Equal(t, "f2h2", pv.Moves[0].String())
}

// TestMateInTwo finds a forced mate two plies out starting with one of the
// two cooperating first moves.
func TestMateInTwo(t *testing.T) {
	b := newBoard(t, "8/7k/8/8/8/8/5R2/K3R3 w - - 0 1")
	s := search.NewSearcher(eval.Material{})

	pv := run(t, s, b, 4)
	require.NotEmpty(t, pv.Moves)
	assert.Contains(t, []string{"f2g2", "e1g1"}, pv.Moves[0].String())
}

// TestTakeTheRook prefers recapturing material back to an even balance over
// leaving the rook on the board.
func TestTakeTheRook(t *testing.T) {
	b := newBoard(t, "k7/8/8/8/8/8/8/Kr6 w - - 0 1")
	s := search.NewSearcher(eval.Material{})

	pv := run(t, s, b, 3)
	require.NotEmpty(t, pv.Moves)
	assert.Equal(t, "a1b1", pv.Moves[0].String())
	assert.Equal(t, eval.Zero, pv.Score)
}

// TestAvoidTheCapturablePawn rejects b6b5, which hangs the pawn to the
// knight on c3 and the bishop on f1, and keeps the resulting score non-negative.
func TestAvoidTheCapturablePawn(t *testing.T) {
	b := newBoard(t, "rnbqkbnr/2pppppp/1p6/p7/3PP3/2N2N2/PPP2PPP/R1BQKB1R b KQkq - 0 1")
	s := search.NewSearcher(eval.Material{})

	pv := run(t, s, b, 4)
	require.NotEmpty(t, pv.Moves)
	assert.NotEqual(t, "b6b5", pv.Moves[0].String())
	assert.GreaterOrEqual(t, int(pv.Score), 0)
}

// TestStalemateReturnsDraw scores a bare-kings root position as a draw
// rather than a loss. The root itself is not stalemated; every line ends in
// a draw by insufficient material, which scores Zero just as stalemate does.
func TestStalemateReturnsDraw(t *testing.T) {
	b := newBoard(t, "k7/8/8/8/8/8/8/K7 w - - 0 1")
	s := search.NewSearcher(eval.Material{})

	pv := run(t, s, b, 5)
	assert.Equal(t, eval.Zero, pv.Score)
}

// TestSearchRestoresBoardOnCompletion checks that b's position is unchanged
// by a full, uncancelled search -- every pushed move must be popped.
func TestSearchRestoresBoardOnCompletion(t *testing.T) {
	b := newBoard(t, fen.Initial)
	hash := b.Hash()

	s := search.NewSearcher(eval.Material{})
	run(t, s, b, 3)

	assert.Equal(t, hash, b.Hash())
}

// TestSearchCancellation checks that a stop signalled before the first
// depth completes yields ErrHalted and leaves the board untouched.
func TestSearchCancellation(t *testing.T) {
	b := newBoard(t, fen.Initial)
	hash := b.Hash()

	stop := make(chan struct{})
	close(stop)

	s := search.NewSearcher(eval.Material{})
	out := make(chan search.PV, 64)

	err := s.Search(context.Background(), b, search.NoTranspositionTable{}, stop, search.SearchConfig{DepthLimit: 4}, out)
	assert.ErrorIs(t, err, search.ErrHalted)
	assert.Equal(t, hash, b.Hash())
}
