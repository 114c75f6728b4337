package eval_test

import (
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, position string) *board.Position {
	t.Helper()

	zt := board.NewZobristTable(1)
	pos, _, _, _, err := fen.Decode(zt, position)
	require.NoError(t, err)
	return pos
}

// TestScoreNegationIsLossless checks the sentinel contract required by
// negamax: negating a score twice must recover the original exactly,
// including at the Min/Max extremes.
func TestScoreNegationIsLossless(t *testing.T) {
	for _, s := range []eval.Score{eval.Zero, eval.Max, eval.Min, eval.Checkmated, 42, -42} {
		assert.Equal(t, s, -(-s))
	}
	assert.Equal(t, eval.Min, -eval.Max)
	assert.Equal(t, eval.Max, -eval.Min)
}

func TestScoreMateDistance(t *testing.T) {
	losing := eval.Checkmated + 3
	d, ok := losing.MateDistance()
	assert.True(t, ok)
	assert.Equal(t, 3, d)

	winning := -losing
	d, ok = winning.MateDistance()
	assert.True(t, ok)
	assert.Equal(t, 3, d)

	assert.False(t, eval.Score(500).IsMateScore())
}

func TestMaterialEvaluatesStartingPositionAsBalanced(t *testing.T) {
	pos := decode(t, fen.Initial)
	assert.Equal(t, eval.Zero, eval.Material{}.Evaluate(pos))
}

func TestMaterialFavorsSideUpMaterial(t *testing.T) {
	// White has an extra queen.
	pos := decode(t, "4k3/8/8/8/8/8/8/Q3K3 w - - 0 1")
	assert.Greater(t, int(eval.Material{}.Evaluate(pos)), 0)
}

func TestMaterialPSTAgreesWithMaterialOnBalancedMaterial(t *testing.T) {
	pos := decode(t, fen.Initial)

	material := eval.Material{}.Evaluate(pos)
	pst := eval.MaterialPST{}.Evaluate(pos)

	// The symmetric starting position has no positional imbalance, so the
	// two evaluators must agree exactly.
	assert.Equal(t, material, pst)
}

func TestNominalValueGainPrefersWinningCaptures(t *testing.T) {
	pxq := board.Move{Type: board.Capture, Piece: board.Pawn, Capture: board.Queen}
	qxp := board.Move{Type: board.Capture, Piece: board.Queen, Capture: board.Pawn}

	assert.Greater(t, int(eval.NominalValueGain(pxq)), int(eval.NominalValueGain(qxp)))
}

func TestRandomizeIsDeterministicForAGivenSeed(t *testing.T) {
	pos := decode(t, fen.Initial)

	a := eval.Randomize(eval.Material{}, 50, 7)
	b := eval.Randomize(eval.Material{}, 50, 7)

	assert.Equal(t, a.Evaluate(pos), b.Evaluate(pos))
}

func TestRandomizeWithZeroLimitReturnsBaseEvaluator(t *testing.T) {
	base := eval.Material{}
	assert.Equal(t, eval.Evaluator(base), eval.Randomize(base, 0, 7))
}
