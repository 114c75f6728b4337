package eval

import (
	"math/rand"

	"github.com/herohde/morlock/pkg/board"
)

// noisy wraps an Evaluator and adds a small amount of deterministic-per-seed
// randomness to its score, in the range [-limit/2;limit/2] millipawns. Used
// to keep the engine from playing the identical game every time against
// itself at low search depths.
type noisy struct {
	eval  Evaluator
	rand  *rand.Rand
	limit int
}

// Randomize wraps e so that every evaluation is perturbed by up to limit
// millipawns of noise, seeded by seed. A limit of zero returns e unchanged.
func Randomize(e Evaluator, limit int, seed int64) Evaluator {
	if limit <= 0 {
		return e
	}
	return &noisy{eval: e, rand: rand.New(rand.NewSource(seed)), limit: limit}
}

func (n *noisy) Evaluate(pos *board.Position) Score {
	millipawns := n.rand.Intn(n.limit) - n.limit/2
	return n.eval.Evaluate(pos) + Score(millipawns/10)
}
