package search

import (
	"fmt"
	"time"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
)

// PV is a principal-variation result reported once per completed
// iterative-deepening depth: the searcher's best known line and its score,
// plus node/time statistics (see Stats).
type PV struct {
	Depth int
	Nodes uint64
	Score eval.Score
	Moves []board.Move
	Time  time.Duration
	Hash  float64 // transposition table utilization, [0;1]
}

// FirstMove returns the head of the principal variation, the move the
// searcher recommends playing, if any.
func (pv PV) FirstMove() (board.Move, bool) {
	if len(pv.Moves) == 0 {
		return board.Move{}, false
	}
	return pv.Moves[0], true
}

func (pv PV) String() string {
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v pv=[%v]", pv.Depth, pv.Score, pv.Nodes, pv.Time, board.PrintMoves(pv.Moves))
}
