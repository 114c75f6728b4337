package search

import (
	"context"
	"time"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
)

// SearchConfig bounds one Searcher.Search call. DepthLimit of zero means
// unbounded: search until the stop signal fires or a forced mate is found.
type SearchConfig struct {
	DepthLimit int
}

// Searcher is the iterative-deepening negamax searcher. It owns no state
// across calls to Search -- a fresh Stats is created per search -- so one
// Searcher is safely reused across an engine's lifetime.
type Searcher struct {
	Eval eval.Evaluator
}

// NewSearcher returns a Searcher using e for leaf evaluation.
func NewSearcher(e eval.Evaluator) *Searcher {
	return &Searcher{Eval: e}
}

// Search runs iterative deepening from depth 1 to cfg.DepthLimit (or
// forever, if zero), negamax alpha-beta at each depth over the full
// (Min,Max) window, and sends one PV per completed depth on out. The last
// value sent before Search returns is the final answer; out is never closed
// by Search. Search returns ErrHalted iff stop fired before a depth
// completed -- the aggregator treats that as "no new result", not an error
// surfaced to the user.
//
// b is mutated and restored (via Position.MakeMove/UnmakeMove) throughout --
// it must not be read or written concurrently while Search is running, and
// it is returned to its initial value when Search returns, including on
// ErrHalted.
func (s *Searcher) Search(ctx context.Context, b *board.Board, tt TranspositionTable, stop <-chan struct{}, cfg SearchConfig, out chan<- PV) error {
	if tt == nil {
		tt = NoTranspositionTable{}
	}
	stats := &Stats{}

	for depth := 1; cfg.DepthLimit == 0 || depth <= cfg.DepthLimit; depth++ {
		select {
		case <-stop:
			return ErrHalted
		default:
		}

		start := time.Now()
		score, moves, err := s.negamax(b, tt, stats, stop, eval.Min, eval.Max, depth, 0)
		if err != nil {
			return err
		}

		pv := PV{
			Depth: depth,
			Nodes: stats.Nodes.Load(),
			Score: score,
			Moves: moves,
			Time:  time.Since(start),
			Hash:  tt.Used(),
		}
		out <- pv

		if len(moves) == 0 {
			return nil // no legal moves at the root: checkmate or stalemate
		}
		if md, ok := score.MateDistance(); ok && md <= depth {
			return nil // forced mate found within a full-width search: exact result
		}
	}
	return nil
}

// negamax searches one node to remaining depth, returning its side-to-move-
// relative score and the line that achieves it: stop check, TT probe, leaf
// evaluation, repetition draw, checkmate/stalemate, then move generation
// ordered TT-move-first and by MoveBuffer priority, recursing with the
// window negated.
func (s *Searcher) negamax(b *board.Board, tt TranspositionTable, stats *Stats, stop <-chan struct{}, alpha, beta eval.Score, depth, ply int) (eval.Score, []board.Move, error) {
	select {
	case <-stop:
		return 0, nil, ErrHalted
	default:
	}
	stats.Nodes.Inc()

	hash := b.Hash()
	origAlpha := alpha

	var ttMove board.Move
	if bound, ttDepth, score, move, ok := tt.Read(hash); ok {
		if move != (board.Move{}) {
			ttMove = move
		}
		if ttDepth >= depth {
			switch bound {
			case ExactBound:
				return score, []board.Move{move}, nil
			case LowerBound:
				if score > alpha {
					alpha = score
				}
			case UpperBound:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score, []board.Move{move}, nil
			}
		}
	}

	if depth == 0 {
		return s.Eval.Evaluate(b.Position()), nil, nil
	}
	if b.Outcome().Result == board.Draw {
		return eval.Zero, nil, nil
	}

	var buf board.MoveBuffer
	b.Position().GenerateLegalMoves(&buf)
	if buf.Len() == 0 {
		if outcome := b.AdjudicateNoLegalMoves(); outcome.Reason == board.Checkmate {
			return eval.Checkmated + eval.Score(ply), nil, nil
		}
		return eval.Zero, nil, nil // stalemate
	}

	if ttMove != (board.Move{}) {
		buf.SetPriority(ttMove, 255)
	}

	var bestMove board.Move
	var bestPV []board.Move

	for {
		m, ok := buf.Pop()
		if !ok {
			break
		}

		b.PushMove(m)
		childScore, childPV, err := s.negamax(b, tt, stats, stop, -beta, -alpha, depth-1, ply+1)
		b.PopMove()
		if err != nil {
			return 0, nil, err
		}
		score := -childScore

		if bestMove == (board.Move{}) {
			bestMove = m
			bestPV = append([]board.Move{m}, childPV...)
		}
		if score >= beta {
			tt.Write(hash, LowerBound, depth, score, m)
			return score, append([]board.Move{m}, childPV...), nil
		}
		if score > alpha {
			alpha = score
			bestMove = m
			bestPV = append([]board.Move{m}, childPV...)
		}
	}

	bound := ExactBound
	if alpha <= origAlpha {
		bound = UpperBound
	}
	tt.Write(hash, bound, depth, alpha, bestMove)

	return alpha, bestPV, nil
}
