// Package board contains chess board representation and utilities.
package board

import "fmt"

const noprogressLimit = 100 // halfmove clock ceiling: the 50-move rule

const (
	repetition3Limit = 3
	repetition5Limit = 5
)

// Result is the outcome of a game, if decided. 2 bits.
type Result uint8

const (
	Undecided Result = iota
	WhiteWins
	BlackWins
	Draw
)

func (r Result) String() string {
	switch r {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// Loss returns the result of turn losing, i.e., the opponent winning.
func Loss(turn Color) Result {
	if turn == White {
		return BlackWins
	}
	return WhiteWins
}

// Reason names why a game ended in its Result.
type Reason uint8

const (
	NoReason Reason = iota
	Checkmate
	Stalemate
	Repetition3
	Repetition5
	NoProgress
	InsufficientMaterial
)

func (r Reason) String() string {
	switch r {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Repetition3:
		return "threefold repetition"
	case Repetition5:
		return "fivefold repetition"
	case NoProgress:
		return "50-move rule"
	case InsufficientMaterial:
		return "insufficient material"
	default:
		return "none"
	}
}

// Outcome bundles a Result with the Reason it was reached.
type Outcome struct {
	Result Result
	Reason Reason
}

func (o Outcome) String() string {
	if o.Result == Undecided {
		return "undecided"
	}
	return fmt.Sprintf("%v (%v)", o.Result, o.Reason)
}

type entry struct {
	move       Move
	undo       Undo
	prevHashes []ZobristHash // PositionHashHistory snapshot before this move, for PopMove
}

// Board layers game-level bookkeeping -- move history, draw adjudication and
// forking -- on top of a mutable Position. Not thread-safe.
type Board struct {
	pos     *Position
	hist    *PositionHashHistory
	moves   []entry
	outcome Outcome
}

// NewBoard returns a board starting from pos.
func NewBoard(pos *Position) *Board {
	return &Board{pos: pos, hist: NewPositionHashHistory(pos.Hash())}
}

// Fork returns an independent copy of the board, safe to mutate (including via
// PushMove/PopMove) without affecting the original.
func (b *Board) Fork() *Board {
	posCopy := *b.pos
	return &Board{
		pos:     &posCopy,
		hist:    b.hist.clone(),
		moves:   append([]entry(nil), b.moves...),
		outcome: b.outcome,
	}
}

func (b *Board) Position() *Position { return b.pos }
func (b *Board) Turn() Color         { return b.pos.Turn() }
func (b *Board) Hash() ZobristHash   { return b.pos.Hash() }
func (b *Board) Outcome() Outcome    { return b.outcome }

// Ply returns the number of moves made on this board since construction.
func (b *Board) Ply() int { return len(b.moves) }

// PushMove applies a legal move, as returned by Position.GenerateLegalMoves,
// and updates draw adjudication. The move is assumed legal; it is the
// caller's responsibility to have generated it from this board's position.
func (b *Board) PushMove(m Move) {
	prevHashes := b.hist.snapshot()

	undo := b.pos.MakeMove(m)
	b.moves = append(b.moves, entry{move: m, undo: undo, prevHashes: prevHashes})

	if m.Piece == Pawn || m.Type.IsCapture() {
		b.hist.ResetWith(b.pos.Hash())
	} else {
		b.hist.Push(b.pos.Hash())
	}

	b.updateOutcome()
}

// PopMove reverses the last PushMove. Returns false if there is no move to undo.
func (b *Board) PopMove() (Move, bool) {
	if len(b.moves) == 0 {
		return Move{}, false
	}

	last := b.moves[len(b.moves)-1]
	b.moves = b.moves[:len(b.moves)-1]

	b.pos.UnmakeMove(last.move, last.undo)
	b.hist.restore(last.prevHashes)
	b.outcome = Outcome{} // a legal move existed here, so the position wasn't terminal

	return last.move, true
}

// AdjudicateNoLegalMoves adjudicates the position assuming the side to move
// has no legal moves: checkmate if in check, stalemate otherwise.
func (b *Board) AdjudicateNoLegalMoves() Outcome {
	outcome := Outcome{Result: Draw, Reason: Stalemate}
	if b.pos.InCheck(b.pos.Turn()) {
		outcome = Outcome{Result: Loss(b.pos.Turn()), Reason: Checkmate}
	}
	b.outcome = outcome
	return outcome
}

// Adjudicate forces the given outcome, e.g. resignation or a claimed draw.
func (b *Board) Adjudicate(outcome Outcome) {
	b.outcome = outcome
}

func (b *Board) updateOutcome() {
	switch {
	case b.hist.RepetitionCount() >= repetition5Limit:
		b.outcome = Outcome{Result: Draw, Reason: Repetition5}
	case b.hist.RepetitionCount() >= repetition3Limit:
		b.outcome = Outcome{Result: Draw, Reason: Repetition3}
	case b.pos.HalfmoveClock() >= noprogressLimit:
		b.outcome = Outcome{Result: Draw, Reason: NoProgress}
	case b.pos.HasInsufficientMaterial():
		b.outcome = Outcome{Result: Draw, Reason: InsufficientMaterial}
	}
}

// LastMove returns the last move made, if any.
func (b *Board) LastMove() (Move, bool) {
	if len(b.moves) == 0 {
		return Move{}, false
	}
	return b.moves[len(b.moves)-1].move, true
}

// HasCastled returns true iff c has castled on this board.
func (b *Board) HasCastled(c Color) bool {
	t := b.pos.Turn().Opponent() // mover of the most recent move
	for i := len(b.moves) - 1; i >= 0; i-- {
		if t == c && b.moves[i].move.Type.IsCastle() {
			return true
		}
		t = t.Opponent()
	}
	return false
}

func (b *Board) String() string {
	return fmt.Sprintf("board{pos=%v turn=%v hash=%x ply=%v outcome=%v}", b.pos, b.pos.Turn(), b.pos.Hash(), b.Ply(), b.outcome)
}
