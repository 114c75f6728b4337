package board

// GenerateLegalMoves appends every legal move in the position to buf (which
// is cleared first) and returns true iff the side to move is in check.
//
// The algorithm follows the standard king-danger/pin/mask shape: find the
// king's legal destinations first (computed against occupancy with the king
// itself removed, so sliding checkers "see through" the square it is
// leaving), count checkers, derive a capture/push mask that every other
// piece's moves must land in when in check, find absolutely pinned pieces
// and restrict them to their pin ray, and finally generate the remaining
// piece and pawn moves against those masks.
func (p *Position) GenerateLegalMoves(buf *MoveBuffer) bool {
	buf.Clear()

	turn := p.turn
	opp := turn.Opponent()
	occ := p.Occupancy()
	ownOcc := p.pieces[turn][NoPiece]
	oppOcc := p.pieces[opp][NoPiece]

	kingSq := p.KingSquare(turn)
	occNoKing := occ &^ kingSq.Bit()

	checkers := p.attackersTo(kingSq, occ, opp)
	numCheckers := checkers.PopCount()
	inCheck := numCheckers > 0

	p.addPieceMoves(buf, kingSq, King, p.kingTargets(kingSq, occNoKing, ownOcc, opp), oppOcc)

	if numCheckers >= 2 {
		// Double check: only king moves are legal.
		return true
	}

	var allowDest Bitboard
	if numCheckers == 1 {
		checkerSq := checkers.FirstPopSquare()
		_, checkerPiece, _ := p.PieceAt(checkerSq)

		allowDest = checkers // must capture the checker...
		if isSlider(checkerPiece) {
			allowDest |= between(kingSq, checkerSq) // ...or block the check
		}
	} else {
		allowDest = ^EmptyBitboard
	}

	pins := p.findPins(turn, kingSq, occ)
	maskFor := func(sq Square) Bitboard {
		for i := 0; i < pins.count; i++ {
			if pins.square[i] == sq {
				return pins.mask[i]
			}
		}
		return ^EmptyBitboard
	}

	for kn := p.pieces[turn][Knight]; kn != 0; {
		sq := kn.FirstPopSquare()
		kn &^= sq.Bit()
		targets := KnightAttackboard(sq) &^ ownOcc & allowDest & maskFor(sq)
		p.addPieceMoves(buf, sq, Knight, targets, oppOcc)
	}
	for bi := p.pieces[turn][Bishop]; bi != 0; {
		sq := bi.FirstPopSquare()
		bi &^= sq.Bit()
		targets := BishopAttackboard(occ, sq) &^ ownOcc & allowDest & maskFor(sq)
		p.addPieceMoves(buf, sq, Bishop, targets, oppOcc)
	}
	for ro := p.pieces[turn][Rook]; ro != 0; {
		sq := ro.FirstPopSquare()
		ro &^= sq.Bit()
		targets := RookAttackboard(occ, sq) &^ ownOcc & allowDest & maskFor(sq)
		p.addPieceMoves(buf, sq, Rook, targets, oppOcc)
	}
	for qu := p.pieces[turn][Queen]; qu != 0; {
		sq := qu.FirstPopSquare()
		qu &^= sq.Bit()
		targets := QueenAttackboard(occ, sq) &^ ownOcc & allowDest & maskFor(sq)
		p.addPieceMoves(buf, sq, Queen, targets, oppOcc)
	}

	p.addPawnMoves(buf, turn, occ, oppOcc, allowDest, maskFor)

	if numCheckers == 0 {
		p.addCastlingMoves(buf, turn, occ, opp)
	}

	return inCheck
}

// kingTargets returns the king's legal destination squares: adjacent squares
// not occupied by a friendly piece and not attacked by the opponent, where
// "attacked" is evaluated with the king itself removed from occupancy so a
// slider checking the king cannot be escaped by stepping straight back along
// its own ray.
func (p *Position) kingTargets(kingSq Square, occNoKing, ownOcc Bitboard, opp Color) Bitboard {
	var legal Bitboard
	for t := KingAttackboard(kingSq) &^ ownOcc; t != 0; {
		sq := t.FirstPopSquare()
		t &^= sq.Bit()
		if p.attackersTo(sq, occNoKing, opp) == 0 {
			legal |= sq.Bit()
		}
	}
	return legal
}

// attackersTo returns the bitboard of by-colored pieces attacking sq, given
// the occupancy occ (which callers may adjust, e.g. to remove the king or
// simulate an en passant capture).
func (p *Position) attackersTo(sq Square, occ Bitboard, by Color) Bitboard {
	var att Bitboard
	att |= KnightAttackboard(sq) & p.pieces[by][Knight]
	att |= KingAttackboard(sq) & p.pieces[by][King]
	att |= RookAttackboard(occ, sq) & (p.pieces[by][Rook] | p.pieces[by][Queen])
	att |= BishopAttackboard(occ, sq) & (p.pieces[by][Bishop] | p.pieces[by][Queen])
	if by == White {
		att |= (stepSouthWest(sq.Bit()) | stepSouthEast(sq.Bit())) & p.pieces[White][Pawn]
	} else {
		att |= (stepNorthWest(sq.Bit()) | stepNorthEast(sq.Bit())) & p.pieces[Black][Pawn]
	}
	return att
}

// pinSet holds the absolutely pinned pieces found for the side to move, along
// with the ray (king-to-slider, inclusive of the slider) each is confined to.
// At most 8 pins are possible (one per ray direction from the king).
type pinSet struct {
	square [8]Square
	mask   [8]Bitboard
	count  int
}

func (p *Position) findPins(turn Color, kingSq Square, occ Bitboard) pinSet {
	var pins pinSet

	rookSliders := p.pieces[turn.Opponent()][Rook] | p.pieces[turn.Opponent()][Queen]
	for _, step := range rookSteps {
		if sq, ray, ok := p.findPin(turn, kingSq, step, rookSliders, occ); ok {
			pins.square[pins.count] = sq
			pins.mask[pins.count] = ray
			pins.count++
		}
	}

	bishopSliders := p.pieces[turn.Opponent()][Bishop] | p.pieces[turn.Opponent()][Queen]
	for _, step := range bishopSteps {
		if sq, ray, ok := p.findPin(turn, kingSq, step, bishopSliders, occ); ok {
			pins.square[pins.count] = sq
			pins.mask[pins.count] = ray
			pins.count++
		}
	}

	return pins
}

var rookSteps = [...]func(Bitboard) Bitboard{stepNorth, stepSouth, stepEast, stepWest}
var bishopSteps = [...]func(Bitboard) Bitboard{stepNorthEast, stepNorthWest, stepSouthEast, stepSouthWest}

// findPin walks outward from kingSq in one direction. If the first occupied
// square holds a friendly piece and the next occupied square beyond it holds
// an enemy slider in sliders, the friendly piece is pinned: it returns the
// pinned square and the ray from just past the king through the slider
// (inclusive), which is the full set of squares the pinned piece may still
// move to.
func (p *Position) findPin(turn Color, kingSq Square, step func(Bitboard) Bitboard, sliders Bitboard, occ Bitboard) (Square, Bitboard, bool) {
	own := p.pieces[turn][NoPiece]

	b := kingSq.Bit()
	var ray Bitboard
	firstOwn := NoSquare

	for {
		b = step(b)
		if b == EmptyBitboard {
			return NoSquare, 0, false
		}
		ray |= b

		if b&occ == 0 {
			continue
		}
		if firstOwn == NoSquare {
			if b&own == 0 {
				return NoSquare, 0, false // enemy piece first: not a pin (may be the checker itself)
			}
			firstOwn = b.FirstPopSquare()
			continue
		}
		if b&sliders != 0 {
			return firstOwn, ray, true
		}
		return NoSquare, 0, false
	}
}

func isSlider(piece Piece) bool {
	return piece == Bishop || piece == Rook || piece == Queen
}

// between returns the squares strictly between a and b, which must lie on a
// shared rank, file or diagonal.
func between(a, b Square) Bitboard {
	ra, fa := int(a.Rank()), int(a.File())
	rb, fb := int(b.Rank()), int(b.File())
	dr, df := sign(rb-ra), sign(fb-fa)

	var ret Bitboard
	for r, f := ra+dr, fa+df; r != rb || f != fb; r, f = r+dr, f+df {
		ret |= NewSquare(File(f), Rank(r)).Bit()
	}
	return ret
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func (p *Position) addPieceMoves(buf *MoveBuffer, from Square, piece Piece, targets, oppOcc Bitboard) {
	for targets != 0 {
		sq := targets.FirstPopSquare()
		targets &^= sq.Bit()

		if oppOcc&sq.Bit() != 0 {
			_, capture, _ := p.PieceAt(sq)
			buf.Push(Move{Type: Capture, From: from, To: sq, Piece: piece, Capture: capture})
		} else {
			buf.Push(Move{Type: Normal, From: from, To: sq, Piece: piece})
		}
	}
}

func (p *Position) addPawnMoves(buf *MoveBuffer, turn Color, occ, oppOcc, allowDest Bitboard, maskFor func(Square) Bitboard) {
	var forward func(Bitboard) Bitboard
	var startRank, promoRank Bitboard
	if turn == White {
		forward = stepNorth
		startRank = BitRank(Rank2)
	} else {
		forward = stepSouth
		startRank = BitRank(Rank7)
	}
	promoRank = PawnPromotionRank(turn)

	opp := turn.Opponent()
	kingSq := p.KingSquare(turn)

	for pawns := p.pieces[turn][Pawn]; pawns != 0; {
		sq := pawns.FirstPopSquare()
		pawns &^= sq.Bit()
		mask := maskFor(sq)

		single := forward(sq.Bit()) &^ occ
		if single != 0 {
			if single&allowDest&mask != 0 {
				p.addPawnMove(buf, sq, single.FirstPopSquare(), NoPiece, promoRank)
			}
			if sq.Bit()&startRank != 0 {
				double := forward(single) &^ occ
				if double != 0 && double&allowDest&mask != 0 {
					buf.Push(Move{Type: Jump, From: sq, To: double.FirstPopSquare(), Piece: Pawn})
				}
			}
		}

		for caps := PawnCaptureboard(turn, sq.Bit()) & oppOcc & allowDest & mask; caps != 0; {
			to := caps.FirstPopSquare()
			caps &^= to.Bit()
			_, capture, _ := p.PieceAt(to)
			p.addPawnMove(buf, sq, to, capture, promoRank)
		}

		if ep, ok := p.EnPassant(); ok && PawnCaptureboard(turn, sq.Bit())&ep.Bit() != 0 {
			// Simulate the capture and re-check king safety directly: en
			// passant is the one move that vacates two squares at once, so
			// the pin/mask machinery above cannot express it. The captured
			// pawn is masked out of the attacker set by square, since it is
			// still present in the piece bitboards during the simulation.
			capSq := enPassantCaptureSquare(sq, ep)
			occ2 := (occ &^ sq.Bit() &^ capSq.Bit()) | ep.Bit()
			if p.attackersTo(kingSq, occ2, opp)&^capSq.Bit() == 0 {
				buf.Push(Move{Type: EnPassant, From: sq, To: ep, Piece: Pawn, Capture: Pawn})
			}
		}
	}
}

func (p *Position) addPawnMove(buf *MoveBuffer, from, to Square, capture Piece, promoRank Bitboard) {
	if to.Bit()&promoRank != 0 {
		mt := Promotion
		if capture != NoPiece {
			mt = CapturePromotion
		}
		for _, promo := range [...]Piece{Knight, Bishop, Rook, Queen} {
			buf.Push(Move{Type: mt, From: from, To: to, Piece: Pawn, Promotion: promo, Capture: capture})
		}
		return
	}

	mt := Push
	if capture != NoPiece {
		mt = Capture
	}
	buf.Push(Move{Type: mt, From: from, To: to, Piece: Pawn, Capture: capture})
}

func (p *Position) addCastlingMoves(buf *MoveBuffer, turn Color, occ Bitboard, opp Color) {
	attacked := func(sq Square) bool {
		return p.attackersTo(sq, occ, opp) != 0
	}

	if turn == White {
		if p.castling.IsAllowed(WhiteKingSideCastle) && occ&(F1.Bit()|G1.Bit()) == 0 &&
			!attacked(F1) && !attacked(G1) {
			buf.Push(Move{Type: KingSideCastle, From: E1, To: G1, Piece: King})
		}
		if p.castling.IsAllowed(WhiteQueenSideCastle) && occ&(B1.Bit()|C1.Bit()|D1.Bit()) == 0 &&
			!attacked(D1) && !attacked(C1) {
			buf.Push(Move{Type: QueenSideCastle, From: E1, To: C1, Piece: King})
		}
		return
	}

	if p.castling.IsAllowed(BlackKingSideCastle) && occ&(F8.Bit()|G8.Bit()) == 0 &&
		!attacked(F8) && !attacked(G8) {
		buf.Push(Move{Type: KingSideCastle, From: E8, To: G8, Piece: King})
	}
	if p.castling.IsAllowed(BlackQueenSideCastle) && occ&(B8.Bit()|C8.Bit()|D8.Bit()) == 0 &&
		!attacked(D8) && !attacked(C8) {
		buf.Push(Move{Type: QueenSideCastle, From: E8, To: C8, Piece: King})
	}
}

// FindLegalMove looks up the fully-populated legal move matching m's
// From/To/Promotion fields (e.g. as parsed from UCI coordinate notation),
// filling in Type/Piece/Capture. Returns false if m is not legal.
func (p *Position) FindLegalMove(buf *MoveBuffer, m Move) (Move, bool) {
	p.GenerateLegalMoves(buf)
	for i := 0; i < buf.Len(); i++ {
		cand := buf.Get(i)
		if cand.Equals(m) {
			return cand, true
		}
	}
	return Move{}, false
}
