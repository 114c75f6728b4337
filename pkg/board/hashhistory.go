package board

// positionHashHistoryInitialCapacity sizes the backing slice to avoid
// reallocation for a typical game length between irreversible moves.
const positionHashHistoryInitialCapacity = 100

// PositionHashHistory tracks the Zobrist hashes reachable since the last
// irreversible move (a pawn move or a capture), for repetition detection.
// Any hash in the window recurring counts, not just the hash the window
// began at, matching the repetition rule as stated generally.
type PositionHashHistory struct {
	hashes []ZobristHash
}

// NewPositionHashHistory starts a new history rooted at the given hash.
func NewPositionHashHistory(initial ZobristHash) *PositionHashHistory {
	h := &PositionHashHistory{hashes: make([]ZobristHash, 0, positionHashHistoryInitialCapacity)}
	h.hashes = append(h.hashes, initial)
	return h
}

// ResetWith discards the window and starts a new one at hash, called after an
// irreversible move makes all prior hashes unreachable again.
func (h *PositionHashHistory) ResetWith(hash ZobristHash) {
	h.hashes = append(h.hashes[:0], hash)
}

// Push appends hash to the window, called after a reversible move.
func (h *PositionHashHistory) Push(hash ZobristHash) {
	h.hashes = append(h.hashes, hash)
}

// Count returns the number of positions tracked in the current window.
func (h *PositionHashHistory) Count() int {
	return len(h.hashes)
}

// RepetitionCount returns the number of times the most recent hash has
// appeared in the window, including itself.
func (h *PositionHashHistory) RepetitionCount() int {
	if len(h.hashes) == 0 {
		return 0
	}

	cur := h.hashes[len(h.hashes)-1]
	count := 0
	for _, p := range h.hashes {
		if p == cur {
			count++
		}
	}
	return count
}

// IsThreefoldRepetition returns true iff the most recent hash has appeared at
// least 3 times in the window.
func (h *PositionHashHistory) IsThreefoldRepetition() bool {
	return h.RepetitionCount() >= 3
}

func (h *PositionHashHistory) clone() *PositionHashHistory {
	return &PositionHashHistory{hashes: append([]ZobristHash(nil), h.hashes...)}
}

func (h *PositionHashHistory) snapshot() []ZobristHash {
	return append([]ZobristHash(nil), h.hashes...)
}

func (h *PositionHashHistory) restore(snapshot []ZobristHash) {
	h.hashes = snapshot
}
