package eval

import "fmt"

// Score is a side-to-move-relative position or move score in centipawns.
// Positive favors the side to move. Max/Min are defined explicitly rather
// than relying on the type's two's-complement minimum, so that negation is
// always lossless: -(-s) == s for every representable s, including the
// extremes.
type Score int32

const (
	// Zero is a balanced or drawn score.
	Zero Score = 0

	// Max is the largest representable score.
	Max Score = 1 << 24

	// Min is the smallest representable score, the exact negation of Max.
	Min Score = -Max

	// Checkmated is the score of a side that has just been checkmated, before
	// mate-distance adjustment (see MateDistance). Halfway between Min and
	// Zero, leaving headroom below it for Checkmated+ply arithmetic across
	// any plausible search depth without colliding with Min itself.
	Checkmated Score = Min / 2

	// mateThreshold is the boundary below which (or, negated, above which) a
	// score is recognized as a mate score rather than a heuristic evaluation.
	// No material+PST evaluation comes within orders of magnitude of this.
	mateThreshold Score = Checkmated / 2
)

func (s Score) String() string {
	if d, ok := s.MateDistance(); ok {
		return fmt.Sprintf("mate %d", d)
	}
	return fmt.Sprintf("%.2f", float64(s)/100)
}

// IsMateScore returns true iff s represents a forced mate rather than a
// heuristic evaluation.
func (s Score) IsMateScore() bool {
	_, ok := s.MateDistance()
	return ok
}

// MateDistance returns the number of plies until the mate that produced s --
// positive whether s describes delivering or suffering the mate -- and true
// iff s is a mate score at all.
func (s Score) MateDistance() (int, bool) {
	switch {
	case s <= mateThreshold:
		return int(s - Checkmated), true
	case s >= -mateThreshold:
		return int(-s - Checkmated), true
	default:
		return 0, false
	}
}

// Crop clamps s into [Min;Max].
func Crop(s Score) Score {
	switch {
	case s > Max:
		return Max
	case s < Min:
		return Min
	default:
		return s
	}
}
