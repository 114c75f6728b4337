package searchctl

import (
	"context"
	"fmt"
	"github.com/herohde/morlock/pkg/board"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"time"
)

// timeControlDivisor is N in the "remaining/N plus increment" move-time
// budget: spend a twentieth of the clock per move, plus whatever the
// increment gives back.
const timeControlDivisor = 20

// TimeControl represents time control information.
type TimeControl struct {
	White, Black                   time.Duration
	WhiteIncrement, BlackIncrement time.Duration
	Moves                          int // 0 == rest of game
}

// Limits returns a soft and hard limit for making move with the given color. The
// interpretation is that after the soft limit, no new search should be conducted.
func (t TimeControl) Limits(c board.Color) (time.Duration, time.Duration) {
	remainder, increment := t.White, t.WhiteIncrement
	if c == board.Black {
		remainder, increment = t.Black, t.BlackIncrement
	}

	soft := remainder/timeControlDivisor + increment
	hard := 3 * soft
	return soft, hard
}

func (t TimeControl) String() string {
	if t.Moves == 0 {
		return fmt.Sprintf("%.1f(+%.1f)<>%.1f(+%.1f)", t.White.Seconds(), t.WhiteIncrement.Seconds(), t.Black.Seconds(), t.BlackIncrement.Seconds())
	}
	return fmt.Sprintf("%.1f(+%.1f)<>%.1f(+%.1f)[moves=%v]", t.White.Seconds(), t.WhiteIncrement.Seconds(), t.Black.Seconds(), t.BlackIncrement.Seconds(), t.Moves)
}

// EnforceTimeControl enforces the time control limits, if any. Returns soft limit.
func EnforceTimeControl(ctx context.Context, h Handle, tc lang.Optional[TimeControl], turn board.Color) (time.Duration, bool) {
	c, ok := tc.V()
	if !ok {
		return 0, false
	}

	soft, hard := c.Limits(turn)
	time.AfterFunc(hard, func() {
		h.Halt()
	})

	logw.Debugf(ctx, "Time control limits for %v: [%v; %v]", c, soft, hard)
	return soft, true
}
