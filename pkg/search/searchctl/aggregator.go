package searchctl

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// Options hold dynamic search options. The user may change these on a particular search.
type Options struct {
	// DepthLimit, if set, limits the search to the given ply depth. Zero means no limit.
	DepthLimit lang.Optional[uint]
	// TimeControl, if set, limits the search to the given time parameters.
	TimeControl lang.Optional[TimeControl]
}

func (o Options) String() string {
	var ret []string
	if v, ok := o.DepthLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.TimeControl.V(); ok {
		ret = append(ret, fmt.Sprintf("time=%v", v))
	}
	return fmt.Sprintf("[%v]", strings.Join(ret, ", "))
}

// Launcher manages searches.
type Launcher interface {
	// Launch a new search from the given position. It expects an exclusive
	// (forked) board and returns a PV channel for iteratively deeper
	// searches, closed once the search is exhausted or halted.
	Launch(ctx context.Context, b *board.Board, tt search.TranspositionTable, opt Options) (Handle, <-chan search.PV)
}

// Handle lets the engine manage a launched search. The engine spins off
// searches with forked boards and closes/abandons handles when no longer
// needed.
type Handle interface {
	// Halt halts the search, if running, and returns its last completed PV.
	// Idempotent: blocks until at least one depth has completed.
	Halt() search.PV
}

// Aggregator is the Launcher used by the engine: it drives one
// search.Searcher per call to Launch and races its natural completion
// (forced mate, depth limit) against three independent stop signals --
// an explicit Halt, the time control's soft limit, and ctx cancellation
// (process shutdown). All three converge on a single
// stop channel closed exactly once, so the searcher itself only ever sees
// one signal and never needs to know which source fired it. Halt does not
// wait for the searcher goroutine to return: it raises the stop signal and
// replies with the last PV observed, while the searcher may still be
// unwinding on its forked board.
type Aggregator struct {
	Searcher *search.Searcher
}

// NewAggregator returns a Launcher backed by s.
func NewAggregator(s *search.Searcher) *Aggregator {
	return &Aggregator{Searcher: s}
}

func (a *Aggregator) Launch(ctx context.Context, b *board.Board, tt search.TranspositionTable, opt Options) (Handle, <-chan search.PV) {
	out := make(chan search.PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		stop: make(chan struct{}),
	}

	go a.run(ctx, h, b, tt, opt, out)
	return h, out
}

type handle struct {
	init iox.AsyncCloser
	stop chan struct{}
	once sync.Once

	pv search.PV
	mu sync.Mutex
}

func (h *handle) signalStop() {
	h.once.Do(func() { close(h.stop) })
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.signalStop()

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pv
}

// run drives one Searcher.Search call and forwards its PVs to out, closing
// out exactly once the searcher has returned. The four-way race -- search
// completion, time control expiry, explicit Halt, shutdown -- is resolved
// by nilling out the shutdown channel once it has fired and returning as
// soon as done fires, so neither closed channel can spin the loop.
func (a *Aggregator) run(ctx context.Context, h *handle, b *board.Board, tt search.TranspositionTable, opt Options, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	var cfg search.SearchConfig
	if v, ok := opt.DepthLimit.V(); ok {
		cfg.DepthLimit = int(v)
	}

	soft, useSoft := EnforceTimeControl(ctx, h, opt.TimeControl, b.Turn())
	start := time.Now()

	results := make(chan search.PV, 1)
	done := make(chan error, 1)
	go func() {
		done <- a.Searcher.Search(ctx, b, tt, h.stop, cfg, results)
	}()

	shutdown := ctx.Done()

	for {
		select {
		case pv := <-results:
			h.mu.Lock()
			h.pv = pv
			h.mu.Unlock()

			select {
			case <-out:
			default:
			}
			out <- pv
			h.init.Close()

			if useSoft && soft < time.Since(start) {
				h.signalStop()
			}

		case <-shutdown:
			h.signalStop()
			shutdown = nil

		case err := <-done:
			drainResults(results, h, out)
			if err != nil && err != search.ErrHalted {
				logw.Errorf(ctx, "Search failed on %v: %v", b, err)
			}
			return
		}
	}
}

// drainResults forwards any PV the searcher sent before returning but that
// the aggregator had not yet read out of its buffered channel, so the final
// reply reflects the searcher's last completed depth, never a stale one.
func drainResults(results <-chan search.PV, h *handle, out chan search.PV) {
	for {
		select {
		case pv := <-results:
			h.mu.Lock()
			h.pv = pv
			h.mu.Unlock()

			select {
			case <-out:
			default:
			}
			out <- pv
			h.init.Close()
		default:
			return
		}
	}
}
