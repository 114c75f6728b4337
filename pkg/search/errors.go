package search

import "errors"

// ErrHalted is returned up the search stack when the stop signal is observed.
// It is an internal control-flow signal, not a user-visible error: the
// aggregator translates it into "no new result for this depth".
var ErrHalted = errors.New("search: halted")
