package search

import "go.uber.org/atomic"

// Stats holds node-count statistics for one search, written by the searcher
// goroutine and safe to read concurrently by a reporting path (the UCI
// driver's "info nodes"/"info nps" fields).
type Stats struct {
	Nodes atomic.Uint64
}
