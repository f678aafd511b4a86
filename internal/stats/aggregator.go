// Package stats tallies classification outcomes for one run.
package stats

import (
	"fmt"
	"strings"
	"sync"

	"docharvester/internal/archive"
)

// Summary holds the final counters for a run. The invariant after a
// full run is Downloaded + SkippedExists + SkippedDate + Failed ==
// TotalFound.
type Summary struct {
	TotalFound    int
	Downloaded    int
	SkippedExists int
	SkippedDate   int
	Failed        int
}

// Consistent reports whether the accounting invariant holds.
func (s Summary) Consistent() bool {
	return s.Downloaded+s.SkippedExists+s.SkippedDate+s.Failed == s.TotalFound
}

// Render formats the end-of-run report. Counter order is part of the
// output contract: total, filtered, downloaded, existed, failed.
func (s Summary) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total found:            %d\n", s.TotalFound)
	fmt.Fprintf(&b, "Filtered by date range: %d\n", s.SkippedDate)
	fmt.Fprintf(&b, "Downloaded (new):       %d\n", s.Downloaded)
	fmt.Fprintf(&b, "Already existed:        %d\n", s.SkippedExists)
	fmt.Fprintf(&b, "Failed:                 %d", s.Failed)
	return b.String()
}

// Aggregator counts one action per processed document. It performs no
// classification of its own; the decision engine's one-action-per-
// document guarantee is what keeps the arithmetic honest. Counters are
// mutex-guarded so a parallel runner would stay correct.
type Aggregator struct {
	mu sync.Mutex
	s  Summary
}

// NewAggregator returns an empty per-run Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record tallies one action. TotalFound advances exactly once per call.
func (a *Aggregator) Record(action archive.Action) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.s.TotalFound++
	switch action {
	case archive.ActionDownloaded:
		a.s.Downloaded++
	case archive.ActionSkippedExists:
		a.s.SkippedExists++
	case archive.ActionSkippedDate:
		a.s.SkippedDate++
	case archive.ActionFailed:
		a.s.Failed++
	}
}

// Summary returns a snapshot of the counters.
func (a *Aggregator) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.s
}
