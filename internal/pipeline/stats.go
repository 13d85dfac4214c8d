package pipeline

import (
	"time"

	"github.com/backmassage/fixbatch/internal/fixation"
)

// GroupStats holds the per-participant counters shown in the summary table.
type GroupStats struct {
	ID         string
	Recordings int
	Succeeded  int
	Empty      int
	Failed     int
	Rows       int
	Plots      int
}

// RunStats tracks aggregate counters across a batch run.
type RunStats struct {
	RunID      string
	OutputPath string

	Groups      int
	EmptyGroups int
	Recordings  int // discovered
	Processed   int // reached a terminal state

	Succeeded    int
	Empty        int
	Failed       int
	Rows         int
	Plots        int
	PlotFailures int

	Interrupted bool
	Elapsed     time.Duration

	PerGroup []GroupStats
}

// Skipped returns the number of recordings that contributed no rows.
func (s *RunStats) Skipped() int {
	return s.Empty + s.Failed
}

// record folds one recording's terminal state into the run and group
// counters. Callers serialize access.
func (s *RunStats) record(group int, status fixation.Status, rows int, plotted, plotFailed bool) {
	g := &s.PerGroup[group]
	s.Processed++
	switch status {
	case fixation.StatusSuccess:
		s.Succeeded++
		s.Rows += rows
		g.Succeeded++
		g.Rows += rows
	case fixation.StatusEmptyRecording:
		s.Empty++
		g.Empty++
	case fixation.StatusClassificationFailed:
		s.Failed++
		g.Failed++
	}
	if plotted {
		s.Plots++
		g.Plots++
	}
	if plotFailed {
		s.PlotFailures++
	}
}
