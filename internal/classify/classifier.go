// Package classify runs fixation classification on parsed recordings.
//
// The classifier itself is an external program (for example a thin wrapper
// around the reference I2MC implementation). It receives the recording and
// tuning options as one JSON document on stdin and answers with fixation
// columns, or an explicit refusal, on stdout.
package classify

import (
	"context"
	"errors"

	"github.com/backmassage/fixbatch/internal/fixation"
	"github.com/backmassage/fixbatch/internal/gaze"
)

// ErrNotClassified is returned when the classifier explicitly reports that
// it could not classify the recording.
var ErrNotClassified = errors.New("classification did not succeed")

// Classifier turns one time series into a fixation set. Any returned error
// other than a cancelled parent context means the recording could not be
// classified. Sets should come from [fixation.NewSet]; a set that fails
// [fixation.Set.Validate] is treated as a failed classification.
type Classifier interface {
	Classify(ctx context.Context, ts *gaze.TimeSeries, opts Options) (fixation.Set, error)
}
