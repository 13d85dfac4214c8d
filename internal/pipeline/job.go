package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/backmassage/fixbatch/internal/classify"
	"github.com/backmassage/fixbatch/internal/fixation"
	"github.com/backmassage/fixbatch/internal/gaze"
	"github.com/backmassage/fixbatch/internal/gazeplot"
	"github.com/backmassage/fixbatch/internal/logging"
)

// JobResult is the terminal state of one recording.
type JobResult struct {
	Outcome fixation.Outcome

	// PlotPath is set when a figure was written; PlotErr when writing it
	// failed. A plot failure never changes Outcome.
	PlotPath string
	PlotErr  error
}

// JobRunner processes one recording: load, classify, and optionally plot.
type JobRunner struct {
	Parser     gaze.Parser
	Classifier classify.Classifier
	Plotter    gazeplot.Plotter // nil disables plotting

	Bounds     gaze.Bounds
	Options    classify.Options
	Resolution gazeplot.Resolution
	OutputDir  string

	Log *logging.Logger
}

// Run processes rec of group g. Parser errors and context cancellation are
// returned as errors and stop the batch; classifier errors become a
// ClassificationFailed outcome, as does a structurally invalid set.
func (r *JobRunner) Run(ctx context.Context, g Group, rec Recording) (JobResult, error) {
	r.Log.Info("    Loading data from: %s", rec.Path)
	ts, err := r.Parser.Parse(rec.Path, r.Bounds)
	if err != nil {
		return JobResult{}, err
	}
	if ts.Empty() {
		return JobResult{Outcome: fixation.EmptyRecording()}, nil
	}

	r.Log.Info("    Running fixation classification...")
	set, err := r.Classifier.Classify(ctx, ts, r.Options)
	if err != nil {
		if ctx.Err() != nil {
			return JobResult{}, ctx.Err()
		}
		return JobResult{Outcome: fixation.ClassificationFailed(err.Error())}, nil
	}
	if err := set.Validate(); err != nil {
		return JobResult{Outcome: fixation.ClassificationFailed("malformed result: " + err.Error())}, nil
	}

	res := JobResult{Outcome: fixation.Success(set)}
	if r.Plotter != nil {
		res.PlotPath, res.PlotErr = r.plot(g, rec, ts, set)
	}
	return res, nil
}

// plot renders and saves <OutputDir>/<group>/<recording>.png.
func (r *JobRunner) plot(g Group, rec Recording, ts *gaze.TimeSeries, set fixation.Set) (string, error) {
	dir := filepath.Join(r.OutputDir, g.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, rec.ID+".png")
	fig, err := r.Plotter.Plot(ts, set, r.Resolution)
	if err != nil {
		return "", err
	}
	r.Log.Info("    Saving image to: %s", path)
	if err := fig.Save(path); err != nil {
		return "", err
	}
	return path, nil
}
