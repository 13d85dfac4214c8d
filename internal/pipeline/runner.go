// Package pipeline orchestrates recording discovery, per-recording
// classification, result aggregation, and batch summary reporting.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/backmassage/fixbatch/internal/aggregate"
	"github.com/backmassage/fixbatch/internal/classify"
	"github.com/backmassage/fixbatch/internal/config"
	"github.com/backmassage/fixbatch/internal/display"
	"github.com/backmassage/fixbatch/internal/fixation"
	"github.com/backmassage/fixbatch/internal/gaze"
	"github.com/backmassage/fixbatch/internal/gazeplot"
	"github.com/backmassage/fixbatch/internal/logging"
	"github.com/backmassage/fixbatch/internal/naming"
)

// LockFileName is created in the output root while a run is active.
const LockFileName = ".fixbatch.lock"

// ErrLocked means another run holds the output root.
var ErrLocked = errors.New("output directory is in use by another fixbatch run")

// Deps are the external collaborators of a run. Plotter may be nil.
type Deps struct {
	Parser     gaze.Parser
	Classifier classify.Classifier
	Plotter    gazeplot.Plotter
}

// NewDeps wires the default collaborators for cfg: the TSV parser, the
// external classifier process and, when plotting is enabled, the PNG
// renderer. cfg must be normalized.
func NewDeps(cfg *config.Config, log *logging.Logger) Deps {
	d := Deps{
		Parser: gaze.TSVParser{},
		Classifier: &classify.ExecClassifier{
			Command: cfg.Classifier.Command,
			Args:    cfg.Classifier.Args,
			Timeout: time.Duration(cfg.Classifier.TimeoutSeconds * float64(time.Second)),
			Verbose: cfg.Verbosity >= config.VerbosityDetail,
			Progress: func(line string) {
				log.Detail("      %s", line)
			},
		},
	}
	if cfg.Output.Plot {
		d.Plotter = gazeplot.NewRenderer(cfg.Output.PlotWidthIn, cfg.Output.PlotHeightIn,
			*cfg.Screen.MissingX, *cfg.Screen.MissingY)
	}
	return d
}

// batch is the shared state of one run.
type batch struct {
	log   *logging.Logger
	job   *JobRunner
	table *aggregate.Table

	mu    sync.Mutex
	stats RunStats
}

// Run is the top-level batch entry point. It scans the data root, locks
// the output root, allocates the aggregate file, processes every recording
// and logs a summary. Per-recording empty data and classification failures
// are counted and skipped. Parse errors, schema mismatches and environment
// problems abort the run and are returned; an interrupt (ctx cancelled)
// ends the run early without an error.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, deps Deps) (RunStats, error) {
	start := time.Now()
	stats := RunStats{RunID: uuid.NewString()}

	src, err := Discover(cfg.DataDir, cfg.Recordings.Extensions)
	if err != nil {
		return stats, err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return stats, &ConfigError{Path: cfg.OutputDir, Err: err}
	}

	lock := flock.New(filepath.Join(cfg.OutputDir, LockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return stats, &ConfigError{Path: cfg.OutputDir, Err: fmt.Errorf("lock output directory: %w", err)}
	}
	if !locked {
		return stats, &ConfigError{Path: cfg.OutputDir, Err: ErrLocked}
	}
	defer lock.Unlock()

	stats.OutputPath = naming.AllocateOutputPath(cfg.OutputDir, cfg.Output.FileName)
	stats.Groups = src.Len()
	stats.Recordings = src.Recordings()
	stats.PerGroup = make([]GroupStats, 0, src.Len())
	for g := range src.Groups() {
		stats.PerGroup = append(stats.PerGroup, GroupStats{ID: g.ID, Recordings: len(g.Recordings)})
		if len(g.Recordings) == 0 {
			stats.EmptyGroups++
		}
	}

	b := &batch{
		log: log,
		job: &JobRunner{
			Parser:     deps.Parser,
			Classifier: deps.Classifier,
			Plotter:    deps.Plotter,
			Bounds: gaze.Bounds{
				XRes:       cfg.Screen.XRes,
				YRes:       cfg.Screen.YRes,
				MissingX:   *cfg.Screen.MissingX,
				MissingY:   *cfg.Screen.MissingY,
				Normalized: cfg.Parser.Coordinates == config.CoordsNormalized,
			},
			Options:    classify.OptionsFromConfig(cfg),
			Resolution: gazeplot.Resolution{X: cfg.Screen.XRes, Y: cfg.Screen.YRes},
			OutputDir:  cfg.OutputDir,
			Log:        log,
		},
		table: aggregate.New(stats.OutputPath),
		stats: stats,
	}

	log.Info("Run %s: %d folders, %d recordings in %s", stats.RunID, stats.Groups, stats.Recordings, src.Root())
	log.Info("Fixations will be stored to: %q", stats.OutputPath)
	if cfg.Jobs > 1 {
		log.Info("Processing with %d parallel jobs", cfg.Jobs)
	}
	log.Blank()

	if cfg.Jobs > 1 {
		err = b.runParallel(ctx, src, cfg.Jobs)
	} else {
		err = b.runSequential(ctx, src)
	}

	b.mu.Lock()
	stats = b.stats
	b.mu.Unlock()
	stats.Elapsed = time.Since(start)

	switch {
	case err == nil:
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		stats.Interrupted = true
	default:
		return stats, err
	}

	logSummary(log, &stats)
	return stats, nil
}

// runSequential processes one recording fully before starting the next.
func (b *batch) runSequential(ctx context.Context, src *Source) error {
	gi := 0
	for g := range src.Groups() {
		b.logGroup(gi, src.Len(), g)
		for ri, rec := range g.Recordings {
			if err := ctx.Err(); err != nil {
				return err
			}
			b.log.Info("  Processing file %d of %d", ri+1, len(g.Recordings))
			if err := b.process(ctx, gi, g, rec); err != nil {
				return err
			}
		}
		gi++
	}
	return nil
}

// runParallel fans recordings out to at most jobs workers. The first fatal
// error cancels the remaining work.
func (b *batch) runParallel(ctx context.Context, src *Source, jobs int) error {
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)

	gi := 0
groups:
	for g := range src.Groups() {
		if gctx.Err() != nil {
			break
		}
		b.logGroup(gi, src.Len(), g)
		for ri, rec := range g.Recordings {
			if gctx.Err() != nil {
				break groups
			}
			idx := gi
			b.log.Info("  Queued file %d of %d: %s", ri+1, len(g.Recordings), rec.ID)
			eg.Go(func() error {
				return b.process(gctx, idx, g, rec)
			})
		}
		gi++
	}
	err := eg.Wait()
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	return err
}

func (b *batch) logGroup(i, n int, g Group) {
	b.log.Info("Processing folder %d of %d: %s", i+1, n, g.ID)
	if len(g.Recordings) == 0 {
		b.log.Info("  folder is empty, continuing to next folder")
	}
}

// process runs one recording and folds its outcome into the table and the
// counters.
func (b *batch) process(ctx context.Context, gi int, g Group, rec Recording) error {
	res, err := b.job.Run(ctx, g, rec)
	if err != nil {
		return err
	}

	rows := 0
	switch res.Outcome.Status {
	case fixation.StatusEmptyRecording:
		b.log.Warn("    No data found in file %s", rec.Path)
	case fixation.StatusClassificationFailed:
		b.log.Warn("    Fixation classification did not succeed with file %s: %s", rec.Path, res.Outcome.Reason)
	case fixation.StatusSuccess:
		if res.PlotErr != nil {
			b.log.Warn("    Could not save plot for %s: %v", rec.Path, res.PlotErr)
		}
		set := res.Outcome.Set
		if err := b.table.Append(g.ID, rec.ID, set); err != nil {
			return fmt.Errorf("%s: %w", rec.Path, err)
		}
		rows = set.Len()
		b.log.Success("    %s/%s: %d fixations", g.ID, rec.ID, rows)
	}

	b.mu.Lock()
	b.stats.record(gi, res.Outcome.Status, rows, res.PlotPath != "", res.PlotErr != nil)
	b.mu.Unlock()
	return nil
}

// --- Summary ---

func logSummary(log *logging.Logger, stats *RunStats) {
	log.Blank()
	if stats.Interrupted {
		log.Warn("Interrupted after %d of %d recordings", stats.Processed, stats.Recordings)
	}
	if len(stats.PerGroup) > 0 {
		log.Print(renderGroupTable(stats.PerGroup))
	}
	if n := stats.Skipped(); n > 0 {
		log.Info("Skipped recordings: %d (%d empty, %d not classified)", n, stats.Empty, stats.Failed)
	}
	if stats.EmptyGroups > 0 {
		log.Info("Empty folders: %d", stats.EmptyGroups)
	}
	if stats.PlotFailures > 0 {
		log.Warn("Plots that could not be saved: %d", stats.PlotFailures)
	}
	if stats.Succeeded > 0 {
		size := "?"
		if fi, err := os.Stat(stats.OutputPath); err == nil {
			size = display.FormatBytes(fi.Size())
		}
		log.Success("%d fixations from %d recordings written to %s (%s)", stats.Rows, stats.Succeeded, stats.OutputPath, size)
	} else {
		log.Warn("No recording was classified; %s was not written", stats.OutputPath)
	}

	log.Notice("Run %s took %s to finish: %d classified, %d empty, %d failed",
		stats.RunID, display.FormatDuration(stats.Elapsed), stats.Succeeded, stats.Empty, stats.Failed)
}

func renderGroupTable(groups []GroupStats) string {
	headers := []string{"Participant", "Recordings", "Classified", "Empty", "Failed", "Fixations", "Plots"}
	aligns := []display.Alignment{
		display.AlignLeft, display.AlignRight, display.AlignRight, display.AlignRight,
		display.AlignRight, display.AlignRight, display.AlignRight,
	}
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		id := g.ID
		if g.Recordings == 0 {
			id += " (empty)"
		}
		rows = append(rows, []string{
			id,
			strconv.Itoa(g.Recordings),
			strconv.Itoa(g.Succeeded),
			strconv.Itoa(g.Empty),
			strconv.Itoa(g.Failed),
			strconv.Itoa(g.Rows),
			strconv.Itoa(g.Plots),
		})
	}
	return display.RenderTable(headers, rows, aligns)
}
