// Package check provides system diagnostics (the check subcommand) and
// pre-pipeline dependency validation (CheckDeps) for the classifier process,
// the data and output directories, and PNG rendering.
package check

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/fixbatch/internal/config"
	"github.com/backmassage/fixbatch/internal/fixation"
	"github.com/backmassage/fixbatch/internal/gaze"
	"github.com/backmassage/fixbatch/internal/gazeplot"
)

// ErrClassifierNotFound is returned by CheckDeps when the classifier
// command cannot be resolved.
var ErrClassifierNotFound = errors.New("classifier command not found")

// versionTimeout bounds the informational "--version" probe.
const versionTimeout = 5 * time.Second

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Detail(string, ...interface{})
}

// RunCheck runs the diagnostics flow: classifier availability, data and
// output directories (when configured), and a PNG render test. It reports
// every problem instead of stopping at the first and returns false if any
// check failed.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkClassifier(cfg, log)
	if cfg.DataDir != "" {
		ok = checkDataDir(cfg.DataDir, log) && ok
	}
	if cfg.OutputDir != "" {
		ok = checkOutputDir(cfg.OutputDir, log) && ok
	}
	if cfg.Output.Plot {
		ok = checkPlot(cfg, log) && ok
	} else {
		log.Info("Plotting disabled, skipping render test")
	}
	return ok
}

// CheckDeps is the pre-pipeline validation: the classifier command must be
// on PATH, or an executable file when given with a path separator.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.Classifier.Command); err != nil {
		return fmt.Errorf("%w: %s", ErrClassifierNotFound, cfg.Classifier.Command)
	}
	return nil
}

// checkClassifier verifies the classifier resolves and logs its version line.
// A failing --version is only a warning: the protocol does not require it.
func checkClassifier(cfg *config.Config, log Logger) bool {
	path, err := exec.LookPath(cfg.Classifier.Command)
	if err != nil {
		log.Error("Classifier not found: %s", cfg.Classifier.Command)
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), versionTimeout)
	defer cancel()
	args := append(append([]string(nil), cfg.Classifier.Args...), "--version")
	out, err := exec.CommandContext(ctx, path, args...).Output()
	if err != nil {
		log.Warn("Classifier found at %s but --version failed: %v", path, err)
		return true
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("Classifier: %s (%s)", firstLine, path)
	return true
}

// checkDataDir counts the top-level participant folders.
func checkDataDir(dir string, log Logger) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Error("Data directory unreadable: %v", err)
		return false
	}
	groups := 0
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			groups++
		}
	}
	if groups == 0 {
		log.Warn("Data directory %s has no participant folders", dir)
		return true
	}
	log.Success("Data directory: %d participant folders", groups)
	return true
}

// checkOutputDir creates the output directory if needed and writes a probe
// file to prove it is writable.
func checkOutputDir(dir string, log Logger) bool {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Error("Cannot create output directory: %v", err)
		return false
	}
	f, err := os.CreateTemp(dir, ".fixbatch-check-*")
	if err != nil {
		log.Error("Output directory not writable: %v", err)
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	log.Success("Output directory writable: %s", dir)
	return true
}

// checkPlot renders a two-sample figure to a temporary file.
func checkPlot(cfg *config.Config, log Logger) bool {
	log.Info("Testing PNG rendering...")
	tmp, err := os.MkdirTemp("", "fixbatch-check-")
	if err != nil {
		log.Error("Cannot create temp dir: %v", err)
		return false
	}
	defer os.RemoveAll(tmp)

	ts := &gaze.TimeSeries{
		Time:    []float64{0, 10},
		Average: &gaze.Channel{X: []float64{10, 20}, Y: []float64{10, 20}},
	}
	set, _ := fixation.NewSet([]fixation.Column{
		{Name: fixation.ColStartT, Values: []float64{0}},
		{Name: fixation.ColEndT, Values: []float64{10}},
		{Name: fixation.ColXPos, Values: []float64{15}},
		{Name: fixation.ColYPos, Values: []float64{15}},
	})
	r := gazeplot.NewRenderer(cfg.Output.PlotWidthIn, cfg.Output.PlotHeightIn, -1, -1)
	fig, err := r.Plot(ts, set, gazeplot.Resolution{X: cfg.Screen.XRes, Y: cfg.Screen.YRes})
	if err == nil {
		err = fig.Save(filepath.Join(tmp, "check.png"))
	}
	if err != nil {
		log.Error("PNG rendering failed: %v", err)
		return false
	}
	log.Detail("Rendered test figure in %s", tmp)
	log.Success("PNG rendering works")
	return true
}
