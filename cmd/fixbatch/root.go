package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/fixbatch/internal/check"
	"github.com/backmassage/fixbatch/internal/config"
	"github.com/backmassage/fixbatch/internal/display"
	"github.com/backmassage/fixbatch/internal/logging"
	"github.com/backmassage/fixbatch/internal/pipeline"
)

var (
	// errReported means the failure was already logged; only the exit code
	// remains to be set.
	errReported = errors.New("error already reported")
	// errInterrupted means the run stopped on SIGINT/SIGTERM.
	errInterrupted = errors.New("interrupted")
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fixbatch [flags] <data_dir> <output_dir>",
		Short: "Batch fixation classification for eye-tracking recordings",
		Long: `fixbatch walks data_dir, treats every folder as one participant and every
file in it as one recording, runs the fixation classifier on each recording
and appends the fixations to output_dir/allfixations.txt (or the next free
allfixations_N.txt). With plotting enabled a PNG per recording is written to
output_dir/<participant>/<recording>.png.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := config.BindFlags(rootCmd.PersistentFlags())
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, flags, args)
	}

	rootCmd.AddCommand(newCheckCommand(flags))
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

// loadConfig builds the run configuration: defaults, then the settings
// file, then explicitly set flags, then positional args.
func loadConfig(cmd *cobra.Command, flags *config.Flags, args []string, checkOnly bool) (config.Config, error) {
	cfg := config.DefaultConfig()
	if flags.ConfigFile != "" {
		if err := config.LoadFile(flags.ConfigFile, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := config.ApplyFlags(&cfg, cmd.Flags(), flags); err != nil {
		return cfg, err
	}
	if err := config.ApplyPositionalArgs(&cfg, args); err != nil {
		return cfg, err
	}
	cfg.CheckOnly = checkOnly
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runBatch(cmd *cobra.Command, flags *config.Flags, args []string) error {
	// Bootstrap: the logger doesn't exist yet, so errors are returned and
	// printed by main. From NewLogger on, everything goes through log.
	cfg, err := loadConfig(cmd, flags, args, false)
	if err != nil {
		return err
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	if cfg.Verbosity >= config.VerbosityProgress {
		display.PrintBanner(cmd.OutOrStdout())
	}

	// Resolve and validate paths: data must exist, and output must not be
	// inside data (plot folders would be picked up as participants by the
	// next run). Output is created only once it has passed that check.
	dataAbs, err := absPath(cfg.DataDir)
	if err != nil {
		log.Error("Data directory not found: %s", cfg.DataDir)
		return errReported
	}
	outputAbs, err := resolvePending(cfg.OutputDir)
	if err != nil {
		log.Error("Cannot resolve output path: %s", cfg.OutputDir)
		return errReported
	}
	if err := cfg.ValidatePaths(dataAbs, outputAbs); err != nil {
		log.Error("%v", err)
		log.Error("Choose an output path outside: %s", cfg.DataDir)
		return errReported
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Error("Cannot create output directory: %s", cfg.OutputDir)
		return errReported
	}

	log.Info("=== fixbatch v%s (%s) ===", version, commit)
	log.Info("In:  %s", cfg.DataDir)
	log.Info("Out: %s", cfg.OutputDir)
	log.Info("Screen: %gx%g px, %g Hz, classifier: %s", cfg.Screen.XRes, cfg.Screen.YRes, cfg.Detection.Freq, cfg.Classifier.Command)
	log.Blank()

	// Fail fast if the classifier cannot be started.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return errReported
	}

	// Cancel the context on SIGINT/SIGTERM so the pipeline stops between
	// recordings and still prints its summary.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, finishing current recording…")
			cancel()
		case <-ctx.Done():
		}
	}()

	stats, err := pipeline.Run(ctx, &cfg, log, pipeline.NewDeps(&cfg, log))
	if err != nil {
		log.Error("%v", err)
		return errReported
	}
	if stats.Interrupted {
		return errInterrupted
	}
	return nil
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of data vs output directory hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// resolvePending is absPath for a path that may not exist yet: the nearest
// existing ancestor is symlink-resolved and the missing tail re-attached.
func resolvePending(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	var tail []string
	dir := abs
	for {
		if _, err := os.Lstat(dir); err == nil {
			break
		} else if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		tail = append(tail, filepath.Base(dir))
		dir = parent
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", err
	}
	for i := len(tail) - 1; i >= 0; i-- {
		resolved = filepath.Join(resolved, tail[i])
	}
	return resolved, nil
}
