// Package config holds runtime configuration: defaults, settings-file
// loading, CLI flag binding, and validation. Detection defaults match the
// reference I2MC example script so results stay comparable across tools.
package config

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// --- Enum types for validated string fields ---

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// CoordinateMode describes how gaze coordinates are stored in recordings.
type CoordinateMode string

const (
	CoordsNormalized CoordinateMode = "normalized" // Fractions of the screen, scaled by the resolution (default).
	CoordsPixels     CoordinateMode = "pixels"     // Already in screen pixels.
)

// Verbosity levels.
const (
	VerbositySilent   = 0 // Errors and the closing summary only.
	VerbosityProgress = 1 // Per-group and per-file progress (default).
	VerbosityDetail   = 2 // Also the classifier's own progress output.
)

// DefaultAggregateName is the canonical file name of the aggregate table.
const DefaultAggregateName = "allfixations.txt"

// Screen describes the display geometry and the data-loss sentinels shared
// by the parser and the classifier. Nil sentinels are derived from the
// resolution by [Config.Normalize].
type Screen struct {
	XRes     float64  `toml:"xres" yaml:"xres"`
	YRes     float64  `toml:"yres" yaml:"yres"`
	MissingX *float64 `toml:"missing_x" yaml:"missing_x"`
	MissingY *float64 `toml:"missing_y" yaml:"missing_y"`
}

// Detection mirrors the tuning options of the fixation classifier. Field
// comments give the reference defaults.
type Detection struct {
	Freq           float64   `toml:"freq" yaml:"freq"`                           // 300 Hz; must match the recorded data rate.
	ScreenSizeCm   []float64 `toml:"screen_size_cm" yaml:"screen_size_cm"`       // [50.9174, 28.6411]; empty reports noise in pixels.
	DistToScreenCm float64   `toml:"dist_to_screen_cm" yaml:"dist_to_screen_cm"` // 65.

	// Interpolation.
	WindowTimeInterp float64  `toml:"window_time_interp" yaml:"window_time_interp"` // 0.1 s.
	EdgeSampInterp   int      `toml:"edge_samp_interp" yaml:"edge_samp_interp"`     // 2 samples.
	MaxDisp          *float64 `toml:"max_disp" yaml:"max_disp"`                     // Derived: xres*0.2*sqrt(2).

	// 2-means clustering.
	WindowTime     float64 `toml:"window_time" yaml:"window_time"`         // 0.2 s.
	StepTime       float64 `toml:"step_time" yaml:"step_time"`             // 0.02 s.
	MaxErrors      int     `toml:"max_errors" yaml:"max_errors"`           // 100.
	Downsamples    []int   `toml:"downsamples" yaml:"downsamples"`         // [2, 5, 10].
	DownsampFilter bool    `toml:"downsamp_filter" yaml:"downsamp_filter"` // false.

	// Fixation determination.
	CutoffStd      float64 `toml:"cutoff_std" yaml:"cutoff_std"`           // 2.
	OnOffsetThresh float64 `toml:"onoffset_thresh" yaml:"onoffset_thresh"` // 3 MAD.
	MaxMergeDist   float64 `toml:"max_merge_dist" yaml:"max_merge_dist"`   // 30 px.
	MaxMergeTime   float64 `toml:"max_merge_time" yaml:"max_merge_time"`   // 30 ms.
	MinFixDur      float64 `toml:"min_fix_dur" yaml:"min_fix_dur"`         // 40 ms.
}

// Parser holds settings for the raw recording reader.
type Parser struct {
	Coordinates CoordinateMode `toml:"coordinates" yaml:"coordinates"`
}

// Classifier selects the external classification process.
type Classifier struct {
	Command        string   `toml:"command" yaml:"command"`
	Args           []string `toml:"args" yaml:"args"`
	TimeoutSeconds float64  `toml:"timeout_seconds" yaml:"timeout_seconds"` // 0 disables the per-recording timeout.
}

// Recordings controls which files inside a participant directory count as
// recordings. An empty extension list accepts every non-hidden file.
type Recordings struct {
	Extensions []string `toml:"extensions" yaml:"extensions"`
}

// Output controls the aggregate table and diagnostic plots.
type Output struct {
	FileName     string  `toml:"file_name" yaml:"file_name"`
	Plot         bool    `toml:"plot" yaml:"plot"`
	PlotWidthIn  float64 `toml:"plot_width_in" yaml:"plot_width_in"`
	PlotHeightIn float64 `toml:"plot_height_in" yaml:"plot_height_in"`
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by [LoadFile], then by [ApplyFlags], and finally passed
// (by pointer) to the packages that need it.
type Config struct {
	// Paths (set from positional args or the settings file).
	DataDir   string `toml:"data_dir" yaml:"data_dir"`
	OutputDir string `toml:"output_dir" yaml:"output_dir"`

	Screen     Screen     `toml:"screen" yaml:"screen"`
	Detection  Detection  `toml:"detection" yaml:"detection"`
	Parser     Parser     `toml:"parser" yaml:"parser"`
	Classifier Classifier `toml:"classifier" yaml:"classifier"`
	Recordings Recordings `toml:"recordings" yaml:"recordings"`
	Output     Output     `toml:"output" yaml:"output"`

	// Execution.
	Jobs int `toml:"jobs" yaml:"jobs"` // Default: 1 (sequential).

	// Display and logging.
	Verbosity int       `toml:"verbosity" yaml:"verbosity"`
	ColorMode ColorMode `toml:"color" yaml:"color"`
	LogFile   string    `toml:"log_file" yaml:"log_file"`

	// CheckOnly is set by the check subcommand; it lifts the path requirement.
	CheckOnly bool `toml:"-" yaml:"-"`
}

// DefaultConfig returns a Config with the reference defaults (Tobii TX300 at
// 1920x1080, 300 Hz). Used as the base before file and flag overrides.
func DefaultConfig() Config {
	return Config{
		Screen: Screen{
			XRes: 1920,
			YRes: 1080,
		},
		Detection: Detection{
			Freq:             300,
			ScreenSizeCm:     []float64{50.9174, 28.6411},
			DistToScreenCm:   65,
			WindowTimeInterp: 0.1,
			EdgeSampInterp:   2,
			WindowTime:       0.2,
			StepTime:         0.02,
			MaxErrors:        100,
			Downsamples:      []int{2, 5, 10},
			DownsampFilter:   false,
			CutoffStd:        2,
			OnOffsetThresh:   3,
			MaxMergeDist:     30,
			MaxMergeTime:     30,
			MinFixDur:        40,
		},
		Parser: Parser{
			Coordinates: CoordsNormalized,
		},
		Classifier: Classifier{
			Command: "i2mc-classify",
		},
		Output: Output{
			FileName:     DefaultAggregateName,
			Plot:         true,
			PlotWidthIn:  12,
			PlotHeightIn: 6,
		},
		Jobs:      1,
		Verbosity: VerbosityProgress,
		ColorMode: ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Normalize fills derived defaults: the data-loss sentinels default to the
// negated resolution and the interpolation displacement limit to
// xres*0.2*sqrt(2). Extensions are lowercased with a leading dot.
func (c *Config) Normalize() {
	if c.Screen.MissingX == nil {
		v := -c.Screen.XRes
		c.Screen.MissingX = &v
	}
	if c.Screen.MissingY == nil {
		v := -c.Screen.YRes
		c.Screen.MissingY = &v
	}
	if c.Detection.MaxDisp == nil {
		v := c.Screen.XRes * 0.2 * math.Sqrt2
		c.Detection.MaxDisp = &v
	}
	exts := c.Recordings.Extensions[:0]
	for _, e := range c.Recordings.Extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	c.Recordings.Extensions = exts
	c.DataDir = NormalizeDirArg(c.DataDir)
	c.OutputDir = NormalizeDirArg(c.OutputDir)
}

// Validate checks enum fields and numeric ranges. When not in CheckOnly
// mode, it also requires that both data and output directory paths are set.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	switch c.Parser.Coordinates {
	case CoordsNormalized, CoordsPixels:
		// valid
	default:
		return errors.New("invalid coordinate mode (use 'normalized' or 'pixels')")
	}

	if c.Verbosity < VerbositySilent || c.Verbosity > VerbosityDetail {
		return fmt.Errorf("verbosity must be 0, 1 or 2 (got %d)", c.Verbosity)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1 (got %d)", c.Jobs)
	}
	if c.Screen.XRes <= 0 || c.Screen.YRes <= 0 {
		return errors.New("screen resolution must be positive")
	}
	if c.Detection.Freq <= 0 {
		return errors.New("sampling frequency must be positive")
	}
	if c.Detection.WindowTime <= 0 {
		return errors.New("detection.window_time must be positive")
	}
	if c.Detection.StepTime < 0 {
		return errors.New("detection.step_time must not be negative")
	}
	if n := len(c.Detection.ScreenSizeCm); n != 0 && n != 2 {
		return errors.New("detection.screen_size_cm needs exactly two values (width, height)")
	}
	if strings.TrimSpace(c.Classifier.Command) == "" {
		return errors.New("classifier command must not be empty")
	}
	if c.Classifier.TimeoutSeconds < 0 {
		return errors.New("classifier.timeout_seconds must not be negative")
	}
	if strings.TrimSpace(c.Output.FileName) == "" || strings.ContainsRune(c.Output.FileName, filepath.Separator) {
		return errors.New("output file name must be a plain file name")
	}
	if c.Output.PlotWidthIn <= 0 || c.Output.PlotHeightIn <= 0 {
		return errors.New("plot size must be positive")
	}

	if c.CheckOnly {
		return nil
	}
	if c.DataDir == "" || c.OutputDir == "" {
		return errors.New("need exactly data_dir and output_dir")
	}
	return nil
}

// ValidatePaths ensures the resolved output directory is not inside (or equal
// to) the resolved data directory. Otherwise plot folders written by one run
// would be discovered as participant groups by the next. Both arguments must
// be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(dataAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == dataAbs || strings.HasPrefix(outputAbs+sep, dataAbs+sep) {
		return errors.New("output directory must not be inside data directory")
	}
	return nil
}
