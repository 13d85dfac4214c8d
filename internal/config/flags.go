package config

// This file binds CLI flags onto a FlagSet and applies them to a Config.
// Flags are grouped into screen, detection, output, execution and display.
// Values land in a Flags struct first; ApplyFlags copies only the flags the
// user actually set, so settings-file values survive unless overridden.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Flags holds raw flag values until [ApplyFlags] copies them into a Config.
type Flags struct {
	ConfigFile string

	XRes     float64
	YRes     float64
	MissingX float64
	MissingY float64
	Freq     float64

	Coordinates string
	Classifier  string
	Timeout     float64
	Extensions  []string

	Plot     bool
	NoPlot   bool
	FileName string

	Jobs      int
	Verbosity int
	Color     bool
	NoColor   bool
	LogFile   string
}

// BindFlags registers every fixbatch flag on fs. Defaults shown in help are
// taken from [DefaultConfig].
func BindFlags(fs *pflag.FlagSet) *Flags {
	def := DefaultConfig()
	f := &Flags{}

	fs.StringVarP(&f.ConfigFile, "config", "c", "", "Settings file (.toml or .yaml)")

	// Screen and data loss.
	fs.Float64Var(&f.XRes, "xres", def.Screen.XRes, "Horizontal screen resolution in pixels")
	fs.Float64Var(&f.YRes, "yres", def.Screen.YRes, "Vertical screen resolution in pixels")
	fs.Float64Var(&f.MissingX, "missing-x", 0, "Sentinel x value for data loss (default: -xres)")
	fs.Float64Var(&f.MissingY, "missing-y", 0, "Sentinel y value for data loss (default: -yres)")
	fs.StringVar(&f.Coordinates, "coordinates", string(def.Parser.Coordinates), "Coordinate mode in recordings: normalized | pixels")

	// Detection.
	fs.Float64Var(&f.Freq, "freq", def.Detection.Freq, "Sampling frequency in Hz (must match the recorded data)")
	fs.StringVar(&f.Classifier, "classifier", def.Classifier.Command, "Fixation classifier command")
	fs.Float64Var(&f.Timeout, "timeout", 0, "Per-recording classifier timeout in seconds (0: none)")
	fs.StringSliceVar(&f.Extensions, "ext", nil, "Only treat files with these extensions as recordings")

	// Output.
	fs.BoolVar(&f.Plot, "plot", def.Output.Plot, "Save a diagnostic PNG per recording")
	fs.BoolVar(&f.NoPlot, "no-plot", false, "Do not save diagnostic plots")
	fs.StringVar(&f.FileName, "output-name", def.Output.FileName, "Aggregate table file name")

	// Execution and display.
	fs.IntVarP(&f.Jobs, "jobs", "j", def.Jobs, "Recordings processed in parallel")
	fs.IntVarP(&f.Verbosity, "verbosity", "v", def.Verbosity, "0: silent, 1: progress, 2: also classifier progress")
	fs.BoolVar(&f.Color, "color", false, "Force colored logs")
	fs.BoolVar(&f.NoColor, "no-color", false, "Disable colored logs")
	fs.StringVarP(&f.LogFile, "log", "l", "", "Append logs to file")
	return f
}

// ApplyFlags copies the flags that were explicitly set on fs into cfg.
func ApplyFlags(cfg *Config, fs *pflag.FlagSet, f *Flags) error {
	set := func(name string) bool { return fs.Changed(name) }

	if set("xres") {
		cfg.Screen.XRes = f.XRes
	}
	if set("yres") {
		cfg.Screen.YRes = f.YRes
	}
	if set("missing-x") {
		v := f.MissingX
		cfg.Screen.MissingX = &v
	}
	if set("missing-y") {
		v := f.MissingY
		cfg.Screen.MissingY = &v
	}
	if set("coordinates") {
		mode, err := parseCoordinateMode(f.Coordinates)
		if err != nil {
			return err
		}
		cfg.Parser.Coordinates = mode
	}
	if set("freq") {
		cfg.Detection.Freq = f.Freq
	}
	if set("classifier") {
		cfg.Classifier.Command = f.Classifier
	}
	if set("timeout") {
		cfg.Classifier.TimeoutSeconds = f.Timeout
	}
	if set("ext") {
		cfg.Recordings.Extensions = append([]string(nil), f.Extensions...)
	}
	if set("plot") {
		cfg.Output.Plot = f.Plot
	}
	if f.NoPlot {
		cfg.Output.Plot = false
	}
	if set("output-name") {
		cfg.Output.FileName = f.FileName
	}
	if set("jobs") {
		cfg.Jobs = f.Jobs
	}
	if set("verbosity") {
		cfg.Verbosity = f.Verbosity
	}
	if set("log") {
		cfg.LogFile = f.LogFile
	}
	if f.NoColor {
		cfg.ColorMode = ColorNever
	} else if f.Color {
		cfg.ColorMode = ColorAlways
	}
	return nil
}

// ApplyPositionalArgs sets DataDir and OutputDir from the positional args.
// With no args the settings-file values are kept; otherwise exactly two are
// required.
func ApplyPositionalArgs(cfg *Config, args []string) error {
	switch len(args) {
	case 0:
		return nil
	case 2:
		cfg.DataDir = NormalizeDirArg(args[0])
		cfg.OutputDir = NormalizeDirArg(args[1])
		return nil
	default:
		return fmt.Errorf("need exactly data_dir and output_dir (got %d arguments)", len(args))
	}
}

func parseCoordinateMode(s string) (CoordinateMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normalized", "normalised":
		return CoordsNormalized, nil
	case "pixels", "px":
		return CoordsPixels, nil
	default:
		return "", fmt.Errorf("invalid coordinate mode %q (use 'normalized' or 'pixels')", s)
	}
}
