package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/data/study", "/data/study"},
		{"single trailing slash", "/data/study/", "/data/study"},
		{"multiple trailing slashes", "/data/study///", "/data/study"},
		{"root path", "/", "/"},
		{"relative path", "output", "output"},
		{"relative with slash", "output/", "output"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDirArg(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_DerivesSentinelsAndMaxDisp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Screen.XRes = 1000
	cfg.Screen.YRes = 500
	cfg.Normalize()

	if *cfg.Screen.MissingX != -1000 || *cfg.Screen.MissingY != -500 {
		t.Errorf("missing = (%v, %v), want (-1000, -500)", *cfg.Screen.MissingX, *cfg.Screen.MissingY)
	}
	want := 1000 * 0.2 * math.Sqrt2
	if math.Abs(*cfg.Detection.MaxDisp-want) > 1e-9 {
		t.Errorf("MaxDisp = %v, want %v", *cfg.Detection.MaxDisp, want)
	}
}

func TestNormalize_KeepsExplicitSentinel(t *testing.T) {
	cfg := DefaultConfig()
	v := -1.0
	cfg.Screen.MissingX = &v
	cfg.Normalize()
	if *cfg.Screen.MissingX != -1 {
		t.Errorf("MissingX = %v, want -1", *cfg.Screen.MissingX)
	}
	if *cfg.Screen.MissingY != -cfg.Screen.YRes {
		t.Errorf("MissingY = %v, want %v", *cfg.Screen.MissingY, -cfg.Screen.YRes)
	}
}

func TestNormalize_Extensions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Recordings.Extensions = []string{"TSV", ".txt", " ", "csv "}
	cfg.Normalize()
	if diff := cmp.Diff([]string{".tsv", ".txt", ".csv"}, cfg.Recordings.Extensions); diff != "" {
		t.Errorf("extensions mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_Enums(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"color never", func(c *Config) { c.ColorMode = ColorNever }, false},
		{"empty color", func(c *Config) { c.ColorMode = "" }, true},
		{"pixels coordinates", func(c *Config) { c.Parser.Coordinates = CoordsPixels }, false},
		{"unknown coordinates", func(c *Config) { c.Parser.Coordinates = "degrees" }, true},
		{"verbosity 2", func(c *Config) { c.Verbosity = 2 }, false},
		{"verbosity 3", func(c *Config) { c.Verbosity = 3 }, true},
		{"negative verbosity", func(c *Config) { c.Verbosity = -1 }, true},
		{"zero jobs", func(c *Config) { c.Jobs = 0 }, true},
		{"zero frequency", func(c *Config) { c.Detection.Freq = 0 }, true},
		{"zero resolution", func(c *Config) { c.Screen.XRes = 0 }, true},
		{"one screen size value", func(c *Config) { c.Detection.ScreenSizeCm = []float64{50} }, true},
		{"no screen size", func(c *Config) { c.Detection.ScreenSizeCm = nil }, false},
		{"empty classifier", func(c *Config) { c.Classifier.Command = " " }, true},
		{"negative timeout", func(c *Config) { c.Classifier.TimeoutSeconds = -1 }, true},
		{"output name with dir", func(c *Config) { c.Output.FileName = "a/b.txt" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CheckOnly = true // skip path requirement
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_RequiresPaths(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail when paths are empty and CheckOnly is false")
	}

	cfg.DataDir = "/data"
	cfg.OutputDir = "/out"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestValidatePaths(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		output  string
		wantErr bool
	}{
		{"separate directories", "/study/data", "/study/output", false},
		{"output equals data", "/study/data", "/study/data", true},
		{"output inside data", "/study/data", "/study/data/output", true},
		{"output is parent of data", "/study/data/sub", "/study/data", false},
		{"similar prefix not nested", "/study/data", "/study/data2", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.ValidatePaths(tt.data, tt.output)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePaths(%q, %q) error = %v, wantErr %v",
					tt.data, tt.output, err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig_ReferenceDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Screen.XRes != 1920 || cfg.Screen.YRes != 1080 {
		t.Errorf("resolution = %vx%v, want 1920x1080", cfg.Screen.XRes, cfg.Screen.YRes)
	}
	if cfg.Detection.Freq != 300 {
		t.Errorf("Freq = %v, want 300", cfg.Detection.Freq)
	}
	if diff := cmp.Diff([]int{2, 5, 10}, cfg.Detection.Downsamples); diff != "" {
		t.Errorf("Downsamples mismatch (-want +got):\n%s", diff)
	}
	if cfg.Output.FileName != DefaultAggregateName {
		t.Errorf("FileName = %q, want %q", cfg.Output.FileName, DefaultAggregateName)
	}
	if !cfg.Output.Plot {
		t.Error("default Plot should be true")
	}
	if cfg.Verbosity != VerbosityProgress {
		t.Errorf("Verbosity = %d, want %d", cfg.Verbosity, VerbosityProgress)
	}
	if cfg.Jobs != 1 {
		t.Errorf("Jobs = %d, want 1", cfg.Jobs)
	}
}

func TestLoad_TOML(t *testing.T) {
	data := []byte(`
data_dir = "/study/data"

[screen]
xres = 1280.0
missing_x = -1.0

[detection]
freq = 600.0
downsamples = [3, 6]

[output]
plot = false
`)
	cfg := DefaultConfig()
	if err := Load(data, ".toml", &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/study/data" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Screen.XRes != 1280 || cfg.Screen.YRes != 1080 {
		t.Errorf("resolution = %vx%v, want 1280x1080", cfg.Screen.XRes, cfg.Screen.YRes)
	}
	if cfg.Screen.MissingX == nil || *cfg.Screen.MissingX != -1 {
		t.Errorf("MissingX = %v, want -1", cfg.Screen.MissingX)
	}
	if cfg.Detection.Freq != 600 {
		t.Errorf("Freq = %v, want 600", cfg.Detection.Freq)
	}
	if diff := cmp.Diff([]int{3, 6}, cfg.Detection.Downsamples); diff != "" {
		t.Errorf("Downsamples mismatch (-want +got):\n%s", diff)
	}
	if cfg.Output.Plot {
		t.Error("Plot should be false after load")
	}
	if cfg.Detection.MinFixDur != 40 {
		t.Errorf("MinFixDur = %v, want untouched default 40", cfg.Detection.MinFixDur)
	}
}

func TestLoad_YAML(t *testing.T) {
	data := []byte(`
screen:
  yres: 1200
classifier:
  command: /opt/i2mc/bin/classify
  args: ["--engine", "numpy"]
verbosity: 2
`)
	cfg := DefaultConfig()
	if err := Load(data, ".yml", &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Screen.YRes != 1200 {
		t.Errorf("YRes = %v, want 1200", cfg.Screen.YRes)
	}
	if cfg.Classifier.Command != "/opt/i2mc/bin/classify" {
		t.Errorf("Command = %q", cfg.Classifier.Command)
	}
	if diff := cmp.Diff([]string{"--engine", "numpy"}, cfg.Classifier.Args); diff != "" {
		t.Errorf("Args mismatch (-want +got):\n%s", diff)
	}
	if cfg.Verbosity != 2 {
		t.Errorf("Verbosity = %d, want 2", cfg.Verbosity)
	}
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		data string
	}{
		{"toml", ".toml", "[screen]\nxresolution = 10\n"},
		{"yaml", ".yaml", "screen:\n  xresolution: 10\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := Load([]byte(tt.data), tt.ext, &cfg); err == nil {
				t.Error("Load() should reject unknown keys")
			}
		})
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	cfg := DefaultConfig()
	if err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"), &cfg); err == nil {
		t.Error("LoadFile() should fail for a missing file")
	}
}

func TestLoadFile_EmptyYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	if err := LoadFile(path, &cfg); err != nil {
		t.Errorf("LoadFile() on empty yaml: %v", err)
	}
}

func TestApplyFlags_OnlyChangedFlags(t *testing.T) {
	fs := pflag.NewFlagSet("fixbatch", pflag.ContinueOnError)
	f := BindFlags(fs)
	if err := fs.Parse([]string{"--freq", "1000", "--no-plot", "-v", "0", "--ext", "tsv,txt"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Screen.XRes = 1280 // as if set by a settings file
	if err := ApplyFlags(&cfg, fs, f); err != nil {
		t.Fatalf("ApplyFlags: %v", err)
	}

	if cfg.Screen.XRes != 1280 {
		t.Errorf("XRes = %v, unchanged flag must not override file value", cfg.Screen.XRes)
	}
	if cfg.Detection.Freq != 1000 {
		t.Errorf("Freq = %v, want 1000", cfg.Detection.Freq)
	}
	if cfg.Output.Plot {
		t.Error("--no-plot should disable plotting")
	}
	if cfg.Verbosity != 0 {
		t.Errorf("Verbosity = %d, want 0", cfg.Verbosity)
	}
	if diff := cmp.Diff([]string{"tsv", "txt"}, cfg.Recordings.Extensions); diff != "" {
		t.Errorf("Extensions mismatch (-want +got):\n%s", diff)
	}
	if cfg.Screen.MissingX != nil {
		t.Error("MissingX should stay nil when --missing-x is not given")
	}
}

func TestApplyFlags_InvalidCoordinates(t *testing.T) {
	fs := pflag.NewFlagSet("fixbatch", pflag.ContinueOnError)
	f := BindFlags(fs)
	if err := fs.Parse([]string{"--coordinates", "degrees"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg := DefaultConfig()
	if err := ApplyFlags(&cfg, fs, f); err == nil {
		t.Error("ApplyFlags() should reject unknown coordinate mode")
	}
}

func TestApplyPositionalArgs(t *testing.T) {
	cfg := DefaultConfig()
	if err := ApplyPositionalArgs(&cfg, []string{"/data/", "/out/"}); err != nil {
		t.Fatalf("ApplyPositionalArgs: %v", err)
	}
	if cfg.DataDir != "/data" || cfg.OutputDir != "/out" {
		t.Errorf("dirs = %q, %q", cfg.DataDir, cfg.OutputDir)
	}
	if err := ApplyPositionalArgs(&cfg, []string{"/only-one"}); err == nil {
		t.Error("ApplyPositionalArgs() should reject a single argument")
	}
	if err := ApplyPositionalArgs(&cfg, nil); err != nil {
		t.Errorf("no args should keep file values: %v", err)
	}
}
