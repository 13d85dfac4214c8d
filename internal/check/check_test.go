package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/backmassage/fixbatch/internal/config"
)

// recLogger records every message with its level.
type recLogger struct {
	lines []string
}

func (l *recLogger) add(level, f string, a ...interface{}) {
	l.lines = append(l.lines, level+" "+fmt.Sprintf(f, a...))
}
func (l *recLogger) Info(f string, a ...interface{})    { l.add("INFO", f, a...) }
func (l *recLogger) Success(f string, a ...interface{}) { l.add("SUCCESS", f, a...) }
func (l *recLogger) Warn(f string, a ...interface{})    { l.add("WARN", f, a...) }
func (l *recLogger) Error(f string, a ...interface{})   { l.add("ERROR", f, a...) }
func (l *recLogger) Detail(f string, a ...interface{})  { l.add("DETAIL", f, a...) }

func (l *recLogger) has(prefix string) bool {
	for _, s := range l.lines {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func fakeClassifier(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "i2mc-classify")
	script := "#!/bin/sh\necho \"i2mc-classify 1.2.0\"\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckDeps(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Classifier.Command = fakeClassifier(t)
	if err := CheckDeps(&cfg); err != nil {
		t.Errorf("CheckDeps: %v", err)
	}

	cfg.Classifier.Command = filepath.Join(t.TempDir(), "missing-classifier")
	if err := CheckDeps(&cfg); !errors.Is(err, ErrClassifierNotFound) {
		t.Errorf("err = %v, want ErrClassifierNotFound", err)
	}
}

func TestRunCheck_AllGood(t *testing.T) {
	data := t.TempDir()
	if err := os.MkdirAll(filepath.Join(data, "P1"), 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.Classifier.Command = fakeClassifier(t)
	cfg.DataDir = data
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.Output.PlotWidthIn, cfg.Output.PlotHeightIn = 3, 2

	log := &recLogger{}
	if !RunCheck(&cfg, log) {
		t.Fatalf("RunCheck failed:\n%s", strings.Join(log.lines, "\n"))
	}
	for _, want := range []string{
		"SUCCESS Classifier: i2mc-classify 1.2.0",
		"SUCCESS Data directory: 1 participant folders",
		"SUCCESS Output directory writable",
		"SUCCESS PNG rendering works",
	} {
		if !log.has(want) {
			t.Errorf("missing %q in:\n%s", want, strings.Join(log.lines, "\n"))
		}
	}
	entries, _ := os.ReadDir(cfg.OutputDir)
	if len(entries) != 0 {
		t.Errorf("check left files behind: %v", entries)
	}
}

func TestRunCheck_Failures(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Classifier.Command = filepath.Join(t.TempDir(), "missing-classifier")
	cfg.DataDir = filepath.Join(t.TempDir(), "no-data")
	cfg.Output.Plot = false

	log := &recLogger{}
	if RunCheck(&cfg, log) {
		t.Fatal("RunCheck should fail")
	}
	if !log.has("ERROR Classifier not found") || !log.has("ERROR Data directory unreadable") {
		t.Errorf("missing errors in:\n%s", strings.Join(log.lines, "\n"))
	}
	if !log.has("INFO Plotting disabled") {
		t.Error("render test should be skipped when plotting is off")
	}
}
