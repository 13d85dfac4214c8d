// Package term holds the ANSI color codes shared by logging and display.
// [Configure] fills them in at startup; with colors off they stay empty so
// concatenating them costs nothing.
package term

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/backmassage/fixbatch/internal/config"
)

// Escape sequences per log level. Empty while colors are off.
var (
	Red     = "" // errors
	Green   = "" // classified recordings
	Yellow  = "" // skipped recordings, warnings
	Blue    = "" // progress
	Cyan    = "" // classifier output
	Magenta = "" // closing summary, banner
	NC      = "" // reset
)

// palette lists every color variable with its bold bright-foreground code.
var palette = []struct {
	dst  *string
	code string
}{
	{&Red, "\033[1;91m"},
	{&Green, "\033[1;92m"},
	{&Yellow, "\033[1;93m"},
	{&Blue, "\033[1;94m"},
	{&Cyan, "\033[1;96m"},
	{&Magenta, "\033[1;95m"},
	{&NC, "\033[0m"},
}

// Configure switches colors on or off for mode. [logging.NewLogger] calls it
// once before the first line is written.
func Configure(mode config.ColorMode) {
	on := wantColor(mode)
	for _, p := range palette {
		if on {
			*p.dst = p.code
		} else {
			*p.dst = ""
		}
	}
}

// Enabled reports whether the last Configure turned colors on.
func Enabled() bool { return NC != "" }

// wantColor decides auto mode from stdout, NO_COLOR (https://no-color.org)
// and TERM=dumb.
func wantColor(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" || strings.EqualFold(os.Getenv("TERM"), "dumb") {
		return false
	}
	return IsTerminal(os.Stdout)
}

// IsTerminal reports whether f is a terminal, Cygwin and MSYS ptys included.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
