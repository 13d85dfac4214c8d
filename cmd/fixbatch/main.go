// Command fixbatch classifies the fixations of every eye-tracking recording
// below a data directory and collects them into one tab-separated table.
//
// Usage:
//
//	fixbatch [flags] <data_dir> <output_dir>
//	fixbatch check [flags] [<data_dir> <output_dir>]
//	fixbatch version
package main

import (
	"errors"
	"fmt"
	"os"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "0.3.0"
	commit  = "unknown"
)

// Exit codes.
const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	err := cmd.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errInterrupted):
		return exitInterrupted
	case errors.Is(err, errReported):
		return exitError
	default:
		fmt.Fprintf(os.Stderr, "fixbatch: %v\n", err)
		return exitError
	}
}
