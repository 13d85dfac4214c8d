package classify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/backmassage/fixbatch/internal/fixation"
	"github.com/backmassage/fixbatch/internal/gaze"
)

// stderrTailLines bounds how much classifier stderr is quoted on failure.
const stderrTailLines = 5

// ExecClassifier runs an external classifier process per recording.
type ExecClassifier struct {
	Command string
	Args    []string

	// Timeout bounds one invocation; zero waits indefinitely.
	Timeout time.Duration

	// Verbose passes --verbose to the classifier and streams each stderr
	// line to Progress as it arrives.
	Verbose  bool
	Progress func(line string)
}

// Classify writes the recording to the classifier's stdin and decodes its
// stdout. A non-zero exit, malformed JSON or an explicit refusal is an
// error. When the parent ctx is cancelled, ctx.Err() is returned unwrapped
// so callers can tell an interrupt from a failed recording.
func (c *ExecClassifier) Classify(ctx context.Context, ts *gaze.TimeSeries, opts Options) (fixation.Set, error) {
	payload, err := EncodeRequest(ts, opts)
	if err != nil {
		return fixation.Set{}, fmt.Errorf("encode classifier input: %w", err)
	}

	runCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	args := append([]string(nil), c.Args...)
	if c.Verbose {
		args = append(args, "--verbose")
	}
	cmd := exec.CommandContext(runCtx, c.Command, args...)
	cmd.WaitDelay = 2 * time.Second
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderrBuf bytes.Buffer
	cmd.Stdout = &stdout
	if c.Verbose && c.Progress != nil {
		lw := newLineWriter(c.Progress)
		defer lw.Flush()
		cmd.Stderr = io.MultiWriter(&stderrBuf, lw)
	} else {
		cmd.Stderr = &stderrBuf
	}

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fixation.Set{}, ctx.Err()
		}
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return fixation.Set{}, fmt.Errorf("classifier timed out after %s: %w", c.Timeout, context.DeadlineExceeded)
		}
		if tail := lastLines(stderrBuf.String(), stderrTailLines); tail != "" {
			return fixation.Set{}, fmt.Errorf("%s: %w: %s", c.Command, err, tail)
		}
		return fixation.Set{}, fmt.Errorf("%s: %w", c.Command, err)
	}
	return DecodeResponse(stdout.Bytes())
}

// lastLines returns up to n trailing non-empty lines joined by " | ".
func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	var kept []string
	for i := len(lines) - 1; i >= 0 && len(kept) < n; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			kept = append([]string{l}, kept...)
		}
	}
	return strings.Join(kept, " | ")
}

// lineWriter splits a byte stream into lines and hands each to emit.
type lineWriter struct {
	mu   sync.Mutex
	buf  []byte
	emit func(string)
}

func newLineWriter(emit func(string)) *lineWriter {
	return &lineWriter{emit: emit}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(strings.TrimRight(string(w.buf[:i]), "\r"))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush emits a trailing partial line, if any.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.buf) > 0 {
		w.emit(strings.TrimRight(string(w.buf), "\r"))
		w.buf = nil
	}
}
