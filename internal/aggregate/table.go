// Package aggregate writes the run's combined fixation table: one
// tab-separated file, one header row, then one row per fixation tagged with
// its participant and trial.
package aggregate

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/backmassage/fixbatch/internal/fixation"
)

// Tag columns appended after the classifier's own columns.
const (
	ColParticipant = "participant"
	ColTrial       = "trial"
)

// ErrSchemaMismatch means a set's column names or kinds differ from the
// first appended set.
var ErrSchemaMismatch = errors.New("fixation columns differ from the table header")

// ErrInvalidSet means a set is structurally broken, e.g. ragged columns.
var ErrInvalidSet = errors.New("invalid fixation set")

// column is the part of a fixation column that fixes the file layout.
type column struct {
	name string
	kind fixation.Kind
}

func (c column) String() string { return c.name + ":" + c.kind.String() }

func schemaOf(set fixation.Set) []column {
	cols := make([]column, len(set.Columns))
	for i, c := range set.Columns {
		cols[i] = column{name: c.Name, kind: c.Kind}
	}
	return cols
}

func joinSchema(cols []column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Table is the aggregate output file. The first Append truncates the file
// and writes the header; later appends add rows only. The file is opened
// and closed per append. Table is safe for concurrent use.
type Table struct {
	mu      sync.Mutex
	path    string
	columns []column // classifier columns; nil until the first append
	rows    int
}

// New returns a table that will be written to path. Nothing is created
// until the first Append.
func New(path string) *Table {
	return &Table{path: path}
}

// Path returns the destination file.
func (t *Table) Path() string { return t.path }

// Rows returns the number of data rows written so far.
func (t *Table) Rows() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rows
}

// Started reports whether the header has been written.
func (t *Table) Started() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.columns != nil
}

// Append writes set's rows tagged with groupID and recordingID. A set with
// zero rows still fixes the schema and, on the first call, writes the header.
func (t *Table) Append(groupID, recordingID string, set fixation.Set) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := set.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSet, err)
	}
	schema := schemaOf(set)
	first := t.columns == nil
	if !first && !slices.Equal(schema, t.columns) {
		return fmt.Errorf("%w: got [%s], want [%s]", ErrSchemaMismatch,
			joinSchema(schema), joinSchema(t.columns))
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_APPEND
	if first {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(t.path, flag, 0o644)
	if err != nil {
		return fmt.Errorf("open aggregate table: %w", err)
	}

	w := bufio.NewWriter(f)
	if first {
		header := append(set.Names(), ColParticipant, ColTrial)
		w.WriteString(strings.Join(header, "\t"))
		w.WriteByte('\n')
	}
	n := set.Len()
	fields := make([]string, 0, len(schema)+2)
	for i := 0; i < n; i++ {
		fields = fields[:0]
		for _, c := range set.Columns {
			fields = append(fields, FormatValue(c.Values[i], c.Kind))
		}
		fields = append(fields, groupID, recordingID)
		w.WriteString(strings.Join(fields, "\t"))
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write aggregate table: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close aggregate table: %w", err)
	}

	if first {
		t.columns = schema
	}
	t.rows += n
	return nil
}

// FormatValue renders one cell: floats with three decimals, ints without
// decimals, and nan/inf/-inf for non-finite values.
func FormatValue(v float64, k fixation.Kind) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if k == fixation.KindInt {
		return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}
