// Package fixation defines the classifier's result types: a column-oriented
// set of fixations and the tagged outcome of classifying one recording.
package fixation

import (
	"errors"
	"fmt"
)

// Well-known column names produced by the I2MC classifier. Only StartT and
// EndT are required by the plotter; everything else is passed through.
const (
	ColStartT = "startT"
	ColEndT   = "endT"
	ColXPos   = "xpos"
	ColYPos   = "ypos"
)

// Kind is the storage type of a column. Values are always held as float64;
// Kind decides how they are formatted.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
)

func (k Kind) String() string {
	if k == KindInt {
		return "int"
	}
	return "float"
}

// ParseKind maps "int" or "float" to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "int":
		return KindInt, nil
	case "float", "":
		return KindFloat, nil
	default:
		return KindFloat, fmt.Errorf("unknown column kind %q", s)
	}
}

// Column is one named value vector. NaN marks an undefined value.
type Column struct {
	Name   string
	Kind   Kind
	Values []float64
}

// Set holds the fixations of one recording, one row per fixation, with
// columns in classifier order.
type Set struct {
	Columns []Column
}

// NewSet validates and wraps columns: names must be unique and non-empty
// and every column must have the same length.
func NewSet(cols []Column) (Set, error) {
	s := Set{Columns: cols}
	if err := s.Validate(); err != nil {
		return Set{}, err
	}
	return s, nil
}

// Validate reports the first structural problem of s. Sets built by
// [NewSet] are always valid; literals may not be.
func (s Set) Validate() error {
	if len(s.Columns) == 0 {
		return errors.New("fixation set has no columns")
	}
	seen := make(map[string]bool, len(s.Columns))
	n := len(s.Columns[0].Values)
	for _, c := range s.Columns {
		if c.Name == "" {
			return errors.New("fixation set has an unnamed column")
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate column %q", c.Name)
		}
		seen[c.Name] = true
		if len(c.Values) != n {
			return fmt.Errorf("column %q has %d values, want %d", c.Name, len(c.Values), n)
		}
	}
	return nil
}

// Len returns the number of fixations.
func (s Set) Len() int {
	if len(s.Columns) == 0 {
		return 0
	}
	return len(s.Columns[0].Values)
}

// Names returns the column names in order.
func (s Set) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or nil.
func (s Set) Column(name string) *Column {
	for i := range s.Columns {
		if s.Columns[i].Name == name {
			return &s.Columns[i]
		}
	}
	return nil
}
