package gaze

import (
	"errors"
	"fmt"
)

// Sentinel causes wrapped by ParseError.
var (
	ErrNoTimeCol   = errors.New("no time column")
	ErrNoChannels  = errors.New("no complete coordinate pair (L_X/L_Y, R_X/R_Y or average_X/average_Y)")
	ErrBadTime     = errors.New("invalid timestamp")
	ErrTimeReverse = errors.New("timestamps go backwards")
)

// ParseError reports a recording that could not be read. Line is 1-based
// and zero when the problem is not tied to a line.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
