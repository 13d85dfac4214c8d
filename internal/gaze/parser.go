package gaze

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Parser loads one recording. Implementations must return a *ParseError for
// malformed input; an empty (zero-sample) series is not an error.
type Parser interface {
	Parse(path string, b Bounds) (*TimeSeries, error)
}

// TSVParser reads tab-separated recordings with a header row.
type TSVParser struct{}

// Parse opens path and parses it with [ParseReader].
func (TSVParser) Parse(path string, b Bounds) (*TimeSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()
	return ParseReader(f, path, b)
}

// columnIndex maps recording columns to field positions; -1 when absent.
type columnIndex struct {
	time           int
	lx, ly, rx, ry int
	avgX, avgY     int
}

// ParseReader parses a recording from r. name is used in error messages.
// Exported for testing without files on disk.
func ParseReader(r io.Reader, name string, b Bounds) (*TimeSeries, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	lineNo := 0
	var idx columnIndex
	haveHeader := false
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		idx = indexHeader(strings.Split(strings.TrimPrefix(line, "\ufeff"), "\t"))
		haveHeader = true
		break
	}
	if err := sc.Err(); err != nil {
		return nil, &ParseError{Path: name, Err: err}
	}
	if !haveHeader {
		// A zero-byte file is a recording without samples, not a broken one.
		return &TimeSeries{}, nil
	}
	if idx.time < 0 {
		return nil, &ParseError{Path: name, Line: lineNo, Err: ErrNoTimeCol}
	}

	ts := &TimeSeries{}
	if idx.lx >= 0 && idx.ly >= 0 {
		ts.Left = &Channel{}
	}
	if idx.rx >= 0 && idx.ry >= 0 {
		ts.Right = &Channel{}
	}
	if idx.avgX >= 0 && idx.avgY >= 0 {
		ts.Average = &Channel{}
	}
	if ts.Left == nil && ts.Right == nil && ts.Average == nil {
		return nil, &ParseError{Path: name, Line: lineNo, Err: ErrNoChannels}
	}

	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")

		t, err := strconv.ParseFloat(strings.TrimSpace(field(fields, idx.time)), 64)
		if err != nil || math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, &ParseError{Path: name, Line: lineNo, Err: fmt.Errorf("%w %q", ErrBadTime, field(fields, idx.time))}
		}
		if n := len(ts.Time); n > 0 && t < ts.Time[n-1] {
			return nil, &ParseError{Path: name, Line: lineNo, Err: ErrTimeReverse}
		}
		ts.Time = append(ts.Time, t)

		appendSample(ts.Left, fields, idx.lx, idx.ly, b)
		appendSample(ts.Right, fields, idx.rx, idx.ry, b)
		appendSample(ts.Average, fields, idx.avgX, idx.avgY, b)
	}
	if err := sc.Err(); err != nil {
		return nil, &ParseError{Path: name, Line: lineNo, Err: err}
	}
	return ts, nil
}

func indexHeader(cols []string) columnIndex {
	idx := columnIndex{-1, -1, -1, -1, -1, -1, -1}
	for i, c := range cols {
		c = strings.TrimSpace(c)
		switch {
		case strings.EqualFold(c, ColTime):
			idx.time = i
		case strings.EqualFold(c, ColLeftX):
			idx.lx = i
		case strings.EqualFold(c, ColLeftY):
			idx.ly = i
		case strings.EqualFold(c, ColRightX):
			idx.rx = i
		case strings.EqualFold(c, ColRightY):
			idx.ry = i
		case strings.EqualFold(c, ColAverageX):
			idx.avgX = i
		case strings.EqualFold(c, ColAverageY):
			idx.avgY = i
		}
	}
	return idx
}

func field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}

// appendSample converts one coordinate pair. A sample is lost as a whole:
// if either coordinate is unparsable or off screen both get the sentinel.
func appendSample(ch *Channel, fields []string, xi, yi int, b Bounds) {
	if ch == nil {
		return
	}
	x, okX := coord(field(fields, xi), b.XRes, b.Normalized)
	y, okY := coord(field(fields, yi), b.YRes, b.Normalized)
	if !okX || !okY {
		x, y = b.MissingX, b.MissingY
	}
	ch.X = append(ch.X, x)
	ch.Y = append(ch.Y, y)
}

func coord(s string, res float64, normalized bool) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if normalized {
		v *= res
	}
	if v < 0 || v > res {
		return 0, false
	}
	return v, true
}
