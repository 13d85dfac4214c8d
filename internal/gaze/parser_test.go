package gaze

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testBounds = Bounds{XRes: 1000, YRes: 500, MissingX: -1000, MissingY: -500, Normalized: true}

func TestParseReader_Normalized(t *testing.T) {
	in := "time\tL_X\tL_Y\tR_X\tR_Y\n" +
		"0\t0.5\t0.5\t0.25\t0.1\n" +
		"3.3\t0.6\t0.4\t0.3\t0.2\n"
	ts, err := ParseReader(strings.NewReader(in), "rec.tsv", testBounds)
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	if ts.Len() != 2 {
		t.Fatalf("Len = %d, want 2", ts.Len())
	}
	if diff := cmp.Diff([]float64{0, 3.3}, ts.Time); diff != "" {
		t.Errorf("time mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(&Channel{X: []float64{500, 600}, Y: []float64{250, 200}}, ts.Left); diff != "" {
		t.Errorf("left mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(&Channel{X: []float64{250, 300}, Y: []float64{50, 100}}, ts.Right); diff != "" {
		t.Errorf("right mismatch (-want +got):\n%s", diff)
	}
	if ts.Average != nil {
		t.Error("Average should be nil when its columns are absent")
	}
}

func TestParseReader_PixelsAndDataLoss(t *testing.T) {
	b := testBounds
	b.Normalized = false
	in := "time\taverage_X\taverage_Y\n" +
		"0\t100\t200\n" +
		"1\t-5\t200\n" + // off screen
		"2\t\t\n" + // empty
		"3\tnan\t10\n" + // unparsable as a coordinate
		"4\t1000\t500\n" // exactly on the edge
	ts, err := ParseReader(strings.NewReader(in), "rec.tsv", b)
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	want := &Channel{
		X: []float64{100, -1000, -1000, -1000, 1000},
		Y: []float64{200, -500, -500, -500, 500},
	}
	if diff := cmp.Diff(want, ts.Average); diff != "" {
		t.Errorf("average mismatch (-want +got):\n%s", diff)
	}
	if got := ts.Channels(); len(got) != 1 || got[0].XName != ColAverageX {
		t.Errorf("Channels() = %+v, want only average", got)
	}
}

func TestParseReader_HeaderOnlyIsEmpty(t *testing.T) {
	ts, err := ParseReader(strings.NewReader("time\tL_X\tL_Y\n\n"), "rec.tsv", testBounds)
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	if !ts.Empty() {
		t.Errorf("Len = %d, want 0", ts.Len())
	}
}

func TestParseReader_ZeroByteIsEmpty(t *testing.T) {
	ts, err := ParseReader(strings.NewReader(""), "rec.tsv", testBounds)
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	if !ts.Empty() {
		t.Errorf("Len = %d, want 0", ts.Len())
	}
}

func TestParseReader_Errors(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantErr  error
		wantLine int
	}{
		{"no time column", "t\tL_X\tL_Y\n1\t0\t0\n", ErrNoTimeCol, 1},
		{"no complete pair", "time\tL_X\tR_Y\n1\t0\t0\n", ErrNoChannels, 1},
		{"bad timestamp", "time\tL_X\tL_Y\n0\t0\t0\nabc\t0\t0\n", ErrBadTime, 3},
		{"backwards time", "time\tL_X\tL_Y\n5\t0\t0\n4\t0\t0\n", ErrTimeReverse, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReader(strings.NewReader(tt.in), "rec.tsv", testBounds)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want *ParseError", err)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", pe.Line, tt.wantLine)
			}
		})
	}
}

func TestTSVParser_FileAndCaseInsensitiveHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trial1.tsv")
	content := "\ufeffTIME\tl_x\tl_y\r\n10\t0.1\t0.2\r\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	ts, err := TSVParser{}.Parse(path, testBounds)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ts.Len() != 1 || ts.Left == nil || ts.Left.X[0] != 100 || ts.Left.Y[0] != 100 {
		t.Errorf("unexpected series: %+v left=%+v", ts, ts.Left)
	}
}

func TestTSVParser_MissingFile(t *testing.T) {
	_, err := TSVParser{}.Parse(filepath.Join(t.TempDir(), "missing.tsv"), testBounds)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
}
