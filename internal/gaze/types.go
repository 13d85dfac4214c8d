package gaze

// Column names used in recordings and in the classifier payload.
const (
	ColTime     = "time"
	ColLeftX    = "L_X"
	ColLeftY    = "L_Y"
	ColRightX   = "R_X"
	ColRightY   = "R_Y"
	ColAverageX = "average_X"
	ColAverageY = "average_Y"
)

// Channel holds one eye's (or the averaged) gaze coordinates in pixels,
// index-aligned with [TimeSeries.Time].
type Channel struct {
	X []float64
	Y []float64
}

// NamedChannel pairs a channel with its column names.
type NamedChannel struct {
	XName   string
	YName   string
	Channel *Channel
}

// TimeSeries is the parsed content of one recording. At least one of Left,
// Right or Average is non-nil for a non-empty series. Time is in
// milliseconds and non-decreasing.
type TimeSeries struct {
	Time    []float64
	Left    *Channel
	Right   *Channel
	Average *Channel
}

// Len returns the number of samples.
func (ts *TimeSeries) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.Time)
}

// Empty reports whether the series holds no samples.
func (ts *TimeSeries) Empty() bool { return ts.Len() == 0 }

// Channels returns the present channels in fixed order: left, right, average.
func (ts *TimeSeries) Channels() []NamedChannel {
	var out []NamedChannel
	if ts.Left != nil {
		out = append(out, NamedChannel{ColLeftX, ColLeftY, ts.Left})
	}
	if ts.Right != nil {
		out = append(out, NamedChannel{ColRightX, ColRightY, ts.Right})
	}
	if ts.Average != nil {
		out = append(out, NamedChannel{ColAverageX, ColAverageY, ts.Average})
	}
	return out
}

// Bounds tells the parser the screen geometry and how to mark data loss.
type Bounds struct {
	XRes     float64
	YRes     float64
	MissingX float64
	MissingY float64

	// Normalized means coordinates are stored as fractions of the screen
	// and must be scaled by XRes/YRes.
	Normalized bool
}
