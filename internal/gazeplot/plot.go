// Package gazeplot renders diagnostic figures of a recording: the gaze
// traces over time with the detected fixations drawn on top, one panel per
// axis.
package gazeplot

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/backmassage/fixbatch/internal/fixation"
	"github.com/backmassage/fixbatch/internal/gaze"
)

// Resolution is the display size in pixels; it fixes the panel ranges.
type Resolution struct {
	X, Y float64
}

// Figure is a rendered figure that has not been written yet.
type Figure interface {
	// Save writes the figure to path and releases it.
	Save(path string) error
}

// Plotter builds a figure for one classified recording.
type Plotter interface {
	Plot(ts *gaze.TimeSeries, set fixation.Set, res Resolution) (Figure, error)
}

var (
	colorLeft     = color.RGBA{R: 204, G: 37, B: 41, A: 255}
	colorRight    = color.RGBA{R: 57, G: 106, B: 177, A: 255}
	colorAverage  = color.RGBA{R: 62, G: 150, B: 81, A: 255}
	colorFixation = color.RGBA{A: 255}
)

// Renderer draws PNG figures with gonum/plot.
type Renderer struct {
	Width    vg.Length
	Height   vg.Length
	MissingX float64
	MissingY float64
}

// NewRenderer returns a renderer producing widthIn x heightIn inch figures.
// Samples equal to the sentinels are treated as gaps in the traces.
func NewRenderer(widthIn, heightIn, missingX, missingY float64) *Renderer {
	return &Renderer{
		Width:    vg.Length(widthIn) * vg.Inch,
		Height:   vg.Length(heightIn) * vg.Inch,
		MissingX: missingX,
		MissingY: missingY,
	}
}

// Plot builds the horizontal and vertical panels. Fixations are drawn as
// horizontal segments from startT to endT at their mean position; a set
// without those columns is drawn without overlay.
func (r *Renderer) Plot(ts *gaze.TimeSeries, set fixation.Set, res Resolution) (Figure, error) {
	if ts.Empty() {
		return nil, errors.New("nothing to plot")
	}
	px := newPanel("Horizontal gaze", "x (px)", res.X)
	py := newPanel("Vertical gaze", "y (px)", res.Y)

	for _, ch := range ts.Channels() {
		c := traceColor(ch.XName)
		if err := addTrace(px, ch.XName, ts.Time, ch.Channel.X, r.MissingX, c); err != nil {
			return nil, err
		}
		if err := addTrace(py, ch.YName, ts.Time, ch.Channel.Y, r.MissingY, c); err != nil {
			return nil, err
		}
	}
	if err := addFixations(px, set, fixation.ColXPos); err != nil {
		return nil, err
	}
	if err := addFixations(py, set, fixation.ColYPos); err != nil {
		return nil, err
	}
	return &figure{panels: []*plot.Plot{px, py}, width: r.Width, height: r.Height}, nil
}

func newPanel(title, ylabel string, extent float64) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (ms)"
	p.Y.Label.Text = ylabel
	p.Y.Min = 0
	p.Y.Max = extent
	p.Legend.Top = true
	return p
}

func traceColor(xName string) color.Color {
	switch xName {
	case gaze.ColLeftX:
		return colorLeft
	case gaze.ColRightX:
		return colorRight
	default:
		return colorAverage
	}
}

// addTrace draws v against t, broken at every missing sample so gaps are
// not bridged by straight lines.
func addTrace(p *plot.Plot, name string, t, v []float64, missing float64, c color.Color) error {
	legend := false
	for _, run := range splitRuns(t, v, missing) {
		l, err := plotter.NewLine(run)
		if err != nil {
			return fmt.Errorf("plot %s: %w", name, err)
		}
		l.Color = c
		l.Width = vg.Points(0.75)
		p.Add(l)
		if !legend {
			p.Legend.Add(name, l)
			legend = true
		}
	}
	return nil
}

// splitRuns returns the maximal runs of valid samples with at least two
// points each.
func splitRuns(t, v []float64, missing float64) []plotter.XYs {
	var runs []plotter.XYs
	var cur plotter.XYs
	flush := func() {
		if len(cur) >= 2 {
			runs = append(runs, cur)
		}
		cur = nil
	}
	for i := range t {
		if i >= len(v) || v[i] == missing || math.IsNaN(v[i]) {
			flush()
			continue
		}
		cur = append(cur, plotter.XY{X: t[i], Y: v[i]})
	}
	flush()
	return runs
}

func addFixations(p *plot.Plot, set fixation.Set, posCol string) error {
	start, end, pos := set.Column(fixation.ColStartT), set.Column(fixation.ColEndT), set.Column(posCol)
	if start == nil || end == nil || pos == nil {
		return nil
	}
	for i := range start.Values {
		s, e, y := start.Values[i], end.Values[i], pos.Values[i]
		if math.IsNaN(s) || math.IsNaN(e) || math.IsNaN(y) {
			continue
		}
		l, err := plotter.NewLine(plotter.XYs{{X: s, Y: y}, {X: e, Y: y}})
		if err != nil {
			return fmt.Errorf("plot fixation %d: %w", i, err)
		}
		l.Color = colorFixation
		l.Width = vg.Points(2)
		p.Add(l)
	}
	return nil
}

// figure stacks its panels vertically on one PNG canvas.
type figure struct {
	panels []*plot.Plot
	width  vg.Length
	height vg.Length
}

func (f *figure) Save(path string) error {
	if f.panels == nil {
		return errors.New("figure already saved")
	}
	img := vgimg.New(f.width, f.height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: len(f.panels),
		Cols: 1,
		PadX: vg.Millimeter,
		PadY: vg.Millimeter * 4,
	}
	grid := make([][]*plot.Plot, len(f.panels))
	for i, p := range f.panels {
		grid[i] = []*plot.Plot{p}
	}
	canvases := plot.Align(grid, tiles, dc)
	for i, p := range f.panels {
		p.Draw(canvases[i][0])
	}
	f.panels = nil

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(out); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}
