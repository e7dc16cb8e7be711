package report

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/zsiec/vq/internal/analysis"
	apperrors "github.com/zsiec/vq/internal/errors"
)

const histogramBins = 100

var (
	seriesColor = color.RGBA{R: 0x1E, G: 0x88, B: 0xE5, A: 0xFF}
	movingColor = color.RGBA{R: 0xFF, G: 0x98, B: 0x00, A: 0xFF}
	limitColor  = color.RGBA{R: 0xF4, G: 0x43, B: 0x36, A: 0xFF}
)

// PadToLength returns values extended to n entries by repeating the last
// value. Longer input is returned unchanged; empty input pads with zeros.
func PadToLength(values []float64, n int) []float64 {
	if len(values) >= n {
		return values
	}
	out := make([]float64, n)
	copy(out, values)
	var last float64
	if len(values) > 0 {
		last = values[len(values)-1]
	}
	for i := len(values); i < n; i++ {
		out[i] = last
	}
	return out
}

func series(values []float64) plotter.XYs {
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	return pts
}

func newPanel(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	grid := plotter.NewGrid()
	grid.Horizontal.Color = nil
	grid.Vertical.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(grid)
	return p
}

func limitLine(p *plot.Plot, y float64, xMax float64, label string) {
	fn := plotter.NewFunction(func(float64) float64 { return y })
	fn.XMin, fn.XMax = 0, xMax
	fn.Color = limitColor
	fn.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(fn)
	p.Legend.Add(label, fn)
}

func ratePanel(res *analysis.Result) (*plot.Plot, error) {
	n := len(res.SampleFPS)
	p := newPanel(res.Name, "frame", "fps")

	rate, err := plotter.NewLine(series(res.SampleFPS))
	if err != nil {
		return nil, err
	}
	rate.Color = seriesColor

	moving, err := plotter.NewLine(series(PadToLength(res.MovingFPS, n)))
	if err != nil {
		return nil, err
	}
	moving.Color = movingColor
	moving.Width = vg.Points(1.5)

	p.Add(rate, moving)
	p.Legend.Add("fps", rate)
	p.Legend.Add("moving fps", moving)
	limitLine(p, float64(res.TargetFPS), float64(n-1), fmt.Sprintf("%d fps", res.TargetFPS))
	p.Legend.Top = true
	return p, nil
}

func debtPanel(res *analysis.Result, thresholdMs float64) (*plot.Plot, error) {
	n := len(res.Samples)
	p := newPanel("", "frame", "debt (ms)")

	debt, err := plotter.NewLine(series(PadToLength(res.Debt, n)))
	if err != nil {
		return nil, err
	}
	debt.Color = seriesColor

	p.Add(debt)
	p.Legend.Add("debt", debt)
	limitLine(p, thresholdMs, float64(n-1), fmt.Sprintf("%g ms", thresholdMs))
	p.Legend.Top = true
	return p, nil
}

func histogramPanel(res *analysis.Result) (*plot.Plot, error) {
	p := newPanel("", "decode time (ms)", "frames")

	values := make(plotter.Values, len(res.Samples))
	for i, s := range res.Samples {
		values[i] = float64(s)
	}
	hist, err := plotter.NewHist(values, histogramBins)
	if err != nil {
		return nil, err
	}
	hist.FillColor = seriesColor

	p.Add(hist)
	return p, nil
}

// Graph renders the rate, debt and histogram panels of res as a PNG at path.
func Graph(res *analysis.Result, params analysis.Params, path string, widthIn, heightIn float64) error {
	if len(res.Samples) == 0 {
		return apperrors.NewNoDataError(res.Name)
	}

	rate, err := ratePanel(res)
	if err != nil {
		return apperrors.WrapInternalError(err, "building rate panel")
	}
	debt, err := debtPanel(res, params.SyncThresholdMs)
	if err != nil {
		return apperrors.WrapInternalError(err, "building debt panel")
	}
	hist, err := histogramPanel(res)
	if err != nil {
		return apperrors.WrapInternalError(err, "building histogram panel")
	}

	img := vgimg.New(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 3,
		Cols: 1,
		PadX: vg.Millimeter,
		PadY: vg.Millimeter * 2,
	}
	plots := [][]*plot.Plot{{rate}, {debt}, {hist}}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return apperrors.WrapIOError(err, "creating graph "+path)
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		_ = f.Close()
		return apperrors.WrapIOError(err, "writing graph "+path)
	}
	if err := f.Close(); err != nil {
		return apperrors.WrapIOError(err, "closing graph "+path)
	}
	return nil
}
