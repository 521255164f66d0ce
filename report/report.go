// Package report draws training plots with gonum/plot. The image format
// follows the file extension (.png, .svg, .pdf, ...).
package report

import (
	"image/color"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ezoic/lifeexp/dataset"
	"github.com/ezoic/lifeexp/linear"
	"github.com/ezoic/lifeexp/pkg/errors"
)

var (
	width  = 8 * vg.Inch
	height = 6 * vg.Inch
)

// PlotFit saves a scatter plot of ds with the line described by p.
func PlotFit(path string, ds *dataset.Dataset, p linear.Params) error {
	if ds.Len() == 0 {
		return errors.NewModelError("PlotFit", "no samples", errors.ErrEmptyData)
	}

	pts := make(plotter.XYs, ds.Len())
	for i := range pts {
		pts[i].X = ds.Features[i]
		pts[i].Y = ds.Labels[i]
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "scatter")
	}
	scatter.Color = plotter.DefaultLineStyle.Color

	minX, maxX := floats.Min(ds.Features), floats.Max(ds.Features)
	line, err := plotter.NewLine(plotter.XYs{
		{X: minX, Y: p.Predict(minX)},
		{X: maxX, Y: p.Predict(maxX)},
	})
	if err != nil {
		return errors.Wrap(err, "fitted line")
	}
	line.Width = vg.Points(2)
	line.Color = color.RGBA{R: 200, A: 255}

	pl := plot.New()
	pl.Title.Text = "Life expectancy vs BMI"
	pl.X.Label.Text = "BMI"
	pl.Y.Label.Text = "Life expectancy (years)"
	pl.Add(scatter, line)
	pl.Legend.Add("Data points", scatter)
	pl.Legend.Add("Fitted line", line)

	return save(pl, path)
}

// PlotLoss saves the training loss per epoch.
func PlotLoss(path string, losses []float64) error {
	if len(losses) == 0 {
		return errors.NewValueError("PlotLoss", "no epochs to plot")
	}

	pts := make(plotter.XYs, len(losses))
	for i, l := range losses {
		pts[i].X = float64(i + 1)
		pts[i].Y = l
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "loss curve")
	}

	pl := plot.New()
	pl.Title.Text = "Training loss"
	pl.X.Label.Text = "Epoch"
	pl.Y.Label.Text = "MSE"
	pl.Add(plotter.NewGrid(), line)

	return save(pl, path)
}

func save(pl *plot.Plot, path string) error {
	if err := pl.Save(width, height, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	return nil
}
