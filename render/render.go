// Package render draws packings to image files.
package render

import (
	"fmt"
	"math"

	"github.com/rwcarlsen/circpack"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// segments is the number of line segments used to draw each circle.
const segments = 128

func outline(center circpack.Point, r float64) plotter.XYs {
	pts := make(plotter.XYs, segments+1)
	for i := range pts {
		s, c := math.Sincos(2 * math.Pi * float64(i) / segments)
		pts[i] = plotter.XY{X: center.X + r*c, Y: center.Y + r*s}
	}
	return pts
}

// Plot builds a plot of the enclosing circle of radius R and every placed
// circle.  Unplaced circles are skipped.
func Plot(R float64, circles []circpack.Circle) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%v circles, R = %.6f", len(circles), R)
	p.X.Min, p.X.Max = -R, R
	p.Y.Min, p.Y.Max = -R, R

	enc, err := plotter.NewLine(outline(circpack.Point{}, R))
	if err != nil {
		return nil, err
	}
	enc.Color = plotutil.Color(0)
	enc.Width = vg.Points(1.5)
	p.Add(enc)

	for i, c := range circles {
		center, ok := c.Center()
		if !ok {
			continue
		}
		l, err := plotter.NewLine(outline(center, c.Radius))
		if err != nil {
			return nil, err
		}
		l.Color = plotutil.Color(i + 1)
		p.Add(l)
	}
	return p, nil
}

// Save writes the packing to path.  The image format follows the file
// extension (png, svg, pdf, ...) and the image is size by size.
func Save(path string, R float64, circles []circpack.Circle, size vg.Length) error {
	p, err := Plot(R, circles)
	if err != nil {
		return err
	}
	return p.Save(size, size, path)
}
