// Package plotting renders deformation results as images.
package plotting

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"Wheelcalc/internal/calc/deformation"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	Width  = 16 * vg.Centimeter
	Height = 10 * vg.Centimeter
)

var seriesColors = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},
	color.RGBA{R: 214, G: 39, B: 40, A: 255},
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
}

// Deformation plots lateral, radial and tangential rim displacement in mm
// against θ in degrees and returns a PNG image.
func Deformation(res deformation.Result) ([]byte, error) {
	if len(res.Theta) == 0 {
		return nil, fmt.Errorf("plotting: no deformation samples")
	}

	p := plot.New()
	p.Title.Text = "Rim deformation"
	p.X.Label.Text = "Angle (deg)"
	p.Y.Label.Text = "Displacement (mm)"
	p.Add(plotter.NewGrid())

	series := []struct {
		name string
		data []float64
	}{
		{"Lateral", res.DefLat},
		{"Radial", res.DefRad},
		{"Tangential", res.DefTan},
	}
	for i, s := range series {
		if len(s.data) != len(res.Theta) {
			return nil, fmt.Errorf("plotting %s: got %d values for %d angles", s.name, len(s.data), len(res.Theta))
		}
		pts := make(plotter.XYs, len(res.Theta))
		for j, theta := range res.Theta {
			pts[j] = plotter.XY{X: theta * 180 / math.Pi, Y: s.data[j] * 1000}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("plotting %s: %w", s.name, err)
		}
		line.Color = seriesColors[i]
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.name, line)
	}
	p.Legend.Top = true

	c := vgimg.New(Width, Height)
	p.Draw(draw.New(c))
	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("plotting: %w", err)
	}
	return buf.Bytes(), nil
}
