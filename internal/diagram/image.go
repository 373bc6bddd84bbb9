package diagram

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// Canvas pixels are rendered at 96 dpi.
const dpi = 96

var formats = map[string]string{
	"png":  "image/png",
	"svg":  "image/svg+xml",
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
}

// ContentType returns the MIME type of an output format.
func ContentType(format string) string {
	if ct, ok := formats[strings.ToLower(format)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// newPlot converts a scene into a plot with one data unit per pixel.
func newPlot(s Scene) (*plot.Plot, error) {
	p := plot.New()
	p.HideAxes()
	p.X.Min, p.X.Max = 0, s.Width
	p.Y.Min, p.Y.Max = 0, s.Height
	p.X.Padding, p.Y.Padding = 0, 0

	// canvas y grows downwards, plot y upwards
	flip := func(pt Point) plotter.XY { return plotter.XY{X: pt.X, Y: s.Height - pt.Y} }

	for _, sh := range s.Shapes {
		switch sh.Kind {
		case ShapeLine:
			line, err := plotter.NewLine(plotter.XYs{flip(sh.Points[0]), flip(sh.Points[1])})
			if err != nil {
				return nil, err
			}
			line.LineStyle.Width = vg.Points(sh.Width)
			line.LineStyle.Color = sh.Stroke
			p.Add(line)

		case ShapeRect, ShapePolygon, ShapeCircle:
			var pts plotter.XYs
			switch sh.Kind {
			case ShapeRect:
				a, b := sh.Points[0], sh.Points[1]
				pts = plotter.XYs{flip(a), flip(Point{b.X, a.Y}), flip(b), flip(Point{a.X, b.Y})}
			case ShapePolygon:
				for _, pt := range sh.Points {
					pts = append(pts, flip(pt))
				}
			case ShapeCircle:
				pts = circle(flip(sh.Center), sh.Radius, 48)
			}
			poly, err := plotter.NewPolygon(pts)
			if err != nil {
				return nil, err
			}
			poly.Color = sh.Fill
			poly.LineStyle.Width = vg.Points(sh.Width)
			poly.LineStyle.Color = sh.Stroke
			p.Add(poly)
		}
	}

	for _, t := range s.Texts {
		labels, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{flip(t.At)},
			Labels: []string{t.Text},
		})
		if err != nil {
			return nil, err
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].Color = t.Color
			labels.TextStyle[i].Font.Size = vg.Points(t.Size)
			labels.TextStyle[i].YAlign = text.YTop
		}
		p.Add(labels)
	}

	return p, nil
}

func circle(c plotter.XY, r float64, segments int) plotter.XYs {
	pts := make(plotter.XYs, segments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(segments)
		pts[i] = plotter.XY{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	return pts
}

func pixels(px float64) vg.Length {
	return vg.Length(px) * vg.Inch / dpi
}

// RenderLayout writes the unit drawing to w in the given format (png, svg,
// pdf or jpg).
func RenderLayout(l Layout, w io.Writer, format string) error {
	s := Build(l)
	p, err := newPlot(s)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(pixels(s.Width), pixels(s.Height), strings.ToLower(format))
	if err != nil {
		return fmt.Errorf("failed to render layout: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// RenderLayoutBytes is RenderLayout into memory.
func RenderLayoutBytes(l Layout, format string) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderLayout(l, &buf, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportLayout saves the unit drawing to filename. The format follows the
// extension; files without a known extension get ".png" appended.
func ExportLayout(l Layout, filename string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if _, ok := formats[ext]; !ok {
		ext = "png"
		filename += ".png"
	}

	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := RenderLayout(l, f, ext); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
