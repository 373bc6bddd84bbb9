package diagram

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/littleRiceZhou/auto-aspen/internal/catalog"
	"github.com/littleRiceZhou/auto-aspen/internal/power"
)

const (
	// PixelsPerMeter scales the unit footprint onto the canvas.
	PixelsPerMeter = 100.0
	MinFrameWidth  = 550.0
	MinFrameHeight = 350.0
	Margin         = 50.0
)

var (
	colorTurbine   = color.RGBA{R: 173, G: 216, B: 230, A: 255}
	colorGearbox   = color.RGBA{R: 211, G: 211, B: 211, A: 255}
	colorGenerator = color.RGBA{R: 144, G: 238, B: 144, A: 255}
	colorBelt      = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	colorDimension = color.RGBA{B: 255, A: 255}
	colorPower     = color.RGBA{R: 255, A: 255}
	colorOutline   = color.Black
)

// Point is a canvas coordinate in pixels, y growing downwards.
type Point struct {
	X float64
	Y float64
}

// Layout is the unit footprint and power split to draw.
type Layout struct {
	LengthM  float64 // m
	WidthM   float64 // m
	NetPower int     // kW

	// Dual units carry two turbines on one gearbox.
	Dual             bool
	FirstLevelPower  int // kW, turbine 1#
	SecondLevelPower int // kW, turbine 2#
}

// NewLayout is a single turbine layout.
func NewLayout(dims catalog.Dimensions, netPower float64) Layout {
	return Layout{
		LengthM:  dims.Length(),
		WidthM:   dims.Width(),
		NetPower: int(math.Round(netPower)),
	}
}

// NewDualLayout is a two turbine layout with the given level ratings.
func NewDualLayout(dims catalog.Dimensions, netPower, firstLevel, secondLevel float64) Layout {
	l := NewLayout(dims, netPower)
	l.Dual = true
	l.FirstLevelPower = int(math.Round(firstLevel))
	l.SecondLevelPower = int(math.Round(secondLevel))
	return l
}

// FromDesign draws the unit the pipeline selected, following its level split.
func FromDesign(r *power.Result) Layout {
	dims, net := r.UnitSelection.UnitDimensions, r.Utility.NetPowerOutput
	if !r.IsDualLevel || r.FirstLevelPower == nil || r.SecondLevelPower == nil {
		return NewLayout(dims, net)
	}
	return NewDualLayout(dims, net, *r.FirstLevelPower, *r.SecondLevelPower)
}

// IsDualLevel reports whether two turbines are drawn.
func (l Layout) IsDualLevel() bool {
	return l.Dual
}

type ShapeKind int

const (
	ShapeRect ShapeKind = iota
	ShapePolygon
	ShapeCircle
	ShapeLine
)

// Shape is a filled outline or a stroked line on the canvas.
type Shape struct {
	Kind   ShapeKind
	Name   string
	Points []Point // rect: top-left and bottom-right; line: endpoints
	Center Point   // circle
	Radius float64 // circle
	Fill   color.Color
	Stroke color.Color
	Width  float64 // stroke width, pixels
}

// Text is a label anchored at its top-left corner.
type Text struct {
	At    Point
	Text  string
	Color color.Color
	Size  float64 // points
}

// Scene is a rendering independent drawing of a layout.
type Scene struct {
	Width  float64
	Height float64
	Shapes []Shape
	Texts  []Text
}

// Shape returns the first shape with the given name.
func (s Scene) Shape(name string) (Shape, bool) {
	for _, sh := range s.Shapes {
		if sh.Name == name {
			return sh, true
		}
	}
	return Shape{}, false
}

func (s *Scene) rect(name string, x0, y0, x1, y1 float64, fill color.Color, width float64) {
	s.Shapes = append(s.Shapes, Shape{
		Kind:   ShapeRect,
		Name:   name,
		Points: []Point{{x0, y0}, {x1, y1}},
		Fill:   fill,
		Stroke: colorOutline,
		Width:  width,
	})
}

func (s *Scene) line(x0, y0, x1, y1 float64, c color.Color) {
	s.Shapes = append(s.Shapes, Shape{
		Kind:   ShapeLine,
		Points: []Point{{x0, y0}, {x1, y1}},
		Stroke: c,
		Width:  2,
	})
}

func (s *Scene) polygon(name string, pts []Point, fill color.Color) {
	s.Shapes = append(s.Shapes, Shape{Kind: ShapePolygon, Name: name, Points: pts, Fill: fill, Stroke: colorOutline, Width: 2})
}

func (s *Scene) circle(name string, c Point, r float64, fill color.Color) {
	s.Shapes = append(s.Shapes, Shape{Kind: ShapeCircle, Name: name, Center: c, Radius: r, Fill: fill, Stroke: colorOutline, Width: 2})
}

func (s *Scene) text(x, y float64, str string, c color.Color, size float64) {
	s.Texts = append(s.Texts, Text{At: Point{x, y}, Text: str, Color: c, Size: size})
}

// belt draws a pair of parallel belts centred on y between x0 and x1.
func (s *Scene) belt(x0, x1, y float64) {
	const width, gap = 8.0, 4.0
	s.rect("belt", x0, y-gap/2-width, x1, y-gap/2, colorBelt, 1)
	s.rect("belt", x0, y+gap/2, x1, y+gap/2+width, colorBelt, 1)
}

func meters(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "m"
}

// frame draws the footprint and its dimension lines and returns the frame
// origin and size.
func (s *Scene) frame(l Layout) (x, y, w, h float64) {
	w = math.Max(l.LengthM*PixelsPerMeter, MinFrameWidth)
	h = math.Max(l.WidthM*PixelsPerMeter, MinFrameHeight)
	x, y = Margin, Margin

	s.Width = w + 2*Margin
	s.Height = h + 2*Margin

	s.rect("frame", x, y, x+w, y+h, nil, 3)

	// length along the top
	s.line(x, y-20, x+w, y-20, colorDimension)
	s.line(x, y-25, x, y-15, colorDimension)
	s.line(x+w, y-25, x+w, y-15, colorDimension)
	s.text(x+w/2-20, y-40, meters(l.LengthM), colorDimension, 12)

	// width along the left side
	s.line(x-20, y, x-20, y+h, colorDimension)
	s.line(x-25, y, x-15, y, colorDimension)
	s.line(x-25, y+h, x-15, y+h, colorDimension)
	s.text(x-45, y+h/2-10, meters(l.WidthM), colorDimension, 12)

	return x, y, w, h
}

// Build lays out the unit drawing.
func Build(l Layout) Scene {
	var s Scene
	if l.IsDualLevel() {
		s.buildTwoLevel(l)
	} else {
		s.buildOneLevel(l)
	}
	return s
}

func (s *Scene) buildOneLevel(l Layout) {
	x, y, w, h := s.frame(l)

	tx, ty := x+80, y+h/2
	s.polygon("turbine", []Point{{tx, ty - 40}, {tx + 80, ty - 20}, {tx + 80, ty + 20}, {tx, ty + 40}}, colorTurbine)
	s.text(tx-20, ty-70, "Turbine", colorOutline, 12)

	gx, gy := tx+100, y+h/2-60
	s.rect("gearbox", gx, gy, gx+80, gy+150, colorGearbox, 2)
	s.text(gx+10, gy-25, "Gearbox", colorOutline, 12)

	mx, my, mr := gx+80+60, y+h/1.6, 40.0
	s.circle("generator", Point{mx, my}, mr, colorGenerator)
	s.text(mx-6, my-8, "M", colorOutline, 16)
	s.text(mx+50, my-10, "Generator (Ex)", colorOutline, 12)

	s.belt(tx+80, gx, ty)
	s.belt(gx+80, mx-mr, my)

	s.text(mx-20, my+mr+20, fmt.Sprintf("Net power: %dkW", l.NetPower), colorPower, 12)
	s.text(x+w/2-120, y+h+15, "Pressure Energy Generator Set", colorOutline, 16)
}

func (s *Scene) buildTwoLevel(l Layout) {
	x, y, w, h := s.frame(l)

	gx, gy := x+w/2-25, y+60
	gh := h - 180
	s.rect("gearbox", gx, gy, gx+50, gy+gh, colorGearbox, 2)
	s.text(gx-10, gy-25, "Gearbox", colorOutline, 12)

	t1x, t1y := x+80, y+120
	s.polygon("turbine1", []Point{{t1x, t1y - 30}, {t1x + 60, t1y - 15}, {t1x + 60, t1y + 15}, {t1x, t1y + 30}}, colorTurbine)
	s.text(t1x-20, t1y-50, "1# Turbine", colorOutline, 12)
	s.text(t1x-40, t1y-70, fmt.Sprintf("Net power: %dkW", l.FirstLevelPower), colorOutline, 10)

	t2x, t2y := x+w-120, y+120
	s.polygon("turbine2", []Point{{t2x, t2y - 15}, {t2x, t2y + 15}, {t2x + 60, t2y + 30}, {t2x + 60, t2y - 30}}, colorTurbine)
	s.text(t2x+10, t2y-50, "2# Turbine", colorOutline, 12)
	s.text(t2x-10, t2y-70, fmt.Sprintf("Net power: %dkW", l.SecondLevelPower), colorOutline, 10)

	mx, my, mr := gx+50+60, y+h-160, 35.0
	s.circle("generator", Point{mx, my}, mr, colorGenerator)
	s.text(mx-6, my-8, "M", colorOutline, 16)
	s.text(mx+45, my-10, "Generator", colorOutline, 12)

	s.belt(t1x+60, gx, t1y)
	s.belt(gx+50, t2x, t2y)
	s.belt(gx+50, mx-mr, my)

	s.text(x+20, y+h-30, fmt.Sprintf("Total net power: %dkW", l.NetPower), colorPower, 12)
}
