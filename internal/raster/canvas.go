// Package raster draws frames into braille text for terminals.
package raster

import (
	"math"

	"github.com/verte-zerg/flagball/internal/model"
)

const (
	dotsPerCellX = 2
	dotsPerCellY = 4
)

type rgb struct {
	r, g, b float64
}

func toRGB(c model.RGBA) rgb {
	return rgb{r: float64(c.R), g: float64(c.G), b: float64(c.B)}
}

func (c rgb) over(src model.RGBA) rgb {
	a := float64(src.A) / 255
	return rgb{
		r: float64(src.R)*a + c.r*(1-a),
		g: float64(src.G)*a + c.g*(1-a),
		b: float64(src.B)*a + c.b*(1-a),
	}
}

// Canvas is a grid of braille cells, each holding 2x4 dots.
type Canvas struct {
	cols int
	rows int
	bg   model.RGBA

	dots []rgb
	hit  []bool
}

// NewCanvas returns a cleared canvas of cols x rows cells.
func NewCanvas(cols, rows int, bg model.RGBA) *Canvas {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	c := &Canvas{
		cols: cols,
		rows: rows,
		bg:   bg,
		dots: make([]rgb, cols*dotsPerCellX*rows*dotsPerCellY),
		hit:  make([]bool, cols*dotsPerCellX*rows*dotsPerCellY),
	}
	c.Clear()
	return c
}

// Aspect returns the width/height ratio of a cols x rows dot grid. Braille
// dots are close enough to square that the dot grid is used as-is.
func Aspect(cols, rows int) float64 {
	if cols < 1 || rows < 1 {
		return 1
	}
	return float64(dotsPerCellX*cols) / float64(dotsPerCellY*rows)
}

// Size returns the canvas size in cells.
func (c *Canvas) Size() (cols, rows int) {
	return c.cols, c.rows
}

// Aspect returns the canvas aspect ratio.
func (c *Canvas) Aspect() float64 {
	return Aspect(c.cols, c.rows)
}

func (c *Canvas) width() int  { return c.cols * dotsPerCellX }
func (c *Canvas) height() int { return c.rows * dotsPerCellY }

// Clear resets every dot to the background.
func (c *Canvas) Clear() {
	bg := toRGB(c.bg)
	for i := range c.dots {
		c.dots[i] = bg
		c.hit[i] = false
	}
}

// Render clears the canvas and draws frame on it.
func (c *Canvas) Render(frame model.Frame) error {
	c.Clear()
	c.Draw(frame)
	return nil
}

// Draw rasterizes the frame's triangles in order, blending each over what
// is already there.
func (c *Canvas) Draw(frame model.Frame) {
	w := float64(c.width())
	h := float64(c.height())
	toDots := func(v model.Vertex) model.Vec2 {
		clip := frame.Transform.Apply(model.Vec2{X: float64(v.X), Y: float64(v.Y)})
		return model.Vec2{
			X: (clip.X + 1) / 2 * w,
			Y: (1 - clip.Y) / 2 * h,
		}
	}
	for _, tri := range frame.Triangles {
		c.fill(toDots(tri[0]), toDots(tri[1]), toDots(tri[2]), tri[0].Color)
	}
}

func edge(a, b, p model.Vec2) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// fill colours every dot whose centre lies inside the triangle, in either
// winding.
func (c *Canvas) fill(p0, p1, p2 model.Vec2, color model.RGBA) {
	area := edge(p0, p1, p2)
	if area == 0 || math.IsNaN(area) || color.A == 0 {
		return
	}
	minX := int(math.Floor(math.Min(p0.X, math.Min(p1.X, p2.X))))
	maxX := int(math.Ceil(math.Max(p0.X, math.Max(p1.X, p2.X))))
	minY := int(math.Floor(math.Min(p0.Y, math.Min(p1.Y, p2.Y))))
	maxY := int(math.Ceil(math.Max(p0.Y, math.Max(p1.Y, p2.Y))))
	minX = max(minX, 0)
	minY = max(minY, 0)
	maxX = min(maxX, c.width()-1)
	maxY = min(maxY, c.height()-1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := model.Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			w0 := edge(p1, p2, p)
			w1 := edge(p2, p0, p)
			w2 := edge(p0, p1, p)
			if area < 0 {
				w0, w1, w2 = -w0, -w1, -w2
			}
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			i := y*c.width() + x
			c.dots[i] = c.dots[i].over(color)
			c.hit[i] = true
		}
	}
}

// cell returns the braille mask of a cell and the average colour of its
// lit dots.
func (c *Canvas) cell(cx, cy int) (uint8, model.RGBA) {
	var mask uint8
	var sum rgb
	lit := 0
	for dy := 0; dy < dotsPerCellY; dy++ {
		for dx := 0; dx < dotsPerCellX; dx++ {
			i := (cy*dotsPerCellY+dy)*c.width() + cx*dotsPerCellX + dx
			if !c.hit[i] {
				continue
			}
			mask |= brailleDotMask(dx, dy)
			sum.r += c.dots[i].r
			sum.g += c.dots[i].g
			sum.b += c.dots[i].b
			lit++
		}
	}
	if lit == 0 {
		return 0, c.bg
	}
	n := float64(lit)
	return mask, model.RGBA{
		R: uint8(math.Round(sum.r / n)),
		G: uint8(math.Round(sum.g / n)),
		B: uint8(math.Round(sum.b / n)),
		A: 0xff,
	}
}

func brailleDotMask(x, y int) uint8 {
	switch {
	case x == 0 && y == 0:
		return 0x01
	case x == 0 && y == 1:
		return 0x02
	case x == 0 && y == 2:
		return 0x04
	case x == 0 && y == 3:
		return 0x40
	case x == 1 && y == 0:
		return 0x08
	case x == 1 && y == 1:
		return 0x10
	case x == 1 && y == 2:
		return 0x20
	case x == 1 && y == 3:
		return 0x80
	default:
		return 0
	}
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
