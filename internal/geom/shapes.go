package geom

import (
	"math"

	"github.com/verte-zerg/flagball/internal/model"
)

// CircleStep is the fan's angular increment in radians.
const CircleStep = 0.05

// CircleSegments is the number of fan triangles per circle.
var CircleSegments = int(math.Ceil(2 * math.Pi / CircleStep))

// batch accumulates triangles in draw order.
type batch struct {
	tris []model.Triangle
}

func vertex(x, y float64, c model.RGBA) model.Vertex {
	return model.Vertex{X: float32(x), Y: float32(y), Color: c, U: 0.5, V: 0.5}
}

func (b *batch) triangle(p0, p1, p2 model.Vec2, c model.RGBA) {
	b.tris = append(b.tris, model.Triangle{
		vertex(p0.X, p0.Y, c),
		vertex(p1.X, p1.Y, c),
		vertex(p2.X, p2.Y, c),
	})
}

// rect emits an axis-aligned box as two counter-clockwise triangles.
func (b *batch) rect(center, radius model.Vec2, c model.RGBA) {
	lo := center.Sub(radius)
	hi := center.Add(radius)
	b.triangle(lo, model.Vec2{X: hi.X, Y: lo.Y}, hi, c)
	b.triangle(lo, hi, model.Vec2{X: lo.X, Y: hi.Y}, c)
}

// rotatedRect emits a box of half-extent radius rotated by the angle whose
// cosine and sine are given.
func (b *batch) rotatedRect(center, radius model.Vec2, cos, sin float64, c model.RGBA) {
	corner := func(x, y float64) model.Vec2 {
		return model.Vec2{
			X: center.X + x*cos - y*sin,
			Y: center.Y + x*sin + y*cos,
		}
	}
	p0 := corner(-radius.X, -radius.Y)
	p1 := corner(radius.X, -radius.Y)
	p2 := corner(radius.X, radius.Y)
	p3 := corner(-radius.X, radius.Y)
	b.triangle(p0, p1, p2, c)
	b.triangle(p0, p2, p3, c)
}

// circle emits a fan with a fixed angular step, whatever the radius.
func (b *batch) circle(center model.Vec2, radius float64, c model.RGBA) {
	for i := 0; i < CircleSegments; i++ {
		a0 := float64(i) * CircleStep
		a1 := a0 + CircleStep
		b.triangle(
			center,
			model.Vec2{X: center.X - radius*math.Cos(a0), Y: center.Y - radius*math.Sin(a0)},
			model.Vec2{X: center.X - radius*math.Cos(a1), Y: center.Y - radius*math.Sin(a1)},
			c,
		)
	}
}
