// Package geom turns simulation state into coloured triangles.
package geom

import (
	"math"

	"github.com/verte-zerg/flagball/internal/model"
	"github.com/verte-zerg/flagball/internal/physics"
	"github.com/verte-zerg/flagball/internal/viewport"
)

// TrailSteps is the number of circles drawn along the trail.
const TrailSteps = 20

// nozzleOffset is how far the aim indicator sits from the ball centre.
const nozzleOffset = 0.5

// nozzleHalfLength is the indicator's half-extent along the aim direction.
const nozzleHalfLength = 0.1

// Trail is the read side of the position history.
type Trail interface {
	Lifetime() float64
	Lookup(age float64) (pos model.Vec2, sampleAge float64, ok bool)
}

// State is everything one frame draws.
type State struct {
	Court     model.Vec2
	Ball      physics.Ball
	Target    physics.Target
	Meter     physics.Meter
	MeterPos  model.Vec2
	MeterSize model.Vec2
	Score     model.Score
	Trail     Trail
}

// Builder emits triangles for a State.
type Builder struct {
	palette Palette
	layout  viewport.Layout
}

// NewBuilder returns a builder with the given colours and decoration sizes.
func NewBuilder(palette Palette, layout viewport.Layout) *Builder {
	return &Builder{palette: palette, layout: layout}
}

// Palette returns the builder's colours.
func (b *Builder) Palette() Palette {
	return b.palette
}

// Build returns the frame's triangles in draw order. There is no depth test:
// later shapes paint over earlier ones.
func (b *Builder) Build(s State) []model.Triangle {
	out := &batch{tris: make([]model.Triangle, 0, (TrailSteps+1)*CircleSegments+64)}
	fg := b.palette.Foreground
	shadow := b.palette.Shadow

	b.trail(out, s)
	b.walls(out, s.Court)

	out.rect(s.MeterPos, s.MeterSize, fg)
	out.circle(s.Ball.Pos, s.Ball.Radius.X, fg)
	b.nozzle(out, s.Ball)
	b.scores(out, s.Court, s.Score)

	fill := s.Meter.Fill
	out.rect(
		model.Vec2{X: s.MeterPos.X, Y: s.MeterPos.Y - s.MeterSize.Y + s.MeterSize.Y*fill},
		model.Vec2{X: s.MeterSize.X, Y: s.MeterSize.Y * fill},
		shadow,
	)

	f := s.Target
	out.triangle(
		model.Vec2{X: f.Pos.X + f.Radius.X, Y: f.Pos.Y - f.Radius.Y},
		model.Vec2{X: f.Pos.X - f.Radius.X, Y: f.Pos.Y - f.Radius.Y},
		model.Vec2{X: f.Pos.X, Y: f.Pos.Y + f.Radius.Y},
		fg,
	)
	return out.tris
}

// walls frames the court; the side walls extend past the corners.
func (b *Builder) walls(out *batch, court model.Vec2) {
	w := b.layout.WallRadius
	fg := b.palette.Foreground
	side := model.Vec2{X: w, Y: court.Y + 2*w}
	lid := model.Vec2{X: court.X, Y: w}
	out.rect(model.Vec2{X: -court.X - w}, side, fg)
	out.rect(model.Vec2{X: court.X + w}, side, fg)
	out.rect(model.Vec2{Y: -court.Y - w}, lid, fg)
	out.rect(model.Vec2{Y: court.Y + w}, lid, fg)
}

// nozzle draws the aim indicator on the launch side of the ball.
func (b *Builder) nozzle(out *batch, ball physics.Ball) {
	sin, cos := math.Sincos(ball.Angle)
	center := model.Vec2{
		X: ball.Pos.X - nozzleOffset*cos,
		Y: ball.Pos.Y - nozzleOffset*sin,
	}
	out.rotatedRect(center, model.Vec2{X: ball.Radius.X, Y: nozzleHalfLength}, cos, sin, b.palette.Shadow)
}

// scores lays one square per point above the top wall, left row growing
// rightward and right row mirrored.
func (b *Builder) scores(out *batch, court model.Vec2, score model.Score) {
	r := b.layout.ScoreRadius
	y := court.Y + 2*b.layout.WallRadius + 2*r.Y
	for i := 0; i < score.Left; i++ {
		out.rect(model.Vec2{X: -court.X + (2+3*float64(i))*r.X, Y: y}, r, b.palette.Foreground)
	}
	for i := 0; i < score.Right; i++ {
		out.rect(model.Vec2{X: court.X - (2+3*float64(i))*r.X, Y: y}, r, b.palette.Foreground)
	}
}

// trail samples the history from oldest to newest, skipping steps that
// cannot be interpolated.
func (b *Builder) trail(out *batch, s State) {
	if s.Trail == nil {
		return
	}
	lifetime := s.Trail.Lifetime()
	if lifetime <= 0 {
		return
	}
	for step := TrailSteps; step > 0; step-- {
		age := float64(step) / TrailSteps * lifetime
		pos, sampleAge, ok := s.Trail.Lookup(age)
		if !ok {
			continue
		}
		color := GradientAt(b.palette.Trail, step, TrailSteps)
		radius := s.Ball.Radius.X * ((lifetime - sampleAge) / lifetime)
		out.circle(pos, radius, color)
	}
}
