// Package viewport fits the court into normalized display space.
package viewport

import (
	"math"

	"github.com/verte-zerg/flagball/internal/model"
)

// MinAspect is the smallest aspect ratio the projector accepts.
const MinAspect = 1e-3

// Layout holds the decoration sizes that surround the court.
type Layout struct {
	WallRadius  float64
	Padding     float64
	ScoreRadius model.Vec2
}

// DefaultLayout matches the geometry builder's decorations.
func DefaultLayout() Layout {
	return Layout{
		WallRadius:  0.05,
		Padding:     0.14,
		ScoreRadius: model.Vec2{X: 0.1, Y: 0.1},
	}
}

// Projector maps court coordinates to [-1, 1] on both display axes.
type Projector struct {
	court  model.Vec2
	layout Layout
}

// Projection is the result of fitting the scene to one aspect ratio.
type Projection struct {
	Aspect   float64
	Scale    float64
	Center   model.Vec2
	SceneMin model.Vec2
	SceneMax model.Vec2
	Forward  model.Affine
	Inverse  model.Affine
}

// New returns a projector for the given court half-extent.
func New(court model.Vec2, layout Layout) *Projector {
	return &Projector{court: court, layout: layout}
}

// Scene returns the bounding box that must stay visible: the court, the walls,
// the score row above the top wall and a uniform padding.
func (p *Projector) Scene() (lo, hi model.Vec2) {
	w := p.layout.WallRadius
	pad := p.layout.Padding
	lo = model.Vec2{
		X: -p.court.X - 2*w - pad,
		Y: -p.court.Y - 2*w - pad,
	}
	hi = model.Vec2{
		X: p.court.X + 2*w + pad,
		Y: p.court.Y + 2*w + 3*p.layout.ScoreRadius.Y + pad,
	}
	return lo, hi
}

// Project fits the scene to the output aspect ratio (width / height). The
// horizontal axis is divided by the aspect so shapes stay square.
func (p *Projector) Project(aspect float64) Projection {
	aspect = ClampAspect(aspect)
	lo, hi := p.Scene()
	scale := math.Min(
		2*aspect/(hi.X-lo.X),
		2/(hi.Y-lo.Y),
	)
	center := lo.Add(hi).Scale(0.5)
	sx := scale / aspect
	return Projection{
		Aspect:   aspect,
		Scale:    scale,
		Center:   center,
		SceneMin: lo,
		SceneMax: hi,
		Forward: model.Affine{
			ScaleX:  sx,
			ScaleY:  scale,
			OffsetX: -center.X * sx,
			OffsetY: -center.Y * scale,
		},
		Inverse: model.Affine{
			ScaleX:  aspect / scale,
			ScaleY:  1 / scale,
			OffsetX: center.X,
			OffsetY: center.Y,
		},
	}
}

// ToClip maps a court point into display space.
func (pr Projection) ToClip(p model.Vec2) model.Vec2 {
	return pr.Forward.Apply(p)
}

// ToCourt maps a display-space point back into court space.
func (pr Projection) ToCourt(p model.Vec2) model.Vec2 {
	return pr.Inverse.Apply(p)
}

// ClampAspect replaces non-positive or NaN ratios with MinAspect.
func ClampAspect(aspect float64) float64 {
	if math.IsNaN(aspect) || aspect < MinAspect {
		return MinAspect
	}
	if math.IsInf(aspect, 1) {
		return math.MaxFloat32
	}
	return aspect
}
