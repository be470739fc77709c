// Package generator draws random target placements.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/flagball/internal/model"
)

// Generator produces uniformly distributed court positions. It is not safe
// for concurrent use.
type Generator struct {
	seed int64
	rnd  *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{seed: seed, rnd: rand.New(rand.NewSource(seed))}
}

// Seed returns the seed the generator was built with.
func (g *Generator) Seed() int64 {
	return g.seed
}

// PointIn returns a point drawn uniformly from [-half, +half] on both axes.
func (g *Generator) PointIn(half model.Vec2) model.Vec2 {
	return model.Vec2{
		X: g.unit()*2*half.X - half.X,
		Y: g.unit()*2*half.Y - half.Y,
	}
}

// unit returns a value in [0, 1].
func (g *Generator) unit() float64 {
	return g.rnd.Float64()
}
