// Package game drives one play session: physics, trail and frame building
// in a fixed per-tick order.
package game

import (
	"log"
	"math"

	"github.com/verte-zerg/flagball/internal/generator"
	"github.com/verte-zerg/flagball/internal/geom"
	"github.com/verte-zerg/flagball/internal/model"
	"github.com/verte-zerg/flagball/internal/physics"
	"github.com/verte-zerg/flagball/internal/trail"
	"github.com/verte-zerg/flagball/internal/viewport"
)

// Renderer consumes one frame per tick. Implementations must not keep
// the triangle slice after Render returns.
type Renderer interface {
	Render(frame model.Frame) error
}

// Snapshot is a read-only view of the session for HUDs and traces.
type Snapshot struct {
	Ball    physics.Ball
	Target  physics.Target
	Meter   physics.Meter
	Score   model.Score
	Side    model.Side
	Ticks   int
	Elapsed float64
	Shots   int
}

// Session owns every piece of mutable game state. It is not safe for
// concurrent use; frontends call Update then BuildFrame once per tick.
type Session struct {
	cfg     model.Config
	maxStep float64
	placer  physics.Placer

	engine    *physics.Engine
	history   *trail.History
	builder   *geom.Builder
	projector *viewport.Projector

	ticks   int
	elapsed float64
	shots   int
}

// New returns a session whose target placement is seeded from cfg.Seed, or
// from the clock when the seed is zero. The seed in use is reported by
// Config.
func New(cfg model.Config, maxStep float64) *Session {
	var gen *generator.Generator
	if cfg.Seed != 0 {
		gen = generator.NewSeeded(cfg.Seed)
	} else {
		gen = generator.New()
	}
	cfg.Seed = gen.Seed()
	return NewWithPlacer(cfg, maxStep, gen)
}

// NewWithPlacer returns a session using placer for target relocation.
func NewWithPlacer(cfg model.Config, maxStep float64, placer physics.Placer) *Session {
	layout := viewport.DefaultLayout()
	s := &Session{
		cfg:       cfg,
		maxStep:   maxStep,
		placer:    placer,
		builder:   geom.NewBuilder(geom.DefaultPalette(), layout),
		projector: viewport.New(cfg.Court, layout),
	}
	s.Restart()
	log.Printf("session start: seed=%d side=%s gravity=%.2f shot-power=%.2f trail=%.2fs",
		cfg.Seed, cfg.Side, cfg.Gravity, cfg.ShotPower, cfg.TrailLength)
	return s
}

// Config returns the simulation tuning.
func (s *Session) Config() model.Config {
	return s.cfg
}

// Palette returns the colours frames are built with.
func (s *Session) Palette() geom.Palette {
	return s.builder.Palette()
}

// ClampStep limits elapsed to [0, maxStep]. A non-positive maxStep disables
// the upper bound.
func ClampStep(elapsed, maxStep float64) float64 {
	if math.IsNaN(elapsed) || elapsed < 0 {
		return 0
	}
	if maxStep > 0 && elapsed > maxStep {
		return maxStep
	}
	return elapsed
}

// Update advances the session by elapsed seconds.
func (s *Session) Update(elapsed float64, in model.Input) physics.Result {
	dt := ClampStep(elapsed, s.maxStep)
	res := s.engine.Update(dt, in)
	s.history.Tick(dt, s.engine.Ball().Pos)

	s.ticks++
	s.elapsed += dt
	if res.Launched {
		s.shots++
		log.Printf("launch: speed=%.2f angle=%.2f", res.LaunchSpeed, s.engine.Ball().Angle)
	}
	if res.Hit {
		score := s.engine.Score()
		log.Printf("hit: scorer=%s score=%d-%d", res.Scorer, score.Left, score.Right)
	}
	return res
}

// BuildFrame returns this tick's triangles fitted to aspect (width/height).
func (s *Session) BuildFrame(aspect float64) model.Frame {
	proj := s.projector.Project(aspect)
	tris := s.builder.Build(geom.State{
		Court:     s.cfg.Court,
		Ball:      s.engine.Ball(),
		Target:    s.engine.Target(),
		Meter:     s.engine.Meter(),
		MeterPos:  s.cfg.Meter,
		MeterSize: s.cfg.MeterSize,
		Score:     s.engine.Score(),
		Trail:     s.history,
	})
	return model.Frame{
		Triangles: tris,
		Transform: proj.Forward,
		Aspect:    proj.Aspect,
	}
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Ball:    s.engine.Ball(),
		Target:  s.engine.Target(),
		Meter:   s.engine.Meter(),
		Score:   s.engine.Score(),
		Side:    s.cfg.Side,
		Ticks:   s.ticks,
		Elapsed: s.elapsed,
		Shots:   s.shots,
	}
}

// Reset re-seeds the trail at the ball's current position.
func (s *Session) Reset() {
	s.history.Reset(s.engine.Ball().Pos)
}

// Restart begins a new game with a fresh engine and trail. The placer keeps
// its sequence.
func (s *Session) Restart() {
	s.engine = physics.New(s.cfg, s.placer)
	s.history = trail.New(s.cfg.TrailLength, s.engine.Ball().Pos)
	s.ticks = 0
	s.elapsed = 0
	s.shots = 0
}

// Step runs Update and BuildFrame and hands the frame to r.
func (s *Session) Step(elapsed, aspect float64, in model.Input, r Renderer) (physics.Result, error) {
	res := s.Update(elapsed, in)
	if err := r.Render(s.BuildFrame(aspect)); err != nil {
		return res, err
	}
	return res, nil
}
