// Package physics advances the ball, resolves collisions and tracks the
// charge meter and score.
package physics

import (
	"math"

	"github.com/verte-zerg/flagball/internal/model"
)

const (
	baseSpeed     = 4.0
	maxSpeed      = 10.0
	aimUpperLimit = -0.5
	aimLowerLimit = -math.Pi + 0.5
)

// Placer picks a new target position inside a half-extent.
type Placer interface {
	PointIn(half model.Vec2) model.Vec2
}

// Ball is the simulated projectile. Radius is a half-extent used for
// axis-aligned collision.
type Ball struct {
	Pos    model.Vec2
	Vel    model.Vec2
	Radius model.Vec2
	Angle  float64
}

// Target is the flag the ball has to touch.
type Target struct {
	Pos    model.Vec2
	Radius model.Vec2
}

// Result reports what happened during one Update.
type Result struct {
	Launched    bool
	LaunchSpeed float64
	Hit         bool
	Scorer      model.Side
}

// Engine owns the ball, target, meter and score for one session.
type Engine struct {
	cfg    model.Config
	placer Placer

	ball   Ball
	target Target
	meter  Meter
	score  model.Score
}

// New builds an engine with the ball resting on the floor, aimed straight
// up, and the target at a random spot.
func New(cfg model.Config, placer Placer) *Engine {
	e := &Engine{
		cfg:    cfg,
		placer: placer,
		ball: Ball{
			Pos:    model.Vec2{X: 0, Y: -cfg.Court.Y + cfg.BallRadius.Y},
			Radius: cfg.BallRadius,
			Angle:  -math.Pi / 2,
		},
		target: Target{Radius: cfg.FlagRadius},
	}
	e.target.Pos = placer.PointIn(cfg.Court)
	return e
}

// Config returns the tuning the engine was built with.
func (e *Engine) Config() model.Config {
	return e.cfg
}

// Ball returns a copy of the ball.
func (e *Engine) Ball() Ball {
	return e.ball
}

// Target returns a copy of the target.
func (e *Engine) Target() Target {
	return e.target
}

// Meter returns a copy of the charge meter.
func (e *Engine) Meter() Meter {
	return e.meter
}

// Score returns the current score.
func (e *Engine) Score() model.Score {
	return e.score
}

// SpeedMultiplier doubles every four points and is capped so a single step
// cannot tunnel through the walls.
func SpeedMultiplier(combined int) float64 {
	return math.Min(baseSpeed*math.Pow(2, float64(combined)/4), maxSpeed)
}

// Update advances the simulation by dt seconds. A release in the input is
// applied before integration.
func (e *Engine) Update(dt float64, in model.Input) Result {
	var res Result
	if in.ChargeReleased {
		res.Launched = true
		res.LaunchSpeed = e.launch()
	}

	speed := SpeedMultiplier(e.score.Combined())
	e.applyDrag(dt)
	e.ball.Vel.Y += dt * e.cfg.Gravity
	e.ball.Pos = e.ball.Pos.Add(e.ball.Vel.Scale(dt * speed))

	e.turn(dt, in)
	if in.ChargeHeld && !in.ChargeReleased {
		e.meter.Hold(dt, e.cfg.MeterRate)
	}

	// Target before walls.
	if e.hitTarget() {
		res.Hit = true
		res.Scorer = e.cfg.Side
	}
	e.collideWalls()
	return res
}

func (e *Engine) launch() float64 {
	fill := e.meter.Release()
	power := fill * e.cfg.ShotPower
	e.ball.Vel = model.Vec2{
		X: math.Cos(e.ball.Angle) * power,
		Y: math.Sin(e.ball.Angle) * power,
	}
	return math.Abs(power)
}

func (e *Engine) applyDrag(dt float64) {
	switch {
	case e.ball.Vel.X > 0:
		e.ball.Vel.X -= e.cfg.Drag * dt
	case e.ball.Vel.X < 0:
		e.ball.Vel.X += e.cfg.Drag * dt
	}
}

func (e *Engine) turn(dt float64, in model.Input) {
	if in.TurnLeft {
		e.ball.Angle = math.Min(e.ball.Angle+e.cfg.TurnRate*dt, aimUpperLimit)
	}
	if in.TurnRight {
		e.ball.Angle = math.Max(e.ball.Angle-e.cfg.TurnRate*dt, aimLowerLimit)
	}
}

func (e *Engine) hitTarget() bool {
	lo := e.target.Pos.Sub(e.target.Radius).Max(e.ball.Pos.Sub(e.ball.Radius))
	hi := e.target.Pos.Add(e.target.Radius).Min(e.ball.Pos.Add(e.ball.Radius))
	if lo.X > hi.X || lo.Y > hi.Y {
		return false
	}
	e.target.Pos = e.placer.PointIn(e.cfg.Court)
	if e.cfg.Side == model.SideRight {
		e.score.Right++
	} else {
		e.score.Left++
	}
	return true
}

// collideWalls clamps then reflects. The floor is lossy and can bring the
// ball to rest; the ceiling reflects without loss.
func (e *Engine) collideWalls() {
	court := e.cfg.Court
	r := e.ball.Radius
	b := &e.ball

	if b.Pos.Y > court.Y-r.Y {
		b.Pos.Y = court.Y - r.Y
		if b.Vel.Y > 0 {
			b.Vel.Y = -b.Vel.Y
		}
	}
	if b.Pos.Y < -court.Y+r.Y {
		b.Pos.Y = -court.Y + r.Y
		if b.Vel.Y < 0 {
			b.Vel.Y = -b.Vel.Y - e.cfg.Bounce
		}
		if math.Abs(b.Vel.X) < e.cfg.Bounce {
			b.Vel = model.Vec2{}
		}
	}

	if b.Pos.X > court.X-r.X {
		b.Pos.X = court.X - r.X
		if b.Vel.X > 0 {
			b.Vel.X = -b.Vel.X + e.cfg.Bounce
		}
	}
	if b.Pos.X < -court.X+r.X {
		b.Pos.X = -court.X + r.X
		if b.Vel.X < 0 {
			b.Vel.X = -b.Vel.X - e.cfg.Bounce
		}
	}
}
