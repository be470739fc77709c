// Package sim runs sessions headlessly with a scripted input pattern.
package sim

import (
	"fmt"
	"math"

	"github.com/verte-zerg/flagball/internal/game"
	"github.com/verte-zerg/flagball/internal/model"
)

// Script is a fixed, non-adaptive input pattern: hold charge for Hold
// seconds, release, let the ball fly for Rest seconds, repeat.
type Script struct {
	Ticks int
	Step  float64
	Hold  float64
	Rest  float64
	// Sweep turns the aim during each rest, alternating direction per shot.
	Sweep bool
}

// DefaultScript returns a ten-second run at 60 ticks per second.
func DefaultScript() Script {
	return Script{
		Ticks: 600,
		Step:  1.0 / 60,
		Hold:  0.6,
		Rest:  1.5,
		Sweep: true,
	}
}

// Validate reports the first invalid field.
func (s Script) Validate() error {
	if s.Ticks <= 0 {
		return fmt.Errorf("ticks must be > 0")
	}
	if s.Step <= 0 {
		return fmt.Errorf("step must be > 0")
	}
	if s.Hold <= 0 {
		return fmt.Errorf("hold must be > 0")
	}
	if s.Rest < 0 {
		return fmt.Errorf("rest must be >= 0")
	}
	return nil
}

// Sample is the session state after one tick.
type Sample struct {
	Tick     int
	Time     float64
	Pos      model.Vec2
	Speed    float64
	Fill     float64
	Angle    float64
	Score    model.Score
	Launched bool
	Hit      bool
}

// Event names what happened on the sample's tick, or "" for nothing.
func (s Sample) Event() string {
	switch {
	case s.Launched && s.Hit:
		return "launch+hit"
	case s.Launched:
		return "launch"
	case s.Hit:
		return "hit"
	default:
		return ""
	}
}

// Trace is the full record of a run.
type Trace struct {
	Script  Script
	Samples []Sample
}

// Runner replays a script against a session.
type Runner struct {
	session *game.Session
	script  Script
}

// NewRunner returns a runner for the session.
func NewRunner(session *game.Session, script Script) *Runner {
	return &Runner{session: session, script: script}
}

// Input returns the scripted input for a tick starting cycleTime seconds
// into the cycle of the given shot. The first tick past Hold releases.
func (s Script) Input(cycleTime float64, shot int) model.Input {
	var in model.Input
	switch {
	case cycleTime < s.Hold:
		in.ChargeHeld = true
	case cycleTime-s.Step < s.Hold:
		in.ChargeReleased = true
	case s.Sweep:
		if shot%2 == 0 {
			in.TurnLeft = true
		} else {
			in.TurnRight = true
		}
	}
	return in
}

// Run executes every tick of the script and returns the trace.
func (r *Runner) Run() (Trace, error) {
	if err := r.script.Validate(); err != nil {
		return Trace{}, err
	}
	trace := Trace{
		Script:  r.script,
		Samples: make([]Sample, 0, r.script.Ticks),
	}
	period := r.script.Hold + r.script.Step + r.script.Rest
	cycleTime := 0.0
	shot := 0
	for tick := 1; tick <= r.script.Ticks; tick++ {
		in := r.script.Input(cycleTime, shot)
		res := r.session.Update(r.script.Step, in)
		snap := r.session.Snapshot()
		trace.Samples = append(trace.Samples, Sample{
			Tick:     tick,
			Time:     snap.Elapsed,
			Pos:      snap.Ball.Pos,
			Speed:    snap.Ball.Vel.Length(),
			Fill:     snap.Meter.Fill,
			Angle:    snap.Ball.Angle,
			Score:    snap.Score,
			Launched: res.Launched,
			Hit:      res.Hit,
		})
		cycleTime += r.script.Step
		if cycleTime >= period-1e-9 {
			cycleTime = 0
			shot++
		}
	}
	return trace, nil
}

// Summary condenses a trace.
type Summary struct {
	Ticks     int
	Duration  float64
	Shots     int
	Hits      int
	MaxHeight float64
	MaxSpeed  float64
	Score     model.Score
}

// Summarize computes the summary of a trace.
func (t Trace) Summarize() Summary {
	s := Summary{MaxHeight: math.Inf(-1)}
	for _, sample := range t.Samples {
		if sample.Launched {
			s.Shots++
		}
		if sample.Hit {
			s.Hits++
		}
		s.MaxHeight = math.Max(s.MaxHeight, sample.Pos.Y)
		s.MaxSpeed = math.Max(s.MaxSpeed, sample.Speed)
	}
	if len(t.Samples) == 0 {
		s.MaxHeight = 0
		return s
	}
	last := t.Samples[len(t.Samples)-1]
	s.Ticks = len(t.Samples)
	s.Duration = last.Time
	s.Score = last.Score
	return s
}

// Heights returns the ball height per tick.
func (t Trace) Heights() []float64 {
	out := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = s.Pos.Y
	}
	return out
}

// Speeds returns the ball speed per tick.
func (t Trace) Speeds() []float64 {
	out := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = s.Speed
	}
	return out
}
