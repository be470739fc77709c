// Package model defines shared data structures.
package model

import "math"

// Side identifies one of the two score rows.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// String implements fmt.Stringer.
func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// ParseSide converts "left" or "right" into a Side.
func ParseSide(value string) (Side, bool) {
	switch value {
	case "left":
		return SideLeft, true
	case "right":
		return SideRight, true
	default:
		return SideLeft, false
	}
}

// Config defines simulation tuning.
type Config struct {
	Court       Vec2
	BallRadius  Vec2
	FlagRadius  Vec2
	Meter       Vec2
	MeterSize   Vec2
	Gravity     float64
	Drag        float64
	ShotPower   float64
	TurnRate    float64
	MeterRate   float64
	Bounce      float64
	TrailLength float64
	Side        Side
	Seed        int64
}

// DefaultConfig returns the stock court and tuning.
//
// ShotPower is negative: the launch direction is the opposite of the aim
// vector so the aim arc [-π+0.5, -0.5] fires upward.
func DefaultConfig() Config {
	return Config{
		Court:       Vec2{X: 7.0, Y: 5.0},
		BallRadius:  Vec2{X: 0.2, Y: 0.2},
		FlagRadius:  Vec2{X: 0.3, Y: 0.3},
		Meter:       Vec2{X: -6.5, Y: 3.6},
		MeterSize:   Vec2{X: 0.15, Y: 1.0},
		Gravity:     -2.0,
		Drag:        0.3,
		ShotPower:   -5.0,
		TurnRate:    2.0,
		MeterRate:   1.0,
		Bounce:      0.2,
		TrailLength: 1.3,
		Side:        SideLeft,
	}
}

// DisplayConfig defines frontend settings.
type DisplayConfig struct {
	FPS     int
	MaxStep float64
	Color   bool
}

// DefaultDisplayConfig returns the stock frontend settings.
func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		FPS:     30,
		MaxStep: 0.1,
		Color:   true,
	}
}

// Input is the per-tick snapshot of the four control signals.
type Input struct {
	TurnLeft       bool
	TurnRight      bool
	ChargeHeld     bool
	ChargeReleased bool
}

// Score holds both score rows.
type Score struct {
	Left  int
	Right int
}

// Combined returns the sum of both rows.
func (s Score) Combined() int {
	return s.Left + s.Right
}

// Affine is a per-axis scale followed by a translation.
type Affine struct {
	ScaleX  float64
	ScaleY  float64
	OffsetX float64
	OffsetY float64
}

// Apply transforms p.
func (a Affine) Apply(p Vec2) Vec2 {
	return Vec2{X: p.X*a.ScaleX + a.OffsetX, Y: p.Y*a.ScaleY + a.OffsetY}
}

// Mat4 returns the transform as a column-major 4x4 matrix.
func (a Affine) Mat4() [16]float32 {
	return [16]float32{
		float32(a.ScaleX), 0, 0, 0,
		0, float32(a.ScaleY), 0, 0,
		0, 0, 1, 0,
		float32(a.OffsetX), float32(a.OffsetY), 0, 1,
	}
}

// Vertex is one corner of a drawable triangle.
type Vertex struct {
	X, Y, Z float32
	Color   RGBA
	U, V    float32
}

// Triangle is three vertices in draw order.
type Triangle [3]Vertex

// Frame is the output of one tick: triangles in court space plus the
// court-to-clip transform for this frame.
type Frame struct {
	Triangles []Triangle
	Transform Affine
	Aspect    float64
}

// RGBA is an 8-bit straight-alpha colour.
type RGBA struct {
	R, G, B, A uint8
}

// Hex builds a colour from 0xRRGGBBAA.
func Hex(v uint32) RGBA {
	return RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}
}

// Mix blends a toward b by t, truncating each channel.
func Mix(a, b RGBA, t float64) RGBA {
	lerp := func(x, y uint8) uint8 {
		v := float64(x) + (float64(y)-float64(x))*t
		return uint8(math.Max(0, math.Min(255, v)))
	}
	return RGBA{
		R: lerp(a.R, b.R),
		G: lerp(a.G, b.G),
		B: lerp(a.B, b.B),
		A: lerp(a.A, b.A),
	}
}
