package geom

import (
	"math"
	"testing"

	"github.com/verte-zerg/flagball/internal/model"
	"github.com/verte-zerg/flagball/internal/physics"
	"github.com/verte-zerg/flagball/internal/trail"
	"github.com/verte-zerg/flagball/internal/viewport"
)

type missingTrail struct {
	lookups []float64
}

func (m *missingTrail) Lifetime() float64 { return 1 }

func (m *missingTrail) Lookup(age float64) (model.Vec2, float64, bool) {
	m.lookups = append(m.lookups, age)
	return model.Vec2{}, 0, false
}

func testState(tr Trail) State {
	return State{
		Court: model.Vec2{X: 7, Y: 5},
		Ball: physics.Ball{
			Pos:    model.Vec2{X: 1, Y: -2},
			Radius: model.Vec2{X: 0.2, Y: 0.2},
			Angle:  -math.Pi / 2,
		},
		Target:    physics.Target{Pos: model.Vec2{X: 3, Y: 2}, Radius: model.Vec2{X: 0.3, Y: 0.3}},
		Meter:     physics.Meter{Fill: 0.5},
		MeterPos:  model.Vec2{X: -6.5, Y: 3.6},
		MeterSize: model.Vec2{X: 0.15, Y: 1},
		Score:     model.Score{Left: 2, Right: 1},
		Trail:     tr,
	}
}

// fixed shapes: 4 walls, meter frame, ball, nozzle, meter fill, flag
func fixedTriangles(score model.Score) int {
	return 8 + 2 + CircleSegments + 2 + 2*(score.Left+score.Right) + 2 + 1
}

func TestCircleSegments(t *testing.T) {
	if CircleSegments != 126 {
		t.Fatalf("expected 126 segments, got %d", CircleSegments)
	}
}

func TestRectIsCounterClockwise(t *testing.T) {
	var b batch
	b.rect(model.Vec2{X: 1, Y: 1}, model.Vec2{X: 0.5, Y: 0.25}, model.RGBA{})
	if len(b.tris) != 2 {
		t.Fatalf("expected 2 triangles, got %d", len(b.tris))
	}
	for i, tri := range b.tris {
		if area := signedArea(tri); area <= 0 {
			t.Fatalf("triangle %d: expected positive area, got %v", i, area)
		}
	}
}

func TestVerticesAreFlat(t *testing.T) {
	b := NewBuilder(DefaultPalette(), viewport.DefaultLayout())
	tris := b.Build(testState(&missingTrail{}))
	for _, tri := range tris {
		for _, v := range tri {
			if v.Z != 0 || v.U != 0.5 || v.V != 0.5 {
				t.Fatalf("expected z=0 and uv=0.5, got %+v", v)
			}
		}
	}
}

func TestBuildSkipsMissingTrailSteps(t *testing.T) {
	tr := &missingTrail{}
	s := testState(tr)
	b := NewBuilder(DefaultPalette(), viewport.DefaultLayout())
	tris := b.Build(s)
	if len(tris) != fixedTriangles(s.Score) {
		t.Fatalf("expected %d triangles, got %d", fixedTriangles(s.Score), len(tris))
	}
	if len(tr.lookups) != TrailSteps {
		t.Fatalf("expected %d lookups, got %d", TrailSteps, len(tr.lookups))
	}
	if tr.lookups[0] != 1 {
		t.Fatalf("expected oldest step first, got age %v", tr.lookups[0])
	}
}

func TestBuildDrawsTrailFirst(t *testing.T) {
	s := testState(nil)
	h := trail.New(1, s.Ball.Pos)
	s.Trail = h
	b := NewBuilder(DefaultPalette(), viewport.DefaultLayout())
	tris := b.Build(s)

	// a fresh history brackets every age in [0, lifetime]
	want := fixedTriangles(s.Score) + TrailSteps*CircleSegments
	if len(tris) != want {
		t.Fatalf("expected %d triangles, got %d", want, len(tris))
	}
	oldest := GradientAt(DefaultPalette().Trail, TrailSteps, TrailSteps)
	if tris[0][0].Color != oldest {
		t.Fatalf("expected first triangle in oldest trail colour, got %+v", tris[0][0].Color)
	}
	last := tris[len(tris)-1]
	if last[2].Y != float32(s.Target.Pos.Y+s.Target.Radius.Y) {
		t.Fatalf("expected flag apex last, got %+v", last[2])
	}
}

func TestScoreRowsMirror(t *testing.T) {
	var b batch
	builder := NewBuilder(DefaultPalette(), viewport.DefaultLayout())
	court := model.Vec2{X: 7, Y: 5}
	builder.scores(&b, court, model.Score{Left: 1, Right: 1})
	if len(b.tris) != 4 {
		t.Fatalf("expected 4 triangles, got %d", len(b.tris))
	}
	left := b.tris[0][0]
	right := b.tris[2][2]
	if math.Abs(float64(left.X+right.X)) > 1e-5 {
		t.Fatalf("expected mirrored squares, got left=%v right=%v", left.X, right.X)
	}
	if left.Y != b.tris[2][0].Y {
		t.Fatalf("expected rows at same height, got %v and %v", left.Y, right.Y)
	}
}

func TestMeterFillGrowsFromBase(t *testing.T) {
	b := NewBuilder(DefaultPalette(), viewport.DefaultLayout())
	s := testState(&missingTrail{})
	s.Score = model.Score{}
	s.Meter.Fill = 0.25
	tris := b.Build(s)

	fill := tris[len(tris)-3]
	base := float32(s.MeterPos.Y - s.MeterSize.Y)
	if math.Abs(float64(fill[0].Y-base)) > 1e-6 {
		t.Fatalf("expected fill base at %v, got %v", base, fill[0].Y)
	}
	top := float32(s.MeterPos.Y - s.MeterSize.Y + 2*s.MeterSize.Y*s.Meter.Fill)
	if math.Abs(float64(fill[2].Y-top)) > 1e-6 {
		t.Fatalf("expected fill top at %v, got %v", top, fill[2].Y)
	}
	if fill[0].Color != DefaultPalette().Shadow {
		t.Fatalf("expected shadow colour, got %+v", fill[0].Color)
	}
}

func TestGradientAt(t *testing.T) {
	stops := DefaultPalette().Trail
	if got := GradientAt(stops, 1, TrailSteps); got != stops[0] {
		t.Fatalf("expected first stop, got %+v", got)
	}
	if got := GradientAt(stops, TrailSteps, TrailSteps); got != stops[2] {
		t.Fatalf("expected last stop, got %+v", got)
	}
	if got := GradientAt(stops, -5, TrailSteps); got != stops[0] {
		t.Fatalf("expected clamp to first stop, got %+v", got)
	}
	if got := GradientAt(nil, 3, TrailSteps); got != (model.RGBA{}) {
		t.Fatalf("expected zero colour, got %+v", got)
	}
}

func signedArea(tri model.Triangle) float32 {
	return (tri[1].X-tri[0].X)*(tri[2].Y-tri[0].Y) - (tri[2].X-tri[0].X)*(tri[1].Y-tri[0].Y)
}

// linearTrail brackets every age and reports the queried age as the sample age.
type linearTrail struct{}

func (linearTrail) Lifetime() float64 { return 1 }

func (linearTrail) Lookup(age float64) (model.Vec2, float64, bool) {
	return model.Vec2{X: age * 10, Y: 1}, age, true
}

func TestTrailRadiusShrinksWithAge(t *testing.T) {
	s := testState(linearTrail{})
	b := NewBuilder(DefaultPalette(), viewport.DefaultLayout())
	tris := b.Build(s)

	for i := 0; i < TrailSteps; i++ {
		step := TrailSteps - i
		age := float64(step) / TrailSteps
		first := tris[i*CircleSegments]
		center := first[0]
		if math.Abs(float64(center.X)-age*10) > 1e-5 {
			t.Fatalf("step %d: expected centre x %v, got %v", step, age*10, center.X)
		}
		want := s.Ball.Radius.X * (1 - age)
		got := math.Hypot(float64(first[1].X-center.X), float64(first[1].Y-center.Y))
		if math.Abs(got-want) > 1e-5 {
			t.Fatalf("step %d: expected radius %v, got %v", step, want, got)
		}
		if center.Color != GradientAt(DefaultPalette().Trail, step, TrailSteps) {
			t.Fatalf("step %d: unexpected colour %+v", step, center.Color)
		}
	}
}

func TestGradientAtBlendsNeighbouringStops(t *testing.T) {
	stops := DefaultPalette().Trail
	// step 8 of 20 lands at 21/19 along three stops: just past stop 1
	got := GradientAt(stops, 8, TrailSteps)
	want := model.RGBA{R: 236, G: 143, B: 122, A: 0x88}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if got == stops[1] || got == stops[2] {
		t.Fatalf("expected a blend, got a stop %+v", got)
	}
}

func TestNozzleSitsOppositeAimAndRotates(t *testing.T) {
	var out batch
	builder := NewBuilder(DefaultPalette(), viewport.DefaultLayout())
	ball := physics.Ball{
		Pos:    model.Vec2{X: 1, Y: -2},
		Radius: model.Vec2{X: 0.2, Y: 0.2},
		Angle:  -math.Pi / 3,
	}
	builder.nozzle(&out, ball)
	if len(out.tris) != 2 {
		t.Fatalf("expected 2 triangles, got %d", len(out.tris))
	}

	sin, cos := math.Sincos(ball.Angle)
	p0, p1, p2 := out.tris[0][0], out.tris[0][1], out.tris[0][2]
	p3 := out.tris[1][2]

	cx := float64(p0.X+p1.X+p2.X+p3.X) / 4
	cy := float64(p0.Y+p1.Y+p2.Y+p3.Y) / 4
	wantX := ball.Pos.X - 0.5*cos
	wantY := ball.Pos.Y - 0.5*sin
	if math.Abs(cx-wantX) > 1e-5 || math.Abs(cy-wantY) > 1e-5 {
		t.Fatalf("expected centre (%v,%v), got (%v,%v)", wantX, wantY, cx, cy)
	}

	// the long edge follows the aim direction, the short edge its normal
	alongX, alongY := float64(p1.X-p0.X), float64(p1.Y-p0.Y)
	if math.Abs(alongX-2*ball.Radius.X*cos) > 1e-5 || math.Abs(alongY-2*ball.Radius.X*sin) > 1e-5 {
		t.Fatalf("expected edge along aim, got (%v,%v)", alongX, alongY)
	}
	acrossX, acrossY := float64(p3.X-p0.X), float64(p3.Y-p0.Y)
	if math.Abs(acrossX+2*nozzleHalfLength*sin) > 1e-5 || math.Abs(acrossY-2*nozzleHalfLength*cos) > 1e-5 {
		t.Fatalf("expected edge across aim, got (%v,%v)", acrossX, acrossY)
	}
	if p0.Color != DefaultPalette().Shadow {
		t.Fatalf("expected shadow colour, got %+v", p0.Color)
	}
}
