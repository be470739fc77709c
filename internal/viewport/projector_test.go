package viewport

import (
	"math"
	"testing"

	"github.com/verte-zerg/flagball/internal/model"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestProjectFitsSceneOnBindingAxis(t *testing.T) {
	p := New(model.Vec2{X: 7, Y: 5}, DefaultLayout())
	for _, aspect := range []float64{0.5, 1, 4.0 / 3.0, 16.0 / 9.0, 3} {
		pr := p.Project(aspect)
		lo := pr.ToClip(pr.SceneMin)
		hi := pr.ToClip(pr.SceneMax)
		if lo.X < -1-1e-9 || hi.X > 1+1e-9 || lo.Y < -1-1e-9 || hi.Y > 1+1e-9 {
			t.Fatalf("aspect %f: scene escapes display: lo=%+v hi=%+v", aspect, lo, hi)
		}
		if !near(hi.X, 1) && !near(hi.Y, 1) {
			t.Fatalf("aspect %f: expected one axis to touch the edge, got hi=%+v", aspect, hi)
		}
		if !near(lo.X, -hi.X) || !near(lo.Y, -hi.Y) {
			t.Fatalf("aspect %f: expected scene centred, got lo=%+v hi=%+v", aspect, lo, hi)
		}
	}
}

func TestProjectKeepsShapesSquare(t *testing.T) {
	p := New(model.Vec2{X: 7, Y: 5}, DefaultLayout())
	aspect := 2.0
	pr := p.Project(aspect)
	a := pr.ToClip(model.Vec2{X: 0, Y: 0})
	b := pr.ToClip(model.Vec2{X: 1, Y: 1})
	// One court unit spans the same number of pixels on both axes once the
	// horizontal clip range is stretched back by the aspect.
	if !near((b.X-a.X)*aspect, b.Y-a.Y) {
		t.Fatalf("expected square pixels, got dx=%f dy=%f", (b.X-a.X)*aspect, b.Y-a.Y)
	}
}

func TestInverseRoundTrips(t *testing.T) {
	p := New(model.Vec2{X: 1, Y: 0.75}, DefaultLayout())
	pr := p.Project(1.6)
	for _, pt := range []model.Vec2{{}, {X: 0.5, Y: -0.3}, {X: -1, Y: 0.75}} {
		back := pr.ToCourt(pr.ToClip(pt))
		if !near(back.X, pt.X) || !near(back.Y, pt.Y) {
			t.Fatalf("round trip mismatch: %+v -> %+v", pt, back)
		}
	}
}

func TestDegenerateAspectIsClamped(t *testing.T) {
	p := New(model.Vec2{X: 7, Y: 5}, DefaultLayout())
	for _, aspect := range []float64{0, -2, math.NaN()} {
		pr := p.Project(aspect)
		if pr.Aspect != MinAspect {
			t.Fatalf("expected aspect clamped to %f, got %f", MinAspect, pr.Aspect)
		}
		if math.IsNaN(pr.Scale) || math.IsInf(pr.Scale, 0) || pr.Scale <= 0 {
			t.Fatalf("expected finite positive scale, got %f", pr.Scale)
		}
	}
}

func TestMat4MatchesForward(t *testing.T) {
	pr := New(model.Vec2{X: 7, Y: 5}, DefaultLayout()).Project(1.5)
	m := pr.Forward.Mat4()
	pt := model.Vec2{X: 2, Y: -1}
	x := float64(m[0])*pt.X + float64(m[12])
	y := float64(m[5])*pt.Y + float64(m[13])
	want := pr.ToClip(pt)
	if math.Abs(x-want.X) > 1e-5 || math.Abs(y-want.Y) > 1e-5 {
		t.Fatalf("matrix disagrees with forward transform: (%f,%f) vs %+v", x, y, want)
	}
}
