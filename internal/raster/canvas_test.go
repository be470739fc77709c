package raster

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/flagball/internal/model"
)

var identity = model.Affine{ScaleX: 1, ScaleY: 1}

func quad(lo, hi model.Vec2, c model.RGBA) []model.Triangle {
	v := func(x, y float64) model.Vertex {
		return model.Vertex{X: float32(x), Y: float32(y), Color: c, U: 0.5, V: 0.5}
	}
	return []model.Triangle{
		{v(lo.X, lo.Y), v(hi.X, lo.Y), v(hi.X, hi.Y)},
		{v(lo.X, lo.Y), v(hi.X, hi.Y), v(lo.X, hi.Y)},
	}
}

func TestAspect(t *testing.T) {
	if got := Aspect(80, 20); got != 2 {
		t.Fatalf("expected aspect 2, got %v", got)
	}
	if got := Aspect(0, 20); got != 1 {
		t.Fatalf("expected fallback aspect 1, got %v", got)
	}
}

func TestDrawFullScreenQuad(t *testing.T) {
	fg := model.Hex(0xf2d2b6ff)
	c := NewCanvas(4, 2, model.Hex(0x000000ff))
	c.Draw(model.Frame{
		Triangles: quad(model.Vec2{X: -1, Y: -1}, model.Vec2{X: 1, Y: 1}, fg),
		Transform: identity,
	})
	for cy := 0; cy < 2; cy++ {
		for cx := 0; cx < 4; cx++ {
			mask, color := c.cell(cx, cy)
			if mask != 0xff {
				t.Fatalf("cell %d,%d: expected full mask, got %#x", cx, cy, mask)
			}
			if color != fg {
				t.Fatalf("cell %d,%d: expected %+v, got %+v", cx, cy, fg, color)
			}
		}
	}
}

func TestDrawLeftHalf(t *testing.T) {
	c := NewCanvas(4, 1, model.RGBA{A: 0xff})
	c.Draw(model.Frame{
		Triangles: quad(model.Vec2{X: -1, Y: -1}, model.Vec2{X: 0, Y: 1}, model.Hex(0xffffffff)),
		Transform: identity,
	})
	want := strings.Repeat(string(brailleFromMask(0xff)), 2) + strings.Repeat(string(brailleFromMask(0)), 2)
	if got := c.String(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDrawBlendsAlpha(t *testing.T) {
	c := NewCanvas(1, 1, model.RGBA{A: 0xff})
	c.Draw(model.Frame{
		Triangles: quad(model.Vec2{X: -1, Y: -1}, model.Vec2{X: 1, Y: 1}, model.RGBA{R: 200, A: 0x80}),
		Transform: identity,
	})
	_, color := c.cell(0, 0)
	if color.R < 99 || color.R > 101 {
		t.Fatalf("expected half-blended red, got %d", color.R)
	}
}

func TestDrawAppliesTransform(t *testing.T) {
	c := NewCanvas(4, 1, model.RGBA{A: 0xff})
	// court x in [0, 2] maps to clip [-1, 1]
	c.Draw(model.Frame{
		Triangles: quad(model.Vec2{X: 0, Y: -1}, model.Vec2{X: 1, Y: 1}, model.Hex(0xffffffff)),
		Transform: model.Affine{ScaleX: 1, ScaleY: 1, OffsetX: -1},
	})
	if mask, _ := c.cell(0, 0); mask != 0xff {
		t.Fatalf("expected first cell lit, got %#x", mask)
	}
	if mask, _ := c.cell(3, 0); mask != 0 {
		t.Fatalf("expected last cell empty, got %#x", mask)
	}
}

func TestLinesColorRunLength(t *testing.T) {
	fg := model.Hex(0x102030ff)
	c := NewCanvas(5, 1, model.RGBA{A: 0xff})
	c.Draw(model.Frame{
		Triangles: quad(model.Vec2{X: -1, Y: -1}, model.Vec2{X: 1, Y: 1}, fg),
		Transform: identity,
	})
	line := c.Lines(true)[0]
	if n := strings.Count(line, fgCode(fg)); n != 1 {
		t.Fatalf("expected one colour change, got %d", n)
	}
	if !strings.HasPrefix(line, bgCode(c.bg)) || !strings.HasSuffix(line, colorReset) {
		t.Fatalf("expected background prefix and reset suffix, got %q", line)
	}
}

func TestShouldUseColor(t *testing.T) {
	var buf bytes.Buffer
	if ShouldUseColor(&buf, false) {
		t.Fatalf("expected no colour for a buffer")
	}
	if !ShouldUseColor(&buf, true) {
		t.Fatalf("expected forced colour")
	}
	t.Setenv("NO_COLOR", "1")
	if ShouldUseColor(&buf, true) {
		t.Fatalf("expected NO_COLOR to win")
	}
}

func TestPrinterPlain(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, 3, 2, model.RGBA{A: 0xff}, false)
	if err := p.Render(model.Frame{Transform: identity}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no escapes, got %q", out)
	}
	if lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n"); len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
}

func TestBrailleMask(t *testing.T) {
	if brailleDotMask(0, 3) != 0x40 || brailleDotMask(1, 3) != 0x80 {
		t.Fatalf("unexpected bottom row masks")
	}
	if brailleFromMask(0) != '\u2800' {
		t.Fatalf("expected blank braille")
	}
}
