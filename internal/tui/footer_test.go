package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/flagball/internal/game"
	"github.com/verte-zerg/flagball/internal/model"
)

type cornerPlacer struct{}

func (cornerPlacer) PointIn(half model.Vec2) model.Vec2 {
	return half
}

func newTestModel() *Model {
	session := game.NewWithPlacer(model.DefaultConfig(), 0.1, cornerPlacer{})
	display := model.DefaultDisplayConfig()
	display.Color = false
	return NewModel(session, display)
}

func TestRenderFooterFormats(t *testing.T) {
	m := newTestModel()
	m.width = 200
	for i := 0; i < 5; i++ {
		m.session.Update(0.1, model.Input{ChargeHeld: true})
	}
	out := m.renderFooter()
	if !containsAll(out, []string{"Score 0-0", "Charge 50%", "Shots 0", "quit"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterTruncates(t *testing.T) {
	m := newTestModel()
	m.width = 12
	out := m.renderFooter()
	if w := lipgloss.Width(out); w > 12 {
		t.Fatalf("expected footer within 12 columns, got %d: %q", w, out)
	}
	if !strings.HasPrefix(stripStyle(out), "Score 0-0") {
		t.Fatalf("expected score first, got %q", out)
	}
}

func TestViewSizedToWindow(t *testing.T) {
	m := newTestModel()
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 12})
	view := m.View()
	lines := strings.Split(view, "\n")
	if len(lines) != 12 {
		t.Fatalf("expected 12 lines, got %d", len(lines))
	}
	if w := lipgloss.Width(lines[0]); w != 40 {
		t.Fatalf("expected 40 columns, got %d", w)
	}
}

func TestViewEmptyBeforeSize(t *testing.T) {
	if view := newTestModel().View(); view != "" {
		t.Fatalf("expected empty view, got %q", view)
	}
}

func TestSpaceTogglesCharge(t *testing.T) {
	m := newTestModel()
	start := time.Now()
	clock := start
	m.now = func() time.Time { return clock }
	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	m.Update(space)
	if !m.latch.Charging() {
		t.Fatalf("expected charging after first press")
	}
	m.Update(tickMsg(start))
	m.Update(tickMsg(start.Add(200 * time.Millisecond)))
	if fill := m.session.Snapshot().Meter.Fill; fill <= 0 {
		t.Fatalf("expected meter to fill, got %v", fill)
	}
	clock = start.Add(time.Second)
	m.Update(space)
	m.Update(tickMsg(start.Add(250 * time.Millisecond)))
	snap := m.session.Snapshot()
	if snap.Shots != 1 {
		t.Fatalf("expected one shot, got %d", snap.Shots)
	}
	if snap.Meter.Fill != 0 {
		t.Fatalf("expected meter reset, got %v", snap.Meter.Fill)
	}
}

func TestHeldSpaceDoesNotFire(t *testing.T) {
	m := newTestModel()
	start := time.Now()
	clock := start
	m.now = func() time.Time { return clock }
	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	m.Update(space)
	for i := 1; i <= 10; i++ {
		clock = start.Add(time.Duration(i) * 50 * time.Millisecond)
		m.Update(space)
		m.Update(tickMsg(clock))
	}
	if shots := m.session.Snapshot().Shots; shots != 0 {
		t.Fatalf("expected no shots while space repeats, got %d", shots)
	}
	if !m.latch.Charging() {
		t.Fatalf("expected charge still latched")
	}
}

func TestTickRendersCanvas(t *testing.T) {
	m := newTestModel()
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 12})
	start := time.Now()
	m.Update(tickMsg(start))
	m.Update(tickMsg(start.Add(50 * time.Millisecond)))
	if ticks := m.session.Snapshot().Ticks; ticks != 2 {
		t.Fatalf("expected 2 ticks, got %d", ticks)
	}
	if !hasDots(m.View()) {
		t.Fatalf("expected drawn braille cells in view")
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
}

func hasDots(s string) bool {
	for _, r := range s {
		if r > 0x2800 && r <= 0x28FF {
			return true
		}
	}
	return false
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

func stripStyle(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape && r == 'm':
			inEscape = false
		case !inEscape:
			b.WriteRune(r)
		}
	}
	return b.String()
}
