package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"

	"github.com/verte-zerg/flagball/internal/model"
)

const defaultHoldWindow = 250 * time.Millisecond

// chargeRepeatWindow covers the terminal's initial key-repeat delay so a
// held space bar does not toggle again.
const chargeRepeatWindow = 600 * time.Millisecond

type keyMap struct {
	Left    key.Binding
	Right   key.Binding
	Charge  key.Binding
	Restart key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a", "aim left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d", "aim right"),
		),
		Charge: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "charge/shoot"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Charge, k.Restart, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// Latch turns terminal key presses into held signals. Terminals report
// presses (and auto-repeats) but never releases, so a turn key counts as
// held until the hold window after its last press runs out, and the charge
// key toggles between charging and releasing. Charge presses that repeat
// within the repeat window of the previous one are ignored.
type Latch struct {
	hold time.Duration

	leftUntil   time.Time
	rightUntil  time.Time
	chargeQuiet time.Time
	charging    bool
	release     bool
}

// NewLatch returns a latch that keeps turn keys held for hold after each
// press.
func NewLatch(hold time.Duration) *Latch {
	if hold <= 0 {
		hold = defaultHoldWindow
	}
	return &Latch{hold: hold}
}

// PressLeft records a left-turn press.
func (l *Latch) PressLeft(now time.Time) {
	l.leftUntil = now.Add(l.hold)
	l.rightUntil = time.Time{}
}

// PressRight records a right-turn press.
func (l *Latch) PressRight(now time.Time) {
	l.rightUntil = now.Add(l.hold)
	l.leftUntil = time.Time{}
}

// ToggleCharge starts charging, or releases if already charging. A press
// inside the repeat window only extends the window.
func (l *Latch) ToggleCharge(now time.Time) {
	repeat := now.Before(l.chargeQuiet)
	l.chargeQuiet = now.Add(max(l.hold, chargeRepeatWindow))
	if repeat {
		return
	}
	if l.charging {
		l.charging = false
		l.release = true
		return
	}
	l.charging = true
}

// Charging reports whether the charge key is latched down.
func (l *Latch) Charging() bool {
	return l.charging
}

// Reset drops every latched key.
func (l *Latch) Reset() {
	*l = Latch{hold: l.hold}
}

// Input returns the snapshot for a tick at now. A pending release is
// reported once.
func (l *Latch) Input(now time.Time) model.Input {
	in := model.Input{
		TurnLeft:       now.Before(l.leftUntil),
		TurnRight:      now.Before(l.rightUntil),
		ChargeHeld:     l.charging,
		ChargeReleased: l.release,
	}
	l.release = false
	return in
}
