// Package tui provides the Bubble Tea terminal frontend.
package tui

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/flagball/internal/game"
	"github.com/verte-zerg/flagball/internal/model"
	"github.com/verte-zerg/flagball/internal/raster"
)

const footerGap = "  "

var (
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	scoreStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F2D2B6")).Bold(true)
	chargingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F2AD94"))
)

type tickMsg time.Time

// Model implements the Bubble Tea game UI.
type Model struct {
	session *game.Session
	display model.DisplayConfig

	keys  keyMap
	help  help.Model
	latch *Latch

	canvas *raster.Canvas
	color  bool

	width  int
	height int

	lastTick time.Time
	now      func() time.Time
}

// NewModel constructs a game TUI model.
func NewModel(session *game.Session, display model.DisplayConfig) *Model {
	return &Model{
		session: session,
		display: display,
		keys:    defaultKeyMap(),
		help:    help.New(),
		latch:   NewLatch(defaultHoldWindow),
		color:   display.Color && raster.ShouldUseColor(os.Stdout, true),
		now:     time.Now,
	}
}

func (m *Model) interval() time.Duration {
	fps := m.display.FPS
	if fps <= 0 {
		fps = model.DefaultDisplayConfig().FPS
	}
	return time.Second / time.Duration(fps)
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		now := m.now()
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Left):
			m.latch.PressLeft(now)
		case key.Matches(msg, m.keys.Right):
			m.latch.PressRight(now)
		case key.Matches(msg, m.keys.Charge):
			m.latch.ToggleCharge(now)
		case key.Matches(msg, m.keys.Restart):
			m.latch.Reset()
			m.session.Restart()
		}
		return m, nil
	case tickMsg:
		now := time.Time(msg)
		elapsed := 0.0
		if !m.lastTick.IsZero() {
			elapsed = now.Sub(m.lastTick).Seconds()
		}
		m.lastTick = now
		in := m.latch.Input(now)
		if m.canvas == nil {
			m.session.Update(elapsed, in)
			return m, m.tick()
		}
		if _, err := m.session.Step(elapsed, m.canvas.Aspect(), in, m.canvas); err != nil {
			log.Printf("failed to render frame: %v", err)
		}
		return m, m.tick()
	default:
		return m, nil
	}
}

func (m *Model) resize() {
	rows := m.height - 1
	if m.width < 1 || rows < 1 {
		m.canvas = nil
		return
	}
	m.help.Width = m.width
	if m.canvas != nil {
		if cols, r := m.canvas.Size(); cols == m.width && r == rows {
			return
		}
	}
	m.canvas = raster.NewCanvas(m.width, rows, m.session.Palette().Background)
	if err := m.canvas.Render(m.session.BuildFrame(m.canvas.Aspect())); err != nil {
		log.Printf("failed to render frame: %v", err)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.canvas == nil {
		return ""
	}
	body := strings.Join(m.canvas.Lines(m.color), "\n")
	return body + "\n" + m.renderFooter()
}

func (m *Model) renderFooter() string {
	snap := m.session.Snapshot()
	charge := fmt.Sprintf("Charge %d%%", int(snap.Meter.Fill*100))
	if m.latch.Charging() {
		charge = chargingStyle.Render(charge)
	}
	segments := []string{
		scoreStyle.Render(fmt.Sprintf("Score %d-%d", snap.Score.Left, snap.Score.Right)),
		charge,
		footerStyle.Render(fmt.Sprintf("Shots %d", snap.Shots)),
	}
	status := strings.Join(segments, footerGap)
	if m.width <= 0 {
		return status
	}
	statusWidth := lipgloss.Width(status)
	if statusWidth >= m.width {
		plain := fmt.Sprintf("Score %d-%d%sCharge %d%%", snap.Score.Left, snap.Score.Right, footerGap, int(snap.Meter.Fill*100))
		return footerStyle.Render(runewidth.Truncate(plain, m.width, "…"))
	}
	m.help.Width = m.width - statusWidth - len(footerGap)
	return status + footerGap + m.help.View(m.keys)
}
