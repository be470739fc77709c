// Package simui provides the Bubble Tea browser for headless runs.
package simui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/flagball/internal/game"
	"github.com/verte-zerg/flagball/internal/model"
	"github.com/verte-zerg/flagball/internal/sim"
)

const (
	tabOverview = iota
	tabEvents
	tabChart
)

const (
	fallbackWidth = 80
	chartMargin   = 10
)

const (
	fieldTicks = iota
	fieldStep
	fieldHold
	fieldRest
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F2D2B6")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#F2AD94"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F2D2B6")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea run browser.
type Model struct {
	cfg     model.Config
	maxStep float64
	script  sim.Script

	trace  sim.Trace
	errMsg string

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	eventsTable table.Model

	width  int
	height int

	formMode   bool
	formInputs []textinput.Model
	formIndex  int
	formError  string
}

// NewModel runs the script once and constructs the browser. A zero seed is
// fixed on construction so reruns place targets identically.
func NewModel(cfg model.Config, maxStep float64, script sim.Script) *Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	m := &Model{
		cfg:     cfg,
		maxStep: maxStep,
		script:  script,
		tabs:    []string{"Overview", "Events", "Height"},
	}
	m.initInputs()
	m.initViewports()
	m.eventsTable = buildEventsTable(nil, fallbackWidth, 1)
	m.rerun()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.formMode {
			return m.updateForm(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/":
			return m.startForm()
		case "g", "home":
			if m.activeTab == tabEvents {
				m.eventsTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabEvents {
				m.eventsTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			if m.activeTab == tabEvents {
				m.eventsTable, cmd = m.eventsTable.Update(msg)
				return m, cmd
			}
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.formInputs = []textinput.Model{
		newFormInput("Ticks: "),
		newFormInput("Step (s): "),
		newFormInput("Hold (s): "),
		newFormInput("Rest (s): "),
	}
	m.setInputsFromScript()
}

func newFormInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromScript() {
	m.formInputs[fieldTicks].SetValue(strconv.Itoa(m.script.Ticks))
	m.formInputs[fieldStep].SetValue(strconv.FormatFloat(m.script.Step, 'g', -1, 64))
	m.formInputs[fieldHold].SetValue(strconv.FormatFloat(m.script.Hold, 'g', -1, 64))
	m.formInputs[fieldRest].SetValue(strconv.FormatFloat(m.script.Rest, 'g', -1, 64))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(lipgloss.Height(activeNavStyle.Render("X")), 1)
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.formMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.eventsTable.SetWidth(m.width)
	m.eventsTable.SetHeight(max(bodyHeight-1, 1))
	for i := range m.formInputs {
		promptWidth := lipgloss.Width(m.formInputs[i].Prompt)
		m.formInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabEvents {
		m.eventsTable.Focus()
	} else {
		m.eventsTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padRows(strings.Split(m.renderTabs(), "\n"), m.width)
	summary := fmt.Sprintf("Run: ticks=%d  step=%.4gs  hold=%.3gs  rest=%.3gs  seed=%d",
		m.script.Ticks, m.script.Step, m.script.Hold, m.script.Rest, m.cfg.Seed)
	return tabs + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.formMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: run  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Rerun: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody(height int) string {
	if m.formMode {
		lines := []string{"Script (enter to run, esc to cancel)"}
		for _, input := range m.formInputs {
			lines = append(lines, input.View())
		}
		if m.formError != "" {
			lines = append(lines, errorStyle.Render(m.formError))
		}
		return fitLines(strings.Join(lines, "\n"), m.width, height)
	}
	if m.activeTab == tabEvents {
		if len(m.eventsTable.Rows()) == 0 {
			return fitLines("No launches or hits.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.eventsTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

// rerun replays the script on a fresh session with the same seed.
func (m *Model) rerun() {
	session := game.New(m.cfg, m.maxStep)
	trace, err := sim.NewRunner(session, m.script).Run()
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.trace = trace
	m.eventsTable.SetRows(eventRows(trace))
	m.eventsTable.GotoTop()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = fallbackWidth
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.trace, width))
	m.viewports[tabChart].SetContent(renderChart(m.trace, width))
}

func renderOverview(trace sim.Trace, width int) string {
	if len(trace.Samples) == 0 {
		return "No samples."
	}
	s := trace.Summarize()
	accuracy := 0.0
	if s.Shots > 0 {
		accuracy = float64(s.Hits) / float64(s.Shots) * 100
	}
	cards := []string{
		metricCard("Shots", fmt.Sprintf("%d", s.Shots)),
		metricCard("Hits", fmt.Sprintf("%d", s.Hits)),
		metricCard("Accuracy", fmt.Sprintf("%.1f%%", accuracy)),
		metricCard("Score", fmt.Sprintf("%d-%d", s.Score.Left, s.Score.Right)),
		metricCard("Max speed", fmt.Sprintf("%.2f", s.MaxSpeed)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	speed := sim.Sparkline(sim.MovingAverage(trace.Speeds(), 10), width-chartMargin)
	table := strings.Join(sim.SummaryLines(s), "\n")
	return strings.TrimRight(summary+"\n\n"+table+"\n\nSpeed "+speed, "\n")
}

func renderChart(trace sim.Trace, width int) string {
	chart := sim.HeightChart(trace, width-chartMargin)
	if chart == "" {
		return "Not enough samples to plot."
	}
	return chart
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func eventColumns() []table.Column {
	return []table.Column{
		{Title: "Tick", Width: 6},
		{Title: "Time", Width: 7},
		{Title: "Event", Width: 10},
		{Title: "X", Width: 6},
		{Title: "Y", Width: 6},
		{Title: "Speed", Width: 6},
		{Title: "Score", Width: 6},
	}
}

func eventRows(trace sim.Trace) []table.Row {
	rows := make([]table.Row, 0)
	for _, s := range trace.Samples {
		event := s.Event()
		if event == "" {
			continue
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", s.Tick),
			fmt.Sprintf("%.2f", s.Time),
			event,
			fmt.Sprintf("%.2f", s.Pos.X),
			fmt.Sprintf("%.2f", s.Pos.Y),
			fmt.Sprintf("%.2f", s.Speed),
			fmt.Sprintf("%d-%d", s.Score.Left, s.Score.Right),
		})
	}
	return rows
}

func buildEventsTable(rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(eventColumns()),
		table.WithRows(rows),
		table.WithHeight(max(1, height)),
	)
	t.SetWidth(width)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F2D2B6")).
		Bold(true)
	return styles
}

func (m *Model) startForm() (tea.Model, tea.Cmd) {
	m.formMode = true
	m.formError = ""
	m.setInputsFromScript()
	return m, m.setFormIndex(0)
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.formMode = false
		m.formError = ""
		return m, nil
	case tea.KeyEnter:
		script, err := m.scriptFromInputs()
		if err != nil {
			m.formError = err.Error()
			return m, nil
		}
		m.script = script
		m.formMode = false
		m.formError = ""
		m.rerun()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFormIndex(m.formIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFormIndex(m.formIndex - 1)
	}
	var cmd tea.Cmd
	m.formInputs[m.formIndex], cmd = m.formInputs[m.formIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFormIndex(idx int) tea.Cmd {
	count := len(m.formInputs)
	if count == 0 {
		return nil
	}
	m.formIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.formInputs {
		if i == m.formIndex {
			cmd = m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) scriptFromInputs() (sim.Script, error) {
	script := m.script
	ticks, err := strconv.Atoi(strings.TrimSpace(m.formInputs[fieldTicks].Value()))
	if err != nil {
		return sim.Script{}, fmt.Errorf("invalid ticks: %w", err)
	}
	script.Ticks = ticks
	floats := []struct {
		field  int
		name   string
		target *float64
	}{
		{fieldStep, "step", &script.Step},
		{fieldHold, "hold", &script.Hold},
		{fieldRest, "rest", &script.Rest},
	}
	for _, f := range floats {
		v, err := strconv.ParseFloat(strings.TrimSpace(m.formInputs[f.field].Value()), 64)
		if err != nil {
			return sim.Script{}, fmt.Errorf("invalid %s: %w", f.name, err)
		}
		*f.target = v
	}
	if err := script.Validate(); err != nil {
		return sim.Script{}, err
	}
	return script, nil
}

// fitLines clips or pads s to exactly height rows of at least width columns.
func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	rows := strings.Split(s, "\n")
	rows = rows[:min(len(rows), height)]
	for len(rows) < height {
		rows = append(rows, "")
	}
	return padRows(rows, width)
}

func padRows(rows []string, width int) string {
	for i, row := range rows {
		rows[i] = lipgloss.PlaceHorizontal(width, lipgloss.Left, row)
	}
	return strings.Join(rows, "\n")
}

// truncateLine cuts s to width display columns, ending in "...".
func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
