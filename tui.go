package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"umiko/keys"
)

// TUI message types
type BoundMsg struct{ Label, Combo string }
type BindFailedMsg struct {
	Combo string
	Err   error
}
type FiredMsg struct {
	Label, Combo string
	Count        int
}
type KeyStateMsg struct {
	Key   keys.Code
	State keys.State
}
type StatusMsg struct{ Text string }
type tickMsg time.Time

// flashFor is how long a row stays highlighted after it fires.
const flashFor = 400 * time.Millisecond

type bindRow struct {
	label, combo string
	count        int
	failed       string
	lastFired    time.Time
}

type tuiModel struct {
	rows          []bindRow
	keyOrder      []keys.Code
	keyStates     map[keys.Code]keys.State
	status        string
	quitCombo     string
	now           time.Time
	width, height int
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	comboStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	flashStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	stateStyles = map[keys.State]lipgloss.Style{
		keys.Idle:             dimStyle,
		keys.Pressed:          lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		keys.Locked:           lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		keys.PressedAndLocked: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	}
)

func NewTUIProgram(watched []keys.Code, quitCombo string) *tea.Program {
	m := tuiModel{
		keyOrder:  watched,
		keyStates: make(map[keys.Code]keys.State),
		quitCombo: quitCombo,
	}
	return tea.NewProgram(m, tea.WithAltScreen())
}

// tuiSink forwards session events into the running program.
type tuiSink struct{ p *tea.Program }

func (s tuiSink) Bound(label, combo string) { s.p.Send(BoundMsg{label, combo}) }

func (s tuiSink) BindFailed(combo string, err error) { s.p.Send(BindFailedMsg{combo, err}) }

func (s tuiSink) Fired(label, combo string, count int) {
	s.p.Send(FiredMsg{label, combo, count})
}

func (s tuiSink) KeyState(key keys.Code, state keys.State) {
	s.p.Send(KeyStateMsg{key, state})
}

func (s tuiSink) Status(text string) { s.p.Send(StatusMsg{text}) }

func tuiTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case tickMsg:
		m.now = time.Time(msg)
		return m, tuiTick()

	case BoundMsg:
		m.rows = append(m.rows, bindRow{label: msg.Label, combo: msg.Combo})

	case BindFailedMsg:
		m.rows = append(m.rows, bindRow{label: "-", combo: msg.Combo, failed: msg.Err.Error()})

	case FiredMsg:
		for i := range m.rows {
			if m.rows[i].combo == msg.Combo && m.rows[i].failed == "" {
				m.rows[i].count = msg.Count
				m.rows[i].lastFired = time.Now()
				break
			}
		}

	case KeyStateMsg:
		m.keyStates[msg.Key] = msg.State

	case StatusMsg:
		m.status = msg.Text
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("umiko "+version) + "\n\n")

	if len(m.rows) == 0 {
		b.WriteString(dimStyle.Render("No shortcuts bound (use -bind Ctrl+Alt+H=hello)") + "\n")
	}
	for _, r := range m.rows {
		combo := comboStyle.Render(fmt.Sprintf("%-18s", r.combo))
		if r.failed != "" {
			b.WriteString(combo + " " + failStyle.Render(r.failed) + "\n")
			continue
		}
		count := fmt.Sprintf("%4d", r.count)
		if !r.lastFired.IsZero() && m.now.Sub(r.lastFired) < flashFor {
			count = flashStyle.Render(count)
		} else {
			count = dimStyle.Render(count)
		}
		b.WriteString(combo + " " + count + "  " + r.label + "\n")
	}

	if len(m.keyOrder) > 0 {
		b.WriteString("\n")
		for _, code := range m.keyOrder {
			st, ok := m.keyStates[code]
			text := "?"
			style := dimStyle
			if ok {
				text = st.String()
				style = stateStyles[st]
			}
			b.WriteString(fmt.Sprintf("%-12s", code.String()) + style.Render(text) + "\n")
		}
	}

	panelWidth := m.width - 4
	if panelWidth < 20 {
		panelWidth = 20
	}
	view := panelStyle.Width(panelWidth).Render(strings.TrimRight(b.String(), "\n"))

	var footer []string
	if m.status != "" {
		for _, line := range wrapText(m.status, panelWidth) {
			footer = append(footer, dimStyle.Render(line))
		}
	}
	help := "q to exit"
	if m.quitCombo != "" {
		help = m.quitCombo + " or " + help
	}
	footer = append(footer, helpStyle.Render(help))
	return view + "\n" + strings.Join(footer, "\n")
}

func wrapText(text string, width int) []string {
	if len(text) == 0 {
		return []string{""}
	}
	if width <= 0 {
		width = 1
	}

	var lines []string
	for len(text) > width {
		// Find last space within width
		splitAt := width
		for i := width; i > 0; i-- {
			if text[i] == ' ' {
				splitAt = i
				break
			}
		}
		lines = append(lines, text[:splitAt])
		text = strings.TrimLeft(text[splitAt:], " ")
	}
	if len(text) > 0 {
		lines = append(lines, text)
	}
	return lines
}
