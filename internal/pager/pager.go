// Package pager implements the full-log scrollable viewer from spec.md
// §4.8 ("Pager (full log)") as a github.com/charmbracelet/bubbletea
// program, styled with github.com/charmbracelet/lipgloss.
package pager

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mcobservatory/observatory/internal/monitor"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	lineNumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	kindStyles   = map[monitor.EventKind]lipgloss.Style{
		monitor.EventStatusChange: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		monitor.EventPlayerJoin:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		monitor.EventPlayerLeave:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		monitor.EventPlayerCount:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		monitor.EventInfo:         lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	}
)

// Source supplies the live event history the pager renders; it is
// polled on every tick so the view stays responsive to new events
// without blocking on a read (spec.md §4.8's "must not block on
// reads").
type Source interface {
	History() []monitor.Event
}

// Model is the bubbletea model backing the pager.
type Model struct {
	source     Source
	serverName string

	width, height int
	topLine       int
	autoScroll    bool
	order         monitor.Order

	savedPath string
	quitting  bool
}

// New constructs a pager model for source, auto-scrolling to the tail
// by default.
func New(source Source, serverName string) Model {
	return Model{source: source, serverName: serverName, autoScroll: true, height: 24, width: 80}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init starts the poll loop.
func (m Model) Init() tea.Cmd {
	return tick()
}

// pageSize mirrors spec.md §4.8: "page ≈ terminal_height − 10".
func (m Model) pageSize() int {
	n := m.height - 10
	if n < 1 {
		n = 1
	}
	return n
}

// Update handles key presses and the poll tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		if m.autoScroll {
			m.topLine = m.maxTop()
		}
		return m, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			m.scrollBy(-1)
		case "down", "j":
			m.scrollBy(1)
		case "pgup", "b":
			m.scrollBy(-m.pageSize())
		case "pgdown", " ":
			m.scrollBy(m.pageSize())
		case "g":
			m.topLine = 0
			m.autoScroll = false
		case "G":
			m.topLine = m.maxTop()
			m.autoScroll = true
		case "t":
			if m.order == monitor.OrderByTime {
				m.order = monitor.OrderGroupedByKind
			} else {
				m.order = monitor.OrderByTime
			}
		case "a":
			m.autoScroll = !m.autoScroll
			if m.autoScroll {
				m.topLine = m.maxTop()
			}
		case "s":
			path, err := m.save()
			if err == nil {
				m.savedPath = path
			}
		}
	}
	return m, nil
}

func (m *Model) scrollBy(delta int) {
	m.autoScroll = false
	m.topLine += delta
	if m.topLine < 0 {
		m.topLine = 0
	}
	if top := m.maxTop(); m.topLine > top {
		m.topLine = top
	}
}

func (m Model) orderedEvents() []monitor.Event {
	return monitor.OrderEvents(m.source.History(), m.order)
}

func (m Model) maxTop() int {
	total := len(m.orderedEvents())
	top := total - m.pageSize()
	if top < 0 {
		top = 0
	}
	return top
}

// View renders the visible page.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	events := m.orderedEvents()
	page := m.pageSize()

	var b strings.Builder
	orderLabel := "by-time"
	if m.order == monitor.OrderGroupedByKind {
		orderLabel = "grouped"
	}
	scrollLabel := "manual"
	if m.autoScroll {
		scrollLabel = "auto"
	}
	fmt.Fprintln(&b, headerStyle.Render(fmt.Sprintf("%s — %d events — order:%s scroll:%s", m.serverName, len(events), orderLabel, scrollLabel)))

	end := m.topLine + page
	if end > len(events) {
		end = len(events)
	}
	for i := m.topLine; i < end; i++ {
		e := events[i]
		style := kindStyles[e.Kind]
		ts := e.Timestamp.Format("15:04:05")
		fmt.Fprintf(&b, "%s %s %s\n",
			lineNumStyle.Render(fmt.Sprintf("%4d", i+1)),
			ts,
			style.Render(fmt.Sprintf("[%s] %s", e.Kind, e.Message)))
	}
	if m.savedPath != "" {
		fmt.Fprintln(&b, lineNumStyle.Render("saved to "+m.savedPath))
	}
	fmt.Fprintln(&b, lineNumStyle.Render("arrows/pgup/pgdn/j/k/g/G  t:reorder  a:auto-scroll  s:save  q:back"))
	return b.String()
}

// save writes the current, full event history to a timestamped
// plain-text file (spec.md §4.8's `s` key), returning its path.
func (m Model) save() (string, error) {
	name := fmt.Sprintf("%s_%s.txt", monitor.SafeName(m.serverName), time.Now().Format("20060102_150405"))
	f, err := os.Create(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	for _, e := range m.orderedEvents() {
		fmt.Fprintf(f, "%s [%s] %s\n", e.Timestamp.Format(time.RFC3339), e.Kind, e.Message)
	}
	return name, nil
}

// Run starts the bubbletea program for this pager model.
func Run(source Source, serverName string) error {
	p := tea.NewProgram(New(source, serverName), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
