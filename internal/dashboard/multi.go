package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mcobservatory/observatory/internal/monitor"
	"github.com/mcobservatory/observatory/internal/render"
)

var multiHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

const multiEventTail = 3

// MultiModel renders spec.md §4.8's multi-server UI: one row per
// monitored server plus a short tail of each server's events, with an
// optional name filter and a combined/by-server view toggle.
type MultiModel struct {
	monitors []*monitor.Monitor

	width, height int
	filter        string // empty means no filter
	combinedView  bool
	selecting     bool // `f` was pressed; next key picks the filter
	quitting      bool
}

// NewMulti constructs a multi-server dashboard over monitors, all of
// which must already be started.
func NewMulti(monitors []*monitor.Monitor) MultiModel {
	return MultiModel{monitors: monitors, height: 24, width: 80}
}

type multiTickMsg time.Time

func multiTick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg { return multiTickMsg(t) })
}

// Init starts the refresh poll.
func (m MultiModel) Init() tea.Cmd {
	return multiTick()
}

// Update handles key presses and the refresh tick.
func (m MultiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case multiTickMsg:
		return m, multiTick()

	case tea.KeyMsg:
		if m.selecting {
			m.selecting = false
			if idx, ok := digitIndex(msg.String()); ok && idx < len(m.monitors) {
				m.filter = m.monitors[idx].Record.Name
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "+", "=":
			m.broadcastInterval(5 * time.Second)
		case "-", "_":
			m.broadcastInterval(-5 * time.Second)
		case "r":
			m.broadcastProbeNow()
		case "f":
			m.selecting = true
		case "v":
			m.combinedView = !m.combinedView
		case "c":
			m.filter = ""
		}
	}
	return m, nil
}

func digitIndex(key string) (int, bool) {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '0'), true
}

func (m MultiModel) broadcastInterval(delta time.Duration) {
	for _, mon := range m.visibleMonitors() {
		mon.Sampler.SetInterval(mon.Sampler.Interval() + delta)
	}
}

func (m MultiModel) broadcastProbeNow() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, mon := range m.visibleMonitors() {
		mon.Sampler.ProbeNow(ctx, mon.Stream)
	}
}

func (m MultiModel) visibleMonitors() []*monitor.Monitor {
	if m.filter == "" {
		return m.monitors
	}
	var out []*monitor.Monitor
	for _, mon := range m.monitors {
		if mon.Record.Name == m.filter {
			out = append(out, mon)
		}
	}
	return out
}

// View renders one row per visible server, plus each server's event
// tail unless combinedView interleaves them into a single feed.
func (m MultiModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	filterLabel := m.filter
	if filterLabel == "" {
		filterLabel = "none"
	}
	viewLabel := "by-server"
	if m.combinedView {
		viewLabel = "combined"
	}
	fmt.Fprintln(&b, multiHeaderStyle.Render(fmt.Sprintf(
		"fleet: %d servers — filter:%s — view:%s", len(m.monitors), filterLabel, viewLabel,
	)))

	if m.selecting {
		fmt.Fprintln(&b, dimStyle.Render(m.selectionMenu()))
	}

	visible := m.visibleMonitors()

	if m.combinedView {
		var all []monitor.Event
		for _, mon := range visible {
			all = append(all, mon.Stream.History()...)
		}
		sortEventsByTime(all)
		if len(all) > multiEventTail*len(visible) && len(visible) > 0 {
			all = all[len(all)-multiEventTail*len(visible):]
		}
		for _, e := range all {
			fmt.Fprintf(&b, "  %s [%s] %s\n", e.Timestamp.Format("15:04:05"), e.Kind, e.Message)
		}
	} else {
		for _, mon := range visible {
			fmt.Fprintln(&b, summaryRow(mon))
			tail := mon.Stream.History()
			if len(tail) > multiEventTail {
				tail = tail[len(tail)-multiEventTail:]
			}
			for _, e := range tail {
				fmt.Fprintf(&b, "    %s [%s] %s\n", e.Timestamp.Format("15:04:05"), e.Kind, e.Message)
			}
		}
	}

	fmt.Fprintln(&b, dimStyle.Render("q:exit  +/-:interval(all)  r:probe now(all)  f:filter  v:view  c:clear filter"))
	return b.String()
}

func (m MultiModel) selectionMenu() string {
	var b strings.Builder
	b.WriteString("select a server: ")
	for i, mon := range m.monitors {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d=%s", i, mon.Record.Name)
		if i == 9 {
			break
		}
	}
	return b.String()
}

func summaryRow(mon *monitor.Monitor) string {
	latest, ok := mon.Sampler.Latest()
	if !ok {
		return fmt.Sprintf("%-20s %s", mon.Record.Name, dimStyle.Render("waiting for first probe..."))
	}
	if latest.Failed() {
		return fmt.Sprintf("%-20s %s", mon.Record.Name, errStyle.Render("down: "+latest.Error))
	}
	return fmt.Sprintf("%-20s %s  players:%s  latency:%s",
		mon.Record.Name, render.VersionLabel(latest.Version), render.PlayerCountLabel(latest.Players), render.LatencyLabel(latest.QueryMs))
}

func sortEventsByTime(events []monitor.Event) {
	for i := 1; i < len(events); i++ {
		j := i
		for j > 0 && events[j-1].Timestamp.After(events[j].Timestamp) {
			events[j-1], events[j] = events[j], events[j-1]
			j--
		}
	}
}

// RunMulti starts the bubbletea program for the multi-server dashboard.
func RunMulti(monitors []*monitor.Monitor) error {
	p := tea.NewProgram(NewMulti(monitors), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
