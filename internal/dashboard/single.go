// Package dashboard implements the single- and multi-server live views
// from spec.md §4.8, both as github.com/charmbracelet/bubbletea programs
// styled with github.com/charmbracelet/lipgloss, sharing the pager's
// event-ordering and the render package's color thresholds.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mcobservatory/observatory/internal/monitor"
	"github.com/mcobservatory/observatory/internal/probe"
	"github.com/mcobservatory/observatory/internal/render"
)

var (
	singleHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const singleEventWindow = 20

// SingleModel renders spec.md §4.8's single-server UI: a header, the
// latest probe result's colored detail fields, and the last
// singleEventWindow events.
type SingleModel struct {
	mon *monitor.Monitor

	width, height  int
	order          monitor.Order
	pagerRequested bool
	quitting       bool
}

// NewSingle constructs a single-server dashboard model for mon, which
// must already be started (monitor.Monitor.Start).
func NewSingle(mon *monitor.Monitor) SingleModel {
	return SingleModel{mon: mon, height: 24, width: 80}
}

type singleTickMsg time.Time

func singleTick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg { return singleTickMsg(t) })
}

// Init starts the refresh poll.
func (m SingleModel) Init() tea.Cmd {
	return singleTick()
}

// Update handles key presses and the refresh tick.
func (m SingleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case singleTickMsg:
		return m, singleTick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "+", "=":
			m.mon.Sampler.SetInterval(m.mon.Sampler.Interval() + 5*time.Second)
		case "-", "_":
			m.mon.Sampler.SetInterval(m.mon.Sampler.Interval() - 5*time.Second)
		case "r":
			// Synchronous manual probe per spec.md §4.8's single-server
			// UI `r` key: the UI blocks for the duration of one probe.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			m.mon.Sampler.ProbeNow(ctx, m.mon.Stream)
			cancel()
		case "t":
			if m.order == monitor.OrderByTime {
				m.order = monitor.OrderGroupedByKind
			} else {
				m.order = monitor.OrderByTime
			}
		case "l":
			m.pagerRequested = true
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// PagerRequested reports whether Update quit because the `l` key opened
// the full pager, as opposed to `q`/esc.
func (m SingleModel) PagerRequested() bool { return m.pagerRequested }

// View renders the header, latest-result detail panel, and trailing
// event window.
func (m SingleModel) View() string {
	if m.quitting {
		return ""
	}

	rec := m.mon.Record
	var b strings.Builder

	interval := m.mon.Sampler.Interval()
	probeCount := len(rec.QueryHistory())
	fmt.Fprintln(&b, singleHeaderStyle.Render(fmt.Sprintf(
		"%s — %s — interval:%s — probes:%d",
		rec.Name, rec.Endpoint().String(), interval, probeCount,
	)))

	if latest, ok := m.mon.Sampler.Latest(); ok {
		fmt.Fprintln(&b, renderLatest(latest))
	} else {
		fmt.Fprintln(&b, dimStyle.Render("waiting for first probe..."))
	}

	fmt.Fprintln(&b)
	orderLabel := "by-time"
	if m.order == monitor.OrderGroupedByKind {
		orderLabel = "grouped"
	}
	fmt.Fprintln(&b, dimStyle.Render(fmt.Sprintf("last events (order:%s):", orderLabel)))

	events := monitor.OrderEvents(m.mon.Stream.History(), m.order)
	if len(events) > singleEventWindow {
		events = events[len(events)-singleEventWindow:]
	}
	for _, e := range events {
		fmt.Fprintf(&b, "  %s [%s] %s\n", e.Timestamp.Format("15:04:05"), e.Kind, e.Message)
	}

	fmt.Fprintln(&b, dimStyle.Render("q:exit  +/-:interval  r:probe now  t:reorder  l:full log"))
	return b.String()
}

// renderLatest formats one probe result's detail line, applying
// spec.md §4.8's version/player-count/latency coloring thresholds via
// internal/render.
func renderLatest(latest probe.Result) string {
	if latest.Failed() {
		return errStyle.Render("down: " + latest.Error)
	}
	line := fmt.Sprintf("%s  players:%s  latency:%s",
		render.VersionLabel(latest.Version), render.PlayerCountLabel(latest.Players), render.LatencyLabel(latest.QueryMs))
	if latest.Motd != "" {
		line += "  " + probe.StripColor(latest.Motd)
	}
	return line
}

// Run starts the bubbletea program for mon's single-server dashboard,
// switching into the full pager whenever the `l` key is pressed and
// resuming the dashboard on return, until the user exits with `q`.
func Run(mon *monitor.Monitor, openPager func() error) error {
	for {
		p := tea.NewProgram(NewSingle(mon), tea.WithAltScreen())
		finalModel, err := p.Run()
		if err != nil {
			return err
		}
		sm := finalModel.(SingleModel)
		if !sm.PagerRequested() {
			return nil
		}
		if err := openPager(); err != nil {
			return err
		}
	}
}
