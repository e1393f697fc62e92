// Package tui provides an interactive terminal dashboard for mission analytics.
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Geun-Oh/uxlog/internal/buffer"
	"github.com/Geun-Oh/uxlog/internal/monitor"
	"github.com/Geun-Oh/uxlog/internal/sink"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(1).
			PaddingRight(1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#353533"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4444")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#44AAFF"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6600")).
			Bold(true)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

// --- Messages ---

// ReportMsg delivers a freshly published report.
type ReportMsg struct {
	Report *monitor.Report
}

// LoadErrMsg reports a load that produced no report. The previous report stays.
type LoadErrMsg struct {
	Err error
}

// LoadingMsg signals a load has started.
type LoadingMsg struct{}

// TickMsg triggers periodic UI updates.
type TickMsg time.Time

// --- Keys ---

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Pane   key.Binding
	Reload key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Pane, k.Reload, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Pane:   key.NewBinding(key.WithKeys("tab", "f"), key.WithHelp("tab", "funnel/events")),
	Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// pane selects what the lower half of the dashboard shows.
type pane int

const (
	paneFunnel pane = iota
	paneEvents
)

const (
	funnelBarWidth = 20
	topClicks      = 5
)

// --- Model ---

// Model is the bubbletea model for the dashboard.
type Model struct {
	table  table.Model
	help   help.Model
	width  int
	height int
	pane   pane

	report  *monitor.Report
	lastErr error
	loading bool

	// Stats and History may be nil.
	Stats   *monitor.Stats
	History *buffer.History
	Source  string

	reload func()
}

// NewModel creates a dashboard model. reload is called when the user asks for
// a reload and may be nil.
func NewModel(stats *monitor.Stats, history *buffer.History, sourceName string, reload func()) Model {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(6),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4"))
	t.SetStyles(styles)

	return Model{
		table:   t,
		help:    help.New(),
		Stats:   stats,
		History: history,
		Source:  sourceName,
		reload:  reload,
		loading: true,
	}
}

// Init starts the tick timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), tea.WindowSize())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetColumns(columns(msg.Width))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Pane):
			m.pane = (m.pane + 1) % 2
			return m, nil
		case key.Matches(msg, keys.Reload):
			if m.reload != nil {
				m.loading = true
				m.reload()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case ReportMsg:
		if msg.Report == nil {
			return m, nil
		}
		if m.report != nil && msg.Report.Generation != 0 && msg.Report.Generation < m.report.Generation {
			return m, nil
		}
		m.report = msg.Report
		m.lastErr = nil
		m.loading = false
		m.table.SetRows(missionRows(msg.Report))
		return m, nil

	case LoadErrMsg:
		m.lastErr = msg.Err
		m.loading = false
		return m, nil

	case LoadingMsg:
		m.loading = true
		return m, nil

	case TickMsg:
		return m, tickCmd()
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sb strings.Builder
	sb.WriteString(m.titleBar())
	sb.WriteString("\n")

	if m.report == nil {
		msg := "waiting for data..."
		if m.lastErr != nil {
			msg = errorStyle.Render("load failed: " + m.lastErr.Error())
		}
		sb.WriteString("\n " + msg + "\n")
		sb.WriteString("\n" + m.help.View(keys))
		return sb.String()
	}

	sb.WriteString(m.table.View())
	sb.WriteString("\n")

	detail := paneStyle.Render(m.detail())
	var lower string
	if m.pane == paneFunnel {
		lower = paneStyle.Render(m.funnel())
	} else {
		lower = paneStyle.Render(m.events())
	}
	if m.width >= 100 {
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, detail, lower))
	} else {
		sb.WriteString(lipgloss.JoinVertical(lipgloss.Left, detail, lower))
	}
	sb.WriteString("\n")

	sb.WriteString(statusBarStyle.Render(padRight(m.statusLine(), m.width)))
	sb.WriteString("\n")
	sb.WriteString(m.help.View(keys))
	return sb.String()
}

// Report returns the report on display, if any.
func (m Model) Report() *monitor.Report {
	return m.report
}

// --- Helpers ---

func (m Model) titleBar() string {
	title := titleStyle.Render(fmt.Sprintf(" uxlog dashboard · %s ", m.Source))
	status := "● LIVE"
	if m.loading {
		status = "↻ LOADING"
	}
	if m.report != nil {
		status += fmt.Sprintf("  gen %d", m.report.Generation)
	}
	statusText := statusBarStyle.Render(" " + status + " ")
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(statusText)
	if gap < 0 {
		gap = 0
	}
	return title + statusBarStyle.Render(strings.Repeat(" ", gap)) + statusText
}

func (m Model) statusLine() string {
	r := m.report
	parts := []string{
		fmt.Sprintf(" Rows: %d", r.Rows),
		fmt.Sprintf("Sessions: %d", r.Overall.TotalSessions),
	}
	if n := warningCount(r.Warnings); n > 0 {
		parts = append(parts, warnStyle.Render(fmt.Sprintf("Warnings: %d", n)))
	}
	if m.Stats != nil {
		parts = append(parts, fmt.Sprintf("Loads: %d", m.Stats.Loads()))
	}
	if m.History != nil {
		if l, ok := m.History.Last(); ok {
			parts = append(parts, "Last: "+l.Duration.Round(time.Millisecond).String())
		}
	}
	if m.lastErr != nil {
		parts = append(parts, errorStyle.Render("Error: "+m.lastErr.Error()))
	}
	return strings.Join(parts, " │ ")
}

func (m Model) selected() monitor.MissionStats {
	if m.report == nil || len(m.report.Missions) == 0 {
		return nil
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(m.report.Missions) {
		i = 0
	}
	return m.report.Missions[i]
}

func (m Model) detail() string {
	s := m.selected()
	if s == nil {
		return dimStyle.Render("no missions")
	}
	d := s.Descriptor()

	var b strings.Builder
	b.WriteString(headingStyle.Render(d.Name) + " " + dimStyle.Render(d.ID) + "\n")

	switch st := s.(type) {
	case *monitor.SimpleStats:
		fmt.Fprintf(&b, "participation %s\n", sink.Percent(st.ParticipationRate))
		writeStage(&b, "", st.Stage)
		if st.FirstTrySuccessRate != nil {
			fmt.Fprintf(&b, "first try %s of %d\n", sink.Percent(*st.FirstTrySuccessRate), st.FirstTryUsers)
		}
		fmt.Fprintf(&b, "devices D%d M%d ?%d\n", st.Devices.Desktop, st.Devices.Mobile, st.Devices.Unknown)
	case *monitor.TwoStageStats:
		fmt.Fprintf(&b, "participation %s\n", sink.Percent(st.ParticipationRate))
		writeStage(&b, "basic ", st.Basic)
		writeStage(&b, "extra ", st.Additional)
		fmt.Fprintf(&b, "extra participation %s\n", sink.Percent(st.AdditionalParticipationRate))
	case *monitor.ABStats:
		writeStage(&b, "A ", st.A)
		writeStage(&b, "B ", st.B)
		fmt.Fprintf(&b, "pooled avg %s (n=%d)\n", sink.Seconds(st.Times.Avg), st.Times.Count())
	}

	clicks := s.Clicks().Sorted()
	if len(clicks) > topClicks {
		clicks = clicks[:topClicks]
	}
	for _, c := range clicks {
		fmt.Fprintf(&b, "  %-14s %d\n", truncate(c.Target, 14), c.Count)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeStage(b *strings.Builder, label string, st monitor.StageStats) {
	fmt.Fprintf(b, "%s%d → %d (%s)  avg %s  min %s  max %s\n",
		label, st.Started, st.Completed, sink.Percent(st.CompletionRate),
		sink.Seconds(st.Times.Avg), sink.Seconds(st.Times.Min), sink.Seconds(st.Times.Max))
}

func (m Model) funnel() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Funnel") + "\n")
	for _, st := range m.report.Overall.Funnel {
		fmt.Fprintf(&b, "%-20s %s %4d %6s\n",
			truncate(st.Name, 20), barStyle.Render(sink.Bar(st.Percent, funnelBarWidth)),
			st.Value, sink.Percent(st.Percent))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) events() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Events") + "\n")
	for _, k := range m.report.Events {
		label := k.Label
		if label == "" {
			label = k.Name
		}
		fmt.Fprintf(&b, "%-12s %5d\n", truncate(label, 12), k.Count)
	}
	if len(m.report.Dwell) > 0 {
		b.WriteString(headingStyle.Render("Dwell") + "\n")
		for _, d := range m.report.Dwell {
			fmt.Fprintf(&b, "%-16s %4d exits  avg %.0fms\n", truncate(d.Screen, 16), d.Exits, d.AvgMs)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func columns(width int) []table.Column {
	name := width - 58
	if name < 16 {
		name = 16
	}
	return []table.Column{
		{Title: "Mission", Width: name},
		{Title: "Shape", Width: 9},
		{Title: "Sessions", Width: 8},
		{Title: "Started", Width: 7},
		{Title: "Done", Width: 6},
		{Title: "Rate", Width: 7},
		{Title: "Avg", Width: 7},
	}
}

func missionRows(r *monitor.Report) []table.Row {
	rows := make([]table.Row, 0, len(r.Missions))
	for _, s := range r.Missions {
		d := s.Descriptor()
		sessions := "-"
		var (
			st  monitor.StageStats
			avg *float64
		)
		switch v := s.(type) {
		case *monitor.SimpleStats:
			sessions = strconv.Itoa(v.SessionCount)
			st = v.Stage
			avg = v.Stage.Times.Avg
		case *monitor.TwoStageStats:
			sessions = strconv.Itoa(v.SessionCount)
			st = v.Basic
			avg = v.Basic.Times.Avg
		case *monitor.ABStats:
			st = monitor.StageStats{
				Started:   v.A.Started + v.B.Started,
				Completed: v.A.Completed + v.B.Completed,
			}
			if st.Started > 0 {
				st.CompletionRate = float64(st.Completed) / float64(st.Started) * 100
			}
			avg = v.Times.Avg
		}
		rows = append(rows, table.Row{
			d.Name,
			s.Shape().String(),
			sessions,
			strconv.Itoa(st.Started),
			strconv.Itoa(st.Completed),
			sink.Percent(st.CompletionRate),
			sink.Seconds(avg),
		})
	}
	return rows
}

func warningCount(ws []monitor.Warning) int {
	n := 0
	for _, w := range ws {
		n += w.Count
	}
	return n
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 0 || len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-1]) + "…"
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
