package sink

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Geun-Oh/uxlog/internal/filter"
	"github.com/Geun-Oh/uxlog/internal/monitor"
)

// color ANSI escape codes.
const (
	colorReset  = "\033[0m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

const (
	funnelBarWidth = 24
	topClicks      = 5
)

// TerminalSink writes reports as text with optional ANSI color.
type TerminalSink struct {
	w     io.Writer
	color bool
}

// NewTerminalSink creates a sink that writes to the given writer.
// If color is true, headings and warnings are colored.
func NewTerminalSink(w io.Writer, color bool) *TerminalSink {
	if w == nil {
		w = os.Stdout
	}
	return &TerminalSink{w: w, color: color}
}

// Write renders the report.
func (s *TerminalSink) Write(r *monitor.Report) error {
	var b strings.Builder

	title := "── uxlog report ──"
	if r.Source != "" {
		title = fmt.Sprintf("── uxlog report: %s ──", r.Source)
	}
	b.WriteString(s.paint(colorBold+colorCyan, title) + "\n")
	fmt.Fprintf(&b, "  Rows:     %d\n", r.Rows)
	fmt.Fprintf(&b, "  Sessions: %d (%s)\n\n", r.Overall.TotalSessions, devices(r.Overall.Devices))

	for _, m := range r.Missions {
		s.writeMission(&b, m)
		b.WriteString("\n")
	}

	b.WriteString(s.paint(colorBold, "── Funnel ──") + "\n")
	for _, st := range r.Overall.Funnel {
		fmt.Fprintf(&b, "  %-24s %5d %7s  %s\n",
			st.Name, st.Value, Percent(st.Percent), s.paint(colorCyan, Bar(st.Percent, funnelBarWidth)))
	}

	if w := monitor.FormatWarnings(r.Warnings); w != "" {
		b.WriteString("\n" + s.paint(colorYellow, w) + "\n")
	}

	_, err := io.WriteString(s.w, b.String())
	return err
}

func (s *TerminalSink) writeMission(b *strings.Builder, m monitor.MissionStats) {
	d := m.Descriptor()
	fmt.Fprintf(b, "%s %s\n", s.paint(colorBold, "["+d.Name+"]"), s.paint(colorGray, d.ID+" ("+m.Shape().String()+")"))

	switch st := m.(type) {
	case *monitor.SimpleStats:
		fmt.Fprintf(b, "  sessions %d  participation %s  devices %s\n",
			st.SessionCount, Percent(st.ParticipationRate), devices(st.Devices))
		writeStage(b, "", st.Stage)
		if st.FirstTrySuccessRate != nil {
			fmt.Fprintf(b, "  first-try %s (%d users)\n", Percent(*st.FirstTrySuccessRate), st.FirstTryUsers)
		}
	case *monitor.TwoStageStats:
		fmt.Fprintf(b, "  sessions %d  participation %s  devices %s\n",
			st.SessionCount, Percent(st.ParticipationRate), devices(st.Devices))
		writeStage(b, "basic      ", st.Basic)
		writeStage(b, "additional ", st.Additional)
		fmt.Fprintf(b, "  additional participation %s of basic completers\n", Percent(st.AdditionalParticipationRate))
	case *monitor.ABStats:
		writeStage(b, "A ", st.A)
		writeStage(b, "B ", st.B)
		fmt.Fprintf(b, "  pooled time avg %s  min %s  max %s (n=%d)\n",
			Seconds(st.Times.Avg), Seconds(st.Times.Min), Seconds(st.Times.Max), st.Times.Count())
	}

	if clicks := m.Clicks().Sorted(); len(clicks) > 0 {
		if len(clicks) > topClicks {
			clicks = clicks[:topClicks]
		}
		parts := make([]string, len(clicks))
		for i, c := range clicks {
			parts[i] = fmt.Sprintf("%s ×%d", c.Target, c.Count)
		}
		fmt.Fprintf(b, "  clicks %s\n", strings.Join(parts, ", "))
	}
}

func writeStage(b *strings.Builder, label string, st monitor.StageStats) {
	fmt.Fprintf(b, "  %sstarted %d  completed %d  completion %s\n",
		label, st.Started, st.Completed, Percent(st.CompletionRate))
	fmt.Fprintf(b, "  %stime avg %s  min %s  max %s (n=%d)  observed avg %s\n",
		label, Seconds(st.Times.Avg), Seconds(st.Times.Min), Seconds(st.Times.Max),
		st.Times.Count(), Seconds(st.Observed.Avg))
}

func devices(d filter.DeviceSplit) string {
	return fmt.Sprintf("desktop %d / mobile %d / unknown %d", d.Desktop, d.Mobile, d.Unknown)
}

func (s *TerminalSink) paint(color, text string) string {
	if !s.color {
		return text
	}
	return color + text + colorReset
}

// Flush is a no-op for terminal output.
func (s *TerminalSink) Flush() error { return nil }

// Close is a no-op for terminal output.
func (s *TerminalSink) Close() error { return nil }

// Name returns the sink identifier.
func (s *TerminalSink) Name() string { return "terminal" }
