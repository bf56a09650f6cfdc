package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	defaultChartWidth = 60
	minChartWidth     = 10
	maxLabelWidth     = 40
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// TerminalOptions tunes TerminalSink.
type TerminalOptions struct {
	Width int  // width of the plotting area in cells
	Color bool // style bars with ANSI colors
}

// TerminalSink draws charts as text: horizontal bars with ± whiskers and a
// sparkline timeline.
type TerminalSink struct {
	w       io.Writer
	width   int
	printer *message.Printer

	title   lipgloss.Style
	bar     lipgloss.Style
	whisker lipgloss.Style
	axis    lipgloss.Style
	color   bool
}

// NewTerminalSink creates a sink drawing into w.
func NewTerminalSink(w io.Writer, opts TerminalOptions) *TerminalSink {
	width := opts.Width
	if width <= 0 {
		width = defaultChartWidth
	}
	width = max(width, minChartWidth)

	r := lipgloss.NewRenderer(w)
	return &TerminalSink{
		w:       w,
		width:   width,
		printer: newPrinter(language.Und),
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		bar:     r.NewStyle().Foreground(lipgloss.Color("6")),
		whisker: r.NewStyle().Foreground(lipgloss.Color("8")),
		axis:    r.NewStyle().Faint(true),
		color:   opts.Color,
	}
}

func (t *TerminalSink) render(style lipgloss.Style, s string) string {
	if !t.color || s == "" {
		return s
	}
	return style.Render(s)
}

// RenderBars draws one bar per label; the solid part is the mean and the
// whisker spans one standard deviation on either side.
func (t *TerminalSink) RenderBars(s BarSeries) error {
	if s.Len() == 0 {
		return fmt.Errorf("bar chart %q: %w", s.Title, errEmptySeries)
	}

	extent := 0.0
	labelWidth := 0
	for i := range s.Labels {
		extent = math.Max(extent, s.Means[i]+s.Stds[i])
		labelWidth = max(labelWidth, runewidth.StringWidth(s.Labels[i]))
	}
	labelWidth = min(labelWidth, maxLabelWidth)
	scale := 0.0
	if extent > 0 {
		scale = float64(t.width) / extent
	}

	var b strings.Builder
	if s.Title != "" {
		b.WriteString(t.render(t.title, s.Title))
		b.WriteString("\n")
	}
	for i, label := range s.Labels {
		lo := cells(s.Means[i]-s.Stds[i], scale)
		mid := cells(s.Means[i], scale)
		hi := cells(s.Means[i]+s.Stds[i], scale)

		name := runewidth.FillRight(runewidth.Truncate(label, labelWidth, "…"), labelWidth)
		solid := strings.Repeat("█", lo)
		left := strings.Repeat("▒", mid-lo)
		right := ""
		if hi > mid {
			right = strings.Repeat("─", hi-mid-1) + "┤"
		}
		pad := strings.Repeat(" ", max(0, t.width-hi))

		fmt.Fprintf(&b, "%s │%s%s%s%s %s ± %s\n",
			name,
			t.render(t.bar, solid),
			t.render(t.whisker, left),
			t.render(t.whisker, right),
			pad,
			formatFloat(t.printer, s.Means[i]),
			formatFloat(t.printer, s.Stds[i]),
		)
	}
	axis := strings.Repeat(" ", labelWidth) + " └" + strings.Repeat("─", t.width)
	b.WriteString(t.render(t.axis, axis))
	b.WriteString("\n")
	xlabel := s.XLabel
	if xlabel == "" {
		xlabel = ExecutionTimeAxis
	}
	fmt.Fprintf(&b, "%s  0%s%s\n", strings.Repeat(" ", labelWidth),
		padLeft(xlabel+" ", t.width/2),
		padLeft(formatFloat(t.printer, extent), t.width-t.width/2-1))

	_, err := io.WriteString(t.w, b.String())
	return err
}

// RenderTimeline draws the durations of one label in occurrence order as
// wrapped sparkline rows prefixed with the index of their first point.
func (t *TerminalSink) RenderTimeline(s TimelineSeries) error {
	if s.Len() == 0 {
		return fmt.Errorf("timeline %q: %w", s.Label, errEmptySeries)
	}

	lo, hi := s.Durations[0], s.Durations[0]
	for _, d := range s.Durations {
		lo = min(lo, d)
		hi = max(hi, d)
	}

	var b strings.Builder
	b.WriteString(t.render(t.title, s.Label))
	fmt.Fprintf(&b, "  (%s points, min %s, max %s)\n",
		t.printer.Sprintf("%d", len(s.Durations)),
		formatInt(t.printer, lo),
		formatInt(t.printer, hi))

	indexWidth := len(fmt.Sprint(len(s.Durations) - 1))
	for start := 0; start < len(s.Durations); start += t.width {
		end := min(start+t.width, len(s.Durations))
		row := make([]rune, 0, end-start)
		for _, d := range s.Durations[start:end] {
			row = append(row, sparkLevel(d, lo, hi))
		}
		fmt.Fprintf(&b, "%*d │%s\n", indexWidth, start, t.render(t.bar, string(row)))
	}

	_, err := io.WriteString(t.w, b.String())
	return err
}

func cells(v, scale float64) int {
	if v <= 0 || scale <= 0 {
		return 0
	}
	return int(math.Round(v * scale))
}

func sparkLevel(v, lo, hi int64) rune {
	if hi == lo {
		return sparkLevels[len(sparkLevels)/2]
	}
	idx := int(math.Round(float64(v-lo) / float64(hi-lo) * float64(len(sparkLevels)-1)))
	return sparkLevels[idx]
}
