// Package ui renders batch progress in the terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"profstat/internal/session"
)

// stagesPerLog is the number of steps one log goes through: parse, then
// aggregate.
const stagesPerLog = 2

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	workStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	countStyle  = lipgloss.NewStyle().Width(12).Align(lipgloss.Right)
	timeStyle   = lipgloss.NewStyle().Width(10).Align(lipgloss.Right)
)

type batchModel struct {
	title    string
	events   <-chan session.Event
	spinner  spinner.Model
	bar      progress.Model
	logs     []logRow
	byPath   map[string]int
	width    int
	finished bool
}

// logRow is what the view knows about one log so far.
type logRow struct {
	path    string
	stage   session.Stage
	status  session.Status
	records int
	labels  int
	elapsed time.Duration
	err     error
}

type eventMsg session.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model listing every log with its
// current stage, record and label counts and elapsed time. It quits when
// events is closed.
func NewProgressModel(title string, files []string, events <-chan session.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = workStyle

	bar := progress.New(progress.WithSolidFill("6"), progress.WithoutPercentage())
	bar.Width = 60

	logs := make([]logRow, len(files))
	byPath := make(map[string]int, len(files))
	for i, file := range files {
		logs[i] = logRow{path: file, status: session.StatusQueued}
		byPath[file] = i
	}
	return &batchModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		logs:    logs,
		byPath:  byPath,
		width:   80,
	}
}

func (m *batchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *batchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(session.Event(msg)), m.listenForEvent())
	case doneMsg:
		m.finished = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = min(msg.Width-4, 60)
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *batchModel) View() string {
	if len(m.logs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	pathWidth := max(m.width-2-2-10-12-12-10, 16)
	for _, row := range m.logs {
		fmt.Fprintf(&b, "%s %s%s%s%s  %s\n",
			row.mark(m.spinner.View()),
			stageStyle(row).Width(10).Render(row.stageText()),
			countStyle.Render(row.recordsText()),
			countStyle.Render(row.labelsText()),
			timeStyle.Render(row.elapsedText()),
			truncate(row.path, pathWidth))
		if row.err != nil {
			fmt.Fprintf(&b, "    %s\n", failStyle.Render(truncate(row.err.Error(), m.width-4)))
		}
	}

	b.WriteString("\n")
	if m.finished {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *batchModel) header() string {
	finished, failed := m.counts()
	title := m.title
	if !m.finished {
		title = m.spinner.View() + " " + title
	}
	line := headerStyle.Render(title) + dimStyle.Render(fmt.Sprintf("  %d/%d logs", finished, len(m.logs)))
	if failed > 0 {
		line += failStyle.Render(fmt.Sprintf(", %d failed", failed))
	}
	return line
}

func (m *batchModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *batchModel) applyEvent(ev session.Event) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.logs[i]
	row.status = ev.Status
	if ev.Stage != "" {
		row.stage = ev.Stage
	}
	if ev.Records > 0 {
		row.records = ev.Records
	}
	if ev.Labels > 0 {
		row.labels = ev.Labels
	}
	if ev.Elapsed > 0 {
		row.elapsed = ev.Elapsed
	}
	if ev.Err != nil {
		row.err = ev.Err
	}
	return m.bar.SetPercent(m.fraction())
}

// counts returns how many logs have finished and how many of those failed.
func (m *batchModel) counts() (finished, failed int) {
	for _, row := range m.logs {
		switch row.status {
		case session.StatusDone:
			finished++
		case session.StatusError:
			finished++
			failed++
		}
	}
	return finished, failed
}

// fraction is the share of completed stages over the whole batch.
func (m *batchModel) fraction() float64 {
	if len(m.logs) == 0 {
		return 0
	}
	completed := 0
	for _, row := range m.logs {
		completed += row.completedStages()
	}
	return float64(completed) / float64(stagesPerLog*len(m.logs))
}

func (r logRow) completedStages() int {
	switch r.status {
	case session.StatusDone, session.StatusError:
		return stagesPerLog
	case session.StatusWorking:
		if r.stage == session.StageAggregate {
			return 1
		}
	}
	return 0
}

func (r logRow) mark(spin string) string {
	switch r.status {
	case session.StatusDone:
		return okStyle.Render("✓")
	case session.StatusError:
		return failStyle.Render("✗")
	case session.StatusWorking:
		return spin
	default:
		return dimStyle.Render("·")
	}
}

func (r logRow) stageText() string {
	switch r.status {
	case session.StatusDone:
		return "done"
	case session.StatusError:
		return "failed"
	case session.StatusWorking:
		return string(r.stage)
	default:
		return "queued"
	}
}

func stageStyle(r logRow) lipgloss.Style {
	switch r.status {
	case session.StatusDone:
		return okStyle
	case session.StatusError:
		return failStyle
	case session.StatusWorking:
		return workStyle
	default:
		return dimStyle
	}
}

func (r logRow) recordsText() string {
	if r.records == 0 {
		return ""
	}
	return fmt.Sprintf("%d rec", r.records)
}

func (r logRow) labelsText() string {
	if r.labels == 0 {
		return ""
	}
	if r.labels == 1 {
		return "1 label"
	}
	return fmt.Sprintf("%d labels", r.labels)
}

func (r logRow) elapsedText() string {
	if r.elapsed <= 0 {
		return ""
	}
	if r.elapsed < time.Millisecond {
		return r.elapsed.Round(time.Microsecond).String()
	}
	return r.elapsed.Round(100 * time.Microsecond).String()
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
