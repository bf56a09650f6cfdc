// Package report renders per-label statistics as text, JSON, chart series
// and Chrome trace files.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"profstat/internal/profile"
	"profstat/internal/stats"
)

const (
	meanWidth = 9
	stdWidth  = 7
)

// SummaryOptions tunes WriteSummary.
type SummaryOptions struct {
	// Lang selects digit grouping; English when zero.
	Lang language.Tag
	// Filter restricts the rows; nil keeps every label.
	Filter stats.Predicate
}

// WriteSummary prints one row per label in lexicographic order:
//
//	<label> ø <mean> ± <std> [<min>, <max>] (<count>)
//
// Labels are padded to the widest one. Mean and std use thousands
// separators and no decimals; min and max are printed as plain integers.
func WriteSummary(w io.Writer, t stats.Table, opts SummaryOptions) error {
	if opts.Filter != nil {
		t = t.Filter(opts.Filter)
	}
	if len(t) == 0 {
		return &profile.EmptyDatasetError{}
	}
	p := newPrinter(opts.Lang)

	rows := t.Sorted()
	width := 0
	for _, st := range rows {
		width = max(width, runewidth.StringWidth(st.Label))
	}
	for _, st := range rows {
		if _, err := io.WriteString(w, SummaryLine(p, st, width)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// SummaryLine formats a single summary row with the label padded to width.
func SummaryLine(p *message.Printer, st stats.LabelStats, width int) string {
	if p == nil {
		p = newPrinter(language.Und)
	}
	return fmt.Sprintf("%s ø %s ± %s [%d, %d] (%d)",
		runewidth.FillRight(st.Label, width),
		padLeft(formatFloat(p, st.Mean), meanWidth),
		padRight(formatFloat(p, st.Std), stdWidth),
		st.Min,
		st.Max,
		st.Count,
	)
}

func newPrinter(tag language.Tag) *message.Printer {
	if tag == language.Und {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

func formatFloat(p *message.Printer, v float64) string {
	return p.Sprintf("%.0f", v)
}

func formatInt(p *message.Printer, v int64) string {
	return p.Sprintf("%d", v)
}

func padLeft(s string, width int) string {
	if n := width - runewidth.StringWidth(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}

func padRight(s string, width int) string {
	if n := width - runewidth.StringWidth(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// ParseLanguage resolves a BCP 47 tag for number formatting.
func ParseLanguage(s string) (language.Tag, error) {
	if strings.TrimSpace(s) == "" {
		return language.English, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %s: %w", strconv.Quote(s), err)
	}
	return tag, nil
}
