// Package profile reconstructs begin/end intervals from a profiling log.
//
// A Parser owns the clock, the open-interval table and the symbol table of a
// single log. Records are fed strictly in log order; Finish hands back the
// completed intervals grouped by label together with the begins that were
// never closed.
package profile

import "sort"

// Interval is one execution span on the log clock. End >= Start.
type Interval struct {
	Start int64
	End   int64
}

// Duration returns End - Start.
func (iv Interval) Duration() int64 {
	return iv.End - iv.Start
}

// Dangling is a begin record that was still open when the log ended.
type Dangling struct {
	ID    int64
	Start int64
	Line  int
	Label string // empty when the id was never mapped
}

// Profile is the outcome of parsing one log.
type Profile struct {
	// Labels maps each label to its intervals in the order their end
	// records appeared.
	Labels map[string][]Interval
	// Dangling lists unterminated begins ordered by id. They are not part
	// of Labels.
	Dangling []Dangling
	// Reopened counts begin records that replaced a still-open begin with
	// the same id.
	Reopened int
	// Records is the number of decoded rows.
	Records int
	// Clock is the final clock value.
	Clock int64
}

// SortedLabels returns the labels in lexicographic order.
func (p *Profile) SortedLabels() []string {
	labels := make([]string, 0, len(p.Labels))
	for label := range p.Labels {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Intervals returns the number of completed intervals over all labels.
func (p *Profile) Intervals() int {
	n := 0
	for _, ivs := range p.Labels {
		n += len(ivs)
	}
	return n
}

// Timeline returns the durations of label in occurrence order.
func (p *Profile) Timeline(label string) ([]int64, error) {
	ivs := p.Labels[label]
	if len(ivs) == 0 {
		return nil, &EmptyDatasetError{Label: label}
	}
	out := make([]int64, len(ivs))
	for i, iv := range ivs {
		out[i] = iv.Duration()
	}
	return out, nil
}
