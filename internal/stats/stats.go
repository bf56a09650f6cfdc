// Package stats reduces reconstructed intervals into per-label timing
// statistics.
package stats

import (
	"math"
	"sort"
	"strings"

	"profstat/internal/profile"
)

// LabelStats describes the durations recorded for one label. Std is the
// population standard deviation.
type LabelStats struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Min   int64   `json:"min"`
	Max   int64   `json:"max"`
	Total int64   `json:"total"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
}

// Table maps labels to their statistics.
type Table map[string]LabelStats

// Compute builds the statistics of one label.
func Compute(label string, ivs []profile.Interval) (LabelStats, error) {
	if len(ivs) == 0 {
		return LabelStats{}, &profile.EmptyDatasetError{Label: label}
	}

	st := LabelStats{
		Label: label,
		Count: len(ivs),
		Min:   ivs[0].Duration(),
		Max:   ivs[0].Duration(),
	}
	var sum float64
	for _, iv := range ivs {
		d := iv.Duration()
		st.Total = addTotal(st.Total, d)
		sum += float64(d)
		st.Min = min(st.Min, d)
		st.Max = max(st.Max, d)
	}
	n := float64(st.Count)
	st.Mean = clamp(sum/n, float64(st.Min), float64(st.Max))

	var sq float64
	for _, iv := range ivs {
		dev := float64(iv.Duration()) - st.Mean
		sq += dev * dev
	}
	st.Std = math.Sqrt(sq / n)
	return st, nil
}

// Aggregate computes one LabelStats per label. It performs no sorting or
// filtering.
func Aggregate(labels map[string][]profile.Interval) (Table, error) {
	if len(labels) == 0 {
		return nil, &profile.EmptyDatasetError{}
	}
	out := make(Table, len(labels))
	for label, ivs := range labels {
		st, err := Compute(label, ivs)
		if err != nil {
			return nil, err
		}
		out[label] = st
	}
	return out, nil
}

// Labels returns the labels in lexicographic order.
func (t Table) Labels() []string {
	labels := make([]string, 0, len(t))
	for label := range t {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Sorted returns the statistics ordered by label.
func (t Table) Sorted() []LabelStats {
	out := make([]LabelStats, 0, len(t))
	for _, label := range t.Labels() {
		out = append(out, t[label])
	}
	return out
}

// ByMean returns the statistics ordered by ascending mean; equal means keep
// label order.
func (t Table) ByMean() []LabelStats {
	out := t.Sorted()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Mean < out[j].Mean })
	return out
}

// Predicate selects labels.
type Predicate func(label string) bool

// Filter returns the subset of t accepted by keep.
func (t Table) Filter(keep Predicate) Table {
	out := make(Table, len(t))
	for label, st := range t {
		if keep == nil || keep(label) {
			out[label] = st
		}
	}
	return out
}

// DefaultSeparator marks module-qualified labels such as "render.importer".
const DefaultSeparator = "."

// ModuleFilter keeps labels that contain sep, dropping top-level and
// aggregate pseudo-labels.
func ModuleFilter(sep string) Predicate {
	if sep == "" {
		sep = DefaultSeparator
	}
	return func(label string) bool {
		return strings.Contains(label, sep)
	}
}

// addTotal adds a non-negative duration to a running total, saturating at
// math.MaxInt64.
func addTotal(total, d int64) int64 {
	if d > math.MaxInt64-total {
		return math.MaxInt64
	}
	return total + d
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
