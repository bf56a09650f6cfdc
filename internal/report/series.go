package report

import (
	"fmt"

	"profstat/internal/profile"
	"profstat/internal/stats"
)

// ExecutionTimeAxis is the value axis title of the bar chart.
const ExecutionTimeAxis = "Execution time"

var errEmptySeries = fmt.Errorf("empty series: %w", profile.ErrEmptyDataset)

// BarSeries feeds a horizontal bar chart with error bars. The slices are
// parallel and ordered by ascending mean.
type BarSeries struct {
	Title  string    `json:"title,omitempty"`
	XLabel string    `json:"x_label"`
	Labels []string  `json:"labels"`
	Means  []float64 `json:"means"`
	Stds   []float64 `json:"stds"`
}

// Len returns the number of bars.
func (s BarSeries) Len() int {
	return len(s.Labels)
}

// NewBarSeries builds the bar chart series of t, one bar per label.
func NewBarSeries(t stats.Table) (BarSeries, error) {
	if len(t) == 0 {
		return BarSeries{}, &profile.EmptyDatasetError{}
	}
	rows := t.ByMean()
	s := BarSeries{
		XLabel: ExecutionTimeAxis,
		Labels: make([]string, len(rows)),
		Means:  make([]float64, len(rows)),
		Stds:   make([]float64, len(rows)),
	}
	for i, st := range rows {
		s.Labels[i] = st.Label
		s.Means[i] = st.Mean
		s.Stds[i] = st.Std
	}
	return s, nil
}

// TimelineSeries is the index-vs-duration line series of one label in
// occurrence order.
type TimelineSeries struct {
	Label     string  `json:"label"`
	Durations []int64 `json:"durations"`
}

// Len returns the number of points.
func (s TimelineSeries) Len() int {
	return len(s.Durations)
}

// NewTimelineSeries extracts the timeline of label from prof.
func NewTimelineSeries(prof *profile.Profile, label string) (TimelineSeries, error) {
	if prof == nil {
		return TimelineSeries{}, &profile.EmptyDatasetError{Label: label}
	}
	durations, err := prof.Timeline(label)
	if err != nil {
		return TimelineSeries{}, err
	}
	return TimelineSeries{Label: label, Durations: durations}, nil
}
