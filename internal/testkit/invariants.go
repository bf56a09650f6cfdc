// Package testkit holds invariant checks shared by package tests and fuzz
// harnesses.
package testkit

import (
	"fmt"
	"math"

	"profstat/internal/profile"
	"profstat/internal/stats"
)

// CheckProfile verifies the structural invariants of a parsed profile:
// 1) every interval ends at or after its start and within the final clock
// 2) every label has at least one interval
// 3) dangling begins are sorted by id and never start after the final clock
func CheckProfile(prof *profile.Profile) error {
	if prof == nil {
		return fmt.Errorf("nil profile")
	}
	for label, ivs := range prof.Labels {
		if len(ivs) == 0 {
			return fmt.Errorf("label %q has no intervals", label)
		}
		for i, iv := range ivs {
			if iv.End < iv.Start {
				return fmt.Errorf("label %q interval %d runs backwards: [%d, %d]", label, i, iv.Start, iv.End)
			}
			if iv.End > prof.Clock {
				return fmt.Errorf("label %q interval %d ends after the clock: %d > %d", label, i, iv.End, prof.Clock)
			}
		}
	}
	for i, d := range prof.Dangling {
		if d.Start > prof.Clock {
			return fmt.Errorf("dangling begin %d starts after the clock", d.ID)
		}
		if i > 0 && prof.Dangling[i-1].ID >= d.ID {
			return fmt.Errorf("dangling begins not sorted by id at %d", i)
		}
	}
	return nil
}

// CheckStats verifies the invariants of every row in t against the intervals
// it was computed from: count matches, min ≤ mean ≤ max, std ≥ 0 and the
// total is the sum of the durations, saturated at math.MaxInt64.
func CheckStats(t stats.Table, labels map[string][]profile.Interval) error {
	if len(t) != len(labels) {
		return fmt.Errorf("table has %d labels, profile has %d", len(t), len(labels))
	}
	for label, st := range t {
		ivs, ok := labels[label]
		if !ok {
			return fmt.Errorf("label %q not in profile", label)
		}
		if st.Count != len(ivs) {
			return fmt.Errorf("label %q: count %d, want %d", label, st.Count, len(ivs))
		}
		var total int64
		for _, iv := range ivs {
			if d := iv.Duration(); d > math.MaxInt64-total {
				total = math.MaxInt64
			} else {
				total += d
			}
		}
		if st.Total != total {
			return fmt.Errorf("label %q: total %d, want %d", label, st.Total, total)
		}
		if float64(st.Min) > st.Mean || st.Mean > float64(st.Max) {
			return fmt.Errorf("label %q: mean %g outside [%d, %d]", label, st.Mean, st.Min, st.Max)
		}
		if st.Std < 0 || math.IsNaN(st.Std) {
			return fmt.Errorf("label %q: invalid std %g", label, st.Std)
		}
	}
	return nil
}
