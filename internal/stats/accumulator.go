package stats

import "math"

// Accumulator keeps running statistics over durations without storing them
// (Welford). Two accumulators built over disjoint data can be merged.
type Accumulator struct {
	count int
	mean  float64
	m2    float64
	min   int64
	max   int64
	total int64
}

// Add records one duration.
func (a *Accumulator) Add(d int64) {
	if a.count == 0 {
		a.min, a.max = d, d
	} else {
		a.min = min(a.min, d)
		a.max = max(a.max, d)
	}
	a.count++
	a.total = addTotal(a.total, d)
	delta := float64(d) - a.mean
	a.mean += delta / float64(a.count)
	a.m2 += delta * (float64(d) - a.mean)
}

// Merge folds other into a.
func (a *Accumulator) Merge(other Accumulator) {
	if other.count == 0 {
		return
	}
	if a.count == 0 {
		*a = other
		return
	}
	n := float64(a.count + other.count)
	delta := other.mean - a.mean
	a.m2 += other.m2 + delta*delta*float64(a.count)*float64(other.count)/n
	a.mean += delta * float64(other.count) / n
	a.count += other.count
	a.total = addTotal(a.total, other.total)
	a.min = min(a.min, other.min)
	a.max = max(a.max, other.max)
}

// Count returns the number of recorded durations.
func (a *Accumulator) Count() int {
	return a.count
}

// Stats returns the accumulated statistics for label.
func (a *Accumulator) Stats(label string) LabelStats {
	if a.count == 0 {
		return LabelStats{Label: label}
	}
	return LabelStats{
		Label: label,
		Count: a.count,
		Min:   a.min,
		Max:   a.max,
		Total: a.total,
		Mean:  clamp(a.mean, float64(a.min), float64(a.max)),
		Std:   math.Sqrt(math.Max(a.m2, 0) / float64(a.count)),
	}
}

// FromStats rebuilds an accumulator from finished statistics.
func FromStats(st LabelStats) Accumulator {
	return Accumulator{
		count: st.Count,
		mean:  st.Mean,
		m2:    st.Std * st.Std * float64(st.Count),
		min:   st.Min,
		max:   st.Max,
		total: st.Total,
	}
}

// Combine merges several tables into one, label by label.
func Combine(tables ...Table) Table {
	accs := make(map[string]*Accumulator)
	for _, t := range tables {
		for label, st := range t {
			acc, ok := accs[label]
			if !ok {
				acc = &Accumulator{}
				accs[label] = acc
			}
			acc.Merge(FromStats(st))
		}
	}
	out := make(Table, len(accs))
	for label, acc := range accs {
		out[label] = acc.Stats(label)
	}
	return out
}
