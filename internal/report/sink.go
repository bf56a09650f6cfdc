package report

import (
	"fmt"
	"sync"
)

// Sink displays chart series. Headless runs substitute NopSink or
// CaptureSink for the terminal renderer.
type Sink interface {
	RenderBars(BarSeries) error
	RenderTimeline(TimelineSeries) error
}

// NopSink discards every series.
type NopSink struct{}

// RenderBars does nothing.
func (NopSink) RenderBars(BarSeries) error { return nil }

// RenderTimeline does nothing.
func (NopSink) RenderTimeline(TimelineSeries) error { return nil }

// CaptureSink keeps the series it receives.
type CaptureSink struct {
	mu        sync.Mutex
	Bars      []BarSeries
	Timelines []TimelineSeries
}

// RenderBars stores s.
func (c *CaptureSink) RenderBars(s BarSeries) error {
	if s.Len() == 0 {
		return fmt.Errorf("bar chart %q: %w", s.Title, errEmptySeries)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Bars = append(c.Bars, s)
	return nil
}

// RenderTimeline stores s.
func (c *CaptureSink) RenderTimeline(s TimelineSeries) error {
	if s.Len() == 0 {
		return fmt.Errorf("timeline %q: %w", s.Label, errEmptySeries)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Timelines = append(c.Timelines, s)
	return nil
}
