package report

import (
	"encoding/json"
	"io"
	"sort"
	"strings"

	"profstat/internal/profile"
)

// Chrome trace event phases.
//
// https://docs.google.com/document/d/1CvAClvFfyA5R-PhYUmn5OOQtYMH4h6I0nSsKchNAySU
const (
	CompleteEvent = "X"
	BeginEvent    = "B"
)

// ChromeEvent is an entry of the trace-viewer format. Timestamps are the log
// clock values, which the profiler records in microseconds.
type ChromeEvent struct {
	Name            string `json:"name"`
	Category        string `json:"cat"`
	EventType       string `json:"ph"`
	TimestampMicros int64  `json:"ts"`
	DurationMicros  int64  `json:"dur,omitempty"`
	ProcessID       int    `json:"pid"`
	ThreadID        int    `json:"tid"`
}

type chromeTrace struct {
	TraceEvents     []ChromeEvent `json:"traceEvents"`
	DisplayTimeUnit string        `json:"displayTimeUnit"`
}

// ChromeEvents converts prof into trace events ordered by start time. Every
// interval becomes a complete event; dangling begins become unterminated
// begin events. The category is the part of the label before sep.
func ChromeEvents(prof *profile.Profile, sep string) []ChromeEvent {
	if prof == nil {
		return nil
	}
	events := make([]ChromeEvent, 0, prof.Intervals()+len(prof.Dangling))
	for label, ivs := range prof.Labels {
		cat := category(label, sep)
		for _, iv := range ivs {
			events = append(events, ChromeEvent{
				Name:            label,
				Category:        cat,
				EventType:       CompleteEvent,
				TimestampMicros: iv.Start,
				DurationMicros:  iv.Duration(),
				ProcessID:       1,
				ThreadID:        1,
			})
		}
	}
	for _, d := range prof.Dangling {
		name := d.Label
		if name == "" {
			name = "unmapped"
		}
		events = append(events, ChromeEvent{
			Name:            name,
			Category:        category(name, sep),
			EventType:       BeginEvent,
			TimestampMicros: d.Start,
			ProcessID:       1,
			ThreadID:        1,
		})
	}
	// longer spans first so nesting renders parents above children
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.TimestampMicros != b.TimestampMicros {
			return a.TimestampMicros < b.TimestampMicros
		}
		if a.DurationMicros != b.DurationMicros {
			return a.DurationMicros > b.DurationMicros
		}
		return a.Name < b.Name
	})
	return events
}

// WriteChromeTrace writes prof in the Chrome trace-viewer JSON format.
func WriteChromeTrace(w io.Writer, prof *profile.Profile, sep string) error {
	payload := chromeTrace{
		TraceEvents:     ChromeEvents(prof, sep),
		DisplayTimeUnit: "ms",
	}
	if payload.TraceEvents == nil {
		payload.TraceEvents = []ChromeEvent{}
	}
	enc := json.NewEncoder(w)
	return enc.Encode(payload)
}

func category(label, sep string) string {
	if sep != "" {
		if i := strings.Index(label, sep); i > 0 {
			return label[:i]
		}
	}
	return "profile"
}
