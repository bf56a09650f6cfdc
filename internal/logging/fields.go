package logging

import (
	"log/slog"
	"time"
)

// Common field names for consistent logging.
const (
	FieldPath      = "path"
	FieldLine      = "line"
	FieldID        = "id"
	FieldLabel     = "label"
	FieldRecords   = "records"
	FieldLabels    = "labels"
	FieldIntervals = "intervals"
	FieldStage     = "stage"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
)

// Path returns a slog attribute for a file path.
func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

// Line returns a slog attribute for a log line number.
func Line(line int) slog.Attr {
	return slog.Int(FieldLine, line)
}

// ID returns a slog attribute for an interval id.
func ID(id int64) slog.Attr {
	return slog.Int64(FieldID, id)
}

// Label returns a slog attribute for a label.
func Label(label string) slog.Attr {
	return slog.String(FieldLabel, label)
}

// Records returns a slog attribute for a record count.
func Records(n int) slog.Attr {
	return slog.Int(FieldRecords, n)
}

// Labels returns a slog attribute for a label count.
func Labels(n int) slog.Attr {
	return slog.Int(FieldLabels, n)
}

// Intervals returns a slog attribute for an interval count.
func Intervals(n int) slog.Attr {
	return slog.Int(FieldIntervals, n)
}

// Stage returns a slog attribute for a pipeline stage.
func Stage(name string) slog.Attr {
	return slog.String(FieldStage, name)
}

// Duration returns a slog attribute for a duration in milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(FieldDuration, float64(d)/float64(time.Millisecond))
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}
