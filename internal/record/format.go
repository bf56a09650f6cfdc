package record

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Format represents the output format for decoded records.
type Format uint8

const (
	FormatText   Format = iota // human-readable text
	FormatNDJSON               // newline-delimited JSON
	FormatRows                 // the log dialect itself
)

// ParseFormat converts a string to Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	case "rows", "csv":
		return FormatRows, nil
	default:
		return FormatText, fmt.Errorf("invalid dump format: %q (expected: text|ndjson|rows)", s)
	}
}

// Event is a record stamped with the clock value it was applied at.
// Mapping records carry the clock unchanged.
type Event struct {
	Seq  uint64
	Time int64
	Record
}

// FormatEvent formats an event according to the specified format.
func FormatEvent(ev Event, format Format) []byte {
	switch format {
	case FormatNDJSON:
		return formatNDJSON(ev)
	case FormatRows:
		return []byte(Encode(ev.Record) + "\n")
	default:
		return formatText(ev)
	}
}

func formatNDJSON(ev Event) []byte {
	type jsonEvent struct {
		Seq   uint64 `json:"seq"`
		Line  int    `json:"line"`
		Kind  string `json:"kind"`
		ID    int64  `json:"id"`
		Time  int64  `json:"time"`
		Delta *int64 `json:"delta,omitempty"`
		Label string `json:"label,omitempty"`
	}

	j := jsonEvent{
		Seq:   ev.Seq,
		Line:  ev.Line,
		Kind:  ev.Kind.String(),
		ID:    ev.ID,
		Time:  ev.Time,
		Label: ev.Label,
	}
	if ev.HasDelta() {
		delta := ev.Delta
		j.Delta = &delta
	}

	data, _ := json.Marshal(j)
	data = append(data, '\n')
	return data
}

// formatText renders: [time] →/←/= id name
func formatText(ev Event) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%12d] ", ev.Time)

	switch ev.Kind {
	case KindBegin:
		sb.WriteString("\u2192 ") // →
	case KindEnd:
		sb.WriteString("\u2190 ") // ←
	case KindMapping:
		sb.WriteString("= ")
	}

	fmt.Fprintf(&sb, "#%d", ev.ID)
	if ev.Kind == KindMapping {
		sb.WriteString(" ")
		sb.WriteString(ev.Label)
	} else {
		fmt.Fprintf(&sb, " (+%d)", ev.Delta)
	}
	sb.WriteString("\n")
	return []byte(sb.String())
}
