// Package record decodes the rows of a profiling log.
//
// A log is a flat sequence of comma separated rows. The first field selects
// the record kind:
//
//	0,<id>,<delta>   begin of interval <id>, <delta> time units after the previous mark
//	1,<id>,<delta>   end of interval <id>
//	2,<id>,<label>   label <label> for id <id>
//
// Fields may be quoted with a backslash, e.g. 2,7,\render,pass\.
package record

import "strconv"

// Kind identifies the type of a log row.
type Kind uint8

const (
	// KindBegin opens an interval.
	KindBegin Kind = iota
	// KindEnd closes an interval.
	KindEnd
	// KindMapping binds an id to a label.
	KindMapping
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindMapping:
		return "mapping"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k <= KindMapping
}

// Record is one decoded log row. Kind decides which of the other fields
// carry data: Delta for begin/end rows, Label for mapping rows.
type Record struct {
	Kind  Kind
	ID    int64
	Delta int64  // begin/end only
	Label string // mapping only
	Line  int    // 1-based line in the source
}

// HasDelta reports whether the record advances the clock.
func (r Record) HasDelta() bool {
	return r.Kind == KindBegin || r.Kind == KindEnd
}

// Begin returns a begin record.
func Begin(id, delta int64) Record {
	return Record{Kind: KindBegin, ID: id, Delta: delta}
}

// End returns an end record.
func End(id, delta int64) Record {
	return Record{Kind: KindEnd, ID: id, Delta: delta}
}

// Mapping returns a label mapping record.
func Mapping(id int64, label string) Record {
	return Record{Kind: KindMapping, ID: id, Label: label}
}
