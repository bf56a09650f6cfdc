package record

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

const (
	// Quote encloses fields that contain the separator.
	Quote = '\\'
	// Separator splits the fields of a row.
	Separator = ','

	fieldsPerRow  = 3
	maxLineLength = 1 << 20
)

// Reader decodes records from a log one row at a time. It never rewinds and
// holds only the current line in memory.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	return &Reader{sc: sc}
}

// Next returns the next record. It returns io.EOF once the input is
// exhausted; blank lines are skipped.
func (r *Reader) Next() (Record, error) {
	for r.sc.Scan() {
		r.line++
		text := strings.TrimSuffix(r.sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields, err := SplitRow(text)
		if err != nil {
			return Record{}, rowError(r.line, err.Error())
		}
		return Decode(fields, r.line)
	}
	if err := r.sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return Record{}, &FormatError{
				Line:   r.line + 1,
				Field:  -1,
				Reason: fmt.Sprintf("row longer than %d bytes", maxLineLength),
				Err:    err,
			}
		}
		return Record{}, fmt.Errorf("line %d: read failed: %w", r.line+1, err)
	}
	return Record{}, io.EOF
}

// Line returns the number of the last line read.
func (r *Reader) Line() int {
	return r.line
}

// SplitRow splits one row into fields honouring the backslash quote.
// Inside a quoted field a doubled backslash stands for a literal one.
func SplitRow(s string) ([]string, error) {
	fields := make([]string, 0, fieldsPerRow)
	i := 0
	for {
		var field string
		if i < len(s) && s[i] == Quote {
			var b strings.Builder
			i++
			closed := false
			for i < len(s) {
				c := s[i]
				if c == Quote {
					if i+1 < len(s) && s[i+1] == Quote {
						b.WriteByte(Quote)
						i += 2
						continue
					}
					i++
					closed = true
					break
				}
				b.WriteByte(c)
				i++
			}
			if !closed {
				return nil, fmt.Errorf("unterminated quoted field %d", len(fields)+1)
			}
			if i < len(s) && s[i] != Separator {
				return nil, fmt.Errorf("unexpected %q after quoted field %d", s[i], len(fields)+1)
			}
			field = b.String()
		} else {
			j := strings.IndexByte(s[i:], Separator)
			if j < 0 {
				field = s[i:]
				i = len(s)
			} else {
				field = s[i : i+j]
				i += j
			}
		}
		fields = append(fields, field)
		if i >= len(s) {
			return fields, nil
		}
		// s[i] is the separator
		i++
		if i == len(s) {
			return append(fields, ""), nil
		}
	}
}

// Decode turns the fields of one row into a Record.
func Decode(fields []string, line int) (Record, error) {
	if len(fields) != fieldsPerRow {
		return Record{}, rowError(line, fmt.Sprintf("expected %d fields, got %d", fieldsPerRow, len(fields)))
	}
	kind, err := parseInt(fields[0])
	if err != nil {
		return Record{}, fieldError(line, 0, "record kind is not an integer", err)
	}
	if kind < 0 || kind > int64(KindMapping) {
		return Record{}, fieldError(line, 0, fmt.Sprintf("unknown record kind %d", kind), nil)
	}
	id, err := parseInt(fields[1])
	if err != nil {
		return Record{}, fieldError(line, 1, "id is not an integer", err)
	}

	rec := Record{Kind: Kind(kind), ID: id, Line: line}
	switch rec.Kind {
	case KindBegin, KindEnd:
		delta, err := parseInt(fields[2])
		if err != nil {
			return Record{}, fieldError(line, 2, "delta time is not an integer", err)
		}
		// the clock only moves forward
		if _, err := safecast.Conv[uint64](delta); err != nil {
			return Record{}, fieldError(line, 2, fmt.Sprintf("negative delta time %d", delta), err)
		}
		rec.Delta = delta
	case KindMapping:
		rec.Label = fields[2]
	}
	return rec, nil
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

// Encode renders rec as a log row, quoting the label when needed.
func Encode(rec Record) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(int(rec.Kind)))
	b.WriteByte(Separator)
	b.WriteString(strconv.FormatInt(rec.ID, 10))
	b.WriteByte(Separator)
	if rec.Kind == KindMapping {
		b.WriteString(quoteField(rec.Label))
	} else {
		b.WriteString(strconv.FormatInt(rec.Delta, 10))
	}
	return b.String()
}

func quoteField(s string) string {
	if !strings.ContainsAny(s, ",\\") {
		return s
	}
	return string(Quote) + strings.ReplaceAll(s, `\`, `\\`) + string(Quote)
}
