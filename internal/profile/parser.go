package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"profstat/internal/logging"
	"profstat/internal/record"
)

// ctxCheckInterval is how many records are parsed between context checks.
const ctxCheckInterval = 4096

var errFinished = errors.New("parser already finished")

type openInterval struct {
	start int64
	line  int
}

// Parser turns a record stream into intervals. It is not safe for
// concurrent use; create one per log.
type Parser struct {
	clock   int64
	open    map[int64]openInterval
	symbols map[int64]string
	out     *Profile
}

// NewParser returns a Parser with an empty clock and empty tables.
func NewParser() *Parser {
	return &Parser{
		open:    make(map[int64]openInterval),
		symbols: make(map[int64]string),
		out:     &Profile{Labels: make(map[string][]Interval)},
	}
}

// Clock returns the current clock value.
func (p *Parser) Clock() int64 {
	return p.clock
}

// Feed applies one record. The returned errors are fatal for the log:
// *record.FormatError, *UnresolvedLabelError or *UnmatchedEndError.
func (p *Parser) Feed(rec record.Record) error {
	if p.out == nil {
		return errFinished
	}
	if rec.HasDelta() {
		if rec.Delta < 0 {
			return &record.FormatError{Line: rec.Line, Field: 2, Reason: fmt.Sprintf("negative delta time %d", rec.Delta)}
		}
		if rec.Delta > math.MaxInt64-p.clock {
			return &record.FormatError{Line: rec.Line, Field: 2, Reason: fmt.Sprintf("delta time %d overflows the clock", rec.Delta)}
		}
		// the record's own delta is part of its own timestamp
		p.clock += rec.Delta
	}
	p.out.Records++

	switch rec.Kind {
	case record.KindBegin:
		if _, ok := p.open[rec.ID]; ok {
			p.out.Reopened++
		}
		p.open[rec.ID] = openInterval{start: p.clock, line: rec.Line}
	case record.KindEnd:
		begin, ok := p.open[rec.ID]
		if !ok {
			return &UnmatchedEndError{Line: rec.Line, ID: rec.ID, Label: p.symbols[rec.ID]}
		}
		label, ok := p.symbols[rec.ID]
		if !ok {
			return &UnresolvedLabelError{Line: rec.Line, ID: rec.ID}
		}
		delete(p.open, rec.ID)
		p.out.Labels[label] = append(p.out.Labels[label], Interval{Start: begin.start, End: p.clock})
	case record.KindMapping:
		p.symbols[rec.ID] = rec.Label
	default:
		return &record.FormatError{Line: rec.Line, Field: 0, Reason: fmt.Sprintf("unknown record kind %d", rec.Kind)}
	}
	return nil
}

// Finish returns the profile and drops the parser's tables. Begins that are
// still open are reported in Profile.Dangling.
func (p *Parser) Finish() *Profile {
	out := p.out
	if out == nil {
		return nil
	}
	for id, begin := range p.open {
		out.Dangling = append(out.Dangling, Dangling{
			ID:    id,
			Start: begin.start,
			Line:  begin.line,
			Label: p.symbols[id],
		})
	}
	sort.Slice(out.Dangling, func(i, j int) bool { return out.Dangling[i].ID < out.Dangling[j].ID })
	out.Clock = p.clock

	p.open = nil
	p.symbols = nil
	p.out = nil
	return out
}

// Walk parses r in a single forward pass and calls fn, when not nil, with
// every record stamped with the clock value it was applied at. Any error
// aborts the walk; no partial profile is returned.
func Walk(ctx context.Context, r io.Reader, fn func(record.Event) error) (*Profile, error) {
	rd := record.NewReader(r)
	p := NewParser()
	var seq uint64
	for {
		if seq%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := p.Feed(rec); err != nil {
			return nil, err
		}
		seq++
		if fn != nil {
			if err := fn(record.Event{Seq: seq, Time: p.Clock(), Record: rec}); err != nil {
				return nil, err
			}
		}
	}
	prof := p.Finish()

	log := logging.FromContext(ctx)
	log.Debug("profile parsed",
		logging.Records(prof.Records),
		logging.Labels(len(prof.Labels)),
		logging.Intervals(prof.Intervals()),
	)
	for _, d := range prof.Dangling {
		log.Warn("dangling begin", logging.Line(d.Line), logging.ID(d.ID), logging.Label(d.Label))
	}
	return prof, nil
}

// Parse reads a whole log and returns its intervals grouped by label.
func Parse(ctx context.Context, r io.Reader) (*Profile, error) {
	return Walk(ctx, r, nil)
}

// ParseFile opens path and parses it.
func ParseFile(ctx context.Context, path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open profiling log: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			logging.FromContext(ctx).Warn("close failed", logging.Path(path), logging.Error(closeErr))
		}
	}()

	prof, err := Parse(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prof, nil
}
