package profile

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvedLabel is matched by *UnresolvedLabelError.
	ErrUnresolvedLabel = errors.New("unresolved label")
	// ErrUnmatchedEnd is matched by *UnmatchedEndError.
	ErrUnmatchedEnd = errors.New("unmatched end")
	// ErrEmptyDataset is matched by *EmptyDatasetError.
	ErrEmptyDataset = errors.New("empty dataset")
)

// UnresolvedLabelError reports an end record whose id was never mapped to a label.
type UnresolvedLabelError struct {
	Line int
	ID   int64
}

func (e *UnresolvedLabelError) Error() string {
	return fmt.Sprintf("line %d: end record references id %d with no label mapping", e.Line, e.ID)
}

func (e *UnresolvedLabelError) Is(target error) bool { return target == ErrUnresolvedLabel }

// UnmatchedEndError reports an end record with no open begin for its id.
type UnmatchedEndError struct {
	Line  int
	ID    int64
	Label string
}

func (e *UnmatchedEndError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("line %d: end record for id %d has no matching begin", e.Line, e.ID)
	}
	return fmt.Sprintf("line %d: end record for id %d (%s) has no matching begin", e.Line, e.ID, e.Label)
}

func (e *UnmatchedEndError) Is(target error) bool { return target == ErrUnmatchedEnd }

// EmptyDatasetError reports a request over data that holds no intervals.
// Label is empty when the whole dataset is empty.
type EmptyDatasetError struct {
	Label string
}

func (e *EmptyDatasetError) Error() string {
	if e.Label == "" {
		return "no intervals recorded"
	}
	return fmt.Sprintf("no intervals recorded for label %q", e.Label)
}

func (e *EmptyDatasetError) Is(target error) bool { return target == ErrEmptyDataset }
