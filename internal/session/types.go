package session

import "time"

// Stage describes one step of a session.
type Stage string

const (
	// StageParse is the parsing stage.
	StageParse Stage = "parse"
	// StageAggregate is the aggregation stage.
	StageAggregate Stage = "aggregate"
)

// Status describes the state of a session.
type Status string

const (
	// StatusQueued indicates the session is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the session is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the session is done.
	StatusDone Status = "done"
	// StatusError indicates the session failed.
	StatusError Status = "error"
)

// Event reports progress of one session. Records is set once parsing has
// finished, Labels once aggregation has.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
	Records int
	Labels  int
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

// OnEvent sends evt to the channel.
func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

type nopSink struct{}

func (nopSink) OnEvent(Event) {}
