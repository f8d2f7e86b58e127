package driver

// ProgressStatus is the state of one module in a run.
type ProgressStatus uint8

const (
	ProgressQueued ProgressStatus = iota
	ProgressWorking
	ProgressDone
	ProgressFailed
)

func (s ProgressStatus) String() string {
	switch s {
	case ProgressQueued:
		return "queued"
	case ProgressWorking:
		return "resolving"
	case ProgressDone:
		return "done"
	case ProgressFailed:
		return "failed"
	}
	return "unknown"
}

// ProgressEvent reports a module changing status. Done counts modules that
// reached ProgressDone or ProgressFailed so far.
type ProgressEvent struct {
	Module string
	Status ProgressStatus
	Done   int
	Total  int
}

// ProgressSink receives progress events. OnProgress is called from worker
// goroutines and must be safe for concurrent use.
type ProgressSink interface {
	OnProgress(ProgressEvent)
}

// ChannelSink forwards events to Ch.
type ChannelSink struct {
	Ch chan<- ProgressEvent
}

func (s ChannelSink) OnProgress(ev ProgressEvent) {
	if s.Ch != nil {
		s.Ch <- ev
	}
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(ProgressEvent)

func (f SinkFunc) OnProgress(ev ProgressEvent) { f(ev) }
