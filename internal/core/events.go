package core

import "github.com/lumipallolabs/foldersize/internal/model"

// Generation identifies one StartScan call. Later calls get larger values.
type Generation uint64

// Event is something a scan reports to its consumer. Every event carries the
// generation that produced it; within one generation events arrive in the
// order they were produced and a terminal event is always last.
type Event interface {
	Generation() Generation
	isEvent()
}

// Terminal reports whether e ends its generation
func Terminal(e Event) bool {
	switch e.(type) {
	case CompletedEvent, CancelledEvent, FailedEvent:
		return true
	}
	return false
}

// EntryDiscoveredEvent carries one finished child entry
type EntryDiscoveredEvent struct {
	Gen   Generation
	Entry model.Entry
}

func (e EntryDiscoveredEvent) Generation() Generation { return e.Gen }
func (EntryDiscoveredEvent) isEvent() {}

// ProgressEvent is emitted while a scan runs. Processed and Total count
// immediate children; FilesScanned and BytesFound describe the folder
// currently being aggregated.
type ProgressEvent struct {
	Gen          Generation
	Processed    int
	Total        int
	Current      string
	FilesScanned int64
	BytesFound   int64
}

func (e ProgressEvent) Generation() Generation { return e.Gen }
func (ProgressEvent) isEvent() {}

// PhaseChangedEvent is emitted when a running scan enters a new phase
type PhaseChangedEvent struct {
	Gen   Generation
	Phase ScanPhase
}

func (e PhaseChangedEvent) Generation() Generation { return e.Gen }
func (PhaseChangedEvent) isEvent() {}

// CompletedEvent is emitted when a scan finishes or is served from cache
type CompletedEvent struct {
	Gen       Generation
	Result    model.ScanResult
	FromCache bool
}

func (e CompletedEvent) Generation() Generation { return e.Gen }
func (CompletedEvent) isEvent() {}

// CancelledEvent is emitted when a scan stops on request
type CancelledEvent struct {
	Gen  Generation
	Path string
}

func (e CancelledEvent) Generation() Generation { return e.Gen }
func (CancelledEvent) isEvent() {}

// FailedEvent is emitted when the scanned directory cannot be listed
type FailedEvent struct {
	Gen    Generation
	Path   string
	Reason string
	Err    error
}

func (e FailedEvent) Generation() Generation { return e.Gen }
func (FailedEvent) isEvent() {}
