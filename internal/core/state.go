package core

import (
	"fmt"
	"strings"
	"time"
)

// ScanPhase represents the current phase of scanning
type ScanPhase int

const (
	PhaseIdle ScanPhase = iota
	PhaseListing
	PhaseEmittingFiles
	PhaseAggregatingFolders
	PhaseCompleted
	PhaseCancelled
	PhaseFailed
)

// String returns a human-readable phase name
func (p ScanPhase) String() string {
	switch p {
	case PhaseIdle:
		return ""
	case PhaseListing:
		return "Listing"
	case PhaseEmittingFiles:
		return "Sizing files"
	case PhaseAggregatingFolders:
		return "Aggregating folders"
	case PhaseCompleted:
		return "Complete"
	case PhaseCancelled:
		return "Cancelled"
	case PhaseFailed:
		return "Failed"
	default:
		return ""
	}
}

// Running reports whether the phase belongs to an in-flight scan
func (p ScanPhase) Running() bool {
	return p == PhaseListing || p == PhaseEmittingFiles || p == PhaseAggregatingFolders
}

// ScanState is a snapshot of the latest scan
type ScanState struct {
	Generation Generation
	Path       string
	Phase      ScanPhase
	Outcome    ScanPhase // terminal phase of the last finished scan
	FromCache  bool
	StartTime  time.Time
	EndTime    time.Time

	Processed    int
	Total        int
	Current      string
	FilesScanned int64
	BytesFound   int64
	Err          error
}

// IsScanning returns true if a scan is in progress
func (s ScanState) IsScanning() bool {
	return s.Phase.Running()
}

// Elapsed returns time since scan started, or its duration once finished
func (s ScanState) Elapsed() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	if !s.EndTime.IsZero() {
		return s.EndTime.Sub(s.StartTime).Truncate(time.Millisecond)
	}
	return time.Since(s.StartTime).Truncate(time.Second)
}

// Policy decides what StartScan does while another scan is running
type Policy int

const (
	// PolicyCancelPrevious cancels the running scan and starts the new one
	PolicyCancelPrevious Policy = iota
	// PolicyReject refuses the new scan with ErrBusy
	PolicyReject
)

func (p Policy) String() string {
	switch p {
	case PolicyReject:
		return "reject"
	default:
		return "cancel"
	}
}

// UnmarshalText parses "cancel" or "reject"
func (p *Policy) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "cancel", "cancel-previous":
		*p = PolicyCancelPrevious
	case "reject":
		*p = PolicyReject
	default:
		return fmt.Errorf("unknown policy %q (want cancel or reject)", string(b))
	}
	return nil
}

// MarshalText is the inverse of UnmarshalText
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
