// Package report implements the headless --print mode: scan one directory
// through the Coordinator and print its entries as a table or JSON.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lumipallolabs/foldersize/internal/core"
	"github.com/lumipallolabs/foldersize/internal/logging"
	"github.com/lumipallolabs/foldersize/internal/model"
)

// DefaultPollInterval is how often Run drains events when no interval is set.
const DefaultPollInterval = 50 * time.Millisecond

var (
	ErrScanFailed    = errors.New("scan failed")
	ErrScanCancelled = errors.New("scan cancelled")
)

// Options controls what Run prints.
type Options struct {
	Output       string // table or json
	Sort         model.SortMode
	Top          int
	MinSize      uint64
	PollInterval time.Duration
	// Progress enables the progress line on the error writer
	Progress bool
}

// Row is one reported entry.
type Row struct {
	Name    string  `json:"name"`
	Kind    string  `json:"kind"`
	Size    uint64  `json:"size"`
	Files   uint64  `json:"files"`
	Folders uint64  `json:"folders"`
	Percent float64 `json:"percent"`
}

// Report is a scan result shaped for printing.
type Report struct {
	Path         string    `json:"path"`
	Entries      []Row     `json:"entries"`
	Shown        int       `json:"shown"`
	Total        int       `json:"total"`
	TotalSize    uint64    `json:"total_size"`
	TotalFiles   uint64    `json:"total_files"`
	TotalFolders uint64    `json:"total_folders"`
	ComputedAt   time.Time `json:"computed_at"`
	FromCache    bool      `json:"from_cache"`
	Elapsed      string    `json:"elapsed"`
}

// Build sorts and filters a result into a Report.
func Build(result model.ScanResult, opts Options) Report {
	entries := append([]model.Entry(nil), result.Entries...)
	model.Sort(entries, opts.Sort)

	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		if e.Size < opts.MinSize {
			continue
		}
		if opts.Top > 0 && len(rows) == opts.Top {
			break
		}

		pct := 0.0
		if result.TotalSize > 0 {
			pct = 100.0 * float64(e.Size) / float64(result.TotalSize)
		}
		rows = append(rows, Row{
			Name:    e.Name,
			Kind:    strings.ToLower(e.Kind.String()),
			Size:    e.Size,
			Files:   e.Files,
			Folders: e.Folders,
			Percent: pct,
		})
	}

	return Report{
		Path:         result.Path,
		Entries:      rows,
		Shown:        len(rows),
		Total:        len(result.Entries),
		TotalSize:    result.TotalSize,
		TotalFiles:   result.TotalFiles,
		TotalFolders: result.TotalFolders,
		ComputedAt:   result.ComputedAt,
	}
}

// Run scans path, then writes the report to stdout. Progress goes to stderr.
// Cancelling ctx cancels the scan and returns ErrScanCancelled.
func Run(ctx context.Context, coord *core.Coordinator, path string, opts Options, stdout, stderr io.Writer) error {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	start := time.Now()
	gen, err := coord.StartScan(path)
	if err != nil {
		return err
	}
	logging.Debug.Printf("[Report] scanning %s (gen %d)", path, gen)

	progress := &progressLine{w: stderr, enabled: opts.Progress}
	defer progress.clear()

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	done := ctx.Done()
	for {
		select {
		case <-done:
			coord.Cancel(gen)
			done = nil
		case <-coord.Ready():
		case <-ticker.C:
		}

		for _, ev := range coord.Poll() {
			switch e := ev.(type) {
			case core.ProgressEvent:
				progress.update(fmt.Sprintf("%d/%d %s  %d files, %s",
					e.Processed, e.Total, e.Current, e.FilesScanned, humanize.IBytes(uint64(max(e.BytesFound, 0)))))
			case core.CompletedEvent:
				progress.clear()
				rep := Build(e.Result, opts)
				rep.FromCache = e.FromCache
				rep.Elapsed = time.Since(start).Round(time.Millisecond).String()
				return Write(stdout, rep, opts.Output)
			case core.CancelledEvent:
				return fmt.Errorf("%w: %s", ErrScanCancelled, e.Path)
			case core.FailedEvent:
				return fmt.Errorf("%w: %s", ErrScanFailed, e.Reason)
			}
		}
	}
}

// Write prints rep in the given format.
func Write(w io.Writer, rep Report, output string) error {
	if output == "json" {
		return PrintJSON(rep, w)
	}
	return PrintTable(rep, w)
}
