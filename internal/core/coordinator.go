package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lumipallolabs/foldersize/internal/cache"
	"github.com/lumipallolabs/foldersize/internal/logging"
	"github.com/lumipallolabs/foldersize/internal/model"
	"github.com/lumipallolabs/foldersize/internal/scanner"
)

var (
	// ErrBusy is returned by StartScan under PolicyReject while a scan runs
	ErrBusy = errors.New("a scan is already in progress")
	// ErrListing wraps the error of a directory that could not be listed
	ErrListing = errors.New("listing failed")
	// ErrClosed is returned after Close
	ErrClosed = errors.New("coordinator closed")
)

const (
	DefaultFileProgressEvery   = 32
	DefaultMinProgressInterval = 100 * time.Millisecond
)

// Options configure a Coordinator
type Options struct {
	Policy Policy

	// FileProgressEvery coalesces progress while files are emitted
	FileProgressEvery int
	// MinProgressInterval throttles progress from inside a folder
	MinProgressInterval time.Duration

	Now func() time.Time
}

func (o *Options) setDefaults() {
	if o.FileProgressEvery < 1 {
		o.FileProgressEvery = DefaultFileProgressEvery
	}
	if o.MinProgressInterval <= 0 {
		o.MinProgressInterval = DefaultMinProgressInterval
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// scanJob is one generation running on its own goroutine
type scanJob struct {
	gen    Generation
	path   string
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	after  <-chan struct{} // previous worker, must exit before this one starts

	lastIntra atomic.Int64 // unix nanos of the last intra-folder progress

	// invalidated is set under Coordinator.mu when a change related to path
	// arrives mid-scan; the result is then delivered but not cached
	invalidated bool
}

// Coordinator scans the immediate children of one directory at a time,
// sizing folders in the background and publishing generation-tagged events.
// Completed results are cached; cancelled and failed scans never are.
type Coordinator struct {
	acc   scanner.Accessor
	cache *cache.Cache
	queue *Queue
	opts  Options

	mu       sync.Mutex
	latest   Generation
	active   *scanJob
	lastDone <-chan struct{}
	state    ScanState
	closed   bool

	wg sync.WaitGroup
}

// NewCoordinator creates a coordinator reading through acc and storing
// results in c. A nil cache gets a fresh one.
func NewCoordinator(acc scanner.Accessor, c *cache.Cache, opts Options) *Coordinator {
	if c == nil {
		c = cache.New()
	}
	opts.setDefaults()
	return &Coordinator{
		acc:   acc,
		cache: c,
		queue: NewQueue(),
		opts:  opts,
	}
}

// StartScan begins a scan of path and returns its generation. A cached
// result is replayed synchronously; otherwise one worker goroutine does the
// work. What happens to a scan already in progress depends on the Policy.
func (c *Coordinator) StartScan(path string) (Generation, error) {
	return c.start(path, true)
}

// Refresh scans path again without consulting the cache. The cached record,
// if any, stays in place until the new scan completes and replaces it.
func (c *Coordinator) Refresh(path string) (Generation, error) {
	return c.start(path, false)
}

func (c *Coordinator) start(path string, useCache bool) (Generation, error) {
	path = filepath.Clean(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, ErrClosed
	}
	if c.active != nil {
		if c.opts.Policy == PolicyReject {
			return 0, ErrBusy
		}
		logging.Debug.Printf("[Coordinator] gen %d superseded", c.active.gen)
		c.active.cancel()
		c.active = nil
	}

	c.latest++
	gen := c.latest
	now := c.opts.Now()

	if useCache {
		if result, ok := c.cache.Get(path); ok {
			c.replayLocked(gen, path, result, now)
			return gen, nil
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	job := &scanJob{
		gen:    gen,
		path:   path,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		after:  c.lastDone,
	}
	c.active = job
	c.lastDone = job.done
	c.state = ScanState{
		Generation: gen,
		Path:       path,
		Phase:      PhaseListing,
		StartTime:  now,
	}

	logging.Debug.Printf("[Coordinator] gen %d: starting scan of %s", gen, path)
	c.wg.Add(1)
	go c.runScan(job)

	return gen, nil
}

// Cancel requests that generation gen stop. It is a no-op unless gen is the
// scan currently running.
func (c *Coordinator) Cancel(gen Generation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil && c.active.gen == gen {
		logging.Debug.Printf("[Coordinator] gen %d: cancel requested", gen)
		c.active.cancel()
	}
}

// CancelActive cancels whatever scan is running
func (c *Coordinator) CancelActive() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.active.cancel()
	}
}

// Poll drains the event queue, dropping events of any generation other than
// the latest one started.
func (c *Coordinator) Poll() []Event {
	events := c.queue.Drain()
	if len(events) == 0 {
		return nil
	}

	latest := c.Latest()
	kept := events[:0]
	for _, e := range events {
		if e.Generation() == latest {
			kept = append(kept, e)
		}
	}
	if dropped := len(events) - len(kept); dropped > 0 {
		logging.Debug.Printf("[Coordinator] dropped %d stale events", dropped)
	}
	return kept
}

// Ready receives a value whenever new events have been queued
func (c *Coordinator) Ready() <-chan struct{} {
	return c.queue.Ready()
}

// Latest returns the generation of the most recent StartScan
func (c *Coordinator) Latest() Generation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest
}

// State returns a snapshot of the latest scan
func (c *Coordinator) State() ScanState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a scan is running
func (c *Coordinator) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}

// Cached returns the cached result for path without scanning
func (c *Coordinator) Cached(path string) (model.ScanResult, bool) {
	return c.cache.Get(path)
}

// Invalidate drops the cached result for exactly path
func (c *Coordinator) Invalidate(path string) {
	c.cache.Invalidate(path)
}

// InvalidateAll drops every cached result
func (c *Coordinator) InvalidateAll() {
	c.cache.InvalidateAll()
}

// InvalidateRelated drops cached results for path, its ancestors and its
// descendants. It is used after a change is observed below a directory.
// A running scan of a related directory may already have read the old
// state, so its result will not be cached either.
func (c *Coordinator) InvalidateRelated(path string) int {
	path = filepath.Clean(path)

	c.mu.Lock()
	defer c.mu.Unlock()
	if job := c.active; job != nil && (model.IsWithin(path, job.path) || model.IsWithin(job.path, path)) {
		logging.Debug.Printf("[Coordinator] gen %d: %s changed mid-scan, result won't be cached", job.gen, path)
		job.invalidated = true
	}
	return c.cache.InvalidateRelated(path)
}

// Close cancels any running scan and waits for workers to exit
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	if c.active != nil {
		c.active.cancel()
	}
	c.mu.Unlock()

	c.wg.Wait()
}

// replayLocked serves a cache hit: the cached entries followed by Completed,
// all queued before StartScan returns
func (c *Coordinator) replayLocked(gen Generation, path string, result model.ScanResult, now time.Time) {
	logging.Debug.Printf("[Coordinator] gen %d: cache hit for %s", gen, path)
	for _, e := range result.Entries {
		c.queue.Push(EntryDiscoveredEvent{Gen: gen, Entry: e})
	}
	c.queue.Push(CompletedEvent{Gen: gen, Result: result, FromCache: true})
	c.state = ScanState{
		Generation: gen,
		Path:       path,
		Phase:      PhaseIdle,
		Outcome:    PhaseCompleted,
		FromCache:  true,
		StartTime:  now,
		EndTime:    now,
		Processed:  len(result.Entries),
		Total:      len(result.Entries),
	}
}

// runScan executes one generation in a goroutine
func (c *Coordinator) runScan(job *scanJob) {
	defer c.wg.Done()
	defer close(job.done)
	defer job.cancel()

	// Two workers never touch the filesystem at the same time.
	if job.after != nil {
		<-job.after
	}
	if job.ctx.Err() != nil {
		c.finishCancelled(job)
		return
	}

	c.setPhase(job, PhaseListing)
	children, err := c.acc.ListChildren(job.path)
	if err != nil {
		c.finishFailed(job, err)
		return
	}

	var files, folders []scanner.Child
	for _, ch := range children {
		if ch.IsFolder {
			folders = append(folders, ch)
		} else {
			files = append(files, ch)
		}
	}
	total := len(children)
	entries := make([]model.Entry, 0, total)
	processed := 0

	c.setPhase(job, PhaseEmittingFiles)
	for i, ch := range files {
		if job.ctx.Err() != nil {
			c.finishCancelled(job)
			return
		}
		e := model.FileEntry(ch.Name, c.acc.FileSize(filepath.Join(job.path, ch.Name)))
		entries = append(entries, e)
		c.queue.Push(EntryDiscoveredEvent{Gen: job.gen, Entry: e})
		processed++

		if processed%c.opts.FileProgressEvery == 0 || i == len(files)-1 {
			c.progress(job, processed, total, ch.Name, scanner.Progress{})
		}
	}

	c.setPhase(job, PhaseAggregatingFolders)
	for _, ch := range folders {
		if job.ctx.Err() != nil {
			c.finishCancelled(job)
			return
		}
		c.progress(job, processed, total, ch.Name, scanner.Progress{})

		current := processed
		totals, err := scanner.Aggregate(job.ctx, c.acc, filepath.Join(job.path, ch.Name), func(p scanner.Progress) {
			c.intraProgress(job, current, total, ch.Name, p)
		})
		if err != nil {
			c.finishCancelled(job)
			return
		}

		e := totals.Entry(ch.Name)
		entries = append(entries, e)
		c.queue.Push(EntryDiscoveredEvent{Gen: job.gen, Entry: e})
		processed++
		c.progress(job, processed, total, ch.Name, scanner.Progress{
			FilesScanned: int64(totals.Files),
			BytesFound:   int64(totals.Size),
		})
	}

	c.finishCompleted(job, model.NewScanResult(job.path, entries, c.opts.Now()))
}

func (c *Coordinator) setPhase(job *scanJob, phase ScanPhase) {
	c.mu.Lock()
	if c.state.Generation == job.gen {
		c.state.Phase = phase
	}
	c.mu.Unlock()

	logging.Debug.Printf("[Coordinator] gen %d: %s", job.gen, phase)
	c.queue.Push(PhaseChangedEvent{Gen: job.gen, Phase: phase})
}

func (c *Coordinator) progress(job *scanJob, processed, total int, current string, p scanner.Progress) {
	c.mu.Lock()
	if c.state.Generation == job.gen {
		c.state.Processed = processed
		c.state.Total = total
		c.state.Current = current
		c.state.FilesScanned = p.FilesScanned
		c.state.BytesFound = p.BytesFound
	}
	c.mu.Unlock()

	c.queue.Push(ProgressEvent{
		Gen:          job.gen,
		Processed:    processed,
		Total:        total,
		Current:      current,
		FilesScanned: p.FilesScanned,
		BytesFound:   p.BytesFound,
	})
}

// intraProgress is called from walk goroutines; at most one caller per
// MinProgressInterval gets through.
func (c *Coordinator) intraProgress(job *scanJob, processed, total int, current string, p scanner.Progress) {
	now := c.opts.Now().UnixNano()
	last := job.lastIntra.Load()
	if now-last < int64(c.opts.MinProgressInterval) {
		return
	}
	if !job.lastIntra.CompareAndSwap(last, now) {
		return
	}
	c.progress(job, processed, total, current, p)
}

func (c *Coordinator) finishCompleted(job *scanJob, result model.ScanResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Cancel takes c.mu, so a request can't slip in between this check
	// and the cache write.
	if job.ctx.Err() != nil {
		c.finishLocked(job, PhaseCancelled, nil)
		c.queue.Push(CancelledEvent{Gen: job.gen, Path: job.path})
		return
	}

	if !job.invalidated {
		c.cache.Put(job.path, result)
	}
	c.finishLocked(job, PhaseCompleted, nil)
	c.queue.Push(CompletedEvent{Gen: job.gen, Result: result})
	logging.Debug.Printf("[Coordinator] gen %d: completed %s (%d entries, %d bytes)",
		job.gen, job.path, len(result.Entries), result.TotalSize)
}

func (c *Coordinator) finishCancelled(job *scanJob) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finishLocked(job, PhaseCancelled, nil)
	c.queue.Push(CancelledEvent{Gen: job.gen, Path: job.path})
	logging.Debug.Printf("[Coordinator] gen %d: cancelled", job.gen)
}

func (c *Coordinator) finishFailed(job *scanJob, err error) {
	err = fmt.Errorf("%w: %w", ErrListing, err)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.finishLocked(job, PhaseFailed, err)
	c.queue.Push(FailedEvent{Gen: job.gen, Path: job.path, Reason: err.Error(), Err: err})
	logging.Debug.Printf("[Coordinator] gen %d: %v", job.gen, err)
}

// finishLocked returns the coordinator to idle if job is still the latest scan
func (c *Coordinator) finishLocked(job *scanJob, outcome ScanPhase, err error) {
	if c.active == job {
		c.active = nil
	}
	if c.state.Generation != job.gen {
		return
	}
	c.state.Phase = PhaseIdle
	c.state.Outcome = outcome
	c.state.EndTime = c.opts.Now()
	c.state.Err = err
}
