package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/lumipallolabs/foldersize/internal/logging"
	"github.com/lumipallolabs/foldersize/internal/model"
	"github.com/lumipallolabs/foldersize/internal/prefs"
	"github.com/lumipallolabs/foldersize/internal/scanner"
	"github.com/lumipallolabs/foldersize/internal/watcher"
)

var (
	// ErrNotFound is returned when opening a path that does not exist
	ErrNotFound = errors.New("no such directory")
	// ErrAtRoot is returned by Up at the top of a filesystem
	ErrAtRoot = errors.New("already at the top")
)

// Controller tracks which directory is shown and drives the Coordinator for
// it. It has no UI dependencies.
type Controller struct {
	mu sync.RWMutex

	// State
	drives        []model.Drive
	selectedDrive int
	current       string
	gen           Generation
	stale         bool
	lastChange    string

	// Internal services
	coord   *Coordinator
	acc     scanner.Accessor
	prefs   *prefs.Manager
	watcher *watcher.Watcher
}

// NewController creates a controller. prefsMgr may be nil.
func NewController(coord *Coordinator, acc scanner.Accessor, prefsMgr *prefs.Manager) *Controller {
	drives, err := model.GetDrives()
	if err != nil {
		logging.Debug.Printf("[Controller] failed to list drives: %v", err)
	}

	c := &Controller{
		drives:        drives,
		selectedDrive: -1,
		coord:         coord,
		acc:           acc,
		prefs:         prefsMgr,
	}

	if prefsMgr != nil {
		defaultDrive := prefsMgr.DefaultDrive()
		for i, d := range drives {
			if d.Path == defaultDrive {
				c.selectedDrive = i
				break
			}
		}
	}

	return c
}

// Coordinator returns the scan coordinator
func (c *Controller) Coordinator() *Coordinator {
	return c.coord
}

// Drives returns the available drives
func (c *Controller) Drives() []model.Drive {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.drives
}

// SelectedDriveIndex returns the index of the drive holding the current directory, or -1
func (c *Controller) SelectedDriveIndex() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selectedDrive
}

// SelectedDrive returns the drive holding the current directory
func (c *Controller) SelectedDrive() *model.Drive {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.selectedDrive < 0 || c.selectedDrive >= len(c.drives) {
		return nil
	}
	drive := c.drives[c.selectedDrive]
	return &drive
}

// StartPath picks the directory to show first: the remembered one if it
// still exists, then the saved default drive
func (c *Controller) StartPath() string {
	if c.prefs != nil {
		if last := c.prefs.LastPath(); last != "" && c.acc.Exists(last) {
			return last
		}
	}
	if d := c.SelectedDrive(); d != nil {
		return d.Path
	}
	return ""
}

// Current returns the directory being shown
func (c *Controller) Current() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Generation returns the generation of the scan for the current directory
func (c *Controller) Generation() Generation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// ScanState returns the coordinator's scan state
func (c *Controller) ScanState() ScanState {
	return c.coord.State()
}

// Poll returns new events for the current directory
func (c *Controller) Poll() []Event {
	return c.coord.Poll()
}

// Open shows path, scanning it unless it is cached
func (c *Controller) Open(path string) (Generation, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("resolve %s: %w", path, err)
	}
	if !c.acc.Exists(abs) {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	gen, err := c.coord.StartScan(abs)
	if err != nil {
		return 0, err
	}
	c.navigated(abs, gen)
	return gen, nil
}

// Enter shows the named child folder of the current directory
func (c *Controller) Enter(name string) (Generation, error) {
	return c.Open(filepath.Join(c.Current(), name))
}

// Up shows the parent of the current directory
func (c *Controller) Up() (Generation, error) {
	parent, ok := model.Parent(c.Current())
	if !ok {
		return 0, ErrAtRoot
	}
	return c.Open(parent)
}

// Refresh rescans the current directory, keeping the cached result until the
// new one completes
func (c *Controller) Refresh() (Generation, error) {
	current := c.Current()
	if current == "" {
		return 0, ErrNotFound
	}

	gen, err := c.coord.Refresh(current)
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	c.gen = gen
	c.stale = false
	c.mu.Unlock()
	return gen, nil
}

// Stop cancels the scan of the current directory
func (c *Controller) Stop() {
	c.coord.Cancel(c.Generation())
}

// SelectDrive shows the root of drive idx and remembers it as the default
func (c *Controller) SelectDrive(idx int) (Generation, error) {
	c.mu.RLock()
	if idx < 0 || idx >= len(c.drives) {
		c.mu.RUnlock()
		return 0, fmt.Errorf("%w: drive %d", ErrNotFound, idx)
	}
	drive := c.drives[idx]
	c.mu.RUnlock()

	if c.prefs != nil {
		c.prefs.SetDefaultDrive(drive.Path)
	}
	return c.Open(drive.Path)
}

// InvalidatePath drops cached results a change at path affects. Callers use
// it after they delete or move something themselves.
func (c *Controller) InvalidatePath(path string) {
	n := c.coord.InvalidateRelated(path)
	logging.Debug.Printf("[Controller] invalidated %d cached directories for %s", n, path)
}

// Stale reports whether the current directory changed on disk since it was
// scanned, and the last changed path seen
func (c *Controller) Stale() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastChange, c.stale
}

func (c *Controller) navigated(path string, gen Generation) {
	c.mu.Lock()
	c.current = path
	c.gen = gen
	c.stale = false
	c.lastChange = ""
	if d, ok := model.DriveFor(c.drives, path); ok {
		for i := range c.drives {
			if c.drives[i].Path == d.Path {
				c.selectedDrive = i
			}
		}
	}
	w := c.watcher
	c.mu.Unlock()

	if c.prefs != nil {
		c.prefs.SetLastPath(path)
	}
	if w != nil {
		if err := w.Watch(path); err != nil {
			logging.Debug.Printf("[Controller] watch %s: %v", path, err)
		}
	}
}

// StartWatching watches the current directory and invalidates cached results
// when something below it changes
func (c *Controller) StartWatching() error {
	w, err := watcher.New()
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.watcher != nil {
		_ = c.watcher.Stop()
	}
	c.watcher = w
	current := c.current
	c.mu.Unlock()

	if current != "" {
		if err := w.Watch(current); err != nil {
			logging.Debug.Printf("[Controller] watch %s: %v", current, err)
		}
	}
	w.Start()
	logging.Debug.Printf("[Controller] filesystem watcher started for %s", current)

	go c.watchLoop(w.Events())
	return nil
}

// watchLoop processes filesystem events until the watcher stops
func (c *Controller) watchLoop(events <-chan watcher.Event) {
	for event := range events {
		c.handleChange(event)
	}
}

// handleChange invalidates what event affects and marks the view stale if
// the change is inside the current directory
func (c *Controller) handleChange(event watcher.Event) {
	n := c.coord.InvalidateRelated(event.Path)
	logging.Debug.Printf("[Controller] %s %s: invalidated %d", event.Type, event.Path, n)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != "" && event.Path != c.current && model.IsWithin(event.Path, c.current) {
		c.stale = true
		c.lastChange = event.Path
	}
}

// Close cleans up resources
func (c *Controller) Close() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		_ = w.Stop()
	}
	c.coord.Close()
	if c.prefs != nil {
		_ = c.prefs.Close()
	}
}
