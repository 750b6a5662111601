package core

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/lumipallolabs/foldersize/internal/cache"
	"github.com/lumipallolabs/foldersize/internal/model"
	"github.com/lumipallolabs/foldersize/internal/scanner/scannertest"
)

var root = filepath.FromSlash("/d")

// scenarioFS is /d with files a (10 bytes), b (20 bytes) and folder sub
// holding one 5 byte file.
func scenarioFS() *scannertest.MemFS {
	return scannertest.New().
		AddFile(filepath.Join(root, "a"), 10).
		AddFile(filepath.Join(root, "b"), 20).
		AddFile(filepath.Join(root, "sub", "x"), 5)
}

// collect polls until a terminal event for gen arrives
func collect(g *WithT, c *Coordinator, gen Generation) []Event {
	var events []Event
	g.Eventually(func() bool {
		for _, e := range c.Poll() {
			g.Expect(e.Generation()).To(Equal(gen))
			events = append(events, e)
		}
		return len(events) > 0 && Terminal(events[len(events)-1])
	}).WithTimeout(5 * time.Second).WithPolling(5 * time.Millisecond).Should(BeTrue())
	return events
}

func entriesOf(events []Event) []model.Entry {
	var entries []model.Entry
	for _, e := range events {
		if d, ok := e.(EntryDiscoveredEvent); ok {
			entries = append(entries, d.Entry)
		}
	}
	return entries
}

// blockOnFirstVisit makes the first walk visit wait until release is closed
func blockOnFirstVisit(mem *scannertest.MemFS) (started, release chan struct{}) {
	started = make(chan struct{})
	release = make(chan struct{})
	var once sync.Once
	mem.OnVisit = func(string) {
		once.Do(func() {
			close(started)
			<-release
		})
	}
	return started, release
}

func TestScenarioScan(t *testing.T) {
	g := NewWithT(t)
	c := NewCoordinator(scenarioFS(), nil, Options{})
	defer c.Close()

	gen, err := c.StartScan(root)
	g.Expect(err).NotTo(HaveOccurred())

	events := collect(g, c, gen)

	g.Expect(entriesOf(events)).To(Equal([]model.Entry{
		{Name: "a", Kind: model.File, Size: 10, Files: 1, Folders: 0},
		{Name: "b", Kind: model.File, Size: 20, Files: 1, Folders: 0},
		{Name: "sub", Kind: model.Folder, Size: 5, Files: 1, Folders: 0},
	}))

	done, ok := events[len(events)-1].(CompletedEvent)
	g.Expect(ok).To(BeTrue(), "last event should be Completed")
	g.Expect(done.FromCache).To(BeFalse())
	g.Expect(done.Result.TotalSize).To(Equal(uint64(35)))
	g.Expect(done.Result.TotalFiles).To(Equal(uint64(3)))
	g.Expect(done.Result.TotalFolders).To(Equal(uint64(0)))
	g.Expect(done.Result.Consistent()).To(BeTrue())

	state := c.State()
	g.Expect(state.IsScanning()).To(BeFalse())
	g.Expect(state.Outcome).To(Equal(PhaseCompleted))
	g.Expect(state.Processed).To(Equal(3))
	g.Expect(c.Busy()).To(BeFalse())
}

func TestPhasesInOrder(t *testing.T) {
	g := NewWithT(t)
	c := NewCoordinator(scenarioFS(), nil, Options{})
	defer c.Close()

	gen, _ := c.StartScan(root)
	events := collect(g, c, gen)

	var phases []ScanPhase
	for _, e := range events {
		if p, ok := e.(PhaseChangedEvent); ok {
			phases = append(phases, p.Phase)
		}
	}
	g.Expect(phases).To(Equal([]ScanPhase{PhaseListing, PhaseEmittingFiles, PhaseAggregatingFolders}))
}

func TestAllFilesDirectory(t *testing.T) {
	g := NewWithT(t)
	mem := scannertest.New()
	for i := 0; i < 7; i++ {
		mem.AddFile(filepath.Join(root, fmt.Sprintf("f%d", i)), uint64(i))
	}
	c := NewCoordinator(mem, nil, Options{})
	defer c.Close()

	gen, _ := c.StartScan(root)
	events := collect(g, c, gen)

	result := events[len(events)-1].(CompletedEvent).Result
	g.Expect(result.TotalFiles).To(Equal(uint64(7)))
	g.Expect(result.TotalFolders).To(Equal(uint64(0)))
	g.Expect(mem.Walks()).To(BeZero())
}

func TestSecondScanServedFromCache(t *testing.T) {
	g := NewWithT(t)
	mem := scenarioFS()
	c := NewCoordinator(mem, nil, Options{})
	defer c.Close()

	gen1, _ := c.StartScan(root)
	first := collect(g, c, gen1)
	walks := mem.Walks()

	gen2, err := c.StartScan(root)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(gen2).To(BeNumerically(">", gen1))

	// Replayed synchronously, so already queued.
	second := c.Poll()
	g.Expect(second).NotTo(BeEmpty())
	g.Expect(Terminal(second[len(second)-1])).To(BeTrue())

	g.Expect(mem.Walks()).To(Equal(walks), "cache hit must not walk")
	g.Expect(entriesOf(second)).To(Equal(entriesOf(first)))

	cached := second[len(second)-1].(CompletedEvent)
	g.Expect(cached.FromCache).To(BeTrue())
	g.Expect(cached.Result).To(Equal(first[len(first)-1].(CompletedEvent).Result))
	g.Expect(c.State().FromCache).To(BeTrue())
}

func TestCancelDoesNotPopulateCache(t *testing.T) {
	g := NewWithT(t)
	mem := scenarioFS()
	started, release := blockOnFirstVisit(mem)
	c := NewCoordinator(mem, nil, Options{})
	defer c.Close()

	gen, _ := c.StartScan(root)
	<-started
	c.Cancel(gen)
	close(release)

	events := collect(g, c, gen)
	g.Expect(events[len(events)-1]).To(BeAssignableToTypeOf(CancelledEvent{}))
	for _, e := range entriesOf(events) {
		g.Expect(e.Kind).To(Equal(model.File), "no folder entry after cancellation")
	}

	_, ok := c.Cached(root)
	g.Expect(ok).To(BeFalse())
	g.Expect(c.State().Outcome).To(Equal(PhaseCancelled))
	g.Expect(c.Busy()).To(BeFalse())
}

func TestCancelledRefreshKeepsPreviousResult(t *testing.T) {
	g := NewWithT(t)
	mem := scenarioFS()
	c := NewCoordinator(mem, nil, Options{})
	defer c.Close()

	gen, _ := c.StartScan(root)
	collect(g, c, gen)
	before, _ := c.Cached(root)

	mem.AddFile(filepath.Join(root, "sub", "y"), 100)
	started, release := blockOnFirstVisit(mem)

	gen, err := c.Refresh(root)
	g.Expect(err).NotTo(HaveOccurred())
	<-started
	c.Cancel(gen)
	close(release)

	events := collect(g, c, gen)
	g.Expect(events[len(events)-1]).To(BeAssignableToTypeOf(CancelledEvent{}))

	after, ok := c.Cached(root)
	g.Expect(ok).To(BeTrue())
	g.Expect(after).To(Equal(before))
}

func TestRefreshReplacesCachedResult(t *testing.T) {
	g := NewWithT(t)
	mem := scenarioFS()
	c := NewCoordinator(mem, nil, Options{})
	defer c.Close()

	gen, _ := c.StartScan(root)
	collect(g, c, gen)

	mem.AddFile(filepath.Join(root, "sub", "y"), 100)
	gen, _ = c.Refresh(root)
	events := collect(g, c, gen)

	result := events[len(events)-1].(CompletedEvent).Result
	g.Expect(result.TotalSize).To(Equal(uint64(135)))

	cached, _ := c.Cached(root)
	g.Expect(cached.TotalSize).To(Equal(uint64(135)))
}

func TestInvalidateForcesRescan(t *testing.T) {
	g := NewWithT(t)
	mem := scenarioFS()
	c := NewCoordinator(mem, nil, Options{})
	defer c.Close()

	gen, _ := c.StartScan(root)
	collect(g, c, gen)
	walks := mem.Walks()

	c.Invalidate(root)
	_, ok := c.Cached(root)
	g.Expect(ok).To(BeFalse())

	gen, _ = c.StartScan(root)
	collect(g, c, gen)
	g.Expect(mem.Walks()).To(BeNumerically(">", walks))

	c.InvalidateAll()
	_, ok = c.Cached(root)
	g.Expect(ok).To(BeFalse())
}

func TestStaleGenerationSuppressed(t *testing.T) {
	g := NewWithT(t)
	mem := scenarioFS().AddFile(filepath.FromSlash("/e/z"), 1)
	started, release := blockOnFirstVisit(mem)
	c := NewCoordinator(mem, nil, Options{})
	defer c.Close()

	gen1, _ := c.StartScan(root)
	<-started

	gen2, err := c.StartScan(filepath.FromSlash("/e"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(gen2).To(BeNumerically(">", gen1))
	close(release)

	// collect fails the test if any event is not tagged gen2
	events := collect(g, c, gen2)
	g.Expect(events[len(events)-1]).To(BeAssignableToTypeOf(CompletedEvent{}))

	// The superseded scan wound down without caching anything.
	g.Consistently(c.Poll).WithTimeout(50 * time.Millisecond).Should(BeEmpty())
	_, ok := c.Cached(root)
	g.Expect(ok).To(BeFalse())
}

func TestRejectPolicy(t *testing.T) {
	g := NewWithT(t)
	mem := scenarioFS()
	started, release := blockOnFirstVisit(mem)
	c := NewCoordinator(mem, nil, Options{Policy: PolicyReject})
	defer c.Close()

	gen, _ := c.StartScan(root)
	<-started

	_, err := c.StartScan(root)
	g.Expect(errors.Is(err, ErrBusy)).To(BeTrue())
	g.Expect(c.Latest()).To(Equal(gen))

	close(release)
	collect(g, c, gen)

	_, err = c.StartScan(root)
	g.Expect(err).NotTo(HaveOccurred())
}

func TestScansNeverOverlap(t *testing.T) {
	g := NewWithT(t)
	mem := scannertest.New()
	for i := 0; i < 5; i++ {
		mem.AddFile(filepath.Join(root, fmt.Sprintf("dir%d", i), "f"), 1)
	}

	var inFlight, maxInFlight atomic.Int64
	mem.OnVisit = func(string) {
		n := inFlight.Add(1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		inFlight.Add(-1)
	}

	c := NewCoordinator(mem, nil, Options{})
	defer c.Close()

	var gen Generation
	for i := 0; i < 5; i++ {
		gen, _ = c.Refresh(root)
		time.Sleep(2 * time.Millisecond)
	}
	collect(g, c, gen)

	g.Expect(maxInFlight.Load()).To(BeNumerically("<=", 1))
}

func TestListingFailure(t *testing.T) {
	g := NewWithT(t)
	mem := scenarioFS()
	mem.FailList(root, fs.ErrPermission)
	c := NewCoordinator(mem, nil, Options{})
	defer c.Close()

	gen, _ := c.StartScan(root)
	events := collect(g, c, gen)

	failed, ok := events[len(events)-1].(FailedEvent)
	g.Expect(ok).To(BeTrue())
	g.Expect(errors.Is(failed.Err, ErrListing)).To(BeTrue())
	g.Expect(errors.Is(failed.Err, fs.ErrPermission)).To(BeTrue())
	g.Expect(failed.Reason).To(ContainSubstring("listing failed"))

	_, cached := c.Cached(root)
	g.Expect(cached).To(BeFalse())
	g.Expect(c.State().Outcome).To(Equal(PhaseFailed))
	g.Expect(c.State().Err).To(HaveOccurred())
}

func TestCancelFinishedGenerationIsNoop(t *testing.T) {
	g := NewWithT(t)
	c := NewCoordinator(scenarioFS(), nil, Options{})
	defer c.Close()

	gen, _ := c.StartScan(root)
	collect(g, c, gen)

	c.Cancel(gen)
	c.Cancel(gen + 100)

	g.Expect(c.Poll()).To(BeEmpty())
	_, ok := c.Cached(root)
	g.Expect(ok).To(BeTrue())
}

func TestFileProgressIsCoalesced(t *testing.T) {
	g := NewWithT(t)
	mem := scannertest.New()
	for i := 0; i < 100; i++ {
		mem.AddFile(filepath.Join(root, fmt.Sprintf("f%03d", i)), 1)
	}
	c := NewCoordinator(mem, nil, Options{FileProgressEvery: 32})
	defer c.Close()

	gen, _ := c.StartScan(root)
	events := collect(g, c, gen)

	var processed []int
	for _, e := range events {
		if p, ok := e.(ProgressEvent); ok {
			g.Expect(p.Total).To(Equal(100))
			processed = append(processed, p.Processed)
		}
	}
	g.Expect(processed).To(Equal([]int{32, 64, 96, 100}))
}

func TestFolderProgressAtStartAndCompletion(t *testing.T) {
	g := NewWithT(t)
	c := NewCoordinator(scenarioFS(), nil, Options{})
	defer c.Close()

	gen, _ := c.StartScan(root)
	events := collect(g, c, gen)

	var sub []ProgressEvent
	for _, e := range events {
		if p, ok := e.(ProgressEvent); ok && p.Current == "sub" {
			sub = append(sub, p)
		}
	}
	g.Expect(sub).To(HaveLen(2))
	g.Expect(sub[0].Processed).To(Equal(2))
	g.Expect(sub[1].Processed).To(Equal(3))
	g.Expect(sub[1].BytesFound).To(Equal(int64(5)))
}

func TestSharedCache(t *testing.T) {
	g := NewWithT(t)
	shared := cache.New()
	c := NewCoordinator(scenarioFS(), shared, Options{})
	defer c.Close()

	gen, _ := c.StartScan(root)
	collect(g, c, gen)

	g.Expect(shared.Paths()).To(Equal([]string{root}))
	g.Expect(c.InvalidateRelated(filepath.Join(root, "sub"))).To(Equal(1))
	g.Expect(shared.Len()).To(BeZero())
}

func TestClosedCoordinatorRejectsScans(t *testing.T) {
	g := NewWithT(t)
	mem := scenarioFS()
	started, release := blockOnFirstVisit(mem)
	c := NewCoordinator(mem, nil, Options{})

	_, _ = c.StartScan(root)
	<-started
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()
	c.Close()

	_, err := c.StartScan(root)
	g.Expect(errors.Is(err, ErrClosed)).To(BeTrue())
}

func TestChangeDuringScanIsNotCached(t *testing.T) {
	g := NewWithT(t)
	mem := scenarioFS()
	c := NewCoordinator(mem, nil, Options{})
	defer c.Close()

	started, release := blockOnFirstVisit(mem)
	gen, err := c.StartScan(root)
	g.Expect(err).NotTo(HaveOccurred())
	<-started
	c.InvalidateRelated(filepath.Join(root, "sub", "x"))
	close(release)

	events := collect(g, c, gen)
	g.Expect(events[len(events)-1]).To(BeAssignableToTypeOf(CompletedEvent{}))
	_, ok := c.Cached(root)
	g.Expect(ok).To(BeFalse())

	// The next scan starts clean and is cached as usual
	gen, err = c.StartScan(root)
	g.Expect(err).NotTo(HaveOccurred())
	collect(g, c, gen)
	_, ok = c.Cached(root)
	g.Expect(ok).To(BeTrue())
}

func TestUnrelatedChangeDuringScanIsCached(t *testing.T) {
	g := NewWithT(t)
	mem := scenarioFS()
	c := NewCoordinator(mem, nil, Options{})
	defer c.Close()

	started, release := blockOnFirstVisit(mem)
	gen, err := c.StartScan(root)
	g.Expect(err).NotTo(HaveOccurred())
	<-started
	c.InvalidateRelated(filepath.FromSlash("/other/z"))
	close(release)

	collect(g, c, gen)
	result, ok := c.Cached(root)
	g.Expect(ok).To(BeTrue())
	g.Expect(result.TotalSize).To(Equal(uint64(35)))
}
