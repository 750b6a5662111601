package ui

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/lumipallolabs/foldersize/internal/cache"
	"github.com/lumipallolabs/foldersize/internal/core"
	"github.com/lumipallolabs/foldersize/internal/scanner/scannertest"
)

var testRoot = filepath.FromSlash("/d")

func testFS() *scannertest.MemFS {
	return scannertest.New().
		AddFile(filepath.Join(testRoot, "a"), 10).
		AddFile(filepath.Join(testRoot, "b"), 20).
		AddFile(filepath.Join(testRoot, "sub", "x"), 5)
}

func newTestApp(t *testing.T, mem *scannertest.MemFS) tea.Model {
	t.Helper()
	ctrl := core.NewController(core.NewCoordinator(mem, cache.New(), core.Options{}), mem, nil)
	t.Cleanup(ctrl.Close)

	var m tea.Model = NewApp(ctrl, mem.Exists, Options{})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

// settle polls until the current scan has finished
func settle(g *WithT, m tea.Model) tea.Model {
	g.Eventually(func() bool {
		m, _ = m.Update(pollMsg{})
		return !m.(App).scanning
	}).WithTimeout(2 * time.Second).WithPolling(5 * time.Millisecond).Should(BeTrue())
	return m
}

func press(m tea.Model, k string) tea.Model {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		msg = tea.KeyMsg{Type: tea.KeyBackspace}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	m, _ = m.Update(msg)
	return m
}

func names(app App) []string {
	var out []string
	for _, e := range app.list.Entries() {
		out = append(out, e.Name)
	}
	return out
}

func TestAppOpensAndCompletes(t *testing.T) {
	g := NewWithT(t)
	m := newTestApp(t, testFS())

	m, _ = m.Update(openMsg{path: testRoot})
	m = settle(g, m)

	app := m.(App)
	g.Expect(app.phase).To(Equal(core.PhaseCompleted))
	g.Expect(names(app)).To(Equal([]string{"b", "a", "sub"}))
	g.Expect(app.result).NotTo(BeNil())
	g.Expect(app.result.TotalSize).To(Equal(uint64(35)))
	g.Expect(app.View()).To(ContainSubstring(testRoot))
}

func TestAppEnterAndBack(t *testing.T) {
	g := NewWithT(t)
	m := newTestApp(t, testFS())

	m, _ = m.Update(openMsg{path: testRoot})
	m = settle(g, m)

	app := m.(App)
	g.Expect(app.list.SelectName("sub")).To(BeTrue())
	m = settle(g, press(app, "enter"))
	g.Expect(m.(App).ctrl.Current()).To(Equal(filepath.Join(testRoot, "sub")))
	g.Expect(names(m.(App))).To(Equal([]string{"x"}))

	m = settle(g, press(m, "backspace"))
	app = m.(App)
	g.Expect(app.ctrl.Current()).To(Equal(testRoot))
	sel, ok := app.list.Selected()
	g.Expect(ok).To(BeTrue())
	g.Expect(sel.Name).To(Equal("sub"))
}

func TestAppEnterIgnoresFiles(t *testing.T) {
	g := NewWithT(t)
	m := newTestApp(t, testFS())

	m, _ = m.Update(openMsg{path: testRoot})
	m = settle(g, m)

	app := m.(App)
	app.list.SelectName("a")
	m = press(app, "enter")
	g.Expect(m.(App).ctrl.Current()).To(Equal(testRoot))
	g.Expect(m.(App).scanning).To(BeFalse())
}

func TestAppRefreshShowsChanges(t *testing.T) {
	g := NewWithT(t)
	mem := testFS()
	m := newTestApp(t, mem)

	m, _ = m.Update(openMsg{path: testRoot})
	m = settle(g, m)

	mem.AddFile(filepath.Join(testRoot, "c"), 100)
	mem.Remove(filepath.Join(testRoot, "a"))
	m = settle(g, press(m, "r"))

	app := m.(App)
	g.Expect(app.result.TotalSize).To(Equal(uint64(125)))
	g.Expect(app.list.diff).To(HaveKey("c"))
	g.Expect(app.list.diff["c"].Kind).To(Equal(cache.Added))
	g.Expect(app.list.diff["a"].Kind).To(Equal(cache.Removed))
	g.Expect(app.list.View()).To(ContainSubstring("NEW"))
}

func TestAppCycleSort(t *testing.T) {
	g := NewWithT(t)
	m := newTestApp(t, testFS())

	m, _ = m.Update(openMsg{path: testRoot})
	m = settle(g, m)

	m = press(m, "s")
	app := m.(App)
	g.Expect(app.list.SortMode().String()).To(Equal("name"))
	g.Expect(names(app)).To(Equal([]string{"a", "b", "sub"}))
}

func TestAppPathInputRejectsMissing(t *testing.T) {
	g := NewWithT(t)
	m := newTestApp(t, testFS())

	m, _ = m.Update(openMsg{path: testRoot})
	m = settle(g, m)

	m = press(m, "/")
	app := m.(App)
	g.Expect(app.pathInput.IsVisible()).To(BeTrue())

	app.pathInput.input.SetValue(filepath.Join(testRoot, "nope"))
	m = press(app, "enter")
	app = m.(App)
	g.Expect(app.pathInput.IsVisible()).To(BeTrue())
	g.Expect(app.pathInput.err).To(ContainSubstring("no such directory"))
	g.Expect(app.ctrl.Current()).To(Equal(testRoot))

	app.pathInput.input.SetValue(filepath.Join(testRoot, "sub"))
	m = settle(g, press(app, "enter"))
	app = m.(App)
	g.Expect(app.pathInput.IsVisible()).To(BeFalse())
	g.Expect(app.ctrl.Current()).To(Equal(filepath.Join(testRoot, "sub")))
}

func TestAppFailedScanIsShown(t *testing.T) {
	g := NewWithT(t)
	mem := testFS()
	mem.FailList(testRoot, fs.ErrPermission)
	m := newTestApp(t, mem)

	m, _ = m.Update(openMsg{path: testRoot})
	m = settle(g, m)

	app := m.(App)
	g.Expect(app.phase).To(Equal(core.PhaseFailed))
	g.Expect(app.err).To(HaveOccurred())
	view := app.View()
	g.Expect(view).To(ContainSubstring("Scan failed"))
	g.Expect(strings.Contains(view, "Error:")).To(BeTrue())
}

func TestAppHelpOverlay(t *testing.T) {
	g := NewWithT(t)
	m := newTestApp(t, testFS())

	m = press(m, "?")
	g.Expect(m.(App).help.IsVisible()).To(BeTrue())
	g.Expect(m.(App).View()).To(ContainSubstring("Keyboard Shortcuts"))

	m = press(m, "esc")
	g.Expect(m.(App).help.IsVisible()).To(BeFalse())
}
