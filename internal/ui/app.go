package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/lumipallolabs/foldersize/internal/cache"
	"github.com/lumipallolabs/foldersize/internal/core"
	"github.com/lumipallolabs/foldersize/internal/logging"
	"github.com/lumipallolabs/foldersize/internal/model"
	"github.com/lumipallolabs/foldersize/internal/prefs"
)

// Panel identifies which panel is active
type Panel int

const (
	PanelList Panel = iota
	PanelTreemap
)

// openMsg opens a directory once the UI has rendered
type openMsg struct {
	path string
}

// pollMsg drains the coordinator's events and redraws
type pollMsg struct{}

// Spinner frames - cyberpunk style
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Timing constants
const (
	spinnerFrameInterval = 80 * time.Millisecond
	borderRotationSpeed  = 50  // milliseconds per frame
	dotAnimationSpeed    = 400 // milliseconds per frame
	watchDebounce        = time.Second
	defaultPollInterval  = 50 * time.Millisecond
	minTreemapWidth      = 90 // below this the list gets the whole width
)

// phaseLog lists the running phases in the order a scan passes through them
var phaseLog = []core.ScanPhase{
	core.PhaseListing,
	core.PhaseEmittingFiles,
	core.PhaseAggregatingFolders,
}

// Options configures the application
type Options struct {
	// StartPath is opened first; empty means the controller's start path
	StartPath string

	Sort         model.SortMode
	PollInterval time.Duration

	// Watch refreshes the view after the directory changes on disk
	Watch bool

	Prefs *prefs.Manager
}

// App is the main application model
type App struct {
	// Components
	header        Header
	list          ListPanel
	treemap       TreemapPanel
	help          HelpOverlay
	driveSelector DriveSelector
	properties    PropertiesOverlay
	pathInput     PathInput

	// State
	keys KeyMap
	ctrl *core.Controller
	opts Options

	// Current scan
	gen        core.Generation
	entries    []model.Entry
	result     *model.ScanResult
	previous   *model.ScanResult // shown before a refresh, compared on completion
	scanning   bool
	phase      core.ScanPhase
	progress   core.ProgressEvent
	focusName  string // entry to select once the scan completes
	err        error
	notice     string
	staleSince time.Time

	// UI state
	activePanel Panel
	showTreemap bool

	// Dimensions
	width  int
	height int
}

// NewApp creates an application driving ctrl. exists validates typed paths.
func NewApp(ctrl *core.Controller, exists func(string) bool, opts Options) App {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}

	showTreemap := true
	if opts.Prefs != nil {
		if p := opts.Prefs.Get(); p.ShowTreemap != nil {
			showTreemap = *p.ShowTreemap
		}
	}

	drives := ctrl.Drives()
	app := App{
		header:        NewHeader(drives),
		list:          NewListPanel(opts.Sort),
		treemap:       NewTreemapPanel(),
		help:          NewHelpOverlay(),
		driveSelector: NewDriveSelector(drives),
		pathInput:     NewPathInput(exists),
		keys:          DefaultKeyMap(),
		ctrl:          ctrl,
		opts:          opts,
		activePanel:   PanelList,
		showTreemap:   showTreemap,
		scanning:      true,
	}

	app.list.SetFocused(true)
	app.treemap.SetFocused(false)
	app.header.SetSelected(ctrl.SelectedDriveIndex())
	app.header.SetScanning(true, "")

	return app
}

// Init implements tea.Model
func (a App) Init() tea.Cmd {
	path := a.opts.StartPath
	return tea.Batch(
		tea.SetWindowTitle("FOLDERSIZE"),
		func() tea.Msg { return openMsg{path: path} },
		a.pollCmd(),
	)
}

func (a App) pollCmd() tea.Cmd {
	return tea.Tick(a.opts.PollInterval, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.KeyMsg:
		m, cmd := a.handleKey(msg)
		app := m.(App)
		app.updateLayout()
		return app, cmd

	case openMsg:
		path := msg.path
		if path == "" {
			path = a.ctrl.StartPath()
		}
		if path == "" {
			path, _ = os.Getwd()
		}
		a.afterNavigate(a.ctrl.Open(path))
		a.updateLayout()
		return a, nil

	case pollMsg:
		a.poll()
		a.updateLayout()
		return a, a.pollCmd()
	}

	return a, nil
}

// poll applies the events of the current generation and handles staleness
func (a *App) poll() {
	events := a.ctrl.Poll()
	discovered := false
	for _, ev := range events {
		if ev.Generation() != a.gen {
			continue
		}
		if _, ok := ev.(core.EntryDiscoveredEvent); ok {
			discovered = true
		}
		a.handleEvent(ev)
	}
	if discovered && a.scanning {
		a.showEntries(a.entries, runningTotal(a.entries))
	}

	if a.scanning || !a.opts.Watch {
		return
	}
	changed, stale := a.ctrl.Stale()
	if !stale {
		a.staleSince = time.Time{}
		return
	}
	if a.staleSince.IsZero() {
		a.staleSince = time.Now()
		a.notice = "Changed on disk: " + filepath.Base(changed)
		return
	}
	if time.Since(a.staleSince) >= watchDebounce {
		logging.Debug.Printf("[UI] %s changed, refreshing", changed)
		a.refresh()
	}
}

// handleEvent applies one event of the current generation
func (a *App) handleEvent(ev core.Event) {
	switch e := ev.(type) {
	case core.EntryDiscoveredEvent:
		a.entries = append(a.entries, e.Entry)

	case core.ProgressEvent:
		a.progress = e
		a.header.SetScanning(true, a.progressText())

	case core.PhaseChangedEvent:
		a.phase = e.Phase

	case core.CompletedEvent:
		result := e.Result
		a.result = &result
		a.scanning = false
		a.phase = core.PhaseCompleted
		a.entries = append(a.entries[:0], result.Entries...)
		a.header.SetScanning(false, "")
		a.header.SetResult(&result, e.FromCache)

		if a.previous != nil && a.previous.Path == result.Path {
			if diff := cache.Compare(*a.previous, result); diff.Changed() {
				a.list.SetDiff(diff)
			}
		}
		a.previous = nil
		a.showEntries(result.Entries, result.TotalSize)
		if a.focusName != "" {
			a.list.SelectName(a.focusName)
			a.focusName = ""
		}
		a.syncTreemap()
		logging.Debug.Printf("[UI] gen %d complete: %d entries (cached=%v)", e.Gen, len(result.Entries), e.FromCache)

	case core.CancelledEvent:
		a.scanning = false
		a.phase = core.PhaseCancelled
		a.previous = nil
		a.header.SetScanning(false, "")
		a.notice = fmt.Sprintf("Scan cancelled: %d of %d entries sized, totals incomplete",
			len(a.entries), max(a.progress.Total, len(a.entries)))
		a.showEntries(a.entries, runningTotal(a.entries))

	case core.FailedEvent:
		a.scanning = false
		a.phase = core.PhaseFailed
		a.previous = nil
		a.header.SetScanning(false, "")
		a.err = e.Err
		if a.err == nil {
			a.err = errors.New(e.Reason)
		}
		logging.Debug.Printf("[UI] gen %d failed: %v", e.Gen, a.err)
	}
}

// progressText summarizes the running scan for the header
func (a App) progressText() string {
	p := a.progress
	text := fmt.Sprintf("%d/%d", p.Processed, p.Total)
	if p.Current != "" {
		text += " · " + p.Current
	}
	if p.FilesScanned > 0 {
		text += fmt.Sprintf(" · %s files · %s",
			humanize.Comma(p.FilesScanned), FormatSize(uint64(max(p.BytesFound, 0))))
	}
	return text
}

// begin resets the view for a new generation of the current directory
func (a *App) begin(gen core.Generation) {
	a.gen = gen
	a.entries = nil
	a.result = nil
	a.scanning = true
	a.phase = core.PhaseListing
	a.progress = core.ProgressEvent{}
	a.err = nil
	a.notice = ""
	a.staleSince = time.Time{}

	a.header.SetPath(a.ctrl.Current())
	a.header.SetSelected(a.ctrl.SelectedDriveIndex())
	a.header.SetResult(nil, false)
	a.header.SetScanning(true, "")
	a.list.Clear()
	a.treemap.SetEntries(nil)
}

// afterNavigate starts showing gen, or reports why navigation failed
func (a *App) afterNavigate(gen core.Generation, err error) {
	switch {
	case err == nil:
		a.begin(gen)
	case errors.Is(err, core.ErrBusy):
		a.notice = "A scan is already running, stop it first (x)"
	case errors.Is(err, core.ErrAtRoot):
	default:
		a.err = err
		a.scanning = false
		a.header.SetScanning(false, "")
	}
	if err != nil {
		logging.Debug.Printf("[UI] navigation: %v", err)
	}
}

// refresh rescans the current directory, keeping its result to compare
func (a *App) refresh() {
	previous := a.result
	if sel, ok := a.list.Selected(); ok {
		a.focusName = sel.Name
	}
	gen, err := a.ctrl.Refresh()
	a.afterNavigate(gen, err)
	if err == nil {
		a.previous = previous
	}
}

// showEntries pushes entries into both panels
func (a *App) showEntries(entries []model.Entry, total uint64) {
	a.list.SetEntries(entries, total)
	a.treemap.SetEntries(a.list.Entries())
	a.syncTreemap()
}

// syncTreemap selects the list's entry in the treemap
func (a *App) syncTreemap() {
	if e, ok := a.list.Selected(); ok {
		a.treemap.SetSelected(e.Name)
	}
}

// syncList selects the treemap's entry in the list
func (a *App) syncList() {
	if name := a.treemap.Selected(); name != "" {
		a.list.SelectName(name)
	}
}

// selected returns the entry selected in the active panel
func (a App) selected() (model.Entry, bool) {
	if a.activePanel == PanelTreemap {
		name := a.treemap.Selected()
		for _, e := range a.list.Entries() {
			if e.Name == name {
				return e, true
			}
		}
		return model.Entry{}, false
	}
	return a.list.Selected()
}

func runningTotal(entries []model.Entry) uint64 {
	var total uint64
	for _, e := range entries {
		total += e.Size
	}
	return total
}

// handleKey handles keyboard input
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	// Help overlay takes precedence
	if a.help.IsVisible() {
		if key.Matches(msg, a.keys.Help) || key.Matches(msg, a.keys.Back) || key.Matches(msg, a.keys.Stop) {
			a.help.SetVisible(false)
		}
		return a, nil
	}

	if a.properties.IsVisible() {
		if key.Matches(msg, a.keys.Properties) || key.Matches(msg, a.keys.Back) ||
			key.Matches(msg, a.keys.Stop) || key.Matches(msg, a.keys.Enter) {
			a.properties.Hide()
		}
		return a, nil
	}

	if a.pathInput.IsVisible() {
		switch msg.Type {
		case tea.KeyEsc:
			a.pathInput.Hide()
			return a, nil
		case tea.KeyEnter:
			path, ok := a.pathInput.Submit()
			if !ok {
				return a, nil
			}
			gen, err := a.ctrl.Open(path)
			if errors.Is(err, core.ErrNotFound) {
				cmd := a.pathInput.Show(path)
				a.pathInput.SetError(err.Error())
				return a, cmd
			}
			a.afterNavigate(gen, err)
			return a, nil
		}
		return a, a.pathInput.Update(msg)
	}

	// Drive selector overlay
	if a.driveSelector.IsVisible() {
		switch {
		case key.Matches(msg, a.keys.Back), key.Matches(msg, a.keys.Stop):
			a.driveSelector.SetVisible(false)
		case key.Matches(msg, a.keys.Up):
			a.driveSelector.MoveUp()
		case key.Matches(msg, a.keys.Down):
			a.driveSelector.MoveDown()
		case key.Matches(msg, a.keys.Enter):
			a.driveSelector.SetVisible(false)
			a.afterNavigate(a.ctrl.SelectDrive(a.driveSelector.Selected()))
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.help.Toggle()

	case key.Matches(msg, a.keys.SelectDrive):
		if len(a.ctrl.Drives()) > 0 {
			a.driveSelector.SetSelected(a.ctrl.SelectedDriveIndex())
			a.driveSelector.SetVisible(true)
		}

	case key.Matches(msg, a.keys.OpenPath):
		return a, a.pathInput.Show(a.ctrl.Current())

	case key.Matches(msg, a.keys.Tab):
		if !a.showTreemap || a.width < minTreemapWidth {
			return a, nil
		}
		if a.activePanel == PanelList {
			a.activePanel = PanelTreemap
			a.list.SetFocused(false)
			a.treemap.SetFocused(true)
			a.syncTreemap()
			if a.treemap.Selected() == "" {
				a.treemap.SelectFirst()
			}
		} else {
			a.activePanel = PanelList
			a.list.SetFocused(true)
			a.treemap.SetFocused(false)
			a.syncList()
		}

	case key.Matches(msg, a.keys.Treemap):
		a.showTreemap = !a.showTreemap
		if a.opts.Prefs != nil {
			a.opts.Prefs.SetShowTreemap(a.showTreemap)
		}
		if !a.showTreemap && a.activePanel == PanelTreemap {
			a.activePanel = PanelList
			a.list.SetFocused(true)
			a.treemap.SetFocused(false)
		}
		a.updateLayout()

	case key.Matches(msg, a.keys.Up):
		a.move(func() { a.list.MoveUp() }, 0, -1)
	case key.Matches(msg, a.keys.Down):
		a.move(func() { a.list.MoveDown() }, 0, 1)
	case key.Matches(msg, a.keys.Left):
		if a.activePanel == PanelTreemap {
			a.treemap.MoveToBlock(-1, 0)
			a.syncList()
		}
	case key.Matches(msg, a.keys.Right):
		if a.activePanel == PanelTreemap {
			a.treemap.MoveToBlock(1, 0)
			a.syncList()
		}
	case key.Matches(msg, a.keys.Top):
		a.move(func() { a.list.GoToTop() }, 0, 0)
	case key.Matches(msg, a.keys.Bottom):
		a.move(func() { a.list.GoToBottom() }, 0, 0)
	case key.Matches(msg, a.keys.PageUp):
		a.move(func() { a.list.PageUp() }, 0, 0)
	case key.Matches(msg, a.keys.PageDown):
		a.move(func() { a.list.PageDown() }, 0, 0)

	case key.Matches(msg, a.keys.Enter):
		if e, ok := a.selected(); ok && e.IsFolder() {
			a.focusName = ""
			a.afterNavigate(a.ctrl.Enter(e.Name))
		}

	case key.Matches(msg, a.keys.Back):
		current := a.ctrl.Current()
		gen, err := a.ctrl.Up()
		if err == nil {
			a.focusName = filepath.Base(current)
		}
		a.afterNavigate(gen, err)

	case key.Matches(msg, a.keys.Refresh):
		a.refresh()

	case key.Matches(msg, a.keys.Stop):
		if a.scanning {
			a.ctrl.Stop()
		}

	case key.Matches(msg, a.keys.CycleSort):
		mode := a.list.SortMode().Next()
		a.list.SetSort(mode)
		a.treemap.SetEntries(a.list.Entries())
		a.syncTreemap()
		if a.opts.Prefs != nil {
			a.opts.Prefs.SetSortMode(mode.String())
		}

	case key.Matches(msg, a.keys.Properties):
		if e, ok := a.selected(); ok {
			a.properties.Show(LoadProperties(a.ctrl.Current(), e))
		}

	case key.Matches(msg, a.keys.OpenExplorer):
		a.openInExplorer()
	}

	return a, nil
}

// move moves the list cursor with listMove, or the treemap selection by
// (dx, dy) when the treemap is active. A zero step only applies to the list.
func (a *App) move(listMove func(), dx, dy int) {
	if a.activePanel == PanelTreemap {
		if dx != 0 || dy != 0 {
			a.treemap.MoveToBlock(dx, dy)
			a.syncList()
		}
		return
	}
	listMove()
	a.syncTreemap()
}

// openInExplorer opens the selected folder, or the current directory for
// files, in the system file manager
func (a *App) openInExplorer() {
	path := a.ctrl.Current()
	if e, ok := a.selected(); ok && e.IsFolder() {
		path = filepath.Join(path, e.Name)
	}
	if path == "" {
		return
	}
	logging.Debug.Printf("openInExplorer: opening %s", path)
	if err := openInFileManager(path); err != nil {
		logging.Debug.Printf("openInExplorer: error: %v", err)
	}
}

// statusLine is the error or notice shown under the header, if any
func (a App) statusLine() string {
	switch {
	case a.err != nil:
		return ErrorStyle.MaxWidth(a.width).Render("Error: " + a.err.Error())
	case a.notice != "":
		return NoticeStyle.MaxWidth(a.width).Render(a.notice)
	}
	return ""
}

// panelHeight is what is left for the panels under the header and status line
func (a App) panelHeight() int {
	h := a.height - 3 // header + help bar
	if a.statusLine() != "" {
		h--
	}
	return max(h, 3)
}

// updateLayout calculates component sizes based on window dimensions
func (a *App) updateLayout() {
	panelHeight := a.panelHeight()

	listWidth := a.width
	if a.showTreemap && a.width >= minTreemapWidth {
		listWidth = a.width * 55 / 100
	}

	a.header.SetWidth(a.width)
	a.list.SetSize(listWidth, panelHeight)
	a.treemap.SetSize(a.width-listWidth, panelHeight)
	a.help.SetSize(a.width, a.height)
	a.driveSelector.SetSize(a.width, a.height)
	a.properties.SetSize(a.width, a.height)
	a.pathInput.SetSize(a.width, a.height)
}

// renderSpinningBorder draws a box with a gradient border that spins over time
func renderSpinningBorder(content string, width, height int, t time.Time) string {
	// Cyberpunk neon gradient: cyan → blue → purple → magenta → pink
	shades := []string{
		"#00FFFF", // cyan
		"#00D4FF", // light blue
		"#00AAFF", // sky blue
		"#0080FF", // blue
		"#4060FF", // indigo
		"#8040FF", // violet
		"#A020F0", // purple
		"#C020C0", // magenta
		"#E040A0", // pink-magenta
		"#FF60B0", // hot pink
		"#E040A0", // pink-magenta
		"#C020C0", // magenta
		"#A020F0", // purple
		"#8040FF", // violet
		"#4060FF", // indigo
		"#0080FF", // blue
		"#00AAFF", // sky blue
		"#00D4FF", // light blue
	}

	innerW := width - 2
	innerH := height - 2
	perimeter := 2*innerW + 2*innerH + 4 // +4 for corners

	offset := int(t.UnixMilli()/borderRotationSpeed) % perimeter

	getColor := func(pos int) lipgloss.Style {
		adjustedPos := (pos - offset + perimeter) % perimeter
		shadeIdx := (adjustedPos * len(shades) / perimeter) % len(shades)
		return lipgloss.NewStyle().Foreground(lipgloss.Color(shades[shadeIdx]))
	}

	const (
		topLeft     = "╭"
		topRight    = "╮"
		bottomLeft  = "╰"
		bottomRight = "╯"
		horizontal  = "─"
		vertical    = "│"
	)

	var result strings.Builder
	pos := 0

	result.WriteString(getColor(pos).Render(topLeft))
	pos++
	for i := 0; i < innerW; i++ {
		result.WriteString(getColor(pos).Render(horizontal))
		pos++
	}
	result.WriteString(getColor(pos).Render(topRight))
	pos++
	result.WriteString("\n")

	contentLines := strings.Split(content, "\n")
	for len(contentLines) < innerH {
		contentLines = append(contentLines, "")
	}

	for i := 0; i < innerH; i++ {
		// Left side goes in reverse
		result.WriteString(getColor(perimeter - 1 - i).Render(vertical))

		line := contentLines[i]
		if w := lipgloss.Width(line); w < innerW {
			line += strings.Repeat(" ", innerW-w)
		}
		result.WriteString(line)

		result.WriteString(getColor(pos).Render(vertical))
		pos++
		result.WriteString("\n")
	}

	bottomStart := pos
	result.WriteString(getColor(perimeter - innerH - 1).Render(bottomLeft))
	for i := 0; i < innerW; i++ {
		result.WriteString(getColor(bottomStart + innerW - i).Render(horizontal))
	}
	result.WriteString(getColor(bottomStart).Render(bottomRight))

	return result.String()
}

// scanningView renders the boot-style phase log shown before any entry arrives
func (a App) scanningView(height int) string {
	doneStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
	activeStyle := lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)

	now := time.Now()
	spinner := spinnerFrames[int(now.UnixMilli()/spinnerFrameInterval.Milliseconds())%len(spinnerFrames)]

	var logLines []string
	for _, phase := range phaseLog {
		if phase > a.phase {
			break
		}
		stats := ""
		if phase == core.PhaseAggregatingFolders && a.progress.Total > 0 {
			stats = " · " + a.progressText()
		}
		if phase < a.phase {
			logLines = append(logLines, fmt.Sprintf("  %s %s",
				doneStyle.Render("✓"), doneStyle.Render(phase.String())))
			continue
		}
		dots := strings.Repeat(".", int(now.UnixMilli()/dotAnimationSpeed)%3+1)
		logLines = append(logLines, fmt.Sprintf("  %s %s",
			activeStyle.Render(spinner), activeStyle.Render(phase.String()+dots+stats)))
	}

	totalLines := len(phaseLog)
	for len(logLines) < totalLines {
		logLines = append([]string{""}, logLines...)
	}

	innerContent := lipgloss.NewStyle().
		Padding(1, 3).
		Width(58).
		Height(totalLines).
		MaxWidth(58).
		Render(strings.Join(logLines, "\n"))

	box := renderSpinningBorder(innerContent, 60, totalLines+4, now)
	return lipgloss.Place(a.width, height, lipgloss.Center, lipgloss.Center, box)
}

// View implements tea.Model
func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		if a.scanning {
			return "Scanning..."
		}
		return "Loading..."
	}

	sections := []string{a.header.View()}
	if status := a.statusLine(); status != "" {
		sections = append(sections, status)
	}

	panelHeight := a.panelHeight()
	switch {
	case a.scanning && len(a.entries) == 0:
		sections = append(sections, a.scanningView(panelHeight))
	case a.phase == core.PhaseFailed && len(a.entries) == 0:
		msg := ErrorStyle.Render("Scan failed. Press r to retry or ⌫ to go up.")
		sections = append(sections, lipgloss.Place(a.width, panelHeight, lipgloss.Center, lipgloss.Center, msg))
	default:
		panels := a.list.View()
		if a.showTreemap && a.width >= minTreemapWidth {
			panels = lipgloss.JoinHorizontal(lipgloss.Top, panels, a.treemap.View())
		}
		sections = append(sections, panels)
	}

	sections = append(sections, HelpBar(a.width))
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	var overlay string
	switch {
	case a.help.IsVisible():
		overlay = a.help.View()
	case a.properties.IsVisible():
		overlay = a.properties.View()
	case a.pathInput.IsVisible():
		overlay = a.pathInput.View()
	case a.driveSelector.IsVisible():
		overlay = a.driveSelector.View()
	default:
		return content
	}
	return lipgloss.Place(
		a.width, a.height,
		lipgloss.Center, lipgloss.Center,
		overlay,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorBackground),
	)
}

// Run starts the terminal UI and blocks until the user quits
func Run(ctrl *core.Controller, exists func(string) bool, opts Options) error {
	p := tea.NewProgram(NewApp(ctrl, exists, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
