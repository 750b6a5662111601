package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Prefs holds preferences remembered between runs
type Prefs struct {
	LastPath     string `json:"last_path,omitempty"`
	DefaultDrive string `json:"default_drive,omitempty"` // Path of drive to show on startup
	SortMode     string `json:"sort_mode,omitempty"`
	ShowTreemap  *bool  `json:"show_treemap,omitempty"`
}

// Manager handles loading and saving preferences
type Manager struct {
	path         string
	prefs        Prefs
	mu           sync.RWMutex
	dirty        bool
	saveTimer    *time.Timer
	saveDuration time.Duration
}

// NewManager creates a manager for the default preferences file
func NewManager() *Manager {
	return NewManagerAt(DefaultPath())
}

// NewManagerAt creates a manager for the file at path
func NewManagerAt(path string) *Manager {
	return &Manager{
		path:         path,
		saveDuration: 2 * time.Second, // Debounce saves
	}
}

// DefaultPath returns the default preferences file path
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".foldersize-prefs.json"
	}
	return filepath.Join(dir, "foldersize", "prefs.json")
}

// Load loads preferences from disk
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			m.prefs = Prefs{}
			return nil
		}
		return err
	}

	return json.Unmarshal(data, &m.prefs)
}

// Save saves preferences to disk immediately
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saveLocked()
}

// saveLocked saves preferences without acquiring the lock (caller must hold lock)
func (m *Manager) saveLocked() error {
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(m.prefs, "", "  ")
	if err != nil {
		return err
	}

	m.dirty = false
	return os.WriteFile(m.path, data, 0644)
}

// Get returns a copy of the current preferences
func (m *Manager) Get() Prefs {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prefs
}

// LastPath returns the last directory the user viewed
func (m *Manager) LastPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prefs.LastPath
}

// DefaultDrive returns the default drive path
func (m *Manager) DefaultDrive() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prefs.DefaultDrive
}

// SortMode returns the remembered sort mode name
func (m *Manager) SortMode() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prefs.SortMode
}

// SetLastPath remembers the directory being viewed
func (m *Manager) SetLastPath(path string) {
	m.update(func(p *Prefs) bool {
		if p.LastPath == path {
			return false
		}
		p.LastPath = path
		return true
	})
}

// SetDefaultDrive remembers the selected drive
func (m *Manager) SetDefaultDrive(path string) {
	m.update(func(p *Prefs) bool {
		if p.DefaultDrive == path {
			return false
		}
		p.DefaultDrive = path
		return true
	})
}

// SetSortMode remembers the sort mode name
func (m *Manager) SetSortMode(mode string) {
	m.update(func(p *Prefs) bool {
		if p.SortMode == mode {
			return false
		}
		p.SortMode = mode
		return true
	})
}

// SetShowTreemap remembers whether the treemap panel is visible
func (m *Manager) SetShowTreemap(show bool) {
	m.update(func(p *Prefs) bool {
		if p.ShowTreemap != nil && *p.ShowTreemap == show {
			return false
		}
		p.ShowTreemap = &show
		return true
	})
}

// update applies fn and schedules a debounced save if it changed anything
func (m *Manager) update(fn func(*Prefs) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !fn(&m.prefs) {
		return
	}
	m.dirty = true

	// Cancel any pending save timer
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(m.saveDuration, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.dirty {
			_ = m.saveLocked() // Ignore errors for background save
		}
	})
}

// Close ensures any pending saves are written
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}

	if m.dirty {
		return m.saveLocked()
	}
	return nil
}
