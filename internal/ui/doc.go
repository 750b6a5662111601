// Package ui implements the terminal user interface for foldersize using
// Bubbletea. The App polls the scan coordinator on a timer and renders the
// current directory as a sortable list and a treemap.
package ui
