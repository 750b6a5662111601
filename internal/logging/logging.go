package logging

import (
	"io"
	"log"
	"os"
)

// DefaultFile is where debug output goes when enabled
const DefaultFile = "foldersize-debug.log"

var (
	Debug   *log.Logger
	Scanner *log.Logger
	Enabled bool
)

func init() {
	// Only enable logging if FOLDERSIZE_DEBUG environment variable is set
	if os.Getenv("FOLDERSIZE_DEBUG") == "" {
		Debug = log.New(io.Discard, "", 0)
		Scanner = log.New(io.Discard, "", 0)
		Enabled = false
		return
	}
	Enable(DefaultFile)
}

// Enable turns debug logging on, appending to path. If the file cannot be
// opened the loggers fall back to stderr.
func Enable(path string) {
	Enabled = true

	debugFile, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		Debug = log.New(os.Stderr, "[DEBUG] ", log.Ldate|log.Ltime)
		Scanner = log.New(os.Stderr, "[SCANNER] ", log.Ldate|log.Ltime)
		return
	}

	// Loggers share the same file
	Debug = log.New(debugFile, "", log.Lmicroseconds)
	Scanner = log.New(debugFile, "", log.Lmicroseconds)
}
