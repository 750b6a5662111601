//go:build !darwin

package ui

import (
	"os"
	"time"
)

// getCreationTime returns zero time on platforms where birthtime isn't exposed
func getCreationTime(os.FileInfo) time.Time {
	return time.Time{}
}
