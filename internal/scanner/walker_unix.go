//go:build !windows

package scanner

import (
	"io/fs"
	"syscall"
)

type deviceID uint64

// deviceOf returns the device the path lives on
func deviceOf(path string) (deviceID, bool) {
	var stat syscall.Stat_t
	if err := syscall.Stat(path, &stat); err != nil {
		return 0, false
	}
	return deviceID(stat.Dev), true
}

// onOtherDevice reports whether a directory is a mount point of another filesystem
func onOtherDevice(info fs.FileInfo, dev deviceID) bool {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}
	return deviceID(stat.Dev) != dev
}

// allocatedSize returns the bytes actually allocated on disk.
// Blocks is in 512-byte units.
func allocatedSize(info fs.FileInfo) uint64 {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok || stat.Blocks < 0 {
		return uint64(max(info.Size(), 0))
	}
	return uint64(stat.Blocks) * 512
}
