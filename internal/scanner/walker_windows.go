//go:build windows

package scanner

import "io/fs"

// Drives are separate roots on Windows, so there is no device to compare.
type deviceID struct{}

func deviceOf(path string) (deviceID, bool) {
	return deviceID{}, false
}

func onOtherDevice(info fs.FileInfo, dev deviceID) bool {
	return false
}

func allocatedSize(info fs.FileInfo) uint64 {
	return uint64(max(info.Size(), 0))
}
