//go:build darwin

package model

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// GetDiskSpace returns disk space information for a given path using statfs
func GetDiskSpace(path string) (total, free int64) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, 0
	}

	total = int64(stat.Blocks) * int64(stat.Bsize)
	free = int64(stat.Bavail) * int64(stat.Bsize)
	return total, free
}

func getPlatformDrives() ([]Drive, error) {
	var drives []Drive

	rootDrive := Drive{
		Letter: "Macintosh HD",
		Path:   "/",
		Label:  "Macintosh HD",
	}
	rootDrive.TotalBytes, rootDrive.FreeBytes = GetDiskSpace("/")
	drives = append(drives, rootDrive)

	volumesDir := "/Volumes"
	entries, err := os.ReadDir(volumesDir)
	if err != nil {
		return drives, nil
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		volumePath := filepath.Join(volumesDir, entry.Name())

		var stat unix.Statfs_t
		if err := unix.Statfs(volumePath, &stat); err != nil {
			continue
		}

		if isFilteredFilesystem(unix.ByteSliceToString(stat.Fstypename[:])) {
			continue
		}

		drive := Drive{
			Letter: entry.Name(),
			Path:   volumePath,
			Label:  entry.Name(),
		}
		drive.TotalBytes, drive.FreeBytes = GetDiskSpace(volumePath)

		if drive.TotalBytes > 0 {
			drives = append(drives, drive)
		}
	}

	return drives, nil
}
