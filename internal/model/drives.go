package model

import (
	"fmt"
	"os"
)

// Drive represents a mounted drive/volume the user can scan
type Drive struct {
	Letter     string // short tab label, e.g. "C" or "Macintosh HD"
	Path       string // scan root, e.g. "C:\\" or "/"
	Label      string
	TotalBytes int64
	FreeBytes  int64
}

// UsedBytes returns bytes used on this drive
func (d Drive) UsedBytes() int64 {
	return d.TotalBytes - d.FreeBytes
}

// UsedPercent returns percentage of drive used
func (d Drive) UsedPercent() float64 {
	if d.TotalBytes == 0 {
		return 0
	}
	return float64(d.UsedBytes()) / float64(d.TotalBytes) * 100
}

// GetDrives returns all available drives on the system
func GetDrives() ([]Drive, error) {
	return getPlatformDrives()
}

// DriveFor returns the drive whose path is the longest prefix of path
func DriveFor(drives []Drive, path string) (Drive, bool) {
	best := -1
	for i, d := range drives {
		if IsWithin(path, d.Path) && (best < 0 || len(d.Path) > len(drives[best].Path)) {
			best = i
		}
	}
	if best < 0 {
		return Drive{}, false
	}
	return drives[best], true
}

func getWindowsDrives() ([]Drive, error) {
	var drives []Drive

	for letter := 'A'; letter <= 'Z'; letter++ {
		path := fmt.Sprintf("%c:\\", letter)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			continue
		}

		drive := Drive{
			Letter: string(letter),
			Path:   path,
			Label:  string(letter) + ":",
		}
		drive.TotalBytes, drive.FreeBytes = GetDiskSpace(path)

		drives = append(drives, drive)
	}

	return drives, nil
}
