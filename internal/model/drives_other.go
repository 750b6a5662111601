//go:build !windows && !darwin

package model

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

const mountsFile = "/proc/self/mounts"

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
	f, err := os.Open(mountsFile)
	if err != nil {
		return fallbackDrives(), nil
	}
	defer f.Close()

	drives := parseMounts(bufio.NewScanner(f))
	if len(drives) == 0 {
		return fallbackDrives(), nil
	}
	for i := range drives {
		drives[i].TotalBytes, drives[i].FreeBytes = GetDiskSpace(drives[i].Path)
	}
	return drives, nil
}

// parseMounts reads fstab-formatted lines, keeping one drive per real mount point
func parseMounts(sc *bufio.Scanner) []Drive {
	var drives []Drive
	seen := make(map[string]bool)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			continue
		}
		mountPoint := unescapeMount(fields[1])
		if seen[mountPoint] || isFilteredFilesystem(fields[2]) {
			continue
		}
		if mountPoint != "/" && !strings.HasPrefix(fields[0], "/") {
			continue
		}
		seen[mountPoint] = true

		label := filepath.Base(mountPoint)
		if mountPoint == "/" {
			label = "/"
		}
		drives = append(drives, Drive{Letter: label, Path: mountPoint, Label: mountPoint})
	}
	return drives
}

// unescapeMount decodes the octal escapes the kernel uses for spaces and tabs
func unescapeMount(s string) string {
	r := strings.NewReplacer(`\040`, " ", `\011`, "\t", `\012`, "\n", `\134`, `\`)
	return r.Replace(s)
}

func fallbackDrives() []Drive {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = "/"
	}
	d := Drive{Letter: "~", Path: home, Label: home}
	d.TotalBytes, d.FreeBytes = GetDiskSpace(home)
	return []Drive{d}
}
