package model

// isFilteredFilesystem returns true if the filesystem type should not be
// offered as a scan root
func isFilteredFilesystem(fsType string) bool {
	switch fsType {
	// Network filesystems
	case "smbfs", "nfs", "nfs4", "afpfs", "webdav", "cifs", "fuse.sshfs":
		return true
	// Pseudo filesystems
	case "devfs", "autofs", "mtmfs", "nullfs", "proc", "sysfs", "devtmpfs",
		"devpts", "tmpfs", "cgroup", "cgroup2", "securityfs", "debugfs",
		"tracefs", "pstore", "bpf", "mqueue", "hugetlbfs", "configfs",
		"fusectl", "binfmt_misc", "overlay", "squashfs", "nsfs", "ramfs",
		"rpc_pipefs", "efivarfs":
		return true
	}
	return false
}
