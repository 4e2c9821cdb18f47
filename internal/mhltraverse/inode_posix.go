//go:build !windows

package mhltraverse

import (
	"os"
	"syscall"
)

// deviceInodeKey extracts a (device, inode) pair from file info, used to
// detect symbolic link loops during traversal.
func deviceInodeKey(info os.FileInfo) (visitKey, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return visitKey{}, false
	}
	return visitKey{device: uint64(stat.Dev), inode: stat.Ino}, true
}
