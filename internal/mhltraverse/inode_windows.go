//go:build windows

package mhltraverse

import "os"

// deviceInodeKey is unavailable on Windows (no stable device/inode pair is
// exposed through os.FileInfo), so symlink loop detection is disabled there;
// Windows symbolic link creation requires elevated privileges in practice,
// making loops far less likely to occur accidentally.
func deviceInodeKey(info os.FileInfo) (visitKey, bool) {
	return visitKey{}, false
}
