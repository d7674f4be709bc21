package filestore

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// createdAt reads the birth time through statx. Filesystems that do not record it fall back to the
// modification time.
func createdAt(fullPath string, stat os.FileInfo) time.Time {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, fullPath, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME, &stx)
	if err != nil || stx.Mask&unix.STATX_BTIME == 0 {
		return stat.ModTime()
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
}
