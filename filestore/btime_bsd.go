//go:build darwin || freebsd || netbsd

package filestore

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

func createdAt(fullPath string, stat os.FileInfo) time.Time {
	var st unix.Stat_t
	if err := unix.Stat(fullPath, &st); err != nil {
		return stat.ModTime()
	}
	return time.Unix(st.Birthtimespec.Unix())
}
