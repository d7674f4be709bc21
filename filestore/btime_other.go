//go:build !linux && !darwin && !freebsd && !netbsd && !windows

package filestore

import (
	"os"
	"time"
)

func createdAt(_ string, stat os.FileInfo) time.Time {
	return stat.ModTime()
}
