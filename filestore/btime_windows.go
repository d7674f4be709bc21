package filestore

import (
	"os"
	"syscall"
	"time"
)

func createdAt(_ string, stat os.FileInfo) time.Time {
	data, ok := stat.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return stat.ModTime()
	}
	return time.Unix(0, data.CreationTime.Nanoseconds())
}
