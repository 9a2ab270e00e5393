//go:build linux

package core

import (
	"io/fs"
	"syscall"
	"time"
)

// changeTime returns the inode change time, falling back to the modification time.
func changeTime(info fs.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec))
	}
	return info.ModTime()
}
