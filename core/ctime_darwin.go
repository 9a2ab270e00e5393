//go:build darwin

package core

import (
	"io/fs"
	"syscall"
	"time"
)

// changeTime returns the inode change time, falling back to the modification time.
func changeTime(info fs.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Ctimespec.Sec, st.Ctimespec.Nsec)
	}
	return info.ModTime()
}
