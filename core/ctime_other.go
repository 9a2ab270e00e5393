//go:build !linux && !darwin

package core

import (
	"io/fs"
	"time"
)

// changeTime falls back to the modification time where ctime is not exposed.
func changeTime(info fs.FileInfo) time.Time {
	return info.ModTime()
}
