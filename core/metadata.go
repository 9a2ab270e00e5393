package core

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/schema"
)

// statMetadata fills the filesystem part of the metadata.
// A stat failure is recorded in the error field.
func statMetadata(fsys fs.FS, relPath string, now time.Time, oldAfter time.Duration) schema.FileMetadata {
	var m schema.FileMetadata
	info, err := fs.Stat(fsys, relPath)
	if err != nil {
		m.Error = schema.Some(err.Error())
		return m
	}
	modTime := info.ModTime()
	m.SizeBytes = schema.Some(info.Size())
	m.ModifiedTime = schema.Some(modTime.Local().Format(time.RFC3339))
	m.CreatedTime = schema.Some(changeTime(info).Local().Format(time.RFC3339))
	m.IsOld = schema.Some(modTime.Before(now.Add(-oldAfter)))
	return m
}

// queryGitMetadata asks git for the last commit date and commit count of relPath.
// Missing results leave fields absent. Any other failure stops the queries
// and is returned so the caller can record it.
func queryGitMetadata(ctx context.Context, client contract.GitClient, root, relPath string) (schema.GitMetadata, error) {
	var g schema.GitMetadata

	date, err := client.GetLastCommitDate(ctx, root, relPath)
	switch {
	case err == nil:
		g.LastGitCommit = schema.Some(date)
	case !errors.Is(err, contract.ErrNoGitResult):
		return g, err
	}

	count, err := client.GetCommitCount(ctx, root, relPath)
	switch {
	case err == nil:
		g.GitCommitCount = schema.Some(count)
	case !errors.Is(err, contract.ErrNoGitResult):
		return g, err
	}
	return g, nil
}
