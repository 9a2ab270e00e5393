// Package contract provides interfaces and shared utilities for testhealth's internal architecture.
package contract

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/testhealth/schema"
)

var (
	// ErrGitExit is returned when git runs but exits with a non-zero status.
	ErrGitExit = errors.New("git exited with non-zero status")

	// ErrNoGitResult is returned when a git query has nothing to report for a path.
	// Callers treat it as "field not available" rather than as a failure.
	ErrNoGitResult = errors.New("no git result")
)

// GitClient defines the version-control queries made while collecting file metadata.
// This allows the core analysis logic to be tested without needing a real git executable.
type GitClient interface {
	// Run executes a git command against repoPath and returns its stdout.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoHash returns the current HEAD commit hash of the repository.
	GetRepoHash(ctx context.Context, repoPath string) (string, error)

	// GetLastCommitDate returns the committer date of the latest commit touching path.
	GetLastCommitDate(ctx context.Context, repoPath string, path string) (string, error)

	// GetCommitCount returns the number of commits reachable from HEAD that touch path.
	GetCommitCount(ctx context.Context, repoPath string, path string) (int, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetMetadataStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for recording scan runs and their per-file results.
type HistoryStore interface {
	// BeginScan creates a new scan run and returns its numeric ID
	BeginScan(startTime time.Time, runUUID string, repoPath string, configParams map[string]any) (int64, error)

	// EndScan completes the scan run with its end time and category counts
	EndScan(runID int64, endTime time.Time, summary schema.Summary) error

	// RecordFileResult stores the outcome for one file of a run
	RecordFileResult(runID int64, result schema.FileResult, analysisTime time.Time) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllScanRuns returns every scan run, oldest first
	GetAllScanRuns() ([]schema.ScanRunRecord, error)

	// GetAllFileResults returns every recorded file result, ordered by run
	GetAllFileResults() ([]schema.FileResultRecord, error)

	// Close closes the underlying connection
	Close() error
}
