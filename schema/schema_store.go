package schema

import "time"

// ScanRunRecord represents a row from the testhealth_scan_runs table.
type ScanRunRecord struct {
	RunID          int64
	RunUUID        string
	StartTime      time.Time
	EndTime        *time.Time
	RunDurationMs  *int32
	TotalFiles     int32
	StableCount    int32
	FlakyCount     int32
	OutdatedCount  int32
	UnknownCount   int32
	RepositoryPath string
	ConfigParams   *string
}

// FileResultRecord represents a row from the testhealth_file_results table.
type FileResultRecord struct {
	RunID          int64
	FilePath       string
	AnalysisTime   time.Time
	Category       string
	Rule           string
	FlakyScore     int32
	OutdatedScore  int32
	StableScore    int32
	IsOld          bool
	GitCommitCount *int32
	LastGitCommit  *string
}

// NewFileResultRecord flattens a scan result into a history row.
func NewFileResultRecord(runID int64, result FileResult, analysisTime time.Time) FileResultRecord {
	rec := FileResultRecord{
		RunID:         runID,
		FilePath:      result.RelativePath,
		AnalysisTime:  analysisTime,
		Category:      string(result.Category),
		Rule:          result.Rule,
		FlakyScore:    int32(result.FlakyScore),
		OutdatedScore: int32(result.OutdatedScore),
		StableScore:   int32(result.StableScore),
		IsOld:         result.Metadata.Old(),
		LastGitCommit: result.Metadata.LastGitCommit.Ptr(),
	}
	if count, ok := result.Metadata.GitCommitCount.Get(); ok {
		c := int32(count)
		rec.GitCommitCount = &c
	}
	return rec
}
