// Package parquet provides data structures and functions for exporting testhealth
// scan data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/testhealth/schema"
	"github.com/parquet-go/parquet-go"
)

// ScanRun represents a single scan run with its category counts.
// This struct maps to the testhealth_scan_runs database table.
type ScanRun struct {
	// RunID is the unique identifier for this scan run
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID is the identifier reported in analysis_metadata.run_id
	RunUUID string `parquet:"run_uuid,snappy"`

	// StartTime is when the scan began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the scan completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the scan in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	TotalFiles    int32 `parquet:"total_files,snappy"`
	StableCount   int32 `parquet:"stable_count,snappy"`
	FlakyCount    int32 `parquet:"flaky_count,snappy"`
	OutdatedCount int32 `parquet:"outdated_count,snappy"`
	UnknownCount  int32 `parquet:"unknown_count,snappy"`

	// RepositoryPath is the absolute root that was scanned
	RepositoryPath string `parquet:"repository_path,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// FileResult represents the categorization of a single test file in a scan.
// This struct maps to the testhealth_file_results database table.
type FileResult struct {
	// RunID references the parent scan run (0 for a scan that was not tracked)
	RunID int64 `parquet:"run_id,snappy"`

	// FilePath is the path relative to the scanned root
	FilePath string `parquet:"file_path,snappy"`

	// AnalysisTime is when this file was analyzed
	AnalysisTime time.Time `parquet:"analysis_time,snappy"`

	// Category is one of stable, flaky, outdated, unknown
	Category string `parquet:"category,snappy"`

	// Rule is the name of the categorizer rule that decided Category
	Rule string `parquet:"rule,snappy"`

	FlakyScore    int32 `parquet:"flaky_score,snappy"`
	OutdatedScore int32 `parquet:"outdated_score,snappy"`
	StableScore   int32 `parquet:"stable_score,snappy"`
	IsOld         bool  `parquet:"is_old,snappy"`

	// GitCommitCount is absent outside a git repository
	GitCommitCount *int32 `parquet:"git_commit_count,optional,snappy"`

	// LastGitCommit is absent for untracked files
	LastGitCommit *string `parquet:"last_git_commit,optional,snappy"`
}

// WriteScanRunsParquet writes a slice of ScanRun structs to a Parquet file.
func WriteScanRunsParquet(data []ScanRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteFileResultsParquet writes a slice of FileResult structs to a Parquet file.
func WriteFileResultsParquet(data []FileResult, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet creates outputPath and writes all rows with a schema inferred from T's struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the footer, so its error matters
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertScanRunRecords converts schema.ScanRunRecord to ScanRun for Parquet export.
func ConvertScanRunRecords(records []schema.ScanRunRecord) []ScanRun {
	result := make([]ScanRun, len(records))
	for i, record := range records {
		result[i] = ScanRun{
			RunID:          record.RunID,
			RunUUID:        record.RunUUID,
			StartTime:      record.StartTime,
			EndTime:        record.EndTime,
			RunDurationMs:  record.RunDurationMs,
			TotalFiles:     record.TotalFiles,
			StableCount:    record.StableCount,
			FlakyCount:     record.FlakyCount,
			OutdatedCount:  record.OutdatedCount,
			UnknownCount:   record.UnknownCount,
			RepositoryPath: record.RepositoryPath,
			ConfigParams:   record.ConfigParams,
		}
	}
	return result
}

// ConvertFileResultRecords converts schema.FileResultRecord to FileResult for Parquet export.
func ConvertFileResultRecords(records []schema.FileResultRecord) []FileResult {
	result := make([]FileResult, len(records))
	for i, record := range records {
		result[i] = FileResult{
			RunID:          record.RunID,
			FilePath:       record.FilePath,
			AnalysisTime:   record.AnalysisTime,
			Category:       record.Category,
			Rule:           record.Rule,
			FlakyScore:     record.FlakyScore,
			OutdatedScore:  record.OutdatedScore,
			StableScore:    record.StableScore,
			IsOld:          record.IsOld,
			GitCommitCount: record.GitCommitCount,
			LastGitCommit:  record.LastGitCommit,
		}
	}
	return result
}

// ConvertReport flattens every result of a report, stamped with analysisTime.
func ConvertReport(report *schema.Report, analysisTime time.Time) []FileResult {
	results := report.AllResults()
	records := make([]schema.FileResultRecord, len(results))
	for i, r := range results {
		records[i] = schema.NewFileResultRecord(0, r, analysisTime)
	}
	return ConvertFileResultRecords(records)
}
