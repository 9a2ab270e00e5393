package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/schema"
)

// Table names for scan history.
const (
	ScanRunsTable    = "testhealth_scan_runs"
	FileResultsTable = "testhealth_file_results"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
// The none backend yields a store that records nothing.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (*HistoryStoreImpl, error) {
	if backend == schema.NoneBackend {
		return &HistoryStoreImpl{backend: backend, connStr: connStr}, nil
	}

	db, err := openDB(backend, connStr, contract.GetHistoryDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scan history: %w", err)
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend, connStr: connStr}, nil
}

// createHistoryTables creates the scan history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{ScanRunsTable, getCreateScanRunsQuery(backend)},
		{FileResultsTable, getCreateFileResultsQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateScanRunsQuery returns the CREATE TABLE query for testhealth_scan_runs.
func getCreateScanRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(ScanRunsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_uuid VARCHAR(36) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_files INT NOT NULL DEFAULT 0,
				stable_count INT NOT NULL DEFAULT 0,
				flaky_count INT NOT NULL DEFAULT 0,
				outdated_count INT NOT NULL DEFAULT 0,
				unknown_count INT NOT NULL DEFAULT 0,
				repository_path VARCHAR(1024) NOT NULL,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				run_uuid TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_files INT NOT NULL DEFAULT 0,
				stable_count INT NOT NULL DEFAULT 0,
				flaky_count INT NOT NULL DEFAULT 0,
				outdated_count INT NOT NULL DEFAULT 0,
				unknown_count INT NOT NULL DEFAULT 0,
				repository_path TEXT NOT NULL,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_uuid TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_files INTEGER NOT NULL DEFAULT 0,
				stable_count INTEGER NOT NULL DEFAULT 0,
				flaky_count INTEGER NOT NULL DEFAULT 0,
				outdated_count INTEGER NOT NULL DEFAULT 0,
				unknown_count INTEGER NOT NULL DEFAULT 0,
				repository_path TEXT NOT NULL,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateFileResultsQuery returns the CREATE TABLE query for testhealth_file_results.
func getCreateFileResultsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(FileResultsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				file_path VARCHAR(512) NOT NULL,
				analysis_time DATETIME(6) NOT NULL,
				category VARCHAR(16) NOT NULL,
				rule_name VARCHAR(64) NOT NULL,
				flaky_score INT NOT NULL,
				outdated_score INT NOT NULL,
				stable_score INT NOT NULL,
				is_old BOOLEAN NOT NULL,
				git_commit_count INT,
				last_git_commit VARCHAR(64),
				PRIMARY KEY (run_id, file_path)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				file_path TEXT NOT NULL,
				analysis_time TIMESTAMPTZ NOT NULL,
				category TEXT NOT NULL,
				rule_name TEXT NOT NULL,
				flaky_score INT NOT NULL,
				outdated_score INT NOT NULL,
				stable_score INT NOT NULL,
				is_old BOOLEAN NOT NULL,
				git_commit_count INT,
				last_git_commit TEXT,
				PRIMARY KEY (run_id, file_path)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				file_path TEXT NOT NULL,
				analysis_time TEXT NOT NULL,
				category TEXT NOT NULL,
				rule_name TEXT NOT NULL,
				flaky_score INTEGER NOT NULL,
				outdated_score INTEGER NOT NULL,
				stable_score INTEGER NOT NULL,
				is_old INTEGER NOT NULL,
				git_commit_count INTEGER,
				last_git_commit TEXT,
				PRIMARY KEY (run_id, file_path)
			);
		`, quotedTableName)
	}
}

// BeginScan creates a new scan run and returns its numeric ID.
func (hs *HistoryStoreImpl) BeginScan(startTime time.Time, runUUID string, repoPath string, configParams map[string]any) (int64, error) {
	if hs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(ScanRunsTable, hs.backend)
	args := []any{runUUID, formatTime(startTime, hs.backend), repoPath, string(configJSON)}

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, start_time, repository_path, config_params) VALUES ($1, $2, $3, $4) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, start_time, repository_path, config_params) VALUES (?, ?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan run: %w", err)
	}
	return runID, nil
}

// EndScan completes the scan run with its end time, duration and category counts.
func (hs *HistoryStoreImpl) EndScan(runID int64, endTime time.Time, summary schema.Summary) error {
	if hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(ScanRunsTable, hs.backend)
	var start sqlTime
	query := rebind(hs.backend, fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, quotedTableName))
	if err := hs.db.QueryRow(query, runID).Scan(&start); err != nil {
		return fmt.Errorf("failed to get start_time for scan run %d: %w", runID, err)
	}
	durationMs := endTime.Sub(start.Time).Milliseconds()

	update := rebind(hs.backend, fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_files = ?,
		stable_count = ?, flaky_count = ?, outdated_count = ?, unknown_count = ? WHERE run_id = ?`, quotedTableName))
	_, err := hs.db.Exec(update, formatTime(endTime, hs.backend), durationMs, summary.TotalFiles,
		summary.Stable, summary.Flaky, summary.Outdated, summary.Unknown, runID)
	if err != nil {
		return fmt.Errorf("failed to update scan run: %w", err)
	}
	return nil
}

// RecordFileResult stores the outcome for one file of a run.
func (hs *HistoryStoreImpl) RecordFileResult(runID int64, result schema.FileResult, analysisTime time.Time) error {
	if hs.db == nil {
		return nil
	}

	rec := schema.NewFileResultRecord(runID, result, analysisTime)
	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, file_path, analysis_time, category, rule_name,
		                flaky_score, outdated_score, stable_score, is_old,
		                git_commit_count, last_git_commit)
		VALUES (%s)
	`, quoteTableName(FileResultsTable, hs.backend), placeholders(hs.backend, 11))
	_, err := hs.db.Exec(query,
		rec.RunID, rec.FilePath, formatTime(rec.AnalysisTime, hs.backend), rec.Category, rec.Rule,
		rec.FlakyScore, rec.OutdatedScore, rec.StableScore, rec.IsOld,
		rec.GitCommitCount, rec.LastGitCommit,
	)
	if err != nil {
		return fmt.Errorf("failed to insert file result: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.db == nil {
		return status, nil
	}

	runsTable := quoteTableName(ScanRunsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	var fileRows int
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(FileResultsTable, hs.backend))).Scan(&fileRows); err != nil {
		return status, fmt.Errorf("failed to get total file results: %w", err)
	}
	status.TotalFiles = fileRows

	if status.TotalRuns > 0 {
		var last, oldest sqlTime
		row := hs.db.QueryRow(fmt.Sprintf(`SELECT run_id, run_uuid, start_time, total_files, stable_count, flaky_count, outdated_count, unknown_count
			FROM %s ORDER BY run_id DESC LIMIT 1`, runsTable))
		s := &status.LastRunSummary
		if err := row.Scan(&status.LastRunID, &status.LastRunUUID, &last, &s.TotalFiles, &s.Stable, &s.Flaky, &s.Outdated, &s.Unknown); err != nil {
			return status, fmt.Errorf("failed to get last run: %w", err)
		}
		status.LastRunTime = last.Time

		if err := hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runsTable)).Scan(&oldest); err != nil {
			return status, fmt.Errorf("failed to get oldest run: %w", err)
		}
		status.OldestRunTime = oldest.Time
	}

	status.TableSizes[ScanRunsTable] = tableSize(hs.db, hs.backend, hs.connStr, ScanRunsTable, status.TotalRuns)
	status.TableSizes[FileResultsTable] = tableSize(hs.db, hs.backend, hs.connStr, FileResultsTable, fileRows)
	return status, nil
}

// GetAllScanRuns returns every scan run, oldest first.
func (hs *HistoryStoreImpl) GetAllScanRuns() ([]schema.ScanRunRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_uuid, start_time, end_time, run_duration_ms, total_files,
		stable_count, flaky_count, outdated_count, unknown_count, repository_path, config_params
		FROM %s ORDER BY run_id`, quoteTableName(ScanRunsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.ScanRunRecord
	for rows.Next() {
		var rec schema.ScanRunRecord
		var start, end sqlTime
		var duration sql.NullInt32
		var params sql.NullString
		if err := rows.Scan(&rec.RunID, &rec.RunUUID, &start, &end, &duration, &rec.TotalFiles,
			&rec.StableCount, &rec.FlakyCount, &rec.OutdatedCount, &rec.UnknownCount,
			&rec.RepositoryPath, &params); err != nil {
			return nil, fmt.Errorf("failed to scan scan run: %w", err)
		}
		rec.StartTime = start.Time
		rec.EndTime = end.Ptr()
		if duration.Valid {
			rec.RunDurationMs = &duration.Int32
		}
		if params.Valid {
			rec.ConfigParams = &params.String
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetAllFileResults returns every recorded file result, ordered by run.
func (hs *HistoryStoreImpl) GetAllFileResults() ([]schema.FileResultRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, file_path, analysis_time, category, rule_name,
		flaky_score, outdated_score, stable_score, is_old, git_commit_count, last_git_commit
		FROM %s ORDER BY run_id, file_path`, quoteTableName(FileResultsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query file results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.FileResultRecord
	for rows.Next() {
		var rec schema.FileResultRecord
		var at sqlTime
		var count sql.NullInt32
		var commit sql.NullString
		if err := rows.Scan(&rec.RunID, &rec.FilePath, &at, &rec.Category, &rec.Rule,
			&rec.FlakyScore, &rec.OutdatedScore, &rec.StableScore, &rec.IsOld,
			&count, &commit); err != nil {
			return nil, fmt.Errorf("failed to scan file result: %w", err)
		}
		rec.AnalysisTime = at.Time
		if count.Valid {
			rec.GitCommitCount = &count.Int32
		}
		if commit.Valid {
			rec.LastGitCommit = &commit.String
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
