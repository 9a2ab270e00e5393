package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/internal/parquet"
)

// ErrNoHistory is returned when there is nothing to export.
var ErrNoHistory = errors.New("no scan history found to export")

// ExportHistory writes every scan run and file result of store to a pair of
// Parquet files named after outputFile, reporting progress to w.
func ExportHistory(store contract.HistoryStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("scan history is not configured. Set --analysis-backend to enable it")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return ErrNoHistory
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total scan runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total file results: %d\n", status.TotalFiles)

	runs, err := store.GetAllScanRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve scan runs: %w", err)
	}
	results, err := store.GetAllFileResults()
	if err != nil {
		return fmt.Errorf("failed to retrieve file results: %w", err)
	}

	parquetRuns := parquet.ConvertScanRunRecords(runs)
	runsFile := outputFile + ".scan_runs.parquet"
	if err := parquet.WriteScanRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write scan runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d scan runs to: %s\n", len(parquetRuns), runsFile)

	parquetResults := parquet.ConvertFileResultRecords(results)
	resultsFile := outputFile + ".file_results.parquet"
	if err := parquet.WriteFileResultsParquet(parquetResults, resultsFile); err != nil {
		return fmt.Errorf("failed to write file results: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d file results to: %s\n", len(parquetResults), resultsFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be used with DuckDB, Pandas (via pyarrow) or Apache Spark.")
	return nil
}
