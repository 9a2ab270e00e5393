package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/internal/iocache"
	"github.com/huangsam/testhealth/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historySetup loads minimal configuration needed for history operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// so migrations can run on a fresh database.
func historySetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// An unset backend means history was never enabled
	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("analysis-backend")))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("analysis-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyStoreSetup additionally opens the history store.
func historyStoreSetup(cmd *cobra.Command, args []string) error {
	if err := historySetupWrapper(cmd, args); err != nil {
		return err
	}
	if err := iocache.InitStores("", "", cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	return nil
}

// historyDBPath is the SQLite file the history lives in.
func historyDBPath() string {
	if cfg.AnalysisDBConnect != "" {
		return cfg.AnalysisDBConnect
	}
	return contract.GetHistoryDBFilePath()
}

// historyCmd focused on scan history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded scan runs and exports",
	Long: `Manage the history of scan runs used for trend tracking and reporting.

When --analysis-backend is set, every scan records:
- Run metadata (UUID, timestamps, duration, configuration, category counts)
- The category, rule and scores of every test file

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all recorded runs
  migrate - Run database schema migrations

Examples:
  # Check history status
  testhealth history status --analysis-backend sqlite

  # Export for analysis in pandas/DuckDB
  testhealth history export --analysis-backend sqlite --output-file testhealth`,
}

// historyClearCmd clears the scan history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded scan runs",
	Long: `Delete all stored scan runs and per-file results.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  testhealth history export --output-file backup
  testhealth history clear`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearHistory(cfg.AnalysisBackend, historyDBPath(), cfg.AnalysisDBConnect); err != nil {
			contract.LogFatal("Failed to clear scan history", err)
		}
		fmt.Println("Scan history cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display scan history statistics and connection details",
	Long: `Show detailed information about recorded scan runs.

Displays:
- Backend type and connection status
- Total number of runs and the latest run's counts
- Last and oldest run timestamps
- Database table sizes

Examples:
  # Check history status
  testhealth history status`,
	PreRunE: historyStoreSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports scan history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export scan history to Parquet for BI tools and analytics",
	Long: `Export all recorded scan data to Parquet format.

Writes two datasets next to --output-file:
- <output-file>.scan_runs.parquet    - one row per scan run
- <output-file>.file_results.parquet - one row per file per run

Requires: --output-file parameter

Examples:
  # Export all data
  testhealth history export --output-file testhealth

  # Flaky files over time with DuckDB
  duckdb -c "SELECT run_id, count(*) FROM 'testhealth.file_results.parquet' WHERE category = 'flaky' GROUP BY 1"`,
	PreRunE: historyStoreSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExportHistory(iocache.Manager.GetHistoryStore(), cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export scan history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the scan history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  testhealth history migrate

  # Migrate to specific version
  testhealth history migrate --target-version 2

  # Rollback to initial state
  testhealth history migrate --target-version 0`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.AnalysisBackend, cfg.AnalysisDBConnect, targetVersion, os.Stdout); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
