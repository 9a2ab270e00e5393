// Package cmd defines the command-line interface for testhealth.
package cmd

import (
	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(indicatorsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().String("category", "", "Comma-separated categories to print (stable, flaky, outdated, unknown)")
	rootCmd.PersistentFlags().String("git-timeout", contract.DefaultGitTimeout.String(), "Timeout for each git query")
	rootCmd.PersistentFlags().Int("old-after", contract.DefaultOldAfterDays, "Days without modification after which a file counts as old")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or json or csv or yaml or table or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("json-file", schema.DefaultJSONReportFile, "Path of the detailed JSON report")
	rootCmd.PersistentFlags().String("report-file", schema.DefaultTextReportFile, "Path of the human-readable report")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress and status lines")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Git metadata cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("analysis-backend", "", "Scan history backend: sqlite or mysql or postgresql or none (empty disables history)")
	rootCmd.PersistentFlags().String("analysis-db-connect", "", "Database connection string for scan history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of scanCmd to Viper
	scanCmd.Flags().Bool("explain", false, "Show the rule that decided each category")
	if err := viper.BindPFlags(scanCmd.Flags()); err != nil {
		contract.LogFatal("Error binding scan flags", err)
	}

	// Bind all flags of checkCmd to Viper
	checkCmd.Flags().Int("max-flaky", defaultMaxFlaky, "Maximum number of flaky test files (negative = unlimited)")
	checkCmd.Flags().Int("max-outdated", defaultMaxOutdated, "Maximum number of outdated test files (negative = unlimited)")
	checkCmd.Flags().Int("max-unknown", defaultMaxUnknown, "Maximum number of unknown test files (negative = unlimited)")
	if err := viper.BindPFlags(checkCmd.Flags()); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
