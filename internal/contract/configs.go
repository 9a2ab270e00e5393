package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/testhealth/schema"
)

// Default values for configuration.
const (
	DefaultOldAfterDays = 180
	MaxOldAfterDays     = 3650
	MaxGitTimeout       = 5 * time.Minute
)

// Unlimited disables a category limit in the check command.
const Unlimited = -1

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a scan.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath   string
	Excludes   []string
	GitTimeout time.Duration
	OldAfter   time.Duration
	Categories []schema.Category // empty means every category

	Output     schema.OutputMode
	OutputFile string
	JSONFile   string
	ReportFile string
	Quiet      bool
	Explain    bool
	Width      int // Terminal width override (0 = auto-detect)

	MaxFlaky    int
	MaxOutdated int
	MaxUnknown  int

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	JSONFile          string `mapstructure:"json-file"`
	ReportFile        string `mapstructure:"report-file"`
	Exclude           string `mapstructure:"exclude"`
	Category          string `mapstructure:"category"`
	GitTimeout        string `mapstructure:"git-timeout"`
	OldAfter          int    `mapstructure:"old-after"`
	Quiet             bool   `mapstructure:"quiet"`
	Width             int    `mapstructure:"width"`
	Color             string `mapstructure:"color"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	AnalysisBackend   string `mapstructure:"analysis-backend"`
	AnalysisDBConnect string `mapstructure:"analysis-db-connect"`

	// --- Fields from scanCmd.Flags() ---
	Explain bool `mapstructure:"explain"`

	// --- Fields from checkCmd.Flags() ---
	MaxFlaky    int `mapstructure:"max-flaky"`
	MaxOutdated int `mapstructure:"max-outdated"`
	MaxUnknown  int `mapstructure:"max-unknown"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	if c.Categories != nil {
		clone.Categories = make([]schema.Category, len(c.Categories))
		copy(clone.Categories, c.Categories)
	}
	return &clone
}

// Params returns the settings that shape a scan's results, for run tracking.
func (c *Config) Params() map[string]any {
	return map[string]any{
		"repo_path":   c.RepoPath,
		"excludes":    c.Excludes,
		"git_timeout": c.GitTimeout.String(),
		"old_after":   c.OldAfter.String(),
		"categories":  c.Categories,
	}
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processScanSettings(cfg, input); err != nil {
		return err
	}
	if err := processCheckLimits(cfg, input); err != nil {
		return err
	}
	if err := resolveRepoPath(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	// --- History Backend Validation ---
	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.AnalysisBackend]; !ok {
		return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
	}
	cfg.AnalysisDBConnect = input.AnalysisDBConnect
	if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
		return fmt.Errorf("analysis-db-connect: %w", err)
	}

	// Both stores create their own tables, but SQLite files must not be shared
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.AnalysisBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		historyDBPath := cfg.AnalysisDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if cacheDBPath == historyDBPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output and storage fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Quiet = input.Quiet
	cfg.Explain = input.Explain

	cfg.JSONFile = input.JSONFile
	if cfg.JSONFile == "" {
		cfg.JSONFile = schema.DefaultJSONReportFile
	}
	cfg.ReportFile = input.ReportFile
	if cfg.ReportFile == "" {
		cfg.ReportFile = schema.DefaultTextReportFile
	}
	if cfg.JSONFile == cfg.ReportFile {
		return fmt.Errorf("json-file and report-file must differ (both are %q)", cfg.JSONFile)
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Width < 0 {
		return fmt.Errorf("width must not be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, json, csv, yaml, table, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	return validateBackendConfigs(cfg, input)
}

// processScanSettings handles excludes, category filters, git timeout and age threshold.
func processScanSettings(cfg *Config, input *ConfigRawInput) error {
	cfg.Excludes = splitList(input.Exclude)

	categories, err := ParseCategories(input.Category)
	if err != nil {
		return err
	}
	cfg.Categories = categories

	cfg.GitTimeout = DefaultGitTimeout
	if input.GitTimeout != "" {
		d, err := time.ParseDuration(input.GitTimeout)
		if err != nil {
			return fmt.Errorf("invalid git timeout '%s': %w", input.GitTimeout, err)
		}
		if d <= 0 || d > MaxGitTimeout {
			return fmt.Errorf("git timeout must be greater than 0 and cannot exceed %s (received %s)", MaxGitTimeout, d)
		}
		cfg.GitTimeout = d
	}

	days := input.OldAfter
	if days == 0 {
		days = DefaultOldAfterDays
	}
	if days < 0 || days > MaxOldAfterDays {
		return fmt.Errorf("old-after must be between 1 and %d days (received %d)", MaxOldAfterDays, input.OldAfter)
	}
	cfg.OldAfter = time.Duration(days) * 24 * time.Hour
	return nil
}

// processCheckLimits copies the check thresholds; any negative value means unlimited.
func processCheckLimits(cfg *Config, input *ConfigRawInput) error {
	normalize := func(v int) int {
		if v < 0 {
			return Unlimited
		}
		return v
	}
	cfg.MaxFlaky = normalize(input.MaxFlaky)
	cfg.MaxOutdated = normalize(input.MaxOutdated)
	cfg.MaxUnknown = normalize(input.MaxUnknown)
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// resolveRepoPath turns the positional argument into an absolute directory.
// The directory does not need to be a git repository.
func resolveRepoPath(cfg *Config, input *ConfigRawInput) error {
	searchPath := input.RepoPathStr
	if searchPath == "" {
		searchPath = "."
	}
	absPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absPath = filepath.Clean(absPath)

	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("cannot access repository path %q: %w", searchPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("repository path %q is not a directory", searchPath)
	}
	cfg.RepoPath = absPath
	return nil
}

// ParseCategories parses a comma-separated category filter. An empty filter yields nil.
func ParseCategories(s string) ([]schema.Category, error) {
	var out []schema.Category
	for _, raw := range splitList(s) {
		c := schema.Category(strings.ToLower(raw))
		if _, ok := schema.ValidCategories[c]; !ok {
			return nil, fmt.Errorf("invalid category '%s'. must be stable, flaky, outdated, unknown", raw)
		}
		out = append(out, c)
	}
	return out, nil
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
