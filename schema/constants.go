package schema

import "time"

// Custom string types for type safety.
type (
	// Category is the label assigned to a test file.
	Category string

	// OutputMode represents the format of the console output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string
)

// All categories, in report order.
const (
	StableCategory   Category = "stable"
	FlakyCategory    Category = "flaky"
	OutdatedCategory Category = "outdated"
	UnknownCategory  Category = "unknown"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	CSVOut     OutputMode = "csv"
	YAMLOut    OutputMode = "yaml"
	TableOut   OutputMode = "table"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Fixed output file names written into the working directory.
const (
	DefaultJSONReportFile = "test_analysis_detailed.json"
	DefaultTextReportFile = "test_analysis_report.txt"
)

// PreviewLimit is the number of characters kept in a content preview.
const PreviewLimit = 500

// DefaultOldAfter is the modification age after which a file counts as old.
const DefaultOldAfter = 180 * 24 * time.Hour

// AllCategories lists every category in the order they are reported.
var AllCategories = []Category{StableCategory, FlakyCategory, OutdatedCategory, UnknownCategory}

// ValidCategories lists all valid categories.
var ValidCategories = map[Category]struct{}{
	StableCategory:   {},
	FlakyCategory:    {},
	OutdatedCategory: {},
	UnknownCategory:  {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	JSONOut:    {},
	CSVOut:     {},
	YAMLOut:    {},
	TableOut:   {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
