package cmd

import (
	"github.com/huangsam/testhealth/core"
	"github.com/huangsam/testhealth/internal/contract"
	"github.com/spf13/cobra"
)

// scanCmd categorizes every test file under a directory.
var scanCmd = &cobra.Command{
	Use:   "scan [repo-path]",
	Short: "Categorize test files as stable, flaky, outdated or unknown",
	Long: `Find every test file under the directory and label it from its content, path and age.

Each file is scored against three indicator lists (see 'testhealth indicators'),
adjusted by path hints such as "integration" or "unit", and then passed through
an ordered rule table. The first matching rule decides the category.

Git is optional. Inside a repository the last commit date and commit count of
each file are added to the report and cached per HEAD.

Every scan writes two files to the working directory:
- test_analysis_detailed.json  - the full report
- test_analysis_report.txt     - the human-readable summary

Examples:
  # Scan the current directory
  testhealth scan

  # Only show flaky files, with the deciding rule
  testhealth scan ./web --category flaky --output table --explain

  # Ignore generated fixtures and record the run in scan history
  testhealth scan --exclude "fixtures/,*.snap" --analysis-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScan(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Scan failed", err)
		}
	},
}
