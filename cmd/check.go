package cmd

import (
	"errors"

	"github.com/huangsam/testhealth/core"
	"github.com/huangsam/testhealth/internal/contract"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check [repo-path]",
	Short: "Fail the build when too many tests are flaky, outdated or unknown",
	Long: `Scan the directory and compare the category counts to the configured limits.

Designed for CI/CD pipelines: the command exits with code 1 when any limit is
exceeded and lists the files that count against it. A negative limit disables
the check for that category.

Default limits: --max-flaky 0, --max-outdated unlimited, --max-unknown unlimited

Examples:
  # Block merges that add flaky tests
  testhealth check

  # Tolerate a few known offenders while paying down debt
  testhealth check --max-flaky 3 --max-outdated 10

  # Machine-readable verdict
  testhealth check --output json --output-file verdict.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		err := core.ExecuteCheck(rootCtx, cfg, cacheManager)
		if errors.Is(err, core.ErrCheckFailed) {
			// The verdict is already printed
			exitWith(1)
		}
		if err != nil {
			contract.LogFatal("Check failed", err)
		}
	},
}
