package cmd

import (
	"fmt"
	"strings"

	"github.com/huangsam/testhealth/core"
	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// indicatorsSetup loads only the output settings. The command never reads a repository.
func indicatorsSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	output := schema.OutputMode(strings.ToLower(viper.GetString("output")))
	switch output {
	case schema.TextOut, schema.JSONOut, schema.CSVOut, schema.YAMLOut:
	default:
		return fmt.Errorf("invalid output format '%s' for indicators. must be text, json, csv, yaml", output)
	}
	cfg.Output = output
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// indicatorsCmd shows what drives categorization.
var indicatorsCmd = &cobra.Command{
	Use:   "indicators",
	Short: "List the indicators and rules used to categorize test files",
	Long: `Print the three indicator lists, the path-based score adjustments and the
ordered categorization rules.

Indicators are matched case-insensitively and count once per file each.

Examples:
  # Human-readable listing
  testhealth indicators

  # Feed the catalog to another tool
  testhealth indicators --output json`,
	Args:    cobra.NoArgs,
	PreRunE: indicatorsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteIndicators(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Failed to list indicators", err)
		}
	},
}
