// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/schema"
	"golang.org/x/term"
)

// GetMaxTablePathWidth calculates the maximum width for file paths in table output
// based on terminal width and table configuration.
func GetMaxTablePathWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Category + three scores + Lines + Old, with borders/padding
	baseWidth := 60

	if cfg.Explain {
		baseWidth += 22 // Rule column with formatting
	}

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 20

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}

// categoryLabel returns the category name, colored when colors are enabled.
func categoryLabel(c schema.Category, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(c)
	}
	return string(c)
}
