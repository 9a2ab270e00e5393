package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteCheckResult prints the verdict of a check run using the configured output format.
func WriteCheckResult(result schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.YAMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, result)
		}, "Wrote YAML")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCheckCSV(w, result)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCheckTable(w, result, cfg, duration)
		}, "Wrote table")
	}
}

// writeCheckTable renders the per-category limits and the offending files.
func writeCheckTable(w io.Writer, result schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Category", "Count", "Max", "Status"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, l := range result.Limits {
		data = append(data, []string{
			categoryLabel(l.Category, cfg),
			strconv.Itoa(l.Count),
			formatLimit(l.Max),
			formatVerdict(l.Passed),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(result.Offenders) > 0 {
		if _, err := fmt.Fprintf(w, "\nFiles over the limit:\n"); err != nil {
			return err
		}
		for _, o := range result.Offenders {
			if _, err := fmt.Fprintf(w, "  %s %s (%s, %s)\n", contract.CategoryEmoji(o.Category), o.Path, o.Category, o.Rule); err != nil {
				return err
			}
		}
	}

	verdict := "✅ Check passed"
	if !result.Passed {
		verdict = "❌ Check failed"
	}
	if _, err := fmt.Fprintf(w, "\n%s: %d test files analyzed in %v\n", verdict, result.TotalFiles, duration); err != nil {
		return err
	}
	return nil
}

// writeCheckCSV writes one row per limited category.
func writeCheckCSV(w io.Writer, result schema.CheckResult) error {
	header := []string{"category", "count", "max", "passed"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, l := range result.Limits {
			rec := []string{
				string(l.Category),
				strconv.Itoa(l.Count),
				strconv.Itoa(l.Max),
				strconv.FormatBool(l.Passed),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// formatLimit shows negative limits as unlimited.
func formatLimit(limit int) string {
	if limit < 0 {
		return "unlimited"
	}
	return strconv.Itoa(limit)
}

func formatVerdict(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}
