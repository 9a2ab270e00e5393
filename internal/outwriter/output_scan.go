package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/internal/parquet"
	"github.com/huangsam/testhealth/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteScanReport saves the JSON and text report files, announcing each on status,
// then prints the configured console output. The files always hold the full
// report; the category filter applies to the console output only.
func WriteScanReport(report *schema.Report, cfg *contract.Config, duration time.Duration, status io.Writer) error {
	if err := saveReportFile(cfg.JSONFile, status, "Detailed JSON report", func(w io.Writer) error {
		return writeJSON(w, report)
	}); err != nil {
		return err
	}
	text := RenderTextReport(report)
	if err := saveReportFile(cfg.ReportFile, status, "Human-readable report", func(w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	}); err != nil {
		return err
	}

	shown := report.Filter(cfg.Categories...)
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, shown)
		}, "Wrote JSON")
	case schema.YAMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, shown)
		}, "Wrote YAML")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScanCSV(w, shown)
		}, "Wrote CSV")
	case schema.TableOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScanTable(w, shown, cfg, duration)
		}, "Wrote table")
	case schema.ParquetOut:
		return writeScanParquet(shown, cfg.OutputFile)
	default:
		if shown != report {
			text = RenderTextReport(shown)
		}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "\n%s\n", text)
			return err
		}, "Wrote text")
	}
}

// writeScanTable renders one row per file with the three scores.
func writeScanTable(w io.Writer, report *schema.Report, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"Rank", "Path", "Category", "Flaky", "Outdated", "Stable", "Lines", "Old"}
	if cfg.Explain {
		headers = append(headers, "Rule")
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	pathWidth := GetMaxTablePathWidth(cfg)
	var data [][]string
	for i, f := range report.AllResults() {
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(f.RelativePath, pathWidth),
			categoryLabel(f.Category, cfg),
			strconv.Itoa(f.FlakyScore),
			strconv.Itoa(f.OutdatedScore),
			strconv.Itoa(f.StableScore),
			strconv.Itoa(f.Lines),
			formatOld(f.Metadata),
		}
		if cfg.Explain {
			row = append(row, f.Rule)
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	s := report.Summary
	if _, err := fmt.Fprintf(w, "Showing %d of %d files (stable: %d, flaky: %d, outdated: %d, unknown: %d)\n",
		len(data), s.TotalFiles, s.Stable, s.Flaky, s.Outdated, s.Unknown); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeScanCSV writes one row per file. Absent values are empty cells.
func writeScanCSV(w io.Writer, report *schema.Report) error {
	header := []string{
		"path",
		"category",
		"rule",
		"flaky_score",
		"outdated_score",
		"stable_score",
		"lines",
		"size",
		"is_old",
		"last_git_commit",
		"git_commit_count",
		"error",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, f := range report.AllResults() {
			commits := ""
			if n, ok := f.Metadata.GitCommitCount.Get(); ok {
				commits = strconv.Itoa(n)
			}
			rec := []string{
				f.RelativePath,
				string(f.Category),
				f.Rule,
				strconv.Itoa(f.FlakyScore),
				strconv.Itoa(f.OutdatedScore),
				strconv.Itoa(f.StableScore),
				strconv.Itoa(f.Lines),
				strconv.Itoa(f.Size),
				strconv.FormatBool(f.Metadata.Old()),
				f.Metadata.LastGitCommit.OrElse(""),
				commits,
				f.ContentAnalysis.Error.OrElse(""),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeScanParquet writes the shown results as a single Parquet file.
func writeScanParquet(report *schema.Report, outputFile string) error {
	analyzedAt, err := time.Parse(time.RFC3339, report.AnalysisMetadata.AnalyzedAt)
	if err != nil {
		analyzedAt = time.Now()
	}
	rows := parquet.ConvertReport(report, analyzedAt)
	if err := parquet.WriteFileResultsParquet(rows, outputFile); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", outputFile)
	return nil
}

// formatOld renders the age flag for the table. Unknown ages show as "-".
func formatOld(m schema.FileMetadata) string {
	isOld, ok := m.IsOld.Get()
	switch {
	case !ok:
		return "-"
	case isOld:
		return "yes"
	default:
		return "no"
	}
}
