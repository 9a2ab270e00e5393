package outwriter

import (
	"fmt"
	"strings"

	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/schema"
)

// maxReportIndicators is how many indicators per list the text report shows.
const maxReportIndicators = 3

// RenderTextReport formats the human-readable report. The result has no
// trailing newline. Category sections are shown for non-empty categories only.
func RenderTextReport(report *schema.Report) string {
	var b strings.Builder
	line := func(format string, a ...any) {
		fmt.Fprintf(&b, format, a...)
		b.WriteByte('\n')
	}

	s := report.Summary
	line("%s", strings.Repeat("=", 80))
	line("🧪 TEST FILE ANALYSIS REPORT")
	line("%s", strings.Repeat("=", 80))
	line("")

	line("📊 SUMMARY:")
	line("   Total test files: %d", s.TotalFiles)
	line("   ✅ Stable:       %d (%.1f%%)", s.Stable, s.Percent(schema.StableCategory))
	line("   ⚠️  Flaky:        %d (%.1f%%)", s.Flaky, s.Percent(schema.FlakyCategory))
	line("   📅 Outdated:     %d (%.1f%%)", s.Outdated, s.Percent(schema.OutdatedCategory))
	line("   ❓ Unknown:      %d (%.1f%%)", s.Unknown, s.Percent(schema.UnknownCategory))
	line("")

	for _, c := range schema.AllCategories {
		files := report.Files.For(c)
		if len(files) == 0 {
			continue
		}
		line("%s %s TEST FILES (%d files):", contract.CategoryEmoji(c), strings.ToUpper(string(c)), len(files))
		line("%s", strings.Repeat("-", 50))
		for _, f := range files {
			writeFileEntry(line, f)
		}
	}

	line("🎯 RECOMMENDATIONS:")
	line("%s", strings.Repeat("-", 30))
	if s.Flaky > 0 {
		line("• Fix %d flaky test(s) to improve CI reliability", s.Flaky)
		line("  - Consider mocking time-dependent functions")
		line("  - Remove random elements from tests")
		line("  - Use deterministic test data")
	}
	if s.Outdated > 0 {
		line("• Update or remove %d outdated test(s)", s.Outdated)
		line("  - Review and fix broken assertions")
		line("  - Update tests to match current implementation")
		line("  - Remove obsolete tests")
	}
	if s.Unknown > 0 {
		line("• Review %d test(s) with unclear categorization", s.Unknown)
	}
	line("")
	fmt.Fprintf(&b, "Report generated at: %s", report.AnalysisMetadata.AnalyzedAt)
	return b.String()
}

// writeFileEntry renders one file block of a category section.
func writeFileEntry(line func(string, ...any), f schema.FileResult) {
	line("📁 %s", f.RelativePath)
	line("   Lines: %d, Size: %d chars", f.Lines, f.Size)
	for _, c := range []schema.Category{schema.FlakyCategory, schema.OutdatedCategory, schema.StableCategory} {
		matched := f.Indicators.For(c)
		if len(matched) == 0 {
			continue
		}
		shown := matched[:min(len(matched), maxReportIndicators)]
		line("   %s indicators: %s", titleCase(string(c)), strings.Join(shown, ", "))
	}
	if f.Metadata.Old() {
		line("   ⏰ File is older than 6 months")
	}
	line("")
}

// titleCase upper-cases the first letter of an ASCII word.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
