package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func scanOutputConfig(t *testing.T, output schema.OutputMode) *contract.Config {
	t.Helper()
	dir := t.TempDir()
	return &contract.Config{
		Output:       output,
		OutputFile:   filepath.Join(dir, "console.out"),
		JSONFile:     filepath.Join(dir, "detailed.json"),
		ReportFile:   filepath.Join(dir, "report.txt"),
		Width:        120,
		CacheBackend: schema.NoneBackend,
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWriteScanReportFiles(t *testing.T) {
	cfg := scanOutputConfig(t, schema.TextOut)
	var status bytes.Buffer
	report := sampleReport()

	require.NoError(t, WriteScanReport(report, cfg, time.Second, &status))

	assert.Equal(t,
		"📄 Detailed JSON report saved to: "+cfg.JSONFile+"\n📄 Human-readable report saved to: "+cfg.ReportFile+"\n",
		status.String())

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.JSONFile)), &doc))
	assert.Contains(t, doc, "summary")
	assert.Contains(t, doc, "files")
	assert.Contains(t, doc, "analysis_metadata")
	assert.True(t, strings.HasPrefix(readFile(t, cfg.JSONFile), "{\n  \"summary\": {"), "indent is two spaces")

	text := RenderTextReport(report)
	assert.Equal(t, text, readFile(t, cfg.ReportFile))
	assert.Equal(t, "\n"+text+"\n", readFile(t, cfg.OutputFile))
}

func TestWriteScanReportCategoryFilter(t *testing.T) {
	cfg := scanOutputConfig(t, schema.JSONOut)
	cfg.Categories = []schema.Category{schema.FlakyCategory}

	require.NoError(t, WriteScanReport(sampleReport(), cfg, time.Second, &bytes.Buffer{}))

	var shown schema.Report
	require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.OutputFile)), &shown))
	assert.Empty(t, shown.Files.Stable)
	require.Len(t, shown.Files.Flaky, 1)
	assert.Equal(t, 2, shown.Summary.TotalFiles, "summary keeps the full counts")

	var full schema.Report
	require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.JSONFile)), &full))
	assert.Len(t, full.Files.Stable, 1, "the detailed file is never filtered")
	assert.Contains(t, readFile(t, cfg.ReportFile), "STABLE TEST FILES")
}

func TestWriteScanReportFilteredText(t *testing.T) {
	cfg := scanOutputConfig(t, schema.TextOut)
	cfg.Categories = []schema.Category{schema.StableCategory}

	require.NoError(t, WriteScanReport(sampleReport(), cfg, time.Second, &bytes.Buffer{}))

	console := readFile(t, cfg.OutputFile)
	assert.Contains(t, console, "STABLE TEST FILES")
	assert.NotContains(t, console, "FLAKY TEST FILES")
	assert.Contains(t, readFile(t, cfg.ReportFile), "FLAKY TEST FILES")
}

func TestWriteScanReportFormats(t *testing.T) {
	t.Run("csv", func(t *testing.T) {
		cfg := scanOutputConfig(t, schema.CSVOut)
		require.NoError(t, WriteScanReport(sampleReport(), cfg, time.Second, &bytes.Buffer{}))

		records, err := csv.NewReader(strings.NewReader(readFile(t, cfg.OutputFile))).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "path", records[0][0])
		assert.Equal(t, []string{
			"tests/b.test.js", "flaky", "flaky-threshold", "4", "0", "0", "10", "200", "true", "", "7", "",
		}, records[2])
	})

	t.Run("yaml", func(t *testing.T) {
		cfg := scanOutputConfig(t, schema.YAMLOut)
		require.NoError(t, WriteScanReport(sampleReport(), cfg, time.Second, &bytes.Buffer{}))

		out := readFile(t, cfg.OutputFile)
		var doc map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
		assert.Contains(t, doc, "summary")
		assert.Contains(t, out, "relative_path: tests/unit/a.test.js")
		assert.Contains(t, out, "file_path: /repo/tests/unit/a.test.js")
		assert.NotContains(t, out, "last_git_commit")
	})

	t.Run("table", func(t *testing.T) {
		cfg := scanOutputConfig(t, schema.TableOut)
		require.NoError(t, WriteScanReport(sampleReport(), cfg, time.Second, &bytes.Buffer{}))

		out := readFile(t, cfg.OutputFile)
		assert.Contains(t, out, "tests/unit/a.test.js")
		assert.Contains(t, out, "stable")
		assert.NotContains(t, strings.ToUpper(out), "RULE")
		assert.Contains(t, out, "Showing 2 of 2 files (stable: 1, flaky: 1, outdated: 0, unknown: 0)")
		assert.Contains(t, out, "Cache backend: none")
	})

	t.Run("table with explain", func(t *testing.T) {
		cfg := scanOutputConfig(t, schema.TableOut)
		cfg.Explain = true
		require.NoError(t, WriteScanReport(sampleReport(), cfg, time.Second, &bytes.Buffer{}))

		out := readFile(t, cfg.OutputFile)
		assert.Contains(t, out, "flaky-threshold")
		assert.Contains(t, out, "stable-clean")
	})

	t.Run("parquet", func(t *testing.T) {
		cfg := scanOutputConfig(t, schema.ParquetOut)
		require.NoError(t, WriteScanReport(sampleReport(), cfg, time.Second, &bytes.Buffer{}))

		info, err := os.Stat(cfg.OutputFile)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	})
}

func TestWriteScanReportUnwritable(t *testing.T) {
	cfg := scanOutputConfig(t, schema.TextOut)
	cfg.JSONFile = filepath.Join(t.TempDir(), "missing", "detailed.json")

	var status bytes.Buffer
	err := WriteScanReport(sampleReport(), cfg, time.Second, &status)
	assert.ErrorContains(t, err, "failed to create")
	assert.Empty(t, status.String())
}

func TestFormatOld(t *testing.T) {
	assert.Equal(t, "-", formatOld(schema.FileMetadata{}))
	assert.Equal(t, "yes", formatOld(schema.FileMetadata{IsOld: schema.Some(true)}))
	assert.Equal(t, "no", formatOld(schema.FileMetadata{IsOld: schema.Some(false)}))
}
