package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalog() schema.IndicatorCatalog {
	return schema.NewIndicatorCatalog([]schema.RuleInfo{
		{Order: 1, Name: "flaky-threshold", Description: "flaky score >= 3"},
		{Order: 2, Name: "fallback", Description: "highest score wins"},
	})
}

func TestWriteIndicatorsText(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, OutputFile: filepath.Join(t.TempDir(), "ind.txt")}
	require.NoError(t, WriteIndicators(sampleCatalog(), cfg))

	out := readFile(t, cfg.OutputFile)
	assert.Contains(t, out, "⚠️ FLAKY (19):")
	assert.Contains(t, out, "📅 OUTDATED (15):")
	assert.Contains(t, out, "✅ STABLE (7):")
	assert.Contains(t, out, `"Math.random", "setTimeout"`)
	assert.Contains(t, out, `"flaky" or "unstable" → +5 flaky (flaky in path)`)
	assert.Contains(t, out, "   1. flaky-threshold    flaky score >= 3\n")
}

func TestWriteIndicatorsJSON(t *testing.T) {
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: filepath.Join(t.TempDir(), "ind.json")}
	require.NoError(t, WriteIndicators(sampleCatalog(), cfg))

	var got schema.IndicatorCatalog
	require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.OutputFile)), &got))
	assert.Equal(t, sampleCatalog(), got)
}

func TestWriteIndicatorsCSV(t *testing.T) {
	cfg := &contract.Config{Output: schema.CSVOut, OutputFile: filepath.Join(t.TempDir(), "ind.csv")}
	require.NoError(t, WriteIndicators(sampleCatalog(), cfg))

	records, err := csv.NewReader(strings.NewReader(readFile(t, cfg.OutputFile))).ReadAll()
	require.NoError(t, err)
	// header + 41 indicators + 3 path rules + 2 rules
	assert.Len(t, records, 1+19+15+7+3+2)
	assert.Equal(t, []string{"indicator", "flaky", "Math.random", "1"}, records[1])
	assert.Equal(t, []string{"path_rule", "stable", "unit", "2"}, records[1+41+2])
	assert.Equal(t, []string{"rule", "", "fallback", ""}, records[len(records)-1])
}

func TestWriteIndicatorsYAML(t *testing.T) {
	cfg := &contract.Config{Output: schema.YAMLOut, OutputFile: filepath.Join(t.TempDir(), "ind.yaml")}
	require.NoError(t, WriteIndicators(sampleCatalog(), cfg))

	out := readFile(t, cfg.OutputFile)
	assert.Contains(t, out, "path_rules:")
	assert.Contains(t, out, "- Math.random")
	assert.Contains(t, out, "name: flaky-threshold")
}
