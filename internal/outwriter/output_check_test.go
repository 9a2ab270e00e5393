package outwriter

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCheckResult() schema.CheckResult {
	return schema.CheckResult{
		Passed:     false,
		TotalFiles: 4,
		Limits: []schema.CheckCategoryLimit{
			{Category: schema.FlakyCategory, Count: 2, Max: 0, Passed: false},
			{Category: schema.OutdatedCategory, Count: 1, Max: contract.Unlimited, Passed: true},
			{Category: schema.UnknownCategory, Count: 0, Max: 3, Passed: true},
		},
		Offenders: []schema.CheckOffender{
			{Path: "tests/a.test.js", Category: schema.FlakyCategory, Rule: "flaky-threshold"},
			{Path: "tests/b.test.js", Category: schema.FlakyCategory, Rule: "integration-flaky"},
		},
	}
}

func TestWriteCheckResult(t *testing.T) {
	tests := []struct {
		name     string
		output   schema.OutputMode
		contains []string
	}{
		{
			name:   "table",
			output: schema.TableOut,
			contains: []string{
				"unlimited", "FAIL", "PASS",
				"Files over the limit:",
				"tests/b.test.js (flaky, integration-flaky)",
				"❌ Check failed: 4 test files analyzed",
			},
		},
		{
			name:     "text falls back to table",
			output:   schema.TextOut,
			contains: []string{"❌ Check failed"},
		},
		{
			name:     "csv",
			output:   schema.CSVOut,
			contains: []string{"category,count,max,passed\n", "flaky,2,0,false\n", "outdated,1,-1,true\n"},
		},
		{
			name:     "yaml",
			output:   schema.YAMLOut,
			contains: []string{"passed: false", "rule: integration-flaky"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Output: tt.output, OutputFile: filepath.Join(t.TempDir(), "check.out")}
			require.NoError(t, WriteCheckResult(sampleCheckResult(), cfg, time.Second))
			out := readFile(t, cfg.OutputFile)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestWriteCheckResultJSON(t *testing.T) {
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: filepath.Join(t.TempDir(), "check.json")}
	require.NoError(t, WriteCheckResult(sampleCheckResult(), cfg, time.Second))

	var got schema.CheckResult
	require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.OutputFile)), &got))
	assert.Equal(t, sampleCheckResult(), got)
}

func TestWriteCheckResultPassed(t *testing.T) {
	result := schema.CheckResult{
		Passed:     true,
		TotalFiles: 1,
		Limits:     []schema.CheckCategoryLimit{{Category: schema.FlakyCategory, Max: 0, Passed: true}},
		Offenders:  []schema.CheckOffender{},
	}
	cfg := &contract.Config{Output: schema.TableOut, OutputFile: filepath.Join(t.TempDir(), "check.out")}
	require.NoError(t, WriteCheckResult(result, cfg, time.Second))

	out := readFile(t, cfg.OutputFile)
	assert.Contains(t, out, "✅ Check passed: 1 test files analyzed")
	assert.NotContains(t, out, "Files over the limit")
}

func TestFormatLimit(t *testing.T) {
	assert.Equal(t, "unlimited", formatLimit(contract.Unlimited))
	assert.Equal(t, "0", formatLimit(0))
	assert.Equal(t, "12", formatLimit(12))
}
