package core

import (
	"testing"

	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkReport() *schema.Report {
	r := schema.NewReport(5, schema.AnalysisMetadata{})
	r.Add(schema.FileResult{RelativePath: "a.test.js", Category: schema.StableCategory, Rule: "stable-clean"})
	r.Add(schema.FileResult{RelativePath: "b.test.js", Category: schema.FlakyCategory, Rule: "flaky-threshold"})
	r.Add(schema.FileResult{RelativePath: "c.test.js", Category: schema.FlakyCategory, Rule: "integration-flaky"})
	r.Add(schema.FileResult{RelativePath: "d.test.js", Category: schema.OutdatedCategory, Rule: "old-with-debt"})
	r.Add(schema.FileResult{RelativePath: "e.test.js", Category: schema.UnknownCategory, Rule: "fallback"})
	return r
}

func TestEvaluateLimits(t *testing.T) {
	tests := []struct {
		name              string
		maxFlaky          int
		maxOutdated       int
		maxUnknown        int
		expectedPassed    bool
		expectedOffenders []string
	}{
		{"all unlimited", contract.Unlimited, contract.Unlimited, contract.Unlimited, true, nil},
		{"limits at counts", 2, 1, 1, true, nil},
		{"zero flaky allowed", 0, contract.Unlimited, contract.Unlimited, false, []string{"b.test.js", "c.test.js"}},
		{"two categories fail", 1, 0, contract.Unlimited, false, []string{"b.test.js", "c.test.js", "d.test.js"}},
		{"unknown fails", contract.Unlimited, contract.Unlimited, 0, false, []string{"e.test.js"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{MaxFlaky: tt.maxFlaky, MaxOutdated: tt.maxOutdated, MaxUnknown: tt.maxUnknown}
			result := evaluateLimits(checkReport(), cfg)

			assert.Equal(t, tt.expectedPassed, result.Passed)
			assert.Equal(t, 5, result.TotalFiles)
			require.Len(t, result.Limits, 3)

			var paths []string
			for _, o := range result.Offenders {
				paths = append(paths, o.Path)
			}
			assert.Equal(t, tt.expectedOffenders, paths)
		})
	}
}

func TestEvaluateLimitsDetails(t *testing.T) {
	cfg := &contract.Config{MaxFlaky: 1, MaxOutdated: contract.Unlimited, MaxUnknown: 5}
	result := evaluateLimits(checkReport(), cfg)

	assert.Equal(t, []schema.CheckCategoryLimit{
		{Category: schema.FlakyCategory, Count: 2, Max: 1, Passed: false},
		{Category: schema.OutdatedCategory, Count: 1, Max: contract.Unlimited, Passed: true},
		{Category: schema.UnknownCategory, Count: 1, Max: 5, Passed: true},
	}, result.Limits)
	require.Len(t, result.Offenders, 2)
	assert.Equal(t, schema.CheckOffender{Path: "c.test.js", Category: schema.FlakyCategory, Rule: "integration-flaky"}, result.Offenders[1])
}

func TestEvaluateLimitsEmptyReport(t *testing.T) {
	cfg := &contract.Config{MaxFlaky: 0, MaxOutdated: 0, MaxUnknown: 0}
	result := evaluateLimits(schema.NewReport(0, schema.AnalysisMetadata{}), cfg)
	assert.True(t, result.Passed)
	assert.Empty(t, result.Offenders)
}
