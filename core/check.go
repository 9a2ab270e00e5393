package core

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/internal/outwriter"
	"github.com/huangsam/testhealth/schema"
)

// ErrCheckFailed is returned when a scan exceeds one of the configured limits.
var ErrCheckFailed = errors.New("test health check failed")

// ExecuteCheck runs the scan and enforces the per-category limits for CI/CD gating.
// It returns ErrCheckFailed when any limit is exceeded.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	progress := io.Writer(os.Stderr)
	if cfg.Quiet {
		progress = io.Discard
	}
	report, err := runScanCore(ctx, cfg, os.DirFS(cfg.RepoPath), newGitClient(cfg), mgr, progress)
	if err != nil {
		return err
	}
	result := evaluateLimits(report, cfg)
	if err := outwriter.WriteCheckResult(result, cfg, time.Since(start)); err != nil {
		return err
	}
	if !result.Passed {
		return ErrCheckFailed
	}
	return nil
}

// evaluateLimits compares category counts to the configured maximums.
// Unlimited categories are reported but can never fail.
func evaluateLimits(report *schema.Report, cfg *contract.Config) schema.CheckResult {
	limits := []struct {
		category schema.Category
		max      int
	}{
		{schema.FlakyCategory, cfg.MaxFlaky},
		{schema.OutdatedCategory, cfg.MaxOutdated},
		{schema.UnknownCategory, cfg.MaxUnknown},
	}

	result := schema.CheckResult{
		Passed:     true,
		TotalFiles: report.Summary.TotalFiles,
		Limits:     []schema.CheckCategoryLimit{},
		Offenders:  []schema.CheckOffender{},
	}
	for _, l := range limits {
		count := report.Summary.Count(l.category)
		passed := l.max < 0 || count <= l.max
		result.Limits = append(result.Limits, schema.CheckCategoryLimit{
			Category: l.category,
			Count:    count,
			Max:      l.max,
			Passed:   passed,
		})
		if passed {
			continue
		}
		result.Passed = false
		for _, f := range report.Files.For(l.category) {
			result.Offenders = append(result.Offenders, schema.CheckOffender{
				Path:     f.RelativePath,
				Category: f.Category,
				Rule:     f.Rule,
			})
		}
	}
	return result
}
