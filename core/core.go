// Package core has the scan pipeline: discovery, content scanning, metadata and categorization.
package core

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/internal/outwriter"
	"github.com/huangsam/testhealth/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteScan runs the scan, writes the JSON and text reports and prints the
// configured console output. It serves as the main entry point for the 'scan' command.
func ExecuteScan(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	progress := progressWriter(cfg)
	report, err := runScanCore(ctx, cfg, os.DirFS(cfg.RepoPath), newGitClient(cfg), mgr, progress)
	if err != nil {
		return err
	}
	return outwriter.WriteScanReport(report, cfg, time.Since(start), progress)
}

// GetScanReport runs the scan without printing anything.
// It is used by callers that render the report themselves, such as the MCP server.
func GetScanReport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.Report, error) {
	ctx = withSuppressHeader(ctx)
	return runScanCore(ctx, cfg, os.DirFS(cfg.RepoPath), newGitClient(cfg), mgr, io.Discard)
}

// ExecuteIndicators prints the indicator lists, path rules and categorizer rules.
// This is a static display that does not touch the repository.
func ExecuteIndicators(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	return outwriter.WriteIndicators(schema.NewIndicatorCatalog(Rules()), cfg)
}

// newGitClient returns a local git client bounded by the configured timeout.
func newGitClient(cfg *contract.Config) *contract.LocalGitClient {
	client := contract.NewLocalGitClient()
	if cfg.GitTimeout > 0 {
		client.Timeout = cfg.GitTimeout
	}
	return client
}

// progressWriter picks where progress and status lines go. They share stdout
// with the text report but move to stderr when stdout carries structured output.
func progressWriter(cfg *contract.Config) io.Writer {
	switch {
	case cfg.Quiet:
		return io.Discard
	case cfg.Output == schema.TextOut || cfg.OutputFile != "":
		return os.Stdout
	default:
		return os.Stderr
	}
}
