package core

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/schema"
)

// runScanCore discovers, analyzes and categorizes every test file, one file at a time.
// Progress lines go to progress unless the context suppresses them.
func runScanCore(ctx context.Context, cfg *contract.Config, fsys fs.FS, client contract.GitClient, mgr contract.CacheManager, progress io.Writer) (*schema.Report, error) {
	if shouldSuppressHeader(ctx) {
		progress = io.Discard
	}
	logf := func(format string, a ...any) {
		_, _ = fmt.Fprintf(progress, format, a...)
	}

	start := time.Now()
	runUUID := uuid.NewString()
	logf("🚀 Starting test file analysis...\n")

	// --- 1. Discovery ---
	logf("🔍 Finding test files...\n")
	files, err := DiscoverTestFiles(fsys, cfg.Excludes)
	if err != nil {
		return nil, err
	}
	logf("Found %d test files\n", len(files))

	var cache contract.CacheStore
	var history contract.HistoryStore
	if mgr != nil {
		cache = mgr.GetMetadataStore()
		history = mgr.GetHistoryStore()
	}

	env := &fileAnalyzer{
		root:     cfg.RepoPath,
		fsys:     fsys,
		git:      client,
		cache:    cache,
		oldAfter: cfg.OldAfter,
		now:      start,
	}
	if env.oldAfter <= 0 {
		env.oldAfter = schema.DefaultOldAfter
	}
	if cache != nil && client != nil {
		// Outside a repository there is no HEAD and the cache is bypassed
		if hash, err := client.GetRepoHash(ctx, cfg.RepoPath); err == nil {
			env.repoHash = hash
		}
	}

	// --- 2. Begin History Tracking (if configured) ---
	ctx = beginScanTracking(ctx, history, cfg, start, runUUID)

	// --- 3. Per-file Analysis ---
	report := schema.NewReport(len(files), schema.AnalysisMetadata{
		AnalyzedAt:     start.Format(time.RFC3339),
		RepositoryPath: cfg.RepoPath,
		RunID:          runUUID,
	})
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logf("📝 Analyzing %s\n", rel)
		result := analyzeFile(ctx, env, rel)
		report.Add(result)
		recordFileResult(ctx, history, result)
	}

	// --- 4. End History Tracking ---
	endScanTracking(ctx, history, report.Summary)

	return report, nil
}

// analyzeFile runs every step for a single file. Failures are recorded on the result.
func analyzeFile(ctx context.Context, env *fileAnalyzer, relPath string) schema.FileResult {
	return NewFileResultBuilder(ctx, env, relPath).
		ScanContent().      // Scores content and path
		FetchFileStats().   // Size, timestamps and age
		FetchGitMetadata(). // Last commit date and commit count
		Categorize().       // First matching rule wins
		Build()
}

// beginScanTracking creates the history run and stores its ID in the context.
func beginScanTracking(ctx context.Context, history contract.HistoryStore, cfg *contract.Config, start time.Time, runUUID string) context.Context {
	if history == nil {
		return ctx
	}
	runID, err := history.BeginScan(start, runUUID, cfg.RepoPath, cfg.Params())
	if err != nil {
		contract.LogWarn("Scan history initialization failed", err)
		return ctx
	}
	return withScanRunID(ctx, runID)
}

// recordFileResult stores one file's outcome when tracking is active.
func recordFileResult(ctx context.Context, history contract.HistoryStore, result schema.FileResult) {
	runID, ok := getScanRunID(ctx)
	if history == nil || !ok {
		return
	}
	if err := history.RecordFileResult(runID, result, time.Now()); err != nil {
		logTrackingError("RecordFileResult", result.RelativePath, err)
	}
}

// endScanTracking completes the history run with the final counts.
func endScanTracking(ctx context.Context, history contract.HistoryStore, summary schema.Summary) {
	runID, ok := getScanRunID(ctx)
	if history == nil || !ok {
		return
	}
	if err := history.EndScan(runID, time.Now(), summary); err != nil {
		contract.LogWarn("Failed to finalize scan history", err)
	}
}

// logTrackingError logs database tracking errors to stderr without disrupting the scan.
func logTrackingError(operation, path string, err error) {
	contract.LogWarn(fmt.Sprintf("Scan history failed for %s on %s", operation, path), err)
}
