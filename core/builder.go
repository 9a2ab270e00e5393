package core

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/schema"
)

// fileAnalyzer holds what every file of a scan shares.
type fileAnalyzer struct {
	root     string
	fsys     fs.FS
	git      contract.GitClient
	cache    contract.CacheStore // nil disables caching
	repoHash string              // empty disables caching
	oldAfter time.Duration
	now      time.Time
}

// FileResultBuilder builds the result for one test file step by step.
type FileResultBuilder struct {
	ctx     context.Context
	env     *fileAnalyzer
	relPath string
	result  *schema.FileResult
}

// NewFileResultBuilder is the starting point for building a file result.
func NewFileResultBuilder(ctx context.Context, env *fileAnalyzer, relPath string) *FileResultBuilder {
	return &FileResultBuilder{
		ctx:     ctx,
		env:     env,
		relPath: relPath,
		result:  &schema.FileResult{RelativePath: relPath},
	}
}

// ScanContent scores the file's text and path.
func (b *FileResultBuilder) ScanContent() *FileResultBuilder {
	filePath := filepath.Join(b.env.root, filepath.FromSlash(b.relPath))
	b.result.ContentAnalysis = ScanContent(b.env.fsys, b.relPath, filePath)
	return b
}

// FetchFileStats reads size, timestamps and age from the filesystem.
func (b *FileResultBuilder) FetchFileStats() *FileResultBuilder {
	meta := statMetadata(b.env.fsys, b.relPath, b.env.now, b.env.oldAfter)
	// Keep git fields if they were fetched first
	meta.LastGitCommit = b.result.Metadata.LastGitCommit
	meta.GitCommitCount = b.result.Metadata.GitCommitCount
	meta.GitError = b.result.Metadata.GitError
	b.result.Metadata = meta
	return b
}

// FetchGitMetadata adds the last commit date and commit count, using the cache when possible.
func (b *FileResultBuilder) FetchGitMetadata() *FileResultBuilder {
	if b.env.git == nil {
		return b
	}
	useCache := b.env.cache != nil && b.env.repoHash != ""
	var key string
	if useCache {
		key = gitMetadataCacheKey(b.env.root, b.env.repoHash, b.relPath)
		if cached, ok := checkCacheHit(b.env.cache, key, b.env.now); ok {
			b.applyGit(cached)
			return b
		}
	}

	gitMeta, err := queryGitMetadata(b.ctx, b.env.git, b.env.root, b.relPath)
	b.applyGit(gitMeta)
	if err != nil {
		b.result.Metadata.GitError = schema.Some(err.Error())
		return b
	}
	if useCache {
		storeCacheEntry(b.env.cache, key, gitMeta, b.env.now)
	}
	return b
}

func (b *FileResultBuilder) applyGit(g schema.GitMetadata) {
	b.result.Metadata.LastGitCommit = g.LastGitCommit
	b.result.Metadata.GitCommitCount = g.GitCommitCount
}

// Categorize applies the rule table to the collected scores and metadata.
func (b *FileResultBuilder) Categorize() *FileResultBuilder {
	in := InputFromResult(b.result.ContentAnalysis, b.result.Metadata, b.relPath)
	b.result.Category, b.result.Rule = CategorizeWithRule(in)
	return b
}

// Build returns the finished result.
func (b *FileResultBuilder) Build() schema.FileResult {
	return *b.result
}
