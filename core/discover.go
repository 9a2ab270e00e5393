package core

import (
	"fmt"
	"io/fs"
	"path"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/huangsam/testhealth/internal/contract"
)

// testFilePatterns are the naming and directory conventions that mark a test file.
var testFilePatterns = []string{
	"**/*.test.*",
	"**/*.spec.*",
	"**/*test*",
	"**/*spec*",
	"**/test/**/*",
	"**/tests/**/*",
	"**/__tests__/**/*",
}

// testFileExtensions are the source extensions that are scanned.
var testFileExtensions = map[string]struct{}{
	".js":  {},
	".ts":  {},
	".jsx": {},
	".tsx": {},
	".py":  {},
}

// DiscoverTestFiles walks fsys and returns the slash-separated paths of all
// regular files matching a test pattern, sorted and without duplicates.
// Paths matching any of excludes are dropped after matching.
func DiscoverTestFiles(fsys fs.FS, excludes []string) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." {
				return err
			}
			// Unreadable subtrees are skipped
			return nil
		}
		if d.IsDir() || p == "." {
			return nil
		}
		if _, ok := testFileExtensions[path.Ext(p)]; !ok {
			return nil
		}
		if !isRegularFile(fsys, p, d) {
			return nil
		}
		matched, err := matchesTestPattern(p)
		if err != nil {
			return err
		}
		if matched && !contract.ShouldIgnore(p, excludes) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk repository: %w", err)
	}
	// WalkDir visits each path once in lexical order; sort anyway to keep byte order explicit
	slices.Sort(files)
	return slices.Compact(files), nil
}

// matchesTestPattern reports whether p matches at least one test pattern.
func matchesTestPattern(p string) (bool, error) {
	for _, pattern := range testFilePatterns {
		ok, err := doublestar.Match(pattern, p)
		if err != nil {
			return false, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// isRegularFile resolves symlinks and reports whether the entry is a regular file.
func isRegularFile(fsys fs.FS, p string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := fs.Stat(fsys, p)
	return err == nil && info.Mode().IsRegular()
}
