package core

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverTestFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"src/app.js":                   {Data: []byte("app")},
		"src/app.test.js":              {Data: []byte("test")},
		"src/widget.spec.tsx":          {Data: []byte("spec")},
		"src/testing_utils.py":         {Data: []byte("matches *test*")},
		"lib/inspector.ts":             {Data: []byte("matches *spec*")},
		"test/helpers/setup.js":        {Data: []byte("under test/")},
		"tests/test_models.py":         {Data: []byte("under tests/")},
		"pkg/__tests__/button.jsx":     {Data: []byte("under __tests__/")},
		"tests/fixtures/data.json":     {Data: []byte("wrong extension")},
		"tests/README.md":              {Data: []byte("wrong extension")},
		"src/app.test.go":              {Data: []byte("wrong extension")},
		"Test/Upper.js":                {Data: []byte("case-sensitive directory")},
		"main.py":                      {Data: []byte("not a test")},
		"web/node_modules/x/a.test.js": {Data: []byte("vendored")},
		"root.test.ts":                 {Data: []byte("root level")},
	}

	files, err := DiscoverTestFiles(fsys, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"lib/inspector.ts",
		"pkg/__tests__/button.jsx",
		"root.test.ts",
		"src/app.test.js",
		"src/testing_utils.py",
		"src/widget.spec.tsx",
		"test/helpers/setup.js",
		"tests/test_models.py",
		"web/node_modules/x/a.test.js",
	}, files)
}

func TestDiscoverTestFilesExcludes(t *testing.T) {
	fsys := fstest.MapFS{
		"src/app.test.js":              {Data: []byte("test")},
		"web/node_modules/x/a.test.js": {Data: []byte("vendored")},
		"e2e/login.e2e.ts":             {Data: []byte("e2e")},
		"e2e/tests/login.ts":           {Data: []byte("e2e")},
	}

	files, err := DiscoverTestFiles(fsys, []string{"node_modules/", "e2e/"})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/app.test.js"}, files)
}

func TestDiscoverTestFilesEmpty(t *testing.T) {
	fsys := fstest.MapFS{
		"src/app.js": {Data: []byte("app")},
	}
	files, err := DiscoverTestFiles(fsys, nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscoverTestFilesSymlinks(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tests"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "real.js"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "somedir.test.js"), 0o755))
	if err := os.Symlink(filepath.Join(dir, "real.js"), filepath.Join(dir, "tests", "link.js")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing.js"), filepath.Join(dir, "tests", "dangling.js")))

	files, err := DiscoverTestFiles(os.DirFS(dir), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"tests/link.js"}, files, "symlinks to regular files are kept, directories and dangling links are not")
}

func TestDiscoverTestFilesMissingRoot(t *testing.T) {
	_, err := DiscoverTestFiles(os.DirFS(filepath.Join(t.TempDir(), "missing")), nil)
	assert.Error(t, err)
}
