package core

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/huangsam/testhealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingFS wraps an fs.FS and fails reads of selected paths.
type failingFS struct {
	fs.FS
	fail map[string]error
}

func (f failingFS) Open(name string) (fs.File, error) {
	if err, ok := f.fail[name]; ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return f.FS.Open(name)
}

func scanString(t *testing.T, relPath, content string) schema.ContentAnalysis {
	t.Helper()
	fsys := fstest.MapFS{relPath: {Data: []byte(content)}}
	return ScanContent(fsys, relPath, "/repo/"+relPath)
}

func TestScanContentIndicators(t *testing.T) {
	tests := []struct {
		name             string
		path             string
		content          string
		expectedFlaky    []string
		expectedOutdated []string
		expectedStable   []string
	}{
		{
			name:             "no matches",
			path:             "tests/math.test.js",
			content:          "expect(add(1, 2)).toBe(3);",
			expectedFlaky:    []string{},
			expectedOutdated: []string{},
			expectedStable:   []string{},
		},
		{
			name:             "case variants count separately",
			path:             "tests/legacy.test.js",
			content:          "// this is OLD code",
			expectedFlaky:    []string{},
			expectedOutdated: []string{"old", "OLD"},
			expectedStable:   []string{},
		},
		{
			name:             "repeated occurrences count once",
			path:             "tests/a.test.js",
			content:          "Math.random(); Math.random(); Math.random();",
			expectedFlaky:    []string{"Math.random", "random"},
			expectedOutdated: []string{},
			expectedStable:   []string{},
		},
		{
			name:             "stable phrases",
			path:             "tests/pure.test.js",
			content:          "// deterministic pure function checks",
			expectedFlaky:    []string{},
			expectedOutdated: []string{},
			expectedStable:   []string{"deterministic", "pure function"},
		},
		{
			name:             "path adjustments",
			path:             "tests/integration/unstable_unit.test.js",
			content:          "",
			expectedFlaky:    []string{"flaky in path", "integration test"},
			expectedOutdated: []string{},
			expectedStable:   []string{"unit test"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := scanString(t, tt.path, tt.content)
			assert.False(t, a.Error.IsSet())
			assert.Equal(t, tt.expectedFlaky, a.Indicators.Flaky)
			assert.Equal(t, tt.expectedOutdated, a.Indicators.Outdated)
			assert.Equal(t, tt.expectedStable, a.Indicators.Stable)
		})
	}
}

func TestScanContentPathWeights(t *testing.T) {
	a := scanString(t, "tests/integration/unstable_unit.test.js", "")
	assert.Equal(t, 6, a.FlakyScore, "flaky path +5 and integration +1")
	assert.Equal(t, 2, a.StableScore, "unit +2")
	assert.Equal(t, 0, a.OutdatedScore)

	upper := scanString(t, "Tests/FLAKY/Login.test.js", "")
	assert.Equal(t, 5, upper.FlakyScore, "path rules use the lowercased path")
}

func TestScanContentFlakyScenario(t *testing.T) {
	// "time" also matches inside setTimeout, and "flaky" and "FLAKY" both match.
	a := scanString(t, "tests/login.test.js", "const delay = random() * 10;\nsetTimeout(done, delay); // flaky")
	assert.GreaterOrEqual(t, a.FlakyScore, 3)
	assert.Subset(t, a.Indicators.Flaky, []string{"setTimeout", "random", "flaky"})
}

func TestScanContentCounts(t *testing.T) {
	a := scanString(t, "tests/a.test.js", "line one\nline two\n")
	assert.Equal(t, 3, a.Lines, "a trailing newline adds an empty last line")
	assert.Equal(t, 18, a.Size)
	assert.Equal(t, "/repo/tests/a.test.js", a.FilePath)

	empty := scanString(t, "tests/empty.test.js", "")
	assert.Equal(t, 1, empty.Lines)
	assert.Equal(t, 0, empty.Size)

	multibyte := scanString(t, "tests/i18n.test.js", "héllo ✓")
	assert.Equal(t, 7, multibyte.Size, "size counts characters, not bytes")
}

func TestScanContentPreview(t *testing.T) {
	exact := strings.Repeat("a", schema.PreviewLimit)
	assert.Equal(t, exact, scanString(t, "tests/a.test.js", exact).ContentPreview)

	long := strings.Repeat("é", schema.PreviewLimit+1)
	preview := scanString(t, "tests/b.test.js", long).ContentPreview
	assert.Equal(t, strings.Repeat("é", schema.PreviewLimit)+"...", preview)
}

func TestScanContentReadFailure(t *testing.T) {
	fsys := failingFS{
		FS:   fstest.MapFS{"tests/locked.test.js": {Data: []byte("flaky random setTimeout")}},
		fail: map[string]error{"tests/locked.test.js": fs.ErrPermission},
	}
	a := ScanContent(fsys, "tests/locked.test.js", "/repo/tests/locked.test.js")

	msg, ok := a.Error.Get()
	require.True(t, ok)
	assert.Contains(t, msg, "permission denied")
	assert.Zero(t, a.FlakyScore+a.OutdatedScore+a.StableScore)
	assert.Zero(t, a.Size)
	assert.Zero(t, a.Lines)
	assert.Empty(t, a.ContentPreview)
	assert.NotNil(t, a.Indicators.Flaky)
}

func TestScanContentInvalidUTF8(t *testing.T) {
	fsys := fstest.MapFS{"tests/binary.test.js": {Data: []byte{0xff, 0xfe, 'f', 'l', 'a', 'k', 'y'}}}
	a := ScanContent(fsys, "tests/binary.test.js", "/repo/tests/binary.test.js")
	assert.True(t, a.Error.IsSet())
	assert.Zero(t, a.FlakyScore)
}

func TestScanContentMissingFile(t *testing.T) {
	a := ScanContent(fstest.MapFS{}, "tests/gone.test.js", "/repo/tests/gone.test.js")
	msg, ok := a.Error.Get()
	require.True(t, ok)
	assert.Contains(t, msg, "does not exist")
}
