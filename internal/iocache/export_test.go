package iocache

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/testhealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestExportHistory(t *testing.T) {
	store := newTestHistoryStore(t)
	runID, err := store.BeginScan(fixedTime, "u", "/repo", nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordFileResult(runID, flakyResult("a.test.js"), fixedTime))
	require.NoError(t, store.EndScan(runID, fixedTime.Add(time.Second), schema.Summary{TotalFiles: 1, Flaky: 1}))

	base := filepath.Join(t.TempDir(), "history")
	var out bytes.Buffer
	require.NoError(t, ExportHistory(store, base, &out))

	assert.FileExists(t, base+".scan_runs.parquet")
	assert.FileExists(t, base+".file_results.parquet")
	assert.Contains(t, out.String(), "Exporting data from sqlite backend...\n")
	assert.Contains(t, out.String(), "Exported 1 scan runs to: "+base+".scan_runs.parquet\n")
	assert.Contains(t, out.String(), "Exported 1 file results to: "+base+".file_results.parquet\n")
}

func TestExportHistoryErrors(t *testing.T) {
	t.Run("no output file", func(t *testing.T) {
		err := ExportHistory(&MockHistoryStore{}, "", &bytes.Buffer{})
		assert.ErrorContains(t, err, "--output-file is required")
	})

	t.Run("not configured", func(t *testing.T) {
		err := ExportHistory(nil, "out", &bytes.Buffer{})
		assert.ErrorContains(t, err, "not configured")
	})

	t.Run("empty history", func(t *testing.T) {
		store := &MockHistoryStore{}
		store.On("GetStatus").Return(schema.HistoryStatus{Backend: "sqlite", Connected: true}, nil)
		err := ExportHistory(store, "out", &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrNoHistory)
	})

	t.Run("query failure", func(t *testing.T) {
		store := &MockHistoryStore{}
		store.On("GetStatus").Return(schema.HistoryStatus{TotalRuns: 1}, nil)
		store.On("GetAllScanRuns").Return(nil, errors.New("boom"))
		err := ExportHistory(store, filepath.Join(t.TempDir(), "out"), &bytes.Buffer{})
		assert.ErrorContains(t, err, "failed to retrieve scan runs: boom")
		store.AssertNotCalled(t, "GetAllFileResults")
	})
}
