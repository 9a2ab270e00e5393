package iocache

import (
	"bytes"
	"testing"
	"time"

	"github.com/huangsam/testhealth/schema"
	"github.com/stretchr/testify/assert"
)

func TestPrintCacheStatus(t *testing.T) {
	tests := []struct {
		name   string
		status schema.CacheStatus
		want   string
	}{
		{
			name:   "disconnected",
			status: schema.CacheStatus{Backend: "none"},
			want:   "Cache Backend: none\nConnected: false\n",
		},
		{
			name:   "empty",
			status: schema.CacheStatus{Backend: "sqlite", Connected: true, TableSizeBytes: 4096},
			want:   "Cache Backend: sqlite\nConnected: true\nTotal Entries: 0\nTable Size: 4096 bytes\n",
		},
		{
			name: "entries",
			status: schema.CacheStatus{
				Backend:         "sqlite",
				Connected:       true,
				TotalEntries:    2,
				LastEntryTime:   time.Date(2025, 2, 3, 4, 5, 6, 0, time.Local),
				OldestEntryTime: time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local),
				TableSizeBytes:  8192,
			},
			want: "Cache Backend: sqlite\nConnected: true\nTotal Entries: 2\n" +
				"Last Entry: 2025-02-03 04:05:06\nOldest Entry: 2025-01-02 03:04:05\nTable Size: 8192 bytes\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			PrintCacheStatus(&buf, tt.status)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrintHistoryStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintHistoryStatus(&buf, schema.HistoryStatus{Backend: "none"})
	assert.Equal(t, "History Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	PrintHistoryStatus(&buf, schema.HistoryStatus{
		Backend:        "sqlite",
		Connected:      true,
		TotalRuns:      2,
		LastRunID:      2,
		LastRunUUID:    "abc",
		LastRunTime:    time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC),
		OldestRunTime:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		TotalFiles:     5,
		LastRunSummary: schema.Summary{TotalFiles: 3, Stable: 1, Flaky: 2},
		TableSizes:     map[string]int64{FileResultsTable: 20, ScanRunsTable: 10},
	})
	want := "History Backend: sqlite\nConnected: true\nTotal Runs: 2\n" +
		"Last Run ID: 2 (abc)\nLast Run: 2025-02-03 04:05:06\n" +
		"Last Run Summary: 3 files (stable: 1, flaky: 2, outdated: 0, unknown: 0)\n" +
		"Oldest Run: 2025-01-02 03:04:05\nTotal File Results: 5\n" +
		"Table Sizes:\n  testhealth_file_results: 20 bytes\n  testhealth_scan_runs: 10 bytes\n"
	assert.Equal(t, want, buf.String())
}
