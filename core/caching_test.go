package core

import (
	"errors"
	"testing"
	"time"

	"github.com/huangsam/testhealth/internal/iocache"
	"github.com/huangsam/testhealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGitMetadataCacheKey(t *testing.T) {
	a := gitMetadataCacheKey("/repo", "abc123", "tests/a.test.js")
	assert.Len(t, a, 64)
	assert.Equal(t, a, gitMetadataCacheKey("/repo", "abc123", "tests/a.test.js"))
	assert.NotEqual(t, a, gitMetadataCacheKey("/repo", "def456", "tests/a.test.js"), "new HEAD changes the key")
	assert.NotEqual(t, a, gitMetadataCacheKey("/other", "abc123", "tests/a.test.js"))
	assert.NotEqual(t, a, gitMetadataCacheKey("/repo", "abc123", "tests/b.test.js"))
}

func TestCacheRoundTrip(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	meta := schema.GitMetadata{
		LastGitCommit:  schema.Some("2024-05-01 10:00:00 +0000"),
		GitCommitCount: schema.Some(12),
	}

	var stored []byte
	store := &iocache.MockCacheStore{}
	store.On("Set", "k", mock.Anything, currentCacheVersion, now.Unix()).
		Run(func(args mock.Arguments) { stored = args.Get(1).([]byte) }).
		Return(nil)

	storeCacheEntry(store, "k", meta, now)
	require.NotEmpty(t, stored)

	store.On("Get", "k").Return(stored, currentCacheVersion, now.Unix(), nil)
	got, ok := checkCacheHit(store, "k", now.Add(time.Hour))
	require.True(t, ok)
	assert.Equal(t, meta, got)
	store.AssertExpectations(t)
}

func TestCacheHitRejects(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	valid := zstdEncoder.EncodeAll([]byte(`{"git_commit_count":3}`), nil)

	tests := []struct {
		name    string
		data    []byte
		version int
		ts      int64
		err     error
	}{
		{"miss", nil, 0, 0, errors.New("not found")},
		{"version mismatch", valid, currentCacheVersion + 1, now.Unix(), nil},
		{"expired", valid, currentCacheVersion, now.Add(-cacheMaxAge - time.Minute).Unix(), nil},
		{"not compressed", []byte(`{"git_commit_count":3}`), currentCacheVersion, now.Unix(), nil},
		{"bad json", zstdEncoder.EncodeAll([]byte(`{`), nil), currentCacheVersion, now.Unix(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &iocache.MockCacheStore{}
			store.On("Get", "k").Return(tt.data, tt.version, tt.ts, tt.err)
			_, ok := checkCacheHit(store, "k", now)
			assert.False(t, ok)
		})
	}

	t.Run("fresh entry", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("Get", "k").Return(valid, currentCacheVersion, now.Add(-time.Hour).Unix(), nil)
		got, ok := checkCacheHit(store, "k", now)
		require.True(t, ok)
		assert.Equal(t, schema.Some(3), got.GitCommitCount)
		assert.False(t, got.LastGitCommit.IsSet())
	})
}

func TestStoreCacheEntrySetFailure(t *testing.T) {
	store := &iocache.MockCacheStore{}
	store.On("Set", "k", mock.Anything, currentCacheVersion, mock.Anything).Return(errors.New("disk full"))
	assert.NotPanics(t, func() {
		storeCacheEntry(store, "k", schema.GitMetadata{}, time.Now())
	})
	store.AssertExpectations(t)
}
