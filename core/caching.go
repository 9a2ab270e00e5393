package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/schema"
	"github.com/klauspost/compress/zstd"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cacheMaxAge is how long a git metadata entry stays valid.
const cacheMaxAge = 7 * 24 * time.Hour

var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	zstdDecoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
)

// gitMetadataCacheKey creates a unique key for a file's git metadata.
// The HEAD hash is part of the key, so any new commit invalidates every entry.
func gitMetadataCacheKey(root, repoHash, relPath string) string {
	key := fmt.Sprintf("%s:%s:%s", root, repoHash, relPath)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

// checkCacheHit attempts to retrieve and validate a cached entry
func checkCacheHit(store contract.CacheStore, key string, now time.Time) (schema.GitMetadata, bool) {
	var meta schema.GitMetadata
	data, version, ts, err := store.Get(key)
	if err != nil {
		return meta, false // Cache miss
	}
	if version != currentCacheVersion || now.Sub(time.Unix(ts, 0)) > cacheMaxAge {
		return meta, false // Stale or version mismatch
	}
	raw, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return meta, false
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return meta, false
	}
	return meta, true
}

// storeCacheEntry compresses and stores git metadata. Failures only cost a future miss.
func storeCacheEntry(store contract.CacheStore, key string, meta schema.GitMetadata, now time.Time) {
	raw, err := json.Marshal(meta)
	if err != nil {
		return
	}
	data := zstdEncoder.EncodeAll(raw, nil)
	if err := store.Set(key, data, currentCacheVersion, now.Unix()); err != nil {
		contract.LogWarn("Failed to write git metadata cache", err)
	}
}
