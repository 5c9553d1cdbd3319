// Package store persists bookmarks and settings and keeps a fast in-memory
// index of which references are bookmarked.
package store

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	lru "github.com/hashicorp/golang-lru/v2"

	"nur/internal/core"
)

// BookmarkIndex answers "is this reference bookmarked" without touching the
// database. A bloom filter rejects unknown keys cheaply; the LRU bounds
// memory. Once an entry has been evicted the index is no longer complete
// and negative answers must be confirmed by the caller.
type BookmarkIndex struct {
	keys              map[string]struct{}
	bloom             *bloom.BloomFilter
	lru               *lru.Cache[string, struct{}]
	mutex             sync.RWMutex
	capacity          int
	falsePositiveRate float64
	evicted           bool
}

// NewBookmarkIndex creates an index holding at most capacity keys.
func NewBookmarkIndex(capacity int, falsePositiveRate float64) *BookmarkIndex {
	if capacity <= 0 {
		capacity = 1
	}
	// One spare slot so the LRU never evicts behind the map's back.
	lruCache, _ := lru.New[string, struct{}](capacity + 1)

	return &BookmarkIndex{
		keys:              make(map[string]struct{}),
		bloom:             bloom.NewWithEstimates(uint(capacity), falsePositiveRate),
		lru:               lruCache,
		capacity:          capacity,
		falsePositiveRate: falsePositiveRate,
	}
}

// IndexKey builds the identity a bookmark is deduplicated on.
func IndexKey(ownerID string, kind core.BookmarkKind, referenceID string) string {
	return ownerID + "|" + string(kind) + "|" + referenceID
}

// Has reports whether key is known to the index.
func (bi *BookmarkIndex) Has(key string) bool {
	bi.mutex.RLock()
	defer bi.mutex.RUnlock()

	if !bi.bloom.TestString(key) {
		return false
	}

	_, exists := bi.keys[key]
	return exists
}

// Complete reports whether every key ever added is still held, making a
// negative Has authoritative.
func (bi *BookmarkIndex) Complete() bool {
	bi.mutex.RLock()
	defer bi.mutex.RUnlock()
	return !bi.evicted
}

func (bi *BookmarkIndex) Add(key string) {
	bi.mutex.Lock()
	defer bi.mutex.Unlock()
	bi.add(key)
}

func (bi *BookmarkIndex) Remove(key string) {
	bi.mutex.Lock()
	defer bi.mutex.Unlock()

	if _, exists := bi.keys[key]; !exists {
		return
	}

	delete(bi.keys, key)
	bi.lru.Remove(key)
	// The bloom filter keeps the key; Has still consults the map.
}

// Load replaces the index contents with keys.
func (bi *BookmarkIndex) Load(keys []string) {
	bi.mutex.Lock()
	defer bi.mutex.Unlock()

	bi.clear()
	for _, key := range keys {
		if key != "" {
			bi.add(key)
		}
	}
}

func (bi *BookmarkIndex) Size() int {
	bi.mutex.RLock()
	defer bi.mutex.RUnlock()
	return len(bi.keys)
}

func (bi *BookmarkIndex) Clear() {
	bi.mutex.Lock()
	defer bi.mutex.Unlock()
	bi.clear()
}

func (bi *BookmarkIndex) add(key string) {
	if _, exists := bi.keys[key]; exists {
		bi.lru.Get(key)
		return
	}

	bi.keys[key] = struct{}{}
	bi.bloom.AddString(key)
	bi.lru.Add(key, struct{}{})

	for len(bi.keys) > bi.capacity {
		bi.evictOldest()
	}
}

func (bi *BookmarkIndex) clear() {
	bi.keys = make(map[string]struct{})
	bi.bloom = bloom.NewWithEstimates(uint(bi.capacity), bi.falsePositiveRate)
	bi.lru.Purge()
	bi.evicted = false
}

func (bi *BookmarkIndex) evictOldest() {
	oldestKey, _, ok := bi.lru.GetOldest()
	if !ok {
		return
	}

	delete(bi.keys, oldestKey)
	bi.lru.Remove(oldestKey)
	bi.evicted = true
}
