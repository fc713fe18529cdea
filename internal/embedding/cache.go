package embedding

import (
	"container/list"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sync"

	"github.com/hyperjump/kyori/internal/models"
)

// EmbeddingCache is an LRU cache of per-waveform embeddings keyed by a
// content digest, so repeated scoring of the same audio skips inference.
type EmbeddingCache struct {
	capacity int
	cache    map[string]*list.Element
	lru      *list.List
	mu       sync.Mutex
}

type cacheEntry struct {
	key   string
	value [][]float64
}

// NewEmbeddingCache creates a new cache with the given capacity.
func NewEmbeddingCache(capacity int) *EmbeddingCache {
	return &EmbeddingCache{
		capacity: capacity,
		cache:    make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// Get returns the cached embedding rows for key if present. A full
// lock is taken because a hit reorders the LRU list and embedders may
// be called from concurrent workers.
func (c *EmbeddingCache) Get(key string) ([][]float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		return elem.Value.(*cacheEntry).value, true
	}
	return nil, false
}

// Set stores the embedding rows for key, evicting the oldest entry if at
// capacity.
func (c *EmbeddingCache) Set(key string, value [][]float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = value
		return
	}

	entry := &cacheEntry{key: key, value: value}
	elem := c.lru.PushFront(entry)
	c.cache[key] = elem

	if c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.cache, oldest.Value.(*cacheEntry).key)
		}
	}
}

// WaveformKey returns a digest over the waveform samples and sample
// rate. Identical audio always maps to the same key.
func WaveformKey(w *models.Waveform) string {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(w.SampleRate))
	h.Write(buf[:])
	for _, s := range w.Samples {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(s))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
