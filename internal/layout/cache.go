package layout

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/llehouerou/lyricsync/internal/lyrics"
)

const defaultCacheCapacity = 256

type cacheKey struct {
	content uint64
	opts    Options
}

// Cache memoizes layouts keyed by line content, timing and options.
// It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	entries  map[cacheKey]Layout
	capacity int

	hits, misses int
}

// NewCache creates a cache holding up to capacity layouts. When full it is
// emptied before the next insert.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	return &Cache{
		entries:  make(map[cacheKey]Layout, capacity),
		capacity: capacity,
	}
}

// Get returns the cached layout for the line, building it on a miss.
func (c *Cache) Get(line lyrics.Line, opts Options, m Measurer) Layout {
	key := cacheKey{content: hashLine(line), opts: opts}

	c.mu.Lock()
	if l, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return l
	}
	c.misses++
	c.mu.Unlock()

	l := Build(line, opts, m)

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.capacity {
		clear(c.entries)
	}
	c.entries[key] = l
	return l
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len returns the number of cached layouts.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// hashLine digests everything about a line that affects its layout.
func hashLine(line lyrics.Line) uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeInt := func(n int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(n))
		_, _ = d.Write(buf[:])
	}

	start, end := line.Span()
	writeInt(start)
	writeInt(end)
	if line.IsAccompaniment() {
		_, _ = d.WriteString("bg")
	}
	if _, ok := line.(*lyrics.SyncedLine); ok {
		_, _ = d.WriteString("synced")
	}
	for _, s := range lyrics.Syllables(line) {
		writeInt(s.StartMs)
		writeInt(s.EndMs)
		writeInt(int64(len(s.Content)))
		_, _ = d.WriteString(s.Content)
	}
	return d.Sum64()
}
