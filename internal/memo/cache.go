// ABOUTME: Memoizes report results in freecache, keyed by log version and parameters.
// ABOUTME: A nil *Cache is valid and computes every call.
package memo

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/coocood/freecache"
	"github.com/harperreed/workoutlog/internal/metrics"
	"github.com/sirupsen/logrus"
)

const minSizeMB = 1

// Entry tags. freecache refuses entries above 1/1024 of its size, so larger values are
// split into chunks stored under derived keys and indexed by a chunked header entry.
const (
	entryInline  byte = 0
	entryChunked byte = 1
)

// ErrTooLarge is logged when a value exceeds a quarter of the cache and is not stored.
var ErrTooLarge = errors.New("value too large for cache")

// Cache wraps a freecache store with hit and miss accounting.
type Cache struct {
	mu      sync.RWMutex
	store   *freecache.Cache
	ttl     int
	chunk   int
	limit   int
	metrics *metrics.Manager
	logger  logrus.FieldLogger
}

// Options configures a Cache.
type Options struct {
	SizeMB     int
	TTLSeconds int
	Metrics    *metrics.Manager
	Logger     logrus.FieldLogger
}

// New creates a cache. SizeMB below 1 is raised to 1; a TTLSeconds of 0 or less keeps
// entries until they are evicted or invalidated.
func New(opts Options) *Cache {
	size := max(opts.SizeMB, minSizeMB)
	ttl := max(opts.TTLSeconds, 0)
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	total := size * 1024 * 1024
	return &Cache{
		store:   freecache.NewCache(total),
		ttl:     ttl,
		chunk:   total / 2048,
		limit:   total / 4,
		metrics: opts.Metrics,
		logger:  logger,
	}
}

// Key joins the log version, operation and parameters into a cache key.
func Key(version uint64, op string, params ...any) string {
	parts := make([]string, 0, len(params)+2)
	parts = append(parts, fmt.Sprintf("%d", version), op)
	for _, p := range params {
		parts = append(parts, fmt.Sprint(p))
	}
	return strings.Join(parts, "|")
}

// opOf extracts the operation name from a key, for metric labels.
func opOf(key string) string {
	parts := strings.SplitN(key, "|", 3)
	if len(parts) < 2 {
		return key
	}
	return parts[1]
}

// Remember returns the cached value for key or computes, stores and returns it.
// Errors from compute are returned and never cached.
func Remember[T any](c *Cache, key string, compute func() (T, error)) (T, error) {
	if c == nil {
		return compute()
	}

	var cached T
	if c.get(key, &cached) {
		return cached, nil
	}

	v, err := compute()
	if err != nil {
		return v, err
	}
	c.set(key, v)
	return v, nil
}

func (c *Cache) get(key string, dst any) bool {
	c.mu.RLock()
	raw, ok := c.load(key)
	c.mu.RUnlock()

	op := opOf(key)
	if ok {
		err := json.Unmarshal(raw, dst)
		if err == nil {
			c.hit(op)
			return true
		}
		c.logger.WithError(err).WithField("key", key).Warn("discarding unreadable cache entry")
	}
	c.miss(op)
	return false
}

// load reassembles an entry. A missing chunk counts as a miss.
func (c *Cache) load(key string) ([]byte, bool) {
	head, err := c.store.Get([]byte(key))
	if err != nil || len(head) == 0 {
		return nil, false
	}
	switch head[0] {
	case entryInline:
		return head[1:], true
	case entryChunked:
		if len(head) != 5 {
			return nil, false
		}
		n := int(binary.BigEndian.Uint32(head[1:]))
		var buf bytes.Buffer
		for i := range n {
			part, err := c.store.Get(chunkKey(key, i))
			if err != nil {
				return nil, false
			}
			buf.Write(part)
		}
		return buf.Bytes(), true
	}
	return nil, false
}

func (c *Cache) set(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("cache marshal failed")
		return
	}
	c.mu.RLock()
	err = c.save(key, raw)
	c.mu.RUnlock()
	if err != nil {
		op := opOf(key)
		c.logger.WithError(err).WithFields(logrus.Fields{"key": key, "bytes": len(raw)}).Warn("cache rejected entry")
		if c.metrics != nil {
			c.metrics.CounterCacheRejected.WithLabelValues(op).Inc()
		}
	}
}

// save writes raw inline when it fits in one freecache entry, otherwise as chunks
// followed by the header that points at them.
func (c *Cache) save(key string, raw []byte) error {
	if len(raw) > c.limit {
		return ErrTooLarge
	}
	if len(key)+len(raw)+1 <= c.chunk {
		return c.store.Set([]byte(key), append([]byte{entryInline}, raw...), c.ttl)
	}
	n := 0
	for off := 0; off < len(raw); off += c.chunk {
		end := min(off+c.chunk, len(raw))
		if err := c.store.Set(chunkKey(key, n), raw[off:end], c.ttl); err != nil {
			return err
		}
		n++
	}
	head := make([]byte, 5)
	head[0] = entryChunked
	binary.BigEndian.PutUint32(head[1:], uint32(n))
	return c.store.Set([]byte(key), head, c.ttl)
}

func chunkKey(key string, i int) []byte {
	return []byte(fmt.Sprintf("%s|#%d", key, i))
}

// Invalidate drops every entry.
func (c *Cache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.store.Clear()
	c.mu.Unlock()
	if c.metrics != nil {
		c.metrics.CounterCacheInvalidations.Inc()
	}
	c.logger.Debug("report cache invalidated")
}

// Len reports the number of live freecache entries, chunks included.
func (c *Cache) Len() int64 {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.EntryCount()
}

func (c *Cache) hit(op string) {
	if c.metrics != nil {
		c.metrics.CounterCacheHits.WithLabelValues(op).Inc()
	}
}

func (c *Cache) miss(op string) {
	if c.metrics != nil {
		c.metrics.CounterCacheMisses.WithLabelValues(op).Inc()
	}
}
