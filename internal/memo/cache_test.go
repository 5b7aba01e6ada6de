// ABOUTME: Tests for the report memoization cache.
// ABOUTME: Uses an isolated metrics registry to count hits and misses.
package memo

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/harperreed/workoutlog/internal/logging"
	"github.com/harperreed/workoutlog/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type result struct {
	Current int         `json:"current"`
	Hist    map[int]int `json:"hist"`
}

func newTestCache(t *testing.T) (*Cache, *metrics.Manager) {
	t.Helper()
	m := metrics.NewTestManager()
	return New(Options{SizeMB: 1, Metrics: m, Logger: logging.Discard()}), m
}

func TestKey(t *testing.T) {
	got := Key(7, "frequency", "monthly", 42)
	if got != "7|frequency|monthly|42" {
		t.Errorf("Key() = %q", got)
	}
	if op := opOf(got); op != "frequency" {
		t.Errorf("opOf() = %q, want frequency", op)
	}
}

func TestRememberComputesOnce(t *testing.T) {
	c, m := newTestCache(t)
	calls := 0
	compute := func() (result, error) {
		calls++
		return result{Current: 3, Hist: map[int]int{1: 2}}, nil
	}

	key := Key(1, "streaks")
	first, err := Remember(c, key, compute)
	if err != nil {
		t.Fatalf("Remember() error = %v", err)
	}
	second, err := Remember(c, key, compute)
	if err != nil {
		t.Fatalf("Remember() error = %v", err)
	}

	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached value differs (-first +second):\n%s", diff)
	}
	if got := testutil.ToFloat64(m.CounterCacheHits.WithLabelValues("streaks")); got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CounterCacheMisses.WithLabelValues("streaks")); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	c, _ := newTestCache(t)
	boom := errors.New("boom")
	calls := 0

	for range 2 {
		_, err := Remember(c, Key(1, "trend"), func() (int, error) {
			calls++
			return 0, boom
		})
		if !errors.Is(err, boom) {
			t.Errorf("Remember() error = %v, want boom", err)
		}
	}
	if calls != 2 {
		t.Errorf("compute called %d times, want 2", calls)
	}
}

func TestVersionChangeMisses(t *testing.T) {
	c, _ := newTestCache(t)
	calls := 0
	compute := func() (int, error) { calls++; return calls, nil }

	_, _ = Remember(c, Key(1, "categories"), compute)
	v, _ := Remember(c, Key(2, "categories"), compute)
	if v != 2 {
		t.Errorf("value after version bump = %d, want 2", v)
	}
}

func TestInvalidate(t *testing.T) {
	c, m := newTestCache(t)
	_, _ = Remember(c, Key(1, "streaks"), func() (int, error) { return 1, nil })
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}

	c.Invalidate()

	if c.Len() != 0 {
		t.Errorf("Len() after Invalidate = %d, want 0", c.Len())
	}
	if got := testutil.ToFloat64(m.CounterCacheInvalidations); got != 1 {
		t.Errorf("invalidations = %v, want 1", got)
	}
}

func TestNilCacheComputes(t *testing.T) {
	var c *Cache
	calls := 0
	for range 2 {
		_, _ = Remember(c, "k", func() (int, error) { calls++; return 0, nil })
	}
	c.Invalidate()
	if calls != 2 {
		t.Errorf("compute called %d times, want 2", calls)
	}
}

func TestRememberStoresLargeValues(t *testing.T) {
	tests := []struct {
		name   string
		sizeMB int
		bytes  int
	}{
		{"inline", 8, 1000},
		{"above entry limit", 8, 9000},
		{"many chunks", 1, 64 * 1024},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.NewTestManager()
			c := New(Options{SizeMB: tt.sizeMB, Metrics: m, Logger: logging.Discard()})
			payload := strings.Repeat("x", tt.bytes)
			calls := 0
			compute := func() (string, error) { calls++; return payload, nil }

			key := Key(1, "dashboard", "monthly")
			_, _ = Remember(c, key, compute)
			got, err := Remember(c, key, compute)
			if err != nil {
				t.Fatalf("Remember() error = %v", err)
			}
			if calls != 1 {
				t.Errorf("compute called %d times, want 1", calls)
			}
			if got != payload {
				t.Errorf("cached value has %d bytes, want %d", len(got), len(payload))
			}
			if hits := testutil.ToFloat64(m.CounterCacheHits.WithLabelValues("dashboard")); hits != 1 {
				t.Errorf("hits = %v, want 1", hits)
			}
			if rejected := testutil.ToFloat64(m.CounterCacheRejected.WithLabelValues("dashboard")); rejected != 0 {
				t.Errorf("rejected = %v, want 0", rejected)
			}
		})
	}
}

func TestRememberCountsRejectedValues(t *testing.T) {
	c, m := newTestCache(t)
	payload := strings.Repeat("x", 300*1024)
	calls := 0
	for range 2 {
		got, err := Remember(c, Key(1, "dashboard"), func() (string, error) { calls++; return payload, nil })
		if err != nil || len(got) != len(payload) {
			t.Errorf("Remember() = %d bytes, %v", len(got), err)
		}
	}
	if calls != 2 {
		t.Errorf("compute called %d times, want 2", calls)
	}
	if got := testutil.ToFloat64(m.CounterCacheRejected.WithLabelValues("dashboard")); got != 2 {
		t.Errorf("rejected = %v, want 2", got)
	}
}

func TestMissingChunkIsAMiss(t *testing.T) {
	c, m := newTestCache(t)
	key := Key(1, "dashboard")
	calls := 0
	compute := func() (string, error) { calls++; return strings.Repeat("y", 4096), nil }

	_, _ = Remember(c, key, compute)
	c.store.Del(chunkKey(key, 1))
	_, _ = Remember(c, key, compute)

	if calls != 2 {
		t.Errorf("compute called %d times, want 2", calls)
	}
	if got := testutil.ToFloat64(m.CounterCacheMisses.WithLabelValues("dashboard")); got != 2 {
		t.Errorf("misses = %v, want 2", got)
	}
}
