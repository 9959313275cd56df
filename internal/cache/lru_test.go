package cache

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a is now most recent
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Errorf("expected b to be evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v; want 1, true", v, ok)
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestLRUTTL(t *testing.T) {
	clock := newClock()
	c := NewLRUCache[string](4, time.Minute, WithClock(clock.Now))
	c.Set("k", "v")

	clock.Advance(59 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("entry expired too early")
	}
	clock.Advance(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Errorf("entry should have expired")
	}
	if c.Size() != 0 {
		t.Errorf("expired entry not removed on Get, size = %d", c.Size())
	}
}

func TestLRUZeroTTLNeverExpires(t *testing.T) {
	clock := newClock()
	c := NewLRUCache[string](1, 0, WithClock(clock.Now))
	c.Set("k", "v")
	clock.Advance(24 * time.Hour)
	if _, ok := c.Get("k"); !ok {
		t.Errorf("entry without ttl expired")
	}
}

func TestCleanExpired(t *testing.T) {
	clock := newClock()
	c := NewLRUCache[int](10, time.Minute, WithClock(clock.Now))
	c.Set("old1", 1)
	c.Set("old2", 2)
	clock.Advance(30 * time.Second)
	c.Set("fresh", 3)
	clock.Advance(45 * time.Second)

	if removed := c.CleanExpired(); removed != 2 {
		t.Errorf("CleanExpired() = %d, want 2", removed)
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}
}

func TestGetOrCompute(t *testing.T) {
	c := NewLRUCache[int](2, 0)
	calls := 0
	compute := func() (int, error) {
		calls++
		return 42, nil
	}

	v, hit, err := c.GetOrCompute("k", compute)
	if err != nil || hit || v != 42 {
		t.Fatalf("first GetOrCompute = %d, %v, %v", v, hit, err)
	}
	v, hit, err = c.GetOrCompute("k", compute)
	if err != nil || !hit || v != 42 {
		t.Fatalf("second GetOrCompute = %d, %v, %v", v, hit, err)
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	if _, _, err := c.GetOrCompute("bad", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Errorf("GetOrCompute error = %v, want boom", err)
	}
	if _, ok := c.Get("bad"); ok {
		t.Errorf("failed computation was cached")
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Size != 1 {
		t.Errorf("Stats() = %+v, want 1 hit and size 1", stats)
	}
}

func TestLRUSetOverwrites(t *testing.T) {
	c := NewLRUCache[int](2, 0)
	c.Set("k", 1)
	c.Set("k", 2)
	if v, _ := c.Get("k"); v != 2 {
		t.Errorf("Get(k) = %d, want 2", v)
	}
	c.Delete("k")
	if c.Size() != 0 {
		t.Errorf("Size() after Delete = %d, want 0", c.Size())
	}
}

func TestManagerCleanAll(t *testing.T) {
	clock := newClock()
	a := NewLRUCache[int](4, time.Second, WithClock(clock.Now))
	b := NewLRUCache[string](4, time.Second, WithClock(clock.Now))
	a.Set("x", 1)
	b.Set("y", "z")
	clock.Advance(2 * time.Second)

	m := NewManager(nil)
	m.Register(a)
	m.Register(b)
	if removed := m.CleanAll(); removed != 2 {
		t.Errorf("CleanAll() = %d, want 2", removed)
	}
}

func TestManagerStopIsIdempotent(t *testing.T) {
	m := NewManager(nil)
	m.StartCleanup(time.Millisecond)
	m.Stop()
	m.Stop()
}

func TestManagerStopWithoutStart(t *testing.T) {
	NewManager(nil).Stop()
}
