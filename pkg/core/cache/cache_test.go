package cache

import (
	"errors"
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c := New[string](Config{MaxItems: 4})
	defer c.Close()

	if _, ok := c.Get("a"); ok {
		t.Error("Get() on empty cache should miss")
	}
	c.Set("a", "tree")
	if got, ok := c.Get("a"); !ok || got != "tree" {
		t.Errorf("Get() = %q, %v, want tree, true", got, ok)
	}

	hits, misses, rate := c.Stats()
	if hits != 1 || misses != 1 || rate != 50 {
		t.Errorf("Stats() = %d, %d, %v", hits, misses, rate)
	}

	c.Delete("a")
	if c.Size() != 0 {
		t.Errorf("Size() = %d after Delete", c.Size())
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New[int](Config{MaxItems: 4})
	defer c.Close()

	c.SetWithTTL("short", 1, time.Millisecond)
	c.SetWithTTL("forever", 2, 0)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("expired entry returned")
	}
	if v, ok := c.Get("forever"); !ok || v != 2 {
		t.Errorf("Get(forever) = %d, %v", v, ok)
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int](Config{MaxItems: 2})
	defer c.Close()

	c.Set("a", 1)
	time.Sleep(time.Millisecond)
	c.Set("b", 2)
	time.Sleep(time.Millisecond)
	c.Get("a")
	time.Sleep(time.Millisecond)
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry b was kept")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("entry %s evicted", k)
		}
	}
}

func TestCache_GetOrSet(t *testing.T) {
	c := New[string](DefaultConfig())
	defer c.Close()

	calls := 0
	fn := func() (string, error) {
		calls++
		return "v", nil
	}
	for i := 0; i < 3; i++ {
		if v, err := c.GetOrSet("k", fn); err != nil || v != "v" {
			t.Fatalf("GetOrSet() = %q, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrSet("bad", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Errorf("GetOrSet() error = %v", err)
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("failed computation was cached")
	}
}

func TestKey(t *testing.T) {
	if Key("a", "bc") == Key("ab", "c") {
		t.Error("Key() ignores part boundaries")
	}
	if len(Key("x")) != 64 {
		t.Errorf("len(Key()) = %d, want 64", len(Key("x")))
	}
}
