package cache_test

import (
	"testing"
	"time"

	"stockmarket/internal/cache"
)

func TestTTL_GetSet(t *testing.T) {
	t.Run("returns what was stored", func(t *testing.T) {
		c := cache.New[[]float64](time.Minute)

		c.Set("AAPL:1mo", []float64{100.0, 102.0})

		got, ok := c.Get("AAPL:1mo")
		if !ok {
			t.Fatal("Expected cache hit")
		}
		if len(got) != 2 || got[1] != 102.0 {
			t.Errorf("Expected stored series, got %v", got)
		}
	})

	t.Run("misses unknown keys", func(t *testing.T) {
		c := cache.New[string](time.Minute)

		if _, ok := c.Get("missing"); ok {
			t.Error("Expected cache miss for unknown key")
		}
	})

	t.Run("replaces an existing entry", func(t *testing.T) {
		c := cache.New[int](time.Minute)

		c.Set("key", 1)
		c.Set("key", 2)

		got, ok := c.Get("key")
		if !ok || got != 2 {
			t.Errorf("Expected replaced value 2, got %d (hit=%v)", got, ok)
		}
	})
}

func TestTTL_Expiry(t *testing.T) {
	c := cache.New[string](10 * time.Millisecond)

	c.Set("key", "value")
	if _, ok := c.Get("key"); !ok {
		t.Fatal("Expected hit before expiry")
	}

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("key"); ok {
		t.Error("Expected miss after expiry")
	}
}

func TestTTL_Disabled(t *testing.T) {
	for _, ttl := range []time.Duration{0, -time.Second} {
		c := cache.New[string](ttl)

		c.Set("key", "value")
		if _, ok := c.Get("key"); ok {
			t.Errorf("Expected ttl %v to disable caching", ttl)
		}
	}
}
