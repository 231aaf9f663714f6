package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestKey_DistinguishesModelAndText(t *testing.T) {
	a := Key("text-embedding-3-small", "tariffs")
	b := Key("text-embedding-3-small", "exports")
	c := Key("nomic-embed-text", "tariffs")

	if a == b {
		t.Error("Different texts produced the same key")
	}
	if a == c {
		t.Error("Different models produced the same key")
	}
	if a != Key("text-embedding-3-small", "tariffs") {
		t.Error("Key is not deterministic")
	}
}

func TestEmbeddingCache_GetSet(t *testing.T) {
	c := NewEmbeddingCache("m", time.Minute)

	if _, found := c.Get("tariffs"); found {
		t.Error("Expected miss on empty cache")
	}

	c.Set("tariffs", []float32{1, 2, 3})
	vec, found := c.Get("tariffs")
	if !found {
		t.Fatal("Expected hit after Set")
	}
	if len(vec) != 3 || vec[0] != 1 {
		t.Errorf("Unexpected vector: %v", vec)
	}

	c.Clear()
	if _, found := c.Get("tariffs"); found {
		t.Error("Expected miss after Clear")
	}
}

func TestWrap_CallsThroughOnce(t *testing.T) {
	c := NewEmbeddingCache("m", time.Minute)
	calls := 0
	embed := c.Wrap(func(ctx context.Context, text string) ([]float32, error) {
		calls++
		return []float32{0.5}, nil
	})

	for i := 0; i < 3; i++ {
		vec, err := embed(context.Background(), "tariffs")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(vec) != 1 || vec[0] != 0.5 {
			t.Errorf("Unexpected vector: %v", vec)
		}
	}
	if calls != 1 {
		t.Errorf("Expected one provider call, got %d", calls)
	}
}

func TestWrap_DoesNotCacheFailures(t *testing.T) {
	c := NewEmbeddingCache("m", time.Minute)
	calls := 0
	embed := c.Wrap(func(ctx context.Context, text string) ([]float32, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("provider down")
		}
		return []float32{0.5}, nil
	})

	if _, err := embed(context.Background(), "tariffs"); err == nil {
		t.Fatal("Expected first call to fail")
	}
	vec, err := embed(context.Background(), "tariffs")
	if err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if len(vec) != 1 {
		t.Errorf("Unexpected vector: %v", vec)
	}
	if calls != 2 {
		t.Errorf("Expected failure not cached, got %d calls", calls)
	}
}
