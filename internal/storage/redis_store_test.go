package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	keys   map[string]time.Duration
	err    error
	closed bool
}

func (f *fakeRedis) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, _ interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.keys[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

func TestRedisStoreMarksWithTTL(t *testing.T) {
	fake := &fakeRedis{keys: map[string]time.Duration{}}
	store := newRedisStore(fake, time.Hour)

	seen, err := store.SeenActivity("sale:1")
	if err != nil || seen {
		t.Fatalf("expected unseen, seen=%v err=%v", seen, err)
	}
	if err := store.MarkActivity("sale:1"); err != nil {
		t.Fatalf("MarkActivity: %v", err)
	}
	if ttl := fake.keys["roliwatch:activity:sale:1"]; ttl != time.Hour {
		t.Fatalf("expected prefixed key with 1h ttl, got %v", fake.keys)
	}
	seen, err = store.SeenActivity("sale:1")
	if err != nil || !seen {
		t.Fatalf("expected seen, seen=%v err=%v", seen, err)
	}

	if err := store.Close(); err != nil || !fake.closed {
		t.Fatalf("expected client to be closed")
	}
}

func TestRedisStoreWrapsErrors(t *testing.T) {
	boom := errors.New("connection refused")
	store := newRedisStore(&fakeRedis{keys: map[string]time.Duration{}, err: boom}, time.Hour)

	if _, err := store.SeenActivity("x"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if err := store.MarkActivity("x"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
