package cron

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedisStore struct {
	values map[string]string
	setNX  bool
}

func newFakeRedisStore() *fakeRedisStore {
	return &fakeRedisStore{values: map[string]string{}, setNX: true}
}

func (f *fakeRedisStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, exists := f.values[key]; exists || !f.setNX {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeRedisStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeRedisStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func TestRedisLockMutualExclusion(t *testing.T) {
	store := newFakeRedisStore()
	first, err := NewRedisLock(store, "elv:lock:weekly-payments", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	second, err := NewRedisLock(store, "elv:lock:weekly-payments", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}

	ok, err := first.Acquire(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected first acquire to succeed: %v", err)
	}
	ok, err = second.Acquire(context.Background())
	if err != nil {
		t.Fatalf("second acquire errored: %v", err)
	}
	if ok {
		t.Fatalf("expected second acquire to be refused while held")
	}

	if err := first.Release(context.Background()); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, err = second.Acquire(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected acquire after release to succeed: %v", err)
	}
}

func TestRedisLockReleaseOnlyWhenOwned(t *testing.T) {
	store := newFakeRedisStore()
	lock, err := NewRedisLock(store, "elv:lock:weekly-payments", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}

	// never acquired, release is a no-op
	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("release without acquire: %v", err)
	}

	if _, err := lock.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	// another owner replaced the key after expiry
	store.values["elv:lock:weekly-payments"] = "someone-else"
	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("release with foreign owner: %v", err)
	}
	if store.values["elv:lock:weekly-payments"] != "someone-else" {
		t.Fatalf("release must not delete a lock it no longer owns")
	}
}
