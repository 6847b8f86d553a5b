package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedisStore struct {
	values map[string]string
	setErr error
	getErr error
	delErr error
}

func newFakeRedisStore() *fakeRedisStore {
	return &fakeRedisStore{values: map[string]string{}}
}

func (f *fakeRedisStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if f.setErr != nil {
		return false, f.setErr
	}
	if _, exists := f.values[key]; exists {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeRedisStore) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	value, exists := f.values[key]
	if !exists {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeRedisStore) Del(ctx context.Context, keys ...string) error {
	if f.delErr != nil {
		return f.delErr
	}
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func TestRedisLockAcquireAndRelease(t *testing.T) {
	store := newFakeRedisStore()
	lock, err := NewRedisLock(store, "locks:sweep", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}

	ok, err := lock.Acquire(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected first acquire to succeed, got ok=%v err=%v", ok, err)
	}

	second, err := NewRedisLock(store, "locks:sweep", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	ok, err = second.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if ok {
		t.Fatal("expected second acquire to be denied while held")
	}

	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("Release: %v", err)
	}
	ok, err = second.Acquire(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected acquire after release to succeed, got ok=%v err=%v", ok, err)
	}
}

func TestRedisLockReleaseIgnoresForeignOwner(t *testing.T) {
	store := newFakeRedisStore()
	lock, err := NewRedisLock(store, "locks:sweep", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	if _, err := lock.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	// The TTL fired and someone else took the lock.
	store.values["locks:sweep"] = "someone-else"

	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if store.values["locks:sweep"] != "someone-else" {
		t.Fatal("release must not delete a lock owned by another worker")
	}
}

func TestRedisLockReleaseTreatsMissingKeyAsReleased(t *testing.T) {
	store := newFakeRedisStore()
	lock, err := NewRedisLock(store, "locks:sweep", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	if _, err := lock.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	delete(store.values, "locks:sweep")

	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("expected expired key to release cleanly: %v", err)
	}
}

func TestRedisLockAcquireWrapsStoreErrors(t *testing.T) {
	store := newFakeRedisStore()
	store.setErr = errors.New("connection refused")
	lock, err := NewRedisLock(store, "locks:sweep", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	if _, err := lock.Acquire(context.Background()); err == nil {
		t.Fatal("expected acquire error")
	}
}
