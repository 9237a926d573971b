package cron

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryLockStore struct {
	data map[string]string
}

func (m *memoryLockStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value.(string)
	return true, nil
}

func (m *memoryLockStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memoryLockStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestRedisLockIsExclusive(t *testing.T) {
	store := &memoryLockStore{data: map[string]string{}}
	ctx := context.Background()
	first, err := NewRedisLock(store, LockKey("test"), time.Minute)
	require.NoError(t, err)
	second, err := NewRedisLock(store, LockKey("test"), time.Minute)
	require.NoError(t, err)

	ok, err := first.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// a non-holder must not free the key
	require.NoError(t, second.Release(ctx))
	assert.Contains(t, store.data, "gb:cron:lock:test")

	require.NoError(t, first.Release(ctx))
	assert.NotContains(t, store.data, "gb:cron:lock:test")

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLockReleaseAfterExpiry(t *testing.T) {
	store := &memoryLockStore{data: map[string]string{}}
	ctx := context.Background()
	lock, err := NewRedisLock(store, LockKey(""), time.Minute)
	require.NoError(t, err)

	ok, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	store.data["gb:cron:lock:local"] = "someone-else"
	require.NoError(t, lock.Release(ctx))
	assert.Equal(t, "someone-else", store.data["gb:cron:lock:local"])
}

func TestNewRedisLockValidates(t *testing.T) {
	_, err := NewRedisLock(nil, "k", time.Minute)
	require.Error(t, err)
	_, err = NewRedisLock(&memoryLockStore{}, "", time.Minute)
	require.Error(t, err)
	_, err = NewRedisLock(&memoryLockStore{}, "k", 0)
	require.Error(t, err)
}
