package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, 30*time.Minute), mr
}

func runStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.Resolve(ctx, "unknown")
	require.ErrorIs(t, err, ErrNoBinding)

	require.NoError(t, store.Bind(ctx, "tok-1", 7))
	userID, err := store.Resolve(ctx, "tok-1")
	require.NoError(t, err)
	require.EqualValues(t, 7, userID)

	// rebinding overwrites, never merges
	require.NoError(t, store.Bind(ctx, "tok-1", 8))
	userID, err = store.Resolve(ctx, "tok-1")
	require.NoError(t, err)
	require.EqualValues(t, 8, userID)

	require.NoError(t, store.Clear(ctx, "tok-1"))
	_, err = store.Resolve(ctx, "tok-1")
	require.ErrorIs(t, err, ErrNoBinding)

	// clearing an absent token is not an error
	require.NoError(t, store.Clear(ctx, "tok-1"))
}

func TestMemoryStoreContract(t *testing.T) {
	runStoreContract(t, NewMemoryStore(16, 30*time.Minute))
}

func TestRedisStoreContract(t *testing.T) {
	store, _ := newRedisStore(t)
	runStoreContract(t, store)
}

func TestRedisStoreIdleExpiry(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Bind(ctx, "tok", 3))
	mr.FastForward(31 * time.Minute)
	_, err := store.Resolve(ctx, "tok")
	require.ErrorIs(t, err, ErrNoBinding)
}

func TestRedisStoreResolveSlidesTTL(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Bind(ctx, "tok", 3))
	mr.FastForward(20 * time.Minute)
	_, err := store.Resolve(ctx, "tok")
	require.NoError(t, err)

	// the resolve renewed the idle window
	mr.FastForward(20 * time.Minute)
	userID, err := store.Resolve(ctx, "tok")
	require.NoError(t, err)
	require.EqualValues(t, 3, userID)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(16, 50*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Bind(ctx, "tok", 3))
	time.Sleep(120 * time.Millisecond)
	_, err := store.Resolve(ctx, "tok")
	require.ErrorIs(t, err, ErrNoBinding)
}
