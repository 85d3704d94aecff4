package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewStore(client, ttl), mr
}

func TestStorePutAndGet(t *testing.T) {
	store, _ := setupStore(t, 5*time.Minute)
	ctx := context.Background()

	userID := uuid.New()
	challenge := uuid.NewString()
	issued := time.Now().UTC().Truncate(time.Second)

	err := store.Put(ctx, challenge, &PendingLogin{
		UserID:   userID,
		Code:     "482913",
		IssuedAt: issued,
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, challenge)
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "482913", got.Code)
	assert.True(t, got.IssuedAt.Equal(issued))
}

func TestStoreGetUnknownChallenge(t *testing.T) {
	store, _ := setupStore(t, 5*time.Minute)

	_, err := store.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreExpiry(t *testing.T) {
	store, mr := setupStore(t, 5*time.Minute)
	ctx := context.Background()

	challenge := uuid.NewString()
	err := store.Put(ctx, challenge, &PendingLogin{UserID: uuid.New(), Code: "123456", IssuedAt: time.Now()})
	require.NoError(t, err)

	// Still there one second before the deadline.
	mr.FastForward(5*time.Minute - time.Second)
	_, err = store.Get(ctx, challenge)
	require.NoError(t, err)

	// Gone once the TTL has fully elapsed.
	mr.FastForward(2 * time.Second)
	_, err = store.Get(ctx, challenge)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	store, _ := setupStore(t, 5*time.Minute)
	ctx := context.Background()

	challenge := uuid.NewString()
	err := store.Put(ctx, challenge, &PendingLogin{UserID: uuid.New(), Code: "654321", IssuedAt: time.Now()})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, challenge))

	_, err = store.Get(ctx, challenge)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op.
	require.NoError(t, store.Delete(ctx, challenge))
}

func TestStorePutReplacesPreviousState(t *testing.T) {
	store, _ := setupStore(t, 5*time.Minute)
	ctx := context.Background()

	challenge := uuid.NewString()
	userID := uuid.New()

	require.NoError(t, store.Put(ctx, challenge, &PendingLogin{UserID: userID, Code: "111111", IssuedAt: time.Now()}))
	require.NoError(t, store.Put(ctx, challenge, &PendingLogin{UserID: userID, Code: "222222", IssuedAt: time.Now()}))

	got, err := store.Get(ctx, challenge)
	require.NoError(t, err)
	assert.Equal(t, "222222", got.Code)
}
