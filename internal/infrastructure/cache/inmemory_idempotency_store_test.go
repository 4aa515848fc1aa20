package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("marks a new key as processed", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "sign-batch-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew, "new key should return true")
	})

	t.Run("returns false for an already processed key", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "sign-batch-2", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkProcessed(ctx, "sign-batch-2", time.Hour)
		require.NoError(t, err)
		assert.False(t, isNew, "already processed key should return false")
	})

	t.Run("allows reprocessing after expiration", func(t *testing.T) {
		ttl := 10 * time.Millisecond

		isNew, err := store.MarkProcessed(ctx, "sign-batch-3", ttl)
		require.NoError(t, err)
		assert.True(t, isNew)

		time.Sleep(20 * time.Millisecond)

		isNew, err = store.MarkProcessed(ctx, "sign-batch-3", ttl)
		require.NoError(t, err)
		assert.True(t, isNew, "expired key should be reprocessable")
	})
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("returns false for an unknown key", func(t *testing.T) {
		processed, err := store.IsProcessed(ctx, "unknown-key")
		require.NoError(t, err)
		assert.False(t, processed)
	})

	t.Run("returns true for a processed key", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "processed-key", time.Hour)
		require.NoError(t, err)

		processed, err := store.IsProcessed(ctx, "processed-key")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("returns false after expiration", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "short-lived-key", 10*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(20 * time.Millisecond)

		processed, err := store.IsProcessed(ctx, "short-lived-key")
		require.NoError(t, err)
		assert.False(t, processed)
	})
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "expired", 5*time.Millisecond)
	require.NoError(t, err)
	_, err = store.MarkProcessed(ctx, "alive", time.Hour)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	store.cleanup()

	assert.Equal(t, 1, store.Size())
}
