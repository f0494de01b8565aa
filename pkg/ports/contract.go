package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/taskgate/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunLockerContract runs a suite of tests to verify that a DistributedLocker
// implementation adheres to the defined interface contract.
func RunLockerContract(t *testing.T, locker DistributedLocker) {
	ctx := context.Background()
	key := "contract-lock-" + time.Now().Format("20060102150405.000")

	t.Run("Lock and Unlock", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, time.Minute)
		require.NoError(t, err)
		require.NotNil(t, unlock)
		require.NoError(t, unlock(ctx))
	})

	t.Run("Held Lock Is Refused", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, time.Minute)
		require.NoError(t, err)
		defer func() { _ = unlock(ctx) }()

		_, err = locker.Lock(ctx, key, time.Minute)
		assert.ErrorIs(t, err, domain.ErrLockHeld)
	})

	t.Run("Released Lock Can Be Taken Again", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, time.Minute)
		require.NoError(t, err)
		require.NoError(t, unlock(ctx))

		unlock, err = locker.Lock(ctx, key, time.Minute)
		require.NoError(t, err)
		require.NoError(t, unlock(ctx))
	})

	t.Run("Keys Are Independent", func(t *testing.T) {
		a, err := locker.Lock(ctx, key+"-a", time.Minute)
		require.NoError(t, err)
		defer func() { _ = a(ctx) }()

		b, err := locker.Lock(ctx, key+"-b", time.Minute)
		require.NoError(t, err)
		require.NoError(t, b(ctx))
	})
}

// RunItemListContract verifies an ItemList implementation.
func RunItemListContract(t *testing.T, list ItemList) {
	ctx := context.Background()

	before, err := list.Items(ctx)
	require.NoError(t, err)

	require.NoError(t, list.Append(ctx, "first item that is long enough"))
	require.NoError(t, list.Append(ctx, "second item that is long enough"))

	items, err := list.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, len(before)+2)
	assert.Equal(t, "first item that is long enough", items[len(before)])
	assert.Equal(t, "second item that is long enough", items[len(before)+1])
}
