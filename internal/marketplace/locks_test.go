package marketplace

import (
	"context"
	"testing"
	"time"

	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockTableSharedStripe(t *testing.T) {
	table := newLockTable(1)
	collectionAddr := entity.MustParseAddress("0xc0ffee0000000000000000000000000000000001")

	release, err := table.acquire(context.Background(), listingKey{collectionAddr, 1}, listingKey{collectionAddr, 2})
	require.NoError(t, err, "keys on the same stripe are locked once")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = table.acquire(ctx, listingKey{collectionAddr, 3})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()

	release, err = table.acquire(context.Background(), listingKey{collectionAddr, 3})
	require.NoError(t, err)
	release()
}

func TestLockTableStripeIsStable(t *testing.T) {
	table := newLockTable(0)
	key := listingKey{entity.MustParseAddress("0xc0ffee0000000000000000000000000000000001"), 7}

	assert.Len(t, table.stripes, defaultLockStripes)
	assert.Equal(t, table.stripe(key), table.stripe(key))
}

func TestLockTableReleasesOnCancel(t *testing.T) {
	table := newLockTable(4)
	collectionAddr := entity.MustParseAddress("0xc0ffee0000000000000000000000000000000001")

	keys := make([]listingKey, 0)
	for id := uint64(1); id <= 32; id++ {
		keys = append(keys, listingKey{collectionAddr, id})
	}

	blocker, err := table.acquire(context.Background(), keys[0])
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = table.acquire(ctx, keys...)
	assert.Error(t, err)

	blocker()

	release, err := table.acquire(context.Background(), keys...)
	require.NoError(t, err, "a failed acquire must not leave stripes held")
	release()
}
