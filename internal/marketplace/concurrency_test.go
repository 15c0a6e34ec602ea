package marketplace

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentBuyersSingleWinner(t *testing.T) {
	fx := setup(t, 10, 10)
	tokenId := fx.list(t, 100)

	buyers := make([]entity.Address, 20)
	for i := range buyers {
		buyers[i] = entity.DeriveAddress(buyer, uint64(i))
		fx.fund(t, buyers[i], 100)
	}

	var wg sync.WaitGroup
	results := make([]error, len(buyers))
	for i := range buyers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = fx.market.BuyToken(context.Background(), buyers[i], fx.collection.Address(), tokenId, entity.NewWei(100))
		}(i)
	}
	wg.Wait()

	winners := 0
	var winner entity.Address
	for i, err := range results {
		if err == nil {
			winners++
			winner = buyers[i]
			continue
		}
		assert.ErrorIs(t, err, ErrNotListed)
	}
	require.Equal(t, 1, winners)

	ownerOf, _ := fx.collection.OwnerOf(tokenId)
	assert.Equal(t, winner, ownerOf)
	assert.True(t, fx.ledger.BalanceOf(winner).IsZero())
}

func TestConcurrentListingsAcrossTokens(t *testing.T) {
	fx := setup(t, 10, 0)

	tokenIds := make([]uint64, 50)
	for i := range tokenIds {
		tokenIds[i] = fx.mint(t)
	}
	fx.fund(t, buyer, 100*uint64(len(tokenIds)))

	var wg sync.WaitGroup
	for _, tokenId := range tokenIds {
		wg.Add(1)
		go func(tokenId uint64) {
			defer wg.Done()
			ctx := context.Background()
			_, err := fx.market.ListToken(ctx, creator, fx.collection.Address(), tokenId, entity.NewWei(100))
			assert.NoError(t, err)
			_, err = fx.market.BuyToken(ctx, buyer, fx.collection.Address(), tokenId, entity.NewWei(100))
			assert.NoError(t, err)
		}(tokenId)
	}
	wg.Wait()

	assert.True(t, fx.ledger.BalanceOf(buyer).IsZero())
	assert.Equal(t, entity.NewWei(500), fx.ledger.BalanceOf(owner))
	assert.Equal(t, entity.NewWei(4500), fx.ledger.BalanceOf(creator))
	assert.Equal(t, uint64(len(tokenIds)), fx.collection.BalanceOf(buyer))
}

func TestCancelledContextLeavesListingOpen(t *testing.T) {
	fx := setup(t, 10, 10)
	tokenId := fx.list(t, 100)
	fx.fund(t, buyer, 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fx.market.BuyToken(ctx, buyer, fx.collection.Address(), tokenId, entity.NewWei(100))
	assert.ErrorIs(t, err, context.Canceled)

	listing, _ := fx.market.GetListing(fx.collection.Address(), tokenId)
	assert.True(t, listing.Active())
	assert.Equal(t, entity.NewWei(100), fx.ledger.BalanceOf(buyer))
}

func TestDeadlineWhileWaitingForLock(t *testing.T) {
	fx := setup(t, 10, 10)
	tokenId := fx.list(t, 100)
	fx.fund(t, buyer, 100)

	e := fx.market.(engine)
	release, err := e.locks.acquire(context.Background(), listingKey{fx.collection.Address(), tokenId})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = fx.market.BuyToken(ctx, buyer, fx.collection.Address(), tokenId, entity.NewWei(100))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	release()

	_, err = fx.market.BuyToken(context.Background(), buyer, fx.collection.Address(), tokenId, entity.NewWei(100))
	assert.NoError(t, err)
}
