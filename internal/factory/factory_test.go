package factory

import (
	"testing"

	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	factoryAddress = entity.MustParseAddress("0xfac7000000000000000000000000000000000001")
	creator        = entity.MustParseAddress("0x1000000000000000000000000000000000000001")
	other          = entity.MustParseAddress("0x2000000000000000000000000000000000000002")
)

func newTestFactory() Factory {
	return NewFactory(factoryAddress, NewRegistry(), nil)
}

func TestCreateCollection(t *testing.T) {
	f := newTestFactory()

	c, err := f.CreateCollection(creator, "Elysium NFT", "EST", 10, creator)
	require.NoError(t, err)

	assert.True(t, c.Address.Valid())
	assert.Equal(t, creator, c.Owner)
	assert.Equal(t, "Elysium NFT", c.Name)
	assert.Equal(t, "EST", c.Symbol)
	assert.Equal(t, uint64(10), c.RoyaltyFee)
	assert.Equal(t, entity.DeriveAddress(factoryAddress, 0), c.Address)

	col, err := f.GetCollection(c.Address)
	require.NoError(t, err)
	assert.Equal(t, creator, col.Owner())
}

func TestCreateCollectionRejectsInvalidInput(t *testing.T) {
	f := newTestFactory()

	_, err := f.CreateCollection(creator, "", "EST", 10, creator)
	assert.Error(t, err)

	_, err = f.CreateCollection(entity.ZeroAddress, "Elysium NFT", "EST", 10, creator)
	assert.ErrorIs(t, err, entity.ErrInvalidAddress)

	assert.Empty(t, f.GetUserCollections(creator))

	c, err := f.CreateCollection(creator, "Elysium NFT", "EST", 10, creator)
	require.NoError(t, err)
	assert.Equal(t, entity.DeriveAddress(factoryAddress, 0), c.Address, "failed creations do not consume a nonce")
}

func TestUserCollectionsInInsertionOrder(t *testing.T) {
	f := newTestFactory()

	first, _ := f.CreateCollection(creator, "First", "ONE", 0, creator)
	_, _ = f.CreateCollection(other, "Other", "OTH", 0, other)
	second, _ := f.CreateCollection(creator, "Second", "TWO", 0, creator)

	assert.Equal(t, []entity.Address{first.Address, second.Address}, f.GetUserCollections(creator))
	assert.Equal(t, f.GetUserCollections(creator), f.GetOwnCollections(creator))
	assert.Len(t, f.GetUserCollections(other), 1)
	assert.Len(t, f.Collections(), 3)
}

func TestIsElysiumCollection(t *testing.T) {
	f := newTestFactory()

	c, _ := f.CreateCollection(creator, "Elysium NFT", "EST", 10, creator)

	assert.True(t, f.IsElysiumCollection(c.Address))
	assert.False(t, f.IsElysiumCollection(other))
	assert.False(t, f.IsElysiumCollection(entity.DeriveAddress(factoryAddress, 1)))

	_, err := f.GetCollection(other)
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}
