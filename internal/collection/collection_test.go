package collection

import (
	"testing"

	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/ZilDuck/elysium-marketplace/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	address  = entity.MustParseAddress("0xc0ffee0000000000000000000000000000000001")
	owner    = entity.MustParseAddress("0x1000000000000000000000000000000000000001")
	alice    = entity.MustParseAddress("0x2000000000000000000000000000000000000002")
	bob      = entity.MustParseAddress("0x3000000000000000000000000000000000000003")
	operator = entity.MustParseAddress("0x4000000000000000000000000000000000000004")
)

func newCollection(t *testing.T) Collection {
	c, err := New(address, "Elysium NFT", "EST", owner, 10, owner, nil)
	require.NoError(t, err)
	return c
}

func TestNewValidation(t *testing.T) {
	_, err := New(address, "", "EST", owner, 10, owner, nil)
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = New(address, "Elysium NFT", " ", owner, 10, owner, nil)
	assert.ErrorIs(t, err, ErrEmptySymbol)

	_, err = New(address, "Elysium NFT", "EST", owner, 10001, owner, nil)
	assert.ErrorIs(t, err, ErrInvalidRoyalty)

	_, err = New(address, "Elysium NFT", "EST", owner, 10, entity.ZeroAddress, nil)
	assert.ErrorIs(t, err, entity.ErrInvalidAddress)

	c, err := New(address, "Elysium NFT", "EST", owner, 10000, alice, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), c.RoyaltyFee())
	assert.Equal(t, alice, c.RoyaltyRecipient())
	assert.Equal(t, "Elysium NFT", c.Info().Name)
}

func TestMint(t *testing.T) {
	c := newCollection(t)

	first, err := c.Mint(owner, alice, "ipfs://first")
	require.NoError(t, err)
	second, err := c.Mint(owner, bob, "ipfs://second")
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first.TokenId)
	assert.Equal(t, uint64(2), second.TokenId)

	ownerOf, err := c.OwnerOf(first.TokenId)
	require.NoError(t, err)
	assert.Equal(t, alice, ownerOf)

	uri, err := c.TokenURI(second.TokenId)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://second", uri)

	assert.Equal(t, uint64(2), c.TotalSupply())
	assert.Equal(t, uint64(1), c.BalanceOf(alice))
}

func TestMintRequiresOwner(t *testing.T) {
	c := newCollection(t)

	_, err := c.Mint(alice, alice, "ipfs://x")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = c.Mint(owner, entity.ZeroAddress, "ipfs://x")
	assert.ErrorIs(t, err, entity.ErrInvalidAddress)
	assert.Zero(t, c.TotalSupply())
}

func TestBurnRetiresTokenId(t *testing.T) {
	c := newCollection(t)
	token, _ := c.Mint(owner, alice, "ipfs://x")

	_, err := c.Burn(bob, token.TokenId)
	assert.ErrorIs(t, err, ErrNotOwner)

	burned, err := c.Burn(alice, token.TokenId)
	require.NoError(t, err)
	assert.NotNil(t, burned.BurnedAt)
	assert.Zero(t, c.TotalSupply())
	assert.Zero(t, c.BalanceOf(alice))

	_, err = c.OwnerOf(token.TokenId)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, err = c.Burn(alice, token.TokenId)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	next, err := c.Mint(owner, alice, "ipfs://y")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), next.TokenId)
}

func TestBurnByApprovedSpender(t *testing.T) {
	c := newCollection(t)
	token, _ := c.Mint(owner, alice, "ipfs://x")

	require.NoError(t, c.Approve(alice, bob, token.TokenId))
	_, err := c.Burn(bob, token.TokenId)
	assert.NoError(t, err)
}

func TestTransfer(t *testing.T) {
	c := newCollection(t)
	token, _ := c.Mint(owner, alice, "ipfs://x")

	_, err := c.Transfer(alice, bob, alice, token.TokenId)
	assert.ErrorIs(t, err, ErrNotOwner, "from is not the current owner")

	_, err = c.Transfer(bob, alice, bob, token.TokenId)
	assert.ErrorIs(t, err, ErrNotOwner, "caller is not approved")

	moved, err := c.Transfer(alice, alice, bob, token.TokenId)
	require.NoError(t, err)
	assert.Equal(t, bob, moved.Owner)
	assert.Equal(t, uint64(1), c.BalanceOf(bob))
	assert.Zero(t, c.BalanceOf(alice))
}

func TestTransferClearsApproval(t *testing.T) {
	c := newCollection(t)
	token, _ := c.Mint(owner, alice, "ipfs://x")

	require.NoError(t, c.Approve(alice, operator, token.TokenId))
	approved, err := c.GetApproved(token.TokenId)
	require.NoError(t, err)
	assert.Equal(t, operator, approved)

	_, err = c.Transfer(operator, alice, bob, token.TokenId)
	require.NoError(t, err)

	approved, err = c.GetApproved(token.TokenId)
	require.NoError(t, err)
	assert.Equal(t, entity.ZeroAddress, approved)

	_, err = c.Transfer(operator, bob, alice, token.TokenId)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestApprove(t *testing.T) {
	c := newCollection(t)
	token, _ := c.Mint(owner, alice, "ipfs://x")

	assert.ErrorIs(t, c.Approve(alice, alice, token.TokenId), ErrApprovalToOwner)
	assert.ErrorIs(t, c.Approve(bob, operator, token.TokenId), ErrNotOwner)
	assert.ErrorIs(t, c.Approve(alice, bob, 99), ErrTokenNotFound)
	assert.ErrorIs(t, c.Approve(alice, entity.Address("0xnothex"), token.TokenId), entity.ErrInvalidAddress)

	approved, err := c.GetApproved(token.TokenId)
	require.NoError(t, err)
	assert.Equal(t, entity.ZeroAddress, approved, "a malformed spender is not stored")

	require.NoError(t, c.Approve(alice, bob, token.TokenId))
	require.NoError(t, c.Approve(alice, entity.ZeroAddress, token.TokenId), "the zero address clears the approval")
	approved, err = c.GetApproved(token.TokenId)
	require.NoError(t, err)
	assert.Equal(t, entity.ZeroAddress, approved)

	ok, err := c.IsApprovedOrOwner(entity.Address(""), token.TokenId)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWithEmitterSharesState(t *testing.T) {
	c := newCollection(t)
	token, _ := c.Mint(owner, alice, "ipfs://x")

	batch := &event.Batch{}
	_, err := c.WithEmitter(batch).Transfer(alice, alice, bob, token.TokenId)
	require.NoError(t, err)

	assert.Equal(t, 1, batch.Len())
	current, err := c.OwnerOf(token.TokenId)
	require.NoError(t, err)
	assert.Equal(t, bob, current)
	assert.Equal(t, uint64(1), c.BalanceOf(bob))
}

func TestApprovalForAll(t *testing.T) {
	c := newCollection(t)
	token, _ := c.Mint(owner, alice, "ipfs://x")

	require.NoError(t, c.SetApprovalForAll(alice, operator, true))
	assert.True(t, c.IsApprovedForAll(alice, operator))

	ok, err := c.IsApprovedOrOwner(operator, token.TokenId)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Approve(operator, bob, token.TokenId), "operators can approve")

	require.NoError(t, c.SetApprovalForAll(alice, operator, false))
	assert.False(t, c.IsApprovedForAll(alice, operator))
	assert.ErrorIs(t, c.SetApprovalForAll(alice, alice, true), ErrApprovalToOwner)
}

func TestOwnerOnlyUpdates(t *testing.T) {
	c := newCollection(t)

	assert.ErrorIs(t, c.UpdateRoyalty(alice, 20), ErrUnauthorized)
	assert.ErrorIs(t, c.UpdateRoyalty(owner, 10001), ErrInvalidRoyalty)
	require.NoError(t, c.UpdateRoyalty(owner, 20))
	assert.Equal(t, uint64(20), c.RoyaltyFee())

	assert.ErrorIs(t, c.UpdateRoyaltyRecipient(alice, bob), ErrUnauthorized)
	assert.ErrorIs(t, c.UpdateRoyaltyRecipient(owner, entity.ZeroAddress), entity.ErrInvalidAddress)
	require.NoError(t, c.UpdateRoyaltyRecipient(owner, bob))
	assert.Equal(t, bob, c.RoyaltyRecipient())

	require.NoError(t, c.TransferOwnership(owner, alice))
	assert.Equal(t, alice, c.Owner())
	assert.ErrorIs(t, c.UpdateRoyalty(owner, 30), ErrUnauthorized)
}

func TestTokensInIdOrder(t *testing.T) {
	c := newCollection(t)
	for i := 0; i < 5; i++ {
		_, _ = c.Mint(owner, alice, "ipfs://x")
	}
	_, _ = c.Burn(alice, 3)

	ids := make([]uint64, 0)
	for _, token := range c.Tokens() {
		ids = append(ids, token.TokenId)
	}
	assert.Equal(t, []uint64{1, 2, 4, 5}, ids)
}
