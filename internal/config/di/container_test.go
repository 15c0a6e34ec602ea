package di

import (
	"testing"

	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerWiresMarketplace(t *testing.T) {
	t.Setenv("ELASTIC_SEARCH_ENABLED", "false")
	t.Setenv("AMQP_URI", "")
	t.Setenv("PLATFORM_FEE", "25")
	t.Setenv("MARKETPLACE_OWNER", "0x00000000000000000000000000000000000000aa")

	c, err := NewContainer()
	require.NoError(t, err)
	defer func() { assert.NoError(t, c.Delete()) }()

	market := c.GetMarketplace()
	assert.Equal(t, entity.NewWei(25), market.GetPlatformFee())
	assert.Equal(t, entity.MustParseAddress("0x00000000000000000000000000000000000000aa"), market.Owner())
	assert.Equal(t, defaultMarketplace, market.Address())
	assert.Equal(t, defaultFactory, c.GetFactory().Address())

	assert.Same(t, c.GetCache(), c.GetCache())
	assert.NotNil(t, c.GetApi().Router())
	assert.NotNil(t, c.GetDaemon())
	assert.Nil(t, c.GetElastic().GetClient())
}

func TestContainerRejectsInvalidFee(t *testing.T) {
	t.Setenv("ELASTIC_SEARCH_ENABLED", "false")
	t.Setenv("PLATFORM_FEE", "ten")

	c, err := NewContainer()
	require.NoError(t, err)
	defer func() { _ = c.Delete() }()

	assert.Panics(t, func() { c.GetMarketplace() })
}
