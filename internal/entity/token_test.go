package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCid = "QmRaWcj4SsKuYyaemp7upnjHxk44AtC13JBvzwGH3YbJzc"

func TestTokenMetadataUri(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{testCid, "ipfs://" + testCid},
		{"ipfs://" + testCid + "/1.json", "ipfs://" + testCid + "/1.json"},
		{"https://gateway.pinata.cloud/ipfs/" + testCid, "ipfs://" + testCid},
		{"https://example.com/meta/1.json", "https://example.com/meta/1.json"},
	}

	for _, tt := range tests {
		uri, err := Token{TokenUri: tt.in}.MetadataUri()
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, uri, tt.in)
	}
}

func TestTokenMetadataUriInvalid(t *testing.T) {
	_, err := Token{TokenUri: "not a uri"}.MetadataUri()
	assert.ErrorIs(t, err, ErrInvalidMetadataUri)
}

func TestSlugs(t *testing.T) {
	collection := MustParseAddress("0x6802669e33c20e371de7a33fc74af8534edafa57")

	token := Token{Collection: collection, TokenId: 3}
	assert.Equal(t, "token-3-0x6802669e33c20e371de7a33fc74af8534edafa57", token.Slug())
	assert.Equal(t, "collection-0x6802669e33c20e371de7a33fc74af8534edafa57", Collection{Address: collection}.Slug())

	a := Action{Collection: collection, TokenId: 3, Action: SaleAction, Reference: "x"}
	b := Action{Collection: collection, TokenId: 3, Action: ListingAction, Reference: "x"}
	assert.Len(t, a.Slug(), 32)
	assert.NotEqual(t, a.Slug(), b.Slug())

	assert.NotEmpty(t, NewSaleID())
	assert.NotEqual(t, NewSaleID(), NewSaleID())
}
