package entity

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

var (
	ErrInvalidMetadataUri = errors.New("invalid metadata")
)

var cidPattern = regexp.MustCompile("(Qm[1-9A-HJ-NP-Za-km-z]{44}.*$)")

type Token struct {
	Collection Address    `json:"collection"`
	TokenId    uint64     `json:"tokenId"`
	Owner      Address    `json:"owner"`
	TokenUri   string     `json:"tokenUri"`
	MintedAt   time.Time  `json:"mintedAt"`
	BurnedAt   *time.Time `json:"burnedAt,omitempty"`

	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	MetadataError string                 `json:"metadataError,omitempty"`
}

func (t Token) Slug() string {
	return CreateTokenSlug(t.TokenId, t.Collection)
}

func CreateTokenSlug(tokenId uint64, collection Address) string {
	return slug.Make(fmt.Sprintf("token-%d-%s", tokenId, collection))
}

// MetadataUri returns the location of the token metadata, either an http(s) url
// or an ipfs:// uri that still needs a gateway.
func (t Token) MetadataUri() (string, error) {
	uri := strings.TrimSpace(t.TokenUri)

	if ipfs := getIpfs(uri); ipfs != "" {
		return ipfs, nil
	}

	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return uri, nil
	}

	return "", ErrInvalidMetadataUri
}

func getIpfs(uri string) string {
	if strings.HasPrefix(uri, "ipfs://") {
		return uri
	}

	parts := cidPattern.FindStringSubmatch(uri)
	if len(parts) == 2 {
		return "ipfs://" + parts[1]
	}

	return ""
}
