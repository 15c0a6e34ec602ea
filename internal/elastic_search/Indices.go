package elastic_search

import (
	"fmt"

	"github.com/ZilDuck/elysium-marketplace/internal/config"
)

type Indices string

var (
	CollectionIndex Indices = "collection"
	TokenIndex      Indices = "token"
	ListingIndex    Indices = "listing"
	SaleIndex       Indices = "sale"
	ActionIndex     Indices = "action"
)

var AllIndices = []Indices{CollectionIndex, TokenIndex, ListingIndex, SaleIndex, ActionIndex}

// ParseIndices maps a mapping file name to its index. Unknown names return false.
func ParseIndices(name string) (Indices, bool) {
	for _, i := range AllIndices {
		if string(i) == name {
			return i, true
		}
	}
	return "", false
}

// Get returns the index name qualified by network and index prefix, e.g. "mainnet.elysium.sale".
func (i Indices) Get() string {
	return fmt.Sprintf("%s.%s.%s", config.Get().Network, config.Get().Index, string(i))
}
