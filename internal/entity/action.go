package entity

import (
	"crypto/md5"
	"fmt"
	"time"
)

type Action struct {
	Collection Address    `json:"collection"`
	TokenId    uint64     `json:"tokenId"`
	Action     ActionType `json:"action"`
	From       Address    `json:"from"`
	To         Address    `json:"to"`
	Cost       string     `json:"cost,omitempty"`
	Fee        string     `json:"fee,omitempty"`
	Royalty    string     `json:"royalty,omitempty"`
	Reference  string     `json:"reference"`
	Time       time.Time  `json:"time"`
}

type ActionType string

const (
	MintAction      ActionType = "mint"
	TransferAction  ActionType = "transfer"
	BurnAction      ActionType = "burn"
	ListingAction   ActionType = "listing"
	DelistingAction ActionType = "delisting"
	SaleAction      ActionType = "sale"
)

func (a Action) Slug() string {
	return CreateActionSlug(a.TokenId, a.Collection, a.Reference, string(a.Action))
}

func CreateActionSlug(tokenId uint64, collection Address, reference, action string) string {
	data := []byte(fmt.Sprintf("action-%d-%s-%s-%s", tokenId, collection, reference, action))
	return fmt.Sprintf("%x", md5.Sum(data))
}
