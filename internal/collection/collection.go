package collection

import (
	"strings"
	"sync"
	"time"

	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/ZilDuck/elysium-marketplace/internal/event"
	"go.uber.org/zap"
)

type Collection interface {
	Address() entity.Address
	Info() entity.Collection

	Mint(caller, to entity.Address, uri string) (entity.Token, error)
	Burn(caller entity.Address, tokenId uint64) (entity.Token, error)
	Transfer(caller, from, to entity.Address, tokenId uint64) (entity.Token, error)

	Approve(caller, spender entity.Address, tokenId uint64) error
	GetApproved(tokenId uint64) (entity.Address, error)
	SetApprovalForAll(caller, operator entity.Address, approved bool) error
	IsApprovedForAll(owner, operator entity.Address) bool
	IsApprovedOrOwner(spender entity.Address, tokenId uint64) (bool, error)

	UpdateRoyalty(caller entity.Address, royaltyFee uint64) error
	UpdateRoyaltyRecipient(caller, recipient entity.Address) error
	TransferOwnership(caller, newOwner entity.Address) error

	Owner() entity.Address
	OwnerOf(tokenId uint64) (entity.Address, error)
	TokenURI(tokenId uint64) (string, error)
	Token(tokenId uint64) (entity.Token, error)
	Tokens() []entity.Token
	TotalSupply() uint64
	BalanceOf(owner entity.Address) uint64
	RoyaltyFee() uint64
	RoyaltyRecipient() entity.Address

	// WithEmitter returns a view over the same collection state that raises its events on emitter.
	WithEmitter(emitter event.Emitter) Collection
}

type collection struct {
	mu      *sync.RWMutex
	emitter event.Emitter

	info      *entity.Collection
	nextId    *uint64
	tokens    map[uint64]*entity.Token
	approvals map[uint64]entity.Address
	operators map[entity.Address]map[entity.Address]bool
	balances  map[entity.Address]uint64
}

func New(
	address entity.Address,
	name, symbol string,
	owner entity.Address,
	royaltyFee uint64,
	royaltyRecipient entity.Address,
	emitter event.Emitter,
) (Collection, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if strings.TrimSpace(symbol) == "" {
		return nil, ErrEmptySymbol
	}
	if royaltyFee > entity.BasisPoints {
		return nil, ErrInvalidRoyalty
	}
	if !address.Valid() || !owner.Valid() || !royaltyRecipient.Valid() {
		return nil, entity.ErrInvalidAddress
	}

	nextId := uint64(1)

	return collection{
		mu:      &sync.RWMutex{},
		emitter: emitter,
		info: &entity.Collection{
			Address:          address,
			Owner:            owner,
			Name:             name,
			Symbol:           symbol,
			RoyaltyFee:       royaltyFee,
			RoyaltyRecipient: royaltyRecipient,
			CreatedAt:        time.Now().UTC(),
		},
		nextId:    &nextId,
		tokens:    make(map[uint64]*entity.Token),
		approvals: make(map[uint64]entity.Address),
		operators: make(map[entity.Address]map[entity.Address]bool),
		balances:  make(map[entity.Address]uint64),
	}, nil
}

func (c collection) Address() entity.Address {
	return c.info.Address
}

func (c collection) Info() entity.Collection {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return *c.info
}

// Mint assigns the next token id to the recipient. Only the collection owner can mint.
func (c collection) Mint(caller, to entity.Address, uri string) (entity.Token, error) {
	if !to.Valid() {
		return entity.Token{}, entity.ErrInvalidAddress
	}

	c.mu.Lock()
	if caller != c.info.Owner {
		c.mu.Unlock()
		return entity.Token{}, ErrUnauthorized
	}

	token := &entity.Token{
		Collection: c.info.Address,
		TokenId:    *c.nextId,
		Owner:      to,
		TokenUri:   uri,
		MintedAt:   time.Now().UTC(),
	}
	c.tokens[token.TokenId] = token
	c.balances[to]++
	*c.nextId++
	c.info.TotalSupply++
	minted := *token
	c.mu.Unlock()

	zap.L().With(
		zap.String("collection", c.info.Address.String()),
		zap.Uint64("tokenId", minted.TokenId),
		zap.String("to", to.String()),
	).Info("Collection: Minted token")

	c.emit(event.TokenMintedEvent, event.TokenMinted{Token: minted, MintedBy: caller})

	return minted, nil
}

// Burn retires the token id. The caller must own the token or be approved for it.
func (c collection) Burn(caller entity.Address, tokenId uint64) (entity.Token, error) {
	c.mu.Lock()
	token, ok := c.tokens[tokenId]
	if !ok {
		c.mu.Unlock()
		return entity.Token{}, ErrTokenNotFound
	}
	if !c.isApprovedOrOwner(caller, token) {
		c.mu.Unlock()
		return entity.Token{}, ErrNotOwner
	}

	now := time.Now().UTC()
	token.BurnedAt = &now
	burned := *token

	c.balances[token.Owner]--
	delete(c.tokens, tokenId)
	delete(c.approvals, tokenId)
	c.info.TotalSupply--
	c.mu.Unlock()

	zap.L().With(
		zap.String("collection", c.info.Address.String()),
		zap.Uint64("tokenId", tokenId),
		zap.String("caller", caller.String()),
	).Info("Collection: Burned token")

	c.emit(event.TokenBurnedEvent, event.TokenBurned{Token: burned, BurnedBy: caller})

	return burned, nil
}

// Transfer moves the token from its current owner. It fails with ErrNotOwner when
// from is not the current owner or the caller is neither the owner nor approved.
func (c collection) Transfer(caller, from, to entity.Address, tokenId uint64) (entity.Token, error) {
	if !to.Valid() {
		return entity.Token{}, entity.ErrInvalidAddress
	}

	c.mu.Lock()
	token, ok := c.tokens[tokenId]
	if !ok {
		c.mu.Unlock()
		return entity.Token{}, ErrTokenNotFound
	}
	if token.Owner != from || !c.isApprovedOrOwner(caller, token) {
		c.mu.Unlock()
		return entity.Token{}, ErrNotOwner
	}

	delete(c.approvals, tokenId)
	c.balances[from]--
	c.balances[to]++
	token.Owner = to
	moved := *token
	c.mu.Unlock()

	zap.L().With(
		zap.String("collection", c.info.Address.String()),
		zap.Uint64("tokenId", tokenId),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	).Debug("Collection: Transferred token")

	c.emit(event.TokenTransferredEvent, event.TokenTransferred{Token: moved, From: from, To: to, At: time.Now().UTC()})

	return moved, nil
}

func (c collection) Approve(caller, spender entity.Address, tokenId uint64) error {
	if !spender.IsZero() && !spender.Valid() {
		return entity.ErrInvalidAddress
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	token, ok := c.tokens[tokenId]
	if !ok {
		return ErrTokenNotFound
	}
	if spender == token.Owner {
		return ErrApprovalToOwner
	}
	if caller != token.Owner && !c.operators[token.Owner][caller] {
		return ErrNotOwner
	}

	if spender.IsZero() {
		delete(c.approvals, tokenId)
	} else {
		c.approvals[tokenId] = spender
	}

	zap.L().With(
		zap.String("collection", c.info.Address.String()),
		zap.Uint64("tokenId", tokenId),
		zap.String("spender", spender.String()),
	).Info("Collection: Approved")

	return nil
}

func (c collection) GetApproved(tokenId uint64) (entity.Address, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, ok := c.tokens[tokenId]; !ok {
		return "", ErrTokenNotFound
	}
	if spender, ok := c.approvals[tokenId]; ok {
		return spender, nil
	}

	return entity.ZeroAddress, nil
}

func (c collection) SetApprovalForAll(caller, operator entity.Address, approved bool) error {
	if !operator.Valid() {
		return entity.ErrInvalidAddress
	}
	if caller == operator {
		return ErrApprovalToOwner
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.operators[caller]; !ok {
		c.operators[caller] = make(map[entity.Address]bool)
	}
	if approved {
		c.operators[caller][operator] = true
	} else {
		delete(c.operators[caller], operator)
	}

	return nil
}

func (c collection) IsApprovedForAll(owner, operator entity.Address) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.operators[owner][operator]
}

func (c collection) IsApprovedOrOwner(spender entity.Address, tokenId uint64) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	token, ok := c.tokens[tokenId]
	if !ok {
		return false, ErrTokenNotFound
	}

	return c.isApprovedOrOwner(spender, token), nil
}

func (c collection) isApprovedOrOwner(spender entity.Address, token *entity.Token) bool {
	if spender.IsZero() {
		return false
	}

	return spender == token.Owner ||
		c.approvals[token.TokenId] == spender ||
		c.operators[token.Owner][spender]
}

func (c collection) UpdateRoyalty(caller entity.Address, royaltyFee uint64) error {
	if royaltyFee > entity.BasisPoints {
		return ErrInvalidRoyalty
	}

	return c.updateInfo(caller, func(info *entity.Collection) {
		info.RoyaltyFee = royaltyFee
	})
}

func (c collection) UpdateRoyaltyRecipient(caller, recipient entity.Address) error {
	if !recipient.Valid() {
		return entity.ErrInvalidAddress
	}

	return c.updateInfo(caller, func(info *entity.Collection) {
		info.RoyaltyRecipient = recipient
	})
}

func (c collection) TransferOwnership(caller, newOwner entity.Address) error {
	if !newOwner.Valid() {
		return entity.ErrInvalidAddress
	}

	return c.updateInfo(caller, func(info *entity.Collection) {
		info.Owner = newOwner
	})
}

func (c collection) updateInfo(caller entity.Address, update func(info *entity.Collection)) error {
	c.mu.Lock()
	if caller != c.info.Owner {
		c.mu.Unlock()
		return ErrUnauthorized
	}
	update(c.info)
	info := *c.info
	c.mu.Unlock()

	zap.L().With(
		zap.String("collection", info.Address.String()),
		zap.String("owner", info.Owner.String()),
		zap.Uint64("royaltyFee", info.RoyaltyFee),
		zap.String("royaltyRecipient", info.RoyaltyRecipient.String()),
	).Info("Collection: Updated")

	c.emit(event.RoyaltyUpdatedEvent, event.RoyaltyUpdated{Collection: info})

	return nil
}

func (c collection) Owner() entity.Address {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.info.Owner
}

func (c collection) OwnerOf(tokenId uint64) (entity.Address, error) {
	token, err := c.Token(tokenId)
	if err != nil {
		return "", err
	}

	return token.Owner, nil
}

func (c collection) TokenURI(tokenId uint64) (string, error) {
	token, err := c.Token(tokenId)
	if err != nil {
		return "", err
	}

	return token.TokenUri, nil
}

func (c collection) Token(tokenId uint64) (entity.Token, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	token, ok := c.tokens[tokenId]
	if !ok {
		return entity.Token{}, ErrTokenNotFound
	}

	return *token, nil
}

// Tokens returns the live tokens in id order.
func (c collection) Tokens() []entity.Token {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tokens := make([]entity.Token, 0, len(c.tokens))
	for id := uint64(1); id < *c.nextId; id++ {
		if token, ok := c.tokens[id]; ok {
			tokens = append(tokens, *token)
		}
	}

	return tokens
}

func (c collection) TotalSupply() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.info.TotalSupply
}

func (c collection) BalanceOf(owner entity.Address) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.balances[owner]
}

func (c collection) RoyaltyFee() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.info.RoyaltyFee
}

func (c collection) RoyaltyRecipient() entity.Address {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.info.RoyaltyRecipient
}

func (c collection) WithEmitter(emitter event.Emitter) Collection {
	c.emitter = emitter
	return c
}

func (c collection) emit(eventType event.Type, msg interface{}) {
	if c.emitter != nil {
		c.emitter.EmitEvent(eventType, msg)
	}
}
