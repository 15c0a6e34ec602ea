package ledger

import (
	"fmt"

	"github.com/ZilDuck/elysium-marketplace/internal/entity"
)

type Tx interface {
	Transfer(from, to entity.Address, amount entity.Wei) error
	BalanceOf(account entity.Address) entity.Wei
}

type tx struct {
	committed map[entity.Address]entity.Wei
	staged    map[entity.Address]entity.Wei
}

func newTx(committed map[entity.Address]entity.Wei) *tx {
	return &tx{committed: committed, staged: make(map[entity.Address]entity.Wei)}
}

func (t *tx) BalanceOf(account entity.Address) entity.Wei {
	if balance, ok := t.staged[account]; ok {
		return balance
	}
	return t.committed[account]
}

// Transfer stages a movement of funds. A zero amount is a no-op.
func (t *tx) Transfer(from, to entity.Address, amount entity.Wei) error {
	if !from.Valid() || !to.Valid() {
		return entity.ErrInvalidAddress
	}
	if amount.IsZero() {
		return nil
	}

	fromBalance, err := t.BalanceOf(from).Sub(amount)
	if err != nil {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientFunds, from, t.BalanceOf(from), amount)
	}
	if from == to {
		return nil
	}

	toBalance, err := t.BalanceOf(to).Add(amount)
	if err != nil {
		return err
	}

	t.staged[from] = fromBalance
	t.staged[to] = toBalance

	return nil
}
