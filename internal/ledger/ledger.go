package ledger

import (
	"errors"
	"sync"

	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"go.uber.org/zap"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
)

// Ledger holds account balances. All writes go through a single writer, so a
// Tx observes and commits a consistent view.
type Ledger interface {
	Deposit(account entity.Address, amount entity.Wei) (entity.Wei, error)
	Withdraw(account entity.Address, amount entity.Wei) (entity.Wei, error)
	BalanceOf(account entity.Address) entity.Wei
	Transfer(from, to entity.Address, amount entity.Wei) error
	Atomic(fn func(tx Tx) error) error
}

type ledger struct {
	mu       *sync.RWMutex
	balances map[entity.Address]entity.Wei
}

func NewLedger() Ledger {
	return ledger{
		mu:       &sync.RWMutex{},
		balances: make(map[entity.Address]entity.Wei),
	}
}

func (l ledger) Deposit(account entity.Address, amount entity.Wei) (entity.Wei, error) {
	if !account.Valid() {
		return entity.Wei{}, entity.ErrInvalidAddress
	}
	if amount.IsZero() {
		return entity.Wei{}, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance, err := l.balances[account].Add(amount)
	if err != nil {
		return entity.Wei{}, err
	}
	l.balances[account] = balance

	zap.L().With(
		zap.String("account", account.String()),
		zap.String("amount", amount.String()),
		zap.String("balance", balance.String()),
	).Info("Ledger: Deposit")

	return balance, nil
}

func (l ledger) Withdraw(account entity.Address, amount entity.Wei) (entity.Wei, error) {
	if !account.Valid() {
		return entity.Wei{}, entity.ErrInvalidAddress
	}
	if amount.IsZero() {
		return entity.Wei{}, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance, err := l.balances[account].Sub(amount)
	if err != nil {
		return entity.Wei{}, ErrInsufficientFunds
	}
	l.balances[account] = balance

	zap.L().With(
		zap.String("account", account.String()),
		zap.String("amount", amount.String()),
		zap.String("balance", balance.String()),
	).Info("Ledger: Withdraw")

	return balance, nil
}

func (l ledger) BalanceOf(account entity.Address) entity.Wei {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances[account]
}

func (l ledger) Transfer(from, to entity.Address, amount entity.Wei) error {
	return l.Atomic(func(tx Tx) error {
		return tx.Transfer(from, to, amount)
	})
}

// Atomic runs fn against a staged view of the balances. The staged changes are
// committed only when fn returns nil; committing cannot fail.
func (l ledger) Atomic(fn func(tx Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	t := newTx(l.balances)
	if err := fn(t); err != nil {
		zap.L().With(zap.Error(err)).Debug("Ledger: Discarding transaction")
		return err
	}

	for account, balance := range t.staged {
		l.balances[account] = balance
	}

	return nil
}
