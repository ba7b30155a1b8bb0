package ledger

import (
	"context"
	"sync"

	"lendpool/core"

	"github.com/holiman/uint256"
)

// Ledger in-memory asset ledger
type Ledger struct {
	mux      sync.RWMutex
	balances map[string]map[string]*uint256.Int
}

// New new empty ledger
func New() *Ledger {
	return &Ledger{
		balances: map[string]map[string]*uint256.Int{},
	}
}

// Credit add amount to the holder out of thin air, used for genesis balances
func (l *Ledger) Credit(assetID, holder string, amount *uint256.Int) error {
	l.mux.Lock()
	defer l.mux.Unlock()

	balance := l.balance(assetID, holder)
	if _, overflow := balance.AddOverflow(balance, amount); overflow {
		return core.ErrArithmeticOverflow
	}

	return nil
}

func (l *Ledger) balance(assetID, holder string) *uint256.Int {
	holders, ok := l.balances[assetID]
	if !ok {
		holders = map[string]*uint256.Int{}
		l.balances[assetID] = holders
	}

	balance, ok := holders[holder]
	if !ok {
		balance = new(uint256.Int)
		holders[holder] = balance
	}

	return balance
}

func (l *Ledger) BalanceOf(_ context.Context, assetID, holder string) (*uint256.Int, error) {
	l.mux.RLock()
	defer l.mux.RUnlock()

	if balance, ok := l.balances[assetID][holder]; ok {
		return new(uint256.Int).Set(balance), nil
	}

	return new(uint256.Int), nil
}

func (l *Ledger) Transfer(_ context.Context, assetID, from, to string, amount *uint256.Int) error {
	l.mux.Lock()
	defer l.mux.Unlock()

	source := l.balance(assetID, from)
	if source.Lt(amount) {
		return core.ErrInsufficientBalance
	}

	target := l.balance(assetID, to)
	if _, overflow := new(uint256.Int).AddOverflow(target, amount); overflow {
		return core.ErrArithmeticOverflow
	}

	source.Sub(source, amount)
	target.Add(target, amount)
	return nil
}
