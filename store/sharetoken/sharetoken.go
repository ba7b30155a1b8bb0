package sharetoken

import (
	"context"
	"sync"

	"lendpool/core"
	"lendpool/pkg/id"

	"github.com/holiman/uint256"
)

// Token in-memory liquidity share token
type Token struct {
	id      string
	assetID string

	mux      sync.RWMutex
	supply   *uint256.Int
	balances map[string]*uint256.Int
}

// New new share token of the asset, the id is derived from the asset id
func New(assetID string) *Token {
	return &Token{
		id:       id.TraceIDFrom("share-token", assetID),
		assetID:  assetID,
		supply:   new(uint256.Int),
		balances: map[string]*uint256.Int{},
	}
}

func (t *Token) ID() string {
	return t.id
}

// AssetID underlying asset
func (t *Token) AssetID() string {
	return t.assetID
}

func (t *Token) balance(holder string) *uint256.Int {
	balance, ok := t.balances[holder]
	if !ok {
		balance = new(uint256.Int)
		t.balances[holder] = balance
	}

	return balance
}

func (t *Token) Mint(_ context.Context, holder string, amount *uint256.Int) error {
	t.mux.Lock()
	defer t.mux.Unlock()

	supply, overflow := new(uint256.Int).AddOverflow(t.supply, amount)
	if overflow {
		return core.ErrArithmeticOverflow
	}

	balance := t.balance(holder)
	balance.Add(balance, amount)
	t.supply = supply
	return nil
}

func (t *Token) Burn(_ context.Context, holder string, amount *uint256.Int) error {
	t.mux.Lock()
	defer t.mux.Unlock()

	balance := t.balance(holder)
	if balance.Lt(amount) {
		return core.ErrInsufficientBalance
	}

	balance.Sub(balance, amount)
	t.supply = new(uint256.Int).Sub(t.supply, amount)
	return nil
}

func (t *Token) BalanceOf(_ context.Context, holder string) (*uint256.Int, error) {
	t.mux.RLock()
	defer t.mux.RUnlock()

	if balance, ok := t.balances[holder]; ok {
		return new(uint256.Int).Set(balance), nil
	}

	return new(uint256.Int), nil
}

func (t *Token) TotalSupply(_ context.Context) (*uint256.Int, error) {
	t.mux.RLock()
	defer t.mux.RUnlock()

	return new(uint256.Int).Set(t.supply), nil
}

func (t *Token) Transfer(_ context.Context, from, to string, amount *uint256.Int) error {
	t.mux.Lock()
	defer t.mux.Unlock()

	source := t.balance(from)
	if source.Lt(amount) {
		return core.ErrInsufficientBalance
	}

	target := t.balance(to)
	source.Sub(source, amount)
	target.Add(target, amount)
	return nil
}

// Factory creates in-memory share tokens
type Factory struct{}

// NewFactory new factory
func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, assetID string) (core.ShareToken, error) {
	return New(assetID), nil
}
