package core

import (
	"context"

	"github.com/holiman/uint256"
)

// AssetLedger underlying asset balances
type AssetLedger interface {
	BalanceOf(ctx context.Context, assetID, holder string) (*uint256.Int, error)
	// Transfer fails with ErrInsufficientBalance if from holds less than amount
	Transfer(ctx context.Context, assetID, from, to string, amount *uint256.Int) error
}

// ShareToken liquidity share ledger of one pool
type ShareToken interface {
	ID() string
	Mint(ctx context.Context, holder string, amount *uint256.Int) error
	Burn(ctx context.Context, holder string, amount *uint256.Int) error
	BalanceOf(ctx context.Context, holder string) (*uint256.Int, error)
	TotalSupply(ctx context.Context) (*uint256.Int, error)
	Transfer(ctx context.Context, from, to string, amount *uint256.Int) error
}

// ShareTokenFactory creates one share token per pool
type ShareTokenFactory interface {
	Create(ctx context.Context, assetID string) (ShareToken, error)
}
