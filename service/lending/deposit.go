package lending

import (
	"context"

	"lendpool/core"
	"lendpool/pkg/compound"

	"github.com/holiman/uint256"
)

// Deposit supply amount of the asset and mint liquidity shares to the caller
func (e *Engine) Deposit(ctx context.Context, assetID string, amount *uint256.Int) (shares *uint256.Int, err error) {
	op, ctx, err := e.begin(ctx, core.ActionTypeDeposit)
	if err != nil {
		return nil, err
	}
	defer op.end(ctx, &err)

	user, err := op.user()
	if err != nil {
		return nil, err
	}

	pool, err := op.pool(assetID)
	if err != nil {
		return nil, err
	}

	if err := compound.Require(pool.IsActive(), core.ErrPoolNotActive); err != nil {
		return nil, err
	}

	if err := compound.Require(amount != nil && !amount.IsZero(), core.ErrInvalidAmount); err != nil {
		return nil, err
	}

	if err := op.accrue(ctx, pool); err != nil {
		return nil, err
	}

	totalLiquidity, totalShares, err := e.liquidityTotals(ctx, pool)
	if err != nil {
		return nil, err
	}

	shares, err = compound.LiquidityShares(amount, totalLiquidity, totalShares)
	if err != nil {
		return nil, err
	}

	if err := compound.Require(!shares.IsZero(), core.ErrInvalidAmount); err != nil {
		return nil, err
	}

	before, err := pool.ShareToken.BalanceOf(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := op.transfer(ctx, assetID, user, e.vault, amount); err != nil {
		return nil, err
	}

	if err := op.mint(ctx, pool, user, shares); err != nil {
		return nil, err
	}

	op.position(user, assetID)

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyShares, shares.Dec())
	extra.Put(core.TransactionKeyLiquiditySharesBefore, before.Dec())
	extra.Put(core.TransactionKeyLiquiditySharesAfter, new(uint256.Int).Add(before, shares).Dec())
	op.emit(core.ActionTypeDeposit, user, assetID, amount, extra)
	return shares, nil
}
