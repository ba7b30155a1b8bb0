package lending

import (
	"context"

	"lendpool/core"
	"lendpool/pkg/compound"
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
)

// Withdraw burn the shares needed to withdraw amount, rounded up and capped at the caller's balance
func (e *Engine) Withdraw(ctx context.Context, assetID string, amount *uint256.Int) (*uint256.Int, error) {
	if amount == nil {
		amount = new(uint256.Int)
	}

	return e.withdraw(ctx, assetID, amount, nil)
}

// WithdrawShares burn shares, capped at the caller's balance
func (e *Engine) WithdrawShares(ctx context.Context, assetID string, shares *uint256.Int) (*uint256.Int, error) {
	if shares == nil {
		shares = new(uint256.Int)
	}

	return e.withdraw(ctx, assetID, nil, shares)
}

// WithdrawAll burn all of the caller's shares
func (e *Engine) WithdrawAll(ctx context.Context, assetID string) (*uint256.Int, error) {
	return e.withdraw(ctx, assetID, nil, nil)
}

func (e *Engine) withdraw(ctx context.Context, assetID string, amount, shares *uint256.Int) (out *uint256.Int, err error) {
	op, ctx, err := e.begin(ctx, core.ActionTypeWithdraw)
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

	if err := compound.Require(pool.AcceptsExit(), core.ErrPoolNotActive); err != nil {
		return nil, err
	}

	if err := op.accrue(ctx, pool); err != nil {
		return nil, err
	}

	totalLiquidity, totalShares, err := e.liquidityTotals(ctx, pool)
	if err != nil {
		return nil, err
	}

	balance, err := pool.ShareToken.BalanceOf(ctx, user)
	if err != nil {
		return nil, err
	}

	switch {
	case amount != nil:
		if err := compound.Require(!amount.IsZero(), core.ErrInvalidAmount); err != nil {
			return nil, err
		}

		if shares, err = compound.LiquiditySharesUp(amount, totalLiquidity, totalShares); err != nil {
			return nil, err
		}
	case shares == nil:
		shares = balance
	}

	shares = number.Min(shares, balance)
	if err := compound.Require(!shares.IsZero(), core.ErrInvalidAmount); err != nil {
		return nil, err
	}

	out, err = compound.LiquidityAmount(shares, totalLiquidity, totalShares)
	if err != nil {
		return nil, err
	}

	if err := compound.Require(!out.IsZero(), core.ErrInvalidAmount); err != nil {
		return nil, err
	}

	available, err := e.available(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if err := compound.Require(!out.Gt(available), core.ErrInsufficientLiquidity); err != nil {
		return nil, err
	}

	if err := op.burn(ctx, pool, user, shares); err != nil {
		return nil, err
	}

	if err := op.transfer(ctx, assetID, e.vault, user, out); err != nil {
		return nil, err
	}

	op.position(user, assetID)

	if err := op.requireHealthy(ctx, user); err != nil {
		return nil, err
	}

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyShares, shares.Dec())
	extra.Put(core.TransactionKeyLiquiditySharesBefore, balance.Dec())
	extra.Put(core.TransactionKeyLiquiditySharesAfter, new(uint256.Int).Sub(balance, shares).Dec())
	op.emit(core.ActionTypeWithdraw, user, assetID, out, extra)
	return out, nil
}
