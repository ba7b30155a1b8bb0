package lending

import (
	"context"

	"lendpool/core"
	"lendpool/pkg/compound"
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
)

// Repay repay up to amount, the cleared shares round down and are capped at the caller's debt
func (e *Engine) Repay(ctx context.Context, assetID string, amount *uint256.Int) (*uint256.Int, error) {
	if amount == nil {
		amount = new(uint256.Int)
	}

	return e.repay(ctx, assetID, amount, nil)
}

// RepayShares clear borrow shares, capped at the caller's debt
func (e *Engine) RepayShares(ctx context.Context, assetID string, shares *uint256.Int) (*uint256.Int, error) {
	if shares == nil {
		shares = new(uint256.Int)
	}

	return e.repay(ctx, assetID, nil, shares)
}

// RepayAll clear the caller's whole debt
func (e *Engine) RepayAll(ctx context.Context, assetID string) (*uint256.Int, error) {
	return e.repay(ctx, assetID, nil, nil)
}

func (e *Engine) repay(ctx context.Context, assetID string, amount, shares *uint256.Int) (paid *uint256.Int, err error) {
	op, ctx, err := e.begin(ctx, core.ActionTypeRepay)
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

	pos := op.position(user, assetID)

	switch {
	case amount != nil:
		if err := compound.Require(!amount.IsZero(), core.ErrInvalidAmount); err != nil {
			return nil, err
		}

		if shares, err = compound.BorrowSharesDown(amount, pool.TotalBorrows, pool.TotalBorrowShares); err != nil {
			return nil, err
		}
	case shares == nil:
		shares = pos.BorrowShares
	}

	shares = number.Min(shares, pos.BorrowShares)
	if err := compound.Require(!shares.IsZero(), core.ErrInvalidAmount); err != nil {
		return nil, err
	}

	paid, err = compound.BorrowAmountUp(shares, pool.TotalBorrows, pool.TotalBorrowShares)
	if err != nil {
		return nil, err
	}

	op.settleReward(ctx, pool, pos)
	before := new(uint256.Int).Set(pos.BorrowShares)
	if err := repayShares(pool, pos, shares, paid); err != nil {
		return nil, err
	}

	if err := op.transfer(ctx, assetID, user, e.vault, paid); err != nil {
		return nil, err
	}

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyShares, shares.Dec())
	extra.Put(core.TransactionKeyBorrowSharesBefore, before.Dec())
	extra.Put(core.TransactionKeyBorrowSharesAfter, pos.BorrowShares.Dec())
	extra.Put(core.TransactionKeyTotalBorrows, pool.TotalBorrows.Dec())
	extra.Put(core.TransactionKeyTotalBorrowShares, pool.TotalBorrowShares.Dec())
	op.emit(core.ActionTypeRepay, user, assetID, paid, extra)
	return paid, nil
}

// repayShares clear shares of the position. Rounding dust never takes total borrows below zero.
func repayShares(pool *core.Pool, pos *core.Position, shares, amount *uint256.Int) error {
	var err error
	if pos.BorrowShares, err = number.Sub(pos.BorrowShares, shares); err != nil {
		return err
	}

	if pool.TotalBorrowShares, err = number.Sub(pool.TotalBorrowShares, shares); err != nil {
		return err
	}

	pool.TotalBorrows = new(uint256.Int).Sub(pool.TotalBorrows, number.Min(amount, pool.TotalBorrows))
	return nil
}
