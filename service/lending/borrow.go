package lending

import (
	"context"

	"lendpool/core"
	"lendpool/pkg/compound"
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
)

// Borrow draw amount against the caller's collateral
func (e *Engine) Borrow(ctx context.Context, assetID string, amount *uint256.Int) (shares *uint256.Int, err error) {
	op, ctx, err := e.begin(ctx, core.ActionTypeBorrow)
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

	available, err := e.available(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if err := compound.Require(!amount.Gt(available), core.ErrInsufficientLiquidity); err != nil {
		return nil, err
	}

	shares, err = compound.BorrowSharesUp(amount, pool.TotalBorrows, pool.TotalBorrowShares)
	if err != nil {
		return nil, err
	}

	pos := op.position(user, assetID)
	op.settleReward(ctx, pool, pos)
	before := new(uint256.Int).Set(pos.BorrowShares)

	if pos.BorrowShares, err = number.Add(pos.BorrowShares, shares); err != nil {
		return nil, err
	}

	if pool.TotalBorrowShares, err = number.Add(pool.TotalBorrowShares, shares); err != nil {
		return nil, err
	}

	if pool.TotalBorrows, err = number.Add(pool.TotalBorrows, amount); err != nil {
		return nil, err
	}

	if err := op.transfer(ctx, assetID, e.vault, user, amount); err != nil {
		return nil, err
	}

	if err := op.requireHealthy(ctx, user); err != nil {
		return nil, err
	}

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyShares, shares.Dec())
	extra.Put(core.TransactionKeyBorrowSharesBefore, before.Dec())
	extra.Put(core.TransactionKeyBorrowSharesAfter, pos.BorrowShares.Dec())
	extra.Put(core.TransactionKeyTotalBorrows, pool.TotalBorrows.Dec())
	extra.Put(core.TransactionKeyTotalBorrowShares, pool.TotalBorrowShares.Dec())
	op.emit(core.ActionTypeBorrow, user, assetID, amount, extra)
	return shares, nil
}
