package lending

import (
	"context"

	"lendpool/core"
	"lendpool/pkg/compound"
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
)

// InitPool create an inactive pool and its share token
func (e *Engine) InitPool(ctx context.Context, assetID string, cfg core.PoolConfig) (err error) {
	op, ctx, err := e.begin(ctx, core.ActionTypeInitPool)
	if err != nil {
		return err
	}
	defer op.end(ctx, &err)

	admin, err := op.admin()
	if err != nil {
		return err
	}

	if err := compound.Require(assetID != "" && cfg != nil, core.ErrInvalidArgument); err != nil {
		return err
	}

	if _, ok := e.findPool(assetID); ok {
		return core.ErrPoolAlreadyExists
	}

	token, err := e.factory.Create(ctx, assetID)
	if err != nil {
		return err
	}

	pool := core.NewPool(assetID, token, cfg, e.clock())
	pool.LastUpdateTimestamp = op.now
	op.createPool(pool)

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyShareToken, token.ID())
	op.emit(core.ActionTypeInitPool, admin, assetID, nil, extra)
	return nil
}

// SetPoolConfig replace the interest configuration, interest up to now accrues at the old rate
func (e *Engine) SetPoolConfig(ctx context.Context, assetID string, cfg core.PoolConfig) (err error) {
	op, ctx, err := e.begin(ctx, core.ActionTypeSetPoolConfig)
	if err != nil {
		return err
	}
	defer op.end(ctx, &err)

	admin, err := op.admin()
	if err != nil {
		return err
	}

	if err := compound.Require(cfg != nil, core.ErrInvalidArgument); err != nil {
		return err
	}

	pool, err := op.pool(assetID)
	if err != nil {
		return err
	}

	if err := op.accrue(ctx, pool); err != nil {
		return err
	}

	pool.Config = cfg
	op.emit(core.ActionTypeSetPoolConfig, admin, assetID, nil, nil)
	return nil
}

// SetPoolStatus change the pool status
func (e *Engine) SetPoolStatus(ctx context.Context, assetID string, status core.PoolStatus) (err error) {
	op, ctx, err := e.begin(ctx, core.ActionTypeSetPoolStatus)
	if err != nil {
		return err
	}
	defer op.end(ctx, &err)

	admin, err := op.admin()
	if err != nil {
		return err
	}

	if err := compound.Require(status >= core.PoolStatusInactive && status <= core.PoolStatusClosed, core.ErrInvalidArgument); err != nil {
		return err
	}

	pool, err := op.pool(assetID)
	if err != nil {
		return err
	}

	if err := op.accrue(ctx, pool); err != nil {
		return err
	}

	pool.Status = status

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyStatus, status.String())
	op.emit(core.ActionTypeSetPoolStatus, admin, assetID, nil, extra)
	return nil
}

// SetPriceOracle replace the price oracle
func (e *Engine) SetPriceOracle(ctx context.Context, oracle core.PriceOracle) (err error) {
	op, ctx, err := e.begin(ctx, core.ActionTypeSetPriceOracle)
	if err != nil {
		return err
	}
	defer op.end(ctx, &err)

	admin, err := op.admin()
	if err != nil {
		return err
	}

	if err := compound.Require(oracle != nil, core.ErrInvalidArgument); err != nil {
		return err
	}

	prev := e.oracle
	e.oracle = oracle
	op.onRollback(func(_ context.Context) error {
		e.oracle = prev
		return nil
	})

	op.emit(core.ActionTypeSetPriceOracle, admin, "", nil, nil)
	return nil
}

// SetReservePercent change the share of future interest kept as reserves.
// Every pool accrues at the old percent first.
func (e *Engine) SetReservePercent(ctx context.Context, percent *uint256.Int) (err error) {
	op, ctx, err := e.begin(ctx, core.ActionTypeSetReservePercent)
	if err != nil {
		return err
	}
	defer op.end(ctx, &err)

	admin, err := op.admin()
	if err != nil {
		return err
	}

	if err := compound.Require(percent != nil && !percent.Gt(number.WAD), core.ErrInvalidArgument); err != nil {
		return err
	}

	for _, p := range e.pools {
		pool, err := op.pool(p.AssetID)
		if err != nil {
			return err
		}

		if err := op.accrue(ctx, pool); err != nil {
			return err
		}
	}

	prev := e.reservePercent
	e.reservePercent = new(uint256.Int).Set(percent)
	op.onRollback(func(_ context.Context) error {
		e.reservePercent = prev
		return nil
	})

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyReservePercent, number.WadToDecimal(percent).String())
	op.emit(core.ActionTypeSetReservePercent, admin, "", nil, extra)
	return nil
}

// WithdrawReserve pay pool reserves out to the calling admin
func (e *Engine) WithdrawReserve(ctx context.Context, assetID string, amount *uint256.Int) (err error) {
	op, ctx, err := e.begin(ctx, core.ActionTypeWithdrawReserve)
	if err != nil {
		return err
	}
	defer op.end(ctx, &err)

	admin, err := op.admin()
	if err != nil {
		return err
	}

	pool, err := op.pool(assetID)
	if err != nil {
		return err
	}

	if err := compound.Require(amount != nil && !amount.IsZero(), core.ErrInvalidAmount); err != nil {
		return err
	}

	if err := op.accrue(ctx, pool); err != nil {
		return err
	}

	if err := compound.Require(!amount.Gt(pool.PoolReserves), core.ErrInsufficientBalance); err != nil {
		return err
	}

	available, err := e.available(ctx, assetID)
	if err != nil {
		return err
	}

	if err := compound.Require(!amount.Gt(available), core.ErrInsufficientLiquidity); err != nil {
		return err
	}

	pool.PoolReserves = new(uint256.Int).Sub(pool.PoolReserves, amount)
	if err := op.transfer(ctx, assetID, e.vault, admin, amount); err != nil {
		return err
	}

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyReserves, pool.PoolReserves.Dec())
	op.emit(core.ActionTypeWithdrawReserve, admin, assetID, amount, extra)
	return nil
}
