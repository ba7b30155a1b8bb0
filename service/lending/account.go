package lending

import (
	"context"
	"fmt"

	"lendpool/core"
	"lendpool/pkg/compound"
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
)

// Account cross-pool position of a user, values are in oracle units
type Account struct {
	UserID          string
	CollateralValue *uint256.Int
	BorrowValue     *uint256.Int
	Healthy         bool
}

// poolResolver pool state used to value positions: the live accrued pool inside an
// operation, a projected copy in read-only queries
type poolResolver func(ctx context.Context, pool *core.Pool) (*core.Pool, error)

// account sum collateral and borrow value over every pool the user holds shares in
func (e *Engine) account(ctx context.Context, userID string, resolve poolResolver) (*Account, error) {
	acc := &Account{
		UserID:          userID,
		CollateralValue: new(uint256.Int),
		BorrowValue:     new(uint256.Int),
	}

	for _, p := range e.pools {
		liquidityShares, err := p.ShareToken.BalanceOf(ctx, userID)
		if err != nil {
			return nil, err
		}

		borrowShares := new(uint256.Int)
		disabled := false
		if pos, ok := e.positions[core.PositionKey{UserID: userID, AssetID: p.AssetID}]; ok {
			borrowShares = pos.BorrowShares
			disabled = pos.CollateralDisabled
		}

		if liquidityShares.IsZero() && borrowShares.IsZero() {
			continue
		}

		pool, err := resolve(ctx, p)
		if err != nil {
			return nil, err
		}

		price, err := e.oracle.Price(ctx, pool.AssetID)
		if err != nil {
			return nil, fmt.Errorf("price of %s: %w", pool.AssetID, err)
		}

		if !liquidityShares.IsZero() && !disabled {
			value, err := e.collateralValue(ctx, pool, liquidityShares, price)
			if err != nil {
				return nil, err
			}

			if acc.CollateralValue, err = number.Add(acc.CollateralValue, value); err != nil {
				return nil, err
			}
		}

		if !borrowShares.IsZero() {
			debt, err := compound.BorrowAmountUp(borrowShares, pool.TotalBorrows, pool.TotalBorrowShares)
			if err != nil {
				return nil, err
			}

			value, err := number.MulUp(debt, price)
			if err != nil {
				return nil, err
			}

			if acc.BorrowValue, err = number.Add(acc.BorrowValue, value); err != nil {
				return nil, err
			}
		}
	}

	acc.Healthy = !acc.BorrowValue.Gt(acc.CollateralValue)
	return acc, nil
}

// collateralValue liquidity_balance * price * collateral_factor, rounded down
func (e *Engine) collateralValue(ctx context.Context, pool *core.Pool, shares, price *uint256.Int) (*uint256.Int, error) {
	totalLiquidity, totalShares, err := e.liquidityTotals(ctx, pool)
	if err != nil {
		return nil, err
	}

	balance, err := compound.LiquidityAmount(shares, totalLiquidity, totalShares)
	if err != nil {
		return nil, err
	}

	factor, err := pool.Config.CollateralFactor(ctx)
	if err != nil {
		return nil, fmt.Errorf("collateral factor of %s: %w", pool.AssetID, err)
	}

	value, err := number.MulDown(balance, price)
	if err != nil {
		return nil, err
	}

	return number.MulDown(value, factor)
}

// accruedAccount account valued on live pools accrued by the operation
func (op *operation) accruedAccount(ctx context.Context, userID string) (*Account, error) {
	return op.e.account(ctx, userID, func(ctx context.Context, p *core.Pool) (*core.Pool, error) {
		pool, err := op.pool(p.AssetID)
		if err != nil {
			return nil, err
		}

		if err := op.accrue(ctx, pool); err != nil {
			return nil, err
		}

		return pool, nil
	})
}

// requireHealthy fails with ErrAccountUnhealthy when borrow value exceeds collateral value
func (op *operation) requireHealthy(ctx context.Context, userID string) error {
	acc, err := op.accruedAccount(ctx, userID)
	if err != nil {
		return err
	}

	return compound.Require(acc.Healthy, core.ErrAccountUnhealthy)
}
