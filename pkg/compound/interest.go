package compound

import (
	"context"
	"fmt"

	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
)

// SecondsPerYear seconds per year
const SecondsPerYear = 31536000

// Accrual result of one accrual
type Accrual struct {
	Elapsed      int64
	Rate         *uint256.Int
	Interest     *uint256.Int
	ReserveDelta *uint256.Int
}

// Accrued interest was computed
func (a *Accrual) Accrued() bool {
	return a.Elapsed > 0
}

// TotalLiquidity total_borrows + available - reserves
func TotalLiquidity(totalBorrows, available, reserves *uint256.Int) (*uint256.Int, error) {
	total, err := number.Add(totalBorrows, available)
	if err != nil {
		return nil, err
	}

	return number.Sub(total, reserves)
}

// UtilizationRate total_borrows / total_liquidity, WAD scaled
func UtilizationRate(totalBorrows, totalLiquidity *uint256.Int) (*uint256.Int, error) {
	if totalLiquidity.IsZero() {
		return new(uint256.Int), nil
	}

	return number.DivDown(totalBorrows, totalLiquidity)
}

// InterestFactor rate * elapsed / SecondsPerYear + WAD
func InterestFactor(rate *uint256.Int, elapsed int64) (*uint256.Int, error) {
	if elapsed < 0 {
		return nil, core.ErrInvalidArgument
	}

	p, overflow := new(uint256.Int).MulOverflow(rate, uint256.NewInt(uint64(elapsed)))
	if overflow {
		return nil, core.ErrArithmeticOverflow
	}

	p.Div(p, uint256.NewInt(SecondsPerYear))
	return number.Add(p, number.WAD)
}

// AccrueInterest accrue linear interest on the pool up to now
//
// available is the underlying balance held by the pool. When now equals the last update
// nothing changes and the rate is not queried. The pool is left untouched on error.
func AccrueInterest(ctx context.Context, pool *core.Pool, available, reservePercent *uint256.Int, now int64) (*Accrual, error) {
	if now < pool.LastUpdateTimestamp {
		return nil, core.ErrInvalidArgument
	}

	accrual := &Accrual{
		Elapsed:      now - pool.LastUpdateTimestamp,
		Rate:         new(uint256.Int),
		Interest:     new(uint256.Int),
		ReserveDelta: new(uint256.Int),
	}

	if !accrual.Accrued() {
		return accrual, nil
	}

	totalLiquidity, err := TotalLiquidity(pool.TotalBorrows, available, pool.PoolReserves)
	if err != nil {
		return nil, err
	}

	rate, err := pool.Config.CurrentRate(ctx, pool.TotalBorrows, totalLiquidity)
	if err != nil {
		return nil, fmt.Errorf("current rate of %s: %w", pool.AssetID, err)
	}

	factor, err := InterestFactor(rate, accrual.Elapsed)
	if err != nil {
		return nil, err
	}

	totalBorrows, err := number.MulDown(factor, pool.TotalBorrows)
	if err != nil {
		return nil, err
	}

	interest, err := number.Sub(totalBorrows, pool.TotalBorrows)
	if err != nil {
		return nil, err
	}

	reserveDelta, err := number.MulDown(interest, reservePercent)
	if err != nil {
		return nil, err
	}

	reserves, err := number.Add(pool.PoolReserves, reserveDelta)
	if err != nil {
		return nil, err
	}

	pool.TotalBorrows = totalBorrows
	pool.PoolReserves = reserves
	pool.LastUpdateTimestamp = now

	accrual.Rate = rate
	accrual.Interest = interest
	accrual.ReserveDelta = reserveDelta
	return accrual, nil
}
