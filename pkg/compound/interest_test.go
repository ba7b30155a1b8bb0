package compound

import (
	"context"
	"errors"
	"testing"

	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRate struct {
	rate  *uint256.Int
	err   error
	calls int
}

func (f *fixedRate) CurrentRate(_ context.Context, _, _ *uint256.Int) (*uint256.Int, error) {
	f.calls++
	return f.rate, f.err
}

func (f *fixedRate) CollateralFactor(_ context.Context) (*uint256.Int, error) {
	return number.WAD, nil
}

func (f *fixedRate) LiquidationBonus(_ context.Context) (*uint256.Int, error) {
	return new(uint256.Int), nil
}

func newTestPool(cfg core.PoolConfig, totalBorrows uint64) *core.Pool {
	pool := &core.Pool{
		AssetID:           "x",
		Status:            core.PoolStatusActive,
		Config:            cfg,
		TotalBorrows:      uint256.NewInt(totalBorrows),
		TotalBorrowShares: uint256.NewInt(totalBorrows),
		PoolReserves:      new(uint256.Int),
		TotalRewardUnits:  new(uint256.Int),
		RewardMultiplier:  new(uint256.Int),
	}
	return pool
}

func TestAccrueInterestOneYear(t *testing.T) {
	ctx := context.Background()
	cfg := &fixedRate{rate: uint256.NewInt(100_000_000_000_000_000)}
	pool := newTestPool(cfg, 500)
	reservePercent := uint256.NewInt(50_000_000_000_000_000)

	accrual, err := AccrueInterest(ctx, pool, uint256.NewInt(500), reservePercent, SecondsPerYear)
	require.NoError(t, err)

	assert.Equal(t, uint64(550), pool.TotalBorrows.Uint64())
	assert.Equal(t, uint64(50), accrual.Interest.Uint64())
	// 50 * 0.05 = 2.5, rounded down
	assert.Equal(t, uint64(2), pool.PoolReserves.Uint64())
	assert.Equal(t, int64(SecondsPerYear), pool.LastUpdateTimestamp)
	assert.True(t, accrual.Accrued())
}

func TestAccrueInterestSameTimestamp(t *testing.T) {
	ctx := context.Background()
	cfg := &fixedRate{rate: uint256.NewInt(100_000_000_000_000_000)}
	pool := newTestPool(cfg, 500)
	pool.LastUpdateTimestamp = 100

	accrual, err := AccrueInterest(ctx, pool, uint256.NewInt(500), number.Zero, 100)
	require.NoError(t, err)
	assert.False(t, accrual.Accrued())
	assert.Equal(t, 0, cfg.calls, "rate is not queried")
	assert.Equal(t, uint64(500), pool.TotalBorrows.Uint64())
}

func TestAccrueInterestRejectsPast(t *testing.T) {
	pool := newTestPool(&fixedRate{rate: number.Zero}, 500)
	pool.LastUpdateTimestamp = 100

	_, err := AccrueInterest(context.Background(), pool, number.Zero, number.Zero, 99)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	assert.Equal(t, int64(100), pool.LastUpdateTimestamp)
}

func TestAccrueInterestRateFailure(t *testing.T) {
	boom := errors.New("boom")
	pool := newTestPool(&fixedRate{err: boom}, 500)

	_, err := AccrueInterest(context.Background(), pool, number.Zero, number.Zero, 10)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(0), pool.LastUpdateTimestamp)
	assert.Equal(t, uint64(500), pool.TotalBorrows.Uint64())
}

func TestAccrueInterestMonotonic(t *testing.T) {
	ctx := context.Background()
	cfg := &fixedRate{rate: uint256.NewInt(37_000_000_000_000_000)}
	pool := newTestPool(cfg, 0)
	pool.TotalBorrows = number.NewWad(123)

	prev := new(uint256.Int).Set(pool.TotalBorrows)
	for now := int64(1); now < 10_000_000; now *= 3 {
		_, err := AccrueInterest(ctx, pool, number.NewWad(10), number.Zero, now)
		require.NoError(t, err)
		assert.False(t, pool.TotalBorrows.Lt(prev))
		prev.Set(pool.TotalBorrows)
	}
	assert.True(t, pool.TotalBorrows.Gt(number.NewWad(123)))
}

func TestUtilizationRate(t *testing.T) {
	r, err := UtilizationRate(uint256.NewInt(500), uint256.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, uint64(500_000_000_000_000_000), r.Uint64())

	r, err = UtilizationRate(uint256.NewInt(500), number.Zero)
	require.NoError(t, err)
	assert.True(t, r.IsZero())
}

func TestTotalLiquidity(t *testing.T) {
	l, err := TotalLiquidity(uint256.NewInt(500), uint256.NewInt(500), uint256.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, uint64(998), l.Uint64())

	_, err = TotalLiquidity(uint256.NewInt(0), uint256.NewInt(1), uint256.NewInt(2))
	assert.ErrorIs(t, err, core.ErrArithmeticOverflow)
}
