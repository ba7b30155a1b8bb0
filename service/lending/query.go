package lending

import (
	"context"
	"fmt"

	"lendpool/core"
	"lendpool/pkg/compound"

	"github.com/holiman/uint256"
)

// PoolView pool state projected to now
type PoolView struct {
	AssetID             string
	Status              core.PoolStatus
	ShareTokenID        string
	TotalBorrows        *uint256.Int
	TotalBorrowShares   *uint256.Int
	PoolReserves        *uint256.Int
	TotalLiquidity      *uint256.Int
	Available           *uint256.Int
	TotalShares         *uint256.Int
	UtilizationRate     *uint256.Int
	BorrowRate          *uint256.Int
	LastUpdateTimestamp int64
	TotalRewardUnits    *uint256.Int
	RewardMultiplier    *uint256.Int
}

// UserPoolData position of a user in one pool projected to now
type UserPoolData struct {
	UserID             string
	AssetID            string
	LiquidityShares    *uint256.Int
	LiquidityBalance   *uint256.Int
	BorrowShares       *uint256.Int
	BorrowBalance      *uint256.Int
	UseAsCollateral    bool
	PendingRewardUnits *uint256.Int
}

// project copy of the pool accrued to now, the live pool is not touched
func (e *Engine) project(ctx context.Context, p *core.Pool) (*core.Pool, error) {
	pool := p.Clone()

	now := e.clock().Unix()
	if now < pool.LastUpdateTimestamp {
		now = pool.LastUpdateTimestamp
	}

	available, err := e.available(ctx, pool.AssetID)
	if err != nil {
		return nil, err
	}

	if _, err := compound.AccrueInterest(ctx, pool, available, e.reservePercent, now); err != nil {
		return nil, err
	}

	return pool, nil
}

func (e *Engine) poolView(ctx context.Context, p *core.Pool) (*PoolView, error) {
	pool, err := e.project(ctx, p)
	if err != nil {
		return nil, err
	}

	available, err := e.available(ctx, pool.AssetID)
	if err != nil {
		return nil, err
	}

	totalLiquidity, totalShares, err := e.liquidityTotals(ctx, pool)
	if err != nil {
		return nil, err
	}

	utilization, err := compound.UtilizationRate(pool.TotalBorrows, totalLiquidity)
	if err != nil {
		return nil, err
	}

	rate, err := pool.Config.CurrentRate(ctx, pool.TotalBorrows, totalLiquidity)
	if err != nil {
		return nil, fmt.Errorf("current rate of %s: %w", pool.AssetID, err)
	}

	return &PoolView{
		AssetID:             pool.AssetID,
		Status:              pool.Status,
		ShareTokenID:        pool.ShareToken.ID(),
		TotalBorrows:        pool.TotalBorrows,
		TotalBorrowShares:   pool.TotalBorrowShares,
		PoolReserves:        pool.PoolReserves,
		TotalLiquidity:      totalLiquidity,
		Available:           available,
		TotalShares:         totalShares,
		UtilizationRate:     utilization,
		BorrowRate:          rate,
		LastUpdateTimestamp: pool.LastUpdateTimestamp,
		TotalRewardUnits:    pool.TotalRewardUnits,
		RewardMultiplier:    pool.RewardMultiplier,
	}, nil
}

// GetPool pool state with interest projected to now
func (e *Engine) GetPool(ctx context.Context, assetID string) (*PoolView, error) {
	ctx, release := e.view(ctx)
	defer release()

	p, ok := e.findPool(assetID)
	if !ok {
		return nil, core.ErrPoolNotInitialized
	}

	return e.poolView(ctx, p)
}

// Pools all pools in creation order
func (e *Engine) Pools(ctx context.Context) ([]*PoolView, error) {
	ctx, release := e.view(ctx)
	defer release()

	views := make([]*PoolView, 0, len(e.pools))
	for _, p := range e.pools {
		view, err := e.poolView(ctx, p)
		if err != nil {
			return nil, err
		}

		views = append(views, view)
	}

	return views, nil
}

// GetUserPoolData position of the user in the pool
func (e *Engine) GetUserPoolData(ctx context.Context, userID, assetID string) (*UserPoolData, error) {
	ctx, release := e.view(ctx)
	defer release()

	return e.userPoolData(ctx, userID, assetID)
}

func (e *Engine) userPoolData(ctx context.Context, userID, assetID string) (*UserPoolData, error) {
	p, ok := e.findPool(assetID)
	if !ok {
		return nil, core.ErrPoolNotInitialized
	}

	pool, err := e.project(ctx, p)
	if err != nil {
		return nil, err
	}

	pos, ok := e.positions[core.PositionKey{UserID: userID, AssetID: assetID}]
	if !ok {
		pos = core.NewPosition(userID, assetID)
	}

	data := &UserPoolData{
		UserID:          userID,
		AssetID:         assetID,
		BorrowShares:    new(uint256.Int).Set(pos.BorrowShares),
		UseAsCollateral: !pos.CollateralDisabled,
	}

	if data.LiquidityShares, err = pool.ShareToken.BalanceOf(ctx, userID); err != nil {
		return nil, err
	}

	totalLiquidity, totalShares, err := e.liquidityTotals(ctx, pool)
	if err != nil {
		return nil, err
	}

	if data.LiquidityBalance, err = compound.LiquidityAmount(data.LiquidityShares, totalLiquidity, totalShares); err != nil {
		return nil, err
	}

	if data.BorrowBalance, err = compound.BorrowAmountUp(pos.BorrowShares, pool.TotalBorrows, pool.TotalBorrowShares); err != nil {
		return nil, err
	}

	if data.PendingRewardUnits, err = pendingReward(pool, pos); err != nil {
		data.PendingRewardUnits = new(uint256.Int).Set(pos.PendingRewardUnits)
	}

	return data, nil
}

// CompoundedLiquidityBalance deposit of the user including interest, rounded down
func (e *Engine) CompoundedLiquidityBalance(ctx context.Context, userID, assetID string) (*uint256.Int, error) {
	data, err := e.GetUserPoolData(ctx, userID, assetID)
	if err != nil {
		return nil, err
	}

	return data.LiquidityBalance, nil
}

// CompoundedBorrowBalance debt of the user including interest, rounded up
func (e *Engine) CompoundedBorrowBalance(ctx context.Context, userID, assetID string) (*uint256.Int, error) {
	data, err := e.GetUserPoolData(ctx, userID, assetID)
	if err != nil {
		return nil, err
	}

	return data.BorrowBalance, nil
}

// GetUserAccount collateral and borrow value of the user across all pools
func (e *Engine) GetUserAccount(ctx context.Context, userID string) (*Account, error) {
	ctx, release := e.view(ctx)
	defer release()

	return e.account(ctx, userID, e.project)
}

// IsAccountHealthy borrow value does not exceed collateral value
func (e *Engine) IsAccountHealthy(ctx context.Context, userID string) (bool, error) {
	acc, err := e.GetUserAccount(ctx, userID)
	if err != nil {
		return false, err
	}

	return acc.Healthy, nil
}

// ReservePercent share of accrued interest kept as reserves
func (e *Engine) ReservePercent(ctx context.Context) *uint256.Int {
	_, release := e.view(ctx)
	defer release()

	return new(uint256.Int).Set(e.reservePercent)
}
