package lending

import (
	"context"
	"fmt"

	"lendpool/core"
	"lendpool/pkg/compound"
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
)

// Liquidation result of a liquidation
type Liquidation struct {
	ActualRepay      *uint256.Int
	RepayShares      *uint256.Int
	CollateralAmount *uint256.Int
	CollateralShares *uint256.Int
}

// Liquidate repay part of an unhealthy user's debt and seize their collateral with a bonus.
// The caller is the liquidator. At most CloseFactor of the debt is repaid per call.
func (e *Engine) Liquidate(ctx context.Context, userID, debtAssetID, collateralAssetID string, repayAmount *uint256.Int) (result *Liquidation, err error) {
	op, ctx, err := e.begin(ctx, core.ActionTypeLiquidate)
	if err != nil {
		return nil, err
	}
	defer op.end(ctx, &err)

	liquidator, err := op.user()
	if err != nil {
		return nil, err
	}

	debtPool, err := op.pool(debtAssetID)
	if err != nil {
		return nil, err
	}

	collateralPool, err := op.pool(collateralAssetID)
	if err != nil {
		return nil, err
	}

	if err := compound.Require(debtPool.AcceptsExit() && collateralPool.AcceptsExit(), core.ErrPoolNotActive); err != nil {
		return nil, err
	}

	if err := compound.Require(repayAmount != nil && !repayAmount.IsZero(), core.ErrInvalidAmount); err != nil {
		return nil, err
	}

	if err := op.accrue(ctx, debtPool); err != nil {
		return nil, err
	}

	if err := op.accrue(ctx, collateralPool); err != nil {
		return nil, err
	}

	acc, err := op.accruedAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := compound.Require(!acc.Healthy, core.ErrAccountHealthy); err != nil {
		return nil, err
	}

	result = &Liquidation{}

	// repay debt
	debtPos := op.position(userID, debtAssetID)
	borrowBalance, err := compound.BorrowAmountUp(debtPos.BorrowShares, debtPool.TotalBorrows, debtPool.TotalBorrowShares)
	if err != nil {
		return nil, err
	}

	maxRepay, err := compound.MaxRepay(borrowBalance)
	if err != nil {
		return nil, err
	}

	result.ActualRepay = number.Min(repayAmount, maxRepay)
	result.RepayShares, err = compound.BorrowSharesDown(result.ActualRepay, debtPool.TotalBorrows, debtPool.TotalBorrowShares)
	if err != nil {
		return nil, err
	}

	if err := compound.Require(!result.RepayShares.IsZero(), core.ErrInvalidAmount); err != nil {
		return nil, err
	}

	// seize collateral
	debtPrice, err := e.oracle.Price(ctx, debtAssetID)
	if err != nil {
		return nil, fmt.Errorf("price of %s: %w", debtAssetID, err)
	}

	collateralPrice, err := e.oracle.Price(ctx, collateralAssetID)
	if err != nil {
		return nil, fmt.Errorf("price of %s: %w", collateralAssetID, err)
	}

	bonus, err := collateralPool.Config.LiquidationBonus(ctx)
	if err != nil {
		return nil, fmt.Errorf("liquidation bonus of %s: %w", collateralAssetID, err)
	}

	result.CollateralAmount, err = compound.SeizeAmount(result.ActualRepay, debtPrice, collateralPrice, bonus)
	if err != nil {
		return nil, err
	}

	totalLiquidity, totalShares, err := e.liquidityTotals(ctx, collateralPool)
	if err != nil {
		return nil, err
	}

	result.CollateralShares, err = compound.LiquidityShares(result.CollateralAmount, totalLiquidity, totalShares)
	if err != nil {
		return nil, err
	}

	collateralPos := op.position(userID, collateralAssetID)
	userShares, err := collateralPool.ShareToken.BalanceOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := compound.Require(
		!collateralPos.CollateralDisabled && !result.CollateralShares.Gt(userShares),
		core.ErrInsufficientCollateral,
	); err != nil {
		return nil, err
	}

	if err := compound.Require(!result.CollateralShares.IsZero(), core.ErrInvalidAmount); err != nil {
		return nil, err
	}

	// collateral shares are priced before the repayment touches either pool
	op.settleReward(ctx, debtPool, debtPos)
	debtSharesBefore := new(uint256.Int).Set(debtPos.BorrowShares)
	if err := repayShares(debtPool, debtPos, result.RepayShares, result.ActualRepay); err != nil {
		return nil, err
	}

	if err := op.transferShares(ctx, collateralPool, userID, liquidator, result.CollateralShares); err != nil {
		return nil, err
	}

	op.position(liquidator, collateralAssetID)

	// liquidator pays the debt
	if err := op.transfer(ctx, debtAssetID, liquidator, e.vault, result.ActualRepay); err != nil {
		return nil, err
	}

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyLiquidator, liquidator)
	extra.Put(core.TransactionKeyDebtAsset, debtAssetID)
	extra.Put(core.TransactionKeyCollateralAsset, collateralAssetID)
	extra.Put(core.TransactionKeyShares, result.RepayShares.Dec())
	extra.Put(core.TransactionKeyBorrowSharesBefore, debtSharesBefore.Dec())
	extra.Put(core.TransactionKeyBorrowSharesAfter, debtPos.BorrowShares.Dec())
	extra.Put(core.TransactionKeyCollateralAmount, result.CollateralAmount.Dec())
	extra.Put(core.TransactionKeyCollateralShares, result.CollateralShares.Dec())
	extra.Put(core.TransactionKeyLiquiditySharesBefore, userShares.Dec())
	extra.Put(core.TransactionKeyLiquiditySharesAfter, new(uint256.Int).Sub(userShares, result.CollateralShares).Dec())
	op.emit(core.ActionTypeLiquidate, userID, debtAssetID, result.ActualRepay, extra)
	return result, nil
}
