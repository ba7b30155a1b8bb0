package compound

import (
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
)

// CloseFactor max share of a debt repaid by one liquidation, 0.5
var CloseFactor = uint256.NewInt(500_000_000_000_000_000)

// MaxRepay borrow_balance * close_factor
func MaxRepay(borrowBalance *uint256.Int) (*uint256.Int, error) {
	return number.MulDown(borrowBalance, CloseFactor)
}

// SeizeAmount collateral paid to the liquidator
// repay * debt_price / collateral_price * (1 + bonus), rounded down
func SeizeAmount(repay, debtPrice, collateralPrice, bonus *uint256.Int) (*uint256.Int, error) {
	value, err := number.MulDivDown(repay, debtPrice, collateralPrice)
	if err != nil {
		return nil, err
	}

	incentive, err := number.Add(number.WAD, bonus)
	if err != nil {
		return nil, err
	}

	return number.MulDown(value, incentive)
}
