package compound

import (
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
)

// Share conversions. Amounts owed to the pool round up, amounts owed to the user round down.
// Each conversion keeps its own bootstrap rule for empty pools.

func bootstrap(total, totalShares *uint256.Int) bool {
	return total.IsZero() || totalShares.IsZero()
}

// LiquidityShares shares minted for a deposit, rounded down
func LiquidityShares(amount, totalLiquidity, totalShares *uint256.Int) (*uint256.Int, error) {
	if bootstrap(totalLiquidity, totalShares) {
		return new(uint256.Int).Set(amount), nil
	}

	return number.MulDivDown(amount, totalShares, totalLiquidity)
}

// LiquidityAmount amount paid for burning shares, rounded down
func LiquidityAmount(shares, totalLiquidity, totalShares *uint256.Int) (*uint256.Int, error) {
	if totalShares.IsZero() {
		return new(uint256.Int), nil
	}

	return number.MulDivDown(shares, totalLiquidity, totalShares)
}

// LiquiditySharesUp shares burned to withdraw an amount, rounded up
func LiquiditySharesUp(amount, totalLiquidity, totalShares *uint256.Int) (*uint256.Int, error) {
	if bootstrap(totalLiquidity, totalShares) {
		return new(uint256.Int).Set(amount), nil
	}

	return number.MulDivUp(amount, totalShares, totalLiquidity)
}

// BorrowSharesUp debt shares for a borrow, rounded up
func BorrowSharesUp(amount, totalBorrows, totalBorrowShares *uint256.Int) (*uint256.Int, error) {
	if bootstrap(totalBorrows, totalBorrowShares) {
		return new(uint256.Int).Set(amount), nil
	}

	return number.MulDivUp(amount, totalBorrowShares, totalBorrows)
}

// BorrowAmountUp debt represented by shares, rounded up
func BorrowAmountUp(shares, totalBorrows, totalBorrowShares *uint256.Int) (*uint256.Int, error) {
	if bootstrap(totalBorrows, totalBorrowShares) {
		return new(uint256.Int).Set(shares), nil
	}

	return number.MulDivUp(shares, totalBorrows, totalBorrowShares)
}

// BorrowSharesDown debt shares cleared by repaying an amount, rounded down
func BorrowSharesDown(amount, totalBorrows, totalBorrowShares *uint256.Int) (*uint256.Int, error) {
	if totalBorrowShares.IsZero() {
		return new(uint256.Int), nil
	}

	return number.MulDivDown(amount, totalBorrowShares, totalBorrows)
}
