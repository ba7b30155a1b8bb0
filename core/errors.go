package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000
	// ErrUnauthorized admin-only operation called by non-admin
	ErrUnauthorized ErrorCode = 100001
	// ErrReentrantCall call re-entered the engine during an in-progress operation
	ErrReentrantCall ErrorCode = 100002
	// ErrInvalidArgument invalid argument
	ErrInvalidArgument ErrorCode = 100003

	// ErrArithmeticOverflow fixed-point overflow or underflow
	ErrArithmeticOverflow ErrorCode = 100100
	// ErrDivisionByZero division by zero
	ErrDivisionByZero ErrorCode = 100101
	// ErrInvalidAmount amount is zero or converts to zero shares
	ErrInvalidAmount ErrorCode = 100102

	// ErrPoolNotInitialized no pool for the asset
	ErrPoolNotInitialized ErrorCode = 100200
	// ErrPoolNotActive pool status does not allow the operation
	ErrPoolNotActive ErrorCode = 100201
	// ErrPoolAlreadyExists pool already initialized
	ErrPoolAlreadyExists ErrorCode = 100202

	// ErrInsufficientBalance insufficient balance
	ErrInsufficientBalance ErrorCode = 100300
	// ErrInsufficientLiquidity insufficient liquidity
	ErrInsufficientLiquidity ErrorCode = 100301
	// ErrAccountUnhealthy borrow value would exceed collateral value
	ErrAccountUnhealthy ErrorCode = 100302
	// ErrAccountHealthy liquidation attempted on a solvent account
	ErrAccountHealthy ErrorCode = 100303
	// ErrInsufficientCollateral liquidated user lacks the seized collateral
	ErrInsufficientCollateral ErrorCode = 100304

	// ErrPriceUnavailable oracle has no valid price for the asset
	ErrPriceUnavailable ErrorCode = 100400
)

var errorNames = map[ErrorCode]string{
	ErrUnknown:                "unknown",
	ErrUnauthorized:           "unauthorized",
	ErrReentrantCall:          "reentrant call",
	ErrInvalidArgument:        "invalid argument",
	ErrArithmeticOverflow:     "arithmetic overflow",
	ErrDivisionByZero:         "division by zero",
	ErrInvalidAmount:          "invalid amount",
	ErrPoolNotInitialized:     "pool not initialized",
	ErrPoolNotActive:          "pool not active",
	ErrPoolAlreadyExists:      "pool already exists",
	ErrInsufficientBalance:    "insufficient balance",
	ErrInsufficientLiquidity:  "insufficient liquidity",
	ErrAccountUnhealthy:       "account unhealthy",
	ErrAccountHealthy:         "account healthy",
	ErrInsufficientCollateral: "insufficient collateral",
	ErrPriceUnavailable:       "price unavailable",
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	if name, ok := errorNames[e]; ok {
		return name
	}

	return e.String()
}
