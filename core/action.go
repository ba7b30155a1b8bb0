package core

import "fmt"

// ActionType operation recorded by a transaction
type ActionType int

const (
	_ ActionType = iota
	// ActionTypeDeposit deposit
	ActionTypeDeposit
	// ActionTypeWithdraw withdraw
	ActionTypeWithdraw
	// ActionTypeBorrow borrow
	ActionTypeBorrow
	// ActionTypeRepay repay
	ActionTypeRepay
	// ActionTypeLiquidate liquidate
	ActionTypeLiquidate
	// ActionTypeAccrue interest accrued
	ActionTypeAccrue
	// ActionTypeSetCollateral set use as collateral
	ActionTypeSetCollateral
	// ActionTypeClaimReward claim reward units
	ActionTypeClaimReward
	// ActionTypeInitPool init pool
	ActionTypeInitPool
	// ActionTypeSetPoolConfig set pool config
	ActionTypeSetPoolConfig
	// ActionTypeSetPoolStatus set pool status
	ActionTypeSetPoolStatus
	// ActionTypeSetPriceOracle set price oracle
	ActionTypeSetPriceOracle
	// ActionTypeSetReservePercent set reserve percent
	ActionTypeSetReservePercent
	// ActionTypeWithdrawReserve withdraw pool reserves
	ActionTypeWithdrawReserve
	// ActionTypeSetDistributor set reward distributor
	ActionTypeSetDistributor
	// ActionTypeDistributeReward reward units distributed
	ActionTypeDistributeReward
)

var actionTypeNames = map[ActionType]string{
	ActionTypeDeposit:           "deposit",
	ActionTypeWithdraw:          "withdraw",
	ActionTypeBorrow:            "borrow",
	ActionTypeRepay:             "repay",
	ActionTypeLiquidate:         "liquidate",
	ActionTypeAccrue:            "accrue",
	ActionTypeSetCollateral:     "set-collateral",
	ActionTypeClaimReward:       "claim-reward",
	ActionTypeInitPool:          "init-pool",
	ActionTypeSetPoolConfig:     "set-pool-config",
	ActionTypeSetPoolStatus:     "set-pool-status",
	ActionTypeSetPriceOracle:    "set-price-oracle",
	ActionTypeSetReservePercent: "set-reserve-percent",
	ActionTypeWithdrawReserve:   "withdraw-reserve",
	ActionTypeSetDistributor:    "set-distributor",
	ActionTypeDistributeReward:  "distribute-reward",
}

func (a ActionType) String() string {
	if name, ok := actionTypeNames[a]; ok {
		return name
	}

	return fmt.Sprintf("ActionType(%d)", int(a))
}

// MarshalText json key and value
func (a ActionType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
