package views

import (
	"encoding/json"

	"lendpool/core"
	"lendpool/pkg/number"
	"lendpool/service/lending"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/yiplee/structs"
)

func amount(x *uint256.Int) decimal.Decimal {
	return number.ToDecimal(x, 0)
}

// Pool pool view, amounts in base units and ratios as decimals
type Pool struct {
	AssetID             string          `json:"asset_id"`
	Status              string          `json:"status"`
	ShareTokenID        string          `json:"share_token_id"`
	TotalBorrows        decimal.Decimal `json:"total_borrows"`
	TotalBorrowShares   decimal.Decimal `json:"total_borrow_shares"`
	PoolReserves        decimal.Decimal `json:"pool_reserves"`
	TotalLiquidity      decimal.Decimal `json:"total_liquidity"`
	Available           decimal.Decimal `json:"available"`
	TotalShares         decimal.Decimal `json:"total_shares"`
	UtilizationRate     decimal.Decimal `json:"utilization_rate"`
	BorrowRate          decimal.Decimal `json:"borrow_rate"`
	LastUpdateTimestamp int64           `json:"last_update_timestamp"`
	TotalRewardUnits    decimal.Decimal `json:"total_reward_units"`
}

// PoolView render a pool
func PoolView(p *lending.PoolView) Pool {
	return Pool{
		AssetID:             p.AssetID,
		Status:              p.Status.String(),
		ShareTokenID:        p.ShareTokenID,
		TotalBorrows:        amount(p.TotalBorrows),
		TotalBorrowShares:   amount(p.TotalBorrowShares),
		PoolReserves:        amount(p.PoolReserves),
		TotalLiquidity:      amount(p.TotalLiquidity),
		Available:           amount(p.Available),
		TotalShares:         amount(p.TotalShares),
		UtilizationRate:     number.WadToDecimal(p.UtilizationRate),
		BorrowRate:          number.WadToDecimal(p.BorrowRate),
		LastUpdateTimestamp: p.LastUpdateTimestamp,
		TotalRewardUnits:    amount(p.TotalRewardUnits),
	}
}

// UserPool position view
type UserPool struct {
	UserID             string          `json:"user_id"`
	AssetID            string          `json:"asset_id"`
	LiquidityShares    decimal.Decimal `json:"liquidity_shares"`
	LiquidityBalance   decimal.Decimal `json:"liquidity_balance"`
	BorrowShares       decimal.Decimal `json:"borrow_shares"`
	BorrowBalance      decimal.Decimal `json:"borrow_balance"`
	UseAsCollateral    bool            `json:"use_as_collateral"`
	PendingRewardUnits decimal.Decimal `json:"pending_reward_units"`
}

// UserPoolView render a position
func UserPoolView(d *lending.UserPoolData) UserPool {
	return UserPool{
		UserID:             d.UserID,
		AssetID:            d.AssetID,
		LiquidityShares:    amount(d.LiquidityShares),
		LiquidityBalance:   amount(d.LiquidityBalance),
		BorrowShares:       amount(d.BorrowShares),
		BorrowBalance:      amount(d.BorrowBalance),
		UseAsCollateral:    d.UseAsCollateral,
		PendingRewardUnits: amount(d.PendingRewardUnits),
	}
}

// Account account view
type Account struct {
	UserID          string          `json:"user_id"`
	CollateralValue decimal.Decimal `json:"collateral_value"`
	BorrowValue     decimal.Decimal `json:"borrow_value"`
	Healthy         bool            `json:"healthy"`
}

// AccountView render an account
func AccountView(acc *lending.Account) Account {
	return Account{
		UserID:          acc.UserID,
		CollateralValue: amount(acc.CollateralValue),
		BorrowValue:     amount(acc.BorrowValue),
		Healthy:         acc.Healthy,
	}
}

// Liquidation liquidation result view
type Liquidation struct {
	ActualRepay      decimal.Decimal `json:"actual_repay"`
	RepayShares      decimal.Decimal `json:"repay_shares"`
	CollateralAmount decimal.Decimal `json:"collateral_amount"`
	CollateralShares decimal.Decimal `json:"collateral_shares"`
}

// LiquidationView render a liquidation
func LiquidationView(l *lending.Liquidation) Liquidation {
	return Liquidation{
		ActualRepay:      amount(l.ActualRepay),
		RepayShares:      amount(l.RepayShares),
		CollateralAmount: amount(l.CollateralAmount),
		CollateralShares: amount(l.CollateralShares),
	}
}

// TransactionView transaction fields keyed by their json names, data decoded inline
func TransactionView(t *core.Transaction) map[string]interface{} {
	s := structs.New(t)
	s.TagName = "json"
	m := s.Map()

	var data map[string]interface{}
	if err := json.Unmarshal(t.Data, &data); err == nil {
		m["data"] = data
	}

	m["action"] = t.Action.String()
	m["amount"] = t.Amount
	m["created_at"] = t.CreatedAt
	return m
}

// RecordedPool pool as last recorded by a committed operation
type RecordedPool struct {
	AssetID             string          `json:"asset_id"`
	Status              string          `json:"status"`
	ShareTokenID        string          `json:"share_token_id"`
	TotalBorrows        decimal.Decimal `json:"total_borrows"`
	TotalBorrowShares   decimal.Decimal `json:"total_borrow_shares"`
	PoolReserves        decimal.Decimal `json:"pool_reserves"`
	LastUpdateTimestamp int64           `json:"last_update_timestamp"`
	TotalRewardUnits    decimal.Decimal `json:"total_reward_units"`
	Version             int64           `json:"version"`
	UpdatedAt           int64           `json:"updated_at"`
}

// RecordedPoolView render a pool row
func RecordedPoolView(p *core.PoolSnapshot) RecordedPool {
	return RecordedPool{
		AssetID:             p.AssetID,
		Status:              p.Status.String(),
		ShareTokenID:        p.ShareTokenID,
		TotalBorrows:        p.TotalBorrows,
		TotalBorrowShares:   p.TotalBorrowShares,
		PoolReserves:        p.PoolReserves,
		LastUpdateTimestamp: p.LastUpdateTimestamp,
		TotalRewardUnits:    p.TotalRewardUnits,
		Version:             p.Version,
		UpdatedAt:           p.UpdatedAt.Unix(),
	}
}

// RecordedPosition position as last recorded by a committed operation
type RecordedPosition struct {
	UserID             string          `json:"user_id"`
	AssetID            string          `json:"asset_id"`
	LiquidityShares    decimal.Decimal `json:"liquidity_shares"`
	BorrowShares       decimal.Decimal `json:"borrow_shares"`
	UseAsCollateral    bool            `json:"use_as_collateral"`
	PendingRewardUnits decimal.Decimal `json:"pending_reward_units"`
	Version            int64           `json:"version"`
	UpdatedAt          int64           `json:"updated_at"`
}

// RecordedPositionView render a position row
func RecordedPositionView(p *core.PositionSnapshot) RecordedPosition {
	return RecordedPosition{
		UserID:             p.UserID,
		AssetID:            p.AssetID,
		LiquidityShares:    p.LiquidityShares,
		BorrowShares:       p.BorrowShares,
		UseAsCollateral:    !p.CollateralDisabled,
		PendingRewardUnits: p.PendingRewardUnits,
		Version:            p.Version,
		UpdatedAt:          p.UpdatedAt.Unix(),
	}
}
