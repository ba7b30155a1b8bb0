package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// PoolStatus pool status
type PoolStatus int

const (
	// PoolStatusInactive created but not opened
	PoolStatusInactive PoolStatus = iota
	// PoolStatusActive all operations allowed
	PoolStatusActive
	// PoolStatusClosed only withdraw, repay and liquidate allowed
	PoolStatusClosed
)

var poolStatusNames = map[PoolStatus]string{
	PoolStatusInactive: "inactive",
	PoolStatusActive:   "active",
	PoolStatusClosed:   "closed",
}

func (s PoolStatus) String() string {
	if name, ok := poolStatusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("PoolStatus(%d)", int(s))
}

// ParsePoolStatus parse status name
func ParsePoolStatus(s string) (PoolStatus, error) {
	for status, name := range poolStatusNames {
		if strings.EqualFold(name, s) {
			return status, nil
		}
	}

	return PoolStatusInactive, ErrInvalidArgument
}

// PoolConfig interest rate configuration of a pool, all values are WAD scaled.
// It is called with the engine held, see PriceOracle for callbacks.
type PoolConfig interface {
	// CurrentRate annual borrow rate
	CurrentRate(ctx context.Context, totalBorrows, totalLiquidity *uint256.Int) (*uint256.Int, error)
	CollateralFactor(ctx context.Context) (*uint256.Int, error)
	LiquidationBonus(ctx context.Context) (*uint256.Int, error)
}

// Pool asset pool
type Pool struct {
	AssetID             string
	Status              PoolStatus
	ShareToken          ShareToken
	Config              PoolConfig
	TotalBorrows        *uint256.Int
	TotalBorrowShares   *uint256.Int
	PoolReserves        *uint256.Int
	LastUpdateTimestamp int64
	TotalRewardUnits    *uint256.Int
	RewardMultiplier    *uint256.Int
	CreatedAt           time.Time
}

// NewPool new inactive pool
func NewPool(assetID string, token ShareToken, cfg PoolConfig, now time.Time) *Pool {
	return &Pool{
		AssetID:             assetID,
		Status:              PoolStatusInactive,
		ShareToken:          token,
		Config:              cfg,
		TotalBorrows:        new(uint256.Int),
		TotalBorrowShares:   new(uint256.Int),
		PoolReserves:        new(uint256.Int),
		LastUpdateTimestamp: now.Unix(),
		TotalRewardUnits:    new(uint256.Int),
		RewardMultiplier:    new(uint256.Int),
		CreatedAt:           now,
	}
}

// IsActive deposit and borrow allowed
func (p *Pool) IsActive() bool {
	return p.Status == PoolStatusActive
}

// AcceptsExit withdraw, repay and liquidate allowed
func (p *Pool) AcceptsExit() bool {
	return p.Status == PoolStatusActive || p.Status == PoolStatusClosed
}

// Clone deep copy, the share token and config handles are shared
func (p *Pool) Clone() *Pool {
	c := *p
	c.TotalBorrows = new(uint256.Int).Set(p.TotalBorrows)
	c.TotalBorrowShares = new(uint256.Int).Set(p.TotalBorrowShares)
	c.PoolReserves = new(uint256.Int).Set(p.PoolReserves)
	c.TotalRewardUnits = new(uint256.Int).Set(p.TotalRewardUnits)
	c.RewardMultiplier = new(uint256.Int).Set(p.RewardMultiplier)
	return &c
}

// Restore overwrite p with the values of from
func (p *Pool) Restore(from *Pool) {
	*p = *from.Clone()
}

// Snapshot persistent form of the pool
func (p *Pool) Snapshot() *PoolSnapshot {
	s := &PoolSnapshot{
		AssetID:             p.AssetID,
		Status:              p.Status,
		TotalBorrows:        decimal.NewFromBigInt(p.TotalBorrows.ToBig(), 0),
		TotalBorrowShares:   decimal.NewFromBigInt(p.TotalBorrowShares.ToBig(), 0),
		PoolReserves:        decimal.NewFromBigInt(p.PoolReserves.ToBig(), 0),
		LastUpdateTimestamp: p.LastUpdateTimestamp,
		TotalRewardUnits:    decimal.NewFromBigInt(p.TotalRewardUnits.ToBig(), 0),
		RewardMultiplier:    decimal.NewFromBigInt(p.RewardMultiplier.ToBig(), 0),
		CreatedAt:           p.CreatedAt,
	}

	if p.ShareToken != nil {
		s.ShareTokenID = p.ShareToken.ID()
	}

	return s
}

// PoolSnapshot pool row
type PoolSnapshot struct {
	ID                  int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	AssetID             string          `sql:"size:36;unique_index:idx_pools_asset_id" json:"asset_id,omitempty"`
	ShareTokenID        string          `sql:"size:64" json:"share_token_id,omitempty"`
	Status              PoolStatus      `sql:"default:0" json:"status"`
	TotalBorrows        decimal.Decimal `sql:"type:decimal(65,0)" json:"total_borrows"`
	TotalBorrowShares   decimal.Decimal `sql:"type:decimal(65,0)" json:"total_borrow_shares"`
	PoolReserves        decimal.Decimal `sql:"type:decimal(65,0)" json:"pool_reserves"`
	LastUpdateTimestamp int64           `json:"last_update_timestamp"`
	TotalRewardUnits    decimal.Decimal `sql:"type:decimal(65,0)" json:"total_reward_units"`
	RewardMultiplier    decimal.Decimal `sql:"type:decimal(65,0)" json:"reward_multiplier"`
	Version             int64           `sql:"default:0" json:"version,omitempty"`
	CreatedAt           time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	UpdatedAt           time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
}

// PoolStore pool store interface
type PoolStore interface {
	Save(ctx context.Context, tx *db.DB, pool *PoolSnapshot) error
	Find(ctx context.Context, assetID string) (*PoolSnapshot, error)
	All(ctx context.Context) ([]*PoolSnapshot, error)
}
