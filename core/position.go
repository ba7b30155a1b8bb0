package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// PositionKey (user, asset)
type PositionKey struct {
	UserID  string
	AssetID string
}

// Position user position in one pool. Liquidity shares live on the pool share token.
type Position struct {
	UserID               string
	AssetID              string
	BorrowShares         *uint256.Int
	CollateralDisabled   bool
	LastRewardMultiplier *uint256.Int
	PendingRewardUnits   *uint256.Int
}

// NewPosition zero position
func NewPosition(userID, assetID string) *Position {
	return &Position{
		UserID:               userID,
		AssetID:              assetID,
		BorrowShares:         new(uint256.Int),
		LastRewardMultiplier: new(uint256.Int),
		PendingRewardUnits:   new(uint256.Int),
	}
}

// Key position key
func (p *Position) Key() PositionKey {
	return PositionKey{UserID: p.UserID, AssetID: p.AssetID}
}

// Clone deep copy
func (p *Position) Clone() *Position {
	c := *p
	c.BorrowShares = new(uint256.Int).Set(p.BorrowShares)
	c.LastRewardMultiplier = new(uint256.Int).Set(p.LastRewardMultiplier)
	c.PendingRewardUnits = new(uint256.Int).Set(p.PendingRewardUnits)
	return &c
}

// Restore overwrite p with the values of from
func (p *Position) Restore(from *Position) {
	*p = *from.Clone()
}

// Snapshot persistent form of the position
func (p *Position) Snapshot(liquidityShares *uint256.Int) *PositionSnapshot {
	if liquidityShares == nil {
		liquidityShares = new(uint256.Int)
	}

	return &PositionSnapshot{
		UserID:               p.UserID,
		AssetID:              p.AssetID,
		LiquidityShares:      decimal.NewFromBigInt(liquidityShares.ToBig(), 0),
		BorrowShares:         decimal.NewFromBigInt(p.BorrowShares.ToBig(), 0),
		CollateralDisabled:   p.CollateralDisabled,
		LastRewardMultiplier: decimal.NewFromBigInt(p.LastRewardMultiplier.ToBig(), 0),
		PendingRewardUnits:   decimal.NewFromBigInt(p.PendingRewardUnits.ToBig(), 0),
	}
}

// PositionSnapshot position row
type PositionSnapshot struct {
	ID                   int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	UserID               string          `sql:"size:36;unique_index:idx_positions_user_asset" json:"user_id,omitempty"`
	AssetID              string          `sql:"size:36;unique_index:idx_positions_user_asset" json:"asset_id,omitempty"`
	LiquidityShares      decimal.Decimal `sql:"type:decimal(65,0)" json:"liquidity_shares"`
	BorrowShares         decimal.Decimal `sql:"type:decimal(65,0)" json:"borrow_shares"`
	CollateralDisabled   bool            `json:"collateral_disabled"`
	LastRewardMultiplier decimal.Decimal `sql:"type:decimal(65,0)" json:"last_reward_multiplier"`
	PendingRewardUnits   decimal.Decimal `sql:"type:decimal(65,0)" json:"pending_reward_units"`
	Version              int64           `sql:"default:0" json:"version,omitempty"`
	CreatedAt            time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	UpdatedAt            time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
}

// PositionStore position store interface
type PositionStore interface {
	Save(ctx context.Context, tx *db.DB, position *PositionSnapshot) error
	Find(ctx context.Context, userID, assetID string) (*PositionSnapshot, error)
	FindByUser(ctx context.Context, userID string) ([]*PositionSnapshot, error)
}
