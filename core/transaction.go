package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

const (
	// TransactionKeyAmount amount moved by the operation
	TransactionKeyAmount = "amount"
	// TransactionKeyShares shares minted, burned or moved
	TransactionKeyShares = "shares"
	// TransactionKeyLiquiditySharesBefore liquidity shares before
	TransactionKeyLiquiditySharesBefore = "liquidity_shares_before"
	// TransactionKeyLiquiditySharesAfter liquidity shares after
	TransactionKeyLiquiditySharesAfter = "liquidity_shares_after"
	// TransactionKeyBorrowSharesBefore borrow shares before
	TransactionKeyBorrowSharesBefore = "borrow_shares_before"
	// TransactionKeyBorrowSharesAfter borrow shares after
	TransactionKeyBorrowSharesAfter = "borrow_shares_after"
	// TransactionKeyTotalBorrows total borrows after
	TransactionKeyTotalBorrows = "total_borrows"
	// TransactionKeyTotalBorrowShares total borrow shares after
	TransactionKeyTotalBorrowShares = "total_borrow_shares"
	// TransactionKeyReserves pool reserves after
	TransactionKeyReserves = "reserves"
	// TransactionKeyInterest interest accrued
	TransactionKeyInterest = "interest"
	// TransactionKeyBorrowRate annual borrow rate
	TransactionKeyBorrowRate = "borrow_rate"
	// TransactionKeyTimestamp accrual timestamp
	TransactionKeyTimestamp = "timestamp"
	// TransactionKeyLiquidator liquidator
	TransactionKeyLiquidator = "liquidator"
	// TransactionKeyDebtAsset debt asset
	TransactionKeyDebtAsset = "debt_asset"
	// TransactionKeyCollateralAsset collateral asset
	TransactionKeyCollateralAsset = "collateral_asset"
	// TransactionKeyCollateralAmount collateral seized
	TransactionKeyCollateralAmount = "collateral_amount"
	// TransactionKeyCollateralShares collateral shares seized
	TransactionKeyCollateralShares = "collateral_shares"
	// TransactionKeyUseAsCollateral collateral flag
	TransactionKeyUseAsCollateral = "use_as_collateral"
	// TransactionKeyStatus pool status
	TransactionKeyStatus = "status"
	// TransactionKeyReservePercent reserve percent
	TransactionKeyReservePercent = "reserve_percent"
	// TransactionKeyRewardUnits reward units
	TransactionKeyRewardUnits = "reward_units"
	// TransactionKeyShareToken share token id
	TransactionKeyShareToken = "share_token"
)

// ExtraDataFormatter json extra data
type ExtraDataFormatter interface {
	Format() []byte
}

// TransactionExtraData extra data
type TransactionExtraData map[string]interface{}

// NewTransactionExtra new transaction extra instance
func NewTransactionExtra() TransactionExtraData {
	d := make(TransactionExtraData)
	return d
}

// Put put data
func (t TransactionExtraData) Put(key string, value interface{}) {
	t[key] = value
}

// Format format as []byte by default
func (t TransactionExtraData) Format() []byte {
	bs, e := json.Marshal(t)
	if e != nil {
		return []byte("{}")
	}

	return bs
}

// Transaction event emitted by a committed operation
type Transaction struct {
	ID        int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	Action    ActionType      `json:"action,omitempty"`
	TraceID   string          `sql:"size:36;unique_index:idx_transactions_trace_id" json:"trace_id,omitempty"`
	UserID    string          `sql:"size:36;index:idx_transactions_user_id" json:"user_id,omitempty"`
	AssetID   string          `sql:"size:36;index:idx_transactions_asset_id" json:"asset_id,omitempty"`
	Amount    decimal.Decimal `sql:"type:decimal(65,0)" json:"amount"`
	Data      types.JSONText  `sql:"type:TEXT" json:"data,omitempty"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP;index:idx_transactions_created_at" json:"created_at,omitempty"`
}

// SetExtraData set json data
func (t *Transaction) SetExtraData(extra ExtraDataFormatter) {
	data := []byte("{}")
	if extra != nil {
		data = extra.Format()
	}

	t.Data = data
}

// TransactionStore transaction store interface
type TransactionStore interface {
	Create(ctx context.Context, tx *db.DB, transaction *Transaction) error
	FindByTraceID(ctx context.Context, traceID string) (*Transaction, error)
	ListByUser(ctx context.Context, userID string, fromID int64, limit int) ([]*Transaction, error)
}

// Changeset state touched by one committed operation
type Changeset struct {
	Pools        []*PoolSnapshot
	Positions    []*PositionSnapshot
	Transactions []*Transaction
}

// Recorder persists committed operations
type Recorder interface {
	Record(ctx context.Context, cs *Changeset) error
}
