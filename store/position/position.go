package position

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type positionStore struct {
	db *db.DB
}

// New new position store
func New(db *db.DB) core.PositionStore {
	return &positionStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.PositionSnapshot{})

		if err := tx.AutoMigrate(core.PositionSnapshot{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *positionStore) Save(ctx context.Context, tx *db.DB, position *core.PositionSnapshot) error {
	update := tx.Update().Model(core.PositionSnapshot{}).
		Where("user_id = ? AND asset_id = ?", position.UserID, position.AssetID).
		Updates(map[string]interface{}{
			"liquidity_shares":       position.LiquidityShares,
			"borrow_shares":          position.BorrowShares,
			"collateral_disabled":    position.CollateralDisabled,
			"last_reward_multiplier": position.LastRewardMultiplier,
			"pending_reward_units":   position.PendingRewardUnits,
			"version":                gorm.Expr("version + 1"),
		})

	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return tx.Update().Create(position).Error
	}

	return nil
}

func (s *positionStore) Find(ctx context.Context, userID, assetID string) (*core.PositionSnapshot, error) {
	var position core.PositionSnapshot
	err := s.db.View().Where("user_id = ? AND asset_id = ?", userID, assetID).First(&position).Error
	if store.IsErrNotFound(err) {
		return &core.PositionSnapshot{}, nil
	}

	return &position, err
}

func (s *positionStore) FindByUser(ctx context.Context, userID string) ([]*core.PositionSnapshot, error) {
	var positions []*core.PositionSnapshot
	if err := s.db.View().Where("user_id = ?", userID).Order("id").Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}
