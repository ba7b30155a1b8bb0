package pool

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type poolStore struct {
	db *db.DB
}

// New new pool store
func New(db *db.DB) core.PoolStore {
	return &poolStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.PoolSnapshot{})

		if err := tx.AutoMigrate(core.PoolSnapshot{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *poolStore) Save(ctx context.Context, tx *db.DB, pool *core.PoolSnapshot) error {
	update := tx.Update().Model(core.PoolSnapshot{}).
		Where("asset_id = ?", pool.AssetID).
		Updates(map[string]interface{}{
			"share_token_id":        pool.ShareTokenID,
			"status":                pool.Status,
			"total_borrows":         pool.TotalBorrows,
			"total_borrow_shares":   pool.TotalBorrowShares,
			"pool_reserves":         pool.PoolReserves,
			"last_update_timestamp": pool.LastUpdateTimestamp,
			"total_reward_units":    pool.TotalRewardUnits,
			"reward_multiplier":     pool.RewardMultiplier,
			"version":               gorm.Expr("version + 1"),
		})

	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return tx.Update().Create(pool).Error
	}

	return nil
}

func (s *poolStore) Find(ctx context.Context, assetID string) (*core.PoolSnapshot, error) {
	var pool core.PoolSnapshot
	if err := s.db.View().Where("asset_id = ?", assetID).First(&pool).Error; err != nil {
		if store.IsErrNotFound(err) {
			return &core.PoolSnapshot{}, nil
		}

		return nil, err
	}

	return &pool, nil
}

func (s *poolStore) All(ctx context.Context) ([]*core.PoolSnapshot, error) {
	var pools []*core.PoolSnapshot
	if err := s.db.View().Order("id").Find(&pools).Error; err != nil {
		return nil, err
	}

	return pools, nil
}
