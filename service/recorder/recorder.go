package recorder

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
)

// checkpointKey id of the last recorded transaction
const checkpointKey = "lendpool_recorder_checkpoint"

// Recorder persist committed operations
type Recorder struct {
	db           *db.DB
	property     property.Store
	pools        core.PoolStore
	positions    core.PositionStore
	transactions core.TransactionStore
}

// New new recorder
func New(
	db *db.DB,
	property property.Store,
	pools core.PoolStore,
	positions core.PositionStore,
	transactions core.TransactionStore,
) *Recorder {
	return &Recorder{
		db:           db,
		property:     property,
		pools:        pools,
		positions:    positions,
		transactions: transactions,
	}
}

// Record save the changeset in one db transaction
func (r *Recorder) Record(ctx context.Context, cs *core.Changeset) error {
	log := logger.FromContext(ctx)

	if err := r.db.Tx(func(tx *db.DB) error {
		for _, pool := range cs.Pools {
			if err := r.pools.Save(ctx, tx, pool); err != nil {
				log.WithError(err).Errorln("pools.Save", pool.AssetID)
				return err
			}
		}

		for _, position := range cs.Positions {
			if err := r.positions.Save(ctx, tx, position); err != nil {
				log.WithError(err).Errorln("positions.Save", position.UserID, position.AssetID)
				return err
			}
		}

		for _, transaction := range cs.Transactions {
			if err := r.transactions.Create(ctx, tx, transaction); err != nil {
				log.WithError(err).Errorln("transactions.Create", transaction.TraceID)
				return err
			}
		}

		return nil
	}); err != nil {
		return err
	}

	if n := len(cs.Transactions); n > 0 {
		// the rows are committed, a stale checkpoint only delays readers
		if err := r.property.Save(ctx, checkpointKey, cs.Transactions[n-1].ID); err != nil {
			log.WithError(err).Errorln("property.Save", checkpointKey)
		}
	}

	return nil
}

// Checkpoint id of the last recorded transaction, 0 before the first record
func (r *Recorder) Checkpoint(ctx context.Context) (int64, error) {
	v, err := r.property.Get(ctx, checkpointKey)
	if err != nil {
		return 0, err
	}

	return v.Int64(), nil
}
