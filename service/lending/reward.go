package lending

import (
	"context"

	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
)

// distribute poke the distributor and spread released units over the pools
// pro rata to their borrow value. Failures are logged and never abort the operation.
func (op *operation) distribute(ctx context.Context) {
	e := op.e
	if e.distributor == nil {
		return
	}

	log := logger.FromContext(ctx)

	units, err := e.distributor.Poke(ctx)
	if err != nil {
		log.WithError(err).Warnln("distributor.Poke")
		return
	}

	if units == nil || units.IsZero() {
		return
	}

	type allotment struct {
		pool       *core.Pool
		units      *uint256.Int
		multiplier *uint256.Int
	}

	weights := make([]*uint256.Int, len(e.pools))
	total := new(uint256.Int)
	for i, pool := range e.pools {
		weights[i] = new(uint256.Int)
		if pool.TotalBorrowShares.IsZero() || pool.TotalBorrows.IsZero() {
			continue
		}

		price, err := e.oracle.Price(ctx, pool.AssetID)
		if err != nil {
			log.WithError(err).Warnln("skip reward: oracle.Price")
			return
		}

		w, err := number.MulDown(pool.TotalBorrows, price)
		if err != nil {
			log.WithError(err).Warnln("skip reward: borrow value")
			return
		}

		weights[i] = w
		if total, err = number.Add(total, w); err != nil {
			log.WithError(err).Warnln("skip reward: total borrow value")
			return
		}
	}

	if total.IsZero() {
		log.Debugln("skip reward: no borrows")
		return
	}

	var allotments []allotment
	for i, pool := range e.pools {
		if weights[i].IsZero() {
			continue
		}

		share, err := number.MulDivDown(units, weights[i], total)
		if err != nil {
			log.WithError(err).Warnln("skip reward: split")
			return
		}

		delta, err := number.MulDivDown(share, number.WAD, pool.TotalBorrowShares)
		if err != nil {
			log.WithError(err).Warnln("skip reward: multiplier")
			return
		}

		multiplier, err := number.Add(pool.RewardMultiplier, delta)
		if err != nil {
			log.WithError(err).Warnln("skip reward: multiplier overflow")
			return
		}

		if _, err := number.Add(pool.TotalRewardUnits, share); err != nil {
			log.WithError(err).Warnln("skip reward: units overflow")
			return
		}

		allotments = append(allotments, allotment{pool: pool, units: share, multiplier: multiplier})
	}

	for _, a := range allotments {
		a.pool.TotalRewardUnits = new(uint256.Int).Add(a.pool.TotalRewardUnits, a.units)
		a.pool.RewardMultiplier = a.multiplier
		op.rewarded = append(op.rewarded, a.pool)

		extra := core.NewTransactionExtra()
		extra.Put(core.TransactionKeyRewardUnits, a.units.Dec())
		op.rewardEvents = append(op.rewardEvents, op.newTransaction(core.ActionTypeDistributeReward, "", a.pool.AssetID, a.units, extra))
	}
}

// settleReward accrue pending reward units of the position before its borrow shares change
func (op *operation) settleReward(ctx context.Context, pool *core.Pool, pos *core.Position) {
	pending, err := pendingReward(pool, pos)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Warnln("skip reward settlement")
		return
	}

	pos.PendingRewardUnits = pending
	pos.LastRewardMultiplier = new(uint256.Int).Set(pool.RewardMultiplier)
}

// pendingReward pending + (pool_multiplier - last_multiplier) * borrow_shares / WAD
func pendingReward(pool *core.Pool, pos *core.Position) (*uint256.Int, error) {
	delta, err := number.Sub(pool.RewardMultiplier, pos.LastRewardMultiplier)
	if err != nil {
		return nil, err
	}

	earned, err := number.MulDivDown(delta, pos.BorrowShares, number.WAD)
	if err != nil {
		return nil, err
	}

	return number.Add(pos.PendingRewardUnits, earned)
}

// ClaimReward settle and reset the caller's pending reward units of a pool
func (e *Engine) ClaimReward(ctx context.Context, assetID string) (units *uint256.Int, err error) {
	op, ctx, err := e.begin(ctx, core.ActionTypeClaimReward)
	if err != nil {
		return nil, err
	}
	defer op.end(ctx, &err)

	user, err := op.user()
	if err != nil {
		return nil, err
	}

	pool, err := op.pool(assetID)
	if err != nil {
		return nil, err
	}

	pos := op.position(user, assetID)
	op.settleReward(ctx, pool, pos)

	units = pos.PendingRewardUnits
	pos.PendingRewardUnits = new(uint256.Int)

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyRewardUnits, units.Dec())
	op.emit(core.ActionTypeClaimReward, user, assetID, units, extra)
	return units, nil
}

// SetDistributor replace the reward distributor, nil disables rewards
func (e *Engine) SetDistributor(ctx context.Context, distributor core.Distributor) (err error) {
	op, ctx, err := e.begin(ctx, core.ActionTypeSetDistributor)
	if err != nil {
		return err
	}
	defer op.end(ctx, &err)

	admin, err := op.admin()
	if err != nil {
		return err
	}

	prev := e.distributor
	e.distributor = distributor
	op.onRollback(func(_ context.Context) error {
		e.distributor = prev
		return nil
	})

	op.emit(core.ActionTypeSetDistributor, admin, "", nil, nil)
	return nil
}
