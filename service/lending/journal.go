package lending

import (
	"context"
	"strconv"

	"lendpool/core"
	"lendpool/pkg/compound"
	"lendpool/pkg/id"

	"github.com/fox-one/pkg/logger"
	foxuuid "github.com/fox-one/pkg/uuid"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// operation journal of one mutating call
type operation struct {
	e       *Engine
	action  core.ActionType
	traceID string
	caller  string
	now     int64
	release func()

	pools         map[string]*core.Pool
	poolOrder     []string
	createdPools  map[string]bool
	accrued       map[string]bool
	positions     map[core.PositionKey]*core.Position
	positionOrder []core.PositionKey
	compensations []func(ctx context.Context) error
	transactions  []*core.Transaction

	rewarded     []*core.Pool
	rewardEvents []*core.Transaction
}

// begin acquire the guard, poke the distributor and open a journal
//
//	op, ctx, err := e.begin(ctx, core.ActionTypeDeposit)
//	if err != nil {
//		return err
//	}
//	defer op.end(ctx, &err)
func (e *Engine) begin(ctx context.Context, action core.ActionType) (*operation, context.Context, error) {
	ctx, release, err := e.enter(ctx)
	if err != nil {
		return nil, ctx, err
	}

	caller, _ := core.CallerFrom(ctx)
	op := &operation{
		e:            e,
		action:       action,
		traceID:      id.GenTraceID(),
		caller:       caller,
		now:          e.clock().Unix(),
		release:      release,
		pools:        map[string]*core.Pool{},
		createdPools: map[string]bool{},
		accrued:      map[string]bool{},
		positions:    map[core.PositionKey]*core.Position{},
	}

	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"op":    action.String(),
		"trace": op.traceID,
	})
	ctx = logger.WithContext(ctx, log)

	op.distribute(ctx)
	return op, ctx, nil
}

// end commit on success, roll back on failure, always release the guard
func (op *operation) end(ctx context.Context, errp *error) {
	defer op.release()

	if *errp == nil {
		*errp = op.commit(ctx)
	}

	if *errp != nil {
		op.rollback(ctx, *errp)
	}
}

// user the caller, required by user operations
func (op *operation) user() (string, error) {
	if op.caller == "" {
		return "", core.ErrUnauthorized
	}

	return op.caller, nil
}

// admin the caller if listed as admin
func (op *operation) admin() (string, error) {
	if op.caller == "" || !op.e.cfg.IsAdmin(op.caller) {
		return "", core.ErrUnauthorized
	}

	return op.caller, nil
}

// pool live pool, snapshotted on first touch
func (op *operation) pool(assetID string) (*core.Pool, error) {
	pool, ok := op.e.findPool(assetID)
	if !ok {
		return nil, core.ErrPoolNotInitialized
	}

	op.touchPool(pool)
	return pool, nil
}

func (op *operation) touchPool(pool *core.Pool) {
	if _, ok := op.pools[pool.AssetID]; ok {
		return
	}

	op.pools[pool.AssetID] = pool.Clone()
	op.poolOrder = append(op.poolOrder, pool.AssetID)
}

func (op *operation) createPool(pool *core.Pool) {
	op.e.addPool(pool)
	op.createdPools[pool.AssetID] = true
	op.pools[pool.AssetID] = pool.Clone()
	op.poolOrder = append(op.poolOrder, pool.AssetID)
}

// position live position, created zero valued and snapshotted on first touch
func (op *operation) position(userID, assetID string) *core.Position {
	key := core.PositionKey{UserID: userID, AssetID: assetID}
	pos, ok := op.e.positions[key]
	if !ok {
		pos = core.NewPosition(userID, assetID)
		op.e.positions[key] = pos
		if _, touched := op.positions[key]; !touched {
			op.positions[key] = nil
			op.positionOrder = append(op.positionOrder, key)
		}

		return pos
	}

	if _, touched := op.positions[key]; !touched {
		op.positions[key] = pos.Clone()
		op.positionOrder = append(op.positionOrder, key)
	}

	return pos
}

// accrue bring the pool up to now, at most once per operation
func (op *operation) accrue(ctx context.Context, pool *core.Pool) error {
	if op.accrued[pool.AssetID] {
		return nil
	}

	available, err := op.e.available(ctx, pool.AssetID)
	if err != nil {
		return err
	}

	accrual, err := compound.AccrueInterest(ctx, pool, available, op.e.reservePercent, op.now)
	if err != nil {
		return err
	}

	op.accrued[pool.AssetID] = true
	if accrual.Accrued() {
		extra := core.NewTransactionExtra()
		extra.Put(core.TransactionKeyBorrowRate, accrual.Rate.Dec())
		extra.Put(core.TransactionKeyInterest, accrual.Interest.Dec())
		extra.Put(core.TransactionKeyTotalBorrows, pool.TotalBorrows.Dec())
		extra.Put(core.TransactionKeyReserves, pool.PoolReserves.Dec())
		extra.Put(core.TransactionKeyTimestamp, op.now)
		op.emit(core.ActionTypeAccrue, "", pool.AssetID, accrual.Interest, extra)
	}

	return nil
}

// onRollback register a compensation for a collaborator side effect
func (op *operation) onRollback(fn func(ctx context.Context) error) {
	op.compensations = append(op.compensations, fn)
}

// transfer move underlying assets, reversed on rollback
func (op *operation) transfer(ctx context.Context, assetID, from, to string, amount *uint256.Int) error {
	if err := op.e.ledger.Transfer(ctx, assetID, from, to, amount); err != nil {
		return err
	}

	amount = new(uint256.Int).Set(amount)
	op.onRollback(func(ctx context.Context) error {
		return op.e.ledger.Transfer(ctx, assetID, to, from, amount)
	})
	return nil
}

func (op *operation) mint(ctx context.Context, pool *core.Pool, holder string, shares *uint256.Int) error {
	if err := pool.ShareToken.Mint(ctx, holder, shares); err != nil {
		return err
	}

	shares = new(uint256.Int).Set(shares)
	token := pool.ShareToken
	op.onRollback(func(ctx context.Context) error {
		return token.Burn(ctx, holder, shares)
	})
	return nil
}

func (op *operation) burn(ctx context.Context, pool *core.Pool, holder string, shares *uint256.Int) error {
	if err := pool.ShareToken.Burn(ctx, holder, shares); err != nil {
		return err
	}

	shares = new(uint256.Int).Set(shares)
	token := pool.ShareToken
	op.onRollback(func(ctx context.Context) error {
		return token.Mint(ctx, holder, shares)
	})
	return nil
}

func (op *operation) transferShares(ctx context.Context, pool *core.Pool, from, to string, shares *uint256.Int) error {
	if err := pool.ShareToken.Transfer(ctx, from, to, shares); err != nil {
		return err
	}

	shares = new(uint256.Int).Set(shares)
	token := pool.ShareToken
	op.onRollback(func(ctx context.Context) error {
		return token.Transfer(ctx, to, from, shares)
	})
	return nil
}

// emit append a transaction to the operation
func (op *operation) emit(action core.ActionType, userID, assetID string, amount *uint256.Int, extra core.TransactionExtraData) *core.Transaction {
	tx := op.newTransaction(action, userID, assetID, amount, extra)
	op.transactions = append(op.transactions, tx)
	return tx
}

func (op *operation) newTransaction(action core.ActionType, userID, assetID string, amount *uint256.Int, extra core.TransactionExtraData) *core.Transaction {
	seq := len(op.transactions) + len(op.rewardEvents)
	tx := &core.Transaction{
		Action:    action,
		TraceID:   foxuuid.Modify(op.traceID, strconv.Itoa(seq)),
		UserID:    userID,
		AssetID:   assetID,
		Amount:    decimal.Zero,
		CreatedAt: op.e.clock(),
	}

	if extra == nil {
		extra = core.NewTransactionExtra()
	}

	if amount != nil {
		tx.Amount = decimal.NewFromBigInt(amount.ToBig(), 0)
	}

	tx.SetExtraData(extra)
	return tx
}

func (op *operation) commit(ctx context.Context) error {
	if op.e.recorder == nil {
		return nil
	}

	cs, err := op.changeset(ctx)
	if err != nil {
		return err
	}

	if err := op.e.recorder.Record(ctx, cs); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("recorder.Record")
		return err
	}

	return nil
}

func (op *operation) changeset(ctx context.Context) (*core.Changeset, error) {
	cs := &core.Changeset{}

	seen := map[string]bool{}
	for _, pool := range op.rewarded {
		seen[pool.AssetID] = true
		cs.Pools = append(cs.Pools, pool.Snapshot())
	}

	for _, assetID := range op.poolOrder {
		if seen[assetID] {
			continue
		}

		if pool, ok := op.e.findPool(assetID); ok {
			cs.Pools = append(cs.Pools, pool.Snapshot())
		}
	}

	for _, key := range op.positionOrder {
		pos := op.e.positions[key]
		pool, ok := op.e.findPool(key.AssetID)
		if pos == nil || !ok {
			continue
		}

		shares, err := pool.ShareToken.BalanceOf(ctx, key.UserID)
		if err != nil {
			return nil, err
		}

		cs.Positions = append(cs.Positions, pos.Snapshot(shares))
	}

	cs.Transactions = append(cs.Transactions, op.rewardEvents...)
	cs.Transactions = append(cs.Transactions, op.transactions...)
	return cs, nil
}

// rollback restore every touched pool and position and reverse collaborator side effects
func (op *operation) rollback(ctx context.Context, cause error) {
	log := logger.FromContext(ctx).WithError(cause)
	log.Debugln("rollback")

	for i := len(op.compensations) - 1; i >= 0; i-- {
		if err := op.compensations[i](ctx); err != nil {
			log.WithField("compensation", i).Errorf("compensate: %v", err)
		}
	}

	for i := len(op.positionOrder) - 1; i >= 0; i-- {
		key := op.positionOrder[i]
		if orig := op.positions[key]; orig == nil {
			delete(op.e.positions, key)
		} else if pos, ok := op.e.positions[key]; ok {
			pos.Restore(orig)
		}
	}

	for i := len(op.poolOrder) - 1; i >= 0; i-- {
		assetID := op.poolOrder[i]
		if op.createdPools[assetID] {
			op.e.removePool(assetID)
			continue
		}

		if pool, ok := op.e.findPool(assetID); ok {
			pool.Restore(op.pools[assetID])
		}
	}

	op.transactions = nil
	op.recordRewards(ctx)
}

// recordRewards persist a distribution that survived a rolled back operation
func (op *operation) recordRewards(ctx context.Context) {
	if op.e.recorder == nil || len(op.rewarded) == 0 {
		return
	}

	cs := &core.Changeset{Transactions: op.rewardEvents}
	for _, pool := range op.rewarded {
		cs.Pools = append(cs.Pools, pool.Snapshot())
	}

	if err := op.e.recorder.Record(ctx, cs); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("recorder.Record rewards")
	}
}
