package cmd

import (
	"context"
	"fmt"
	"time"

	"lendpool/core"
	"lendpool/handler/rest"
	"lendpool/internal/compound"
	"lendpool/pkg/number"
	"lendpool/service/lending"
	"lendpool/service/oracle"
	"lendpool/service/recorder"
	"lendpool/store/ledger"
	"lendpool/store/pool"
	"lendpool/store/position"
	"lendpool/store/sharetoken"
	"lendpool/store/transaction"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

// ---------------store-----------------------------------------

func providePoolStore(db *db.DB) core.PoolStore {
	return pool.Cache(pool.New(db), time.Minute)
}

func providePositionStore(db *db.DB) core.PositionStore {
	return position.New(db)
}

func provideTransactionStore(db *db.DB) core.TransactionStore {
	return transaction.New(db)
}

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

// provideLedger in-memory ledger seeded with the genesis balances
func provideLedger() (*ledger.Ledger, error) {
	l := ledger.New()
	for _, g := range cfg.App.Genesis {
		amount, err := number.FromDecimal(g.Amount, 0)
		if err != nil {
			return nil, fmt.Errorf("genesis %s/%s: %w", g.AssetID, g.Holder, err)
		}

		if err := l.Credit(g.AssetID, g.Holder, amount); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// ------------------service------------------------------------

func provideOracle() (core.PriceOracle, error) {
	return oracle.New(cfg.Oracle)
}

// provideRecorder recorder writing through the stores served by the api, so the pool cache is invalidated
func provideRecorder(db *db.DB, stores rest.Stores) *recorder.Recorder {
	return recorder.New(
		db,
		providePropertyStore(db),
		stores.Pools,
		stores.Positions,
		stores.Transactions,
	)
}

func provideEngine(ctx context.Context, ledger core.AssetLedger, priceOracle core.PriceOracle, opts ...lending.Option) (*lending.Engine, error) {
	engine, err := lending.New(provideConfig(), ledger, sharetoken.NewFactory(), priceOracle, opts...)
	if err != nil {
		return nil, err
	}

	if err := initPools(ctx, engine); err != nil {
		return nil, err
	}

	return engine, nil
}

// initPools create the configured pools as the first admin
func initPools(ctx context.Context, engine *lending.Engine) error {
	if len(cfg.Pools) == 0 {
		return nil
	}

	if len(cfg.Admins) == 0 {
		return fmt.Errorf("pools configured without admins: %w", core.ErrUnauthorized)
	}

	ctx = core.WithCaller(ctx, cfg.Admins[0])
	for _, opt := range cfg.Pools {
		model, err := compound.NewJumpRate(opt)
		if err != nil {
			return fmt.Errorf("pool %s: %w", opt.AssetID, err)
		}

		if err := engine.InitPool(ctx, opt.AssetID, model); err != nil {
			return fmt.Errorf("init pool %s: %w", opt.AssetID, err)
		}

		if opt.Status == "" {
			continue
		}

		status, err := core.ParsePoolStatus(opt.Status)
		if err != nil {
			return fmt.Errorf("pool %s status %q: %w", opt.AssetID, opt.Status, err)
		}

		if err := engine.SetPoolStatus(ctx, opt.AssetID, status); err != nil {
			return err
		}
	}

	return nil
}
