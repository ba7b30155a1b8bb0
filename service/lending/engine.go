package lending

import (
	"context"
	"sync"
	"time"

	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
)

// DefaultReservePercent 0.05
var DefaultReservePercent = uint256.NewInt(50_000_000_000_000_000)

// Option engine option
type Option func(e *Engine)

// WithClock override time.Now
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithRecorder persist committed operations
func WithRecorder(recorder core.Recorder) Option {
	return func(e *Engine) {
		e.recorder = recorder
	}
}

// WithDistributor reward distributor poked by every mutating call
func WithDistributor(distributor core.Distributor) Option {
	return func(e *Engine) {
		e.distributor = distributor
	}
}

// Engine lending pool accounting engine
//
// Every public method acquires the engine guard. Mutating methods run inside an
// operation journal and either commit all of their changes or none.
type Engine struct {
	mux sync.RWMutex

	cfg            *core.Config
	vault          string
	ledger         core.AssetLedger
	factory        core.ShareTokenFactory
	oracle         core.PriceOracle
	distributor    core.Distributor
	recorder       core.Recorder
	clock          func() time.Time
	reservePercent *uint256.Int

	pools     []*core.Pool
	poolIndex map[string]int
	positions map[core.PositionKey]*core.Position
}

// New new engine holding pooled assets in cfg.App.Vault
func New(
	cfg *core.Config,
	ledger core.AssetLedger,
	factory core.ShareTokenFactory,
	oracle core.PriceOracle,
	opts ...Option,
) (*Engine, error) {
	if cfg.App.Vault == "" {
		return nil, core.ErrInvalidArgument
	}

	reservePercent := new(uint256.Int).Set(DefaultReservePercent)
	if cfg.App.ReservePercent != nil {
		v, err := number.WadFromDecimal(*cfg.App.ReservePercent)
		if err != nil {
			return nil, err
		}

		if v.Gt(number.WAD) {
			return nil, core.ErrInvalidArgument
		}

		reservePercent = v
	}

	e := &Engine{
		cfg:            cfg,
		vault:          cfg.App.Vault,
		ledger:         ledger,
		factory:        factory,
		oracle:         oracle,
		clock:          time.Now,
		reservePercent: reservePercent,
		poolIndex:      map[string]int{},
		positions:      map[core.PositionKey]*core.Position{},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Vault holder of the pooled assets
func (e *Engine) Vault() string {
	return e.vault
}

func (e *Engine) findPool(assetID string) (*core.Pool, bool) {
	idx, ok := e.poolIndex[assetID]
	if !ok {
		return nil, false
	}

	return e.pools[idx], true
}

func (e *Engine) addPool(pool *core.Pool) {
	e.poolIndex[pool.AssetID] = len(e.pools)
	e.pools = append(e.pools, pool)
}

func (e *Engine) removePool(assetID string) {
	idx, ok := e.poolIndex[assetID]
	if !ok {
		return
	}

	e.pools = append(e.pools[:idx], e.pools[idx+1:]...)
	delete(e.poolIndex, assetID)
	for i := idx; i < len(e.pools); i++ {
		e.poolIndex[e.pools[i].AssetID] = i
	}
}

func (e *Engine) available(ctx context.Context, assetID string) (*uint256.Int, error) {
	return e.ledger.BalanceOf(ctx, assetID, e.vault)
}

// liquidityTotals total liquidity and liquidity share supply of the pool
func (e *Engine) liquidityTotals(ctx context.Context, pool *core.Pool) (totalLiquidity, totalShares *uint256.Int, err error) {
	available, err := e.available(ctx, pool.AssetID)
	if err != nil {
		return nil, nil, err
	}

	totalLiquidity, err = number.Add(pool.TotalBorrows, available)
	if err != nil {
		return nil, nil, err
	}

	if totalLiquidity, err = number.Sub(totalLiquidity, pool.PoolReserves); err != nil {
		return nil, nil, err
	}

	totalShares, err = pool.ShareToken.TotalSupply(ctx)
	if err != nil {
		return nil, nil, err
	}

	return totalLiquidity, totalShares, nil
}

func (e *Engine) isAdmin(ctx context.Context) (string, bool) {
	caller, ok := core.CallerFrom(ctx)
	if !ok {
		return "", false
	}

	return caller, e.cfg.IsAdmin(caller)
}
