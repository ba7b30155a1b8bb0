package lending

import (
	"context"
	"errors"
	"testing"
	"time"

	"lendpool/core"
	"lendpool/pkg/number"
	"lendpool/store/ledger"
	"lendpool/store/sharetoken"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	admin = "admin"
	vault = "vault"
	year  = 365 * 24 * time.Hour
)

func wad(s string) *uint256.Int {
	v, err := number.WadFromDecimal(number.Decimal(s))
	if err != nil {
		panic(err)
	}

	return v
}

func decimalPtr(s string) *decimal.Decimal {
	d := number.Decimal(s)
	return &d
}

func u(x uint64) *uint256.Int {
	return uint256.NewInt(x)
}

type testPoolConfig struct {
	rate             *uint256.Int
	collateralFactor *uint256.Int
	bonus            *uint256.Int
	err              error
}

func (c *testPoolConfig) CurrentRate(_ context.Context, _, _ *uint256.Int) (*uint256.Int, error) {
	return c.rate, c.err
}

func (c *testPoolConfig) CollateralFactor(_ context.Context) (*uint256.Int, error) {
	return c.collateralFactor, c.err
}

func (c *testPoolConfig) LiquidationBonus(_ context.Context) (*uint256.Int, error) {
	return c.bonus, c.err
}

type testOracle struct {
	prices map[string]*uint256.Int
	err    error
}

func (o *testOracle) Price(_ context.Context, assetID string) (*uint256.Int, error) {
	if o.err != nil {
		return nil, o.err
	}

	price, ok := o.prices[assetID]
	if !ok {
		return nil, errors.New("price not found")
	}

	return price, nil
}

type testRecorder struct {
	changesets []*core.Changeset
	err        error
}

func (r *testRecorder) Record(_ context.Context, cs *core.Changeset) error {
	if r.err != nil {
		return r.err
	}

	r.changesets = append(r.changesets, cs)
	return nil
}

func (r *testRecorder) last() *core.Changeset {
	return r.changesets[len(r.changesets)-1]
}

type testEnv struct {
	t        *testing.T
	e        *Engine
	ledger   *ledger.Ledger
	oracle   *testOracle
	recorder *testRecorder
	now      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	env := &testEnv{
		t:        t,
		ledger:   ledger.New(),
		oracle:   &testOracle{prices: map[string]*uint256.Int{}},
		recorder: &testRecorder{},
		now:      time.Unix(1_600_000_000, 0),
	}

	cfg := &core.Config{
		App:    core.App{Vault: vault},
		Admins: []string{admin},
	}

	e, err := New(cfg, env.ledger, sharetoken.NewFactory(), env.oracle,
		WithClock(func() time.Time { return env.now }),
		WithRecorder(env.recorder),
	)
	require.NoError(t, err)
	env.e = e
	return env
}

func (env *testEnv) as(user string) context.Context {
	return core.WithCaller(context.Background(), user)
}

func (env *testEnv) advance(d time.Duration) {
	env.now = env.now.Add(d)
}

// addPool active pool priced at price
func (env *testEnv) addPool(assetID string, price string, cfg *testPoolConfig) *core.Pool {
	ctx := env.as(admin)
	require.NoError(env.t, env.e.InitPool(ctx, assetID, cfg))
	require.NoError(env.t, env.e.SetPoolStatus(ctx, assetID, core.PoolStatusActive))
	env.oracle.prices[assetID] = wad(price)

	pool, ok := env.e.findPool(assetID)
	require.True(env.t, ok)
	return pool
}

func (env *testEnv) fund(assetID, holder string, amount uint64) {
	require.NoError(env.t, env.ledger.Credit(assetID, holder, u(amount)))
}

func (env *testEnv) balance(assetID, holder string) uint64 {
	b, err := env.ledger.BalanceOf(context.Background(), assetID, holder)
	require.NoError(env.t, err)
	return b.Uint64()
}

func (env *testEnv) shares(assetID, holder string) uint64 {
	pool, ok := env.e.findPool(assetID)
	require.True(env.t, ok)
	b, err := pool.ShareToken.BalanceOf(context.Background(), holder)
	require.NoError(env.t, err)
	return b.Uint64()
}

func (env *testEnv) borrowShares(assetID, holder string) uint64 {
	pos, ok := env.e.positions[core.PositionKey{UserID: holder, AssetID: assetID}]
	if !ok {
		return 0
	}

	return pos.BorrowShares.Uint64()
}

func tenPercent() *testPoolConfig {
	return &testPoolConfig{rate: wad("0.1"), collateralFactor: wad("0.8"), bonus: wad("0.1")}
}

func zeroRate() *testPoolConfig {
	return &testPoolConfig{rate: new(uint256.Int), collateralFactor: wad("0.8"), bonus: wad("0.1")}
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(&core.Config{}, ledger.New(), sharetoken.NewFactory(), &testOracle{})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	cfg := &core.Config{App: core.App{Vault: vault, ReservePercent: decimalPtr("1.5")}}
	_, err = New(cfg, ledger.New(), sharetoken.NewFactory(), &testOracle{})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	cfg.App.ReservePercent = decimalPtr("0.2")
	e, err := New(cfg, ledger.New(), sharetoken.NewFactory(), &testOracle{})
	require.NoError(t, err)
	assert.Equal(t, wad("0.2"), e.ReservePercent(context.Background()))

	cfg.App.ReservePercent = decimalPtr("0")
	e, err = New(cfg, ledger.New(), sharetoken.NewFactory(), &testOracle{})
	require.NoError(t, err)
	assert.True(t, e.ReservePercent(context.Background()).IsZero())

	cfg.App.ReservePercent = nil
	e, err = New(cfg, ledger.New(), sharetoken.NewFactory(), &testOracle{})
	require.NoError(t, err)
	assert.Equal(t, DefaultReservePercent, e.ReservePercent(context.Background()))
}

func TestInterestScenario(t *testing.T) {
	env := newTestEnv(t)
	env.addPool("x", "1", tenPercent())
	env.addPool("y", "1", zeroRate())

	env.fund("x", "alice", 1000)
	env.fund("y", "bob", 10_000)

	shares, err := env.e.Deposit(env.as("alice"), "x", u(1000))
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), shares.Uint64(), "bootstrap mints one share per unit")

	_, err = env.e.Deposit(env.as("bob"), "y", u(10_000))
	require.NoError(t, err)

	borrowShares, err := env.e.Borrow(env.as("bob"), "x", u(500))
	require.NoError(t, err)
	assert.Equal(t, uint64(500), borrowShares.Uint64())

	view, err := env.e.GetPool(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, uint64(500), view.TotalBorrows.Uint64())
	assert.Equal(t, uint64(500), view.Available.Uint64())
	assert.Equal(t, uint64(1000), view.TotalLiquidity.Uint64())

	debt, err := env.e.CompoundedBorrowBalance(context.Background(), "bob", "x")
	require.NoError(t, err)
	assert.Equal(t, uint64(500), debt.Uint64(), "borrow then query is exact")

	env.advance(year)

	// queries project interest without mutating the pool
	view, err = env.e.GetPool(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, uint64(550), view.TotalBorrows.Uint64())
	assert.Equal(t, uint64(2), view.PoolReserves.Uint64())
	pool, _ := env.e.findPool("x")
	assert.Equal(t, uint64(500), pool.TotalBorrows.Uint64())

	// any mutating call on the pool accrues
	env.fund("x", "carol", 10)
	_, err = env.e.Deposit(env.as("carol"), "x", u(10))
	require.NoError(t, err)
	assert.Equal(t, uint64(550), pool.TotalBorrows.Uint64())
	assert.Equal(t, uint64(2), pool.PoolReserves.Uint64())
	assert.Equal(t, env.now.Unix(), pool.LastUpdateTimestamp)

	debt, err = env.e.CompoundedBorrowBalance(context.Background(), "bob", "x")
	require.NoError(t, err)
	assert.Equal(t, uint64(550), debt.Uint64())

	// alice earned the interest net of reserves
	balance, err := env.e.CompoundedLiquidityBalance(context.Background(), "alice", "x")
	require.NoError(t, err)
	assert.Equal(t, uint64(1048), balance.Uint64())

	env.fund("x", "bob", 50)
	paid, err := env.e.RepayAll(env.as("bob"), "x")
	require.NoError(t, err)
	assert.Equal(t, uint64(550), paid.Uint64())
	assert.Equal(t, uint64(0), env.borrowShares("x", "bob"))
	assert.True(t, pool.TotalBorrows.IsZero())
	assert.True(t, pool.TotalBorrowShares.IsZero())
}

func TestDepositWithdrawRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.addPool("x", "1", tenPercent())
	env.fund("x", "alice", 1000)

	_, err := env.e.Deposit(env.as("alice"), "x", u(1000))
	require.NoError(t, err)

	out, err := env.e.WithdrawAll(env.as("alice"), "x")
	require.NoError(t, err)
	assert.False(t, out.Gt(u(1000)))
	assert.Equal(t, uint64(1000), env.balance("x", "alice"))
	assert.Equal(t, uint64(0), env.shares("x", "alice"))

	_, err = env.e.WithdrawAll(env.as("alice"), "x")
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestRepeatedSmallDepositsNeverGain(t *testing.T) {
	env := newTestEnv(t)
	env.addPool("x", "1", tenPercent())
	env.addPool("y", "1", zeroRate())

	env.fund("x", "alice", 1_000_000)
	env.fund("y", "bob", 1_000_000)
	_, err := env.e.Deposit(env.as("alice"), "x", u(1_000_000))
	require.NoError(t, err)
	_, err = env.e.Deposit(env.as("bob"), "y", u(1_000_000))
	require.NoError(t, err)
	_, err = env.e.Borrow(env.as("bob"), "x", u(333_333))
	require.NoError(t, err)

	// shares now trade above par
	env.advance(year / 3)

	env.fund("x", "eve", 1000)
	for i := 0; i < 50; i++ {
		before := env.balance("x", "eve")
		amount := uint64(7 + i)
		if before < amount {
			break
		}

		_, err := env.e.Deposit(env.as("eve"), "x", u(amount))
		if errors.Is(err, core.ErrInvalidAmount) {
			continue
		}
		require.NoError(t, err)

		_, err = env.e.WithdrawAll(env.as("eve"), "x")
		if errors.Is(err, core.ErrInvalidAmount) {
			continue
		}
		require.NoError(t, err)
		assert.LessOrEqual(t, env.balance("x", "eve"), before)
	}
	assert.LessOrEqual(t, env.balance("x", "eve"), uint64(1000))
}

func TestWithdrawByAmount(t *testing.T) {
	env := newTestEnv(t)
	env.addPool("x", "1", tenPercent())
	env.fund("x", "alice", 1000)

	_, err := env.e.Deposit(env.as("alice"), "x", u(1000))
	require.NoError(t, err)

	out, err := env.e.Withdraw(env.as("alice"), "x", u(400))
	require.NoError(t, err)
	assert.Equal(t, uint64(400), out.Uint64())
	assert.Equal(t, uint64(600), env.shares("x", "alice"))

	// capped at the balance
	out, err = env.e.Withdraw(env.as("alice"), "x", u(5000))
	require.NoError(t, err)
	assert.Equal(t, uint64(600), out.Uint64())

	_, err = env.e.Withdraw(env.as("alice"), "x", u(0))
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = env.e.WithdrawShares(env.as("alice"), "x", nil)
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestBorrowRequiresLiquidityAndHealth(t *testing.T) {
	env := newTestEnv(t)
	env.addPool("x", "1", tenPercent())
	env.addPool("y", "1", zeroRate())
	env.fund("x", "alice", 1000)
	env.fund("y", "bob", 1000)

	_, err := env.e.Deposit(env.as("alice"), "x", u(1000))
	require.NoError(t, err)
	_, err = env.e.Deposit(env.as("bob"), "y", u(1000))
	require.NoError(t, err)

	_, err = env.e.Borrow(env.as("bob"), "x", u(1001))
	assert.ErrorIs(t, err, core.ErrInsufficientLiquidity)

	env.advance(time.Hour)
	lastUpdate := env.e.pools[0].LastUpdateTimestamp

	// collateral 1000 * 0.8 = 800
	_, err = env.e.Borrow(env.as("bob"), "x", u(801))
	assert.ErrorIs(t, err, core.ErrAccountUnhealthy)

	assert.Equal(t, uint64(0), env.balance("x", "bob"))
	assert.Equal(t, uint64(1000), env.balance("x", vault))
	assert.Equal(t, uint64(0), env.borrowShares("x", "bob"))
	assert.True(t, env.e.pools[0].TotalBorrows.IsZero())
	assert.Equal(t, lastUpdate, env.e.pools[0].LastUpdateTimestamp, "timestamps roll back")

	_, err = env.e.Borrow(env.as("bob"), "x", u(800))
	require.NoError(t, err)

	healthy, err := env.e.IsAccountHealthy(context.Background(), "bob")
	require.NoError(t, err)
	assert.True(t, healthy)

	acc, err := env.e.GetUserAccount(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(800), acc.CollateralValue.Uint64())
	assert.Equal(t, uint64(800), acc.BorrowValue.Uint64())

	// collateral is locked by the debt
	_, err = env.e.Withdraw(env.as("bob"), "y", u(1))
	assert.ErrorIs(t, err, core.ErrAccountUnhealthy)
	assert.Equal(t, uint64(1000), env.shares("y", "bob"))
	assert.Equal(t, uint64(0), env.balance("y", "bob"))
}

func TestWithdrawInsufficientLiquidity(t *testing.T) {
	env := newTestEnv(t)
	env.addPool("x", "1", zeroRate())
	env.addPool("y", "1", zeroRate())
	env.fund("x", "alice", 1000)
	env.fund("y", "bob", 2000)

	_, err := env.e.Deposit(env.as("alice"), "x", u(1000))
	require.NoError(t, err)
	_, err = env.e.Deposit(env.as("bob"), "y", u(2000))
	require.NoError(t, err)
	_, err = env.e.Borrow(env.as("bob"), "x", u(600))
	require.NoError(t, err)

	_, err = env.e.WithdrawAll(env.as("alice"), "x")
	assert.ErrorIs(t, err, core.ErrInsufficientLiquidity)
	assert.Equal(t, uint64(1000), env.shares("x", "alice"))

	out, err := env.e.Withdraw(env.as("alice"), "x", u(400))
	require.NoError(t, err)
	assert.Equal(t, uint64(400), out.Uint64())
}

func TestRepay(t *testing.T) {
	env := newTestEnv(t)
	env.addPool("x", "1", zeroRate())
	env.addPool("y", "1", zeroRate())
	env.fund("x", "alice", 1000)
	env.fund("y", "bob", 2000)

	_, err := env.e.Deposit(env.as("alice"), "x", u(1000))
	require.NoError(t, err)
	_, err = env.e.Deposit(env.as("bob"), "y", u(2000))
	require.NoError(t, err)
	_, err = env.e.Borrow(env.as("bob"), "x", u(600))
	require.NoError(t, err)

	paid, err := env.e.Repay(env.as("bob"), "x", u(100))
	require.NoError(t, err)
	assert.Equal(t, uint64(100), paid.Uint64())
	assert.Equal(t, uint64(500), env.borrowShares("x", "bob"))

	paid, err = env.e.RepayShares(env.as("bob"), "x", u(200))
	require.NoError(t, err)
	assert.Equal(t, uint64(200), paid.Uint64())

	// capped at the debt
	paid, err = env.e.Repay(env.as("bob"), "x", u(10_000))
	require.NoError(t, err)
	assert.Equal(t, uint64(300), paid.Uint64())
	assert.Equal(t, uint64(0), env.borrowShares("x", "bob"))
	assert.Equal(t, uint64(0), env.balance("x", "bob"))

	_, err = env.e.RepayAll(env.as("bob"), "x")
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	// repaying more than the wallet holds fails and leaves the debt
	_, err = env.e.Borrow(env.as("bob"), "x", u(500))
	require.NoError(t, err)
	require.NoError(t, env.ledger.Transfer(context.Background(), "x", "bob", "alice", u(400)))
	_, err = env.e.RepayAll(env.as("bob"), "x")
	assert.ErrorIs(t, err, core.ErrInsufficientBalance)
	assert.Equal(t, uint64(500), env.borrowShares("x", "bob"))
}

func TestSetUserUseAsCollateral(t *testing.T) {
	env := newTestEnv(t)
	env.addPool("x", "1", zeroRate())
	env.addPool("y", "1", zeroRate())
	env.fund("x", "alice", 1000)
	env.fund("y", "bob", 1000)

	_, err := env.e.Deposit(env.as("alice"), "x", u(1000))
	require.NoError(t, err)
	_, err = env.e.Deposit(env.as("bob"), "y", u(1000))
	require.NoError(t, err)

	require.NoError(t, env.e.SetUserUseAsCollateral(env.as("bob"), "y", false))
	_, err = env.e.Borrow(env.as("bob"), "x", u(1))
	assert.ErrorIs(t, err, core.ErrAccountUnhealthy)

	require.NoError(t, env.e.SetUserUseAsCollateral(env.as("bob"), "y", true))
	_, err = env.e.Borrow(env.as("bob"), "x", u(100))
	require.NoError(t, err)

	err = env.e.SetUserUseAsCollateral(env.as("bob"), "y", false)
	assert.ErrorIs(t, err, core.ErrAccountUnhealthy)

	data, err := env.e.GetUserPoolData(context.Background(), "bob", "y")
	require.NoError(t, err)
	assert.True(t, data.UseAsCollateral)

	err = env.e.SetUserUseAsCollateral(env.as("bob"), "z", false)
	assert.ErrorIs(t, err, core.ErrPoolNotInitialized)
}

func TestPoolStatusRules(t *testing.T) {
	env := newTestEnv(t)
	env.addPool("x", "1", zeroRate())
	env.fund("x", "alice", 1000)

	_, err := env.e.Deposit(env.as("alice"), "missing", u(1))
	assert.ErrorIs(t, err, core.ErrPoolNotInitialized)

	_, err = env.e.Deposit(env.as("alice"), "x", u(500))
	require.NoError(t, err)

	require.NoError(t, env.e.SetPoolStatus(env.as(admin), "x", core.PoolStatusClosed))
	_, err = env.e.Deposit(env.as("alice"), "x", u(1))
	assert.ErrorIs(t, err, core.ErrPoolNotActive)
	_, err = env.e.Borrow(env.as("alice"), "x", u(1))
	assert.ErrorIs(t, err, core.ErrPoolNotActive)

	_, err = env.e.Withdraw(env.as("alice"), "x", u(100))
	require.NoError(t, err)

	require.NoError(t, env.e.SetPoolStatus(env.as(admin), "x", core.PoolStatusInactive))
	_, err = env.e.Withdraw(env.as("alice"), "x", u(100))
	assert.ErrorIs(t, err, core.ErrPoolNotActive)

	_, err = env.e.Deposit(context.Background(), "x", u(1))
	assert.ErrorIs(t, err, core.ErrUnauthorized, "caller required")
}

func TestClockGoingBackwardsIsRejected(t *testing.T) {
	env := newTestEnv(t)
	env.addPool("x", "1", zeroRate())
	env.fund("x", "alice", 1000)

	env.advance(-time.Minute)
	_, err := env.e.Deposit(env.as("alice"), "x", u(1000))
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	assert.Equal(t, uint64(1000), env.balance("x", "alice"))

	// queries still work
	_, err = env.e.GetPool(context.Background(), "x")
	assert.NoError(t, err)
}

func TestOracleFailurePropagates(t *testing.T) {
	env := newTestEnv(t)
	env.addPool("x", "1", zeroRate())
	env.addPool("y", "1", zeroRate())
	env.fund("x", "alice", 1000)
	env.fund("y", "bob", 1000)

	_, err := env.e.Deposit(env.as("alice"), "x", u(1000))
	require.NoError(t, err)
	_, err = env.e.Deposit(env.as("bob"), "y", u(1000))
	require.NoError(t, err)

	boom := errors.New("oracle down")
	env.oracle.err = boom
	_, err = env.e.Borrow(env.as("bob"), "x", u(10))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, uint64(0), env.borrowShares("x", "bob"))
	assert.Equal(t, uint64(0), env.balance("x", "bob"))
}

func TestRecorder(t *testing.T) {
	env := newTestEnv(t)
	env.addPool("x", "1", zeroRate())
	env.fund("x", "alice", 1000)

	_, err := env.e.Deposit(env.as("alice"), "x", u(1000))
	require.NoError(t, err)

	cs := env.recorder.last()
	require.Len(t, cs.Pools, 1)
	require.Len(t, cs.Positions, 1)
	assert.Equal(t, "1000", cs.Positions[0].LiquidityShares.String())
	require.Len(t, cs.Transactions, 1)
	assert.Equal(t, core.ActionTypeDeposit, cs.Transactions[0].Action)
	assert.Equal(t, "alice", cs.Transactions[0].UserID)
	assert.Equal(t, "1000", cs.Transactions[0].Amount.String())
	assert.JSONEq(t, `{"shares":"1000","liquidity_shares_before":"0","liquidity_shares_after":"1000"}`, cs.Transactions[0].Data.String())

	// a failing recorder rolls the operation back
	env.recorder.err = errors.New("db down")
	_, err = env.e.WithdrawAll(env.as("alice"), "x")
	assert.Error(t, err)
	assert.Equal(t, uint64(1000), env.shares("x", "alice"))
	assert.Equal(t, uint64(0), env.balance("x", "alice"))
	assert.Equal(t, uint64(1000), env.balance("x", vault))
}

func TestSetUserUseAsCollateralAccrues(t *testing.T) {
	for _, use := range []bool{true, false} {
		env := newTestEnv(t)
		env.addPool("x", "1", tenPercent())
		env.addPool("y", "1", zeroRate())
		env.fund("x", "alice", 1000)
		env.fund("y", "bob", 1000)

		_, err := env.e.Deposit(env.as("alice"), "x", u(1000))
		require.NoError(t, err)
		_, err = env.e.Deposit(env.as("bob"), "y", u(1000))
		require.NoError(t, err)
		_, err = env.e.Borrow(env.as("bob"), "x", u(500))
		require.NoError(t, err)

		env.advance(year)
		require.NoError(t, env.e.SetUserUseAsCollateral(env.as("alice"), "x", use))

		pool, _ := env.e.findPool("x")
		assert.Equal(t, env.now.Unix(), pool.LastUpdateTimestamp)
		assert.Equal(t, uint64(550), pool.TotalBorrows.Uint64())
	}
}
