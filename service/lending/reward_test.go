package lending

import (
	"context"
	"errors"
	"testing"

	"lendpool/core"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDistributor releases the queued units one poke at a time
type testDistributor struct {
	queue []*uint256.Int
	err   error
}

func (d *testDistributor) Poke(_ context.Context) (*uint256.Int, error) {
	if d.err != nil {
		return nil, d.err
	}

	if len(d.queue) == 0 {
		return new(uint256.Int), nil
	}

	units := d.queue[0]
	d.queue = d.queue[1:]
	return units, nil
}

// setupRewards bob and carol borrow 500 x each
func setupRewards(t *testing.T) *testEnv {
	env := newTestEnv(t)
	env.addPool("x", "1", zeroRate())
	env.addPool("y", "1", zeroRate())

	env.fund("x", "alice", 2000)
	env.fund("y", "bob", 1000)
	env.fund("y", "carol", 1000)

	_, err := env.e.Deposit(env.as("alice"), "x", u(2000))
	require.NoError(t, err)
	for _, user := range []string{"bob", "carol"} {
		_, err = env.e.Deposit(env.as(user), "y", u(1000))
		require.NoError(t, err)
		_, err = env.e.Borrow(env.as(user), "x", u(500))
		require.NoError(t, err)
	}

	return env
}

func TestRewardDistribution(t *testing.T) {
	env := setupRewards(t)

	distributor := &testDistributor{}
	require.NoError(t, env.e.SetDistributor(env.as(admin), distributor))
	err := env.e.SetDistributor(env.as("bob"), nil)
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	distributor.queue = []*uint256.Int{u(1000)}
	units, err := env.e.ClaimReward(env.as("bob"), "x")
	require.NoError(t, err)
	assert.Equal(t, uint64(500), units.Uint64())

	pool, _ := env.e.findPool("x")
	assert.Equal(t, uint64(1000), pool.TotalRewardUnits.Uint64())

	data, err := env.e.GetUserPoolData(context.Background(), "carol", "x")
	require.NoError(t, err)
	assert.Equal(t, uint64(500), data.PendingRewardUnits.Uint64())

	// nothing left after a claim
	units, err = env.e.ClaimReward(env.as("bob"), "x")
	require.NoError(t, err)
	assert.True(t, units.IsZero())

	// repaying settles earned units before the shares change
	distributor.queue = []*uint256.Int{u(1000)}
	_, err = env.e.RepayAll(env.as("carol"), "x")
	require.NoError(t, err)

	units, err = env.e.ClaimReward(env.as("carol"), "x")
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), units.Uint64())

	// carol no longer borrows, bob takes the whole release
	distributor.queue = []*uint256.Int{u(300)}
	units, err = env.e.ClaimReward(env.as("bob"), "x")
	require.NoError(t, err)
	assert.Equal(t, uint64(800), units.Uint64())

	// pools without borrows receive nothing
	ypool, _ := env.e.findPool("y")
	assert.True(t, ypool.TotalRewardUnits.IsZero())
}

func TestRewardDistributionSurvivesRollback(t *testing.T) {
	env := setupRewards(t)

	distributor := &testDistributor{}
	require.NoError(t, env.e.SetDistributor(env.as(admin), distributor))

	distributor.queue = []*uint256.Int{u(1000)}
	_, err := env.e.Borrow(env.as("bob"), "x", u(1000))
	assert.ErrorIs(t, err, core.ErrAccountUnhealthy)

	pool, _ := env.e.findPool("x")
	assert.Equal(t, uint64(1000), pool.TotalRewardUnits.Uint64())
	assert.Equal(t, uint64(500), env.borrowShares("x", "bob"))

	cs := env.recorder.last()
	require.Len(t, cs.Transactions, 1)
	assert.Equal(t, core.ActionTypeDistributeReward, cs.Transactions[0].Action)
	assert.Equal(t, "1000", cs.Transactions[0].Amount.String())

	units, err := env.e.ClaimReward(env.as("bob"), "x")
	require.NoError(t, err)
	assert.Equal(t, uint64(500), units.Uint64())
}

func TestRewardDistributorFailureIsIgnored(t *testing.T) {
	env := setupRewards(t)

	distributor := &testDistributor{err: errors.New("distributor down")}
	require.NoError(t, env.e.SetDistributor(env.as(admin), distributor))

	env.fund("x", "dave", 10)
	_, err := env.e.Deposit(env.as("dave"), "x", u(10))
	require.NoError(t, err)

	pool, _ := env.e.findPool("x")
	assert.True(t, pool.TotalRewardUnits.IsZero())
}
