package ledger

import (
	"context"
	"testing"

	"lendpool/core"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerTransfer(t *testing.T) {
	ctx := context.Background()
	l := New()
	require.NoError(t, l.Credit("btc", "alice", uint256.NewInt(100)))

	require.NoError(t, l.Transfer(ctx, "btc", "alice", "bob", uint256.NewInt(40)))

	alice, _ := l.BalanceOf(ctx, "btc", "alice")
	bob, _ := l.BalanceOf(ctx, "btc", "bob")
	assert.Equal(t, uint64(60), alice.Uint64())
	assert.Equal(t, uint64(40), bob.Uint64())

	err := l.Transfer(ctx, "btc", "bob", "alice", uint256.NewInt(41))
	assert.ErrorIs(t, err, core.ErrInsufficientBalance)

	bob, _ = l.BalanceOf(ctx, "btc", "bob")
	assert.Equal(t, uint64(40), bob.Uint64())

	other, _ := l.BalanceOf(ctx, "eth", "alice")
	assert.True(t, other.IsZero())
}

func TestLedgerBalanceIsCopy(t *testing.T) {
	ctx := context.Background()
	l := New()
	require.NoError(t, l.Credit("btc", "alice", uint256.NewInt(100)))

	b, _ := l.BalanceOf(ctx, "btc", "alice")
	b.SetUint64(1)

	b, _ = l.BalanceOf(ctx, "btc", "alice")
	assert.Equal(t, uint64(100), b.Uint64())
}
