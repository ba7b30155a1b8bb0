package number

import (
	"testing"

	"lendpool/core"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u(x uint64) *uint256.Int {
	return uint256.NewInt(x)
}

func max256() *uint256.Int {
	return new(uint256.Int).SetAllOne()
}

func TestMulRounding(t *testing.T) {
	half := u(500_000_000_000_000_000)

	down, err := MulDown(u(3), half)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), down.Uint64())

	up, err := MulUp(u(3), half)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), up.Uint64())

	exact, err := MulUp(u(4), half)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), exact.Uint64())
}

func TestDivRounding(t *testing.T) {
	three := NewWad(3)

	down, err := DivDown(u(1), three)
	require.NoError(t, err)
	assert.Equal(t, uint64(333_333_333_333_333_333), down.Uint64())

	up, err := DivUp(u(1), three)
	require.NoError(t, err)
	assert.Equal(t, uint64(333_333_333_333_333_334), up.Uint64())

	_, err = DivDown(u(1), Zero)
	assert.ErrorIs(t, err, core.ErrDivisionByZero)

	_, err = DivUp(u(1), Zero)
	assert.ErrorIs(t, err, core.ErrDivisionByZero)
}

func TestMulDiv(t *testing.T) {
	down, err := MulDivDown(u(10), u(10), u(3))
	require.NoError(t, err)
	assert.Equal(t, uint64(33), down.Uint64())

	up, err := MulDivUp(u(10), u(10), u(3))
	require.NoError(t, err)
	assert.Equal(t, uint64(34), up.Uint64())

	// intermediate product wider than 256 bits
	big := max256()
	same, err := MulDivDown(big, u(7), u(7))
	require.NoError(t, err)
	assert.Equal(t, big, same)

	_, err = MulDivDown(big, u(2), u(1))
	assert.ErrorIs(t, err, core.ErrArithmeticOverflow)

	_, err = MulDivUp(u(1), u(1), Zero)
	assert.ErrorIs(t, err, core.ErrDivisionByZero)
}

func TestOverflow(t *testing.T) {
	_, err := MulDown(max256(), u(2))
	assert.ErrorIs(t, err, core.ErrArithmeticOverflow)

	_, err = MulUp(max256(), u(2))
	assert.ErrorIs(t, err, core.ErrArithmeticOverflow)

	_, err = DivDown(max256(), u(2))
	assert.ErrorIs(t, err, core.ErrArithmeticOverflow)

	_, err = Add(max256(), u(1))
	assert.ErrorIs(t, err, core.ErrArithmeticOverflow)

	_, err = Sub(u(1), u(2))
	assert.ErrorIs(t, err, core.ErrArithmeticOverflow)

	d, err := Sub(u(2), u(1))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), d.Uint64())
}

func TestMin(t *testing.T) {
	a, b := u(1), u(2)
	m := Min(a, b)
	assert.Equal(t, a, m)

	m.SetUint64(5)
	assert.Equal(t, uint64(1), a.Uint64(), "min returns a copy")
}
