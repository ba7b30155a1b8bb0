package number

import (
	"lendpool/core"

	"github.com/holiman/uint256"
)

// WadDecimals decimals of WAD
const WadDecimals = 18

var (
	// WAD 1e18, never mutate
	WAD = uint256.NewInt(1_000_000_000_000_000_000)
	// Zero never mutate
	Zero = new(uint256.Int)
)

// NewWad x * WAD
func NewWad(x uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(x), WAD)
}

// MulDown a*b/WAD rounded down
func MulDown(a, b *uint256.Int) (*uint256.Int, error) {
	p, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, core.ErrArithmeticOverflow
	}

	return p.Div(p, WAD), nil
}

// MulUp a*b/WAD rounded up
func MulUp(a, b *uint256.Int) (*uint256.Int, error) {
	p, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, core.ErrArithmeticOverflow
	}

	q, r := new(uint256.Int).DivMod(p, WAD, new(uint256.Int))
	if !r.IsZero() {
		q.AddUint64(q, 1)
	}

	return q, nil
}

// DivDown a*WAD/b rounded down
func DivDown(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, core.ErrDivisionByZero
	}

	p, overflow := new(uint256.Int).MulOverflow(a, WAD)
	if overflow {
		return nil, core.ErrArithmeticOverflow
	}

	return p.Div(p, b), nil
}

// DivUp a*WAD/b rounded up
func DivUp(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, core.ErrDivisionByZero
	}

	p, overflow := new(uint256.Int).MulOverflow(a, WAD)
	if overflow {
		return nil, core.ErrArithmeticOverflow
	}

	q, r := new(uint256.Int).DivMod(p, b, new(uint256.Int))
	if !r.IsZero() {
		return Add(q, uint256.NewInt(1))
	}

	return q, nil
}

// MulDivDown a*b/c rounded down, a*b is computed in 512 bits
func MulDivDown(a, b, c *uint256.Int) (*uint256.Int, error) {
	if c.IsZero() {
		return nil, core.ErrDivisionByZero
	}

	q, overflow := new(uint256.Int).MulDivOverflow(a, b, c)
	if overflow {
		return nil, core.ErrArithmeticOverflow
	}

	return q, nil
}

// MulDivUp a*b/c rounded up
func MulDivUp(a, b, c *uint256.Int) (*uint256.Int, error) {
	q, err := MulDivDown(a, b, c)
	if err != nil {
		return nil, err
	}

	if !new(uint256.Int).MulMod(a, b, c).IsZero() {
		return Add(q, uint256.NewInt(1))
	}

	return q, nil
}

// Add a+b
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, core.ErrArithmeticOverflow
	}

	return z, nil
}

// Sub a-b, fails when b > a
func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, core.ErrArithmeticOverflow
	}

	return z, nil
}

// Min copy of the smaller one
func Min(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return new(uint256.Int).Set(a)
	}

	return new(uint256.Int).Set(b)
}
