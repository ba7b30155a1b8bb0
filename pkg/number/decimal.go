package number

import (
	"lendpool/core"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func Ceil(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Ceil().Shift(-precision)
}

// FromDecimal d * 10^decimals truncated, fails on negative or too large values
func FromDecimal(d decimal.Decimal, decimals int32) (*uint256.Int, error) {
	if d.IsNegative() {
		return nil, core.ErrInvalidArgument
	}

	v, overflow := uint256.FromBig(d.Shift(decimals).BigInt())
	if overflow {
		return nil, core.ErrArithmeticOverflow
	}

	return v, nil
}

// WadFromDecimal 0.05 => 5e16
func WadFromDecimal(d decimal.Decimal) (*uint256.Int, error) {
	return FromDecimal(d, WadDecimals)
}

// ToDecimal x / 10^decimals
func ToDecimal(x *uint256.Int, decimals int32) decimal.Decimal {
	if x == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(x.ToBig(), -decimals)
}

// WadToDecimal 5e16 => 0.05
func WadToDecimal(x *uint256.Int) decimal.Decimal {
	return ToDecimal(x, WadDecimals)
}

// Parse base unit integer string
func Parse(s string) (*uint256.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, core.ErrInvalidArgument
	}

	if !d.Equal(d.Truncate(0)) {
		return nil, core.ErrInvalidArgument
	}

	return FromDecimal(d, 0)
}
