package number

import (
	"testing"

	"github.com/bmizerany/assert"
	"github.com/holiman/uint256"
)

func TestCeil(t *testing.T) {
	data := map[string]string{
		"0.10304":     "0.11",
		"0.100000001": "0.11",
		"0.108":       "0.11",
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			c := Ceil(Decimal(k), 2)
			assert.Equal(t, v, c.String(), "should be ceil")
		})
	}
}

func TestWadFromDecimal(t *testing.T) {
	data := map[string]uint64{
		"0.05":                 50_000_000_000_000_000,
		"1":                    1_000_000_000_000_000_000,
		"0.1":                  100_000_000_000_000_000,
		"0.0000000000000000019": 1,
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			w, err := WadFromDecimal(Decimal(k))
			assert.Equal(t, nil, err)
			assert.Equal(t, v, w.Uint64())
			assert.Equal(t, Decimal(k).Truncate(WadDecimals).String(), WadToDecimal(w).String())
		})
	}

	_, err := WadFromDecimal(Decimal("-1"))
	assert.NotEqual(t, nil, err)
}

func TestParse(t *testing.T) {
	v, err := Parse("1000")
	assert.Equal(t, nil, err)
	assert.Equal(t, uint256.NewInt(1000), v)

	_, err = Parse("10.5")
	assert.NotEqual(t, nil, err)

	_, err = Parse("abc")
	assert.NotEqual(t, nil, err)
}
