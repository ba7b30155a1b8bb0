package compound

import (
	"context"
	"sync"

	"lendpool/core"
	"lendpool/pkg/compound"
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var (
	// CollateralFactorMax max of collateral factor, [0, 0.9]
	CollateralFactorMax = decimal.NewFromFloat(0.9)
	// LiquidationBonusMax must be no greater than this value
	LiquidationBonusMax = decimal.NewFromFloat(0.9)
)

// JumpRate jump rate interest model, rates are annual
//
//	utilization <= kink: base + utilization * multiplier
//	utilization > kink:  base + kink * multiplier + (utilization - kink) * jump_multiplier
type JumpRate struct {
	mux              sync.RWMutex
	baseRate         *uint256.Int
	multiplier       *uint256.Int
	jumpMultiplier   *uint256.Int
	kink             *uint256.Int
	collateralFactor *uint256.Int
	liquidationBonus *uint256.Int
	option           core.PoolOption
}

// NewJumpRate new jump rate model from decimal options
func NewJumpRate(opt core.PoolOption) (*JumpRate, error) {
	m := &JumpRate{}
	if err := m.Update(opt); err != nil {
		return nil, err
	}

	return m, nil
}

// Update replace the parameters
func (m *JumpRate) Update(opt core.PoolOption) error {
	if opt.CollateralFactor.GreaterThan(CollateralFactorMax) || opt.LiquidationBonus.GreaterThan(LiquidationBonusMax) {
		return core.ErrInvalidArgument
	}

	values := make([]*uint256.Int, 6)
	for i, d := range []decimal.Decimal{
		opt.BaseRate,
		opt.Multiplier,
		opt.JumpMultiplier,
		opt.Kink,
		opt.CollateralFactor,
		opt.LiquidationBonus,
	} {
		v, err := number.WadFromDecimal(d)
		if err != nil {
			return err
		}

		values[i] = v
	}

	m.mux.Lock()
	defer m.mux.Unlock()

	m.baseRate = values[0]
	m.multiplier = values[1]
	m.jumpMultiplier = values[2]
	m.kink = values[3]
	m.collateralFactor = values[4]
	m.liquidationBonus = values[5]
	m.option = opt
	return nil
}

// Option decimal parameters
func (m *JumpRate) Option() core.PoolOption {
	m.mux.RLock()
	defer m.mux.RUnlock()

	return m.option
}

// CurrentRate borrow rate per year
func (m *JumpRate) CurrentRate(_ context.Context, totalBorrows, totalLiquidity *uint256.Int) (*uint256.Int, error) {
	m.mux.RLock()
	defer m.mux.RUnlock()

	utilization, err := compound.UtilizationRate(totalBorrows, totalLiquidity)
	if err != nil {
		return nil, err
	}

	if m.kink.IsZero() || !utilization.Gt(m.kink) {
		return m.linear(utilization)
	}

	normal, err := m.linear(m.kink)
	if err != nil {
		return nil, err
	}

	excess, err := number.MulDown(new(uint256.Int).Sub(utilization, m.kink), m.jumpMultiplier)
	if err != nil {
		return nil, err
	}

	return number.Add(normal, excess)
}

func (m *JumpRate) linear(utilization *uint256.Int) (*uint256.Int, error) {
	rate, err := number.MulDown(utilization, m.multiplier)
	if err != nil {
		return nil, err
	}

	return number.Add(rate, m.baseRate)
}

// CollateralFactor share of the deposit value counted as collateral
func (m *JumpRate) CollateralFactor(_ context.Context) (*uint256.Int, error) {
	m.mux.RLock()
	defer m.mux.RUnlock()

	return new(uint256.Int).Set(m.collateralFactor), nil
}

// LiquidationBonus extra collateral paid to liquidators
func (m *JumpRate) LiquidationBonus(_ context.Context) (*uint256.Int, error) {
	m.mux.RLock()
	defer m.mux.RUnlock()

	return new(uint256.Int).Set(m.liquidationBonus), nil
}
