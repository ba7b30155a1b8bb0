package oracle

import (
	"context"
	"sync"

	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Static prices set by config or admin
type Static struct {
	mux    sync.RWMutex
	prices map[string]*uint256.Int
}

// NewStatic static oracle with initial prices
func NewStatic(prices map[string]decimal.Decimal) (*Static, error) {
	s := &Static{prices: map[string]*uint256.Int{}}
	for assetID, price := range prices {
		if err := s.Set(assetID, price); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Set set the price of the asset, must be positive
func (s *Static) Set(assetID string, price decimal.Decimal) error {
	if !price.IsPositive() {
		return core.ErrInvalidArgument
	}

	v, err := number.WadFromDecimal(price)
	if err != nil {
		return err
	}

	s.mux.Lock()
	s.prices[assetID] = v
	s.mux.Unlock()
	return nil
}

// Price WAD scaled price of the asset
func (s *Static) Price(_ context.Context, assetID string) (*uint256.Int, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	price, ok := s.prices[assetID]
	if !ok {
		return nil, core.ErrPriceUnavailable
	}

	return new(uint256.Int).Set(price), nil
}
