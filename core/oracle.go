package core

import (
	"context"

	"github.com/holiman/uint256"
)

// PriceOracle prices in a common unit, WAD scaled.
//
// Collaborators of the engine (price oracles, distributors, pool configs) are
// called while the engine is held. A callback into the engine must use the
// context it was handed, or a context derived from it; a call made with an
// unrelated context waits for the engine and deadlocks.
type PriceOracle interface {
	Price(ctx context.Context, assetID string) (*uint256.Int, error)
}

// Distributor reward distributor, called with the engine held like PriceOracle
type Distributor interface {
	// Poke release reward units accumulated since the last poke
	Poke(ctx context.Context) (*uint256.Int, error)
}
