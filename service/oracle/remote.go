package oracle

import (
	"context"
	"fmt"
	"time"

	"lendpool/core"
	"lendpool/pkg/number"
	"lendpool/pkg/resthttp"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const defaultCacheTTL = 60 * time.Second

// Ticker price ticker returned by the price service
type Ticker struct {
	AssetID string          `json:"asset_id"`
	Price   decimal.Decimal `json:"price"`
	// Timestamp unix seconds
	Timestamp int64 `json:"timestamp"`
}

// Remote prices pulled from a ticker service and cached for a short while
type Remote struct {
	endpoint string
	cache    gcache.Cache
	sf       singleflight.Group
}

// NewRemote remote oracle reading {endpoint}/api/v2/tickers/{asset_id}
func NewRemote(cfg core.Oracle) *Remote {
	ttl := defaultCacheTTL
	if cfg.CacheTTL > 0 {
		ttl = time.Duration(cfg.CacheTTL) * time.Second
	}

	return &Remote{
		endpoint: cfg.EndPoint,
		cache:    gcache.New(256).LRU().Expiration(ttl).Build(),
	}
}

// Price WAD scaled price of the asset
func (r *Remote) Price(ctx context.Context, assetID string) (*uint256.Int, error) {
	if v, err := r.cache.Get(assetID); err == nil {
		return new(uint256.Int).Set(v.(*uint256.Int)), nil
	}

	v, err, _ := r.sf.Do(assetID, func() (interface{}, error) {
		ticker, err := r.PullTicker(ctx, assetID)
		if err != nil {
			return nil, err
		}

		if !ticker.Price.IsPositive() {
			return nil, core.ErrPriceUnavailable
		}

		price, err := number.WadFromDecimal(ticker.Price)
		if err != nil {
			return nil, err
		}

		_ = r.cache.Set(assetID, price)
		return price, nil
	})

	if err != nil {
		return nil, err
	}

	return new(uint256.Int).Set(v.(*uint256.Int)), nil
}

// PullTicker pull the latest ticker of the asset
func (r *Remote) PullTicker(ctx context.Context, assetID string) (*Ticker, error) {
	log := logger.FromContext(ctx).WithField("asset", assetID)

	url := fmt.Sprintf("%s/api/v2/tickers/%s", r.endpoint, assetID)
	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		log.WithError(err).Errorln("pull ticker")
		return nil, err
	}

	var ticker Ticker
	if err := resthttp.ParseResponse(resp, &ticker); err != nil {
		log.WithError(err).Errorln("parse ticker")
		return nil, err
	}

	return &ticker, nil
}

// New remote oracle when an endpoint is configured, static otherwise
func New(cfg core.Oracle) (core.PriceOracle, error) {
	if cfg.EndPoint != "" {
		return NewRemote(cfg), nil
	}

	s, err := NewStatic(cfg.Prices)
	if err != nil {
		return nil, err
	}

	return s, nil
}
