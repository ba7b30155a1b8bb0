package oracle

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	ctx := context.Background()
	s, err := NewStatic(map[string]decimal.Decimal{"btc": decimal.NewFromInt(20000)})
	require.NoError(t, err)

	price, err := s.Price(ctx, "btc")
	require.NoError(t, err)
	assert.Equal(t, "20000", number.WadToDecimal(price).String())

	_, err = s.Price(ctx, "eth")
	assert.ErrorIs(t, err, core.ErrPriceUnavailable)

	assert.ErrorIs(t, s.Set("eth", decimal.Zero), core.ErrInvalidArgument)
	require.NoError(t, s.Set("eth", decimal.RequireFromString("1500.5")))
	price, err = s.Price(ctx, "eth")
	require.NoError(t, err)
	assert.Equal(t, "1500.5", number.WadToDecimal(price).String())

	_, err = NewStatic(map[string]decimal.Decimal{"doge": decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestRemote(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		switch r.URL.Path {
		case "/api/v2/tickers/btc":
			fmt.Fprint(w, `{"asset_id":"btc","price":"20000.25","timestamp":1600000000}`)
		case "/api/v2/tickers/zero":
			fmt.Fprint(w, `{"asset_id":"zero","price":"0"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"not found"}`)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	o, err := New(core.Oracle{EndPoint: srv.URL, CacheTTL: 600})
	require.NoError(t, err)

	price, err := o.Price(ctx, "btc")
	require.NoError(t, err)
	assert.Equal(t, "20000.25", number.WadToDecimal(price).String())

	// served from cache
	_, err = o.Price(ctx, "btc")
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))

	_, err = o.Price(ctx, "zero")
	assert.ErrorIs(t, err, core.ErrPriceUnavailable)

	_, err = o.Price(ctx, "eth")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
