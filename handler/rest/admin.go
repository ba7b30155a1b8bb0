package rest

import (
	"net/http"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
	"lendpool/internal/compound"
	"lendpool/pkg/number"
	"lendpool/service/lending"
	"lendpool/service/oracle"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

type poolConfigParams struct {
	BaseRate         decimal.Decimal `json:"base_rate"`
	Multiplier       decimal.Decimal `json:"multiplier"`
	JumpMultiplier   decimal.Decimal `json:"jump_multiplier"`
	Kink             decimal.Decimal `json:"kink"`
	CollateralFactor decimal.Decimal `json:"collateral_factor"`
	LiquidationBonus decimal.Decimal `json:"liquidation_bonus"`
}

func (p poolConfigParams) model(assetID string) (*compound.JumpRate, error) {
	return compound.NewJumpRate(core.PoolOption{
		AssetID:          assetID,
		BaseRate:         p.BaseRate,
		Multiplier:       p.Multiplier,
		JumpMultiplier:   p.JumpMultiplier,
		Kink:             p.Kink,
		CollateralFactor: p.CollateralFactor,
		LiquidationBonus: p.LiquidationBonus,
	})
}

func initPoolHandler(engine *lending.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			AssetID string `json:"asset_id" valid:"required"`
			poolConfigParams
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		model, err := params.model(params.AssetID)
		if err != nil {
			render.Error(w, err)
			return
		}

		if err := engine.InitPool(r.Context(), params.AssetID, model); err != nil {
			render.Error(w, err)
			return
		}

		pool, err := engine.GetPool(r.Context(), params.AssetID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, pool.ShareTokenID)
	}
}

func poolConfigHandler(engine *lending.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assetID := chi.URLParam(r, "asset")

		var params poolConfigParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		model, err := params.model(assetID)
		if err != nil {
			render.Error(w, err)
			return
		}

		if err := engine.SetPoolConfig(r.Context(), assetID, model); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, model.Option())
	}
}

func poolStatusHandler(engine *lending.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Status string `json:"status" valid:"in(inactive|active|closed),required"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		status, err := core.ParsePoolStatus(params.Status)
		if err != nil {
			render.Error(w, err)
			return
		}

		if err := engine.SetPoolStatus(r.Context(), chi.URLParam(r, "asset"), status); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"status": status.String()})
	}
}

func withdrawReserveHandler(engine *lending.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Amount string `json:"amount" valid:"int,required"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		amount, err := parseAmount(params.Amount)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := engine.WithdrawReserve(r.Context(), chi.URLParam(r, "asset"), amount); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"amount": amount.Dec()})
	}
}

func reservePercentHandler(engine *lending.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Percent decimal.Decimal `json:"percent"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		percent, err := number.WadFromDecimal(params.Percent)
		if err != nil {
			render.Error(w, err)
			return
		}

		if err := engine.SetReservePercent(r.Context(), percent); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"percent": params.Percent})
	}
}

// priceHandler set a price of the static oracle
func priceHandler(cfg *core.Config, prices *oracle.Static) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if caller, ok := core.CallerFrom(r.Context()); !ok || !cfg.IsAdmin(caller) {
			render.Error(w, core.ErrUnauthorized)
			return
		}

		if prices == nil {
			render.NotFoundRequest(w, core.ErrPriceUnavailable)
			return
		}

		var params struct {
			AssetID string          `json:"asset_id" valid:"required"`
			Price   decimal.Decimal `json:"price"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := prices.Set(params.AssetID, params.Price); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"asset_id": params.AssetID, "price": params.Price})
	}
}
