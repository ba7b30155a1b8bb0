package rest

import (
	"net/http"

	"lendpool/handler/param"
	"lendpool/handler/render"
	"lendpool/handler/views"
	"lendpool/service/lending"

	"github.com/holiman/uint256"
)

type amountParams struct {
	AssetID string `json:"asset_id" valid:"required"`
	Amount  string `json:"amount" valid:"int"`
	Shares  string `json:"shares" valid:"int"`
}

func bindAmount(r *http.Request) (assetID string, amount, shares *uint256.Int, err error) {
	var params amountParams
	if err = param.Binding(r, &params); err != nil {
		return
	}

	if amount, err = parseAmount(params.Amount); err != nil {
		return
	}

	shares, err = parseAmount(params.Shares)
	return params.AssetID, amount, shares, err
}

func depositHandler(engine *lending.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assetID, amount, _, err := bindAmount(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		shares, err := engine.Deposit(r.Context(), assetID, amount)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"shares": shares.Dec()})
	}
}

func withdrawHandler(engine *lending.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		assetID, amount, shares, err := bindAmount(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		var out *uint256.Int
		switch {
		case amount != nil:
			out, err = engine.Withdraw(ctx, assetID, amount)
		case shares != nil:
			out, err = engine.WithdrawShares(ctx, assetID, shares)
		default:
			out, err = engine.WithdrawAll(ctx, assetID)
		}

		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"amount": out.Dec()})
	}
}

func borrowHandler(engine *lending.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assetID, amount, _, err := bindAmount(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		shares, err := engine.Borrow(r.Context(), assetID, amount)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"shares": shares.Dec()})
	}
}

func repayHandler(engine *lending.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		assetID, amount, shares, err := bindAmount(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		var paid *uint256.Int
		switch {
		case amount != nil:
			paid, err = engine.Repay(ctx, assetID, amount)
		case shares != nil:
			paid, err = engine.RepayShares(ctx, assetID, shares)
		default:
			paid, err = engine.RepayAll(ctx, assetID)
		}

		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"amount": paid.Dec()})
	}
}

func liquidateHandler(engine *lending.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			UserID            string `json:"user_id" valid:"required"`
			DebtAssetID       string `json:"debt_asset_id" valid:"required"`
			CollateralAssetID string `json:"collateral_asset_id" valid:"required"`
			Amount            string `json:"amount" valid:"int,required"`
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

		result, err := engine.Liquidate(r.Context(), params.UserID, params.DebtAssetID, params.CollateralAssetID, amount)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.LiquidationView(result))
	}
}

func collateralHandler(engine *lending.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			AssetID string `json:"asset_id" valid:"required"`
			Use     bool   `json:"use"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := engine.SetUserUseAsCollateral(r.Context(), params.AssetID, params.Use); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"use_as_collateral": params.Use})
	}
}

func claimHandler(engine *lending.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			AssetID string `json:"asset_id" valid:"required"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		units, err := engine.ClaimReward(r.Context(), params.AssetID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"reward_units": units.Dec()})
	}
}
