package rest

import (
	"net/http"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
	"lendpool/handler/views"
	"lendpool/service/lending"

	"github.com/go-chi/chi"
)

func poolsHandler(engine *lending.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pools, err := engine.Pools(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		items := make([]views.Pool, 0, len(pools))
		for _, p := range pools {
			items = append(items, views.PoolView(p))
		}

		render.JSON(w, items)
	}
}

func poolHandler(engine *lending.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pool, err := engine.GetPool(r.Context(), chi.URLParam(r, "asset"))
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.PoolView(pool))
	}
}

func accountHandler(engine *lending.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, err := engine.GetUserAccount(r.Context(), chi.URLParam(r, "user"))
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.AccountView(acc))
	}
}

func userPoolHandler(engine *lending.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := engine.GetUserPoolData(r.Context(), chi.URLParam(r, "user"), chi.URLParam(r, "asset"))
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.UserPoolView(data))
	}
}

// response user transactions after id `from`
func transactionsHandler(transactions core.TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			From  int64 `json:"from"`
			Limit int   `json:"limit"`
		}

		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		items, e := transactions.ListByUser(ctx, chi.URLParam(r, "user"), params.From, params.Limit)
		if e != nil {
			render.Error(w, e)
			return
		}

		resp := make([]map[string]interface{}, 0, len(items))
		for _, t := range items {
			resp = append(resp, views.TransactionView(t))
		}

		render.JSON(w, resp)
	}
}
