package rest

import (
	"errors"
	"net/http"

	"lendpool/core"
	"lendpool/handler/render"
	"lendpool/pkg/number"
	"lendpool/service/lending"
	"lendpool/service/oracle"

	"github.com/go-chi/chi"
	"github.com/holiman/uint256"
)

// Handle handle rest api request, recorded state is served from the given stores
func Handle(
	cfg *core.Config,
	engine *lending.Engine,
	stores Stores,
	prices *oracle.Static,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/pools", poolsHandler(engine))
	router.Get("/pools/{asset}", poolHandler(engine))

	if stores.Pools != nil {
		router.Get("/records/pools", recordedPoolsHandler(stores.Pools))
		router.Get("/records/pools/{asset}", recordedPoolHandler(stores.Pools))
	}

	router.Route("/users/{user}", func(r chi.Router) {
		r.Get("/account", accountHandler(engine))
		r.Get("/pools/{asset}", userPoolHandler(engine))
		if stores.Transactions != nil {
			r.Get("/transactions", transactionsHandler(stores.Transactions))
		}

		if stores.Positions != nil {
			r.Get("/records", recordedPositionsHandler(stores.Positions))
			r.Get("/records/{asset}", recordedPositionHandler(stores.Positions))
		}
	})

	router.Post("/deposit", depositHandler(engine))
	router.Post("/withdraw", withdrawHandler(engine))
	router.Post("/borrow", borrowHandler(engine))
	router.Post("/repay", repayHandler(engine))
	router.Post("/liquidate", liquidateHandler(engine))
	router.Post("/collateral", collateralHandler(engine))
	router.Post("/claim", claimHandler(engine))

	router.Route("/admin", func(r chi.Router) {
		r.Post("/pools", initPoolHandler(engine))
		r.Post("/pools/{asset}/config", poolConfigHandler(engine))
		r.Post("/pools/{asset}/status", poolStatusHandler(engine))
		r.Post("/pools/{asset}/reserves/withdraw", withdrawReserveHandler(engine))
		r.Post("/reserve-percent", reservePercentHandler(engine))
		r.Post("/prices", priceHandler(cfg, prices))
	})

	return router
}

// parseAmount base unit amount, nil when empty
func parseAmount(s string) (*uint256.Int, error) {
	if s == "" {
		return nil, nil
	}

	return number.Parse(s)
}
