package rest

import (
	"errors"
	"net/http"

	"lendpool/core"
	"lendpool/handler/render"
	"lendpool/handler/views"

	"github.com/go-chi/chi"
)

var errNotRecorded = errors.New("not recorded")

// Stores persisted read models, routes of a nil store are not registered
type Stores struct {
	Transactions core.TransactionStore
	Pools        core.PoolStore
	Positions    core.PositionStore
}

func recordedPoolsHandler(pools core.PoolStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := pools.All(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		resp := make([]views.RecordedPool, 0, len(items))
		for _, p := range items {
			resp = append(resp, views.RecordedPoolView(p))
		}

		render.JSON(w, resp)
	}
}

func recordedPoolHandler(pools core.PoolStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pool, err := pools.Find(r.Context(), chi.URLParam(r, "asset"))
		if err != nil {
			render.Error(w, err)
			return
		}

		if pool.ID == 0 {
			render.NotFoundRequest(w, errNotRecorded)
			return
		}

		render.JSON(w, views.RecordedPoolView(pool))
	}
}

func recordedPositionsHandler(positions core.PositionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := positions.FindByUser(r.Context(), chi.URLParam(r, "user"))
		if err != nil {
			render.Error(w, err)
			return
		}

		resp := make([]views.RecordedPosition, 0, len(items))
		for _, p := range items {
			resp = append(resp, views.RecordedPositionView(p))
		}

		render.JSON(w, resp)
	}
}

func recordedPositionHandler(positions core.PositionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		position, err := positions.Find(r.Context(), chi.URLParam(r, "user"), chi.URLParam(r, "asset"))
		if err != nil {
			render.Error(w, err)
			return
		}

		if position.ID == 0 {
			render.NotFoundRequest(w, errNotRecorded)
			return
		}

		render.JSON(w, views.RecordedPositionView(position))
	}
}
