package handler

import (
	"net/http"

	"lendpool/core"
	"lendpool/handler/auth"
	"lendpool/handler/rest"
	"lendpool/service/lending"
	"lendpool/service/oracle"

	"github.com/go-chi/chi"
)

// Server server
type Server struct {
	cfg    *core.Config
	engine *lending.Engine
	stores rest.Stores
	prices *oracle.Static
}

// New new server function, prices is nil unless the static oracle is in use
func New(
	cfg *core.Config,
	engine *lending.Engine,
	stores rest.Stores,
	prices *oracle.Static,
) Server {
	return Server{
		cfg:    cfg,
		engine: engine,
		stores: stores,
		prices: prices,
	}
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(auth.HandleAuthentication())
	r.Mount("/", rest.Handle(s.cfg, s.engine, s.stores, s.prices))
	return r
}
