package hc

import (
	"context"
	"net/http"
	"time"

	"lendpool/handler/render"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// Checker reports whether a dependency is usable
type Checker func(ctx context.Context) error

// Handle handle hc request
func Handle(ver string, checkers map[string]Checker) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", handle(ver, checkers))
	return r
}

func handle(version string, checkers map[string]Checker) http.HandlerFunc {
	b := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		checks := render.H{}
		for name, check := range checkers {
			if err := check(r.Context()); err != nil {
				checks[name] = err.Error()
				continue
			}

			checks[name] = "ok"
		}

		uptime := time.Since(b).Truncate(time.Millisecond)
		render.JSON(w, render.H{
			"uptime":  uptime.String(),
			"version": version,
			"checks":  checks,
		})
	}
}
