package auth

import (
	"net/http"
	"strings"

	"lendpool/core"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/logger"
)

const headerKeyCaller = "X-Caller-Id"

// HandleAuthentication put the caller named by the request into the context.
// Requests without a valid caller continue anonymously and fail on operations that need one.
func HandleAuthentication() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := logger.FromContext(ctx)

			caller := getCaller(r)
			if caller == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !govalidator.IsPrintableASCII(caller) || len(caller) > 64 {
				log.Debugln("invalid caller:", caller)
				next.ServeHTTP(w, r)
				return
			}

			ctx = logger.WithContext(ctx, log.WithField("caller", caller))
			next.ServeHTTP(w, r.WithContext(core.WithCaller(ctx, caller)))
		}

		return http.HandlerFunc(fn)
	}
}

func getCaller(r *http.Request) string {
	if s := r.Header.Get(headerKeyCaller); s != "" {
		return strings.TrimSpace(s)
	}

	s := r.Header.Get("Authorization")
	return strings.TrimSpace(strings.TrimPrefix(s, "Bearer "))
}
