package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/sessionstack/pkg/logger"
)

// Check is a named dependency probe such as a store ping.
type Check struct {
	Name  string
	Probe func(context.Context) error
}

// LivenessHandler always answers 200 OK with body "ALIVE".
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ALIVE"))
	}
}

// ReadinessHandler runs every check with the request context. It answers
// 200 "READY" when all pass and 503 "NOT_READY" on the first failure.
func ReadinessHandler(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		for _, c := range checks {
			if c.Probe == nil {
				continue
			}
			if err := c.Probe(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed",
					logger.Component(c.Name),
					logger.Error(err),
				)
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
