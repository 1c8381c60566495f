package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/shahinarahman616-del/HealthMate/api/responses"
	pkgerrors "github.com/shahinarahman616-del/HealthMate/pkg/errors"
	"github.com/shahinarahman616-del/HealthMate/pkg/logger"
)

const readinessTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every backing dependency answers a ping.
func HealthReady(logg *logger.Logger, deps map[string]pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ping "+name))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

// ReadinessDeps builds the dependency map consumed by HealthReady.
func ReadinessDeps(database, cache pinger) map[string]pinger {
	return map[string]pinger{
		"database": database,
		"redis":    cache,
	}
}
