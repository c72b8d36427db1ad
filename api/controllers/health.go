package controllers

import (
	"context"
	"net/http"

	"go.uber.org/multierr"

	"github.com/wanderplanhq/wanderplan-backend/api/responses"
	"github.com/wanderplanhq/wanderplan-backend/pkg/config"
	pkgerrors "github.com/wanderplanhq/wanderplan-backend/pkg/errors"
	"github.com/wanderplanhq/wanderplan-backend/pkg/logger"
)

const envHeader = "X-Wanderplan-Env"

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness only when every backing dependency answers
// a ping. Failures are aggregated so the log shows every unhealthy dep.
func HealthReady(cfg *config.Config, logg *logger.Logger, db, redis pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		var err error
		if db != nil {
			err = multierr.Append(err, db.Ping(r.Context()))
		}
		if redis != nil {
			err = multierr.Append(err, redis.Ping(r.Context()))
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "readiness check"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
