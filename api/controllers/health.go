package controllers

import (
	"net/http"

	"go.uber.org/multierr"

	"github.com/merybery/merybery-backend/api/responses"
	"github.com/merybery/merybery-backend/pkg/config"
	"github.com/merybery/merybery-backend/pkg/db"
	pkgerrors "github.com/merybery/merybery-backend/pkg/errors"
	"github.com/merybery/merybery-backend/pkg/logger"
	"github.com/merybery/merybery-backend/pkg/redis"
)

const envHeader = "X-MeryBery-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every wired dependency and reports 503 when any of them
// is unreachable. A nil pinger means the dependency is not configured and is
// skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		var err error
		checks := map[string]string{}

		if dbP != nil {
			if pingErr := dbP.Ping(r.Context()); pingErr != nil {
				err = multierr.Append(err, pingErr)
				checks["db"] = "unreachable"
			} else {
				checks["db"] = "ok"
			}
		}
		if redisP != nil {
			if pingErr := redisP.Ping(r.Context()); pingErr != nil {
				err = multierr.Append(err, pingErr)
				checks["redis"] = "unreachable"
			} else {
				checks["redis"] = "ok"
			}
		}

		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dependencies not ready").WithDetails(checks))
			return
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
