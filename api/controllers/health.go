package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/quickbite-app/quickbite-backend/api/responses"
	"github.com/quickbite-app/quickbite-backend/pkg/config"
	"github.com/quickbite-app/quickbite-backend/pkg/logger"
)

const envHeader = "X-QuickBite-Env"

// Pinger is the health-check surface shared by the backing clients.
type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the document service and Redis with a short deadline and
// reports per-dependency status.
func HealthReady(cfg *config.Config, logg *logger.Logger, docdb, redis Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true

		for name, dep := range map[string]Pinger{"docdb": docdb, "redis": redis} {
			if dep == nil {
				checks[name] = "skipped"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "down"
				ready = false
				if logg != nil {
					lctx := logg.WithFields(ctx, map[string]any{"dependency": name, "error": err.Error()})
					logg.Warn(lctx, "health.dependency_down")
				}
				continue
			}
			checks[name] = "up"
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"checks": checks,
		})
	}
}
