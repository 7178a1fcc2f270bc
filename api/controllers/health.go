package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/rfqdesk/api/responses"
	pkgerrors "github.com/angelmondragon/rfqdesk/pkg/errors"
	"github.com/angelmondragon/rfqdesk/pkg/logger"
)

const readyTimeout = 5 * time.Second

// Pinger is satisfied by the row store and the optional Redis client.
type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(env string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RFQDesk-Env", env)
		responses.WriteSuccess(w, map[string]any{"success": true, "status": "live"})
	}
}

// HealthReady pings every named dependency and reports 500 when one fails.
func HealthReady(env string, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RFQDesk-Env", env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				errCtx := r.Context()
				if logg != nil {
					errCtx = logg.WithField(errCtx, "dependency", name)
				}
				wrapped := pkgerrors.Wrap(pkgerrors.CodeBackendUnavailable, err, name+" not ready")
				responses.WriteError(errCtx, logg, w, wrapped)
				return
			}
		}
		responses.WriteSuccess(w, map[string]any{"success": true, "status": "ready"})
	}
}
