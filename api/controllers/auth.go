package controllers

import (
	"net/http"

	"github.com/angelmondragon/rfqdesk/api/responses"
	"github.com/angelmondragon/rfqdesk/api/validators"
	"github.com/angelmondragon/rfqdesk/internal/auth"
	pkgerrors "github.com/angelmondragon/rfqdesk/pkg/errors"
	"github.com/angelmondragon/rfqdesk/pkg/logger"
)

// Login wires the login endpoint into the HTTP layer.
func Login(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
