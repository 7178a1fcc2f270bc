package controllers

import (
	"net/http"

	"github.com/angelmondragon/rfqdesk/api/responses"
	"github.com/angelmondragon/rfqdesk/api/validators"
	"github.com/angelmondragon/rfqdesk/internal/quotes"
	pkgerrors "github.com/angelmondragon/rfqdesk/pkg/errors"
	"github.com/angelmondragon/rfqdesk/pkg/logger"
)

func AddQuote(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}

		var body quotes.SubmitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			if id := body.EmployeeID.String(); id != "" {
				ctx = logg.WithEmployeeID(ctx, id)
			}
		}

		result, err := svc.Submit(ctx, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
