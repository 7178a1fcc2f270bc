package controllers

import (
	"net/http"

	"github.com/angelmondragon/rfqdesk/api/responses"
	"github.com/angelmondragon/rfqdesk/api/validators"
	"github.com/angelmondragon/rfqdesk/internal/items"
	pkgerrors "github.com/angelmondragon/rfqdesk/pkg/errors"
	"github.com/angelmondragon/rfqdesk/pkg/logger"
)

func Items(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		employeeID := validators.QueryString(r, "employeeId")
		ctx := r.Context()
		if logg != nil && employeeID != "" {
			ctx = logg.WithEmployeeID(ctx, employeeID)
		}

		result, err := svc.ListForEmployee(ctx, employeeID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ItemDetails serves one item with an optional generated image. ai=true also asks
// for an Arabic description.
func ItemDetails(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		req := items.DetailRequest{
			RFQ:             validators.QueryString(r, "rfq"),
			LineItem:        validators.QueryString(r, "lineItem"),
			WithDescription: validators.QueryBool(r, "ai"),
		}

		result, err := svc.Detail(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
