package controllers

import (
	"net/http"

	"github.com/julienmercier/catalogpulse-backend/api/responses"
	"github.com/julienmercier/catalogpulse-backend/api/validators"
	"github.com/julienmercier/catalogpulse-backend/internal/affinity"
	pkgerrors "github.com/julienmercier/catalogpulse-backend/pkg/errors"
	"github.com/julienmercier/catalogpulse-backend/pkg/logger"
)

type recomputeAffinitiesRequest struct {
	TopN int `json:"top_n" validate:"omitempty,min=1,max=100"`
}

// RecomputeAffinities rebuilds the cross-sell pair ranking from order
// history. The body is optional; it may override how many pairs are
// kept.
func RecomputeAffinities(svc affinity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "affinity service unavailable"))
			return
		}

		var payload recomputeAffinitiesRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		pairs, err := svc.Recompute(r.Context(), payload.TopN)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pairs)
	}
}

// ListAffinities returns the persisted pair ranking.
func ListAffinities(svc affinity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "affinity service unavailable"))
			return
		}

		pairs, err := svc.TopPairs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pairs)
	}
}
