package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/julienmercier/catalogpulse-backend/api/responses"
	"github.com/julienmercier/catalogpulse-backend/internal/channels"
	"github.com/julienmercier/catalogpulse-backend/pkg/enums"
	pkgerrors "github.com/julienmercier/catalogpulse-backend/pkg/errors"
	"github.com/julienmercier/catalogpulse-backend/pkg/logger"
)

// RunChannelDiagnostic validates the whole catalog against one channel's
// rule table and persists a new report snapshot.
func RunChannelDiagnostic(svc channels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "channel service unavailable"))
			return
		}

		channel, err := enums.ParseChannel(strings.TrimSpace(chi.URLParam(r, "channel")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid channel"))
			return
		}

		diag, err := svc.RunDiagnostic(r.Context(), channel)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, diag)
	}
}
