package controllers

import (
	"net/http"

	"github.com/julienmercier/catalogpulse-backend/api/responses"
	"github.com/julienmercier/catalogpulse-backend/internal/backlog"
	pkgerrors "github.com/julienmercier/catalogpulse-backend/pkg/errors"
	"github.com/julienmercier/catalogpulse-backend/pkg/logger"
)

type backlogResponse struct {
	Items   []backlog.Item  `json:"items"`
	Summary backlog.Summary `json:"summary"`
}

// GetBacklog recomputes the ranked corrective-action backlog.
func GetBacklog(svc backlog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "backlog service unavailable"))
			return
		}

		items, summary, err := svc.BuildBacklog(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, backlogResponse{Items: items, Summary: summary})
	}
}
