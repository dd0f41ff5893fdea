package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/julienmercier/catalogpulse-backend/api/responses"
	"github.com/julienmercier/catalogpulse-backend/internal/scan"
	"github.com/julienmercier/catalogpulse-backend/pkg/db/models"
	pkgerrors "github.com/julienmercier/catalogpulse-backend/pkg/errors"
	"github.com/julienmercier/catalogpulse-backend/pkg/logger"
)

type scanResponse struct {
	ID         uuid.UUID             `json:"id"`
	Status     string                `json:"status"`
	Total      int                   `json:"total"`
	Processed  int                   `json:"processed"`
	Succeeded  int                   `json:"succeeded"`
	Failed     int                   `json:"failed"`
	Percent    float64               `json:"percent"`
	Message    string                `json:"message,omitempty"`
	Failures   []scanFailureResponse `json:"failures,omitempty"`
	StartedAt  *time.Time            `json:"started_at,omitempty"`
	FinishedAt *time.Time            `json:"finished_at,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
}

type scanFailureResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Reason    string    `json:"reason"`
}

func toScanResponse(job *models.ScanJob) scanResponse {
	resp := scanResponse{
		ID:         job.ID,
		Status:     job.Status.String(),
		Total:      job.Total,
		Processed:  job.Processed,
		Succeeded:  job.Succeeded,
		Failed:     job.Failed,
		Percent:    job.Percent,
		Message:    job.Message,
		StartedAt:  job.StartedAt,
		FinishedAt: job.FinishedAt,
		CreatedAt:  job.CreatedAt,
	}
	for _, failure := range job.Failures {
		resp.Failures = append(resp.Failures, scanFailureResponse{
			ProductID: failure.ProductID,
			Reason:    failure.Reason,
		})
	}
	return resp
}

// StartScan kicks off a full catalog scan. Responds 409 when a scan is
// already in flight.
func StartScan(svc scan.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scan service unavailable"))
			return
		}

		job, err := svc.StartScan(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusAccepted, toScanResponse(job))
	}
}

// GetScan returns a scan job with its per-item failures.
func GetScan(svc scan.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scan service unavailable"))
			return
		}

		scanID, err := uuid.Parse(chi.URLParam(r, "scanID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid scan id"))
			return
		}

		job, err := svc.GetScan(r.Context(), scanID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toScanResponse(job))
	}
}
