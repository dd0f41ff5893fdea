package scan

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/julienmercier/catalogpulse-backend/pkg/enums"
)

// Summary aggregates the outcome of one scan run.
type Summary struct {
	Total     int
	Processed int
	Succeeded int
	Failed    int
	Message   string
}

// Percent reports completion as a percentage rounded to two decimals.
// An empty catalog counts as fully processed.
func (s Summary) Percent() float64 {
	return progressPercent(s.Processed, s.Total)
}

func progressPercent(processed, total int) float64 {
	if total <= 0 {
		return 100
	}
	return math.Round(float64(processed)/float64(total)*10000) / 100
}

// ProgressSink receives progress updates as a scan walks the catalog.
// The runner calls it after every chunk and once at the end; a sink
// error never aborts the scan.
type ProgressSink interface {
	ReportProgress(ctx context.Context, processed, total int, message string) error
	ReportCompletion(ctx context.Context, status enums.ScanStatus, summary Summary) error
}

// RepoSink persists progress into the scan job row.
type RepoSink struct {
	repo   *Repository
	scanID uuid.UUID
	now    func() time.Time
}

// NewRepoSink binds a sink to one scan job.
func NewRepoSink(repo *Repository, scanID uuid.UUID) (*RepoSink, error) {
	if repo == nil {
		return nil, errors.New("scan repository required")
	}
	if scanID == uuid.Nil {
		return nil, errors.New("scan id required")
	}
	return &RepoSink{repo: repo, scanID: scanID, now: time.Now}, nil
}

func (s *RepoSink) ReportProgress(ctx context.Context, processed, total int, message string) error {
	return s.repo.UpdateProgress(ctx, s.scanID, processed, total, progressPercent(processed, total), message)
}

func (s *RepoSink) ReportCompletion(ctx context.Context, status enums.ScanStatus, summary Summary) error {
	return s.repo.Complete(ctx, s.scanID, status, summary, s.now().UTC())
}
