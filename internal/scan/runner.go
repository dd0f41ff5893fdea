package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/julienmercier/catalogpulse-backend/internal/scoring"
	"github.com/julienmercier/catalogpulse-backend/pkg/config"
	"github.com/julienmercier/catalogpulse-backend/pkg/db/models"
	"github.com/julienmercier/catalogpulse-backend/pkg/enums"
	pkgerrors "github.com/julienmercier/catalogpulse-backend/pkg/errors"
	"github.com/julienmercier/catalogpulse-backend/pkg/logger"
	"github.com/julienmercier/catalogpulse-backend/pkg/metrics"
)

const (
	defaultChunkSize = 50
	defaultWorkers   = 4
)

type chunkLister interface {
	Count(ctx context.Context) (int64, error)
	ListChunk(ctx context.Context, offset, limit int) ([]models.Product, error)
}

type scoreWriter interface {
	Upsert(ctx context.Context, score *models.PillarScore) error
	UpsertBatch(ctx context.Context, scores []models.PillarScore) error
}

type failureRecorder interface {
	RecordFailure(ctx context.Context, scanID, productID uuid.UUID, reason string) error
}

// Runner walks the full catalog in fixed-size chunks, scores every
// product, and persists the results. A failing item is recorded and
// skipped; the batch keeps going.
type Runner struct {
	catalog  chunkLister
	scores   scoreWriter
	failures failureRecorder
	logg     *logger.Logger
	metrics  *metrics.ScanMetrics

	chunkSize int
	workers   int
	trigger   string
	scoreOne  func(product models.Product, now time.Time) (*models.PillarScore, error)
	now       func() time.Time
}

// NewRunner constructs a scan runner. The trigger label ends up on
// metrics ("api" or "schedule").
func NewRunner(catalog chunkLister, scores scoreWriter, failures failureRecorder, logg *logger.Logger, cfg config.ScanConfig, scanMetrics *metrics.ScanMetrics, trigger string) (*Runner, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if scores == nil {
		return nil, fmt.Errorf("scoring repository required")
	}
	if failures == nil {
		return nil, fmt.Errorf("scan repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Runner{
		catalog:   catalog,
		scores:    scores,
		failures:  failures,
		logg:      logg,
		metrics:   scanMetrics,
		chunkSize: chunkSize,
		workers:   workers,
		trigger:   trigger,
		scoreOne:  scoreProduct,
		now:       time.Now,
	}, nil
}

func scoreProduct(product models.Product, now time.Time) (*models.PillarScore, error) {
	result := scoring.Score(product, now)
	return scoring.ToModel(result)
}

// Run executes one full catalog scan. Cancelling the context stops
// scheduling further chunks; the in-flight chunk finishes and its
// progress is persisted.
func (r *Runner) Run(ctx context.Context, scanID uuid.UUID, sink ProgressSink) (Summary, error) {
	start := r.now()
	ctx = r.logg.WithScanID(ctx, scanID.String())

	total64, err := r.catalog.Count(ctx)
	if err != nil {
		return Summary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting catalog")
	}
	total := int(total64)

	summary := Summary{Total: total}
	if total == 0 {
		summary.Message = "catalog is empty"
		r.finish(ctx, sink, enums.ScanStatusCompleted, summary, start)
		return summary, nil
	}

	cancelled := false
	for offset := 0; offset < total; offset += r.chunkSize {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		products, err := r.catalog.ListChunk(ctx, offset, r.chunkSize)
		if err != nil {
			summary.Message = "scan aborted: catalog unavailable"
			r.finish(ctx, sink, enums.ScanStatusFailed, summary, start)
			return summary, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing catalog chunk")
		}
		if len(products) == 0 {
			break
		}

		succeeded, failed := r.processChunk(ctx, scanID, products)
		summary.Processed += len(products)
		summary.Succeeded += succeeded
		summary.Failed += failed

		r.metrics.IncChunk(r.trigger)
		r.metrics.AddSucceeded(succeeded)
		r.metrics.AddFailed(failed)

		message := fmt.Sprintf("scored %d of %d products", summary.Processed, total)
		if err := sink.ReportProgress(ctx, summary.Processed, total, message); err != nil {
			r.logg.Warn(r.logg.WithField(ctx, "processed", summary.Processed), "failed to report scan progress")
		}
	}

	status := enums.ScanStatusCompleted
	switch {
	case cancelled:
		summary.Message = fmt.Sprintf("scan cancelled after %d of %d products", summary.Processed, total)
	case summary.Processed > 0 && summary.Succeeded == 0:
		status = enums.ScanStatusFailed
		summary.Message = fmt.Sprintf("all %d products failed to score", summary.Processed)
	default:
		summary.Message = fmt.Sprintf("scored %d products, %d failed", summary.Succeeded, summary.Failed)
	}

	r.finish(ctx, sink, status, summary, start)
	return summary, nil
}

// processChunk scores one chunk concurrently and persists the results.
// Returns the per-chunk succeeded and failed counts.
func (r *Runner) processChunk(ctx context.Context, scanID uuid.UUID, products []models.Product) (int, int) {
	computedAt := r.now().UTC()
	rows := make([]*models.PillarScore, len(products))
	itemErrs := make([]error, len(products))

	var group errgroup.Group
	group.SetLimit(r.workers)
	for i := range products {
		i := i
		group.Go(func() error {
			row, err := r.scoreOne(products[i], computedAt)
			if err != nil {
				itemErrs[i] = err
				return nil
			}
			rows[i] = row
			return nil
		})
	}
	_ = group.Wait()

	batch := make([]models.PillarScore, 0, len(products))
	for i := range products {
		if itemErrs[i] == nil {
			batch = append(batch, *rows[i])
		}
	}

	if err := r.scores.UpsertBatch(ctx, batch); err != nil {
		// Batch write failed; retry row by row so one bad record
		// cannot sink the whole chunk.
		for i := range products {
			if itemErrs[i] != nil {
				continue
			}
			if err := r.scores.Upsert(ctx, rows[i]); err != nil {
				itemErrs[i] = fmt.Errorf("persisting score: %w", err)
			}
		}
	}

	succeeded := 0
	for i := range products {
		if itemErrs[i] == nil {
			succeeded++
			continue
		}
		if err := r.failures.RecordFailure(ctx, scanID, products[i].ID, itemErrs[i].Error()); err != nil {
			r.logg.Error(r.logg.WithProductID(ctx, products[i].ID.String()), "failed to record scan item failure", err)
		}
	}

	failed := len(products) - succeeded
	if failed > 0 {
		combined := multierr.Combine(itemErrs...)
		r.logg.Warn(r.logg.WithFields(ctx, map[string]any{
			"failed": failed,
			"errors": combined.Error(),
		}), "chunk finished with item failures")
	}
	return succeeded, failed
}

// finish reports completion on a context that survives cancellation so
// the terminal status is always persisted.
func (r *Runner) finish(ctx context.Context, sink ProgressSink, status enums.ScanStatus, summary Summary, start time.Time) {
	reportCtx := context.WithoutCancel(ctx)
	if err := sink.ReportCompletion(reportCtx, status, summary); err != nil {
		r.logg.Error(reportCtx, "failed to report scan completion", err)
	}
	r.metrics.IncRun(status.String())
	r.metrics.ObserveDuration(r.trigger, r.now().Sub(start))
	r.logg.Info(r.logg.WithFields(reportCtx, map[string]any{
		"status":    status.String(),
		"total":     summary.Total,
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
	}), "catalog scan finished")
}
