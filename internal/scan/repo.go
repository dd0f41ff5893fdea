package scan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/julienmercier/catalogpulse-backend/internal/repo"
	"github.com/julienmercier/catalogpulse-backend/pkg/db/models"
	"github.com/julienmercier/catalogpulse-backend/pkg/enums"
)

// Repository persists scan jobs and their per-item failures.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// CreateJob inserts a pending scan job.
func (r *Repository) CreateJob(ctx context.Context) (*models.ScanJob, error) {
	job := &models.ScanJob{
		ID:     uuid.New(),
		Status: enums.ScanStatusPending,
	}
	if err := r.DB(ctx).Omit("Failures").Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

// MarkRunning flips the job to running and stamps the start time.
func (r *Repository) MarkRunning(ctx context.Context, id uuid.UUID, startedAt time.Time) error {
	return r.DB(ctx).Model(&models.ScanJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     enums.ScanStatusRunning,
			"started_at": startedAt,
		}).Error
}

// UpdateProgress writes the monotonic processed count and message.
func (r *Repository) UpdateProgress(ctx context.Context, id uuid.UUID, processed, total int, percent float64, message string) error {
	return r.DB(ctx).Model(&models.ScanJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"processed": processed,
			"total":     total,
			"percent":   percent,
			"message":   message,
		}).Error
}

// Complete stamps the terminal status and final counters.
func (r *Repository) Complete(ctx context.Context, id uuid.UUID, status enums.ScanStatus, summary Summary, finishedAt time.Time) error {
	return r.DB(ctx).Model(&models.ScanJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      status,
			"total":       summary.Total,
			"processed":   summary.Processed,
			"succeeded":   summary.Succeeded,
			"failed":      summary.Failed,
			"percent":     summary.Percent(),
			"message":     summary.Message,
			"finished_at": finishedAt,
		}).Error
}

// RecordFailure stores one failed item so it stays individually
// inspectable.
func (r *Repository) RecordFailure(ctx context.Context, scanID, productID uuid.UUID, reason string) error {
	failure := models.ScanItemFailure{
		ID:        uuid.New(),
		ScanID:    scanID,
		ProductID: productID,
		Reason:    reason,
	}
	return r.DB(ctx).Create(&failure).Error
}

// FindJob loads a job with its failures.
func (r *Repository) FindJob(ctx context.Context, id uuid.UUID) (*models.ScanJob, error) {
	var job models.ScanJob
	if err := r.DB(ctx).Preload("Failures").First(&job, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}
