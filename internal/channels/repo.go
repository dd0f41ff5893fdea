package channels

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/julienmercier/catalogpulse-backend/internal/repo"
	"github.com/julienmercier/catalogpulse-backend/pkg/db/models"
)

// Repository persists channel diagnostic reports as immutable snapshots.
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

// CreateReport inserts the report header. Items are written separately
// so large runs can batch them.
func (r *Repository) CreateReport(ctx context.Context, report *models.ChannelReport) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	return r.DB(ctx).Omit("Items").Create(report).Error
}

// CreateItems inserts the triggered-rule rows for a report.
func (r *Repository) CreateItems(ctx context.Context, items []models.ChannelReportItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	return r.DB(ctx).CreateInBatches(items, 200).Error
}

// FindReport loads a report with its items.
func (r *Repository) FindReport(ctx context.Context, id uuid.UUID) (*models.ChannelReport, error) {
	var report models.ChannelReport
	if err := r.DB(ctx).Preload("Items").First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}
