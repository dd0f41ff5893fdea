package scoring

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/julienmercier/catalogpulse-backend/internal/repo"
	"github.com/julienmercier/catalogpulse-backend/pkg/db/models"
)

// Repository persists pillar scores, one live row per product.
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

// Upsert writes the score row, overwriting any prior result for the
// same product.
func (r *Repository) Upsert(ctx context.Context, score *models.PillarScore) error {
	return r.DB(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			UpdateAll: true,
		},
	).Create(score).Error
}

// UpsertBatch writes a chunk of score rows in one statement.
func (r *Repository) UpsertBatch(ctx context.Context, scores []models.PillarScore) error {
	if len(scores) == 0 {
		return nil
	}
	return r.DB(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			UpdateAll: true,
		},
	).Create(&scores).Error
}

// FindByProductID loads the current persisted score for a product.
func (r *Repository) FindByProductID(ctx context.Context, productID uuid.UUID) (*models.PillarScore, error) {
	var score models.PillarScore
	if err := r.DB(ctx).First(&score, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &score, nil
}
