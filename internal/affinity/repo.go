package affinity

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/julienmercier/catalogpulse-backend/internal/repo"
	"github.com/julienmercier/catalogpulse-backend/pkg/db/models"
)

// Repository reads order baskets and persists ranked pairs.
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

// ListBaskets returns the product id sets of all historical orders.
func (r *Repository) ListBaskets(ctx context.Context) ([][]uuid.UUID, error) {
	var rows []models.OrderProduct
	err := r.DB(ctx).
		Order("order_id ASC, product_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	var baskets [][]uuid.UUID
	var current uuid.UUID
	var basket []uuid.UUID
	for _, row := range rows {
		if row.OrderID != current {
			if len(basket) > 0 {
				baskets = append(baskets, basket)
			}
			current = row.OrderID
			basket = nil
		}
		basket = append(basket, row.ProductID)
	}
	if len(basket) > 0 {
		baskets = append(baskets, basket)
	}
	return baskets, nil
}

// ReplaceTopPairs makes the stored set exactly the supplied ranking:
// rows that fell out of the ranking are deleted in the same
// transaction as the upsert.
func (r *Repository) ReplaceTopPairs(ctx context.Context, pairs []models.AffinityPair) error {
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if len(pairs) == 0 {
			return tx.Where("1 = 1").Delete(&models.AffinityPair{}).Error
		}

		keys := make([][]any, 0, len(pairs))
		for i := range pairs {
			if pairs[i].ID == uuid.Nil {
				pairs[i].ID = uuid.New()
			}
			keys = append(keys, []any{pairs[i].ProductA, pairs[i].ProductB})
		}

		err := tx.Where("(product_a, product_b) NOT IN ?", keys).
			Delete(&models.AffinityPair{}).Error
		if err != nil {
			return err
		}

		return tx.Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "product_a"}, {Name: "product_b"}},
				DoUpdates: clause.AssignmentColumns(
					[]string{"co_occurrence", "score", "computed_at"}),
			},
		).Create(&pairs).Error
	})
}

// TopPairs returns the highest-ranked persisted pairs.
func (r *Repository) TopPairs(ctx context.Context, limit int) ([]models.AffinityPair, error) {
	var pairs []models.AffinityPair
	err := r.DB(ctx).
		Order("co_occurrence DESC, product_a ASC, product_b ASC").
		Limit(limit).
		Find(&pairs).Error
	if err != nil {
		return nil, err
	}
	return pairs, nil
}
