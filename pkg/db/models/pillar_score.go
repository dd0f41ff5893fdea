package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/julienmercier/catalogpulse-backend/pkg/db/types"
)

// PillarScore is the persisted health score of a single product. At most
// one row per product; re-scoring overwrites in place.
type PillarScore struct {
	ProductID        uuid.UUID    `gorm:"column:product_id;type:uuid;primaryKey"`
	TitleScore       int          `gorm:"column:title_score;not null"`
	DescriptionScore int          `gorm:"column:description_score;not null"`
	ImagesScore      int          `gorm:"column:images_score;not null"`
	PricingScore     int          `gorm:"column:pricing_score;not null"`
	IdentifiersScore int          `gorm:"column:identifiers_score;not null"`
	SEOScore         int          `gorm:"column:seo_score;not null"`
	OverallScore     int          `gorm:"column:overall_score;not null"`
	Issues           dbtypes.JSON `gorm:"column:issues;type:jsonb"`
	Recommendations  dbtypes.JSON `gorm:"column:recommendations;type:jsonb"`
	ComputedAt       time.Time    `gorm:"column:computed_at;not null"`
}

func (PillarScore) TableName() string { return "pillar_scores" }
