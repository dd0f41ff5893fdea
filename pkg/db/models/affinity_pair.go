package models

import (
	"time"

	"github.com/google/uuid"
)

// AffinityPair records how often two products were bought together.
// ProductA sorts lexicographically before ProductB so each unordered
// pair maps to exactly one row.
type AffinityPair struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductA     uuid.UUID `gorm:"column:product_a;type:uuid;not null;uniqueIndex:idx_affinity_pair"`
	ProductB     uuid.UUID `gorm:"column:product_b;type:uuid;not null;uniqueIndex:idx_affinity_pair"`
	CoOccurrence int       `gorm:"column:co_occurrence;not null"`
	Score        int       `gorm:"column:score;not null"`
	ComputedAt   time.Time `gorm:"column:computed_at;not null"`
}

func (AffinityPair) TableName() string { return "affinity_pairs" }
