package models

import (
	"time"

	"github.com/google/uuid"
)

// ScanItemFailure records one product that failed inside a scan run.
type ScanItemFailure struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ScanID    uuid.UUID `gorm:"column:scan_id;type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Reason    string    `gorm:"column:reason;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ScanItemFailure) TableName() string { return "scan_item_failures" }
